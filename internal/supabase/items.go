package supabase

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Item status values.
const (
	StatusInStock  = "in_stock"
	StatusArchived = "archived"
)

// Item is a row of the items table.
type Item struct {
	ID                string     `json:"id"`
	VendorID          string     `json:"vendor_id"`
	ImageURL          string     `json:"image_url"`
	Name              *string    `json:"name"`
	Description       *string    `json:"description"`
	Size              *string    `json:"size"`
	Price             *float64   `json:"price"`
	QuantityAvailable int        `json:"quantity_available"`
	Status            string     `json:"status"`
	CollectionID      *string    `json:"collection_id"`
	ArchivedAt        *time.Time `json:"archived_at"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// DisplayName returns the item name or "" when unnamed.
func (it Item) DisplayName() string {
	if it.Name == nil {
		return ""
	}
	return *it.Name
}

func (it Item) DisplayDescription() string {
	if it.Description == nil {
		return ""
	}
	return *it.Description
}

func (it Item) DisplaySize() string {
	if it.Size == nil {
		return ""
	}
	return *it.Size
}

// NewItem is the insert payload for a freshly photographed item.
type NewItem struct {
	VendorID    string  `json:"vendor_id"`
	ImageURL    string  `json:"image_url"`
	Status      string  `json:"status"`
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Size        *string `json:"size,omitempty"`
}

// ListInStock returns the rack, newest first.
func (c *Client) ListInStock() ([]Item, error) {
	return c.listItems(StatusInStock, "created_at.desc")
}

// ListArchived returns archived items, most recently archived first.
func (c *Client) ListArchived() ([]Item, error) {
	return c.listItems(StatusArchived, "archived_at.desc")
}

func (c *Client) listItems(status, order string) ([]Item, error) {
	v := url.Values{}
	v.Set("select", "*")
	v.Set("status", "eq."+status)
	v.Set("order", order)
	var items []Item
	if err := c.do(request{method: http.MethodGet, path: pathItems, query: v}, &items); err != nil {
		return nil, fmt.Errorf("list %s items: %w", status, err)
	}
	return items, nil
}

// ArchiveItem marks an item out of stock.
func (c *Client) ArchiveItem(id string, at time.Time) error {
	body, err := jsonBody(map[string]string{
		"status":      StatusArchived,
		"archived_at": at.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	err = c.do(request{
		method:      http.MethodPatch,
		path:        pathItems,
		query:       url.Values{"id": {"eq." + id}},
		body:        body,
		contentType: "application/json",
		header:      http.Header{"Prefer": {"return=minimal"}},
	}, nil)
	if err != nil {
		return fmt.Errorf("archive item %s: %w", id, err)
	}
	return nil
}

// InsertItem creates an item and returns the stored row.
func (c *Client) InsertItem(it NewItem) (*Item, error) {
	if it.Status == "" {
		it.Status = StatusInStock
	}
	body, err := jsonBody(it)
	if err != nil {
		return nil, err
	}
	var rows []Item
	err = c.do(request{
		method:      http.MethodPost,
		path:        pathItems,
		body:        body,
		contentType: "application/json",
		header:      http.Header{"Prefer": {"return=representation"}},
	}, &rows)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert item: empty response")
	}
	return &rows[0], nil
}
