package supabase

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/depeter/lookbook/internal/suggest"
)

// ObjectPath builds a unique object name under the user's folder, keeping the
// file extension.
func ObjectPath(userID, fileName string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(fileName), "."))
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("%s/%s.%s", userID, uuid.NewString(), ext)
}

// PublicURL returns the public URL of an object in the image bucket.
func (c *Client) PublicURL(objectPath string) string {
	return fmt.Sprintf("%s%s/%s/%s", c.baseURL, pathPublic, c.bucket, objectPath)
}

// UploadImage stores data in the image bucket and returns its public URL.
func (c *Client) UploadImage(userID, fileName string, data []byte) (string, error) {
	objectPath := ObjectPath(userID, fileName)
	err := c.do(request{
		method:      http.MethodPost,
		path:        fmt.Sprintf("%s/%s/%s", pathObject, c.bucket, objectPath),
		body:        bytes.NewReader(data),
		contentType: http.DetectContentType(data),
	}, nil)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", fileName, err)
	}
	return c.PublicURL(objectPath), nil
}

// Suggest asks the suggestion function to describe an item photo.
func (c *Client) Suggest(data []byte) (*suggest.Suggestion, error) {
	body, err := jsonBody(suggest.Request{
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MediaType:   http.DetectContentType(data),
	})
	if err != nil {
		return nil, err
	}
	var s suggest.Suggestion
	err = c.do(request{
		method:      http.MethodPost,
		path:        c.suggestURL,
		body:        body,
		contentType: "application/json",
	}, &s)
	if err != nil {
		return nil, fmt.Errorf("suggest: %w", err)
	}
	return &s, nil
}

// AddPhoto uploads a photo and inserts it as a new in-stock item of the
// signed-in vendor. With describe set, the suggestion function names the
// item first; a failed suggestion leaves it unnamed. The upload and the
// insert each refresh an expired session and retry on their own, so a
// retried insert reuses the uploaded object.
func (c *Client) AddPhoto(fileName string, data []byte, describe bool) (*Item, error) {
	userID := c.Session().UserID
	if userID == "" {
		return nil, fmt.Errorf("add photo: %w", ErrUnauthorized)
	}
	var imageURL string
	err := c.WithRefresh(func() error {
		var err error
		imageURL, err = c.UploadImage(userID, fileName, data)
		return err
	})
	if err != nil {
		return nil, err
	}
	ni := NewItem{VendorID: userID, ImageURL: imageURL, Status: StatusInStock}
	if describe {
		s, err := c.Suggest(data)
		if err != nil {
			log.Printf("No suggestion for %s: %v", fileName, err)
		} else {
			ni.Name = optional(s.Name)
			ni.Description = optional(s.Description)
			ni.Size = optional(s.Size())
		}
	}
	var it *Item
	err = c.WithRefresh(func() error {
		var err error
		it, err = c.InsertItem(ni)
		return err
	})
	if err != nil {
		return nil, err
	}
	return it, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
