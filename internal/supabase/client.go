package supabase

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// API endpoint paths.
const (
	pathToken     = "/auth/v1/token"
	pathLogout    = "/auth/v1/logout"
	pathItems     = "/rest/v1/items"
	pathObject    = "/storage/v1/object"
	pathPublic    = "/storage/v1/object/public"
	pathFunctions = "/functions/v1"
)

// ErrUnauthorized is wrapped by errors for 401 responses.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-2xx response.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error %d: %s", e.Status, e.Body)
}

func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// Client is a lightweight HTTP client for a Supabase project's auth, REST,
// storage and function endpoints.
type Client struct {
	baseURL    string
	anonKey    string
	bucket     string
	suggestURL string
	httpClient *http.Client

	mu        sync.RWMutex
	session   Session
	onSession func(Session)
}

// NewClient creates a client for the project at baseURL.
func NewClient(baseURL, anonKey string) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "https://" + baseURL
	}
	return &Client{
		baseURL:    baseURL,
		anonKey:    anonKey,
		bucket:     "item-images",
		suggestURL: baseURL + pathFunctions + "/groq-suggest",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// SetBucket selects the storage bucket for item images.
func (c *Client) SetBucket(bucket string) {
	if bucket != "" {
		c.bucket = bucket
	}
}

// SetSuggestURL overrides the suggestion endpoint.
func (c *Client) SetSuggestURL(u string) {
	if u != "" {
		c.suggestURL = u
	}
}

func (c *Client) SetSession(s Session) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

// OnSessionChange registers fn to run after sign-in, refresh and sign-out,
// typically to persist the tokens. fn may be called from any goroutine.
func (c *Client) OnSessionChange(fn func(Session)) {
	c.mu.Lock()
	c.onSession = fn
	c.mu.Unlock()
}

func (c *Client) sessionChanged(s Session) {
	c.SetSession(s)
	c.mu.RLock()
	fn := c.onSession
	c.mu.RUnlock()
	if fn != nil {
		fn(s)
	}
}

func (c *Client) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

func (c *Client) BaseURL() string { return c.baseURL }

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	header      http.Header
}

// jsonBody marshals v into a request body.
func jsonBody(v interface{}) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal body: %w", err)
	}
	return bytes.NewReader(b), nil
}

// do performs an authenticated request and decodes a JSON response into dst
// when dst is non-nil.
func (c *Client) do(r request, dst interface{}) error {
	u := r.path
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		u = c.baseURL + u
	}
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	req, err := http.NewRequest(r.method, u, r.body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, vs := range r.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("apikey", c.anonKey)
	bearer := c.anonKey
	if tok := c.Session().AccessToken; tok != "" {
		bearer = tok
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if dst != nil {
		return json.NewDecoder(resp.Body).Decode(dst)
	}
	return nil
}
