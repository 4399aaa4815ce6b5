package supabase

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// fakeProject records requests and answers each with the reply registered
// for its method and path.
type fakeProject struct {
	mu      sync.Mutex
	reqs    []recorded
	replies map[string]func(w http.ResponseWriter)
}

func newFakeProject(t *testing.T) (*fakeProject, *Client) {
	t.Helper()
	fp := &fakeProject{replies: map[string]func(w http.ResponseWriter){}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		fp.mu.Lock()
		fp.reqs = append(fp.reqs, recorded{r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Clone(), body})
		reply := fp.replies[r.Method+" "+r.URL.Path]
		fp.mu.Unlock()
		if reply == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		reply(w)
	}))
	t.Cleanup(srv.Close)
	return fp, NewClient(srv.URL+"/", "anon-key")
}

func (fp *fakeProject) on(method, path string, status int, body string) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.replies[method+" "+path] = func(w http.ResponseWriter) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

func (fp *fakeProject) last(t *testing.T) recorded {
	t.Helper()
	fp.mu.Lock()
	defer fp.mu.Unlock()
	require.NotEmpty(t, fp.reqs)
	return fp.reqs[len(fp.reqs)-1]
}

const tokenJSON = `{"access_token":"tok","refresh_token":"ref","expires_in":3600,"user":{"id":"u1","email":"v@example.com"}}`

func TestNewClientNormalizesURL(t *testing.T) {
	c := NewClient("  abc.supabase.co/ ", "k")
	assert.Equal(t, "https://abc.supabase.co", c.BaseURL())
}

func TestSignIn(t *testing.T) {
	fp, c := newFakeProject(t)
	fp.on(http.MethodPost, pathToken, http.StatusOK, tokenJSON)

	s, err := c.SignIn("v@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", s.AccessToken)
	assert.Equal(t, "u1", s.UserID)
	assert.True(t, s.ExpiresAt.After(time.Now()))
	assert.Equal(t, s, c.Session())

	req := fp.last(t)
	assert.Equal(t, "grant_type=password", req.Query)
	assert.Equal(t, "anon-key", req.Header.Get("apikey"))
	assert.Equal(t, "Bearer anon-key", req.Header.Get("Authorization"))
	assert.JSONEq(t, `{"email":"v@example.com","password":"pw"}`, string(req.Body))
}

func TestSignInRejected(t *testing.T) {
	fp, c := newFakeProject(t)
	fp.on(http.MethodPost, pathToken, http.StatusBadRequest, `{"error":"invalid_grant"}`)

	_, err := c.SignIn("v@example.com", "nope")
	require.Error(t, err)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.False(t, c.Session().Valid())
}

func TestRefresh(t *testing.T) {
	fp, c := newFakeProject(t)
	_, err := c.Refresh()
	assert.ErrorIs(t, err, ErrUnauthorized)

	c.SetSession(Session{AccessToken: "old", RefreshToken: "ref", UserID: "u1"})
	fp.on(http.MethodPost, pathToken, http.StatusOK, tokenJSON)
	s, err := c.Refresh()
	require.NoError(t, err)
	assert.Equal(t, "tok", s.AccessToken)

	req := fp.last(t)
	assert.Equal(t, "grant_type=refresh_token", req.Query)
	assert.JSONEq(t, `{"refresh_token":"ref"}`, string(req.Body))
}

func TestSignOutClearsSession(t *testing.T) {
	fp, c := newFakeProject(t)
	c.SetSession(Session{AccessToken: "tok", UserID: "u1"})
	fp.on(http.MethodPost, pathLogout, http.StatusInternalServerError, `boom`)

	err := c.SignOut()
	assert.Error(t, err)
	assert.False(t, c.Session().Valid())
	assert.Equal(t, "Bearer tok", fp.last(t).Header.Get("Authorization"))
}

func TestUnauthorizedWrapsSentinel(t *testing.T) {
	fp, c := newFakeProject(t)
	fp.on(http.MethodGet, pathItems, http.StatusUnauthorized, `{"message":"JWT expired"}`)

	_, err := c.ListInStock()
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Contains(t, err.Error(), "JWT expired")
}

func TestListQueries(t *testing.T) {
	fp, c := newFakeProject(t)
	fp.on(http.MethodGet, pathItems, http.StatusOK, `[
		{"id":"a","vendor_id":"u1","image_url":"https://x/a.jpg","name":"Brass Owl","status":"in_stock","quantity_available":1,"created_at":"2024-05-01T10:00:00Z","updated_at":"2024-05-01T10:00:00Z"},
		{"id":"b","vendor_id":"u1","image_url":"https://x/b.jpg","name":null,"status":"in_stock","quantity_available":1,"created_at":"2024-04-01T10:00:00Z","updated_at":"2024-04-01T10:00:00Z"}
	]`)

	items, err := c.ListInStock()
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Brass Owl", items[0].DisplayName())
	assert.Equal(t, "", items[1].DisplayName())
	assert.Nil(t, items[1].ArchivedAt)
	assert.Equal(t, "order=created_at.desc&select=%2A&status=eq.in_stock", fp.last(t).Query)

	_, err = c.ListArchived()
	require.NoError(t, err)
	assert.Equal(t, "order=archived_at.desc&select=%2A&status=eq.archived", fp.last(t).Query)
}

func TestArchiveItem(t *testing.T) {
	fp, c := newFakeProject(t)
	at := time.Date(2024, 6, 1, 12, 30, 0, 0, time.FixedZone("x", 2*3600))

	require.NoError(t, c.ArchiveItem("item-1", at))
	req := fp.last(t)
	assert.Equal(t, http.MethodPatch, req.Method)
	assert.Equal(t, "id=eq.item-1", req.Query)
	assert.Equal(t, "return=minimal", req.Header.Get("Prefer"))
	assert.JSONEq(t, `{"status":"archived","archived_at":"2024-06-01T10:30:00Z"}`, string(req.Body))
}

func TestInsertItem(t *testing.T) {
	fp, c := newFakeProject(t)
	fp.on(http.MethodPost, pathItems, http.StatusCreated,
		`[{"id":"new","vendor_id":"u1","image_url":"https://x/n.jpg","status":"in_stock","quantity_available":1,"created_at":"2024-05-01T10:00:00Z","updated_at":"2024-05-01T10:00:00Z"}]`)

	name := "Faded Indigo"
	it, err := c.InsertItem(NewItem{VendorID: "u1", ImageURL: "https://x/n.jpg", Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "new", it.ID)

	req := fp.last(t)
	assert.Equal(t, "return=representation", req.Header.Get("Prefer"))
	assert.JSONEq(t, `{"vendor_id":"u1","image_url":"https://x/n.jpg","status":"in_stock","name":"Faded Indigo"}`, string(req.Body))
}

func TestObjectPath(t *testing.T) {
	p := ObjectPath("u1", "IMG_0001.JPEG")
	assert.True(t, strings.HasPrefix(p, "u1/"))
	assert.True(t, strings.HasSuffix(p, ".jpeg"))
	assert.Len(t, p, len("u1/")+36+len(".jpeg"))
	assert.NotEqual(t, p, ObjectPath("u1", "IMG_0001.JPEG"))
	assert.True(t, strings.HasSuffix(ObjectPath("u1", "noext"), ".jpg"))
}

func TestUploadImage(t *testing.T) {
	fp, c := newFakeProject(t)
	c.SetBucket("rack")
	png := []byte("\x89PNG\r\n\x1a\n0000")

	u, err := c.UploadImage("u1", "shot.png", png)
	require.NoError(t, err)

	req := fp.last(t)
	assert.True(t, strings.HasPrefix(req.Path, pathObject+"/rack/u1/"))
	assert.Equal(t, "image/png", req.Header.Get("Content-Type"))
	assert.Equal(t, png, req.Body)
	objectPath := strings.TrimPrefix(req.Path, pathObject+"/rack/")
	assert.Equal(t, c.BaseURL()+pathPublic+"/rack/"+objectPath, u)
}

func TestSuggest(t *testing.T) {
	fp, c := newFakeProject(t)
	fp.on(http.MethodPost, pathFunctions+"/groq-suggest", http.StatusOK,
		`{"name":"Brass Owl Bookend","description":"Heavy.","suggested_size":null}`)
	img := []byte("\xff\xd8\xff\xe0jpegdata")

	s, err := c.Suggest(img)
	require.NoError(t, err)
	assert.Equal(t, "Brass Owl Bookend", s.Name)
	assert.Equal(t, "", s.Size())

	var body map[string]string
	require.NoError(t, json.Unmarshal(fp.last(t).Body, &body))
	assert.Equal(t, "image/jpeg", body["mediaType"])
	assert.Equal(t, base64.StdEncoding.EncodeToString(img), body["imageBase64"])
}

func TestWithRefreshRetriesOnce(t *testing.T) {
	fp, c := newFakeProject(t)
	c.SetSession(Session{AccessToken: "old", RefreshToken: "ref", UserID: "u1"})
	fp.on(http.MethodPost, pathToken, http.StatusOK, tokenJSON)

	var saved []Session
	c.OnSessionChange(func(s Session) { saved = append(saved, s) })

	calls := 0
	err := c.WithRefresh(func() error {
		calls++
		if c.Session().AccessToken == "old" {
			return &APIError{Status: http.StatusUnauthorized}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, saved, 1)
	assert.Equal(t, "tok", saved[0].AccessToken)
}

func TestWithRefreshGivesUp(t *testing.T) {
	fp, c := newFakeProject(t)
	c.SetSession(Session{AccessToken: "old", RefreshToken: "ref", UserID: "u1"})
	fp.on(http.MethodPost, pathToken, http.StatusBadRequest, `{"error":"invalid_grant"}`)

	calls := 0
	err := c.WithRefresh(func() error {
		calls++
		return &APIError{Status: http.StatusUnauthorized, Body: "expired"}
	})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, calls)

	calls = 0
	err = c.WithRefresh(func() error {
		calls++
		return errors.New("offline")
	})
	assert.EqualError(t, err, "offline")
	assert.Equal(t, 1, calls)
}

func TestSignOutNotifies(t *testing.T) {
	_, c := newFakeProject(t)
	c.SetSession(Session{AccessToken: "tok", UserID: "u1"})
	var got *Session
	c.OnSessionChange(func(s Session) { got = &s })

	require.NoError(t, c.SignOut())
	require.NotNil(t, got)
	assert.False(t, got.Valid())
}

func TestAddPhoto(t *testing.T) {
	fp, c := newFakeProject(t)
	_, err := c.AddPhoto("a.jpg", []byte("x"), false)
	assert.ErrorIs(t, err, ErrUnauthorized)

	c.SetSession(Session{AccessToken: "tok", UserID: "u1"})
	fp.on(http.MethodPost, pathFunctions+"/groq-suggest", http.StatusOK,
		`{"name":"Brass Owl","description":"  ","suggested_size":"M"}`)
	fp.on(http.MethodPost, pathItems, http.StatusCreated,
		`[{"id":"new","vendor_id":"u1","image_url":"x","status":"in_stock","quantity_available":1,"created_at":"2024-05-01T10:00:00Z","updated_at":"2024-05-01T10:00:00Z"}]`)

	it, err := c.AddPhoto("a.jpg", []byte("\xff\xd8\xff\xe0"), true)
	require.NoError(t, err)
	assert.Equal(t, "new", it.ID)

	var row map[string]any
	require.NoError(t, json.Unmarshal(fp.last(t).Body, &row))
	assert.Equal(t, "u1", row["vendor_id"])
	assert.Equal(t, "in_stock", row["status"])
	assert.Equal(t, "Brass Owl", row["name"])
	assert.Equal(t, "M", row["size"])
	assert.NotContains(t, row, "description")
	assert.Contains(t, row["image_url"], pathPublic+"/item-images/u1/")
}

func TestAddPhotoWithoutSuggestion(t *testing.T) {
	fp, c := newFakeProject(t)
	c.SetSession(Session{AccessToken: "tok", UserID: "u1"})
	fp.on(http.MethodPost, pathFunctions+"/groq-suggest", http.StatusBadGateway, `{"error":"down"}`)
	fp.on(http.MethodPost, pathItems, http.StatusCreated, `[{"id":"new","status":"in_stock"}]`)

	_, err := c.AddPhoto("a.png", []byte("\x89PNG\r\n\x1a\n"), true)
	require.NoError(t, err)

	var row map[string]any
	require.NoError(t, json.Unmarshal(fp.last(t).Body, &row))
	assert.NotContains(t, row, "name")
}

func TestAddPhotoRetriesOnlyInsert(t *testing.T) {
	fp, c := newFakeProject(t)
	c.SetSession(Session{AccessToken: "old", RefreshToken: "ref", UserID: "u1"})
	fp.on(http.MethodPost, pathToken, http.StatusOK, tokenJSON)
	fp.on(http.MethodPost, pathFunctions+"/groq-suggest", http.StatusOK, `{"name":"Brass Owl"}`)
	inserts := 0
	fp.replies[http.MethodPost+" "+pathItems] = func(w http.ResponseWriter) {
		inserts++
		w.Header().Set("Content-Type", "application/json")
		if inserts == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"JWT expired"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"id":"new","status":"in_stock"}]`))
	}

	it, err := c.AddPhoto("a.jpg", []byte("\xff\xd8\xff\xe0"), true)
	require.NoError(t, err)
	assert.Equal(t, "new", it.ID)
	assert.Equal(t, "tok", c.Session().AccessToken)

	fp.mu.Lock()
	defer fp.mu.Unlock()
	counts := map[string]int{}
	var urls []string
	for _, r := range fp.reqs {
		if r.Method != http.MethodPost {
			continue
		}
		switch {
		case strings.HasPrefix(r.Path, pathObject+"/"):
			counts["upload"]++
		case r.Path == pathFunctions+"/groq-suggest":
			counts["suggest"]++
		case r.Path == pathItems:
			counts["insert"]++
			var row map[string]any
			require.NoError(t, json.Unmarshal(r.Body, &row))
			urls = append(urls, row["image_url"].(string))
		}
	}
	assert.Equal(t, map[string]int{"upload": 1, "suggest": 1, "insert": 2}, counts)
	require.Len(t, urls, 2)
	assert.Equal(t, urls[0], urls[1])
}
