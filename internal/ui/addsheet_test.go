package ui

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depeter/lookbook/internal/supabase"
)

func TestSplitPaths(t *testing.T) {
	got := splitPaths(" a.jpg, \"b c.png\"\n'd.webp' ,, \n")
	assert.Equal(t, []string{"a.jpg", "b c.png", "d.webp"}, got)
	assert.Empty(t, splitPaths(" , \n"))

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(home, "shop", "x.jpg")}, splitPaths("~/shop/x.jpg"))
}

func TestAppendPaths(t *testing.T) {
	assert.Equal(t, "a.jpg", appendPaths("", []string{"a.jpg"}))
	assert.Equal(t, "a.jpg, b.png", appendPaths("a.jpg,", []string{"b.png"}))
	assert.Equal(t, `a.jpg, "x,y.png"`, appendPaths("a.jpg", []string{"x,y.png"}))
	assert.Equal(t, []string{"a.jpg", "x,y.png"}, splitPaths(appendPaths("a.jpg", []string{"x,y.png"})))
}

func TestWithoutPaths(t *testing.T) {
	assert.Equal(t, `c.jpg, "x,y.png"`, withoutPaths(`a.jpg, c.jpg, "x,y.png"`, []string{"a.jpg"}))
	assert.Equal(t, "", withoutPaths("a.jpg", []string{"a.jpg"}))
	assert.Equal(t, "a.jpg", withoutPaths("a.jpg", nil))
}

func TestUploadFailureKeepsOnlyUnsentPaths(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/rest/v1/items") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`[{"id":"new","status":"in_stock"}]`))
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	client := supabase.NewClient(srv.URL, "anon-key")
	client.SetSession(supabase.Session{AccessToken: "tok", UserID: "u1"})

	dir := t.TempDir()
	sent := filepath.Join(dir, "sent.jpg")
	require.NoError(t, os.WriteFile(sent, []byte("\xff\xd8\xff\xe0"), 0o644))
	missing := filepath.Join(dir, "missing.jpg")

	s := NewAddItemScreen(client, false)
	s.paths = NewTextInput(appendPaths("", []string{sent, missing}))
	s.uploading = true
	s.upload(s.pathFiles())

	assert.Equal(t, 1, s.added)
	assert.False(t, s.uploading)
	assert.NotEmpty(t, s.errMsg)

	s.dropStored()
	assert.Equal(t, []string{missing}, splitPaths(s.paths.Text))
}

func TestProgressText(t *testing.T) {
	assert.Equal(t, "uploading...", progressText(0, 1))
	assert.Equal(t, "uploading 1 of 3...", progressText(0, 3))
	assert.Equal(t, "uploading 3 of 3...", progressText(2, 3))
	assert.Equal(t, "uploading 3 of 3...", progressText(3, 3))
}

func TestPhotoFileRead(t *testing.T) {
	data, err := photoFile{Name: "clip.png", Data: []byte{1, 2}}.read()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, data)

	path := filepath.Join(t.TempDir(), "p.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0o644))
	data, err = photoFile{Name: "p.jpg", Path: path}.read()
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg"), data)

	_, err = photoFile{Path: filepath.Join(t.TempDir(), "missing.jpg")}.read()
	assert.Error(t, err)
}

func TestAddItemScreenNotifiesOnce(t *testing.T) {
	s := NewAddItemScreen(nil, false)
	var calls []int
	s.OnAdded = func(n int) { calls = append(calls, n) }

	s.notifyAdded()
	assert.Empty(t, calls, "nothing added yet")

	s = NewAddItemScreen(nil, false)
	s.OnAdded = func(n int) { calls = append(calls, n) }
	s.added = 2
	s.close()
	s.close()
	s.notifyAdded()
	assert.Equal(t, []int{2}, calls)
	assert.True(t, s.IsOverlay())
}
