package cache

import (
	"crypto/sha256"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

var httpClient = &http.Client{Timeout: 20 * time.Second}

// Defaults for NewImageCache.
const (
	DefaultMaxEdge    = 1024
	DefaultMaxEntries = 96
	maxDownloads      = 6
)

// ImageCache provides disk + memory caching for item photos. Photos are
// downscaled so the longer edge fits MaxEdge before they become GPU images,
// and the memory tier keeps at most MaxEntries images, evicting the least
// recently used.
type ImageCache struct {
	cacheDir string
	memory   *lru.Cache[string, *ebiten.Image]

	mu      sync.Mutex
	maxEdge int
	loading map[string]*loadEntry // in-flight dedup with waiters

	sem chan struct{}
}

// loadEntry tracks in-flight downloads and their waiters.
type loadEntry struct {
	callbacks []func(*ebiten.Image)
}

// NewImageCache creates a new image cache with the given disk directory.
func NewImageCache(cacheDir string) (*ImageCache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, err
	}
	memory, err := lru.NewWithEvict(DefaultMaxEntries, func(_ string, img *ebiten.Image) {
		if img != nil {
			img.Deallocate()
		}
	})
	if err != nil {
		return nil, err
	}
	return &ImageCache{
		cacheDir: cacheDir,
		memory:   memory,
		maxEdge:  DefaultMaxEdge,
		loading:  make(map[string]*loadEntry),
		sem:      make(chan struct{}, maxDownloads),
	}, nil
}

// SetLimits changes the downscale edge and memory entry cap. Non-positive
// values keep the current setting.
func (ic *ImageCache) SetLimits(maxEdge, maxEntries int) {
	if maxEdge > 0 {
		ic.mu.Lock()
		ic.maxEdge = maxEdge
		ic.mu.Unlock()
	}
	if maxEntries > 0 {
		ic.memory.Resize(maxEntries)
	}
}

// Get returns a cached image if available, or nil.
func (ic *ImageCache) Get(url string) *ebiten.Image {
	img, _ := ic.memory.Get(url)
	return img
}

// LoadAsync starts loading an image from URL in the background.
// The callback is called with the image when ready (may be called from a goroutine).
// Failed loads never call back.
func (ic *ImageCache) LoadAsync(url string, callback func(*ebiten.Image)) {
	if url == "" {
		return
	}
	if img, ok := ic.memory.Get(url); ok {
		callback(img)
		return
	}
	ic.mu.Lock()
	if le, ok := ic.loading[url]; ok {
		le.callbacks = append(le.callbacks, callback)
		ic.mu.Unlock()
		return
	}
	le := &loadEntry{callbacks: []func(*ebiten.Image){callback}}
	ic.loading[url] = le
	ic.mu.Unlock()

	go func() {
		// Acquire semaphore to limit concurrent downloads
		ic.sem <- struct{}{}
		img, err := ic.LoadDecodedImage(url)
		<-ic.sem

		if err != nil {
			ic.mu.Lock()
			delete(ic.loading, url)
			ic.mu.Unlock()
			return
		}
		eimg := ebiten.NewImageFromImage(img)
		ic.store(url, eimg)
		ic.mu.Lock()
		delete(ic.loading, url)
		cbs := le.callbacks
		ic.mu.Unlock()

		for _, cb := range cbs {
			cb(eimg)
		}
	}()
}

// Prefetch warms the cache for urls without waiting for them.
func (ic *ImageCache) Prefetch(urls ...string) {
	for _, u := range urls {
		ic.LoadAsync(u, func(*ebiten.Image) {})
	}
}

// store puts img in the memory tier. A replaced image is released; the
// evict callback only sees images pushed out by the size limit.
func (ic *ImageCache) store(url string, img *ebiten.Image) {
	old, ok := ic.memory.Peek(url)
	ic.memory.Add(url, img)
	if ok && old != nil && old != img {
		old.Deallocate()
	}
}

// LoadDecodedImage downloads (or reads from disk) and decodes an image,
// downscaled to the cache's max edge. It does not touch the memory tier.
func (ic *ImageCache) LoadDecodedImage(url string) (image.Image, error) {
	img, err := ic.loadImage(url)
	if err != nil {
		return nil, err
	}
	ic.mu.Lock()
	edge := ic.maxEdge
	ic.mu.Unlock()
	return Downscale(img, edge), nil
}

func (ic *ImageCache) loadImage(url string) (image.Image, error) {
	diskPath := ic.diskPath(url)

	// Try disk cache first
	if f, err := os.Open(diskPath); err == nil {
		img, _, err := image.Decode(f)
		f.Close()
		if err == nil {
			return img, nil
		}
		// Corrupt cache file, remove and re-download
		os.Remove(diskPath)
	}

	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("image download failed: %s", resp.Status)
	}

	if err := os.MkdirAll(filepath.Dir(diskPath), 0o755); err != nil {
		return nil, err
	}
	f, err := os.Create(diskPath)
	if err != nil {
		return nil, err
	}

	// Tee to disk while decoding
	tee := io.TeeReader(resp.Body, f)
	img, _, err := image.Decode(tee)
	if err == nil {
		// Drain so the disk copy is complete even if the decoder stopped early
		_, err = io.Copy(io.Discard, tee)
	}
	f.Close()
	if err != nil {
		os.Remove(diskPath)
		return nil, err
	}

	return img, nil
}

// DecodeFile reads and downscales a local image, such as a photo about to
// be uploaded.
func DecodeFile(path string, maxEdge int) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return Downscale(img, maxEdge), nil
}

// Downscale returns img scaled so its longer edge is at most maxEdge,
// keeping the aspect ratio. Smaller images are returned as is.
func Downscale(img image.Image, maxEdge int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxEdge <= 0 || (w <= maxEdge && h <= maxEdge) {
		return img
	}
	nw, nh := maxEdge, maxEdge
	if w >= h {
		nh = max(h*maxEdge/w, 1)
	} else {
		nw = max(w*maxEdge/h, 1)
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func (ic *ImageCache) diskPath(url string) string {
	h := sha256.Sum256([]byte(url))
	name := fmt.Sprintf("%x", h[:16])
	return filepath.Join(ic.cacheDir, name[:2], name)
}

// CacheDir returns the disk cache directory path.
func (ic *ImageCache) CacheDir() string {
	return ic.cacheDir
}

// Len reports the number of images held in memory.
func (ic *ImageCache) Len() int {
	return ic.memory.Len()
}

// Clear removes all cached images from memory.
func (ic *ImageCache) Clear() {
	ic.memory.Purge()
}

// ClearDisk removes all cached images from disk.
func (ic *ImageCache) ClearDisk() error {
	return os.RemoveAll(ic.cacheDir)
}
