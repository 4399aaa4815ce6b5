package ui

import (
	"sync"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/depeter/lookbook/internal/cache"
)

// photoSource resolves item photos through the image cache, starting a
// background load the first time a URL misses. Evicted photos are loaded
// again on the next miss; failed loads are not retried.
type photoSource struct {
	cache *cache.ImageCache

	mu        sync.Mutex
	requested map[string]bool
}

func newPhotoSource(c *cache.ImageCache) *photoSource {
	return &photoSource{cache: c, requested: map[string]bool{}}
}

// Image returns the photo at url, or nil while it is loading.
func (p *photoSource) Image(url string) *ebiten.Image {
	if url == "" || p.cache == nil {
		return nil
	}
	if img := p.cache.Get(url); img != nil {
		return img
	}
	p.Request(url)
	return nil
}

// Request starts loading url unless a load is already outstanding.
func (p *photoSource) Request(url string) {
	if url == "" || p.cache == nil {
		return
	}
	p.mu.Lock()
	if p.requested[url] {
		p.mu.Unlock()
		return
	}
	p.requested[url] = true
	p.mu.Unlock()

	p.cache.LoadAsync(url, func(*ebiten.Image) {
		p.mu.Lock()
		delete(p.requested, url)
		p.mu.Unlock()
	})
}
