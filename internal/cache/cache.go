// Package cache holds fetched stat-page HTML keyed by URL. Both stat
// kinds read from the same two format pages, so a hit saves a round trip
// when scraping batting and bowling back to back.
package cache

import (
	"container/list"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Cache stores fetched page bodies with a TTL.
type Cache interface {
	Get(url string) (string, bool)
	Set(url, html string, ttl time.Duration)
	Clear()
}

type entry struct {
	url       string
	html      string
	expiresAt time.Time
}

// PageCache is an in-memory byte-bounded cache with LRU eviction.
type PageCache struct {
	mu       sync.Mutex
	store    map[string]*list.Element
	lruList  *list.List
	maxBytes int64
	size     int64
}

// NewPageCache creates a cache bounded at maxBytes of page HTML.
func NewPageCache(maxBytes int64) *PageCache {
	if maxBytes <= 0 {
		maxBytes = 16 * 1024 * 1024
	}
	return &PageCache{
		store:    make(map[string]*list.Element),
		lruList:  list.New(),
		maxBytes: maxBytes,
	}
}

// Get returns the cached HTML for a URL if present and unexpired.
func (pc *PageCache) Get(url string) (string, bool) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	el, ok := pc.store[url]
	if !ok {
		return "", false
	}
	e := el.Value.(*entry)
	if time.Now().After(e.expiresAt) {
		pc.remove(el)
		return "", false
	}
	pc.lruList.MoveToFront(el)
	log.Debug().Str("url", url).Msg("Page cache hit")
	return e.html, true
}

// Set stores page HTML, evicting least-recently-used entries as needed.
func (pc *PageCache) Set(url, html string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()

	if el, ok := pc.store[url]; ok {
		pc.remove(el)
	}

	e := &entry{url: url, html: html, expiresAt: time.Now().Add(ttl)}
	pc.store[url] = pc.lruList.PushFront(e)
	pc.size += int64(len(html))

	for pc.size > pc.maxBytes && pc.lruList.Len() > 1 {
		pc.remove(pc.lruList.Back())
	}
}

// Clear drops all entries.
func (pc *PageCache) Clear() {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	pc.store = make(map[string]*list.Element)
	pc.lruList.Init()
	pc.size = 0
}

// remove must be called with the lock held.
func (pc *PageCache) remove(el *list.Element) {
	e := el.Value.(*entry)
	pc.lruList.Remove(el)
	delete(pc.store, e.url)
	pc.size -= int64(len(e.html))
}
