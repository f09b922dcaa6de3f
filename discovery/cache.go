package discovery

import (
	"context"
	"errors"
	"sync"
)

var ErrCacheMiss = errors.New("discovery: document not in cache")

// DocumentCache stores fetched discovery documents keyed by "api/version".
type DocumentCache interface {
	Get(ctx context.Context, key string) (*Document, error)
	Set(ctx context.Context, key string, doc *Document) error
}

// MemoryCache is the default process-local cache.
type MemoryCache struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		mu:   sync.RWMutex{},
		docs: make(map[string]*Document),
	}
}

func (c *MemoryCache) Get(_ context.Context, key string) (*Document, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	doc, ok := c.docs[key]
	if !ok {
		return nil, ErrCacheMiss
	}

	return doc, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, doc *Document) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.docs[key] = doc

	return nil
}
