package storage

import (
	"context"
	"sync"
	"time"

	"github.com/matst80/magic-search/pkg/types"
)

// CachedStorage keeps the last loaded document in memory for a while, saves
// go straight through and refresh the cached copy.
type CachedStorage struct {
	mu      sync.Mutex
	inner   types.FacetStorage
	ttl     time.Duration
	doc     *types.FacetDocument
	expires time.Time
	now     func() time.Time
}

func NewCachedStorage(inner types.FacetStorage, ttl time.Duration) *CachedStorage {
	return &CachedStorage{
		inner: inner,
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *CachedStorage) LoadFacets(ctx context.Context) (*types.FacetDocument, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.doc != nil && c.now().Before(c.expires) {
		return c.doc, nil
	}
	doc, err := c.inner.LoadFacets(ctx)
	if err != nil {
		return nil, err
	}
	c.store(doc)
	return doc, nil
}

func (c *CachedStorage) SaveFacets(ctx context.Context, doc *types.FacetDocument) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.inner.SaveFacets(ctx, doc); err != nil {
		return err
	}
	c.store(doc)
	return nil
}

// Invalidate drops the cached document, the next load hits the inner store.
func (c *CachedStorage) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.doc = nil
}

func (c *CachedStorage) store(doc *types.FacetDocument) {
	c.doc = doc
	c.expires = c.now().Add(c.ttl)
}
