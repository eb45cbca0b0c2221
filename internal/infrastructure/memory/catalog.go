package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/oksasatya/pokedex-api/internal/domain/entity"
	"github.com/oksasatya/pokedex-api/internal/domain/repository"
)

// Catalog is an in-memory catalog ordered by entry id.
type Catalog struct {
	mu      sync.RWMutex
	entries []entity.CatalogEntry
}

func NewCatalog(entries ...entity.CatalogEntry) *Catalog {
	c := &Catalog{entries: append([]entity.CatalogEntry{}, entries...)}
	sort.Slice(c.entries, func(i, j int) bool { return c.entries[i].ID < c.entries[j].ID })
	return c
}

func (c *Catalog) List(_ context.Context, offset, limit int) ([]entity.CatalogEntry, int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := int64(len(c.entries))
	if offset >= len(c.entries) {
		return []entity.CatalogEntry{}, total, nil
	}
	end := offset + limit
	if end > len(c.entries) {
		end = len(c.entries)
	}
	return append([]entity.CatalogEntry{}, c.entries[offset:end]...), total, nil
}

func (c *Catalog) GetByID(_ context.Context, id int) (*entity.CatalogEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, e := range c.entries {
		if e.ID == id {
			out := e
			return &out, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (c *Catalog) GetByIDs(_ context.Context, ids []int) ([]entity.CatalogEntry, error) {
	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []entity.CatalogEntry{}
	for _, e := range c.entries {
		if want[e.ID] {
			out = append(out, e)
		}
	}
	return out, nil
}

var _ repository.CatalogRepository = (*Catalog)(nil)
