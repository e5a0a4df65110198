package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/Another0Noob/fridge-recipes/internal/logging"
	"github.com/Another0Noob/fridge-recipes/internal/recipeapi"
	"golang.org/x/sync/singleflight"
)

// Source produces the complete recipe list. *recipeapi.Client implements it.
type Source interface {
	FetchAll(ctx context.Context) ([]recipeapi.Recipe, error)
}

// Cache populates a Catalog from its Source once and then serves it for
// the rest of the process. Concurrent callers share a single fetch.
type Cache struct {
	source Source
	now    func() time.Time

	mu      sync.RWMutex
	catalog *Catalog

	group singleflight.Group
}

func NewCache(source Source) *Cache {
	return &Cache{source: source, now: time.Now}
}

// Peek returns the catalog if it has been fetched. It never fetches.
func (c *Cache) Peek() (*Catalog, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.catalog, c.catalog != nil
}

// Get returns the cached catalog, fetching it first if needed. Callers that
// arrive while a fetch is in flight wait for that fetch instead of starting
// another one. The fetch itself ignores cancellation of ctx; a caller whose
// ctx ends stops waiting and gets ctx.Err(). A failed fetch is not cached,
// so the next Get starts over.
func (c *Cache) Get(ctx context.Context) (*Catalog, error) {
	if cat, ok := c.Peek(); ok {
		logging.Debug().Int("recipes", cat.Len()).Msg("catalog cache hit")
		return cat, nil
	}

	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan("catalog", func() (any, error) {
		// Another fetch may have finished between Peek and DoChan.
		if cat, ok := c.Peek(); ok {
			return cat, nil
		}
		recipes, err := c.source.FetchAll(fetchCtx)
		if err != nil {
			return nil, err
		}
		cat := New(recipes, c.now())

		c.mu.Lock()
		c.catalog = cat
		c.mu.Unlock()
		return cat, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Catalog), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
