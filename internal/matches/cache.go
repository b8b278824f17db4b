// internal/matches/cache.go
//
// Cache-aside read path in front of the definition store.
// Definitions are immutable from the player's point of view, so entries are
// kept until process restart (no TTL); Upsert writes through and re-primes
// the entry so authors see their edits without a bounce.
// Not-found results are never cached: a game published moments later must
// become visible on the next read.

package matches

import (
	"context"

	gocache "github.com/patrickmn/go-cache"

	"github.com/babalugats76/quizdini-2.0-learn/internal/match"
)

const cacheKeyPrefix = "m-"

// Cached wraps a Backend with an in-process cache keyed by match ID.
type Cached struct {
	backend Backend
	cache   *gocache.Cache
}

// NewCached builds the read-through wrapper.
func NewCached(backend Backend) *Cached {
	return &Cached{
		backend: backend,
		cache:   gocache.New(gocache.NoExpiration, 0),
	}
}

func (c *Cached) Get(ctx context.Context, id string) (*match.Definition, error) {
	key := cacheKeyPrefix + id
	if v, ok := c.cache.Get(key); ok {
		return v.(*match.Definition), nil
	}
	def, err := c.backend.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if def != nil {
		c.cache.Set(key, def, gocache.NoExpiration)
	}
	return def, nil
}

func (c *Cached) Upsert(ctx context.Context, def *match.Definition) error {
	if err := c.backend.Upsert(ctx, def); err != nil {
		return err
	}
	c.cache.Set(cacheKeyPrefix+def.ID, def, gocache.NoExpiration)
	return nil
}
