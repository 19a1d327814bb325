package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"property-assistant/internal/model"
)

// SessionCache is an in-memory session registry with TTL eviction
type SessionCache struct {
	cache    *cache.Cache
	ttl      time.Duration
	maxTurns int
}

// NewSessionCache creates a registry. Sessions idle longer than ttl are
// evicted by a janitor running every cleanupInterval.
func NewSessionCache(ttl, cleanupInterval time.Duration, maxTurns int) *SessionCache {
	return &SessionCache{
		cache:    cache.New(ttl, cleanupInterval),
		ttl:      ttl,
		maxTurns: maxTurns,
	}
}

// Create starts a session under a fresh id
func (c *SessionCache) Create() *model.Session {
	sess := model.NewSession(uuid.NewString(), c.maxTurns)
	c.cache.Set(sess.ID, sess, c.ttl)
	return sess
}

// Get returns a session and extends its lifetime
func (c *SessionCache) Get(id string) (*model.Session, bool) {
	v, found := c.cache.Get(id)
	if !found {
		return nil, false
	}
	sess := v.(*model.Session)
	c.cache.Set(id, sess, c.ttl)
	return sess, true
}

// Delete removes a session, reporting whether it existed
func (c *SessionCache) Delete(id string) bool {
	if _, found := c.cache.Get(id); !found {
		return false
	}
	c.cache.Delete(id)
	return true
}

// List returns all live sessions
func (c *SessionCache) List() []*model.Session {
	items := c.cache.Items()
	out := make([]*model.Session, 0, len(items))
	for _, item := range items {
		out = append(out, item.Object.(*model.Session))
	}
	return out
}

// Count returns the number of live sessions
func (c *SessionCache) Count() int {
	return len(c.cache.Items())
}
