package provider

import (
	"context"
	"sync"

	"github.com/eshaffer321/monarch-mcp/pkg/monarch"
	"golang.org/x/sync/singleflight"
)

// SessionCache holds at most one resolved client for the process.
type SessionCache struct {
	mu         sync.RWMutex
	client     *monarch.Client
	generation uint64

	// group collapses concurrent first resolutions into one
	group singleflight.Group
}

// NewSessionCache creates an empty cache.
func NewSessionCache() *SessionCache {
	return &SessionCache{}
}

// Get returns the cached client, if any.
func (c *SessionCache) Get() (*monarch.Client, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client, c.client != nil
}

// GetOrCreate returns the cached client or runs create once to fill the
// cache. A client resolved across an Invalidate is returned but not cached.
// create does not see the caller's cancellation.
func (c *SessionCache) GetOrCreate(ctx context.Context, create func(context.Context) (*monarch.Client, error)) (*monarch.Client, error) {
	if client, ok := c.Get(); ok {
		return client, nil
	}

	c.mu.RLock()
	gen := c.generation
	c.mu.RUnlock()

	v, err, _ := c.group.Do("client", func() (interface{}, error) {
		if client, ok := c.Get(); ok {
			return client, nil
		}

		// Joined callers share this result, so one caller's cancellation
		// must not fail the rest.
		client, err := create(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.generation == gen {
			c.client = client
		}
		c.mu.Unlock()
		return client, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*monarch.Client), nil
}

// Set replaces the cached client.
func (c *SessionCache) Set(client *monarch.Client) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.client = client
}

// Invalidate drops the cached client so the next GetOrCreate resolves again.
func (c *SessionCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.client = nil
	c.generation++
}
