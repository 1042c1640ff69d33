package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	cacheport "kachat/internal/infrastructure/cache/port"
	"kachat/internal/pkg/chat/persistence/repository/adapter"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// stubScheduler records retry requests instead of enqueueing them.
type stubScheduler struct {
	mu       sync.Mutex
	reveals  []int64
	reclaims []int64
}

func (s *stubScheduler) ScheduleRevealRetry(_ context.Context, roomID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reveals = append(s.reveals, roomID)
}

func (s *stubScheduler) ScheduleReclaimRetry(_ context.Context, roomID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reclaims = append(s.reclaims, roomID)
}

// revealFailRepo makes the reveal pass fail while everything else works,
// simulating a partial outage right after a successful insert.
type revealFailRepo struct {
	*adapter.MemChatRepository
}

func (r *revealFailRepo) RevealHiddenMembers(context.Context, int64) (int64, error) {
	return 0, errors.New("reveal unavailable")
}

// deleteFailRepo makes room deletion fail, simulating a reclaim outage.
type deleteFailRepo struct {
	*adapter.MemChatRepository
}

func (r *deleteFailRepo) DeleteRoom(context.Context, int64) error {
	return errors.New("delete unavailable")
}

// fakeCache is an in-memory Cache that ignores TTLs.
type fakeCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: make(map[string]string)}
}

func (c *fakeCache) Get(_ context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return "", cacheport.ErrMiss
	}
	return v, nil
}

func (c *fakeCache) Set(_ context.Context, key, value string, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *fakeCache) Del(_ context.Context, keys ...string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := c.data[k]; ok {
			delete(c.data, k)
			n++
		}
	}
	return n, nil
}

func (c *fakeCache) Ping(context.Context) error { return nil }
func (c *fakeCache) Close() error               { return nil }
