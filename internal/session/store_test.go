package session

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/metrics-calculator/internal/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCreateIssuesUUIDs(t *testing.T) {
	store := NewStore(time.Minute)
	a := store.Create()
	b := store.Create()

	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
	assert.True(t, store.Exists(a))
	assert.Equal(t, 2, store.Len())
}

func TestSessionsAreIsolated(t *testing.T) {
	store := NewStore(0)
	a := store.Create()
	b := store.Create()

	require.NoError(t, store.With(a, func(reg *registry.Registry) error {
		reg.Put("ROI", registry.Scalar(10))
		return nil
	}))

	require.NoError(t, store.With(b, func(reg *registry.Registry) error {
		assert.Equal(t, 0, reg.Len())
		return nil
	}))
}

func TestWithUnknownSession(t *testing.T) {
	store := NewStore(time.Minute)
	err := store.With("missing", func(*registry.Registry) error { return nil })
	assert.ErrorIs(t, err, ErrUnknownSession)
}

func TestWithPropagatesError(t *testing.T) {
	store := NewStore(time.Minute)
	id := store.Create()
	sentinel := errors.New("boom")
	err := store.With(id, func(*registry.Registry) error { return sentinel })
	assert.ErrorIs(t, err, sentinel)
}

func TestIdleSessionsExpire(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	store := NewStore(10*time.Minute, WithClock(clock.Now))

	active := store.Create()
	idle := store.Create()

	clock.Advance(6 * time.Minute)
	require.NoError(t, store.With(active, func(*registry.Registry) error { return nil }))

	clock.Advance(6 * time.Minute)
	assert.True(t, store.Exists(active))
	assert.False(t, store.Exists(idle))
	assert.Equal(t, 1, store.Len())
}

func TestDelete(t *testing.T) {
	store := NewStore(time.Minute)
	id := store.Create()
	store.Delete(id)
	assert.False(t, store.Exists(id))
}

func TestConcurrentAccessToOneSession(t *testing.T) {
	store := NewStore(time.Minute)
	id := store.Create()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = store.With(id, func(reg *registry.Registry) error {
				reg.Put("CPL", registry.Scalar(float64(i)))
				return nil
			})
		}(i)
	}
	wg.Wait()

	require.NoError(t, store.With(id, func(reg *registry.Registry) error {
		assert.Equal(t, 1, reg.Len())
		return nil
	}))
}
