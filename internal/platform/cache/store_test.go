package cache

import (
	"context"
	"testing"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockClock() *clock.Mock {
	clk := clock.NewMock()
	clk.Set(time.Date(2026, 9, 7, 17, 0, 0, 0, time.UTC))
	return clk
}

func TestStore_GetSlidesExpiry(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clk := newMockClock()
	store := NewStore[string](time.Minute, WithClock[string](clk))

	store.Set(ctx, "k", "v")

	clk.Add(50 * time.Second)
	got, ok := store.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "v", got)

	clk.Add(50 * time.Second)
	_, ok = store.Get(ctx, "k")
	assert.True(t, ok, "hit at 50s should have pushed expiry to 110s")

	clk.Add(61 * time.Second)
	_, ok = store.Get(ctx, "k")
	assert.False(t, ok)
}

func TestStore_SweepEvictsExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clk := newMockClock()
	evicted := map[string]int{}
	store := NewStore[int](time.Minute,
		WithClock[int](clk),
		WithOnEvict(func(key string, value int) { evicted[key] = value }),
	)

	store.Set(ctx, "old", 1)
	clk.Add(30 * time.Second)
	store.Set(ctx, "fresh", 2)
	clk.Add(45 * time.Second)

	assert.Equal(t, 1, store.Sweep(ctx))
	assert.Equal(t, map[string]int{"old": 1}, evicted)
	assert.Equal(t, 1, store.Len())
}

func TestStore_DeleteAndReplaceCallOnEvict(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var evicted []string
	store := NewStore[string](0, WithOnEvict(func(key string, value string) {
		evicted = append(evicted, key+"="+value)
	}))

	store.Set(ctx, "sess_a", "1")
	store.Set(ctx, "sess_a", "2")
	store.Set(ctx, "sess_b", "3")
	store.Delete(ctx, "sess_a")
	store.DeletePrefix(ctx, "sess_")

	assert.Equal(t, []string{"sess_a=1", "sess_a=2", "sess_b=3"}, evicted)
	assert.Zero(t, store.Len())
}

func TestStore_EmptyKeyIgnored(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewStore[string](time.Minute)
	store.Set(ctx, "", "v")

	_, ok := store.Get(ctx, "")
	assert.False(t, ok)
	assert.Zero(t, store.Len())
}

func TestStore_ClearEvictsEverything(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	var evicted []string
	store := NewStore[int](time.Minute, WithOnEvict(func(key string, _ int) {
		evicted = append(evicted, key)
	}))
	store.Set(ctx, "a", 1)
	store.Set(ctx, "b", 2)

	store.Clear(ctx)

	assert.Equal(t, 0, store.Len())
	assert.ElementsMatch(t, []string{"a", "b"}, evicted)
}
