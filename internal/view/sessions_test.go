package view

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/itbasis/go-clock"
	"github.com/riskibarqy/sleeper-league-viewer/internal/domain/league"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingIDs struct{}

func (failingIDs) NewID() (string, error) {
	return "", errors.New("entropy exhausted")
}

func newTestSessions(clk clock.Clock, ttl time.Duration) *Sessions {
	lister := &recordingLister{results: map[int][]league.Matchup{}}
	lookup := lookupFunc(func(context.Context, string) (league.Summary, error) {
		return league.Summary{Name: "A"}, nil
	})
	return NewSessions(SessionsConfig{TTL: ttl, Clock: clk}, func() *Root {
		return NewRoot(lookup, lister, nil, nil)
	})
}

func TestSessions_ResolveReusesLiveSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sessions := newTestSessions(nil, time.Hour)

	id, root, created, err := sessions.Resolve(ctx, "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Regexp(t, `^slv_[0-9a-f]{32}$`, id)

	again, sameRoot, created, err := sessions.Resolve(ctx, id)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, id, again)
	assert.Same(t, root, sameRoot)

	other, otherRoot, created, err := sessions.Resolve(ctx, "slv_unknown")
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, id, other)
	assert.NotSame(t, root, otherRoot)
}

func TestSessions_ExpiredSessionIsClosedAndReplaced(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clk := clock.NewMock()
	sessions := newTestSessions(clk, time.Minute)

	id, root, _, err := sessions.Resolve(ctx, "")
	require.NoError(t, err)

	clk.Add(2 * time.Minute)

	newID, newRoot, created, err := sessions.Resolve(ctx, id)
	require.NoError(t, err)
	assert.True(t, created)
	assert.NotEqual(t, id, newID)
	assert.NotSame(t, root, newRoot)

	root.viewer.mu.Lock()
	closed := root.viewer.closed
	root.viewer.mu.Unlock()
	assert.True(t, closed)
}

func TestSessions_SweepDropsExpired(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clk := clock.NewMock()
	sessions := newTestSessions(clk, time.Minute)

	_, _, err := sessions.Create(ctx)
	require.NoError(t, err)
	clk.Add(30 * time.Second)
	_, _, err = sessions.Create(ctx)
	require.NoError(t, err)

	clk.Add(45 * time.Second)
	assert.Equal(t, 1, sessions.Sweep(ctx))
	assert.Equal(t, 1, sessions.Len())

	sessions.Close(ctx)
	assert.Equal(t, 0, sessions.Len())
}

func TestSessions_RunSweepsPeriodically(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	storeClock := clock.NewMock()
	sessions := newTestSessions(storeClock, time.Minute)
	_, _, err := sessions.Create(ctx)
	require.NoError(t, err)
	storeClock.Add(2 * time.Minute)

	go sessions.Run(ctx, clock.New(), 5*time.Millisecond)

	require.Eventually(t, func() bool {
		return sessions.Len() == 0
	}, time.Second, 5*time.Millisecond)
}

func TestSessions_CreatePropagatesIDFailure(t *testing.T) {
	t.Parallel()

	sessions := NewSessions(SessionsConfig{TTL: time.Minute, NewID: failingIDs{}}, func() *Root {
		t.Fatal("root must not be built without an id")
		return nil
	})

	_, _, _, err := sessions.Resolve(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entropy exhausted")
}
