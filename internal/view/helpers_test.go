package view

import (
	"context"
	"sync"

	"github.com/riskibarqy/sleeper-league-viewer/internal/domain/league"
)

type lookupFunc func(ctx context.Context, leagueID string) (league.Summary, error)

func (f lookupFunc) LookupLeague(ctx context.Context, leagueID string) (league.Summary, error) {
	return f(ctx, leagueID)
}

type listFunc func(ctx context.Context, leagueID string, week int) ([]league.Matchup, error)

func (f listFunc) ListMatchups(ctx context.Context, leagueID string, week int) ([]league.Matchup, error) {
	return f(ctx, leagueID, week)
}

type listCall struct {
	LeagueID string
	Week     int
}

// recordingLister answers from a static table and remembers every call.
type recordingLister struct {
	mu      sync.Mutex
	calls   []listCall
	results map[int][]league.Matchup
	err     error
}

func (l *recordingLister) ListMatchups(_ context.Context, leagueID string, week int) ([]league.Matchup, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, listCall{LeagueID: leagueID, Week: week})
	if l.err != nil {
		return nil, l.err
	}
	return l.results[week], nil
}

func (l *recordingLister) Calls() []listCall {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]listCall(nil), l.calls...)
}

type failingSubmitter struct {
	err error
}

func (s failingSubmitter) Submit(func()) error {
	return s.err
}
