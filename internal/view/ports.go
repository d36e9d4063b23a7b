package view

import (
	"context"

	"github.com/riskibarqy/sleeper-league-viewer/internal/domain/league"
)

// LeagueLookup resolves a league id to its summary.
type LeagueLookup interface {
	LookupLeague(ctx context.Context, leagueID string) (league.Summary, error)
}

// MatchupLister lists the matchups of one league week.
type MatchupLister interface {
	ListMatchups(ctx context.Context, leagueID string, week int) ([]league.Matchup, error)
}

// TaskSubmitter runs a task asynchronously. *ants.Pool satisfies it.
type TaskSubmitter interface {
	Submit(task func()) error
}
