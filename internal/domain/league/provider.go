package league

import "context"

// Provider describes the read-only league data source used by use cases.
type Provider interface {
	GetLeague(ctx context.Context, leagueID string) (Summary, error)
	ListMatchups(ctx context.Context, leagueID string, week int) ([]Matchup, error)
}
