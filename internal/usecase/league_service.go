package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/sleeper-league-viewer/internal/domain/league"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type LeagueService struct {
	provider league.Provider
}

func NewLeagueService(provider league.Provider) *LeagueService {
	return &LeagueService{provider: provider}
}

// LookupLeague fetches league metadata. The id is passed to the provider
// exactly as entered; only an all-whitespace id is rejected.
func (s *LeagueService) LookupLeague(ctx context.Context, leagueID string) (league.Summary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.LookupLeague", attribute.String("league.id", leagueID))
	defer span.End()

	if strings.TrimSpace(leagueID) == "" {
		return league.Summary{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	summary, err := s.provider.GetLeague(ctx, leagueID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return league.Summary{}, fmt.Errorf("lookup league: %w", err)
	}

	return summary, nil
}

// ListMatchups fetches one week's matchups in provider order. The week is
// not range-checked.
func (s *LeagueService) ListMatchups(ctx context.Context, leagueID string, week int) ([]league.Matchup, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LeagueService.ListMatchups",
		attribute.String("league.id", leagueID),
		attribute.Int("league.week", week),
	)
	defer span.End()

	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	matchups, err := s.provider.ListMatchups(ctx, leagueID, week)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("list matchups: %w", err)
	}
	if matchups == nil {
		matchups = []league.Matchup{}
	}

	return matchups, nil
}
