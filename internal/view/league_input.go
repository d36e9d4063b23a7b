package view

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/riskibarqy/sleeper-league-viewer/internal/domain/league"
	"github.com/riskibarqy/sleeper-league-viewer/internal/platform/logging"
	"github.com/riskibarqy/sleeper-league-viewer/internal/usecase"
)

const (
	msgEmptyLeagueID     = "Please enter a league ID."
	msgLeagueNotFound    = "League not found"
	msgLeagueFetchFailed = "Failed to fetch league data."
)

// InputView is a snapshot of the league id form.
type InputView struct {
	Text    string          `json:"text"`
	Loading bool            `json:"loading"`
	Error   string          `json:"error,omitempty"`
	League  *league.Summary `json:"league,omitempty"`
}

// LeagueInput accepts a league id, looks the league up and reports the id
// to its owner once the lookup succeeds.
type LeagueInput struct {
	lookup   LeagueLookup
	onSelect func(leagueID string)
	logger   *logging.Logger

	mu         sync.Mutex
	text       string
	status     Status[league.Summary]
	generation uint64
	cancel     context.CancelFunc
}

func NewLeagueInput(lookup LeagueLookup, onSelect func(leagueID string), logger *logging.Logger) *LeagueInput {
	if logger == nil {
		logger = logging.Default()
	}
	return &LeagueInput{
		lookup:   lookup,
		onSelect: onSelect,
		logger:   logger.Named("view.league_input"),
		status:   Idle[league.Summary](),
	}
}

// Submit runs one lookup for text and blocks until it settles. A submit
// that has been superseded by a newer one leaves no trace.
func (in *LeagueInput) Submit(ctx context.Context, text string) {
	in.mu.Lock()
	if in.cancel != nil {
		in.cancel()
		in.cancel = nil
	}
	in.generation++
	gen := in.generation
	in.text = text

	if strings.TrimSpace(text) == "" {
		in.status = Failed[league.Summary](msgEmptyLeagueID)
		in.mu.Unlock()
		return
	}

	in.status = Loading[league.Summary]()
	ctx, cancel := context.WithCancel(ctx)
	in.cancel = cancel
	in.mu.Unlock()
	defer cancel()

	summary, err := in.lookup.LookupLeague(ctx, text)

	in.mu.Lock()
	if gen != in.generation {
		in.mu.Unlock()
		in.logger.DebugContext(ctx, "discarding superseded league lookup", "league_id", text)
		return
	}
	in.cancel = nil
	if err != nil {
		in.status = Failed[league.Summary](leagueErrorMessage(err))
		in.mu.Unlock()
		in.logger.WarnContext(ctx, "league lookup failed", "league_id", text, "error", err)
		return
	}
	in.status = Ready(summary)
	in.mu.Unlock()

	if in.onSelect != nil {
		in.onSelect(text)
	}
}

func (in *LeagueInput) Status() Status[league.Summary] {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.status
}

func (in *LeagueInput) View() InputView {
	in.mu.Lock()
	defer in.mu.Unlock()

	out := InputView{
		Text:    in.text,
		Loading: in.status.IsLoading(),
	}
	if msg, ok := in.status.Err(); ok {
		out.Error = msg
	}
	if summary, ok := in.status.Value(); ok {
		out.League = &summary
	}
	return out
}

func leagueErrorMessage(err error) string {
	if errors.Is(err, usecase.ErrNotFound) {
		return msgLeagueNotFound
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return msgLeagueFetchFailed
}
