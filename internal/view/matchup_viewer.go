package view

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/riskibarqy/sleeper-league-viewer/internal/domain/league"
	"github.com/riskibarqy/sleeper-league-viewer/internal/platform/logging"
	"github.com/riskibarqy/sleeper-league-viewer/internal/usecase"
	"github.com/sourcegraph/conc/panics"
)

const (
	msgNoLeagueID          = "No league ID provided."
	msgMatchupsFetchFailed = "Failed to fetch matchups"
	msgMatchupsUnknown     = "Unknown error fetching matchups."
)

// MatchupRow is one rendered matchup line.
type MatchupRow struct {
	Key       string  `json:"key"`
	MatchupID int     `json:"matchup_id"`
	RosterID  int     `json:"roster_id"`
	Points    float64 `json:"points"`
}

// PointsText formats points in their shortest decimal form.
func (r MatchupRow) PointsText() string {
	return strconv.FormatFloat(r.Points, 'f', -1, 64)
}

// MatchupsView is a snapshot of the matchup list for one league week.
type MatchupsView struct {
	LeagueID string       `json:"league_id"`
	Week     int          `json:"week"`
	Loading  bool         `json:"loading"`
	Error    string       `json:"error,omitempty"`
	Empty    bool         `json:"empty"`
	Rows     []MatchupRow `json:"rows"`
}

// MatchupViewer keeps the matchups of the current (league, week) pair. Every
// change of the pair cancels the previous fetch and starts a new one tagged
// with a generation; results from older generations are dropped.
type MatchupViewer struct {
	lister MatchupLister
	pool   TaskSubmitter
	logger *logging.Logger

	baseCtx    context.Context
	baseCancel context.CancelFunc
	inflight   sync.WaitGroup

	mu         sync.Mutex
	mounted    bool
	closed     bool
	leagueID   string
	week       int
	status     Status[[]league.Matchup]
	generation uint64
	cancel     context.CancelFunc
}

// NewMatchupViewer builds an unmounted viewer. A nil pool runs each fetch on
// its own goroutine.
func NewMatchupViewer(lister MatchupLister, pool TaskSubmitter, logger *logging.Logger) *MatchupViewer {
	if logger == nil {
		logger = logging.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &MatchupViewer{
		lister:     lister,
		pool:       pool,
		logger:     logger.Named("view.matchups"),
		baseCtx:    ctx,
		baseCancel: cancel,
		status:     Loading[[]league.Matchup](),
	}
}

// Update points the viewer at a (league, week) pair. It is a no-op when the
// pair did not change since the last call.
func (v *MatchupViewer) Update(leagueID string, week int) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return
	}
	if v.mounted && v.leagueID == leagueID && v.week == week {
		return
	}

	v.mounted = true
	v.leagueID = leagueID
	v.week = week
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.generation++
	gen := v.generation

	if leagueID == "" {
		v.status = Failed[[]league.Matchup](msgNoLeagueID)
		return
	}

	v.status = Loading[[]league.Matchup]()
	ctx, cancel := context.WithCancel(v.baseCtx)
	v.cancel = cancel

	v.inflight.Add(1)
	task := func() {
		defer v.inflight.Done()
		defer cancel()
		v.fetch(ctx, gen, leagueID, week)
	}
	if v.pool == nil {
		go task()
		return
	}
	if err := v.pool.Submit(task); err != nil {
		v.inflight.Done()
		cancel()
		v.cancel = nil
		v.status = Failed[[]league.Matchup](fmt.Sprintf("schedule matchup fetch: %v", err))
		v.logger.Error("submit matchup fetch to worker pool", "league_id", leagueID, "week", week, "error", err)
	}
}

func (v *MatchupViewer) fetch(ctx context.Context, gen uint64, leagueID string, week int) {
	var (
		records []league.Matchup
		err     error
		pc      panics.Catcher
	)
	pc.Try(func() {
		records, err = v.lister.ListMatchups(ctx, leagueID, week)
	})
	if recovered := pc.Recovered(); recovered != nil {
		v.logger.ErrorContext(ctx, "matchup fetch panicked",
			"league_id", leagueID,
			"week", week,
			"panic", recovered.String(),
		)
		err = fmt.Errorf("matchup fetch panicked: %v", recovered.Value)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed || gen != v.generation {
		v.logger.DebugContext(ctx, "discarding stale matchups", "league_id", leagueID, "week", week)
		return
	}
	v.cancel = nil

	if err != nil {
		v.status = Failed[[]league.Matchup](matchupErrorMessage(err))
		v.logger.WarnContext(ctx, "matchup fetch failed", "league_id", leagueID, "week", week, "error", err)
		return
	}
	if records == nil {
		records = []league.Matchup{}
	}
	v.status = Ready(records)
}

func (v *MatchupViewer) Status() Status[[]league.Matchup] {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

func (v *MatchupViewer) View() MatchupsView {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := MatchupsView{
		LeagueID: v.leagueID,
		Week:     v.week,
		Loading:  v.status.IsLoading(),
	}
	if msg, ok := v.status.Err(); ok {
		out.Error = msg
		return out
	}
	records, ok := v.status.Value()
	if !ok {
		return out
	}

	out.Empty = len(records) == 0
	out.Rows = make([]MatchupRow, 0, len(records))
	for i, record := range records {
		out.Rows = append(out.Rows, MatchupRow{
			Key:       fmt.Sprintf("%d-%d", record.MatchupID, i),
			MatchupID: record.MatchupID,
			RosterID:  record.RosterID,
			Points:    record.Points,
		})
	}
	return out
}

// Wait blocks until every dispatched fetch has returned.
func (v *MatchupViewer) Wait() {
	v.inflight.Wait()
}

// Close cancels any in-flight fetch. Later updates are ignored.
func (v *MatchupViewer) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.cancel = nil
	v.mu.Unlock()

	v.baseCancel()
}

func matchupErrorMessage(err error) string {
	if errors.Is(err, usecase.ErrNotFound) {
		return msgMatchupsFetchFailed
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return msgMatchupsUnknown
}
