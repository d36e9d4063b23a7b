package view

import (
	"context"
	"sync"

	"github.com/riskibarqy/sleeper-league-viewer/internal/platform/logging"
)

const initialWeek = 1

// PageView is everything needed to draw one page. Matchups is nil until a
// league has been selected.
type PageView struct {
	LeagueID string        `json:"league_id"`
	Week     int           `json:"week"`
	Input    InputView     `json:"input"`
	Matchups *MatchupsView `json:"matchups"`
}

// Loading reports whether any part of the page waits on a fetch.
func (p PageView) Loading() bool {
	return p.Input.Loading || (p.Matchups != nil && p.Matchups.Loading)
}

// Root holds the selected league id and week for one browser session and
// drives the input and the matchup viewer from them.
type Root struct {
	input  *LeagueInput
	viewer *MatchupViewer

	mu       sync.Mutex
	leagueID string
	week     int
}

func NewRoot(lookup LeagueLookup, lister MatchupLister, pool TaskSubmitter, logger *logging.Logger) *Root {
	r := &Root{week: initialWeek}
	r.viewer = NewMatchupViewer(lister, pool, logger)
	r.input = NewLeagueInput(lookup, r.selectLeague, logger)
	return r
}

func (r *Root) Input() *LeagueInput {
	return r.input
}

// SubmitLeague forwards text to the league input.
func (r *Root) SubmitLeague(ctx context.Context, text string) {
	r.input.Submit(ctx, text)
}

// SetWeek stores week as given. The 1..18 range is only a form hint.
func (r *Root) SetWeek(week int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.week = week
	r.drive()
}

func (r *Root) selectLeague(leagueID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leagueID = leagueID
	r.drive()
}

func (r *Root) drive() {
	if r.leagueID == "" {
		return
	}
	r.viewer.Update(r.leagueID, r.week)
}

func (r *Root) View() PageView {
	r.mu.Lock()
	page := PageView{
		LeagueID: r.leagueID,
		Week:     r.week,
	}
	mounted := r.leagueID != ""
	r.mu.Unlock()

	page.Input = r.input.View()
	if mounted {
		matchups := r.viewer.View()
		page.Matchups = &matchups
	}
	return page
}

// Wait blocks until in-flight matchup fetches have returned.
func (r *Root) Wait() {
	r.viewer.Wait()
}

func (r *Root) Close() {
	r.viewer.Close()
}
