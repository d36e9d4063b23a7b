package league

// Summary is the league metadata shown after a successful lookup.
type Summary struct {
	Name   string `json:"name"`
	Season string `json:"season"`
	Status string `json:"status"`
}

// Matchup is one roster's entry in a week's matchups. Rosters sharing a
// MatchupID play each other, so MatchupID alone is not unique in a week.
type Matchup struct {
	MatchupID int      `json:"matchup_id"`
	RosterID  int      `json:"roster_id"`
	Points    float64  `json:"points"`
	Players   []string `json:"players"`
}
