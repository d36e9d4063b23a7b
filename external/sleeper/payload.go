package sleeper

import "github.com/riskibarqy/sleeper-league-viewer/internal/domain/league"

type leaguePayload struct {
	Name   string `json:"name"`
	Season string `json:"season"`
	Status string `json:"status"`
}

func (p leaguePayload) toSummary() league.Summary {
	return league.Summary{
		Name:   p.Name,
		Season: p.Season,
		Status: p.Status,
	}
}

// matchupPayload ignores the starters/custom_points fields Sleeper also sends.
type matchupPayload struct {
	MatchupID int      `json:"matchup_id"`
	RosterID  int      `json:"roster_id"`
	Points    float64  `json:"points"`
	Players   []string `json:"players"`
}

func (p matchupPayload) toMatchup() league.Matchup {
	players := p.Players
	if players == nil {
		players = []string{}
	}
	return league.Matchup{
		MatchupID: p.MatchupID,
		RosterID:  p.RosterID,
		Points:    p.Points,
		Players:   players,
	}
}
