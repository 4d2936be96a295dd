package models

import "time"

// MatchType distinguishes round-robin fixtures, which only feed standings,
// from the elimination family, whose winners advance along next_match links.
type MatchType string

const (
	MatchTypeRoundRobin  MatchType = "round_robin"
	MatchTypeElimination MatchType = "elimination"
	MatchTypeSemifinal   MatchType = "semifinal"
	MatchTypeFinal       MatchType = "final"
	MatchTypeConsolation MatchType = "consolation"
)

// IsElimination reports whether a recorded winner of this match type may
// advance into a downstream match.
func (t MatchType) IsElimination() bool {
	return t != MatchTypeRoundRobin
}

// Match is one contest between two (possibly still undetermined) teams within
// a bracket. Nil team slots mean "to be determined"; nil scores mean the
// result has not been reported yet. MatchNumber is 1-based within a round for
// elimination matches and sequential across the schedule for round-robin
// fixtures; together with Round it is the stable ordering key.
type Match struct {
	ID          int       `json:"id" db:"id"`
	BracketID   int       `json:"bracket_id" db:"bracket_id"`
	Round       int       `json:"round" db:"round"`
	MatchNumber int       `json:"match_number" db:"match_number"`
	Type        MatchType `json:"match_type" db:"match_type"`

	Team1ID *int `json:"team1_id" db:"team1_id"`
	Team2ID *int `json:"team2_id" db:"team2_id"`

	Team1Score *int `json:"team1_score,omitempty" db:"team1_score"`
	Team2Score *int `json:"team2_score,omitempty" db:"team2_score"`
	WinnerID   *int `json:"winner_id,omitempty" db:"winner_id"`

	NextMatchID *int `json:"next_match_id,omitempty" db:"next_match_id"`

	// Scheduling metadata, stored and returned verbatim.
	GameDate    *string `json:"game_date,omitempty" db:"game_date"`
	GameTime    *string `json:"game_time,omitempty" db:"game_time"`
	RinkID      *int    `json:"rink_id,omitempty" db:"rink_id"`
	SurfaceName *string `json:"surface_name,omitempty" db:"surface_name"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// Optional linked data, populated by the service.
	Team1  *Team `json:"team1,omitempty" db:"-"`
	Team2  *Team `json:"team2,omitempty" db:"-"`
	Winner *Team `json:"winner,omitempty" db:"-"`
}

// Completed reports whether both scores have been recorded.
func (m *Match) Completed() bool {
	return m.Team1Score != nil && m.Team2Score != nil
}
