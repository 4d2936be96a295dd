package models

import "time"

// BracketFormat represents the supported tournament formats, matching the
// format ENUM in the database.
type BracketFormat string

const (
	FormatRoundRobin        BracketFormat = "round_robin"
	FormatSingleElimination BracketFormat = "single_elimination"
)

// Bracket is one tournament instance scoped to a league and season. The
// format is fixed at creation; deleting a bracket cascades to its matches.
type Bracket struct {
	ID        int           `json:"id" db:"id"`
	LeagueID  int           `json:"league_id" db:"league_id"`
	SeasonID  int           `json:"season_id" db:"season_id"`
	Name      string        `json:"name" db:"name"`
	Format    BracketFormat `json:"format" db:"format"`
	IsActive  bool          `json:"is_active" db:"is_active"`
	CreatedBy *int          `json:"created_by,omitempty" db:"created_by"`
	CreatedAt time.Time     `json:"created_at" db:"created_at"`

	// Optional linked data, not mapped directly, populated by the service.
	Matches []Match `json:"matches,omitempty" db:"-"`
}
