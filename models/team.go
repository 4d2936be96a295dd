package models

// Team is owned by the roster subsystem; the engine references teams by id
// and joins in display metadata when returning brackets and standings.
type Team struct {
	ID       int    `json:"id" db:"id"`
	LeagueID int    `json:"league_id" db:"league_id"`
	Name     string `json:"name" db:"name"`
	Color    string `json:"color,omitempty" db:"color"`
}
