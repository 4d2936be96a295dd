package models

// Standing is one team's row in a derived round-robin table. Standings are
// never persisted; they are recomputed from completed matches on every
// request, so there is no staleness to manage.
type Standing struct {
	TeamID    int    `json:"team_id"`
	TeamName  string `json:"team_name,omitempty"`
	TeamColor string `json:"team_color,omitempty"`

	GamesPlayed  int `json:"games_played"`
	Wins         int `json:"wins"`
	Losses       int `json:"losses"`
	Ties         int `json:"ties"`
	GoalsFor     int `json:"goals_for"`
	GoalsAgainst int `json:"goals_against"`
	Differential int `json:"differential"`
	Points       int `json:"points"`
}

// TimeSlot is one recurring game slot used by the round-robin scheduler.
// DayLabel is display metadata only; fixtures are mapped to calendar dates by
// slot index, never by weekday matching.
type TimeSlot struct {
	GameTime string `json:"game_time"`
	DayLabel string `json:"day_label,omitempty"`
}
