package brackets

import (
	"context"
	"time"

	"github.com/drewtwitchell/openrink-playoffs/models"
)

// Fixture is one generated match before persistence. FeedsIndex, when set, is
// the position within the returned slice of the downstream fixture this
// winner advances into; the service resolves it to a next_match_id once
// database ids exist. Within a feeding pair, the odd-numbered match occupies
// the downstream team1 slot and the even-numbered match the team2 slot.
type Fixture struct {
	Round       int
	MatchNumber int
	Type        models.MatchType

	Team1ID *int
	Team2ID *int

	GameDate *string
	GameTime *string

	FeedsIndex *int
}

// GenerateParams carries the inputs a generator may need. StartDate and Slots
// are only consulted by the round-robin scheduler.
type GenerateParams struct {
	TeamIDs   []int
	StartDate time.Time
	Slots     []models.TimeSlot
}

type Generator interface {
	Generate(ctx context.Context, params GenerateParams) ([]Fixture, error)

	Name() string
}
