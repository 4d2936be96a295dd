package brackets

import (
	"context"
	"fmt"

	"github.com/drewtwitchell/openrink-playoffs/models"
)

// PlayoffSeedGenerator builds the semifinal/final/consolation structure from
// a ranked standings order: #1 vs #4 and #2 vs #3 as the two semifinals, both
// feeding a championship match. The consolation match is created empty and
// receives no automatic feed; semifinal losers are placed into it manually.
type PlayoffSeedGenerator struct{}

func NewPlayoffSeedGenerator() Generator {
	return &PlayoffSeedGenerator{}
}

func (g *PlayoffSeedGenerator) Name() string {
	return "PlayoffSeed"
}

// Generate expects TeamIDs in standings order, best first. Only the top four
// are used.
func (g *PlayoffSeedGenerator) Generate(ctx context.Context, params GenerateParams) ([]Fixture, error) {
	if len(params.TeamIDs) < 4 {
		return nil, fmt.Errorf("playoff seeding: at least 4 ranked teams are required (found %d)", len(params.TeamIDs))
	}

	seeds := make([]int, 4)
	copy(seeds, params.TeamIDs[:4])

	finalIndex := 2
	return []Fixture{
		{
			Round:       1,
			MatchNumber: 1,
			Type:        models.MatchTypeSemifinal,
			Team1ID:     &seeds[0],
			Team2ID:     &seeds[3],
			FeedsIndex:  &finalIndex,
		},
		{
			Round:       1,
			MatchNumber: 2,
			Type:        models.MatchTypeSemifinal,
			Team1ID:     &seeds[1],
			Team2ID:     &seeds[2],
			FeedsIndex:  &finalIndex,
		},
		{
			Round:       2,
			MatchNumber: 1,
			Type:        models.MatchTypeFinal,
		},
		{
			Round:       2,
			MatchNumber: 2,
			Type:        models.MatchTypeConsolation,
		},
	}, nil
}
