package brackets

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/drewtwitchell/openrink-playoffs/models"
)

type SingleEliminationGenerator struct{}

func NewSingleEliminationGenerator() Generator {
	return &SingleEliminationGenerator{}
}

func (g *SingleEliminationGenerator) Name() string {
	return "SingleElimination"
}

// Generate builds a seeded single-elimination tree. Round 1 pairs the seed
// list in the order given (seed[0] vs seed[1], seed[2] vs seed[3], ...); the
// caller is responsible for seed ordering. Later rounds are placeholders with
// both slots nil, halving in size until the final. Two consecutive matches in
// a round feed the same downstream match.
func (g *SingleEliminationGenerator) Generate(ctx context.Context, params GenerateParams) ([]Fixture, error) {
	n := len(params.TeamIDs)
	if n != 4 && n != 8 && n != 16 {
		return nil, fmt.Errorf("single elimination: team count must be 4, 8, or 16 (found %d)", n)
	}

	ids := make([]int, n)
	copy(ids, params.TeamIDs)

	numRounds := bits.Len(uint(n)) - 1
	fixtures := make([]Fixture, 0, n-1)
	roundStart := make([]int, numRounds+1)

	for i := 0; i < n/2; i++ {
		fixtures = append(fixtures, Fixture{
			Round:       1,
			MatchNumber: i + 1,
			Type:        models.MatchTypeElimination,
			Team1ID:     &ids[i*2],
			Team2ID:     &ids[i*2+1],
		})
	}

	for round := 2; round <= numRounds; round++ {
		roundStart[round] = len(fixtures)
		matchesInRound := n >> uint(round)
		for i := 0; i < matchesInRound; i++ {
			fixtures = append(fixtures, Fixture{
				Round:       round,
				MatchNumber: i + 1,
				Type:        models.MatchTypeElimination,
			})
		}
	}

	// Link each non-final match to the round+1 match at floor(index/2).
	for round := 1; round < numRounds; round++ {
		start := roundStart[round]
		count := n >> uint(round)
		for i := 0; i < count; i++ {
			feeds := roundStart[round+1] + i/2
			fixtures[start+i].FeedsIndex = &feeds
		}
	}

	return fixtures, nil
}
