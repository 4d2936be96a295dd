package brackets

import (
	"context"
	"fmt"

	"github.com/drewtwitchell/openrink-playoffs/models"
)

type RoundRobinGenerator struct{}

func NewRoundRobinGenerator() Generator {
	return &RoundRobinGenerator{}
}

func (g *RoundRobinGenerator) Name() string {
	return "RoundRobin"
}

// Generate builds a full single round-robin schedule with the circle method:
// position 0 stays fixed and the remaining positions rotate one step between
// rounds. An odd team count gets a nil bye entry; bye pairings are skipped
// and consume no time slot.
//
// Emitted fixtures carry a sequential global match number and a game date of
// startDate + floor(slotIndex/len(slots)) days, where slotIndex increments
// once per emitted fixture.
func (g *RoundRobinGenerator) Generate(ctx context.Context, params GenerateParams) ([]Fixture, error) {
	if len(params.TeamIDs) < 2 {
		return nil, fmt.Errorf("round robin: not enough teams (found %d, min 2 required)", len(params.TeamIDs))
	}
	if len(params.Slots) == 0 {
		return nil, fmt.Errorf("round robin: at least one time slot is required")
	}

	ids := make([]int, len(params.TeamIDs))
	copy(ids, params.TeamIDs)

	ring := make([]*int, 0, len(ids)+1)
	for i := range ids {
		ring = append(ring, &ids[i])
	}
	if len(ring)%2 != 0 {
		ring = append(ring, nil) // bye
	}

	n := len(ring)
	rounds := n - 1
	perRound := n / 2

	fixtures := make([]Fixture, 0, len(ids)*(len(ids)-1)/2)
	slotIndex := 0

	for r := 0; r < rounds; r++ {
		for i := 0; i < perRound; i++ {
			team1 := ring[i]
			team2 := ring[n-1-i]
			if team1 == nil || team2 == nil {
				continue
			}

			slot := params.Slots[slotIndex%len(params.Slots)]
			gameDate := params.StartDate.AddDate(0, 0, slotIndex/len(params.Slots)).Format("2006-01-02")
			gameTime := slot.GameTime

			fixtures = append(fixtures, Fixture{
				Round:       r + 1,
				MatchNumber: slotIndex + 1,
				Type:        models.MatchTypeRoundRobin,
				Team1ID:     team1,
				Team2ID:     team2,
				GameDate:    &gameDate,
				GameTime:    &gameTime,
			})
			slotIndex++
		}

		// Rotate everything except position 0.
		last := ring[n-1]
		copy(ring[2:], ring[1:n-1])
		ring[1] = last
	}

	return fixtures, nil
}
