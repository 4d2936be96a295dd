package brackets

import (
	"sort"

	"github.com/drewtwitchell/openrink-playoffs/models"
)

// ComputeStandings aggregates round-robin matches into a ranked table. Every
// team appearing in a round-robin match of the bracket gets a row, including
// teams with no completed games yet; only matches with both scores recorded
// contribute to the aggregates.
//
// Scoring: win = 2 points, tie = 1, loss = 0. Ordering is points descending,
// then goal differential, then goals for, then team id. The function is pure:
// recomputing on unchanged input yields identical output.
func ComputeStandings(matches []*models.Match) []models.Standing {
	table := make(map[int]*models.Standing)

	row := func(teamID int) *models.Standing {
		s, ok := table[teamID]
		if !ok {
			s = &models.Standing{TeamID: teamID}
			table[teamID] = s
		}
		return s
	}

	for _, m := range matches {
		if m.Type != models.MatchTypeRoundRobin || m.Team1ID == nil || m.Team2ID == nil {
			continue
		}

		team1 := row(*m.Team1ID)
		team2 := row(*m.Team2ID)

		if !m.Completed() {
			continue
		}

		score1, score2 := *m.Team1Score, *m.Team2Score

		team1.GamesPlayed++
		team2.GamesPlayed++
		team1.GoalsFor += score1
		team1.GoalsAgainst += score2
		team2.GoalsFor += score2
		team2.GoalsAgainst += score1

		switch {
		case score1 > score2:
			team1.Wins++
			team1.Points += 2
			team2.Losses++
		case score2 > score1:
			team2.Wins++
			team2.Points += 2
			team1.Losses++
		default:
			team1.Ties++
			team2.Ties++
			team1.Points++
			team2.Points++
		}
	}

	standings := make([]models.Standing, 0, len(table))
	for _, s := range table {
		s.Differential = s.GoalsFor - s.GoalsAgainst
		standings = append(standings, *s)
	}

	sort.Slice(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.Differential != b.Differential {
			return a.Differential > b.Differential
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return a.TeamID < b.TeamID
	})

	return standings
}
