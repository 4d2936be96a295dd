package services

import (
	"context"
	"testing"
	"time"

	"github.com/drewtwitchell/openrink-playoffs/brackets"
	"github.com/drewtwitchell/openrink-playoffs/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBracketServiceForTest(bracketRepo *fakeBracketRepo, matchRepo *fakeMatchRepo, teamRepo *fakeTeamRepo) BracketService {
	logger := testLogger()
	return NewBracketService(&fakeTxBeginner{}, bracketRepo, matchRepo, teamRepo, brackets.NewHub(logger), logger)
}

func leagueTeams(leagueID int, ids ...int) []*models.Team {
	teams := make([]*models.Team, len(ids))
	for i, id := range ids {
		teams[i] = &models.Team{ID: id, LeagueID: leagueID, Name: "Team"}
	}
	return teams
}

func TestCreateBracketValidation(t *testing.T) {
	slots := []models.TimeSlot{{GameTime: "18:00", DayLabel: "Sunday"}}

	tests := []struct {
		name    string
		input   CreateBracketInput
		wantErr error
	}{
		{
			name:    "missing name",
			input:   CreateBracketInput{LeagueID: 1, Format: models.FormatRoundRobin},
			wantErr: ErrBracketNameRequired,
		},
		{
			name: "unknown format",
			input: CreateBracketInput{
				LeagueID: 1,
				Name:     "Winter",
				Format:   models.BracketFormat("double_elimination"),
				TeamIDs:  []int{1, 2, 3, 4},
			},
			wantErr: ErrBracketInvalidFormat,
		},
		{
			name: "round robin needs two teams",
			input: CreateBracketInput{
				LeagueID: 1,
				Name:     "Winter",
				Format:   models.FormatRoundRobin,
				TeamIDs:  []int{1},
				Slots:    slots,
			},
			wantErr: ErrRoundRobinTeamCount,
		},
		{
			name: "round robin needs slots",
			input: CreateBracketInput{
				LeagueID: 1,
				Name:     "Winter",
				Format:   models.FormatRoundRobin,
				TeamIDs:  []int{1, 2, 3, 4},
			},
			wantErr: ErrScheduleSlotsRequired,
		},
		{
			name: "elimination needs power-of-two field",
			input: CreateBracketInput{
				LeagueID: 1,
				Name:     "Playoffs",
				Format:   models.FormatSingleElimination,
				TeamIDs:  []int{1, 2, 3, 4, 5, 6},
			},
			wantErr: ErrEliminationTeamCount,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newBracketServiceForTest(newFakeBracketRepo(), newFakeMatchRepo(),
				newFakeTeamRepo(leagueTeams(1, 1, 2, 3, 4)...))
			_, err := svc.CreateBracket(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateBracketRejectsUnknownTeam(t *testing.T) {
	svc := newBracketServiceForTest(newFakeBracketRepo(), newFakeMatchRepo(),
		newFakeTeamRepo(leagueTeams(1, 1, 2, 3)...))

	_, err := svc.CreateBracket(context.Background(), CreateBracketInput{
		LeagueID: 1,
		Name:     "Playoffs",
		Format:   models.FormatSingleElimination,
		TeamIDs:  []int{1, 2, 3, 99},
	})
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestCreateBracketRejectsCrossLeagueTeam(t *testing.T) {
	teams := leagueTeams(1, 1, 2, 3)
	teams = append(teams, &models.Team{ID: 4, LeagueID: 2, Name: "Interloper"})
	svc := newBracketServiceForTest(newFakeBracketRepo(), newFakeMatchRepo(), newFakeTeamRepo(teams...))

	_, err := svc.CreateBracket(context.Background(), CreateBracketInput{
		LeagueID:  1,
		Name:      "Winter",
		Format:    models.FormatRoundRobin,
		TeamIDs:   []int{1, 2, 3, 4},
		StartDate: time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC),
		Slots:     []models.TimeSlot{{GameTime: "18:00", DayLabel: "Sunday"}},
	})
	assert.ErrorIs(t, err, ErrTeamLeagueMismatch)
}

// Persisting an 8-team tree must leave every non-final match pointing at the
// round+1 match at floor(position/2), and the final pointing nowhere. The
// links resolve to database ids only after the first creation pass, so this
// covers the two-pass persist end to end.
func TestCreateBracketLinksEliminationTree(t *testing.T) {
	matchRepo := newFakeMatchRepo()
	bracketRepo := newFakeBracketRepo()
	beginner := &fakeTxBeginner{}
	logger := testLogger()
	svc := NewBracketService(beginner, bracketRepo, matchRepo,
		newFakeTeamRepo(leagueTeams(1, 1, 2, 3, 4, 5, 6, 7, 8)...),
		brackets.NewHub(logger), logger)

	bracket, err := svc.CreateBracket(context.Background(), CreateBracketInput{
		LeagueID: 1,
		SeasonID: 1,
		Name:     "Playoffs",
		Format:   models.FormatSingleElimination,
		TeamIDs:  []int{1, 2, 3, 4, 5, 6, 7, 8},
	})
	require.NoError(t, err)
	require.Len(t, bracket.Matches, 7)
	assert.Equal(t, 1, beginner.commits)
	assert.Zero(t, beginner.rollbacks)

	byRound := make(map[int][]models.Match)
	for _, match := range bracket.Matches {
		byRound[match.Round] = append(byRound[match.Round], match)
	}
	require.Len(t, byRound[1], 4)
	require.Len(t, byRound[2], 2)
	require.Len(t, byRound[3], 1)

	for i, match := range byRound[1] {
		require.NotNil(t, match.NextMatchID, "round 1 match %d must link forward", match.MatchNumber)
		assert.Equal(t, byRound[2][i/2].ID, *match.NextMatchID)
	}
	for i, match := range byRound[2] {
		require.NotNil(t, match.NextMatchID, "round 2 match %d must link forward", match.MatchNumber)
		assert.Equal(t, byRound[3][i/2].ID, *match.NextMatchID)
	}
	assert.Nil(t, byRound[3][0].NextMatchID, "the final links nowhere")

	// Stored state matches what was returned.
	for _, match := range bracket.Matches {
		stored, getErr := matchRepo.GetByID(context.Background(), match.ID)
		require.NoError(t, getErr)
		assert.Equal(t, match.NextMatchID, stored.NextMatchID)
	}
}

func TestSeedPlayoffBracketLinksSemifinalsToFinal(t *testing.T) {
	bracketRepo := newFakeBracketRepo()
	require.NoError(t, bracketRepo.Create(context.Background(), nil, &models.Bracket{
		LeagueID: 1,
		SeasonID: 1,
		Name:     "Season",
		Format:   models.FormatRoundRobin,
	}))

	// Completed season: 10 swept, 20 two wins, 30 one, 40 none.
	matchRepo := newFakeMatchRepo()
	results := []struct{ t1, t2, s1, s2 int }{
		{10, 20, 3, 1}, {30, 40, 2, 1}, {10, 30, 4, 0},
		{20, 40, 5, 2}, {10, 40, 2, 0}, {20, 30, 3, 2},
	}
	for i, res := range results {
		matchRepo.add(&models.Match{
			BracketID:   1,
			Round:       i/2 + 1,
			MatchNumber: i + 1,
			Type:        models.MatchTypeRoundRobin,
			Team1ID:     intPtr(res.t1),
			Team2ID:     intPtr(res.t2),
			Team1Score:  intPtr(res.s1),
			Team2Score:  intPtr(res.s2),
		})
	}

	svc := newBracketServiceForTest(bracketRepo, matchRepo, newFakeTeamRepo())
	bracket, err := svc.SeedPlayoffBracket(context.Background(), SeedPlayoffInput{
		SourceBracketID: 1,
		Name:            "Playoffs",
	})
	require.NoError(t, err)
	require.Len(t, bracket.Matches, 4)

	semiA, semiB, final, consolation := bracket.Matches[0], bracket.Matches[1], bracket.Matches[2], bracket.Matches[3]

	assert.Equal(t, 10, *semiA.Team1ID, "seed #1")
	assert.Equal(t, 40, *semiA.Team2ID, "seed #4")
	assert.Equal(t, 20, *semiB.Team1ID, "seed #2")
	assert.Equal(t, 30, *semiB.Team2ID, "seed #3")

	require.NotNil(t, semiA.NextMatchID)
	require.NotNil(t, semiB.NextMatchID)
	assert.Equal(t, final.ID, *semiA.NextMatchID)
	assert.Equal(t, final.ID, *semiB.NextMatchID)
	assert.Nil(t, final.NextMatchID)
	assert.Nil(t, consolation.NextMatchID)
}

func TestSetActiveDeactivatesSiblings(t *testing.T) {
	bracketRepo := newFakeBracketRepo()
	for _, name := range []string{"First", "Second"} {
		require.NoError(t, bracketRepo.Create(context.Background(), nil, &models.Bracket{
			LeagueID: 1,
			SeasonID: 1,
			Name:     name,
			Format:   models.FormatRoundRobin,
			IsActive: true,
		}))
	}

	svc := newBracketServiceForTest(bracketRepo, newFakeMatchRepo(), newFakeTeamRepo())
	bracket, err := svc.SetActive(context.Background(), 2)
	require.NoError(t, err)
	assert.True(t, bracket.IsActive)

	assert.False(t, bracketRepo.brackets[1].IsActive)
	assert.True(t, bracketRepo.brackets[2].IsActive)
}

func TestSeedPlayoffBracketSourceNotFound(t *testing.T) {
	svc := newBracketServiceForTest(newFakeBracketRepo(), newFakeMatchRepo(), newFakeTeamRepo())

	_, err := svc.SeedPlayoffBracket(context.Background(), SeedPlayoffInput{
		SourceBracketID: 42,
		Name:            "Playoffs",
	})
	assert.ErrorIs(t, err, ErrBracketNotFound)
}

func TestSeedPlayoffBracketRejectsEliminationSource(t *testing.T) {
	bracketRepo := newFakeBracketRepo()
	require.NoError(t, bracketRepo.Create(context.Background(), nil, &models.Bracket{
		LeagueID: 1,
		SeasonID: 1,
		Name:     "Playoffs",
		Format:   models.FormatSingleElimination,
	}))
	svc := newBracketServiceForTest(bracketRepo, newFakeMatchRepo(), newFakeTeamRepo())

	_, err := svc.SeedPlayoffBracket(context.Background(), SeedPlayoffInput{
		SourceBracketID: 1,
		Name:            "Playoffs 2",
	})
	assert.ErrorIs(t, err, ErrSeedingSourceFormat)
}

func TestSeedPlayoffBracketNeedsFourTeams(t *testing.T) {
	bracketRepo := newFakeBracketRepo()
	require.NoError(t, bracketRepo.Create(context.Background(), nil, &models.Bracket{
		LeagueID: 1,
		SeasonID: 1,
		Name:     "Season",
		Format:   models.FormatRoundRobin,
	}))

	matchRepo := newFakeMatchRepo()
	matchRepo.add(&models.Match{
		BracketID:   1,
		Round:       1,
		MatchNumber: 1,
		Type:        models.MatchTypeRoundRobin,
		Team1ID:     intPtr(10),
		Team2ID:     intPtr(20),
		Team1Score:  intPtr(3),
		Team2Score:  intPtr(2),
	})

	svc := newBracketServiceForTest(bracketRepo, matchRepo, newFakeTeamRepo())
	_, err := svc.SeedPlayoffBracket(context.Background(), SeedPlayoffInput{
		SourceBracketID: 1,
		Name:            "Playoffs",
	})
	assert.ErrorIs(t, err, ErrSeedingTeamCount)
}

func TestGetActiveMapsNotFound(t *testing.T) {
	svc := newBracketServiceForTest(newFakeBracketRepo(), newFakeMatchRepo(), newFakeTeamRepo())
	_, err := svc.GetActive(context.Background(), 1, 1)
	assert.ErrorIs(t, err, ErrBracketNotFound)
}

func TestGetBracketDetailJoinsTeams(t *testing.T) {
	bracketRepo := newFakeBracketRepo()
	require.NoError(t, bracketRepo.Create(context.Background(), nil, &models.Bracket{
		LeagueID: 1,
		SeasonID: 1,
		Name:     "Season",
		Format:   models.FormatRoundRobin,
	}))

	matchRepo := newFakeMatchRepo()
	matchRepo.add(&models.Match{
		BracketID:   1,
		Round:       1,
		MatchNumber: 1,
		Type:        models.MatchTypeRoundRobin,
		Team1ID:     intPtr(10),
		Team2ID:     intPtr(20),
	})

	teamRepo := newFakeTeamRepo(
		&models.Team{ID: 10, LeagueID: 1, Name: "Ice Hawks", Color: "#1d4ed8"},
		&models.Team{ID: 20, LeagueID: 1, Name: "Polar Bears"},
	)

	svc := newBracketServiceForTest(bracketRepo, matchRepo, teamRepo)
	bracket, err := svc.GetBracketDetail(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, bracket.Matches, 1)

	match := bracket.Matches[0]
	require.NotNil(t, match.Team1)
	assert.Equal(t, "Ice Hawks", match.Team1.Name)
	require.NotNil(t, match.Team2)
	assert.Equal(t, "Polar Bears", match.Team2.Name)
	assert.Nil(t, match.Winner)
}

func TestDeleteBracket(t *testing.T) {
	bracketRepo := newFakeBracketRepo()
	require.NoError(t, bracketRepo.Create(context.Background(), nil, &models.Bracket{
		LeagueID: 1,
		SeasonID: 1,
		Name:     "Season",
		Format:   models.FormatRoundRobin,
	}))

	svc := newBracketServiceForTest(bracketRepo, newFakeMatchRepo(), newFakeTeamRepo())
	require.NoError(t, svc.Delete(context.Background(), 1))
	assert.ErrorIs(t, svc.Delete(context.Background(), 1), ErrBracketNotFound)
}
