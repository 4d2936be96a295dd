package services

import (
	"context"
	"fmt"

	"github.com/drewtwitchell/openrink-playoffs/brackets"
	"github.com/drewtwitchell/openrink-playoffs/models"
	"github.com/drewtwitchell/openrink-playoffs/repositories"
)

type StandingsService interface {
	GetStandings(ctx context.Context, bracketID int) ([]models.Standing, error)
}

type standingsService struct {
	bracketRepo repositories.BracketRepository
	matchRepo   repositories.MatchRepository
	teamRepo    repositories.TeamRepository
}

func NewStandingsService(
	bracketRepo repositories.BracketRepository,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
) StandingsService {
	return &standingsService{
		bracketRepo: bracketRepo,
		matchRepo:   matchRepo,
		teamRepo:    teamRepo,
	}
}

// GetStandings recomputes the table from the bracket's round-robin matches on
// every call and joins in team display metadata. Nothing is cached or
// persisted, so the result is always a pure function of the recorded scores.
func (s *standingsService) GetStandings(ctx context.Context, bracketID int) ([]models.Standing, error) {
	if _, err := s.bracketRepo.GetByID(ctx, bracketID); err != nil {
		return nil, mapBracketRepoError(err)
	}

	roundRobin := models.MatchTypeRoundRobin
	matches, err := s.matchRepo.ListByBracket(ctx, bracketID, &roundRobin, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list round-robin matches for bracket %d: %w", bracketID, err)
	}

	standings := brackets.ComputeStandings(matches)
	if len(standings) == 0 {
		return standings, nil
	}

	ids := make([]int, len(standings))
	for i, standing := range standings {
		ids[i] = standing.TeamID
	}
	teams, err := s.teamRepo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load team metadata: %w", err)
	}

	byID := make(map[int]*models.Team, len(teams))
	for _, team := range teams {
		byID[team.ID] = team
	}
	for i := range standings {
		if team, ok := byID[standings[i].TeamID]; ok {
			standings[i].TeamName = team.Name
			standings[i].TeamColor = team.Color
		}
	}

	return standings, nil
}
