package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/drewtwitchell/openrink-playoffs/models"
	"github.com/drewtwitchell/openrink-playoffs/repositories"
)

// TeamService is a read-only view over the roster subsystem's teams, exposed
// so bracket-building clients can pick participants.
type TeamService interface {
	GetTeam(ctx context.Context, teamID int) (*models.Team, error)
	ListLeagueTeams(ctx context.Context, leagueID int) ([]*models.Team, error)
}

type teamService struct {
	teamRepo repositories.TeamRepository
}

func NewTeamService(teamRepo repositories.TeamRepository) TeamService {
	return &teamService{teamRepo: teamRepo}
}

func (s *teamService) GetTeam(ctx context.Context, teamID int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, err
	}
	return team, nil
}

func (s *teamService) ListLeagueTeams(ctx context.Context, leagueID int) ([]*models.Team, error) {
	teams, err := s.teamRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for league %d: %w", leagueID, err)
	}
	return teams, nil
}
