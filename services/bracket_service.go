package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/drewtwitchell/openrink-playoffs/brackets"
	"github.com/drewtwitchell/openrink-playoffs/models"
	"github.com/drewtwitchell/openrink-playoffs/repositories"
	"golang.org/x/sync/errgroup"
)

// CreateBracketInput describes a new bracket. StartDate and Slots are only
// required for the round_robin format; TeamIDs order is the seed order for
// single_elimination.
type CreateBracketInput struct {
	LeagueID  int                  `json:"league_id"`
	SeasonID  int                  `json:"season_id"`
	Name      string               `json:"name"`
	Format    models.BracketFormat `json:"format"`
	TeamIDs   []int                `json:"team_ids"`
	StartDate time.Time            `json:"start_date"`
	Slots     []models.TimeSlot    `json:"slots"`
	CreatedBy *int                 `json:"-"`
}

// SeedPlayoffInput creates a semifinal/final/consolation bracket from the
// current standings of a completed round-robin bracket.
type SeedPlayoffInput struct {
	SourceBracketID int    `json:"source_bracket_id"`
	Name            string `json:"name"`
	CreatedBy       *int   `json:"-"`
}

type BracketService interface {
	CreateBracket(ctx context.Context, input CreateBracketInput) (*models.Bracket, error)
	SeedPlayoffBracket(ctx context.Context, input SeedPlayoffInput) (*models.Bracket, error)
	ListByLeagueSeason(ctx context.Context, leagueID, seasonID int) ([]*models.Bracket, error)
	GetActive(ctx context.Context, leagueID, seasonID int) (*models.Bracket, error)
	GetBracketDetail(ctx context.Context, bracketID int) (*models.Bracket, error)
	SetActive(ctx context.Context, bracketID int) (*models.Bracket, error)
	Delete(ctx context.Context, bracketID int) error
}

type bracketService struct {
	db          repositories.TxBeginner
	bracketRepo repositories.BracketRepository
	matchRepo   repositories.MatchRepository
	teamRepo    repositories.TeamRepository
	hub         *brackets.Hub
	logger      *slog.Logger
}

func NewBracketService(
	db repositories.TxBeginner,
	bracketRepo repositories.BracketRepository,
	matchRepo repositories.MatchRepository,
	teamRepo repositories.TeamRepository,
	hub *brackets.Hub,
	logger *slog.Logger,
) BracketService {
	return &bracketService{
		db:          db,
		bracketRepo: bracketRepo,
		matchRepo:   matchRepo,
		teamRepo:    teamRepo,
		hub:         hub,
		logger:      logger,
	}
}

func (s *bracketService) CreateBracket(ctx context.Context, input CreateBracketInput) (*models.Bracket, error) {
	if input.Name == "" {
		return nil, ErrBracketNameRequired
	}

	var generator brackets.Generator
	switch input.Format {
	case models.FormatRoundRobin:
		if len(input.TeamIDs) < 2 {
			return nil, ErrRoundRobinTeamCount
		}
		if len(input.Slots) == 0 {
			return nil, ErrScheduleSlotsRequired
		}
		generator = brackets.NewRoundRobinGenerator()
	case models.FormatSingleElimination:
		if n := len(input.TeamIDs); n != 4 && n != 8 && n != 16 {
			return nil, ErrEliminationTeamCount
		}
		generator = brackets.NewSingleEliminationGenerator()
	default:
		return nil, ErrBracketInvalidFormat
	}

	if err := s.validateTeams(ctx, input.LeagueID, input.TeamIDs); err != nil {
		return nil, err
	}

	fixtures, err := generator.Generate(ctx, brackets.GenerateParams{
		TeamIDs:   input.TeamIDs,
		StartDate: input.StartDate,
		Slots:     input.Slots,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s bracket: %w", generator.Name(), err)
	}

	bracket := &models.Bracket{
		LeagueID:  input.LeagueID,
		SeasonID:  input.SeasonID,
		Name:      input.Name,
		Format:    input.Format,
		IsActive:  true,
		CreatedBy: input.CreatedBy,
	}
	if err := s.persistBracket(ctx, bracket, fixtures); err != nil {
		return nil, err
	}

	s.logger.Info("bracket created",
		slog.Int("bracket_id", bracket.ID),
		slog.String("format", string(bracket.Format)),
		slog.Int("matches", len(bracket.Matches)))
	s.hub.BroadcastToRoom(brackets.SeasonRoom(bracket.LeagueID, bracket.SeasonID), brackets.Event{
		Type:    "BRACKET_CREATED",
		Payload: bracket,
	})

	return bracket, nil
}

// SeedPlayoffBracket ranks the source bracket's round-robin standings and
// builds the semifinal/final/consolation structure from the top four. The
// consolation match gets no automatic winner feed.
func (s *bracketService) SeedPlayoffBracket(ctx context.Context, input SeedPlayoffInput) (*models.Bracket, error) {
	if input.Name == "" {
		return nil, ErrBracketNameRequired
	}

	source, err := s.bracketRepo.GetByID(ctx, input.SourceBracketID)
	if err != nil {
		return nil, mapBracketRepoError(err)
	}
	if source.Format != models.FormatRoundRobin {
		return nil, ErrSeedingSourceFormat
	}

	roundRobin := models.MatchTypeRoundRobin
	matches, err := s.matchRepo.ListByBracket(ctx, source.ID, &roundRobin, false)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches for bracket %d: %w", source.ID, err)
	}

	standings := brackets.ComputeStandings(matches)
	if len(standings) < 4 {
		return nil, ErrSeedingTeamCount
	}

	seeds := make([]int, 0, len(standings))
	for _, standing := range standings {
		seeds = append(seeds, standing.TeamID)
	}

	fixtures, err := brackets.NewPlayoffSeedGenerator().Generate(ctx, brackets.GenerateParams{TeamIDs: seeds})
	if err != nil {
		return nil, fmt.Errorf("failed to generate playoff structure: %w", err)
	}

	bracket := &models.Bracket{
		LeagueID:  source.LeagueID,
		SeasonID:  source.SeasonID,
		Name:      input.Name,
		Format:    models.FormatSingleElimination,
		IsActive:  true,
		CreatedBy: input.CreatedBy,
	}
	if err := s.persistBracket(ctx, bracket, fixtures); err != nil {
		return nil, err
	}

	s.logger.Info("playoff bracket seeded from standings",
		slog.Int("bracket_id", bracket.ID),
		slog.Int("source_bracket_id", source.ID))
	s.hub.BroadcastToRoom(brackets.SeasonRoom(bracket.LeagueID, bracket.SeasonID), brackets.Event{
		Type:    "BRACKET_CREATED",
		Payload: bracket,
	})

	return bracket, nil
}

// persistBracket writes the bracket and its fixtures in one transaction:
// first pass creates every match, second pass resolves FeedsIndex links into
// next_match_id. Readers never observe a link to a match that does not exist.
func (s *bracketService) persistBracket(ctx context.Context, bracket *models.Bracket, fixtures []brackets.Fixture) error {
	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.bracketRepo.Create(ctx, tx, bracket); err != nil {
		return fmt.Errorf("failed to create bracket: %w", err)
	}

	created := make([]*models.Match, len(fixtures))
	for i, fixture := range fixtures {
		match := &models.Match{
			BracketID:   bracket.ID,
			Round:       fixture.Round,
			MatchNumber: fixture.MatchNumber,
			Type:        fixture.Type,
			Team1ID:     fixture.Team1ID,
			Team2ID:     fixture.Team2ID,
			GameDate:    fixture.GameDate,
			GameTime:    fixture.GameTime,
		}
		if err := s.matchRepo.Create(ctx, tx, match); err != nil {
			return fmt.Errorf("failed to create match %d of round %d: %w", fixture.MatchNumber, fixture.Round, err)
		}
		created[i] = match
	}

	for i, fixture := range fixtures {
		if fixture.FeedsIndex == nil {
			continue
		}
		nextID := created[*fixture.FeedsIndex].ID
		if err := s.matchRepo.SetNextMatch(ctx, tx, created[i].ID, nextID); err != nil {
			return fmt.Errorf("failed to link match %d to match %d: %w", created[i].ID, nextID, err)
		}
		created[i].NextMatchID = &nextID
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit bracket transaction: %w", err)
	}

	bracket.Matches = make([]models.Match, len(created))
	for i, match := range created {
		bracket.Matches[i] = *match
	}
	return nil
}

// validateTeams rejects unknown ids and cross-league pairings before any row
// is written.
func (s *bracketService) validateTeams(ctx context.Context, leagueID int, teamIDs []int) error {
	teams, err := s.teamRepo.ListByIDs(ctx, teamIDs)
	if err != nil {
		return fmt.Errorf("failed to load teams: %w", err)
	}

	byID := make(map[int]*models.Team, len(teams))
	for _, team := range teams {
		byID[team.ID] = team
	}
	for _, id := range teamIDs {
		team, ok := byID[id]
		if !ok {
			return ErrTeamNotFound
		}
		if team.LeagueID != leagueID {
			return ErrTeamLeagueMismatch
		}
	}
	return nil
}

func (s *bracketService) ListByLeagueSeason(ctx context.Context, leagueID, seasonID int) ([]*models.Bracket, error) {
	list, err := s.bracketRepo.ListByLeagueSeason(ctx, leagueID, seasonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list brackets: %w", err)
	}
	return list, nil
}

func (s *bracketService) GetActive(ctx context.Context, leagueID, seasonID int) (*models.Bracket, error) {
	bracket, err := s.bracketRepo.GetActive(ctx, leagueID, seasonID)
	if err != nil {
		return nil, mapBracketRepoError(err)
	}
	return bracket, nil
}

// GetBracketDetail loads the bracket row and its match list in parallel, then
// joins team display metadata into every match.
func (s *bracketService) GetBracketDetail(ctx context.Context, bracketID int) (*models.Bracket, error) {
	var (
		bracket *models.Bracket
		matches []*models.Match
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		bracket, err = s.bracketRepo.GetByID(gCtx, bracketID)
		return mapBracketRepoError(err)
	})
	g.Go(func() error {
		var err error
		matches, err = s.matchRepo.ListByBracket(gCtx, bracketID, nil, false)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := s.attachTeams(ctx, matches); err != nil {
		return nil, err
	}

	bracket.Matches = make([]models.Match, len(matches))
	for i, match := range matches {
		bracket.Matches[i] = *match
	}
	return bracket, nil
}

func (s *bracketService) attachTeams(ctx context.Context, matches []*models.Match) error {
	idSet := make(map[int]bool)
	for _, match := range matches {
		for _, ref := range []*int{match.Team1ID, match.Team2ID, match.WinnerID} {
			if ref != nil {
				idSet[*ref] = true
			}
		}
	}
	if len(idSet) == 0 {
		return nil
	}

	ids := make([]int, 0, len(idSet))
	for id := range idSet {
		ids = append(ids, id)
	}

	teams, err := s.teamRepo.ListByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load team metadata: %w", err)
	}

	byID := make(map[int]*models.Team, len(teams))
	for _, team := range teams {
		byID[team.ID] = team
	}
	for _, match := range matches {
		if match.Team1ID != nil {
			match.Team1 = byID[*match.Team1ID]
		}
		if match.Team2ID != nil {
			match.Team2 = byID[*match.Team2ID]
		}
		if match.WinnerID != nil {
			match.Winner = byID[*match.WinnerID]
		}
	}
	return nil
}

// SetActive flips the active flag to the given bracket with last-write-wins
// semantics: every other bracket in the league and season is deactivated
// first, in the same transaction.
func (s *bracketService) SetActive(ctx context.Context, bracketID int) (*models.Bracket, error) {
	bracket, err := s.bracketRepo.GetByID(ctx, bracketID)
	if err != nil {
		return nil, mapBracketRepoError(err)
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.bracketRepo.DeactivateAll(ctx, tx, bracket.LeagueID, bracket.SeasonID); err != nil {
		return nil, fmt.Errorf("failed to deactivate brackets: %w", err)
	}
	if err := s.bracketRepo.SetActive(ctx, tx, bracketID, true); err != nil {
		return nil, mapBracketRepoError(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit activation: %w", err)
	}

	bracket.IsActive = true
	s.hub.BroadcastToRoom(brackets.SeasonRoom(bracket.LeagueID, bracket.SeasonID), brackets.Event{
		Type:    "BRACKET_ACTIVATED",
		Payload: bracket,
	})
	return bracket, nil
}

func (s *bracketService) Delete(ctx context.Context, bracketID int) error {
	bracket, err := s.bracketRepo.GetByID(ctx, bracketID)
	if err != nil {
		return mapBracketRepoError(err)
	}

	if err := s.bracketRepo.Delete(ctx, bracketID); err != nil {
		return mapBracketRepoError(err)
	}

	s.logger.Info("bracket deleted", slog.Int("bracket_id", bracketID))
	s.hub.BroadcastToRoom(brackets.SeasonRoom(bracket.LeagueID, bracket.SeasonID), brackets.Event{
		Type:    "BRACKET_DELETED",
		Payload: map[string]int{"bracket_id": bracketID},
	})
	return nil
}

func mapBracketRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrBracketNotFound) {
		return ErrBracketNotFound
	}
	return err
}
