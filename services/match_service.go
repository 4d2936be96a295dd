package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/drewtwitchell/openrink-playoffs/brackets"
	"github.com/drewtwitchell/openrink-playoffs/models"
	"github.com/drewtwitchell/openrink-playoffs/repositories"
)

// RecordResultInput is the sole mutation entry point for results. WinnerID is
// authoritative: it is validated against the match's team slots but never
// re-derived from the scores, so a forfeit can be recorded against the
// scoreline.
type RecordResultInput struct {
	Team1Score  *int    `json:"team1_score"`
	Team2Score  *int    `json:"team2_score"`
	WinnerID    *int    `json:"winner_id"`
	GameDate    *string `json:"game_date"`
	GameTime    *string `json:"game_time"`
	RinkID      *int    `json:"rink_id"`
	SurfaceName *string `json:"surface_name"`
}

type MatchService interface {
	GetMatch(ctx context.Context, matchID int) (*models.Match, error)
	ListByBracket(ctx context.Context, bracketID int) ([]*models.Match, error)
	RecordResult(ctx context.Context, matchID int, input RecordResultInput) (*models.Match, error)
}

type matchService struct {
	matchRepo repositories.MatchRepository
	hub       *brackets.Hub
	logger    *slog.Logger
}

func NewMatchService(matchRepo repositories.MatchRepository, hub *brackets.Hub, logger *slog.Logger) MatchService {
	return &matchService{
		matchRepo: matchRepo,
		hub:       hub,
		logger:    logger,
	}
}

func (s *matchService) GetMatch(ctx context.Context, matchID int) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, mapMatchRepoError(err)
	}
	return match, nil
}

func (s *matchService) ListByBracket(ctx context.Context, bracketID int) ([]*models.Match, error) {
	matches, err := s.matchRepo.ListByBracket(ctx, bracketID, nil, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for bracket %d: %w", bracketID, err)
	}
	return matches, nil
}

// RecordResult stores a result and, for elimination-family matches with a
// downstream link, advances the winner into the downstream slot picked by the
// odd/even match-number rule (odd -> team1, even -> team2).
//
// Scores and winner are written verbatim on every call: submitting without
// them clears any previously recorded result, which is how a game is reopened.
// Only the scheduling fields are sticky. Clearing never retracts a winner
// already advanced downstream.
//
// Re-recording the same result is safe: the same slot is rewritten with the
// same value. Propagation is single-hop only; correcting a match whose
// downstream match has itself already been played rewrites that one slot but
// never reopens or cascades into later rounds.
func (s *matchService) RecordResult(ctx context.Context, matchID int, input RecordResultInput) (*models.Match, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, mapMatchRepoError(err)
	}

	if input.WinnerID != nil {
		if input.Team1Score == nil || input.Team2Score == nil {
			return nil, ErrScoresRequired
		}
		if match.Team1ID == nil || match.Team2ID == nil {
			return nil, ErrMatchTeamsNotAssigned
		}
		if *input.WinnerID != *match.Team1ID && *input.WinnerID != *match.Team2ID {
			return nil, ErrWinnerNotInMatch
		}
	}

	update := repositories.ResultUpdate{
		Team1Score:  input.Team1Score,
		Team2Score:  input.Team2Score,
		WinnerID:    input.WinnerID,
		GameDate:    input.GameDate,
		GameTime:    input.GameTime,
		RinkID:      input.RinkID,
		SurfaceName: input.SurfaceName,
	}
	if err := s.matchRepo.UpdateResult(ctx, matchID, update); err != nil {
		return nil, mapMatchRepoError(err)
	}

	// Round-robin results only feed the standings; there is no next match.
	if match.Type.IsElimination() && match.NextMatchID != nil && input.WinnerID != nil {
		slot := 2
		if match.MatchNumber%2 == 1 {
			slot = 1
		}
		if err := s.matchRepo.AdvanceWinner(ctx, *match.NextMatchID, slot, *input.WinnerID); err != nil {
			return nil, fmt.Errorf("failed to advance winner into match %d: %w", *match.NextMatchID, err)
		}
		s.logger.Info("winner advanced",
			slog.Int("match_id", matchID),
			slog.Int("next_match_id", *match.NextMatchID),
			slog.Int("slot", slot),
			slog.Int("winner_id", *input.WinnerID))
	}

	updated, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		return nil, mapMatchRepoError(err)
	}

	s.hub.BroadcastToRoom(brackets.BracketRoom(updated.BracketID), brackets.Event{
		Type:    "MATCH_UPDATED",
		Payload: updated,
	})
	return updated, nil
}

func mapMatchRepoError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repositories.ErrMatchNotFound) {
		return ErrMatchNotFound
	}
	return err
}
