package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/drewtwitchell/openrink-playoffs/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound       = errors.New("playoff match not found")
	ErrMatchBracketInvalid = errors.New("match bracket conflict or invalid")
	ErrMatchTeamInvalid    = errors.New("match team conflict or invalid")
)

// ResultUpdate carries a recorded result plus pass-through scheduling fields.
// The winner is caller-supplied and authoritative; it is stored as given and
// never re-derived from the scores. Scores and winner are written verbatim,
// nil included, so an update without them clears the stored result; the
// scheduling fields keep their stored values when nil.
type ResultUpdate struct {
	Team1Score  *int
	Team2Score  *int
	WinnerID    *int
	GameDate    *string
	GameTime    *string
	RinkID      *int
	SurfaceName *string
}

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListByBracket(ctx context.Context, bracketID int, matchType *models.MatchType, completedOnly bool) ([]*models.Match, error)
	SetNextMatch(ctx context.Context, exec SQLExecutor, id, nextMatchID int) error
	UpdateResult(ctx context.Context, id int, update ResultUpdate) error
	AdvanceWinner(ctx context.Context, matchID, slot, teamID int) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const matchColumns = `id, bracket_id, round, match_number, match_type,
	team1_id, team2_id, team1_score, team2_score, winner_id, next_match_id,
	game_date, game_time, rink_id, surface_name, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO playoff_matches
			(bracket_id, round, match_number, match_type, team1_id, team2_id, game_date, game_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		match.BracketID,
		match.Round,
		match.MatchNumber,
		match.Type,
		match.Team1ID,
		match.Team2ID,
		match.GameDate,
		match.GameTime,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM playoff_matches WHERE id = $1`

	match := &models.Match{}
	err := scanMatch(r.db.QueryRowContext(ctx, query, id), match)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByBracket(ctx context.Context, bracketID int, matchType *models.MatchType, completedOnly bool) ([]*models.Match, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + matchColumns + ` FROM playoff_matches WHERE bracket_id = $1`)

	args := []interface{}{bracketID}
	placeholderIndex := 2

	if matchType != nil {
		queryBuilder.WriteString(" AND match_type = $")
		queryBuilder.WriteString(strconv.Itoa(placeholderIndex))
		args = append(args, *matchType)
		placeholderIndex++
	}
	if completedOnly {
		queryBuilder.WriteString(" AND team1_score IS NOT NULL AND team2_score IS NOT NULL")
	}

	queryBuilder.WriteString(" ORDER BY round ASC, match_number ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match := &models.Match{}
		if scanErr := scanMatch(rows, match); scanErr != nil {
			return nil, scanErr
		}
		matches = append(matches, match)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return matches, nil
}

func (r *postgresMatchRepository) SetNextMatch(ctx context.Context, exec SQLExecutor, id, nextMatchID int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE playoff_matches SET next_match_id = $1 WHERE id = $2`

	result, err := executor.ExecContext(ctx, query, nextMatchID, id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) UpdateResult(ctx context.Context, id int, update ResultUpdate) error {
	query := `
		UPDATE playoff_matches
		SET team1_score = $1, team2_score = $2, winner_id = $3,
			game_date = COALESCE($4, game_date),
			game_time = COALESCE($5, game_time),
			rink_id = COALESCE($6, rink_id),
			surface_name = COALESCE($7, surface_name)
		WHERE id = $8`

	result, err := r.db.ExecContext(ctx, query,
		update.Team1Score,
		update.Team2Score,
		update.WinnerID,
		update.GameDate,
		update.GameTime,
		update.RinkID,
		update.SurfaceName,
		id,
	)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

// AdvanceWinner writes a winner into exactly one team slot of a downstream
// match. The single-column UPDATE keeps concurrent propagations from the two
// upstream matches from clobbering each other's slot.
func (r *postgresMatchRepository) AdvanceWinner(ctx context.Context, matchID, slot, teamID int) error {
	var query string
	switch slot {
	case 1:
		query = `UPDATE playoff_matches SET team1_id = $1 WHERE id = $2`
	case 2:
		query = `UPDATE playoff_matches SET team2_id = $1 WHERE id = $2`
	default:
		return fmt.Errorf("invalid advancement slot %d (must be 1 or 2)", slot)
	}

	result, err := r.db.ExecContext(ctx, query, teamID, matchID)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func scanMatch(rowScanner interface{ Scan(...interface{}) error }, match *models.Match) error {
	return rowScanner.Scan(
		&match.ID,
		&match.BracketID,
		&match.Round,
		&match.MatchNumber,
		&match.Type,
		&match.Team1ID,
		&match.Team2ID,
		&match.Team1Score,
		&match.Team2Score,
		&match.WinnerID,
		&match.NextMatchID,
		&match.GameDate,
		&match.GameTime,
		&match.RinkID,
		&match.SurfaceName,
		&match.CreatedAt,
	)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
		switch pqErr.Constraint {
		case "playoff_matches_bracket_id_fkey":
			return ErrMatchBracketInvalid
		case "playoff_matches_team1_id_fkey", "playoff_matches_team2_id_fkey", "playoff_matches_winner_id_fkey":
			return ErrMatchTeamInvalid
		}
	}
	return err
}
