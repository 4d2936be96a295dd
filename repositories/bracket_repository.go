package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/drewtwitchell/openrink-playoffs/models"
	"github.com/lib/pq"
)

var (
	ErrBracketNotFound      = errors.New("playoff bracket not found")
	ErrBracketSeasonInvalid = errors.New("bracket league or season conflict or invalid")
)

type BracketRepository interface {
	Create(ctx context.Context, exec SQLExecutor, bracket *models.Bracket) error
	GetByID(ctx context.Context, id int) (*models.Bracket, error)
	ListByLeagueSeason(ctx context.Context, leagueID, seasonID int) ([]*models.Bracket, error)
	GetActive(ctx context.Context, leagueID, seasonID int) (*models.Bracket, error)
	SetActive(ctx context.Context, exec SQLExecutor, id int, active bool) error
	DeactivateAll(ctx context.Context, exec SQLExecutor, leagueID, seasonID int) error
	Delete(ctx context.Context, id int) error
}

type postgresBracketRepository struct {
	db *sql.DB
}

func NewPostgresBracketRepository(db *sql.DB) BracketRepository {
	return &postgresBracketRepository{db: db}
}

func (r *postgresBracketRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

const bracketColumns = `id, league_id, season_id, name, format, is_active, created_by, created_at`

func (r *postgresBracketRepository) Create(ctx context.Context, exec SQLExecutor, bracket *models.Bracket) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO playoff_brackets (league_id, season_id, name, format, is_active, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		bracket.LeagueID,
		bracket.SeasonID,
		bracket.Name,
		bracket.Format,
		bracket.IsActive,
		bracket.CreatedBy,
	).Scan(&bracket.ID, &bracket.CreatedAt)

	return r.handleBracketError(err)
}

func (r *postgresBracketRepository) GetByID(ctx context.Context, id int) (*models.Bracket, error) {
	query := `SELECT ` + bracketColumns + ` FROM playoff_brackets WHERE id = $1`

	bracket := &models.Bracket{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&bracket.ID,
		&bracket.LeagueID,
		&bracket.SeasonID,
		&bracket.Name,
		&bracket.Format,
		&bracket.IsActive,
		&bracket.CreatedBy,
		&bracket.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBracketNotFound
		}
		return nil, err
	}
	return bracket, nil
}

func (r *postgresBracketRepository) ListByLeagueSeason(ctx context.Context, leagueID, seasonID int) ([]*models.Bracket, error) {
	query := `
		SELECT ` + bracketColumns + `
		FROM playoff_brackets
		WHERE league_id = $1 AND season_id = $2
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, leagueID, seasonID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	brackets := make([]*models.Bracket, 0)
	for rows.Next() {
		var bracket models.Bracket
		if scanErr := rows.Scan(
			&bracket.ID,
			&bracket.LeagueID,
			&bracket.SeasonID,
			&bracket.Name,
			&bracket.Format,
			&bracket.IsActive,
			&bracket.CreatedBy,
			&bracket.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		brackets = append(brackets, &bracket)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return brackets, nil
}

func (r *postgresBracketRepository) GetActive(ctx context.Context, leagueID, seasonID int) (*models.Bracket, error) {
	query := `
		SELECT ` + bracketColumns + `
		FROM playoff_brackets
		WHERE league_id = $1 AND season_id = $2 AND is_active = TRUE
		ORDER BY created_at DESC
		LIMIT 1`

	bracket := &models.Bracket{}
	err := r.db.QueryRowContext(ctx, query, leagueID, seasonID).Scan(
		&bracket.ID,
		&bracket.LeagueID,
		&bracket.SeasonID,
		&bracket.Name,
		&bracket.Format,
		&bracket.IsActive,
		&bracket.CreatedBy,
		&bracket.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBracketNotFound
		}
		return nil, err
	}
	return bracket, nil
}

func (r *postgresBracketRepository) SetActive(ctx context.Context, exec SQLExecutor, id int, active bool) error {
	executor := r.getExecutor(exec)
	query := `UPDATE playoff_brackets SET is_active = $1 WHERE id = $2`

	result, err := executor.ExecContext(ctx, query, active, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBracketNotFound)
}

func (r *postgresBracketRepository) DeactivateAll(ctx context.Context, exec SQLExecutor, leagueID, seasonID int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE playoff_brackets SET is_active = FALSE WHERE league_id = $1 AND season_id = $2`

	_, err := executor.ExecContext(ctx, query, leagueID, seasonID)
	return err
}

// Delete removes the bracket; playoff_matches rows cascade via their
// bracket_id foreign key.
func (r *postgresBracketRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM playoff_brackets WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrBracketNotFound)
}

func (r *postgresBracketRepository) handleBracketError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
		return ErrBracketSeasonInvalid
	}
	return err
}
