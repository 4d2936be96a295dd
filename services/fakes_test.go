package services

import (
	"context"
	"database/sql"
	"sort"

	"github.com/drewtwitchell/openrink-playoffs/models"
	"github.com/drewtwitchell/openrink-playoffs/repositories"
)

// In-memory repository fakes used across the service tests.

// fakeTxBeginner hands out no-op transactions; the repository fakes mutate
// in-memory state directly, so the tx only tracks commit/rollback calls.
type fakeTxBeginner struct {
	commits   int
	rollbacks int
}

func (f *fakeTxBeginner) BeginTx(ctx context.Context) (repositories.Tx, error) {
	return &fakeTx{beginner: f}, nil
}

type fakeTx struct {
	beginner *fakeTxBeginner
	done     bool
}

func (t *fakeTx) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (t *fakeTx) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (t *fakeTx) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (t *fakeTx) Commit() error {
	t.done = true
	t.beginner.commits++
	return nil
}

func (t *fakeTx) Rollback() error {
	if !t.done {
		t.beginner.rollbacks++
	}
	return nil
}

type fakeMatchRepo struct {
	nextID  int
	matches map[int]*models.Match

	advanceCalls []advanceCall
}

type advanceCall struct {
	matchID int
	slot    int
	teamID  int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{nextID: 1, matches: make(map[int]*models.Match)}
}

func (f *fakeMatchRepo) add(match *models.Match) *models.Match {
	if match.ID == 0 {
		match.ID = f.nextID
		f.nextID++
	} else if match.ID >= f.nextID {
		f.nextID = match.ID + 1
	}
	f.matches[match.ID] = match
	return match
}

func (f *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, match *models.Match) error {
	f.add(match)
	return nil
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	match, ok := f.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	copied := *match
	return &copied, nil
}

func (f *fakeMatchRepo) ListByBracket(ctx context.Context, bracketID int, matchType *models.MatchType, completedOnly bool) ([]*models.Match, error) {
	matches := make([]*models.Match, 0)
	for _, match := range f.matches {
		if match.BracketID != bracketID {
			continue
		}
		if matchType != nil && match.Type != *matchType {
			continue
		}
		if completedOnly && !match.Completed() {
			continue
		}
		copied := *match
		matches = append(matches, &copied)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Round != matches[j].Round {
			return matches[i].Round < matches[j].Round
		}
		return matches[i].MatchNumber < matches[j].MatchNumber
	})
	return matches, nil
}

func (f *fakeMatchRepo) SetNextMatch(ctx context.Context, exec repositories.SQLExecutor, id, nextMatchID int) error {
	match, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.NextMatchID = &nextMatchID
	return nil
}

func (f *fakeMatchRepo) UpdateResult(ctx context.Context, id int, update repositories.ResultUpdate) error {
	match, ok := f.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	match.Team1Score = update.Team1Score
	match.Team2Score = update.Team2Score
	match.WinnerID = update.WinnerID
	if update.GameDate != nil {
		match.GameDate = update.GameDate
	}
	if update.GameTime != nil {
		match.GameTime = update.GameTime
	}
	if update.RinkID != nil {
		match.RinkID = update.RinkID
	}
	if update.SurfaceName != nil {
		match.SurfaceName = update.SurfaceName
	}
	return nil
}

func (f *fakeMatchRepo) AdvanceWinner(ctx context.Context, matchID, slot, teamID int) error {
	match, ok := f.matches[matchID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	winner := teamID
	if slot == 1 {
		match.Team1ID = &winner
	} else {
		match.Team2ID = &winner
	}
	f.advanceCalls = append(f.advanceCalls, advanceCall{matchID: matchID, slot: slot, teamID: teamID})
	return nil
}

type fakeBracketRepo struct {
	brackets map[int]*models.Bracket
}

func newFakeBracketRepo() *fakeBracketRepo {
	return &fakeBracketRepo{brackets: make(map[int]*models.Bracket)}
}

func (f *fakeBracketRepo) Create(ctx context.Context, exec repositories.SQLExecutor, bracket *models.Bracket) error {
	bracket.ID = len(f.brackets) + 1
	f.brackets[bracket.ID] = bracket
	return nil
}

func (f *fakeBracketRepo) GetByID(ctx context.Context, id int) (*models.Bracket, error) {
	bracket, ok := f.brackets[id]
	if !ok {
		return nil, repositories.ErrBracketNotFound
	}
	copied := *bracket
	return &copied, nil
}

func (f *fakeBracketRepo) ListByLeagueSeason(ctx context.Context, leagueID, seasonID int) ([]*models.Bracket, error) {
	list := make([]*models.Bracket, 0)
	for _, bracket := range f.brackets {
		if bracket.LeagueID == leagueID && bracket.SeasonID == seasonID {
			copied := *bracket
			list = append(list, &copied)
		}
	}
	return list, nil
}

func (f *fakeBracketRepo) GetActive(ctx context.Context, leagueID, seasonID int) (*models.Bracket, error) {
	for _, bracket := range f.brackets {
		if bracket.LeagueID == leagueID && bracket.SeasonID == seasonID && bracket.IsActive {
			copied := *bracket
			return &copied, nil
		}
	}
	return nil, repositories.ErrBracketNotFound
}

func (f *fakeBracketRepo) SetActive(ctx context.Context, exec repositories.SQLExecutor, id int, active bool) error {
	bracket, ok := f.brackets[id]
	if !ok {
		return repositories.ErrBracketNotFound
	}
	bracket.IsActive = active
	return nil
}

func (f *fakeBracketRepo) DeactivateAll(ctx context.Context, exec repositories.SQLExecutor, leagueID, seasonID int) error {
	for _, bracket := range f.brackets {
		if bracket.LeagueID == leagueID && bracket.SeasonID == seasonID {
			bracket.IsActive = false
		}
	}
	return nil
}

func (f *fakeBracketRepo) Delete(ctx context.Context, id int) error {
	if _, ok := f.brackets[id]; !ok {
		return repositories.ErrBracketNotFound
	}
	delete(f.brackets, id)
	return nil
}

type fakeTeamRepo struct {
	teams map[int]*models.Team
}

func newFakeTeamRepo(teams ...*models.Team) *fakeTeamRepo {
	repo := &fakeTeamRepo{teams: make(map[int]*models.Team)}
	for _, team := range teams {
		repo.teams[team.ID] = team
	}
	return repo
}

func (f *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, ok := f.teams[id]
	if !ok {
		return nil, repositories.ErrTeamNotFound
	}
	return team, nil
}

func (f *fakeTeamRepo) ListByLeague(ctx context.Context, leagueID int) ([]*models.Team, error) {
	list := make([]*models.Team, 0)
	for _, team := range f.teams {
		if team.LeagueID == leagueID {
			list = append(list, team)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (f *fakeTeamRepo) ListByIDs(ctx context.Context, ids []int) ([]*models.Team, error) {
	list := make([]*models.Team, 0)
	for _, id := range ids {
		if team, ok := f.teams[id]; ok {
			list = append(list, team)
		}
	}
	return list, nil
}
