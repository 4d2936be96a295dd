package services

import "errors"

// Shared errors used across services and the HTTP error mapping. Every
// validation error names the precondition that failed so callers can surface
// a corrective message.
var (
	// Not-found
	ErrBracketNotFound = errors.New("playoff bracket not found")
	ErrMatchNotFound   = errors.New("playoff match not found")
	ErrTeamNotFound    = errors.New("one or more teams not found")

	// Validation and business rules; rejected before any mutation.
	ErrBracketNameRequired   = errors.New("bracket name is required")
	ErrBracketInvalidFormat  = errors.New("bracket format must be round_robin or single_elimination")
	ErrEliminationTeamCount  = errors.New("single elimination requires exactly 4, 8, or 16 teams")
	ErrRoundRobinTeamCount   = errors.New("round robin requires at least 2 teams")
	ErrScheduleSlotsRequired = errors.New("round robin requires at least one recurring time slot")
	ErrSeedingTeamCount      = errors.New("playoff seeding requires at least 4 teams in the standings")
	ErrSeedingSourceFormat   = errors.New("playoff seeding requires a round_robin source bracket")

	// Consistency
	ErrTeamLeagueMismatch    = errors.New("all teams must belong to the bracket's league")
	ErrMatchTeamsNotAssigned = errors.New("both team slots must be assigned before recording a result")
	ErrScoresRequired        = errors.New("both scores are required when recording a winner")
	ErrWinnerNotInMatch      = errors.New("winner must be one of the two teams in the match")
)
