package repository

import (
	"context"
	"errors"
	"time"

	"bizsim-api/internal/domain"
)

// ErrDuplicateVote is returned when a (decision, user) pair already has a
// vote. The unique constraint is the source of truth; the existing row is
// never overwritten.
var ErrDuplicateVote = errors.New("vote already exists for this decision and user")

// Lookups return (nil, nil) when the row does not exist.
// Conditional updates return false when the compare-and-swap matched zero
// rows, meaning a concurrent actor already advanced the record.

// EventRepository defines read access to event templates and their options
type EventRepository interface {
	// GetEvent retrieves an event with its options
	GetEvent(ctx context.Context, id string) (*domain.Event, error)

	// GetOption retrieves a single option by ID
	GetOption(ctx context.Context, optionID string) (*domain.Option, error)
}

// TeamRepository defines read access to teams and memberships
type TeamRepository interface {
	// GetMember retrieves the membership record binding a user to a team
	GetMember(ctx context.Context, teamID, userID string) (*domain.TeamMember, error)

	// ListMembers retrieves all members of a team
	ListMembers(ctx context.Context, teamID string) ([]domain.TeamMember, error)
}

// SessionRepository defines access to sessions and their event activations
type SessionRepository interface {
	// GetSession retrieves a session by ID
	GetSession(ctx context.Context, id string) (*domain.Session, error)

	// GetSessionEvent retrieves a session event by ID
	GetSessionEvent(ctx context.Context, id string) (*domain.SessionEvent, error)

	// FindSessionEvent retrieves the activation record for (session, event)
	FindSessionEvent(ctx context.Context, sessionID, eventID string) (*domain.SessionEvent, error)

	// GetActiveSessionEvent retrieves the session's currently active event, if any
	GetActiveSessionEvent(ctx context.Context, sessionID string) (*domain.SessionEvent, error)

	// ListSessionTeams retrieves the teams participating in a session
	ListSessionTeams(ctx context.Context, sessionID string) ([]domain.Team, error)

	// MarkEventActive flips a pending session event to active and stamps its
	// deadline. Returns false if the event was not pending anymore.
	MarkEventActive(ctx context.Context, sessionEventID string, triggeredAt time.Time, durationSeconds int, expiresAt time.Time) (bool, error)

	// MarkEventResolved flips an active session event to resolved.
	// Returns false if the event was not active anymore.
	MarkEventResolved(ctx context.Context, sessionEventID string, resolvedAt time.Time) (bool, error)

	// MarkSessionActive moves a session out of setup on first activation
	MarkSessionActive(ctx context.Context, sessionID string) error

	// MarkSessionCompleted flips a session to completed.
	// Returns false if the session was already completed.
	MarkSessionCompleted(ctx context.Context, sessionID string) (bool, error)

	// AdvanceCursor raises the session's current event order; the cursor
	// never moves backwards.
	AdvanceCursor(ctx context.Context, sessionID string, eventOrder int) error
}

// DecisionRepository defines access to team decision records
type DecisionRepository interface {
	// GetByID retrieves a decision by ID
	GetByID(ctx context.Context, id string) (*domain.Decision, error)

	// GetBySessionEventAndTeam retrieves the decision for (session event, team)
	GetBySessionEventAndTeam(ctx context.Context, sessionEventID, teamID string) (*domain.Decision, error)

	// ListBySessionEvent retrieves every team's decision under a session event
	ListBySessionEvent(ctx context.Context, sessionEventID string) ([]domain.Decision, error)

	// CreateBatch inserts pending decisions for all teams of an activation in
	// one transaction. Existing (session_event, team) rows are left untouched
	// so re-activation never duplicates decisions.
	CreateBatch(ctx context.Context, decisions []*domain.Decision) error

	// MarkProposed records the specialist's proposal and moves pending to
	// voting. The update is conditional on status still being pending.
	MarkProposed(ctx context.Context, decisionID, actorID, optionID, advantages, disadvantages, justification string) (bool, error)

	// MarkValidated records the director's validation and moves voting to
	// validated. A non-nil override replaces the proposed option and is kept
	// as the override marker. Conditional on status still being voting.
	MarkValidated(ctx context.Context, decisionID, actorID, comment string, overrideOptionID *string, validatedAt time.Time) (bool, error)

	// SetAdminComment stores the post-hoc grader note
	SetAdminComment(ctx context.Context, decisionID, comment string) error
}

// VoteRepository defines access to vote records
type VoteRepository interface {
	// Create inserts a vote; returns ErrDuplicateVote if the user already
	// voted on this decision
	Create(ctx context.Context, vote *domain.Vote) error

	// ListByDecision retrieves all votes cast on a decision
	ListByDecision(ctx context.Context, decisionID string) ([]domain.Vote, error)
}

// ScoreRepository defines access to the append-only score snapshots
type ScoreRepository interface {
	// Latest retrieves the team's most recent snapshot for the session
	Latest(ctx context.Context, sessionID, teamID string) (*domain.TeamScore, error)

	// Append inserts a new snapshot; snapshots are never updated in place
	Append(ctx context.Context, score *domain.TeamScore) error

	// ListByTeam retrieves the team's snapshot history, oldest first
	ListByTeam(ctx context.Context, sessionID, teamID string) ([]domain.TeamScore, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	Events    EventRepository
	Teams     TeamRepository
	Sessions  SessionRepository
	Decisions DecisionRepository
	Votes     VoteRepository
	Scores    ScoreRepository
}
