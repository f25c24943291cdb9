package service

import (
	"context"
	"fmt"
	"time"

	"bizsim-api/internal/domain"
	"bizsim-api/internal/repository"
	apperrors "bizsim-api/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SchedulerService advances a session through its ordered events: activating
// the next event with a deadline, creating one pending decision per team, and
// resolving closed events into score snapshots.
type SchedulerService struct {
	sessions  repository.SessionRepository
	decisions repository.DecisionRepository
	events    repository.EventRepository
	scores    repository.ScoreRepository
	cache     *CacheService
	logger    *zap.Logger
	now       func() time.Time
}

func NewSchedulerService(
	repos *repository.Repositories,
	cache *CacheService,
	logger *zap.Logger,
) *SchedulerService {
	return &SchedulerService{
		sessions:  repos.Sessions,
		decisions: repos.Decisions,
		events:    repos.Events,
		scores:    repos.Scores,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
}

// SessionState is the payload for the session overview endpoint
type SessionState struct {
	Session          domain.Session       `json:"session"`
	ActiveEvent      *domain.SessionEvent `json:"active_event,omitempty"`
	RemainingSeconds int                  `json:"remaining_seconds"`
	Expired          bool                 `json:"expired"`
}

// ActivateEvent opens an event for all participating teams. At most one
// session event per session is active: a still-active predecessor is
// resolved first, in the same operation. Re-activating the already active
// event is idempotent and never duplicates decisions.
func (s *SchedulerService) ActivateEvent(ctx context.Context, actor domain.Identity, sessionID, eventID string, durationSeconds int) (*domain.SessionEvent, error) {
	if !actor.Admin {
		return nil, apperrors.NewAuthorizationError("only administrators may activate events")
	}
	if durationSeconds < domain.MinDurationSeconds {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("duration must be at least %d seconds", domain.MinDurationSeconds), nil)
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load session", err)
	}
	if session == nil {
		return nil, apperrors.NewNotFoundError("session not found")
	}
	if session.IsCompleted() {
		return nil, apperrors.NewInvalidStateError("session is completed, no further events may be activated")
	}

	sessionEvent, err := s.sessions.FindSessionEvent(ctx, sessionID, eventID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load session event", err)
	}
	if sessionEvent == nil {
		return nil, apperrors.NewNotFoundError("event is not part of this session")
	}
	if sessionEvent.IsResolved() {
		return nil, apperrors.NewInvalidStateError("event has already been resolved")
	}
	if sessionEvent.IsActive() {
		// Double-submit of the same activation: make sure every team has its
		// decision, then report the existing activation.
		if err := s.createDecisions(ctx, sessionEvent); err != nil {
			return nil, err
		}
		return sessionEvent, nil
	}

	acquired, err := s.cache.TryIdempotencyLock(ctx, "activate:"+sessionEvent.ID)
	if err != nil {
		s.logger.Warn("idempotency lock unavailable", zap.Error(err))
	} else if !acquired {
		return nil, apperrors.NewConflictError("activation already in progress")
	}

	active, err := s.sessions.GetActiveSessionEvent(ctx, sessionID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to check active event", err)
	}
	if active != nil {
		if _, err := s.resolveActivated(ctx, active, nil); err != nil {
			return nil, err
		}
	}

	now := s.now()
	activated, err := s.sessions.MarkEventActive(ctx, sessionEvent.ID, now, durationSeconds, now.Add(time.Duration(durationSeconds)*time.Second))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to activate event", err)
	}
	if !activated {
		return nil, apperrors.NewConflictError("event was activated concurrently, reload and retry")
	}

	if err := s.createDecisions(ctx, sessionEvent); err != nil {
		return nil, err
	}

	if err := s.sessions.MarkSessionActive(ctx, sessionID); err != nil {
		return nil, apperrors.NewInternalError("failed to update session status", err)
	}
	if err := s.sessions.AdvanceCursor(ctx, sessionID, sessionEvent.EventOrder); err != nil {
		return nil, apperrors.NewInternalError("failed to advance session cursor", err)
	}

	s.cache.InvalidateSession(ctx, sessionID)
	s.logger.Info("event activated",
		zap.String("session_id", sessionID),
		zap.String("session_event_id", sessionEvent.ID),
		zap.Int("duration_seconds", durationSeconds))

	refreshed, err := s.sessions.GetSessionEvent(ctx, sessionEvent.ID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to reload session event", err)
	}
	return refreshed, nil
}

// createDecisions prepares one pending decision per participating team.
// The batch is transactional: either every team gets its row or the
// activation fails, since a team without a decision can never participate.
// Teams that already have a decision keep theirs.
func (s *SchedulerService) createDecisions(ctx context.Context, sessionEvent *domain.SessionEvent) error {
	teams, err := s.sessions.ListSessionTeams(ctx, sessionEvent.SessionID)
	if err != nil {
		return apperrors.NewInternalError("failed to list session teams", err)
	}
	if len(teams) == 0 {
		return apperrors.NewValidationError("session has no participating teams", nil)
	}

	decisions := make([]*domain.Decision, len(teams))
	for i, team := range teams {
		decisions[i] = &domain.Decision{
			ID:             uuid.NewString(),
			SessionEventID: sessionEvent.ID,
			TeamID:         team.ID,
			Status:         domain.DecisionPending,
		}
	}
	if err := s.decisions.CreateBatch(ctx, decisions); err != nil {
		return apperrors.NewInternalError("failed to create team decisions", err)
	}
	return nil
}

// ResolveEvent closes an active event and appends a score snapshot for every
// team whose decision was validated. overrides carries the administrator's
// supervised per-team corrections, replacing the option's predefined vector.
func (s *SchedulerService) ResolveEvent(ctx context.Context, actor domain.Identity, sessionEventID string, overrides map[string]domain.ScoreVector) ([]domain.TeamScore, error) {
	if !actor.Admin {
		return nil, apperrors.NewAuthorizationError("only administrators may resolve events")
	}

	sessionEvent, err := s.sessions.GetSessionEvent(ctx, sessionEventID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load session event", err)
	}
	if sessionEvent == nil {
		return nil, apperrors.NewNotFoundError("session event not found")
	}

	return s.resolveActivated(ctx, sessionEvent, overrides)
}

// resolveActivated performs the resolve. The resolved compare-and-swap runs
// first so two concurrent resolutions can never score the same event twice.
func (s *SchedulerService) resolveActivated(ctx context.Context, sessionEvent *domain.SessionEvent, overrides map[string]domain.ScoreVector) ([]domain.TeamScore, error) {
	resolved, err := s.sessions.MarkEventResolved(ctx, sessionEvent.ID, s.now())
	if err != nil {
		return nil, apperrors.NewInternalError("failed to resolve session event", err)
	}
	if !resolved {
		return nil, apperrors.NewInvalidStateError("session event is not active")
	}

	decisions, err := s.decisions.ListBySessionEvent(ctx, sessionEvent.ID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list decisions", err)
	}

	scores, err := s.scoreDecisions(ctx, sessionEvent, decisions, overrides)
	if err != nil {
		return nil, err
	}

	s.cache.InvalidateSession(ctx, sessionEvent.SessionID)
	s.logger.Info("event resolved",
		zap.String("session_event_id", sessionEvent.ID),
		zap.Int("decisions", len(decisions)),
		zap.Int("scores_appended", len(scores)))

	return scores, nil
}

// CompleteSession resolves any still-active event and closes the session.
// Terminal: no further activation is permitted afterwards.
func (s *SchedulerService) CompleteSession(ctx context.Context, actor domain.Identity, sessionID string) (*domain.Session, error) {
	if !actor.Admin {
		return nil, apperrors.NewAuthorizationError("only administrators may complete sessions")
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load session", err)
	}
	if session == nil {
		return nil, apperrors.NewNotFoundError("session not found")
	}
	if session.IsCompleted() {
		return nil, apperrors.NewInvalidStateError("session is already completed")
	}

	active, err := s.sessions.GetActiveSessionEvent(ctx, sessionID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to check active event", err)
	}
	if active != nil {
		if _, err := s.resolveActivated(ctx, active, nil); err != nil {
			return nil, err
		}
	}

	completed, err := s.sessions.MarkSessionCompleted(ctx, sessionID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to complete session", err)
	}
	if !completed {
		return nil, apperrors.NewConflictError("session was completed concurrently")
	}

	s.cache.InvalidateSession(ctx, sessionID)
	s.logger.Info("session completed", zap.String("session_id", sessionID))

	refreshed, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to reload session", err)
	}
	return refreshed, nil
}

// GetSessionState returns the session with its active event and countdown,
// for the polling overview endpoint
func (s *SchedulerService) GetSessionState(ctx context.Context, sessionID string) (*SessionState, error) {
	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load session", err)
	}
	if session == nil {
		return nil, apperrors.NewNotFoundError("session not found")
	}

	state := &SessionState{Session: *session}

	active, err := s.sessions.GetActiveSessionEvent(ctx, sessionID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load active event", err)
	}
	if active != nil {
		now := s.now()
		state.ActiveEvent = active
		state.RemainingSeconds = int(active.Remaining(now).Seconds())
		state.Expired = active.IsExpired(now)
	}
	return state, nil
}

// ListTeamScores returns a team's snapshot history, oldest first
func (s *SchedulerService) ListTeamScores(ctx context.Context, sessionID, teamID string) ([]domain.TeamScore, error) {
	scores, err := s.scores.ListByTeam(ctx, sessionID, teamID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list team scores", err)
	}
	return scores, nil
}
