package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"bizsim-api/internal/domain"
	"bizsim-api/internal/repository"
	apperrors "bizsim-api/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DecisionService owns the lifecycle of team decisions: the specialist's
// proposal, team votes and the director's validation. Every guard goes
// through the domain transition table, and every write is a conditional
// update so concurrent submissions resolve to exactly one winner.
type DecisionService struct {
	decisions repository.DecisionRepository
	votes     repository.VoteRepository
	teams     repository.TeamRepository
	events    repository.EventRepository
	sessions  repository.SessionRepository
	cache     *CacheService
	logger    *zap.Logger
	now       func() time.Time
}

func NewDecisionService(
	repos *repository.Repositories,
	cache *CacheService,
	logger *zap.Logger,
) *DecisionService {
	return &DecisionService{
		decisions: repos.Decisions,
		votes:     repos.Votes,
		teams:     repos.Teams,
		events:    repos.Events,
		sessions:  repos.Sessions,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
}

// DecisionView is the polling payload for one team's decision: current
// record, vote tally and the countdown, all computed on read.
type DecisionView struct {
	Decision         domain.Decision    `json:"decision"`
	Tally            domain.TallyResult `json:"tally"`
	RemainingSeconds int                `json:"remaining_seconds"`
	Expired          bool               `json:"expired"`
}

// GetDecision returns the polling payload for (session event, team).
// Team members and administrators may read it. A missing decision is
// NotFound; polling clients treat that as "not yet prepared" and retry.
func (s *DecisionService) GetDecision(ctx context.Context, actor domain.Identity, sessionEventID, teamID string) (*DecisionView, error) {
	if !actor.Admin {
		member, err := s.teams.GetMember(ctx, teamID, actor.UserID)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to check team membership", err)
		}
		if member == nil {
			return nil, apperrors.NewAuthorizationError("you are not a member of this team")
		}
	}

	if cached, ok := s.cache.GetDecisionView(ctx, sessionEventID, teamID); ok {
		var view DecisionView
		if err := json.Unmarshal(cached, &view); err == nil {
			return &view, nil
		}
	}

	decision, err := s.decisions.GetBySessionEventAndTeam(ctx, sessionEventID, teamID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load decision", err)
	}
	if decision == nil {
		return nil, apperrors.NewNotFoundError("decision not found")
	}

	sessionEvent, event, err := s.loadEventContext(ctx, decision)
	if err != nil {
		return nil, err
	}

	votes, err := s.votes.ListByDecision(ctx, decision.ID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load votes", err)
	}
	members, err := s.teams.ListMembers(ctx, decision.TeamID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load team members", err)
	}

	now := s.now()
	view := &DecisionView{
		Decision:         *decision,
		Tally:            domain.Tally(votes, domain.EligibleVoters(members, event.Category)),
		RemainingSeconds: int(sessionEvent.Remaining(now).Seconds()),
		Expired:          sessionEvent.IsExpired(now),
	}

	if payload, err := json.Marshal(view); err == nil {
		s.cache.SetDecisionView(ctx, sessionEventID, teamID, payload)
	}
	return view, nil
}

// Propose records the specialist's option choice and arguments, moving the
// decision from pending to voting. One-shot and irrevocable.
func (s *DecisionService) Propose(ctx context.Context, actorID, decisionID, optionID, advantages, disadvantages, justification string) (*domain.Decision, error) {
	if optionID == "" {
		return nil, apperrors.NewValidationError("an option must be selected", nil)
	}
	if isBlank(advantages) || isBlank(disadvantages) || isBlank(justification) {
		return nil, apperrors.NewValidationError("advantages, disadvantages and justification are all required", nil)
	}

	decision, err := s.decisions.GetByID(ctx, decisionID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load decision", err)
	}
	if decision == nil {
		return nil, apperrors.NewNotFoundError("decision not found")
	}

	_, event, err := s.loadEventContext(ctx, decision)
	if err != nil {
		return nil, err
	}

	member, err := s.requireMember(ctx, decision.TeamID, actorID)
	if err != nil {
		return nil, err
	}
	if member.Role != event.Category.SpecialistRole() {
		return nil, apperrors.NewAuthorizationError("only the specialist for this event category may propose")
	}

	if event.Option(optionID) == nil {
		return nil, apperrors.NewValidationError("option does not belong to this event", nil)
	}

	if _, ok := domain.NextStatus(decision.Status, domain.ActionPropose); !ok {
		return nil, apperrors.NewInvalidStateError("a proposal has already been made for this decision")
	}

	updated, err := s.decisions.MarkProposed(ctx, decisionID, actorID, optionID, advantages, disadvantages, justification)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to record proposal", err)
	}
	if !updated {
		// Lost the compare-and-swap: another submission advanced the decision
		// between our read and write.
		return nil, apperrors.NewConflictError("decision was updated concurrently, reload and retry")
	}

	s.cache.InvalidateDecisionView(ctx, decision.SessionEventID, decision.TeamID)
	s.logger.Info("proposal recorded",
		zap.String("decision_id", decisionID),
		zap.String("proposed_by", actorID),
		zap.String("option_id", optionID))

	return s.reload(ctx, decisionID)
}

// Vote records one team member's position on the current proposal.
// Insert-only; a second vote by the same member is rejected, not overwritten.
func (s *DecisionService) Vote(ctx context.Context, actorID, decisionID, optionID string, approved bool, comment string) (*domain.Vote, error) {
	if isBlank(comment) {
		return nil, apperrors.NewValidationError("a comment is required with your vote", nil)
	}
	if optionID == "" {
		return nil, apperrors.NewValidationError("an option must be referenced", nil)
	}

	decision, err := s.decisions.GetByID(ctx, decisionID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load decision", err)
	}
	if decision == nil {
		return nil, apperrors.NewNotFoundError("decision not found")
	}

	if _, ok := domain.NextStatus(decision.Status, domain.ActionVote); !ok {
		if decision.IsPending() {
			return nil, apperrors.NewInvalidStateError("no proposal has been made yet")
		}
		return nil, apperrors.NewInvalidStateError("the decision has already been validated")
	}

	_, event, err := s.loadEventContext(ctx, decision)
	if err != nil {
		return nil, err
	}

	member, err := s.requireMember(ctx, decision.TeamID, actorID)
	if err != nil {
		return nil, err
	}
	if member.Role == event.Category.SpecialistRole() {
		return nil, apperrors.NewAuthorizationError("the specialist does not vote on their own proposal")
	}
	if member.Role == domain.RoleDG {
		return nil, apperrors.NewAuthorizationError("the director validates instead of voting")
	}

	if decision.ProposedOptionID == nil || optionID != *decision.ProposedOptionID {
		return nil, apperrors.NewValidationError("vote must reference the currently proposed option", nil)
	}

	vote := &domain.Vote{
		ID:         uuid.NewString(),
		DecisionID: decisionID,
		UserID:     actorID,
		OptionID:   optionID,
		Approved:   approved,
		Comment:    comment,
	}

	if err := s.votes.Create(ctx, vote); err != nil {
		if errors.Is(err, repository.ErrDuplicateVote) {
			return nil, apperrors.NewDuplicateVoteError("you have already voted on this decision")
		}
		return nil, apperrors.NewInternalError("failed to record vote", err)
	}

	s.cache.InvalidateDecisionView(ctx, decision.SessionEventID, decision.TeamID)
	s.logger.Info("vote recorded",
		zap.String("decision_id", decisionID),
		zap.String("user_id", actorID),
		zap.Bool("approved", approved))

	return vote, nil
}

// Validate finalizes the decision as the director, optionally overriding the
// specialist's option. Quorum is advisory only; the director may act at any
// time once the decision is in voting.
func (s *DecisionService) Validate(ctx context.Context, actorID, decisionID, comment string, overrideOptionID *string) (*domain.Decision, error) {
	if isBlank(comment) {
		return nil, apperrors.NewValidationError("a validation comment is required", nil)
	}

	decision, err := s.decisions.GetByID(ctx, decisionID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load decision", err)
	}
	if decision == nil {
		return nil, apperrors.NewNotFoundError("decision not found")
	}

	if _, ok := domain.NextStatus(decision.Status, domain.ActionValidate); !ok {
		if decision.IsPending() {
			return nil, apperrors.NewInvalidStateError("no proposal has been made yet")
		}
		return nil, apperrors.NewInvalidStateError("the decision has already been validated")
	}

	_, event, err := s.loadEventContext(ctx, decision)
	if err != nil {
		return nil, err
	}

	member, err := s.requireMember(ctx, decision.TeamID, actorID)
	if err != nil {
		return nil, err
	}
	if member.Role != domain.RoleDG {
		return nil, apperrors.NewAuthorizationError("only the general director may validate a decision")
	}

	if overrideOptionID != nil {
		if event.Option(*overrideOptionID) == nil {
			return nil, apperrors.NewValidationError("override option does not belong to this event", nil)
		}
		// Choosing the proposed option again is not an override.
		if decision.ProposedOptionID != nil && *overrideOptionID == *decision.ProposedOptionID {
			overrideOptionID = nil
		}
	}

	updated, err := s.decisions.MarkValidated(ctx, decisionID, actorID, comment, overrideOptionID, s.now())
	if err != nil {
		return nil, apperrors.NewInternalError("failed to record validation", err)
	}
	if !updated {
		return nil, apperrors.NewConflictError("decision was updated concurrently, reload and retry")
	}

	s.cache.InvalidateDecisionView(ctx, decision.SessionEventID, decision.TeamID)
	s.logger.Info("decision validated",
		zap.String("decision_id", decisionID),
		zap.String("validated_by", actorID),
		zap.Bool("override", overrideOptionID != nil))

	return s.reload(ctx, decisionID)
}

// ListVotes returns all votes cast on a decision, for team members and
// administrators
func (s *DecisionService) ListVotes(ctx context.Context, actor domain.Identity, decisionID string) ([]domain.Vote, error) {
	decision, err := s.decisions.GetByID(ctx, decisionID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load decision", err)
	}
	if decision == nil {
		return nil, apperrors.NewNotFoundError("decision not found")
	}

	if !actor.Admin {
		if _, err := s.requireMember(ctx, decision.TeamID, actor.UserID); err != nil {
			return nil, err
		}
	}

	votes, err := s.votes.ListByDecision(ctx, decisionID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load votes", err)
	}
	return votes, nil
}

// SetAdminComment stores the grader's post-hoc note on a decision. It never
// touches the state machine.
func (s *DecisionService) SetAdminComment(ctx context.Context, actor domain.Identity, decisionID, comment string) error {
	if !actor.Admin {
		return apperrors.NewAuthorizationError("only administrators may annotate decisions")
	}
	if isBlank(comment) {
		return apperrors.NewValidationError("a comment is required", nil)
	}

	decision, err := s.decisions.GetByID(ctx, decisionID)
	if err != nil {
		return apperrors.NewInternalError("failed to load decision", err)
	}
	if decision == nil {
		return apperrors.NewNotFoundError("decision not found")
	}

	if err := s.decisions.SetAdminComment(ctx, decisionID, comment); err != nil {
		return apperrors.NewInternalError("failed to store admin comment", err)
	}
	s.cache.InvalidateDecisionView(ctx, decision.SessionEventID, decision.TeamID)
	return nil
}

// requireMember re-derives the actor's membership on every call; roles are
// never cached across actions.
func (s *DecisionService) requireMember(ctx context.Context, teamID, userID string) (*domain.TeamMember, error) {
	member, err := s.teams.GetMember(ctx, teamID, userID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to check team membership", err)
	}
	if member == nil {
		return nil, apperrors.NewAuthorizationError("you are not a member of this team")
	}
	return member, nil
}

func (s *DecisionService) loadEventContext(ctx context.Context, decision *domain.Decision) (*domain.SessionEvent, *domain.Event, error) {
	sessionEvent, err := s.sessions.GetSessionEvent(ctx, decision.SessionEventID)
	if err != nil {
		return nil, nil, apperrors.NewInternalError("failed to load session event", err)
	}
	if sessionEvent == nil {
		return nil, nil, apperrors.NewNotFoundError("session event not found")
	}

	event, err := s.events.GetEvent(ctx, sessionEvent.EventID)
	if err != nil {
		return nil, nil, apperrors.NewInternalError("failed to load event", err)
	}
	if event == nil {
		return nil, nil, apperrors.NewNotFoundError("event not found")
	}
	return sessionEvent, event, nil
}

func (s *DecisionService) reload(ctx context.Context, decisionID string) (*domain.Decision, error) {
	decision, err := s.decisions.GetByID(ctx, decisionID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to reload decision", err)
	}
	if decision == nil {
		return nil, apperrors.NewNotFoundError("decision not found")
	}
	return decision, nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
