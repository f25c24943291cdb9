package service

import (
	"context"

	"bizsim-api/internal/domain"
	apperrors "bizsim-api/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// scoreDecisions applies the scoring rules when an event closes. For each
// validated decision the resolved option's delta (or the administrator's
// override vector) is added onto the team's previous snapshot and a new
// snapshot is appended. A decision that never reached validated contributes
// nothing: the team's latest snapshot simply stays in place.
func (s *SchedulerService) scoreDecisions(ctx context.Context, sessionEvent *domain.SessionEvent, decisions []domain.Decision, overrides map[string]domain.ScoreVector) ([]domain.TeamScore, error) {
	var appended []domain.TeamScore

	for i := range decisions {
		decision := &decisions[i]
		if !decision.IsValidated() {
			s.logger.Info("decision closed without validation, no score delta",
				zap.String("decision_id", decision.ID),
				zap.String("team_id", decision.TeamID),
				zap.String("status", string(decision.Status)))
			continue
		}

		delta, err := s.resolveDelta(ctx, decision, overrides)
		if err != nil {
			return nil, err
		}

		prev, err := s.scores.Latest(ctx, sessionEvent.SessionID, decision.TeamID)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to load previous score", err)
		}

		next := domain.NextScore(prev, sessionEvent.SessionID, decision.TeamID, &sessionEvent.ID, delta)
		next.ID = uuid.NewString()

		if err := s.scores.Append(ctx, &next); err != nil {
			return nil, apperrors.NewInternalError("failed to append score snapshot", err)
		}
		appended = append(appended, next)
	}

	return appended, nil
}

// resolveDelta picks the point vector to apply: the administrator's
// supervised correction if one was entered for the team, otherwise the
// predefined vector of the resolved option. The resolved option is whatever
// proposed_option_id points at, which already reflects a director override.
func (s *SchedulerService) resolveDelta(ctx context.Context, decision *domain.Decision, overrides map[string]domain.ScoreVector) (domain.ScoreVector, error) {
	if override, ok := overrides[decision.TeamID]; ok {
		return override, nil
	}

	if decision.ProposedOptionID == nil {
		return domain.ScoreVector{}, apperrors.NewInternalError("validated decision has no resolved option", nil)
	}
	option, err := s.events.GetOption(ctx, *decision.ProposedOptionID)
	if err != nil {
		return domain.ScoreVector{}, apperrors.NewInternalError("failed to load resolved option", err)
	}
	if option == nil {
		return domain.ScoreVector{}, apperrors.NewInternalError("resolved option no longer exists", nil)
	}
	return option.Points, nil
}
