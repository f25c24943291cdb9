package service

import (
	"time"

	"bizsim-api/internal/domain"

	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

// fixture wires a session with one active social event, two teams and a
// pending decision for the first team, against in-memory repositories.
type fixture struct {
	repos     *memRepos
	decisions *DecisionService
	scheduler *SchedulerService
}

const (
	fxSessionID    = "sess-1"
	fxActiveSE     = "se-1"
	fxPendingSE    = "se-2"
	fxSocialEvent  = "evt-social"
	fxFinanceEvent = "evt-finance"
	fxOptionA      = "opt-a"
	fxOptionB      = "opt-b"
	fxOptionInvest = "opt-invest"
	fxOptionWait   = "opt-wait"
	fxTeamID       = "team-1"
	fxOtherTeamID  = "team-2"
	fxDecisionID   = "dec-1"

	fxDG         = "user-dg"
	fxRH         = "user-rh"
	fxCommercial = "user-com"
	fxFinance    = "user-fin"
	fxOutsider   = "user-outsider"
	fxAdmin      = "user-admin"
)

func newFixture() *fixture {
	repos := newMemRepos()

	repos.events[fxSocialEvent] = &domain.Event{
		ID:       fxSocialEvent,
		Title:    "Conflit social",
		Category: domain.CategorySocial,
		Options: []domain.Option{
			{ID: fxOptionA, EventID: fxSocialEvent, Label: "Negocier",
				Points: domain.ScoreVector{Social: 10}},
			{ID: fxOptionB, EventID: fxSocialEvent, Label: "Ignorer",
				Points: domain.ScoreVector{Social: -15, Direction: -5}},
		},
	}
	repos.events[fxFinanceEvent] = &domain.Event{
		ID:       fxFinanceEvent,
		Title:    "Opportunite d'investissement",
		Category: domain.CategoryFinance,
		Options: []domain.Option{
			{ID: fxOptionInvest, EventID: fxFinanceEvent, Label: "Investir",
				Points: domain.ScoreVector{Finance: -5, Production: 10}},
			{ID: fxOptionWait, EventID: fxFinanceEvent, Label: "Attendre",
				Points: domain.ScoreVector{Finance: 5}},
		},
	}

	repos.sessions[fxSessionID] = &domain.Session{
		ID:     fxSessionID,
		Name:   "Session test",
		Status: domain.SessionStatusActive,
	}

	triggeredAt := fixedNow.Add(-2 * time.Minute)
	expiresAt := fixedNow.Add(3 * time.Minute)
	repos.sessionEvents[fxActiveSE] = &domain.SessionEvent{
		ID:              fxActiveSE,
		SessionID:       fxSessionID,
		EventID:         fxSocialEvent,
		EventOrder:      1,
		Status:          domain.SessionEventActive,
		TriggeredAt:     &triggeredAt,
		DurationSeconds: 300,
		ExpiresAt:       &expiresAt,
	}
	repos.sessionEvents[fxPendingSE] = &domain.SessionEvent{
		ID:         fxPendingSE,
		SessionID:  fxSessionID,
		EventID:    fxFinanceEvent,
		EventOrder: 2,
		Status:     domain.SessionEventPending,
	}

	repos.sessionTeams[fxSessionID] = []domain.Team{
		{ID: fxTeamID, Name: "Alpha"},
		{ID: fxOtherTeamID, Name: "Beta"},
	}
	repos.members[fxTeamID] = []domain.TeamMember{
		{TeamID: fxTeamID, UserID: fxDG, Role: domain.RoleDG},
		{TeamID: fxTeamID, UserID: fxRH, Role: domain.RoleRH},
		{TeamID: fxTeamID, UserID: fxCommercial, Role: domain.RoleCommercial},
		{TeamID: fxTeamID, UserID: fxFinance, Role: domain.RoleFinance},
	}
	repos.members[fxOtherTeamID] = []domain.TeamMember{
		{TeamID: fxOtherTeamID, UserID: "beta-dg", Role: domain.RoleDG},
		{TeamID: fxOtherTeamID, UserID: "beta-rh", Role: domain.RoleRH},
	}

	repos.decisions[fxDecisionID] = &domain.Decision{
		ID:             fxDecisionID,
		SessionEventID: fxActiveSE,
		TeamID:         fxTeamID,
		Status:         domain.DecisionPending,
	}

	logger := zap.NewNop()
	decisions := NewDecisionService(repos.repositories(), nil, logger)
	decisions.now = func() time.Time { return fixedNow }
	scheduler := NewSchedulerService(repos.repositories(), nil, logger)
	scheduler.now = func() time.Time { return fixedNow }

	return &fixture{repos: repos, decisions: decisions, scheduler: scheduler}
}

// propose moves the fixture decision into voting as the RH specialist
func (f *fixture) propose() {
	_, _ = f.repos.MarkProposed(nil, fxDecisionID, fxRH, fxOptionA,
		"Apaise le climat", "Coute du temps de direction", "Le dialogue evite la greve")
}

func admin() domain.Identity { return domain.Identity{UserID: fxAdmin, Admin: true} }

func member(userID string) domain.Identity {
	return domain.Identity{UserID: userID}
}
