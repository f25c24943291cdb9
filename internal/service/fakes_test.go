package service

import (
	"context"
	"sync"
	"time"

	"bizsim-api/internal/domain"
	"bizsim-api/internal/repository"
)

// memRepos is an in-memory implementation of every repository interface,
// with the same compare-and-swap and duplicate-key semantics as the Postgres
// layer. Guarded by a single mutex so concurrent service calls exercise the
// real race outcomes.
type memRepos struct {
	mu sync.Mutex

	events        map[string]*domain.Event
	members       map[string][]domain.TeamMember
	sessions      map[string]*domain.Session
	sessionEvents map[string]*domain.SessionEvent
	sessionTeams  map[string][]domain.Team
	decisions     map[string]*domain.Decision
	votes         []domain.Vote
	scores        []domain.TeamScore
}

func newMemRepos() *memRepos {
	return &memRepos{
		events:        make(map[string]*domain.Event),
		members:       make(map[string][]domain.TeamMember),
		sessions:      make(map[string]*domain.Session),
		sessionEvents: make(map[string]*domain.SessionEvent),
		sessionTeams:  make(map[string][]domain.Team),
		decisions:     make(map[string]*domain.Decision),
	}
}

func (m *memRepos) repositories() *repository.Repositories {
	return &repository.Repositories{
		Events:    m,
		Teams:     m,
		Sessions:  m,
		Decisions: m,
		Votes:     m,
		Scores:    m,
	}
}

// --- EventRepository ---

func (m *memRepos) GetEvent(_ context.Context, id string) (*domain.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event, ok := m.events[id]
	if !ok {
		return nil, nil
	}
	copied := *event
	copied.Options = append([]domain.Option(nil), event.Options...)
	return &copied, nil
}

func (m *memRepos) GetOption(_ context.Context, optionID string) (*domain.Option, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, event := range m.events {
		for i := range event.Options {
			if event.Options[i].ID == optionID {
				copied := event.Options[i]
				return &copied, nil
			}
		}
	}
	return nil, nil
}

// --- TeamRepository ---

func (m *memRepos) GetMember(_ context.Context, teamID, userID string) (*domain.TeamMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, member := range m.members[teamID] {
		if member.UserID == userID {
			copied := member
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memRepos) ListMembers(_ context.Context, teamID string) ([]domain.TeamMember, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.TeamMember(nil), m.members[teamID]...), nil
}

// --- SessionRepository ---

func (m *memRepos) GetSession(_ context.Context, id string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

func (m *memRepos) GetSessionEvent(_ context.Context, id string) (*domain.SessionEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	se, ok := m.sessionEvents[id]
	if !ok {
		return nil, nil
	}
	copied := *se
	return &copied, nil
}

func (m *memRepos) FindSessionEvent(_ context.Context, sessionID, eventID string) (*domain.SessionEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, se := range m.sessionEvents {
		if se.SessionID == sessionID && se.EventID == eventID {
			copied := *se
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memRepos) GetActiveSessionEvent(_ context.Context, sessionID string) (*domain.SessionEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, se := range m.sessionEvents {
		if se.SessionID == sessionID && se.Status == domain.SessionEventActive {
			copied := *se
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memRepos) ListSessionTeams(_ context.Context, sessionID string) ([]domain.Team, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Team(nil), m.sessionTeams[sessionID]...), nil
}

func (m *memRepos) MarkEventActive(_ context.Context, sessionEventID string, triggeredAt time.Time, durationSeconds int, expiresAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	se, ok := m.sessionEvents[sessionEventID]
	if !ok || se.Status != domain.SessionEventPending {
		return false, nil
	}
	se.Status = domain.SessionEventActive
	se.TriggeredAt = &triggeredAt
	se.DurationSeconds = durationSeconds
	se.ExpiresAt = &expiresAt
	return true, nil
}

func (m *memRepos) MarkEventResolved(_ context.Context, sessionEventID string, resolvedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	se, ok := m.sessionEvents[sessionEventID]
	if !ok || se.Status != domain.SessionEventActive {
		return false, nil
	}
	se.Status = domain.SessionEventResolved
	se.ResolvedAt = &resolvedAt
	return true, nil
}

func (m *memRepos) MarkSessionActive(_ context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions[sessionID]; ok && session.Status == domain.SessionStatusSetup {
		session.Status = domain.SessionStatusActive
	}
	return nil
}

func (m *memRepos) MarkSessionCompleted(_ context.Context, sessionID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	session, ok := m.sessions[sessionID]
	if !ok || session.Status == domain.SessionStatusCompleted {
		return false, nil
	}
	session.Status = domain.SessionStatusCompleted
	return true, nil
}

func (m *memRepos) AdvanceCursor(_ context.Context, sessionID string, eventOrder int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if session, ok := m.sessions[sessionID]; ok && eventOrder > session.CurrentEventOrder {
		session.CurrentEventOrder = eventOrder
	}
	return nil
}

// --- DecisionRepository ---

func (m *memRepos) GetByID(_ context.Context, id string) (*domain.Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	decision, ok := m.decisions[id]
	if !ok {
		return nil, nil
	}
	copied := *decision
	return &copied, nil
}

func (m *memRepos) GetBySessionEventAndTeam(_ context.Context, sessionEventID, teamID string) (*domain.Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, decision := range m.decisions {
		if decision.SessionEventID == sessionEventID && decision.TeamID == teamID {
			copied := *decision
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memRepos) ListBySessionEvent(_ context.Context, sessionEventID string) ([]domain.Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Decision
	for _, decision := range m.decisions {
		if decision.SessionEventID == sessionEventID {
			out = append(out, *decision)
		}
	}
	return out, nil
}

func (m *memRepos) CreateBatch(_ context.Context, decisions []*domain.Decision) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, decision := range decisions {
		exists := false
		for _, existing := range m.decisions {
			if existing.SessionEventID == decision.SessionEventID && existing.TeamID == decision.TeamID {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		copied := *decision
		m.decisions[decision.ID] = &copied
	}
	return nil
}

func (m *memRepos) MarkProposed(_ context.Context, decisionID, actorID, optionID, advantages, disadvantages, justification string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	decision, ok := m.decisions[decisionID]
	if !ok || decision.Status != domain.DecisionPending {
		return false, nil
	}
	decision.Status = domain.DecisionVoting
	decision.ProposedOptionID = &optionID
	decision.ProposedBy = &actorID
	decision.Advantages = advantages
	decision.Disadvantages = disadvantages
	decision.Justification = justification
	return true, nil
}

func (m *memRepos) MarkValidated(_ context.Context, decisionID, actorID, comment string, overrideOptionID *string, validatedAt time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	decision, ok := m.decisions[decisionID]
	if !ok || decision.Status != domain.DecisionVoting {
		return false, nil
	}
	decision.Status = domain.DecisionValidated
	decision.DGValidated = true
	decision.DGValidatedBy = &actorID
	decision.DGValidatedAt = &validatedAt
	decision.DGComment = comment
	if overrideOptionID != nil {
		decision.DGOverrideOptionID = overrideOptionID
		decision.ProposedOptionID = overrideOptionID
	}
	return true, nil
}

func (m *memRepos) SetAdminComment(_ context.Context, decisionID, comment string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if decision, ok := m.decisions[decisionID]; ok {
		decision.AdminComment = comment
	}
	return nil
}

// --- VoteRepository ---

func (m *memRepos) Create(_ context.Context, vote *domain.Vote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.votes {
		if existing.DecisionID == vote.DecisionID && existing.UserID == vote.UserID {
			return repository.ErrDuplicateVote
		}
	}
	m.votes = append(m.votes, *vote)
	return nil
}

func (m *memRepos) ListByDecision(_ context.Context, decisionID string) ([]domain.Vote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Vote
	for _, vote := range m.votes {
		if vote.DecisionID == decisionID {
			out = append(out, vote)
		}
	}
	return out, nil
}

// --- ScoreRepository ---

func (m *memRepos) Latest(_ context.Context, sessionID, teamID string) (*domain.TeamScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.scores) - 1; i >= 0; i-- {
		if m.scores[i].SessionID == sessionID && m.scores[i].TeamID == teamID {
			copied := m.scores[i]
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *memRepos) Append(_ context.Context, score *domain.TeamScore) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores = append(m.scores, *score)
	return nil
}

func (m *memRepos) ListByTeam(_ context.Context, sessionID, teamID string) ([]domain.TeamScore, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.TeamScore
	for _, score := range m.scores {
		if score.SessionID == sessionID && score.TeamID == teamID {
			out = append(out, score)
		}
	}
	return out, nil
}
