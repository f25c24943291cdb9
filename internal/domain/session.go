package domain

import "time"

// MinDurationSeconds is the shortest duration an event may be activated with
const MinDurationSeconds = 60

// SessionStatus is the lifecycle state of a game session
type SessionStatus string

const (
	SessionStatusSetup     SessionStatus = "setup"
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
)

// Session is an ordered sequence of events bound to a fixed set of teams
type Session struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Status            SessionStatus `json:"status"`
	CurrentEventOrder int           `json:"current_event_order"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// IsCompleted reports whether the session reached its terminal state
func (s *Session) IsCompleted() bool {
	return s.Status == SessionStatusCompleted
}

// SessionEventStatus is the lifecycle state of one event activation
type SessionEventStatus string

const (
	SessionEventPending  SessionEventStatus = "pending"
	SessionEventActive   SessionEventStatus = "active"
	SessionEventResolved SessionEventStatus = "resolved"
)

// SessionEvent is the activation record of one event within one session.
// At most one per session is active at a time.
type SessionEvent struct {
	ID              string             `json:"id"`
	SessionID       string             `json:"session_id"`
	EventID         string             `json:"event_id"`
	EventOrder      int                `json:"event_order"`
	Status          SessionEventStatus `json:"status"`
	TriggeredAt     *time.Time         `json:"triggered_at,omitempty"`
	DurationSeconds int                `json:"duration_seconds"`
	ExpiresAt       *time.Time         `json:"expires_at,omitempty"`
	ResolvedAt      *time.Time         `json:"resolved_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// IsActive reports whether the event is currently open for team decisions
func (se *SessionEvent) IsActive() bool {
	return se.Status == SessionEventActive
}

// IsResolved reports whether the event has already been closed and scored
func (se *SessionEvent) IsResolved() bool {
	return se.Status == SessionEventResolved
}

// Remaining returns the wall-clock time left before the deadline, never
// negative. An event without a deadline yet has nothing remaining.
func (se *SessionEvent) Remaining(now time.Time) time.Duration {
	if se.ExpiresAt == nil {
		return 0
	}
	remaining := se.ExpiresAt.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsExpired reports whether the deadline has passed. Expiry never transitions
// a decision by itself; it only disables further submissions and signals that
// the event is due for resolution.
func (se *SessionEvent) IsExpired(now time.Time) bool {
	return se.ExpiresAt != nil && se.Remaining(now) <= 0
}
