package repository

import (
	"context"
	"fmt"
	"time"

	"bizsim-api/internal/domain"
	"bizsim-api/pkg/database"

	"github.com/jackc/pgx/v5"
)

type SessionPGRepository struct {
	db *database.PostgresDB
}

func NewSessionRepository(db *database.PostgresDB) *SessionPGRepository {
	return &SessionPGRepository{db: db}
}

const sessionEventColumns = `
	id, session_id, event_id, event_order, status,
	triggered_at, duration_seconds, expires_at, resolved_at, created_at
`

func scanSessionEvent(row pgx.Row) (*domain.SessionEvent, error) {
	var se domain.SessionEvent
	err := row.Scan(
		&se.ID,
		&se.SessionID,
		&se.EventID,
		&se.EventOrder,
		&se.Status,
		&se.TriggeredAt,
		&se.DurationSeconds,
		&se.ExpiresAt,
		&se.ResolvedAt,
		&se.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &se, nil
}

// GetSession retrieves a session by ID
func (r *SessionPGRepository) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	var s domain.Session
	query := `
		SELECT id, name, status, current_event_order, created_at, updated_at
		FROM sessions
		WHERE id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Name,
		&s.Status,
		&s.CurrentEventOrder,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

// GetSessionEvent retrieves a session event by ID
func (r *SessionPGRepository) GetSessionEvent(ctx context.Context, id string) (*domain.SessionEvent, error) {
	query := `SELECT ` + sessionEventColumns + ` FROM session_events WHERE id = $1`

	se, err := scanSessionEvent(r.db.Pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session event: %w", err)
	}
	return se, nil
}

// FindSessionEvent retrieves the activation record for (session, event)
func (r *SessionPGRepository) FindSessionEvent(ctx context.Context, sessionID, eventID string) (*domain.SessionEvent, error) {
	query := `SELECT ` + sessionEventColumns + ` FROM session_events WHERE session_id = $1 AND event_id = $2`

	se, err := scanSessionEvent(r.db.Pool.QueryRow(ctx, query, sessionID, eventID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session event: %w", err)
	}
	return se, nil
}

// GetActiveSessionEvent retrieves the session's currently active event, if any
func (r *SessionPGRepository) GetActiveSessionEvent(ctx context.Context, sessionID string) (*domain.SessionEvent, error) {
	query := `SELECT ` + sessionEventColumns + ` FROM session_events WHERE session_id = $1 AND status = $2`

	se, err := scanSessionEvent(r.db.Pool.QueryRow(ctx, query, sessionID, domain.SessionEventActive))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active session event: %w", err)
	}
	return se, nil
}

// ListSessionTeams retrieves the teams participating in a session
func (r *SessionPGRepository) ListSessionTeams(ctx context.Context, sessionID string) ([]domain.Team, error) {
	query := `
		SELECT t.id, t.name, t.created_at
		FROM teams t
		JOIN session_teams st ON st.team_id = t.id
		WHERE st.session_id = $1
		ORDER BY t.name ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list session teams: %w", err)
	}
	defer rows.Close()

	var teams []domain.Team
	for rows.Next() {
		var t domain.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// MarkEventActive flips a pending session event to active. The status check
// in the WHERE clause is the compare-and-swap; the partial unique index on
// (session_id) WHERE status = 'active' backs the single-active-event rule.
func (r *SessionPGRepository) MarkEventActive(ctx context.Context, sessionEventID string, triggeredAt time.Time, durationSeconds int, expiresAt time.Time) (bool, error) {
	query := `
		UPDATE session_events
		SET status = $1, triggered_at = $2, duration_seconds = $3, expires_at = $4
		WHERE id = $5 AND status = $6
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		domain.SessionEventActive,
		triggeredAt,
		durationSeconds,
		expiresAt,
		sessionEventID,
		domain.SessionEventPending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to activate session event: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkEventResolved flips an active session event to resolved
func (r *SessionPGRepository) MarkEventResolved(ctx context.Context, sessionEventID string, resolvedAt time.Time) (bool, error) {
	query := `
		UPDATE session_events
		SET status = $1, resolved_at = $2
		WHERE id = $3 AND status = $4
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		domain.SessionEventResolved,
		resolvedAt,
		sessionEventID,
		domain.SessionEventActive,
	)
	if err != nil {
		return false, fmt.Errorf("failed to resolve session event: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkSessionActive moves a session out of setup on first activation
func (r *SessionPGRepository) MarkSessionActive(ctx context.Context, sessionID string) error {
	query := `
		UPDATE sessions
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`

	if _, err := r.db.Pool.Exec(ctx, query, domain.SessionStatusActive, sessionID, domain.SessionStatusSetup); err != nil {
		return fmt.Errorf("failed to activate session: %w", err)
	}
	return nil
}

// MarkSessionCompleted flips a session to completed
func (r *SessionPGRepository) MarkSessionCompleted(ctx context.Context, sessionID string) (bool, error) {
	query := `
		UPDATE sessions
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status <> $1
	`

	tag, err := r.db.Pool.Exec(ctx, query, domain.SessionStatusCompleted, sessionID)
	if err != nil {
		return false, fmt.Errorf("failed to complete session: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// AdvanceCursor raises the session's event cursor. GREATEST keeps the cursor
// monotonically non-decreasing even if events are re-activated out of order.
func (r *SessionPGRepository) AdvanceCursor(ctx context.Context, sessionID string, eventOrder int) error {
	query := `
		UPDATE sessions
		SET current_event_order = GREATEST(current_event_order, $1), updated_at = now()
		WHERE id = $2
	`

	if _, err := r.db.Pool.Exec(ctx, query, eventOrder, sessionID); err != nil {
		return fmt.Errorf("failed to advance session cursor: %w", err)
	}
	return nil
}
