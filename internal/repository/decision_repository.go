package repository

import (
	"context"
	"fmt"
	"time"

	"bizsim-api/internal/domain"
	"bizsim-api/pkg/database"

	"github.com/jackc/pgx/v5"
)

type DecisionPGRepository struct {
	db *database.PostgresDB
}

func NewDecisionRepository(db *database.PostgresDB) *DecisionPGRepository {
	return &DecisionPGRepository{db: db}
}

const decisionColumns = `
	id, session_event_id, team_id, status,
	proposed_option_id, proposed_by, advantages, disadvantages, justification,
	dg_validated, dg_validated_by, dg_validated_at, dg_override_option_id, dg_comment,
	admin_comment, created_at, updated_at
`

func scanDecision(row pgx.Row) (*domain.Decision, error) {
	var d domain.Decision
	err := row.Scan(
		&d.ID,
		&d.SessionEventID,
		&d.TeamID,
		&d.Status,
		&d.ProposedOptionID,
		&d.ProposedBy,
		&d.Advantages,
		&d.Disadvantages,
		&d.Justification,
		&d.DGValidated,
		&d.DGValidatedBy,
		&d.DGValidatedAt,
		&d.DGOverrideOptionID,
		&d.DGComment,
		&d.AdminComment,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// GetByID retrieves a decision by ID
func (r *DecisionPGRepository) GetByID(ctx context.Context, id string) (*domain.Decision, error) {
	query := `SELECT ` + decisionColumns + ` FROM decisions WHERE id = $1`

	decision, err := scanDecision(r.db.Pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get decision: %w", err)
	}
	return decision, nil
}

// GetBySessionEventAndTeam retrieves the decision for (session event, team)
func (r *DecisionPGRepository) GetBySessionEventAndTeam(ctx context.Context, sessionEventID, teamID string) (*domain.Decision, error) {
	query := `SELECT ` + decisionColumns + ` FROM decisions WHERE session_event_id = $1 AND team_id = $2`

	decision, err := scanDecision(r.db.Pool.QueryRow(ctx, query, sessionEventID, teamID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get decision for team: %w", err)
	}
	return decision, nil
}

// ListBySessionEvent retrieves every team's decision under a session event
func (r *DecisionPGRepository) ListBySessionEvent(ctx context.Context, sessionEventID string) ([]domain.Decision, error) {
	query := `SELECT ` + decisionColumns + ` FROM decisions WHERE session_event_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.Pool.Query(ctx, query, sessionEventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}
	defer rows.Close()

	var decisions []domain.Decision
	for rows.Next() {
		decision, err := scanDecision(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan decision: %w", err)
		}
		decisions = append(decisions, *decision)
	}
	return decisions, rows.Err()
}

// CreateBatch inserts pending decisions for all teams of an activation in one
// transaction. ON CONFLICT DO NOTHING keeps re-activation idempotent: teams
// that already have a decision keep the existing row.
func (r *DecisionPGRepository) CreateBatch(ctx context.Context, decisions []*domain.Decision) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO decisions (id, session_event_id, team_id, status)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (session_event_id, team_id) DO NOTHING
	`

	for _, d := range decisions {
		if _, err := tx.Exec(ctx, query, d.ID, d.SessionEventID, d.TeamID, d.Status); err != nil {
			return fmt.Errorf("failed to create decision for team %s: %w", d.TeamID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit decisions: %w", err)
	}
	return nil
}

// MarkProposed records the specialist's proposal. The WHERE clause is the
// compare-and-swap: zero affected rows means another actor already moved the
// decision past pending.
func (r *DecisionPGRepository) MarkProposed(ctx context.Context, decisionID, actorID, optionID, advantages, disadvantages, justification string) (bool, error) {
	query := `
		UPDATE decisions
		SET status = $1,
		    proposed_option_id = $2,
		    proposed_by = $3,
		    advantages = $4,
		    disadvantages = $5,
		    justification = $6,
		    updated_at = now()
		WHERE id = $7 AND status = $8
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		domain.DecisionVoting,
		optionID,
		actorID,
		advantages,
		disadvantages,
		justification,
		decisionID,
		domain.DecisionPending,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark decision proposed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkValidated records the director's validation. COALESCE keeps the
// specialist's option when no override was given; with an override the
// proposed option is overwritten and the original is recoverable only through
// dg_override_option_id being set.
func (r *DecisionPGRepository) MarkValidated(ctx context.Context, decisionID, actorID, comment string, overrideOptionID *string, validatedAt time.Time) (bool, error) {
	query := `
		UPDATE decisions
		SET status = $1,
		    dg_validated = true,
		    dg_validated_by = $2,
		    dg_validated_at = $3,
		    dg_comment = $4,
		    dg_override_option_id = $5,
		    proposed_option_id = COALESCE($5, proposed_option_id),
		    updated_at = now()
		WHERE id = $6 AND status = $7
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		domain.DecisionValidated,
		actorID,
		validatedAt,
		comment,
		overrideOptionID,
		decisionID,
		domain.DecisionVoting,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark decision validated: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetAdminComment stores the post-hoc grader note
func (r *DecisionPGRepository) SetAdminComment(ctx context.Context, decisionID, comment string) error {
	query := `UPDATE decisions SET admin_comment = $1, updated_at = now() WHERE id = $2`

	tag, err := r.db.Pool.Exec(ctx, query, comment, decisionID)
	if err != nil {
		return fmt.Errorf("failed to set admin comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("decision %s not found", decisionID)
	}
	return nil
}
