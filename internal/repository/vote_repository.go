package repository

import (
	"context"
	"errors"
	"fmt"

	"bizsim-api/internal/domain"
	"bizsim-api/pkg/database"

	"github.com/jackc/pgx/v5/pgconn"
)

type VotePGRepository struct {
	db *database.PostgresDB
}

func NewVoteRepository(db *database.PostgresDB) *VotePGRepository {
	return &VotePGRepository{db: db}
}

// Create inserts a vote row. The unique constraint on (decision_id, user_id)
// enforces one vote per member; a violation surfaces as ErrDuplicateVote.
func (r *VotePGRepository) Create(ctx context.Context, vote *domain.Vote) error {
	query := `
		INSERT INTO votes (id, decision_id, user_id, option_id, approved, comment)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		vote.ID,
		vote.DecisionID,
		vote.UserID,
		vote.OptionID,
		vote.Approved,
		vote.Comment,
	).Scan(&vote.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateVote
		}
		return fmt.Errorf("failed to create vote: %w", err)
	}
	return nil
}

// ListByDecision retrieves all votes cast on a decision, oldest first
func (r *VotePGRepository) ListByDecision(ctx context.Context, decisionID string) ([]domain.Vote, error) {
	query := `
		SELECT id, decision_id, user_id, option_id, approved, comment, created_at
		FROM votes
		WHERE decision_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, decisionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list votes: %w", err)
	}
	defer rows.Close()

	var votes []domain.Vote
	for rows.Next() {
		var v domain.Vote
		err := rows.Scan(
			&v.ID,
			&v.DecisionID,
			&v.UserID,
			&v.OptionID,
			&v.Approved,
			&v.Comment,
			&v.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}
