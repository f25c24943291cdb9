package repository

import (
	"context"
	"fmt"

	"bizsim-api/internal/domain"
	"bizsim-api/pkg/database"

	"github.com/jackc/pgx/v5"
)

type ScorePGRepository struct {
	db *database.PostgresDB
}

func NewScoreRepository(db *database.PostgresDB) *ScorePGRepository {
	return &ScorePGRepository{db: db}
}

const scoreColumns = `
	id, session_id, team_id, session_event_id,
	points_finance, points_commercial, points_social, points_production, points_direction,
	points_moyenne, created_at
`

func scanScore(row pgx.Row) (*domain.TeamScore, error) {
	var s domain.TeamScore
	err := row.Scan(
		&s.ID,
		&s.SessionID,
		&s.TeamID,
		&s.SessionEventID,
		&s.Points.Finance,
		&s.Points.Commercial,
		&s.Points.Social,
		&s.Points.Production,
		&s.Points.Direction,
		&s.PointsMoyenne,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Latest retrieves the team's most recent snapshot for the session
func (r *ScorePGRepository) Latest(ctx context.Context, sessionID, teamID string) (*domain.TeamScore, error) {
	query := `SELECT ` + scoreColumns + `
		FROM team_scores
		WHERE session_id = $1 AND team_id = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	score, err := scanScore(r.db.Pool.QueryRow(ctx, query, sessionID, teamID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest score: %w", err)
	}
	return score, nil
}

// Append inserts a new snapshot. There is no update path; history rows stay
// untouched.
func (r *ScorePGRepository) Append(ctx context.Context, score *domain.TeamScore) error {
	query := `
		INSERT INTO team_scores (
			id, session_id, team_id, session_event_id,
			points_finance, points_commercial, points_social, points_production, points_direction,
			points_moyenne
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		score.ID,
		score.SessionID,
		score.TeamID,
		score.SessionEventID,
		score.Points.Finance,
		score.Points.Commercial,
		score.Points.Social,
		score.Points.Production,
		score.Points.Direction,
		score.PointsMoyenne,
	).Scan(&score.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to append score: %w", err)
	}
	return nil
}

// ListByTeam retrieves the team's snapshot history, oldest first
func (r *ScorePGRepository) ListByTeam(ctx context.Context, sessionID, teamID string) ([]domain.TeamScore, error) {
	query := `SELECT ` + scoreColumns + `
		FROM team_scores
		WHERE session_id = $1 AND team_id = $2
		ORDER BY created_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, sessionID, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scores: %w", err)
	}
	defer rows.Close()

	var scores []domain.TeamScore
	for rows.Next() {
		score, err := scanScore(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan score: %w", err)
		}
		scores = append(scores, *score)
	}
	return scores, rows.Err()
}
