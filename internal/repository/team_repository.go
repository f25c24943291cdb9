package repository

import (
	"context"
	"fmt"

	"bizsim-api/internal/domain"
	"bizsim-api/pkg/database"

	"github.com/jackc/pgx/v5"
)

type TeamPGRepository struct {
	db *database.PostgresDB
}

func NewTeamRepository(db *database.PostgresDB) *TeamPGRepository {
	return &TeamPGRepository{db: db}
}

// GetMember retrieves the membership record binding a user to a team.
// Authorization re-derives roles from here on every call, so a role change
// takes effect on the next action.
func (r *TeamPGRepository) GetMember(ctx context.Context, teamID, userID string) (*domain.TeamMember, error) {
	var m domain.TeamMember
	query := `
		SELECT team_id, user_id, role_in_company, created_at
		FROM team_members
		WHERE team_id = $1 AND user_id = $2
	`

	err := r.db.Pool.QueryRow(ctx, query, teamID, userID).Scan(
		&m.TeamID,
		&m.UserID,
		&m.Role,
		&m.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team member: %w", err)
	}
	return &m, nil
}

// ListMembers retrieves all members of a team
func (r *TeamPGRepository) ListMembers(ctx context.Context, teamID string) ([]domain.TeamMember, error) {
	query := `
		SELECT team_id, user_id, role_in_company, created_at
		FROM team_members
		WHERE team_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	var members []domain.TeamMember
	for rows.Next() {
		var m domain.TeamMember
		if err := rows.Scan(&m.TeamID, &m.UserID, &m.Role, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}
