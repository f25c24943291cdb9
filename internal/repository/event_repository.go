package repository

import (
	"context"
	"fmt"

	"bizsim-api/internal/domain"
	"bizsim-api/pkg/database"

	"github.com/jackc/pgx/v5"
)

type EventPGRepository struct {
	db *database.PostgresDB
}

func NewEventRepository(db *database.PostgresDB) *EventPGRepository {
	return &EventPGRepository{db: db}
}

// GetEvent retrieves an event template with its options
func (r *EventPGRepository) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	var e domain.Event
	query := `
		SELECT id, title, description, category, created_at
		FROM events
		WHERE id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&e.ID,
		&e.Title,
		&e.Description,
		&e.Category,
		&e.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	options, err := r.listOptions(ctx, id)
	if err != nil {
		return nil, err
	}
	e.Options = options
	return &e, nil
}

// GetOption retrieves a single option by ID
func (r *EventPGRepository) GetOption(ctx context.Context, optionID string) (*domain.Option, error) {
	var o domain.Option
	query := `
		SELECT id, event_id, label, description,
		       points_finance, points_commercial, points_social, points_production, points_direction,
		       points_moyenne
		FROM event_options
		WHERE id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, optionID).Scan(
		&o.ID,
		&o.EventID,
		&o.Label,
		&o.Description,
		&o.Points.Finance,
		&o.Points.Commercial,
		&o.Points.Social,
		&o.Points.Production,
		&o.Points.Direction,
		&o.PointsMoyenne,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get option: %w", err)
	}
	return &o, nil
}

func (r *EventPGRepository) listOptions(ctx context.Context, eventID string) ([]domain.Option, error) {
	query := `
		SELECT id, event_id, label, description,
		       points_finance, points_commercial, points_social, points_production, points_direction,
		       points_moyenne
		FROM event_options
		WHERE event_id = $1
		ORDER BY label ASC
	`

	rows, err := r.db.Pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list event options: %w", err)
	}
	defer rows.Close()

	var options []domain.Option
	for rows.Next() {
		var o domain.Option
		err := rows.Scan(
			&o.ID,
			&o.EventID,
			&o.Label,
			&o.Description,
			&o.Points.Finance,
			&o.Points.Commercial,
			&o.Points.Social,
			&o.Points.Production,
			&o.Points.Direction,
			&o.PointsMoyenne,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan option: %w", err)
		}
		options = append(options, o)
	}
	return options, rows.Err()
}
