package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	if len(os.Args) < 2 {
		fmt.Println("Usage: go run main.go [drop|up|seed]")
		os.Exit(1)
	}

	command := os.Args[1]

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close(ctx)

	switch command {
	case "drop":
		if err := dropTables(ctx, conn); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		fmt.Println("All tables dropped successfully")

	case "up":
		if err := createTables(ctx, conn); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		fmt.Println("All tables created successfully")

	case "seed":
		if err := seedData(ctx, conn); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
		fmt.Println("Data seeded successfully")

	default:
		fmt.Printf("Unknown command: %s\n", command)
		os.Exit(1)
	}
}

func dropTables(ctx context.Context, conn *pgx.Conn) error {
	statements := []string{
		`DROP TABLE IF EXISTS team_scores`,
		`DROP TABLE IF EXISTS votes`,
		`DROP TABLE IF EXISTS decisions`,
		`DROP TABLE IF EXISTS session_events`,
		`DROP TABLE IF EXISTS session_teams`,
		`DROP TABLE IF EXISTS team_members`,
		`DROP TABLE IF EXISTS teams`,
		`DROP TABLE IF EXISTS sessions`,
		`DROP TABLE IF EXISTS event_options`,
		`DROP TABLE IF EXISTS events`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("drop failed (%s): %w", stmt, err)
		}
	}
	return nil
}

func createTables(ctx context.Context, conn *pgx.Conn) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL CHECK (category IN ('finance', 'commercial', 'social', 'production', 'direction')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE TABLE IF NOT EXISTS event_options (
			id TEXT PRIMARY KEY,
			event_id TEXT NOT NULL REFERENCES events(id) ON DELETE CASCADE,
			label TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			points_finance INTEGER NOT NULL DEFAULT 0,
			points_commercial INTEGER NOT NULL DEFAULT 0,
			points_social INTEGER NOT NULL DEFAULT 0,
			points_production INTEGER NOT NULL DEFAULT 0,
			points_direction INTEGER NOT NULL DEFAULT 0,
			points_moyenne NUMERIC(10,2) NOT NULL DEFAULT 0
		)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'setup' CHECK (status IN ('setup', 'active', 'completed')),
			current_event_order INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE TABLE IF NOT EXISTS teams (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE TABLE IF NOT EXISTS session_teams (
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			team_id TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
			PRIMARY KEY (session_id, team_id)
		)`,

		`CREATE TABLE IF NOT EXISTS team_members (
			team_id TEXT NOT NULL REFERENCES teams(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			role_in_company TEXT NOT NULL CHECK (role_in_company IN ('dg', 'commercial', 'rh', 'production', 'finance', 'collaborateur')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (team_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS session_events (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			event_id TEXT NOT NULL REFERENCES events(id),
			event_order INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'active', 'resolved')),
			triggered_at TIMESTAMPTZ,
			duration_seconds INTEGER NOT NULL DEFAULT 0,
			expires_at TIMESTAMPTZ,
			resolved_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (session_id, event_id)
		)`,

		// At most one active event per session, enforced by the database
		// even if two schedulers race past the application guard.
		`CREATE UNIQUE INDEX IF NOT EXISTS session_events_single_active
			ON session_events (session_id) WHERE status = 'active'`,

		`CREATE TABLE IF NOT EXISTS decisions (
			id TEXT PRIMARY KEY,
			session_event_id TEXT NOT NULL REFERENCES session_events(id) ON DELETE CASCADE,
			team_id TEXT NOT NULL REFERENCES teams(id),
			status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'voting', 'validated', 'rejected')),
			proposed_option_id TEXT REFERENCES event_options(id),
			proposed_by TEXT,
			advantages TEXT NOT NULL DEFAULT '',
			disadvantages TEXT NOT NULL DEFAULT '',
			justification TEXT NOT NULL DEFAULT '',
			dg_validated BOOLEAN NOT NULL DEFAULT false,
			dg_validated_by TEXT,
			dg_validated_at TIMESTAMPTZ,
			dg_override_option_id TEXT REFERENCES event_options(id),
			dg_comment TEXT NOT NULL DEFAULT '',
			admin_comment TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (session_event_id, team_id)
		)`,

		`CREATE TABLE IF NOT EXISTS votes (
			id TEXT PRIMARY KEY,
			decision_id TEXT NOT NULL REFERENCES decisions(id) ON DELETE CASCADE,
			user_id TEXT NOT NULL,
			option_id TEXT NOT NULL REFERENCES event_options(id),
			approved BOOLEAN NOT NULL,
			comment TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			UNIQUE (decision_id, user_id)
		)`,

		`CREATE TABLE IF NOT EXISTS team_scores (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			team_id TEXT NOT NULL REFERENCES teams(id),
			session_event_id TEXT REFERENCES session_events(id),
			points_finance INTEGER NOT NULL DEFAULT 0,
			points_commercial INTEGER NOT NULL DEFAULT 0,
			points_social INTEGER NOT NULL DEFAULT 0,
			points_production INTEGER NOT NULL DEFAULT 0,
			points_direction INTEGER NOT NULL DEFAULT 0,
			points_moyenne NUMERIC(10,2) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,

		`CREATE INDEX IF NOT EXISTS team_scores_session_team
			ON team_scores (session_id, team_id, created_at)`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("create failed: %w", err)
		}
	}
	return nil
}

func seedData(ctx context.Context, conn *pgx.Conn) error {
	statements := []string{
		`INSERT INTO events (id, title, description, category) VALUES
			('evt-conflit-social', 'Conflit social', 'Un mouvement de greve se prepare dans l''atelier.', 'social'),
			('evt-retard-livraison', 'Retard de livraison', 'Votre fournisseur principal annonce deux semaines de retard.', 'production'),
			('evt-gros-client', 'Appel d''offres', 'Un grand compte lance un appel d''offres urgent.', 'commercial')
		ON CONFLICT (id) DO NOTHING`,

		`INSERT INTO event_options (id, event_id, label, points_finance, points_commercial, points_social, points_production, points_direction, points_moyenne) VALUES
			('opt-negocier', 'evt-conflit-social', 'Negocier', 0, 0, 10, 0, 0, 2.00),
			('opt-ignorer', 'evt-conflit-social', 'Ignorer', 0, 0, -15, 0, 0, -3.00),
			('opt-second-fournisseur', 'evt-retard-livraison', 'Activer un second fournisseur', -5, 0, 0, 10, 0, 1.00),
			('opt-attendre', 'evt-retard-livraison', 'Attendre la livraison', 0, -5, 0, -5, 0, -2.00),
			('opt-repondre', 'evt-gros-client', 'Repondre a l''offre', -5, 15, 0, 0, 0, 2.00),
			('opt-decliner', 'evt-gros-client', 'Decliner', 0, -10, 0, 0, 0, -2.00)
		ON CONFLICT (id) DO NOTHING`,

		`INSERT INTO sessions (id, name) VALUES ('session-demo', 'Session de demonstration')
		ON CONFLICT (id) DO NOTHING`,

		`INSERT INTO teams (id, name) VALUES
			('team-alpha', 'Alpha SARL'),
			('team-beta', 'Beta SA')
		ON CONFLICT (id) DO NOTHING`,

		`INSERT INTO session_teams (session_id, team_id) VALUES
			('session-demo', 'team-alpha'),
			('session-demo', 'team-beta')
		ON CONFLICT DO NOTHING`,

		`INSERT INTO team_members (team_id, user_id, role_in_company) VALUES
			('team-alpha', 'user-alpha-dg', 'dg'),
			('team-alpha', 'user-alpha-rh', 'rh'),
			('team-alpha', 'user-alpha-com', 'commercial'),
			('team-alpha', 'user-alpha-fin', 'finance'),
			('team-alpha', 'user-alpha-prod', 'production'),
			('team-beta', 'user-beta-dg', 'dg'),
			('team-beta', 'user-beta-rh', 'rh'),
			('team-beta', 'user-beta-com', 'commercial'),
			('team-beta', 'user-beta-collab', 'collaborateur')
		ON CONFLICT DO NOTHING`,

		`INSERT INTO session_events (id, session_id, event_id, event_order) VALUES
			('se-1', 'session-demo', 'evt-conflit-social', 1),
			('se-2', 'session-demo', 'evt-retard-livraison', 2),
			('se-3', 'session-demo', 'evt-gros-client', 3)
		ON CONFLICT (id) DO NOTHING`,
	}

	for _, stmt := range statements {
		if _, err := conn.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("seed failed: %w", err)
		}
	}
	return nil
}
