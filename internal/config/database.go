package config

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	log "github.com/sirupsen/logrus"
)

// SetupDatabase initializes the database connection
func SetupDatabase(cfg *Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return db, nil
}

// createTables creates the players, transactions and admins tables.
// financial_resets is created by the repository on first use.
func createTables(db *sqlx.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS players (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL CHECK (name <> ''),
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			notes TEXT NOT NULL DEFAULT '',
			active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	// No ON DELETE CASCADE: player deletion removes transactions explicitly first
	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS player_transactions (
			id BIGSERIAL PRIMARY KEY,
			player_id BIGINT NOT NULL REFERENCES players(id),
			tournament_id BIGINT,
			type VARCHAR(16) NOT NULL CHECK (type IN ('deposit', 'withdrawal')),
			amount NUMERIC(14,2) NOT NULL CHECK (amount > 0),
			description TEXT NOT NULL DEFAULT '',
			transaction_date TIMESTAMPTZ NOT NULL,
			archived_as_of TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS admins (
			id BIGSERIAL PRIMARY KEY,
			username VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_player_transactions_player ON player_transactions(player_id)",
		"CREATE INDEX IF NOT EXISTS idx_player_transactions_open ON player_transactions(archived_as_of) WHERE archived_as_of IS NULL",
	}

	for _, idx := range indexes {
		if _, err = db.Exec(idx); err != nil {
			log.WithError(err).Warn("failed to create index")
		}
	}

	return nil
}
