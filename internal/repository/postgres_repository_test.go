package repository

import (
	"context"
	"testing"

	"github.com/rongwang/pokerclub-server/internal/config"
	"github.com/stretchr/testify/require"
)

// TestPostgresRepository runs against TEST_DB_NAME and is skipped when that database
// cannot be reached.
func TestPostgresRepository(t *testing.T) {
	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	cfg.Database.DBName = cfg.Database.TestDBName

	db, err := config.SetupDatabase(cfg)
	if err != nil {
		t.Skipf("postgres test database unavailable: %v", err)
	}
	defer db.Close()

	runContract(t, func(t *testing.T) Repository {
		repo := NewPostgresRepository(db)
		require.NoError(t, repo.ensureResetsTable(context.Background()))

		_, err := db.Exec(`TRUNCATE player_transactions, players, financial_resets, admins RESTART IDENTITY`)
		require.NoError(t, err, "Failed to clean test database")

		return repo
	})
}
