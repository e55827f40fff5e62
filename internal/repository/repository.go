package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rongwang/pokerclub-server/internal/models"
)

// ErrNotFound is returned by update and delete operations when the target row is missing.
// Get operations return nil, nil instead.
var ErrNotFound = errors.New("record not found")

// Repository interface defines the methods that any repository implementation must satisfy
type Repository interface {
	// Admin operations
	CreateAdmin(ctx context.Context, admin *models.Admin) error
	GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error)

	// Player operations
	CreatePlayer(ctx context.Context, player *models.Player) error
	GetPlayer(ctx context.Context, id int64) (*models.Player, error)
	ListPlayers(ctx context.Context) ([]models.Player, error)
	UpdatePlayer(ctx context.Context, player *models.Player) error
	DeletePlayer(ctx context.Context, id int64) (int64, error)

	// Transaction store
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	ListTransactionsByPlayer(ctx context.Context, playerID int64) ([]models.Transaction, error)
	ListOpenTransactions(ctx context.Context) ([]models.Transaction, error)
	CountOpenTransactions(ctx context.Context, createdBefore *time.Time) (int64, error)

	// Balance aggregation
	GetPlayerTotals(ctx context.Context, playerID int64) (models.PlayerTotals, error)
	ListPlayerBalances(ctx context.Context) ([]models.PlayerBalance, error)
	GetGlobalTotals(ctx context.Context) (models.GlobalTotals, error)
	GetOpenPeriodTotals(ctx context.Context) (models.GlobalTotals, error)

	// Reset archive
	BeginReset(ctx context.Context) (ResetTx, error)
	ListResets(ctx context.Context) ([]models.FinancialReset, error)
	GetReset(ctx context.Context, id int64) (*models.FinancialReset, error)
	GetLatestReset(ctx context.Context) (*models.FinancialReset, error)
	GetArchiveSummary(ctx context.Context) (models.ArchiveSummary, error)
}

// ResetTx is the unit of work for a financial reset. It holds exclusive access to the
// transaction ledger until Commit or Rollback, so no transaction can be recorded between
// reading the totals and stamping the open period.
type ResetTx interface {
	// Now is the clock used to timestamp the reset; it matches the clock that
	// stamps transaction created_at.
	Now(ctx context.Context) (time.Time, error)
	GlobalTotals(ctx context.Context) (models.GlobalTotals, error)
	InsertReset(ctx context.Context, reset *models.FinancialReset) error
	MarkPeriodClosed(ctx context.Context, asOf time.Time) (int64, error)
	Commit() error
	Rollback() error
}

// Now returns the current time at the precision Postgres stores, so values written and
// read back compare equal.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
