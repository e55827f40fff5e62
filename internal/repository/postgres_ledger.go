package repository

import (
	"context"
	"time"

	"github.com/rongwang/pokerclub-server/internal/models"
)

const transactionOrder = ` ORDER BY transaction_date DESC, created_at DESC, id DESC`

// totalsColumns sums deposits and withdrawals separately; zero rows yield zeros.
const totalsColumns = `
	COALESCE(SUM(CASE WHEN type = 'deposit' THEN amount END), 0) AS total_deposits,
	COALESCE(SUM(CASE WHEN type = 'withdrawal' THEN amount END), 0) AS total_withdrawals,
	COUNT(*) AS transaction_count
`

// Transaction store methods

// CreateTransaction takes created_at from the database clock after the insert has its
// table lock, so a row written while a reset was running is never timestamped before it.
func (r *PostgresRepository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	query := `
		WITH ts AS (SELECT clock_timestamp() AS now)
		INSERT INTO player_transactions
			(player_id, tournament_id, type, amount, description, transaction_date, created_at)
		SELECT $1::bigint, $2::bigint, $3::varchar, $4::numeric, $5::text,
			COALESCE($6::timestamptz, ts.now), ts.now
		FROM ts
		RETURNING id, transaction_date, created_at
	`

	var occurredAt interface{}
	if !txn.TransactionDate.IsZero() {
		occurredAt = txn.TransactionDate
	}
	txn.ArchivedAsOf = nil

	return r.db.QueryRowContext(ctx, query,
		txn.PlayerID, txn.TournamentID, txn.Type, txn.Amount, txn.Description, occurredAt,
	).Scan(&txn.ID, &txn.TransactionDate, &txn.CreatedAt)
}

func (r *PostgresRepository) ListTransactionsByPlayer(ctx context.Context, playerID int64) ([]models.Transaction, error) {
	query := `SELECT * FROM player_transactions WHERE player_id = $1` + transactionOrder

	txns := []models.Transaction{}
	if err := r.db.SelectContext(ctx, &txns, query, playerID); err != nil {
		return nil, err
	}

	return txns, nil
}

func (r *PostgresRepository) ListOpenTransactions(ctx context.Context) ([]models.Transaction, error) {
	query := `SELECT * FROM player_transactions WHERE archived_as_of IS NULL` + transactionOrder

	txns := []models.Transaction{}
	if err := r.db.SelectContext(ctx, &txns, query); err != nil {
		return nil, err
	}

	return txns, nil
}

// CountOpenTransactions counts unarchived transactions, optionally only those created
// strictly before createdBefore.
func (r *PostgresRepository) CountOpenTransactions(ctx context.Context, createdBefore *time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM player_transactions WHERE archived_as_of IS NULL`
	args := []interface{}{}

	if createdBefore != nil {
		query += ` AND created_at < $1`
		args = append(args, *createdBefore)
	}

	var count int64
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, err
	}

	return count, nil
}

// Balance aggregation methods
func (r *PostgresRepository) GetPlayerTotals(ctx context.Context, playerID int64) (models.PlayerTotals, error) {
	query := `SELECT` + totalsColumns + `FROM player_transactions WHERE player_id = $1`

	var totals models.PlayerTotals
	if err := r.db.GetContext(ctx, &totals, query, playerID); err != nil {
		return models.PlayerTotals{}, err
	}

	return totals.WithBalance(), nil
}

func (r *PostgresRepository) ListPlayerBalances(ctx context.Context) ([]models.PlayerBalance, error) {
	query := `
		SELECT p.*,
			COALESCE(SUM(CASE WHEN t.type = 'deposit' THEN t.amount END), 0) AS total_deposits,
			COALESCE(SUM(CASE WHEN t.type = 'withdrawal' THEN t.amount END), 0) AS total_withdrawals,
			COUNT(t.id) AS transaction_count
		FROM players p
		LEFT JOIN player_transactions t ON t.player_id = p.id
		GROUP BY p.id
		ORDER BY p.name ASC, p.id ASC
	`

	balances := []models.PlayerBalance{}
	if err := r.db.SelectContext(ctx, &balances, query); err != nil {
		return nil, err
	}

	for i := range balances {
		balances[i].PlayerTotals = balances[i].PlayerTotals.WithBalance()
	}

	return balances, nil
}

func (r *PostgresRepository) GetGlobalTotals(ctx context.Context) (models.GlobalTotals, error) {
	return r.globalTotals(ctx, `SELECT`+totalsColumns+`FROM player_transactions`)
}

func (r *PostgresRepository) GetOpenPeriodTotals(ctx context.Context) (models.GlobalTotals, error) {
	return r.globalTotals(ctx, `SELECT`+totalsColumns+`FROM player_transactions WHERE archived_as_of IS NULL`)
}

func (r *PostgresRepository) globalTotals(ctx context.Context, query string) (models.GlobalTotals, error) {
	var totals models.GlobalTotals
	if err := r.db.GetContext(ctx, &totals, query); err != nil {
		return models.GlobalTotals{}, err
	}

	return totals, nil
}
