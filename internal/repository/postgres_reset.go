package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rongwang/pokerclub-server/internal/models"
)

const createResetsTable = `
	CREATE TABLE IF NOT EXISTS financial_resets (
		id BIGSERIAL PRIMARY KEY,
		reset_date TIMESTAMPTZ NOT NULL,
		total_deposits_before NUMERIC(16,2) NOT NULL DEFAULT 0,
		total_withdrawals_before NUMERIC(16,2) NOT NULL DEFAULT 0,
		notes TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)
`

// ensureResetsTable creates financial_resets the first time it is needed.
func (r *PostgresRepository) ensureResetsTable(ctx context.Context) error {
	r.resetsMu.Lock()
	defer r.resetsMu.Unlock()

	if r.resetsCreated {
		return nil
	}

	if _, err := r.db.ExecContext(ctx, createResetsTable); err != nil {
		return fmt.Errorf("create financial_resets: %w", err)
	}

	r.resetsCreated = true
	return nil
}

// BeginReset opens the reset unit of work. The SHARE ROW EXCLUSIVE lock conflicts with
// itself and with the ROW EXCLUSIVE lock taken by inserts and updates, so concurrent
// resets and concurrent recordings wait until this one commits or rolls back.
func (r *PostgresRepository) BeginReset(ctx context.Context) (ResetTx, error) {
	if err := r.ensureResetsTable(ctx); err != nil {
		return nil, err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}

	if _, err := tx.ExecContext(ctx, `LOCK TABLE player_transactions IN SHARE ROW EXCLUSIVE MODE`); err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("lock player_transactions: %w", err)
	}

	return &postgresResetTx{tx: tx}, nil
}

type postgresResetTx struct {
	tx *sqlx.Tx
}

func (t *postgresResetTx) Now(ctx context.Context) (time.Time, error) {
	var now time.Time
	if err := t.tx.GetContext(ctx, &now, `SELECT clock_timestamp()`); err != nil {
		return time.Time{}, err
	}

	return now.UTC(), nil
}

func (t *postgresResetTx) GlobalTotals(ctx context.Context) (models.GlobalTotals, error) {
	var totals models.GlobalTotals
	if err := t.tx.GetContext(ctx, &totals, `SELECT`+totalsColumns+`FROM player_transactions`); err != nil {
		return models.GlobalTotals{}, err
	}

	return totals, nil
}

func (t *postgresResetTx) InsertReset(ctx context.Context, reset *models.FinancialReset) error {
	query := `
		INSERT INTO financial_resets
			(reset_date, total_deposits_before, total_withdrawals_before, notes, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	if reset.CreatedAt.IsZero() {
		reset.CreatedAt = reset.ResetDate
	}

	return t.tx.QueryRowContext(ctx, query,
		reset.ResetDate, reset.TotalDepositsBefore, reset.TotalWithdrawalsBefore,
		reset.Notes, reset.CreatedAt).Scan(&reset.ID)
}

// MarkPeriodClosed stamps every open transaction. Already archived rows keep their marker.
func (t *postgresResetTx) MarkPeriodClosed(ctx context.Context, asOf time.Time) (int64, error) {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE player_transactions SET archived_as_of = $1 WHERE archived_as_of IS NULL`, asOf)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (t *postgresResetTx) Commit() error {
	return t.tx.Commit()
}

func (t *postgresResetTx) Rollback() error {
	return t.tx.Rollback()
}

// Archive query methods
func (r *PostgresRepository) ListResets(ctx context.Context) ([]models.FinancialReset, error) {
	if err := r.ensureResetsTable(ctx); err != nil {
		return nil, err
	}

	query := `SELECT * FROM financial_resets ORDER BY reset_date DESC, id DESC`

	resets := []models.FinancialReset{}
	if err := r.db.SelectContext(ctx, &resets, query); err != nil {
		return nil, err
	}

	return resets, nil
}

func (r *PostgresRepository) GetReset(ctx context.Context, id int64) (*models.FinancialReset, error) {
	return r.getReset(ctx, `SELECT * FROM financial_resets WHERE id = $1`, id)
}

func (r *PostgresRepository) GetLatestReset(ctx context.Context) (*models.FinancialReset, error) {
	return r.getReset(ctx, `SELECT * FROM financial_resets ORDER BY reset_date DESC, id DESC LIMIT 1`)
}

func (r *PostgresRepository) getReset(ctx context.Context, query string, args ...interface{}) (*models.FinancialReset, error) {
	if err := r.ensureResetsTable(ctx); err != nil {
		return nil, err
	}

	var reset models.FinancialReset
	err := r.db.GetContext(ctx, &reset, query, args...)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Reset not found
		}
		return nil, err
	}

	return &reset, nil
}

func (r *PostgresRepository) GetArchiveSummary(ctx context.Context) (models.ArchiveSummary, error) {
	if err := r.ensureResetsTable(ctx); err != nil {
		return models.ArchiveSummary{}, err
	}

	query := `
		SELECT
			COUNT(*) AS reset_count,
			MAX(reset_date) AS most_recent_reset_date,
			COALESCE(SUM(total_deposits_before + total_withdrawals_before), 0) AS cumulative_volume
		FROM financial_resets
	`

	var summary models.ArchiveSummary
	if err := r.db.GetContext(ctx, &summary, query); err != nil {
		return models.ArchiveSummary{}, err
	}

	return summary, nil
}
