package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a ledger entry. Amounts are always positive; the
// type carries the sign.
type TransactionType string

const (
	TransactionDeposit    TransactionType = "deposit"
	TransactionWithdrawal TransactionType = "withdrawal"
)

// Valid reports whether t is one of the two recognized types.
func (t TransactionType) Valid() bool {
	return t == TransactionDeposit || t == TransactionWithdrawal
}

// Player represents a club member who owns ledger transactions
type Player struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Phone     string    `db:"phone" json:"phone"`
	Email     string    `db:"email" json:"email"`
	Notes     string    `db:"notes" json:"notes"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Transaction is one immutable ledger entry. ArchivedAsOf is nil while the entry belongs
// to the open period.
type Transaction struct {
	ID              int64           `db:"id" json:"id"`
	PlayerID        int64           `db:"player_id" json:"playerId"`
	TournamentID    *int64          `db:"tournament_id" json:"tournamentId,omitempty"`
	Type            TransactionType `db:"type" json:"type"`
	Amount          decimal.Decimal `db:"amount" json:"amount"`
	Description     string          `db:"description" json:"description"`
	TransactionDate time.Time       `db:"transaction_date" json:"transactionDate"`
	ArchivedAsOf    *time.Time      `db:"archived_as_of" json:"archivedAsOf"`
	CreatedAt       time.Time       `db:"created_at" json:"createdAt"`
}

// FinancialReset is an immutable snapshot of global totals taken by a reset
type FinancialReset struct {
	ID                     int64           `db:"id" json:"id"`
	ResetDate              time.Time       `db:"reset_date" json:"resetDate"`
	TotalDepositsBefore    decimal.Decimal `db:"total_deposits_before" json:"totalDepositsBefore"`
	TotalWithdrawalsBefore decimal.Decimal `db:"total_withdrawals_before" json:"totalWithdrawalsBefore"`
	Notes                  string          `db:"notes" json:"notes"`
	CreatedAt              time.Time       `db:"created_at" json:"createdAt"`
}

// PlayerTotals is derived from a player's transactions; it is never stored
type PlayerTotals struct {
	TotalDeposits    decimal.Decimal `db:"total_deposits" json:"totalDeposits"`
	TotalWithdrawals decimal.Decimal `db:"total_withdrawals" json:"totalWithdrawals"`
	Balance          decimal.Decimal `db:"-" json:"balance"`
	TransactionCount int64           `db:"transaction_count" json:"transactionCount"`
}

// WithBalance fills Balance from the two sums.
func (t PlayerTotals) WithBalance() PlayerTotals {
	t.Balance = t.TotalDeposits.Sub(t.TotalWithdrawals)
	return t
}

// PlayerBalance pairs a player with its totals for list views
type PlayerBalance struct {
	Player
	PlayerTotals
}

// GlobalTotals sums transactions across all players
type GlobalTotals struct {
	TotalDeposits    decimal.Decimal `db:"total_deposits" json:"totalDeposits"`
	TotalWithdrawals decimal.Decimal `db:"total_withdrawals" json:"totalWithdrawals"`
	TransactionCount int64           `db:"transaction_count" json:"transactionCount"`
}

// ArchiveSummary reports over all reset snapshots
type ArchiveSummary struct {
	ResetCount          int64           `db:"reset_count" json:"resetCount"`
	MostRecentResetDate *time.Time      `db:"most_recent_reset_date" json:"mostRecentResetDate"`
	CumulativeVolume    decimal.Decimal `db:"cumulative_volume" json:"cumulativeVolume"`
}

// ResetStatus describes whether the latest reset closed every transaction that existed
// when it ran. Stragglers are open transactions created before the latest reset.
type ResetStatus struct {
	LatestReset      *FinancialReset `json:"latestReset"`
	OpenTransactions int64           `json:"openTransactions"`
	Stragglers       int64           `json:"stragglers"`
	Consistent       bool            `json:"consistent"`
}

// Admin is an operator allowed to use the admin surface
type Admin struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
