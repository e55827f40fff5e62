package repository

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rongwang/pokerclub-server/internal/models"
	"github.com/shopspring/decimal"
)

var _ Repository = (*MemoryRepository)(nil)

// MemoryRepository implements the Repository interface in process memory. It follows the
// Postgres repository's ordering, zero-sum and locking behavior.
type MemoryRepository struct {
	// writeMu serializes ledger writers; a reset holds it until commit or rollback.
	writeMu sync.Mutex

	mu           sync.RWMutex
	nextAdminID  int64
	nextPlayerID int64
	nextTxnID    int64
	nextResetID  int64
	admins       map[string]models.Admin
	players      map[int64]models.Player
	txns         []models.Transaction
	resets       []models.FinancialReset
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		admins:  make(map[string]models.Admin),
		players: make(map[int64]models.Player),
	}
}

// Admin repository methods
func (r *MemoryRepository) CreateAdmin(ctx context.Context, admin *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.admins[admin.Username]; exists {
		return fmt.Errorf("admin %q already exists", admin.Username)
	}

	r.nextAdminID++
	admin.ID = r.nextAdminID
	admin.CreatedAt = Now()
	r.admins[admin.Username] = *admin

	return nil
}

func (r *MemoryRepository) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	admin, ok := r.admins[username]
	if !ok {
		return nil, nil
	}

	return &admin, nil
}

// Player repository methods
func (r *MemoryRepository) CreatePlayer(ctx context.Context, player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextPlayerID++
	now := Now()
	player.ID = r.nextPlayerID
	player.CreatedAt = now
	player.UpdatedAt = now
	r.players[player.ID] = *player

	return nil
}

func (r *MemoryRepository) GetPlayer(ctx context.Context, id int64) (*models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	player, ok := r.players[id]
	if !ok {
		return nil, nil
	}

	return &player, nil
}

func (r *MemoryRepository) ListPlayers(ctx context.Context) ([]models.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := make([]models.Player, 0, len(r.players))
	for _, p := range r.players {
		players = append(players, p)
	}
	sortPlayers(players, func(i int) models.Player { return players[i] })

	return players, nil
}

func (r *MemoryRepository) UpdatePlayer(ctx context.Context, player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.players[player.ID]
	if !ok {
		return ErrNotFound
	}

	player.CreatedAt = existing.CreatedAt
	player.UpdatedAt = Now()
	r.players[player.ID] = *player

	return nil
}

func (r *MemoryRepository) DeletePlayer(ctx context.Context, id int64) (int64, error) {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[id]; !ok {
		return 0, ErrNotFound
	}

	kept := r.txns[:0:0]
	var removed int64
	for _, t := range r.txns {
		if t.PlayerID == id {
			removed++
			continue
		}
		kept = append(kept, t)
	}
	r.txns = kept
	delete(r.players, id)

	return removed, nil
}

// Transaction store methods
func (r *MemoryRepository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[txn.PlayerID]; !ok {
		return fmt.Errorf("player_transactions.player_id %d violates foreign key", txn.PlayerID)
	}

	r.nextTxnID++
	txn.ID = r.nextTxnID
	txn.CreatedAt = Now()
	if txn.TransactionDate.IsZero() {
		txn.TransactionDate = txn.CreatedAt
	}
	txn.ArchivedAsOf = nil
	r.txns = append(r.txns, *txn)

	return nil
}

func (r *MemoryRepository) ListTransactionsByPlayer(ctx context.Context, playerID int64) ([]models.Transaction, error) {
	return r.filterTransactions(func(t models.Transaction) bool { return t.PlayerID == playerID }), nil
}

func (r *MemoryRepository) ListOpenTransactions(ctx context.Context) ([]models.Transaction, error) {
	return r.filterTransactions(isOpen), nil
}

func (r *MemoryRepository) CountOpenTransactions(ctx context.Context, createdBefore *time.Time) (int64, error) {
	open := r.filterTransactions(func(t models.Transaction) bool {
		return isOpen(t) && (createdBefore == nil || t.CreatedAt.Before(*createdBefore))
	})

	return int64(len(open)), nil
}

func (r *MemoryRepository) filterTransactions(keep func(models.Transaction) bool) []models.Transaction {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []models.Transaction{}
	for _, t := range r.txns {
		if keep(t) {
			out = append(out, t)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.TransactionDate.Equal(b.TransactionDate) {
			return a.TransactionDate.After(b.TransactionDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})

	return out
}

// Balance aggregation methods
func (r *MemoryRepository) GetPlayerTotals(ctx context.Context, playerID int64) (models.PlayerTotals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sum := sumTransactions(r.txns, func(t models.Transaction) bool { return t.PlayerID == playerID })

	return models.PlayerTotals{
		TotalDeposits:    sum.TotalDeposits,
		TotalWithdrawals: sum.TotalWithdrawals,
		TransactionCount: sum.TransactionCount,
	}.WithBalance(), nil
}

func (r *MemoryRepository) ListPlayerBalances(ctx context.Context) ([]models.PlayerBalance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	balances := make([]models.PlayerBalance, 0, len(r.players))
	for _, p := range r.players {
		id := p.ID
		sum := sumTransactions(r.txns, func(t models.Transaction) bool { return t.PlayerID == id })
		balances = append(balances, models.PlayerBalance{
			Player: p,
			PlayerTotals: models.PlayerTotals{
				TotalDeposits:    sum.TotalDeposits,
				TotalWithdrawals: sum.TotalWithdrawals,
				TransactionCount: sum.TransactionCount,
			}.WithBalance(),
		})
	}
	sortPlayers(balances, func(i int) models.Player { return balances[i].Player })

	return balances, nil
}

func (r *MemoryRepository) GetGlobalTotals(ctx context.Context) (models.GlobalTotals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sumTransactions(r.txns, nil), nil
}

func (r *MemoryRepository) GetOpenPeriodTotals(ctx context.Context) (models.GlobalTotals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return sumTransactions(r.txns, isOpen), nil
}

// BeginReset takes the writer lock and stages all changes on a copy of the ledger.
func (r *MemoryRepository) BeginReset(ctx context.Context) (ResetTx, error) {
	r.writeMu.Lock()

	r.mu.RLock()
	staged := make([]models.Transaction, len(r.txns))
	copy(staged, r.txns)
	r.mu.RUnlock()

	return &memoryResetTx{repo: r, txns: staged}, nil
}

type memoryResetTx struct {
	repo   *MemoryRepository
	txns   []models.Transaction
	resets []models.FinancialReset
	done   bool
}

func (t *memoryResetTx) Now(ctx context.Context) (time.Time, error) {
	if t.done {
		return time.Time{}, sql.ErrTxDone
	}
	return Now(), nil
}

func (t *memoryResetTx) GlobalTotals(ctx context.Context) (models.GlobalTotals, error) {
	if t.done {
		return models.GlobalTotals{}, sql.ErrTxDone
	}
	return sumTransactions(t.txns, nil), nil
}

func (t *memoryResetTx) InsertReset(ctx context.Context, reset *models.FinancialReset) error {
	if t.done {
		return sql.ErrTxDone
	}

	t.repo.mu.Lock()
	t.repo.nextResetID++
	reset.ID = t.repo.nextResetID
	t.repo.mu.Unlock()

	if reset.CreatedAt.IsZero() {
		reset.CreatedAt = reset.ResetDate
	}
	t.resets = append(t.resets, *reset)

	return nil
}

func (t *memoryResetTx) MarkPeriodClosed(ctx context.Context, asOf time.Time) (int64, error) {
	if t.done {
		return 0, sql.ErrTxDone
	}

	var stamped int64
	for i := range t.txns {
		if t.txns[i].ArchivedAsOf == nil {
			stampedAt := asOf
			t.txns[i].ArchivedAsOf = &stampedAt
			stamped++
		}
	}

	return stamped, nil
}

func (t *memoryResetTx) Commit() error {
	if t.done {
		return sql.ErrTxDone
	}

	t.repo.mu.Lock()
	t.repo.txns = t.txns
	t.repo.resets = append(t.repo.resets, t.resets...)
	t.repo.mu.Unlock()

	t.done = true
	t.repo.writeMu.Unlock()

	return nil
}

func (t *memoryResetTx) Rollback() error {
	if t.done {
		return sql.ErrTxDone
	}

	t.done = true
	t.repo.writeMu.Unlock()

	return nil
}

// Archive query methods
func (r *MemoryRepository) ListResets(ctx context.Context) ([]models.FinancialReset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	resets := make([]models.FinancialReset, len(r.resets))
	copy(resets, r.resets)
	sort.SliceStable(resets, func(i, j int) bool {
		if !resets[i].ResetDate.Equal(resets[j].ResetDate) {
			return resets[i].ResetDate.After(resets[j].ResetDate)
		}
		return resets[i].ID > resets[j].ID
	})

	return resets, nil
}

func (r *MemoryRepository) GetReset(ctx context.Context, id int64) (*models.FinancialReset, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, reset := range r.resets {
		if reset.ID == id {
			found := reset
			return &found, nil
		}
	}

	return nil, nil
}

func (r *MemoryRepository) GetLatestReset(ctx context.Context) (*models.FinancialReset, error) {
	resets, err := r.ListResets(ctx)
	if err != nil || len(resets) == 0 {
		return nil, err
	}

	return &resets[0], nil
}

func (r *MemoryRepository) GetArchiveSummary(ctx context.Context) (models.ArchiveSummary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summary := models.ArchiveSummary{
		ResetCount:       int64(len(r.resets)),
		CumulativeVolume: decimal.Zero,
	}
	for _, reset := range r.resets {
		summary.CumulativeVolume = summary.CumulativeVolume.
			Add(reset.TotalDepositsBefore).
			Add(reset.TotalWithdrawalsBefore)
		if summary.MostRecentResetDate == nil || reset.ResetDate.After(*summary.MostRecentResetDate) {
			latest := reset.ResetDate
			summary.MostRecentResetDate = &latest
		}
	}

	return summary, nil
}

func isOpen(t models.Transaction) bool {
	return t.ArchivedAsOf == nil
}

// sumTransactions totals the rows accepted by keep; a nil keep accepts all rows.
func sumTransactions(txns []models.Transaction, keep func(models.Transaction) bool) models.GlobalTotals {
	totals := models.GlobalTotals{
		TotalDeposits:    decimal.Zero,
		TotalWithdrawals: decimal.Zero,
	}

	for _, t := range txns {
		if keep != nil && !keep(t) {
			continue
		}
		switch t.Type {
		case models.TransactionDeposit:
			totals.TotalDeposits = totals.TotalDeposits.Add(t.Amount)
		case models.TransactionWithdrawal:
			totals.TotalWithdrawals = totals.TotalWithdrawals.Add(t.Amount)
		}
		totals.TransactionCount++
	}

	return totals
}

func sortPlayers[T any](items []T, player func(i int) models.Player) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := player(i), player(j)
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}
