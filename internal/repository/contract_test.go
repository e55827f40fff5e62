package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rongwang/pokerclub-server/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runContract exercises behavior both repository implementations must share.
// newRepo must return an empty repository.
func runContract(t *testing.T, newRepo func(t *testing.T) Repository) {
	t.Run("PlayerTotalsZeroWithoutTransactions", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		player := mustPlayer(t, repo, "Nagy")

		totals, err := repo.GetPlayerTotals(ctx, player.ID)
		require.NoError(t, err)

		assert.True(t, totals.TotalDeposits.IsZero())
		assert.True(t, totals.TotalWithdrawals.IsZero())
		assert.True(t, totals.Balance.IsZero())
		assert.Equal(t, int64(0), totals.TransactionCount)
	})

	t.Run("PlayerTotalsSumByType", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		player := mustPlayer(t, repo, "Kovács")

		mustTxn(t, repo, player.ID, models.TransactionDeposit, "20000")
		mustTxn(t, repo, player.ID, models.TransactionDeposit, "5000")
		mustTxn(t, repo, player.ID, models.TransactionWithdrawal, "8000")

		totals, err := repo.GetPlayerTotals(ctx, player.ID)
		require.NoError(t, err)

		assertDecimal(t, "25000", totals.TotalDeposits)
		assertDecimal(t, "8000", totals.TotalWithdrawals)
		assertDecimal(t, "17000", totals.Balance)
		assert.Equal(t, int64(3), totals.TransactionCount)
	})

	t.Run("TransactionsOrderedMostRecentFirst", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		player := mustPlayer(t, repo, "Szabó")
		day := time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC)

		older := &models.Transaction{PlayerID: player.ID, Type: models.TransactionDeposit,
			Amount: decimal.NewFromInt(100), TransactionDate: day.Add(-24 * time.Hour)}
		tieA := &models.Transaction{PlayerID: player.ID, Type: models.TransactionDeposit,
			Amount: decimal.NewFromInt(200), TransactionDate: day}
		tieB := &models.Transaction{PlayerID: player.ID, Type: models.TransactionWithdrawal,
			Amount: decimal.NewFromInt(50), TransactionDate: day}
		for _, txn := range []*models.Transaction{older, tieA, tieB} {
			require.NoError(t, repo.CreateTransaction(ctx, txn))
		}

		txns, err := repo.ListTransactionsByPlayer(ctx, player.ID)
		require.NoError(t, err)
		require.Len(t, txns, 3)

		assert.Equal(t, tieB.ID, txns[0].ID)
		assert.Equal(t, tieA.ID, txns[1].ID)
		assert.Equal(t, older.ID, txns[2].ID)
	})

	t.Run("ResetStampsOpenTransactionsOnly", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		player := mustPlayer(t, repo, "Tóth")
		mustTxn(t, repo, player.ID, models.TransactionDeposit, "10000")

		first := commitReset(t, repo, "first")
		mustTxn(t, repo, player.ID, models.TransactionDeposit, "3000")
		second := commitReset(t, repo, "second")

		txns, err := repo.ListTransactionsByPlayer(ctx, player.ID)
		require.NoError(t, err)
		require.Len(t, txns, 2)

		byAmount := map[string]models.Transaction{}
		for _, txn := range txns {
			byAmount[txn.Amount.String()] = txn
		}
		require.NotNil(t, byAmount["10000"].ArchivedAsOf)
		require.NotNil(t, byAmount["3000"].ArchivedAsOf)
		assert.True(t, byAmount["10000"].ArchivedAsOf.Equal(first.ResetDate))
		assert.True(t, byAmount["3000"].ArchivedAsOf.Equal(second.ResetDate))

		open, err := repo.CountOpenTransactions(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(0), open)
	})

	t.Run("RollbackLeavesNoTrace", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		player := mustPlayer(t, repo, "Varga")
		mustTxn(t, repo, player.ID, models.TransactionDeposit, "700")

		rtx, err := repo.BeginReset(ctx)
		require.NoError(t, err)
		reset := &models.FinancialReset{ResetDate: Now(), TotalDepositsBefore: decimal.NewFromInt(700),
			TotalWithdrawalsBefore: decimal.Zero}
		require.NoError(t, rtx.InsertReset(ctx, reset))
		_, err = rtx.MarkPeriodClosed(ctx, reset.ResetDate)
		require.NoError(t, err)
		require.NoError(t, rtx.Rollback())

		resets, err := repo.ListResets(ctx)
		require.NoError(t, err)
		assert.Empty(t, resets)

		open, err := repo.ListOpenTransactions(ctx)
		require.NoError(t, err)
		assert.Len(t, open, 1)
	})

	t.Run("ResetBlocksConcurrentRecording", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		player := mustPlayer(t, repo, "Farkas")

		rtx, err := repo.BeginReset(ctx)
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := repo.CreateTransaction(ctx, &models.Transaction{
				PlayerID: player.ID, Type: models.TransactionDeposit, Amount: decimal.NewFromInt(50),
			})
			assert.NoError(t, err)
		}()

		// The insert must wait for the reset to finish, so the reset sees no rows.
		time.Sleep(50 * time.Millisecond)
		totals, err := rtx.GlobalTotals(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), totals.TransactionCount)
		stamped, err := rtx.MarkPeriodClosed(ctx, Now())
		require.NoError(t, err)
		assert.Equal(t, int64(0), stamped)
		require.NoError(t, rtx.Commit())

		wg.Wait()
		open, err := repo.CountOpenTransactions(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(1), open)
	})

	t.Run("ArchiveSummary", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		empty, err := repo.GetArchiveSummary(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), empty.ResetCount)
		assert.Nil(t, empty.MostRecentResetDate)
		assert.True(t, empty.CumulativeVolume.IsZero())

		player := mustPlayer(t, repo, "Balogh")
		mustTxn(t, repo, player.ID, models.TransactionDeposit, "100")
		mustTxn(t, repo, player.ID, models.TransactionWithdrawal, "40")
		commitReset(t, repo, "")
		latest := commitReset(t, repo, "")

		summary, err := repo.GetArchiveSummary(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), summary.ResetCount)
		require.NotNil(t, summary.MostRecentResetDate)
		assert.True(t, summary.MostRecentResetDate.Equal(latest.ResetDate))
		assertDecimal(t, "280", summary.CumulativeVolume)
	})

	t.Run("DeletePlayerCascades", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		gone := mustPlayer(t, repo, "Molnár")
		kept := mustPlayer(t, repo, "Németh")
		mustTxn(t, repo, gone.ID, models.TransactionDeposit, "10")
		mustTxn(t, repo, gone.ID, models.TransactionWithdrawal, "5")
		mustTxn(t, repo, kept.ID, models.TransactionDeposit, "1")

		removed, err := repo.DeletePlayer(ctx, gone.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), removed)

		player, err := repo.GetPlayer(ctx, gone.ID)
		require.NoError(t, err)
		assert.Nil(t, player)

		txns, err := repo.ListTransactionsByPlayer(ctx, gone.ID)
		require.NoError(t, err)
		assert.Empty(t, txns)

		totals, err := repo.GetGlobalTotals(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), totals.TransactionCount)

		_, err = repo.DeletePlayer(ctx, gone.ID)
		assert.True(t, errors.Is(err, ErrNotFound))
	})

	t.Run("PlayerBalancesIncludePlayersWithoutTransactions", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		b := mustPlayer(t, repo, "Bence")
		mustPlayer(t, repo, "Anna")
		mustTxn(t, repo, b.ID, models.TransactionDeposit, "300")

		balances, err := repo.ListPlayerBalances(ctx)
		require.NoError(t, err)
		require.Len(t, balances, 2)

		assert.Equal(t, "Anna", balances[0].Name)
		assert.True(t, balances[0].Balance.IsZero())
		assert.Equal(t, "Bence", balances[1].Name)
		assertDecimal(t, "300", balances[1].Balance)
	})
}

func mustPlayer(t *testing.T, repo Repository, name string) *models.Player {
	t.Helper()
	player := &models.Player{Name: name, Active: true}
	require.NoError(t, repo.CreatePlayer(context.Background(), player))
	return player
}

func mustTxn(t *testing.T, repo Repository, playerID int64, typ models.TransactionType, amount string) *models.Transaction {
	t.Helper()
	txn := &models.Transaction{PlayerID: playerID, Type: typ, Amount: decimal.RequireFromString(amount)}
	require.NoError(t, repo.CreateTransaction(context.Background(), txn))
	return txn
}

func commitReset(t *testing.T, repo Repository, notes string) *models.FinancialReset {
	t.Helper()
	ctx := context.Background()

	rtx, err := repo.BeginReset(ctx)
	require.NoError(t, err)
	totals, err := rtx.GlobalTotals(ctx)
	require.NoError(t, err)
	now, err := rtx.Now(ctx)
	require.NoError(t, err)

	reset := &models.FinancialReset{
		ResetDate:              now,
		TotalDepositsBefore:    totals.TotalDeposits,
		TotalWithdrawalsBefore: totals.TotalWithdrawals,
		Notes:                  notes,
	}
	require.NoError(t, rtx.InsertReset(ctx, reset))
	_, err = rtx.MarkPeriodClosed(ctx, reset.ResetDate)
	require.NoError(t, err)
	require.NoError(t, rtx.Commit())

	return reset
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}
