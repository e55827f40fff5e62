package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/rongwang/pokerclub-server/internal/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionTypeValid(t *testing.T) {
	assert.True(t, TransactionDeposit.Valid())
	assert.True(t, TransactionWithdrawal.Valid())
	assert.False(t, TransactionType("refund").Valid())
	assert.False(t, TransactionType("Deposit").Valid())
	assert.False(t, TransactionType("").Valid())
}

func TestPlayerTotalsWithBalance(t *testing.T) {
	totals := PlayerTotals{
		TotalDeposits:    decimal.RequireFromString("25000"),
		TotalWithdrawals: decimal.RequireFromString("8000"),
		TransactionCount: 3,
	}.WithBalance()

	assert.True(t, totals.Balance.Equal(decimal.RequireFromString("17000")))
}

func TestMoneyEncodesAsString(t *testing.T) {
	body, err := json.Marshal(GlobalTotals{
		TotalDeposits:    decimal.RequireFromString("0.10"),
		TotalWithdrawals: decimal.RequireFromString("0.20"),
	})
	require.NoError(t, err)

	assert.Contains(t, string(body), `"totalDeposits":"0.1"`)
	assert.Contains(t, string(body), `"totalWithdrawals":"0.2"`)
}

func TestRecordTransactionRequestAcceptsNumericAmount(t *testing.T) {
	var req RecordTransactionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"type":"deposit","amount":20000.50}`), &req))

	assert.Equal(t, TransactionDeposit, req.Type)
	assert.True(t, req.Amount.Equal(decimal.RequireFromString("20000.5")))
}

func TestRecordTransactionRequestNamesMalformedField(t *testing.T) {
	tests := []struct {
		body  string
		field string
	}{
		{`{"type":"deposit","amount":"abc"}`, "amount"},
		{`{"type":"deposit","amount":true}`, "amount"},
		{`{"type":"deposit","amount":"10","occurredAt":"yesterday"}`, "occurredAt"},
		{`{"type":"deposit","amount":"10","tournamentId":"three"}`, "tournamentId"},
		{`{"type":7,"amount":"10"}`, "type"},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			var req RecordTransactionRequest
			err := json.Unmarshal([]byte(tt.body), &req)

			var appErr *apperr.Error
			require.True(t, errors.As(err, &appErr), "got %v", err)
			assert.Equal(t, apperr.KindValidation, appErr.Kind)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}
}

func TestRecordTransactionRequestOptionalFields(t *testing.T) {
	var req RecordTransactionRequest
	require.NoError(t, json.Unmarshal(
		[]byte(`{"type":"withdrawal","amount":"12.50","occurredAt":null,"tournamentId":4}`), &req))

	assert.Equal(t, TransactionWithdrawal, req.Type)
	assert.True(t, req.Amount.Equal(decimal.RequireFromString("12.5")))
	assert.Nil(t, req.OccurredAt)
	require.NotNil(t, req.TournamentID)
	assert.Equal(t, int64(4), *req.TournamentID)

	require.NoError(t, json.Unmarshal([]byte(`{"type":"deposit","occurredAt":"2024-01-15T20:00:00Z"}`), &req))
	assert.True(t, req.Amount.IsZero())
	require.NotNil(t, req.OccurredAt)
	assert.Equal(t, 2024, req.OccurredAt.Year())
}
