package service

import (
	"context"
	"strings"
	"time"

	"github.com/rongwang/pokerclub-server/internal/apperr"
	"github.com/rongwang/pokerclub-server/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	// maxAmountDigits is the number of integer digits NUMERIC(14,2) holds
	maxAmountDigits = 12
	// minAmountExponent rejects absurd scales before any rescaling arithmetic
	minAmountExponent = -20
)

// validateAmount only compares or rounds the amount once its exponent is known to be
// small, since both rescale the coefficient to a common exponent.
func validateAmount(amount decimal.Decimal) error {
	switch {
	case !amount.IsPositive():
		return apperr.Validation("amount", "must be greater than zero")
	case amount.Exponent() < minAmountExponent:
		return apperr.Validation("amount", "must have at most two decimal places")
	case int64(amount.NumDigits())+int64(amount.Exponent()) > maxAmountDigits:
		return apperr.Validation("amount", "is too large")
	case !amount.Round(2).Equal(amount):
		return apperr.Validation("amount", "must have at most two decimal places")
	}

	return nil
}

func validateTransaction(req models.RecordTransactionRequest) error {
	if !req.Type.Valid() {
		return apperr.Validation("type", `must be "deposit" or "withdrawal"`)
	}

	if err := validateAmount(req.Amount); err != nil {
		return err
	}

	if req.TournamentID != nil && *req.TournamentID <= 0 {
		return apperr.Validation("tournamentId", "must be a positive id")
	}

	return nil
}

// RecordTransaction appends one ledger entry for an existing player. Nothing is written
// when validation fails.
func (s *DefaultService) RecordTransaction(ctx context.Context, playerID int64, req models.RecordTransactionRequest) (*models.Transaction, error) {
	if err := validateTransaction(req); err != nil {
		return nil, err
	}

	if _, err := s.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}

	txn := &models.Transaction{
		PlayerID:     playerID,
		TournamentID: req.TournamentID,
		Type:         req.Type,
		Amount:       req.Amount,
		Description:  strings.TrimSpace(req.Description),
	}
	// A zero date lets the repository default it to the insert time
	if req.OccurredAt != nil && !req.OccurredAt.IsZero() {
		txn.TransactionDate = req.OccurredAt.UTC().Truncate(time.Microsecond)
	}

	if err := s.repo.CreateTransaction(ctx, txn); err != nil {
		return nil, s.storageFailure("record transaction", err)
	}

	s.log.WithFields(logrus.Fields{
		"transaction_id": txn.ID,
		"player_id":      playerID,
		"type":           txn.Type,
		"amount":         txn.Amount.StringFixed(2),
	}).Info("transaction recorded")

	if err := s.notifier.TransactionRecorded(ctx, *txn); err != nil {
		s.log.WithError(err).WithField("transaction_id", txn.ID).Warn("transaction notification failed")
	}

	return txn, nil
}

func (s *DefaultService) ListPlayerTransactions(ctx context.Context, playerID int64) ([]models.Transaction, error) {
	if _, err := s.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}

	txns, err := s.repo.ListTransactionsByPlayer(ctx, playerID)
	if err != nil {
		return nil, s.storageFailure("list player transactions", err)
	}

	return txns, nil
}

// ListOpenTransactions returns the transactions not yet covered by any reset
func (s *DefaultService) ListOpenTransactions(ctx context.Context) ([]models.Transaction, error) {
	txns, err := s.repo.ListOpenTransactions(ctx)
	if err != nil {
		return nil, s.storageFailure("list open transactions", err)
	}

	return txns, nil
}
