package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rongwang/pokerclub-server/internal/models"
	"github.com/sirupsen/logrus"
)

// PerformReset archives the current global totals as a snapshot and stamps every open
// transaction with the snapshot's timestamp. All of it commits together or not at all.
// Calling it twice creates two snapshots.
func (s *DefaultService) PerformReset(ctx context.Context, notes string) (*models.FinancialReset, error) {
	s.resetMu.Lock()
	defer s.resetMu.Unlock()

	rtx, err := s.repo.BeginReset(ctx)
	if err != nil {
		return nil, s.storageFailure("begin reset", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if err := rtx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			s.log.WithError(err).Error("reset rollback failed")
		}
	}()

	now, err := rtx.Now(ctx)
	if err != nil {
		return nil, s.storageFailure("reset clock", err)
	}

	totals, err := rtx.GlobalTotals(ctx)
	if err != nil {
		return nil, s.storageFailure("reset totals", err)
	}

	reset := &models.FinancialReset{
		ResetDate:              now,
		TotalDepositsBefore:    totals.TotalDeposits,
		TotalWithdrawalsBefore: totals.TotalWithdrawals,
		Notes:                  strings.TrimSpace(notes),
		CreatedAt:              now,
	}
	if err := rtx.InsertReset(ctx, reset); err != nil {
		return nil, s.storageFailure("write reset snapshot", err)
	}

	stamped, err := rtx.MarkPeriodClosed(ctx, now)
	if err != nil {
		return nil, s.storageFailure("close reset period", err)
	}

	if err := rtx.Commit(); err != nil {
		// The outcome of a failed commit is unknown to us; ResetStatus shows whether
		// the snapshot landed without its stamps.
		s.log.WithError(err).WithField("reset_date", now).Error("reset commit failed, requires manual reconciliation")
		return nil, s.storageFailure("commit reset", err)
	}
	committed = true

	s.log.WithFields(logrus.Fields{
		"reset_id":           reset.ID,
		"deposits_before":    reset.TotalDepositsBefore.StringFixed(2),
		"withdrawals_before": reset.TotalWithdrawalsBefore.StringFixed(2),
		"stamped":            stamped,
	}).Info("financial reset performed")

	if err := s.notifier.ResetPerformed(ctx, *reset); err != nil {
		s.log.WithError(err).WithField("reset_id", reset.ID).Warn("reset notification failed")
	}

	return reset, nil
}
