// Package notify publishes ledger events to operators and other services. Notifications
// are sent after the ledger write has committed and never affect it.
package notify

import (
	"context"
	"errors"

	"github.com/rongwang/pokerclub-server/internal/models"
)

// Notifier receives committed ledger events
type Notifier interface {
	TransactionRecorded(ctx context.Context, txn models.Transaction) error
	ResetPerformed(ctx context.Context, reset models.FinancialReset) error
}

// Nop discards every event
type Nop struct{}

func (Nop) TransactionRecorded(context.Context, models.Transaction) error { return nil }
func (Nop) ResetPerformed(context.Context, models.FinancialReset) error   { return nil }

// Multi fans an event out to every notifier and joins their errors
type Multi []Notifier

func (m Multi) TransactionRecorded(ctx context.Context, txn models.Transaction) error {
	var errs []error
	for _, n := range m {
		if err := n.TransactionRecorded(ctx, txn); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) ResetPerformed(ctx context.Context, reset models.FinancialReset) error {
	var errs []error
	for _, n := range m {
		if err := n.ResetPerformed(ctx, reset); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
