package service

import (
	"context"

	"github.com/rongwang/pokerclub-server/internal/apperr"
	"github.com/rongwang/pokerclub-server/internal/models"
)

// ListResets returns snapshots most recent first; empty when no reset has happened
func (s *DefaultService) ListResets(ctx context.Context) ([]models.FinancialReset, error) {
	resets, err := s.repo.ListResets(ctx)
	if err != nil {
		return nil, s.storageFailure("list resets", err)
	}

	if resets == nil {
		resets = []models.FinancialReset{}
	}
	return resets, nil
}

func (s *DefaultService) GetReset(ctx context.Context, id int64) (*models.FinancialReset, error) {
	reset, err := s.repo.GetReset(ctx, id)
	if err != nil {
		return nil, s.storageFailure("get reset", err)
	}

	if reset == nil {
		return nil, apperr.NotFound("reset", id)
	}

	return reset, nil
}

func (s *DefaultService) ArchiveSummary(ctx context.Context) (models.ArchiveSummary, error) {
	summary, err := s.repo.GetArchiveSummary(ctx)
	if err != nil {
		return models.ArchiveSummary{}, s.storageFailure("archive summary", err)
	}

	return summary, nil
}

// ResetStatus reports open transactions older than the latest reset. Such stragglers
// can only exist if a reset was partially applied, and need an operator to reconcile.
func (s *DefaultService) ResetStatus(ctx context.Context) (models.ResetStatus, error) {
	latest, err := s.repo.GetLatestReset(ctx)
	if err != nil {
		return models.ResetStatus{}, s.storageFailure("latest reset", err)
	}

	open, err := s.repo.CountOpenTransactions(ctx, nil)
	if err != nil {
		return models.ResetStatus{}, s.storageFailure("count open transactions", err)
	}

	status := models.ResetStatus{LatestReset: latest, OpenTransactions: open, Consistent: true}
	if latest == nil {
		return status, nil
	}

	stragglers, err := s.repo.CountOpenTransactions(ctx, &latest.ResetDate)
	if err != nil {
		return models.ResetStatus{}, s.storageFailure("count stragglers", err)
	}

	status.Stragglers = stragglers
	status.Consistent = stragglers == 0
	return status, nil
}
