package service

import (
	"context"

	"github.com/rongwang/pokerclub-server/internal/models"
)

// PlayerTotals sums every transaction of the player, archived or not
func (s *DefaultService) PlayerTotals(ctx context.Context, playerID int64) (models.PlayerTotals, error) {
	if _, err := s.GetPlayer(ctx, playerID); err != nil {
		return models.PlayerTotals{}, err
	}

	totals, err := s.repo.GetPlayerTotals(ctx, playerID)
	if err != nil {
		return models.PlayerTotals{}, s.storageFailure("player totals", err)
	}

	return totals, nil
}

func (s *DefaultService) PlayerBalances(ctx context.Context) ([]models.PlayerBalance, error) {
	balances, err := s.repo.ListPlayerBalances(ctx)
	if err != nil {
		return nil, s.storageFailure("player balances", err)
	}

	return balances, nil
}

func (s *DefaultService) GlobalTotals(ctx context.Context) (models.GlobalTotals, error) {
	totals, err := s.repo.GetGlobalTotals(ctx)
	if err != nil {
		return models.GlobalTotals{}, s.storageFailure("global totals", err)
	}

	return totals, nil
}

// OpenPeriodTotals sums only the transactions recorded since the last reset
func (s *DefaultService) OpenPeriodTotals(ctx context.Context) (models.GlobalTotals, error) {
	totals, err := s.repo.GetOpenPeriodTotals(ctx)
	if err != nil {
		return models.GlobalTotals{}, s.storageFailure("open period totals", err)
	}

	return totals, nil
}
