package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rongwang/pokerclub-server/internal/apperr"
	"github.com/rongwang/pokerclub-server/internal/models"
	"github.com/rongwang/pokerclub-server/internal/repository"
	"github.com/sirupsen/logrus"
)

func (s *DefaultService) CreatePlayer(ctx context.Context, req models.CreatePlayerRequest) (*models.Player, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name", "is required")
	}

	player := &models.Player{
		Name:   name,
		Phone:  strings.TrimSpace(req.Phone),
		Email:  strings.TrimSpace(req.Email),
		Notes:  req.Notes,
		Active: true,
	}

	if err := s.repo.CreatePlayer(ctx, player); err != nil {
		return nil, s.storageFailure("create player", err)
	}

	s.log.WithField("player_id", player.ID).Info("player created")
	return player, nil
}

func (s *DefaultService) GetPlayer(ctx context.Context, id int64) (*models.Player, error) {
	player, err := s.repo.GetPlayer(ctx, id)
	if err != nil {
		return nil, s.storageFailure("get player", err)
	}

	if player == nil {
		return nil, apperr.NotFound("player", id)
	}

	return player, nil
}

func (s *DefaultService) ListPlayers(ctx context.Context) ([]models.Player, error) {
	players, err := s.repo.ListPlayers(ctx)
	if err != nil {
		return nil, s.storageFailure("list players", err)
	}

	return players, nil
}

// UpdatePlayer replaces the player's editable fields. Active is left unchanged when the
// request omits it.
func (s *DefaultService) UpdatePlayer(ctx context.Context, id int64, req models.UpdatePlayerRequest) (*models.Player, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("name", "is required")
	}

	player, err := s.GetPlayer(ctx, id)
	if err != nil {
		return nil, err
	}

	player.Name = name
	player.Phone = strings.TrimSpace(req.Phone)
	player.Email = strings.TrimSpace(req.Email)
	player.Notes = req.Notes
	if req.Active != nil {
		player.Active = *req.Active
	}

	if err := s.repo.UpdatePlayer(ctx, player); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.NotFound("player", id)
		}
		return nil, s.storageFailure("update player", err)
	}

	s.log.WithField("player_id", id).Info("player updated")
	return player, nil
}

// DeletePlayer removes the player together with all of its transactions
func (s *DefaultService) DeletePlayer(ctx context.Context, id int64) error {
	removed, err := s.repo.DeletePlayer(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("player", id)
		}
		return s.storageFailure("delete player", err)
	}

	s.log.WithFields(logrus.Fields{
		"player_id":            id,
		"removed_transactions": removed,
	}).Info("player deleted")
	return nil
}
