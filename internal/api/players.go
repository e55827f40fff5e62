package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rongwang/pokerclub-server/internal/models"
)

// Player handlers
func (h *Handler) CreatePlayer(c *gin.Context) {
	var req models.CreatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	player, err := h.service.CreatePlayer(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.PlayerResponse{
		Status: "success",
		Player: player,
	})
}

func (h *Handler) ListPlayers(c *gin.Context) {
	players, err := h.service.ListPlayers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PlayersResponse{
		Status:  "success",
		Players: players,
	})
}

func (h *Handler) GetPlayer(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	player, err := h.service.GetPlayer(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PlayerResponse{
		Status: "success",
		Player: player,
	})
}

func (h *Handler) UpdatePlayer(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	var req models.UpdatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	player, err := h.service.UpdatePlayer(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PlayerResponse{
		Status: "success",
		Player: player,
	})
}

func (h *Handler) DeletePlayer(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeletePlayer(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.MessageResponse{
		Status:  "success",
		Message: "Player and transactions deleted",
	})
}

func (h *Handler) GetPlayerTotals(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	totals, err := h.service.PlayerTotals(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.PlayerTotalsResponse{
		Status:   "success",
		PlayerID: id,
		Totals:   totals,
	})
}
