package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rongwang/pokerclub-server/internal/models"
)

// Reset handlers
func (h *Handler) PerformReset(c *gin.Context) {
	var req models.PerformResetRequest
	if !h.bindOptionalJSON(c, &req) {
		return
	}

	reset, err := h.service.PerformReset(c.Request.Context(), req.Notes)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.log.WithField("admin", c.GetString("admin")).WithField("reset_id", reset.ID).Info("reset triggered")

	c.JSON(http.StatusCreated, models.ResetResponse{
		Status: "success",
		Reset:  reset,
	})
}

func (h *Handler) ListResets(c *gin.Context) {
	resets, err := h.service.ListResets(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ResetsResponse{
		Status: "success",
		Resets: resets,
	})
}

func (h *Handler) GetReset(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	reset, err := h.service.GetReset(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ResetResponse{
		Status: "success",
		Reset:  reset,
	})
}

func (h *Handler) GetArchiveSummary(c *gin.Context) {
	summary, err := h.service.ArchiveSummary(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ArchiveSummaryResponse{
		Status:  "success",
		Summary: summary,
	})
}

func (h *Handler) GetResetStatus(c *gin.Context) {
	status, err := h.service.ResetStatus(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.ResetStatusResponse{
		Status:      "success",
		ResetStatus: status,
	})
}
