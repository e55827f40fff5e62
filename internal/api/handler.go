package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rongwang/pokerclub-server/internal/apperr"
	"github.com/rongwang/pokerclub-server/internal/models"
	"github.com/rongwang/pokerclub-server/internal/service"
	"github.com/sirupsen/logrus"
)

// Handler handles HTTP requests
type Handler struct {
	service service.Service
	log     logrus.FieldLogger
}

// NewHandler creates a new Handler
func NewHandler(service service.Service, log logrus.FieldLogger) *Handler {
	return &Handler{
		service: service,
		log:     log,
	}
}

// SetupRoutes configures the API routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)

	// Public routes
	router.POST("/api/auth/login", h.Login)

	// Admin routes
	admin := router.Group("/api/admin")
	admin.Use(AuthMiddleware())
	{
		admin.POST("/players", h.CreatePlayer)
		admin.GET("/players", h.ListPlayers)
		admin.GET("/players/:id", h.GetPlayer)
		admin.PUT("/players/:id", h.UpdatePlayer)
		admin.DELETE("/players/:id", h.DeletePlayer)
		admin.GET("/players/:id/totals", h.GetPlayerTotals)
		admin.GET("/players/:id/transactions", h.ListPlayerTransactions)
		admin.POST("/players/:id/transactions", h.RecordTransaction)

		admin.GET("/balances", h.ListPlayerBalances)
		admin.GET("/transactions/open", h.ListOpenTransactions)
		admin.GET("/totals", h.GetGlobalTotals)
		admin.GET("/totals/open", h.GetOpenPeriodTotals)

		admin.POST("/resets", h.PerformReset)
		admin.GET("/resets", h.ListResets)
		admin.GET("/resets/summary", h.GetArchiveSummary)
		admin.GET("/resets/status", h.GetResetStatus)
		admin.GET("/resets/:id", h.GetReset)
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.MessageResponse{
		Status:  "success",
		Message: "ok",
	})
}

// Auth handlers
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)
		return
	}

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// respondError maps service errors to HTTP responses. Storage details stay in the log.
func (h *Handler) respondError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{
			Status:  "error",
			Code:    "UNAUTHORIZED",
			Message: err.Error(),
		})
		return
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		switch appErr.Kind {
		case apperr.KindValidation:
			c.JSON(http.StatusBadRequest, models.ErrorResponse{
				Status:  "error",
				Code:    string(appErr.Kind),
				Message: appErr.Message,
			})
			return
		case apperr.KindNotFound:
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Status:  "error",
				Code:    string(appErr.Kind),
				Message: appErr.Message,
			})
			return
		}
	}

	h.log.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{
		Status:  "error",
		Code:    string(apperr.KindStorage),
		Message: "internal error, please try again",
	})
}

// bindError reports a body that could not be bound. Field-level decode failures keep
// their validation kind.
func (h *Handler) bindError(c *gin.Context, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		h.respondError(c, appErr)
		return
	}
	h.invalidRequest(c, err)
}

func (h *Handler) invalidRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Status:  "error",
		Code:    "INVALID_REQUEST",
		Message: err.Error(),
	})
}

// bindOptionalJSON binds the body if there is one
func (h *Handler) bindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		h.bindError(c, err)
		return false
	}
	return true
}

// pathID parses a positive integer path parameter
func (h *Handler) pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		h.respondError(c, apperr.Validation(name, "must be a positive integer"))
		return 0, false
	}
	return id, true
}
