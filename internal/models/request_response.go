package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/rongwang/pokerclub-server/internal/apperr"
	"github.com/shopspring/decimal"
)

// Request models
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreatePlayerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
	Notes string `json:"notes"`
}

type UpdatePlayerRequest struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Email  string `json:"email"`
	Notes  string `json:"notes"`
	Active *bool  `json:"active"`
}

type RecordTransactionRequest struct {
	Type         TransactionType `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Description  string          `json:"description"`
	OccurredAt   *time.Time      `json:"occurredAt"`
	TournamentID *int64          `json:"tournamentId"`
}

// UnmarshalJSON decodes the request and reports a malformed value as a validation error
// on the field that holds it.
func (r *RecordTransactionRequest) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type         TransactionType `json:"type"`
		Amount       json.RawMessage `json:"amount"`
		Description  string          `json:"description"`
		OccurredAt   json.RawMessage `json:"occurredAt"`
		TournamentID *int64          `json:"tournamentId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			return apperr.Validation(typeErr.Field, "has the wrong type")
		}
		return err
	}

	var amount decimal.Decimal
	if len(raw.Amount) > 0 {
		if err := amount.UnmarshalJSON(raw.Amount); err != nil {
			return apperr.Validation("amount", "must be a decimal number")
		}
	}

	var occurredAt *time.Time
	if len(raw.OccurredAt) > 0 && !bytes.Equal(raw.OccurredAt, []byte("null")) {
		var t time.Time
		if err := t.UnmarshalJSON(raw.OccurredAt); err != nil {
			return apperr.Validation("occurredAt", "must be an RFC 3339 timestamp")
		}
		occurredAt = &t
	}

	*r = RecordTransactionRequest{
		Type:         raw.Type,
		Amount:       amount,
		Description:  raw.Description,
		OccurredAt:   occurredAt,
		TournamentID: raw.TournamentID,
	}
	return nil
}

type PerformResetRequest struct {
	Notes string `json:"notes"`
}

// Response models
type AuthResponse struct {
	Status    string `json:"status"`
	Username  string `json:"username,omitempty"`
	Token     string `json:"token,omitempty"`
	ExpiresIn int    `json:"expiresIn,omitempty"`
}

type PlayerResponse struct {
	Status string  `json:"status"`
	Player *Player `json:"player"`
}

type PlayersResponse struct {
	Status  string   `json:"status"`
	Players []Player `json:"players"`
}

type PlayerTotalsResponse struct {
	Status   string       `json:"status"`
	PlayerID int64        `json:"playerId"`
	Totals   PlayerTotals `json:"totals"`
}

type PlayerBalancesResponse struct {
	Status   string          `json:"status"`
	Balances []PlayerBalance `json:"balances"`
}

type TransactionResponse struct {
	Status      string       `json:"status"`
	Transaction *Transaction `json:"transaction"`
}

type TransactionsResponse struct {
	Status       string        `json:"status"`
	Transactions []Transaction `json:"transactions"`
}

type GlobalTotalsResponse struct {
	Status string       `json:"status"`
	Totals GlobalTotals `json:"totals"`
}

type ResetResponse struct {
	Status string          `json:"status"`
	Reset  *FinancialReset `json:"reset"`
}

type ResetsResponse struct {
	Status string           `json:"status"`
	Resets []FinancialReset `json:"resets"`
}

type ArchiveSummaryResponse struct {
	Status  string         `json:"status"`
	Summary ArchiveSummary `json:"summary"`
}

type ResetStatusResponse struct {
	Status      string      `json:"status"`
	ResetStatus ResetStatus `json:"resetStatus"`
}

type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Status  string `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}
