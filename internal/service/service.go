package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rongwang/pokerclub-server/internal/apperr"
	"github.com/rongwang/pokerclub-server/internal/models"
	"github.com/rongwang/pokerclub-server/internal/notify"
	"github.com/rongwang/pokerclub-server/internal/repository"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned by Login for an unknown user or wrong password
var ErrInvalidCredentials = errors.New("invalid username or password")

// Service defines all the business logic operations
type Service interface {
	// Authentication
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	EnsureAdmin(ctx context.Context, username, password string) error

	// Players
	CreatePlayer(ctx context.Context, req models.CreatePlayerRequest) (*models.Player, error)
	GetPlayer(ctx context.Context, id int64) (*models.Player, error)
	ListPlayers(ctx context.Context) ([]models.Player, error)
	UpdatePlayer(ctx context.Context, id int64, req models.UpdatePlayerRequest) (*models.Player, error)
	DeletePlayer(ctx context.Context, id int64) error

	// Transaction store
	RecordTransaction(ctx context.Context, playerID int64, req models.RecordTransactionRequest) (*models.Transaction, error)
	ListPlayerTransactions(ctx context.Context, playerID int64) ([]models.Transaction, error)
	ListOpenTransactions(ctx context.Context) ([]models.Transaction, error)

	// Balance aggregation
	PlayerTotals(ctx context.Context, playerID int64) (models.PlayerTotals, error)
	PlayerBalances(ctx context.Context) ([]models.PlayerBalance, error)
	GlobalTotals(ctx context.Context) (models.GlobalTotals, error)
	OpenPeriodTotals(ctx context.Context) (models.GlobalTotals, error)

	// Reset and archive
	PerformReset(ctx context.Context, notes string) (*models.FinancialReset, error)
	ListResets(ctx context.Context) ([]models.FinancialReset, error)
	GetReset(ctx context.Context, id int64) (*models.FinancialReset, error)
	ArchiveSummary(ctx context.Context) (models.ArchiveSummary, error)
	ResetStatus(ctx context.Context) (models.ResetStatus, error)
}

// DefaultService implements the Service interface
type DefaultService struct {
	repo          repository.Repository
	notifier      notify.Notifier
	log           logrus.FieldLogger
	jwtSecret     []byte
	tokenDuration time.Duration

	// resetMu serializes resets within this process; the repository lock covers
	// other processes.
	resetMu sync.Mutex
}

// NewDefaultService creates a new DefaultService. A nil notifier disables notifications.
func NewDefaultService(
	repo repository.Repository,
	notifier notify.Notifier,
	log logrus.FieldLogger,
	jwtSecret string,
	tokenDuration time.Duration,
) *DefaultService {
	if notifier == nil {
		notifier = notify.Nop{}
	}

	return &DefaultService{
		repo:          repo,
		notifier:      notifier,
		log:           log,
		jwtSecret:     []byte(jwtSecret),
		tokenDuration: tokenDuration,
	}
}

// Authentication methods
func (s *DefaultService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	admin, err := s.repo.GetAdminByUsername(ctx, req.Username)
	if err != nil {
		return nil, s.storageFailure("get admin", err)
	}

	if admin == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.generateJWT(admin)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	s.log.WithField("admin", admin.Username).Info("admin logged in")

	return &models.AuthResponse{
		Status:    "success",
		Username:  admin.Username,
		Token:     token,
		ExpiresIn: int(s.tokenDuration.Seconds()),
	}, nil
}

// EnsureAdmin creates the admin account if it does not exist yet. An existing account
// keeps its password.
func (s *DefaultService) EnsureAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return apperr.Validation("username", "is required")
	}
	if password == "" {
		return apperr.Validation("password", "is required")
	}

	existing, err := s.repo.GetAdminByUsername(ctx, username)
	if err != nil {
		return s.storageFailure("get admin", err)
	}
	if existing != nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	admin := &models.Admin{Username: username, PasswordHash: string(hashedPassword)}
	if err := s.repo.CreateAdmin(ctx, admin); err != nil {
		return s.storageFailure("create admin", err)
	}

	s.log.WithField("admin", username).Info("admin account created")
	return nil
}

// Helper methods
func (s *DefaultService) generateJWT(admin *models.Admin) (string, error) {
	now := time.Now()

	claims := jwt.MapClaims{
		"sub": admin.Username,
		"jti": uuid.New().String(),
		"exp": now.Add(s.tokenDuration).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// storageFailure logs a persistence error and wraps it as a StorageError
func (s *DefaultService) storageFailure(op string, err error) error {
	s.log.WithError(err).WithField("op", op).Error("storage failure")
	return apperr.Storage(op, err)
}
