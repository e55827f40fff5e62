package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rongwang/pokerclub-server/internal/api"
	"github.com/rongwang/pokerclub-server/internal/config"
	"github.com/rongwang/pokerclub-server/internal/notify"
	"github.com/rongwang/pokerclub-server/internal/repository"
	"github.com/rongwang/pokerclub-server/internal/service"
	"github.com/rongwang/pokerclub-server/internal/utils"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	log := utils.NewLogger(cfg.Log.Level, cfg.Log.Format)

	// Create repository
	repo, closeRepo, err := openRepository(cfg, log)
	if err != nil {
		log.Fatalf("Failed to set up storage: %v", err)
	}
	defer closeRepo()

	notifier, closeNotifier := buildNotifier(cfg.Notify, log)
	defer closeNotifier()

	// Create service
	svc := service.NewDefaultService(repo, notifier, log, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	if cfg.Auth.AdminUsername != "" {
		if err := svc.EnsureAdmin(context.Background(), cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
			log.Fatalf("Failed to create admin account: %v", err)
		}
	}

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger(log), api.JWTSecret(cfg.Auth.JWTSecret))

	handler := api.NewHandler(svc, log)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("addr", srv.Addr).WithField("storage", cfg.Storage.Driver).Info("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown failed")
	}
}

func openRepository(cfg *config.Config, log *logrus.Logger) (repository.Repository, func(), error) {
	if cfg.Storage.Driver == "memory" {
		log.Warn("Using in-memory storage; data is lost on exit")
		return repository.NewMemoryRepository(), func() {}, nil
	}

	db, err := config.SetupDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}

	return repository.NewPostgresRepository(db), func() { db.Close() }, nil
}

// buildNotifier connects the configured event sinks. A sink that cannot be set up is
// logged and skipped.
func buildNotifier(cfg config.NotifyConfig, log *logrus.Logger) (notify.Notifier, func()) {
	var sinks notify.Multi
	closers := []func(){}

	if cfg.NATSURL != "" {
		conn, err := notify.ConnectNATS(cfg.NATSURL, cfg.NATSToken)
		if err != nil {
			log.WithError(err).Warn("NATS unavailable, ledger events will not be published")
		} else {
			sinks = append(sinks, notify.NewNATSPublisher(conn))
			closers = append(closers, func() { conn.Drain() })
			log.WithField("url", cfg.NATSURL).Info("Publishing ledger events to NATS")
		}
	}

	if cfg.TelegramBotToken != "" {
		chatIDs, err := cfg.ChatIDs()
		if err != nil {
			log.WithError(err).Warn("Invalid TELEGRAM_CHAT_IDS, Telegram notifications disabled")
		} else if tg, err := notify.NewTelegramNotifier(cfg.TelegramBotToken, chatIDs); err != nil {
			log.WithError(err).Warn("Telegram unavailable, reset notifications disabled")
		} else {
			sinks = append(sinks, tg)
		}
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if len(sinks) == 0 {
		return notify.Nop{}, closeAll
	}
	return sinks, closeAll
}
