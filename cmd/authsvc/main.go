package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/mernspace/auth-service/internal/config"
	"github.com/mernspace/auth-service/internal/events"
	"github.com/mernspace/auth-service/internal/httperrors"
	"github.com/mernspace/auth-service/internal/httpserver"
	"github.com/mernspace/auth-service/internal/logging"
	"github.com/mernspace/auth-service/internal/models"
	"github.com/mernspace/auth-service/internal/repo"
	"github.com/mernspace/auth-service/internal/service"
	"github.com/mernspace/auth-service/internal/tokens"
	"github.com/mernspace/auth-service/pkg/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	database, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer func() {
		if err := db.Close(database); err != nil {
			logger.Error("db close", "error", err)
		}
	}()

	if err := database.AutoMigrate(&models.User{}, &models.RefreshToken{}); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)
	defer func() {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close", "error", err)
		}
	}()

	signer := &tokens.Signer{
		AccessKey:     cfg.AccessKey,
		RefreshSecret: cfg.RefreshSecret,
	}

	svc := &service.AuthService{
		Repo:       repo.New(database),
		Signer:     signer,
		Events:     producer,
		BcryptCost: cfg.BcryptCost,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(logging.RequestLogger(logger))
	e.HTTPErrorHandler = httperrors.NewEchoHandler(logger)

	httpserver.Register(e, &httpserver.Deps{
		Auth: &httpserver.AuthHTTP{
			Svc:          svc,
			CookieDomain: cfg.CookieDomain,
		},
		Signer:       signer,
		CookieDomain: cfg.CookieDomain,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
}
