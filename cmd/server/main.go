package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/adelhazem/storefront/internal/api"
	"github.com/adelhazem/storefront/internal/config"
	"github.com/adelhazem/storefront/internal/draft"
	"github.com/adelhazem/storefront/internal/events"
	"github.com/adelhazem/storefront/internal/httpserver"
	"github.com/adelhazem/storefront/internal/logging"
	loggingmw "github.com/adelhazem/storefront/internal/middleware/logging"
	"github.com/adelhazem/storefront/internal/search"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	drafts, err := draft.Open(ctx, cfg.DatabaseURL, cfg.SQLitePath)
	cancel()
	if err != nil {
		logger.Error("open draft store failed", "error", err)
		os.Exit(1)
	}
	defer drafts.Close()

	deps := &httpserver.Deps{
		API:           api.NewClient(cfg.APIBaseURL),
		Drafts:        drafts,
		JWTSecret:     cfg.JWTSecret,
		PublicBaseURL: cfg.PublicBaseURL,
	}

	if cfg.ESURL != "" {
		svc, err := search.New(search.Config{
			URL:      cfg.ESURL,
			Username: cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    search.DefaultIndex,
		})
		if err != nil {
			logger.Error("search disabled", "error", err)
		} else {
			deps.Search = svc
		}
	}

	if cfg.KafkaAddress != "" {
		producer := events.NewProducer(cfg.KafkaAddress)
		defer func() {
			if err := producer.Close(); err != nil {
				logger.Error("close producer failed", "error", err)
			}
		}()
		deps.Events = producer
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(loggingmw.RequestLogger(logger))
	if err := httpserver.Register(e, deps); err != nil {
		logger.Error("register routes failed", "error", err)
		os.Exit(1)
	}

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", "error", err)
			os.Exit(1)
		}
	}()
	logger.Info("server started", "addr", cfg.ListenAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
	logger.Info("server stopped")
}
