package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"shopstack/internal/config"
	"shopstack/internal/db"
	"shopstack/internal/httpserver"
	"shopstack/internal/remote"
	reviewrepo "shopstack/internal/repository/review"
	reviewsvc "shopstack/internal/service/review"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[review-service] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	client := remote.NewClient(cfg.UserServiceURL, cfg.ProductServiceURL, logger)
	validator := remote.NewValidator(client, logger)
	reviewRepo := reviewrepo.NewPostgres(dbpool, logger)
	reviewService := reviewsvc.New(reviewRepo, validator)

	router := httpserver.NewReviewRouter(logger, dbpool, reviewService)
	srv := httpserver.New(cfg.HTTPAddr, router, logger)

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
