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
	"shopstack/internal/events"
	"shopstack/internal/httpserver"
	"shopstack/internal/idempotency"
	"shopstack/internal/remote"
	orderrepo "shopstack/internal/repository/order"
	orderitemrepo "shopstack/internal/repository/orderitem"
	ordersvc "shopstack/internal/service/order"
	"github.com/go-redis/redis/v8"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[order-service] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	client := remote.NewClient(cfg.UserServiceURL, cfg.ProductServiceURL, logger)
	validator := remote.NewValidator(client, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	itemRepo := orderitemrepo.NewPostgres(dbpool, logger)

	var publisher ordersvc.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		p := events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
		defer p.Close()
		publisher = p
		logger.Printf("publishing order events to %s", cfg.KafkaTopic)
	}

	var guard ordersvc.IdempotencyGuard
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		guard = idempotency.NewGuard(rdb, cfg.IdempotencyTTL)
		logger.Printf("idempotency keys enabled via %s", cfg.RedisAddr)
	}

	orderService := ordersvc.New(orderRepo, itemRepo, validator, client, publisher, guard, logger)

	router := httpserver.NewOrderRouter(logger, dbpool, orderService)
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
