package main

import (
	"context"
	"log"
	"os"

	"shopstack/internal/config"
	"shopstack/internal/db"
	categoryrepo "shopstack/internal/repository/category"
	productrepo "shopstack/internal/repository/product"
	"shopstack/internal/seed"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	categories := categoryrepo.NewPostgres(pool, logger)
	products := productrepo.NewPostgres(pool, logger)

	if err := seed.Apply(ctx, categories, products); err != nil {
		logger.Fatalf("apply seed: %v", err)
	}

	logger.Println("seed applied")
}
