package main

import (
	"context"
	"flag"
	"log"
	"os"

	"shopstack/internal/config"
	"shopstack/internal/db"
	"shopstack/internal/migrate"
)

func main() {
	var service string
	flag.StringVar(&service, "service", "", "Migration set to apply: user, product, cart, order or review")
	flag.Parse()

	if service == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool, service); err != nil {
		logger.Fatalf("apply migrations: %v", err)
	}

	logger.Printf("migrations applied for %s", service)
}
