package main

import (
	"context"
	"flag"
	"log"
	"os"

	"shopstack/internal/config"
	"shopstack/internal/db"
	"shopstack/internal/importer"
	categoryrepo "shopstack/internal/repository/category"
	productrepo "shopstack/internal/repository/product"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to catalog CSV export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	products := productrepo.NewPostgres(pool, logger)
	categories := categoryrepo.NewPostgres(pool, logger)

	imp := importer.NewCSVImporter(f, products, categories)
	imported, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import: %v (imported %d before failure)", err, imported)
	}

	logger.Printf("imported %d products", imported)
}
