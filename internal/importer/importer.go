package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"shopstack/internal/domain"
	"github.com/shopspring/decimal"
)

type ProductWriter interface {
	UpsertByName(ctx context.Context, p domain.Product) (*domain.Product, error)
}

type CategoryWriter interface {
	EnsureByName(ctx context.Context, name string) (*domain.Category, error)
}

// CSVImporter reads catalog CSV exports and inserts or updates products,
// creating categories on first sight.
type CSVImporter struct {
	reader     *csv.Reader
	products   ProductWriter
	categories CategoryWriter
}

func NewCSVImporter(r io.Reader, products ProductWriter, categories CategoryWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:     csvr,
		products:   products,
		categories: categories,
	}
}

type csvRow struct {
	Name     string
	Desc     string
	Price    string
	Stock    int
	Category string
}

// Run parses CSV rows and upserts one product per row. Expected headers:
// name, description, price, stock_quantity, category.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		row := parseRow(record, index)
		if row == nil {
			continue
		}
		if err := i.save(ctx, row); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.Name == "" || row.Price == "" {
		return fmt.Errorf("invalid product row (missing required fields) for name %q", row.Name)
	}
	price, err := decimal.NewFromString(row.Price)
	if err != nil || price.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("invalid price for %q: %s", row.Name, row.Price)
	}

	var categoryID *int64
	if row.Category != "" {
		cat, err := i.categories.EnsureByName(ctx, row.Category)
		if err != nil {
			return fmt.Errorf("ensure category %q: %w", row.Category, err)
		}
		categoryID = &cat.ID
	}

	_, err = i.products.UpsertByName(ctx, domain.Product{
		Name:          row.Name,
		Description:   row.Desc,
		Price:         price,
		StockQuantity: row.Stock,
		CategoryID:    categoryID,
		Active:        true,
	})
	if err != nil {
		return fmt.Errorf("upsert product %q: %w", row.Name, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	name := pick(record, index, "name")
	if name == "" {
		return nil
	}

	stock := 0
	if s := pick(record, index, "stock_quantity"); s != "" {
		stock, _ = strconv.Atoi(s)
	}

	return &csvRow{
		Name:     name,
		Desc:     pick(record, index, "description"),
		Price:    pick(record, index, "price"),
		Stock:    stock,
		Category: pick(record, index, "category"),
	}
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
