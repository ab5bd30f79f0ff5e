package importer

import (
	"context"
	"strings"
	"testing"

	"shopstack/internal/domain"
)

type stubProductWriter struct {
	items []domain.Product
}

func (s *stubProductWriter) UpsertByName(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.items = append(s.items, p)
	return &p, nil
}

type stubCategoryWriter struct {
	names  []string
	nextID int64
}

func (s *stubCategoryWriter) EnsureByName(_ context.Context, name string) (*domain.Category, error) {
	s.names = append(s.names, name)
	s.nextID++
	return &domain.Category{ID: s.nextID, Name: name, Active: true}, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `name,description,price,stock_quantity,category
Prod One,Desc one,19.99,10,Apparel
Prod Two,Desc two,5.50,0,
Prod Three,,7.25,3,Kitchen`

	products := &stubProductWriter{}
	categories := &stubCategoryWriter{}
	imp := NewCSVImporter(strings.NewReader(csvData), products, categories)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 products imported, got %d", count)
	}

	first := products.items[0]
	if first.Name != "Prod One" || first.StockQuantity != 10 || first.Price.String() != "19.99" {
		t.Fatalf("unexpected product data: %+v", first)
	}
	if first.CategoryID == nil {
		t.Fatalf("expected category assigned to first product")
	}

	second := products.items[1]
	if second.CategoryID != nil {
		t.Fatalf("expected no category on second product, got %v", *second.CategoryID)
	}

	if len(categories.names) != 2 || categories.names[0] != "Apparel" || categories.names[1] != "Kitchen" {
		t.Fatalf("expected Apparel and Kitchen ensured, got %v", categories.names)
	}
}

func TestCSVImporter_RejectsBadPrice(t *testing.T) {
	csvData := `name,description,price,stock_quantity,category
Broken,Desc,-2.00,1,`

	imp := NewCSVImporter(strings.NewReader(csvData), &stubProductWriter{}, &stubCategoryWriter{})
	if _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("expected error for non-positive price")
	}
}

func TestCSVImporter_SkipsEmptyRows(t *testing.T) {
	csvData := `name,description,price,stock_quantity,category
Prod One,Desc one,19.99,10,
,,,,
`

	products := &stubProductWriter{}
	imp := NewCSVImporter(strings.NewReader(csvData), products, &stubCategoryWriter{})

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 1 || len(products.items) != 1 {
		t.Fatalf("expected single product, got count=%d items=%d", count, len(products.items))
	}
}
