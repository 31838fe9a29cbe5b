package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/packsmith/packsmith/internal/model"
	"github.com/packsmith/packsmith/internal/service"
	"github.com/shopspring/decimal"
)

// FileProvider reads the variant catalog from a CSV file. It is the default
// collaborator for installations without a live inventory system: one row per
// variant, header row required.
type FileProvider struct {
	path string
}

// NewFileProvider creates a provider reading from the given CSV path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// FetchCatalog reads and parses the whole file as a single snapshot.
func (p *FileProvider) FetchCatalog(ctx context.Context) ([]model.Variant, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("catalog file %s is empty", p.path)
	}

	cols := headerColumns(records[0])
	if cols["sku"] < 0 && cols["barcode"] < 0 {
		return nil, fmt.Errorf("catalog file %s has no sku or barcode column", p.path)
	}

	variants := make([]model.Variant, 0, len(records)-1)
	for i, record := range records[1:] {
		v := model.Variant{
			ID:            cell(record, cols["id"]),
			SKU:           cell(record, cols["sku"]),
			Barcode:       cell(record, cols["barcode"]),
			AlternateCode: cell(record, cols["fnsku"]),
			Title:         cell(record, cols["title"]),
		}
		if !v.HasIdentifier() {
			continue
		}

		if raw := cell(record, cols["price"]); raw != "" {
			price, priceErr := decimal.NewFromString(raw)
			if priceErr != nil {
				return nil, fmt.Errorf("row %d: invalid unit price %q: %w", i+2, raw, priceErr)
			}
			v.UnitPrice = price
		}

		if raw := cell(record, cols["available"]); raw != "" {
			available, availErr := strconv.Atoi(raw)
			if availErr != nil || available < 0 {
				return nil, fmt.Errorf("row %d: invalid available count %q", i+2, raw)
			}
			v.Available = available
		}

		variants = append(variants, v)
	}

	return variants, nil
}

// headerColumns maps known column roles to their positions. Unrecognized
// columns are ignored; missing roles map to -1.
func headerColumns(header []string) map[string]int {
	cols := map[string]int{
		"id": -1, "sku": -1, "barcode": -1, "fnsku": -1,
		"title": -1, "price": -1, "available": -1,
	}
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		switch {
		case key == "id" || key == "variant_id":
			cols["id"] = i
		case strings.Contains(key, "fnsku"):
			cols["fnsku"] = i
		case strings.Contains(key, "sku"):
			cols["sku"] = i
		case strings.Contains(key, "barcode"):
			cols["barcode"] = i
		case strings.Contains(key, "title") || strings.Contains(key, "name"):
			cols["title"] = i
		case strings.Contains(key, "price"):
			cols["price"] = i
		case strings.Contains(key, "available") || strings.Contains(key, "stock"):
			cols["available"] = i
		}
	}
	return cols
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// StoreProvider serves the catalog from the locally cached copy in storage,
// letting the index rebuild offline after a `catalog refresh`.
type StoreProvider struct {
	store service.Storage
}

// NewStoreProvider creates a provider backed by the storage cache.
func NewStoreProvider(store service.Storage) *StoreProvider {
	return &StoreProvider{store: store}
}

// FetchCatalog returns the cached variants.
func (p *StoreProvider) FetchCatalog(ctx context.Context) ([]model.Variant, error) {
	return p.store.GetVariants(ctx)
}
