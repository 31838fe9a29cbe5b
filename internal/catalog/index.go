// Package catalog maintains the in-memory variant snapshot and resolves raw
// identifiers against it.
package catalog

import (
	"context"
	"fmt"

	"github.com/packsmith/packsmith/internal/model"
	"github.com/packsmith/packsmith/internal/service"
)

// Index is a queryable snapshot of the catalog. It is built wholesale from a
// provider fetch and is read-only afterwards; refreshing means building a new
// Index. An in-flight batch keeps the snapshot it captured, so a concurrent
// refresh never changes availability mid-batch.
type Index struct {
	bySKU     map[string]int
	byBarcode map[string]int
	byAlt     map[string]int
	variants  []model.Variant
}

// NewIndex builds an index over the given variants. Identifier keys are
// normalized (trimmed, case-insensitive). When two variants claim the same
// code within one category, the first one wins; SKUs and barcodes are unique
// upstream when present.
func NewIndex(variants []model.Variant) *Index {
	idx := &Index{
		bySKU:     make(map[string]int, len(variants)),
		byBarcode: make(map[string]int, len(variants)),
		byAlt:     make(map[string]int, len(variants)),
		variants:  variants,
	}

	for i, v := range variants {
		if key := model.NormalizeIdentifier(v.SKU); key != "" {
			if _, exists := idx.bySKU[key]; !exists {
				idx.bySKU[key] = i
			}
		}
		if key := model.NormalizeIdentifier(v.Barcode); key != "" {
			if _, exists := idx.byBarcode[key]; !exists {
				idx.byBarcode[key] = i
			}
		}
		if key := model.NormalizeIdentifier(v.AlternateCode); key != "" {
			if _, exists := idx.byAlt[key]; !exists {
				idx.byAlt[key] = i
			}
		}
	}

	return idx
}

// Load fetches a fresh snapshot from the provider and indexes it.
func Load(ctx context.Context, provider service.CatalogProvider) (*Index, error) {
	variants, err := provider.FetchCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch catalog: %w", err)
	}
	return NewIndex(variants), nil
}

// Lookup resolves an identifier to a variant. Matching tries an exact SKU
// match, then barcode, then alternate code; the first category with a hit
// wins. There is no partial or fuzzy matching.
func (idx *Index) Lookup(identifier string) (model.Variant, bool) {
	key := model.NormalizeIdentifier(identifier)
	if key == "" {
		return model.Variant{}, false
	}

	for _, m := range []map[string]int{idx.bySKU, idx.byBarcode, idx.byAlt} {
		if i, ok := m[key]; ok {
			return idx.variants[i], true
		}
	}
	return model.Variant{}, false
}

// Variants returns the snapshot's variants in provider order.
func (idx *Index) Variants() []model.Variant {
	return idx.variants
}

// Len returns the number of variants in the snapshot.
func (idx *Index) Len() int {
	return len(idx.variants)
}
