package catalog

import (
	"testing"

	"github.com/packsmith/packsmith/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testVariants() []model.Variant {
	return []model.Variant{
		{ID: "v1", SKU: "ALPHA-1", Barcode: "100001", Title: "Alpha"},
		{ID: "v2", SKU: "BETA-2", Barcode: "100002", AlternateCode: "X0B2", Title: "Beta"},
		{ID: "v3", Barcode: "100003", Title: "Gamma"},
	}
}

func TestIndex_Lookup(t *testing.T) {
	idx := NewIndex(testVariants())

	tests := []struct {
		name       string
		identifier string
		wantID     string
		wantFound  bool
	}{
		{name: "exact sku", identifier: "ALPHA-1", wantID: "v1", wantFound: true},
		{name: "exact barcode", identifier: "100003", wantID: "v3", wantFound: true},
		{name: "alternate code", identifier: "X0B2", wantID: "v2", wantFound: true},
		{name: "case insensitive", identifier: "alpha-1", wantID: "v1", wantFound: true},
		{name: "surrounding whitespace trimmed", identifier: "  BETA-2\t", wantID: "v2", wantFound: true},
		{name: "no partial match", identifier: "ALPHA", wantFound: false},
		{name: "unknown identifier", identifier: "ZZZ", wantFound: false},
		{name: "empty identifier", identifier: "   ", wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, found := idx.Lookup(tt.identifier)
			require.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.Equal(t, tt.wantID, v.ID)
			}
		})
	}
}

func TestIndex_Lookup_SKUBeatsBarcode(t *testing.T) {
	// Two different variants where one's barcode collides with the other's
	// SKU: the SKU category is consulted first and must win.
	idx := NewIndex([]model.Variant{
		{ID: "by-barcode", Barcode: "A"},
		{ID: "by-sku", SKU: "A"},
	})

	v, found := idx.Lookup("A")
	require.True(t, found)
	assert.Equal(t, "by-sku", v.ID)
}

func TestIndex_Len(t *testing.T) {
	idx := NewIndex(testVariants())
	assert.Equal(t, 3, idx.Len())
	assert.Len(t, idx.Variants(), 3)
}
