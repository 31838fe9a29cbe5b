package ledger

import (
	"testing"

	"github.com/packsmith/packsmith/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_CommittedQuantity(t *testing.T) {
	tests := []struct {
		name    string
		items   []model.ShipmentLineItem
		variant model.Variant
		want    int
	}{
		{
			name:    "empty ledger",
			items:   nil,
			variant: model.Variant{ID: "v1"},
			want:    0,
		},
		{
			name: "variant id match",
			items: []model.ShipmentLineItem{
				{VariantID: "v1", QuantityPlanned: 3},
				{VariantID: "v2", QuantityPlanned: 5},
			},
			variant: model.Variant{ID: "v1"},
			want:    3,
		},
		{
			name: "multiple id matches are summed",
			items: []model.ShipmentLineItem{
				{VariantID: "v1", QuantityPlanned: 3},
				{VariantID: "v1", QuantityPlanned: 2},
			},
			variant: model.Variant{ID: "v1"},
			want:    5,
		},
		{
			name: "barcode fallback when id yields nothing",
			items: []model.ShipmentLineItem{
				{Barcode: "100001", QuantityPlanned: 4},
			},
			variant: model.Variant{ID: "v1", Barcode: "100001"},
			want:    4,
		},
		{
			name: "sku fallback when barcode yields nothing",
			items: []model.ShipmentLineItem{
				{SKU: "alpha-1", QuantityPlanned: 2},
			},
			variant: model.Variant{ID: "v1", Barcode: "100001", SKU: "ALPHA-1"},
			want:    2,
		},
		{
			name: "criteria are not unioned across matches",
			items: []model.ShipmentLineItem{
				{VariantID: "v1", QuantityPlanned: 3},
				// A row carrying the same barcode but no variant id must
				// not be double counted once id matching succeeds.
				{Barcode: "100001", QuantityPlanned: 7},
			},
			variant: model.Variant{ID: "v1", Barcode: "100001"},
			want:    3,
		},
		{
			name: "no match at all",
			items: []model.ShipmentLineItem{
				{VariantID: "v9", QuantityPlanned: 3},
			},
			variant: model.Variant{ID: "v1", Barcode: "100001", SKU: "ALPHA-1"},
			want:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.items).CommittedQuantity(tt.variant)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLedger_FindLine(t *testing.T) {
	items := []model.ShipmentLineItem{
		{ID: "l1", VariantID: "v1", QuantityPlanned: 1},
		{ID: "l2", Barcode: "100002", QuantityPlanned: 2},
	}
	l := New(items)

	line := l.FindLine(model.Variant{ID: "v1"})
	require.NotNil(t, line)
	assert.Equal(t, "l1", line.ID)

	line = l.FindLine(model.Variant{ID: "v2", Barcode: "100002"})
	require.NotNil(t, line)
	assert.Equal(t, "l2", line.ID)

	assert.Nil(t, l.FindLine(model.Variant{ID: "v3"}))
}

func TestLedger_FindLine_MutatesUnderlyingItems(t *testing.T) {
	items := []model.ShipmentLineItem{{ID: "l1", VariantID: "v1", QuantityPlanned: 1}}
	l := New(items)

	line := l.FindLine(model.Variant{ID: "v1"})
	require.NotNil(t, line)
	line.QuantityPlanned = 9

	assert.Equal(t, 9, items[0].QuantityPlanned)
	assert.Equal(t, 9, l.CommittedQuantity(model.Variant{ID: "v1"}))
}
