package engine

import (
	"testing"

	"github.com/packsmith/packsmith/internal/ledger"
	"github.com/packsmith/packsmith/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name          string
		variant       model.Variant
		items         []model.ShipmentLineItem
		requested     int
		wantStatus    model.RowStatus
		wantReason    string
		wantAdmitted  int
		wantNewQty    int
		wantCreateNew bool
		wantMergeID   string
	}{
		{
			name:          "full admit on empty ledger",
			variant:       model.Variant{ID: "v1", Available: 10},
			requested:     3,
			wantStatus:    model.RowAdmitted,
			wantAdmitted:  3,
			wantNewQty:    3,
			wantCreateNew: true,
		},
		{
			name:          "capped to remaining availability",
			variant:       model.Variant{ID: "v1", Available: 5},
			requested:     8,
			wantStatus:    model.RowAdjusted,
			wantReason:    ReasonCapped,
			wantAdmitted:  5,
			wantNewQty:    5,
			wantCreateNew: true,
		},
		{
			name:          "out of stock",
			variant:       model.Variant{ID: "v1", Available: 0},
			requested:     1,
			wantStatus:    model.RowRejected,
			wantReason:    ReasonOutOfStock,
			wantCreateNew: true,
		},
		{
			name:       "already fully committed",
			variant:    model.Variant{ID: "v1", Available: 4},
			items:      []model.ShipmentLineItem{{ID: "l1", VariantID: "v1", QuantityPlanned: 4}},
			requested:  2,
			wantStatus: model.RowRejected,
			wantReason: ReasonFullyCommitted,
			wantMergeID: "l1",
		},
		{
			name:         "merge adds to existing quantity",
			variant:      model.Variant{ID: "v1", Available: 10},
			items:        []model.ShipmentLineItem{{ID: "l1", VariantID: "v1", QuantityPlanned: 3}},
			requested:    4,
			wantStatus:   model.RowAdmitted,
			wantAdmitted: 4,
			wantNewQty:   7,
			wantMergeID:  "l1",
		},
		{
			name:         "merge capped at availability",
			variant:      model.Variant{ID: "v1", Available: 10},
			items:        []model.ShipmentLineItem{{ID: "l1", VariantID: "v1", QuantityPlanned: 3}},
			requested:    9,
			wantStatus:   model.RowAdjusted,
			wantReason:   ReasonCapped,
			wantAdmitted: 7,
			wantNewQty:   10,
			wantMergeID:  "l1",
		},
		{
			name:          "non-positive request treated as one unit",
			variant:       model.Variant{ID: "v1", Available: 10},
			requested:     0,
			wantStatus:    model.RowAdmitted,
			wantAdmitted:  1,
			wantNewQty:    1,
			wantCreateNew: true,
		},
		{
			name:          "commitments of other variants are ignored",
			variant:       model.Variant{ID: "v1", Available: 2},
			items:         []model.ShipmentLineItem{{ID: "l1", VariantID: "v2", QuantityPlanned: 50}},
			requested:     2,
			wantStatus:    model.RowAdmitted,
			wantAdmitted:  2,
			wantNewQty:    2,
			wantCreateNew: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Reconcile(tt.variant, tt.requested, ledger.New(tt.items))

			assert.Equal(t, tt.wantStatus, d.Status)
			assert.Equal(t, tt.wantReason, d.Reason)
			assert.Equal(t, tt.wantAdmitted, d.Admitted)
			assert.Equal(t, tt.wantNewQty, d.NewQuantity)
			assert.Equal(t, tt.wantCreateNew, d.CreateNew)
			assert.Equal(t, tt.wantMergeID, d.MergeIntoLineID)
		})
	}
}
