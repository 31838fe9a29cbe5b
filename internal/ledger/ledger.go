// Package ledger answers how much of a variant is already committed to the
// shipment being composed. It is a pure view over the current line items, not
// cached state, so it can never go stale between reconciliations.
package ledger

import (
	"github.com/packsmith/packsmith/internal/model"
)

// Ledger is a read view over a shipment's line items.
type Ledger struct {
	items []model.ShipmentLineItem
}

// New creates a ledger over the given line items. The slice is not copied;
// callers mutate line quantities through the pointers Match returns.
func New(items []model.ShipmentLineItem) Ledger {
	return Ledger{items: items}
}

// Match returns the indices of line items referring to the variant. Matching
// tries VariantID equality first, then barcode, then SKU; the first criterion
// that yields at least one line is used exclusively. Criteria are never
// unioned, so a variant whose identifiers appear inconsistently across rows
// cannot be counted twice.
func (l Ledger) Match(v model.Variant) []int {
	if v.ID != "" {
		if hits := l.matchBy(func(li *model.ShipmentLineItem) bool {
			return li.VariantID != "" && li.VariantID == v.ID
		}); len(hits) > 0 {
			return hits
		}
	}
	if v.Barcode != "" {
		key := model.NormalizeIdentifier(v.Barcode)
		if hits := l.matchBy(func(li *model.ShipmentLineItem) bool {
			return li.Barcode != "" && model.NormalizeIdentifier(li.Barcode) == key
		}); len(hits) > 0 {
			return hits
		}
	}
	if v.SKU != "" {
		key := model.NormalizeIdentifier(v.SKU)
		if hits := l.matchBy(func(li *model.ShipmentLineItem) bool {
			return li.SKU != "" && model.NormalizeIdentifier(li.SKU) == key
		}); len(hits) > 0 {
			return hits
		}
	}
	return nil
}

// CommittedQuantity sums QuantityPlanned across the line items matching the
// variant.
func (l Ledger) CommittedQuantity(v model.Variant) int {
	total := 0
	for _, i := range l.Match(v) {
		total += l.items[i].QuantityPlanned
	}
	return total
}

// FindLine returns the first line item matching the variant, or nil. This is
// the merge target for re-submissions of an already-committed variant.
func (l Ledger) FindLine(v model.Variant) *model.ShipmentLineItem {
	hits := l.Match(v)
	if len(hits) == 0 {
		return nil
	}
	return &l.items[hits[0]]
}

func (l Ledger) matchBy(pred func(*model.ShipmentLineItem) bool) []int {
	var hits []int
	for i := range l.items {
		if pred(&l.items[i]) {
			hits = append(hits, i)
		}
	}
	return hits
}
