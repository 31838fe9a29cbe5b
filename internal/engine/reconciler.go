// Package engine implements the core composition engine: quantity
// reconciliation against available inventory and the bulk ingestion pipeline.
package engine

import (
	"github.com/packsmith/packsmith/internal/ledger"
	"github.com/packsmith/packsmith/internal/model"
)

// Human-readable reasons drawn from a fixed vocabulary. These surface
// directly to users in row outcomes and single-add errors.
const (
	ReasonOutOfStock        = "out of stock"
	ReasonFullyCommitted    = "already fully committed"
	ReasonCapped            = "capped to remaining availability"
	ReasonMissingIdentifier = "missing product identifier"
	ReasonNotFound          = "not found in inventory or out of stock"
	ReasonApplyFailed       = "failed to add product"
)

// Decision is the reconciler's verdict for one requested addition. It is
// produced identically for every input channel; the channels differ only in
// how they produce (variant, requested quantity) pairs.
type Decision struct {
	Variant model.Variant
	// MergeIntoLineID is set when a line item already exists for the
	// variant; the admitted quantity is added to it. Empty means a new
	// line is created.
	MergeIntoLineID string
	Reason          string
	Status          model.RowStatus
	Requested       int
	Admitted        int
	// NewQuantity is the line's planned quantity after applying the
	// decision: existing + admitted for merges, admitted for new lines.
	NewQuantity int
	CreateNew   bool
}

// Rejected reports whether nothing was admitted.
func (d Decision) Rejected() bool {
	return d.Status == model.RowRejected
}

// Adjusted reports whether the admitted quantity was capped below the
// requested one.
func (d Decision) Adjusted() bool {
	return d.Status == model.RowAdjusted
}

// Reconcile computes the admissible quantity for a requested addition.
// The admitted quantity never exceeds the variant's remaining availability,
// where remaining is the catalog's available count minus what the ledger has
// already committed. A non-positive request is treated as one unit.
func Reconcile(v model.Variant, requested int, l ledger.Ledger) Decision {
	if requested <= 0 {
		requested = 1
	}

	d := Decision{Variant: v, Requested: requested}
	existing := 0
	if line := l.FindLine(v); line != nil {
		d.MergeIntoLineID = line.ID
		existing = line.QuantityPlanned
	} else {
		d.CreateNew = true
	}

	committed := l.CommittedQuantity(v)
	remaining := v.Available - committed
	if remaining <= 0 {
		d.Status = model.RowRejected
		if v.Available == 0 {
			d.Reason = ReasonOutOfStock
		} else {
			d.Reason = ReasonFullyCommitted
		}
		return d
	}

	admitted := requested
	if admitted > remaining {
		admitted = remaining
		d.Status = model.RowAdjusted
		d.Reason = ReasonCapped
	} else {
		d.Status = model.RowAdmitted
	}

	d.Admitted = admitted
	d.NewQuantity = existing + admitted
	return d
}
