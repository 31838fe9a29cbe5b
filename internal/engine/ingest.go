package engine

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/packsmith/packsmith/internal/common"
	"github.com/packsmith/packsmith/internal/ledger"
	"github.com/packsmith/packsmith/internal/model"
)

// IngestOptions configures one bulk ingestion pass.
type IngestOptions struct {
	// Delimiter separates cells; zero means comma.
	Delimiter rune
	// ChunkSize overrides the engine's apply-phase concurrency bound.
	ChunkSize int
	// DryRun reconciles every row but applies nothing.
	DryRun bool
	// Progress, when set, is called once per row after its outcome is
	// final.
	Progress func(outcome model.RowOutcome)
}

// rowOp is one planned persistence application: bring the target line to
// NewQuantity on behalf of one admitted row.
type rowOp struct {
	rowIndex    int
	lineIdx     int
	admitted    int
	newQuantity int
	create      bool
}

// Ingest runs the bulk ingestion pipeline: parse, resolve, reconcile, apply,
// report. Reconciliation is strictly sequential so a later row referencing
// the same variant sees the earlier row's tentative commitment; only the
// apply phase runs concurrently, in chunks of at most ChunkSize rows.
//
// Per-row failures never abort the batch. Only a malformed header (or a
// non-editable shipment) fails before any row is processed. Cancellation is
// honored between chunks; a dispatched chunk is always awaited, and the
// partial report is returned alongside the context error.
func (e *Engine) Ingest(ctx context.Context, shipment *model.Shipment, input io.Reader, opts IngestOptions) (*model.BatchReport, error) {
	if !shipment.Status.Editable() {
		return nil, common.ErrEditNotPermitted
	}

	rows, preRejected, err := parseBatch(input, opts.Delimiter)
	if err != nil {
		return nil, err
	}

	chunkSize := opts.ChunkSize
	if chunkSize <= 0 {
		chunkSize = e.config.ChunkSize
	}

	slog.Info("Starting batch ingestion",
		"shipment_id", shipment.ID,
		"rows", len(rows),
		"pre_rejected", len(preRejected),
		"chunk_size", chunkSize,
		"dry_run", opts.DryRun)

	target := shipment
	if opts.DryRun {
		clone := *shipment
		clone.Items = append([]model.ShipmentLineItem(nil), shipment.Items...)
		target = &clone
	}

	outcomes := make(map[int]*model.RowOutcome, len(rows)+len(preRejected))
	for i := range preRejected {
		outcomes[preRejected[i].RowIndex] = &preRejected[i]
	}

	// Phase 1: resolve and reconcile sequentially against the in-progress
	// ledger. Admitted quantities are committed tentatively to the target
	// items so the capacity invariant holds across rows of one batch.
	ops := e.reconcileRows(target, rows, outcomes)

	// Phase 2: apply in chunks. Ops for the same line are serialized in
	// row order; distinct lines proceed concurrently.
	var batchErr error
	if !opts.DryRun {
		batchErr = e.applyOps(ctx, target, ops, outcomes, chunkSize)
		pruneUnpersisted(target)
		target.Recalculate()
	}

	report := buildReport(outcomes, opts.Progress)
	slog.Info("Batch ingestion finished",
		"shipment_id", shipment.ID,
		"processed", report.ProcessedCount,
		"errors", report.ErrorCount)

	return report, batchErr
}

// reconcileRows runs phase 1. Each admitted row mutates the target shipment's
// items tentatively and yields a rowOp for the apply phase.
func (e *Engine) reconcileRows(target *model.Shipment, rows []model.BatchRow, outcomes map[int]*model.RowOutcome) []rowOp {
	var ops []rowOp

	for _, row := range rows {
		outcome := &model.RowOutcome{
			RowIndex:   row.RowIndex,
			Identifier: row.Identifier(),
		}
		outcomes[row.RowIndex] = outcome

		variant, found := e.resolveRow(row)
		if !found {
			outcome.Status = model.RowRejected
			outcome.Reason = ReasonNotFound
			continue
		}

		led := ledger.New(target.Items)
		d := Reconcile(variant, row.RequestedQuantity, led)
		outcome.Status = d.Status
		outcome.Reason = d.Reason
		if d.Rejected() {
			continue
		}
		outcome.AdmittedQuantity = d.Admitted

		op := rowOp{
			rowIndex:    row.RowIndex,
			admitted:    d.Admitted,
			newQuantity: d.NewQuantity,
		}
		if line := led.FindLine(variant); line != nil {
			line.QuantityPlanned = d.NewQuantity
			op.lineIdx = lineIndex(target, line)
			op.create = line.ID == ""
		} else {
			target.Items = append(target.Items, model.ShipmentLineItem{
				ShipmentID:      target.ID,
				VariantID:       variant.ID,
				SKU:             variant.SKU,
				Barcode:         variant.Barcode,
				Title:           variant.Title,
				UnitPrice:       variant.UnitPrice,
				QuantityPlanned: d.Admitted,
			})
			op.lineIdx = len(target.Items) - 1
			op.create = true
		}
		ops = append(ops, op)
	}

	return ops
}

// resolveRow tries the row's identifier candidates in SKU, alternate-code,
// barcode order against the catalog snapshot.
func (e *Engine) resolveRow(row model.BatchRow) (model.Variant, bool) {
	for _, candidate := range []string{row.SKU, row.AlternateCode, row.Barcode} {
		if candidate == "" {
			continue
		}
		if v, ok := e.index.Lookup(candidate); ok {
			return v, true
		}
	}
	return model.Variant{}, false
}

// applyOps runs phase 2. Returns the context error when the batch was
// abandoned between chunks.
func (e *Engine) applyOps(ctx context.Context, target *model.Shipment, ops []rowOp, outcomes map[int]*model.RowOutcome, chunkSize int) error {
	// failed marks lines whose store application failed; later ops on a
	// failed line fail fast instead of applying on top of a lost write.
	failed := make(map[int]bool)
	var failedMu sync.Mutex

	for start := 0; start < len(ops); start += chunkSize {
		select {
		case <-ctx.Done():
			downgradeUnapplied(ops[start:], target, outcomes)
			return ctx.Err()
		default:
		}

		end := start + chunkSize
		if end > len(ops) {
			end = len(ops)
		}
		chunk := ops[start:end]

		byLine := make(map[int][]rowOp)
		for _, op := range chunk {
			byLine[op.lineIdx] = append(byLine[op.lineIdx], op)
		}

		var wg sync.WaitGroup
		for lineIdx, lineOps := range byLine {
			wg.Add(1)
			go func(lineIdx int, lineOps []rowOp) {
				defer wg.Done()
				e.applyLineOps(ctx, target, lineIdx, lineOps, outcomes, failed, &failedMu)
			}(lineIdx, lineOps)
		}
		wg.Wait()
	}

	return nil
}

// applyLineOps serializes the ops targeting one line, in row order.
func (e *Engine) applyLineOps(ctx context.Context, target *model.Shipment, lineIdx int, ops []rowOp, outcomes map[int]*model.RowOutcome, failed map[int]bool, failedMu *sync.Mutex) {
	line := &target.Items[lineIdx]

	for _, op := range ops {
		failedMu.Lock()
		poisoned := failed[lineIdx]
		failedMu.Unlock()

		var opErr error
		if poisoned {
			opErr = common.ErrApplicationFailed
		} else if op.create && line.ID == "" {
			opErr = e.retryOp(ctx, func() error {
				created, err := e.store.CreateLineItem(ctx, target.ID, opVariant(line), op.newQuantity)
				if err != nil {
					return err
				}
				line.ID = created.ID
				line.CreatedAt = created.CreatedAt
				return nil
			})
		} else {
			opErr = e.retryOp(ctx, func() error {
				return e.store.UpdateLineItemQuantity(ctx, line.ID, op.newQuantity)
			})
		}

		if opErr == nil {
			continue
		}

		outcome := outcomes[op.rowIndex]
		outcome.Status = model.RowRejected
		outcome.Reason = ReasonApplyFailed
		outcome.AdmittedQuantity = 0

		// Release the tentative commitment so the in-memory shipment
		// matches what was actually persisted.
		line.QuantityPlanned -= op.admitted

		failedMu.Lock()
		failed[lineIdx] = true
		failedMu.Unlock()

		slog.Warn("Failed to apply batch row",
			"row", op.rowIndex,
			"line", line.ID,
			"error", opErr)
	}
}

// opVariant reconstructs the variant identity carried on a tentative line.
func opVariant(line *model.ShipmentLineItem) model.Variant {
	return model.Variant{
		ID:        line.VariantID,
		SKU:       line.SKU,
		Barcode:   line.Barcode,
		Title:     line.Title,
		UnitPrice: line.UnitPrice,
	}
}

// downgradeUnapplied marks not-yet-dispatched admitted rows as rejected and
// releases their tentative commitments.
func downgradeUnapplied(ops []rowOp, target *model.Shipment, outcomes map[int]*model.RowOutcome) {
	for _, op := range ops {
		outcome := outcomes[op.rowIndex]
		outcome.Status = model.RowRejected
		outcome.Reason = ReasonApplyFailed
		outcome.AdmittedQuantity = 0
		target.Items[op.lineIdx].QuantityPlanned -= op.admitted
	}
}

// pruneUnpersisted drops tentative lines whose creation never succeeded.
func pruneUnpersisted(target *model.Shipment) {
	kept := target.Items[:0]
	for _, line := range target.Items {
		if line.ID == "" && line.QuantityPlanned <= 0 {
			continue
		}
		kept = append(kept, line)
	}
	target.Items = kept
}

func lineIndex(target *model.Shipment, line *model.ShipmentLineItem) int {
	for i := range target.Items {
		if &target.Items[i] == line {
			return i
		}
	}
	return -1
}

func buildReport(outcomes map[int]*model.RowOutcome, progress func(model.RowOutcome)) *model.BatchReport {
	report := &model.BatchReport{Rows: make([]model.RowOutcome, 0, len(outcomes))}
	for _, outcome := range outcomes {
		report.Rows = append(report.Rows, *outcome)
	}
	sort.Slice(report.Rows, func(i, j int) bool {
		return report.Rows[i].RowIndex < report.Rows[j].RowIndex
	})

	for _, row := range report.Rows {
		switch row.Status {
		case model.RowRejected:
			report.ErrorCount++
		default:
			report.ProcessedCount++
		}
		if progress != nil {
			progress(row)
		}
	}

	return report
}
