package model

// BatchRow is one parsed row of a bulk ingestion. It exists only for the
// duration of a single pass and is never persisted.
type BatchRow struct {
	SKU               string
	AlternateCode     string
	Barcode           string
	RowIndex          int
	RequestedQuantity int
}

// Identifier returns the row's display identifier: the first populated code
// in SKU, alternate-code, barcode order.
func (r BatchRow) Identifier() string {
	switch {
	case r.SKU != "":
		return r.SKU
	case r.AlternateCode != "":
		return r.AlternateCode
	default:
		return r.Barcode
	}
}

// RowStatus is the outcome class of one batch row.
type RowStatus string

// Row outcome constants.
const (
	RowAdmitted RowStatus = "ADMITTED"
	RowAdjusted RowStatus = "ADMITTED_WITH_ADJUSTMENT"
	RowRejected RowStatus = "REJECTED"
)

// RowOutcome records the result of attempting to admit one BatchRow.
type RowOutcome struct {
	Identifier       string
	Status           RowStatus
	Reason           string
	RowIndex         int
	AdmittedQuantity int
}

// BatchReport aggregates the per-row outcomes of one ingestion pass.
// ErrorCount counts rejected rows only; adjustments are not errors.
type BatchReport struct {
	Rows           []RowOutcome
	ProcessedCount int
	ErrorCount     int
}

// Errors returns the rejected rows, for presentation layers that only
// render failures.
func (r *BatchReport) Errors() []RowOutcome {
	out := make([]RowOutcome, 0, r.ErrorCount)
	for _, row := range r.Rows {
		if row.Status == RowRejected {
			out = append(out, row)
		}
	}
	return out
}
