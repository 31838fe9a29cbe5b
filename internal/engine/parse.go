package engine

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/packsmith/packsmith/internal/common"
	"github.com/packsmith/packsmith/internal/model"
)

// batchColumns records which column carries which role, as declared by the
// header row. -1 means the role is absent.
type batchColumns struct {
	sku      int
	fnsku    int
	barcode  int
	quantity int
}

func (c batchColumns) hasIdentifier() bool {
	return c.sku >= 0 || c.fnsku >= 0 || c.barcode >= 0
}

// parseHeader detects column roles from the header row. Recognition is
// case-insensitive substring matching; unrecognized columns are ignored.
// A header without any identifier column, or without a quantity column, is
// malformed and fails the whole batch.
func parseHeader(header []string) (batchColumns, error) {
	cols := batchColumns{sku: -1, fnsku: -1, barcode: -1, quantity: -1}

	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		switch {
		case strings.Contains(key, "fnsku"):
			if cols.fnsku < 0 {
				cols.fnsku = i
			}
		case strings.Contains(key, "sku"):
			if cols.sku < 0 {
				cols.sku = i
			}
		case strings.Contains(key, "barcode"):
			if cols.barcode < 0 {
				cols.barcode = i
			}
		case strings.Contains(key, "qty") || strings.Contains(key, "quantity"):
			if cols.quantity < 0 {
				cols.quantity = i
			}
		}
	}

	if !cols.hasIdentifier() {
		return cols, fmt.Errorf("%w: no identifier column (sku, fnsku or barcode)", common.ErrMalformedHeader)
	}
	if cols.quantity < 0 {
		return cols, fmt.Errorf("%w: no quantity column", common.ErrMalformedHeader)
	}
	return cols, nil
}

// parseBatch reads the delimited input into batch rows. Rows missing every
// identifier value are rejected immediately, as are rows the CSV reader
// cannot parse; a non-numeric or non-positive quantity defaults to one unit.
// Row indices are 1-based over data rows. Only a malformed header is fatal.
func parseBatch(r io.Reader, delimiter rune) ([]model.BatchRow, []model.RowOutcome, error) {
	reader := csv.NewReader(r)
	if delimiter != 0 {
		reader.Comma = delimiter
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%w: empty input", common.ErrMalformedHeader)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", common.ErrMalformedHeader, err)
	}

	cols, err := parseHeader(header)
	if err != nil {
		return nil, nil, err
	}

	var rows []model.BatchRow
	var rejected []model.RowOutcome
	for i := 1; ; i++ {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			// A syntax error stays local to its row; an unreadable row
			// carries no usable identifier.
			rejected = append(rejected, model.RowOutcome{
				RowIndex: i,
				Status:   model.RowRejected,
				Reason:   ReasonMissingIdentifier,
			})
			continue
		}

		row := model.BatchRow{
			RowIndex:      i,
			SKU:           cell(record, cols.sku),
			AlternateCode: cell(record, cols.fnsku),
			Barcode:       cell(record, cols.barcode),
		}
		if row.Identifier() == "" {
			rejected = append(rejected, model.RowOutcome{
				RowIndex: row.RowIndex,
				Status:   model.RowRejected,
				Reason:   ReasonMissingIdentifier,
			})
			continue
		}

		row.RequestedQuantity = 1
		if raw := cell(record, cols.quantity); raw != "" {
			if qty, qtyErr := strconv.Atoi(raw); qtyErr == nil && qty > 0 {
				row.RequestedQuantity = qty
			}
		}

		rows = append(rows, row)
	}

	return rows, rejected, nil
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
