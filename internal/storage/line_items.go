package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/packsmith/packsmith/internal/model"
	"github.com/shopspring/decimal"
)

// CreateLineItem inserts a new line item and refreshes the shipment's
// derived totals.
func (s *SQLiteStorage) CreateLineItem(ctx context.Context, shipmentID string, variant model.Variant, quantity int) (*model.ShipmentLineItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(shipmentID, "shipmentID"); err != nil {
		return nil, err
	}
	if err := validateVariant(variant); err != nil {
		return nil, err
	}
	if err := validateQuantity(quantity); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	line := &model.ShipmentLineItem{
		ID:              uuid.NewString(),
		ShipmentID:      shipmentID,
		VariantID:       variant.ID,
		SKU:             variant.SKU,
		Barcode:         variant.Barcode,
		Title:           variant.Title,
		UnitPrice:       variant.UnitPrice,
		QuantityPlanned: quantity,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM shipments WHERE id = ?`, shipmentID).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check shipment: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("shipment %s: %w", shipmentID, ErrShipmentNotFound)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO shipment_items
			 (id, shipment_id, variant_id, sku, barcode, title, unit_price, quantity_planned, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			line.ID, line.ShipmentID, line.VariantID, line.SKU, line.Barcode,
			line.Title, line.UnitPrice.String(), line.QuantityPlanned, line.CreatedAt, line.UpdatedAt); err != nil {
			return fmt.Errorf("failed to insert line item: %w", err)
		}

		return recomputeTotals(ctx, tx, shipmentID)
	})
	if err != nil {
		return nil, err
	}

	return line, nil
}

// UpdateLineItemQuantity sets a line's planned quantity and refreshes the
// shipment's derived totals.
func (s *SQLiteStorage) UpdateLineItemQuantity(ctx context.Context, lineID string, newQuantity int) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(lineID, "lineID"); err != nil {
		return err
	}
	if err := validateQuantity(newQuantity); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var shipmentID string
		err := tx.QueryRowContext(ctx, `SELECT shipment_id FROM shipment_items WHERE id = ?`, lineID).Scan(&shipmentID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("line %s: %w", lineID, ErrLineItemNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to load line item: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE shipment_items SET quantity_planned = ?, updated_at = ? WHERE id = ?`,
			newQuantity, time.Now().UTC(), lineID); err != nil {
			return fmt.Errorf("failed to update line item: %w", err)
		}

		return recomputeTotals(ctx, tx, shipmentID)
	})
}

// DeleteLineItem removes a line item and refreshes the shipment's derived
// totals.
func (s *SQLiteStorage) DeleteLineItem(ctx context.Context, lineID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(lineID, "lineID"); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var shipmentID string
		err := tx.QueryRowContext(ctx, `SELECT shipment_id FROM shipment_items WHERE id = ?`, lineID).Scan(&shipmentID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("line %s: %w", lineID, ErrLineItemNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to load line item: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM shipment_items WHERE id = ?`, lineID); err != nil {
			return fmt.Errorf("failed to delete line item: %w", err)
		}

		return recomputeTotals(ctx, tx, shipmentID)
	})
}

// GetLineItems returns a shipment's line items, oldest first.
func (s *SQLiteStorage) GetLineItems(ctx context.Context, shipmentID string) ([]model.ShipmentLineItem, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(shipmentID, "shipmentID"); err != nil {
		return nil, err
	}
	return getLineItems(ctx, s.db, shipmentID)
}

func getLineItems(ctx context.Context, q querier, shipmentID string) ([]model.ShipmentLineItem, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT id, shipment_id, variant_id, sku, barcode, title, unit_price, quantity_planned, created_at, updated_at
		 FROM shipment_items WHERE shipment_id = ? ORDER BY created_at ASC, id ASC`, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load line items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []model.ShipmentLineItem
	for rows.Next() {
		var line model.ShipmentLineItem
		var unitPrice string
		if err := rows.Scan(&line.ID, &line.ShipmentID, &line.VariantID, &line.SKU, &line.Barcode,
			&line.Title, &unitPrice, &line.QuantityPlanned, &line.CreatedAt, &line.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan line item: %w", err)
		}
		price, priceErr := decimal.NewFromString(unitPrice)
		if priceErr != nil {
			return nil, fmt.Errorf("invalid unit price %q: %w", unitPrice, priceErr)
		}
		line.UnitPrice = price
		items = append(items, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate line items: %w", err)
	}

	return items, nil
}

// recomputeTotals refreshes the shipment's denormalized totals from its
// current line items.
func recomputeTotals(ctx context.Context, q querier, shipmentID string) error {
	items, err := getLineItems(ctx, q, shipmentID)
	if err != nil {
		return err
	}

	shipment := model.Shipment{Items: items}
	shipment.Recalculate()

	if _, err := q.ExecContext(ctx,
		`UPDATE shipments SET total_items_count = ?, total_value = ?, updated_at = ? WHERE id = ?`,
		shipment.TotalItemsCount, shipment.TotalValue.String(), time.Now().UTC(), shipmentID); err != nil {
		return fmt.Errorf("failed to update shipment totals: %w", err)
	}
	return nil
}
