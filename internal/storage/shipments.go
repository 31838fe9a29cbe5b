package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/packsmith/packsmith/internal/model"
	"github.com/packsmith/packsmith/internal/service"
	"github.com/shopspring/decimal"
)

// CreateShipment creates an empty draft shipment.
func (s *SQLiteStorage) CreateShipment(ctx context.Context, name string) (*model.Shipment, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	shipment := &model.Shipment{
		ID:         uuid.NewString(),
		Name:       name,
		Status:     model.StatusDraft,
		TotalValue: decimal.Zero,
		CreatedAt:  time.Now().UTC(),
	}
	shipment.UpdatedAt = shipment.CreatedAt

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO shipments (id, name, status, total_items_count, total_value, created_at, updated_at)
		 VALUES (?, ?, ?, 0, '0', ?, ?)`,
		shipment.ID, shipment.Name, string(shipment.Status), shipment.CreatedAt, shipment.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create shipment: %w", err)
	}

	return shipment, nil
}

// GetShipment loads a shipment together with its line items.
func (s *SQLiteStorage) GetShipment(ctx context.Context, id string) (*model.Shipment, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}
	return getShipment(ctx, s.db, id)
}

func getShipment(ctx context.Context, q querier, id string) (*model.Shipment, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, name, status, total_items_count, total_value, created_at, updated_at
		 FROM shipments WHERE id = ?`, id)

	shipment, err := scanShipment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("shipment %s: %w", id, ErrShipmentNotFound)
		}
		return nil, fmt.Errorf("failed to load shipment: %w", err)
	}

	items, err := getLineItems(ctx, q, id)
	if err != nil {
		return nil, err
	}
	shipment.Items = items

	return shipment, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanShipment(row rowScanner) (*model.Shipment, error) {
	var shipment model.Shipment
	var status, totalValue string
	if err := row.Scan(&shipment.ID, &shipment.Name, &status, &shipment.TotalItemsCount,
		&totalValue, &shipment.CreatedAt, &shipment.UpdatedAt); err != nil {
		return nil, err
	}

	parsed, err := model.ParseShipmentStatus(status)
	if err != nil {
		return nil, err
	}
	shipment.Status = parsed

	value, err := decimal.NewFromString(totalValue)
	if err != nil {
		return nil, fmt.Errorf("invalid total value %q: %w", totalValue, err)
	}
	shipment.TotalValue = value

	return &shipment, nil
}

// GetShipments lists shipments matching the filter, newest first. Line items
// are not loaded.
func (s *SQLiteStorage) GetShipments(ctx context.Context, filter service.ShipmentFilter) ([]model.Shipment, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT id, name, status, total_items_count, total_value, created_at, updated_at
		 FROM shipments`
	args := []any{}
	if filter.Status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*filter.Status))
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shipments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var shipments []model.Shipment
	for rows.Next() {
		shipment, scanErr := scanShipment(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan shipment: %w", scanErr)
		}
		shipments = append(shipments, *shipment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shipments: %w", err)
	}

	return shipments, nil
}

// SetShipmentStatus validates the transition against the status machine and
// records the change in the audit history. The shipment row is untouched
// when the transition is illegal.
func (s *SQLiteStorage) SetShipmentStatus(ctx context.Context, shipmentID string, status model.ShipmentStatus) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(shipmentID, "shipmentID"); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var current string
		err := tx.QueryRowContext(ctx, `SELECT status FROM shipments WHERE id = ?`, shipmentID).Scan(&current)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("shipment %s: %w", shipmentID, ErrShipmentNotFound)
		}
		if err != nil {
			return fmt.Errorf("failed to load shipment status: %w", err)
		}

		from, err := model.ParseShipmentStatus(current)
		if err != nil {
			return err
		}
		if _, err := from.Transition(status); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE shipments SET status = ?, updated_at = ? WHERE id = ?`,
			string(status), time.Now().UTC(), shipmentID); err != nil {
			return fmt.Errorf("failed to update shipment status: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`INSERT INTO shipment_status_history (shipment_id, from_status, to_status) VALUES (?, ?, ?)`,
			shipmentID, string(from), string(status)); err != nil {
			return fmt.Errorf("failed to record status change: %w", err)
		}

		return nil
	})
}

// GetStatusHistory returns a shipment's status changes, oldest first.
func (s *SQLiteStorage) GetStatusHistory(ctx context.Context, shipmentID string) ([]service.StatusChange, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(shipmentID, "shipmentID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT from_status, to_status, changed_at FROM shipment_status_history
		 WHERE shipment_id = ? ORDER BY id ASC`, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load status history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var history []service.StatusChange
	for rows.Next() {
		var from, to string
		var change service.StatusChange
		if err := rows.Scan(&from, &to, &change.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status change: %w", err)
		}
		change.From = model.ShipmentStatus(from)
		change.To = model.ShipmentStatus(to)
		history = append(history, change)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate status history: %w", err)
	}

	return history, nil
}
