package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/packsmith/packsmith/internal/model"
	"github.com/shopspring/decimal"
)

// ReplaceVariants swaps the cached catalog copy for a fresh snapshot. The
// replacement is wholesale: no incremental updates.
func (s *SQLiteStorage) ReplaceVariants(ctx context.Context, variants []model.Variant) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM variants`); err != nil {
			return fmt.Errorf("failed to clear variant cache: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO variants (id, sku, barcode, alternate_code, title, unit_price, available)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return fmt.Errorf("failed to prepare variant insert: %w", err)
		}
		defer func() { _ = stmt.Close() }()

		for _, v := range variants {
			if err := validateVariant(v); err != nil {
				return err
			}
			if _, err := stmt.ExecContext(ctx,
				v.ID, v.SKU, v.Barcode, v.AlternateCode, v.Title, v.UnitPrice.String(), v.Available); err != nil {
				return fmt.Errorf("failed to insert variant: %w", err)
			}
		}
		return nil
	})
}

// GetVariants returns the cached catalog copy.
func (s *SQLiteStorage) GetVariants(ctx context.Context) ([]model.Variant, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, sku, barcode, alternate_code, title, unit_price, available FROM variants`)
	if err != nil {
		return nil, fmt.Errorf("failed to load variants: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var variants []model.Variant
	for rows.Next() {
		var v model.Variant
		var unitPrice string
		if err := rows.Scan(&v.ID, &v.SKU, &v.Barcode, &v.AlternateCode, &v.Title, &unitPrice, &v.Available); err != nil {
			return nil, fmt.Errorf("failed to scan variant: %w", err)
		}
		price, priceErr := decimal.NewFromString(unitPrice)
		if priceErr != nil {
			return nil, fmt.Errorf("invalid unit price %q: %w", unitPrice, priceErr)
		}
		v.UnitPrice = price
		variants = append(variants, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate variants: %w", err)
	}

	return variants, nil
}
