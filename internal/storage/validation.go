// Package storage provides the data persistence layer for the application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/packsmith/packsmith/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrInvalidVariant = errors.New("invalid variant")
	ErrInvalidQty     = errors.New("quantity must be positive")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateQuantity ensures a planned quantity is positive.
func validateQuantity(qty int) error {
	if qty <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidQty, qty)
	}
	return nil
}

// validateVariant ensures a variant carries at least one identifier.
func validateVariant(v model.Variant) error {
	if !v.HasIdentifier() && v.ID == "" {
		return fmt.Errorf("%w: no identifier", ErrInvalidVariant)
	}
	if v.Available < 0 {
		return fmt.Errorf("%w: negative availability", ErrInvalidVariant)
	}
	return nil
}
