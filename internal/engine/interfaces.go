package engine

import (
	"context"

	"github.com/packsmith/packsmith/internal/model"
)

// Store is the slice of the persistence collaborator the engine needs to
// apply admitted additions. The full storage implementation satisfies it.
type Store interface {
	CreateLineItem(ctx context.Context, shipmentID string, variant model.Variant, quantity int) (*model.ShipmentLineItem, error)
	UpdateLineItemQuantity(ctx context.Context, lineID string, newQuantity int) error
}
