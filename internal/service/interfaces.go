// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/packsmith/packsmith/internal/model"
)

// ShipmentFilter defines filtering options for shipment queries.
type ShipmentFilter struct {
	Status *model.ShipmentStatus
	Limit  int
	Offset int
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Shipment operations
	CreateShipment(ctx context.Context, name string) (*model.Shipment, error)
	GetShipment(ctx context.Context, id string) (*model.Shipment, error)
	GetShipments(ctx context.Context, filter ShipmentFilter) ([]model.Shipment, error)
	SetShipmentStatus(ctx context.Context, shipmentID string, status model.ShipmentStatus) error
	GetStatusHistory(ctx context.Context, shipmentID string) ([]StatusChange, error)

	// Line item operations
	CreateLineItem(ctx context.Context, shipmentID string, variant model.Variant, quantity int) (*model.ShipmentLineItem, error)
	UpdateLineItemQuantity(ctx context.Context, lineID string, newQuantity int) error
	DeleteLineItem(ctx context.Context, lineID string) error
	GetLineItems(ctx context.Context, shipmentID string) ([]model.ShipmentLineItem, error)

	// Cached catalog operations
	ReplaceVariants(ctx context.Context, variants []model.Variant) error
	GetVariants(ctx context.Context) ([]model.Variant, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// CatalogProvider supplies the authoritative variant snapshot. The engine
// treats one fetch as a single consistent snapshot.
type CatalogProvider interface {
	FetchCatalog(ctx context.Context) ([]model.Variant, error)
}

// StatusChange is one audit row of a shipment's status history.
type StatusChange struct {
	ChangedAt time.Time
	From      model.ShipmentStatus
	To        model.ShipmentStatus
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
