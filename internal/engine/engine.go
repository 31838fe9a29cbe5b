package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/packsmith/packsmith/internal/catalog"
	"github.com/packsmith/packsmith/internal/common"
	"github.com/packsmith/packsmith/internal/ledger"
	"github.com/packsmith/packsmith/internal/model"
	"github.com/packsmith/packsmith/internal/service"
)

// Engine adds product units to a shipment from all three input channels:
// single scan or manual entry, catalog multi-select, and bulk ingestion.
// All channels converge on Reconcile, so the stock-exceeding invariant holds
// regardless of entry path.
type Engine struct {
	store  Store
	index  *catalog.Index
	config Config
}

// Config holds configuration options for the composition engine.
type Config struct {
	// ChunkSize bounds how many persistence applications are in flight at
	// once during batch ingestion.
	ChunkSize int
	Retry     service.RetryOptions
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		ChunkSize: 20,
		Retry: service.RetryOptions{
			MaxAttempts:  2,
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     2 * time.Second,
			Multiplier:   2.0,
		},
	}
}

// New creates a composition engine over a catalog snapshot.
func New(store Store, index *catalog.Index) *Engine {
	return NewWithConfig(store, index, DefaultConfig())
}

// NewWithConfig creates a composition engine with custom configuration.
func NewWithConfig(store Store, index *catalog.Index, config Config) *Engine {
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultConfig().ChunkSize
	}
	return &Engine{
		store:  store,
		index:  index,
		config: config,
	}
}

// Selection is one entry chosen in the catalog multi-select channel.
type Selection struct {
	Variant  model.Variant
	Quantity int
}

// AddScan handles the scan channel. The raw token may contain repeated
// whitespace-separated scans of the same code; the repeat count becomes the
// requested quantity.
func (e *Engine) AddScan(ctx context.Context, shipment *model.Shipment, rawToken string) (Decision, error) {
	if !shipment.Status.Editable() {
		return Decision{}, common.ErrEditNotPermitted
	}

	resolved, err := e.index.Resolve(rawToken)
	if err != nil {
		return Decision{}, err
	}

	return e.addOne(ctx, shipment, resolved.Variant, resolved.ImplicitQuantity)
}

// AddManual handles typed entry with an explicit quantity. Only the first
// sub-token of the input is used as the identifier.
func (e *Engine) AddManual(ctx context.Context, shipment *model.Shipment, token string, quantity int) (Decision, error) {
	if !shipment.Status.Editable() {
		return Decision{}, common.ErrEditNotPermitted
	}

	resolved, err := e.index.Resolve(token)
	if err != nil {
		return Decision{}, err
	}

	return e.addOne(ctx, shipment, resolved.Variant, quantity)
}

// AddSelections handles the catalog multi-select channel. Selections are
// reconciled and applied in order; the first applicable error stops the pass
// and is returned along with the decisions made so far.
func (e *Engine) AddSelections(ctx context.Context, shipment *model.Shipment, selections []Selection) ([]Decision, error) {
	if !shipment.Status.Editable() {
		return nil, common.ErrEditNotPermitted
	}

	decisions := make([]Decision, 0, len(selections))
	for _, sel := range selections {
		d, err := e.addOne(ctx, shipment, sel.Variant, sel.Quantity)
		decisions = append(decisions, d)
		if err != nil {
			return decisions, err
		}
	}
	return decisions, nil
}

// addOne reconciles and applies a single (variant, quantity) request.
// Rejections surface as sentinel errors; the decision is returned either way
// so callers can report the reason.
func (e *Engine) addOne(ctx context.Context, shipment *model.Shipment, v model.Variant, quantity int) (Decision, error) {
	d := Reconcile(v, quantity, ledger.New(shipment.Items))
	if d.Rejected() {
		switch d.Reason {
		case ReasonOutOfStock:
			return d, fmt.Errorf("%s: %w", displayIdentifier(v), common.ErrOutOfStock)
		default:
			return d, fmt.Errorf("%s: %w", displayIdentifier(v), common.ErrAlreadyCommitted)
		}
	}

	if err := e.apply(ctx, shipment, d); err != nil {
		return d, fmt.Errorf("%w: %v", common.ErrApplicationFailed, err)
	}

	if d.Adjusted() {
		slog.Info("Admitted with adjustment",
			"identifier", displayIdentifier(v),
			"requested", d.Requested,
			"admitted", d.Admitted)
	}

	return d, nil
}

// apply persists an admitted decision and mirrors it onto the in-memory
// shipment. Store calls are retried per the engine's retry options; a
// timeout is treated like any other application failure.
func (e *Engine) apply(ctx context.Context, shipment *model.Shipment, d Decision) error {
	err := e.retryOp(ctx, func() error {
		if d.MergeIntoLineID != "" {
			return e.store.UpdateLineItemQuantity(ctx, d.MergeIntoLineID, d.NewQuantity)
		}
		line, opErr := e.store.CreateLineItem(ctx, shipment.ID, d.Variant, d.Admitted)
		if opErr != nil {
			return opErr
		}
		shipment.Items = append(shipment.Items, *line)
		return nil
	})
	if err != nil {
		return err
	}

	if d.MergeIntoLineID != "" {
		for i := range shipment.Items {
			if shipment.Items[i].ID == d.MergeIntoLineID {
				shipment.Items[i].QuantityPlanned = d.NewQuantity
				break
			}
		}
	}

	shipment.Recalculate()
	return nil
}

// retryOp runs a persistence call with the engine's retry policy. Context
// timeouts and cancellations are retried; anything else fails immediately.
func (e *Engine) retryOp(ctx context.Context, op func() error) error {
	return common.WithRetry(ctx, func() error {
		if err := op(); err != nil {
			return &common.RetryableError{Err: err, Retryable: common.IsRetryable(err)}
		}
		return nil
	}, e.config.Retry)
}

func displayIdentifier(v model.Variant) string {
	switch {
	case v.SKU != "":
		return v.SKU
	case v.Barcode != "":
		return v.Barcode
	case v.AlternateCode != "":
		return v.AlternateCode
	default:
		return v.ID
	}
}
