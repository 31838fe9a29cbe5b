package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/packsmith/packsmith/internal/model"
	"github.com/packsmith/packsmith/internal/service"
)

func TestCreateAndGetShipment(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	created, err := store.CreateShipment(ctx, "FBA March restock")
	if err != nil {
		t.Fatalf("CreateShipment failed: %v", err)
	}
	if created.Status != model.StatusDraft {
		t.Errorf("new shipment status = %s, want DRAFT", created.Status)
	}

	loaded, err := store.GetShipment(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetShipment failed: %v", err)
	}
	if loaded.Name != "FBA March restock" {
		t.Errorf("Name = %q", loaded.Name)
	}
	if len(loaded.Items) != 0 {
		t.Errorf("new shipment has %d items, want 0", len(loaded.Items))
	}
	if loaded.TotalItemsCount != 0 {
		t.Errorf("TotalItemsCount = %d, want 0", loaded.TotalItemsCount)
	}
}

func TestGetShipment_NotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetShipment(context.Background(), "missing")
	if !errors.Is(err, ErrShipmentNotFound) {
		t.Errorf("error = %v, want ErrShipmentNotFound", err)
	}
}

func TestGetShipments_FilterByStatus(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	a, _ := store.CreateShipment(ctx, "a")
	if _, err := store.CreateShipment(ctx, "b"); err != nil {
		t.Fatalf("CreateShipment failed: %v", err)
	}
	if err := store.SetShipmentStatus(ctx, a.ID, model.StatusCreated); err != nil {
		t.Fatalf("SetShipmentStatus failed: %v", err)
	}

	draft := model.StatusDraft
	shipments, err := store.GetShipments(ctx, service.ShipmentFilter{Status: &draft})
	if err != nil {
		t.Fatalf("GetShipments failed: %v", err)
	}
	if len(shipments) != 1 {
		t.Fatalf("got %d draft shipments, want 1", len(shipments))
	}
	if shipments[0].Name != "b" {
		t.Errorf("Name = %q, want b", shipments[0].Name)
	}
}

func TestSetShipmentStatus(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	shipment, err := store.CreateShipment(ctx, "status test")
	if err != nil {
		t.Fatalf("CreateShipment failed: %v", err)
	}

	if err := store.SetShipmentStatus(ctx, shipment.ID, model.StatusCreated); err != nil {
		t.Fatalf("draft -> created failed: %v", err)
	}

	// Illegal transition leaves the row unchanged.
	err = store.SetShipmentStatus(ctx, shipment.ID, model.StatusReceived)
	if !errors.Is(err, model.ErrIllegalTransition) {
		t.Fatalf("error = %v, want ErrIllegalTransition", err)
	}

	loaded, err := store.GetShipment(ctx, shipment.ID)
	if err != nil {
		t.Fatalf("GetShipment failed: %v", err)
	}
	if loaded.Status != model.StatusCreated {
		t.Errorf("status = %s, want CREATED after rejected transition", loaded.Status)
	}

	history, err := store.GetStatusHistory(ctx, shipment.ID)
	if err != nil {
		t.Fatalf("GetStatusHistory failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history has %d entries, want 1 (rejected change must not be recorded)", len(history))
	}
	if history[0].From != model.StatusDraft || history[0].To != model.StatusCreated {
		t.Errorf("history[0] = %s -> %s", history[0].From, history[0].To)
	}
}

func TestSetShipmentStatus_NotFound(t *testing.T) {
	store := newTestStorage(t)

	err := store.SetShipmentStatus(context.Background(), "missing", model.StatusCreated)
	if !errors.Is(err, ErrShipmentNotFound) {
		t.Errorf("error = %v, want ErrShipmentNotFound", err)
	}
}
