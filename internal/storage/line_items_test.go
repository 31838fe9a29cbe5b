package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/packsmith/packsmith/internal/model"
	"github.com/shopspring/decimal"
)

func testVariant(sku string, price string, available int) model.Variant {
	return model.Variant{
		ID:        "var-" + sku,
		SKU:       sku,
		Title:     "Variant " + sku,
		UnitPrice: decimal.RequireFromString(price),
		Available: available,
	}
}

func TestCreateLineItem(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	shipment, err := store.CreateShipment(ctx, "items test")
	if err != nil {
		t.Fatalf("CreateShipment failed: %v", err)
	}

	line, err := store.CreateLineItem(ctx, shipment.ID, testVariant("A1", "2.50", 10), 4)
	if err != nil {
		t.Fatalf("CreateLineItem failed: %v", err)
	}
	if line.ID == "" {
		t.Fatal("line ID not assigned")
	}

	loaded, err := store.GetShipment(ctx, shipment.ID)
	if err != nil {
		t.Fatalf("GetShipment failed: %v", err)
	}
	if len(loaded.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(loaded.Items))
	}
	if loaded.Items[0].QuantityPlanned != 4 {
		t.Errorf("QuantityPlanned = %d, want 4", loaded.Items[0].QuantityPlanned)
	}
	if loaded.TotalItemsCount != 4 {
		t.Errorf("TotalItemsCount = %d, want 4", loaded.TotalItemsCount)
	}
	if !loaded.TotalValue.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("TotalValue = %s, want 10.00", loaded.TotalValue)
	}
}

func TestCreateLineItem_Validation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	shipment, _ := store.CreateShipment(ctx, "items test")

	if _, err := store.CreateLineItem(ctx, shipment.ID, model.Variant{}, 1); err == nil {
		t.Error("expected error for variant without identifier")
	}
	if _, err := store.CreateLineItem(ctx, shipment.ID, testVariant("A1", "1.00", 5), 0); err == nil {
		t.Error("expected error for non-positive quantity")
	}
	if _, err := store.CreateLineItem(ctx, "missing", testVariant("A1", "1.00", 5), 1); !errors.Is(err, ErrShipmentNotFound) {
		t.Errorf("error = %v, want ErrShipmentNotFound", err)
	}
}

func TestUpdateLineItemQuantity(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	shipment, _ := store.CreateShipment(ctx, "items test")
	line, err := store.CreateLineItem(ctx, shipment.ID, testVariant("A1", "3.00", 10), 2)
	if err != nil {
		t.Fatalf("CreateLineItem failed: %v", err)
	}

	if err := store.UpdateLineItemQuantity(ctx, line.ID, 7); err != nil {
		t.Fatalf("UpdateLineItemQuantity failed: %v", err)
	}

	loaded, _ := store.GetShipment(ctx, shipment.ID)
	if loaded.Items[0].QuantityPlanned != 7 {
		t.Errorf("QuantityPlanned = %d, want 7", loaded.Items[0].QuantityPlanned)
	}
	if loaded.TotalItemsCount != 7 {
		t.Errorf("TotalItemsCount = %d, want 7", loaded.TotalItemsCount)
	}
	if !loaded.TotalValue.Equal(decimal.RequireFromString("21.00")) {
		t.Errorf("TotalValue = %s, want 21.00", loaded.TotalValue)
	}

	if err := store.UpdateLineItemQuantity(ctx, "missing", 1); !errors.Is(err, ErrLineItemNotFound) {
		t.Errorf("error = %v, want ErrLineItemNotFound", err)
	}
}

func TestDeleteLineItem(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	shipment, _ := store.CreateShipment(ctx, "items test")
	line, _ := store.CreateLineItem(ctx, shipment.ID, testVariant("A1", "3.00", 10), 2)

	if err := store.DeleteLineItem(ctx, line.ID); err != nil {
		t.Fatalf("DeleteLineItem failed: %v", err)
	}

	loaded, _ := store.GetShipment(ctx, shipment.ID)
	if len(loaded.Items) != 0 {
		t.Errorf("got %d items after delete, want 0", len(loaded.Items))
	}
	if loaded.TotalItemsCount != 0 {
		t.Errorf("TotalItemsCount = %d, want 0", loaded.TotalItemsCount)
	}

	if err := store.DeleteLineItem(ctx, line.ID); !errors.Is(err, ErrLineItemNotFound) {
		t.Errorf("second delete error = %v, want ErrLineItemNotFound", err)
	}
}
