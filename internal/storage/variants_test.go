package storage

import (
	"context"
	"testing"

	"github.com/packsmith/packsmith/internal/model"
	"github.com/shopspring/decimal"
)

func TestReplaceVariants(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	first := []model.Variant{
		testVariant("A1", "1.00", 5),
		testVariant("B2", "2.00", 3),
	}
	if err := store.ReplaceVariants(ctx, first); err != nil {
		t.Fatalf("ReplaceVariants failed: %v", err)
	}

	got, err := store.GetVariants(ctx)
	if err != nil {
		t.Fatalf("GetVariants failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d variants, want 2", len(got))
	}

	// A refresh replaces the cache wholesale.
	second := []model.Variant{testVariant("C3", "4.00", 8)}
	if err := store.ReplaceVariants(ctx, second); err != nil {
		t.Fatalf("second ReplaceVariants failed: %v", err)
	}

	got, err = store.GetVariants(ctx)
	if err != nil {
		t.Fatalf("GetVariants failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d variants after refresh, want 1", len(got))
	}
	if got[0].SKU != "C3" {
		t.Errorf("SKU = %q, want C3", got[0].SKU)
	}
	if got[0].Available != 8 {
		t.Errorf("Available = %d, want 8", got[0].Available)
	}
	if !got[0].UnitPrice.Equal(decimal.RequireFromString("4.00")) {
		t.Errorf("UnitPrice = %s, want 4.00", got[0].UnitPrice)
	}
}

func TestReplaceVariants_RejectsInvalid(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	bad := []model.Variant{{Title: "no identifiers"}}
	if err := store.ReplaceVariants(ctx, bad); err == nil {
		t.Error("expected error for variant without identifier")
	}

	got, err := store.GetVariants(ctx)
	if err != nil {
		t.Fatalf("GetVariants failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d variants after failed replace, want 0", len(got))
	}
}
