package model

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestShipmentLineItem_LineValue(t *testing.T) {
	line := ShipmentLineItem{QuantityPlanned: 4, UnitPrice: decimal.RequireFromString("2.25")}
	want := decimal.RequireFromString("9.00")
	if !line.LineValue().Equal(want) {
		t.Errorf("LineValue() = %s, want %s", line.LineValue(), want)
	}
}

func TestShipment_Recalculate(t *testing.T) {
	s := Shipment{
		Items: []ShipmentLineItem{
			{QuantityPlanned: 3, UnitPrice: decimal.RequireFromString("2.50")},
			{QuantityPlanned: 2, UnitPrice: decimal.RequireFromString("10.00")},
		},
	}
	s.Recalculate()

	if s.TotalItemsCount != 5 {
		t.Errorf("TotalItemsCount = %d, want 5", s.TotalItemsCount)
	}
	want := decimal.RequireFromString("27.50")
	if !s.TotalValue.Equal(want) {
		t.Errorf("TotalValue = %s, want %s", s.TotalValue, want)
	}
}

func TestShipment_Recalculate_Empty(t *testing.T) {
	var s Shipment
	s.Recalculate()

	if s.TotalItemsCount != 0 {
		t.Errorf("TotalItemsCount = %d, want 0", s.TotalItemsCount)
	}
	if !s.TotalValue.Equal(decimal.Zero) {
		t.Errorf("TotalValue = %s, want 0", s.TotalValue)
	}
}
