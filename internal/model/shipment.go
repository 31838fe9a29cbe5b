package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShipmentLineItem is one row of a shipment under composition. A shipment
// holds at most one line item per distinct variant; re-submitting the same
// variant increases QuantityPlanned instead of creating a second row.
type ShipmentLineItem struct {
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ID              string
	ShipmentID      string
	VariantID       string
	SKU             string
	Barcode         string
	Title           string
	UnitPrice       decimal.Decimal
	QuantityPlanned int
}

// LineValue returns QuantityPlanned * UnitPrice.
func (li *ShipmentLineItem) LineValue() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.QuantityPlanned)))
}

// Shipment is the aggregate being composed. Items carry the committed
// quantities; TotalItemsCount and TotalValue are derived and recomputed
// whenever Items changes.
type Shipment struct {
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ID              string
	Name            string
	Status          ShipmentStatus
	Items           []ShipmentLineItem
	TotalItemsCount int
	TotalValue      decimal.Decimal
}

// Recalculate recomputes the derived totals from Items.
func (s *Shipment) Recalculate() {
	count := 0
	value := decimal.Zero
	for i := range s.Items {
		count += s.Items[i].QuantityPlanned
		value = value.Add(s.Items[i].LineValue())
	}
	s.TotalItemsCount = count
	s.TotalValue = value
}
