package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/packsmith/packsmith/internal/model"
)

// MockStore is an in-memory Store for tests.
type MockStore struct {
	createErrFor map[string]error
	updateErrFor map[string]error
	lines        map[string]*model.ShipmentLineItem
	mu           sync.Mutex
	createCalls  int
	updateCalls  int
	nextID       int
}

// NewMockStore creates an empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{
		createErrFor: make(map[string]error),
		updateErrFor: make(map[string]error),
		lines:        make(map[string]*model.ShipmentLineItem),
	}
}

// FailCreate makes CreateLineItem fail for the given SKU.
func (m *MockStore) FailCreate(sku string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createErrFor[sku] = err
}

// FailUpdate makes UpdateLineItemQuantity fail for the given line ID.
func (m *MockStore) FailUpdate(lineID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateErrFor[lineID] = err
}

// CreateLineItem implements Store.
func (m *MockStore) CreateLineItem(_ context.Context, shipmentID string, variant model.Variant, quantity int) (*model.ShipmentLineItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createCalls++
	if err, ok := m.createErrFor[variant.SKU]; ok {
		return nil, err
	}

	m.nextID++
	line := &model.ShipmentLineItem{
		ID:              fmt.Sprintf("line-%d", m.nextID),
		ShipmentID:      shipmentID,
		VariantID:       variant.ID,
		SKU:             variant.SKU,
		Barcode:         variant.Barcode,
		Title:           variant.Title,
		UnitPrice:       variant.UnitPrice,
		QuantityPlanned: quantity,
		CreatedAt:       time.Now(),
	}
	m.lines[line.ID] = line
	copied := *line
	return &copied, nil
}

// UpdateLineItemQuantity implements Store.
func (m *MockStore) UpdateLineItemQuantity(_ context.Context, lineID string, newQuantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.updateCalls++
	if err, ok := m.updateErrFor[lineID]; ok {
		return err
	}

	line, ok := m.lines[lineID]
	if !ok {
		return fmt.Errorf("line %s not found", lineID)
	}
	line.QuantityPlanned = newQuantity
	return nil
}

// Quantity returns the persisted quantity for a line, or -1.
func (m *MockStore) Quantity(lineID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if line, ok := m.lines[lineID]; ok {
		return line.QuantityPlanned
	}
	return -1
}

// CreateCalls returns how many creations were attempted.
func (m *MockStore) CreateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCalls
}

// UpdateCalls returns how many updates were attempted.
func (m *MockStore) UpdateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateCalls
}

// LineCount returns how many lines exist in the store.
func (m *MockStore) LineCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.lines)
}
