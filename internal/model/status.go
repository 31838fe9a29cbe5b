package model

import (
	"errors"
	"fmt"
)

// ShipmentStatus is the lifecycle state of a shipment.
type ShipmentStatus string

// Shipment status constants.
const (
	StatusDraft      ShipmentStatus = "DRAFT"
	StatusCreated    ShipmentStatus = "CREATED"
	StatusDispatched ShipmentStatus = "DISPATCHED"
	StatusReceived   ShipmentStatus = "RECEIVED"
)

// ErrIllegalTransition indicates a status change outside the transition table.
var ErrIllegalTransition = errors.New("illegal status transition")

// validTransitions is the fixed table of permitted status changes. The only
// backward edge is CREATED -> DRAFT.
var validTransitions = map[ShipmentStatus][]ShipmentStatus{
	StatusDraft:      {StatusCreated},
	StatusCreated:    {StatusDraft, StatusDispatched},
	StatusDispatched: {StatusReceived},
	StatusReceived:   {},
}

// ParseShipmentStatus converts a stored or user-supplied string to a status.
func ParseShipmentStatus(s string) (ShipmentStatus, error) {
	switch ShipmentStatus(s) {
	case StatusDraft, StatusCreated, StatusDispatched, StatusReceived:
		return ShipmentStatus(s), nil
	default:
		return "", fmt.Errorf("unknown shipment status %q", s)
	}
}

// CanTransition reports whether moving from s to next is permitted.
func (s ShipmentStatus) CanTransition(next ShipmentStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Transition validates the requested change and returns the new status.
// The receiver is left unchanged on rejection.
func (s ShipmentStatus) Transition(next ShipmentStatus) (ShipmentStatus, error) {
	if !s.CanTransition(next) {
		return s, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, s, next)
	}
	return next, nil
}

// Editable reports whether composition operations are permitted. Only draft
// shipments accept additions; every other state is a read-only view.
func (s ShipmentStatus) Editable() bool {
	return s == StatusDraft
}
