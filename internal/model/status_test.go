package model

import (
	"errors"
	"testing"
)

func TestShipmentStatus_Transition(t *testing.T) {
	tests := []struct {
		name    string
		from    ShipmentStatus
		to      ShipmentStatus
		wantErr bool
	}{
		{name: "draft to created", from: StatusDraft, to: StatusCreated, wantErr: false},
		{name: "created to dispatched", from: StatusCreated, to: StatusDispatched, wantErr: false},
		{name: "created back to draft", from: StatusCreated, to: StatusDraft, wantErr: false},
		{name: "dispatched to received", from: StatusDispatched, to: StatusReceived, wantErr: false},
		{name: "draft to dispatched skips created", from: StatusDraft, to: StatusDispatched, wantErr: true},
		{name: "dispatched back to created", from: StatusDispatched, to: StatusCreated, wantErr: true},
		{name: "received is terminal", from: StatusReceived, to: StatusDraft, wantErr: true},
		{name: "no self transition", from: StatusDraft, to: StatusDraft, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.Transition(tt.to)
			if tt.wantErr {
				if !errors.Is(err, ErrIllegalTransition) {
					t.Errorf("Transition(%s -> %s) error = %v, want ErrIllegalTransition", tt.from, tt.to, err)
				}
				if got != tt.from {
					t.Errorf("rejected transition changed status to %s, want %s unchanged", got, tt.from)
				}
				return
			}
			if err != nil {
				t.Fatalf("Transition(%s -> %s) unexpected error: %v", tt.from, tt.to, err)
			}
			if got != tt.to {
				t.Errorf("Transition(%s -> %s) = %s", tt.from, tt.to, got)
			}
		})
	}
}

func TestShipmentStatus_Editable(t *testing.T) {
	if !StatusDraft.Editable() {
		t.Error("draft shipments must be editable")
	}
	for _, s := range []ShipmentStatus{StatusCreated, StatusDispatched, StatusReceived} {
		if s.Editable() {
			t.Errorf("%s shipments must not be editable", s)
		}
	}
}

func TestParseShipmentStatus(t *testing.T) {
	if _, err := ParseShipmentStatus("DRAFT"); err != nil {
		t.Errorf("ParseShipmentStatus(DRAFT) error: %v", err)
	}
	if _, err := ParseShipmentStatus("SHIPPED"); err == nil {
		t.Error("ParseShipmentStatus(SHIPPED) expected error")
	}
}
