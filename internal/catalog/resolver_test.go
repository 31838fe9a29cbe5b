package catalog

import (
	"errors"
	"testing"

	"github.com/packsmith/packsmith/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_Resolve(t *testing.T) {
	idx := NewIndex(testVariants())

	tests := []struct {
		name     string
		rawToken string
		wantID   string
		wantQty  int
		wantErr  bool
	}{
		{name: "single token", rawToken: "ALPHA-1", wantID: "v1", wantQty: 1},
		{name: "repeated scans imply quantity", rawToken: "ALPHA-1 ALPHA-1 ALPHA-1", wantID: "v1", wantQty: 3},
		{name: "only first sub-token resolves", rawToken: "100003 ALPHA-1", wantID: "v3", wantQty: 2},
		{name: "empty input", rawToken: "", wantErr: true},
		{name: "whitespace only", rawToken: " \t ", wantErr: true},
		{name: "unknown identifier", rawToken: "NOPE", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolved, err := idx.Resolve(tt.rawToken)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, common.ErrNotFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, resolved.Variant.ID)
			assert.Equal(t, tt.wantQty, resolved.ImplicitQuantity)
		})
	}
}
