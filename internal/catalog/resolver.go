package catalog

import (
	"fmt"
	"strings"

	"github.com/packsmith/packsmith/internal/common"
	"github.com/packsmith/packsmith/internal/model"
)

// Resolved is the result of resolving one raw scan or entry token.
type Resolved struct {
	Variant model.Variant
	// ImplicitQuantity is the number of repeated sub-tokens in the raw
	// input. A scanner that fires three times for the same code produces
	// "X1 X1 X1", which means quantity three when the caller supplies no
	// explicit quantity.
	ImplicitQuantity int
}

// Resolve maps a raw token to exactly one catalog entry. The token may
// contain whitespace-separated repeats of the same code; only the first
// sub-token is used as the identifier. Empty or whitespace-only input is
// unresolvable.
func (idx *Index) Resolve(rawToken string) (Resolved, error) {
	parts := strings.Fields(rawToken)
	if len(parts) == 0 {
		return Resolved{}, fmt.Errorf("empty identifier: %w", common.ErrNotFound)
	}

	variant, ok := idx.Lookup(parts[0])
	if !ok {
		return Resolved{}, fmt.Errorf("identifier %q: %w", parts[0], common.ErrNotFound)
	}

	return Resolved{
		Variant:          variant,
		ImplicitQuantity: len(parts),
	}, nil
}
