package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalogFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.csv")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestFileProvider_FetchCatalog(t *testing.T) {
	path := writeCatalogFile(t, `id,sku,barcode,fnsku,title,unit_price,available
v1,ALPHA-1,100001,,Alpha Widget,4.99,12
v2,,100002,X0B2,Beta Widget,10.00,0
,,,,No Identifier Row,1.00,5
`)

	variants, err := NewFileProvider(path).FetchCatalog(context.Background())
	require.NoError(t, err)
	require.Len(t, variants, 2, "rows without any identifier are skipped")

	assert.Equal(t, "v1", variants[0].ID)
	assert.Equal(t, "ALPHA-1", variants[0].SKU)
	assert.Equal(t, 12, variants[0].Available)
	assert.Equal(t, "4.99", variants[0].UnitPrice.String())

	assert.Equal(t, "X0B2", variants[1].AlternateCode)
	assert.Equal(t, 0, variants[1].Available)
}

func TestFileProvider_FetchCatalog_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := NewFileProvider(filepath.Join(t.TempDir(), "nope.csv")).FetchCatalog(context.Background())
		require.Error(t, err)
	})

	t.Run("no identifier column", func(t *testing.T) {
		path := writeCatalogFile(t, "title,available\nWidget,3\n")
		_, err := NewFileProvider(path).FetchCatalog(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no sku or barcode column")
	})

	t.Run("negative available", func(t *testing.T) {
		path := writeCatalogFile(t, "sku,available\nA1,-2\n")
		_, err := NewFileProvider(path).FetchCatalog(context.Background())
		require.Error(t, err)
	})
}
