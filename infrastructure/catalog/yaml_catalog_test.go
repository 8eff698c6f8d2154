package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"onboardhq-backend/domain/core/entities"
	pkgerrors "onboardhq-backend/pkg/errors"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bundles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestYAMLCatalogLoad(t *testing.T) {
	path := writeCatalog(t, `
bundles:
  - name: Engineering Starter
    department: Engineering
    description: Default kit for engineers
    items:
      - sku: EQ-LAPTOP-14
        name: Laptop 14"
        kind: equipment
        assignee_group: it-hardware
        quantity: 1
      - sku: SW-IDE
        name: IDE license
        kind: software
        assignee_group: it-software
`)

	bundles, err := NewYAMLCatalog(path, zap.NewNop()).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, bundles, 1)

	bundle := bundles[0]
	assert.Equal(t, "Engineering Starter", bundle.Name())
	assert.Equal(t, "Engineering", bundle.Department())
	assert.True(t, bundle.IsActive())

	items := bundle.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "EQ-LAPTOP-14", items[0].SKU)
	assert.Equal(t, entities.ItemKindEquipment, items[0].Kind)
	// Omitted quantity defaults to one unit
	assert.Equal(t, 1, items[1].Quantity)
}

func TestYAMLCatalogLoadMissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	_, err := NewYAMLCatalog(missing, zap.NewNop()).Load(context.Background())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsNotFound(err))
}

func TestYAMLCatalogLoadRejectsInvalidItem(t *testing.T) {
	path := writeCatalog(t, `
bundles:
  - name: Broken
    department: Engineering
    items:
      - sku: X-1
        name: Mystery
        kind: furniture
`)

	_, err := NewYAMLCatalog(path, zap.NewNop()).Load(context.Background())
	assert.Error(t, err)
}
