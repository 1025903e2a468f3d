package tests

import (
	"os"
	"path/filepath"
	"testing"

	"green_erp/erp/schema"
	"green_erp/erp/seed"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureYaml = `
items:
  - name: Recycled Paper
    sku: PAP-100
    category: office
    unit: ream
    stock: 40
    reorder_level: 15
    co2_per_unit: 0.9
  - name: Bamboo Pens
    sku: PEN-200
    category: office
    unit: box
    co2_per_unit: 0.2
suppliers:
  - name: EcoSupply Co
    contact_email: hello@ecosupply.test
    sustainability_score: 87.5
    certifications: "ISO 14001"
  - name: GreenGoods Ltd
`

func writeFixture(t *testing.T, content string) string {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSeedApply(t *testing.T) {
	env := setupTestEnv(t)

	fixture, err := seed.LoadFixture(writeFixture(t, fixtureYaml))
	require.NoError(t, err)

	require.NoError(t, seed.Apply(env.db, fixture))

	var items []schema.Item
	require.NoError(t, env.db.Order("sku").Find(&items).Error)
	require.Len(t, items, 2)
	assert.Equal(t, "PAP-100", items[0].Sku)
	assert.Equal(t, 40, items[0].Stock)
	assert.Equal(t, 15, items[0].ReorderLevel)
	assert.Equal(t, "PEN-200", items[1].Sku)
	assert.True(t, items[1].IsActive)

	var suppliers []schema.Supplier
	require.NoError(t, env.db.Order("name").Find(&suppliers).Error)
	require.Len(t, suppliers, 2)
	assert.Equal(t, "EcoSupply Co", suppliers[0].Name)
	assert.Equal(t, 87.5, suppliers[0].SustainabilityScore)
}

func TestSeedApplyIsIdempotent(t *testing.T) {
	env := setupTestEnv(t)

	fixture, err := seed.LoadFixture(writeFixture(t, fixtureYaml))
	require.NoError(t, err)

	require.NoError(t, seed.Apply(env.db, fixture))
	require.NoError(t, seed.Apply(env.db, fixture))

	var itemCount, supplierCount int64
	require.NoError(t, env.db.Model(&schema.Item{}).Count(&itemCount).Error)
	require.NoError(t, env.db.Model(&schema.Supplier{}).Count(&supplierCount).Error)
	assert.Equal(t, int64(2), itemCount)
	assert.Equal(t, int64(2), supplierCount)
}

func TestSeedRejectsBadFixture(t *testing.T) {
	_, err := seed.LoadFixture(writeFixture(t, "items:\n  - sku: NO-NAME\n"))
	require.Error(t, err)

	_, err = seed.LoadFixture(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
