package tests

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type itemEmissionsInfo struct {
	ItemId             uuid.UUID `json:"item_id"`
	ItemName           string    `json:"item_name"`
	Sku                string    `json:"sku"`
	Co2PerUnit         float64   `json:"co2_per_unit"`
	TotalCo2FromOrders float64   `json:"total_co2_from_orders"`
}

type supplierEmissionsInfo struct {
	SupplierId   uuid.UUID `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	TotalCo2     float64   `json:"total_co2"`
	OrderCount   int       `json:"order_count"`
}

type recommendationInfo struct {
	HighEmissionItem string   `json:"high_emission_item"`
	TotalCo2         float64  `json:"total_co2"`
	Suggestions      []string `json:"suggestions"`
	PotentialSavings float64  `json:"potential_savings"`
}

type recommendationsInfo struct {
	Recommendations []recommendationInfo `json:"recommendations"`
	AiScore         int                  `json:"ai_score"`
}

func createOrder(t *testing.T, c client, supplierId, itemId uuid.UUID, quantity int, unitPrice float64) orderInfo {
	var order orderInfo
	err := c.Post("/purchase-orders/").Json(map[string]interface{}{
		"supplier_id": supplierId,
		"items": []map[string]interface{}{
			{"item_id": itemId, "quantity": quantity, "unit_price": unitPrice},
		},
	}).Do(&order)
	require.NoError(t, err)
	return order
}

func TestEmissionsByItem(t *testing.T) {
	env := setupTestEnv(t)
	env.initUsers(t)

	itemA := env.insertItem(t, "Emitter A", "EMI-A", 0, 2.0)
	itemB := env.insertItem(t, "Emitter B", "EMI-B", 0, 1.0)
	itemC := env.insertItem(t, "Unordered", "EMI-C", 0, 5.0)
	supplier := env.insertSupplier(t, "Report Supplier")

	proc := env.procurement(t)
	createOrder(t, proc, supplier.Id, itemA.Id, 3, 1.0) // 6.0 co2
	createOrder(t, proc, supplier.Id, itemA.Id, 1, 1.0) // 2.0 co2
	createOrder(t, proc, supplier.Id, itemB.Id, 4, 1.0) // 4.0 co2

	sust := env.sustainability(t)

	var report []itemEmissionsInfo
	require.NoError(t, sust.Get("/reports/emissions-by-item").Do(&report))
	require.Len(t, report, 3)

	totals := make(map[uuid.UUID]float64)
	for _, entry := range report {
		totals[entry.ItemId] = entry.TotalCo2FromOrders
	}
	assert.Equal(t, 8.0, totals[itemA.Id])
	assert.Equal(t, 4.0, totals[itemB.Id])
	assert.Equal(t, 0.0, totals[itemC.Id])
}

func TestEmissionsBySupplier(t *testing.T) {
	env := setupTestEnv(t)
	env.initUsers(t)

	item := env.insertItem(t, "Shared Item", "SHA-1", 0, 2.0)
	supplierA := env.insertSupplier(t, "Supplier A")
	supplierB := env.insertSupplier(t, "Supplier B")

	proc := env.procurement(t)
	createOrder(t, proc, supplierA.Id, item.Id, 2, 1.0) // 4.0 co2
	createOrder(t, proc, supplierA.Id, item.Id, 3, 1.0) // 6.0 co2
	createOrder(t, proc, supplierB.Id, item.Id, 1, 1.0) // 2.0 co2

	sust := env.sustainability(t)

	var report []supplierEmissionsInfo
	require.NoError(t, sust.Get("/reports/emissions-by-supplier").Do(&report))
	require.Len(t, report, 2)

	bySupplier := make(map[uuid.UUID]supplierEmissionsInfo)
	for _, entry := range report {
		bySupplier[entry.SupplierId] = entry
	}

	assert.Equal(t, 10.0, bySupplier[supplierA.Id].TotalCo2)
	assert.Equal(t, 2, bySupplier[supplierA.Id].OrderCount)
	assert.Equal(t, "Supplier A", bySupplier[supplierA.Id].SupplierName)
	assert.Equal(t, 2.0, bySupplier[supplierB.Id].TotalCo2)
	assert.Equal(t, 1, bySupplier[supplierB.Id].OrderCount)
}

func TestRecommendationsPlaceholder(t *testing.T) {
	env := setupTestEnv(t)
	env.initUsers(t)

	sust := env.sustainability(t)

	var res recommendationsInfo
	require.NoError(t, sust.Get("/reports/ai-recommendations").Do(&res))

	assert.Equal(t, 0, res.AiScore)
	require.Len(t, res.Recommendations, 1)
	assert.Equal(t, "No Data Yet", res.Recommendations[0].HighEmissionItem)
	assert.Equal(t, 0.0, res.Recommendations[0].PotentialSavings)
}

func TestRecommendations(t *testing.T) {
	env := setupTestEnv(t)
	env.initUsers(t)

	item := env.insertItem(t, "Heavy Item", "HVY-1", 0, 10.0)
	supplier := env.insertSupplier(t, "Heavy Supplier")

	proc := env.procurement(t)
	createOrder(t, proc, supplier.Id, item.Id, 1, 1.0) // 10.0 co2
	createOrder(t, proc, supplier.Id, item.Id, 3, 1.0) // 30.0 co2
	createOrder(t, proc, supplier.Id, item.Id, 2, 1.0) // 20.0 co2
	createOrder(t, proc, supplier.Id, item.Id, 4, 1.0) // 40.0 co2

	sust := env.sustainability(t)

	var res recommendationsInfo
	require.NoError(t, sust.Get("/reports/ai-recommendations").Do(&res))

	// Top 3 orders by emissions, descending.
	assert.Equal(t, 60, res.AiScore)
	require.Len(t, res.Recommendations, 3)
	assert.Equal(t, 40.0, res.Recommendations[0].TotalCo2)
	assert.Equal(t, 30.0, res.Recommendations[1].TotalCo2)
	assert.Equal(t, 20.0, res.Recommendations[2].TotalCo2)
	assert.InDelta(t, 12.0, res.Recommendations[0].PotentialSavings, 1e-9)
	assert.Len(t, res.Recommendations[0].Suggestions, 3)
}

func TestReportRoleMatrix(t *testing.T) {
	env := setupTestEnv(t)
	env.initUsers(t)

	proc := env.procurement(t)
	sust := env.sustainability(t)
	admin := env.admin(t)

	endpoints := []string{
		"/reports/emissions-by-item",
		"/reports/emissions-by-supplier",
		"/reports/ai-recommendations",
	}

	for _, endpoint := range endpoints {
		require.ErrorIs(t, proc.Get(endpoint).Do(nil), ErrForbidden)
		require.NoError(t, sust.Get(endpoint).Do(nil))
		require.NoError(t, admin.Get(endpoint).Do(nil))
	}
}
