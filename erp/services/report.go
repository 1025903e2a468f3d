package services

import (
	"fmt"
	"log/slog"
	"net/http"

	"green_erp/erp/auth"
	"green_erp/erp/schema"
	"green_erp/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReportService is read-only, it derives everything from persisted rows.
type ReportService struct {
	db     *gorm.DB
	tokens *auth.TokenService
}

func (s *ReportService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(s.tokens.AuthMiddleware()...)
	r.Use(auth.RequirePermission(auth.OpReportRead))

	r.Get("/emissions-by-item", s.EmissionsByItem)
	r.Get("/emissions-by-supplier", s.EmissionsBySupplier)
	r.Get("/ai-recommendations", s.Recommendations)

	return r
}

type itemEmissions struct {
	ItemId             uuid.UUID `json:"item_id"`
	ItemName           string    `json:"item_name"`
	Sku                string    `json:"sku"`
	Co2PerUnit         float64   `json:"co2_per_unit"`
	TotalCo2FromOrders float64   `json:"total_co2_from_orders"`
}

func (s *ReportService) EmissionsByItem(w http.ResponseWriter, r *http.Request) {
	var items []schema.Item
	if result := s.db.Find(&items); result.Error != nil {
		slog.Error("sql error listing items for emissions report", "error", result.Error)
		utils.WriteJsonError(w, http.StatusInternalServerError, schema.ErrDbAccessFailed.Error())
		return
	}

	var sums []struct {
		ItemId   uuid.UUID
		TotalCo2 float64
	}
	result := s.db.Model(&schema.PurchaseOrderItem{}).
		Select("item_id, sum(line_co2) as total_co2").
		Group("item_id").
		Scan(&sums)
	if result.Error != nil {
		slog.Error("sql error aggregating line emissions", "error", result.Error)
		utils.WriteJsonError(w, http.StatusInternalServerError, schema.ErrDbAccessFailed.Error())
		return
	}

	totals := make(map[uuid.UUID]float64, len(sums))
	for _, sum := range sums {
		totals[sum.ItemId] = sum.TotalCo2
	}

	res := make([]itemEmissions, 0, len(items))
	for _, item := range items {
		res = append(res, itemEmissions{
			ItemId:             item.Id,
			ItemName:           item.Name,
			Sku:                item.Sku,
			Co2PerUnit:         item.Co2PerUnit,
			TotalCo2FromOrders: totals[item.Id],
		})
	}

	utils.WriteJsonResponse(w, res)
}

type supplierEmissions struct {
	SupplierId   uuid.UUID `json:"supplier_id"`
	SupplierName string    `json:"supplier_name"`
	TotalCo2     float64   `json:"total_co2"`
	OrderCount   int       `json:"order_count"`
}

func (s *ReportService) EmissionsBySupplier(w http.ResponseWriter, r *http.Request) {
	var orders []schema.PurchaseOrder
	if result := s.db.Preload("Supplier").Find(&orders); result.Error != nil {
		slog.Error("sql error listing orders for emissions report", "error", result.Error)
		utils.WriteJsonError(w, http.StatusInternalServerError, schema.ErrDbAccessFailed.Error())
		return
	}

	bySupplier := make(map[uuid.UUID]*supplierEmissions)
	ordering := make([]uuid.UUID, 0)
	for _, order := range orders {
		entry, ok := bySupplier[order.SupplierId]
		if !ok {
			entry = &supplierEmissions{SupplierId: order.SupplierId}
			if order.Supplier != nil {
				entry.SupplierName = order.Supplier.Name
			}
			bySupplier[order.SupplierId] = entry
			ordering = append(ordering, order.SupplierId)
		}
		entry.TotalCo2 += order.TotalCo2
		entry.OrderCount++
	}

	res := make([]supplierEmissions, 0, len(ordering))
	for _, supplierId := range ordering {
		res = append(res, *bySupplier[supplierId])
	}

	utils.WriteJsonResponse(w, res)
}

type recommendation struct {
	HighEmissionItem string   `json:"high_emission_item"`
	TotalCo2         float64  `json:"total_co2"`
	Suggestions      []string `json:"suggestions"`
	PotentialSavings float64  `json:"potential_savings"`
}

type recommendationsResponse struct {
	Recommendations []recommendation `json:"recommendations"`
	AiScore         int              `json:"ai_score"`
}

func (s *ReportService) Recommendations(w http.ResponseWriter, r *http.Request) {
	var orders []schema.PurchaseOrder
	result := s.db.Preload("Supplier").
		Where("total_co2 > 0").
		Order("total_co2 DESC").
		Limit(3).
		Find(&orders)
	if result.Error != nil {
		slog.Error("sql error listing orders for recommendations", "error", result.Error)
		utils.WriteJsonError(w, http.StatusInternalServerError, schema.ErrDbAccessFailed.Error())
		return
	}

	recommendations := make([]recommendation, 0, len(orders))
	for _, order := range orders {
		supplierName := ""
		if order.Supplier != nil {
			supplierName = order.Supplier.Name
		}
		recommendations = append(recommendations, recommendation{
			HighEmissionItem: fmt.Sprintf("Order #%v (%v)", order.Id, supplierName),
			TotalCo2:         order.TotalCo2,
			Suggestions: []string{
				"Switch to low-CO2 suppliers",
				"Review high-emission purchase orders",
				fmt.Sprintf("Target 20%% reduction (%.1f kg CO2e)", order.TotalCo2*0.2),
			},
			PotentialSavings: order.TotalCo2 * 0.3,
		})
	}

	if len(recommendations) == 0 {
		recommendations = []recommendation{{
			HighEmissionItem: "No Data Yet",
			TotalCo2:         0,
			Suggestions: []string{
				"Create purchase orders to unlock insights",
				"Add items with CO2 factors first",
				"Recommendations analyze your real procurement data",
			},
			PotentialSavings: 0,
		}}
	}

	utils.WriteJsonResponse(w, recommendationsResponse{
		Recommendations: recommendations,
		AiScore:         len(orders) * 20,
	})
}
