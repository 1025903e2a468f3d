package tests

import (
	"time"

	"github.com/google/uuid"
)

// Response shapes used by the tests, mirroring the API payloads.

type userInfo struct {
	Id        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

type itemInfo struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Sku          string    `json:"sku"`
	Category     string    `json:"category"`
	Unit         string    `json:"unit"`
	Stock        int       `json:"stock"`
	ReorderLevel int       `json:"reorder_level"`
	Co2PerUnit   float64   `json:"co2_per_unit"`
	IsActive     bool      `json:"is_active"`
}

type supplierInfo struct {
	Id                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	ContactEmail        string    `json:"contact_email"`
	Phone               string    `json:"phone"`
	Address             string    `json:"address"`
	SustainabilityScore float64   `json:"sustainability_score"`
	Certifications      string    `json:"certifications"`
}

type orderLineInfo struct {
	Id        uuid.UUID `json:"id"`
	ItemId    uuid.UUID `json:"item_id"`
	ItemName  string    `json:"item_name"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
	LineCo2   float64   `json:"line_co2"`
	LineTotal float64   `json:"line_total"`
}

type orderInfo struct {
	Id           uuid.UUID       `json:"id"`
	SupplierId   uuid.UUID       `json:"supplier_id"`
	SupplierName string          `json:"supplier_name"`
	CreatedBy    uuid.UUID       `json:"created_by_user_id"`
	Status       string          `json:"status"`
	TotalAmount  float64         `json:"total_amount"`
	TotalCo2     float64         `json:"total_co2"`
	Items        []orderLineInfo `json:"items"`
}
