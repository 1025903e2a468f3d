package schema

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin          = "admin"
	RoleProcurement    = "procurement_manager"
	RoleSustainability = "sustainability_manager"
)

func CheckValidRole(role string) error {
	switch role {
	case RoleAdmin, RoleProcurement, RoleSustainability:
		return nil
	}
	return fmt.Errorf("invalid role '%v'", role)
}

const (
	StatusDraft     = "draft"
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusReceived  = "received"
	StatusCancelled = "cancelled"
)

func CheckValidStatus(status string) error {
	switch status {
	case StatusDraft, StatusPending, StatusApproved, StatusReceived, StatusCancelled:
		return nil
	}
	return fmt.Errorf("invalid order status '%v'", status)
}

type User struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	Username string `gorm:"unique;size:80;not null"`
	Password []byte
	Role     string `gorm:"size:50;not null"`

	CreatedAt time.Time
}

type Item struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name     string `gorm:"size:120;not null"`
	Sku      string `gorm:"unique;size:50;not null"`
	Category string `gorm:"size:80"`
	Unit     string `gorm:"size:20"`

	Stock        int `gorm:"not null;default:0"`
	ReorderLevel int `gorm:"not null;default:10"`

	Co2PerUnit float64 `gorm:"not null;default:0"`
	IsActive   bool    `gorm:"not null;default:true"`

	CreatedAt time.Time
}

type Supplier struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name         string `gorm:"size:120;not null"`
	ContactEmail string `gorm:"size:120"`
	Phone        string `gorm:"size:20"`
	Address      string `gorm:"size:255"`

	SustainabilityScore float64 `gorm:"default:0"`
	Certifications      string  `gorm:"size:255"`

	CreatedAt time.Time
}

type PurchaseOrder struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	SupplierId uuid.UUID `gorm:"type:uuid;not null"`
	Supplier   *Supplier

	CreatedBy uuid.UUID `gorm:"type:uuid;not null"`
	User      *User     `gorm:"foreignKey:CreatedBy"`

	Status    string `gorm:"size:50;not null;default:'draft'"`
	OrderDate time.Time

	TotalAmount float64 `gorm:"not null;default:0"`
	TotalCo2    float64 `gorm:"not null;default:0"`

	Items []PurchaseOrderItem

	CreatedAt time.Time
}

type PurchaseOrderItem struct {
	Id uuid.UUID `gorm:"type:uuid;primaryKey"`

	PurchaseOrderId uuid.UUID `gorm:"type:uuid;not null;index"`

	ItemId uuid.UUID `gorm:"type:uuid;not null;index"`
	Item   *Item

	Quantity  int     `gorm:"not null"`
	UnitPrice float64 `gorm:"not null"`
	LineCo2   float64 `gorm:"not null;default:0"`
}

// LineTotal is the monetary value of the line, it is derived rather than stored.
func (i *PurchaseOrderItem) LineTotal() float64 {
	return float64(i.Quantity) * i.UnitPrice
}

// AllEntities lists every table for AutoMigrate calls, kept in one place so that
// the server, the migration runner, and the tests stay in sync.
func AllEntities() []interface{} {
	return []interface{}{
		&User{}, &Item{}, &Supplier{}, &PurchaseOrder{}, &PurchaseOrderItem{},
	}
}
