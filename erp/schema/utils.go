package schema

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrItemNotFound     = errors.New("item not found")
	ErrSupplierNotFound = errors.New("supplier not found")
	ErrOrderNotFound    = errors.New("purchase order not found")
	ErrDbAccessFailed   = errors.New("db access failed")
)

func GetUser(userId uuid.UUID, db *gorm.DB) (User, error) {
	var user User

	result := db.First(&user, "id = ?", userId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return user, ErrUserNotFound
		}
		slog.Error("sql error in get user", "user_id", userId, "error", result.Error)
		return user, ErrDbAccessFailed
	}

	return user, nil
}

func GetUserByUsername(username string, db *gorm.DB) (User, error) {
	var user User

	result := db.First(&user, "username = ?", username)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return user, ErrUserNotFound
		}
		slog.Error("sql error in get user by username", "error", result.Error)
		return user, ErrDbAccessFailed
	}

	return user, nil
}

func GetItem(itemId uuid.UUID, db *gorm.DB) (Item, error) {
	var item Item

	result := db.First(&item, "id = ?", itemId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return item, ErrItemNotFound
		}
		slog.Error("sql error in get item", "item_id", itemId, "error", result.Error)
		return item, ErrDbAccessFailed
	}

	return item, nil
}

func GetSupplier(supplierId uuid.UUID, db *gorm.DB) (Supplier, error) {
	var supplier Supplier

	result := db.First(&supplier, "id = ?", supplierId)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return supplier, ErrSupplierNotFound
		}
		slog.Error("sql error in get supplier", "supplier_id", supplierId, "error", result.Error)
		return supplier, ErrDbAccessFailed
	}

	return supplier, nil
}

func GetOrder(orderId uuid.UUID, db *gorm.DB, loadItems, loadSupplier bool) (PurchaseOrder, error) {
	var order PurchaseOrder

	var result *gorm.DB = db
	if loadItems {
		result = result.Preload("Items").Preload("Items.Item")
	}
	if loadSupplier {
		result = result.Preload("Supplier")
	}
	result = result.First(&order, "id = ?", orderId)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return order, ErrOrderNotFound
		}
		slog.Error("sql error in get order", "order_id", orderId, "error", result.Error)
		return order, ErrDbAccessFailed
	}

	return order, nil
}
