package services

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"green_erp/erp/auth"
	"green_erp/erp/schema"
	"green_erp/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemService struct {
	db     *gorm.DB
	tokens *auth.TokenService
}

func (s *ItemService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(s.tokens.AuthMiddleware()...)

	r.Get("/", s.List)
	r.Get("/{item_id}", s.Get)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequirePermission(auth.OpItemWrite))

		r.Post("/", s.Create)
		r.Put("/{item_id}", s.Update)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequirePermission(auth.OpItemDelete))

		r.Delete("/{item_id}", s.Delete)
	})

	return r
}

type itemResponse struct {
	Id           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Sku          string    `json:"sku"`
	Category     string    `json:"category"`
	Unit         string    `json:"unit"`
	Stock        int       `json:"stock"`
	ReorderLevel int       `json:"reorder_level"`
	Co2PerUnit   float64   `json:"co2_per_unit"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

func newItemResponse(item schema.Item) itemResponse {
	return itemResponse{
		Id:           item.Id,
		Name:         item.Name,
		Sku:          item.Sku,
		Category:     item.Category,
		Unit:         item.Unit,
		Stock:        item.Stock,
		ReorderLevel: item.ReorderLevel,
		Co2PerUnit:   item.Co2PerUnit,
		IsActive:     item.IsActive,
		CreatedAt:    item.CreatedAt,
	}
}

func (s *ItemService) List(w http.ResponseWriter, r *http.Request) {
	var items []schema.Item
	result := s.db.Find(&items)
	if result.Error != nil {
		slog.Error("sql error listing items", "error", result.Error)
		utils.WriteJsonError(w, http.StatusInternalServerError, schema.ErrDbAccessFailed.Error())
		return
	}

	res := make([]itemResponse, 0, len(items))
	for _, item := range items {
		res = append(res, newItemResponse(item))
	}

	utils.WriteJsonResponse(w, res)
}

func (s *ItemService) Get(w http.ResponseWriter, r *http.Request) {
	itemId, err := utils.URLParamUUID(r, "item_id")
	if err != nil {
		utils.WriteJsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := schema.GetItem(itemId, s.db)
	if err != nil {
		if errors.Is(err, schema.ErrItemNotFound) {
			utils.WriteJsonError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.WriteJsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJsonResponse(w, newItemResponse(item))
}

type createItemRequest struct {
	Name         string  `json:"name"`
	Sku          string  `json:"sku"`
	Category     string  `json:"category"`
	Unit         string  `json:"unit"`
	Stock        int     `json:"stock"`
	ReorderLevel *int    `json:"reorder_level"`
	Co2PerUnit   float64 `json:"co2_per_unit"`
	IsActive     *bool   `json:"is_active"`
}

func (s *ItemService) Create(w http.ResponseWriter, r *http.Request) {
	var params createItemRequest
	if !utils.ParseRequestBody(w, r, &params) {
		return
	}

	if params.Name == "" || params.Sku == "" {
		utils.WriteJsonError(w, http.StatusBadRequest, "name and sku required")
		return
	}

	item := schema.Item{
		Id:           uuid.New(),
		Name:         params.Name,
		Sku:          params.Sku,
		Category:     params.Category,
		Unit:         params.Unit,
		Stock:        params.Stock,
		ReorderLevel: 10,
		Co2PerUnit:   params.Co2PerUnit,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if params.ReorderLevel != nil {
		item.ReorderLevel = *params.ReorderLevel
	}
	if params.IsActive != nil {
		item.IsActive = *params.IsActive
	}

	err := s.db.Transaction(func(txn *gorm.DB) error {
		if err := checkForDuplicateSku(txn, params.Sku); err != nil {
			return err
		}

		if result := txn.Create(&item); result.Error != nil {
			slog.Error("sql error creating item", "sku", params.Sku, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		return nil
	})

	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("item created", "item_id", item.Id, "sku", item.Sku)

	utils.WriteJsonResponseStatus(w, http.StatusCreated, newItemResponse(item))
}

func checkForDuplicateSku(txn *gorm.DB, sku string) error {
	var existing schema.Item
	result := txn.Limit(1).Find(&existing, "sku = ?", sku)
	if result.Error != nil {
		slog.Error("sql error checking for duplicate sku", "error", result.Error)
		return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
	}
	if result.RowsAffected != 0 {
		return CodedError(fmt.Errorf("an item with sku %v already exists", sku), http.StatusConflict)
	}
	return nil
}

// Fields absent from the request keep their prior values. The sku is fixed at
// creation and cannot be updated.
type updateItemRequest struct {
	Name         *string  `json:"name"`
	Category     *string  `json:"category"`
	Unit         *string  `json:"unit"`
	Stock        *int     `json:"stock"`
	ReorderLevel *int     `json:"reorder_level"`
	Co2PerUnit   *float64 `json:"co2_per_unit"`
	IsActive     *bool    `json:"is_active"`
}

func (s *ItemService) Update(w http.ResponseWriter, r *http.Request) {
	itemId, err := utils.URLParamUUID(r, "item_id")
	if err != nil {
		utils.WriteJsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	var params updateItemRequest
	if !utils.ParseRequestBody(w, r, &params) {
		return
	}

	var item schema.Item

	err = s.db.Transaction(func(txn *gorm.DB) error {
		item, err = schema.GetItem(itemId, txn)
		if err != nil {
			if errors.Is(err, schema.ErrItemNotFound) {
				return CodedError(err, http.StatusNotFound)
			}
			return CodedError(err, http.StatusInternalServerError)
		}

		if params.Name != nil {
			item.Name = *params.Name
		}
		if params.Category != nil {
			item.Category = *params.Category
		}
		if params.Unit != nil {
			item.Unit = *params.Unit
		}
		if params.Stock != nil {
			item.Stock = *params.Stock
		}
		if params.ReorderLevel != nil {
			item.ReorderLevel = *params.ReorderLevel
		}
		if params.Co2PerUnit != nil {
			item.Co2PerUnit = *params.Co2PerUnit
		}
		if params.IsActive != nil {
			item.IsActive = *params.IsActive
		}

		if result := txn.Save(&item); result.Error != nil {
			slog.Error("sql error updating item", "item_id", itemId, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		return nil
	})

	if err != nil {
		writeError(w, err)
		return
	}

	utils.WriteJsonResponse(w, newItemResponse(item))
}

func (s *ItemService) Delete(w http.ResponseWriter, r *http.Request) {
	itemId, err := utils.URLParamUUID(r, "item_id")
	if err != nil {
		utils.WriteJsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.db.Transaction(func(txn *gorm.DB) error {
		if _, err := schema.GetItem(itemId, txn); err != nil {
			if errors.Is(err, schema.ErrItemNotFound) {
				return CodedError(err, http.StatusNotFound)
			}
			return CodedError(err, http.StatusInternalServerError)
		}

		// Historical order lines referencing the item are left in place.
		if result := txn.Delete(&schema.Item{Id: itemId}); result.Error != nil {
			slog.Error("sql error deleting item", "item_id", itemId, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		return nil
	})

	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("item deleted", "item_id", itemId)

	utils.WriteJsonResponse(w, map[string]string{"message": "Item deleted"})
}
