package services

import (
	"errors"
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

type ProcurementService struct {
	db     *gorm.DB
	tokens *auth.TokenService
}

func (s *ProcurementService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(s.tokens.AuthMiddleware()...)

	r.Get("/", s.List)
	r.Get("/{order_id}", s.Get)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequirePermission(auth.OpOrderWrite))

		r.Post("/", s.Create)
		r.Put("/{order_id}", s.UpdateStatus)
	})

	return r
}

type orderLineResponse struct {
	Id              uuid.UUID `json:"id"`
	PurchaseOrderId uuid.UUID `json:"purchase_order_id"`
	ItemId          uuid.UUID `json:"item_id"`
	ItemName        string    `json:"item_name"`
	Quantity        int       `json:"quantity"`
	UnitPrice       float64   `json:"unit_price"`
	LineCo2         float64   `json:"line_co2"`
	LineTotal       float64   `json:"line_total"`
}

type orderResponse struct {
	Id           uuid.UUID           `json:"id"`
	SupplierId   uuid.UUID           `json:"supplier_id"`
	SupplierName string              `json:"supplier_name"`
	CreatedBy    uuid.UUID           `json:"created_by_user_id"`
	Status       string              `json:"status"`
	OrderDate    time.Time           `json:"order_date"`
	TotalAmount  float64             `json:"total_amount"`
	TotalCo2     float64             `json:"total_co2"`
	Items        []orderLineResponse `json:"items"`
	CreatedAt    time.Time           `json:"created_at"`
}

func newOrderResponse(order schema.PurchaseOrder) orderResponse {
	res := orderResponse{
		Id:          order.Id,
		SupplierId:  order.SupplierId,
		CreatedBy:   order.CreatedBy,
		Status:      order.Status,
		OrderDate:   order.OrderDate,
		TotalAmount: order.TotalAmount,
		TotalCo2:    order.TotalCo2,
		Items:       make([]orderLineResponse, 0, len(order.Items)),
		CreatedAt:   order.CreatedAt,
	}
	if order.Supplier != nil {
		res.SupplierName = order.Supplier.Name
	}
	for _, line := range order.Items {
		lineRes := orderLineResponse{
			Id:              line.Id,
			PurchaseOrderId: line.PurchaseOrderId,
			ItemId:          line.ItemId,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			LineCo2:         line.LineCo2,
			LineTotal:       line.LineTotal(),
		}
		if line.Item != nil {
			lineRes.ItemName = line.Item.Name
		}
		res.Items = append(res.Items, lineRes)
	}
	return res
}

func (s *ProcurementService) List(w http.ResponseWriter, r *http.Request) {
	var orders []schema.PurchaseOrder
	result := s.db.Preload("Items").Preload("Items.Item").Preload("Supplier").Find(&orders)
	if result.Error != nil {
		slog.Error("sql error listing purchase orders", "error", result.Error)
		utils.WriteJsonError(w, http.StatusInternalServerError, schema.ErrDbAccessFailed.Error())
		return
	}

	res := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		res = append(res, newOrderResponse(order))
	}

	utils.WriteJsonResponse(w, res)
}

func (s *ProcurementService) Get(w http.ResponseWriter, r *http.Request) {
	orderId, err := utils.URLParamUUID(r, "order_id")
	if err != nil {
		utils.WriteJsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := schema.GetOrder(orderId, s.db, true, true)
	if err != nil {
		if errors.Is(err, schema.ErrOrderNotFound) {
			utils.WriteJsonError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.WriteJsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJsonResponse(w, newOrderResponse(order))
}

type orderLineRequest struct {
	ItemId    uuid.UUID `json:"item_id"`
	Quantity  int       `json:"quantity"`
	UnitPrice float64   `json:"unit_price"`
}

type createOrderRequest struct {
	SupplierId uuid.UUID          `json:"supplier_id"`
	Status     string             `json:"status"`
	Items      []orderLineRequest `json:"items"`
}

func (s *ProcurementService) Create(w http.ResponseWriter, r *http.Request) {
	user, err := auth.UserFromContext(r)
	if err != nil {
		utils.WriteJsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var params createOrderRequest
	if !utils.ParseRequestBody(w, r, &params) {
		return
	}

	if params.SupplierId == uuid.Nil || len(params.Items) == 0 {
		utils.WriteJsonError(w, http.StatusBadRequest, "supplier_id and items required")
		return
	}

	status := params.Status
	if status == "" {
		status = schema.StatusDraft
	}
	if err := schema.CheckValidStatus(status); err != nil {
		utils.WriteJsonError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	now := time.Now().UTC()
	order := schema.PurchaseOrder{
		Id:         uuid.New(),
		SupplierId: params.SupplierId,
		CreatedBy:  user.Id,
		Status:     status,
		OrderDate:  now,
		CreatedAt:  now,
	}

	err = s.db.Transaction(func(txn *gorm.DB) error {
		for _, line := range params.Items {
			item, err := schema.GetItem(line.ItemId, txn)
			if err != nil {
				if errors.Is(err, schema.ErrItemNotFound) {
					// Unknown items are dropped from the order rather than
					// failing the request.
					slog.Info("skipping unknown item in order line", "item_id", line.ItemId)
					continue
				}
				return CodedError(err, http.StatusInternalServerError)
			}

			quantity := line.Quantity
			if quantity == 0 {
				quantity = 1
			}

			lineCo2 := float64(quantity) * item.Co2PerUnit

			order.Items = append(order.Items, schema.PurchaseOrderItem{
				Id:        uuid.New(),
				ItemId:    item.Id,
				Quantity:  quantity,
				UnitPrice: line.UnitPrice,
				LineCo2:   lineCo2,
			})

			order.TotalAmount += float64(quantity) * line.UnitPrice
			order.TotalCo2 += lineCo2
		}

		if result := txn.Create(&order); result.Error != nil {
			slog.Error("sql error creating purchase order", "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		return nil
	})

	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("purchase order created", "order_id", order.Id, "supplier_id", order.SupplierId,
		"total_amount", order.TotalAmount, "total_co2", order.TotalCo2)

	created, err := schema.GetOrder(order.Id, s.db, true, true)
	if err != nil {
		utils.WriteJsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJsonResponseStatus(w, http.StatusCreated, newOrderResponse(created))
}

type updateOrderStatusRequest struct {
	Status string `json:"status"`
}

func (s *ProcurementService) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderId, err := utils.URLParamUUID(r, "order_id")
	if err != nil {
		utils.WriteJsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	var params updateOrderStatusRequest
	if !utils.ParseRequestBody(w, r, &params) {
		return
	}

	if err := schema.CheckValidStatus(params.Status); err != nil {
		utils.WriteJsonError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	err = s.db.Transaction(func(txn *gorm.DB) error {
		order, err := schema.GetOrder(orderId, txn, true, false)
		if err != nil {
			if errors.Is(err, schema.ErrOrderNotFound) {
				return CodedError(err, http.StatusNotFound)
			}
			return CodedError(err, http.StatusInternalServerError)
		}

		// Stock is applied exactly once when the order first enters "received".
		// Moving out of "received" never decrements.
		if params.Status == schema.StatusReceived && order.Status != schema.StatusReceived {
			for _, line := range order.Items {
				result := txn.Model(&schema.Item{}).
					Where("id = ?", line.ItemId).
					Update("stock", gorm.Expr("stock + ?", line.Quantity))
				if result.Error != nil {
					slog.Error("sql error incrementing item stock", "item_id", line.ItemId, "error", result.Error)
					return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
				}
			}
		}

		result := txn.Model(&schema.PurchaseOrder{Id: orderId}).Update("status", params.Status)
		if result.Error != nil {
			slog.Error("sql error updating order status", "order_id", orderId, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		return nil
	})

	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("purchase order status updated", "order_id", orderId, "status", params.Status)

	updated, err := schema.GetOrder(orderId, s.db, true, true)
	if err != nil {
		utils.WriteJsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJsonResponse(w, newOrderResponse(updated))
}
