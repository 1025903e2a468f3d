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

type SupplierService struct {
	db     *gorm.DB
	tokens *auth.TokenService
}

func (s *SupplierService) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(s.tokens.AuthMiddleware()...)

	r.Get("/", s.List)
	r.Get("/{supplier_id}", s.Get)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequirePermission(auth.OpSupplierWrite))

		r.Post("/", s.Create)
		r.Put("/{supplier_id}", s.Update)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequirePermission(auth.OpSupplierDelete))

		r.Delete("/{supplier_id}", s.Delete)
	})

	return r
}

type supplierResponse struct {
	Id                  uuid.UUID `json:"id"`
	Name                string    `json:"name"`
	ContactEmail        string    `json:"contact_email"`
	Phone               string    `json:"phone"`
	Address             string    `json:"address"`
	SustainabilityScore float64   `json:"sustainability_score"`
	Certifications      string    `json:"certifications"`
	CreatedAt           time.Time `json:"created_at"`
}

func newSupplierResponse(supplier schema.Supplier) supplierResponse {
	return supplierResponse{
		Id:                  supplier.Id,
		Name:                supplier.Name,
		ContactEmail:        supplier.ContactEmail,
		Phone:               supplier.Phone,
		Address:             supplier.Address,
		SustainabilityScore: supplier.SustainabilityScore,
		Certifications:      supplier.Certifications,
		CreatedAt:           supplier.CreatedAt,
	}
}

func (s *SupplierService) List(w http.ResponseWriter, r *http.Request) {
	var suppliers []schema.Supplier
	result := s.db.Find(&suppliers)
	if result.Error != nil {
		slog.Error("sql error listing suppliers", "error", result.Error)
		utils.WriteJsonError(w, http.StatusInternalServerError, schema.ErrDbAccessFailed.Error())
		return
	}

	res := make([]supplierResponse, 0, len(suppliers))
	for _, supplier := range suppliers {
		res = append(res, newSupplierResponse(supplier))
	}

	utils.WriteJsonResponse(w, res)
}

func (s *SupplierService) Get(w http.ResponseWriter, r *http.Request) {
	supplierId, err := utils.URLParamUUID(r, "supplier_id")
	if err != nil {
		utils.WriteJsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	supplier, err := schema.GetSupplier(supplierId, s.db)
	if err != nil {
		if errors.Is(err, schema.ErrSupplierNotFound) {
			utils.WriteJsonError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.WriteJsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJsonResponse(w, newSupplierResponse(supplier))
}

type createSupplierRequest struct {
	Name                string  `json:"name"`
	ContactEmail        string  `json:"contact_email"`
	Phone               string  `json:"phone"`
	Address             string  `json:"address"`
	SustainabilityScore float64 `json:"sustainability_score"`
	Certifications      string  `json:"certifications"`
}

func (s *SupplierService) Create(w http.ResponseWriter, r *http.Request) {
	var params createSupplierRequest
	if !utils.ParseRequestBody(w, r, &params) {
		return
	}

	if params.Name == "" {
		utils.WriteJsonError(w, http.StatusBadRequest, "name required")
		return
	}

	supplier := schema.Supplier{
		Id:                  uuid.New(),
		Name:                params.Name,
		ContactEmail:        params.ContactEmail,
		Phone:               params.Phone,
		Address:             params.Address,
		SustainabilityScore: params.SustainabilityScore,
		Certifications:      params.Certifications,
		CreatedAt:           time.Now().UTC(),
	}

	if result := s.db.Create(&supplier); result.Error != nil {
		slog.Error("sql error creating supplier", "error", result.Error)
		utils.WriteJsonError(w, http.StatusInternalServerError, schema.ErrDbAccessFailed.Error())
		return
	}

	slog.Info("supplier created", "supplier_id", supplier.Id)

	utils.WriteJsonResponseStatus(w, http.StatusCreated, newSupplierResponse(supplier))
}

type updateSupplierRequest struct {
	Name                *string  `json:"name"`
	ContactEmail        *string  `json:"contact_email"`
	Phone               *string  `json:"phone"`
	Address             *string  `json:"address"`
	SustainabilityScore *float64 `json:"sustainability_score"`
	Certifications      *string  `json:"certifications"`
}

func (s *SupplierService) Update(w http.ResponseWriter, r *http.Request) {
	supplierId, err := utils.URLParamUUID(r, "supplier_id")
	if err != nil {
		utils.WriteJsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	var params updateSupplierRequest
	if !utils.ParseRequestBody(w, r, &params) {
		return
	}

	var supplier schema.Supplier

	err = s.db.Transaction(func(txn *gorm.DB) error {
		supplier, err = schema.GetSupplier(supplierId, txn)
		if err != nil {
			if errors.Is(err, schema.ErrSupplierNotFound) {
				return CodedError(err, http.StatusNotFound)
			}
			return CodedError(err, http.StatusInternalServerError)
		}

		if params.Name != nil {
			supplier.Name = *params.Name
		}
		if params.ContactEmail != nil {
			supplier.ContactEmail = *params.ContactEmail
		}
		if params.Phone != nil {
			supplier.Phone = *params.Phone
		}
		if params.Address != nil {
			supplier.Address = *params.Address
		}
		if params.SustainabilityScore != nil {
			supplier.SustainabilityScore = *params.SustainabilityScore
		}
		if params.Certifications != nil {
			supplier.Certifications = *params.Certifications
		}

		if result := txn.Save(&supplier); result.Error != nil {
			slog.Error("sql error updating supplier", "supplier_id", supplierId, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		return nil
	})

	if err != nil {
		writeError(w, err)
		return
	}

	utils.WriteJsonResponse(w, newSupplierResponse(supplier))
}

func (s *SupplierService) Delete(w http.ResponseWriter, r *http.Request) {
	supplierId, err := utils.URLParamUUID(r, "supplier_id")
	if err != nil {
		utils.WriteJsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	err = s.db.Transaction(func(txn *gorm.DB) error {
		if _, err := schema.GetSupplier(supplierId, txn); err != nil {
			if errors.Is(err, schema.ErrSupplierNotFound) {
				return CodedError(err, http.StatusNotFound)
			}
			return CodedError(err, http.StatusInternalServerError)
		}

		// Orders referencing the supplier are not checked or cascaded.
		if result := txn.Delete(&schema.Supplier{Id: supplierId}); result.Error != nil {
			slog.Error("sql error deleting supplier", "supplier_id", supplierId, "error", result.Error)
			return CodedError(schema.ErrDbAccessFailed, http.StatusInternalServerError)
		}

		return nil
	})

	if err != nil {
		writeError(w, err)
		return
	}

	slog.Info("supplier deleted", "supplier_id", supplierId)

	utils.WriteJsonResponse(w, map[string]string{"message": "Supplier deleted"})
}
