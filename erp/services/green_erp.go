package services

import (
	"log"
	"net/http"
	"os"

	"green_erp/erp/auth"
	"green_erp/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

type GreenErp struct {
	auth        AuthService
	item        ItemService
	supplier    SupplierService
	procurement ProcurementService
	report      ReportService
}

func NewGreenErp(db *gorm.DB, secret []byte) GreenErp {
	tokens := auth.NewTokenService(db, secret)

	return GreenErp{
		auth:        AuthService{db: db, tokens: tokens},
		item:        ItemService{db: db, tokens: tokens},
		supplier:    SupplierService{db: db, tokens: tokens},
		procurement: ProcurementService{db: db, tokens: tokens},
		report:      ReportService{db: db, tokens: tokens},
	}
}

func (g *GreenErp) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger: log.New(os.Stderr, "", log.LstdFlags), NoColor: false,
	}))

	r.Mount("/auth", g.auth.Routes())
	r.Mount("/items", g.item.Routes())
	r.Mount("/suppliers", g.supplier.Routes())
	r.Mount("/purchase-orders", g.procurement.Routes())
	r.Mount("/reports", g.report.Routes())

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJsonResponse(w, map[string]string{"message": "pong"})
	})

	return r
}
