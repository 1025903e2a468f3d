package tests

import (
	"path/filepath"
	"testing"
	"time"

	"green_erp/erp/schema"
	"green_erp/erp/services"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	api chi.Router
	db  *gorm.DB
}

const (
	adminUsername = "admin"
	adminPassword = "admin123"
	procUsername  = "proc_mgr"
	procPassword  = "proc123"
	sustUsername  = "sust_mgr"
	sustPassword  = "sust123"
)

func setupTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{DisableForeignKeyConstraintWhenMigrating: true})
	if err != nil {
		t.Fatal(err)
	}

	err = db.AutoMigrate(schema.AllEntities()...)
	if err != nil {
		t.Fatal(err)
	}

	greenErp := services.NewGreenErp(db, []byte("0a0b0c0d0e0f0a0b"))

	return &testEnv{api: greenErp.Routes(), db: db}
}

func (e *testEnv) initUsers(t *testing.T) {
	err := newHttpTestRequest(e.api, "POST", "/auth/init-users").Do(nil)
	if err != nil {
		t.Fatal(err)
	}
}

func (e *testEnv) loginAs(t *testing.T, username, password string) client {
	c := client{api: e.api}
	if err := c.login(username, password); err != nil {
		t.Fatal(err)
	}
	return c
}

func (e *testEnv) admin(t *testing.T) client {
	return e.loginAs(t, adminUsername, adminPassword)
}

func (e *testEnv) procurement(t *testing.T) client {
	return e.loginAs(t, procUsername, procPassword)
}

func (e *testEnv) sustainability(t *testing.T) client {
	return e.loginAs(t, sustUsername, sustPassword)
}

// insertItem bypasses the API so tests can set up catalog rows without caring
// about create-route permissions.
func (e *testEnv) insertItem(t *testing.T, name, sku string, stock int, co2PerUnit float64) schema.Item {
	item := schema.Item{
		Id:           uuid.New(),
		Name:         name,
		Sku:          sku,
		Stock:        stock,
		ReorderLevel: 10,
		Co2PerUnit:   co2PerUnit,
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}
	if result := e.db.Create(&item); result.Error != nil {
		t.Fatal(result.Error)
	}
	return item
}

func (e *testEnv) insertSupplier(t *testing.T, name string) schema.Supplier {
	supplier := schema.Supplier{
		Id:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	if result := e.db.Create(&supplier); result.Error != nil {
		t.Fatal(result.Error)
	}
	return supplier
}
