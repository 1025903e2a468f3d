// Package seed loads demo catalog data from a yaml fixture so a fresh install
// has items and suppliers to work with before any are entered by hand.
package seed

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"green_erp/erp/schema"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type ItemFixture struct {
	Name         string  `yaml:"name"`
	Sku          string  `yaml:"sku"`
	Category     string  `yaml:"category"`
	Unit         string  `yaml:"unit"`
	Stock        int     `yaml:"stock"`
	ReorderLevel int     `yaml:"reorder_level"`
	Co2PerUnit   float64 `yaml:"co2_per_unit"`
}

type SupplierFixture struct {
	Name                string  `yaml:"name"`
	ContactEmail        string  `yaml:"contact_email"`
	Phone               string  `yaml:"phone"`
	Address             string  `yaml:"address"`
	SustainabilityScore float64 `yaml:"sustainability_score"`
	Certifications      string  `yaml:"certifications"`
}

type Fixture struct {
	Items     []ItemFixture     `yaml:"items"`
	Suppliers []SupplierFixture `yaml:"suppliers"`
}

func LoadFixture(path string) (Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("error reading seed fixture '%v': %w", path, err)
	}

	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return Fixture{}, fmt.Errorf("error parsing seed fixture '%v': %w", path, err)
	}

	for _, item := range fixture.Items {
		if item.Name == "" || item.Sku == "" {
			return Fixture{}, fmt.Errorf("seed fixture item missing name or sku")
		}
	}
	for _, supplier := range fixture.Suppliers {
		if supplier.Name == "" {
			return Fixture{}, fmt.Errorf("seed fixture supplier missing name")
		}
	}

	return fixture, nil
}

// Apply inserts fixture rows that do not already exist. Items are matched by
// sku and suppliers by name, so re-applying the same fixture is a no-op.
func Apply(db *gorm.DB, fixture Fixture) error {
	return db.Transaction(func(txn *gorm.DB) error {
		for _, entry := range fixture.Items {
			var existing schema.Item
			result := txn.Limit(1).Find(&existing, "sku = ?", entry.Sku)
			if result.Error != nil {
				return fmt.Errorf("error checking for existing item '%v': %w", entry.Sku, result.Error)
			}
			if result.RowsAffected != 0 {
				continue
			}

			reorderLevel := entry.ReorderLevel
			if reorderLevel == 0 {
				reorderLevel = 10
			}

			item := schema.Item{
				Id:           uuid.New(),
				Name:         entry.Name,
				Sku:          entry.Sku,
				Category:     entry.Category,
				Unit:         entry.Unit,
				Stock:        entry.Stock,
				ReorderLevel: reorderLevel,
				Co2PerUnit:   entry.Co2PerUnit,
				IsActive:     true,
				CreatedAt:    time.Now().UTC(),
			}
			if result := txn.Create(&item); result.Error != nil {
				return fmt.Errorf("error creating seed item '%v': %w", entry.Sku, result.Error)
			}
			slog.Info("seeded item", "sku", entry.Sku)
		}

		for _, entry := range fixture.Suppliers {
			var existing schema.Supplier
			result := txn.Limit(1).Find(&existing, "name = ?", entry.Name)
			if result.Error != nil {
				return fmt.Errorf("error checking for existing supplier '%v': %w", entry.Name, result.Error)
			}
			if result.RowsAffected != 0 {
				continue
			}

			supplier := schema.Supplier{
				Id:                  uuid.New(),
				Name:                entry.Name,
				ContactEmail:        entry.ContactEmail,
				Phone:               entry.Phone,
				Address:             entry.Address,
				SustainabilityScore: entry.SustainabilityScore,
				Certifications:      entry.Certifications,
				CreatedAt:           time.Now().UTC(),
			}
			if result := txn.Create(&supplier); result.Error != nil {
				return fmt.Errorf("error creating seed supplier '%v': %w", entry.Name, result.Error)
			}
			slog.Info("seeded supplier", "name", entry.Name)
		}

		return nil
	})
}
