package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/chemist-backend/internal/config"
	"github.com/javajoker/chemist-backend/internal/models"
	"github.com/javajoker/chemist-backend/internal/repository"
)

var fixedNow = time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func testInventoryConfig() config.InventoryConfig {
	return config.InventoryConfig{ExpiringSoonDays: 30, DefaultMinimumStock: 10}
}

// storeSuite seeds an in-memory store with two categories and two manufacturers.
type storeSuite struct {
	suite.Suite
	ctx       context.Context
	store     *repository.Store
	today     models.Date
	tablets   *models.MedicineCategory
	syrups    *models.MedicineCategory
	vitamins  *models.MedicineCategory
	cipla     *models.Manufacturer
	sunPharma *models.Manufacturer
}

func (s *storeSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = repository.NewMemoryStore()
	s.today = models.Today(fixedClock)

	s.tablets = &models.MedicineCategory{Name: "Tablets"}
	s.syrups = &models.MedicineCategory{Name: "Syrups"}
	s.vitamins = &models.MedicineCategory{Name: "Vitamins"}
	s.cipla = &models.Manufacturer{Name: "Cipla Limited"}
	s.sunPharma = &models.Manufacturer{Name: "Sun Pharmaceutical"}

	s.Require().NoError(s.store.Categories.Create(s.ctx, s.tablets))
	s.Require().NoError(s.store.Categories.Create(s.ctx, s.syrups))
	s.Require().NoError(s.store.Categories.Create(s.ctx, s.vitamins))
	s.Require().NoError(s.store.Manufacturers.Create(s.ctx, s.cipla))
	s.Require().NoError(s.store.Manufacturers.Create(s.ctx, s.sunPharma))
}

type medicineFixture struct {
	name         string
	batch        string
	category     *models.MedicineCategory
	manufacturer *models.Manufacturer
	selling      string
	cost         string
	quantity     int
	minimumStock int
	expiryOffset int
}

// seed writes straight to the store so fixtures may already be expired.
func (s *storeSuite) seed(f medicineFixture) *models.Medicine {
	m := &models.Medicine{
		Name:           f.name,
		BatchNumber:    f.batch,
		SellingPrice:   decimal.RequireFromString(f.selling),
		Quantity:       f.quantity,
		MinimumStock:   f.minimumStock,
		CategoryID:     f.category.ID,
		ManufacturerID: f.manufacturer.ID,
		PurchaseDate:   s.today.AddDays(-90),
		ExpiryDate:     s.today.AddDays(f.expiryOffset),
	}
	if f.cost != "" {
		m.CostPrice = decimal.NewNullDecimal(decimal.RequireFromString(f.cost))
	}
	s.Require().NoError(s.store.Medicines.Create(s.ctx, m))
	return m
}

func intPtr(v int) *int { return &v }

func uintPtr(v uint) *uint { return &v }

func strPtr(v string) *string { return &v }

func decimalPtr(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func datePtr(d models.Date) *models.Date { return &d }
