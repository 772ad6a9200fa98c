package repository

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/chemist-backend/internal/models"
)

type MemoryStoreTestSuite struct {
	suite.Suite
	ctx       context.Context
	store     *Store
	today     models.Date
	tablets   *models.MedicineCategory
	syrups    *models.MedicineCategory
	cipla     *models.Manufacturer
	sunPharma *models.Manufacturer
}

func (s *MemoryStoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewMemoryStore()
	s.today, _ = models.ParseDate("2026-10-18")

	s.tablets = &models.MedicineCategory{Name: "Tablets"}
	s.syrups = &models.MedicineCategory{Name: "Syrups"}
	s.cipla = &models.Manufacturer{Name: "Cipla Limited"}
	s.sunPharma = &models.Manufacturer{Name: "Sun Pharmaceutical"}
	s.Require().NoError(s.store.Categories.Create(s.ctx, s.tablets))
	s.Require().NoError(s.store.Categories.Create(s.ctx, s.syrups))
	s.Require().NoError(s.store.Manufacturers.Create(s.ctx, s.cipla))
	s.Require().NoError(s.store.Manufacturers.Create(s.ctx, s.sunPharma))
}

func (s *MemoryStoreTestSuite) addMedicine(name, batch string, category *models.MedicineCategory, manufacturer *models.Manufacturer, expiryOffset, quantity int) *models.Medicine {
	m := &models.Medicine{
		Name:           name,
		BatchNumber:    batch,
		SellingPrice:   decimal.RequireFromString("10.00"),
		Quantity:       quantity,
		MinimumStock:   10,
		CategoryID:     category.ID,
		ManufacturerID: manufacturer.ID,
		PurchaseDate:   s.today.AddDays(-60),
		ExpiryDate:     s.today.AddDays(expiryOffset),
	}
	s.Require().NoError(s.store.Medicines.Create(s.ctx, m))
	return m
}

func (s *MemoryStoreTestSuite) TestCreateAssignsIDsAndHydratesRelations() {
	m := s.addMedicine("Paracetamol", "PCM-001", s.tablets, s.cipla, 100, 50)
	s.NotZero(m.ID)
	s.False(m.CreatedAt.IsZero())

	found, err := s.store.Medicines.FindByID(s.ctx, m.ID)
	s.Require().NoError(err)
	s.Require().NotNil(found.Category)
	s.Equal("Tablets", found.Category.Name)
	s.Require().NotNil(found.Manufacturer)
	s.Equal("Cipla Limited", found.Manufacturer.Name)
}

func (s *MemoryStoreTestSuite) TestDuplicateBatchNumberRejected() {
	s.addMedicine("Paracetamol", "PCM-001", s.tablets, s.cipla, 100, 50)

	err := s.store.Medicines.Create(s.ctx, &models.Medicine{
		Name: "Other", BatchNumber: "PCM-001", CategoryID: s.tablets.ID, ManufacturerID: s.cipla.ID,
		ExpiryDate: s.today.AddDays(10),
	})
	s.ErrorIs(err, ErrDuplicate)

	total, err := s.store.Medicines.Count(s.ctx, MedicineFilter{})
	s.Require().NoError(err)
	s.Equal(int64(1), total)

	taken, err := s.store.Medicines.BatchNumberTaken(s.ctx, "PCM-001", 0)
	s.Require().NoError(err)
	s.True(taken)
}

func (s *MemoryStoreTestSuite) TestUnknownReferenceRejected() {
	err := s.store.Medicines.Create(s.ctx, &models.Medicine{
		Name: "Ghost", BatchNumber: "G-1", CategoryID: s.tablets.ID, ManufacturerID: 9999,
		ExpiryDate: s.today.AddDays(10),
	})
	s.ErrorIs(err, ErrReferenced)
}

func (s *MemoryStoreTestSuite) TestCategoryFilterIsExact() {
	s.addMedicine("Paracetamol", "PCM-001", s.tablets, s.cipla, 100, 50)
	s.addMedicine("Cough Syrup", "CS-001", s.syrups, s.cipla, 100, 50)
	s.addMedicine("Ibuprofen", "IBU-001", s.tablets, s.sunPharma, 10, 5)

	medicines, total, err := s.store.Medicines.List(s.ctx, MedicineFilter{CategoryID: &s.tablets.ID, Today: s.today}, Page{Page: 1, PerPage: 10})
	s.Require().NoError(err)
	s.Equal(int64(2), total)
	for _, m := range medicines {
		s.Equal(s.tablets.ID, m.CategoryID)
	}
}

func (s *MemoryStoreTestSuite) TestListOrdersByExpiryThenID() {
	late := s.addMedicine("Late", "L-1", s.tablets, s.cipla, 300, 50)
	soon := s.addMedicine("Soon", "S-1", s.tablets, s.cipla, 5, 50)
	sameDay := s.addMedicine("SameDay", "S-2", s.tablets, s.cipla, 5, 50)

	medicines, _, err := s.store.Medicines.List(s.ctx, MedicineFilter{Today: s.today}, Page{Page: 1, PerPage: 10})
	s.Require().NoError(err)
	s.Require().Len(medicines, 3)
	s.Equal([]uint{soon.ID, sameDay.ID, late.ID}, []uint{medicines[0].ID, medicines[1].ID, medicines[2].ID})
}

func (s *MemoryStoreTestSuite) TestPaginationCoversEveryRowOnce() {
	for i := 0; i < 23; i++ {
		s.addMedicine(fmt.Sprintf("Medicine %02d", i), fmt.Sprintf("B-%02d", i), s.tablets, s.cipla, i%7, 50)
	}

	const perPage = 5
	seen := make(map[uint]bool)
	var collected []uint
	for page := 1; page <= 5; page++ {
		medicines, total, err := s.store.Medicines.List(s.ctx, MedicineFilter{Today: s.today}, Page{Page: page, PerPage: perPage})
		s.Require().NoError(err)
		s.Equal(int64(23), total)
		for _, m := range medicines {
			s.False(seen[m.ID], "duplicate id %d", m.ID)
			seen[m.ID] = true
			collected = append(collected, m.ID)
		}
	}
	s.Len(collected, 23)

	beyond, total, err := s.store.Medicines.List(s.ctx, MedicineFilter{Today: s.today}, Page{Page: 6, PerPage: perPage})
	s.Require().NoError(err)
	s.Empty(beyond)
	s.Equal(int64(23), total)

	overflow, total, err := s.store.Medicines.List(s.ctx, MedicineFilter{Today: s.today}, Page{Page: math.MaxInt64/perPage + 2, PerPage: perPage})
	s.Require().NoError(err)
	s.Empty(overflow)
	s.Equal(int64(23), total)
}

func (s *MemoryStoreTestSuite) TestUpdateQuantityAbortsOnError() {
	m := s.addMedicine("Paracetamol", "PCM-001", s.tablets, s.cipla, 100, 15)

	_, err := s.store.Medicines.UpdateQuantity(s.ctx, m.ID, func(medicine *models.Medicine) error {
		medicine.Quantity = -5
		return fmt.Errorf("rejected")
	})
	s.Error(err)

	found, err := s.store.Medicines.FindByID(s.ctx, m.ID)
	s.Require().NoError(err)
	s.Equal(15, found.Quantity)

	updated, err := s.store.Medicines.UpdateQuantity(s.ctx, m.ID, func(medicine *models.Medicine) error {
		medicine.Quantity += 5
		return nil
	})
	s.Require().NoError(err)
	s.Equal(20, updated.Quantity)

	_, err = s.store.Medicines.UpdateQuantity(s.ctx, 9999, func(*models.Medicine) error { return nil })
	s.ErrorIs(err, ErrNotFound)
}

func (s *MemoryStoreTestSuite) TestReferencedCatalogEntriesCannotBeDeleted() {
	s.addMedicine("Paracetamol", "PCM-001", s.tablets, s.cipla, 100, 50)

	s.ErrorIs(s.store.Categories.Delete(s.ctx, s.tablets.ID), ErrReferenced)
	s.ErrorIs(s.store.Manufacturers.Delete(s.ctx, s.cipla.ID), ErrReferenced)
	s.NoError(s.store.Categories.Delete(s.ctx, s.syrups.ID))
	s.NoError(s.store.Manufacturers.Delete(s.ctx, s.sunPharma.ID))
	s.ErrorIs(s.store.Categories.Delete(s.ctx, s.syrups.ID), ErrNotFound)
}

func (s *MemoryStoreTestSuite) TestCatalogNamesUnique() {
	s.ErrorIs(s.store.Categories.Create(s.ctx, &models.MedicineCategory{Name: "Tablets"}), ErrDuplicate)
	s.ErrorIs(s.store.Manufacturers.Create(s.ctx, &models.Manufacturer{Name: "Cipla Limited"}), ErrDuplicate)

	s.syrups.Name = "Tablets"
	s.ErrorIs(s.store.Categories.Save(s.ctx, s.syrups), ErrDuplicate)

	found, err := s.store.Categories.FindByName(s.ctx, "Syrups")
	s.Require().NoError(err)
	s.Equal("Syrups", found.Name)

	categories, err := s.store.Categories.List(s.ctx)
	s.Require().NoError(err)
	s.Equal("Syrups", categories[0].Name)
	s.Equal("Tablets", categories[1].Name)
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreTestSuite))
}

func TestFilterMatches(t *testing.T) {
	today, err := models.ParseDate("2026-10-18")
	require.NoError(t, err)
	from, _ := models.ParseDate("2026-01-01")
	to, _ := models.ParseDate("2026-06-30")
	categoryID, manufacturerID, threshold := uint(1), uint(2), 20

	m := &models.Medicine{
		Name:           "Amoxicillin",
		Description:    "Broad spectrum ANTIBIOTIC",
		BatchNumber:    "AMX-2026-07",
		Quantity:       8,
		MinimumStock:   10,
		CategoryID:     1,
		ManufacturerID: 2,
		PurchaseDate:   from.AddDays(30),
		ExpiryDate:     today.AddDays(-3),
	}

	tests := []struct {
		name   string
		filter MedicineFilter
		want   bool
	}{
		{"no filters", MedicineFilter{}, true},
		{"category match", MedicineFilter{CategoryID: &categoryID}, true},
		{"manufacturer mismatch", MedicineFilter{ManufacturerID: &categoryID}, false},
		{"manufacturer match", MedicineFilter{ManufacturerID: &manufacturerID}, true},
		{"search name", MedicineFilter{Search: "amoxi"}, true},
		{"search description case insensitive", MedicineFilter{Search: "antibiotic"}, true},
		{"search batch", MedicineFilter{Search: "2026-07"}, true},
		{"search miss", MedicineFilter{Search: "aspirin"}, false},
		{"expired", MedicineFilter{Expired: true, Today: today}, true},
		{"expiring soon excludes expired", MedicineFilter{ExpiringSoon: true, Today: today}, false},
		{"low stock", MedicineFilter{LowStock: true}, true},
		{"threshold", MedicineFilter{LowStockThreshold: &threshold}, true},
		{"purchase range", MedicineFilter{PurchasedFrom: &from, PurchasedTo: &to}, true},
		{"purchase before range", MedicineFilter{PurchasedFrom: &to}, false},
		{"conjunction fails on one criterion", MedicineFilter{CategoryID: &categoryID, Search: "aspirin"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(m))
		})
	}
}
