// internal/repository/filter.go
package repository

import (
	"strings"

	"gorm.io/gorm"

	"github.com/javajoker/chemist-backend/internal/models"
)

// MedicineFilter is a conjunction of optional criteria. Nil pointers and false
// flags are not applied. Today anchors the expiry based flags.
type MedicineFilter struct {
	CategoryID        *uint
	ManufacturerID    *uint
	Search            string
	Expired           bool
	ExpiringSoon      bool
	LowStock          bool
	LowStockThreshold *int
	PurchasedFrom     *models.Date
	PurchasedTo       *models.Date

	Today            models.Date
	ExpiringSoonDays int
}

func (f MedicineFilter) windowDays() int {
	if f.ExpiringSoonDays > 0 {
		return f.ExpiringSoonDays
	}
	return models.ExpiringSoonDays
}

// Matches evaluates the filter against a single medicine in memory.
func (f MedicineFilter) Matches(m *models.Medicine) bool {
	if f.CategoryID != nil && m.CategoryID != *f.CategoryID {
		return false
	}
	if f.ManufacturerID != nil && m.ManufacturerID != *f.ManufacturerID {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(m.Name), term) &&
			!strings.Contains(strings.ToLower(m.Description), term) &&
			!strings.Contains(strings.ToLower(m.BatchNumber), term) {
			return false
		}
	}
	if f.Expired && !m.IsExpired(f.Today) {
		return false
	}
	if f.ExpiringSoon && !m.IsExpiringSoon(f.Today, f.windowDays()) {
		return false
	}
	if f.LowStock && !m.IsLowStock() {
		return false
	}
	if f.LowStockThreshold != nil && m.Quantity > *f.LowStockThreshold {
		return false
	}
	if f.PurchasedFrom != nil && (m.PurchaseDate.IsZero() || m.PurchaseDate.Before(*f.PurchasedFrom)) {
		return false
	}
	if f.PurchasedTo != nil && (m.PurchaseDate.IsZero() || m.PurchaseDate.After(*f.PurchasedTo)) {
		return false
	}
	return true
}

// apply translates the filter into WHERE clauses.
func (f MedicineFilter) apply(query *gorm.DB) *gorm.DB {
	if f.CategoryID != nil {
		query = query.Where("medicines.category_id = ?", *f.CategoryID)
	}
	if f.ManufacturerID != nil {
		query = query.Where("medicines.manufacturer_id = ?", *f.ManufacturerID)
	}
	if f.Search != "" {
		searchTerm := "%" + escapeLike(strings.ToLower(f.Search)) + "%"
		query = query.Where(
			"LOWER(medicines.name) LIKE ? OR LOWER(medicines.description) LIKE ? OR LOWER(medicines.batch_number) LIKE ?",
			searchTerm, searchTerm, searchTerm,
		)
	}
	if f.Expired {
		query = query.Where("medicines.expiry_date < ?", f.Today)
	}
	if f.ExpiringSoon {
		query = query.Where("medicines.expiry_date BETWEEN ? AND ?", f.Today, f.Today.AddDays(f.windowDays()))
	}
	if f.LowStock {
		query = query.Where("medicines.quantity <= medicines.minimum_stock")
	}
	if f.LowStockThreshold != nil {
		query = query.Where("medicines.quantity <= ?", *f.LowStockThreshold)
	}
	if f.PurchasedFrom != nil {
		query = query.Where("medicines.purchase_date >= ?", *f.PurchasedFrom)
	}
	if f.PurchasedTo != nil {
		query = query.Where("medicines.purchase_date <= ?", *f.PurchasedTo)
	}
	return query
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
