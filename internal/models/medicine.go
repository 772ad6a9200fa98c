// internal/models/medicine.go
package models

import (
	"github.com/shopspring/decimal"
)

// ExpiringSoonDays is the default lookahead window for expiry alerts.
const ExpiringSoonDays = 30

// DefaultMinimumStock applies when a medicine is created without a threshold.
const DefaultMinimumStock = 10

var hundred = decimal.NewFromInt(100)

type Medicine struct {
	BaseModel
	Name           string              `json:"name" gorm:"size:100;not null;index"`
	Description    string              `json:"description" gorm:"type:text"`
	BatchNumber    string              `json:"batch_number" gorm:"size:50;not null;uniqueIndex:idx_medicines_batch_number"`
	CostPrice      decimal.NullDecimal `json:"cost_price" gorm:"type:decimal(10,2)"`
	SellingPrice   decimal.Decimal     `json:"selling_price" gorm:"type:decimal(10,2);not null"`
	Quantity       int                 `json:"quantity" gorm:"not null;default:0"`
	MinimumStock   int                 `json:"minimum_stock" gorm:"not null;default:10"`
	Dosage         string              `json:"dosage" gorm:"size:50"`
	Form           string              `json:"form" gorm:"size:30"`
	ManufacturerID uint                `json:"manufacturer_id" gorm:"not null;index"`
	CategoryID     uint                `json:"category_id" gorm:"not null;index"`
	PurchaseDate   Date                `json:"purchase_date" gorm:"type:date"`
	ExpiryDate     Date                `json:"expiry_date" gorm:"type:date;not null;index"`

	// Relationships
	Manufacturer *Manufacturer    `json:"manufacturer,omitempty" gorm:"foreignKey:ManufacturerID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Category     *MedicineCategory `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (Medicine) TableName() string {
	return "medicines"
}

// IsExpired reports whether the expiry date lies strictly before today.
func (m *Medicine) IsExpired(today Date) bool {
	return m.ExpiryDate.Before(today)
}

// IsExpiringSoon reports whether expiry falls in [today, today+days].
func (m *Medicine) IsExpiringSoon(today Date, days int) bool {
	return !m.ExpiryDate.Before(today) && !m.ExpiryDate.After(today.AddDays(days))
}

// DaysToExpiry is negative for expired stock.
func (m *Medicine) DaysToExpiry(today Date) int {
	return today.DaysUntil(m.ExpiryDate)
}

func (m *Medicine) IsLowStock() bool {
	return m.Quantity <= m.MinimumStock
}

// ProfitMargin is (selling-cost)/cost*100 rounded to 2 places, or 0 without a positive cost.
func (m *Medicine) ProfitMargin() decimal.Decimal {
	if !m.CostPrice.Valid || !m.CostPrice.Decimal.IsPositive() {
		return decimal.Zero
	}
	cost := m.CostPrice.Decimal
	return m.SellingPrice.Sub(cost).Div(cost).Mul(hundred).Round(2)
}

// InventoryValue is selling price times quantity on hand.
func (m *Medicine) InventoryValue() decimal.Decimal {
	return m.SellingPrice.Mul(decimal.NewFromInt(int64(m.Quantity)))
}

// CostValue is cost price times quantity; ok is false when no cost price is recorded.
func (m *Medicine) CostValue() (value decimal.Decimal, ok bool) {
	if !m.CostPrice.Valid {
		return decimal.Zero, false
	}
	return m.CostPrice.Decimal.Mul(decimal.NewFromInt(int64(m.Quantity))), true
}

// EntityRef is the compact form of a category or manufacturer embedded in reads.
type EntityRef struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// MedicineResponse is the read shape of a medicine, derived fields included.
type MedicineResponse struct {
	ID             uint       `json:"id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	BatchNumber    string     `json:"batch_number"`
	CostPrice      *Amount    `json:"cost_price"`
	SellingPrice   Amount     `json:"selling_price"`
	Quantity       int        `json:"quantity"`
	MinimumStock   int        `json:"minimum_stock"`
	Dosage         string     `json:"dosage"`
	Form           string     `json:"form"`
	ManufacturerID uint       `json:"manufacturer_id"`
	CategoryID     uint       `json:"category_id"`
	Manufacturer   *EntityRef `json:"manufacturer,omitempty"`
	Category       *EntityRef `json:"category,omitempty"`
	PurchaseDate   Date       `json:"purchase_date"`
	ExpiryDate     Date       `json:"expiry_date"`
	IsExpired      bool       `json:"is_expired"`
	IsExpiringSoon bool       `json:"is_expiring_soon"`
	DaysToExpiry   int        `json:"days_to_expiry"`
	IsLowStock     bool       `json:"is_low_stock"`
	ProfitMargin   Amount     `json:"profit_margin"`
	CreatedAt      string     `json:"created_at"`
	UpdatedAt      string     `json:"updated_at"`
}

// NewMedicineResponse computes derived fields against today; nothing is cached.
func NewMedicineResponse(m *Medicine, today Date, expiringSoonDays int) MedicineResponse {
	resp := MedicineResponse{
		ID:             m.ID,
		Name:           m.Name,
		Description:    m.Description,
		BatchNumber:    m.BatchNumber,
		SellingPrice:   NewAmount(m.SellingPrice),
		Quantity:       m.Quantity,
		MinimumStock:   m.MinimumStock,
		Dosage:         m.Dosage,
		Form:           m.Form,
		ManufacturerID: m.ManufacturerID,
		CategoryID:     m.CategoryID,
		PurchaseDate:   m.PurchaseDate,
		ExpiryDate:     m.ExpiryDate,
		IsExpired:      m.IsExpired(today),
		IsExpiringSoon: m.IsExpiringSoon(today, expiringSoonDays),
		DaysToExpiry:   m.DaysToExpiry(today),
		IsLowStock:     m.IsLowStock(),
		ProfitMargin:   NewAmount(m.ProfitMargin()),
		CreatedAt:      formatTimestamp(m.CreatedAt),
		UpdatedAt:      formatTimestamp(m.UpdatedAt),
	}

	if m.CostPrice.Valid {
		cost := NewAmount(m.CostPrice.Decimal)
		resp.CostPrice = &cost
	}
	if m.Manufacturer != nil {
		resp.Manufacturer = &EntityRef{ID: m.Manufacturer.ID, Name: m.Manufacturer.Name}
	}
	if m.Category != nil {
		resp.Category = &EntityRef{ID: m.Category.ID, Name: m.Category.Name}
	}

	return resp
}

// NewMedicineResponses maps a slice, never returning nil so JSON renders [].
func NewMedicineResponses(medicines []Medicine, today Date, expiringSoonDays int) []MedicineResponse {
	out := make([]MedicineResponse, 0, len(medicines))
	for i := range medicines {
		out = append(out, NewMedicineResponse(&medicines[i], today, expiringSoonDays))
	}
	return out
}
