package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestMedicineDerivedFields(t *testing.T) {
	today := mustDate(t, "2026-10-18")

	tests := []struct {
		name         string
		expiry       string
		quantity     int
		minimum      int
		wantExpired  bool
		wantSoon     bool
		wantDays     int
		wantLowStock bool
	}{
		{"expired yesterday", "2026-10-17", 5, 10, true, false, -1, true},
		{"expires today", "2026-10-18", 50, 10, false, true, 0, false},
		{"inside window edge", "2026-11-17", 10, 10, false, true, 30, true},
		{"outside window", "2026-11-18", 11, 10, false, false, 31, false},
		{"long dated", "2028-01-01", 0, 0, false, false, 440, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &Medicine{ExpiryDate: mustDate(t, tt.expiry), Quantity: tt.quantity, MinimumStock: tt.minimum}
			assert.Equal(t, tt.wantExpired, m.IsExpired(today))
			assert.Equal(t, tt.wantSoon, m.IsExpiringSoon(today, ExpiringSoonDays))
			assert.Equal(t, tt.wantDays, m.DaysToExpiry(today))
			assert.Equal(t, tt.wantLowStock, m.IsLowStock())
			assert.Equal(t, m.Quantity <= m.MinimumStock, m.IsLowStock())
		})
	}
}

func TestProfitMargin(t *testing.T) {
	m := &Medicine{SellingPrice: decimal.RequireFromString("15.00")}
	assert.True(t, m.ProfitMargin().IsZero(), "no cost price")

	m.CostPrice = decimal.NewNullDecimal(decimal.Zero)
	assert.True(t, m.ProfitMargin().IsZero(), "zero cost price")

	m.CostPrice = decimal.NewNullDecimal(decimal.RequireFromString("12.00"))
	assert.Equal(t, "25", m.ProfitMargin().String())

	m.CostPrice = decimal.NewNullDecimal(decimal.RequireFromString("3.00"))
	m.SellingPrice = decimal.RequireFromString("4.00")
	assert.Equal(t, "33.33", m.ProfitMargin().String())
}

func TestValues(t *testing.T) {
	m := &Medicine{SellingPrice: decimal.RequireFromString("2.50"), Quantity: 4}
	assert.Equal(t, "10", m.InventoryValue().String())

	_, ok := m.CostValue()
	assert.False(t, ok)

	m.CostPrice = decimal.NewNullDecimal(decimal.RequireFromString("1.25"))
	cost, ok := m.CostValue()
	assert.True(t, ok)
	assert.Equal(t, "5", cost.String())
}

func TestDateJSON(t *testing.T) {
	var payload struct {
		Expiry Date `json:"expiry"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"expiry":"2027-03-01"}`), &payload))
	assert.Equal(t, "2027-03-01", payload.Expiry.String())

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"expiry":"2027-03-01"}`, string(out))

	err = json.Unmarshal([]byte(`{"expiry":"01/03/2027"}`), &payload)
	var typeErr *json.UnmarshalTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "expiry", typeErr.Field)
	assert.Contains(t, err.Error(), "YYYY-MM-DD")
}

func TestDateScanAndValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2027-03-01", d.String())

	require.NoError(t, d.Scan([]byte("2027-04-02")))
	assert.Equal(t, "2027-04-02", d.String())

	v, err := d.Value()
	require.NoError(t, err)
	assert.Equal(t, "2027-04-02", v)

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())
	v, err = d.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestToday(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	now := func() time.Time { return time.Date(2026, 10, 19, 5, 0, 0, 0, loc) }
	assert.Equal(t, "2026-10-18", Today(now).String())
}

func TestMedicineResponse(t *testing.T) {
	today := mustDate(t, "2026-10-18")
	m := &Medicine{
		BaseModel:      BaseModel{ID: 7, CreatedAt: time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)},
		Name:           "Paracetamol",
		BatchNumber:    "PCM-001",
		CostPrice:      decimal.NewNullDecimal(decimal.RequireFromString("1.2")),
		SellingPrice:   decimal.RequireFromString("1.5"),
		Quantity:       5,
		MinimumStock:   10,
		ManufacturerID: 2,
		CategoryID:     3,
		ExpiryDate:     mustDate(t, "2026-10-17"),
		Category:       &MedicineCategory{BaseModel: BaseModel{ID: 3}, Name: "Tablets"},
	}

	out, err := json.Marshal(NewMedicineResponse(m, today, ExpiringSoonDays))
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, true, decoded["is_expired"])
	assert.Equal(t, true, decoded["is_low_stock"])
	assert.Equal(t, float64(-1), decoded["days_to_expiry"])
	assert.Equal(t, "2026-10-01T09:30:00Z", decoded["created_at"])
	assert.Contains(t, string(out), `"selling_price":1.50`)
	assert.Contains(t, string(out), `"cost_price":1.20`)
	assert.Contains(t, string(out), `"profit_margin":25.00`)
	assert.Equal(t, map[string]interface{}{"id": float64(3), "name": "Tablets"}, decoded["category"])
	assert.Nil(t, decoded["manufacturer"])
}
