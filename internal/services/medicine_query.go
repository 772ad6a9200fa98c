// internal/services/medicine_query.go
package services

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/javajoker/chemist-backend/internal/apperror"
	"github.com/javajoker/chemist-backend/internal/models"
	"github.com/javajoker/chemist-backend/internal/utils"
)

// MedicineSearchParams holds the list filters accepted by GET /medicines.
// Absent values are not applied.
type MedicineSearchParams struct {
	utils.PaginationParams
	CategoryID     *uint        `json:"category_id,omitempty"`
	ManufacturerID *uint        `json:"manufacturer_id,omitempty"`
	Search         string       `json:"search,omitempty"`
	Expired        bool         `json:"expired,omitempty"`
	ExpiringSoon   bool         `json:"expiring_soon,omitempty"`
	LowStock       bool         `json:"low_stock,omitempty"`
	PurchasedFrom  *models.Date `json:"purchase_date_from,omitempty"`
	PurchasedTo    *models.Date `json:"purchase_date_to,omitempty"`
}

// ParseMedicineSearchParams reads the filter query parameters. Pagination is
// parsed separately and attached by the caller.
func ParseMedicineSearchParams(query url.Values) (MedicineSearchParams, error) {
	var (
		params MedicineSearchParams
		err    error
	)

	if params.CategoryID, err = optionalID(query, "category_id"); err != nil {
		return params, err
	}
	if params.ManufacturerID, err = optionalID(query, "manufacturer_id"); err != nil {
		return params, err
	}
	params.Search = strings.TrimSpace(query.Get("search"))

	if params.Expired, err = optionalFlag(query, "expired"); err != nil {
		return params, err
	}
	if params.ExpiringSoon, err = optionalFlag(query, "expiring_soon"); err != nil {
		return params, err
	}
	if params.LowStock, err = optionalFlag(query, "low_stock"); err != nil {
		return params, err
	}

	if params.PurchasedFrom, err = optionalDate(query, "purchase_date_from"); err != nil {
		return params, err
	}
	if params.PurchasedTo, err = optionalDate(query, "purchase_date_to"); err != nil {
		return params, err
	}

	return params, nil
}

// ParseThreshold reads the optional non-negative threshold parameter.
func ParseThreshold(query url.Values) (*int, error) {
	raw := strings.TrimSpace(query.Get("threshold"))
	if raw == "" {
		return nil, nil
	}
	threshold, err := strconv.Atoi(raw)
	if err != nil || threshold < 0 {
		return nil, apperror.Validationf("threshold", "threshold must be a non-negative integer, got %q", raw)
	}
	return &threshold, nil
}

func optionalID(query url.Values, key string) (*uint, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return nil, apperror.Validationf(key, "%s must be a positive integer, got %q", key, raw)
	}
	value := uint(id)
	return &value, nil
}

func optionalFlag(query url.Values, key string) (bool, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return false, nil
	}
	flag, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperror.Validationf(key, "%s must be true or false, got %q", key, raw)
	}
	return flag, nil
}

func optionalDate(query url.Values, key string) (*models.Date, error) {
	raw := strings.TrimSpace(query.Get(key))
	if raw == "" {
		return nil, nil
	}
	date, err := models.ParseDate(raw)
	if err != nil {
		return nil, apperror.Validationf(key, "%s must be a date in YYYY-MM-DD format, got %q", key, raw)
	}
	return &date, nil
}
