package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", Validation("expiry_date", "expiry_date must use format YYYY-MM-DD"), http.StatusBadRequest, CodeValidation},
		{"not found", NotFound("Manufacturer", 9999), http.StatusNotFound, CodeNotFound},
		{"conflict", Conflict("batch number %q already exists", "B-1"), http.StatusBadRequest, CodeConflict},
		{"insufficient stock", InsufficientStock(15, 20), http.StatusBadRequest, CodeInsufficientStock},
		{"internal", Internal("load medicines", errors.New("connection reset")), http.StatusInternalServerError, CodeInternal},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, CodeInternal},
		{"wrapped not found", fmt.Errorf("update: %w", NotFound("Medicine", 3)), http.StatusNotFound, CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := Status(tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, code)
		})
	}
}

func TestMessages(t *testing.T) {
	assert.Equal(t, "Manufacturer with id 9999 not found", NotFound("Manufacturer", 9999).Error())
	assert.Equal(t, "Medicine not found", NotFound("Medicine", 0).Error())
	assert.Equal(t, "insufficient stock: 15 available, 20 requested", InsufficientStock(15, 20).Error())

	cause := errors.New("connection reset")
	err := Internal("load medicines", cause)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "load medicines: connection reset", err.Error())

	var ve *ValidationError
	assert.True(t, errors.As(Validationf("page", "page must be a positive integer, got %q", "0"), &ve))
	assert.Equal(t, "page", ve.Field)
	assert.Len(t, ve.Fields, 1)
}
