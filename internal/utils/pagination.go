// internal/utils/pagination.go
package utils

import (
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/chemist-backend/internal/apperror"
)

const (
	DefaultPage    = 1
	DefaultPerPage = 10
	MaxPerPage     = 100
)

type PaginationParams struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

type PaginationResult struct {
	Total       int64 `json:"total"`
	Pages       int   `json:"pages"`
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
}

// GetPaginationParams reads page and per_page. Malformed or out of range
// values are rejected rather than coerced.
func GetPaginationParams(c *gin.Context) (PaginationParams, error) {
	page, err := positiveQueryInt(c, "page", DefaultPage)
	if err != nil {
		return PaginationParams{}, err
	}

	perPage, err := positiveQueryInt(c, "per_page", DefaultPerPage)
	if err != nil {
		return PaginationParams{}, err
	}
	if perPage > MaxPerPage {
		return PaginationParams{}, apperror.Validationf("per_page", "per_page must not exceed %d", MaxPerPage)
	}

	// Offsets are kept within a 32-bit SQL OFFSET.
	if maxPage := math.MaxInt32/perPage + 1; page > maxPage {
		return PaginationParams{}, apperror.Validationf("page", "page must not exceed %d", maxPage)
	}

	return PaginationParams{Page: page, PerPage: perPage}, nil
}

func positiveQueryInt(c *gin.Context, key string, defaultValue int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value < 1 {
		return 0, apperror.Validationf(key, "%s must be a positive integer, got %q", key, raw)
	}
	return value, nil
}

func CreatePaginationResult(total int64, params PaginationParams) PaginationResult {
	totalPages := int(math.Ceil(float64(total) / float64(params.PerPage)))

	return PaginationResult{
		Total:       total,
		Pages:       totalPages,
		CurrentPage: params.Page,
		PerPage:     params.PerPage,
	}
}

func SetPaginationHeaders(c *gin.Context, result PaginationResult) {
	c.Header("X-Total-Count", strconv.FormatInt(result.Total, 10))
	c.Header("X-Page", strconv.Itoa(result.CurrentPage))
	c.Header("X-Per-Page", strconv.Itoa(result.PerPage))
	c.Header("X-Total-Pages", strconv.Itoa(result.Pages))
}
