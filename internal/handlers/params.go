// internal/handlers/params.go
package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/chemist-backend/internal/apperror"
)

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, apperror.Validationf(name, "%s must be a positive integer, got %q", name, raw)
	}
	return uint(id), nil
}
