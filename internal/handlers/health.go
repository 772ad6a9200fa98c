// internal/handlers/health.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/chemist-backend/internal/utils"
)

const Version = "1.0.0"

// GET /health
func HealthCheck(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{
		"status":  "healthy",
		"message": "Chemist Store API is running",
		"version": Version,
	})
}
