// internal/handlers/inventory.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/chemist-backend/internal/services"
	"github.com/javajoker/chemist-backend/internal/utils"
)

type InventoryHandler struct {
	inventoryService *services.InventoryService
}

func NewInventoryHandler(inventoryService *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// GET /medicines/alerts
func (h *InventoryHandler) GetAlerts(c *gin.Context) {
	alerts, err := h.inventoryService.GetAlerts(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, alerts)
}

// GET /medicines/reports/inventory
func (h *InventoryHandler) GetInventoryReport(c *gin.Context) {
	report, err := h.inventoryService.GetInventoryReport(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, report)
}

// POST /medicines/reports/inventory/archive
func (h *InventoryHandler) ArchiveInventoryReport(c *gin.Context) {
	result, err := h.inventoryService.ArchiveInventoryReport(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": "Inventory report archived",
		"archive": result,
	})
}

// GET /stats
func (h *InventoryHandler) GetStats(c *gin.Context) {
	stats, err := h.inventoryService.GetStats(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, stats)
}
