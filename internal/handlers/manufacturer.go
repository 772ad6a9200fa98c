// internal/handlers/manufacturer.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/chemist-backend/internal/services"
	"github.com/javajoker/chemist-backend/internal/utils"
)

type ManufacturerHandler struct {
	manufacturerService *services.ManufacturerService
}

func NewManufacturerHandler(manufacturerService *services.ManufacturerService) *ManufacturerHandler {
	return &ManufacturerHandler{manufacturerService: manufacturerService}
}

// GET /manufacturers
func (h *ManufacturerHandler) GetManufacturers(c *gin.Context) {
	result, err := h.manufacturerService.ListManufacturers(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, result)
}

// GET /manufacturers/:id
func (h *ManufacturerHandler) GetManufacturer(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	manufacturer, err := h.manufacturerService.GetManufacturer(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, manufacturer)
}

// POST /manufacturers
func (h *ManufacturerHandler) CreateManufacturer(c *gin.Context) {
	var req services.CreateManufacturerRequest
	if err := utils.BindJSON(c, &req); err != nil {
		utils.HandleError(c, err)
		return
	}

	manufacturer, err := h.manufacturerService.CreateManufacturer(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":      "Manufacturer created successfully",
		"manufacturer": manufacturer,
	})
}

// PUT /manufacturers/:id
func (h *ManufacturerHandler) UpdateManufacturer(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var req services.UpdateManufacturerRequest
	if err := utils.BindJSON(c, &req); err != nil {
		utils.HandleError(c, err)
		return
	}

	manufacturer, err := h.manufacturerService.UpdateManufacturer(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":      "Manufacturer updated successfully",
		"manufacturer": manufacturer,
	})
}

// DELETE /manufacturers/:id
func (h *ManufacturerHandler) DeleteManufacturer(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	if err := h.manufacturerService.DeleteManufacturer(c.Request.Context(), id); err != nil {
		utils.HandleError(c, err)
		return
	}
	utils.SuccessResponse(c, gin.H{"message": "Manufacturer deleted successfully"})
}
