// internal/handlers/medicine.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/chemist-backend/internal/services"
	"github.com/javajoker/chemist-backend/internal/utils"
)

type MedicineHandler struct {
	medicineService *services.MedicineService
}

func NewMedicineHandler(medicineService *services.MedicineService) *MedicineHandler {
	return &MedicineHandler{medicineService: medicineService}
}

// GET /medicines
func (h *MedicineHandler) GetMedicines(c *gin.Context) {
	pagination, err := utils.GetPaginationParams(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	params, err := services.ParseMedicineSearchParams(c.Request.URL.Query())
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	params.PaginationParams = pagination

	result, err := h.medicineService.ListMedicines(c.Request.Context(), params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SetPaginationHeaders(c, result.PaginationResult)
	utils.SuccessResponse(c, result)
}

// GET /medicines/:id
func (h *MedicineHandler) GetMedicine(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	medicine, err := h.medicineService.GetMedicine(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, medicine)
}

// POST /medicines
func (h *MedicineHandler) CreateMedicine(c *gin.Context) {
	var req services.CreateMedicineRequest
	if err := utils.BindJSON(c, &req); err != nil {
		utils.HandleError(c, err)
		return
	}

	medicine, err := h.medicineService.CreateMedicine(c.Request.Context(), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":  "Medicine created successfully",
		"medicine": medicine,
	})
}

// PUT /medicines/:id
func (h *MedicineHandler) UpdateMedicine(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var req services.UpdateMedicineRequest
	if err := utils.BindJSON(c, &req); err != nil {
		utils.HandleError(c, err)
		return
	}

	medicine, err := h.medicineService.UpdateMedicine(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  "Medicine updated successfully",
		"medicine": medicine,
	})
}

// DELETE /medicines/:id
func (h *MedicineHandler) DeleteMedicine(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	if err := h.medicineService.DeleteMedicine(c.Request.Context(), id); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Medicine deleted successfully"})
}

// PATCH /medicines/:id/quantity
func (h *MedicineHandler) UpdateQuantity(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var req services.AdjustQuantityRequest
	if err := utils.BindJSON(c, &req); err != nil {
		utils.HandleError(c, err)
		return
	}

	medicine, err := h.medicineService.AdjustQuantity(c.Request.Context(), id, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":  "Quantity updated successfully",
		"medicine": medicine,
	})
}

// GET /medicines/low-stock
func (h *MedicineHandler) GetLowStock(c *gin.Context) {
	threshold, err := services.ParseThreshold(c.Request.URL.Query())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	result, err := h.medicineService.LowStock(c.Request.Context(), threshold)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, result)
}

// GET /categories/:id/medicines
func (h *MedicineHandler) GetCategoryMedicines(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	pagination, err := utils.GetPaginationParams(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	result, err := h.medicineService.CategoryMedicines(c.Request.Context(), id, pagination)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SetPaginationHeaders(c, result.PaginationResult)
	utils.SuccessResponse(c, result)
}
