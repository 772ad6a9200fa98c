// internal/services/medicine_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/chemist-backend/internal/apperror"
	"github.com/javajoker/chemist-backend/internal/config"
	"github.com/javajoker/chemist-backend/internal/models"
	"github.com/javajoker/chemist-backend/internal/repository"
	"github.com/javajoker/chemist-backend/internal/utils"
)

const (
	QuantityActionSet      = "set"
	QuantityActionAdd      = "add"
	QuantityActionSubtract = "subtract"
)

type MedicineService struct {
	store     *repository.Store
	inventory config.InventoryConfig
	clock     Clock
}

type CreateMedicineRequest struct {
	Name           string           `json:"name" validate:"required,max=100"`
	Description    string           `json:"description"`
	BatchNumber    string           `json:"batch_number" validate:"required,max=50"`
	CostPrice      *decimal.Decimal `json:"cost_price" validate:"omitnil,min=0"`
	SellingPrice   *decimal.Decimal `json:"selling_price" validate:"required,min=0"`
	Quantity       *int             `json:"quantity" validate:"required,min=0"`
	MinimumStock   *int             `json:"minimum_stock" validate:"omitnil,min=0"`
	Dosage         string           `json:"dosage" validate:"max=50"`
	Form           string           `json:"form" validate:"max=30"`
	ManufacturerID uint             `json:"manufacturer_id" validate:"required"`
	CategoryID     uint             `json:"category_id" validate:"required"`
	PurchaseDate   *models.Date     `json:"purchase_date"`
	ExpiryDate     *models.Date     `json:"expiry_date" validate:"required"`
}

// UpdateMedicineRequest changes only the fields that are present.
type UpdateMedicineRequest struct {
	Name           *string          `json:"name" validate:"omitnil,min=1,max=100"`
	Description    *string          `json:"description"`
	BatchNumber    *string          `json:"batch_number" validate:"omitnil,min=1,max=50"`
	CostPrice      *decimal.Decimal `json:"cost_price" validate:"omitnil,min=0"`
	SellingPrice   *decimal.Decimal `json:"selling_price" validate:"omitnil,min=0"`
	Quantity       *int             `json:"quantity" validate:"omitnil,min=0"`
	MinimumStock   *int             `json:"minimum_stock" validate:"omitnil,min=0"`
	Dosage         *string          `json:"dosage" validate:"omitnil,max=50"`
	Form           *string          `json:"form" validate:"omitnil,max=30"`
	ManufacturerID *uint            `json:"manufacturer_id" validate:"omitnil,min=1"`
	CategoryID     *uint            `json:"category_id" validate:"omitnil,min=1"`
	PurchaseDate   *models.Date     `json:"purchase_date"`
	ExpiryDate     *models.Date     `json:"expiry_date"`
}

type AdjustQuantityRequest struct {
	Quantity *int   `json:"quantity" validate:"required,min=0"`
	Action   string `json:"action" validate:"omitempty,oneof=set add subtract"`
}

type MedicineListResponse struct {
	Medicines []models.MedicineResponse `json:"medicines"`
	utils.PaginationResult
}

type LowStockResponse struct {
	Medicines []models.MedicineResponse `json:"low_stock_medicines"`
	Count     int                       `json:"count"`
	Threshold *int                      `json:"threshold,omitempty"`
}

func NewMedicineService(store *repository.Store, inventory config.InventoryConfig, clock Clock) *MedicineService {
	if inventory.ExpiringSoonDays <= 0 {
		inventory.ExpiringSoonDays = models.ExpiringSoonDays
	}
	if clock == nil {
		clock = SystemClock
	}
	return &MedicineService{
		store:     store,
		inventory: inventory,
		clock:     clock,
	}
}

func (s *MedicineService) respond(m *models.Medicine, today models.Date) *models.MedicineResponse {
	resp := models.NewMedicineResponse(m, today, s.inventory.ExpiringSoonDays)
	return &resp
}

func (s *MedicineService) filterFor(params MedicineSearchParams, today models.Date) repository.MedicineFilter {
	return repository.MedicineFilter{
		CategoryID:       params.CategoryID,
		ManufacturerID:   params.ManufacturerID,
		Search:           params.Search,
		Expired:          params.Expired,
		ExpiringSoon:     params.ExpiringSoon,
		LowStock:         params.LowStock,
		PurchasedFrom:    params.PurchasedFrom,
		PurchasedTo:      params.PurchasedTo,
		Today:            today,
		ExpiringSoonDays: s.inventory.ExpiringSoonDays,
	}
}

func (s *MedicineService) ListMedicines(ctx context.Context, params MedicineSearchParams) (*MedicineListResponse, error) {
	today := s.clock.Today()

	medicines, total, err := s.store.Medicines.List(ctx, s.filterFor(params, today), repository.Page{
		Page:    params.Page,
		PerPage: params.PerPage,
	})
	if err != nil {
		return nil, apperror.Internal("list medicines", err)
	}

	return &MedicineListResponse{
		Medicines:        models.NewMedicineResponses(medicines, today, s.inventory.ExpiringSoonDays),
		PaginationResult: utils.CreatePaginationResult(total, params.PaginationParams),
	}, nil
}

func (s *MedicineService) GetMedicine(ctx context.Context, id uint) (*models.MedicineResponse, error) {
	medicine, err := s.findMedicine(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(medicine, s.clock.Today()), nil
}

// CategoryMedicines lists the medicines filed under one category.
func (s *MedicineService) CategoryMedicines(ctx context.Context, categoryID uint, page utils.PaginationParams) (*MedicineListResponse, error) {
	if err := s.ensureCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.ListMedicines(ctx, MedicineSearchParams{
		PaginationParams: page,
		CategoryID:       &categoryID,
	})
}

func (s *MedicineService) CreateMedicine(ctx context.Context, req *CreateMedicineRequest) (*models.MedicineResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	batchNumber := strings.TrimSpace(req.BatchNumber)
	if name == "" {
		return nil, apperror.Validation("name", "name is required")
	}
	if batchNumber == "" {
		return nil, apperror.Validation("batch_number", "batch_number is required")
	}

	today := s.clock.Today()
	purchaseDate := today
	if req.PurchaseDate != nil && !req.PurchaseDate.IsZero() {
		purchaseDate = *req.PurchaseDate
	}
	expiryDate := *req.ExpiryDate

	if !expiryDate.After(today) {
		return nil, apperror.Validationf("expiry_date", "expiry_date must be after %s", today)
	}
	if err := checkExpiryAfterPurchase(purchaseDate, expiryDate); err != nil {
		return nil, err
	}

	if err := s.ensureManufacturer(ctx, req.ManufacturerID); err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, req.CategoryID); err != nil {
		return nil, err
	}
	if err := s.ensureBatchAvailable(ctx, batchNumber, 0); err != nil {
		return nil, err
	}

	minimumStock := s.inventory.DefaultMinimumStock
	if req.MinimumStock != nil {
		minimumStock = *req.MinimumStock
	}

	medicine := &models.Medicine{
		Name:           name,
		Description:    req.Description,
		BatchNumber:    batchNumber,
		SellingPrice:   req.SellingPrice.Round(2),
		Quantity:       *req.Quantity,
		MinimumStock:   minimumStock,
		Dosage:         req.Dosage,
		Form:           req.Form,
		ManufacturerID: req.ManufacturerID,
		CategoryID:     req.CategoryID,
		PurchaseDate:   purchaseDate,
		ExpiryDate:     expiryDate,
	}
	if req.CostPrice != nil {
		medicine.CostPrice = decimal.NewNullDecimal(req.CostPrice.Round(2))
	}

	if err := s.store.Medicines.Create(ctx, medicine); err != nil {
		return nil, s.writeError("create medicine", batchNumber, err)
	}

	logrus.WithFields(logrus.Fields{
		"medicine_id":  medicine.ID,
		"batch_number": medicine.BatchNumber,
	}).Info("Medicine created")

	return s.reload(ctx, medicine.ID, today)
}

func (s *MedicineService) UpdateMedicine(ctx context.Context, id uint, req *UpdateMedicineRequest) (*models.MedicineResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	medicine, err := s.findMedicine(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperror.Validation("name", "name must not be blank")
		}
		medicine.Name = name
	}
	if req.Description != nil {
		medicine.Description = *req.Description
	}
	if req.BatchNumber != nil {
		batchNumber := strings.TrimSpace(*req.BatchNumber)
		if batchNumber == "" {
			return nil, apperror.Validation("batch_number", "batch_number must not be blank")
		}
		if batchNumber != medicine.BatchNumber {
			if err := s.ensureBatchAvailable(ctx, batchNumber, id); err != nil {
				return nil, err
			}
		}
		medicine.BatchNumber = batchNumber
	}
	if req.CostPrice != nil {
		medicine.CostPrice = decimal.NewNullDecimal(req.CostPrice.Round(2))
	}
	if req.SellingPrice != nil {
		medicine.SellingPrice = req.SellingPrice.Round(2)
	}
	if req.Quantity != nil {
		medicine.Quantity = *req.Quantity
	}
	if req.MinimumStock != nil {
		medicine.MinimumStock = *req.MinimumStock
	}
	if req.Dosage != nil {
		medicine.Dosage = *req.Dosage
	}
	if req.Form != nil {
		medicine.Form = *req.Form
	}
	if req.ManufacturerID != nil && *req.ManufacturerID != medicine.ManufacturerID {
		if err := s.ensureManufacturer(ctx, *req.ManufacturerID); err != nil {
			return nil, err
		}
		medicine.ManufacturerID = *req.ManufacturerID
	}
	if req.CategoryID != nil && *req.CategoryID != medicine.CategoryID {
		if err := s.ensureCategory(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
		medicine.CategoryID = *req.CategoryID
	}

	datesChanged := false
	if req.PurchaseDate != nil && !req.PurchaseDate.IsZero() {
		medicine.PurchaseDate = *req.PurchaseDate
		datesChanged = true
	}
	if req.ExpiryDate != nil {
		if req.ExpiryDate.IsZero() {
			return nil, apperror.Validation("expiry_date", "expiry_date must not be empty")
		}
		medicine.ExpiryDate = *req.ExpiryDate
		datesChanged = true
	}
	// Expired stock may still be corrected, so only the ordering of the two dates is enforced.
	if datesChanged && !medicine.PurchaseDate.IsZero() {
		if err := checkExpiryAfterPurchase(medicine.PurchaseDate, medicine.ExpiryDate); err != nil {
			return nil, err
		}
	}

	if err := s.store.Medicines.Save(ctx, medicine); err != nil {
		return nil, s.writeError("update medicine", medicine.BatchNumber, err)
	}

	return s.reload(ctx, id, s.clock.Today())
}

func (s *MedicineService) DeleteMedicine(ctx context.Context, id uint) error {
	if err := s.store.Medicines.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("Medicine", id)
		}
		return apperror.Internal("delete medicine", err)
	}

	logrus.WithField("medicine_id", id).Info("Medicine deleted")
	return nil
}

// AdjustQuantity applies a set, add or subtract under the store's row lock.
// A subtract larger than the stock on hand fails and leaves the quantity unchanged.
func (s *MedicineService) AdjustQuantity(ctx context.Context, id uint, req *AdjustQuantityRequest) (*models.MedicineResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	action := req.Action
	if action == "" {
		action = QuantityActionSet
	}
	amount := *req.Quantity

	medicine, err := s.store.Medicines.UpdateQuantity(ctx, id, func(m *models.Medicine) error {
		switch action {
		case QuantityActionAdd:
			m.Quantity += amount
		case QuantityActionSubtract:
			if m.Quantity < amount {
				return apperror.InsufficientStock(m.Quantity, amount)
			}
			m.Quantity -= amount
		default:
			m.Quantity = amount
		}
		return nil
	})
	if err != nil {
		var stockErr *apperror.InsufficientStockError
		switch {
		case errors.As(err, &stockErr):
			return nil, err
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperror.NotFound("Medicine", id)
		default:
			return nil, apperror.Internal("adjust quantity", err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"medicine_id": id,
		"action":      action,
		"amount":      amount,
		"quantity":    medicine.Quantity,
	}).Info("Medicine quantity adjusted")

	return s.respond(medicine, s.clock.Today()), nil
}

// LowStock returns medicines at or below threshold, or at or below their own
// minimum_stock when no threshold is given.
func (s *MedicineService) LowStock(ctx context.Context, threshold *int) (*LowStockResponse, error) {
	if threshold != nil && *threshold < 0 {
		return nil, apperror.Validation("threshold", "threshold must be zero or greater")
	}

	today := s.clock.Today()
	filter := repository.MedicineFilter{Today: today, ExpiringSoonDays: s.inventory.ExpiringSoonDays}
	if threshold != nil {
		filter.LowStockThreshold = threshold
	} else {
		filter.LowStock = true
	}

	medicines, err := s.store.Medicines.All(ctx, filter)
	if err != nil {
		return nil, apperror.Internal("list low stock medicines", err)
	}

	return &LowStockResponse{
		Medicines: models.NewMedicineResponses(medicines, today, s.inventory.ExpiringSoonDays),
		Count:     len(medicines),
		Threshold: threshold,
	}, nil
}

func (s *MedicineService) findMedicine(ctx context.Context, id uint) (*models.Medicine, error) {
	medicine, err := s.store.Medicines.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound("Medicine", id)
		}
		return nil, apperror.Internal("find medicine", err)
	}
	return medicine, nil
}

func (s *MedicineService) reload(ctx context.Context, id uint, today models.Date) (*models.MedicineResponse, error) {
	medicine, err := s.findMedicine(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.respond(medicine, today), nil
}

func (s *MedicineService) ensureManufacturer(ctx context.Context, id uint) error {
	if _, err := s.store.Manufacturers.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("Manufacturer", id)
		}
		return apperror.Internal("find manufacturer", err)
	}
	return nil
}

func (s *MedicineService) ensureCategory(ctx context.Context, id uint) error {
	if _, err := s.store.Categories.FindByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound("Category", id)
		}
		return apperror.Internal("find category", err)
	}
	return nil
}

func (s *MedicineService) ensureBatchAvailable(ctx context.Context, batchNumber string, excludeID uint) error {
	taken, err := s.store.Medicines.BatchNumberTaken(ctx, batchNumber, excludeID)
	if err != nil {
		return apperror.Internal("check batch number", err)
	}
	if taken {
		return duplicateBatch(batchNumber)
	}
	return nil
}

// writeError maps a failed create or save. The unique index still catches
// batch collisions that race past the up-front check.
func (s *MedicineService) writeError(op, batchNumber string, err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return duplicateBatch(batchNumber)
	case errors.Is(err, repository.ErrReferenced):
		return apperror.Conflict("category or manufacturer no longer exists")
	case errors.Is(err, repository.ErrNotFound):
		return apperror.NotFound("Medicine", 0)
	default:
		return apperror.Internal(op, err)
	}
}

func duplicateBatch(batchNumber string) error {
	return apperror.Conflict("Medicine with batch number %q already exists", batchNumber)
}

func checkExpiryAfterPurchase(purchase, expiry models.Date) error {
	if !expiry.After(purchase) {
		return apperror.Validation("expiry_date", fmt.Sprintf("expiry_date (%s) must be after purchase_date (%s)", expiry, purchase))
	}
	return nil
}
