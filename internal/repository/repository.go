// internal/repository/repository.go
package repository

import (
	"context"
	"errors"

	"github.com/javajoker/chemist-backend/internal/models"
)

// Store errors. Implementations translate driver specific failures into these.
var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("duplicate key")
	ErrReferenced = errors.New("record is still referenced")
)

// Page selects a window of an ordered result; Page is 1-based.
type Page struct {
	Page    int
	PerPage int
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// MedicineRepository persists medicines. List applies MedicineFilter and the
// default ordering (expiry date ascending, then id).
type MedicineRepository interface {
	Create(ctx context.Context, medicine *models.Medicine) error
	FindByID(ctx context.Context, id uint) (*models.Medicine, error)
	Save(ctx context.Context, medicine *models.Medicine) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context, filter MedicineFilter, page Page) ([]models.Medicine, int64, error)
	All(ctx context.Context, filter MedicineFilter) ([]models.Medicine, error)
	Count(ctx context.Context, filter MedicineFilter) (int64, error)
	BatchNumberTaken(ctx context.Context, batchNumber string, excludeID uint) (bool, error)
	// UpdateQuantity loads the medicine under a row lock, lets apply mutate its
	// quantity and persists the result atomically. An error from apply aborts the write.
	UpdateQuantity(ctx context.Context, id uint, apply func(medicine *models.Medicine) error) (*models.Medicine, error)
}

type CategoryRepository interface {
	Create(ctx context.Context, category *models.MedicineCategory) error
	FindByID(ctx context.Context, id uint) (*models.MedicineCategory, error)
	FindByName(ctx context.Context, name string) (*models.MedicineCategory, error)
	Save(ctx context.Context, category *models.MedicineCategory) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]models.MedicineCategory, error)
	Count(ctx context.Context) (int64, error)
}

type ManufacturerRepository interface {
	Create(ctx context.Context, manufacturer *models.Manufacturer) error
	FindByID(ctx context.Context, id uint) (*models.Manufacturer, error)
	FindByName(ctx context.Context, name string) (*models.Manufacturer, error)
	Save(ctx context.Context, manufacturer *models.Manufacturer) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]models.Manufacturer, error)
	Count(ctx context.Context) (int64, error)
}

// Store bundles the repositories handed to services.
type Store struct {
	Medicines     MedicineRepository
	Categories    CategoryRepository
	Manufacturers ManufacturerRepository
}
