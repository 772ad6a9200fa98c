// internal/repository/gorm_catalog.go
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/javajoker/chemist-backend/internal/models"
)

type gormCategoryRepository struct {
	db *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) CategoryRepository {
	return &gormCategoryRepository{db: db}
}

func (r *gormCategoryRepository) Create(ctx context.Context, category *models.MedicineCategory) error {
	return translateError("create category", r.db.WithContext(ctx).Create(category).Error)
}

func (r *gormCategoryRepository) FindByID(ctx context.Context, id uint) (*models.MedicineCategory, error) {
	var category models.MedicineCategory
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, translateError("find category", err)
	}
	return &category, nil
}

func (r *gormCategoryRepository) FindByName(ctx context.Context, name string) (*models.MedicineCategory, error) {
	var category models.MedicineCategory
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&category).Error; err != nil {
		return nil, translateError("find category", err)
	}
	return &category, nil
}

func (r *gormCategoryRepository) Save(ctx context.Context, category *models.MedicineCategory) error {
	return translateError("save category", r.db.WithContext(ctx).Save(category).Error)
}

func (r *gormCategoryRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.MedicineCategory{}, id)
	if result.Error != nil {
		return translateError("delete category", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormCategoryRepository) List(ctx context.Context) ([]models.MedicineCategory, error) {
	var categories []models.MedicineCategory
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, translateError("list categories", err)
	}
	return categories, nil
}

func (r *gormCategoryRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.MedicineCategory{}).Count(&total).Error; err != nil {
		return 0, translateError("count categories", err)
	}
	return total, nil
}

type gormManufacturerRepository struct {
	db *gorm.DB
}

func NewGormManufacturerRepository(db *gorm.DB) ManufacturerRepository {
	return &gormManufacturerRepository{db: db}
}

func (r *gormManufacturerRepository) Create(ctx context.Context, manufacturer *models.Manufacturer) error {
	return translateError("create manufacturer", r.db.WithContext(ctx).Create(manufacturer).Error)
}

func (r *gormManufacturerRepository) FindByID(ctx context.Context, id uint) (*models.Manufacturer, error) {
	var manufacturer models.Manufacturer
	if err := r.db.WithContext(ctx).First(&manufacturer, id).Error; err != nil {
		return nil, translateError("find manufacturer", err)
	}
	return &manufacturer, nil
}

func (r *gormManufacturerRepository) FindByName(ctx context.Context, name string) (*models.Manufacturer, error) {
	var manufacturer models.Manufacturer
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&manufacturer).Error; err != nil {
		return nil, translateError("find manufacturer", err)
	}
	return &manufacturer, nil
}

func (r *gormManufacturerRepository) Save(ctx context.Context, manufacturer *models.Manufacturer) error {
	return translateError("save manufacturer", r.db.WithContext(ctx).Save(manufacturer).Error)
}

func (r *gormManufacturerRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Manufacturer{}, id)
	if result.Error != nil {
		return translateError("delete manufacturer", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *gormManufacturerRepository) List(ctx context.Context) ([]models.Manufacturer, error) {
	var manufacturers []models.Manufacturer
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&manufacturers).Error; err != nil {
		return nil, translateError("list manufacturers", err)
	}
	return manufacturers, nil
}

func (r *gormManufacturerRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Manufacturer{}).Count(&total).Error; err != nil {
		return 0, translateError("count manufacturers", err)
	}
	return total, nil
}

// NewGormStore wires the Postgres backed repositories.
func NewGormStore(db *gorm.DB) *Store {
	return &Store{
		Medicines:     NewGormMedicineRepository(db),
		Categories:    NewGormCategoryRepository(db),
		Manufacturers: NewGormManufacturerRepository(db),
	}
}
