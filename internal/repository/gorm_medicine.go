// internal/repository/gorm_medicine.go
package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/chemist-backend/internal/database"
	"github.com/javajoker/chemist-backend/internal/models"
)

type gormMedicineRepository struct {
	db *gorm.DB
}

func NewGormMedicineRepository(db *gorm.DB) MedicineRepository {
	return &gormMedicineRepository{db: db}
}

func (r *gormMedicineRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Category").Preload("Manufacturer")
}

func (r *gormMedicineRepository) Create(ctx context.Context, medicine *models.Medicine) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(medicine).Error; err != nil {
		return translateError("create medicine", err)
	}
	return nil
}

func (r *gormMedicineRepository) FindByID(ctx context.Context, id uint) (*models.Medicine, error) {
	var medicine models.Medicine
	if err := r.withRelations(ctx).First(&medicine, id).Error; err != nil {
		return nil, translateError("find medicine", err)
	}
	return &medicine, nil
}

func (r *gormMedicineRepository) Save(ctx context.Context, medicine *models.Medicine) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(medicine).Error; err != nil {
		return translateError("save medicine", err)
	}
	return nil
}

func (r *gormMedicineRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Medicine{}, id)
	if result.Error != nil {
		return translateError("delete medicine", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// listQuery applies the filter and the default ordering.
func (r *gormMedicineRepository) listQuery(db *gorm.DB, filter MedicineFilter) *gorm.DB {
	query := filter.apply(db.Model(&models.Medicine{}))
	return query.Order(clause.OrderBy{Expression: clause.Expr{SQL: "medicines.expiry_date ASC NULLS LAST, medicines.id ASC"}})
}

func (r *gormMedicineRepository) List(ctx context.Context, filter MedicineFilter, page Page) ([]models.Medicine, int64, error) {
	var total int64
	if err := filter.apply(r.db.WithContext(ctx).Model(&models.Medicine{})).Count(&total).Error; err != nil {
		return nil, 0, translateError("count medicines", err)
	}

	medicines := make([]models.Medicine, 0, page.PerPage)
	query := r.listQuery(r.withRelations(ctx), filter).Offset(page.Offset()).Limit(page.PerPage)
	if err := query.Find(&medicines).Error; err != nil {
		return nil, 0, translateError("list medicines", err)
	}

	return medicines, total, nil
}

func (r *gormMedicineRepository) All(ctx context.Context, filter MedicineFilter) ([]models.Medicine, error) {
	var medicines []models.Medicine
	if err := r.listQuery(r.withRelations(ctx), filter).Find(&medicines).Error; err != nil {
		return nil, translateError("load medicines", err)
	}
	return medicines, nil
}

func (r *gormMedicineRepository) Count(ctx context.Context, filter MedicineFilter) (int64, error) {
	var total int64
	if err := filter.apply(r.db.WithContext(ctx).Model(&models.Medicine{})).Count(&total).Error; err != nil {
		return 0, translateError("count medicines", err)
	}
	return total, nil
}

func (r *gormMedicineRepository) BatchNumberTaken(ctx context.Context, batchNumber string, excludeID uint) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.Medicine{}).Where("batch_number = ?", batchNumber)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, translateError("check batch number", err)
	}
	return count > 0, nil
}

func (r *gormMedicineRepository) UpdateQuantity(ctx context.Context, id uint, apply func(medicine *models.Medicine) error) (*models.Medicine, error) {
	var medicine models.Medicine

	err := database.WithTransaction(r.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&medicine, id).Error; err != nil {
			return translateError("lock medicine", err)
		}
		if err := apply(&medicine); err != nil {
			return err
		}
		if err := tx.Model(&medicine).Update("quantity", medicine.Quantity).Error; err != nil {
			return translateError("update quantity", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.FindByID(ctx, id)
}
