// internal/models/category.go
package models

type MedicineCategory struct {
	BaseModel
	Name        string `json:"name" gorm:"size:50;not null;uniqueIndex:idx_medicine_categories_name"`
	Description string `json:"description" gorm:"type:text"`
}

func (MedicineCategory) TableName() string {
	return "medicine_categories"
}
