// internal/models/manufacturer.go
package models

type Manufacturer struct {
	BaseModel
	Name        string `json:"name" gorm:"size:100;not null;uniqueIndex:idx_manufacturers_name"`
	ContactInfo string `json:"contact_info" gorm:"size:200"`
	Address     string `json:"address" gorm:"type:text"`
	Email       string `json:"email" gorm:"size:120"`
	Phone       string `json:"phone" gorm:"size:30"`
}

func (Manufacturer) TableName() string {
	return "manufacturers"
}
