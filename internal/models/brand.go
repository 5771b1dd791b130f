package models

import (
	"time"

	"gorm.io/gorm"
)

// Brand is a row in the marca table.
type Brand struct {
	ID        uint           `gorm:"primarykey;column:id_marca" json:"id_marca"`
	Name      string         `gorm:"column:nombre;not null" json:"nombre"`
	LogoPath  string         `gorm:"column:logo" json:"logo"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName maps the model onto the marca table.
func (Brand) TableName() string {
	return "marca"
}
