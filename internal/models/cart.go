package models

import (
	"time"

	"gorm.io/gorm"
)

// Cart is a row in the carrito table. estado moves from activo to either
// vaciado (cleared) or convertido (finalized into a venta).
type Cart struct {
	ID        uint           `gorm:"primarykey;column:id_carrito" json:"id_carrito"`
	PersonID  *uint          `gorm:"column:id_persona;index" json:"id_persona,omitempty"`
	Status    string         `gorm:"column:estado;not null;default:'activo';index" json:"estado"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Items []CartItem `gorm:"foreignKey:CartID" json:"items,omitempty"`
}

// TableName maps the model onto the carrito table.
func (Cart) TableName() string {
	return "carrito"
}
