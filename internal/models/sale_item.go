package models

import (
	"time"

	"gorm.io/gorm"
)

// SaleItem is a row in the detalle_venta table: a frozen copy of one cart
// line at finalization time. The product reference is weak — later price or
// stock changes on producto never affect it.
type SaleItem struct {
	ID        uint           `gorm:"primarykey;column:id_detalle_venta" json:"id_detalle_venta"`
	SaleID    uint           `gorm:"column:id_venta;index;not null" json:"id_venta"`
	ProductID uint           `gorm:"column:id_producto;index;not null" json:"id_producto"`
	Quantity  int            `gorm:"column:cantidad;not null" json:"cantidad"`
	UnitPrice Money          `gorm:"column:precio_unitario;type:decimal(10,2);not null;default:0" json:"precio_unitario"`
	Subtotal  Money          `gorm:"column:subtotal;type:decimal(10,2);not null;default:0" json:"subtotal"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName maps the model onto the detalle_venta table.
func (SaleItem) TableName() string {
	return "detalle_venta"
}
