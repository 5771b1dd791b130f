package models

import (
	"time"

	"gorm.io/gorm"
)

// CartItem is a row in the detalle_carrito table. UnitPrice is snapshotted
// from producto at add time; Total is recomputed from the stored unit price
// on every quantity change, never from the current product price.
type CartItem struct {
	ID        uint           `gorm:"primarykey;column:id_detalle_carrito" json:"id_detalle_carrito"`
	CartID    uint           `gorm:"column:id_carrito;not null;uniqueIndex:idx_carrito_producto" json:"id_carrito"`
	ProductID uint           `gorm:"column:id_producto;not null;uniqueIndex:idx_carrito_producto" json:"id_producto"`
	Quantity  int            `gorm:"column:cantidad;not null" json:"cantidad"`
	UnitPrice Money          `gorm:"column:precio_unitario;type:decimal(10,2);not null;default:0" json:"precio_unitario"`
	Total     Money          `gorm:"column:total;type:decimal(10,2);not null;default:0" json:"total"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Product *Product `gorm:"foreignKey:ProductID" json:"producto,omitempty"`
}

// TableName maps the model onto the detalle_carrito table.
func (CartItem) TableName() string {
	return "detalle_carrito"
}
