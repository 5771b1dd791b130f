package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a row in the producto table. Stock is decremented inside the
// sale finalization transaction with a non-negative guard; historical line
// items keep their own price snapshots, so later price changes never touch
// past sales.
type Product struct {
	ID          uint           `gorm:"primarykey;column:id_producto" json:"id_producto"`
	Name        string         `gorm:"column:nombre;not null;index" json:"nombre"`
	Description string         `gorm:"column:descripcion;type:text" json:"descripcion"`
	BrandID     *uint          `gorm:"column:id_marca;index" json:"id_marca,omitempty"`
	Price       Money          `gorm:"column:precio;type:decimal(10,2);not null;default:0" json:"precio"`
	OfferPrice  *Money         `gorm:"column:precio_oferta;type:decimal(10,2)" json:"precio_oferta,omitempty"`
	Stock       int            `gorm:"column:stock;not null;default:0" json:"stock"`
	ImagePath   string         `gorm:"column:imagen" json:"imagen"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Brand *Brand `gorm:"foreignKey:BrandID" json:"marca,omitempty"`
}

// TableName maps the model onto the producto table.
func (Product) TableName() string {
	return "producto"
}

// EffectivePrice returns the offer price when set, the list price otherwise.
func (p Product) EffectivePrice() Money {
	if p.OfferPrice != nil && p.OfferPrice.GreaterThan(decimal.Zero) {
		return *p.OfferPrice
	}
	return p.Price
}
