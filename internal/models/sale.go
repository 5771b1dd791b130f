package models

import (
	"time"

	"gorm.io/gorm"
)

// Sale is a row in the venta table: the immutable record of a completed
// purchase. PersonID is nil for guest checkout. PaymentSessionID carries the
// provider's checkout-session id and is unique, so one completed payment
// event finalizes at most one sale.
type Sale struct {
	ID               uint           `gorm:"primarykey;column:id_venta" json:"id_venta"`
	PersonID         *uint          `gorm:"column:id_persona;index" json:"id_persona,omitempty"`
	CartID           uint           `gorm:"column:id_carrito;index;not null" json:"id_carrito"`
	Total            Money          `gorm:"column:total;type:decimal(10,2);not null;default:0" json:"total"`
	Status           string         `gorm:"column:estado;not null;index" json:"estado"`
	PaymentMethod    string         `gorm:"column:metodo_pago;not null" json:"metodo_pago"`
	PaymentSessionID *string        `gorm:"column:stripe_session_id;uniqueIndex" json:"stripe_session_id,omitempty"`
	BuyerEmail       string         `gorm:"column:correo_comprador;index" json:"correo_comprador,omitempty"`
	CreatedAt        time.Time      `gorm:"index" json:"fecha_venta"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`

	Items  []SaleItem `gorm:"foreignKey:SaleID" json:"detalles,omitempty"`
	Person *Person    `gorm:"foreignKey:PersonID" json:"persona,omitempty"`
}

// TableName maps the model onto the venta table.
func (Sale) TableName() string {
	return "venta"
}
