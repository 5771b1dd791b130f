package models

import (
	"time"

	"gorm.io/gorm"
)

// Person is an account row in the persona table: customers and
// administrators share it, distinguished by the rol column.
type Person struct {
	ID           uint           `gorm:"primarykey;column:id_persona" json:"id_persona"`
	FirstName    string         `gorm:"column:nombre;not null" json:"nombre"`
	LastName     string         `gorm:"column:apellido" json:"apellido"`
	Email        string         `gorm:"column:correo;uniqueIndex;not null" json:"correo"`
	PasswordHash string         `gorm:"column:contrasena;not null" json:"-"`
	Phone        string         `gorm:"column:telefono" json:"telefono"`
	Address      string         `gorm:"column:direccion" json:"direccion"`
	City         string         `gorm:"column:ciudad" json:"ciudad"`
	PostalCode   string         `gorm:"column:codigo_postal" json:"codigo_postal"`
	Role         string         `gorm:"column:rol;not null;default:'cliente'" json:"rol"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName maps the model onto the persona table.
func (Person) TableName() string {
	return "persona"
}

// IsAdmin reports whether the person holds the administrator role.
func (p Person) IsAdmin() bool {
	return p.Role == "administrador"
}
