package models

import (
	"strings"

	"github.com/solmercado/tienda-api/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultAdmin creates the first administrator account when the persona
// table has none yet.
func InitDefaultAdmin(email, password string) error {
	var count int64
	DB.Model(&Person{}).Where("rol = ?", "administrador").Count(&count)
	if count > 0 {
		return nil
	}

	email = strings.TrimSpace(email)
	if email == "" {
		email = "admin@tienda.local"
	}
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := Person{
		FirstName:    "Admin",
		Email:        email,
		PasswordHash: string(hash),
		Role:         "administrador",
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if password == "admin123" {
		logger.Warnw("default_admin_created_with_default_password", "email", email)
		logger.Warnw("default_admin_password_change_required", "email", email)
	} else {
		logger.Warnw("default_admin_created", "email", email, "password_hidden", true)
	}
	return nil
}
