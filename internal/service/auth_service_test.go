package service

import (
	"errors"
	"testing"

	"github.com/solmercado/tienda-api/internal/config"
	"github.com/solmercado/tienda-api/internal/constants"
	"github.com/solmercado/tienda-api/internal/repository"
)

func newAuthFixture(t *testing.T) *AuthService {
	t.Helper()
	db := openTestDB(t, "auth")
	cfg := config.JWTConfig{SecretKey: "unit-test-secret-key-0123456789ab", ExpireHours: 1}
	return NewAuthService(repository.NewPersonRepository(db), cfg)
}

func TestRegisterAndLogin(t *testing.T) {
	auth := newAuthFixture(t)

	person, err := auth.Register(RegisterInput{
		FirstName: "Ana",
		LastName:  "Lopez",
		Email:     "Ana@Example.com",
		Password:  "secreta123",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if person.Email != "ana@example.com" {
		t.Fatalf("expected normalized email, got %s", person.Email)
	}
	if person.Role != constants.RoleCustomer {
		t.Fatalf("expected cliente role, got %s", person.Role)
	}
	if person.PasswordHash == "secreta123" {
		t.Fatalf("password must not be stored in the clear")
	}

	logged, token, expiresAt, err := auth.Login("ana@example.com", "secreta123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.ID != person.ID {
		t.Fatalf("expected person %d, got %d", person.ID, logged.ID)
	}
	if token == "" || expiresAt.IsZero() {
		t.Fatalf("expected a signed token with expiry")
	}

	claims, err := auth.ParseToken(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.PersonID != person.ID || claims.Email != "ana@example.com" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
	if claims.IsAdmin() {
		t.Fatalf("cliente token must not be admin")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	auth := newAuthFixture(t)

	input := RegisterInput{FirstName: "Ana", Email: "ana@example.com", Password: "secreta123"}
	if _, err := auth.Register(input); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := auth.Register(input); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	auth := newAuthFixture(t)

	_, err := auth.Register(RegisterInput{FirstName: "Ana", Email: "ana@example.com", Password: "corta"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	auth := newAuthFixture(t)

	if _, err := auth.Register(RegisterInput{FirstName: "Ana", Email: "ana@example.com", Password: "secreta123"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if _, _, _, err := auth.Login("ana@example.com", "equivocada"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, _, _, err := auth.Login("nadie@example.com", "secreta123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	auth := newAuthFixture(t)
	other := newAuthFixture(t)

	person, err := auth.Register(RegisterInput{FirstName: "Ana", Email: "ana@example.com", Password: "secreta123"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	token, _, err := auth.GenerateToken(person)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}

	other.cfg.SecretKey = "another-secret-key-0123456789abcdef"
	if _, err := other.ParseToken(token); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
