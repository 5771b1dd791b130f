package service

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/solmercado/tienda-api/internal/config"
	"github.com/solmercado/tienda-api/internal/constants"
	"github.com/solmercado/tienda-api/internal/models"
	"github.com/solmercado/tienda-api/internal/repository"
)

// AuthService handles registration, login and token verification for
// persona accounts.
type AuthService struct {
	persons repository.PersonRepository
	cfg     config.JWTConfig
}

func NewAuthService(persons repository.PersonRepository, cfg config.JWTConfig) *AuthService {
	return &AuthService{persons: persons, cfg: cfg}
}

// JWTClaims is the token payload: persona id, email and role.
type JWTClaims struct {
	PersonID uint   `json:"id_persona"`
	Email    string `json:"correo"`
	Role     string `json:"rol"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token carries the administrator role.
func (c *JWTClaims) IsAdmin() bool {
	return c.Role == constants.RoleAdmin
}

// RegisterInput is the public registration payload. Role is always
// cliente; admins are created through the admin surface.
type RegisterInput struct {
	FirstName  string `json:"nombre"`
	LastName   string `json:"apellido"`
	Email      string `json:"correo"`
	Password   string `json:"contrasena"`
	Phone      string `json:"telefono"`
	Address    string `json:"direccion"`
	City       string `json:"ciudad"`
	PostalCode string `json:"codigo_postal"`
}

// Register creates a customer account with a bcrypt password hash.
func (s *AuthService) Register(input RegisterInput) (*models.Person, error) {
	email := normalizeEmail(input.Email)
	firstName := strings.TrimSpace(input.FirstName)
	if email == "" || firstName == "" || len(input.Password) < 8 {
		return nil, ErrInvalidInput
	}

	existing, err := s.persons.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	person := &models.Person{
		FirstName:    firstName,
		LastName:     strings.TrimSpace(input.LastName),
		Email:        email,
		PasswordHash: string(hash),
		Phone:        strings.TrimSpace(input.Phone),
		Address:      strings.TrimSpace(input.Address),
		City:         strings.TrimSpace(input.City),
		PostalCode:   strings.TrimSpace(input.PostalCode),
		Role:         constants.RoleCustomer,
	}
	if err := s.persons.Create(person); err != nil {
		return nil, err
	}
	return person, nil
}

// Login checks credentials and issues a signed token. Unknown email and bad
// password are indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (*models.Person, string, time.Time, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	person, err := s.persons.GetByEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if person == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(person.PasswordHash), []byte(password)) != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateToken(person)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return person, token, expiresAt, nil
}

// GenerateToken signs an HS256 token for the person.
func (s *AuthService) GenerateToken(person *models.Person) (string, time.Time, error) {
	expireHours := s.cfg.ExpireHours
	if expireHours <= 0 {
		expireHours = 24
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(expireHours) * time.Hour)

	claims := JWTClaims{
		PersonID: person.ID,
		Email:    person.Email,
		Role:     person.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseToken verifies a token and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*JWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	token, err := parser.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.SecretKey), nil
	})
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	return claims, nil
}
