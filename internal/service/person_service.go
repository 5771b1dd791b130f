package service

import (
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/solmercado/tienda-api/internal/constants"
	"github.com/solmercado/tienda-api/internal/models"
	"github.com/solmercado/tienda-api/internal/repository"
)

// PersonService is the persona CRUD surface used by the admin panel.
type PersonService struct {
	persons repository.PersonRepository
}

func NewPersonService(persons repository.PersonRepository) *PersonService {
	return &PersonService{persons: persons}
}

type CreatePersonInput struct {
	FirstName  string `json:"nombre"`
	LastName   string `json:"apellido"`
	Email      string `json:"correo"`
	Password   string `json:"contrasena"`
	Phone      string `json:"telefono"`
	Address    string `json:"direccion"`
	City       string `json:"ciudad"`
	PostalCode string `json:"codigo_postal"`
	Role       string `json:"rol"`
}

// UpdatePersonInput patches a person. Nil fields stay untouched; a non-nil
// Password is re-hashed.
type UpdatePersonInput struct {
	FirstName  *string `json:"nombre"`
	LastName   *string `json:"apellido"`
	Email      *string `json:"correo"`
	Password   *string `json:"contrasena"`
	Phone      *string `json:"telefono"`
	Address    *string `json:"direccion"`
	City       *string `json:"ciudad"`
	PostalCode *string `json:"codigo_postal"`
	Role       *string `json:"rol"`
}

func (s *PersonService) GetPerson(id uint) (*models.Person, error) {
	person, err := s.persons.GetByID(id)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, ErrPersonNotFound
	}
	return person, nil
}

func (s *PersonService) ListPersons(filter repository.PersonListFilter) ([]models.Person, int64, error) {
	return s.persons.List(filter)
}

func (s *PersonService) CreatePerson(input CreatePersonInput) (*models.Person, error) {
	email := normalizeEmail(input.Email)
	firstName := strings.TrimSpace(input.FirstName)
	if email == "" || firstName == "" || len(input.Password) < 8 {
		return nil, ErrInvalidInput
	}
	role := strings.TrimSpace(input.Role)
	if role == "" {
		role = constants.RoleCustomer
	}
	if role != constants.RoleCustomer && role != constants.RoleAdmin {
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
		Role:         role,
	}
	if err := s.persons.Create(person); err != nil {
		return nil, err
	}
	return person, nil
}

func (s *PersonService) UpdatePerson(id uint, input UpdatePersonInput) (*models.Person, error) {
	if _, err := s.GetPerson(id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.FirstName != nil {
		firstName := strings.TrimSpace(*input.FirstName)
		if firstName == "" {
			return nil, ErrInvalidInput
		}
		updates["nombre"] = firstName
	}
	if input.LastName != nil {
		updates["apellido"] = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if email == "" {
			return nil, ErrInvalidInput
		}
		existing, err := s.persons.GetByEmail(email)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrEmailTaken
		}
		updates["correo"] = email
	}
	if input.Password != nil {
		if len(*input.Password) < 8 {
			return nil, ErrInvalidInput
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		updates["contrasena"] = string(hash)
	}
	if input.Phone != nil {
		updates["telefono"] = strings.TrimSpace(*input.Phone)
	}
	if input.Address != nil {
		updates["direccion"] = strings.TrimSpace(*input.Address)
	}
	if input.City != nil {
		updates["ciudad"] = strings.TrimSpace(*input.City)
	}
	if input.PostalCode != nil {
		updates["codigo_postal"] = strings.TrimSpace(*input.PostalCode)
	}
	if input.Role != nil {
		role := strings.TrimSpace(*input.Role)
		if role != constants.RoleCustomer && role != constants.RoleAdmin {
			return nil, ErrInvalidInput
		}
		updates["rol"] = role
	}

	if len(updates) > 0 {
		if err := s.persons.Update(id, updates); err != nil {
			return nil, err
		}
	}
	return s.GetPerson(id)
}

func (s *PersonService) DeletePerson(id uint) error {
	if _, err := s.GetPerson(id); err != nil {
		return err
	}
	return s.persons.Delete(id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
