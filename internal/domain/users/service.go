package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"pet-medical-records/internal/apperr"
)

type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() string
	cost  int
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		now:   time.Now,
		newID: uuid.NewString,
		cost:  bcrypt.DefaultCost,
	}
}

// Register crea el usuario. El email se compara tal cual (case-sensitive), igual que la referencia.
func (s *Service) Register(ctx context.Context, email, name, password string) (User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || name == "" || password == "" {
		return User{}, apperr.ErrMissingField
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, apperr.ErrDuplicateUser
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return User{}, apperr.Wrap(apperr.KindInternal, "", err)
	}

	u := User{
		ID:           s.newID(),
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Login verifica email + password. Cualquier falla sale como InvalidCredentials
// para no revelar qué emails existen.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return User{}, apperr.ErrMissingField
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return User{}, apperr.ErrInvalidCredentials
		}
		return User{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return User{}, apperr.ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return User{}, apperr.ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

// Exists se usa en el gate de autenticación HTTP: una identidad que no corresponde
// a un usuario registrado es 401.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.GetByID(ctx, id)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	return false, err
}
