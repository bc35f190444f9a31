package users

import "context"

type Repository interface {
	// Create falla con apperr.ErrDuplicateUser si el email ya existe (match exacto).
	Create(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
}
