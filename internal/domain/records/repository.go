package records

import "context"

type Repository interface {
	// Create falla con apperr.ErrNotFound si la mascota ya no existe
	// (un registro nunca queda huérfano).
	Create(ctx context.Context, r Record) error
	Update(ctx context.Context, r Record) error
	GetByID(ctx context.Context, id string) (Record, error)
	// ListByPet devuelve en orden de inserción.
	ListByPet(ctx context.Context, petID string) ([]Record, error)
	Delete(ctx context.Context, id string) error
}
