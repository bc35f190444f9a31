package pets

import "context"

type Repository interface {
	Create(ctx context.Context, p Pet) error
	Update(ctx context.Context, p Pet) error
	GetByID(ctx context.Context, id string) (Pet, error)
	// ListByOwner devuelve en orden de inserción.
	ListByOwner(ctx context.Context, userID string) ([]Pet, error)
	// Delete borra la mascota y todos sus registros en una sola operación atómica.
	Delete(ctx context.Context, id string) error
}
