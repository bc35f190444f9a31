package records

import (
	"context"

	"pet-medical-records/internal/domain/pets"
)

// PetLookup resuelve la mascota de un registro. Lo implementa pets.Service.
type PetLookup interface {
	GetByID(ctx context.Context, petID string) (pets.Pet, error)
}

// CanAccess: el registro es accesible si su mascota existe y es del usuario.
func CanAccess(ctx context.Context, userID string, rec Record, lookup PetLookup) bool {
	p, err := lookup.GetByID(ctx, rec.PetID)
	if err != nil {
		return false
	}
	return pets.CanAccess(userID, p)
}
