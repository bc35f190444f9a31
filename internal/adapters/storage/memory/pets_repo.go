package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"pet-medical-records/internal/apperr"
	"pet-medical-records/internal/domain/pets"
)

type petRepo struct {
	db *DB
}

func NewPetRepo(db *DB) pets.Repository {
	return &petRepo{db: db}
}

func (r *petRepo) Create(ctx context.Context, p pets.Pet) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("pet id required")
	}
	if _, exists := r.db.pets[p.ID]; exists {
		return errors.New("pet already exists")
	}
	r.db.pets[p.ID] = petRow{seq: r.db.next(), pet: p}
	return nil
}

func (r *petRepo) Update(ctx context.Context, p pets.Pet) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	row, exists := r.db.pets[p.ID]
	if !exists {
		return apperr.ErrNotFound
	}
	row.pet = p
	r.db.pets[p.ID] = row
	return nil
}

func (r *petRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	row, ok := r.db.pets[id]
	if !ok {
		return pets.Pet{}, apperr.ErrNotFound
	}
	return row.pet, nil
}

func (r *petRepo) ListByOwner(ctx context.Context, userID string) ([]pets.Pet, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rows := make([]petRow, 0)
	for _, row := range r.db.pets {
		if row.pet.UserID == userID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	out := make([]pets.Pet, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.pet)
	}
	return out, nil
}

// Delete borra la mascota y sus registros bajo el mismo lock.
func (r *petRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.pets[id]; !ok {
		return apperr.ErrNotFound
	}
	for rid, row := range r.db.records {
		if row.rec.PetID == id {
			delete(r.db.records, rid)
		}
	}
	delete(r.db.pets, id)
	return nil
}
