package memory

import (
	"context"
	"errors"

	"pet-medical-records/internal/domain/events"
)

type eventRepo struct {
	db *DB
}

func NewEventRepo(db *DB) events.Repository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, e events.ChangeEvent) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if e.ID == "" {
		return errors.New("event id required")
	}
	r.db.events = append(r.db.events, e)
	return nil
}

// ListByPet recorre del final al principio: el slice está en orden de inserción
// y el historial se devuelve más reciente primero.
func (r *eventRepo) ListByPet(ctx context.Context, petID string, filter events.ListFilter) ([]events.ChangeEvent, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	limit := filter.EffectiveLimit()
	out := make([]events.ChangeEvent, 0)

	for i := len(r.db.events) - 1; i >= 0 && len(out) < limit; i-- {
		e := r.db.events[i]
		if e.PetID != petID || !filter.Match(e) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
