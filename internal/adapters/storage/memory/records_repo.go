package memory

import (
	"context"
	"errors"
	"sort"
	"strings"

	"pet-medical-records/internal/apperr"
	"pet-medical-records/internal/domain/records"
)

type recordRepo struct {
	db *DB
}

func NewRecordRepo(db *DB) records.Repository {
	return &recordRepo{db: db}
}

func (r *recordRepo) Create(ctx context.Context, rec records.Record) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if strings.TrimSpace(rec.ID) == "" {
		return errors.New("record id required")
	}
	if _, exists := r.db.records[rec.ID]; exists {
		return errors.New("record already exists")
	}
	// la mascota pudo borrarse entre el chequeo de ownership y acá
	if _, ok := r.db.pets[rec.PetID]; !ok {
		return apperr.ErrNotFound
	}
	r.db.records[rec.ID] = recordRow{seq: r.db.next(), rec: cloneRecord(rec)}
	return nil
}

func (r *recordRepo) Update(ctx context.Context, rec records.Record) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	row, ok := r.db.records[rec.ID]
	if !ok {
		return apperr.ErrNotFound
	}
	row.rec = cloneRecord(rec)
	r.db.records[rec.ID] = row
	return nil
}

func (r *recordRepo) GetByID(ctx context.Context, id string) (records.Record, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	row, ok := r.db.records[id]
	if !ok {
		return records.Record{}, apperr.ErrNotFound
	}
	return cloneRecord(row.rec), nil
}

func (r *recordRepo) ListByPet(ctx context.Context, petID string) ([]records.Record, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	rows := make([]recordRow, 0)
	for _, row := range r.db.records {
		if row.rec.PetID == petID {
			rows = append(rows, row)
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })

	out := make([]records.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, cloneRecord(row.rec))
	}
	return out, nil
}

func (r *recordRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if _, ok := r.db.records[id]; !ok {
		return apperr.ErrNotFound
	}
	delete(r.db.records, id)
	return nil
}
