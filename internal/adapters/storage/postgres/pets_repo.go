package postgres

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"pet-medical-records/internal/domain/pets"
)

const petColumns = `id, user_id, name, type, breed, date_of_birth, created_at, updated_at`

type PetsRepo struct {
	db *sqlx.DB
}

func NewPetsRepo(db *sqlx.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES (:id, :user_id, :name, :type, :breed, :date_of_birth, :created_at, :updated_at)
	`, p)
	return err
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE pets
		SET
			name = :name,
			type = :type,
			breed = :breed,
			date_of_birth = :date_of_birth,
			updated_at = :updated_at
		WHERE id = :id
	`, p)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *PetsRepo) GetByID(ctx context.Context, id string) (pets.Pet, error) {
	var p pets.Pet
	err := r.db.GetContext(ctx, &p, `SELECT `+petColumns+` FROM pets WHERE id = $1`, strings.TrimSpace(id))
	if err != nil {
		return pets.Pet{}, notFound(err)
	}
	return utcPet(p), nil
}

func (r *PetsRepo) ListByOwner(ctx context.Context, userID string) ([]pets.Pet, error) {
	out := make([]pets.Pet, 0)
	if err := r.db.SelectContext(ctx, &out, `
		SELECT `+petColumns+`
		FROM pets
		WHERE user_id = $1
		ORDER BY seq ASC
	`, userID); err != nil {
		return nil, err
	}
	for i := range out {
		out[i] = utcPet(out[i])
	}
	return out, nil
}

// Delete: los registros caen por ON DELETE CASCADE dentro del mismo statement.
func (r *PetsRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM pets WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if err := affectedOrNotFound(res); err != nil {
		return err
	}
	return tx.Commit()
}

func utcPet(p pets.Pet) pets.Pet {
	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p
}
