package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"pet-medical-records/internal/apperr"
	"pet-medical-records/internal/domain/records"
)

// recordRow guarda el variante en details (jsonb) al lado de las columnas comunes.
type recordRow struct {
	ID          string    `db:"id"`
	PetID       string    `db:"pet_id"`
	Type        string    `db:"type"`
	Name        string    `db:"name"`
	Details     []byte    `db:"details"`
	Attachments []byte    `db:"attachments"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

const recordColumns = `id, pet_id, type, name, details, attachments, created_at, updated_at`

type RecordsRepo struct {
	db *sqlx.DB
}

func NewRecordsRepo(db *sqlx.DB) *RecordsRepo {
	return &RecordsRepo{db: db}
}

func (r *RecordsRepo) Create(ctx context.Context, rec records.Record) error {
	row, err := toRecordRow(rec)
	if err != nil {
		return err
	}
	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO medical_records (`+recordColumns+`)
		VALUES (:id, :pet_id, :type, :name, :details, :attachments, :created_at, :updated_at)
	`, row)
	if isForeignKeyViolation(err) {
		return apperr.ErrNotFound
	}
	return err
}

func (r *RecordsRepo) Update(ctx context.Context, rec records.Record) error {
	row, err := toRecordRow(rec)
	if err != nil {
		return err
	}
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE medical_records
		SET
			name = :name,
			details = :details,
			attachments = :attachments,
			updated_at = :updated_at
		WHERE id = :id
	`, row)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *RecordsRepo) GetByID(ctx context.Context, id string) (records.Record, error) {
	var row recordRow
	if err := r.db.GetContext(ctx, &row, `SELECT `+recordColumns+` FROM medical_records WHERE id = $1`, strings.TrimSpace(id)); err != nil {
		return records.Record{}, notFound(err)
	}
	return fromRecordRow(row)
}

func (r *RecordsRepo) ListByPet(ctx context.Context, petID string) ([]records.Record, error) {
	rows := make([]recordRow, 0)
	if err := r.db.SelectContext(ctx, &rows, `
		SELECT `+recordColumns+`
		FROM medical_records
		WHERE pet_id = $1
		ORDER BY seq ASC
	`, petID); err != nil {
		return nil, err
	}

	out := make([]records.Record, 0, len(rows))
	for _, row := range rows {
		rec, err := fromRecordRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func (r *RecordsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medical_records WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func toRecordRow(rec records.Record) (recordRow, error) {
	var details any
	switch rec.Type {
	case records.TypeVaccine:
		details = rec.Vaccine
	case records.TypeAllergy:
		details = rec.Allergy
	case records.TypeLab:
		details = rec.Lab
	default:
		return recordRow{}, fmt.Errorf("record %s: unknown type %q", rec.ID, rec.Type)
	}

	d, err := json.Marshal(details)
	if err != nil {
		return recordRow{}, err
	}
	atts := rec.Attachments
	if atts == nil {
		atts = []records.Attachment{}
	}
	a, err := json.Marshal(atts)
	if err != nil {
		return recordRow{}, err
	}

	return recordRow{
		ID:          rec.ID,
		PetID:       rec.PetID,
		Type:        string(rec.Type),
		Name:        rec.Name,
		Details:     d,
		Attachments: a,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}, nil
}

func fromRecordRow(row recordRow) (records.Record, error) {
	rec := records.Record{
		ID:        row.ID,
		PetID:     row.PetID,
		Type:      records.Type(row.Type),
		Name:      row.Name,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}

	var err error
	switch rec.Type {
	case records.TypeVaccine:
		rec.Vaccine = &records.Vaccine{}
		err = json.Unmarshal(row.Details, rec.Vaccine)
	case records.TypeAllergy:
		rec.Allergy = &records.Allergy{}
		err = json.Unmarshal(row.Details, rec.Allergy)
	case records.TypeLab:
		rec.Lab = &records.Lab{}
		err = json.Unmarshal(row.Details, rec.Lab)
	}
	if err != nil {
		return records.Record{}, fmt.Errorf("record %s details: %w", row.ID, err)
	}

	rec.Attachments = []records.Attachment{}
	if len(row.Attachments) > 0 {
		if err := json.Unmarshal(row.Attachments, &rec.Attachments); err != nil {
			return records.Record{}, fmt.Errorf("record %s attachments: %w", row.ID, err)
		}
	}
	return rec, nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
