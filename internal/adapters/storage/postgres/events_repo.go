package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"pet-medical-records/internal/domain/events"
)

type EventsRepo struct {
	db *sqlx.DB
}

func NewEventsRepo(db *sqlx.DB) *EventsRepo {
	return &EventsRepo{db: db}
}

func (r *EventsRepo) Create(ctx context.Context, e events.ChangeEvent) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO change_events (id, pet_id, entity, entity_id, type, actor_id, occurred_at)
		VALUES (:id, :pet_id, :entity, :entity_id, :type, :actor_id, :occurred_at)
	`, e)
	return err
}

func (r *EventsRepo) ListByPet(ctx context.Context, petID string, filter events.ListFilter) ([]events.ChangeEvent, error) {
	petID = strings.TrimSpace(petID)
	if petID == "" {
		return []events.ChangeEvent{}, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT id, pet_id, entity, entity_id, type, actor_id, occurred_at
		FROM change_events
		WHERE pet_id = $1
	`)

	args := []any{petID}
	argN := 2

	if len(filter.Types) > 0 {
		placeholders := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			placeholders = append(placeholders, fmt.Sprintf("$%d", argN))
			args = append(args, string(t))
			argN++
		}
		sb.WriteString(" AND type IN (" + strings.Join(placeholders, ",") + ")")
	}

	if filter.From != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at >= $%d", argN))
		args = append(args, *filter.From)
		argN++
	}
	if filter.To != nil {
		sb.WriteString(fmt.Sprintf(" AND occurred_at <= $%d", argN))
		args = append(args, *filter.To)
		argN++
	}

	sb.WriteString(" ORDER BY occurred_at DESC, seq DESC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, filter.EffectiveLimit())

	out := make([]events.ChangeEvent, 0)
	if err := r.db.SelectContext(ctx, &out, sb.String(), args...); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].OccurredAt = out[i].OccurredAt.UTC()
	}
	return out, nil
}
