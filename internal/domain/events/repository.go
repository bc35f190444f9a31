package events

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, e ChangeEvent) error
	ListByPet(ctx context.Context, petID string, filter ListFilter) ([]ChangeEvent, error)
}

const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// ListFilter: más reciente primero. From/To son inclusivos sobre OccurredAt.
type ListFilter struct {
	Types []Type
	From  *time.Time
	To    *time.Time
	Limit int
}

// EffectiveLimit aplica default y tope.
func (f ListFilter) EffectiveLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultLimit
	case f.Limit > MaxLimit:
		return MaxLimit
	default:
		return f.Limit
	}
}

// Match se usa en el repo in-memory; Postgres arma el WHERE equivalente.
func (f ListFilter) Match(e ChangeEvent) bool {
	if len(f.Types) > 0 {
		ok := false
		for _, t := range f.Types {
			if e.Type == t {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.From != nil && e.OccurredAt.Before(*f.From) {
		return false
	}
	if f.To != nil && e.OccurredAt.After(*f.To) {
		return false
	}
	return true
}
