package pets

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-medical-records/internal/apperr"
	"pet-medical-records/internal/domain/events"
	"pet-medical-records/internal/observability"
	"pet-medical-records/internal/platform/clock"
	"pet-medical-records/internal/platform/logger"
)

// ErrPetNotFound lleva el mensaje que ve el cliente; matchea apperr.ErrNotFound.
var ErrPetNotFound = apperr.New(apperr.KindNotFound, "Pet not found")

// ChangeRecorder lo implementa events.Service.
type ChangeRecorder interface {
	Record(ctx context.Context, e events.ChangeEvent) (events.ChangeEvent, error)
}

type Service struct {
	repo    Repository
	history ChangeRecorder
	now     func() time.Time
	newID   func() string
}

// NewService: history puede ser nil (sin historial).
func NewService(repo Repository, history ChangeRecorder) *Service {
	return &Service{
		repo:    repo,
		history: history,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

func (s *Service) Create(ctx context.Context, userID string, in Input) (p Pet, err error) {
	defer func() { observability.ObserveStoreOp("pet", "create", err) }()

	if strings.TrimSpace(userID) == "" {
		return Pet{}, apperr.ErrUnauthorized
	}
	in, err = Validate(in)
	if err != nil {
		return Pet{}, err
	}

	now := clock.Stamp(s.now())
	p = Pet{
		ID:          s.newID(),
		UserID:      userID,
		Name:        in.Name,
		Type:        in.Type,
		Breed:       in.Breed,
		DateOfBirth: in.DateOfBirth,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Pet{}, err
	}

	s.record(ctx, events.PetChange(events.TypePetCreated, p.ID, userID))
	return p, nil
}

func (s *Service) List(ctx context.Context, userID string) (out []Pet, err error) {
	defer func() { observability.ObserveStoreOp("pet", "list", err) }()

	out, err = s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Pet{}
	}
	return out, nil
}

// Get devuelve la mascota solo si userID es el dueño. Cualquier otro caso es NotFound.
func (s *Service) Get(ctx context.Context, userID, petID string) (p Pet, err error) {
	defer func() { observability.ObserveStoreOp("pet", "get", err) }()
	return s.owned(ctx, userID, petID)
}

// Authorize implementa events.PetGate.
func (s *Service) Authorize(ctx context.Context, userID, petID string) error {
	_, err := s.owned(ctx, userID, petID)
	return err
}

// Update mezcla el patch, revalida y refresca UpdatedAt (estrictamente creciente).
func (s *Service) Update(ctx context.Context, userID, petID string, patch Patch) (p Pet, err error) {
	defer func() { observability.ObserveStoreOp("pet", "update", err) }()

	cur, err := s.owned(ctx, userID, petID)
	if err != nil {
		return Pet{}, err
	}

	in, err := Validate(patch.apply(cur))
	if err != nil {
		return Pet{}, err
	}

	p = cur
	p.Name = in.Name
	p.Type = in.Type
	p.Breed = in.Breed
	p.DateOfBirth = in.DateOfBirth
	p.UpdatedAt = clock.Next(cur.UpdatedAt, s.now())

	if err := s.repo.Update(ctx, p); err != nil {
		return Pet{}, notFoundAs(err)
	}

	s.record(ctx, events.PetChange(events.TypePetUpdated, p.ID, userID))
	return p, nil
}

// Delete borra la mascota y en cascada todos sus registros.
func (s *Service) Delete(ctx context.Context, userID, petID string) (err error) {
	defer func() { observability.ObserveStoreOp("pet", "delete", err) }()

	cur, err := s.owned(ctx, userID, petID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, cur.ID); err != nil {
		return notFoundAs(err)
	}

	s.record(ctx, events.PetChange(events.TypePetDeleted, cur.ID, userID))
	return nil
}

// GetByID sin chequeo de dueño; lo usa records para resolver ownership.
func (s *Service) GetByID(ctx context.Context, petID string) (Pet, error) {
	p, err := s.repo.GetByID(ctx, strings.TrimSpace(petID))
	if err != nil {
		return Pet{}, notFoundAs(err)
	}
	return p, nil
}

func (s *Service) owned(ctx context.Context, userID, petID string) (Pet, error) {
	p, err := s.GetByID(ctx, petID)
	if err != nil {
		return Pet{}, err
	}
	if !CanAccess(userID, p) {
		return Pet{}, ErrPetNotFound
	}
	return p, nil
}

func (s *Service) record(ctx context.Context, e events.ChangeEvent) {
	if s.history == nil {
		return
	}
	if _, err := s.history.Record(ctx, e); err != nil {
		logger.FromContext(ctx).Warn("history write failed", map[string]any{
			"error":  err,
			"pet_id": e.PetID,
			"type":   string(e.Type),
		})
	}
}

func notFoundAs(err error) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return ErrPetNotFound
	}
	return err
}
