package records

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-medical-records/internal/apperr"
	"pet-medical-records/internal/domain/events"
	"pet-medical-records/internal/domain/pets"
	"pet-medical-records/internal/observability"
	"pet-medical-records/internal/platform/clock"
	"pet-medical-records/internal/platform/logger"
)

var ErrRecordNotFound = apperr.New(apperr.KindNotFound, "Record not found")

type Service struct {
	repo    Repository
	pets    PetLookup
	history pets.ChangeRecorder
	now     func() time.Time
	newID   func() string
}

func NewService(repo Repository, petLookup PetLookup, history pets.ChangeRecorder) *Service {
	return &Service{
		repo:    repo,
		pets:    petLookup,
		history: history,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// Create valida el body y lo guarda bajo petID. La mascota tiene que ser del usuario.
func (s *Service) Create(ctx context.Context, userID, petID string, in Input) (rec Record, err error) {
	defer func() { observability.ObserveStoreOp("record", "create", err) }()

	pet, err := s.ownedPet(ctx, userID, petID)
	if err != nil {
		return Record{}, err
	}

	rec, err = Validate(in)
	if err != nil {
		return Record{}, err
	}

	now := clock.Stamp(s.now())
	rec.ID = s.newID()
	rec.PetID = pet.ID
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := s.repo.Create(ctx, rec); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return Record{}, pets.ErrPetNotFound
		}
		return Record{}, err
	}

	s.record(ctx, events.RecordChange(events.TypeRecordCreated, pet.ID, rec.ID, userID))
	return rec, nil
}

func (s *Service) List(ctx context.Context, userID, petID string) (out []Record, err error) {
	defer func() { observability.ObserveStoreOp("record", "list", err) }()

	pet, err := s.ownedPet(ctx, userID, petID)
	if err != nil {
		return nil, err
	}
	out, err = s.repo.ListByPet(ctx, pet.ID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Record{}
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, userID, recordID string) (rec Record, err error) {
	defer func() { observability.ObserveStoreOp("record", "get", err) }()
	return s.owned(ctx, userID, recordID)
}

// Update mezcla el body sobre el registro guardado. El tipo no cambia nunca;
// campos de otros variantes se ignoran.
func (s *Service) Update(ctx context.Context, userID, recordID string, in Input) (rec Record, err error) {
	defer func() { observability.ObserveStoreOp("record", "update", err) }()

	cur, err := s.owned(ctx, userID, recordID)
	if err != nil {
		return Record{}, err
	}

	rec, err = merge(cur, in)
	if err != nil {
		return Record{}, err
	}
	rec.UpdatedAt = clock.Next(cur.UpdatedAt, s.now())

	if err := s.repo.Update(ctx, rec); err != nil {
		return Record{}, notFoundAs(err)
	}

	s.record(ctx, events.RecordChange(events.TypeRecordUpdated, rec.PetID, rec.ID, userID))
	return rec, nil
}

func (s *Service) Delete(ctx context.Context, userID, recordID string) (err error) {
	defer func() { observability.ObserveStoreOp("record", "delete", err) }()

	cur, err := s.owned(ctx, userID, recordID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, cur.ID); err != nil {
		return notFoundAs(err)
	}

	s.record(ctx, events.RecordChange(events.TypeRecordDeleted, cur.PetID, cur.ID, userID))
	return nil
}

func (s *Service) ownedPet(ctx context.Context, userID, petID string) (pets.Pet, error) {
	p, err := s.pets.GetByID(ctx, strings.TrimSpace(petID))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return pets.Pet{}, pets.ErrPetNotFound
		}
		return pets.Pet{}, err
	}
	if !pets.CanAccess(userID, p) {
		return pets.Pet{}, pets.ErrPetNotFound
	}
	return p, nil
}

// owned devuelve el registro solo si su mascota es del usuario. Ajeno o inexistente: NotFound.
func (s *Service) owned(ctx context.Context, userID, recordID string) (Record, error) {
	rec, err := s.repo.GetByID(ctx, strings.TrimSpace(recordID))
	if err != nil {
		return Record{}, notFoundAs(err)
	}
	if !CanAccess(ctx, userID, rec, s.pets) {
		return Record{}, ErrRecordNotFound
	}
	return rec, nil
}

func (s *Service) record(ctx context.Context, e events.ChangeEvent) {
	if s.history == nil {
		return
	}
	if _, err := s.history.Record(ctx, e); err != nil {
		logger.FromContext(ctx).Warn("history write failed", map[string]any{
			"error":     err,
			"record_id": e.EntityID,
			"type":      string(e.Type),
		})
	}
}

func notFoundAs(err error) error {
	if errors.Is(err, apperr.ErrNotFound) {
		return ErrRecordNotFound
	}
	return err
}
