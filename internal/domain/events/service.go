package events

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"pet-medical-records/internal/observability"
	"pet-medical-records/internal/platform/clock"
	"pet-medical-records/internal/platform/logger"
	"pet-medical-records/internal/ports/changefeed"
)

var ErrInvalidEvent = errors.New("invalid change event")

// errPublishSaturated: se descartó el mensaje porque ya hay demasiados en vuelo.
var errPublishSaturated = errors.New("changefeed publish saturated")

const (
	DefaultPublishTimeout = 5 * time.Second
	maxInFlightPublishes  = 64
)

type Service struct {
	repo  Repository
	feed  changefeed.Publisher
	now   func() time.Time
	newID func() string

	publishTimeout time.Duration
	slots          chan struct{}
	inflight       sync.WaitGroup
}

// NewService: feed puede ser nil (equivale a noop).
func NewService(repo Repository, feed changefeed.Publisher) *Service {
	if feed == nil {
		feed = changefeed.Noop{}
	}
	return &Service{
		repo:           repo,
		feed:           feed,
		now:            time.Now,
		newID:          uuid.NewString,
		publishTimeout: DefaultPublishTimeout,
		slots:          make(chan struct{}, maxInFlightPublishes),
	}
}

// WithPublishTimeout cambia el tope de cada publicación (d <= 0 se ignora).
func (s *Service) WithPublishTimeout(d time.Duration) *Service {
	if d > 0 {
		s.publishTimeout = d
	}
	return s
}

// Wait bloquea hasta que terminen las publicaciones en vuelo.
func (s *Service) Wait() { s.inflight.Wait() }

// Record persiste el evento y lo publica al change feed.
// La publicación es best effort y no bloquea al caller: corre en segundo plano
// con su propio timeout, desacoplada de la cancelación del request.
func (s *Service) Record(ctx context.Context, e ChangeEvent) (ChangeEvent, error) {
	if strings.TrimSpace(e.PetID) == "" || strings.TrimSpace(e.EntityID) == "" || !e.Type.Valid() {
		return ChangeEvent{}, ErrInvalidEvent
	}

	e.ID = s.newID()
	e.OccurredAt = clock.Stamp(s.now())

	if err := s.repo.Create(ctx, e); err != nil {
		return ChangeEvent{}, err
	}

	s.publish(ctx, e)
	return e, nil
}

func (s *Service) publish(ctx context.Context, e ChangeEvent) {
	log := logger.FromContext(ctx).With(map[string]any{
		"event_id": e.ID,
		"type":     string(e.Type),
	})

	select {
	case s.slots <- struct{}{}:
	default:
		observability.ObserveChangefeedPublish(s.feed.Name(), errPublishSaturated)
		log.Warn("changefeed publish dropped", map[string]any{"error": errPublishSaturated})
		return
	}

	msg := changefeed.Message{Key: e.PetID, Type: string(e.Type), Body: e}
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)

	s.inflight.Add(1)
	go func() {
		defer func() {
			cancel()
			<-s.slots
			s.inflight.Done()
		}()

		err := s.feed.Publish(pubCtx, msg)
		observability.ObserveChangefeedPublish(s.feed.Name(), err)
		if err != nil {
			log.Warn("changefeed publish failed", map[string]any{"error": err})
		}
	}()
}

func (s *Service) ListByPet(ctx context.Context, petID string, filter ListFilter) ([]ChangeEvent, error) {
	filter.Limit = filter.EffectiveLimit()
	return s.repo.ListByPet(ctx, petID, filter)
}

// DeletedBy informa si la mascota fue borrada y fue userID quien la borró.
func (s *Service) DeletedBy(ctx context.Context, petID, userID string) (bool, error) {
	if strings.TrimSpace(userID) == "" {
		return false, nil
	}
	list, err := s.repo.ListByPet(ctx, petID, ListFilter{Types: []Type{TypePetDeleted}, Limit: 1})
	if err != nil {
		return false, err
	}
	return len(list) > 0 && list[0].ActorID == userID, nil
}
