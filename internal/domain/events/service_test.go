package events_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pet-medical-records/internal/adapters/storage/memory"
	"pet-medical-records/internal/domain/events"
	"pet-medical-records/internal/ports/changefeed"
)

type fakeFeed struct {
	mu   sync.Mutex
	msgs []changefeed.Message
	err  error
}

func (f *fakeFeed) Name() string { return "fake" }

func (f *fakeFeed) Publish(_ context.Context, m changefeed.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, m)
	return nil
}

// stuckFeed no vuelve hasta que se libera release o vence el ctx del publish.
type stuckFeed struct {
	release chan struct{}
	got     chan error
}

func (f *stuckFeed) Name() string { return "stuck" }

func (f *stuckFeed) Publish(ctx context.Context, _ changefeed.Message) error {
	select {
	case <-f.release:
		f.got <- nil
		return nil
	case <-ctx.Done():
		f.got <- ctx.Err()
		return ctx.Err()
	}
}

func (f *fakeFeed) Close() error  { return nil }
func (f *stuckFeed) Close() error { return nil }

func TestRecord_PersistsAndPublishes(t *testing.T) {
	feed := &fakeFeed{}
	svc := events.NewService(memory.NewEventRepo(memory.NewDB()), feed)
	ctx := context.Background()

	e, err := svc.Record(ctx, events.PetChange(events.TypePetCreated, "p1", "u1"))
	require.NoError(t, err)
	require.NotEmpty(t, e.ID)
	require.False(t, e.OccurredAt.IsZero())

	svc.Wait()
	require.Len(t, feed.msgs, 1)
	require.Equal(t, "p1", feed.msgs[0].Key)
	require.Equal(t, "PET_CREATED", feed.msgs[0].Type)

	list, err := svc.ListByPet(ctx, "p1", events.ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestRecord_PublishFailureIsNotReturned(t *testing.T) {
	feed := &fakeFeed{err: errors.New("broker down")}
	svc := events.NewService(memory.NewEventRepo(memory.NewDB()), feed)
	ctx := context.Background()

	_, err := svc.Record(ctx, events.RecordChange(events.TypeRecordCreated, "p1", "r1", "u1"))
	require.NoError(t, err)
	svc.Wait()

	list, err := svc.ListByPet(ctx, "p1", events.ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1, "se persiste aunque el publish falle")
}

func TestRecord_SlowFeedDoesNotBlockCaller(t *testing.T) {
	feed := &stuckFeed{release: make(chan struct{}), got: make(chan error, 1)}
	svc := events.NewService(memory.NewEventRepo(memory.NewDB()), feed)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := svc.Record(ctx, events.PetChange(events.TypePetCreated, "p1", "u1"))
		done <- err
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Record quedó esperando al broker")
	}

	// cancelar el request no corta la publicación pendiente
	cancel()
	close(feed.release)
	svc.Wait()
	require.NoError(t, <-feed.got)
}

func TestRecord_PublishIsBoundedByTimeout(t *testing.T) {
	feed := &stuckFeed{release: make(chan struct{}), got: make(chan error, 1)}
	svc := events.NewService(memory.NewEventRepo(memory.NewDB()), feed).WithPublishTimeout(20 * time.Millisecond)

	_, err := svc.Record(context.Background(), events.PetChange(events.TypePetCreated, "p1", "u1"))
	require.NoError(t, err)

	svc.Wait()
	require.ErrorIs(t, <-feed.got, context.DeadlineExceeded)

	list, err := svc.ListByPet(context.Background(), "p1", events.ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestDeletedBy(t *testing.T) {
	svc := events.NewService(memory.NewEventRepo(memory.NewDB()), nil)
	ctx := context.Background()

	_, err := svc.Record(ctx, events.PetChange(events.TypePetCreated, "p1", "alice"))
	require.NoError(t, err)
	ok, err := svc.DeletedBy(ctx, "p1", "alice")
	require.NoError(t, err)
	require.False(t, ok, "todavía no se borró")

	_, err = svc.Record(ctx, events.PetChange(events.TypePetDeleted, "p1", "alice"))
	require.NoError(t, err)
	ok, err = svc.DeletedBy(ctx, "p1", "alice")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.DeletedBy(ctx, "p1", "bob")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRecord_RejectsInvalid(t *testing.T) {
	svc := events.NewService(memory.NewEventRepo(memory.NewDB()), nil)

	_, err := svc.Record(context.Background(), events.ChangeEvent{PetID: "p1", EntityID: "p1", Type: "PET_EXPLODED"})
	require.ErrorIs(t, err, events.ErrInvalidEvent)

	_, err = svc.Record(context.Background(), events.PetChange(events.TypePetCreated, "", "u1"))
	require.ErrorIs(t, err, events.ErrInvalidEvent)
}

func TestListByPet_FilterAndLimit(t *testing.T) {
	svc := events.NewService(memory.NewEventRepo(memory.NewDB()), nil)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := svc.Record(ctx, events.RecordChange(events.TypeRecordUpdated, "p1", "r1", "u1"))
		require.NoError(t, err)
	}
	_, err := svc.Record(ctx, events.PetChange(events.TypePetUpdated, "p1", "u1"))
	require.NoError(t, err)
	_, err = svc.Record(ctx, events.PetChange(events.TypePetUpdated, "p2", "u1"))
	require.NoError(t, err)

	all, err := svc.ListByPet(ctx, "p1", events.ListFilter{})
	require.NoError(t, err)
	require.Len(t, all, 6)
	require.Equal(t, events.TypePetUpdated, all[0].Type)

	limited, err := svc.ListByPet(ctx, "p1", events.ListFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)

	onlyPet, err := svc.ListByPet(ctx, "p1", events.ListFilter{Types: []events.Type{events.TypePetUpdated}})
	require.NoError(t, err)
	require.Len(t, onlyPet, 1)

	future := time.Now().Add(time.Hour)
	none, err := svc.ListByPet(ctx, "p1", events.ListFilter{From: &future})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestListFilter_EffectiveLimit(t *testing.T) {
	require.Equal(t, events.DefaultLimit, events.ListFilter{}.EffectiveLimit())
	require.Equal(t, events.MaxLimit, events.ListFilter{Limit: 10_000}.EffectiveLimit())
	require.Equal(t, 7, events.ListFilter{Limit: 7}.EffectiveLimit())
}
