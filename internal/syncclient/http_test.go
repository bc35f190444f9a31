package syncclient_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pet-medical-records/internal/apperr"
	"pet-medical-records/internal/domain/pets"
	"pet-medical-records/internal/domain/records"
	"pet-medical-records/internal/domain/users"
	"pet-medical-records/internal/router"
	"pet-medical-records/internal/session"
	"pet-medical-records/internal/syncclient"
)

func strp(s string) *string { return &s }

func newServerClient(t *testing.T) (*syncclient.Client, *session.Manager) {
	t.Helper()
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	t.Cleanup(ts.Close)

	tr, err := syncclient.NewHTTPTransport(ts.URL, 5*time.Second)
	require.NoError(t, err)
	sm := session.NewManager(session.NewMemoryKV(), nil)
	return syncclient.New(tr, sm, nil), sm
}

func TestHTTP_SyncFlow(t *testing.T) {
	ctx := context.Background()
	c, sm := newServerClient(t)

	_, err := c.Register(ctx, "alice@example.com", "alice", "secret")
	require.NoError(t, err)

	_, err = c.Register(ctx, "alice@example.com", "alice", "secret")
	require.True(t, apperr.Is(err, apperr.KindDuplicateUser), "got %v", err)

	_, err = c.Login(ctx, "alice@example.com", "wrong")
	require.True(t, apperr.Is(err, apperr.KindInvalidCredentials), "got %v", err)

	u, err := c.Login(ctx, "alice@example.com", "secret")
	require.NoError(t, err)
	require.Empty(t, c.Pets())

	p, err := c.CreatePet(ctx, pets.Input{Name: "Rex", Type: pets.TypeDog, Breed: "lab", DateOfBirth: "2020-01-01"})
	require.NoError(t, err)
	require.Equal(t, u.ID, p.UserID)
	require.Len(t, c.Pets(), 1)

	rec, err := c.CreateRecord(ctx, p.ID, records.Input{
		Type:             records.TypeVaccine,
		Name:             strp("Rabies"),
		DateAdministered: strp("2024-01-01"),
	})
	require.NoError(t, err)
	require.NotNil(t, rec.Vaccine)
	require.Len(t, c.Records(p.ID), 1)

	_, err = c.CreateRecord(ctx, p.ID, records.Input{Type: "xray", Name: strp("bad")})
	require.True(t, apperr.Is(err, apperr.KindInvalidType), "got %v", err)
	require.Len(t, c.Records(p.ID), 1)

	require.NoError(t, c.DeletePet(ctx, p.ID))
	require.Empty(t, c.Pets())

	_, err = c.LoadRecords(ctx, p.ID)
	require.True(t, apperr.Is(err, apperr.KindNotFound), "got %v", err)

	require.NoError(t, c.SignOut(ctx))
	s, err := sm.Restore(ctx)
	require.NoError(t, err)
	require.Nil(t, s)
}

func TestHTTP_RestoreUnknownUserSignsOut(t *testing.T) {
	ctx := context.Background()
	c, sm := newServerClient(t)

	// sesión de un usuario que el servidor no conoce (p.ej. store reiniciado)
	require.NoError(t, sm.Save(ctx, session.Session{User: users.User{ID: "ghost"}}))

	u, err := c.Restore(ctx)
	require.True(t, apperr.Is(err, apperr.KindUnauthorized), "got %v", err)
	require.Nil(t, u)

	s, err := sm.Restore(ctx)
	require.NoError(t, err)
	require.Nil(t, s)
}

func TestHTTP_NetworkErrorIsRetryable(t *testing.T) {
	ctx := context.Background()
	c, sm := newServerClient(t)

	_, err := c.Register(ctx, "bob@example.com", "bob", "pw")
	require.NoError(t, err)
	_, err = c.Login(ctx, "bob@example.com", "pw")
	require.NoError(t, err)

	// puerto cerrado: nadie escucha
	tr, err := syncclient.NewHTTPTransport("http://127.0.0.1:1", time.Second)
	require.NoError(t, err)
	offline := syncclient.New(tr, sm, nil)

	u, err := offline.Restore(ctx)
	require.True(t, apperr.Retryable(err), "got %v", err)
	require.NotNil(t, u, "modo degradado: se conserva el usuario")
	require.Empty(t, offline.Pets())
}
