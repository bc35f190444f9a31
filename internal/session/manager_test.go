package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"pet-medical-records/internal/domain/users"
)

func testManagerRoundTrip(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()
	m := NewManager(kv, nil)

	got, err := m.Restore(ctx)
	require.NoError(t, err)
	require.Nil(t, got, "slot vacío => sin sesión")

	want := Session{User: users.User{ID: "u-1", Email: "alice@example.com", Name: "alice"}, Token: "tok"}
	require.NoError(t, m.Save(ctx, want))

	got, err = m.Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, want.User.ID, got.User.ID)
	require.Equal(t, want.User.Email, got.User.Email)
	require.Equal(t, "tok", got.Token)

	require.NoError(t, m.Clear(ctx))
	got, err = m.Restore(ctx)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestManager_MemoryKV(t *testing.T) {
	testManagerRoundTrip(t, NewMemoryKV())
}

func TestManager_SQLiteKV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.db")
	kv, err := OpenSQLiteKV(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	testManagerRoundTrip(t, kv)
}

func TestSQLiteKV_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.db")

	kv, err := OpenSQLiteKV(path)
	require.NoError(t, err)
	require.NoError(t, NewManager(kv, nil).Save(ctx, Session{User: users.User{ID: "u-1"}}))
	require.NoError(t, kv.Close())

	kv, err = OpenSQLiteKV(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })

	got, err := NewManager(kv, nil).Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "u-1", got.User.ID)
}

func TestManager_RedisKV(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	rdb := NewRedisClient(addr, os.Getenv("REDIS_PASSWORD"), 0)
	kv := NewRedisKV(rdb)
	t.Cleanup(func() {
		_ = kv.Delete(context.Background(), Key)
		_ = kv.Close()
	})

	testManagerRoundTrip(t, kv)
}

func TestManager_CorruptSlotIsCleared(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	m := NewManager(kv, nil)

	require.NoError(t, kv.Set(ctx, Key, []byte("{not json")))
	got, err := m.Restore(ctx)
	require.NoError(t, err)
	require.Nil(t, got)

	_, ok, err := kv.Get(ctx, Key)
	require.NoError(t, err)
	require.False(t, ok, "slot corrupto se borra")

	// JSON válido pero sin id de usuario tampoco es una sesión
	require.NoError(t, kv.Set(ctx, Key, []byte(`{"user":{"email":"x"}}`)))
	got, err = m.Restore(ctx)
	require.NoError(t, err)
	require.Nil(t, got)
}
