package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pet-medical-records/internal/apperr"
)

type testRepo struct {
	byID map[string]User
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]User{}}
}

func (r *testRepo) Create(_ context.Context, u User) error {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return apperr.ErrDuplicateUser
		}
	}
	r.byID[u.ID] = u
	return nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (User, error) {
	u, ok := r.byID[id]
	if !ok {
		return User{}, apperr.ErrNotFound
	}
	return u, nil
}

func (r *testRepo) GetByEmail(_ context.Context, email string) (User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return User{}, apperr.ErrNotFound
}

func newTestService() *Service {
	s := NewService(newTestRepo())
	s.cost = bcrypt.MinCost
	return s
}

func TestRegisterAndLogin(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	u, err := s.Register(ctx, " alice@example.com ", "alice", "secret")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, "alice@example.com", u.Email)
	require.NotEqual(t, "secret", u.PasswordHash)

	got, err := s.Login(ctx, "alice@example.com", "secret")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	ok, err := s.Exists(ctx, u.ID)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Exists(ctx, "ghost")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestRegister_Errors(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	_, err := s.Register(ctx, "", "alice", "pw")
	require.ErrorIs(t, err, apperr.ErrMissingField)

	_, err = s.Register(ctx, "alice@example.com", "alice", "pw")
	require.NoError(t, err)

	_, err = s.Register(ctx, "alice@example.com", "other", "pw2")
	require.ErrorIs(t, err, apperr.ErrDuplicateUser)
	require.Equal(t, "User already exists", apperr.Message(err))
}

func TestLogin_DoesNotRevealWhichPartFailed(t *testing.T) {
	s := newTestService()
	ctx := context.Background()

	_, err := s.Register(ctx, "alice@example.com", "alice", "pw")
	require.NoError(t, err)

	_, err = s.Login(ctx, "alice@example.com", "wrong")
	require.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	_, err = s.Login(ctx, "nobody@example.com", "pw")
	require.ErrorIs(t, err, apperr.ErrInvalidCredentials)

	_, err = s.Login(ctx, "alice@example.com", "")
	require.ErrorIs(t, err, apperr.ErrMissingField)
}
