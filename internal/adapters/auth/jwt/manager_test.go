package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"pet-medical-records/internal/ports/auth"
)

func TestManager_IssueThenVerify(t *testing.T) {
	m, err := NewManager("s3cret", "pet-medical-records", time.Hour)
	require.NoError(t, err)

	tok, err := m.Issue(context.Background(), auth.Claims{UserID: "u-1", Email: "alice@example.com"})
	require.NoError(t, err)

	c, err := m.Verify(context.Background(), tok)
	require.NoError(t, err)
	require.Equal(t, "u-1", c.UserID)
	require.Equal(t, "alice@example.com", c.Email)
}

func TestManager_RejectsWrongSecretIssuerAndExpired(t *testing.T) {
	ctx := context.Background()
	m, err := NewManager("s3cret", "issuer-a", time.Minute)
	require.NoError(t, err)
	tok, err := m.Issue(ctx, auth.Claims{UserID: "u-1"})
	require.NoError(t, err)

	other, _ := NewManager("other", "issuer-a", time.Minute)
	_, err = other.Verify(ctx, tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	otherIssuer, _ := NewManager("s3cret", "issuer-b", time.Minute)
	_, err = otherIssuer.Verify(ctx, tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	later, _ := NewManager("s3cret", "issuer-a", time.Minute)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = later.Verify(ctx, tok)
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Verify(ctx, "  ")
	require.ErrorIs(t, err, ErrTokenEmpty)
}

func TestNewManager_RequiresSecret(t *testing.T) {
	_, err := NewManager(" ", "x", 0)
	require.Error(t, err)
}
