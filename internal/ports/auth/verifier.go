package auth

import "context"

// AuthVerifier verifica un token y devuelve claims o error.
type AuthVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)
}

// TokenIssuer emite el token que el cliente manda como Bearer en los siguientes requests.
type TokenIssuer interface {
	Issue(ctx context.Context, c Claims) (string, error)
}
