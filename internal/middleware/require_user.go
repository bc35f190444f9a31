package middleware

import (
	"context"
	"net/http"

	"pet-medical-records/internal/apperr"
	"pet-medical-records/internal/platform/respond"
)

// UserLookup evita importar el paquete users desde middleware.
type UserLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// RequireUser corta con 401 si no hay identidad o si no corresponde a un usuario registrado.
// Un cliente con sesión vieja (usuario borrado) cae acá en su primer loadPets.
func RequireUser(users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			uid := UserID(r.Context())
			if uid == "" {
				respond.Error(w, http.StatusUnauthorized, apperr.KindUnauthorized, "Unauthorized")
				return
			}

			ok, err := users.Exists(r.Context(), uid)
			if err != nil {
				respond.Err(w, r, err)
				return
			}
			if !ok {
				respond.Error(w, http.StatusUnauthorized, apperr.KindUnauthorized, "Unauthorized")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
