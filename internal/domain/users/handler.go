package users

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pet-medical-records/internal/platform/respond"
	"pet-medical-records/internal/ports/auth"
)

// RegisterRoutes monta /register y /login. issuer puede ser nil (AUTH_MODE=header):
// en ese caso la respuesta no trae token y el cliente usa el header user-id.
func RegisterRoutes(r chi.Router, svc *Service, issuer auth.TokenIssuer) {
	r.Post("/register", registerHandler(svc, issuer))
	r.Post("/login", loginHandler(svc, issuer))
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse es el User más el token opcional.
type authResponse struct {
	User
	Token string `json:"token,omitempty"`
}

// registerHandler godoc
// @Summary Registrar usuario
// @Tags users
// @Accept json
// @Produce json
// @Param payload body registerRequest true "email, name y password"
// @Success 201 {object} authResponse
// @Failure 400 {object} respond.ErrorBody "MissingField / DuplicateUser"
// @Router /register [post]
func registerHandler(svc *Service, issuer auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.InvalidJSON(w)
			return
		}

		u, err := svc.Register(r.Context(), req.Email, req.Name, req.Password)
		if err != nil {
			respond.Err(w, r, err)
			return
		}

		out, err := withToken(r, issuer, u)
		if err != nil {
			respond.Err(w, r, err)
			return
		}
		respond.JSON(w, http.StatusCreated, out)
	}
}

// loginHandler godoc
// @Summary Login
// @Tags users
// @Accept json
// @Produce json
// @Param payload body loginRequest true "email y password"
// @Success 200 {object} authResponse
// @Failure 400 {object} respond.ErrorBody "MissingField"
// @Failure 401 {object} respond.ErrorBody "InvalidCredentials"
// @Router /login [post]
func loginHandler(svc *Service, issuer auth.TokenIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.InvalidJSON(w)
			return
		}

		u, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			respond.Err(w, r, err)
			return
		}

		out, err := withToken(r, issuer, u)
		if err != nil {
			respond.Err(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, out)
	}
}

func withToken(r *http.Request, issuer auth.TokenIssuer, u User) (authResponse, error) {
	out := authResponse{User: u}
	if issuer == nil {
		return out, nil
	}
	tok, err := issuer.Issue(r.Context(), auth.Claims{UserID: u.ID, Email: u.Email})
	if err != nil {
		return authResponse{}, err
	}
	out.Token = tok
	return out, nil
}
