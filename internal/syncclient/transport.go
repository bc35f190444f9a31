// Package syncclient mantiene un cache local de mascotas y registros consistente con la API.
package syncclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"pet-medical-records/internal/apperr"
	"pet-medical-records/internal/domain/pets"
	"pet-medical-records/internal/domain/records"
	"pet-medical-records/internal/domain/users"
	"pet-medical-records/internal/platform/httpclient"
	"pet-medical-records/internal/session"
)

// Credentials identifica al usuario en cada request: Token si hay (modo JWT), si no user-id.
type Credentials struct {
	UserID string
	Token  string
}

// Transport refleja los endpoints de la API.
type Transport interface {
	Register(ctx context.Context, email, name, password string) (users.User, error)
	Login(ctx context.Context, email, password string) (session.Session, error)

	ListPets(ctx context.Context, c Credentials) ([]pets.Pet, error)
	CreatePet(ctx context.Context, c Credentials, in pets.Input) (pets.Pet, error)
	UpdatePet(ctx context.Context, c Credentials, petID string, patch pets.Patch) (pets.Pet, error)
	DeletePet(ctx context.Context, c Credentials, petID string) error

	ListRecords(ctx context.Context, c Credentials, petID string) ([]records.Record, error)
	CreateRecord(ctx context.Context, c Credentials, petID string, in records.Input) (records.Record, error)
	UpdateRecord(ctx context.Context, c Credentials, recordID string, in records.Input) (records.Record, error)
	DeleteRecord(ctx context.Context, c Credentials, recordID string) error
}

// HTTPTransport habla con la API vía httpclient.
type HTTPTransport struct {
	c *httpclient.Client
}

func NewHTTPTransport(baseURL string, timeout time.Duration) (*HTTPTransport, error) {
	c, err := httpclient.NewWithBaseURL(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	return &HTTPTransport{c: c}, nil
}

type authBody struct {
	users.User
	Token string `json:"token"`
}

func (t *HTTPTransport) Register(ctx context.Context, email, name, password string) (users.User, error) {
	var out authBody
	in := map[string]string{"email": email, "name": name, "password": password}
	if err := t.do(ctx, http.MethodPost, "/register", Credentials{}, in, &out); err != nil {
		return users.User{}, err
	}
	return out.User, nil
}

func (t *HTTPTransport) Login(ctx context.Context, email, password string) (session.Session, error) {
	var out authBody
	in := map[string]string{"email": email, "password": password}
	if err := t.do(ctx, http.MethodPost, "/login", Credentials{}, in, &out); err != nil {
		return session.Session{}, err
	}
	return session.Session{User: out.User, Token: out.Token}, nil
}

func (t *HTTPTransport) ListPets(ctx context.Context, c Credentials) ([]pets.Pet, error) {
	var out []pets.Pet
	if err := t.do(ctx, http.MethodGet, "/pets", c, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *HTTPTransport) CreatePet(ctx context.Context, c Credentials, in pets.Input) (pets.Pet, error) {
	var out pets.Pet
	err := t.do(ctx, http.MethodPost, "/pets", c, in, &out)
	return out, err
}

func (t *HTTPTransport) UpdatePet(ctx context.Context, c Credentials, petID string, patch pets.Patch) (pets.Pet, error) {
	var out pets.Pet
	err := t.do(ctx, http.MethodPut, "/pets/"+url.PathEscape(petID), c, patch, &out)
	return out, err
}

func (t *HTTPTransport) DeletePet(ctx context.Context, c Credentials, petID string) error {
	return t.do(ctx, http.MethodDelete, "/pets/"+url.PathEscape(petID), c, nil, nil)
}

func (t *HTTPTransport) ListRecords(ctx context.Context, c Credentials, petID string) ([]records.Record, error) {
	var out []records.Record
	if err := t.do(ctx, http.MethodGet, "/pets/"+url.PathEscape(petID)+"/records", c, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (t *HTTPTransport) CreateRecord(ctx context.Context, c Credentials, petID string, in records.Input) (records.Record, error) {
	var out records.Record
	err := t.do(ctx, http.MethodPost, "/pets/"+url.PathEscape(petID)+"/records", c, in, &out)
	return out, err
}

func (t *HTTPTransport) UpdateRecord(ctx context.Context, c Credentials, recordID string, in records.Input) (records.Record, error) {
	var out records.Record
	err := t.do(ctx, http.MethodPut, "/records/"+url.PathEscape(recordID), c, in, &out)
	return out, err
}

func (t *HTTPTransport) DeleteRecord(ctx context.Context, c Credentials, recordID string) error {
	return t.do(ctx, http.MethodDelete, "/records/"+url.PathEscape(recordID), c, nil, nil)
}

func (t *HTTPTransport) do(ctx context.Context, method, path string, c Credentials, in, out any) error {
	headers := map[string]string{}
	switch {
	case c.Token != "":
		headers["Authorization"] = "Bearer " + c.Token
	case c.UserID != "":
		headers["user-id"] = c.UserID
	}

	err := t.c.DoJSON(ctx, method, path, headers, in, out)
	var he *httpclient.HTTPError
	if errors.As(err, &he) {
		return fromHTTPError(he)
	}
	return err
}

// fromHTTPError reconstruye el apperr a partir de {error, code}. Si el body no trae
// code (o no es JSON) se decide por status.
func fromHTTPError(he *httpclient.HTTPError) error {
	var body struct {
		Error string      `json:"error"`
		Code  apperr.Kind `json:"code"`
	}
	_ = json.Unmarshal([]byte(he.Body), &body)

	kind := body.Code
	if kind == "" {
		kind = kindForStatus(he.StatusCode, body.Error)
	}
	msg := body.Error
	if msg == "" {
		msg = http.StatusText(he.StatusCode)
	}
	return apperr.Wrap(kind, msg, he)
}

func kindForStatus(status int, msg string) apperr.Kind {
	switch status {
	case http.StatusUnauthorized:
		if msg == "Invalid credentials" {
			return apperr.KindInvalidCredentials
		}
		return apperr.KindUnauthorized
	case http.StatusNotFound:
		return apperr.KindNotFound
	case http.StatusBadRequest:
		switch {
		case msg == "User already exists":
			return apperr.KindDuplicateUser
		case strings.HasPrefix(msg, "Invalid attachment"), strings.HasPrefix(msg, "Attachments"):
			return apperr.KindInvalidAttachment
		case strings.HasPrefix(msg, "Invalid") && strings.Contains(msg, "type"):
			return apperr.KindInvalidType
		case msg == "Invalid JSON body":
			return apperr.KindMalformed
		}
		return apperr.KindMissingField
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return apperr.KindNetwork
	default:
		return apperr.KindInternal
	}
}
