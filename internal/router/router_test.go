package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	jwtauth "pet-medical-records/internal/adapters/auth/jwt"
	"pet-medical-records/internal/router"
)

type client struct {
	t    *testing.T
	base string
	// header: "user-id" o "Authorization"
	header string
}

func (c client) do(method, path, identity string, body any) (int, []byte) {
	c.t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(c.t, err)
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, c.base+path, rdr)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if identity != "" {
		switch c.header {
		case "Authorization":
			req.Header.Set("Authorization", "Bearer "+identity)
		default:
			req.Header.Set("user-id", identity)
		}
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	return resp.StatusCode, b
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(b, &v), string(b))
	return v
}

type authResp struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

func register(c client, email, name string) authResp {
	c.t.Helper()
	st, b := c.do("POST", "/register", "", map[string]string{"email": email, "name": name, "password": "secret"})
	require.Equal(c.t, http.StatusCreated, st, string(b))
	return decode[authResp](c.t, b)
}

func newServer(t *testing.T, opts router.Options) client {
	ts := httptest.NewServer(router.NewRouter(opts))
	t.Cleanup(ts.Close)
	return client{t: t, base: ts.URL}
}

func TestHTTP_EndToEnd_CascadeDelete(t *testing.T) {
	c := newServer(t, router.Options{})

	alice := register(c, "alice@example.com", "alice")
	require.NotEmpty(t, alice.ID)
	require.Empty(t, alice.Token, "en modo header no hay token")

	st, b := c.do("POST", "/pets", alice.ID, map[string]string{
		"name": "Rex", "type": "dog", "breed": "lab", "dateOfBirth": "2020-01-01",
	})
	require.Equal(t, http.StatusCreated, st, string(b))
	pet := decode[map[string]any](t, b)
	require.Equal(t, alice.ID, pet["userId"])
	petID := pet["id"].(string)

	st, b = c.do("POST", "/pets/"+petID+"/records", alice.ID, map[string]any{
		"type": "vaccine", "name": "Rabies", "dateAdministered": "2024-01-01",
	})
	require.Equal(t, http.StatusCreated, st, string(b))
	rec := decode[map[string]any](t, b)
	require.Equal(t, petID, rec["petId"])
	require.Equal(t, []any{}, rec["attachments"])

	st, _ = c.do("DELETE", "/pets/"+petID, alice.ID, nil)
	require.Equal(t, http.StatusNoContent, st)

	st, b = c.do("GET", "/pets/"+petID+"/records", alice.ID, nil)
	require.Equal(t, http.StatusNotFound, st)
	require.Equal(t, "Pet not found", decode[map[string]string](t, b)["error"])

	st, _ = c.do("GET", "/records/"+rec["id"].(string), alice.ID, nil)
	require.Equal(t, http.StatusNotFound, st)
}

func TestHTTP_OwnershipIsolation(t *testing.T) {
	c := newServer(t, router.Options{})
	alice := register(c, "alice@example.com", "alice")
	bob := register(c, "bob@example.com", "bob")

	st, b := c.do("POST", "/pets", alice.ID, map[string]string{
		"name": "Rex", "type": "dog", "breed": "lab", "dateOfBirth": "2020-01-01",
	})
	require.Equal(t, http.StatusCreated, st)
	petID := decode[map[string]any](t, b)["id"].(string)

	st, b = c.do("POST", "/pets/"+petID+"/records", alice.ID, map[string]any{
		"type": "lab", "name": "Meds", "dosage": 2.5, "instructions": "daily",
	})
	require.Equal(t, http.StatusCreated, st, string(b))
	recID := decode[map[string]any](t, b)["id"].(string)

	// bob no ve nada de alice, y no puede distinguir "no existe" de "no es tuyo"
	st, b = c.do("GET", "/pets", bob.ID, nil)
	require.Equal(t, http.StatusOK, st)
	require.Equal(t, "[]", strings.TrimSpace(string(b)))

	for _, tc := range []struct{ method, path string }{
		{"GET", "/pets/" + petID},
		{"PUT", "/pets/" + petID},
		{"DELETE", "/pets/" + petID},
		{"GET", "/pets/" + petID + "/records"},
		{"GET", "/pets/" + petID + "/history"},
		{"GET", "/records/" + recID},
		{"PUT", "/records/" + recID},
		{"DELETE", "/records/" + recID},
	} {
		st, _ := c.do(tc.method, tc.path, bob.ID, map[string]any{"name": "hijack"})
		require.Equal(t, http.StatusNotFound, st, "%s %s", tc.method, tc.path)
	}

	st, b = c.do("GET", "/pets/"+petID, alice.ID, nil)
	require.Equal(t, http.StatusOK, st)
	require.Equal(t, "Rex", decode[map[string]any](t, b)["name"])
}

func TestHTTP_Unauthorized(t *testing.T) {
	c := newServer(t, router.Options{})

	st, b := c.do("GET", "/pets", "", nil)
	require.Equal(t, http.StatusUnauthorized, st)
	require.Equal(t, "Unauthorized", decode[map[string]string](t, b)["error"])

	st, _ = c.do("GET", "/pets", "no-such-user", nil)
	require.Equal(t, http.StatusUnauthorized, st)
}

func TestHTTP_ValidationErrors(t *testing.T) {
	c := newServer(t, router.Options{})
	alice := register(c, "alice@example.com", "alice")

	st, b := c.do("POST", "/register", "", map[string]string{"email": "alice@example.com", "name": "x", "password": "y"})
	require.Equal(t, http.StatusBadRequest, st)
	require.Equal(t, "User already exists", decode[map[string]string](t, b)["error"])

	st, _ = c.do("POST", "/login", "", map[string]string{"email": "alice@example.com", "password": "nope"})
	require.Equal(t, http.StatusUnauthorized, st)

	st, b = c.do("POST", "/pets", alice.ID, map[string]string{"name": "Rex", "type": "fish", "breed": "x", "dateOfBirth": "2020"})
	require.Equal(t, http.StatusBadRequest, st)
	require.Equal(t, "InvalidType", decode[map[string]string](t, b)["code"])

	st, b = c.do("POST", "/pets", alice.ID, map[string]string{
		"name": "Rex", "type": "dog", "breed": "lab", "dateOfBirth": "2020-01-01",
	})
	require.Equal(t, http.StatusCreated, st)
	petID := decode[map[string]any](t, b)["id"].(string)

	st, b = c.do("POST", "/pets/"+petID+"/records", alice.ID, map[string]any{
		"type": "vaccine", "name": "Rabies", "dateAdministered": "2024-01-01", "attachments": "nope",
	})
	require.Equal(t, http.StatusBadRequest, st)
	require.Equal(t, "InvalidAttachment", decode[map[string]string](t, b)["code"])

	st, b = c.do("POST", "/pets/"+petID+"/records", alice.ID, map[string]any{
		"type": "vaccine", "name": "Rabies", "dateAdministered": "2024-01-01",
		"attachments": []map[string]string{{"id": "a1", "type": "image/png", "name": "x.png"}},
	})
	require.Equal(t, http.StatusBadRequest, st)
	require.Equal(t, "InvalidAttachment", decode[map[string]string](t, b)["code"])

	st, b = c.do("POST", "/pets/"+petID+"/records", alice.ID, map[string]any{
		"type": "vaccine", "name": "Rabies", "dateAdministered": "2024-01-01", "attachments": []any{},
	})
	require.Equal(t, http.StatusCreated, st)
	created := decode[map[string]any](t, b)
	require.Equal(t, []any{}, created["attachments"])

	req, err := http.NewRequest("POST", c.base+"/pets", strings.NewReader("{"))
	require.NoError(t, err)
	req.Header.Set("user-id", alice.ID)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHTTP_History(t *testing.T) {
	c := newServer(t, router.Options{})
	alice := register(c, "alice@example.com", "alice")

	_, b := c.do("POST", "/pets", alice.ID, map[string]string{
		"name": "Rex", "type": "dog", "breed": "lab", "dateOfBirth": "2020-01-01",
	})
	petID := decode[map[string]any](t, b)["id"].(string)

	st, _ := c.do("PUT", "/pets/"+petID, alice.ID, map[string]string{"name": "Rexy"})
	require.Equal(t, http.StatusOK, st)

	st, _ = c.do("POST", "/pets/"+petID+"/records", alice.ID, map[string]any{
		"type": "allergy", "name": "Pollen", "reactions": []string{"rash"}, "severity": "mild",
	})
	require.Equal(t, http.StatusCreated, st)

	st, b = c.do("GET", "/pets/"+petID+"/history", alice.ID, nil)
	require.Equal(t, http.StatusOK, st)
	items := decode[[]map[string]any](t, b)
	require.Len(t, items, 3)
	require.Equal(t, "RECORD_CREATED", items[0]["type"], "más reciente primero")
	require.Equal(t, "PET_CREATED", items[2]["type"])

	st, b = c.do("GET", "/pets/"+petID+"/history?types=PET_UPDATED&limit=10", alice.ID, nil)
	require.Equal(t, http.StatusOK, st)
	items = decode[[]map[string]any](t, b)
	require.Len(t, items, 1)
	require.Equal(t, alice.ID, items[0]["actorId"])

	st, _ = c.do("GET", "/pets/"+petID+"/history?types=BOGUS", alice.ID, nil)
	require.Equal(t, http.StatusBadRequest, st)

	// borrada la mascota, el historial sigue visible para quien la borró
	bob := register(c, "bob@example.com", "bob")
	st, _ = c.do("DELETE", "/pets/"+petID, alice.ID, nil)
	require.Equal(t, http.StatusNoContent, st)

	st, b = c.do("GET", "/pets/"+petID+"/history", alice.ID, nil)
	require.Equal(t, http.StatusOK, st)
	items = decode[[]map[string]any](t, b)
	require.Len(t, items, 4)
	require.Equal(t, "PET_DELETED", items[0]["type"])

	st, _ = c.do("GET", "/pets/"+petID+"/history", bob.ID, nil)
	require.Equal(t, http.StatusNotFound, st)
	st, _ = c.do("GET", "/pets/nope/history", alice.ID, nil)
	require.Equal(t, http.StatusNotFound, st)
}

func TestHTTP_JWTMode(t *testing.T) {
	m, err := jwtauth.NewManager("test-secret", "pet-medical-records", time.Hour)
	require.NoError(t, err)

	c := newServer(t, router.Options{AuthVerifier: m, TokenIssuer: m})
	c.header = "Authorization"

	alice := register(c, "alice@example.com", "alice")
	require.NotEmpty(t, alice.Token)

	st, b := c.do("POST", "/login", "", map[string]string{"email": "alice@example.com", "password": "secret"})
	require.Equal(t, http.StatusOK, st)
	token := decode[authResp](t, b).Token
	require.NotEmpty(t, token)

	st, _ = c.do("GET", "/pets", token, nil)
	require.Equal(t, http.StatusOK, st)

	st, _ = c.do("GET", "/pets", "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, st)

	// en modo JWT el header user-id no alcanza
	plain := client{t: t, base: c.base}
	st, _ = plain.do("GET", "/pets", alice.ID, nil)
	require.Equal(t, http.StatusUnauthorized, st)
}

func TestHTTP_HealthAndMetrics(t *testing.T) {
	c := newServer(t, router.Options{})

	st, b := c.do("GET", "/health", "", nil)
	require.Equal(t, http.StatusOK, st)
	require.Equal(t, "ok", string(b))

	st, b = c.do("GET", "/metrics", "", nil)
	require.Equal(t, http.StatusOK, st)
	require.Contains(t, string(b), "pet_records_http_request_duration_seconds")
}
