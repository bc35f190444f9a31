package events

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-medical-records/internal/apperr"
	"pet-medical-records/internal/middleware"
	"pet-medical-records/internal/platform/respond"
)

// PetGate resuelve si el usuario es dueño de la mascota (NotFound si no).
// Lo implementa pets.Service; se define acá para que events no importe pets.
type PetGate interface {
	Authorize(ctx context.Context, userID, petID string) error
}

func RegisterRoutes(r chi.Router, svc *Service, gate PetGate) {
	r.Get("/pets/{petID}/history", listHistoryHandler(svc, gate))
}

// listHistoryHandler godoc
// @Summary Historial de cambios de una mascota
// @Description Lista los cambios (alta/edición/baja de la mascota y sus registros), más reciente primero. Solo el dueño; si la mascota ya fue borrada, solo quien la borró. Autenticación: header `user-id` (AUTH_MODE=header) o `Authorization: Bearer <token>` (AUTH_MODE=jwt).
// @Tags history
// @Produce json
// @Param user-id header string false "ID de usuario (AUTH_MODE=header)"
// @Param Authorization header string false "Bearer token (AUTH_MODE=jwt)"
// @Param petID path string true "ID de la mascota"
// @Param limit query int false "Máximo de eventos (1-200). Por defecto 50"
// @Param types query string false "CSV de tipos (ej: RECORD_CREATED,PET_UPDATED)"
// @Param from query string false "occurredAt mínimo (RFC3339)"
// @Param to query string false "occurredAt máximo (RFC3339)"
// @Success 200 {array} ChangeEvent
// @Failure 400 {object} respond.ErrorBody
// @Failure 401 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /pets/{petID}/history [get]
func listHistoryHandler(svc *Service, gate PetGate) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := strings.TrimSpace(chi.URLParam(r, "petID"))
		if err := authorizeHistory(r.Context(), svc, gate, middleware.UserID(r.Context()), petID); err != nil {
			respond.Err(w, r, err)
			return
		}

		filter, err := parseListFilter(r)
		if err != nil {
			respond.Err(w, r, err)
			return
		}

		items, err := svc.ListByPet(r.Context(), petID, filter)
		if err != nil {
			respond.Err(w, r, err)
			return
		}
		if items == nil {
			items = []ChangeEvent{}
		}

		respond.JSON(w, http.StatusOK, items)
	}
}

// authorizeHistory: el historial sobrevive a la mascota. Con la mascota ya borrada
// el gate da NotFound, y entonces decide el actor del PET_DELETED.
func authorizeHistory(ctx context.Context, svc *Service, gate PetGate, userID, petID string) error {
	err := gate.Authorize(ctx, userID, petID)
	if err == nil || !apperr.Is(err, apperr.KindNotFound) {
		return err
	}
	ok, lerr := svc.DeletedBy(ctx, petID, userID)
	if lerr != nil {
		return lerr
	}
	if ok {
		return nil
	}
	return err
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()

	limit := DefaultLimit
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= MaxLimit {
			limit = n
		}
	}

	filter := ListFilter{Limit: limit}

	// types=RECORD_CREATED,PET_UPDATED
	if v := strings.TrimSpace(q.Get("types")); v != "" {
		for _, p := range strings.Split(v, ",") {
			t := Type(strings.TrimSpace(p))
			if t == "" {
				continue
			}
			if !t.Valid() {
				return ListFilter{}, apperr.Newf(apperr.KindInvalidType, "Invalid history type: %s", t)
			}
			filter.Types = append(filter.Types, t)
		}
	}

	if v := strings.TrimSpace(q.Get("from")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, apperr.New(apperr.KindMalformed, "from must be RFC3339")
		}
		filter.From = &t
	}
	if v := strings.TrimSpace(q.Get("to")); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return ListFilter{}, apperr.New(apperr.KindMalformed, "to must be RFC3339")
		}
		filter.To = &t
	}

	return filter, nil
}
