package pets

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pet-medical-records/internal/middleware"
	"pet-medical-records/internal/platform/respond"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	// Rutas planas (sin r.Route): records e history cuelgan de /pets/{petID}/... en el mismo router.
	r.Post("/pets", createPetHandler(svc))
	r.Get("/pets", listPetsHandler(svc))

	r.Get("/pets/{petID}", getPetHandler(svc))
	r.Put("/pets/{petID}", updatePetHandler(svc))
	r.Delete("/pets/{petID}", deletePetHandler(svc))
}

// createPetHandler godoc
// @Summary Crear mascota
// @Description Crea una mascota del usuario autenticado. Autenticación: header `user-id` (AUTH_MODE=header) o `Authorization: Bearer <token>` (AUTH_MODE=jwt).
// @Tags pets
// @Accept json
// @Produce json
// @Param user-id header string false "ID de usuario (AUTH_MODE=header)"
// @Param Authorization header string false "Bearer token (AUTH_MODE=jwt)"
// @Param payload body Input true "Datos de la mascota"
// @Success 201 {object} Pet
// @Failure 400 {object} respond.ErrorBody "MissingField / InvalidType / JSON inválido"
// @Failure 401 {object} respond.ErrorBody
// @Router /pets [post]
func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in Input
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respond.InvalidJSON(w)
			return
		}

		p, err := svc.Create(r.Context(), middleware.UserID(r.Context()), in)
		if err != nil {
			respond.Err(w, r, err)
			return
		}

		respond.JSON(w, http.StatusCreated, p)
	}
}

// listPetsHandler godoc
// @Summary Listar mis mascotas
// @Description Devuelve las mascotas del usuario autenticado en orden de alta.
// @Tags pets
// @Produce json
// @Param user-id header string false "ID de usuario (AUTH_MODE=header)"
// @Param Authorization header string false "Bearer token (AUTH_MODE=jwt)"
// @Success 200 {array} Pet
// @Failure 401 {object} respond.ErrorBody
// @Router /pets [get]
func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), middleware.UserID(r.Context()))
		if err != nil {
			respond.Err(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, items)
	}
}

// getPetHandler godoc
// @Summary Obtener mascota
// @Description Devuelve la mascota si pertenece al usuario; si no, 404.
// @Tags pets
// @Produce json
// @Param user-id header string false "ID de usuario (AUTH_MODE=header)"
// @Param Authorization header string false "Bearer token (AUTH_MODE=jwt)"
// @Param petID path string true "ID de la mascota"
// @Success 200 {object} Pet
// @Failure 401 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /pets/{petID} [get]
func getPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Get(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "petID"))
		if err != nil {
			respond.Err(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, p)
	}
}

// updatePetHandler godoc
// @Summary Actualizar mascota
// @Description Actualización parcial: los campos ausentes se conservan y el resultado se valida completo. id, userId, createdAt y updatedAt del body se ignoran.
// @Tags pets
// @Accept json
// @Produce json
// @Param user-id header string false "ID de usuario (AUTH_MODE=header)"
// @Param Authorization header string false "Bearer token (AUTH_MODE=jwt)"
// @Param petID path string true "ID de la mascota"
// @Param payload body Patch true "Campos a modificar"
// @Success 200 {object} Pet
// @Failure 400 {object} respond.ErrorBody
// @Failure 401 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /pets/{petID} [put]
func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch Patch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			respond.InvalidJSON(w)
			return
		}

		p, err := svc.Update(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "petID"), patch)
		if err != nil {
			respond.Err(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, p)
	}
}

// deletePetHandler godoc
// @Summary Borrar mascota
// @Description Borra la mascota y todos sus registros médicos.
// @Tags pets
// @Param user-id header string false "ID de usuario (AUTH_MODE=header)"
// @Param Authorization header string false "Bearer token (AUTH_MODE=jwt)"
// @Param petID path string true "ID de la mascota"
// @Success 204
// @Failure 401 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /pets/{petID} [delete]
func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "petID")); err != nil {
			respond.Err(w, r, err)
			return
		}
		respond.NoContent(w)
	}
}
