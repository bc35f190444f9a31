package records

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"pet-medical-records/internal/middleware"
	"pet-medical-records/internal/platform/respond"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/pets/{petID}/records", createRecordHandler(svc))
	r.Get("/pets/{petID}/records", listRecordsHandler(svc))

	r.Get("/records/{recordID}", getRecordHandler(svc))
	r.Put("/records/{recordID}", updateRecordHandler(svc))
	r.Delete("/records/{recordID}", deleteRecordHandler(svc))
}

// recordDoc solo existe para swagger: Record viaja plano (ver codec.go).
type recordDoc struct {
	ID               string       `json:"id"`
	PetID            string       `json:"petId"`
	Type             Type         `json:"type" enums:"vaccine,allergy,lab"`
	Name             string       `json:"name"`
	DateAdministered string       `json:"dateAdministered,omitempty"`
	Reactions        []Reaction   `json:"reactions,omitempty"`
	Severity         Severity     `json:"severity,omitempty" enums:"mild,severe"`
	Dosage           float64      `json:"dosage,omitempty"`
	Instructions     string       `json:"instructions,omitempty"`
	Attachments      []Attachment `json:"attachments"`
	CreatedAt        string       `json:"createdAt"`
	UpdatedAt        string       `json:"updatedAt"`
}

// createRecordHandler godoc
// @Summary Crear registro médico
// @Description Crea un registro (vaccine, allergy o lab) para una mascota del usuario. Se valida type, luego attachments, luego los campos del variante.
// @Tags records
// @Accept json
// @Produce json
// @Param user-id header string false "ID de usuario (AUTH_MODE=header)"
// @Param Authorization header string false "Bearer token (AUTH_MODE=jwt)"
// @Param petID path string true "ID de la mascota"
// @Param payload body recordDoc true "Registro (forma plana)"
// @Success 201 {object} recordDoc
// @Failure 400 {object} respond.ErrorBody "MissingField / InvalidType / InvalidAttachment"
// @Failure 401 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody "Pet not found"
// @Router /pets/{petID}/records [post]
func createRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in Input
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respond.InvalidJSON(w)
			return
		}

		rec, err := svc.Create(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "petID"), in)
		if err != nil {
			respond.Err(w, r, err)
			return
		}
		respond.JSON(w, http.StatusCreated, rec)
	}
}

// listRecordsHandler godoc
// @Summary Listar registros de una mascota
// @Tags records
// @Produce json
// @Param user-id header string false "ID de usuario (AUTH_MODE=header)"
// @Param Authorization header string false "Bearer token (AUTH_MODE=jwt)"
// @Param petID path string true "ID de la mascota"
// @Success 200 {array} recordDoc
// @Failure 401 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /pets/{petID}/records [get]
func listRecordsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "petID"))
		if err != nil {
			respond.Err(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, items)
	}
}

// getRecordHandler godoc
// @Summary Obtener registro médico
// @Tags records
// @Produce json
// @Param user-id header string false "ID de usuario (AUTH_MODE=header)"
// @Param Authorization header string false "Bearer token (AUTH_MODE=jwt)"
// @Param recordID path string true "ID del registro"
// @Success 200 {object} recordDoc
// @Failure 401 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /records/{recordID} [get]
func getRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := svc.Get(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "recordID"))
		if err != nil {
			respond.Err(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, rec)
	}
}

// updateRecordHandler godoc
// @Summary Actualizar registro médico
// @Description Mezcla el body sobre el registro. El type no puede cambiar (InvalidType). Si vienen attachments reemplazan la lista.
// @Tags records
// @Accept json
// @Produce json
// @Param user-id header string false "ID de usuario (AUTH_MODE=header)"
// @Param Authorization header string false "Bearer token (AUTH_MODE=jwt)"
// @Param recordID path string true "ID del registro"
// @Param payload body recordDoc true "Campos a modificar"
// @Success 200 {object} recordDoc
// @Failure 400 {object} respond.ErrorBody
// @Failure 401 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /records/{recordID} [put]
func updateRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in Input
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			respond.InvalidJSON(w)
			return
		}

		rec, err := svc.Update(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "recordID"), in)
		if err != nil {
			respond.Err(w, r, err)
			return
		}
		respond.JSON(w, http.StatusOK, rec)
	}
}

// deleteRecordHandler godoc
// @Summary Borrar registro médico
// @Tags records
// @Param user-id header string false "ID de usuario (AUTH_MODE=header)"
// @Param Authorization header string false "Bearer token (AUTH_MODE=jwt)"
// @Param recordID path string true "ID del registro"
// @Success 204
// @Failure 401 {object} respond.ErrorBody
// @Failure 404 {object} respond.ErrorBody
// @Router /records/{recordID} [delete]
func deleteRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "recordID")); err != nil {
			respond.Err(w, r, err)
			return
		}
		respond.NoContent(w)
	}
}
