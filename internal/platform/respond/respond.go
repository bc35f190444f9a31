// Package respond escribe respuestas JSON y traduce errores de apperr a status HTTP.
package respond

import (
	"encoding/json"
	"net/http"

	"pet-medical-records/internal/apperr"
	"pet-medical-records/internal/platform/logger"
)

// ErrorBody es el cuerpo de toda respuesta de error. Code es el Kind de apperr
// para que el cliente no dependa del texto del mensaje.
type ErrorBody struct {
	Error string      `json:"error"`
	Code  apperr.Kind `json:"code,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Error(w http.ResponseWriter, status int, kind apperr.Kind, msg string) {
	JSON(w, status, ErrorBody{Error: msg, Code: kind})
}

// InvalidJSON es el 400 para bodies que no parsean.
func InvalidJSON(w http.ResponseWriter) {
	Error(w, http.StatusBadRequest, apperr.KindMalformed, "Invalid JSON body")
}

// Err traduce un error de dominio a status + {error}. Los 500 se loguean con la causa
// pero al cliente solo le llega el mensaje genérico.
func Err(w http.ResponseWriter, r *http.Request, err error) {
	kind := apperr.KindOf(err)
	status := StatusFor(kind)
	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed", map[string]any{
			"error":  err,
			"method": r.Method,
			"path":   r.URL.Path,
		})
		Error(w, status, apperr.KindInternal, "Something went wrong")
		return
	}
	Error(w, status, kind, apperr.Message(err))
}

func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindMissingField, apperr.KindInvalidType, apperr.KindInvalidAttachment, apperr.KindDuplicateUser, apperr.KindMalformed:
		return http.StatusBadRequest
	case apperr.KindInvalidCredentials, apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
