// Package validate envuelve go-playground/validator y traduce sus errores a la taxonomía de apperr.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"pet-medical-records/internal/apperr"
)

var (
	once   sync.Once
	engine *validator.Validate
)

// Engine devuelve el validador compartido. Los errores usan el nombre JSON del campo.
func Engine() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		engine = v
	})
	return engine
}

// Struct valida v y devuelve el primer error como *apperr.Error.
// Errores dentro de "attachments" tienen prioridad y siempre salen como InvalidAttachment.
func Struct(v any) error {
	err := Engine().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperr.Wrap(apperr.KindInternal, "", err)
	}

	for _, fe := range verrs {
		if inAttachments(fe) {
			return apperr.New(apperr.KindInvalidAttachment, "Invalid attachment format")
		}
	}
	return toAppErr(verrs[0])
}

func toAppErr(fe validator.FieldError) error {
	field := fe.Field()
	switch fe.Tag() {
	case "oneof":
		return apperr.Newf(apperr.KindInvalidType, "Invalid %s. Must be one of: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "required", "min", "gt":
		return apperr.Newf(apperr.KindMissingField, "Missing required field: %s", field)
	default:
		return apperr.New(apperr.KindMissingField, fmt.Sprintf("Invalid field: %s", field))
	}
}

func inAttachments(fe validator.FieldError) bool {
	ns := fe.Namespace()
	return strings.Contains(ns, ".attachments[") || strings.HasSuffix(ns, ".attachments")
}
