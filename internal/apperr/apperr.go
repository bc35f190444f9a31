// Package apperr define la taxonomía de errores compartida por el servicio y el cliente de sync.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindMissingField       Kind = "MissingField"
	KindInvalidType        Kind = "InvalidType"
	KindInvalidAttachment  Kind = "InvalidAttachment"
	KindDuplicateUser      Kind = "DuplicateUser"
	KindInvalidCredentials Kind = "InvalidCredentials"
	KindNotFound           Kind = "NotFound"
	KindUnauthorized       Kind = "Unauthorized"
	KindMalformed          Kind = "MalformedRequest"
	KindNetwork            Kind = "NetworkError"
	KindInternal           Kind = "Internal"
)

// Error lleva el Kind (para decidir status/reintento) y un mensaje apto para mostrar al usuario.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Sentinels por kind. errors.Is(err, ErrNotFound) matchea cualquier *Error con Kind NotFound.
var (
	ErrMissingField       = &Error{Kind: KindMissingField}
	ErrInvalidType        = &Error{Kind: KindInvalidType}
	ErrInvalidAttachment  = &Error{Kind: KindInvalidAttachment}
	ErrDuplicateUser      = &Error{Kind: KindDuplicateUser}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials}
	ErrNotFound           = &Error{Kind: KindNotFound}
	ErrUnauthorized       = &Error{Kind: KindUnauthorized}
	ErrMalformed          = &Error{Kind: KindMalformed}
	ErrNetwork            = &Error{Kind: KindNetwork}
	ErrInternal           = &Error{Kind: KindInternal}
)

var defaultMessages = map[Kind]string{
	KindMissingField:       "Missing required fields",
	KindInvalidType:        "Invalid type",
	KindInvalidAttachment:  "Invalid attachment format",
	KindDuplicateUser:      "User already exists",
	KindInvalidCredentials: "Invalid credentials",
	KindNotFound:           "Not found",
	KindUnauthorized:       "Unauthorized",
	KindMalformed:          "Invalid JSON body",
	KindNetwork:            "Network error",
	KindInternal:           "Something went wrong",
}

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap conserva la causa (útil para NetworkError: timeout, conexión rechazada, etc).
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = defaultMessages[e.Kind]
	}
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

// Public devuelve el mensaje sin la causa interna (lo que viaja en {error: ...}).
func (e *Error) Public() string {
	if e.Message != "" {
		return e.Message
	}
	if msg, ok := defaultMessages[e.Kind]; ok {
		return msg
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// KindOf devuelve el Kind de err, o KindInternal si err no es un *Error.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Retryable: solo fallas de transporte. Validación/ownership nunca se reintentan.
func Retryable(err error) bool {
	return Is(err, KindNetwork)
}

// Message devuelve el texto para mostrar al usuario.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Public()
	}
	return defaultMessages[KindInternal]
}
