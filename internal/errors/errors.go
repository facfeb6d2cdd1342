// Package errors define la taxonomía de errores del cliente severus.
//
// Todos los errores que cruzan capas (gateway, api, formdoc, CLI) son *AppError.
// Los valores predefinidos funcionan como "sentinels": las copias creadas con
// WithDetail/WithCause siguen respondiendo a errors.Is contra el original
// porque la comparación se hace por Code.
package errors

import (
	"fmt"
	"net/http"
)

// AppError define la estructura estándar de error del cliente.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	HTTPStatus int    `json:"-"` // status devuelto por la API, 0 si no aplica
	Err        error  `json:"-"` // causa original, útil para logs
}

// Error implementa la interfaz error
func (e *AppError) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}
	return msg
}

// Unwrap permite acceder al error original
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is compara por Code, así las copias derivadas de un sentinel matchean.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New crea un nuevo AppError
func New(status int, code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}

// Wrap crea un AppError envolviendo un error existente
func Wrap(err error, status int, code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
		Err:        err,
	}
}

// FromError intenta convertir un error genérico en un AppError.
// Si no es un AppError devuelve ErrInternal conservando la causa.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return ErrInternal.WithCause(err)
}

// WithDetail agrega detalles adicionales al error.
// Devuelve una COPIA del error para no mutar las variables globales base
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause agrega el error original (causa)
// Devuelve una COPIA del error
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// WithStatus fija el status HTTP devuelto por la API.
// Devuelve una COPIA del error
func (e *AppError) WithStatus(status int) *AppError {
	newErr := *e
	newErr.HTTPStatus = status
	return &newErr
}

// =================================================================================
// LISTA DE ERRORES PREDEFINIDOS
// =================================================================================

// (a) transporte / red
var (
	ErrTransport = &AppError{
		Code:    "TRANSPORT",
		Message: "No se pudo contactar la API.",
	}
)

// (b) respuestas no-2xx
var (
	ErrAPIStatus = &AppError{
		Code:    "API_STATUS",
		Message: "La API respondió con un estado inesperado.",
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "El recurso solicitado no fue encontrado.",
		HTTPStatus: http.StatusNotFound,
	}

	ErrLoginFailed = &AppError{
		Code:    "LOGIN_FAILED",
		Message: "Error en el login.",
	}
)

// (c) credencial rechazada o expirada
var (
	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Unauthorized",
		HTTPStatus: http.StatusUnauthorized,
	}

	ErrNotLoggedIn = &AppError{
		Code:    "NOT_LOGGED_IN",
		Message: "No hay sesión activa. Ejecute `severus login`.",
	}
)

// (d) decodificación
var (
	ErrMalformedToken = &AppError{
		Code:    "MALFORMED_TOKEN",
		Message: "El token de acceso no se pudo decodificar.",
	}

	ErrMalformedDocument = &AppError{
		Code:    "MALFORMED_DOCUMENT",
		Message: "El documento recibido no tiene la forma esperada.",
	}

	ErrMalformedResponse = &AppError{
		Code:    "MALFORMED_RESPONSE",
		Message: "La respuesta de la API no es un JSON válido.",
	}
)

// (e) uso local inválido
var (
	ErrUnknownField = &AppError{
		Code:    "UNKNOWN_FIELD",
		Message: "Campo desconocido para esta operación.",
	}

	ErrInvalidValue = &AppError{
		Code:    "INVALID_VALUE",
		Message: "Valor inválido para el campo.",
	}

	ErrNotEditing = &AppError{
		Code:    "NOT_EDITING",
		Message: "No hay una sesión de edición abierta.",
	}

	ErrInternal = &AppError{
		Code:    "INTERNAL",
		Message: "Error interno.",
	}
)
