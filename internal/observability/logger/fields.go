package logger

import (
	"time"

	"go.uber.org/zap"
)

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP SALIENTE
// =================================================================================

// RequestID crea un campo para el X-Request-ID enviado a la API.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Route crea un campo para la ruta lógica (plantilla, sin ids).
func Route(v string) zap.Field {
	return zap.String("route", v)
}

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// Duration crea un campo para la duración de la llamada.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - NEGOCIO
// =================================================================================

// Municipio crea un campo para el código de municipio.
func Municipio(v string) zap.Field {
	return zap.String("codigo_municipio", v)
}

// Version crea un campo para la versión de un formulario.
func Version(v string) zap.Field {
	return zap.String("doc_version", v)
}

// Subject crea un campo para el sujeto del token (usuario).
func Subject(v string) zap.Field {
	return zap.String("sub", v)
}

// Field crea un campo para el nombre de un campo del documento.
func Field(v string) zap.Field {
	return zap.String("field", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - SISTEMA
// =================================================================================

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op crea un campo para la operación actual.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// Count crea un campo para un conteo.
func Count(v int) zap.Field {
	return zap.Int("count", v)
}
