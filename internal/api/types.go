package api

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Municipio es la entidad de referencia {codigo_municipio, nombre}.
type Municipio struct {
	Codigo string `json:"codigo_municipio"`
	Nombre string `json:"nombre"`
}

// AuditEntry es una entrada del log de auditoría. Sólo lectura para este cliente.
type AuditEntry struct {
	ID        ID     `json:"id"`
	Usuario   string `json:"usuario"`
	Accion    string `json:"accion"`
	Detalles  string `json:"detalles"`
	FechaHora string `json:"fecha_hora"`
}

// Time parsea fecha_hora. La API la envía como ISO 8601, con o sin zona.
func (e AuditEntry) Time() (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, e.FechaHora); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// NewAuditEntry es el cuerpo de POST /audit.
type NewAuditEntry struct {
	Usuario  string `json:"usuario"`
	Accion   string `json:"accion"`
	Detalles string `json:"detalles"`
}

// ID acepta ids numéricos o string y los representa como string.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(strings.TrimSpace(n.String()))
	return nil
}
