package formdoc

import (
	"encoding/json"
	"strings"

	apperrors "github.com/dropDatabas3/severus/internal/errors"
)

// fieldSet son los nombres de wire que un elemento modela con campos propios.
type fieldSet map[string]struct{}

func fields(names ...string) fieldSet {
	s := make(fieldSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

var (
	articleFields      = fields("titulo", "contenido")
	periodicidadFields = fields("tipo", "periodo")
	medioFields        = fields("titulo", "contenido", "fecha_pago", "fecha_vencimiento", "ultimo_nit")
)

// encodeWithExtra codifica alias (un tipo sin métodos) y le suma las claves de
// extra que no son campos conocidos. Las claves de omit no se emiten.
func encodeWithExtra(alias any, extra map[string]json.RawMessage, known fieldSet, omit ...string) ([]byte, error) {
	b, err := json.Marshal(alias)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 && len(omit) == 0 {
		return b, nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	for _, k := range omit {
		delete(m, k)
	}
	for k, v := range extra {
		if _, ok := known[k]; ok {
			continue
		}
		m[k] = v
	}
	return json.Marshal(m)
}

// extraFields devuelve las claves de b que no están en known, o nil si no hay.
func extraFields(b []byte, known fieldSet) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, err
	}
	var extra map[string]json.RawMessage
	for k, v := range raw {
		if _, ok := known[k]; ok {
			continue
		}
		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[k] = append(json.RawMessage(nil), v...)
	}
	return extra, nil
}

// setExtra guarda v codificado bajo name.
func setExtra(extra *map[string]json.RawMessage, owner, name string, v any) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.ErrUnknownField.WithDetail(owner + ": campo sin nombre")
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return apperrors.ErrInvalidValue.WithDetail(owner + "." + name).WithCause(err)
	}
	if *extra == nil {
		*extra = make(map[string]json.RawMessage)
	}
	(*extra)[name] = raw
	return nil
}

func cloneExtra(m map[string]json.RawMessage) map[string]json.RawMessage {
	if m == nil {
		return nil
	}
	out := make(map[string]json.RawMessage, len(m))
	for k, v := range m {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

type cloner[T any] interface {
	clone() T
}

// cloneItems copia s en profundidad. nil sigue siendo nil.
func cloneItems[T cloner[T]](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	for i, e := range s {
		out[i] = e.clone()
	}
	return out
}
