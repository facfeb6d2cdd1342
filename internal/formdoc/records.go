package formdoc

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/dropDatabas3/severus/internal/errors"
)

// Tipos de periodicidad admitidos.
const (
	Mensual    = "mensual"
	Bimensual  = "bimensual"
	Trimestral = "trimestral"
	Semestral  = "semestral"
	Anual      = "anual"
)

// PeriodicityTypes lista los tipos en el orden en que se ofrecen.
var PeriodicityTypes = []string{Mensual, Bimensual, Trimestral, Semestral, Anual}

// Periodicidad es un elemento de periodicidad_impuestos.
type Periodicidad struct {
	Tipo    string `json:"tipo" yaml:"tipo"`
	Periodo string `json:"periodo" yaml:"periodo"`

	Extra map[string]json.RawMessage `json:"-" yaml:"-"`
}

type periodicidadAlias Periodicidad

func (p Periodicidad) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(periodicidadAlias(p), p.Extra, periodicidadFields)
}

func (p *Periodicidad) UnmarshalJSON(b []byte) error {
	var al periodicidadAlias
	if err := json.Unmarshal(b, &al); err != nil {
		return err
	}
	extra, err := extraFields(b, periodicidadFields)
	if err != nil {
		return err
	}
	*p = Periodicidad(al)
	p.Extra = extra
	return nil
}

func (p Periodicidad) clone() Periodicidad {
	p.Extra = cloneExtra(p.Extra)
	return p
}

// MedioMagnetico es un elemento de informacion_exogena_municipal_medios_magneticos.
// Un UltimoNIT nil (ausente o null en el wire) no se emite.
type MedioMagnetico struct {
	Titulo           string   `json:"titulo" yaml:"titulo"`
	Contenido        string   `json:"contenido" yaml:"contenido"`
	FechaPago        string   `json:"fecha_pago" yaml:"fecha_pago"`
	FechaVencimiento string   `json:"fecha_vencimiento" yaml:"fecha_vencimiento"`
	UltimoNIT        []string `json:"ultimo_nit" yaml:"ultimo_nit"`

	Extra map[string]json.RawMessage `json:"-" yaml:"-"`
}

type medioAlias MedioMagnetico

func (m MedioMagnetico) MarshalJSON() ([]byte, error) {
	var omit []string
	if m.UltimoNIT == nil {
		omit = append(omit, "ultimo_nit")
	}
	return encodeWithExtra(medioAlias(m), m.Extra, medioFields, omit...)
}

func (m *MedioMagnetico) UnmarshalJSON(b []byte) error {
	var al medioAlias
	if err := json.Unmarshal(b, &al); err != nil {
		return err
	}
	extra, err := extraFields(b, medioFields)
	if err != nil {
		return err
	}
	*m = MedioMagnetico(al)
	m.Extra = extra
	return nil
}

func (m MedioMagnetico) clone() MedioMagnetico {
	m.UltimoNIT = cloneSlice(m.UltimoNIT)
	m.Extra = cloneExtra(m.Extra)
	return m
}

// Set asigna un campo por nombre de wire. "" en tipo significa "sin elegir".
// Un nombre que no es tipo ni periodo se guarda en Extra.
func (p *Periodicidad) Set(field string, v any) error {
	if _, ok := periodicidadFields[field]; !ok {
		return setExtra(&p.Extra, FieldPeriodicidad, field, v)
	}
	s, err := asString(field, v)
	if err != nil {
		return err
	}
	switch field {
	case "tipo":
		if s != "" && !validPeriodicity(s) {
			return apperrors.ErrInvalidValue.WithDetail(fmt.Sprintf("tipo %q; opciones: %s", s, strings.Join(PeriodicityTypes, ", ")))
		}
		p.Tipo = s
	case "periodo":
		p.Periodo = s
	}
	return nil
}

// Set asigna un campo por nombre de wire. ultimo_nit acepta una lista o un
// string separado por comas; los nombres no modelados van a Extra.
func (m *MedioMagnetico) Set(field string, v any) error {
	if _, ok := medioFields[field]; !ok {
		return setExtra(&m.Extra, FieldMediosMagneticos, field, v)
	}
	if field == "ultimo_nit" {
		nits, err := asStringList(v)
		if err != nil {
			return err
		}
		m.UltimoNIT = nits
		return nil
	}
	s, err := asString(field, v)
	if err != nil {
		return err
	}
	switch field {
	case "titulo":
		m.Titulo = s
	case "contenido":
		m.Contenido = s
	case "fecha_pago":
		m.FechaPago = s
	case "fecha_vencimiento":
		m.FechaVencimiento = s
	}
	return nil
}

func validPeriodicity(s string) bool {
	for _, t := range PeriodicityTypes {
		if s == t {
			return true
		}
	}
	return false
}

func asString(field string, v any) (string, error) {
	switch x := v.(type) {
	case string:
		return x, nil
	case nil:
		return "", nil
	case int, int64, float64:
		return fmt.Sprint(x), nil
	default:
		return "", apperrors.ErrInvalidValue.WithDetail(fmt.Sprintf("%s espera texto, no %T", field, v))
	}
}

func asBool(field string, v any) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return false, apperrors.ErrInvalidValue.WithDetail(fmt.Sprintf("%s espera true|false, no %q", field, x))
		}
		return b, nil
	default:
		return false, apperrors.ErrInvalidValue.WithDetail(fmt.Sprintf("%s espera booleano, no %T", field, v))
	}
}

func asStringList(v any) ([]string, error) {
	switch x := v.(type) {
	case nil:
		return []string{}, nil
	case []string:
		return cloneSlice(x), nil
	case string:
		parts := strings.Split(x, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			out = append(out, strings.TrimSpace(p))
		}
		return out, nil
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			s, err := asString("ultimo_nit", e)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, apperrors.ErrInvalidValue.WithDetail(fmt.Sprintf("ultimo_nit espera lista, no %T", v))
	}
}

// recordSetter es el contrato común de Periodicidad y MedioMagnetico.
type recordSetter interface {
	Set(field string, v any) error
}

// applyMap asigna las claves de m en orden, para que el error (si hay) sea determinista.
func applyMap(r recordSetter, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := r.Set(k, m[k]); err != nil {
			return err
		}
	}
	return nil
}
