package formdoc

import (
	"fmt"

	apperrors "github.com/dropDatabas3/severus/internal/errors"
)

// Operadores del buffer de edición.
//
// Todos son copy-on-write: reciben el documento por valor, trabajan sobre un
// Clone y devuelven el resultado; el documento original nunca se modifica.
// Un índice fuera de rango es un no-op (no un error). Una lista ausente se
// materializa como [] antes de operar. Un campo que no existe, o que no es del
// Kind que el operador espera, devuelve ErrUnknownField y el documento original.

func unknownField(field string, want Kind) error {
	if k, ok := schema[field]; ok {
		return apperrors.ErrUnknownField.WithDetail(fmt.Sprintf("%s es %s, no %s", field, k, want))
	}
	return apperrors.ErrUnknownField.WithDetail(field)
}

func inRange(i, n int) bool { return i >= 0 && i < n }

// SetScalar reemplaza un campo de primer nivel.
func (d Document) SetScalar(field string, value any) (Document, error) {
	out := d.Clone()
	var err error
	switch field {
	case FieldActivo:
		out.Activo, err = asBool(field, value)
	case FieldCodigoMunicipio:
		out.CodigoMunicipio, err = asString(field, value)
	case FieldVersion:
		out.Version, err = asString(field, value)
	case FieldURLPDF:
		out.URLPDF, err = asString(field, value)
	case FieldCalendarioTributario:
		out.CalendarioTributario, err = asString(field, value)
	case FieldImpuestoIndustriaComercio:
		out.ImpuestoIndustriaComercio, err = asString(field, value)
	default:
		return d, unknownField(field, KindScalar)
	}
	if err != nil {
		return d, err
	}
	return out, nil
}

func (d Document) articles(field string) (Document, *[]Article, error) {
	acc, ok := articleLists[field]
	if !ok {
		return d, nil, unknownField(field, KindArticles)
	}
	out := d.Clone()
	list := acc(&out)
	if *list == nil {
		*list = []Article{}
	}
	return out, list, nil
}

// Articles devuelve una copia de la lista de artículos de field.
func (d Document) Articles(field string) ([]Article, error) {
	acc, ok := articleLists[field]
	if !ok {
		return nil, unknownField(field, KindArticles)
	}
	return cloneItems(*acc(&d)), nil
}

// SetArticleField reemplaza titulo o contenido del artículo en index.
func (d Document) SetArticleField(field string, index int, subfield, value string) (Document, error) {
	if subfield != "titulo" && subfield != "contenido" {
		return d, apperrors.ErrUnknownField.WithDetail(field + "." + subfield)
	}
	out, list, err := d.articles(field)
	if err != nil {
		return d, err
	}
	if !inRange(index, len(*list)) {
		return out, nil
	}
	if subfield == "titulo" {
		(*list)[index].Titulo = value
	} else {
		(*list)[index].Contenido = value
	}
	return out, nil
}

// AddArticle agrega {titulo: "", contenido: ""} al final.
func (d Document) AddArticle(field string) (Document, error) {
	out, list, err := d.articles(field)
	if err != nil {
		return d, err
	}
	*list = append(*list, Article{})
	return out, nil
}

// RemoveArticle quita el artículo en index.
func (d Document) RemoveArticle(field string, index int) (Document, error) {
	out, list, err := d.articles(field)
	if err != nil {
		return d, err
	}
	if inRange(index, len(*list)) {
		*list = append((*list)[:index], (*list)[index+1:]...)
	}
	return out, nil
}

// DateEntries decodifica un campo de fechas a su forma editable.
func (d Document) DateEntries(field string) ([]DateEntry, error) {
	acc, ok := dateLists[field]
	if !ok {
		return nil, unknownField(field, KindDates)
	}
	return acc(&d).Decode(), nil
}

// updateDates: decode → fn → encode.
func (d Document) updateDates(field string, fn func([]DateEntry) []DateEntry) (Document, error) {
	acc, ok := dateLists[field]
	if !ok {
		return d, unknownField(field, KindDates)
	}
	out := d.Clone()
	list := acc(&out)
	*list = EncodeDates(fn(list.Decode()))
	return out, nil
}

// SetDateEntry reemplaza el valor de la fecha en index; la clave se conserva.
func (d Document) SetDateEntry(field string, index int, value string) (Document, error) {
	return d.updateDates(field, func(es []DateEntry) []DateEntry {
		if inRange(index, len(es)) {
			es[index].Value = value
		}
		return es
	})
}

// AddDateEntry agrega una fecha vacía con la siguiente clave secuencial.
func (d Document) AddDateEntry(field string) (Document, error) {
	return d.updateDates(field, func(es []DateEntry) []DateEntry {
		return append(es, DateEntry{Key: nextDateKey(es)})
	})
}

// RemoveDateEntry quita la fecha en index. Las claves restantes no se renumeran.
func (d Document) RemoveDateEntry(field string, index int) (Document, error) {
	return d.updateDates(field, func(es []DateEntry) []DateEntry {
		if inRange(index, len(es)) {
			es = append(es[:index], es[index+1:]...)
		}
		return es
	})
}

// SetObjectField asigna name=value en el elemento index de periodicidad o medios magnéticos.
func (d Document) SetObjectField(field string, index int, name string, value any) (Document, error) {
	out := d.Clone()
	var rec recordSetter
	switch field {
	case FieldPeriodicidad:
		if out.Periodicidad == nil {
			out.Periodicidad = []Periodicidad{}
		}
		if inRange(index, len(out.Periodicidad)) {
			rec = &out.Periodicidad[index]
		}
	case FieldMediosMagneticos:
		if out.MediosMagneticos == nil {
			out.MediosMagneticos = []MedioMagnetico{}
		}
		if inRange(index, len(out.MediosMagneticos)) {
			rec = &out.MediosMagneticos[index]
		}
	default:
		return d, unknownField(field, KindPeriodicity)
	}
	if rec == nil {
		return out, nil
	}
	if err := rec.Set(name, value); err != nil {
		return d, err
	}
	return out, nil
}

// AddObjectItem agrega un elemento. record puede ser el tipo concreto
// (Periodicidad / MedioMagnetico), un map[string]any con campos de wire, o nil
// para el elemento vacío.
func (d Document) AddObjectItem(field string, record any) (Document, error) {
	out := d.Clone()
	switch field {
	case FieldPeriodicidad:
		var p Periodicidad
		switch r := record.(type) {
		case nil:
		case Periodicidad:
			p = r.clone()
		case map[string]any:
			if err := applyMap(&p, r); err != nil {
				return d, err
			}
		default:
			return d, apperrors.ErrInvalidValue.WithDetail(fmt.Sprintf("%s no acepta %T", field, record))
		}
		if p.Tipo != "" && !validPeriodicity(p.Tipo) {
			return d, apperrors.ErrInvalidValue.WithDetail("tipo " + p.Tipo)
		}
		out.Periodicidad = append(nonNil(out.Periodicidad), p)
	case FieldMediosMagneticos:
		m := MedioMagnetico{UltimoNIT: []string{}}
		switch r := record.(type) {
		case nil:
		case MedioMagnetico:
			m = r.clone()
			if m.UltimoNIT == nil {
				m.UltimoNIT = []string{}
			}
		case map[string]any:
			if err := applyMap(&m, r); err != nil {
				return d, err
			}
		default:
			return d, apperrors.ErrInvalidValue.WithDetail(fmt.Sprintf("%s no acepta %T", field, record))
		}
		out.MediosMagneticos = append(nonNil(out.MediosMagneticos), m)
	default:
		return d, unknownField(field, KindPeriodicity)
	}
	return out, nil
}

// RemoveObjectItem quita el elemento index de periodicidad o medios magnéticos.
func (d Document) RemoveObjectItem(field string, index int) (Document, error) {
	out := d.Clone()
	switch field {
	case FieldPeriodicidad:
		out.Periodicidad = nonNil(out.Periodicidad)
		if inRange(index, len(out.Periodicidad)) {
			out.Periodicidad = append(out.Periodicidad[:index], out.Periodicidad[index+1:]...)
		}
	case FieldMediosMagneticos:
		out.MediosMagneticos = nonNil(out.MediosMagneticos)
		if inRange(index, len(out.MediosMagneticos)) {
			out.MediosMagneticos = append(out.MediosMagneticos[:index], out.MediosMagneticos[index+1:]...)
		}
	default:
		return d, unknownField(field, KindPeriodicity)
	}
	return out, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
