// Package formdoc es el modelo de edición de documentos de información
// tributaria versionada: codecs entre las codificaciones del wire y una forma
// editable, operadores copy-on-write sobre el documento, cálculo de la
// siguiente versión y el Editor que mantiene buffer y documento confirmado.
package formdoc

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Article es un artículo {titulo, contenido}. Otros campos que traiga el
// servidor quedan en Extra y se reenvían sin cambios.
type Article struct {
	Titulo    string `json:"titulo" yaml:"titulo"`
	Contenido string `json:"contenido" yaml:"contenido"`

	Extra map[string]json.RawMessage `json:"-" yaml:"-"`
}

type articleAlias Article

func (a Article) MarshalJSON() ([]byte, error) {
	return encodeWithExtra(articleAlias(a), a.Extra, articleFields)
}

func (a *Article) UnmarshalJSON(b []byte) error {
	var al articleAlias
	if err := json.Unmarshal(b, &al); err != nil {
		return err
	}
	extra, err := extraFields(b, articleFields)
	if err != nil {
		return err
	}
	*a = Article(al)
	a.Extra = extra
	return nil
}

func (a Article) clone() Article {
	a.Extra = cloneExtra(a.Extra)
	return a
}

// Document es un registro versionado de información tributaria de un municipio.
// Identidad: (CodigoMunicipio, Version).
//
// Los campos del servidor que este cliente no modela (id, timestamps, ...)
// viajan en Extra y se reenvían tal cual en el reemplazo completo.
// Una lista nil se omite al codificar; una lista vacía se envía como [].
type Document struct {
	CodigoMunicipio           string `json:"codigo_municipio"`
	Version                   string `json:"version"`
	Activo                    bool   `json:"activo"`
	URLPDF                    string `json:"url_pdf"`
	CalendarioTributario      string `json:"calendario_tributario"`
	ImpuestoIndustriaComercio string `json:"impuesto_industria_comercio"`

	EstatutoTributario []Article `json:"estatuto_tributario"`
	ICA                []Article `json:"ica"`
	AutoretencionICA   []Article `json:"autoretencion_ica"`
	ReteICA            []Article `json:"rete_ica"`
	AvisosTableros     []Article `json:"avisos_tableros"`
	SobretasaBomberil  []Article `json:"sobretasa_bomberil"`

	FechasICA              DateList `json:"fechas_ica"`
	FechasReteICA          DateList `json:"fechas_rete_ica"`
	VencimientoXNIT        DateList `json:"vencimiento_declaraciones_x_nit"`
	VencimientoXNITICA     DateList `json:"vencimiento_declaraciones_x_nit_ica"`
	VencimientoXNITReteICA DateList `json:"vencimiento_declaraciones_x_nit_rete_ica"`

	Periodicidad     []Periodicidad   `json:"periodicidad_impuestos"`
	MediosMagneticos []MedioMagnetico `json:"informacion_exogena_municipal_medios_magneticos"`

	Extra map[string]json.RawMessage `json:"-"`
}

// documentAlias no tiene métodos: evita recursión en (Un)MarshalJSON.
type documentAlias Document

// Key es la identidad natural del documento.
func (d Document) Key() string {
	return d.CodigoMunicipio + "/" + d.Version
}

// ID devuelve el "id" asignado por el servidor, si vino.
func (d Document) ID() string {
	raw, ok := d.Extra["id"]
	if !ok {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func (d Document) MarshalJSON() ([]byte, error) {
	b, err := json.Marshal(documentAlias(d))
	if err != nil {
		return nil, err
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	for name, kind := range schema {
		if kind != KindScalar && listIsNil(&d, name) {
			delete(m, name)
		}
	}
	for k, v := range d.Extra {
		if _, known := schema[k]; known {
			continue
		}
		m[k] = v
	}
	return json.Marshal(m)
}

func (d *Document) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("formdoc: documento no es un objeto: %w", err)
	}
	var a documentAlias
	if err := json.Unmarshal(b, &a); err != nil {
		return fmt.Errorf("formdoc: %w", err)
	}
	*d = Document(a)
	d.Extra = nil
	for k, v := range raw {
		if _, known := schema[k]; known {
			continue
		}
		if d.Extra == nil {
			d.Extra = make(map[string]json.RawMessage)
		}
		d.Extra[k] = append(json.RawMessage(nil), v...)
	}
	return nil
}

// Clone devuelve una copia profunda. Las listas nil siguen siendo nil.
func (d Document) Clone() Document {
	out := d
	out.EstatutoTributario = cloneItems(d.EstatutoTributario)
	out.ICA = cloneItems(d.ICA)
	out.AutoretencionICA = cloneItems(d.AutoretencionICA)
	out.ReteICA = cloneItems(d.ReteICA)
	out.AvisosTableros = cloneItems(d.AvisosTableros)
	out.SobretasaBomberil = cloneItems(d.SobretasaBomberil)

	out.FechasICA = d.FechasICA.clone()
	out.FechasReteICA = d.FechasReteICA.clone()
	out.VencimientoXNIT = d.VencimientoXNIT.clone()
	out.VencimientoXNITICA = d.VencimientoXNITICA.clone()
	out.VencimientoXNITReteICA = d.VencimientoXNITReteICA.clone()

	out.Periodicidad = cloneItems(d.Periodicidad)
	out.MediosMagneticos = cloneItems(d.MediosMagneticos)
	out.Extra = cloneExtra(d.Extra)
	return out
}

func cloneSlice[T any](s []T) []T {
	if s == nil {
		return nil
	}
	out := make([]T, len(s))
	copy(out, s)
	return out
}
