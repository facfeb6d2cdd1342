package formdoc

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	apperrors "github.com/dropDatabas3/severus/internal/errors"
)

// Draft es el formulario del flujo de creación. Las fechas se capturan en ISO
// (2025-01-09) y recién al enviar se formatean y se envuelven en DateList.
type Draft struct {
	CodigoMunicipio           string `yaml:"codigo_municipio"`
	Activo                    *bool  `yaml:"activo"`
	URLPDF                    string `yaml:"url_pdf"`
	CalendarioTributario      string `yaml:"calendario_tributario"`
	ImpuestoIndustriaComercio string `yaml:"impuesto_industria_comercio"`

	EstatutoTributario []Article `yaml:"estatuto_tributario"`
	ICA                []Article `yaml:"ica"`
	AutoretencionICA   []Article `yaml:"autoretencion_ica"`
	ReteICA            []Article `yaml:"rete_ica"`
	AvisosTableros     []Article `yaml:"avisos_tableros"`
	SobretasaBomberil  []Article `yaml:"sobretasa_bomberil"`

	FechasICA              []string `yaml:"fechas_ica"`
	FechasReteICA          []string `yaml:"fechas_rete_ica"`
	VencimientoXNIT        []string `yaml:"vencimiento_declaraciones_x_nit"`
	VencimientoXNITICA     []string `yaml:"vencimiento_declaraciones_x_nit_ica"`
	VencimientoXNITReteICA []string `yaml:"vencimiento_declaraciones_x_nit_rete_ica"`

	Periodicidad     []Periodicidad   `yaml:"periodicidad_impuestos"`
	MediosMagneticos []MedioMagnetico `yaml:"informacion_exogena_municipal_medios_magneticos"`
}

// ParseDraft lee un Draft en YAML.
func ParseDraft(r io.Reader) (Draft, error) {
	var d Draft
	if err := yaml.NewDecoder(r).Decode(&d); err != nil {
		return Draft{}, apperrors.ErrInvalidValue.WithDetail("borrador inválido").WithCause(err)
	}
	return d, nil
}

// Document arma el payload de creación con la versión calculada.
// Todas las listas se materializan ([] y no ausentes); activo por defecto true.
func (d Draft) Document(version string) (Document, error) {
	if d.CodigoMunicipio == "" {
		return Document{}, apperrors.ErrInvalidValue.WithDetail("codigo_municipio es requerido")
	}
	activo := true
	if d.Activo != nil {
		activo = *d.Activo
	}
	out := Document{
		CodigoMunicipio:           d.CodigoMunicipio,
		Version:                   version,
		Activo:                    activo,
		URLPDF:                    d.URLPDF,
		CalendarioTributario:      d.CalendarioTributario,
		ImpuestoIndustriaComercio: d.ImpuestoIndustriaComercio,

		EstatutoTributario: nonNil(cloneItems(d.EstatutoTributario)),
		ICA:                nonNil(cloneItems(d.ICA)),
		AutoretencionICA:   nonNil(cloneItems(d.AutoretencionICA)),
		ReteICA:            nonNil(cloneItems(d.ReteICA)),
		AvisosTableros:     nonNil(cloneItems(d.AvisosTableros)),
		SobretasaBomberil:  nonNil(cloneItems(d.SobretasaBomberil)),

		Periodicidad: nonNil(cloneItems(d.Periodicidad)),
	}
	for i, p := range out.Periodicidad {
		if p.Tipo == "" {
			out.Periodicidad[i].Tipo = Mensual
		} else if !validPeriodicity(p.Tipo) {
			return Document{}, apperrors.ErrInvalidValue.WithDetail(fmt.Sprintf("periodicidad_impuestos[%d].tipo %q", i, p.Tipo))
		}
	}
	out.MediosMagneticos = make([]MedioMagnetico, 0, len(d.MediosMagneticos))
	for _, m := range d.MediosMagneticos {
		m = m.clone()
		m.UltimoNIT = nonNil(m.UltimoNIT)
		out.MediosMagneticos = append(out.MediosMagneticos, m)
	}

	dates := []struct {
		field string
		iso   []string
	}{
		{FieldFechasICA, d.FechasICA},
		{FieldFechasReteICA, d.FechasReteICA},
		{FieldVencimientoXNIT, d.VencimientoXNIT},
		{FieldVencimientoXNITICA, d.VencimientoXNITICA},
		{FieldVencimientoXNITReteICA, d.VencimientoXNITReteICA},
	}
	for _, f := range dates {
		list, err := EncodeISODates(f.iso)
		if err != nil {
			return Document{}, apperrors.ErrInvalidValue.WithDetail(f.field).WithCause(err)
		}
		*dateLists[f.field](&out) = list
	}
	return out, nil
}
