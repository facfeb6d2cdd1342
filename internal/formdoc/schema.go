package formdoc

import "sort"

// Kind es la variante de contenedor de un campo del documento. Cada Kind tiene
// un único codec/operador; qué Kind aplica a un campo se resuelve por tabla.
type Kind int

const (
	KindScalar      Kind = iota + 1 // string o bool de primer nivel
	KindArticles                    // [{titulo, contenido}]
	KindDates                       // [{"0": "9 de enero de 2025"}]
	KindPeriodicity                 // [{tipo, periodo}]
	KindMedia                       // [{titulo, contenido, fecha_pago, fecha_vencimiento, ultimo_nit}]
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindArticles:
		return "articles"
	case KindDates:
		return "dates"
	case KindPeriodicity:
		return "periodicity"
	case KindMedia:
		return "media"
	default:
		return "unknown"
	}
}

// Nombres de campo en el wire.
const (
	FieldCodigoMunicipio           = "codigo_municipio"
	FieldVersion                   = "version"
	FieldActivo                    = "activo"
	FieldURLPDF                    = "url_pdf"
	FieldCalendarioTributario      = "calendario_tributario"
	FieldImpuestoIndustriaComercio = "impuesto_industria_comercio"

	FieldEstatutoTributario = "estatuto_tributario"
	FieldICA                = "ica"
	FieldAutoretencionICA   = "autoretencion_ica"
	FieldReteICA            = "rete_ica"
	FieldAvisosTableros     = "avisos_tableros"
	FieldSobretasaBomberil  = "sobretasa_bomberil"

	FieldFechasICA              = "fechas_ica"
	FieldFechasReteICA          = "fechas_rete_ica"
	FieldVencimientoXNIT        = "vencimiento_declaraciones_x_nit"
	FieldVencimientoXNITICA     = "vencimiento_declaraciones_x_nit_ica"
	FieldVencimientoXNITReteICA = "vencimiento_declaraciones_x_nit_rete_ica"
	FieldPeriodicidad           = "periodicidad_impuestos"
	FieldMediosMagneticos       = "informacion_exogena_municipal_medios_magneticos"
)

var schema = map[string]Kind{
	FieldCodigoMunicipio:           KindScalar,
	FieldVersion:                   KindScalar,
	FieldActivo:                    KindScalar,
	FieldURLPDF:                    KindScalar,
	FieldCalendarioTributario:      KindScalar,
	FieldImpuestoIndustriaComercio: KindScalar,

	FieldEstatutoTributario: KindArticles,
	FieldICA:                KindArticles,
	FieldAutoretencionICA:   KindArticles,
	FieldReteICA:            KindArticles,
	FieldAvisosTableros:     KindArticles,
	FieldSobretasaBomberil:  KindArticles,

	FieldFechasICA:              KindDates,
	FieldFechasReteICA:          KindDates,
	FieldVencimientoXNIT:        KindDates,
	FieldVencimientoXNITICA:     KindDates,
	FieldVencimientoXNITReteICA: KindDates,

	FieldPeriodicidad:     KindPeriodicity,
	FieldMediosMagneticos: KindMedia,
}

var articleLists = map[string]func(*Document) *[]Article{
	FieldEstatutoTributario: func(d *Document) *[]Article { return &d.EstatutoTributario },
	FieldICA:                func(d *Document) *[]Article { return &d.ICA },
	FieldAutoretencionICA:   func(d *Document) *[]Article { return &d.AutoretencionICA },
	FieldReteICA:            func(d *Document) *[]Article { return &d.ReteICA },
	FieldAvisosTableros:     func(d *Document) *[]Article { return &d.AvisosTableros },
	FieldSobretasaBomberil:  func(d *Document) *[]Article { return &d.SobretasaBomberil },
}

var dateLists = map[string]func(*Document) *DateList{
	FieldFechasICA:              func(d *Document) *DateList { return &d.FechasICA },
	FieldFechasReteICA:          func(d *Document) *DateList { return &d.FechasReteICA },
	FieldVencimientoXNIT:        func(d *Document) *DateList { return &d.VencimientoXNIT },
	FieldVencimientoXNITICA:     func(d *Document) *DateList { return &d.VencimientoXNITICA },
	FieldVencimientoXNITReteICA: func(d *Document) *DateList { return &d.VencimientoXNITReteICA },
}

// KindOf devuelve el Kind de un campo del wire.
func KindOf(field string) (Kind, bool) {
	k, ok := schema[field]
	return k, ok
}

// FieldsOf lista, ordenados, los campos de un Kind.
func FieldsOf(k Kind) []string {
	var out []string
	for name, kind := range schema {
		if kind == k {
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}

// listIsNil reporta si un campo de lista está ausente (nil) en d.
func listIsNil(d *Document, field string) bool {
	if acc, ok := articleLists[field]; ok {
		return *acc(d) == nil
	}
	if acc, ok := dateLists[field]; ok {
		return *acc(d) == nil
	}
	switch field {
	case FieldPeriodicidad:
		return d.Periodicidad == nil
	case FieldMediosMagneticos:
		return d.MediosMagneticos == nil
	}
	return false
}
