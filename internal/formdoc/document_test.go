package formdoc

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const fixture = `{
  "id": 42,
  "creado_en": "2025-01-02T10:00:00",
  "codigo_municipio": "05001",
  "version": "0.0.2",
  "activo": true,
  "url_pdf": "https://example.test/medellin.pdf",
  "calendario_tributario": "2025",
  "impuesto_industria_comercio": "Acuerdo 066",
  "estatuto_tributario": [{"titulo": "Art. 1", "contenido": "Objeto"}],
  "ica": [],
  "autoretencion_ica": [{"titulo": "", "contenido": ""}],
  "rete_ica": [{"titulo": "Art. 9", "contenido": "Agentes"}],
  "fechas_ica": [{"0": "9 de enero de 2025"}, {"3": "10 de febrero de 2025"}],
  "fechas_rete_ica": [],
  "vencimiento_declaraciones_x_nit": [{"1": "x"}],
  "periodicidad_impuestos": [{"tipo": "mensual", "periodo": "enero"}],
  "informacion_exogena_municipal_medios_magneticos": [
    {"titulo": "Exógena", "contenido": "c", "fecha_pago": "f1", "fecha_vencimiento": "f2", "ultimo_nit": ["1", "2"]}
  ]
}`

func decodeFixture(t *testing.T) Document {
	t.Helper()
	var d Document
	require.NoError(t, json.Unmarshal([]byte(fixture), &d))
	return d
}

func TestDocument_RoundTrip(t *testing.T) {
	d := decodeFixture(t)
	require.Equal(t, "05001/0.0.2", d.Key())
	require.Equal(t, "42", d.ID())
	require.Nil(t, d.AvisosTableros)
	require.NotNil(t, d.ICA)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	require.JSONEq(t, fixture, string(out))
}

func TestDocument_CloneDoesNotAlias(t *testing.T) {
	d := decodeFixture(t)
	c := d.Clone()
	c.EstatutoTributario[0].Titulo = "otro"
	c.FechasICA[0]["0"] = "otro"
	c.MediosMagneticos[0].UltimoNIT[0] = "9"
	c.Extra["id"] = json.RawMessage(`1`)

	require.Equal(t, "Art. 1", d.EstatutoTributario[0].Titulo)
	require.Equal(t, "9 de enero de 2025", d.FechasICA[0]["0"])
	require.Equal(t, "1", d.MediosMagneticos[0].UltimoNIT[0])
	require.Equal(t, "42", d.ID())
}

func TestDateList_NonSequenceDecodesEmpty(t *testing.T) {
	var d Document
	require.NoError(t, json.Unmarshal([]byte(`{"codigo_municipio":"1","fechas_ica":{"0":"a"}}`), &d))
	require.NotNil(t, d.FechasICA)
	require.Empty(t, d.FechasICA)
}

func TestDateList_ElementNotObject(t *testing.T) {
	var d Document
	require.Error(t, json.Unmarshal([]byte(`{"fechas_ica":["9 de enero"]}`), &d))
}

func TestDateList_DecodeEncodeLaw(t *testing.T) {
	in := DateList{{"0": "a"}, {"7": "b"}, {"": ""}}
	require.Equal(t, in, EncodeDates(in.Decode()))

	multi := DateList{{"b": "2", "a": "1"}}
	require.Equal(t, []DateEntry{{Key: "a", Value: "1"}}, multi.Decode())
}

func TestFormatLongDate(t *testing.T) {
	cases := map[string]string{
		"2025-01-09": "9 de enero de 2025",
		"2024-12-31": "31 de diciembre de 2024",
		"2025-09-01": "1 de septiembre de 2025",
		"":           "",
	}
	for iso, want := range cases {
		got, err := FormatLongDate(iso)
		require.NoError(t, err, iso)
		require.Equal(t, want, got)
	}
	_, err := FormatLongDate("09/01/2025")
	require.Error(t, err)
}

func TestEncodeISODates(t *testing.T) {
	got, err := EncodeISODates([]string{"2025-01-09", "2025-02-10"})
	require.NoError(t, err)
	require.Equal(t, DateList{{"0": "9 de enero de 2025"}, {"1": "10 de febrero de 2025"}}, got)

	empty, err := EncodeISODates(nil)
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

func TestNextVersion(t *testing.T) {
	docs := []Document{
		{CodigoMunicipio: "05001", Version: "0.0.1"},
		{CodigoMunicipio: "05001", Version: "0.0.2"},
		{CodigoMunicipio: "05001", Version: "0.0.beta"},
		{CodigoMunicipio: "11001", Version: "0.0.9"},
	}
	require.Equal(t, "0.0.3", NextVersion("05001", docs))
	require.Equal(t, "0.0.10", NextVersion("11001", docs))
	require.Equal(t, "0.0.1", NextVersion("76001", docs))
	require.Equal(t, "0.0.1", NextVersion("05001", nil))
}

func TestDraft_Document(t *testing.T) {
	d := Draft{
		CodigoMunicipio: "05001",
		FechasICA:       []string{"2025-01-09"},
		Periodicidad:    []Periodicidad{{Periodo: "enero"}},
	}
	doc, err := d.Document("0.0.3")
	require.NoError(t, err)
	require.True(t, doc.Activo)
	require.Equal(t, "0.0.3", doc.Version)
	require.Equal(t, Mensual, doc.Periodicidad[0].Tipo)

	b, err := json.Marshal(doc)
	require.NoError(t, err)
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &m))
	for name, kind := range schema {
		if kind == KindScalar {
			continue
		}
		require.Contains(t, m, name)
	}
	require.JSONEq(t, `[]`, string(m[FieldAvisosTableros]))
	require.JSONEq(t, `[{"0":"9 de enero de 2025"}]`, string(m[FieldFechasICA]))

	_, err = Draft{}.Document("0.0.1")
	require.Error(t, err)
}

const nestedFixture = `{
  "codigo_municipio": "05001",
  "version": "0.0.4",
  "activo": true,
  "url_pdf": "a.pdf",
  "calendario_tributario": "",
  "impuesto_industria_comercio": "",
  "ica": [{"titulo": "A", "contenido": "B", "numero": 7, "meta": {"autor": "x"}}],
  "periodicidad_impuestos": [{"tipo": "mensual", "periodo": "x", "nota": "n"}],
  "informacion_exogena_municipal_medios_magneticos": [
    {"titulo": "T", "contenido": "C", "fecha_pago": "", "fecha_vencimiento": "", "formato": 1001}
  ]
}`

func TestDocument_ItemFieldsSurviveReplace(t *testing.T) {
	var d Document
	require.NoError(t, json.Unmarshal([]byte(nestedFixture), &d))
	require.Nil(t, d.MediosMagneticos[0].UltimoNIT)
	require.JSONEq(t, `7`, string(d.ICA[0].Extra["numero"]))

	out, err := d.SetScalar(FieldURLPDF, "b.pdf")
	require.NoError(t, err)
	b, err := json.Marshal(out)
	require.NoError(t, err)

	want := strings.Replace(nestedFixture, `"a.pdf"`, `"b.pdf"`, 1)
	require.JSONEq(t, want, string(b))
	require.NotContains(t, string(b), "ultimo_nit")
}

func TestDocument_CloneCopiesItemExtra(t *testing.T) {
	var d Document
	require.NoError(t, json.Unmarshal([]byte(nestedFixture), &d))
	c := d.Clone()
	c.ICA[0].Extra["numero"] = json.RawMessage(`8`)
	c.Periodicidad[0].Extra["nota"] = json.RawMessage(`"otra"`)
	c.MediosMagneticos[0].Extra["formato"] = json.RawMessage(`1`)

	require.JSONEq(t, `7`, string(d.ICA[0].Extra["numero"]))
	require.JSONEq(t, `"n"`, string(d.Periodicidad[0].Extra["nota"]))
	require.JSONEq(t, `1001`, string(d.MediosMagneticos[0].Extra["formato"]))
}
