package formdoc

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	apperrors "github.com/dropDatabas3/severus/internal/errors"
)

func snapshot(t *testing.T, d Document) string {
	t.Helper()
	b, err := json.Marshal(d)
	require.NoError(t, err)
	return string(b)
}

func TestOps_DoNotMutateInput(t *testing.T) {
	base := decodeFixture(t)
	before := snapshot(t, base)

	ops := []Op{
		{Kind: OpSetScalar, Field: FieldURLPDF, Value: "nuevo"},
		{Kind: OpSetScalar, Field: FieldActivo, Value: false},
		{Kind: OpSetArticleField, Field: FieldEstatutoTributario, Index: At(0), Subfield: "titulo", Value: "X"},
		{Kind: OpAddArticle, Field: FieldICA},
		{Kind: OpAddArticle, Field: FieldAvisosTableros},
		{Kind: OpRemoveArticle, Field: FieldReteICA, Index: At(0)},
		{Kind: OpSetDateEntry, Field: FieldFechasICA, Index: At(1), Value: "hoy"},
		{Kind: OpAddDateEntry, Field: FieldFechasICA},
		{Kind: OpRemoveDateEntry, Field: FieldFechasICA, Index: At(0)},
		{Kind: OpSetObjectField, Field: FieldPeriodicidad, Index: At(0), Subfield: "tipo", Value: Anual},
		{Kind: OpSetObjectField, Field: FieldMediosMagneticos, Index: At(0), Subfield: "ultimo_nit", Value: "7, 8"},
		{Kind: OpAddObjectItem, Field: FieldPeriodicidad},
		{Kind: OpAddObjectItem, Field: FieldMediosMagneticos},
		{Kind: OpRemoveObjectItem, Field: FieldMediosMagneticos, Index: At(0)},
	}
	for _, op := range ops {
		out, err := base.Apply(op)
		require.NoError(t, err, op.String())
		require.NotEqual(t, before, snapshot(t, out), op.String())
		require.Equal(t, before, snapshot(t, base), op.String())
	}
}

func TestOps_OutOfRangeIsNoop(t *testing.T) {
	base := decodeFixture(t)
	for _, op := range []Op{
		{Kind: OpSetArticleField, Field: FieldICA, Index: At(5), Subfield: "titulo", Value: "x"},
		{Kind: OpRemoveArticle, Field: FieldEstatutoTributario, Index: At(-1)},
		{Kind: OpSetDateEntry, Field: FieldFechasICA, Index: At(9), Value: "x"},
		{Kind: OpRemoveDateEntry, Field: FieldFechasICA, Index: At(2)},
		{Kind: OpRemoveObjectItem, Field: FieldPeriodicidad, Index: At(3)},
	} {
		out, err := base.Apply(op)
		require.NoError(t, err, op.String())
		require.JSONEq(t, snapshot(t, base), snapshot(t, out), op.String())
	}
}

func TestOps_UnknownField(t *testing.T) {
	base := decodeFixture(t)
	_, err := base.AddArticle("no_existe")
	require.ErrorIs(t, err, apperrors.ErrUnknownField)

	// un campo de fechas no es una lista de artículos
	_, err = base.AddArticle(FieldFechasICA)
	require.ErrorIs(t, err, apperrors.ErrUnknownField)

	_, err = base.SetScalar(FieldICA, "x")
	require.ErrorIs(t, err, apperrors.ErrUnknownField)

	_, err = base.SetArticleField(FieldICA, 0, "autor", "x")
	require.ErrorIs(t, err, apperrors.ErrUnknownField)
}

func TestOps_AbsentListIsMaterialized(t *testing.T) {
	var d Document
	out, err := d.AddArticle(FieldSobretasaBomberil)
	require.NoError(t, err)
	require.Equal(t, []Article{{}}, out.SobretasaBomberil)
	require.Nil(t, d.SobretasaBomberil)

	out, err = d.RemoveDateEntry(FieldFechasReteICA, 0)
	require.NoError(t, err)
	require.NotNil(t, out.FechasReteICA)
	require.Empty(t, out.FechasReteICA)
}

func TestOps_AddDateEntryKey(t *testing.T) {
	d := Document{FechasICA: DateList{{"0": "a"}, {"2": "b"}}}
	out, err := d.AddDateEntry(FieldFechasICA)
	require.NoError(t, err)
	require.Equal(t, DateList{{"0": "a"}, {"2": "b"}, {"3": ""}}, out.FechasICA)

	out, err = Document{}.AddDateEntry(FieldFechasICA)
	require.NoError(t, err)
	require.Equal(t, DateList{{"0": ""}}, out.FechasICA)

	// las claves se conservan al editar y al quitar
	out, err = d.SetDateEntry(FieldFechasICA, 1, "c")
	require.NoError(t, err)
	require.Equal(t, DateList{{"0": "a"}, {"2": "c"}}, out.FechasICA)
	out, err = d.RemoveDateEntry(FieldFechasICA, 0)
	require.NoError(t, err)
	require.Equal(t, DateList{{"2": "b"}}, out.FechasICA)
}

func TestOps_ObjectItems(t *testing.T) {
	var d Document
	out, err := d.AddObjectItem(FieldPeriodicidad, map[string]any{"tipo": Trimestral, "periodo": "Q1"})
	require.NoError(t, err)
	require.Equal(t, []Periodicidad{{Tipo: Trimestral, Periodo: "Q1"}}, out.Periodicidad)

	_, err = d.AddObjectItem(FieldPeriodicidad, map[string]any{"tipo": "quincenal"})
	require.ErrorIs(t, err, apperrors.ErrInvalidValue)

	_, err = out.SetObjectField(FieldPeriodicidad, 0, "tipo", "diario")
	require.ErrorIs(t, err, apperrors.ErrInvalidValue)

	out, err = d.AddObjectItem(FieldMediosMagneticos, MedioMagnetico{Titulo: "t"})
	require.NoError(t, err)
	require.Equal(t, []string{}, out.MediosMagneticos[0].UltimoNIT)

	out, err = out.SetObjectField(FieldMediosMagneticos, 0, "ultimo_nit", []any{"1", 2})
	require.NoError(t, err)
	require.Equal(t, []string{"1", "2"}, out.MediosMagneticos[0].UltimoNIT)
}

func TestParseOpsAndApplyAll(t *testing.T) {
	script := `
- op: add_article
  field: ica
- op: set_article_field
  field: ica
  index: 0
  subfield: titulo
  value: Artículo 1
- op: add_object
  field: periodicidad_impuestos
  value:
    tipo: anual
    periodo: "2025"
- op: set_scalar
  field: activo
  value: false
`
	ops, err := ParseOps(strings.NewReader(script))
	require.NoError(t, err)
	require.Len(t, ops, 4)

	base := decodeFixture(t)
	out, err := base.ApplyAll(ops...)
	require.NoError(t, err)
	require.Equal(t, []Article{{Titulo: "Artículo 1"}}, out.ICA)
	require.Equal(t, Periodicidad{Tipo: Anual, Periodo: "2025"}, out.Periodicidad[1])
	require.False(t, out.Activo)

	empty, err := ParseOps(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestApplyAll_IsAllOrNothing(t *testing.T) {
	base := decodeFixture(t)
	out, err := base.ApplyAll(
		Op{Kind: OpAddArticle, Field: FieldICA},
		Op{Kind: OpAddArticle, Field: "nope"},
	)
	require.ErrorIs(t, err, apperrors.ErrUnknownField)
	require.Contains(t, err.Error(), "op #2")
	require.JSONEq(t, snapshot(t, base), snapshot(t, out))

	_, err = base.Apply(Op{Kind: "rename"})
	require.ErrorIs(t, err, apperrors.ErrInvalidValue)
}

func TestOps_ObjectFieldKeepsOtherFields(t *testing.T) {
	var d Document
	require.NoError(t, json.Unmarshal([]byte(nestedFixture), &d))

	out, err := d.SetObjectField(FieldPeriodicidad, 0, "nota", "editada")
	require.NoError(t, err)
	out, err = out.SetObjectField(FieldMediosMagneticos, 0, "formato", 1002)
	require.NoError(t, err)
	out, err = out.SetObjectField(FieldPeriodicidad, 0, "periodo", "y")
	require.NoError(t, err)

	require.JSONEq(t, `"n"`, string(d.Periodicidad[0].Extra["nota"]))
	require.Equal(t, "y", out.Periodicidad[0].Periodo)
	require.JSONEq(t, `"editada"`, string(out.Periodicidad[0].Extra["nota"]))
	require.JSONEq(t, `1002`, string(out.MediosMagneticos[0].Extra["formato"]))

	_, err = d.SetObjectField(FieldPeriodicidad, 0, " ", "x")
	require.ErrorIs(t, err, apperrors.ErrUnknownField)
}

func TestApply_IndexRequired(t *testing.T) {
	base := decodeFixture(t)
	for _, kind := range []OpKind{
		OpSetArticleField, OpRemoveArticle,
		OpSetDateEntry, OpRemoveDateEntry,
		OpSetObjectField, OpRemoveObjectItem,
	} {
		_, err := base.Apply(Op{Kind: kind, Field: FieldReteICA, Subfield: "titulo", Value: "x"})
		require.ErrorIs(t, err, apperrors.ErrInvalidValue, string(kind))
	}

	ops, err := ParseOps(strings.NewReader("- op: remove_article\n  field: rete_ica\n"))
	require.NoError(t, err)
	out, err := base.ApplyAll(ops...)
	require.ErrorIs(t, err, apperrors.ErrInvalidValue)
	require.Len(t, out.ReteICA, 1)

	ops, err = ParseOps(strings.NewReader("- op: remove_article\n  field: rete_ica\n  index: 0\n"))
	require.NoError(t, err)
	out, err = base.ApplyAll(ops...)
	require.NoError(t, err)
	require.Empty(t, out.ReteICA)
}
