package listview

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/severus/internal/api"
	"github.com/dropDatabas3/severus/internal/formdoc"
)

func numbers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestView_Pagination(t *testing.T) {
	v := New[int](nil, 0)
	v.SetItems(numbers(25))

	require.Equal(t, 1, v.Page())
	require.False(t, v.HasPrev())
	require.True(t, v.HasNext())
	require.Equal(t, numbers(10), v.PageItems())

	require.True(t, v.Next())
	require.True(t, v.Next())
	require.Equal(t, 3, v.Page())
	require.Equal(t, []int{21, 22, 23, 24, 25}, v.PageItems())
	require.False(t, v.HasNext())
	require.False(t, v.Next())
	require.Equal(t, 3, v.Pages())

	require.True(t, v.Prev())
	require.Equal(t, 2, v.Page())
}

func TestView_SearchResetsPage(t *testing.T) {
	even := func(i int, q string) bool { return fmt.Sprint(i%2) == q }
	v := New(even, 5)
	v.SetItems(numbers(30))
	v.SetPage(4)
	require.Equal(t, 4, v.Page())

	v.SetSearch("0")
	require.Equal(t, 1, v.Page())
	require.Equal(t, 15, v.Filtered())
	require.Equal(t, []int{2, 4, 6, 8, 10}, v.PageItems())

	v.SetSearch("")
	require.Equal(t, 30, v.Filtered())
}

func TestView_Empty(t *testing.T) {
	v := New[int](nil, 10)
	require.Empty(t, v.PageItems())
	require.False(t, v.HasNext())
	require.False(t, v.HasPrev())
	require.Equal(t, 1, v.Pages())
}

func TestView_SetItemsClampsPage(t *testing.T) {
	v := New[int](nil, 10)
	v.SetItems(numbers(25))
	v.SetPage(3)
	v.SetItems(numbers(12))
	require.Equal(t, 2, v.Page())
	require.Equal(t, []int{11, 12}, v.PageItems())
}

func TestMunicipios(t *testing.T) {
	v := Municipios(0)
	v.SetItems([]api.Municipio{
		{Codigo: "11001", Nombre: "Bogotá"},
		{Codigo: "76001", Nombre: "Cali"},
	})
	v.SetSearch("bogota")
	require.Equal(t, []api.Municipio{{Codigo: "11001", Nombre: "Bogotá"}}, v.PageItems())
	v.SetSearch("760")
	require.Equal(t, "Cali", v.PageItems()[0].Nombre)
}

func TestFormularios(t *testing.T) {
	v := Formularios(0)
	v.SetItems([]formdoc.Document{
		{CodigoMunicipio: "05001", Version: "0.0.1"},
		{CodigoMunicipio: "05001", Version: "0.0.2"},
		{CodigoMunicipio: "11001", Version: "0.0.1"},
	})
	v.SetSearch("0.0.2")
	require.Len(t, v.PageItems(), 1)
	v.SetSearch("05001")
	require.Len(t, v.PageItems(), 2)
}

func TestAudit(t *testing.T) {
	entries := []api.AuditEntry{
		{Usuario: "Admin", Accion: "crear", Detalles: "Creó formulario 05001"},
		{Usuario: "ana", Accion: "editar", Detalles: "cambió fechas"},
	}
	v := Audit(0)
	v.SetItems(entries)
	v.SetSearch("ADMIN")
	require.Len(t, v.PageItems(), 1)
	// la búsqueda de auditoría no ignora tildes
	v.SetSearch("creo")
	require.Empty(t, v.PageItems())

	got := AuditFilter{Usuario: "an", Accion: "EDIT"}.Apply(entries)
	require.Len(t, got, 1)
	require.Equal(t, "ana", got[0].Usuario)
	require.Len(t, AuditFilter{}.Apply(entries), 2)
}
