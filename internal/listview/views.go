package listview

import (
	"github.com/dropDatabas3/severus/internal/api"
	"github.com/dropDatabas3/severus/internal/formdoc"
	"github.com/dropDatabas3/severus/internal/textnorm"
)

// MatchMunicipio busca sin tildes sobre nombre y código.
func MatchMunicipio(m api.Municipio, q string) bool {
	return textnorm.Contains(q, m.Nombre, m.Codigo)
}

// MatchFormulario busca sin tildes sobre código de municipio y versión.
func MatchFormulario(d formdoc.Document, q string) bool {
	return textnorm.Contains(q, d.CodigoMunicipio, d.Version)
}

// MatchAudit busca sólo en minúsculas (las tildes cuentan) sobre usuario,
// acción y detalles.
func MatchAudit(e api.AuditEntry, q string) bool {
	return textnorm.ContainsFold(q, e.Usuario, e.Accion, e.Detalles)
}

// AuditFilter son filtros por columna; todos los no vacíos deben cumplirse.
type AuditFilter struct {
	Usuario  string
	Accion   string
	Detalles string
}

func (f AuditFilter) Empty() bool {
	return f.Usuario == "" && f.Accion == "" && f.Detalles == ""
}

// Apply devuelve las entradas que cumplen todos los filtros.
func (f AuditFilter) Apply(entries []api.AuditEntry) []api.AuditEntry {
	if f.Empty() {
		return entries
	}
	out := make([]api.AuditEntry, 0, len(entries))
	for _, e := range entries {
		if textnorm.ContainsFold(f.Usuario, e.Usuario) &&
			textnorm.ContainsFold(f.Accion, e.Accion) &&
			textnorm.ContainsFold(f.Detalles, e.Detalles) {
			out = append(out, e)
		}
	}
	return out
}

func Municipios(size int) *View[api.Municipio] { return New(MatchMunicipio, size) }

func Formularios(size int) *View[formdoc.Document] { return New(MatchFormulario, size) }

func Audit(size int) *View[api.AuditEntry] { return New(MatchAudit, size) }
