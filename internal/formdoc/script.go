package formdoc

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	apperrors "github.com/dropDatabas3/severus/internal/errors"
)

// OpKind nombra un operador del buffer.
type OpKind string

const (
	OpSetScalar        OpKind = "set_scalar"
	OpSetArticleField  OpKind = "set_article_field"
	OpAddArticle       OpKind = "add_article"
	OpRemoveArticle    OpKind = "remove_article"
	OpSetDateEntry     OpKind = "set_date"
	OpAddDateEntry     OpKind = "add_date"
	OpRemoveDateEntry  OpKind = "remove_date"
	OpSetObjectField   OpKind = "set_object_field"
	OpAddObjectItem    OpKind = "add_object"
	OpRemoveObjectItem OpKind = "remove_object"
)

// Op es una mutación serializable. Un script de edición es una lista de Op:
//
//	- op: add_article
//	  field: ica
//	- op: set_article_field
//	  field: ica
//	  index: 0
//	  subfield: titulo
//	  value: Artículo 1
type Op struct {
	Kind     OpKind `yaml:"op" json:"op"`
	Field    string `yaml:"field" json:"field"`
	Index    *int   `yaml:"index,omitempty" json:"index,omitempty"`
	Subfield string `yaml:"subfield,omitempty" json:"subfield,omitempty"`
	Value    any    `yaml:"value,omitempty" json:"value,omitempty"`
}

// At devuelve un puntero a i, para armar un Op en código.
func At(i int) *int { return &i }

func (op Op) String() string {
	idx := "?"
	if op.Index != nil {
		idx = fmt.Sprint(*op.Index)
	}
	return fmt.Sprintf("%s(%s[%s].%s)", op.Kind, op.Field, idx, op.Subfield)
}

// indexedOps requieren index explícito.
var indexedOps = map[OpKind]bool{
	OpSetArticleField:  true,
	OpRemoveArticle:    true,
	OpSetDateEntry:     true,
	OpRemoveDateEntry:  true,
	OpSetObjectField:   true,
	OpRemoveObjectItem: true,
}

// Apply aplica una operación y devuelve el documento resultante.
func (d Document) Apply(op Op) (Document, error) {
	var index int
	if indexedOps[op.Kind] {
		if op.Index == nil {
			return d, apperrors.ErrInvalidValue.WithDetail(fmt.Sprintf("%s sobre %s requiere index", op.Kind, op.Field))
		}
		index = *op.Index
	}
	switch op.Kind {
	case OpSetScalar:
		return d.SetScalar(op.Field, op.Value)
	case OpSetArticleField:
		s, err := asString(op.Field, op.Value)
		if err != nil {
			return d, err
		}
		return d.SetArticleField(op.Field, index, op.Subfield, s)
	case OpAddArticle:
		return d.AddArticle(op.Field)
	case OpRemoveArticle:
		return d.RemoveArticle(op.Field, index)
	case OpSetDateEntry:
		s, err := asString(op.Field, op.Value)
		if err != nil {
			return d, err
		}
		return d.SetDateEntry(op.Field, index, s)
	case OpAddDateEntry:
		return d.AddDateEntry(op.Field)
	case OpRemoveDateEntry:
		return d.RemoveDateEntry(op.Field, index)
	case OpSetObjectField:
		return d.SetObjectField(op.Field, index, op.Subfield, op.Value)
	case OpAddObjectItem:
		return d.AddObjectItem(op.Field, op.Value)
	case OpRemoveObjectItem:
		return d.RemoveObjectItem(op.Field, index)
	default:
		return d, apperrors.ErrInvalidValue.WithDetail(fmt.Sprintf("operación desconocida %q", op.Kind))
	}
}

// ApplyAll aplica ops en orden. Es todo o nada: ante el primer error se
// devuelve el documento original.
func (d Document) ApplyAll(ops ...Op) (Document, error) {
	cur := d
	for i, op := range ops {
		next, err := cur.Apply(op)
		if err != nil {
			return d, fmt.Errorf("op #%d %s: %w", i+1, op, err)
		}
		cur = next
	}
	return cur, nil
}

// ParseOps lee un script YAML (o JSON, que es YAML válido) de operaciones.
func ParseOps(r io.Reader) ([]Op, error) {
	var ops []Op
	if err := yaml.NewDecoder(r).Decode(&ops); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, apperrors.ErrInvalidValue.WithDetail("script de edición inválido").WithCause(err)
	}
	for i := range ops {
		ops[i].Value = normalizeYAML(ops[i].Value)
	}
	return ops, nil
}

// normalizeYAML convierte map[string]interface{} anidados de yaml.v3 a
// map[string]any / []any, la forma que esperan los operadores.
func normalizeYAML(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalizeYAML(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = normalizeYAML(e)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalizeYAML(e)
		}
		return out
	default:
		return v
	}
}
