package formdoc

import (
	"context"
	"sync"

	apperrors "github.com/dropDatabas3/severus/internal/errors"
)

// Replacer persiste un documento completo (PUT) y devuelve lo que el servidor guardó.
type Replacer interface {
	ReplaceFormulario(ctx context.Context, municipio, version string, doc Document) (Document, error)
}

// Editor mantiene el documento confirmado (última respuesta del servidor) y el
// buffer de edición. Las operaciones sólo tocan el buffer; el confirmado cambia
// únicamente con una respuesta exitosa del servidor.
//
// El toggle de activo trabaja sobre el confirmado y no pisa un buffer en
// edición. Si después se guarda el buffer, su valor de activo es el que queda
// (último en escribir gana).
type Editor struct {
	mu        sync.Mutex
	committed Document
	buffer    Document
	editing   bool
	repo      Replacer
}

// NewEditor arranca sin edición abierta, con buffer = confirmado.
func NewEditor(doc Document, repo Replacer) *Editor {
	return &Editor{committed: doc.Clone(), buffer: doc.Clone(), repo: repo}
}

// Committed devuelve una copia del documento confirmado.
func (e *Editor) Committed() Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.committed.Clone()
}

// Buffer devuelve una copia del buffer.
func (e *Editor) Buffer() Document {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buffer.Clone()
}

// Editing reporta si hay una sesión de edición abierta.
func (e *Editor) Editing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editing
}

// Begin abre la edición copiando el confirmado al buffer.
// Si ya había una edición abierta no hace nada.
func (e *Editor) Begin() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.editing {
		return
	}
	e.buffer = e.committed.Clone()
	e.editing = true
}

// Apply aplica ops al buffer (todo o nada).
func (e *Editor) Apply(ops ...Op) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.editing {
		return apperrors.ErrNotEditing
	}
	next, err := e.buffer.ApplyAll(ops...)
	if err != nil {
		return err
	}
	e.buffer = next
	return nil
}

// Update aplica fn al buffer. Útil para composiciones que no caben en un Op.
func (e *Editor) Update(fn func(Document) (Document, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.editing {
		return apperrors.ErrNotEditing
	}
	next, err := fn(e.buffer.Clone())
	if err != nil {
		return err
	}
	e.buffer = next
	return nil
}

// Cancel descarta el buffer y cierra la edición.
func (e *Editor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buffer = e.committed.Clone()
	e.editing = false
}

// Save envía el buffer completo con la identidad del confirmado. Si el servidor
// acepta, confirmado y buffer pasan a ser la respuesta y se cierra la edición;
// si falla, el buffer queda intacto y la edición sigue abierta.
func (e *Editor) Save(ctx context.Context) (Document, error) {
	e.mu.Lock()
	if !e.editing {
		e.mu.Unlock()
		return Document{}, apperrors.ErrNotEditing
	}
	municipio, version := e.committed.CodigoMunicipio, e.committed.Version
	payload := e.buffer.Clone()
	e.mu.Unlock()

	saved, err := e.repo.ReplaceFormulario(ctx, municipio, version, payload)
	if err != nil {
		return Document{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.committed = saved.Clone()
	e.buffer = saved.Clone()
	e.editing = false
	return saved, nil
}

// ToggleActive invierte activo sobre el documento confirmado (no sobre el
// buffer) y lo envía completo. Con éxito reemplaza el confirmado; el buffer sólo
// se reemplaza si no hay edición abierta.
func (e *Editor) ToggleActive(ctx context.Context) (Document, error) {
	e.mu.Lock()
	payload := e.committed.Clone()
	e.mu.Unlock()

	payload.Activo = !payload.Activo
	saved, err := e.repo.ReplaceFormulario(ctx, payload.CodigoMunicipio, payload.Version, payload)
	if err != nil {
		return Document{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.committed = saved.Clone()
	if !e.editing {
		e.buffer = saved.Clone()
	}
	return saved, nil
}
