// Package listview implementa las vistas tabulares: búsqueda por texto,
// filtrado y paginación sobre una lista ya cargada en memoria.
package listview

import (
	"sync"
)

// DefaultPageSize es el tamaño de página de todas las tablas.
const DefaultPageSize = 10

// Matcher decide si un elemento coincide con la búsqueda.
type Matcher[T any] func(item T, query string) bool

// View es una lista filtrada y paginada. Páginas numeradas desde 1.
type View[T any] struct {
	mu       sync.RWMutex
	items    []T
	filtered []T
	match    Matcher[T]
	query    string
	page     int
	size     int
}

// New crea una vista vacía. size <= 0 usa DefaultPageSize.
func New[T any](match Matcher[T], size int) *View[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	v := &View[T]{match: match, page: 1, size: size}
	v.filtered = []T{}
	return v
}

// SetItems reemplaza la fuente y recalcula el filtro. La página se conserva
// mientras siga existiendo.
func (v *View[T]) SetItems(items []T) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.items = append([]T(nil), items...)
	v.refilter()
	if last := v.lastPage(); v.page > last {
		v.page = last
	}
}

// SetSearch cambia la búsqueda y vuelve a la página 1.
func (v *View[T]) SetSearch(q string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.query = q
	v.refilter()
	v.page = 1
}

// SetPage posiciona la vista en p, acotado a [1, última página].
func (v *View[T]) SetPage(p int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if p < 1 {
		p = 1
	}
	if last := v.lastPage(); p > last {
		p = last
	}
	v.page = p
}

func (v *View[T]) refilter() {
	v.filtered = make([]T, 0, len(v.items))
	for _, it := range v.items {
		if v.query == "" || v.match == nil || v.match(it, v.query) {
			v.filtered = append(v.filtered, it)
		}
	}
}

func (v *View[T]) lastPage() int {
	n := (len(v.filtered) + v.size - 1) / v.size
	if n < 1 {
		return 1
	}
	return n
}

// Next avanza una página si hay siguiente.
func (v *View[T]) Next() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.page*v.size >= len(v.filtered) {
		return false
	}
	v.page++
	return true
}

// Prev retrocede una página si no está en la primera.
func (v *View[T]) Prev() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.page <= 1 {
		return false
	}
	v.page--
	return true
}

func (v *View[T]) HasNext() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.page*v.size < len(v.filtered)
}

func (v *View[T]) HasPrev() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.page > 1
}

// PageItems devuelve los elementos de la página actual.
func (v *View[T]) PageItems() []T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	start := (v.page - 1) * v.size
	if start >= len(v.filtered) {
		return []T{}
	}
	end := start + v.size
	if end > len(v.filtered) {
		end = len(v.filtered)
	}
	return append([]T(nil), v.filtered[start:end]...)
}

func (v *View[T]) Page() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.page
}

// Pages es la cantidad de páginas del filtro actual (mínimo 1).
func (v *View[T]) Pages() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.lastPage()
}

// Filtered es la cantidad de elementos que pasan la búsqueda.
func (v *View[T]) Filtered() int {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.filtered)
}

func (v *View[T]) Query() string {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.query
}
