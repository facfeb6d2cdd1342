// Package municipios mantiene la lista de municipios: se pide una vez al
// servidor y se guarda en un backend de cache (memoria o redis).
package municipios

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/severus/internal/api"
	"github.com/dropDatabas3/severus/internal/cache"
	"github.com/dropDatabas3/severus/internal/metrics"
	"github.com/dropDatabas3/severus/internal/observability/logger"
	"github.com/dropDatabas3/severus/internal/textnorm"
)

// CacheKey es la key bajo la que se guarda la lista en el backend.
const CacheKey = "municipios:all"

// Source es quien sabe pedir la lista al servidor.
type Source interface {
	ListMunicipios(ctx context.Context) ([]api.Municipio, error)
}

// Cache guarda la lista de municipios. Es seguro para uso concurrente.
type Cache struct {
	src     Source
	backend cache.Client
	metrics *metrics.API
	log     *zap.Logger

	group singleflight.Group

	mu     sync.RWMutex
	items  []api.Municipio
	loaded bool
}

type Option func(*Cache)

func WithMetrics(m *metrics.API) Option { return func(c *Cache) { c.metrics = m } }
func WithLogger(l *zap.Logger) Option   { return func(c *Cache) { c.log = l } }

// New crea la cache. backend nil usa memoria sin expiración.
func New(src Source, backend cache.Client, opts ...Option) *Cache {
	if backend == nil {
		backend = cache.NewMemory("", 0)
	}
	c := &Cache{src: src, backend: backend}
	for _, o := range opts {
		o(c)
	}
	if c.log == nil {
		c.log = logger.L()
	}
	c.log = c.log.With(logger.Component("municipios"))
	return c
}

// All devuelve la lista completa. La primera llamada (o las concurrentes de la
// primera vez) pide al servidor; las siguientes usan lo ya cargado.
// Si el pedido falla la cache queda vacía y se devuelve el error.
func (c *Cache) All(ctx context.Context) ([]api.Municipio, error) {
	if items, ok := c.snapshot(); ok {
		return items, nil
	}
	v, err, _ := c.group.Do(CacheKey, func() (any, error) {
		if items, ok := c.snapshot(); ok {
			return items, nil
		}
		if items, ok := c.fromBackend(ctx); ok {
			c.store(items)
			return items, nil
		}
		c.metrics.ObserveCache(false)
		items, err := c.src.ListMunicipios(ctx)
		if err != nil {
			c.log.Warn("no se pudo cargar municipios", logger.Err(err))
			return nil, err
		}
		if items == nil {
			items = []api.Municipio{}
		}
		c.store(items)
		if b, err := json.Marshal(items); err == nil {
			if err := c.backend.Set(ctx, CacheKey, b, 0); err != nil {
				c.log.Warn("cache set falló", logger.Err(err))
			}
		}
		c.log.Debug("municipios cargados", logger.Count(len(items)))
		return items, nil
	})
	if err != nil {
		return nil, err
	}
	return append([]api.Municipio(nil), v.([]api.Municipio)...), nil
}

func (c *Cache) fromBackend(ctx context.Context) ([]api.Municipio, bool) {
	b, err := c.backend.Get(ctx, CacheKey)
	if err != nil {
		if !cache.IsNotFound(err) {
			c.log.Warn("cache get falló", logger.Err(err))
		}
		return nil, false
	}
	var items []api.Municipio
	if err := json.Unmarshal(b, &items); err != nil {
		c.log.Warn("cache con contenido inválido", logger.Err(err))
		return nil, false
	}
	c.metrics.ObserveCache(true)
	return items, true
}

func (c *Cache) snapshot() ([]api.Municipio, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return nil, false
	}
	return append([]api.Municipio(nil), c.items...), true
}

func (c *Cache) store(items []api.Municipio) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]api.Municipio(nil), items...)
	c.loaded = true
}

// Invalidate descarta lo cargado y la copia del backend.
func (c *Cache) Invalidate(ctx context.Context) error {
	c.mu.Lock()
	c.items, c.loaded = nil, false
	c.mu.Unlock()
	return c.backend.Delete(ctx, CacheKey)
}

// Loaded reporta si la lista ya está en memoria.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Filter busca por nombre sin distinguir mayúsculas ni tildes. Opera sobre lo
// ya cargado; antes de All devuelve vacío.
func (c *Cache) Filter(query string) []api.Municipio {
	return c.filter(func(m api.Municipio) bool { return textnorm.Contains(query, m.Nombre) })
}

// FilterTable es la búsqueda de la tabla: nombre o código.
func (c *Cache) FilterTable(query string) []api.Municipio {
	return c.filter(func(m api.Municipio) bool { return textnorm.Contains(query, m.Nombre, m.Codigo) })
}

func (c *Cache) filter(keep func(api.Municipio) bool) []api.Municipio {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]api.Municipio, 0, len(c.items))
	for _, m := range c.items {
		if keep(m) {
			out = append(out, m)
		}
	}
	return out
}

// Name devuelve el nombre de un código, si está cargado.
func (c *Cache) Name(codigo string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, m := range c.items {
		if m.Codigo == codigo {
			return m.Nombre, true
		}
	}
	return "", false
}
