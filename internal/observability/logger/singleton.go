package logger

import (
	"sync"

	"go.uber.org/zap"
)

var (
	mu       sync.RWMutex
	instance *zap.Logger
)

// Init inicializa el logger global con la configuración dada.
// A diferencia de un sync.Once, una segunda llamada reemplaza la instancia:
// el CLI conoce el nivel definitivo recién después de parsear flags y config.
func Init(cfg Config) {
	l := build(cfg)
	mu.Lock()
	old := instance
	instance = l
	mu.Unlock()
	if old != nil {
		_ = old.Sync()
	}
}

// Set reemplaza el logger global. Pensado para tests (zaptest / observer).
func Set(l *zap.Logger) {
	mu.Lock()
	instance = l
	mu.Unlock()
}

// L retorna el logger global.
// Si Init() no fue llamado, devuelve un logger dev en nivel warn.
func L() *zap.Logger {
	mu.RLock()
	l := instance
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(Config{Env: "dev"})
	mu.RLock()
	defer mu.RUnlock()
	return instance
}

// Named retorna un logger con un nombre de componente.
func Named(name string) *zap.Logger {
	return L().Named(name)
}

// Sync flushea cualquier buffer pendiente.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	if instance != nil {
		return instance.Sync()
	}
	return nil
}
