package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// TokenKey es la única clave persistida por el cliente.
const TokenKey = "access_token"

// Persister guarda el token entre ejecuciones.
// Load devuelve "" sin error cuando no hay nada persistido.
type Persister interface {
	Load() (string, error)
	Save(token string) error
	Erase() error
}

// FilePersister guarda {"access_token": "..."} en un archivo JSON.
type FilePersister struct {
	Path string
}

func (p FilePersister) Load() (string, error) {
	b, err := os.ReadFile(p.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("session: read %s: %w", p.Path, err)
	}
	var m map[string]string
	if err := json.Unmarshal(b, &m); err != nil {
		return "", fmt.Errorf("session: parse %s: %w", p.Path, err)
	}
	return m[TokenKey], nil
}

func (p FilePersister) Save(token string) error {
	b, err := json.Marshal(map[string]string{TokenKey: token})
	if err != nil {
		return err
	}
	return writeFileAtomic(p.Path, b, 0o600)
}

func (p FilePersister) Erase() error {
	if err := os.Remove(p.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: erase %s: %w", p.Path, err)
	}
	return nil
}

// writeFileAtomic: write tmp → Sync → Close → Chmod → Rename.
// Si rename falla (Windows con destino bloqueado) intenta remove+rename.
func writeFileAtomic(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("fsync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	_ = os.Chmod(tmpPath, perm)

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(path)
		if err2 := os.Rename(tmpPath, path); err2 != nil {
			return fmt.Errorf("rename: %v (after remove: %v)", err, err2)
		}
	}
	return nil
}

// MemoryPersister mantiene el token en memoria. Útil en tests.
type MemoryPersister struct {
	mu    sync.Mutex
	token string
}

func (p *MemoryPersister) Load() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.token, nil
}

func (p *MemoryPersister) Save(token string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = token
	return nil
}

func (p *MemoryPersister) Erase() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = ""
	return nil
}
