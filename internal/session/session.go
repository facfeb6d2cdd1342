// Package session mantiene la credencial activa del cliente.
//
// Store es el único estado mutable compartido entre componentes: lo leen todas
// las llamadas salientes (gateway) y lo escriben login, logout y el chequeo de
// expiración. Todas las transiciones se serializan con un único mutex, así un
// chequeo de expiración nunca revive un token que un logout concurrente borró.
package session

import (
	"sync"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	apperrors "github.com/dropDatabas3/severus/internal/errors"
	"github.com/dropDatabas3/severus/internal/observability/logger"
)

// Claims es el payload decodificado del token. Derivado, nunca autoritativo:
// la firma la valida la API, no este cliente.
type Claims struct {
	Subject   string
	ExpiresAt time.Time // zero si el token no trae exp
	Raw       map[string]any
}

// Expired reporta si exp*1000 < now (en milisegundos).
func (c Claims) Expired(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return false
	}
	return c.ExpiresAt.UnixMilli() < now.UnixMilli()
}

// Store guarda como máximo una credencial activa.
type Store struct {
	mu        sync.Mutex
	token     string
	claims    *Claims
	persister Persister
	now       func() time.Time
	onError   func(error)
	log       *zap.Logger
}

// Option configura un Store.
type Option func(*Store)

// WithClock reemplaza time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithErrorHandler recibe los errores de decodificación del token.
// Nunca se devuelven al caller de SetToken.
func WithErrorHandler(fn func(error)) Option {
	return func(s *Store) { s.onError = fn }
}

// WithLogger fija el logger del store.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New crea un Store vacío. Llamar Load para inicializarlo desde el Persister.
func New(p Persister, opts ...Option) *Store {
	if p == nil {
		p = &MemoryPersister{}
	}
	s := &Store{
		persister: p,
		now:       time.Now,
		onError:   func(error) {},
	}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = logger.Named("session")
	}
	return s
}

// Load inicializa el store desde el almacenamiento persistido.
func (s *Store) Load() error {
	t, err := s.persister.Load()
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = t
	s.claims = nil
	if t != "" {
		s.claims = s.decodeLocked(t)
	}
	return nil
}

// SetToken reemplaza la credencial. "" equivale a Clear.
// Sólo devuelve errores de persistencia; un token indecodificable se guarda
// igual, con claims ausentes, y el error va al error handler.
func (s *Store) SetToken(t string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.setLocked(t)
}

// Clear borra token y claims (logout).
func (s *Store) Clear() error {
	return s.SetToken("")
}

func (s *Store) setLocked(t string) error {
	if t == "" {
		s.token = ""
		s.claims = nil
		return s.persister.Erase()
	}
	if err := s.persister.Save(t); err != nil {
		return err
	}
	s.token = t
	s.claims = s.decodeLocked(t)
	return nil
}

func (s *Store) decodeLocked(t string) *Claims {
	c, err := DecodeClaims(t)
	if err != nil {
		s.log.Warn("token indecodificable; se conserva sin claims", logger.Err(err))
		s.onError(err)
		return nil
	}
	return c
}

// observeLocked es el chequeo oportunista de expiración.
func (s *Store) observeLocked() {
	if s.token == "" || s.claims == nil {
		return
	}
	if !s.claims.Expired(s.now()) {
		return
	}
	s.log.Info("token expirado; cerrando sesión", logger.Subject(s.claims.Subject))
	if err := s.setLocked(""); err != nil {
		s.log.Error("no se pudo borrar el token persistido", logger.Err(err))
	}
}

// Token devuelve el token vigente, o "" si no hay sesión.
// Observarlo dispara el chequeo de expiración.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observeLocked()
	return s.token
}

// Claims devuelve una copia de las claims vigentes.
func (s *Store) Claims() (Claims, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observeLocked()
	if s.claims == nil {
		return Claims{}, false
	}
	c := *s.claims
	c.Raw = make(map[string]any, len(s.claims.Raw))
	for k, v := range s.claims.Raw {
		c.Raw[k] = v
	}
	return c, true
}

// Authenticated reporta si hay un token vigente.
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// DecodeClaims decodifica el payload de un JWT sin verificar la firma.
func DecodeClaims(token string) (*Claims, error) {
	mc := jwtv5.MapClaims{}
	if _, _, err := jwtv5.NewParser().ParseUnverified(token, mc); err != nil {
		return nil, apperrors.ErrMalformedToken.WithCause(err)
	}
	out := &Claims{Raw: make(map[string]any, len(mc))}
	for k, v := range mc {
		out.Raw[k] = v
	}
	sub, err := mc.GetSubject()
	if err != nil {
		return nil, apperrors.ErrMalformedToken.WithCause(err)
	}
	out.Subject = sub
	exp, err := mc.GetExpirationTime()
	if err != nil {
		return nil, apperrors.ErrMalformedToken.WithCause(err)
	}
	if exp != nil {
		out.ExpiresAt = exp.Time
	}
	return out, nil
}
