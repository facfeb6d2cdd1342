// Package gateway envuelve toda llamada saliente a la API con el bearer de la
// sesión y la política uniforme 401 → volver al login.
package gateway

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/dropDatabas3/severus/internal/errors"
	"github.com/dropDatabas3/severus/internal/metrics"
	"github.com/dropDatabas3/severus/internal/observability/logger"
)

// ErrUnauthorized se devuelve siempre que la API responde 401.
var ErrUnauthorized = apperrors.ErrUnauthorized

// TokenSource provee el token vigente ("" si no hay sesión).
// *session.Store lo implementa.
type TokenSource interface {
	Token() string
}

// Navigator lleva al usuario al punto de entrada del login.
type Navigator interface {
	RedirectToLogin()
}

// NavigatorFunc adapta una función a Navigator.
type NavigatorFunc func()

func (f NavigatorFunc) RedirectToLogin() { f() }

// Request describe una llamada. Route es la ruta lógica para logs y métricas
// (ej. "formulario"), sin ids que exploten la cardinalidad.
type Request struct {
	Method  string
	Path    string
	Route   string
	Body    io.Reader
	Headers map[string]string
}

// Client es el gateway autenticado.
type Client struct {
	BaseURL   string
	HTTP      *http.Client
	Tokens    TokenSource
	Navigator Navigator
	Metrics   *metrics.API
	Log       *zap.Logger
}

// Option configura un Client.
type Option func(*Client)

func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.HTTP = h } }
func WithMetrics(m *metrics.API) Option    { return func(c *Client) { c.Metrics = m } }
func WithLogger(l *zap.Logger) Option      { return func(c *Client) { c.Log = l } }

// New crea un gateway. Sin WithHTTPClient no hay timeout propio: una llamada
// espera lo que tarde el transporte.
func New(baseURL string, tokens TokenSource, nav Navigator, opts ...Option) *Client {
	c := &Client{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		HTTP:      &http.Client{},
		Tokens:    tokens,
		Navigator: nav,
	}
	for _, o := range opts {
		o(c)
	}
	if c.Log == nil {
		c.Log = logger.Named("gateway")
	}
	if c.Navigator == nil {
		c.Navigator = NavigatorFunc(func() {})
	}
	return c
}

// Do ejecuta la llamada. Devuelve la respuesta tal cual para cualquier status
// salvo 401, que dispara el redirect al login y falla con ErrUnauthorized.
// Los errores de transporte se devuelven como ErrTransport.
func (c *Client) Do(ctx context.Context, r Request) (*http.Response, error) {
	route := r.Route
	if route == "" {
		route = r.Path
	}
	reqID := uuid.NewString()
	log := c.Log.With(logger.Method(r.Method), logger.Route(route), logger.RequestID(reqID))

	req, err := http.NewRequestWithContext(ctx, r.Method, c.BaseURL+r.Path, r.Body)
	if err != nil {
		return nil, apperrors.ErrTransport.WithCause(err)
	}
	for k, v := range c.headers(r.Headers) {
		req.Header.Set(k, v)
	}
	req.Header.Set("X-Request-ID", reqID)

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.Metrics.ObserveRequest(r.Method, route, 0, elapsed)
		log.Warn("llamada fallida", logger.Duration(elapsed), logger.Err(err))
		return nil, apperrors.ErrTransport.WithCause(err)
	}
	c.Metrics.ObserveRequest(r.Method, route, resp.StatusCode, elapsed)
	log.Debug("llamada", logger.Status(resp.StatusCode), logger.Duration(elapsed))

	if resp.StatusCode == http.StatusUnauthorized {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		log.Warn("401: credencial rechazada, redirigiendo al login")
		c.Navigator.RedirectToLogin()
		return nil, ErrUnauthorized
	}
	return resp, nil
}

// headers mezcla: default Content-Type, luego los del caller, y por último
// el Authorization calculado, que el caller nunca puede pisar.
func (c *Client) headers(caller map[string]string) map[string]string {
	h := map[string]string{"Content-Type": "application/json"}
	for k, v := range caller {
		h[http.CanonicalHeaderKey(k)] = v
	}
	if c.Tokens != nil {
		if t := c.Tokens.Token(); t != "" {
			h["Authorization"] = "Bearer " + t
		}
	}
	return h
}
