// Package api es el cliente tipado de la API de información tributaria.
// Todas las llamadas pasan por el gateway autenticado.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/dropDatabas3/severus/internal/errors"
	"github.com/dropDatabas3/severus/internal/formdoc"
	"github.com/dropDatabas3/severus/internal/gateway"
)

// Rutas de la API.
const (
	PathLogin       = "/usuarios/login"
	PathMunicipios  = "/municipios"
	PathFormularios = "/informacion_tributaria_versionada/"
	PathAudit       = "/audit"
)

// Doer ejecuta una llamada autenticada. *gateway.Client lo implementa.
type Doer interface {
	Do(ctx context.Context, r gateway.Request) (*http.Response, error)
}

// Client expone las operaciones de la API.
type Client struct {
	gw Doer
}

// New crea el cliente sobre un gateway.
func New(gw Doer) *Client {
	return &Client{gw: gw}
}

// FormularioPath arma /informacion_tributaria_versionada/{m}/{v}.
func FormularioPath(municipio, version string) string {
	return PathFormularios + url.PathEscape(municipio) + "/" + url.PathEscape(version)
}

// Login autentica con username/password (form-urlencoded) y devuelve el access token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	resp, err := c.gw.Do(ctx, gateway.Request{
		Method:  http.MethodPost,
		Path:    PathLogin,
		Route:   "login",
		Body:    strings.NewReader(form.Encode()),
		Headers: map[string]string{"Content-Type": "application/x-www-form-urlencoded"},
	})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		detail := readDetail(resp.Body)
		if detail == "" {
			detail = "Error en el login"
		}
		return "", apperrors.ErrLoginFailed.WithStatus(resp.StatusCode).WithDetail(detail)
	}
	var out struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", apperrors.ErrMalformedResponse.WithCause(err)
	}
	if out.AccessToken == "" {
		return "", apperrors.ErrMalformedResponse.WithDetail("access_token vacío")
	}
	return out.AccessToken, nil
}

// ListMunicipios trae la colección completa de municipios.
func (c *Client) ListMunicipios(ctx context.Context) ([]Municipio, error) {
	var out []Municipio
	err := c.call(ctx, http.MethodGet, PathMunicipios, "municipios", nil, &out)
	return out, err
}

// ListFormularios trae todas las versiones de todos los municipios.
func (c *Client) ListFormularios(ctx context.Context) ([]formdoc.Document, error) {
	var out []formdoc.Document
	err := c.call(ctx, http.MethodGet, PathFormularios, "formularios", nil, &out)
	return out, asDocumentError(err)
}

// GetFormulario trae un documento por (municipio, versión).
func (c *Client) GetFormulario(ctx context.Context, municipio, version string) (formdoc.Document, error) {
	var out formdoc.Document
	err := c.call(ctx, http.MethodGet, FormularioPath(municipio, version), "formulario", nil, &out)
	return out, asDocumentError(err)
}

// CreateFormulario crea un documento nuevo.
func (c *Client) CreateFormulario(ctx context.Context, doc formdoc.Document) (formdoc.Document, error) {
	var out formdoc.Document
	err := c.call(ctx, http.MethodPost, PathFormularios, "formularios", doc, &out)
	return out, asDocumentError(err)
}

// ReplaceFormulario reemplaza el documento completo (no hay update parcial).
// Implementa formdoc.Replacer.
func (c *Client) ReplaceFormulario(ctx context.Context, municipio, version string, doc formdoc.Document) (formdoc.Document, error) {
	var out formdoc.Document
	err := c.call(ctx, http.MethodPut, FormularioPath(municipio, version), "formulario", doc, &out)
	return out, asDocumentError(err)
}

// ListAudit trae el log de auditoría.
func (c *Client) ListAudit(ctx context.Context) ([]AuditEntry, error) {
	var out []AuditEntry
	err := c.call(ctx, http.MethodGet, PathAudit, "audit", nil, &out)
	return out, err
}

// CreateAudit registra una entrada de auditoría.
func (c *Client) CreateAudit(ctx context.Context, e NewAuditEntry) error {
	return c.call(ctx, http.MethodPost, PathAudit, "audit", e, nil)
}

func (c *Client) call(ctx context.Context, method, path, route string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return apperrors.ErrInternal.WithCause(err)
		}
		body = bytes.NewReader(b)
	}
	resp, err := c.gw.Do(ctx, gateway.Request{Method: method, Path: path, Route: route, Body: body})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return statusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.ErrMalformedResponse.WithCause(err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	detail := readDetail(resp.Body)
	if resp.StatusCode == http.StatusNotFound {
		return apperrors.ErrNotFound.WithDetail(detail)
	}
	if detail == "" {
		detail = fmt.Sprintf("status %d", resp.StatusCode)
	}
	return apperrors.ErrAPIStatus.WithStatus(resp.StatusCode).WithDetail(detail)
}

// readDetail extrae {"detail": "..."} o, si no es JSON, un recorte del body.
func readDetail(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	var m struct {
		Detail any `json:"detail"`
	}
	if json.Unmarshal(b, &m) == nil && m.Detail != nil {
		if s, ok := m.Detail.(string); ok {
			return s
		}
		// FastAPI devuelve una lista de errores de validación
		d, _ := json.Marshal(m.Detail)
		return string(d)
	}
	s := strings.TrimSpace(string(b))
	if len(s) > 200 {
		s = s[:200] + "…"
	}
	return s
}

// Un documento que no decodifica aborta la vista: se reporta como documento malformado.
func asDocumentError(err error) error {
	if errors.Is(err, apperrors.ErrMalformedResponse) {
		return apperrors.ErrMalformedDocument.WithCause(errors.Unwrap(err))
	}
	return err
}
