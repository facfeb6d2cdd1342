// Package audit registra las acciones del operador: siempre como evento de
// log estructurado y, si está habilitado, también como entrada POST /audit.
package audit

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dropDatabas3/severus/internal/api"
	"github.com/dropDatabas3/severus/internal/observability/logger"
	"github.com/dropDatabas3/severus/internal/session"
)

// Acciones registradas.
const (
	AccionAgregar      = "Agregar"
	AccionEditar       = "Editar"
	AccionHabilitar    = "Habilitar"
	AccionDeshabilitar = "Deshabilitar"
)

// Sink recibe las entradas de auditoría.
type Sink interface {
	CreateAudit(ctx context.Context, e api.NewAuditEntry) error
}

// Identity es de donde sale el usuario (claim sub).
type Identity interface {
	Claims() (session.Claims, bool)
}

// Emitter emite eventos de auditoría. Los errores del sink se loguean y no se
// propagan: la acción auditada ya ocurrió.
type Emitter struct {
	sink    Sink
	who     Identity
	enabled bool
	log     *zap.Logger
}

// New crea un Emitter. Con enabled=false sólo se loguea.
func New(sink Sink, who Identity, enabled bool, log *zap.Logger) *Emitter {
	if log == nil {
		log = logger.L()
	}
	return &Emitter{sink: sink, who: who, enabled: enabled, log: log.Named("audit")}
}

// Log registra accion/detalles a nombre del usuario autenticado. Sin sesión no
// se registra nada.
func (e *Emitter) Log(ctx context.Context, accion, detalles string) {
	if e == nil {
		return
	}
	claims, ok := e.who.Claims()
	if !ok {
		return
	}
	entry := api.NewAuditEntry{Usuario: claims.Subject, Accion: accion, Detalles: detalles}
	e.log.Info("audit",
		logger.Subject(entry.Usuario),
		zap.String("accion", entry.Accion),
		zap.String("detalles", entry.Detalles),
	)
	if !e.enabled || e.sink == nil {
		return
	}
	if err := e.sink.CreateAudit(ctx, entry); err != nil {
		e.log.Warn("no se pudo registrar auditoría", logger.Err(err))
	}
}

// Created registra el alta de un formulario.
func (e *Emitter) Created(ctx context.Context, municipio, version string) {
	e.Log(ctx, AccionAgregar, fmt.Sprintf("El usuario agregó el formulario para el municipio: %s (versión %s)", municipio, version))
}

// Edited registra el guardado de un formulario.
func (e *Emitter) Edited(ctx context.Context, municipio, version string) {
	e.Log(ctx, AccionEditar, fmt.Sprintf("El usuario editó el formulario del municipio: %s (versión %s)", municipio, version))
}

// Toggled registra la activación o desactivación de un formulario.
func (e *Emitter) Toggled(ctx context.Context, municipio, version string, activo bool) {
	accion, verbo := AccionDeshabilitar, "deshabilitó"
	if activo {
		accion, verbo = AccionHabilitar, "habilitó"
	}
	e.Log(ctx, accion, fmt.Sprintf("El usuario %s el formulario del municipio: %s (versión %s)", verbo, municipio, version))
}
