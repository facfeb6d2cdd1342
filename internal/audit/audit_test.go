package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dropDatabas3/severus/internal/api"
	"github.com/dropDatabas3/severus/internal/session"
)

type fakeSink struct {
	got []api.NewAuditEntry
	err error
}

func (s *fakeSink) CreateAudit(_ context.Context, e api.NewAuditEntry) error {
	s.got = append(s.got, e)
	return s.err
}

type fixedIdentity struct {
	sub string
}

func (f fixedIdentity) Claims() (session.Claims, bool) {
	if f.sub == "" {
		return session.Claims{}, false
	}
	return session.Claims{Subject: f.sub}, true
}

func TestEmitter_Posts(t *testing.T) {
	sink := &fakeSink{}
	e := New(sink, fixedIdentity{sub: "ana"}, true, zap.NewNop())
	e.Created(context.Background(), "05001", "0.0.3")
	e.Toggled(context.Background(), "05001", "0.0.3", false)

	require.Len(t, sink.got, 2)
	require.Equal(t, "ana", sink.got[0].Usuario)
	require.Equal(t, AccionAgregar, sink.got[0].Accion)
	require.Contains(t, sink.got[0].Detalles, "05001")
	require.Equal(t, AccionDeshabilitar, sink.got[1].Accion)
}

func TestEmitter_DisabledOnlyLogs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sink := &fakeSink{}
	e := New(sink, fixedIdentity{sub: "ana"}, false, zap.New(core))
	e.Edited(context.Background(), "11001", "0.0.1")

	require.Empty(t, sink.got)
	require.Equal(t, 1, logs.FilterMessage("audit").Len())
	require.Equal(t, "ana", logs.All()[0].ContextMap()["sub"])
}

func TestEmitter_NoSessionNoEntry(t *testing.T) {
	sink := &fakeSink{}
	New(sink, fixedIdentity{}, true, zap.NewNop()).Created(context.Background(), "1", "0.0.1")
	require.Empty(t, sink.got)
}

func TestEmitter_SinkErrorIsSwallowed(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	sink := &fakeSink{err: errors.New("down")}
	New(sink, fixedIdentity{sub: "ana"}, true, zap.New(core)).Created(context.Background(), "1", "0.0.1")
	require.Len(t, sink.got, 1)
	require.Equal(t, 1, logs.Len())
}

func TestEmitter_NilIsNoop(t *testing.T) {
	var e *Emitter
	require.NotPanics(t, func() { e.Log(context.Background(), AccionEditar, "x") })
}
