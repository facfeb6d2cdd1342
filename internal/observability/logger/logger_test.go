package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	require.Equal(t, zapcore.InfoLevel, parseLevel(" info "))
	require.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	require.Equal(t, zapcore.WarnLevel, parseLevel(""))
	require.Equal(t, zapcore.WarnLevel, parseLevel("nope"))
}

func TestFromFallsBackToGlobal(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	Set(zap.New(core))
	t.Cleanup(func() { Set(nil) })

	From(context.Background()).Info("global", Municipio("05001"))
	require.Equal(t, 1, logs.Len())
	require.Equal(t, "05001", logs.All()[0].ContextMap()["codigo_municipio"])
}

func TestFromUsesScopedLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := ToContext(context.Background(), zap.New(core).With(Op("edit")))

	FromWithFields(ctx, Version("0.0.2")).Info("scoped")
	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	require.Equal(t, "edit", fields["op"])
	require.Equal(t, "0.0.2", fields["doc_version"])
}
