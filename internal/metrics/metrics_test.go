package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewAPI(reg)
	require.NoError(t, err)

	m.ObserveRequest("GET", "municipios", 200, 10*time.Millisecond)
	m.ObserveRequest("GET", "municipios", 401, time.Millisecond)
	m.ObserveRequest("PUT", "formulario", 0, time.Millisecond)

	require.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "municipios", "200")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("PUT", "formulario", "error")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.Unauthorized))
}

func TestNewAPI_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewAPI(reg)
	require.NoError(t, err)
	b, err := NewAPI(reg)
	require.NoError(t, err)

	a.ObserveCache(true)
	b.ObserveCache(true)
	require.Equal(t, 2.0, testutil.ToFloat64(a.CacheHits.WithLabelValues("hit")))
}

func TestNilAPIIsNoop(t *testing.T) {
	var m *API
	m.ObserveRequest("GET", "x", 200, 0)
	m.ObserveCache(false)
}

func TestPush(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	reg := prometheus.NewRegistry()
	m, err := NewAPI(reg)
	require.NoError(t, err)
	m.ObserveCache(false)

	require.NoError(t, Push(context.Background(), "", "severus", reg, nil))
	require.NoError(t, Push(context.Background(), srv.URL, "severus", reg, map[string]string{"command": "list"}))
	require.Equal(t, http.MethodPost, gotMethod)
	require.Equal(t, "/metrics/job/severus/command/list", gotPath)
}
