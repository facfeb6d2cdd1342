package municipios

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dropDatabas3/severus/internal/api"
	"github.com/dropDatabas3/severus/internal/cache"
	"github.com/dropDatabas3/severus/internal/metrics"
)

type fakeSource struct {
	calls atomic.Int32
	items []api.Municipio
	err   error
	delay time.Duration
}

func (f *fakeSource) ListMunicipios(context.Context) ([]api.Municipio, error) {
	f.calls.Add(1)
	time.Sleep(f.delay)
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

var sample = []api.Municipio{
	{Codigo: "11001", Nombre: "Bogotá"},
	{Codigo: "76001", Nombre: "Cali"},
	{Codigo: "05001", Nombre: "Medellín"},
}

func TestAll_FetchesOnce(t *testing.T) {
	src := &fakeSource{items: sample, delay: 20 * time.Millisecond}
	c := New(src, nil, WithLogger(zap.NewNop()))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := c.All(context.Background())
			require.NoError(t, err)
			require.Len(t, got, 3)
		}()
	}
	wg.Wait()
	_, err := c.All(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 1, src.calls.Load())
}

func TestAll_FailureLeavesEmpty(t *testing.T) {
	src := &fakeSource{err: errors.New("boom")}
	c := New(src, nil, WithLogger(zap.NewNop()))
	_, err := c.All(context.Background())
	require.Error(t, err)
	require.False(t, c.Loaded())
	require.Empty(t, c.Filter(""))

	src.err, src.items = nil, sample
	got, err := c.All(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)
}

func TestAll_UsesBackend(t *testing.T) {
	backend := cache.NewMemory("test", 0)
	reg := prometheus.NewRegistry()
	m, err := metrics.NewAPI(reg)
	require.NoError(t, err)

	first := New(&fakeSource{items: sample}, backend, WithLogger(zap.NewNop()), WithMetrics(m))
	_, err = first.All(context.Background())
	require.NoError(t, err)

	src := &fakeSource{err: errors.New("no debería llamarse")}
	second := New(src, backend, WithLogger(zap.NewNop()), WithMetrics(m))
	got, err := second.All(context.Background())
	require.NoError(t, err)
	require.Equal(t, sample, got)
	require.Zero(t, src.calls.Load())

	require.Equal(t, float64(1), testutil.ToFloat64(m.CacheHits.WithLabelValues("hit")))
	require.Equal(t, float64(1), testutil.ToFloat64(m.CacheHits.WithLabelValues("miss")))

	require.NoError(t, second.Invalidate(context.Background()))
	require.False(t, second.Loaded())
	_, err = backend.Get(context.Background(), CacheKey)
	require.True(t, cache.IsNotFound(err))
}

func TestFilter(t *testing.T) {
	c := New(&fakeSource{items: sample}, nil, WithLogger(zap.NewNop()))
	require.Empty(t, c.Filter("bogota"))

	_, err := c.All(context.Background())
	require.NoError(t, err)

	require.Equal(t, []api.Municipio{sample[0]}, c.Filter("bogota"))
	require.Equal(t, []api.Municipio{sample[0]}, c.Filter("BOGOTÁ"))
	require.Empty(t, c.Filter("11001"))
	require.Equal(t, []api.Municipio{sample[0]}, c.FilterTable("11001"))
	require.Equal(t, []api.Municipio{sample[2]}, c.FilterTable("medellin"))
	require.Len(t, c.Filter(""), 3)

	name, ok := c.Name("76001")
	require.True(t, ok)
	require.Equal(t, "Cali", name)
}
