// Package metrics define las métricas Prometheus del cliente severus.
//
// Un CLI no expone /metrics: las métricas se acumulan en un registry privado
// y, si hay Pushgateway configurado, se empujan al terminar cada comando.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// API agrupa las métricas de llamadas salientes a la API.
type API struct {
	Requests     *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
	Unauthorized prometheus.Counter
	CacheHits    *prometheus.CounterVec
}

// NewAPI crea y registra las métricas en reg (o el default si es nil).
// Re-registrar sobre el mismo registry reutiliza los collectors existentes.
func NewAPI(reg prometheus.Registerer) (*API, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := &API{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "severus_api_requests_total",
			Help: "Llamadas a la API por método, ruta y status",
		}, []string{"method", "route", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "severus_api_request_duration_seconds",
			Help:    "Latencia de las llamadas a la API",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Unauthorized: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "severus_api_unauthorized_total",
			Help: "Respuestas 401 que forzaron volver al login",
		}),
		CacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "severus_municipios_cache_total",
			Help: "Lecturas del cache de municipios por resultado",
		}, []string{"result"}), // result: hit|miss
	}

	var err error
	if m.Requests, err = register(reg, m.Requests); err != nil {
		return nil, err
	}
	if m.Duration, err = register(reg, m.Duration); err != nil {
		return nil, err
	}
	if m.Unauthorized, err = register(reg, m.Unauthorized); err != nil {
		return nil, err
	}
	if m.CacheHits, err = register(reg, m.CacheHits); err != nil {
		return nil, err
	}
	return m, nil
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return c, err
		}
		existing, ok := are.ExistingCollector.(T)
		if !ok {
			return c, err
		}
		return existing, nil
	}
	return c, nil
}

// ObserveRequest registra una llamada terminada. status 0 = error de transporte.
func (m *API) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	st := "error"
	if status > 0 {
		st = strconv.Itoa(status)
	}
	m.Requests.WithLabelValues(method, route, st).Inc()
	m.Duration.WithLabelValues(method, route).Observe(d.Seconds())
	if status == 401 {
		m.Unauthorized.Inc()
	}
}

// ObserveCache registra un hit o miss del cache de municipios.
func (m *API) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHits.WithLabelValues("hit").Inc()
		return
	}
	m.CacheHits.WithLabelValues("miss").Inc()
}

// Push empuja el registry a un Pushgateway (patrón batch job).
// url vacío es no-op.
func Push(ctx context.Context, url, job string, g prometheus.Gatherer, labels map[string]string) error {
	if url == "" {
		return nil
	}
	p := push.New(url, job).Gatherer(g)
	for k, v := range labels {
		p = p.Grouping(k, v)
	}
	return p.AddContext(ctx)
}
