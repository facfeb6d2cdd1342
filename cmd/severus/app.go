package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/dropDatabas3/severus/internal/api"
	"github.com/dropDatabas3/severus/internal/audit"
	"github.com/dropDatabas3/severus/internal/cache"
	"github.com/dropDatabas3/severus/internal/config"
	"github.com/dropDatabas3/severus/internal/gateway"
	"github.com/dropDatabas3/severus/internal/metrics"
	"github.com/dropDatabas3/severus/internal/municipios"
	"github.com/dropDatabas3/severus/internal/observability/logger"
	"github.com/dropDatabas3/severus/internal/session"
)

const loginHint = "sesión no válida o expirada: ejecute `severus login <usuario>`"

// globals son los flags persistentes del comando raíz.
type globals struct {
	configPath string
	envFile    string
	apiURL     string
	out        string
	logLevel   string
}

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

// app agrupa las dependencias de una invocación del CLI.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	io    streams
	print *printer

	store *session.Store
	reg   *prometheus.Registry
	met   *metrics.API
	api   *api.Client
	cache cache.Client
	muni  *municipios.Cache
	audit *audit.Emitter
}

func newApp(ctx context.Context, g *globals, s streams) (*app, error) {
	if g.envFile != "" {
		if err := godotenv.Load(g.envFile); err != nil {
			return nil, fmt.Errorf("no se pudo leer %s: %w", g.envFile, err)
		}
	} else {
		_ = godotenv.Load() // .env opcional en el cwd
	}

	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if g.apiURL != "" {
		cfg.API.BaseURL = strings.TrimRight(g.apiURL, "/")
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if g.logLevel != "" {
		cfg.Log.Level = g.logLevel
	}
	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Version: version})

	a := &app{
		cfg:   cfg,
		log:   logger.Named("cli"),
		io:    s,
		print: newPrinter(s.out, g.out),
		reg:   prometheus.NewRegistry(),
	}

	a.store = session.New(
		session.FilePersister{Path: cfg.Session.File},
		session.WithLogger(logger.Named("session")),
	)
	if err := a.store.Load(); err != nil {
		return nil, fmt.Errorf("no se pudo leer la sesión: %w", err)
	}

	if a.met, err = metrics.NewAPI(a.reg); err != nil {
		return nil, err
	}

	nav := gateway.NavigatorFunc(func() { fmt.Fprintln(s.err, loginHint) })
	gw := gateway.New(cfg.API.BaseURL, a.store, nav,
		gateway.WithHTTPClient(&http.Client{Timeout: cfg.API.Timeout}),
		gateway.WithMetrics(a.met),
		gateway.WithLogger(logger.Named("gateway")),
	)
	a.api = api.New(gw)

	a.cache, err = cache.New(ctx, cache.Config{
		Kind:     cfg.Cache.Kind,
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
		TTL:      cfg.CacheTTL(),
	})
	if err != nil {
		a.log.Warn("cache no disponible; usando memoria", logger.Err(err))
		a.cache = cache.NewMemory(cfg.Cache.Redis.Prefix, cfg.CacheTTL())
	}
	a.muni = municipios.New(a.api, a.cache,
		municipios.WithMetrics(a.met),
		municipios.WithLogger(logger.Named("municipios")),
	)
	a.audit = audit.New(a.api, a.store, cfg.Audit.Emit, logger.L())
	return a, nil
}

// close libera recursos y empuja métricas si hay Pushgateway configurado.
func (a *app) close() {
	if a.cache != nil {
		_ = a.cache.Close()
	}
	if a.cfg.Metrics.PushgatewayURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := metrics.Push(ctx, a.cfg.Metrics.PushgatewayURL, a.cfg.Metrics.Job, a.reg,
			map[string]string{"env": a.cfg.App.Env})
		if err != nil {
			a.log.Warn("push de métricas falló", logger.Err(err))
		}
	}
	_ = logger.Sync()
}

// requireSession falla temprano si no hay token vigente.
func (a *app) requireSession() error {
	if !a.store.Authenticated() {
		fmt.Fprintln(a.io.err, loginHint)
		return errNotLoggedIn
	}
	return nil
}
