package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | prod
		Env string `yaml:"app_env"`
	} `yaml:"app"`

	API struct {
		BaseURL string `yaml:"base_url"`
		// Timeout 0 = sin timeout propio; se espera al del transporte.
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"api"`

	Session struct {
		// Archivo donde se persiste el access_token.
		File string `yaml:"file"`
	} `yaml:"session"`

	Cache struct {
		Kind  string `yaml:"kind"` // memory | redis
		TTL   string `yaml:"ttl"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	List struct {
		PageSize int `yaml:"page_size"`
	} `yaml:"list"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Metrics struct {
		PushgatewayURL string `yaml:"pushgateway_url"`
		Job            string `yaml:"job"`
	} `yaml:"metrics"`

	Audit struct {
		// Emit activa el POST /audit tras create/edit/toggle.
		Emit bool `yaml:"emit"`
	} `yaml:"audit"`
}

// DefaultPath devuelve $XDG_CONFIG_HOME/severus/config.yaml (o equivalente del SO).
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "severus.yaml"
	}
	return filepath.Join(dir, "severus", "config.yaml")
}

// Load lee el YAML en path (si existe), aplica env overrides y defaults.
// Un archivo inexistente no es error: el CLI funciona sólo con env/defaults.
func Load(path string) (*Config, error) {
	var c Config
	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	c.applyEnvOverrides()
	c.applyDefaults(path)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults(path string) {
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = "http://127.0.0.1:8000"
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.Session.File == "" {
		c.Session.File = filepath.Join(filepath.Dir(DefaultPath()), "session.json")
	} else if !filepath.IsAbs(c.Session.File) && path != "" {
		// relativo al directorio del YAML
		c.Session.File = filepath.Clean(filepath.Join(filepath.Dir(path), c.Session.File))
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = "10m"
	}
	if c.Cache.Redis.Addr == "" {
		c.Cache.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "severus"
	}
	if c.List.PageSize <= 0 {
		c.List.PageSize = 10
	}
	if c.Metrics.Job == "" {
		c.Metrics.Job = "severus"
	}
}

// CacheTTL devuelve el TTL del cache de municipios ya parseado.
func (c *Config) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 10 * time.Minute
	}
	return d
}

// Validate chequea los valores que romperían el cliente en runtime.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: api.base_url inválida: %q", c.API.BaseURL)
	}
	switch c.Cache.Kind {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: cache.kind debe ser memory|redis, no %q", c.Cache.Kind)
	}
	if _, err := time.ParseDuration(c.Cache.TTL); err != nil {
		return fmt.Errorf("config: cache.ttl: %w", err)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("config: api.timeout no puede ser negativo")
	}
	return nil
}

// ---- Helpers env ----

func getEnvStr(key string) (string, bool) {
	v := os.Getenv(key)
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(strings.TrimSpace(s)); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
			return d, true
		}
	}
	return 0, false
}

// applyEnvOverrides: pisa config.yaml con variables de entorno.
func (c *Config) applyEnvOverrides() {
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}

	// API
	if v, ok := getEnvStr("SEVERUS_API_URL"); ok {
		c.API.BaseURL = v
	}
	if v, ok := getEnvDur("SEVERUS_API_TIMEOUT"); ok {
		c.API.Timeout = v
	}

	// SESSION
	if v, ok := getEnvStr("SEVERUS_SESSION_FILE"); ok {
		c.Session.File = v
	}

	// CACHE
	if v, ok := getEnvStr("SEVERUS_CACHE_KIND"); ok {
		c.Cache.Kind = strings.ToLower(v)
	}
	if v, ok := getEnvStr("SEVERUS_CACHE_TTL"); ok {
		c.Cache.TTL = v
	}
	if v, ok := getEnvStr("SEVERUS_REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("SEVERUS_REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("SEVERUS_REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}

	// LIST
	if v, ok := getEnvInt("SEVERUS_PAGE_SIZE"); ok {
		c.List.PageSize = v
	}

	// METRICS
	if v, ok := getEnvStr("SEVERUS_PUSHGATEWAY_URL"); ok {
		c.Metrics.PushgatewayURL = v
	}

	// AUDIT
	if v, ok := getEnvBool("SEVERUS_AUDIT_EMIT"); ok {
		c.Audit.Emit = v
	}
}
