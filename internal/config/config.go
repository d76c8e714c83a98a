package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	StorageFile  = "file"
	StorageRedis = "redis"
)

type Config struct {
	Workspace string `yaml:"workspace" validate:"required"`  // default workspace root
	StoreFile string `yaml:"store_file" validate:"required"` // relative to the workspace unless absolute
	Storage   string `yaml:"storage" validate:"oneof=file redis"`

	ListenAddr      string        `yaml:"listen_addr" validate:"required,hostname_port"` // ex: "127.0.0.1:7424"
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
	RequestTimeout  time.Duration `yaml:"request_timeout" validate:"gt=0"`               // per tool call
	AllowedHosts    []string      `yaml:"allowed_hosts"`                                 // Host headers accepted by the API, "*" for any (default: loopback names on the listen port)

	LogLevel  string `yaml:"log_level" validate:"oneof=debug info warn error"`
	PrettyLog bool   `yaml:"pretty_log"` // true => zap dev (color), false => zap prod (JSON)

	Watch       bool          `yaml:"watch"`                        // reload when the store file changes on disk
	WatchSettle time.Duration `yaml:"watch_settle" validate:"gt=0"` // quiet period before a reload

	// Only checked when Storage is redis.
	Redis RedisConfig `yaml:"redis" validate:"-"`
}

type RedisConfig struct {
	Addr           string        `yaml:"addr" validate:"required,hostname_port"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"password"`
	DB             int           `yaml:"db" validate:"min=0"`
	DialTimeout    time.Duration `yaml:"dial_timeout" validate:"gt=0"`
	ReadTimeout    time.Duration `yaml:"read_timeout" validate:"gt=0"`
	WriteTimeout   time.Duration `yaml:"write_timeout" validate:"gt=0"`
	PoolSize       int           `yaml:"pool_size" validate:"min=1"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" validate:"gt=0"` // total time to keep retrying
	RetryInterval  time.Duration `yaml:"retry_interval" validate:"gt=0"`  // grows exponentially
	MaxWait        time.Duration `yaml:"max_wait" validate:"gtefield=RetryInterval"`
	PingTimeout    time.Duration `yaml:"ping_timeout" validate:"gt=0"`
	WarnThreshold  int           `yaml:"warn_threshold" validate:"min=0"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}
	return Config{
		Workspace:       wd,
		StoreFile:       ".vscode/ai-bookmarks.json",
		Storage:         StorageFile,
		ListenAddr:      "127.0.0.1:7424",
		ShutdownTimeout: 5 * time.Second,
		RequestTimeout:  10 * time.Second,
		LogLevel:        "info",
		PrettyLog:       true,
		Watch:           true,
		WatchSettle:     150 * time.Millisecond,
		Redis: RedisConfig{
			Addr:           "localhost:6379",
			DialTimeout:    5 * time.Second,
			ReadTimeout:    3 * time.Second,
			WriteTimeout:   3 * time.Second,
			PoolSize:       10,
			ConnectTimeout: 30 * time.Second,
			RetryInterval:  2 * time.Second,
			MaxWait:        10 * time.Second,
			PingTimeout:    5 * time.Second,
			WarnThreshold:  3,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// AIBOOKMARKS_CONFIG_FILE if set, then environment variables.
func Load() (*Config, error) {
	cfg := Defaults()

	if path := os.Getenv("AIBOOKMARKS_CONFIG_FILE"); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	applyEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	if len(cfg.AllowedHosts) == 0 {
		cfg.AllowedHosts = LoopbackHosts(cfg.ListenAddr)
	}
	return &cfg, nil
}

// LoopbackHosts lists the Host headers a local client sends to addr.
// A non-loopback listen host is accepted as well.
func LoopbackHosts(addr string) []string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil
	}
	hosts := []string{
		net.JoinHostPort("localhost", port),
		net.JoinHostPort("127.0.0.1", port),
		net.JoinHostPort("::1", port),
	}
	switch host {
	case "", "localhost", "127.0.0.1", "::1", "0.0.0.0", "::":
	default:
		hosts = append(hosts, net.JoinHostPort(host, port))
	}
	return hosts
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	// Storage
	cfg.Workspace = getenv("AIBOOKMARKS_WORKSPACE", cfg.Workspace)
	cfg.StoreFile = getenv("AIBOOKMARKS_STORE_FILE", cfg.StoreFile)
	cfg.Storage = getenv("AIBOOKMARKS_STORAGE", cfg.Storage)

	// Server
	cfg.ListenAddr = getenv("AIBOOKMARKS_LISTEN_ADDR", cfg.ListenAddr)
	cfg.ShutdownTimeout = mustDuration("AIBOOKMARKS_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.RequestTimeout = mustDuration("AIBOOKMARKS_REQUEST_TIMEOUT", cfg.RequestTimeout)
	if hosts := splitAndTrim(os.Getenv("AIBOOKMARKS_ALLOWED_HOSTS")); len(hosts) > 0 {
		cfg.AllowedHosts = hosts
	}

	// Logging
	cfg.LogLevel = getenv("AIBOOKMARKS_LOG_LEVEL", cfg.LogLevel)
	cfg.PrettyLog = mustBool("AIBOOKMARKS_PRETTY_LOG", cfg.PrettyLog)

	// Watch
	cfg.Watch = mustBool("AIBOOKMARKS_WATCH", cfg.Watch)
	cfg.WatchSettle = mustDuration("AIBOOKMARKS_WATCH_SETTLE", cfg.WatchSettle)

	// Redis
	r := &cfg.Redis
	r.Addr = getenv("AIBOOKMARKS_REDIS_ADDR", r.Addr)
	r.Username = getenv("AIBOOKMARKS_REDIS_USERNAME", r.Username)
	r.Password = getenv("AIBOOKMARKS_REDIS_PASSWORD", r.Password)
	r.DB = getenvInt("AIBOOKMARKS_REDIS_DB", r.DB)
	r.DialTimeout = mustDuration("AIBOOKMARKS_REDIS_DIAL_TIMEOUT", r.DialTimeout)
	r.ReadTimeout = mustDuration("AIBOOKMARKS_REDIS_READ_TIMEOUT", r.ReadTimeout)
	r.WriteTimeout = mustDuration("AIBOOKMARKS_REDIS_WRITE_TIMEOUT", r.WriteTimeout)
	r.PoolSize = getenvInt("AIBOOKMARKS_REDIS_POOL_SIZE", r.PoolSize)
	r.ConnectTimeout = mustDuration("AIBOOKMARKS_REDIS_CONNECT_TIMEOUT", r.ConnectTimeout)
	r.RetryInterval = mustDuration("AIBOOKMARKS_REDIS_RETRY_INTERVAL", r.RetryInterval)
	r.MaxWait = mustDuration("AIBOOKMARKS_REDIS_MAX_WAIT", r.MaxWait)
	r.PingTimeout = mustDuration("AIBOOKMARKS_REDIS_PING_TIMEOUT", r.PingTimeout)
	r.WarnThreshold = getenvInt("AIBOOKMARKS_REDIS_WARN_THRESHOLD", r.WarnThreshold)
}

// Redacted returns a copy safe to log.
func (c Config) Redacted() Config {
	if c.Redis.Password != "" {
		c.Redis.Password = "***REDACTED***"
	}
	return c
}

// helpers
func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.Trim(strings.TrimSpace(part), `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
