// Package config loads nodeforest settings.
//
// Settings are layered, later layers winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file: the explicit path, else $NODEFOREST_CONFIG, else
//     ~/.config/nodeforest/config.toml when it exists
//  3. environment variables (PORT, NODEFOREST_STORAGE, ...)
//  4. command-line flags, applied by the CLI
//
// Example file:
//
//	[server]
//	addr = ":3000"
//	read_timeout = "10s"
//
//	[storage]
//	backend = "sqlite"
//	path = "/var/lib/nodeforest/nodes.db"
//
//	[moves]
//	reject_noop = true
//
//	[log]
//	level = "debug"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	nferrors "github.com/matzehuels/nodeforest/pkg/errors"
	"github.com/matzehuels/nodeforest/pkg/repository"
)

// Config is the complete application configuration.
type Config struct {
	Server  ServerConfig  `toml:"server"`
	Storage StorageConfig `toml:"storage"`
	Session SessionConfig `toml:"session"`
	Moves   MovesConfig   `toml:"moves"`
	Log     LogConfig     `toml:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// StorageConfig selects the node repository.
type StorageConfig struct {
	Backend string                 `toml:"backend"`
	Path    string                 `toml:"path"`
	Redis   repository.RedisConfig `toml:"redis"`
	Mongo   repository.MongoConfig `toml:"mongo"`

	// Seed fills an empty repository with the demo facility on startup.
	Seed bool `toml:"seed"`
}

// SessionConfig selects where selection and expansion state is kept.
type SessionConfig struct {
	Backend  string `toml:"backend"` // file, memory or redis
	Path     string `toml:"path"`
	RedisKey string `toml:"redis_key"`
}

// MovesConfig holds the move policy.
type MovesConfig struct {
	RejectNoop bool `toml:"reject_noop"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `toml:"level"`
}

// Session backend names.
const (
	SessionFile   = "file"
	SessionMemory = "memory"
	SessionRedis  = "redis"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":3000",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Storage: StorageConfig{
			Backend: repository.BackendMemory,
			Seed:    true,
		},
		Session: SessionConfig{Backend: SessionFile},
		Log:     LogConfig{Level: "info"},
	}
}

// Dir returns ~/.config/nodeforest.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".config", "nodeforest"), nil
}

// Load builds the configuration from defaults, the config file at path
// (see the package doc for how an empty path is resolved) and the process
// environment.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = defaultFile()
	}
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults without consulting the
// environment.
func Parse(data string) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(data, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := checkUndecoded(md); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) decodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	if err := checkUndecoded(md); err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	return nil
}

func checkUndecoded(md toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}
	keys := make([]string, len(undecoded))
	for i, k := range undecoded {
		keys[i] = k.String()
	}
	return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
}

// defaultFile returns $NODEFOREST_CONFIG, or the per-user config file when
// it exists, or "".
func defaultFile() string {
	if p := os.Getenv("NODEFOREST_CONFIG"); p != "" {
		return p
	}
	dir, err := Dir()
	if err != nil {
		return ""
	}
	p := filepath.Join(dir, "config.toml")
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

// ApplyEnv applies environment overrides using lookup (os.LookupEnv in
// production).
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("PORT"); ok && v != "" {
		c.Server.Addr = ":" + v
	}
	if v, ok := lookup("NODEFOREST_ADDR"); ok && v != "" {
		c.Server.Addr = v
	}
	if v, ok := lookup("NODEFOREST_STORAGE"); ok && v != "" {
		c.Storage.Backend = v
	}
	if v, ok := lookup("NODEFOREST_STORAGE_PATH"); ok && v != "" {
		c.Storage.Path = v
	}
	if v, ok := lookup("NODEFOREST_REDIS_ADDR"); ok && v != "" {
		c.Storage.Redis.Addr = v
	}
	if v, ok := lookup("NODEFOREST_MONGO_URI"); ok && v != "" {
		c.Storage.Mongo.URI = v
	}
	if v, ok := lookup("NODEFOREST_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
}

// Validate checks the configuration for values that cannot work.
func (c Config) Validate() error {
	var errs []error

	if err := nferrors.ValidateAddr(c.Server.Addr); err != nil {
		errs = append(errs, fmt.Errorf("server.addr: %w", err))
	}
	if !slices.Contains(repository.Backends(), c.Storage.Backend) {
		errs = append(errs, fmt.Errorf("storage.backend: %w: %q", repository.ErrUnknownBackend, c.Storage.Backend))
	}
	switch c.Storage.Backend {
	case repository.BackendRedis:
		if c.Storage.Redis.Addr == "" {
			errs = append(errs, errors.New("storage.redis.addr: required for the redis backend"))
		}
	case repository.BackendMongo:
		if err := nferrors.ValidateMongoURI(c.Storage.Mongo.URI); err != nil {
			errs = append(errs, fmt.Errorf("storage.mongo.uri: %w", err))
		}
	}
	switch c.Session.Backend {
	case SessionFile, SessionMemory:
	case SessionRedis:
		if c.Storage.Redis.Addr == "" {
			errs = append(errs, errors.New("session.backend: redis needs storage.redis.addr"))
		}
	default:
		errs = append(errs, fmt.Errorf("session.backend: unknown backend %q", c.Session.Backend))
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	return errors.Join(errs...)
}

// LogLevel returns the configured level, or info when it does not parse.
func (c Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

// StoragePath returns the configured storage path, or the per-backend
// default under Dir() for disk-backed backends.
func (c Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}
	var name string
	switch c.Storage.Backend {
	case repository.BackendFile:
		name = "nodes.json"
	case repository.BackendSQLite:
		name = "nodes.db"
	case repository.BackendBadger:
		name = "badger"
	default:
		return "", nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// Repository returns the repository settings.
func (c Config) Repository(logger *log.Logger) (repository.Config, error) {
	path, err := c.StoragePath()
	if err != nil {
		return repository.Config{}, err
	}
	return repository.Config{
		Backend: c.Storage.Backend,
		Path:    path,
		Redis:   c.Storage.Redis,
		Mongo:   c.Storage.Mongo,
		Logger:  logger,
	}, nil
}
