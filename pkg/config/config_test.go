package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodeforest/pkg/repository"
)

func env(vars map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := vars[k]
		return v, ok
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Server.Addr != ":3000" {
		t.Errorf("Addr = %q, want :3000", cfg.Server.Addr)
	}
	if cfg.Storage.Backend != repository.BackendMemory {
		t.Errorf("Backend = %q, want memory", cfg.Storage.Backend)
	}
	if cfg.Moves.RejectNoop {
		t.Error("no-op moves should be allowed by default")
	}
	if cfg.LogLevel() != log.InfoLevel {
		t.Errorf("LogLevel() = %v, want info", cfg.LogLevel())
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[server]
addr = "127.0.0.1:9000"
read_timeout = "3s"

[storage]
backend = "sqlite"
path = "/tmp/nodes.db"

[moves]
reject_noop = true

[log]
level = "debug"
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 3*time.Second {
		t.Errorf("ReadTimeout = %v, want 3s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.WriteTimeout != 10*time.Second {
		t.Errorf("WriteTimeout = %v, want default 10s", cfg.Server.WriteTimeout)
	}
	if cfg.Storage.Backend != "sqlite" || cfg.Storage.Path != "/tmp/nodes.db" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if !cfg.Moves.RejectNoop {
		t.Error("RejectNoop = false, want true")
	}
	if cfg.LogLevel() != log.DebugLevel {
		t.Errorf("LogLevel() = %v, want debug", cfg.LogLevel())
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"syntax", `[server`, "parse config"},
		{"unknown key", "[server]\nport = 1", "unknown config keys: server.port"},
		{"unknown backend", "[storage]\nbackend = \"etcd\"", "storage.backend"},
		{"redis without addr", "[storage]\nbackend = \"redis\"", "storage.redis.addr"},
		{"mongo bad uri", "[storage]\nbackend = \"mongo\"\n[storage.mongo]\nuri = \"http://x\"", "storage.mongo.uri"},
		{"bad addr", "[server]\naddr = \"localhost\"", "server.addr"},
		{"bad level", "[log]\nlevel = \"loud\"", "log.level"},
		{"bad session", "[session]\nbackend = \"s3\"", "session.backend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.data)
			if err == nil {
				t.Fatal("Parse() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}

func TestParse_UnknownBackendIsSentinel(t *testing.T) {
	_, err := Parse("[storage]\nbackend = \"etcd\"")
	if !errors.Is(err, repository.ErrUnknownBackend) {
		t.Errorf("error = %v, want ErrUnknownBackend", err)
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(env(map[string]string{
		"PORT":                    "8081",
		"NODEFOREST_STORAGE":      "file",
		"NODEFOREST_STORAGE_PATH": "/data/nodes.json",
		"NODEFOREST_REDIS_ADDR":   "redis:6379",
		"NODEFOREST_MONGO_URI":    "mongodb://mongo:27017",
		"NODEFOREST_LOG_LEVEL":    "warn",
	}))

	if cfg.Server.Addr != ":8081" {
		t.Errorf("Addr = %q, want :8081", cfg.Server.Addr)
	}
	if cfg.Storage.Backend != "file" || cfg.Storage.Path != "/data/nodes.json" {
		t.Errorf("Storage = %+v", cfg.Storage)
	}
	if cfg.Storage.Redis.Addr != "redis:6379" || cfg.Storage.Mongo.URI != "mongodb://mongo:27017" {
		t.Errorf("Redis/Mongo overrides not applied: %+v", cfg.Storage)
	}
	if cfg.LogLevel() != log.WarnLevel {
		t.Errorf("LogLevel() = %v, want warn", cfg.LogLevel())
	}

	// An explicit address beats PORT.
	cfg.ApplyEnv(env(map[string]string{"PORT": "1", "NODEFOREST_ADDR": "0.0.0.0:2"}))
	if cfg.Server.Addr != "0.0.0.0:2" {
		t.Errorf("Addr = %q, want 0.0.0.0:2", cfg.Server.Addr)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[storage]\nbackend = \"badger\"\npath = \"/tmp/badger\"\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("NODEFOREST_STORAGE", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Storage.Backend != "badger" {
		t.Errorf("Backend = %q, want badger", cfg.Storage.Backend)
	}

	rc, err := cfg.Repository(nil)
	if err != nil {
		t.Fatalf("Repository: %v", err)
	}
	if rc.Backend != "badger" || rc.Path != "/tmp/badger" {
		t.Errorf("Repository() = %+v", rc)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("Load of an explicit missing file should fail")
	}
}

func TestStoragePath_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	tests := []struct {
		backend string
		want    string
	}{
		{repository.BackendFile, "nodes.json"},
		{repository.BackendSQLite, "nodes.db"},
		{repository.BackendBadger, "badger"},
		{repository.BackendMemory, ""},
		{repository.BackendRedis, ""},
	}

	for _, tt := range tests {
		cfg := Default()
		cfg.Storage.Backend = tt.backend
		got, err := cfg.StoragePath()
		if err != nil {
			t.Fatalf("StoragePath(%s): %v", tt.backend, err)
		}
		if filepath.Base(got) != tt.want && !(tt.want == "" && got == "") {
			t.Errorf("StoragePath(%s) = %q, want base %q", tt.backend, got, tt.want)
		}
	}
}
