package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

// clearEnv unsets every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		configPathEnv, "HTTP_ADDR", "LOG_LEVEL", "LOG_FORMAT", "STORE_DRIVER", "DATABASE_DSN",
		"BADGER_DIR", "SUPABASE_URL", "SUPABASE_SERVICE_KEY", "SCORING_PROVIDER", "OPENAI_API_KEY",
		"OPENAI_BASE_URL", "GEMINI_API_KEY", "SCORING_MODEL", "SCORING_TIMEOUT", "WORKER_MAX", "WORKER_QUEUE",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Chdir(t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "evaluator.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
http:
  addr: ":9090"
store:
  driver: badger
  badgerDir: /tmp/evals
scoring:
  provider: gemini
  apiKey: g-key
  timeout: 45s
worker:
  maxWorkers: 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.HTTP.Addr != ":9090" || cfg.Store.Driver != StoreBadger || cfg.Store.BadgerDir != "/tmp/evals" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Scoring.Timeout != 45*time.Second || cfg.Scoring.Model != "gemini-2.0-flash" {
		t.Errorf("scoring = %+v", cfg.Scoring)
	}
	if cfg.Worker.MaxWorkers != 2 || cfg.Worker.QueueSize != 100 {
		t.Errorf("worker = %+v, want file value and default queue", cfg.Worker)
	}
	if cfg.Store.Table != "evaluations" {
		t.Errorf("table = %q, want default", cfg.Store.Table)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "store:\n  driver: badger\nscoring:\n  apiKey: file-key\n")
	t.Setenv(configPathEnv, path)
	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_DSN", "postgres://localhost/evals")
	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("SCORING_TIMEOUT", "5s")
	t.Setenv("WORKER_QUEUE", "7")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Driver != StorePostgres || cfg.Store.DSN != "postgres://localhost/evals" {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Scoring.APIKey != "env-key" || cfg.Scoring.Model != "gpt-4o-mini" || cfg.Scoring.Timeout != 5*time.Second {
		t.Errorf("scoring = %+v", cfg.Scoring)
	}
	if cfg.Worker.QueueSize != 7 {
		t.Errorf("queue = %d", cfg.Worker.QueueSize)
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	clearEnv(t)
	dotenv := "STORE_DRIVER=badger\nOPENAI_API_KEY=dotenv-key\n"
	if err := os.WriteFile(".env", []byte(dotenv), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		os.Unsetenv("STORE_DRIVER")
		os.Unsetenv("OPENAI_API_KEY")
	})

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Scoring.APIKey != "dotenv-key" || cfg.Store.Driver != StoreBadger {
		t.Fatalf("cfg = %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"missing supabase credentials", map[string]string{"OPENAI_API_KEY": "k"}, "SUPABASE_URL"},
		{"unknown driver", map[string]string{"STORE_DRIVER": "mongo", "OPENAI_API_KEY": "k"}, `unknown store driver "mongo"`},
		{"unknown provider", map[string]string{"STORE_DRIVER": "badger", "SCORING_PROVIDER": "llama"}, `unknown scoring provider "llama"`},
		{"missing api key", map[string]string{"STORE_DRIVER": "badger"}, "openai scoring needs an api key"},
		{"bad timeout", map[string]string{"SCORING_TIMEOUT": "soon"}, "SCORING_TIMEOUT"},
		{"bad worker count", map[string]string{"WORKER_MAX": "many"}, "WORKER_MAX"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load("")
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Load() error = %v, want it to mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load() error = nil for a missing file")
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger(&buf, "debug", "json")
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	if log.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %s", log.GetLevel())
	}
	log.WithField("session_id", "s1").Info("hello")
	if !strings.Contains(buf.String(), `"session_id":"s1"`) {
		t.Errorf("output = %s", buf.String())
	}

	if _, err := newLogger(&buf, "loud", "json"); err == nil {
		t.Error("expected an error for an unknown level")
	}
	if _, err := newLogger(&buf, "info", "xml"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestNewSupabaseClientRequiresCredentials(t *testing.T) {
	if _, err := NewSupabaseClient(SupabaseConfig{URL: "https://x.supabase.co"}); err == nil {
		t.Fatal("expected an error without a service key")
	}
}
