package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "EVALUATOR_CONFIG"

	StoreSupabase = "supabase"
	StorePostgres = "postgres"
	StoreBadger   = "badger"

	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
)

// Config holds every setting the evaluator reads at startup.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Logging  LoggingConfig  `yaml:"logging"`
	Store    StoreConfig    `yaml:"store"`
	Supabase SupabaseConfig `yaml:"supabase"`
	Scoring  ScoringConfig  `yaml:"scoring"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or text
}

// StoreConfig selects where evaluation records live.
type StoreConfig struct {
	Driver    string `yaml:"driver"`
	Table     string `yaml:"table"`
	DSN       string `yaml:"dsn"`
	BadgerDir string `yaml:"badgerDir"`
}

type SupabaseConfig struct {
	URL        string `yaml:"url"`
	ServiceKey string `yaml:"serviceKey"`
}

// ScoringConfig configures the text-scoring provider.
type ScoringConfig struct {
	Provider string        `yaml:"provider"`
	APIKey   string        `yaml:"apiKey"`
	BaseURL  string        `yaml:"baseUrl"`
	Model    string        `yaml:"model"`
	Timeout  time.Duration `yaml:"timeout"`
}

type WorkerConfig struct {
	MaxWorkers int `yaml:"maxWorkers"`
	QueueSize  int `yaml:"queueSize"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		HTTP:    HTTPConfig{Addr: ":8080"},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Store:   StoreConfig{Driver: StoreSupabase, Table: "evaluations", BadgerDir: "./data/evaluations"},
		Scoring: ScoringConfig{Provider: ProviderOpenAI, Timeout: 60 * time.Second},
		Worker:  WorkerConfig{MaxWorkers: 4, QueueSize: 100},
	}
}

// Load reads .env (if present), the YAML file at path (or $EVALUATOR_CONFIG)
// and environment overrides, then validates the result.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}

	cfg := Default()
	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return Config{}, err
	}
	cfg.applyModelDefault()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	setString(&c.HTTP.Addr, "HTTP_ADDR")
	setString(&c.Logging.Level, "LOG_LEVEL")
	setString(&c.Logging.Format, "LOG_FORMAT")
	setString(&c.Store.Driver, "STORE_DRIVER")
	setString(&c.Store.DSN, "DATABASE_DSN")
	setString(&c.Store.BadgerDir, "BADGER_DIR")
	setString(&c.Supabase.URL, "SUPABASE_URL")
	setString(&c.Supabase.ServiceKey, "SUPABASE_SERVICE_KEY")
	setString(&c.Scoring.Provider, "SCORING_PROVIDER")
	setString(&c.Scoring.BaseURL, "OPENAI_BASE_URL")
	setString(&c.Scoring.Model, "SCORING_MODEL")

	switch c.Scoring.Provider {
	case ProviderGemini:
		setString(&c.Scoring.APIKey, "GEMINI_API_KEY")
	default:
		setString(&c.Scoring.APIKey, "OPENAI_API_KEY")
	}

	if v := os.Getenv("SCORING_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config: SCORING_TIMEOUT: %w", err)
		}
		c.Scoring.Timeout = d
	}
	if err := setInt(&c.Worker.MaxWorkers, "WORKER_MAX"); err != nil {
		return err
	}
	return setInt(&c.Worker.QueueSize, "WORKER_QUEUE")
}

func (c *Config) applyModelDefault() {
	if c.Scoring.Model != "" {
		return
	}
	switch c.Scoring.Provider {
	case ProviderGemini:
		c.Scoring.Model = "gemini-2.0-flash"
	default:
		c.Scoring.Model = "gpt-4o-mini"
	}
}

// Validate rejects unknown drivers and providers and missing credentials
// for the selected ones.
func (c Config) Validate() error {
	var errs []error
	switch c.Store.Driver {
	case StoreSupabase:
		if c.Supabase.URL == "" || c.Supabase.ServiceKey == "" {
			errs = append(errs, errors.New("supabase store needs SUPABASE_URL and SUPABASE_SERVICE_KEY"))
		}
	case StorePostgres:
		if c.Store.DSN == "" {
			errs = append(errs, errors.New("postgres store needs DATABASE_DSN"))
		}
	case StoreBadger:
		if c.Store.BadgerDir == "" {
			errs = append(errs, errors.New("badger store needs BADGER_DIR"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}

	switch c.Scoring.Provider {
	case ProviderOpenAI, ProviderGemini:
		if c.Scoring.APIKey == "" {
			errs = append(errs, fmt.Errorf("%s scoring needs an api key", c.Scoring.Provider))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown scoring provider %q", c.Scoring.Provider))
	}

	if c.Worker.MaxWorkers < 1 {
		errs = append(errs, errors.New("worker.maxWorkers must be at least 1"))
	}
	if c.Worker.QueueSize < 0 {
		errs = append(errs, errors.New("worker.queueSize must not be negative"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s: %w", key, err)
	}
	*dst = n
	return nil
}
