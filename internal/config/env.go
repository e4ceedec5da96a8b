package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type AgentProvider string

const (
	ProviderOpenAI AgentProvider = "openai"
	ProviderGemini AgentProvider = "gemini"
)

type StoreKind string

const (
	StoreFirestore StoreKind = "firestore"
	StoreRedis     StoreKind = "redis"
	StoreMemory    StoreKind = "memory"
)

// Config holds everything supplied by the hosting environment. Secrets never come
// from files checked into the repo.
type Config struct {
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":3000"`
	ScratchDir string `env:"SCRATCH_DIR" envDefault:"temp_csvs"`
	AppEnv     string `env:"APP_ENV" envDefault:"development"`

	AgentProvider AgentProvider `env:"AGENT_PROVIDER" envDefault:"openai"`
	OpenAIAPIKey  string        `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string        `env:"OPENAI_BASE_URL"`
	OpenAIModel   string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	GeminiAPIKey  string        `env:"GEMINI_API_KEY"`
	GeminiModel   string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash-lite-preview-09-2025"`

	LogStore            StoreKind `env:"LOG_STORE" envDefault:"firestore"`
	FirebaseCredentials string    `env:"FIREBASE_CREDENTIALS"`
	FirebaseCredsFile   string    `env:"FIREBASE_CREDENTIALS_FILE"`
	FirestoreProjectID  string    `env:"FIRESTORE_PROJECT_ID"`

	SessionStore  StoreKind `env:"SESSION_STORE" envDefault:"memory"`
	RedisAddr     string    `env:"REDIS_ADDR" envDefault:"127.0.0.1:6379"`
	RedisPassword string    `env:"REDIS_PASSWORD"`

	AuthToken string `env:"API_AUTH_TOKEN"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.AgentProvider = AgentProvider(strings.ToLower(strings.TrimSpace(string(cfg.AgentProvider))))
	if cfg.FirebaseCredentials == "" && cfg.FirebaseCredsFile != "" {
		raw, err := os.ReadFile(cfg.FirebaseCredsFile)
		if err != nil {
			return nil, fmt.Errorf("read firebase credentials file: %w", err)
		}
		cfg.FirebaseCredentials = string(raw)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.AgentProvider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return errors.New("OPENAI_API_KEY is required for the openai agent")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return errors.New("GEMINI_API_KEY is required for the gemini agent")
		}
	default:
		return fmt.Errorf("unknown AGENT_PROVIDER %q", c.AgentProvider)
	}

	switch c.LogStore {
	case StoreFirestore:
		if strings.TrimSpace(c.FirebaseCredentials) == "" {
			return errors.New("FIREBASE_CREDENTIALS or FIREBASE_CREDENTIALS_FILE is required for the firestore log store")
		}
	case StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("unknown LOG_STORE %q", c.LogStore)
	}

	switch c.SessionStore {
	case StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("unknown SESSION_STORE %q", c.SessionStore)
	}
	return nil
}

func (c *Config) IsProd() bool {
	return strings.EqualFold(c.AppEnv, "production")
}
