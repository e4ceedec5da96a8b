package bootstrap

import (
	"context"
	"fmt"

	"github.com/akolanti/CSVAgent/internal/analysis/agent"
	"github.com/akolanti/CSVAgent/internal/analysis/agent/geminiAgent"
	"github.com/akolanti/CSVAgent/internal/analysis/agent/openaiAgent"
	"github.com/akolanti/CSVAgent/internal/analysis/sandbox"
	"github.com/akolanti/CSVAgent/internal/config"
	"github.com/akolanti/CSVAgent/internal/data/firestoreStore"
	"github.com/akolanti/CSVAgent/internal/data/redisStore"
	"github.com/akolanti/CSVAgent/internal/data/store"
	"github.com/akolanti/CSVAgent/internal/domain/interactionModel"
	"github.com/akolanti/CSVAgent/internal/domain/sessionModel"
	"github.com/akolanti/CSVAgent/pkg/logger_i"
)

func redisOptions(cfg *config.Config) redisStore.Options {
	return redisStore.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
}

// OpenRecorder connects the interaction log. Any failure here is fatal to the caller:
// the app must not serve answers it cannot log.
func OpenRecorder(ctx context.Context, cfg *config.Config) (interactionModel.Recorder, error) {
	switch cfg.LogStore {
	case config.StoreFirestore:
		s, err := firestoreStore.Connect(ctx, firestoreStore.Credentials{
			JSON:      []byte(cfg.FirebaseCredentials),
			ProjectID: cfg.FirestoreProjectID,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to firestore: %w", err)
		}
		return s, nil
	case config.StoreRedis:
		s, err := store.GetRedisInteractionStore(ctx, redisOptions(cfg))
		if err != nil {
			return nil, fmt.Errorf("connect to redis interaction store: %w", err)
		}
		return s, nil
	case config.StoreMemory:
		return store.InitInMemoryInteractionStore(), nil
	default:
		return nil, fmt.Errorf("unknown log store %q", cfg.LogStore)
	}
}

// OpenSessionStore prefers redis when configured and falls back to memory when it is
// unreachable.
func OpenSessionStore(ctx context.Context, cfg *config.Config) sessionModel.SessionStore {
	logger := logger_i.NewLogger("bootstrap")
	if cfg.SessionStore == config.StoreRedis {
		s, err := store.GetRedisSessionStore(ctx, redisOptions(cfg))
		if err == nil {
			return s
		}
		logger.Error("Redis session store is offline, using memory", "error", err)
	}
	return store.InitInMemorySessionStore()
}

func NewAgent(ctx context.Context, cfg *config.Config, executor sandbox.Executor) (agent.Agent, error) {
	switch cfg.AgentProvider {
	case config.ProviderOpenAI:
		return openaiAgent.New(openaiAgent.Options{
			APIKey:  cfg.OpenAIAPIKey,
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.OpenAIModel,
		}, executor), nil
	case config.ProviderGemini:
		return geminiAgent.New(ctx, geminiAgent.Options{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		}, executor)
	default:
		return nil, fmt.Errorf("unknown agent provider %q", cfg.AgentProvider)
	}
}
