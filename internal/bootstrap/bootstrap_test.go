package bootstrap

import (
	"context"
	"testing"

	"github.com/akolanti/CSVAgent/internal/analysis/sandbox/duckSandbox"
	"github.com/akolanti/CSVAgent/internal/config"
	"github.com/akolanti/CSVAgent/internal/data/store"
)

func TestOpenRecorder(t *testing.T) {
	ctx := context.Background()

	rec, err := OpenRecorder(ctx, &config.Config{LogStore: config.StoreMemory})
	if err != nil {
		t.Fatalf("memory recorder: %v", err)
	}
	if _, ok := rec.(*store.InMemoryInteractionStore); !ok {
		t.Errorf("got %T", rec)
	}

	if _, err := OpenRecorder(ctx, &config.Config{LogStore: "s3"}); err == nil {
		t.Error("unknown store should fail")
	}
	if _, err := OpenRecorder(ctx, &config.Config{LogStore: config.StoreFirestore}); err == nil {
		t.Error("firestore without credentials should fail")
	}
}

func TestOpenSessionStore_FallsBackToMemory(t *testing.T) {
	s := OpenSessionStore(context.Background(), &config.Config{
		SessionStore: config.StoreRedis,
		RedisAddr:    "127.0.0.1:1",
	})
	if _, ok := s.(*store.InMemorySessionStore); !ok {
		t.Errorf("expected in-memory fallback, got %T", s)
	}
}

func TestNewAgent(t *testing.T) {
	ctx := context.Background()
	exec := duckSandbox.New()

	a, err := NewAgent(ctx, &config.Config{AgentProvider: config.ProviderOpenAI, OpenAIAPIKey: "sk-test"}, exec)
	if err != nil || a.Name() != "openai" {
		t.Errorf("openai agent got %v, %v", a, err)
	}
	a, err = NewAgent(ctx, &config.Config{AgentProvider: config.ProviderGemini, GeminiAPIKey: "key"}, exec)
	if err != nil || a.Name() != "gemini" {
		t.Errorf("gemini agent got %v, %v", a, err)
	}
	if _, err := NewAgent(ctx, &config.Config{AgentProvider: "llama"}, exec); err == nil {
		t.Error("unknown provider should fail")
	}
}
