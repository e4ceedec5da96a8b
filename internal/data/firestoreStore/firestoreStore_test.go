package firestoreStore

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/akolanti/CSVAgent/internal/domain/interactionModel"
)

func TestToDocument_UsesServerTimestamp(t *testing.T) {
	doc := toDocument(interactionModel.InteractionLog{
		SourceFile: "sales.csv",
		Question:   "total rows?",
		Answer:     "42",
		CreatedAt:  time.Now(),
	})

	if len(doc) != 4 {
		t.Fatalf("document must have exactly 4 fields, got %d: %v", len(doc), doc)
	}
	if doc["arquivo_csv"] != "sales.csv" || doc["pergunta"] != "total rows?" || doc["resposta"] != "42" {
		t.Errorf("field mismatch: %v", doc)
	}
	if doc["timestamp"] != firestore.ServerTimestamp {
		t.Errorf("timestamp must be the server sentinel, got %v", doc["timestamp"])
	}
}

func TestFromDocument(t *testing.T) {
	ts := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	got := fromDocument("doc-1", map[string]interface{}{
		"arquivo_csv": "a.csv",
		"pergunta":    "q",
		"resposta":    "a",
		"timestamp":   ts,
	})
	if got.Id != "doc-1" || got.SourceFile != "a.csv" || got.Question != "q" || got.Answer != "a" || !got.CreatedAt.Equal(ts) {
		t.Errorf("unexpected mapping: %+v", got)
	}
}

func TestOpen_RejectsEmptyCredentials(t *testing.T) {
	if _, err := open(context.Background(), Credentials{}); err == nil {
		t.Error("expected error for empty credentials")
	}
}

func TestConnect_ReturnsFirstResult(t *testing.T) {
	first, firstErr := Connect(context.Background(), Credentials{})
	second, secondErr := Connect(context.Background(), Credentials{JSON: []byte(`{"type":"service_account"}`), ProjectID: "other"})

	if firstErr == nil {
		t.Fatal("expected the empty bundle to fail")
	}
	if first != second || firstErr != secondErr {
		t.Errorf("second Connect re-initialized: (%v, %v) then (%v, %v)", first, firstErr, second, secondErr)
	}
}
