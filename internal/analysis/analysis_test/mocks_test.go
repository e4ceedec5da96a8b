package analysis_test

import (
	"archive/zip"
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/akolanti/CSVAgent/internal/domain/interactionModel"
)

// MockAgent implements agent.Agent
type MockAgent struct {
	OnAsk func(ctx context.Context, filePath string, question string) (string, error)
	Calls int32
}

func (m *MockAgent) Ask(ctx context.Context, filePath string, question string) (string, error) {
	atomic.AddInt32(&m.Calls, 1)
	if m.OnAsk != nil {
		return m.OnAsk(ctx, filePath, question)
	}
	return "default answer", nil
}

func (m *MockAgent) Name() string { return "mock" }

// MockRecorder implements interactionModel.Recorder
type MockRecorder struct {
	OnAppend func(ctx context.Context, entry interactionModel.InteractionLog) (string, error)

	mu      sync.Mutex
	Entries []interactionModel.InteractionLog
}

func (m *MockRecorder) Append(ctx context.Context, entry interactionModel.InteractionLog) (string, error) {
	if m.OnAppend != nil {
		if id, err := m.OnAppend(ctx, entry); err != nil {
			return id, err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, entry)
	return "log-1", nil
}

func (m *MockRecorder) List(ctx context.Context, limit int) ([]interactionModel.InteractionLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]interactionModel.InteractionLog(nil), m.Entries...), nil
}

func buildZip(t *testing.T, files map[string]string) *bytes.Reader {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

type readerAt []byte

func (b readerAt) ReadAt(p []byte, off int64) (int, error) {
	return bytes.NewReader(b).ReadAt(p, off)
}
