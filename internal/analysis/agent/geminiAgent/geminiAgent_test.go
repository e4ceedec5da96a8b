package geminiAgent

import (
	"context"
	"errors"
	"testing"

	"github.com/akolanti/CSVAgent/internal/analysis/agent"
	"github.com/akolanti/CSVAgent/internal/analysis/sandbox"
	"google.golang.org/genai"
)

type mockGenerator struct {
	responses []*genai.GenerateContentResponse
	err       error
	histories [][]*genai.Content
}

func (m *mockGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	snapshot := append([]*genai.Content(nil), contents...)
	m.histories = append(m.histories, snapshot)
	if m.err != nil {
		return nil, m.err
	}
	i := len(m.histories) - 1
	if i >= len(m.responses) {
		i = len(m.responses) - 1
	}
	return m.responses[i], nil
}

type mockExecutor struct{ queries []string }

func (m *mockExecutor) Open(ctx context.Context, filePath string) (sandbox.Session, error) {
	return &mockSession{parent: m}, nil
}

type mockSession struct{ parent *mockExecutor }

func (s *mockSession) Schema(ctx context.Context) ([]sandbox.Column, error) {
	return []sandbox.Column{{Name: "region", Type: "VARCHAR"}}, nil
}
func (s *mockSession) Query(ctx context.Context, code string, maxRows int) (sandbox.Table, error) {
	s.parent.queries = append(s.parent.queries, code)
	return sandbox.Table{Columns: []string{"n"}, Rows: [][]string{{"3"}}}, nil
}
func (s *mockSession) Close() error { return nil }

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}},
	}}}
}

func callResponse(query string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Role: "model", Parts: []*genai.Part{{
			FunctionCall: &genai.FunctionCall{ID: "c1", Name: agent.RunSQLTool, Args: map[string]any{agent.RunSQLArg: query}},
		}}},
	}}}
}

func TestAsk_ToolLoop(t *testing.T) {
	gen := &mockGenerator{responses: []*genai.GenerateContentResponse{
		callResponse("SELECT count(DISTINCT region) FROM data"),
		textResponse("There are 3 regions."),
	}}
	exec := &mockExecutor{}
	a := newWithGenerator(gen, "gemini-test", exec)

	answer, err := a.Ask(context.Background(), "/tmp/sales.csv", "how many regions?")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if answer != "There are 3 regions." {
		t.Errorf("answer got %q", answer)
	}
	if len(exec.queries) != 1 {
		t.Fatalf("want 1 sandbox query, got %v", exec.queries)
	}
	if len(gen.histories) != 2 || len(gen.histories[1]) != 3 {
		t.Fatalf("unexpected history shape: %d calls", len(gen.histories))
	}
	fr := gen.histories[1][2].Parts[0].FunctionResponse
	if fr == nil || fr.Name != agent.RunSQLTool || fr.ID != "c1" {
		t.Errorf("function response not sent back: %+v", fr)
	}
}

func TestAsk_Failures(t *testing.T) {
	tests := []struct {
		name    string
		gen     *mockGenerator
		wantErr error
	}{
		{name: "api error", gen: &mockGenerator{err: errors.New("quota")}},
		{name: "no candidates", gen: &mockGenerator{responses: []*genai.GenerateContentResponse{{}}}, wantErr: agent.ErrEmptyAnswer},
		{name: "blank text", gen: &mockGenerator{responses: []*genai.GenerateContentResponse{textResponse(" ")}}, wantErr: agent.ErrEmptyAnswer},
		{name: "loops forever", gen: &mockGenerator{responses: []*genai.GenerateContentResponse{callResponse("SELECT 1")}}, wantErr: agent.ErrStepLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newWithGenerator(tt.gen, "", &mockExecutor{})
			_, err := a.Ask(context.Background(), "/tmp/sales.csv", "q")
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestRunTool_UnknownAndMissingArgs(t *testing.T) {
	a := newWithGenerator(&mockGenerator{}, "", &mockExecutor{})
	s := &mockSession{parent: &mockExecutor{}}

	if got := a.runTool(context.Background(), s, &genai.FunctionCall{Name: "shell"}); got != `ERROR: unknown tool "shell"` {
		t.Errorf("unknown tool got %q", got)
	}
	if got := a.runTool(context.Background(), s, &genai.FunctionCall{Name: agent.RunSQLTool}); got != "ERROR: empty query" {
		t.Errorf("missing query got %q", got)
	}
}
