package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/akolanti/CSVAgent/internal/analysis/sandbox"
)

type mockSession struct {
	OnQuery func(ctx context.Context, code string, maxRows int) (sandbox.Table, error)
}

func (m *mockSession) Schema(ctx context.Context) ([]sandbox.Column, error) { return nil, nil }
func (m *mockSession) Close() error                                         { return nil }
func (m *mockSession) Query(ctx context.Context, code string, maxRows int) (sandbox.Table, error) {
	return m.OnQuery(ctx, code, maxRows)
}

func TestSystemPrompt_ListsColumns(t *testing.T) {
	p := SystemPrompt("/tmp/x/sales.csv", []sandbox.Column{{Name: "region", Type: "VARCHAR"}, {Name: "amount", Type: "BIGINT"}})
	for _, want := range []string{"sales.csv", "region (VARCHAR)", "amount (BIGINT)"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q:\n%s", want, p)
		}
	}
	if strings.Contains(p, "/tmp/x") {
		t.Error("prompt should not leak server paths")
	}
}

func TestExecuteSQL(t *testing.T) {
	s := &mockSession{OnQuery: func(ctx context.Context, code string, maxRows int) (sandbox.Table, error) {
		if code == "bad" {
			return sandbox.Table{}, errors.New("syntax error")
		}
		return sandbox.Table{Columns: []string{"n"}, Rows: [][]string{{"3"}}}, nil
	}}
	ctx := context.Background()

	if got := ExecuteSQL(ctx, s, "bad"); got != "ERROR: syntax error" {
		t.Errorf("got %q", got)
	}
	if got := ExecuteSQL(ctx, s, "  "); got != "ERROR: empty query" {
		t.Errorf("got %q", got)
	}
	if got := ExecuteSQL(ctx, s, "SELECT 3"); !strings.Contains(got, "3") {
		t.Errorf("got %q", got)
	}
}
