package agent

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/akolanti/CSVAgent/internal/analysis/sandbox"
	"github.com/akolanti/CSVAgent/internal/config"
)

// Agent answers a question about one tabular file. Implementations may generate and
// run their own code; that code only ever runs inside a sandbox.Session.
type Agent interface {
	Ask(ctx context.Context, filePath string, question string) (string, error)
	Name() string
}

const (
	RunSQLTool        = "run_sql"
	RunSQLDescription = "Execute one DuckDB SQL statement against the table `data` and return the result as text. " +
		"Only the table `data` is reachable."
	RunSQLArg = "query"
)

var ErrStepLimit = errors.New("agent did not produce an answer within the step limit")
var ErrEmptyAnswer = errors.New("agent returned an empty answer")

// SystemPrompt describes the loaded table to the model.
func SystemPrompt(filePath string, cols []sandbox.Column) string {
	var b strings.Builder
	b.WriteString(config.ModelContext)
	fmt.Fprintf(&b, "\n\nFile: %s\nTable `data` columns:\n", filepath.Base(filePath))
	for _, c := range cols {
		fmt.Fprintf(&b, "- %s (%s)\n", c.Name, c.Type)
	}
	return b.String()
}

// ExecuteSQL runs model-written SQL and always returns text for the model: errors are
// reported back so it can correct itself.
func ExecuteSQL(ctx context.Context, session sandbox.Session, query string) string {
	if strings.TrimSpace(query) == "" {
		return "ERROR: empty query"
	}
	table, err := session.Query(ctx, query, config.MaxToolResultRows)
	if err != nil {
		return "ERROR: " + err.Error()
	}
	return sandbox.Format(table)
}

// OpenTable opens a sandbox for filePath and returns it with its system prompt.
func OpenTable(ctx context.Context, executor sandbox.Executor, filePath string) (sandbox.Session, string, error) {
	session, err := executor.Open(ctx, filePath)
	if err != nil {
		return nil, "", err
	}
	cols, err := session.Schema(ctx)
	if err != nil {
		_ = session.Close()
		return nil, "", fmt.Errorf("read schema: %w", err)
	}
	return session, SystemPrompt(filePath, cols), nil
}
