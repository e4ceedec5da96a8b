package duckSandbox

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	"github.com/akolanti/CSVAgent/internal/analysis/sandbox"
	"github.com/akolanti/CSVAgent/pkg/logger_i"
	_ "github.com/marcboeker/go-duckdb"
)

// TableName is the name the CSV is loaded under.
const TableName = "data"

var logger = logger_i.NewLogger("DuckSandbox")

type executor struct{}

func New() sandbox.Executor {
	return executor{}
}

type session struct {
	db *sql.DB
}

// Open loads filePath into a private in-memory DuckDB and then seals it: external
// access is disabled and configuration locked, so later statements can only see the
// loaded table.
func (executor) Open(ctx context.Context, filePath string) (sandbox.Session, error) {
	if _, err := os.Stat(filePath); err != nil {
		return nil, fmt.Errorf("tabular file not readable: %w", err)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	// settings below are per-database but keep a single connection anyway so the
	// in-memory catalog is never split across pool members
	db.SetMaxOpenConns(1)

	setup := []string{
		fmt.Sprintf("CREATE TABLE %s AS SELECT * FROM read_csv_auto(%s)", TableName, quoteLiteral(filePath)),
		"SET enable_external_access = false",
		"SET lock_configuration = true",
	}
	for _, stmt := range setup {
		if _, err = db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("prepare sandbox: %w", err)
		}
	}
	logger.Debug("Sandbox ready", "file", filePath)
	return &session{db: db}, nil
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (s *session) Schema(ctx context.Context) ([]sandbox.Column, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT column_name, data_type FROM information_schema.columns WHERE table_name = ? ORDER BY ordinal_position", TableName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []sandbox.Column
	for rows.Next() {
		var c sandbox.Column
		if err = rows.Scan(&c.Name, &c.Type); err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, rows.Err()
}

func (s *session) Query(ctx context.Context, code string, maxRows int) (sandbox.Table, error) {
	var out sandbox.Table
	rows, err := s.db.QueryContext(ctx, code)
	if err != nil {
		return out, err
	}
	defer rows.Close()

	out.Columns, err = rows.Columns()
	if err != nil {
		return out, err
	}

	values := make([]any, len(out.Columns))
	ptrs := make([]any, len(out.Columns))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if len(out.Rows) >= maxRows {
			out.Truncated = true
			break
		}
		if err = rows.Scan(ptrs...); err != nil {
			return out, err
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = stringify(v)
		}
		out.Rows = append(out.Rows, row)
	}
	return out, rows.Err()
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(t)
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

func (s *session) Close() error {
	return s.db.Close()
}
