package sandbox

import "context"

// Column describes one column of the loaded table.
type Column struct {
	Name string
	Type string
}

// Table is a bounded, stringified query result.
type Table struct {
	Columns   []string
	Rows      [][]string
	Truncated bool
}

// Session is one isolated execution environment bound to a single tabular file.
// Model-written code runs here and nowhere else.
type Session interface {
	Schema(ctx context.Context) ([]Column, error)
	Query(ctx context.Context, code string, maxRows int) (Table, error)
	Close() error
}

// Executor opens sessions. Swapping it swaps the isolation strategy without touching
// the agents or the orchestration.
type Executor interface {
	Open(ctx context.Context, filePath string) (Session, error)
}
