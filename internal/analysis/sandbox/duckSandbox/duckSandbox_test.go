package duckSandbox

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "sales.csv")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return p
}

func TestSession_SchemaAndQuery(t *testing.T) {
	path := writeCSV(t, "region,amount\nnorth,10\nsouth,5\nnorth,7\n")
	ctx := context.Background()

	s, err := New().Open(ctx, path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	cols, err := s.Schema(ctx)
	if err != nil {
		t.Fatalf("Schema failed: %v", err)
	}
	if len(cols) != 2 || cols[0].Name != "region" || cols[1].Name != "amount" {
		t.Errorf("unexpected schema: %+v", cols)
	}

	table, err := s.Query(ctx, "SELECT region, SUM(amount) AS total FROM data GROUP BY region ORDER BY region", 10)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(table.Rows) != 2 || table.Rows[0][0] != "north" || table.Rows[0][1] != "17" {
		t.Errorf("unexpected result: %+v", table)
	}
}

func TestSession_TruncatesRows(t *testing.T) {
	path := writeCSV(t, "n\n1\n2\n3\n4\n")
	ctx := context.Background()

	s, err := New().Open(ctx, path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	table, err := s.Query(ctx, "SELECT n FROM data ORDER BY n", 2)
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(table.Rows) != 2 || !table.Truncated {
		t.Errorf("expected 2 truncated rows, got %+v", table)
	}
}

func TestSession_BlocksFileAccess(t *testing.T) {
	path := writeCSV(t, "n\n1\n")
	other := writeCSV(t, "secret\nx\n")
	ctx := context.Background()

	s, err := New().Open(ctx, path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer s.Close()

	if _, err = s.Query(ctx, "SELECT * FROM read_csv_auto("+quoteLiteral(other)+")", 10); err == nil {
		t.Error("expected sandbox to refuse reading other files")
	}
	if _, err = s.Query(ctx, "SET enable_external_access = true", 10); err == nil {
		t.Error("expected locked configuration to refuse changes")
	}
}

func TestOpen_MissingFile(t *testing.T) {
	if _, err := New().Open(context.Background(), filepath.Join(t.TempDir(), "nope.csv")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestQuoteLiteral(t *testing.T) {
	if got := quoteLiteral("it's.csv"); got != "'it''s.csv'" {
		t.Errorf("quoteLiteral got %s", got)
	}
}
