package web

import (
	"bytes"
	"strings"
	"testing"

	"github.com/akolanti/CSVAgent/internal/analysis"
	"github.com/akolanti/CSVAgent/internal/domain/sessionModel"
)

func TestMarkdown(t *testing.T) {
	r, err := NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	tests := []struct {
		name    string
		in      string
		want    string
		notWant string
	}{
		{name: "bold", in: "There are **42** rows.", want: "<strong>42</strong>"},
		{name: "table", in: "| a | b |\n|---|---|\n| 1 | 2 |", want: "<table>"},
		{name: "raw html dropped", in: "<script>alert(1)</script>", notWant: "<script>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Markdown(tt.in)
			if err != nil {
				t.Fatalf("Markdown: %v", err)
			}
			if tt.want != "" && !strings.Contains(string(got), tt.want) {
				t.Errorf("got %q, want it to contain %q", got, tt.want)
			}
			if tt.notWant != "" && strings.Contains(string(got), tt.notWant) {
				t.Errorf("got %q, must not contain %q", got, tt.notWant)
			}
		})
	}
}

func TestPage_NoArchiveHidesControls(t *testing.T) {
	r, _ := NewRenderer()
	var buf bytes.Buffer
	err := r.Page(&buf, PageData{
		Session:  sessionModel.New("s1"),
		Warnings: []string{"No .csv file found in the uploaded .zip."},
	})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "No .csv file found") {
		t.Error("warning not rendered")
	}
	if strings.Contains(out, `name="question"`) || strings.Contains(out, `name="file"`) {
		t.Error("selection and question controls must be hidden without CSV files")
	}
}

func TestPage_WithArchive(t *testing.T) {
	r, _ := NewRenderer()
	sess := sessionModel.New("s1")
	sess.ExtractedArchivePath = "/tmp/x"
	sess.ArchiveName = "data.zip"
	sess.AvailableFiles = []string{"a.csv", "b<script>.csv"}
	sess.SelectedFile = "a.csv"

	answer, _ := r.Markdown("**42**")
	var buf bytes.Buffer
	err := r.Page(&buf, PageData{
		Session:   sess,
		Question:  "total rows?",
		Answer:    answer,
		HasAnswer: true,
		Preview:   &analysis.Preview{File: "a.csv", Columns: []string{"x"}, Rows: [][]string{{"1"}}},
	})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	out := buf.String()
	for _, want := range []string{`<option value="a.csv" selected>`, "<strong>42</strong>", "total rows?", "<td>1</td>"} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(out, "b<script>.csv") {
		t.Error("file names must be escaped")
	}
}
