package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/akolanti/CSVAgent/internal/adapter/utils"
	"github.com/akolanti/CSVAgent/internal/analysis"
	"github.com/akolanti/CSVAgent/internal/domain/sessionModel"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type ListFilesInput struct {
	ArchivePath string `json:"archive_path" jsonschema:"absolute path of a local .zip archive"`
}

type ListFilesOutput struct {
	Archive string   `json:"archive"`
	Files   []string `json:"files"`
}

type AskInput struct {
	ArchivePath string `json:"archive_path" jsonschema:"absolute path of a local .zip archive"`
	File        string `json:"file,omitempty" jsonschema:"CSV file inside the archive, defaults to the first one"`
	Question    string `json:"question" jsonschema:"natural language question about the file"`
}

type AskOutput struct {
	SourceFile string `json:"source_file"`
	Answer     string `json:"answer"`
	LogId      string `json:"log_id,omitempty"`
	LogError   string `json:"log_error,omitempty"`
}

// csvTools runs every tool call through one session, so each new archive replaces
// the previous extraction on disk.
type csvTools struct {
	service analysis.Service
	mu      sync.Mutex
	session sessionModel.SessionState
	loaded  string
}

func newCSVTools(service analysis.Service) *csvTools {
	return &csvTools{service: service, session: sessionModel.New(utils.GetNewUUID())}
}

func (t *csvTools) register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_csv_files",
		Description: "Extract a zip archive and list the CSV files it contains",
	}, t.listFiles)
	mcp.AddTool(server, &mcp.Tool{
		Name:        "ask_csv",
		Description: "Answer a question about one CSV file of a zip archive. The interaction is logged.",
	}, t.ask)
}

func (t *csvTools) listFiles(ctx context.Context, req *mcp.CallToolRequest, in ListFilesInput) (*mcp.CallToolResult, ListFilesOutput, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sess, err := t.load(ctx, in.ArchivePath)
	if err != nil {
		return nil, ListFilesOutput{}, err
	}
	return nil, ListFilesOutput{Archive: sess.ArchiveName, Files: sess.AvailableFiles}, nil
}

func (t *csvTools) ask(ctx context.Context, req *mcp.CallToolRequest, in AskInput) (*mcp.CallToolResult, AskOutput, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sess, err := t.load(ctx, in.ArchivePath)
	if err != nil {
		return nil, AskOutput{}, err
	}
	if in.File != "" {
		if sess, err = t.service.Select(ctx, sess, in.File); err != nil {
			return nil, AskOutput{}, toolError(err)
		}
		t.session = sess
	}

	out, err := t.service.Ask(ctx, sess, in.Question)
	if err != nil {
		return nil, AskOutput{}, toolError(err)
	}
	res := AskOutput{SourceFile: sess.SelectedFile, Answer: out.Answer, LogId: out.LogID}
	if out.LogErr != nil {
		res.LogError = analysis.UserMessage(out.LogErr)
	}
	return nil, res, nil
}

// load extracts the archive unless it is the one already loaded.
func (t *csvTools) load(ctx context.Context, archivePath string) (sessionModel.SessionState, error) {
	if !filepath.IsAbs(archivePath) {
		return t.session, fmt.Errorf("archive_path must be absolute, got %q", archivePath)
	}
	if t.session.HasArchive() && t.loaded == archivePath {
		return t.session, nil
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return t.session, fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return t.session, fmt.Errorf("stat archive: %w", err)
	}

	sess, err := t.service.Upload(ctx, t.session, filepath.Base(archivePath), f, info.Size())
	t.session, t.loaded = sess, ""
	if err != nil {
		return sess, toolError(err)
	}
	t.loaded = archivePath
	return sess, nil
}

func toolError(err error) error {
	return errors.New(analysis.UserMessage(err))
}
