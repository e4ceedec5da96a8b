package analysis

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/CSVAgent/internal/analysis/ingest"
	"github.com/akolanti/CSVAgent/internal/analysis/sandbox"
	"github.com/akolanti/CSVAgent/internal/domain/interactionModel"
	"github.com/akolanti/CSVAgent/internal/domain/sessionModel"
	"github.com/akolanti/CSVAgent/internal/metrics"
)

type inline struct{}

func (inline) Submit(ctx context.Context, fn func(ctx context.Context)) error {
	fn(ctx)
	return nil
}

// selectedPath resolves the session's selected file on disk.
func (s *service) selectedPath(sess sessionModel.SessionState) (string, error) {
	if !sess.HasArchive() || sess.SelectedFile == "" {
		return "", validationError(ErrNoSelection, "Upload a .zip and choose a CSV file first.")
	}
	if !sess.HasFile(sess.SelectedFile) {
		return "", validationError(ErrUnknownFile, "Choose one of the CSV files from the uploaded archive.")
	}
	path := filepath.Join(sess.ExtractedArchivePath, filepath.FromSlash(sess.SelectedFile))
	if _, err := os.Stat(path); err != nil {
		return "", processingError(err, "The selected CSV is no longer available, upload the archive again")
	}
	return path, nil
}

// removeExtraction deletes a previous upload of the session. Only paths inside the
// scratch directory are touched.
func (s *service) removeExtraction(ctx context.Context, dir string) {
	if dir == "" {
		return
	}
	root, err := filepath.Abs(s.scratchDir)
	if err != nil {
		return
	}
	abs, err := filepath.Abs(dir)
	if err != nil || !strings.HasPrefix(abs, root+string(filepath.Separator)) {
		s.logger.FromContext(ctx).Warn("Refusing to remove path outside scratch dir", "path", dir)
		return
	}
	if err := os.RemoveAll(abs); err != nil {
		s.logger.FromContext(ctx).Warn("Could not remove previous extraction", "path", dir, "error", err)
	}
}

func (s *service) executeExtractStep(ctx context.Context, r io.ReaderAt, size int64, dest string) (ingest.Result, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("extract", time.Since(start)) }()

	res, err := ingest.Extract(ctx, r, size, dest, s.limits)
	switch {
	case err == nil:
		metrics.RecordArchive("ok")
	case errors.Is(err, ingest.ErrNoTabularFiles):
		metrics.RecordArchive("empty")
	default:
		metrics.RecordArchive("rejected")
	}
	return res, err
}

func (s *service) executeAgentStep(ctx context.Context, path string, question string) (string, error) {
	var (
		answer string
		askErr error
	)
	start := time.Now()
	submitErr := s.dispatcher.Submit(ctx, func(ctx context.Context) {
		answer, askErr = s.agent.Ask(ctx, path, question)
	})
	// on a submit error the task may still be running; its results are not ours to read
	if submitErr != nil {
		metrics.CaptureAgentMetrics(s.agent.Name(), "error", time.Since(start))
		return "", fmt.Errorf("%w: %w", ErrDispatch, submitErr)
	}
	status := "ok"
	if askErr != nil {
		status = "error"
	}
	metrics.CaptureAgentMetrics(s.agent.Name(), status, time.Since(start))
	return answer, askErr
}

func (s *service) executeLogStep(ctx context.Context, entry interactionModel.InteractionLog) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("log_write", time.Since(start)) }()

	id, err := s.recorder.Append(ctx, entry)
	if err != nil {
		metrics.RecordInteraction("error")
		return "", err
	}
	metrics.RecordInteraction("ok")
	return id, nil
}

func (s *service) executePreviewStep(ctx context.Context, path string, rows int) (sandbox.Table, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("preview", time.Since(start)) }()

	session, err := s.executor.Open(ctx, path)
	if err != nil {
		return sandbox.Table{}, err
	}
	defer session.Close()
	return session.Query(ctx, fmt.Sprintf("SELECT * FROM data LIMIT %d", rows+1), rows)
}
