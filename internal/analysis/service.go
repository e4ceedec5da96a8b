package analysis

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/CSVAgent/internal/adapter/utils"
	"github.com/akolanti/CSVAgent/internal/analysis/agent"
	"github.com/akolanti/CSVAgent/internal/analysis/ingest"
	"github.com/akolanti/CSVAgent/internal/analysis/sandbox"
	"github.com/akolanti/CSVAgent/internal/config"
	"github.com/akolanti/CSVAgent/internal/domain/interactionModel"
	"github.com/akolanti/CSVAgent/internal/domain/sessionModel"
	"github.com/akolanti/CSVAgent/pkg/logger_i"
)

// Service is the whole pipeline: ingest an archive into a session, pick a file, ask
// about it, log the interaction. Surfaces only ever talk to this.
type Service interface {
	Session(ctx context.Context, id string) sessionModel.SessionState
	Upload(ctx context.Context, sess sessionModel.SessionState, archiveName string, r io.ReaderAt, size int64) (sessionModel.SessionState, error)
	Select(ctx context.Context, sess sessionModel.SessionState, file string) (sessionModel.SessionState, error)
	Ask(ctx context.Context, sess sessionModel.SessionState, question string) (Outcome, error)
	Preview(ctx context.Context, sess sessionModel.SessionState, rows int) (Preview, error)
	Recent(ctx context.Context, limit int) ([]interactionModel.InteractionLog, error)
}

// Dispatcher runs fn somewhere bounded and waits for it.
type Dispatcher interface {
	Submit(ctx context.Context, fn func(ctx context.Context)) error
}

// Outcome of a successful Ask. LogErr is set when the answer was produced but the
// interaction could not be recorded.
type Outcome struct {
	Answer string
	LogID  string
	LogErr error
}

type Preview struct {
	File      string
	Columns   []string
	Rows      [][]string
	Truncated bool
}

type Deps struct {
	Agent      agent.Agent
	Recorder   interactionModel.Recorder
	Sessions   sessionModel.SessionStore
	Executor   sandbox.Executor
	Dispatcher Dispatcher
	ScratchDir string
	Limits     ingest.Limits
}

type service struct {
	agent      agent.Agent
	recorder   interactionModel.Recorder
	sessions   sessionModel.SessionStore
	executor   sandbox.Executor
	dispatcher Dispatcher
	scratchDir string
	limits     ingest.Limits
	logger     *logger_i.Logger
}

func NewService(d Deps) Service {
	if d.ScratchDir == "" {
		d.ScratchDir = config.DefaultScratchDir
	}
	if d.Limits == (ingest.Limits{}) {
		d.Limits = ingest.DefaultLimits()
	}
	if d.Dispatcher == nil {
		d.Dispatcher = inline{}
	}
	return &service{
		agent:      d.Agent,
		recorder:   d.Recorder,
		sessions:   d.Sessions,
		executor:   d.Executor,
		dispatcher: d.Dispatcher,
		scratchDir: d.ScratchDir,
		limits:     d.Limits,
		logger:     logger_i.NewLogger("analysis"),
	}
}

func (s *service) Session(ctx context.Context, id string) sessionModel.SessionState {
	if sess, ok := s.sessions.GetSession(ctx, id); ok {
		return sess
	}
	return sessionModel.New(id)
}

func (s *service) Upload(ctx context.Context, sess sessionModel.SessionState, archiveName string, r io.ReaderAt, size int64) (sessionModel.SessionState, error) {
	log := s.logger.FromContext(ctx)
	dest := filepath.Join(s.scratchDir, sess.Id, utils.GetNewUUID())

	res, err := s.executeExtractStep(ctx, r, size, dest)
	if err != nil && !errors.Is(err, ingest.ErrNoTabularFiles) {
		log.Warn("Archive rejected", "archive", archiveName, "error", err)
		return sess, validationError(err, rejectMessage(err))
	}

	previous := sess.ExtractedArchivePath
	sess.ExtractedArchivePath = res.Root
	sess.ArchiveName = archiveName
	sess.AvailableFiles = res.Files
	sess.SelectedFile = ""
	if len(res.Files) > 0 {
		sess.SelectedFile = res.Files[0]
	}
	sess.UpdatedAt = time.Now()

	if saveErr := s.sessions.SaveSession(ctx, sess); saveErr != nil {
		_ = os.RemoveAll(res.Root)
		return sess, &Error{Kind: KindConnection, Message: "could not save the session", Err: saveErr}
	}
	s.removeExtraction(ctx, previous)

	if err != nil {
		return sess, validationError(err, "No .csv file found in the uploaded .zip.")
	}
	log.Info("Archive ingested", "archive", archiveName, "files", len(res.Files))
	return sess, nil
}

func rejectMessage(err error) string {
	switch {
	case errors.Is(err, ingest.ErrNotZip):
		return "The uploaded file is not a valid .zip archive."
	case errors.Is(err, ingest.ErrUnsafePath):
		return "The archive contains paths outside its own folder and was rejected."
	case errors.Is(err, ingest.ErrTooManyEntries), errors.Is(err, ingest.ErrTooLarge):
		return "The archive is too large to process."
	default:
		return "The archive could not be extracted."
	}
}

func (s *service) Select(ctx context.Context, sess sessionModel.SessionState, file string) (sessionModel.SessionState, error) {
	if !sess.HasFile(file) {
		return sess, validationError(ErrUnknownFile, "Choose one of the CSV files from the uploaded archive.")
	}
	sess.SelectedFile = file
	sess.UpdatedAt = time.Now()
	if err := s.sessions.SaveSession(ctx, sess); err != nil {
		return sess, &Error{Kind: KindConnection, Message: "could not save the session", Err: err}
	}
	return sess, nil
}

func (s *service) Ask(ctx context.Context, sess sessionModel.SessionState, question string) (Outcome, error) {
	log := s.logger.FromContext(ctx)

	if strings.TrimSpace(question) == "" {
		return Outcome{}, validationError(ErrEmptyQuestion, "Please type a question.")
	}
	path, err := s.selectedPath(sess)
	if err != nil {
		return Outcome{}, err
	}

	answer, err := s.executeAgentStep(ctx, path, question)
	if err != nil {
		log.Error("Agent failed", "file", sess.SelectedFile, "error", err)
		return Outcome{}, processingError(err, "An error occurred while processing your question")
	}

	out := Outcome{Answer: answer}
	out.LogID, out.LogErr = s.executeLogStep(ctx, interactionModel.InteractionLog{
		SourceFile: sess.SelectedFile,
		Question:   question,
		Answer:     answer,
	})
	if out.LogErr != nil {
		log.Error("Interaction not logged", "error", out.LogErr)
		out.LogErr = &Error{Kind: KindConnection, Message: "The answer could not be saved to the interaction log", Err: out.LogErr}
	}
	return out, nil
}

func (s *service) Preview(ctx context.Context, sess sessionModel.SessionState, rows int) (Preview, error) {
	if rows <= 0 {
		rows = config.DefaultPreviewRows
	}
	if rows > config.MaxPreviewRows {
		rows = config.MaxPreviewRows
	}
	path, err := s.selectedPath(sess)
	if err != nil {
		return Preview{}, err
	}

	table, err := s.executePreviewStep(ctx, path, rows)
	if err != nil {
		return Preview{}, processingError(err, "Could not read the selected CSV")
	}
	return Preview{File: sess.SelectedFile, Columns: table.Columns, Rows: table.Rows, Truncated: table.Truncated}, nil
}

func (s *service) Recent(ctx context.Context, limit int) ([]interactionModel.InteractionLog, error) {
	if limit <= 0 || limit > config.MaxInteractionsPage {
		limit = config.MaxInteractionsPage
	}
	logs, err := s.recorder.List(ctx, limit)
	if err != nil {
		return nil, &Error{Kind: KindConnection, Message: "could not read the interaction log", Err: err}
	}
	return logs, nil
}
