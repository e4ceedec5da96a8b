package analysis

import (
	"errors"

	"github.com/akolanti/CSVAgent/internal/analysis/ingest"
)

type Kind int

const (
	KindProcessing Kind = iota
	KindValidation
	KindConnection
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConnection:
		return "connection"
	default:
		return "processing"
	}
}

var (
	ErrEmptyQuestion  = errors.New("please type a question")
	ErrNoSelection    = errors.New("no CSV file selected")
	ErrUnknownFile    = errors.New("file is not part of the uploaded archive")
	ErrDispatch       = errors.New("agent call could not be dispatched")
	ErrNotZip         = ingest.ErrNotZip
	ErrNoTabularFiles = ingest.ErrNoTabularFiles
)

// Error is what surfaces show to the user. Validation errors render as warnings,
// everything else as errors.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func validationError(err error, msg string) error {
	return &Error{Kind: KindValidation, Message: msg, Err: err}
}

func processingError(err error, msg string) error {
	return &Error{Kind: KindProcessing, Message: msg, Err: err}
}

// KindOf classifies any error returned by the service. Unclassified errors are
// processing failures.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindProcessing
}

// UserMessage is the text shown to the user for err.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Kind == KindValidation && e.Message != "" {
			return e.Message
		}
		return e.Error()
	}
	return err.Error()
}
