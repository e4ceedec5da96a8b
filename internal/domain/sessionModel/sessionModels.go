package sessionModel

import (
	"context"
	"slices"
	"time"
)

// SessionState is everything one browser session carries between actions.
// SelectedFile is either empty or a member of AvailableFiles.
type SessionState struct {
	Id                   string    `json:"id"`
	ExtractedArchivePath string    `json:"extracted_archive_path,omitempty"`
	ArchiveName          string    `json:"archive_name,omitempty"`
	AvailableFiles       []string  `json:"available_files"`
	SelectedFile         string    `json:"selected_file,omitempty"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func New(id string) SessionState {
	return SessionState{Id: id, AvailableFiles: []string{}, UpdatedAt: time.Now()}
}

func (s SessionState) HasFile(name string) bool {
	return slices.Contains(s.AvailableFiles, name)
}

// HasArchive reports whether an upload produced at least one tabular file.
func (s SessionState) HasArchive() bool {
	return s.ExtractedArchivePath != "" && len(s.AvailableFiles) > 0
}

type SessionStore interface {
	GetSession(ctx context.Context, id string) (SessionState, bool)
	SaveSession(ctx context.Context, session SessionState) error
	DeleteSession(ctx context.Context, id string)
}
