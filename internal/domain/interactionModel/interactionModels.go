package interactionModel

import (
	"context"
	"time"
)

// InteractionLog is one question/answer cycle. CreatedAt is assigned by the store
// at write time, never by the caller.
type InteractionLog struct {
	Id         string    `json:"id"`
	SourceFile string    `json:"source_file"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	CreatedAt  time.Time `json:"created_at"`
}

// Recorder is the append-only document store handle. Append writes exactly one new
// record under a fresh id and returns that id.
type Recorder interface {
	Append(ctx context.Context, entry InteractionLog) (string, error)
	List(ctx context.Context, limit int) ([]InteractionLog, error)
}
