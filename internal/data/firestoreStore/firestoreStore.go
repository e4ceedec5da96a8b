package firestoreStore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/akolanti/CSVAgent/internal/config"
	"github.com/akolanti/CSVAgent/internal/domain/interactionModel"
	"github.com/akolanti/CSVAgent/pkg/logger_i"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Field names of the persisted document. They are the collection's existing schema
// and must not change.
const (
	fieldSourceFile = "arquivo_csv"
	fieldQuestion   = "pergunta"
	fieldAnswer     = "resposta"
	fieldTimestamp  = "timestamp"
)

var logger = logger_i.NewLogger("Firestore")

type Credentials struct {
	JSON      []byte
	ProjectID string
}

type Store struct {
	client     *firestore.Client
	collection string
}

var (
	connectOnce sync.Once
	connected   *Store
	connectErr  error
)

// Connect opens the firestore handle and probes it once. Repeated calls in the same
// process return the first result instead of opening a second client.
func Connect(ctx context.Context, creds Credentials) (*Store, error) {
	connectOnce.Do(func() {
		connected, connectErr = open(ctx, creds)
		if connectErr == nil {
			go closeOnDone(ctx, connected)
		}
	})
	return connected, connectErr
}

func open(ctx context.Context, creds Credentials) (*Store, error) {
	if len(creds.JSON) == 0 {
		return nil, errors.New("firestore credentials are empty")
	}
	projectID := creds.ProjectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}

	client, err := firestore.NewClient(ctx, projectID, option.WithCredentialsJSON(creds.JSON))
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}

	s := &Store{client: client, collection: config.InteractionCollection}
	if err = s.probe(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	logger.Info("Firestore connected", "collection", s.collection)
	return s, nil
}

// probe does one tiny read so bad credentials and unreachable networks fail at startup.
func (s *Store) probe(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, config.FirestoreProbeTimeout)
	defer cancel()

	iter := s.client.Collection(s.collection).Limit(1).Documents(probeCtx)
	defer iter.Stop()
	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("firestore probe: %w", err)
	}
	return nil
}

func closeOnDone(ctx context.Context, s *Store) {
	<-ctx.Done()
	logger.Info("Closing Firestore client")
	if err := s.client.Close(); err != nil {
		logger.Error("could not close Firestore", "error", err)
	}
}

// toDocument maps an interaction onto the stored shape. The timestamp is always the
// server-side sentinel.
func toDocument(entry interactionModel.InteractionLog) map[string]interface{} {
	return map[string]interface{}{
		fieldSourceFile: entry.SourceFile,
		fieldQuestion:   entry.Question,
		fieldAnswer:     entry.Answer,
		fieldTimestamp:  firestore.ServerTimestamp,
	}
}

func fromDocument(id string, data map[string]interface{}) interactionModel.InteractionLog {
	out := interactionModel.InteractionLog{Id: id}
	out.SourceFile, _ = data[fieldSourceFile].(string)
	out.Question, _ = data[fieldQuestion].(string)
	out.Answer, _ = data[fieldAnswer].(string)
	if ts, ok := data[fieldTimestamp].(time.Time); ok {
		out.CreatedAt = ts.UTC()
	}
	return out
}

func (s *Store) Append(ctx context.Context, entry interactionModel.InteractionLog) (string, error) {
	ref := s.client.Collection(s.collection).NewDoc()
	if _, err := ref.Set(ctx, toDocument(entry)); err != nil {
		return "", fmt.Errorf("write interaction: %w", err)
	}
	logger.FromContext(ctx).Debug("Interaction logged", "id", ref.ID)
	return ref.ID, nil
}

func (s *Store) List(ctx context.Context, limit int) ([]interactionModel.InteractionLog, error) {
	iter := s.client.Collection(s.collection).
		OrderBy(fieldTimestamp, firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var out []interactionModel.InteractionLog
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list interactions: %w", err)
		}
		out = append(out, fromDocument(snap.Ref.ID, snap.Data()))
	}
	return out, nil
}
