package store

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/CSVAgent/internal/adapter/utils"
	"github.com/akolanti/CSVAgent/internal/domain/interactionModel"
)

// InMemoryInteractionStore is the document store for local runs and tests. The
// process clock is the server clock here.
type InMemoryInteractionStore struct {
	lock    *sync.RWMutex
	records []interactionModel.InteractionLog
	now     func() time.Time
}

func InitInMemoryInteractionStore() *InMemoryInteractionStore {
	return &InMemoryInteractionStore{
		lock: new(sync.RWMutex),
		now:  time.Now,
	}
}

func (store *InMemoryInteractionStore) Append(ctx context.Context, entry interactionModel.InteractionLog) (string, error) {
	store.lock.Lock()
	defer store.lock.Unlock()
	entry.Id = utils.GetNewUUID()
	entry.CreatedAt = store.now().UTC()
	store.records = append(store.records, entry)
	return entry.Id, nil
}

// List returns up to limit records, newest first.
func (store *InMemoryInteractionStore) List(ctx context.Context, limit int) ([]interactionModel.InteractionLog, error) {
	store.lock.RLock()
	defer store.lock.RUnlock()
	out := make([]interactionModel.InteractionLog, 0, min(limit, len(store.records)))
	for i := len(store.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, store.records[i])
	}
	return out, nil
}

func (store *InMemoryInteractionStore) Len() int {
	store.lock.RLock()
	defer store.lock.RUnlock()
	return len(store.records)
}
