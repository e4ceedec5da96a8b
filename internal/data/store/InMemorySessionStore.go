package store

import (
	"context"
	"slices"
	"sync"

	"github.com/akolanti/CSVAgent/internal/domain/sessionModel"
)

type InMemorySessionStore struct {
	lock     *sync.RWMutex
	sessions map[string]sessionModel.SessionState
}

func InitInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{
		lock:     new(sync.RWMutex),
		sessions: make(map[string]sessionModel.SessionState),
	}
}

func (store *InMemorySessionStore) SaveSession(ctx context.Context, session sessionModel.SessionState) error {
	store.lock.Lock()
	defer store.lock.Unlock()
	session.AvailableFiles = slices.Clone(session.AvailableFiles)
	store.sessions[session.Id] = session
	return nil
}

func (store *InMemorySessionStore) GetSession(ctx context.Context, id string) (sessionModel.SessionState, bool) {
	store.lock.RLock()
	defer store.lock.RUnlock()
	result, found := store.sessions[id]
	result.AvailableFiles = slices.Clone(result.AvailableFiles)
	return result, found
}

func (store *InMemorySessionStore) DeleteSession(ctx context.Context, id string) {
	store.lock.Lock()
	defer store.lock.Unlock()
	delete(store.sessions, id)
}
