package store

import (
	"context"
	"encoding/json"

	"github.com/akolanti/CSVAgent/internal/config"
	"github.com/akolanti/CSVAgent/internal/data/redisStore"
	"github.com/akolanti/CSVAgent/internal/domain/sessionModel"
	"github.com/akolanti/CSVAgent/pkg/logger_i"
)

const sessionKeyPrefix = "session:"

type RedisSessionStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisSessionStore(ctx context.Context, opts redisStore.Options) (*RedisSessionStore, error) {
	s, err := redisStore.GetRedisStore(ctx, opts, config.RedisSessionStore)
	if err != nil {
		return nil, err
	}
	return NewRedisSessionStore(s), nil
}

func NewRedisSessionStore(s *redisStore.Store) *RedisSessionStore {
	return &RedisSessionStore{
		store:  s,
		logger: logger_i.NewLogger("SessionStore"),
	}
}

func (s *RedisSessionStore) SaveSession(ctx context.Context, session sessionModel.SessionState) error {
	log := s.logger.FromContext(ctx).With("session Id", session.Id)
	log.Debug("saving session")
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, sessionKeyPrefix+session.Id, data, config.SessionTTL)
}

func (s *RedisSessionStore) GetSession(ctx context.Context, id string) (sessionModel.SessionState, bool) {
	var session sessionModel.SessionState
	log := s.logger.FromContext(ctx).With("session Id", id)
	val, err := s.store.Get(ctx, sessionKeyPrefix+id)
	if s.store.IsNil(err) {
		return session, false
	} else if err != nil {
		log.Error("Failed to read session", "err", err)
		return session, false
	}

	if err = json.Unmarshal([]byte(val), &session); err != nil {
		log.Error("Corrupt session payload", "err", err)
		return session, false
	}
	return session, true
}

func (s *RedisSessionStore) DeleteSession(ctx context.Context, id string) {
	if err := s.store.Del(ctx, sessionKeyPrefix+id); err != nil {
		s.logger.Error("Error deleting session from Redis", "session Id", id, "err", err)
	}
}
