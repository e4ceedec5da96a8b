package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/akolanti/CSVAgent/internal/adapter/utils"
	"github.com/akolanti/CSVAgent/internal/config"
	"github.com/akolanti/CSVAgent/internal/data/redisStore"
	"github.com/akolanti/CSVAgent/internal/domain/interactionModel"
	"github.com/akolanti/CSVAgent/pkg/logger_i"
)

const interactionIndexKey = config.InteractionCollection + ":index"

// RedisInteractionStore keeps each interaction as a hash under
// "<collection>:<id>" and an LPUSH index of keys, newest first.
type RedisInteractionStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisInteractionStore(ctx context.Context, opts redisStore.Options) (*RedisInteractionStore, error) {
	s, err := redisStore.GetRedisStore(ctx, opts, config.RedisInteractionStore)
	if err != nil {
		return nil, err
	}
	return NewRedisInteractionStore(s), nil
}

func NewRedisInteractionStore(s *redisStore.Store) *RedisInteractionStore {
	return &RedisInteractionStore{
		store:  s,
		logger: logger_i.NewLogger("InteractionStore"),
	}
}

func (s *RedisInteractionStore) Append(ctx context.Context, entry interactionModel.InteractionLog) (string, error) {
	now, err := s.store.ServerTime(ctx)
	if err != nil {
		return "", fmt.Errorf("read redis server time: %w", err)
	}

	id := utils.GetNewUUID()
	key := config.InteractionCollection + ":" + id
	fields := map[string]interface{}{
		"source_file": entry.SourceFile,
		"question":    entry.Question,
		"answer":      entry.Answer,
		"created_at":  strconv.FormatInt(now.UnixMicro(), 10),
	}
	if err = s.store.AppendRecord(ctx, interactionIndexKey, key, fields); err != nil {
		return "", fmt.Errorf("append interaction: %w", err)
	}
	s.logger.FromContext(ctx).Debug("Interaction logged", "id", id)
	return id, nil
}

func (s *RedisInteractionStore) List(ctx context.Context, limit int) ([]interactionModel.InteractionLog, error) {
	keys, err := s.store.ListHead(ctx, interactionIndexKey, int64(limit))
	if err != nil {
		return nil, err
	}

	out := make([]interactionModel.InteractionLog, 0, len(keys))
	for _, key := range keys {
		fields, err := s.store.HashGetAll(ctx, key)
		if err != nil {
			return nil, err
		}
		if len(fields) == 0 {
			continue
		}
		micros, _ := strconv.ParseInt(fields["created_at"], 10, 64)
		out = append(out, interactionModel.InteractionLog{
			Id:         key[len(config.InteractionCollection)+1:],
			SourceFile: fields["source_file"],
			Question:   fields["question"],
			Answer:     fields["answer"],
			CreatedAt:  time.UnixMicro(micros).UTC(),
		})
	}
	return out, nil
}
