package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	runKeyPrefix = "run:"
	runIndexKey  = "runs"
)

// RedisStorage implements Storage with one JSON value per run and a
// sorted set indexing runs by finish time.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// Ensure RedisStorage implements Storage interface
var _ Storage = (*RedisStorage)(nil)

// NewRedisStorage accepts either a redis:// URL or a bare host:port.
func NewRedisStorage(redisURL string, ttl time.Duration, logger *slog.Logger) (*RedisStorage, error) {
	var opt *redis.Options
	if strings.Contains(redisURL, "://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}
		opt = parsed
	} else {
		opt = &redis.Options{Addr: redisURL}
	}

	return &RedisStorage{
		client: redis.NewClient(opt),
		logger: logger,
		ttl:    ttl,
	}, nil
}

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

func (r *RedisStorage) SaveRun(ctx context.Context, rec *RunRecord) error {
	if rec.FinishedAt.IsZero() {
		rec.FinishedAt = time.Now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		r.logger.Error("Failed to marshal run", "run_id", rec.ID, "error", err)
		return fmt.Errorf("failed to marshal run: %w", err)
	}

	key := runKeyPrefix + rec.ID.String()
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, key, data, r.ttl)
		pipe.ZAdd(ctx, runIndexKey, redis.Z{
			Score:  float64(rec.FinishedAt.UnixMilli()),
			Member: rec.ID.String(),
		})
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to save run", "run_id", rec.ID, "error", err)
		return fmt.Errorf("failed to save run: %w", err)
	}

	r.logger.Debug("Run saved", "run_id", rec.ID, "story", rec.Story)
	return nil
}

func (r *RedisStorage) LoadRun(ctx context.Context, id uuid.UUID) (*RunRecord, error) {
	data, err := r.client.Get(ctx, runKeyPrefix+id.String()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	var rec RunRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run: %w", err)
	}
	return &rec, nil
}

// ListRuns drops index entries whose run has expired.
func (r *RedisStorage) ListRuns(ctx context.Context, limit int) ([]*RunRecord, error) {
	if limit <= 0 {
		return []*RunRecord{}, nil
	}

	ids, err := r.client.ZRevRange(ctx, runIndexKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*RunRecord, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			r.logger.Warn("Invalid run id in index", "run_id", raw, "error", err)
			continue
		}
		rec, err := r.LoadRun(ctx, id)
		if errors.Is(err, ErrRunNotFound) {
			if err := r.client.ZRem(ctx, runIndexKey, raw).Err(); err != nil {
				r.logger.Warn("Failed to prune expired run", "run_id", raw, "error", err)
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		runs = append(runs, rec)
	}
	return runs, nil
}
