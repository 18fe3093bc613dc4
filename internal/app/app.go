// Package app wires configuration to the engine for the command-line tools.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/jwebster45206/scene-engine/internal/config"
	"github.com/jwebster45206/scene-engine/internal/storage"
	"github.com/jwebster45206/scene-engine/pkg/dice"
	"github.com/jwebster45206/scene-engine/pkg/engine"
	"github.com/jwebster45206/scene-engine/pkg/scene"
	"github.com/jwebster45206/scene-engine/pkg/stories"
)

// LoadGraph builds the graph named by cfg. SceneFile wins over Story.
// The returned label identifies the story in run history.
func LoadGraph(cfg *config.Config, games scene.MiniGameSet) (*scene.Graph, string, error) {
	if cfg.SceneFile != "" {
		g, err := stories.LoadFile(cfg.SceneFile, games)
		if err != nil {
			return nil, "", err
		}
		label := strings.TrimSuffix(filepath.Base(cfg.SceneFile), filepath.Ext(cfg.SceneFile))
		return g, label, nil
	}
	g, err := stories.Load(cfg.Story, games)
	if err != nil {
		return nil, "", err
	}
	return g, cfg.Story, nil
}

// NewSource returns a replayable HMAC source when seed is set and a
// clock-seeded source otherwise.
func NewSource(seed, salt string, nonce uint64) dice.Source {
	if seed == "" {
		return dice.NewTimeSource()
	}
	return dice.NewHMACSource(seed, salt, nonce)
}

// OpenStorage connects to Redis when configured, otherwise keeps run
// history in memory.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	if cfg.RedisURL == "" {
		logger.Info("No REDIS_URL set, keeping run history in memory")
		return storage.NewMemoryStorage(), nil
	}

	store, err := storage.NewRedisStorage(cfg.RedisURL, cfg.HistoryTTL, logger)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := store.Ping(pingCtx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to connect to run history: %w", err)
	}
	logger.Info("Run history connected", "redis_url", cfg.RedisURL)
	return store, nil
}

// RecordRun archives a concluded session.
func RecordRun(ctx context.Context, store storage.Storage, e *engine.Engine, s *engine.Session, story, seed string) (*storage.RunRecord, error) {
	if !e.IsTerminal(s) {
		return nil, fmt.Errorf("session %s has not concluded", s.ID)
	}
	rec := &storage.RunRecord{
		ID:         s.ID,
		Story:      story,
		Summary:    e.Summary(s),
		Pilot:      s.Pilot,
		Seed:       seed,
		FinishedAt: time.Now(),
	}
	if err := store.SaveRun(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}
