package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/scene-engine/pkg/player"
)

var ErrRunNotFound = errors.New("run not found")

// RunRecord is the archived result of a concluded session. It is a
// report only; sessions are never restored from it.
type RunRecord struct {
	ID         uuid.UUID      `json:"id"`
	Story      string         `json:"story"`
	Summary    player.Summary `json:"summary"`
	Pilot      string         `json:"pilot,omitempty"`
	Seed       string         `json:"seed,omitempty"`
	FinishedAt time.Time      `json:"finished_at"`
}

// Storage keeps the history of finished runs.
type Storage interface {
	Ping(ctx context.Context) error
	Close() error

	SaveRun(ctx context.Context, rec *RunRecord) error
	LoadRun(ctx context.Context, id uuid.UUID) (*RunRecord, error)
	// ListRuns returns up to limit runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]*RunRecord, error)
}
