package app

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jwebster45206/scene-engine/internal/config"
	"github.com/jwebster45206/scene-engine/internal/storage"
	"github.com/jwebster45206/scene-engine/pkg/dice"
	"github.com/jwebster45206/scene-engine/pkg/engine"
	"github.com/jwebster45206/scene-engine/pkg/minigame"
	"github.com/jwebster45206/scene-engine/pkg/player"
	"github.com/jwebster45206/scene-engine/pkg/stories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quiet = slog.New(slog.DiscardHandler)

func TestLoadGraph(t *testing.T) {
	games := minigame.DefaultRegistry()

	g, label, err := LoadGraph(&config.Config{Story: stories.Dungeon}, games)
	require.NoError(t, err)
	assert.Equal(t, "dungeon", label)
	assert.Equal(t, "Dark Dungeon", g.Name())

	_, _, err = LoadGraph(&config.Config{Story: "space"}, games)
	assert.ErrorIs(t, err, stories.ErrUnknownStory)

	file := filepath.Join(t.TempDir(), "cellar.yaml")
	require.NoError(t, os.WriteFile(file, []byte("name: Cellar\nstart: a\nscenes:\n  a:\n    description: Dark.\n"), 0644))
	g, label, err = LoadGraph(&config.Config{Story: stories.Jungle, SceneFile: file}, games)
	require.NoError(t, err)
	assert.Equal(t, "cellar", label)
	assert.Equal(t, "Cellar", g.Name())
}

func TestNewSource(t *testing.T) {
	assert.IsType(t, &dice.MathSource{}, NewSource("", "jungle", 0))

	a := NewSource("abc", "jungle", 1)
	b := NewSource("abc", "jungle", 1)
	for range 10 {
		assert.Equal(t, a.IntN(100), b.IntN(100))
	}
}

func TestOpenStorage(t *testing.T) {
	ctx := context.Background()

	store, err := OpenStorage(ctx, &config.Config{}, quiet)
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStorage{}, store)

	mr := miniredis.RunT(t)
	store, err = OpenStorage(ctx, &config.Config{RedisURL: mr.Addr(), HistoryTTL: time.Hour}, quiet)
	require.NoError(t, err)
	assert.IsType(t, &storage.RedisStorage{}, store)
	assert.NoError(t, store.Close())

	_, err = OpenStorage(ctx, &config.Config{RedisURL: "127.0.0.1:1", HistoryTTL: time.Hour}, quiet)
	assert.Error(t, err)
}

func TestRecordRun(t *testing.T) {
	ctx := context.Background()
	g, err := stories.Load(stories.Dungeon, minigame.DefaultRegistry())
	require.NoError(t, err)

	e := engine.New(g, minigame.DefaultRegistry(), dice.NewSequence(0), quiet)
	s := e.NewSession()
	require.NoError(t, e.CreateCharacter(s, "Ada", player.WildernessSurvivor))

	store := storage.NewMemoryStorage()
	_, err = RecordRun(ctx, store, e, s, "dungeon", "")
	assert.Error(t, err, "running sessions are not archived")

	for _, idx := range []int{1, 0} { // go right, take treasure
		_, err := e.ResolveChoice(s, idx)
		require.NoError(t, err)
	}

	rec, err := RecordRun(ctx, store, e, s, "dungeon", "seed-1")
	require.NoError(t, err)
	assert.Equal(t, s.ID, rec.ID)

	loaded, err := store.LoadRun(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "victory", loaded.Summary.Ending)
	assert.Equal(t, []string{"Gold Coins"}, loaded.Summary.Inventory)
	assert.Equal(t, "seed-1", loaded.Seed)
}
