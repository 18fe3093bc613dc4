package stories

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jwebster45206/scene-engine/pkg/minigame"
	"github.com/jwebster45206/scene-engine/pkg/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_BuiltIns(t *testing.T) {
	games := minigame.DefaultRegistry()
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			g, err := Load(name, games)
			require.NoError(t, err)
			assert.NotEmpty(t, g.SceneIDs())
		})
	}
}

func TestLoad_Jungle(t *testing.T) {
	g, err := Load(Jungle, minigame.DefaultRegistry())
	require.NoError(t, err)

	rounds, ok := g.Rounds()
	require.True(t, ok)
	assert.Equal(t, 3, rounds.Max)
	assert.Equal(t, scene.ID("jungle"), rounds.Hub)

	hub, _ := g.Scene("jungle")
	assert.Equal(t, []string{"Hunt for food", "Search for water", "Look for shelter", "Investigate strange sounds"}, hub.Labels())
	assert.Equal(t, []scene.MiniGameID{
		minigame.FinalChallenge, minigame.Hunting, minigame.InvestigateSounds, minigame.Shelter, minigame.WaterSearch,
	}, g.MiniGames())
}

func TestLoad_DungeonFightIsWired(t *testing.T) {
	g, err := Load(Dungeon, minigame.DefaultRegistry())
	require.NoError(t, err)

	_, hasRounds := g.Rounds()
	assert.False(t, hasRounds)

	fight, ok := g.Scene("fight_outcome")
	require.True(t, ok)
	require.NotEmpty(t, fight.Options)
	for _, o := range fight.Options[:2] {
		assert.Equal(t, minigame.MonsterFight, o.Target.MiniGame)
	}
	assert.Equal(t, scene.ID("monster_slain"), fight.Options[0].Target.After(true))
}

func TestLoad_Unknown(t *testing.T) {
	_, err := Load("space", minigame.DefaultRegistry())
	assert.ErrorIs(t, err, ErrUnknownStory)
}

func TestLoad_MissingMiniGames(t *testing.T) {
	_, err := Load(Jungle, minigame.NewRegistry())
	var integrityErr *scene.GraphIntegrityError
	assert.ErrorAs(t, err, &integrityErr)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "tiny.yaml")
	require.NoError(t, os.WriteFile(good, []byte("name: Tiny\nstart: a\nscenes:\n  a:\n    description: Only room.\n"), 0644))

	g, err := LoadFile(good, minigame.DefaultRegistry())
	require.NoError(t, err)
	assert.Equal(t, "Tiny", g.Name())

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"name": "Bad", "start": "missing", "scenes": {"a": {"description": "x"}}}`), 0644))
	_, err = LoadFile(bad, minigame.DefaultRegistry())
	var integrityErr *scene.GraphIntegrityError
	assert.ErrorAs(t, err, &integrityErr)

	_, err = LoadFile(filepath.Join(dir, "nope.json"), minigame.DefaultRegistry())
	assert.Error(t, err)
}
