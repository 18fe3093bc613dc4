package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jwebster45206/scene-engine/pkg/minigame"
	"github.com/jwebster45206/scene-engine/pkg/stories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeStory(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func newValidator() *StoryValidator {
	return &StoryValidator{games: minigame.DefaultRegistry()}
}

func TestValidateBuiltinStories(t *testing.T) {
	for _, name := range stories.Names() {
		t.Run(name, func(t *testing.T) {
			def, err := stories.Definition(name)
			require.NoError(t, err)
			v := newValidator()
			assert.NoError(t, v.validateDefinition(def, name))
			assert.Empty(t, v.warnings)
		})
	}
}

func TestValidateFile_Filename(t *testing.T) {
	v := newValidator()

	err := v.validateFile(writeStory(t, "cellar.txt", "{}"))
	assert.ErrorContains(t, err, "extension")

	err = v.validateFile(writeStory(t, "Dark-Cellar.json", "{}"))
	assert.ErrorContains(t, err, "snake_case")

	err = v.validateFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "failed to read")
}

func TestValidateFile_Valid(t *testing.T) {
	v := newValidator()
	path := writeStory(t, "x.cellar.yaml", `
name: Cellar
start: stairs
scenes:
  stairs:
    description: Stone steps lead down.
    options:
      - label: Fight the rat
        minigame: monster_fight
        param: defend
        next: bottom
  bottom:
    description: You made it.
`)
	assert.NoError(t, v.validateFile(path))
	assert.Empty(t, v.warnings)
}

func TestValidateFile_Problems(t *testing.T) {
	v := newValidator()
	path := writeStory(t, "broken.json", `{
  "name": "Broken",
  "start": "Hall",
  "scenes": {
    "Hall": {
      "description": "A hall.",
      "options": [
        { "label": " ", "scene": "nowhere" },
        { "label": "Swing", "minigame": "monster_fight", "param": "dance", "next": "Hall" }
      ]
    },
    "attic": { "description": "Dusty." }
  }
}`)

	err := v.validateFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scene ID 'Hall' should be lowercase snake_case")
	assert.Contains(t, err.Error(), "scene Hall option 1 has an empty label")
	assert.Contains(t, err.Error(), "nowhere")

	assert.Contains(t, v.warnings, `scene Hall option 2 param "dance" is not "attack" or "defend" and will be played as an attack`)
	assert.Contains(t, v.warnings, "scene attic is unreachable from Hall")
}

func TestValidateFile_UnknownField(t *testing.T) {
	v := newValidator()
	err := v.validateFile(writeStory(t, "extra.json", `{"name": "X", "start": "a", "colour": "red", "scenes": {"a": {"description": "A."}}}`))
	assert.Error(t, err)
}

func TestIsValidID(t *testing.T) {
	assert.True(t, isValidID("monster_room"))
	assert.True(t, isValidID("a"))
	assert.False(t, isValidID("Monster"))
	assert.False(t, isValidID("trap_"))
	assert.False(t, isValidID("9lives"))
}
