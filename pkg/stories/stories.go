package stories

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path"

	"github.com/jwebster45206/scene-engine/pkg/scene"
)

//go:embed data/jungle.json data/dungeon.yaml
var files embed.FS

// Built-in story names.
const (
	Jungle  = "jungle"
	Dungeon = "dungeon"
)

var ErrUnknownStory = errors.New("unknown story")

var fileNames = map[string]string{
	Jungle:  "jungle.json",
	Dungeon: "dungeon.yaml",
}

// Names lists the built-in stories.
func Names() []string {
	return []string{Jungle, Dungeon}
}

// Definition decodes a built-in story.
func Definition(name string) (*scene.Definition, error) {
	file, ok := fileNames[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStory, name)
	}
	data, err := files.ReadFile(path.Join("data", file))
	if err != nil {
		return nil, fmt.Errorf("failed to read story %q: %w", name, err)
	}
	return scene.Decode(file, data)
}

// Load decodes and validates a built-in story.
func Load(name string, games scene.MiniGameSet) (*scene.Graph, error) {
	def, err := Definition(name)
	if err != nil {
		return nil, err
	}
	return scene.BuildGraph(def, games)
}

// LoadFile decodes and validates a story file from disk.
func LoadFile(filename string, games scene.MiniGameSet) (*scene.Graph, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	def, err := scene.Decode(filename, data)
	if err != nil {
		return nil, err
	}
	return scene.BuildGraph(def, games)
}
