package scene

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is the authored, serializable form of a scene graph.
type Definition struct {
	Name       string                 `json:"name" yaml:"name"`
	Start      ID                     `json:"start" yaml:"start"`
	Conclusion ID                     `json:"conclusion,omitempty" yaml:"conclusion,omitempty"` // Scene entered when the player dies
	Rounds     *RoundsDefinition      `json:"rounds,omitempty" yaml:"rounds,omitempty"`
	Scenes     map[ID]SceneDefinition `json:"scenes" yaml:"scenes"`
}

// RoundsDefinition bounds exploration: every resolution that starts at
// Hub counts as one round, and after Max rounds the session moves to Final.
type RoundsDefinition struct {
	Hub   ID  `json:"hub" yaml:"hub"`
	Max   int `json:"max" yaml:"max"`
	Final ID  `json:"final" yaml:"final"`
}

// SceneDefinition is the serializable form of a Scene.
type SceneDefinition struct {
	Title       string             `json:"title,omitempty" yaml:"title,omitempty"`
	Description string             `json:"description" yaml:"description"`
	Ending      string             `json:"ending,omitempty" yaml:"ending,omitempty"`
	Options     []OptionDefinition `json:"options,omitempty" yaml:"options,omitempty"`
}

// OptionDefinition sets exactly one of Scene or MiniGame.
type OptionDefinition struct {
	Label     string     `json:"label" yaml:"label"`
	Scene     ID         `json:"scene,omitempty" yaml:"scene,omitempty"`
	MiniGame  MiniGameID `json:"minigame,omitempty" yaml:"minigame,omitempty"`
	Param     string     `json:"param,omitempty" yaml:"param,omitempty"`
	Next      ID         `json:"next,omitempty" yaml:"next,omitempty"`
	OnSuccess ID         `json:"on_success,omitempty" yaml:"on_success,omitempty"`
	OnFailure ID         `json:"on_failure,omitempty" yaml:"on_failure,omitempty"`
}

// Decode parses a definition. The format is picked from the file
// extension (.json, .yaml, .yml). Unknown fields are rejected.
func Decode(filename string, data []byte) (*Definition, error) {
	var def Definition
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", filename, err)
		}
	default:
		return nil, fmt.Errorf("unsupported scene file extension: %s", filename)
	}
	return &def, nil
}
