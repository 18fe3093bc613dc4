package scene

import "slices"

// ID identifies a scene within a graph.
type ID string

// MiniGameID identifies a registered mini-game.
type MiniGameID string

// TargetKind tags what an Option leads to.
type TargetKind int

const (
	TargetScene TargetKind = iota
	TargetMiniGame
)

func (k TargetKind) String() string {
	switch k {
	case TargetScene:
		return "scene"
	case TargetMiniGame:
		return "minigame"
	default:
		return "unknown"
	}
}

// Target is where an Option leads: straight to a scene, or through a
// mini-game whose outcome picks the next scene.
type Target struct {
	Kind     TargetKind
	Scene    ID         // TargetScene only
	MiniGame MiniGameID // TargetMiniGame only
	Param    string     // optional sub-option handed to the mini-game

	Next      ID // scene after the mini-game
	OnSuccess ID // overrides Next when the mini-game succeeds
	OnFailure ID // overrides Next when the mini-game fails
}

// After returns the scene to move to once the mini-game has finished.
func (t Target) After(success bool) ID {
	if success && t.OnSuccess != "" {
		return t.OnSuccess
	}
	if !success && t.OnFailure != "" {
		return t.OnFailure
	}
	return t.Next
}

// Option is one player-facing choice at a scene.
type Option struct {
	Label  string
	Target Target
}

// Scene is one narrative beat. Description is opaque to the engine.
type Scene struct {
	ID          ID
	Title       string
	Description string
	Options     []Option
	Ending      string // set on leaf scenes, e.g. "victory"
}

// IsLeaf reports whether the scene offers no options.
func (s Scene) IsLeaf() bool {
	return len(s.Options) == 0
}

// Labels returns the option labels in order.
func (s Scene) Labels() []string {
	labels := make([]string, len(s.Options))
	for i, o := range s.Options {
		labels[i] = o.Label
	}
	return labels
}

func (s Scene) clone() Scene {
	s.Options = slices.Clone(s.Options)
	return s
}
