package engine

import (
	"github.com/google/uuid"
	"github.com/jwebster45206/scene-engine/pkg/minigame"
	"github.com/jwebster45206/scene-engine/pkg/player"
	"github.com/jwebster45206/scene-engine/pkg/scene"
)

// Phase is the session lifecycle:
// CharacterCreation -> Exploring -> [FinalEncounter] -> Concluded.
type Phase int

const (
	PhaseCharacterCreation Phase = iota
	PhaseExploring
	PhaseFinalEncounter
	PhaseConcluded
)

func (p Phase) String() string {
	switch p {
	case PhaseCharacterCreation:
		return "character_creation"
	case PhaseExploring:
		return "exploring"
	case PhaseFinalEncounter:
		return "final_encounter"
	case PhaseConcluded:
		return "concluded"
	default:
		return "unknown"
	}
}

// Session is one playthrough. It is not safe for concurrent use.
type Session struct {
	ID     uuid.UUID     `json:"id"`
	Scene  scene.ID      `json:"scene"`
	Player *player.State `json:"player,omitempty"`
	Round  int           `json:"round"`
	Phase  Phase         `json:"phase"`
	Crew   []string      `json:"crew,omitempty"`
	Pilot  string        `json:"pilot,omitempty"`
	Ending string        `json:"ending,omitempty"`
	Log    []string      `json:"log,omitempty"` // every narrative line so far

	pending *pendingDecision
}

type pendingDecision struct {
	from     scene.ID
	target   scene.Target
	decision *minigame.Decision
}

// Pending reports whether a yes/no decision is waiting.
func (s *Session) Pending() bool {
	return s.pending != nil
}

// Transition describes the result of one resolved choice.
type Transition struct {
	From      scene.ID
	To        scene.ID
	MiniGame  scene.MiniGameID
	Narrative []string
	Delta     player.Delta
	Success   bool
	Pending   bool // a decision must be answered before the encounter completes
	Round     int
	Phase     Phase
}
