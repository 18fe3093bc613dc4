package engine

import (
	"errors"
	"fmt"

	"github.com/jwebster45206/scene-engine/pkg/scene"
)

var (
	ErrSessionConcluded    = errors.New("session has concluded")
	ErrCharacterNotCreated = errors.New("character has not been created")
	ErrNotInFinalEncounter = errors.New("session is not in the final encounter")
	ErrPilotNotChosen      = errors.New("pilot has not been chosen")
)

// InvalidChoiceError is returned for a choice outside the offered range.
// The session is left untouched and the caller should prompt again.
type InvalidChoiceError struct {
	Index int
	Count int
	Value string // set for named choices such as a pilot
}

func (e *InvalidChoiceError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("invalid choice %q", e.Value)
	}
	return fmt.Sprintf("invalid choice %d: scene offers %d option(s)", e.Index, e.Count)
}

// UnknownSceneError means a session points at a scene the graph does
// not have. Validated graphs never produce it.
type UnknownSceneError struct {
	ID scene.ID
}

func (e *UnknownSceneError) Error() string {
	return fmt.Sprintf("unknown scene %q", e.ID)
}
