package player

import (
	"fmt"
	"strings"
)

// Delta is the change a single mini-game made to a State. A zero Delta
// is still reported so it can be narrated.
type Delta struct {
	Health int      `json:"health"`
	Food   int      `json:"food"`
	Items  []string `json:"items,omitempty"`
}

// IsZero checks if the Delta changes nothing
func (d Delta) IsZero() bool {
	return d.Health == 0 && d.Food == 0 && len(d.Items) == 0
}

// String renders the delta for narration, e.g. "health +10, food +20, items: Deer meat".
func (d Delta) String() string {
	if d.IsZero() {
		return "no change"
	}
	parts := []string{}
	if d.Health != 0 {
		parts = append(parts, fmt.Sprintf("health %+d", d.Health))
	}
	if d.Food != 0 {
		parts = append(parts, fmt.Sprintf("food %+d", d.Food))
	}
	if len(d.Items) > 0 {
		parts = append(parts, "items: "+strings.Join(d.Items, ", "))
	}
	return strings.Join(parts, ", ")
}

// Summary is the end-of-game report.
type Summary struct {
	Name       string     `json:"name"`
	Background Background `json:"background"`
	Health     int        `json:"health"`
	Food       int        `json:"food"`
	Inventory  []string   `json:"inventory"`
	Survived   bool       `json:"survived"`
	Rounds     int        `json:"rounds"`
	Ending     string     `json:"ending,omitempty"`
}

// Summarize captures the current state of s.
func Summarize(s *State) Summary {
	inv := make([]string, len(s.Inventory))
	copy(inv, s.Inventory)
	return Summary{
		Name:       s.Name,
		Background: s.Background,
		Health:     s.Health,
		Food:       s.Food,
		Inventory:  inv,
		Survived:   s.Alive(),
	}
}

// Lines formats the summary the way it is read out at the end of a game.
func (sm Summary) Lines() []string {
	inv := "Empty"
	if len(sm.Inventory) > 0 {
		inv = strings.Join(sm.Inventory, ", ")
	}
	lines := []string{
		"Name: " + sm.Name,
		"Background: " + string(sm.Background),
		fmt.Sprintf("Health: %d", sm.Health),
		fmt.Sprintf("Food Collected: %d", sm.Food),
		"Inventory: " + inv,
	}
	if sm.Survived {
		lines = append(lines, "Congratulations! You have survived your adventure and made it back safely!")
	} else {
		lines = append(lines, "Sadly, your journey has come to an end...")
	}
	return lines
}
