package player

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// StartingHealth is the health every character begins with.
const StartingHealth = 100

var (
	ErrBackgroundAlreadySet = errors.New("background already chosen")
	ErrUnknownBackground    = errors.New("unknown background")
)

// Background is the character's origin story, chosen once at creation.
type Background string

const (
	WildernessSurvivor    Background = "Wilderness Survivor"
	ExMilitaryScout       Background = "Ex-Military Scout"
	AdventurousResearcher Background = "Adventurous Researcher"
	LocalJungleGuide      Background = "Local Jungle Guide"
)

// Backgrounds lists the selectable backgrounds in menu order.
var Backgrounds = []Background{
	WildernessSurvivor,
	ExMilitaryScout,
	AdventurousResearcher,
	LocalJungleGuide,
}

// Skill is the lower-cased role word of the background,
// e.g. "scout" for Ex-Military Scout. The last word is used rather than
// the second so Local Jungle Guide yields "guide", not "jungle".
func (b Background) Skill() string {
	words := strings.Fields(string(b))
	if len(words) == 0 {
		return ""
	}
	return cases.Lower(language.English).String(words[len(words)-1])
}

// ParseBackground accepts a background name (case-insensitive) or its
// 1-based menu number.
func ParseBackground(s string) (Background, error) {
	s = strings.TrimSpace(s)
	for i, b := range Backgrounds {
		if strings.EqualFold(s, string(b)) || s == fmt.Sprint(i+1) {
			return b, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackground, s)
}

// State is one character's mutable record. It is owned by a single
// session and never shared.
type State struct {
	Name       string     `json:"name"`
	Background Background `json:"background,omitempty"`
	Health     int        `json:"health"`
	Food       int        `json:"food"`
	Inventory  []string   `json:"inventory"`

	skills []string
}

// New returns a character with starting health and no background.
func New(name string) *State {
	return &State{
		Name:      name,
		Health:    StartingHealth,
		Inventory: make([]string, 0),
	}
}

// ChooseBackground sets the background and derives skills. It can only
// succeed once per character.
func (s *State) ChooseBackground(b Background) error {
	if s.Background != "" {
		return ErrBackgroundAlreadySet
	}
	if !slices.Contains(Backgrounds, b) {
		return fmt.Errorf("%w: %q", ErrUnknownBackground, b)
	}
	s.Background = b
	s.skills = []string{b.Skill()}
	return nil
}

// Skills returns a copy of the character's skills.
func (s *State) Skills() []string {
	return slices.Clone(s.skills)
}

// HasAnySkill reports whether the character has at least one of skills.
func (s *State) HasAnySkill(skills ...string) bool {
	for _, sk := range skills {
		if slices.Contains(s.skills, sk) {
			return true
		}
	}
	return false
}

// Alive reports whether health is above zero.
func (s *State) Alive() bool {
	return s.Health > 0
}

// Apply adds the delta. Items are appended; nothing is ever removed.
func (s *State) Apply(d Delta) {
	s.Health += d.Health
	s.Food += d.Food
	s.Inventory = append(s.Inventory, d.Items...)
}

// Clone returns a deep copy, skills included.
func (s *State) Clone() *State {
	c := *s
	c.Inventory = slices.Clone(s.Inventory)
	c.skills = slices.Clone(s.skills)
	return &c
}
