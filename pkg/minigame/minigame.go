package minigame

import (
	"fmt"
	"slices"

	"github.com/jwebster45206/scene-engine/pkg/dice"
	"github.com/jwebster45206/scene-engine/pkg/player"
	"github.com/jwebster45206/scene-engine/pkg/scene"
)

// Registered mini-game IDs.
const (
	Hunting           scene.MiniGameID = "hunting"
	WaterSearch       scene.MiniGameID = "water_search"
	Shelter           scene.MiniGameID = "shelter"
	InvestigateSounds scene.MiniGameID = "investigate_sounds"
	FinalChallenge    scene.MiniGameID = "final_challenge"
	MonsterFight      scene.MiniGameID = "monster_fight"
	Treasure          scene.MiniGameID = "treasure"
)

// MiniGame resolves one randomized encounter. It must not modify p; the
// caller applies the returned Delta. Play never fails.
type MiniGame interface {
	Play(p *player.State, src dice.Source, param string) Result
}

// Func adapts a plain function to MiniGame.
type Func func(p *player.State, src dice.Source, param string) Result

func (f Func) Play(p *player.State, src dice.Source, param string) Result {
	return f(p, src, param)
}

// Result is what a mini-game reports back. Delta is always present,
// even when zero. If Decision is set the player must answer yes/no before
// the encounter is complete, and Delta is not applied yet.
type Result struct {
	Narrative []string
	Delta     player.Delta
	Success   bool
	Decision  *Decision
}

// Decision is a yes/no follow-up, e.g. whether to drink found water.
type Decision struct {
	Prompt string
	Yes    Result
	No     Result
}

// Resolve returns the branch for the player's answer.
func (d *Decision) Resolve(accept bool) Result {
	if accept {
		return d.Yes
	}
	return d.No
}

// Registry maps mini-game IDs to implementations.
type Registry struct {
	games map[scene.MiniGameID]MiniGame
}

var _ scene.MiniGameSet = (*Registry)(nil)

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{games: make(map[scene.MiniGameID]MiniGame)}
}

// DefaultRegistry holds every built-in mini-game.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(Hunting, Func(PlayHunting))
	r.MustRegister(WaterSearch, Func(PlayWaterSearch))
	r.MustRegister(Shelter, Func(PlayShelter))
	r.MustRegister(InvestigateSounds, Func(PlayInvestigateSounds))
	r.MustRegister(FinalChallenge, Func(PlayFinalChallenge))
	r.MustRegister(MonsterFight, Func(PlayMonsterFight))
	r.MustRegister(Treasure, Func(PlayTreasure))
	return r
}

// Register adds a mini-game. IDs cannot be registered twice.
func (r *Registry) Register(id scene.MiniGameID, mg MiniGame) error {
	if id == "" || mg == nil {
		return fmt.Errorf("mini-game id and implementation are required")
	}
	if _, exists := r.games[id]; exists {
		return fmt.Errorf("mini-game %q already registered", id)
	}
	r.games[id] = mg
	return nil
}

// MustRegister is Register for static setup.
func (r *Registry) MustRegister(id scene.MiniGameID, mg MiniGame) {
	if err := r.Register(id, mg); err != nil {
		panic(err)
	}
}

// Has reports whether id is registered.
func (r *Registry) Has(id scene.MiniGameID) bool {
	_, ok := r.games[id]
	return ok
}

// Get returns the mini-game for id.
func (r *Registry) Get(id scene.MiniGameID) (MiniGame, bool) {
	mg, ok := r.games[id]
	return mg, ok
}

// IDs returns the registered IDs in sorted order.
func (r *Registry) IDs() []scene.MiniGameID {
	ids := make([]scene.MiniGameID, 0, len(r.games))
	for id := range r.games {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}
