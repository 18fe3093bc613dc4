package minigame

import (
	"fmt"

	"github.com/jwebster45206/d20"
	"github.com/jwebster45206/scene-engine/pkg/dice"
	"github.com/jwebster45206/scene-engine/pkg/player"
)

// MonsterSpec is the authored stat block for a dungeon monster.
type MonsterSpec struct {
	Name        string
	Description string
	HP          int
	AC          int
	Damage      int
}

// Bestiary holds the monsters a fight can draw.
var Bestiary = []MonsterSpec{
	{Name: "Shadow Creature", Description: "A shadow peels itself off the wall, eyes burning red.", HP: 40, AC: 12, Damage: 15},
	{Name: "Giant Rat", Description: "A rat the size of a dog bares its yellow teeth.", HP: 25, AC: 10, Damage: 10},
	{Name: "Vengeful Spirit", Description: "A pale figure drifts toward you, wailing.", HP: 60, AC: 14, Damage: 20},
}

// NewMonster builds the runtime actor for a stat block.
func NewMonster(spec MonsterSpec) (*d20.Actor, error) {
	actor, err := d20.NewActor(spec.Name).
		WithHP(spec.HP).
		WithAC(spec.AC).
		WithAttributes(map[string]int{"damage": spec.Damage}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build monster %q: %w", spec.Name, err)
	}
	return actor, nil
}

// Fight params.
const (
	ParamAttack = "attack"
	ParamDefend = "defend"
)

const (
	FightBonus   = 2
	HitDamage    = 20
	MaxExchanges = 20
)

// FightBonusSkills add FightBonus to the attack roll.
var FightBonusSkills = []string{"scout", "survivor"}

// PlayMonsterFight draws one monster and trades blows with it until the
// monster or the player drops. Each exchange the player rolls d20 (+2
// for fighters) against the monster's AC and a hit takes HitDamage off
// its HP; a monster still standing strikes back for its damage.
// Defending halves both the damage taken and the damage dealt. Unknown
// params attack. A fight that outlasts MaxExchanges ends with the
// monster retreating.
func PlayMonsterFight(p *player.State, src dice.Source, param string) Result {
	spec := dice.Choice(src, Bestiary)
	res := Result{Narrative: []string{spec.Description}}

	monster, err := NewMonster(spec)
	if err != nil {
		res.Narrative = append(res.Narrative, "The shape flickers and is gone before you can strike.")
		return res
	}
	damage, ok := monster.Attribute("damage")
	if !ok {
		damage = spec.Damage
	}

	dealt, taken := HitDamage, damage
	if param == ParamDefend {
		dealt, taken = HitDamage/2, damage/2
		res.Narrative = append(res.Narrative, "You raise your guard and fight defensively.")
	}

	health := p.Health
	for range MaxExchanges {
		roll := dice.Roll(src, 1, 20)
		if p.HasAnySkill(FightBonusSkills...) {
			roll += FightBonus
		}

		if roll >= monster.AC() {
			monster.SubHP(dealt)
			if monster.IsKnockedOut() {
				res.Success = true
				res.Narrative = append(res.Narrative, fmt.Sprintf("You strike true and the %s falls!", spec.Name))
				return res
			}
			res.Narrative = append(res.Narrative,
				fmt.Sprintf("You hit the %s for %d damage. It has %d HP left.", spec.Name, dealt, monster.HP()))
		} else {
			res.Narrative = append(res.Narrative, fmt.Sprintf("You miss the %s.", spec.Name))
		}

		health -= taken
		res.Delta.Health -= taken
		res.Narrative = append(res.Narrative, fmt.Sprintf("The %s hits you for %d damage.", spec.Name, taken))
		if health <= 0 {
			res.Narrative = append(res.Narrative, fmt.Sprintf("You collapse before the %s.", spec.Name))
			return res
		}
	}

	res.Narrative = append(res.Narrative, fmt.Sprintf("Wounded, the %s retreats into the dark.", spec.Name))
	return res
}

var TreasureItems = []string{"Gold Coins", "Jeweled Crown", "Silver Chalice"}

// PlayTreasure adds one piece of treasure to the inventory.
func PlayTreasure(_ *player.State, src dice.Source, _ string) Result {
	item := dice.Choice(src, TreasureItems)
	return Result{
		Narrative: []string{fmt.Sprintf("You fill your pack. Among the hoard: %s.", item)},
		Delta:     player.Delta{Items: []string{item}},
		Success:   true,
	}
}
