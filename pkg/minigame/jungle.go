package minigame

import (
	"fmt"

	"github.com/jwebster45206/scene-engine/pkg/dice"
	"github.com/jwebster45206/scene-engine/pkg/player"
)

// Animal is one entry of the hunting table.
type Animal struct {
	Name       string
	Difficulty int
	FoodValue  int
}

var Animals = []Animal{
	{Name: "Deer", Difficulty: 3, FoodValue: 30},
	{Name: "Wild Boar", Difficulty: 5, FoodValue: 50},
	{Name: "Turkey", Difficulty: 2, FoodValue: 20},
}

const (
	HuntRollMax = 10
	HuntBonus   = 3
)

// HuntBonusSkills grant HuntBonus to the hunting roll.
var HuntBonusSkills = []string{"scout", "guide"}

// PlayHunting draws an animal, then rolls 1-10 (+3 for trackers) against
// its difficulty. Success yields food and meat.
func PlayHunting(p *player.State, src dice.Source, _ string) Result {
	animal := dice.Choice(src, Animals)
	roll := dice.Roll(src, 1, HuntRollMax)
	if p.HasAnySkill(HuntBonusSkills...) {
		roll += HuntBonus
	}

	res := Result{Narrative: []string{fmt.Sprintf("You spot a %s!", animal.Name)}}
	if roll < animal.Difficulty {
		res.Narrative = append(res.Narrative, fmt.Sprintf("The %s escapes. Better luck next time!", animal.Name))
		return res
	}

	res.Success = true
	res.Delta = player.Delta{Food: animal.FoodValue, Items: []string{animal.Name + " meat"}}
	res.Narrative = append(res.Narrative,
		fmt.Sprintf("Success! You successfully hunt the %s!", animal.Name),
		fmt.Sprintf("You gained %d food!", animal.FoodValue),
	)
	return res
}

// WaterQuality grades a water source.
type WaterQuality int

const (
	QualityGood WaterQuality = iota
	QualityRisky
	QualityExcellent
)

func (q WaterQuality) String() string {
	switch q {
	case QualityGood:
		return "Good"
	case QualityRisky:
		return "Risky"
	case QualityExcellent:
		return "Excellent"
	default:
		return "Unknown"
	}
}

type WaterSource struct {
	Type        string
	Quality     WaterQuality
	HealthBoost int
}

var WaterSources = []WaterSource{
	{Type: "River", Quality: QualityGood, HealthBoost: 20},
	{Type: "Muddy Pond", Quality: QualityRisky, HealthBoost: -10},
	{Type: "Mountain Stream", Quality: QualityExcellent, HealthBoost: 30},
}

// PlayWaterSearch draws a source and asks whether to drink from it.
func PlayWaterSearch(_ *player.State, src dice.Source, _ string) Result {
	ws := dice.Choice(src, WaterSources)
	return Result{
		Narrative: []string{fmt.Sprintf("You find a %s. (%s)", ws.Type, ws.Quality)},
		Decision: &Decision{
			Prompt: "Drink from this source?",
			Yes: Result{
				Narrative: []string{fmt.Sprintf("Health changed by %d", ws.HealthBoost)},
				Delta:     player.Delta{Health: ws.HealthBoost},
				Success:   ws.HealthBoost > 0,
			},
			No: Result{
				Narrative: []string{fmt.Sprintf("You leave the %s behind.", ws.Type)},
			},
		},
	}
}

type ShelterSite struct {
	Type       string
	Protection bool
}

var ShelterSites = []ShelterSite{
	{Type: "Cave", Protection: true},
	{Type: "Tree House", Protection: true},
	{Type: "Natural Rock Formation", Protection: false},
	{Type: "Dense Bush Cluster", Protection: false},
}

const ShelterHealthBoost = 10

func PlayShelter(_ *player.State, src dice.Source, _ string) Result {
	site := dice.Choice(src, ShelterSites)
	res := Result{Narrative: []string{fmt.Sprintf("You discover a(n) %s!", site.Type)}}
	if !site.Protection {
		res.Narrative = append(res.Narrative, "The shelter offers minimal protection.")
		return res
	}
	res.Success = true
	res.Delta = player.Delta{Health: ShelterHealthBoost}
	res.Narrative = append(res.Narrative, "The shelter protects you from potential dangers.")
	return res
}

type SoundOutcome struct {
	Text      string
	FoundItem bool
}

var SoundOutcomes = []SoundOutcome{
	{Text: "You find an abandoned research camp filled with old equipment.", FoundItem: true},
	{Text: "A rare bird flies away, leaving you in awe.", FoundItem: false},
	{Text: "You discover ancient tribal markings on the trees.", FoundItem: true},
	{Text: "Something moves in the shadows... it's just a monkey!", FoundItem: false},
}

var SoundItems = []string{"Ancient Map", "Tribal Artifact"}

// PlayInvestigateSounds draws an outcome; flagged outcomes draw an item.
func PlayInvestigateSounds(_ *player.State, src dice.Source, _ string) Result {
	outcome := dice.Choice(src, SoundOutcomes)
	res := Result{Narrative: []string{outcome.Text}}
	if !outcome.FoundItem {
		return res
	}
	item := dice.Choice(src, SoundItems)
	res.Success = true
	res.Delta = player.Delta{Items: []string{item}}
	res.Narrative = append(res.Narrative, fmt.Sprintf("You found an item: %s and added it to your inventory!", item))
	return res
}

// Challenge is one final-challenge entry. When SuccessRequired is false
// a bad roll changes the narration but not the outcome.
type Challenge struct {
	Text            string
	SuccessRequired bool
	PassText        string
	FailText        string
}

var Challenges = []Challenge{
	{
		Text:            "A sudden storm approaches! You must secure the helicopter before it gets damaged.",
		SuccessRequired: true,
		PassText:        "You successfully completed the challenge!",
		FailText:        "Unfortunately, you failed to complete the challenge. The team is delayed.",
	},
	{
		Text:     "A wild animal appears! You need to scare it away.",
		PassText: "You bravely scare away the wild animal!",
		FailText: "The animal charges at you! Fortunately, you manage to escape unharmed.",
	},
	{
		Text:            "The helicopter is running low on fuel! You must help refuel it.",
		SuccessRequired: true,
		PassText:        "You successfully completed the challenge!",
		FailText:        "Unfortunately, you failed to complete the challenge. The team is delayed.",
	},
	{
		Text:     "One of the scientists is injured! You need to help them.",
		PassText: "You patch up the scientist and they thank you.",
		FailText: "Your first aid is clumsy, but the scientist will make it.",
	},
}

const (
	ChallengeRollMax  = 10
	ChallengePassOver = 5
)

// PlayFinalChallenge draws a challenge and rolls 1-10; above 5 passes.
func PlayFinalChallenge(_ *player.State, src dice.Source, _ string) Result {
	ch := dice.Choice(src, Challenges)
	passed := dice.Roll(src, 1, ChallengeRollMax) > ChallengePassOver

	res := Result{
		Narrative: []string{ch.Text},
		Success:   passed || !ch.SuccessRequired,
	}
	if passed {
		res.Narrative = append(res.Narrative, ch.PassText)
	} else {
		res.Narrative = append(res.Narrative, ch.FailText)
	}
	return res
}
