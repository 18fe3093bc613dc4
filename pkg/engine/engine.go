package engine

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"
	"github.com/jwebster45206/scene-engine/pkg/dice"
	"github.com/jwebster45206/scene-engine/pkg/minigame"
	"github.com/jwebster45206/scene-engine/pkg/player"
	"github.com/jwebster45206/scene-engine/pkg/scene"
)

// DecisionSuffix is appended to the scene ID of a pending decision.
const DecisionSuffix = ":decision"

// Scientists are the possible pilots at the final encounter.
var Scientists = []string{"Jacob", "Jake", "Alvin", "Calvin", "Nicholas"}

const CrewSize = 3

// EndingDeath is the session ending when health drops to zero or below.
const EndingDeath = "death"

// MiniGames looks up mini-game implementations.
type MiniGames interface {
	Get(id scene.MiniGameID) (minigame.MiniGame, bool)
}

// Engine runs sessions over one immutable graph. An Engine holds a
// random source and is therefore owned by a single goroutine.
type Engine struct {
	graph  *scene.Graph
	games  MiniGames
	src    dice.Source
	logger *slog.Logger
}

// New creates an engine. A nil logger discards output.
func New(graph *scene.Graph, games MiniGames, src dice.Source, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Engine{
		graph:  graph,
		games:  games,
		src:    src,
		logger: logger,
	}
}

// Graph returns the engine's graph.
func (e *Engine) Graph() *scene.Graph {
	return e.graph
}

// NewSession starts a session awaiting character creation.
func (e *Engine) NewSession() *Session {
	return &Session{
		ID:    uuid.New(),
		Scene: e.graph.Start(),
		Phase: PhaseCharacterCreation,
		Log:   make([]string, 0),
	}
}

// CreateCharacter names the player and fixes their background, then
// opens the start scene.
func (e *Engine) CreateCharacter(s *Session, name string, bg player.Background) error {
	if s.Phase != PhaseCharacterCreation {
		return player.ErrBackgroundAlreadySet
	}
	p := player.New(name)
	if err := p.ChooseBackground(bg); err != nil {
		return err
	}

	s.Player = p
	s.Scene = e.graph.Start()
	s.Phase = PhaseExploring
	s.Log = append(s.Log, fmt.Sprintf("Welcome, %s! Your adventure begins...", name))

	if err := e.concludeOnLeaf(s); err != nil {
		return err
	}

	e.logger.Info("Character created",
		"session_id", s.ID,
		"name", name,
		"background", bg,
		"skills", p.Skills())
	return nil
}

// CurrentScene returns the scene to render. While a decision is pending
// this is a synthetic Yes/No scene.
func (e *Engine) CurrentScene(s *Session) (scene.Scene, error) {
	if s.pending != nil {
		return scene.Scene{
			ID:          s.pending.from + DecisionSuffix,
			Title:       "Decision",
			Description: s.pending.decision.Prompt,
			Options: []scene.Option{
				{Label: "Yes", Target: scene.Target{Kind: scene.TargetScene, Scene: s.pending.from}},
				{Label: "No", Target: scene.Target{Kind: scene.TargetScene, Scene: s.pending.from}},
			},
		}, nil
	}

	sc, ok := e.graph.Scene(s.Scene)
	if !ok {
		return scene.Scene{}, &UnknownSceneError{ID: s.Scene}
	}
	return sc, nil
}

// ResolveChoice applies the option at index to the session. On error the
// session is unchanged.
func (e *Engine) ResolveChoice(s *Session, index int) (Transition, error) {
	switch s.Phase {
	case PhaseCharacterCreation:
		return Transition{}, ErrCharacterNotCreated
	case PhaseConcluded:
		return Transition{}, ErrSessionConcluded
	case PhaseFinalEncounter:
		if s.Pilot == "" {
			return Transition{}, ErrPilotNotChosen
		}
	}

	if pd := s.pending; pd != nil {
		if index < 0 || index > 1 {
			return Transition{}, &InvalidChoiceError{Index: index, Count: 2}
		}
		s.pending = nil
		res := pd.decision.Resolve(index == 0)
		return e.finish(s, pd.from, pd.target, res)
	}

	cur, err := e.CurrentScene(s)
	if err != nil {
		return Transition{}, err
	}
	if index < 0 || index >= len(cur.Options) {
		return Transition{}, &InvalidChoiceError{Index: index, Count: len(cur.Options)}
	}

	target := cur.Options[index].Target
	switch target.Kind {
	case scene.TargetScene:
		return e.advance(s, cur.ID, target.Scene, Transition{From: cur.ID})

	case scene.TargetMiniGame:
		mg, ok := e.games.Get(target.MiniGame)
		if !ok {
			return Transition{}, fmt.Errorf("mini-game %q is not registered", target.MiniGame)
		}
		res := mg.Play(s.Player, e.src, target.Param)

		if res.Decision != nil {
			s.pending = &pendingDecision{from: cur.ID, target: target, decision: res.Decision}
			s.Log = append(s.Log, res.Narrative...)
			s.Log = append(s.Log, res.Decision.Prompt)
			e.logger.Debug("Mini-game awaiting decision",
				"session_id", s.ID,
				"scene", cur.ID,
				"minigame", target.MiniGame)
			return Transition{
				From:      cur.ID,
				To:        cur.ID,
				MiniGame:  target.MiniGame,
				Narrative: append(slices.Clone(res.Narrative), res.Decision.Prompt),
				Pending:   true,
				Round:     s.Round,
				Phase:     s.Phase,
			}, nil
		}
		return e.finish(s, cur.ID, target, res)

	default:
		return Transition{}, fmt.Errorf("option %d has unknown target kind %v", index, target.Kind)
	}
}

func (e *Engine) finish(s *Session, from scene.ID, target scene.Target, res minigame.Result) (Transition, error) {
	s.Player.Apply(res.Delta)
	s.Log = append(s.Log, res.Narrative...)

	e.logger.Debug("Mini-game resolved",
		"session_id", s.ID,
		"scene", from,
		"minigame", target.MiniGame,
		"success", res.Success,
		"delta", res.Delta.String())

	return e.advance(s, from, target.After(res.Success), Transition{
		From:      from,
		MiniGame:  target.MiniGame,
		Narrative: res.Narrative,
		Delta:     res.Delta,
		Success:   res.Success,
	})
}

// advance moves the session after a completed resolution, applying the
// round bound and the death rule.
func (e *Engine) advance(s *Session, from, next scene.ID, tr Transition) (Transition, error) {
	rounds, hasRounds := e.graph.Rounds()
	fromHub := hasRounds && s.Phase == PhaseExploring && from == rounds.Hub
	if fromHub {
		s.Round++
	}

	switch {
	case !s.Player.Alive():
		if c := e.graph.Conclusion(); c != "" {
			next = c
		}
		s.Scene = next
		s.Phase = PhaseConcluded
		s.Ending = EndingDeath
	case fromHub && s.Round >= rounds.Max:
		s.Scene = rounds.Final
		s.Phase = PhaseFinalEncounter
		s.Crew = dice.Sample(e.src, Scientists, CrewSize)
	default:
		s.Scene = next
	}

	if err := e.concludeOnLeaf(s); err != nil {
		return Transition{}, err
	}

	tr.To = s.Scene
	tr.Round = s.Round
	tr.Phase = s.Phase

	e.logger.Debug("Transition",
		"session_id", s.ID,
		"from", tr.From,
		"to", tr.To,
		"round", tr.Round,
		"phase", tr.Phase.String())
	return tr, nil
}

func (e *Engine) concludeOnLeaf(s *Session) error {
	sc, ok := e.graph.Scene(s.Scene)
	if !ok {
		return &UnknownSceneError{ID: s.Scene}
	}
	if sc.IsLeaf() && s.Phase != PhaseConcluded {
		s.Phase = PhaseConcluded
		s.Ending = sc.Ending
	}
	if s.Phase == PhaseConcluded && sc.Description != "" {
		s.Log = append(s.Log, sc.Description)
	}
	return nil
}

// ChoosePilot picks a pilot from the crew drawn for the final encounter.
func (e *Engine) ChoosePilot(s *Session, name string) error {
	if s.Phase != PhaseFinalEncounter {
		return ErrNotInFinalEncounter
	}
	if !slices.Contains(s.Crew, name) {
		return &InvalidChoiceError{Value: name}
	}
	s.Pilot = name
	s.Log = append(s.Log,
		fmt.Sprintf("%s, the pilot of this expedition, welcomes you aboard their helicopter.", name),
		"However, they mention that there is one more challenge before you can leave...")
	return nil
}

// IsTerminal reports whether no further choices can be made.
func (e *Engine) IsTerminal(s *Session) bool {
	if s.Phase == PhaseConcluded {
		return true
	}
	if s.Player != nil && !s.Player.Alive() {
		return true
	}
	if s.pending != nil {
		return false
	}
	sc, err := e.CurrentScene(s)
	if err != nil {
		return true
	}
	return sc.IsLeaf()
}

// Summary reports the end-of-game data for s.
func (e *Engine) Summary(s *Session) player.Summary {
	if s.Player == nil {
		return player.Summary{Rounds: s.Round, Ending: s.Ending}
	}
	sm := player.Summarize(s.Player)
	sm.Rounds = s.Round
	sm.Ending = s.Ending
	return sm
}
