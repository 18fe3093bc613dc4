package scene

import (
	"fmt"
	"slices"
	"strings"
)

// GraphIntegrityError lists every dangling or malformed reference found
// while building a graph. A graph that fails integrity must never be played.
type GraphIntegrityError struct {
	Name     string
	Problems []string
}

func (e *GraphIntegrityError) Error() string {
	return fmt.Sprintf("scene graph %q has %d integrity problem(s):\n  - %s",
		e.Name, len(e.Problems), strings.Join(e.Problems, "\n  - "))
}

// MiniGameSet reports which mini-game IDs exist.
type MiniGameSet interface {
	Has(id MiniGameID) bool
}

// Rounds is the validated exploration bound of a graph.
type Rounds struct {
	Hub   ID
	Max   int
	Final ID
}

// Graph is an immutable, validated set of scenes. It is safe to share
// across sessions and goroutines.
type Graph struct {
	name       string
	start      ID
	conclusion ID
	rounds     *Rounds
	scenes     map[ID]Scene
}

// BuildGraph validates def against itself and the known mini-games and
// returns the graph. All problems are reported together.
func BuildGraph(def *Definition, miniGames MiniGameSet) (*Graph, error) {
	if def == nil {
		return nil, fmt.Errorf("definition cannot be nil")
	}

	var problems []string
	addProblem := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}
	sceneExists := func(id ID) bool {
		_, ok := def.Scenes[id]
		return ok
	}
	checkScene := func(what string, id ID) {
		if id == "" {
			return
		}
		if !sceneExists(id) {
			addProblem("%s references unknown scene %q", what, id)
		}
	}

	if len(def.Scenes) == 0 {
		addProblem("graph has no scenes")
	}
	if def.Start == "" {
		addProblem("start scene is not set")
	}
	checkScene("start", def.Start)
	checkScene("conclusion", def.Conclusion)

	var rounds *Rounds
	if def.Rounds != nil {
		if def.Rounds.Hub == "" || def.Rounds.Final == "" {
			addProblem("rounds must set both hub and final")
		}
		if def.Rounds.Max < 1 {
			addProblem("rounds max must be at least 1, got %d", def.Rounds.Max)
		}
		checkScene("rounds hub", def.Rounds.Hub)
		checkScene("rounds final", def.Rounds.Final)
		rounds = &Rounds{Hub: def.Rounds.Hub, Max: def.Rounds.Max, Final: def.Rounds.Final}
	}

	scenes := make(map[ID]Scene, len(def.Scenes))
	for _, id := range sortedIDs(def.Scenes) {
		sd := def.Scenes[id]
		if id == "" {
			addProblem("scene with empty id")
			continue
		}

		sc := Scene{
			ID:          id,
			Title:       sd.Title,
			Description: sd.Description,
			Ending:      sd.Ending,
			Options:     make([]Option, 0, len(sd.Options)),
		}

		for i, od := range sd.Options {
			where := fmt.Sprintf("scene %q option %d (%q)", id, i, od.Label)
			target, ok := buildTarget(od, where, addProblem)
			if !ok {
				continue
			}
			switch target.Kind {
			case TargetScene:
				checkScene(where, target.Scene)
			case TargetMiniGame:
				if miniGames == nil || !miniGames.Has(target.MiniGame) {
					addProblem("%s references unknown mini-game %q", where, target.MiniGame)
				}
				checkScene(where+" next", target.Next)
				checkScene(where+" on_success", target.OnSuccess)
				checkScene(where+" on_failure", target.OnFailure)
			}
			sc.Options = append(sc.Options, Option{Label: od.Label, Target: target})
		}
		scenes[id] = sc
	}

	if len(problems) > 0 {
		return nil, &GraphIntegrityError{Name: def.Name, Problems: problems}
	}

	return &Graph{
		name:       def.Name,
		start:      def.Start,
		conclusion: def.Conclusion,
		rounds:     rounds,
		scenes:     scenes,
	}, nil
}

func buildTarget(od OptionDefinition, where string, addProblem func(string, ...any)) (Target, bool) {
	switch {
	case od.Scene != "" && od.MiniGame != "":
		addProblem("%s sets both scene and minigame", where)
		return Target{}, false
	case od.Scene != "":
		if od.Next != "" || od.OnSuccess != "" || od.OnFailure != "" || od.Param != "" {
			addProblem("%s targets a scene but sets mini-game fields", where)
			return Target{}, false
		}
		return Target{Kind: TargetScene, Scene: od.Scene}, true
	case od.MiniGame != "":
		if od.Next == "" {
			addProblem("%s runs mini-game %q without a next scene", where, od.MiniGame)
			return Target{}, false
		}
		return Target{
			Kind:      TargetMiniGame,
			MiniGame:  od.MiniGame,
			Param:     od.Param,
			Next:      od.Next,
			OnSuccess: od.OnSuccess,
			OnFailure: od.OnFailure,
		}, true
	default:
		addProblem("%s has no target", where)
		return Target{}, false
	}
}

func sortedIDs[V any](m map[ID]V) []ID {
	ids := make([]ID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Name returns the story name.
func (g *Graph) Name() string { return g.name }

// Start returns the opening scene ID.
func (g *Graph) Start() ID { return g.start }

// Conclusion returns the scene entered on death, or "" if the graph has none.
func (g *Graph) Conclusion() ID { return g.conclusion }

// Rounds returns the exploration bound, if the graph has one.
func (g *Graph) Rounds() (Rounds, bool) {
	if g.rounds == nil {
		return Rounds{}, false
	}
	return *g.rounds, true
}

// Scene looks up a scene by ID. The returned value does not alias the graph.
func (g *Graph) Scene(id ID) (Scene, bool) {
	sc, ok := g.scenes[id]
	if !ok {
		return Scene{}, false
	}
	return sc.clone(), true
}

// SceneIDs returns every scene ID in sorted order.
func (g *Graph) SceneIDs() []ID {
	return sortedIDs(g.scenes)
}

// MiniGames returns the sorted, de-duplicated mini-game IDs the graph uses.
func (g *Graph) MiniGames() []MiniGameID {
	seen := map[MiniGameID]bool{}
	var ids []MiniGameID
	for _, sc := range g.scenes {
		for _, o := range sc.Options {
			if o.Target.Kind == TargetMiniGame && !seen[o.Target.MiniGame] {
				seen[o.Target.MiniGame] = true
				ids = append(ids, o.Target.MiniGame)
			}
		}
	}
	slices.Sort(ids)
	return ids
}
