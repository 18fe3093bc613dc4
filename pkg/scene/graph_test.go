package scene

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type miniGameNames map[MiniGameID]bool

func (m miniGameNames) Has(id MiniGameID) bool { return m[id] }

var testGames = miniGameNames{"hunting": true, "monster_fight": true}

func validDefinition() *Definition {
	return &Definition{
		Name:       "Test Story",
		Start:      "camp",
		Conclusion: "the_end",
		Rounds:     &RoundsDefinition{Hub: "camp", Max: 2, Final: "clearing"},
		Scenes: map[ID]SceneDefinition{
			"camp": {
				Description: "A quiet camp.",
				Options: []OptionDefinition{
					{Label: "Hunt", MiniGame: "hunting", Next: "camp"},
					{Label: "Walk to the clearing", Scene: "clearing"},
				},
			},
			"clearing": {
				Description: "A clearing.",
				Options: []OptionDefinition{
					{Label: "Fight", MiniGame: "monster_fight", Param: "attack", Next: "clearing", OnSuccess: "the_end"},
					{Label: "Go back", Scene: "camp"},
				},
			},
			"the_end": {Description: "Fin.", Ending: "victory"},
		},
	}
}

func TestBuildGraph_Valid(t *testing.T) {
	g, err := BuildGraph(validDefinition(), testGames)
	require.NoError(t, err)

	assert.Equal(t, "Test Story", g.Name())
	assert.Equal(t, ID("camp"), g.Start())
	assert.Equal(t, ID("the_end"), g.Conclusion())
	assert.Equal(t, []ID{"camp", "clearing", "the_end"}, g.SceneIDs())
	assert.Equal(t, []MiniGameID{"hunting", "monster_fight"}, g.MiniGames())

	rounds, ok := g.Rounds()
	require.True(t, ok)
	assert.Equal(t, Rounds{Hub: "camp", Max: 2, Final: "clearing"}, rounds)

	camp, ok := g.Scene("camp")
	require.True(t, ok)
	assert.Equal(t, []string{"Hunt", "Walk to the clearing"}, camp.Labels())
	assert.Equal(t, TargetMiniGame, camp.Options[0].Target.Kind)
	assert.Equal(t, TargetScene, camp.Options[1].Target.Kind)

	end, _ := g.Scene("the_end")
	assert.True(t, end.IsLeaf())
	assert.Equal(t, "victory", end.Ending)

	_, ok = g.Scene("nowhere")
	assert.False(t, ok)
}

// Every option of every scene must resolve once the graph is built.
func TestBuildGraph_NoDanglingReferences(t *testing.T) {
	g, err := BuildGraph(validDefinition(), testGames)
	require.NoError(t, err)

	for _, id := range g.SceneIDs() {
		sc, _ := g.Scene(id)
		for _, o := range sc.Options {
			switch o.Target.Kind {
			case TargetScene:
				_, ok := g.Scene(o.Target.Scene)
				assert.True(t, ok, "%s -> %s", id, o.Target.Scene)
			case TargetMiniGame:
				assert.True(t, testGames.Has(o.Target.MiniGame))
				for _, next := range []ID{o.Target.After(true), o.Target.After(false)} {
					_, ok := g.Scene(next)
					assert.True(t, ok, "%s -> %s", id, next)
				}
			}
		}
	}
}

func TestBuildGraph_SceneIsCopied(t *testing.T) {
	g, err := BuildGraph(validDefinition(), testGames)
	require.NoError(t, err)

	camp, _ := g.Scene("camp")
	camp.Options[0].Label = "changed"

	again, _ := g.Scene("camp")
	assert.Equal(t, "Hunt", again.Options[0].Label)
}

func TestBuildGraph_IntegrityErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Definition)
		want   string
	}{
		{
			name:   "unknown start",
			mutate: func(d *Definition) { d.Start = "nowhere" },
			want:   `start references unknown scene "nowhere"`,
		},
		{
			name:   "missing start",
			mutate: func(d *Definition) { d.Start = "" },
			want:   "start scene is not set",
		},
		{
			name: "dangling scene option",
			mutate: func(d *Definition) {
				sd := d.Scenes["camp"]
				sd.Options = append(sd.Options, OptionDefinition{Label: "Swim", Scene: "river"})
				d.Scenes["camp"] = sd
			},
			want: `scene "camp" option 2 ("Swim") references unknown scene "river"`,
		},
		{
			name: "unknown mini-game",
			mutate: func(d *Definition) {
				sd := d.Scenes["camp"]
				sd.Options[0].MiniGame = "fishing"
				d.Scenes["camp"] = sd
			},
			want: `references unknown mini-game "fishing"`,
		},
		{
			name: "mini-game without next",
			mutate: func(d *Definition) {
				sd := d.Scenes["camp"]
				sd.Options[0].Next = ""
				d.Scenes["camp"] = sd
			},
			want: `runs mini-game "hunting" without a next scene`,
		},
		{
			name: "dangling on_success",
			mutate: func(d *Definition) {
				sd := d.Scenes["clearing"]
				sd.Options[0].OnSuccess = "castle"
				d.Scenes["clearing"] = sd
			},
			want: `on_success references unknown scene "castle"`,
		},
		{
			name: "both targets",
			mutate: func(d *Definition) {
				sd := d.Scenes["camp"]
				sd.Options[1].MiniGame = "hunting"
				d.Scenes["camp"] = sd
			},
			want: "sets both scene and minigame",
		},
		{
			name: "no target",
			mutate: func(d *Definition) {
				sd := d.Scenes["camp"]
				sd.Options[1].Scene = ""
				d.Scenes["camp"] = sd
			},
			want: "has no target",
		},
		{
			name: "scene target with mini-game fields",
			mutate: func(d *Definition) {
				sd := d.Scenes["camp"]
				sd.Options[1].Next = "camp"
				d.Scenes["camp"] = sd
			},
			want: "targets a scene but sets mini-game fields",
		},
		{
			name:   "bad rounds",
			mutate: func(d *Definition) { d.Rounds = &RoundsDefinition{Hub: "camp", Max: 0, Final: "tower"} },
			want:   "rounds max must be at least 1",
		},
		{
			name:   "unknown conclusion",
			mutate: func(d *Definition) { d.Conclusion = "epilogue" },
			want:   `conclusion references unknown scene "epilogue"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def := validDefinition()
			tt.mutate(def)

			g, err := BuildGraph(def, testGames)
			assert.Nil(t, g)

			var integrityErr *GraphIntegrityError
			require.True(t, errors.As(err, &integrityErr), "want GraphIntegrityError, got %v", err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuildGraph_CollectsAllProblems(t *testing.T) {
	def := validDefinition()
	def.Start = "nowhere"
	sd := def.Scenes["camp"]
	sd.Options[1].Scene = "river"
	def.Scenes["camp"] = sd

	_, err := BuildGraph(def, testGames)
	var integrityErr *GraphIntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Len(t, integrityErr.Problems, 2)
}

func TestBuildGraph_NilInputs(t *testing.T) {
	_, err := BuildGraph(nil, testGames)
	assert.Error(t, err)

	_, err = BuildGraph(validDefinition(), nil)
	var integrityErr *GraphIntegrityError
	assert.ErrorAs(t, err, &integrityErr, "mini-games cannot resolve without a set")
}

func TestTarget_After(t *testing.T) {
	target := Target{Kind: TargetMiniGame, Next: "a", OnSuccess: "b"}
	assert.Equal(t, ID("b"), target.After(true))
	assert.Equal(t, ID("a"), target.After(false))

	target.OnFailure = "c"
	assert.Equal(t, ID("c"), target.After(false))
}
