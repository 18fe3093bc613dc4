package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jwebster45206/scene-engine/pkg/minigame"
	"github.com/jwebster45206/scene-engine/pkg/scene"
	"github.com/jwebster45206/scene-engine/pkg/stories"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: %s <story.json|story.yaml>... | -builtin\n", os.Args[0])
		os.Exit(1)
	}

	validator := &StoryValidator{games: minigame.DefaultRegistry()}
	failed := false

	if os.Args[1] == "-builtin" {
		for _, name := range stories.Names() {
			def, err := stories.Definition(name)
			if err == nil {
				err = validator.validateDefinition(def, name)
			}
			failed = report(validator, name, err) || failed
		}
	} else {
		for _, filename := range os.Args[1:] {
			failed = report(validator, filename, validator.validateFile(filename)) || failed
		}
	}

	if failed {
		os.Exit(1)
	}
}

func report(v *StoryValidator, name string, err error) bool {
	for _, w := range v.warnings {
		fmt.Printf("warning: %s: %s\n", name, w)
	}
	v.warnings = nil
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		return true
	}
	fmt.Printf("%s is valid!\n", name)
	return false
}

// StoryValidator checks scene definition files beyond what loading
// requires: naming conventions, sub-option parameters and unreachable
// scenes.
type StoryValidator struct {
	games    scene.MiniGameSet
	errors   []string
	warnings []string
}

func (v *StoryValidator) validateFile(filename string) error {
	fmt.Printf("Validating %s...\n", filename)
	v.errors, v.warnings = nil, nil

	baseName := filepath.Base(filename)
	ext := filepath.Ext(baseName)
	switch strings.ToLower(ext) {
	case ".json", ".yaml", ".yml":
	default:
		return fmt.Errorf("story file must have a .json, .yaml or .yml extension: %s", baseName)
	}

	nameWithoutExt := strings.TrimSuffix(baseName, ext)
	if !isValidStoryFilename(nameWithoutExt) {
		return fmt.Errorf("story filename '%s' must be lowercase snake_case (e.g., lost_temple.json, not lost-temple.json or LostTemple.json)", baseName)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	def, err := scene.Decode(filename, data)
	if err != nil {
		return err
	}
	return v.validateDefinition(def, filename)
}

func (v *StoryValidator) validateDefinition(def *scene.Definition, name string) error {
	v.errors, v.warnings = nil, nil

	if _, err := scene.BuildGraph(def, v.games); err != nil {
		var gie *scene.GraphIntegrityError
		if !errors.As(err, &gie) {
			return err
		}
		for _, p := range gie.Problems {
			v.addError(p)
		}
	}

	v.validateIDFormat("start", string(def.Start))
	v.validateIDFormat("conclusion", string(def.Conclusion))
	for id, sd := range def.Scenes {
		v.validateIDFormat("scene ID", string(id))
		for i, opt := range sd.Options {
			v.validateOption(id, i, opt)
		}
	}
	v.checkReachable(def)

	if len(v.errors) > 0 {
		sort.Strings(v.errors)
		return fmt.Errorf("validation errors in %s:\n%s", name, strings.Join(v.errors, "\n"))
	}
	return nil
}

func (v *StoryValidator) validateOption(id scene.ID, i int, opt scene.OptionDefinition) {
	where := fmt.Sprintf("scene %s option %d", id, i+1)
	if strings.TrimSpace(opt.Label) == "" {
		v.addError(where + " has an empty label")
	}
	v.validateIDFormat(where+" minigame", string(opt.MiniGame))
	if opt.MiniGame == minigame.MonsterFight && opt.Param != "" &&
		opt.Param != minigame.ParamAttack && opt.Param != minigame.ParamDefend {
		v.warnings = append(v.warnings, fmt.Sprintf("%s param %q is not %q or %q and will be played as an attack",
			where, opt.Param, minigame.ParamAttack, minigame.ParamDefend))
	}
}

// checkReachable warns about scenes no path from start can visit.
func (v *StoryValidator) checkReachable(def *scene.Definition) {
	seen := map[scene.ID]bool{}
	queue := []scene.ID{def.Start}
	if def.Conclusion != "" {
		queue = append(queue, def.Conclusion)
	}
	if def.Rounds != nil {
		queue = append(queue, def.Rounds.Final)
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		for _, opt := range def.Scenes[id].Options {
			queue = append(queue, opt.Scene, opt.Next, opt.OnSuccess, opt.OnFailure)
		}
	}

	var unreachable []string
	for id := range def.Scenes {
		if !seen[id] {
			unreachable = append(unreachable, string(id))
		}
	}
	sort.Strings(unreachable)
	for _, id := range unreachable {
		v.warnings = append(v.warnings, fmt.Sprintf("scene %s is unreachable from %s", id, def.Start))
	}
}

func (v *StoryValidator) validateIDFormat(fieldName, id string) {
	if id == "" {
		return
	}

	if !isValidID(id) {
		v.addError(fmt.Sprintf("%s '%s' should be lowercase snake_case", fieldName, id))
	}
}

func (v *StoryValidator) addError(msg string) {
	v.errors = append(v.errors, "  - "+msg)
}

var validIDRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

func isValidID(id string) bool {
	return validIDRegex.MatchString(id)
}

func isValidStoryFilename(name string) bool {
	// Allow 'x.' prefix for experimental stories
	name = strings.TrimPrefix(name, "x.")
	return validIDRegex.MatchString(name)
}
