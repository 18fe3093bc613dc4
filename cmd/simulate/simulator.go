package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/jwebster45206/scene-engine/internal/app"
	"github.com/jwebster45206/scene-engine/internal/logger"
	"github.com/jwebster45206/scene-engine/internal/storage"
	"github.com/jwebster45206/scene-engine/pkg/dice"
	"github.com/jwebster45206/scene-engine/pkg/engine"
	"github.com/jwebster45206/scene-engine/pkg/player"
	"github.com/jwebster45206/scene-engine/pkg/scene"
)

// maxSteps caps choices per run. Graphs may cycle forever.
const maxSteps = 500

// Simulator plays many sessions with a random auto-player.
type Simulator struct {
	graph   *scene.Graph
	games   engine.MiniGames
	store   storage.Storage
	story   string
	seed    string
	workers int
	log     *slog.Logger
}

// Report aggregates a batch of simulated runs.
type Report struct {
	Runs       int            `json:"runs"`
	Survived   int            `json:"survived"`
	Abandoned  int            `json:"abandoned"`
	TotalFood  int            `json:"total_food"`
	Endings    map[string]int `json:"endings"`
	SaveErrors int            `json:"save_errors"`
}

// SurvivalRate is the share of runs that ended alive.
func (r Report) SurvivalRate() float64 {
	if r.Runs == 0 {
		return 0
	}
	return float64(r.Survived) / float64(r.Runs)
}

// AverageFood is the mean food collected per run.
func (r Report) AverageFood() float64 {
	if r.Runs == 0 {
		return 0
	}
	return float64(r.TotalFood) / float64(r.Runs)
}

// EndingNames returns the endings seen, sorted.
func (r Report) EndingNames() []string {
	names := make([]string, 0, len(r.Endings))
	for name := range r.Endings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type runResult struct {
	summary   player.Summary
	abandoned bool
	saveErr   error
}

// NewSimulator creates a simulator. A nil store skips run history.
func NewSimulator(graph *scene.Graph, games engine.MiniGames, store storage.Storage, story, seed string, workers int, log *slog.Logger) *Simulator {
	if workers < 1 {
		workers = 1
	}
	return &Simulator{
		graph:   graph,
		games:   games,
		store:   store,
		story:   story,
		seed:    seed,
		workers: workers,
		log:     log,
	}
}

// Run plays runs sessions across the worker pool. Run n always uses the
// same dice for a given seed, whatever worker picks it up.
func (s *Simulator) Run(ctx context.Context, runs int) (Report, error) {
	report := Report{Endings: map[string]int{}}

	jobs := make(chan int)
	results := make(chan runResult)

	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for n := range jobs {
				res := s.play(ctx, uint64(n))
				select {
				case results <- res:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for n := 0; n < runs; n++ {
			select {
			case jobs <- n:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for res := range results {
		report.Runs++
		if res.abandoned {
			report.Abandoned++
		}
		if res.summary.Survived && !res.abandoned {
			report.Survived++
		}
		report.TotalFood += res.summary.Food
		report.Endings[res.summary.Ending]++
		if res.saveErr != nil {
			report.SaveErrors++
		}
	}

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("simulation stopped after %d runs: %w", report.Runs, err)
	}
	return report, nil
}

// play runs one session to completion. Dice and the auto-player draw
// from separate streams so scene choices do not shift mini-game rolls.
func (s *Simulator) play(ctx context.Context, nonce uint64) runResult {
	eng := engine.New(s.graph, s.games, dice.NewHMACSource(s.seed, s.story, nonce), s.log)
	chooser := dice.NewHMACSource(s.seed, s.story+":player", nonce)

	sess := eng.NewSession()
	log := logger.WithSession(s.log, sess.ID).With("run", nonce)
	bg := dice.Choice(chooser, player.Backgrounds)
	if err := eng.CreateCharacter(sess, fmt.Sprintf("Sim %d", nonce+1), bg); err != nil {
		logger.WithError(log, err).Error("Failed to create character")
		return runResult{abandoned: true}
	}

	res := runResult{}
	for step := 0; !eng.IsTerminal(sess); step++ {
		if step >= maxSteps || ctx.Err() != nil {
			res.abandoned = true
			break
		}

		if sess.Phase == engine.PhaseFinalEncounter && sess.Pilot == "" && len(sess.Crew) > 0 {
			if err := eng.ChoosePilot(sess, dice.Choice(chooser, sess.Crew)); err != nil {
				logger.WithError(log, err).Error("Failed to choose pilot")
				res.abandoned = true
				break
			}
			continue
		}

		sc, err := eng.CurrentScene(sess)
		if err != nil {
			logger.WithError(log, err).Error("Failed to read scene")
			res.abandoned = true
			break
		}
		if _, err := eng.ResolveChoice(sess, chooser.IntN(len(sc.Options))); err != nil {
			logger.WithError(log, err).Error("Failed to resolve choice", "scene", sc.ID)
			res.abandoned = true
			break
		}
	}

	res.summary = eng.Summary(sess)
	if res.abandoned {
		log.Warn("Run abandoned", "scene", sess.Scene, "round", sess.Round)
		return res
	}

	if s.store != nil {
		saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
		defer cancel()
		if _, err := app.RecordRun(saveCtx, s.store, eng, sess, s.story, s.seed); err != nil {
			logger.WithError(log, err).Error("Failed to save run")
			res.saveErr = err
		}
	}
	return res
}
