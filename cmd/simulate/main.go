package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/scene-engine/internal/app"
	"github.com/jwebster45206/scene-engine/internal/config"
	"github.com/jwebster45206/scene-engine/internal/logger"
	"github.com/jwebster45206/scene-engine/pkg/minigame"
)

const saveTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	seed := flag.String("seed", cfg.Seed, "seed for a replayable batch (random when empty)")
	runs := flag.Int("runs", 100, "number of sessions to play")
	workers := flag.Int("workers", 4, "concurrent auto-players")
	story := flag.String("story", cfg.Story, "built-in story to play")
	file := flag.String("file", cfg.SceneFile, "scene definition file to play instead of a built-in story")
	save := flag.Bool("save", false, "archive every finished run to run history")
	flag.Parse()

	cfg.Story = strings.ToLower(*story)
	cfg.SceneFile = *file
	if *seed == "" {
		*seed = uuid.NewString()
	}

	out, err := logger.Output(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open log file: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()
	log := logger.Setup(cfg, out)

	games := minigame.DefaultRegistry()
	graph, label, err := app.LoadGraph(cfg, games)
	if err != nil {
		log.Error("Failed to load story", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim := NewSimulator(graph, games, nil, label, *seed, *workers, log)
	if *save {
		store, err := app.OpenStorage(ctx, cfg, log)
		if err != nil {
			log.Error("Failed to open run history", "error", err)
			os.Exit(1)
		}
		defer store.Close()
		sim.store = store
	}

	log.Info("Starting simulation",
		"story", label,
		"seed", *seed,
		"runs", *runs,
		"workers", *workers)

	started := time.Now()
	report, err := sim.Run(ctx, *runs)
	if err != nil {
		log.Warn("Simulation interrupted", "error", err)
	}

	log.Info("Simulation complete",
		"story", label,
		"seed", *seed,
		"runs", report.Runs,
		"survival_rate", fmt.Sprintf("%.1f%%", report.SurvivalRate()*100),
		"average_food", fmt.Sprintf("%.1f", report.AverageFood()),
		"abandoned", report.Abandoned,
		"save_errors", report.SaveErrors,
		"duration", time.Since(started).String())
	for _, ending := range report.EndingNames() {
		log.Info("Ending", "name", ending, "count", report.Endings[ending])
	}

	if err != nil {
		os.Exit(1)
	}
}
