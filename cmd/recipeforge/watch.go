package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"recipeforge/internal/config"
	"recipeforge/internal/generator"
	"recipeforge/internal/logger"
	"recipeforge/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate scripts when manifests change",
	Long: `Watch the manifest tree and regenerate all scripts whenever a
manifest is created, modified, or deleted. Rapid saves are debounced into
one regeneration.

Runs until interrupted with Ctrl+C.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	gen := generator.New(generator.Config{
		ManifestDir: cfg.ManifestDir,
		OutputDir:   cfg.OutputDir,
		Tools:       cfg.Tools,
		Model:       cfg.Model,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	regenerate := func(ctx context.Context, paths []string) {
		logger.Info("%d manifest(s) changed, regenerating", len(paths))
		result, err := gen.Run(ctx)
		if err != nil {
			logger.Error("regeneration failed: %v", err)
			return
		}
		logger.Info("regenerated %d script(s)", len(result.Scripts))
	}

	// One full pass before watching so the scripts start fresh.
	if result, err := gen.Run(ctx); err != nil {
		logger.Error("initial generation failed: %v", err)
	} else {
		fmt.Printf("Generated %d script(s), watching %s for changes...\n", len(result.Scripts), cfg.ManifestDir)
	}

	w, err := watcher.New(cfg.ManifestDir, regenerate)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Start(ctx); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer w.Stop()

	<-ctx.Done()
	fmt.Println("\nStopping.")
	return nil
}
