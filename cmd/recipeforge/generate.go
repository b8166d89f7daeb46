package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"recipeforge/internal/config"
	"recipeforge/internal/generator"
	"recipeforge/internal/logger"
)

var generateFlags struct {
	manifestDir string
	output      string
	tools       []string
	model       string
	skipHooks   bool
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Compile all recipes into executable scripts",
	Long: `Compile every recipe and feature in the manifest tree into bash
scripts, one per configured tool.

Scripts are written to each tool's script directory (.claude.recipes/,
.copilot.recipes/, ...) with execute permissions. Non-fatal manifest
problems are reported as warnings; a recipe that cannot be compiled is
skipped without aborting the rest of the run.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateFlags.manifestDir, "manifest-dir", "m", "", "Manifest tree root (default from config, then \"ai\")")
	generateCmd.Flags().StringVarP(&generateFlags.output, "output", "o", "", "Write all scripts under this directory instead of per-tool defaults")
	generateCmd.Flags().StringSliceVarP(&generateFlags.tools, "tools", "t", nil, "Tools to generate for (default from config)")
	generateCmd.Flags().StringVar(&generateFlags.model, "model", "", "Force one model for every step")
	generateCmd.Flags().BoolVar(&generateFlags.skipHooks, "skip-hooks", false, "Skip pre/post generation hooks")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	gen := generator.New(generatorConfig(cfg))
	result, err := gen.Run(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Generated %d script(s)\n", len(result.Scripts))
	for _, path := range result.Scripts {
		fmt.Printf("  %s\n", path)
	}
	if n := len(result.Warnings); n > 0 {
		fmt.Printf("%d warning(s), see log output\n", n)
	}
	return nil
}

// generatorConfig merges config file values with command line flags, flags
// winning.
func generatorConfig(cfg *config.Config) generator.Config {
	gc := generator.Config{
		ManifestDir: cfg.ManifestDir,
		OutputDir:   cfg.OutputDir,
		Tools:       cfg.Tools,
		Model:       cfg.Model,
		SkipHooks:   generateFlags.skipHooks,
	}
	if generateFlags.manifestDir != "" {
		gc.ManifestDir = generateFlags.manifestDir
	}
	if generateFlags.output != "" {
		gc.OutputDir = generateFlags.output
	}
	if len(generateFlags.tools) > 0 {
		gc.Tools = generateFlags.tools
	}
	if generateFlags.model != "" {
		gc.Model = generateFlags.model
	}
	return gc
}
