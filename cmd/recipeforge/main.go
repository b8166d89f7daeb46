package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "recipeforge",
	Short: "Compile AI manifests into executable recipe scripts",
	Long: `recipeforge turns a declarative manifest tree (agents, prompts,
rulepacks, recipes, projects, features) into executable bash scripts for
AI CLI tools such as claude and copilot.

Manifests live under ai/ by default. Each recipe compiles to one script
per configured tool, with agent personas, rulepack inheritance, and
project-level overrides resolved at generation time.`,
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(genRecipeCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)
}
