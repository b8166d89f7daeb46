package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"recipeforge/internal/config"
)

var genRecipeFlags struct {
	manifestDir string
}

var genRecipeCmd = &cobra.Command{
	Use:   "gen-recipe <id>",
	Short: "Scaffold a starter recipe manifest",
	Long: `Create a starter recipe manifest with one agent reference, a loop,
and a verification step, ready to edit.

The recipe is written to <manifest-dir>/recipes/<id>.yml. A starter agent
is written alongside it if the tree has no agents yet.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenRecipe,
}

func init() {
	genRecipeCmd.Flags().StringVarP(&genRecipeFlags.manifestDir, "manifest-dir", "m", "", "Manifest tree root (default from config, then \"ai\")")
}

const starterRecipe = `id: %s
variables:
  goal: "describe the goal here"

conversationStrategy: continue

steps:
  - id: implement
    agent: implementer
    task: "Work towards: {{goal}}. Make one focused improvement."
  - id: verify
    agent: implementer
    task: "Run the test suite and report the result."
    condition:
      type: on-success
      check:
        type: contains
        value: "PASS"

loop:
  steps: [implement, verify]
  maxIterations: 3
`

const starterAgent = `id: implementer
purpose: Implement changes and keep the tests green
prompt:
  system: You are a careful software engineer. Make small, verifiable changes.
constraints:
  - Never commit directly; leave the working tree for review.
`

func runGenRecipe(cmd *cobra.Command, args []string) error {
	id := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	root := cfg.ManifestDir
	if genRecipeFlags.manifestDir != "" {
		root = genRecipeFlags.manifestDir
	}

	recipePath := filepath.Join(root, "recipes", id+".yml")
	if fileExists(recipePath) {
		return fmt.Errorf("recipe already exists at %s", recipePath)
	}
	if err := os.MkdirAll(filepath.Dir(recipePath), 0o755); err != nil {
		return fmt.Errorf("failed to create recipes directory: %w", err)
	}
	if err := os.WriteFile(recipePath, []byte(fmt.Sprintf(starterRecipe, id)), 0o644); err != nil {
		return fmt.Errorf("failed to write recipe: %w", err)
	}
	fmt.Printf("Recipe written to: %s\n", recipePath)

	// Seed an agent only for a tree that has none.
	agentsDir := filepath.Join(root, "agents")
	if entries, err := os.ReadDir(agentsDir); err != nil || len(entries) == 0 {
		agentPath := filepath.Join(agentsDir, "implementer.yml")
		if err := os.MkdirAll(agentsDir, 0o755); err != nil {
			return fmt.Errorf("failed to create agents directory: %w", err)
		}
		if err := os.WriteFile(agentPath, []byte(starterAgent), 0o644); err != nil {
			return fmt.Errorf("failed to write agent: %w", err)
		}
		fmt.Printf("Starter agent written to: %s\n", agentPath)
	}

	fmt.Println("\nEdit the manifests, then run 'recipeforge generate'.")
	return nil
}
