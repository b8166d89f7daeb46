package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"recipeforge/internal/config"
	"recipeforge/internal/tui/setup"
)

var setupFlags struct {
	project bool
	force   bool
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create recipeforge configuration file",
	Long: `Create a recipeforge configuration file with an interactive wizard.

By default, creates a global config at ~/.config/recipeforge/recipeforge.yml.
Use --project to create a project-local config in the current directory.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing config file")
}

func runSetup(cmd *cobra.Command, args []string) error {
	targetPath := config.GlobalPath()
	if setupFlags.project {
		targetPath = config.ProjectPath()
	}

	if !setupFlags.force && fileExists(targetPath) {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}

	result, err := setup.Run(setupFlags.project)
	if err != nil {
		return err
	}

	fmt.Printf("\nConfig written to: %s\n", targetPath)
	fmt.Printf("  tools: %s\n", strings.Join(result.Tools, ", "))
	if result.Model != "" {
		fmt.Printf("  model: %s\n", result.Model)
	}
	fmt.Println("\nRun 'recipeforge generate' to get started.")
	return nil
}
