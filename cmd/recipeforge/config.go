package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"recipeforge/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display current configuration",
	Long: `Display the current resolved configuration showing values from all sources.

Configuration precedence (highest to lowest):
  1. Environment variables (RECIPEFORGE_*)
  2. Project config (./recipeforge.yml)
  3. Global config (~/.config/recipeforge/recipeforge.yml)
  4. Defaults`,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	globalPath := config.GlobalPath()
	projectPath := config.ProjectPath()
	absProjectPath, err := filepath.Abs(projectPath)
	if err != nil {
		absProjectPath = projectPath
	}

	globalExists := fileExists(globalPath)
	projectExists := fileExists(projectPath)

	configRows := [][]string{
		{"manifest_dir", cfg.ManifestDir},
		{"output_dir", cfg.OutputDir},
		{"tools", strings.Join(cfg.Tools, ", ")},
		{"model", cfg.Model},
		{"log_level", cfg.LogLevel},
		{"log_file", cfg.LogFile},
	}

	configTable := newConfigTable("Key", "Value").Rows(configRows...)

	titleStyle := lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)
	fmt.Println(titleStyle.Render("Configuration"))
	fmt.Println(configTable)
	fmt.Println()

	fileRows := [][]string{
		{"Global", globalPath, statusMark(globalExists)},
		{"Project", absProjectPath, statusMark(projectExists)},
	}

	filesTable := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers("Type", "Path", "Status").
		Rows(fileRows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().
					Foreground(colorPrimary).
					Bold(true).
					Padding(0, 1)
			}
			style := lipgloss.NewStyle().Padding(0, 1)
			if col == 2 {
				if row < len(fileRows) && fileRows[row][2] == "✓" {
					return style.Foreground(colorSuccess)
				}
				return style.Foreground(colorWarning)
			}
			if col == 0 {
				return style.Foreground(colorBase)
			}
			return style.Foreground(colorMuted)
		})

	fmt.Println(titleStyle.Render("Config Files"))
	fmt.Println(filesTable)

	envVars := []string{
		"RECIPEFORGE_MANIFEST_DIR",
		"RECIPEFORGE_OUTPUT_DIR",
		"RECIPEFORGE_TOOLS",
		"RECIPEFORGE_MODEL",
		"RECIPEFORGE_LOG_LEVEL",
		"RECIPEFORGE_LOG_FILE",
	}

	var envRows [][]string
	for _, name := range envVars {
		if val := os.Getenv(name); val != "" {
			envRows = append(envRows, []string{name, val})
		}
	}

	if len(envRows) > 0 {
		fmt.Println()
		fmt.Println(titleStyle.Render("Environment Overrides"))
		fmt.Println(newConfigTable("Variable", "Value").Rows(envRows...))
	}

	if !globalExists && !projectExists {
		fmt.Println()
		noteStyle := lipgloss.NewStyle().Foreground(colorWarning)
		fmt.Println(noteStyle.Render("No config files found. Run 'recipeforge setup' to create one."))
	}

	return nil
}

// newConfigTable builds a two-column key/value table in the standard
// style.
func newConfigTable(keyHeader, valueHeader string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(keyHeader, valueHeader).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().
					Foreground(colorPrimary).
					Bold(true).
					Padding(0, 1)
			}
			style := lipgloss.NewStyle().Padding(0, 1)
			if col == 0 {
				return style.Foreground(colorBase)
			}
			return style.Foreground(colorMuted)
		})
}

func statusMark(exists bool) string {
	if exists {
		return "✓"
	}
	return "not found"
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
