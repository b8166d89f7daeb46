package main

import (
	"fmt"
	"os"
	"os/exec"
	"strings"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"recipeforge/internal/config"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check dependencies and environment",
	Long: `Check that the tool CLIs scripts will invoke are installed and
that the manifest tree is in place.

A missing tool CLI is a warning, not a failure: scripts can still be
generated, they just won't run until the CLI is installed.`,
	RunE: runDoctor,
}

// Theme colors (catppuccin mocha)
var (
	colorPrimary = lipgloss.Color("#cba6f7") // Mauve
	colorMuted   = lipgloss.Color("#a6adc8") // Subtext0
	colorBase    = lipgloss.Color("#cdd6f4") // Text
	colorSuccess = lipgloss.Color("#a6e3a1") // Green
	colorWarning = lipgloss.Color("#f9e2af") // Yellow
	colorError   = lipgloss.Color("#f38ba8") // Red
	colorBorder  = lipgloss.Color("#585b70") // Surface2
)

type checkResult struct {
	name    string
	status  string
	details string
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var results []checkResult
	failed := false

	// Tool CLIs the generated scripts will invoke
	for _, cli := range []string{"claude", "copilot"} {
		results = append(results, checkCLI(cli))
	}
	results = append(results, checkCLI("git"))

	// Manifest tree
	if info, err := os.Stat(cfg.ManifestDir); err != nil {
		results = append(results, checkResult{
			name:    "manifests",
			status:  "FAIL",
			details: fmt.Sprintf("%s not found. Run 'recipeforge gen-recipe' to scaffold one.", cfg.ManifestDir),
		})
		failed = true
	} else if !info.IsDir() {
		results = append(results, checkResult{
			name:    "manifests",
			status:  "FAIL",
			details: cfg.ManifestDir + " is not a directory",
		})
		failed = true
	} else {
		results = append(results, checkResult{
			name:    "manifests",
			status:  "OK",
			details: cfg.ManifestDir + "/",
		})
	}

	// Config file
	if config.Exists() {
		results = append(results, checkResult{name: "config", status: "OK", details: "config file found"})
	} else {
		results = append(results, checkResult{
			name:    "config",
			status:  "WARN",
			details: "No config file. Run 'recipeforge setup' to create one.",
		})
	}

	rows := make([][]string, len(results))
	for i, r := range results {
		var icon string
		switch r.status {
		case "OK":
			icon = "✓"
		case "FAIL":
			icon = "⊗"
		case "WARN":
			icon = "⊘"
		}
		rows[i] = []string{r.name, icon, r.details}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers("Check", "Status", "Details").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().
					Foreground(colorPrimary).
					Bold(true).
					Padding(0, 1)
			}

			style := lipgloss.NewStyle().Padding(0, 1)
			if col == 1 {
				switch results[row].status {
				case "OK":
					return style.Foreground(colorSuccess)
				case "FAIL":
					return style.Foreground(colorError)
				case "WARN":
					return style.Foreground(colorWarning)
				}
			}
			if col == 0 {
				return style.Foreground(colorBase)
			}
			return style.Foreground(colorMuted)
		})

	fmt.Println(t)
	fmt.Println()

	if failed {
		fmt.Println(lipgloss.NewStyle().Foreground(colorError).Render("⊗ Some checks failed."))
		return fmt.Errorf("doctor check failed")
	}
	fmt.Println(lipgloss.NewStyle().Foreground(colorSuccess).Render("✓ Ready to generate."))
	return nil
}

func checkCLI(name string) checkResult {
	if _, err := exec.LookPath(name); err != nil {
		return checkResult{name: name, status: "WARN", details: "Not found in PATH"}
	}
	out, err := exec.Command(name, "--version").CombinedOutput()
	if err != nil {
		return checkResult{name: name, status: "WARN", details: "Found but can't get version"}
	}
	return checkResult{name: name, status: "OK", details: firstLine(string(out))}
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
