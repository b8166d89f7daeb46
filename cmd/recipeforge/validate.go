package main

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"recipeforge/internal/config"
	"recipeforge/internal/manifest"
)

var validateFlags struct {
	manifestDir string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the manifest tree for schema and reference errors",
	Long: `Load every manifest and report schema violations, dangling
references, and suspicious configurations without generating anything.

Exits non-zero when any error is found. Warnings (malformed files that
were skipped, duplicate ids) do not affect the exit status.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateFlags.manifestDir, "manifest-dir", "m", "", "Manifest tree root (default from config, then \"ai\")")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	root := cfg.ManifestDir
	if validateFlags.manifestDir != "" {
		root = validateFlags.manifestDir
	}

	store, err := manifest.Load(root)
	if err != nil {
		return err
	}

	errStyle := lipgloss.NewStyle().Foreground(colorError)
	warnStyle := lipgloss.NewStyle().Foreground(colorWarning)
	okStyle := lipgloss.NewStyle().Foreground(colorSuccess)

	for _, w := range store.Warnings() {
		fmt.Println(warnStyle.Render("warning: " + w))
	}

	errs := store.Validate()
	for _, e := range errs {
		fmt.Println(errStyle.Render("error: " + e.Error()))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%d validation error(s)", len(errs))
	}
	fmt.Println(okStyle.Render("✓ Manifests are valid"))
	return nil
}
