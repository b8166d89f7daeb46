package main

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"recipeforge/internal/config"
	"recipeforge/internal/manifest"
)

var listFlags struct {
	manifestDir string
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List manifests in the tree",
	Long: `List the agents, recipes, prompts, rulepacks, and features found
in the manifest tree.`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listFlags.manifestDir, "manifest-dir", "m", "", "Manifest tree root (default from config, then \"ai\")")
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	root := cfg.ManifestDir
	if listFlags.manifestDir != "" {
		root = listFlags.manifestDir
	}

	store, err := manifest.Load(root)
	if err != nil {
		return err
	}

	titleStyle := lipgloss.NewStyle().Foreground(colorPrimary).Bold(true)

	var agentRows [][]string
	for _, id := range store.AgentIDs() {
		agent, _ := store.Agent(id)
		agentRows = append(agentRows, []string{agent.ID, agent.Purpose, agent.DefaultModel()})
	}
	if len(agentRows) > 0 {
		fmt.Println(titleStyle.Render("Agents"))
		fmt.Println(newListTable("ID", "Purpose", "Model").Rows(agentRows...))
		fmt.Println()
	}

	var recipeRows [][]string
	for _, id := range store.RecipeIDs() {
		recipe, _ := store.Recipe(id)
		loop := ""
		if recipe.Loop != nil {
			loop = fmt.Sprintf("%d step(s) × %d", len(recipe.Loop.Steps), recipe.Loop.Iterations())
		}
		recipeRows = append(recipeRows, []string{recipe.ID, strconv.Itoa(len(recipe.Steps)), loop})
	}
	if len(recipeRows) > 0 {
		fmt.Println(titleStyle.Render("Recipes"))
		fmt.Println(newListTable("ID", "Steps", "Loop").Rows(recipeRows...))
		fmt.Println()
	}

	var promptRows [][]string
	for _, id := range store.PromptIDs() {
		prompt, _ := store.Prompt(id)
		promptRows = append(promptRows, []string{id, prompt.Description})
	}
	if len(promptRows) > 0 {
		fmt.Println(titleStyle.Render("Prompts"))
		fmt.Println(newListTable("ID", "Description").Rows(promptRows...))
		fmt.Println()
	}

	var packRows [][]string
	for _, id := range store.RulepackIDs() {
		pack, _ := store.Rulepack(id)
		extends := ""
		if len(pack.Extends) > 0 {
			extends = fmt.Sprintf("%v", pack.Extends)
		}
		packRows = append(packRows, []string{pack.ID, strconv.Itoa(len(pack.Rules)), extends})
	}
	if len(packRows) > 0 {
		fmt.Println(titleStyle.Render("Rulepacks"))
		fmt.Println(newListTable("ID", "Rules", "Extends").Rows(packRows...))
		fmt.Println()
	}

	var featureRows [][]string
	for _, id := range store.FeatureIDs() {
		feature := store.Features[id]
		recipe := ""
		if feature.Recipe != nil {
			recipe = feature.Recipe.ID
		}
		featureRows = append(featureRows, []string{feature.ID, recipe, feature.Model})
	}
	if len(featureRows) > 0 {
		fmt.Println(titleStyle.Render("Features"))
		fmt.Println(newListTable("ID", "Recipe", "Model").Rows(featureRows...))
	}

	if len(agentRows)+len(recipeRows)+len(promptRows)+len(packRows)+len(featureRows) == 0 {
		fmt.Printf("No manifests found under %s\n", root)
	}
	return nil
}

func newListTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
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
