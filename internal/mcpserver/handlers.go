package mcpserver

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"gopkg.in/yaml.v3"

	"recipeforge/internal/compiler"
	"recipeforge/internal/manifest"
	"recipeforge/internal/resolver"
	"recipeforge/internal/template"
)

// handleAgentList returns all agents with their purpose, one per line.
func (s *Server) handleAgentList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := s.store.AgentIDs()
	if len(ids) == 0 {
		return mcp.NewToolResultText("No agents defined"), nil
	}

	var b strings.Builder
	for _, id := range ids {
		agent, _ := s.store.Agent(id)
		fmt.Fprintf(&b, "%s: %s\n", agent.ID, agent.Purpose)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// flatAgent is the wire shape of agent-get: the persona with rulepack
// inheritance already resolved.
type flatAgent struct {
	ID          string   `yaml:"id"`
	Purpose     string   `yaml:"purpose"`
	Model       string   `yaml:"model,omitempty"`
	System      string   `yaml:"system,omitempty"`
	Constraints []string `yaml:"constraints,omitempty"`
	Rules       []string `yaml:"rules,omitempty"`
}

func (s *Server) handleAgentGet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	agent, ok := s.store.Agent(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("agent %q not found", id)), nil
	}

	flat := flatAgent{
		ID:          agent.ID,
		Purpose:     agent.Purpose,
		Model:       agent.DefaultModel(),
		Constraints: agent.Constraints,
		Rules:       resolver.ResolveRules(s.store, agent.Rulepacks, s.store.Warn),
	}
	if agent.Prompt != nil {
		flat.System = agent.Prompt.System
	}

	data, err := yaml.Marshal(flat)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal agent: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func (s *Server) handleRecipeList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := s.store.RecipeIDs()
	if len(ids) == 0 {
		return mcp.NewToolResultText("No recipes defined"), nil
	}

	var b strings.Builder
	for _, id := range ids {
		recipe, _ := s.store.Recipe(id)
		fmt.Fprintf(&b, "%s: %d step(s)", recipe.ID, len(recipe.Steps))
		if recipe.Loop != nil {
			fmt.Fprintf(&b, ", loops %d step(s)", len(recipe.Loop.Steps))
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (s *Server) handlePromptRender(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ref := request.GetString("ref", "")
	if ref == "" {
		return mcp.NewToolResultError("ref is required"), nil
	}

	prompt, ok := s.store.Prompt(ref)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("prompt %q not found", ref)), nil
	}

	vars := make(map[string]string)
	if raw, ok := request.GetArguments()["variables"].(map[string]any); ok {
		for key, value := range raw {
			vars[key] = fmt.Sprintf("%v", value)
		}
	}

	if missing := template.MissingRequired(prompt, vars); len(missing) > 0 {
		return mcp.NewToolResultError(fmt.Sprintf("missing required variables: %s", strings.Join(missing, ", "))), nil
	}
	return mcp.NewToolResultText(template.Render(prompt.Content, vars)), nil
}

func (s *Server) handleModelResolve(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	agentID := request.GetString("agent", "")
	if agentID == "" {
		return mcp.NewToolResultError("agent is required"), nil
	}
	agent, ok := s.store.Agent(agentID)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("agent %q not found", agentID)), nil
	}

	inputs := resolver.ModelInputs{Agent: agent.DefaultModel()}
	if id := request.GetString("project", ""); id != "" {
		project, ok := s.store.Project(id)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("project %q not found", id)), nil
		}
		inputs.Project = project.Model()
	}
	if id := request.GetString("feature", ""); id != "" {
		feature, ok := s.store.Features[id]
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("feature %q not found", id)), nil
		}
		inputs.Feature = feature.Model
	}

	model := resolver.ResolveModel(inputs)
	if model == "" {
		return mcp.NewToolResultText("(tool default)"), nil
	}
	return mcp.NewToolResultText(model), nil
}

func (s *Server) handleRecipeCompile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recipeID := request.GetString("recipe", "")
	if recipeID == "" {
		return mcp.NewToolResultError("recipe is required"), nil
	}
	recipe, ok := s.store.Recipe(recipeID)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("recipe %q not found", recipeID)), nil
	}

	var feature *manifest.Feature
	if id := request.GetString("feature", ""); id != "" {
		feature, ok = s.store.Features[id]
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("feature %q not found", id)), nil
		}
	}

	script, err := s.compiler.Compile(compiler.Request{
		Recipe:  recipe,
		Feature: feature,
		Tool:    request.GetString("tool", "claude"),
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to compile recipe: %v", err)), nil
	}
	return mcp.NewToolResultText(script.Render()), nil
}
