package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"recipeforge/internal/manifest"
)

// setupTestServer creates a server over an in-memory store.
func setupTestServer(t *testing.T) *Server {
	t.Helper()
	store := &manifest.Store{
		Rulepacks: map[string]*manifest.Rulepack{
			"base":     {ID: "base", Rules: []string{"Be concise"}},
			"go-style": {ID: "go-style", Extends: []string{"base"}, Rules: []string{"Use gofmt"}},
		},
		Agents: map[string]*manifest.Agent{
			"bug-fixer": {
				ID:        "bug-fixer",
				Purpose:   "Fix bugs",
				Rulepacks: []string{"go-style"},
				Defaults:  &manifest.AgentDefaults{Model: "sonnet"},
			},
		},
		Prompts: map[string]*manifest.Prompt{
			"refactor/extract-method": {
				ID:          "extract-method",
				QualifiedID: "refactor/extract-method",
				Content:     "Extract {{name}} from {{file}}",
				Variables: []manifest.PromptVariable{
					{Name: "name", Required: true},
					{Name: "file", Required: false},
				},
			},
		},
		Projects: map[string]*manifest.Project{
			"web": {ID: "web", AITools: &manifest.AIToolsConfig{Model: "opus"}},
		},
		Features: map[string]*manifest.Feature{},
		Recipes: map[string]*manifest.Recipe{
			"fix-bugs": {
				ID: "fix-bugs",
				Steps: []manifest.RecipeStep{
					{ID: "s1", Agent: "bug-fixer", Task: "Fix the bug"},
				},
			},
		},
	}
	return New(store, 0)
}

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: name, Arguments: args},
	}
}

// extractText extracts text from CallToolResult.Content[0]
func extractText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if textContent, ok := result.Content[0].(mcp.TextContent); ok {
		return textContent.Text
	}
	return ""
}

func TestHandleAgentList(t *testing.T) {
	srv := setupTestServer(t)

	result, err := srv.handleAgentList(context.Background(), callRequest("agent-list", nil))
	if err != nil {
		t.Fatalf("handleAgentList failed: %v", err)
	}

	text := extractText(result)
	if !strings.Contains(text, "bug-fixer: Fix bugs") {
		t.Errorf("Expected agent listing, got %q", text)
	}
}

func TestHandleAgentGet_FlattensRules(t *testing.T) {
	srv := setupTestServer(t)

	result, err := srv.handleAgentGet(context.Background(), callRequest("agent-get", map[string]any{"id": "bug-fixer"}))
	if err != nil {
		t.Fatalf("handleAgentGet failed: %v", err)
	}

	text := extractText(result)
	baseIdx := strings.Index(text, "Be concise")
	childIdx := strings.Index(text, "Use gofmt")
	if baseIdx < 0 || childIdx < 0 {
		t.Fatalf("Expected flattened rules in output, got %q", text)
	}
	if baseIdx > childIdx {
		t.Error("Parent rules should precede child rules")
	}
	if !strings.Contains(text, "model: sonnet") {
		t.Errorf("Expected default model in output, got %q", text)
	}
}

func TestHandleAgentGet_NotFound(t *testing.T) {
	srv := setupTestServer(t)

	result, err := srv.handleAgentGet(context.Background(), callRequest("agent-get", map[string]any{"id": "ghost"}))
	if err != nil {
		t.Fatalf("handleAgentGet failed: %v", err)
	}
	if !result.IsError {
		t.Error("Expected error result for unknown agent")
	}
}

func TestHandleRecipeList(t *testing.T) {
	srv := setupTestServer(t)

	result, err := srv.handleRecipeList(context.Background(), callRequest("recipe-list", nil))
	if err != nil {
		t.Fatalf("handleRecipeList failed: %v", err)
	}
	if !strings.Contains(extractText(result), "fix-bugs: 1 step(s)") {
		t.Errorf("Unexpected listing: %q", extractText(result))
	}
}

func TestHandlePromptRender(t *testing.T) {
	srv := setupTestServer(t)

	result, err := srv.handlePromptRender(context.Background(), callRequest("prompt-render", map[string]any{
		"ref":       "refactor/extract-method",
		"variables": map[string]any{"name": "parseConfig", "file": "config.go"},
	}))
	if err != nil {
		t.Fatalf("handlePromptRender failed: %v", err)
	}

	text := extractText(result)
	if text != "Extract parseConfig from config.go" {
		t.Errorf("Unexpected render: %q", text)
	}
}

func TestHandlePromptRender_MissingRequired(t *testing.T) {
	srv := setupTestServer(t)

	// Bare id lookup works; the required variable is absent.
	result, err := srv.handlePromptRender(context.Background(), callRequest("prompt-render", map[string]any{
		"ref": "extract-method",
	}))
	if err != nil {
		t.Fatalf("handlePromptRender failed: %v", err)
	}
	if !result.IsError {
		t.Fatal("Expected error result for missing required variable")
	}
	if !strings.Contains(extractText(result), "name") {
		t.Errorf("Expected missing variable named, got %q", extractText(result))
	}
}

func TestHandleModelResolve(t *testing.T) {
	srv := setupTestServer(t)

	// Agent default alone.
	result, err := srv.handleModelResolve(context.Background(), callRequest("model-resolve", map[string]any{
		"agent": "bug-fixer",
	}))
	if err != nil {
		t.Fatalf("handleModelResolve failed: %v", err)
	}
	if got := extractText(result); got != "sonnet" {
		t.Errorf("Expected sonnet, got %q", got)
	}

	// Project override wins.
	result, err = srv.handleModelResolve(context.Background(), callRequest("model-resolve", map[string]any{
		"agent":   "bug-fixer",
		"project": "web",
	}))
	if err != nil {
		t.Fatalf("handleModelResolve failed: %v", err)
	}
	if got := extractText(result); got != "opus" {
		t.Errorf("Expected opus, got %q", got)
	}
}

func TestHandleRecipeCompile(t *testing.T) {
	srv := setupTestServer(t)

	result, err := srv.handleRecipeCompile(context.Background(), callRequest("recipe-compile", map[string]any{
		"recipe": "fix-bugs",
	}))
	if err != nil {
		t.Fatalf("handleRecipeCompile failed: %v", err)
	}

	text := extractText(result)
	if !strings.HasPrefix(text, "#!/usr/bin/env bash") {
		t.Errorf("Expected a bash script, got %q", text)
	}
	if !strings.Contains(text, "claude") {
		t.Error("Expected claude invocation in default compile")
	}
}

func TestHandleRecipeCompile_UnknownTool(t *testing.T) {
	srv := setupTestServer(t)

	result, err := srv.handleRecipeCompile(context.Background(), callRequest("recipe-compile", map[string]any{
		"recipe": "fix-bugs",
		"tool":   "winamp",
	}))
	if err != nil {
		t.Fatalf("handleRecipeCompile failed: %v", err)
	}
	if !result.IsError {
		t.Error("Expected error result for unknown tool")
	}
}
