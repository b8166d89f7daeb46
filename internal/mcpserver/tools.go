package mcpserver

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("agent-list",
			mcp.WithDescription("List all agent personas with their purpose"),
		),
		s.handleAgentList,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("agent-get",
			mcp.WithDescription("Get one agent with its rulepack inheritance fully flattened"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Agent id")),
		),
		s.handleAgentGet,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("recipe-list",
			mcp.WithDescription("List all recipes with step counts"),
		),
		s.handleRecipeList,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("prompt-render",
			mcp.WithDescription("Render a prompt template with variables substituted"),
			mcp.WithString("ref", mcp.Required(), mcp.Description("Prompt reference, qualified (category/id) or bare id")),
			mcp.WithObject("variables", mcp.Description("Variable values keyed by name")),
		),
		s.handlePromptRender,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("model-resolve",
			mcp.WithDescription("Resolve the effective model for an agent under the override chain"),
			mcp.WithString("agent", mcp.Required(), mcp.Description("Agent id")),
			mcp.WithString("project", mcp.Description("Project id")),
			mcp.WithString("feature", mcp.Description("Feature id")),
		),
		s.handleModelResolve,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("recipe-compile",
			mcp.WithDescription("Compile a recipe into a bash script for one tool"),
			mcp.WithString("recipe", mcp.Required(), mcp.Description("Recipe id")),
			mcp.WithString("tool", mcp.Description("Target tool (default claude)")),
			mcp.WithString("feature", mcp.Description("Feature id providing context")),
		),
		s.handleRecipeCompile,
	)
}
