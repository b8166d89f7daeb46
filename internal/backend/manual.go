package backend

import (
	"strings"

	"recipeforge/internal/script"
)

// Manual is the human-in-the-loop backend. No CLI exists for it, so the
// emitted script prints the task and blocks on a read prompt. The response
// variable is left empty; downstream contains-checks then treat the
// condition as not met, which is the conservative choice.
type Manual struct{}

// NewManual creates the manual backend.
func NewManual() *Manual {
	return &Manual{}
}

// Name implements ToolBackend.
func (m *Manual) Name() string { return "manual" }

// CLIName implements ToolBackend.
func (m *Manual) CLIName() string { return "" }

// ScriptDir implements ToolBackend.
func (m *Manual) ScriptDir() string { return ".manual.recipes" }

// EmitStep implements ToolBackend.
func (m *Manual) EmitStep(b *script.Block, req StepRequest) {
	b.Comment("MANUAL STEP - no CLI invocation available for this tool.")
	b.Comment("Agent: %s", req.AgentID)
	if req.Model != "" {
		b.Comment("Suggested model: %s", req.Model)
	}
	b.Line(`echo "=== Manual step '%s' (agent: %s) ==="`, req.StepID, req.AgentID)
	b.Line(`echo "Complete the following task, then return here:"`)
	for _, line := range strings.Split(req.Task, "\n") {
		b.Line(`echo "  %s"`, script.Escape(line))
	}
	b.Line(`read -r -p "Press Enter when the step is complete... "`)
	b.Line(`%s=""`, req.ResponseVar)
}
