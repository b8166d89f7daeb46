package backend

import (
	"fmt"
	"strings"

	"recipeforge/internal/script"
)

// copilotOptions is the toolOptions block the copilot backend understands.
type copilotOptions struct {
	AllowAllTools bool     `yaml:"allowAllTools"`
	AddDirs       []string `yaml:"addDirs"`
	AllowTools    []string `yaml:"allowTools"`
	DenyTools     []string `yaml:"denyTools"`
}

// Copilot emits invocations for the copilot CLI, which addresses agents
// with an @mention prefix inside a single prompt argument.
type Copilot struct{}

// NewCopilot creates the copilot backend.
func NewCopilot() *Copilot {
	return &Copilot{}
}

// Name implements ToolBackend.
func (c *Copilot) Name() string { return "copilot" }

// CLIName implements ToolBackend.
func (c *Copilot) CLIName() string { return "copilot" }

// ScriptDir implements ToolBackend.
func (c *Copilot) ScriptDir() string { return ".copilot.recipes" }

// EmitStep implements ToolBackend.
func (c *Copilot) EmitStep(b *script.Block, req StepRequest) {
	opts := decodeOptions[copilotOptions](req.Options)

	var args []string
	if req.Continue {
		args = append(args, "--continue")
	}
	if req.Model != "" {
		args = append(args, fmt.Sprintf("--model %q", req.Model))
	}
	if opts.AllowAllTools {
		args = append(args, "--allow-all-tools")
	}
	for _, dir := range opts.AddDirs {
		args = append(args, fmt.Sprintf("--add-dir %q", dir))
	}
	for _, tool := range opts.AllowTools {
		args = append(args, fmt.Sprintf("--allow-tool %q", tool))
	}
	for _, tool := range opts.DenyTools {
		args = append(args, fmt.Sprintf("--deny-tool %q", tool))
	}

	flags := ""
	if len(args) > 0 {
		flags = " " + strings.Join(args, " ")
	}

	prompt := fmt.Sprintf("@%s %s", req.AgentID, req.Task)
	b.Line(`%s=$(copilot -p "%s"%s)`, req.ResponseVar, script.Escape(prompt), flags)
	b.Line(`echo "${%s}"`, req.ResponseVar)
}
