package backend

import (
	"fmt"
	"strings"

	"recipeforge/internal/script"
)

// claudeOptions is the toolOptions block the claude backend understands.
type claudeOptions struct {
	AllowedTools    []string `yaml:"allowedTools"`
	DisallowedTools []string `yaml:"disallowedTools"`
	AddDirs         []string `yaml:"addDirs"`
}

// Claude emits invocations for the claude CLI: a conversation-capable,
// flag-rich tool. Conversations are continued with --resume using a session
// id pattern-matched out of the first response of a chain.
type Claude struct{}

// NewClaude creates the claude backend.
func NewClaude() *Claude {
	return &Claude{}
}

// Name implements ToolBackend.
func (c *Claude) Name() string { return "claude" }

// CLIName implements ToolBackend.
func (c *Claude) CLIName() string { return "claude" }

// ScriptDir implements ToolBackend.
func (c *Claude) ScriptDir() string { return ".claude.recipes" }

// sessionIDPattern matches the UUID-shaped session identifier claude
// prints, for reuse by --resume in later steps.
const sessionIDPattern = `[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`

// EmitStep implements ToolBackend.
func (c *Claude) EmitStep(b *script.Block, req StepRequest) {
	opts := decodeOptions[claudeOptions](req.Options)

	args := []string{"-p", "--verbose"}
	if req.Model != "" {
		args = append(args, fmt.Sprintf("--model %q", req.Model))
	}
	if req.Continue {
		args = append(args, fmt.Sprintf(`--resume "${%s}"`, req.SessionVar))
	}
	if req.SystemPrompt != "" {
		args = append(args, fmt.Sprintf(`--append-system-prompt "%s"`, script.Escape(req.SystemPrompt)))
	}
	if len(opts.AllowedTools) > 0 {
		args = append(args, fmt.Sprintf("--allowedTools %q", strings.Join(opts.AllowedTools, ",")))
	}
	if len(opts.DisallowedTools) > 0 {
		args = append(args, fmt.Sprintf("--disallowedTools %q", strings.Join(opts.DisallowedTools, ",")))
	}
	for _, dir := range opts.AddDirs {
		args = append(args, fmt.Sprintf("--add-dir %q", dir))
	}

	b.Line(`%s=$(claude %s "%s")`, req.ResponseVar, strings.Join(args, " "), script.Escape(req.Task))
	b.Line(`echo "${%s}"`, req.ResponseVar)

	if req.ChainStart {
		// First step of a continuation chain: remember the conversation id.
		b.Line(`%s=$(printf '%%s' "${%s}" | grep -oE '%s' | head -n 1)`,
			req.SessionVar, req.ResponseVar, sessionIDPattern)
	}
}
