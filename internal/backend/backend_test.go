package backend

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rferrors "recipeforge/internal/errors"
	"recipeforge/internal/script"
)

// emit renders a single step through the given backend for assertions.
func emit(b ToolBackend, req StepRequest) string {
	s := script.New()
	b.EmitStep(s.Body(), req)
	return s.Render()
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	assert.Equal(t, []string{"claude", "copilot", "manual"}, r.Names())

	b, err := r.Get("claude")
	require.NoError(t, err)
	assert.Equal(t, "claude", b.Name())

	_, err = r.Get("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, rferrors.ErrUnknownTool))
}

func TestClaudeEmitStep(t *testing.T) {
	out := emit(NewClaude(), StepRequest{
		StepID:      "s1",
		AgentID:     "bug-fixer",
		Task:        "Fix the bug",
		Model:       "opus",
		ResponseVar: "RESPONSE_S1",
		SessionVar:  "SESSION_ID",
		Options: map[string]any{
			"allowedTools":    []any{"Bash", "Edit"},
			"disallowedTools": []any{"WebSearch"},
		},
	})

	assert.Contains(t, out, `RESPONSE_S1=$(claude -p --verbose`)
	assert.Contains(t, out, `--model "opus"`)
	assert.Contains(t, out, `--allowedTools "Bash,Edit"`)
	assert.Contains(t, out, `--disallowedTools "WebSearch"`)
	assert.Contains(t, out, `"Fix the bug")`)
	assert.NotContains(t, out, "--resume")
}

func TestClaudeContinuation(t *testing.T) {
	out := emit(NewClaude(), StepRequest{
		StepID:      "s2",
		AgentID:     "bug-fixer",
		Task:        "Keep going",
		Continue:    true,
		ResponseVar: "RESPONSE_S2",
		SessionVar:  "SESSION_ID",
	})

	assert.Contains(t, out, `--resume "${SESSION_ID}"`)
	assert.NotContains(t, out, "grep -oE")
}

func TestClaudeChainStartExtractsSession(t *testing.T) {
	out := emit(NewClaude(), StepRequest{
		StepID:      "s1",
		AgentID:     "bug-fixer",
		Task:        "Start",
		ChainStart:  true,
		ResponseVar: "RESPONSE_S1",
		SessionVar:  "SESSION_ID",
	})

	assert.Contains(t, out, "SESSION_ID=$(printf")
	assert.Contains(t, out, "grep -oE")
	assert.Contains(t, out, "head -n 1")
}

func TestClaudeSystemPrompt(t *testing.T) {
	out := emit(NewClaude(), StepRequest{
		StepID:       "s1",
		AgentID:      "bug-fixer",
		Task:         "Fix it",
		SystemPrompt: "You are a careful \"fixer\"",
		ResponseVar:  "RESPONSE_S1",
	})

	assert.Contains(t, out, `--append-system-prompt "You are a careful \"fixer\""`)
}

func TestClaudeEscapesTask(t *testing.T) {
	out := emit(NewClaude(), StepRequest{
		StepID:      "s1",
		AgentID:     "dev",
		Task:        "Say \"hi\" and run `ls`",
		ResponseVar: "RESPONSE_S1",
	})

	assert.Contains(t, out, `Say \"hi\" and run `+"\\`ls\\`")
}

func TestCopilotEmitStep(t *testing.T) {
	out := emit(NewCopilot(), StepRequest{
		StepID:      "s1",
		AgentID:     "bug-fixer",
		Task:        "Fix #42",
		ResponseVar: "RESPONSE_S1",
		Options: map[string]any{
			"allowAllTools": true,
			"addDirs":       []any{"/srv/app"},
			"allowTools":    []any{"shell"},
			"denyTools":     []any{"write"},
		},
	})

	assert.Contains(t, out, `copilot -p "@bug-fixer Fix #42"`)
	assert.Contains(t, out, "--allow-all-tools")
	assert.Contains(t, out, `--add-dir "/srv/app"`)
	assert.Contains(t, out, `--allow-tool "shell"`)
	assert.Contains(t, out, `--deny-tool "write"`)
}

func TestCopilotContinuation(t *testing.T) {
	out := emit(NewCopilot(), StepRequest{
		StepID:      "s2",
		AgentID:     "dev",
		Task:        "More",
		Continue:    true,
		Model:       "gpt-5",
		ResponseVar: "RESPONSE_S2",
	})

	assert.Contains(t, out, "--continue")
	assert.Contains(t, out, `--model "gpt-5"`)
}

func TestManualEmitStep(t *testing.T) {
	out := emit(NewManual(), StepRequest{
		StepID:      "s1",
		AgentID:     "reviewer",
		Task:        "Review the diff\nThen approve",
		Model:       "opus",
		ResponseVar: "RESPONSE_S1",
	})

	assert.Contains(t, out, "MANUAL STEP")
	assert.Contains(t, out, "read -r -p")
	assert.Contains(t, out, `RESPONSE_S1=""`)
	assert.Contains(t, out, "Review the diff")
	assert.Contains(t, out, "Then approve")

	// The manual backend never invokes a CLI.
	assert.False(t, strings.Contains(out, "$("), "manual backend should not capture command output")
}

func TestCLINames(t *testing.T) {
	assert.Equal(t, "claude", NewClaude().CLIName())
	assert.Equal(t, "copilot", NewCopilot().CLIName())
	assert.Equal(t, "", NewManual().CLIName())
}

func TestScriptDirs(t *testing.T) {
	assert.Equal(t, ".claude.recipes", NewClaude().ScriptDir())
	assert.Equal(t, ".copilot.recipes", NewCopilot().ScriptDir())
	assert.Equal(t, ".manual.recipes", NewManual().ScriptDir())
}
