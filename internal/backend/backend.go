// Package backend contains one emitter per target AI CLI. Each backend owns
// its tool's invocation syntax: how an agent is addressed, how a
// conversation is continued, and how tool permissions are spelled. The
// compiler stays tool-agnostic and talks to backends through the
// ToolBackend interface, so new tools plug in without touching the
// compiler core.
package backend

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	rferrors "recipeforge/internal/errors"
	"recipeforge/internal/script"
)

// StepRequest carries everything a backend needs to emit one invocation.
type StepRequest struct {
	StepID       string         // Recipe step id
	AgentID      string         // Agent persona to invoke
	Task         string         // Fully substituted task text, not yet shell-escaped
	SystemPrompt string         // Composed persona text (purpose, system prompt, rules)
	Model        string         // Effective model; empty means emit no model flag
	Continue     bool           // Continue the current conversation
	ChainStart   bool           // First step of a continuation chain
	ResponseVar  string         // Shell variable to capture the response into
	SessionVar   string         // Shell variable holding the conversation id
	Options      map[string]any // Raw per-tool options block from the recipe
}

// ToolBackend lowers recipe steps into shell statements for one target tool.
type ToolBackend interface {
	// Name is the tool id used in recipe toolOptions and config.
	Name() string
	// CLIName is the executable the generated script invokes, or "" when
	// the tool has no programmatic invocation.
	CLIName() string
	// ScriptDir is the relative directory generated scripts are written to.
	ScriptDir() string
	// EmitStep appends the shell statements for one step to the block.
	EmitStep(b *script.Block, req StepRequest)
}

// Registry maps tool names to backends.
type Registry struct {
	backends map[string]ToolBackend
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]ToolBackend)}
}

// DefaultRegistry returns a registry with all built-in backends.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(NewClaude())
	r.Register(NewCopilot())
	r.Register(NewManual())
	return r
}

// Register adds a backend, replacing any existing one with the same name.
func (r *Registry) Register(b ToolBackend) {
	r.backends[b.Name()] = b
}

// Get returns the backend for a tool name.
func (r *Registry) Get(name string) (ToolBackend, error) {
	b, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", rferrors.ErrUnknownTool, name)
	}
	return b, nil
}

// Names returns all registered tool names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.backends))
	for name := range r.backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// decodeOptions converts a raw toolOptions block into a typed options
// struct via a YAML round-trip. Unknown keys are ignored; a nil or
// malformed block yields zero-value options.
func decodeOptions[T any](raw map[string]any) T {
	var opts T
	if raw == nil {
		return opts
	}
	data, err := yaml.Marshal(raw)
	if err != nil {
		return opts
	}
	_ = yaml.Unmarshal(data, &opts)
	return opts
}
