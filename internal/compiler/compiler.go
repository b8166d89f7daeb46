// Package compiler lowers recipe manifests into executable bash scripts
// for one target tool at a time. The compiler never runs anything: it only
// emits text, delegating tool-specific invocation syntax to backends.
package compiler

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"recipeforge/internal/backend"
	rferrors "recipeforge/internal/errors"
	"recipeforge/internal/manifest"
	"recipeforge/internal/resolver"
	"recipeforge/internal/script"
)

// Directories the generated scripts create at execution time, relative to
// the invocation working directory.
const (
	LogDir  = ".recipe-logs"
	DocsDir = ".recipe-docs"
)

// Compiler compiles recipes against one manifest store snapshot.
type Compiler struct {
	store    *manifest.Store
	registry *backend.Registry
}

// New creates a compiler over a loaded manifest store.
func New(store *manifest.Store, registry *backend.Registry) *Compiler {
	return &Compiler{store: store, registry: registry}
}

// Request describes a single compilation: one recipe for one tool,
// optionally scoped by a project and a feature.
type Request struct {
	Recipe  *manifest.Recipe
	Project *manifest.Project // Optional
	Feature *manifest.Feature // Optional
	Tool    string

	// ModelOverride forces one model for every step, beating every
	// manifest-level setting. Set from config or the command line.
	ModelOverride string

	// GeneratedAt stamps the script header. The zero value means "now";
	// tests inject a fixed time for reproducible output.
	GeneratedAt time.Time

	// SourceRef optionally records where the manifests came from, e.g. a
	// git branch and commit, for the script header.
	SourceRef string
}

// ScriptName returns the generated script's file name: the feature id when
// compiling for a feature, otherwise the recipe id.
func (r *Request) ScriptName() string {
	return r.baseID() + ".sh"
}

func (r *Request) baseID() string {
	if r.Feature != nil {
		return r.Feature.ID
	}
	return r.Recipe.ID
}

// run is the per-compilation context. It owns the resolved-agent cache so
// repeated runs never observe each other's state.
type run struct {
	c       *Compiler
	req     Request
	backend backend.ToolBackend
	vars    map[string]string         // substitution: {{key}} -> ${KEY}
	agents  map[string]*resolvedAgent // per-run agent cache keyed by id
}

// resolvedAgent caches the per-run derivation for one agent: its flattened
// rule list and the composed system prompt handed to backends.
type resolvedAgent struct {
	agent        *manifest.Agent
	rules        []string
	systemPrompt string
}

// Compile lowers one recipe into a script for one tool. A recipe with no
// steps or an unknown tool is a fatal configuration error for this recipe
// only; callers continue with the rest of the run.
func (c *Compiler) Compile(req Request) (*script.Script, error) {
	if req.Recipe == nil {
		return nil, fmt.Errorf("%w: no recipe", rferrors.ErrFatalConfig)
	}
	if len(req.Recipe.Steps) == 0 {
		return nil, fmt.Errorf("%w: recipe %q has no steps", rferrors.ErrFatalConfig, req.Recipe.ID)
	}

	be, err := c.registry.Get(req.Tool)
	if err != nil {
		return nil, err
	}

	if req.GeneratedAt.IsZero() {
		req.GeneratedAt = time.Now()
	}

	r := &run{
		c:       c,
		req:     req,
		backend: be,
		vars:    substitutionVars(req.Recipe),
		agents:  make(map[string]*resolvedAgent),
	}
	return r.assemble(), nil
}

// substitutionVars maps each declared recipe variable key to its shell
// reference, e.g. "bug" -> "${BUG}".
func substitutionVars(r *manifest.Recipe) map[string]string {
	vars := make(map[string]string, len(r.Variables))
	for key := range r.Variables {
		vars[key] = fmt.Sprintf("${%s}", script.VarName(key))
	}
	return vars
}

// assemble builds the complete script: header, scaffolding, variable
// declarations, the three step groups, and the completion message.
func (r *run) assemble() *script.Script {
	s := script.New()
	b := s.Body()

	recipe := r.req.Recipe

	b.Comment("Recipe: %s", recipe.ID)
	if r.req.Feature != nil {
		b.Comment("Feature: %s", r.req.Feature.ID)
	}
	b.Comment("Tool: %s", r.req.Tool)
	b.Comment("Generated by recipeforge at %s", r.req.GeneratedAt.UTC().Format(time.RFC3339))
	if r.req.SourceRef != "" {
		b.Comment("Source: %s", r.req.SourceRef)
	}
	b.Comment("Do not edit: regenerate from the recipe manifest instead.")
	b.Blank()
	b.Line("set -e")
	b.Blank()

	// Log and document scaffolding. Console and log file both receive all
	// output.
	b.Line(`LOG_DIR=%q`, LogDir)
	b.Line(`DOCS_DIR=%q`, DocsDir)
	b.Line(`mkdir -p "${LOG_DIR}" "${DOCS_DIR}"`)
	b.Line(`LOG_FILE="${LOG_DIR}/%s-$(date +%%Y%%m%%d-%%H%%M%%S).log"`, r.req.baseID())
	b.Line(`exec > >(tee -a "${LOG_FILE}") 2>&1`)
	b.Blank()
	b.Line(`echo "Starting recipe '%s' (tool: %s)"`, recipe.ID, r.req.Tool)

	r.emitVariables(b)

	p := partitionSteps(recipe, r.c.store.Warn)

	for i := range p.pre {
		r.emitStep(b, &p.pre[i], i)
	}

	if len(p.body) > 0 {
		iterations := recipe.Loop.Iterations()
		b.Blank()
		b.Comment("Loop over %d iteration(s): %s", iterations, strings.Join(r.req.Recipe.Loop.Steps, ", "))
		b.Line(`for ITERATION in $(seq 1 %d); do`, iterations)
		inner := b.Nested()
		inner.Line(`echo "--- Iteration ${ITERATION} of %d ---"`, iterations)
		for i := range p.body {
			r.emitStep(inner, &p.body[i], i)
		}
		b.Line("done")
	}

	for i := range p.post {
		r.emitStep(b, &p.post[i], i)
	}

	b.Blank()
	b.Line(`echo "Recipe '%s' completed successfully"`, recipe.ID)

	return s
}

// emitVariables declares recipe variables as overridable shell defaults.
// Feature context takes precedence as the default value for a same-named
// recipe variable. Keys are emitted in sorted order so output is
// deterministic.
func (r *run) emitVariables(b *script.Block) {
	recipe := r.req.Recipe

	values := make(map[string]string, len(recipe.Variables))
	for key, value := range recipe.Variables {
		values[key] = value
	}
	if r.req.Feature != nil && r.req.Feature.Recipe != nil {
		for key, value := range r.req.Feature.Recipe.Context {
			values[key] = value
		}
	}
	if len(values) == 0 {
		return
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	b.Blank()
	b.Comment("Recipe variables (override via environment)")
	for _, key := range keys {
		name := script.VarName(key)
		b.Line(`%s="${%s:-%s}"`, name, name, script.Escape(values[key]))
	}
}

// resolveAgent returns the per-run resolved view of an agent, consulting
// the cache first. It returns nil when the agent is unknown or excluded by
// the project's filters; the caller skips the step in that case.
func (r *run) resolveAgent(step *manifest.RecipeStep) *resolvedAgent {
	if cached, ok := r.agents[step.Agent]; ok {
		return cached
	}

	agent, ok := r.c.store.Agent(step.Agent)
	if !ok {
		r.c.store.Warn("agent %q referenced by recipe %q step %q not found, skipping step",
			step.Agent, r.req.Recipe.ID, step.ID)
		return nil
	}

	var cfg *manifest.AIToolsConfig
	if r.req.Project != nil {
		cfg = r.req.Project.AITools
	}
	if !resolver.Includes(cfg, resolver.CategoryAgents, agent.ID) {
		r.c.store.Warn("agent %q excluded by project %q, skipping step %q",
			agent.ID, r.req.Project.ID, step.ID)
		return nil
	}

	// Expand rulepacks, honoring the project's rulepack filter.
	var packIDs []string
	for _, id := range agent.Rulepacks {
		if resolver.Includes(cfg, resolver.CategoryRulepacks, id) {
			packIDs = append(packIDs, id)
		}
	}
	rules := resolver.ResolveRules(r.c.store, packIDs, r.c.store.Warn)

	resolved := &resolvedAgent{
		agent:        agent,
		rules:        rules,
		systemPrompt: composeSystemPrompt(agent, rules),
	}
	r.agents[step.Agent] = resolved
	return resolved
}

// composeSystemPrompt flattens an agent's persona into a single system
// prompt: its own system text, then constraints, then inherited rules.
func composeSystemPrompt(agent *manifest.Agent, rules []string) string {
	var parts []string
	if agent.Prompt != nil && agent.Prompt.System != "" {
		parts = append(parts, agent.Prompt.System)
	}
	if len(agent.Constraints) > 0 {
		parts = append(parts, "Constraints:\n- "+strings.Join(agent.Constraints, "\n- "))
	}
	if len(rules) > 0 {
		parts = append(parts, "Rules:\n- "+strings.Join(rules, "\n- "))
	}
	return strings.Join(parts, "\n\n")
}
