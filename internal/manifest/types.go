// Package manifest loads and validates the declarative YAML manifests that
// drive recipe compilation: rulepacks, agents, prompts, projects, features,
// and recipes. All entities are immutable value objects for the duration of
// one compilation run; nothing is mutated after load.
package manifest

// Rulepack is a named, inheritable bundle of free-text rule strings.
// Parents listed in extends contribute their rules before this pack's own.
type Rulepack struct {
	ID      string   `yaml:"id"`
	Extends []string `yaml:"extends,omitempty"`
	Rules   []string `yaml:"rules"`

	// Path is the manifest file this rulepack was loaded from.
	Path string `yaml:"-"`
}

// AgentPrompt holds the prompt text attached to an agent.
type AgentPrompt struct {
	System string `yaml:"system,omitempty"`
}

// AgentDefaults holds per-agent default settings.
type AgentDefaults struct {
	Model string `yaml:"model,omitempty"`
}

// Agent is a named persona invocable within a recipe step.
type Agent struct {
	ID          string         `yaml:"id"`
	Purpose     string         `yaml:"purpose"`
	Rulepacks   []string       `yaml:"rulepacks,omitempty"`
	Prompt      *AgentPrompt   `yaml:"prompt,omitempty"`
	Constraints []string       `yaml:"constraints,omitempty"`
	Defaults    *AgentDefaults `yaml:"defaults,omitempty"`

	Path string `yaml:"-"`
}

// DefaultModel returns the agent's default model, or "" if unset.
func (a *Agent) DefaultModel() string {
	if a == nil || a.Defaults == nil {
		return ""
	}
	return a.Defaults.Model
}

// PromptVariable describes one {{placeholder}} a prompt template accepts.
type PromptVariable struct {
	Name        string `yaml:"name"`
	Required    bool   `yaml:"required,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// Prompt is a reusable template with {{var}} placeholders and optional
// {{#var}}...{{/var}} conditional sections.
type Prompt struct {
	ID          string           `yaml:"id"`
	Description string           `yaml:"description,omitempty"`
	Content     string           `yaml:"content"`
	Model       string           `yaml:"model,omitempty"`
	Variables   []PromptVariable `yaml:"variables,omitempty"`

	// QualifiedID is the slash-qualified category path derived from the
	// prompt's location under the prompts directory, e.g.
	// "refactor/extract-method". Equals ID for prompts at the top level.
	QualifiedID string `yaml:"-"`
	Path        string `yaml:"-"`
}

// AIToolsConfig holds a project's AI tooling preferences. For each category
// the whitelist and blacklist are mutually exclusive; validation rejects
// manifests that set both.
type AIToolsConfig struct {
	Model string `yaml:"model,omitempty"`

	WhitelistAgents []string `yaml:"whitelist_agents,omitempty"`
	BlacklistAgents []string `yaml:"blacklist_agents,omitempty"`

	WhitelistPrompts []string `yaml:"whitelist_prompts,omitempty"`
	BlacklistPrompts []string `yaml:"blacklist_prompts,omitempty"`

	WhitelistRulepacks []string `yaml:"whitelist_rulepacks,omitempty"`
	BlacklistRulepacks []string `yaml:"blacklist_rulepacks,omitempty"`
}

// Project scopes manifest preferences for one codebase.
type Project struct {
	ID      string         `yaml:"id"`
	AITools *AIToolsConfig `yaml:"ai_tools,omitempty"`

	Path string `yaml:"-"`
}

// Model returns the project's preferred model, or "" if unset.
func (p *Project) Model() string {
	if p == nil || p.AITools == nil {
		return ""
	}
	return p.AITools.Model
}

// FeatureRecipe points a feature at a recipe with optional variable context
// and a restriction of the target tools.
type FeatureRecipe struct {
	ID      string            `yaml:"id"`
	Context map[string]string `yaml:"context,omitempty"`
	Tools   []string          `yaml:"tools,omitempty"`
}

// Feature is a project-scoped unit of work. Its model override sits above
// the project's in the resolution priority chain.
type Feature struct {
	ID     string         `yaml:"id"`
	Model  string         `yaml:"model,omitempty"`
	Recipe *FeatureRecipe `yaml:"recipe,omitempty"`

	Path string `yaml:"-"`
}

// Conversation strategies for a recipe.
const (
	// StrategySeparate starts a fresh conversation per step.
	StrategySeparate = "separate"
	// StrategyContinue carries one conversation across the steps of a group.
	StrategyContinue = "continue"
)

// StepCheck is the predicate inside a step condition.
type StepCheck struct {
	Type  string `yaml:"type"` // "contains"
	Value string `yaml:"value"`
}

// StepCondition gates script continuation on the previous response.
type StepCondition struct {
	Type  string     `yaml:"type"` // "on-success"
	Check *StepCheck `yaml:"check,omitempty"`
}

// RecipeStep is one unit of work inside a recipe.
type RecipeStep struct {
	ID                   string         `yaml:"id"`
	Agent                string         `yaml:"agent"`
	Task                 string         `yaml:"task"`
	Model                string         `yaml:"model,omitempty"`
	OutputDocument       string         `yaml:"outputDocument,omitempty"`
	IncludeDocuments     []string       `yaml:"includeDocuments,omitempty"`
	ContinueConversation *bool          `yaml:"continueConversation,omitempty"`
	WaitForConfirmation  bool           `yaml:"waitForConfirmation,omitempty"`
	Condition            *StepCondition `yaml:"condition,omitempty"`
}

// DeclinesContinuation reports whether the step explicitly opts out of
// conversation continuation.
func (s *RecipeStep) DeclinesContinuation() bool {
	return s.ContinueConversation != nil && !*s.ContinueConversation
}

// RecipeLoop names the steps to repeat and how often.
type RecipeLoop struct {
	Steps         []string `yaml:"steps"`
	MaxIterations int      `yaml:"maxIterations,omitempty"`
}

// DefaultMaxIterations bounds a loop when maxIterations is unset.
const DefaultMaxIterations = 3

// Iterations returns the loop's iteration bound, applying the default.
func (l *RecipeLoop) Iterations() int {
	if l == nil || l.MaxIterations <= 0 {
		return DefaultMaxIterations
	}
	return l.MaxIterations
}

// Recipe is a declarative multi-step workflow.
type Recipe struct {
	ID                   string                    `yaml:"id"`
	Variables            map[string]string         `yaml:"variables,omitempty"`
	Model                string                    `yaml:"model,omitempty"`
	Steps                []RecipeStep              `yaml:"steps"`
	Loop                 *RecipeLoop               `yaml:"loop,omitempty"`
	ConversationStrategy string                    `yaml:"conversationStrategy,omitempty"`
	ToolOptions          map[string]map[string]any `yaml:"toolOptions,omitempty"`

	Path string `yaml:"-"`
}

// OptionsFor returns the per-tool options block for the named tool, or nil.
func (r *Recipe) OptionsFor(tool string) map[string]any {
	if r.ToolOptions == nil {
		return nil
	}
	return r.ToolOptions[tool]
}

// Step returns the step with the given id, or nil.
func (r *Recipe) Step(id string) *RecipeStep {
	for i := range r.Steps {
		if r.Steps[i].ID == id {
			return &r.Steps[i]
		}
	}
	return nil
}
