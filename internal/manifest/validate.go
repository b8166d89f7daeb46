package manifest

import (
	"fmt"
	"sort"

	rferrors "recipeforge/internal/errors"
)

// Validate checks every loaded manifest against the structural invariants
// the compiler assumes. It returns all problems found; an empty slice means
// the store is clean. Dangling references are included so `validate` can
// surface them, even though compilation treats them as recoverable.
func (s *Store) Validate() []error {
	var errs []error

	for _, id := range s.RulepackIDs() {
		errs = append(errs, s.validateRulepack(s.Rulepacks[id])...)
	}
	for _, id := range s.AgentIDs() {
		errs = append(errs, s.validateAgent(s.Agents[id])...)
	}
	for _, id := range s.PromptIDs() {
		errs = append(errs, s.validatePrompt(s.Prompts[id])...)
	}
	for _, id := range s.RecipeIDs() {
		errs = append(errs, s.validateRecipe(s.Recipes[id])...)
	}
	for _, p := range s.sortedProjects() {
		errs = append(errs, s.validateProject(p)...)
	}
	for _, id := range s.FeatureIDs() {
		errs = append(errs, s.validateFeature(s.Features[id])...)
	}

	return errs
}

func (s *Store) validateRulepack(rp *Rulepack) []error {
	var errs []error
	if len(rp.Rules) == 0 {
		errs = append(errs, rferrors.NewValidationError(rp.Path, "rules", "rulepack has no rules"))
	}
	for _, parent := range rp.Extends {
		if _, ok := s.Rulepacks[parent]; !ok {
			errs = append(errs, rferrors.NewReferenceError("rulepack", parent, fmt.Sprintf("rulepack %s", rp.ID)))
		}
	}
	return errs
}

func (s *Store) validateAgent(a *Agent) []error {
	var errs []error
	if a.Purpose == "" {
		errs = append(errs, rferrors.NewValidationError(a.Path, "purpose", "agent has no purpose"))
	}
	for _, rp := range a.Rulepacks {
		if _, ok := s.Rulepacks[rp]; !ok {
			errs = append(errs, rferrors.NewReferenceError("rulepack", rp, fmt.Sprintf("agent %s", a.ID)))
		}
	}
	return errs
}

func (s *Store) validatePrompt(p *Prompt) []error {
	var errs []error
	if p.Content == "" {
		errs = append(errs, rferrors.NewValidationError(p.Path, "content", "prompt has no content"))
	}
	seen := make(map[string]bool)
	for _, v := range p.Variables {
		if v.Name == "" {
			errs = append(errs, rferrors.NewValidationError(p.Path, "variables", "variable with empty name"))
			continue
		}
		if seen[v.Name] {
			errs = append(errs, rferrors.NewValidationError(p.Path, "variables", fmt.Sprintf("duplicate variable %q", v.Name)))
		}
		seen[v.Name] = true
	}
	return errs
}

func (s *Store) validateRecipe(r *Recipe) []error {
	var errs []error
	if len(r.Steps) == 0 {
		errs = append(errs, rferrors.NewValidationError(r.Path, "steps", "recipe has no steps"))
	}

	switch r.ConversationStrategy {
	case "", StrategySeparate, StrategyContinue:
	default:
		errs = append(errs, rferrors.NewValidationError(r.Path, "conversationStrategy",
			fmt.Sprintf("unknown strategy %q (want %q or %q)", r.ConversationStrategy, StrategySeparate, StrategyContinue)))
	}

	seen := make(map[string]bool)
	for i := range r.Steps {
		step := &r.Steps[i]
		field := fmt.Sprintf("steps[%d]", i)
		if step.ID == "" {
			errs = append(errs, rferrors.NewValidationError(r.Path, field, "step has no id"))
		} else if seen[step.ID] {
			errs = append(errs, rferrors.NewValidationError(r.Path, field, fmt.Sprintf("duplicate step id %q", step.ID)))
		}
		seen[step.ID] = true

		if step.Agent == "" {
			errs = append(errs, rferrors.NewValidationError(r.Path, field, "step has no agent"))
		} else if _, ok := s.Agents[step.Agent]; !ok {
			errs = append(errs, rferrors.NewReferenceError("agent", step.Agent, fmt.Sprintf("recipe %s step %s", r.ID, step.ID)))
		}
		if step.Task == "" {
			errs = append(errs, rferrors.NewValidationError(r.Path, field, "step has no task"))
		}

		if cond := step.Condition; cond != nil {
			if cond.Type != "on-success" {
				errs = append(errs, rferrors.NewValidationError(r.Path, field, fmt.Sprintf("unknown condition type %q", cond.Type)))
			}
			if cond.Check == nil || cond.Check.Type != "contains" {
				errs = append(errs, rferrors.NewValidationError(r.Path, field, "condition check must have type \"contains\""))
			}
		}
	}

	if r.Loop != nil {
		if len(r.Loop.Steps) == 0 {
			errs = append(errs, rferrors.NewValidationError(r.Path, "loop.steps", "loop declares no steps"))
		}
		for _, id := range r.Loop.Steps {
			if !seen[id] {
				errs = append(errs, rferrors.NewValidationError(r.Path, "loop.steps", fmt.Sprintf("loop references unknown step %q", id)))
			}
		}
	}

	return errs
}

func (s *Store) validateProject(p *Project) []error {
	var errs []error
	cfg := p.AITools
	if cfg == nil {
		return nil
	}

	// Whitelist and blacklist are mutually exclusive per category.
	exclusive := []struct {
		category  string
		whitelist []string
		blacklist []string
	}{
		{"agents", cfg.WhitelistAgents, cfg.BlacklistAgents},
		{"prompts", cfg.WhitelistPrompts, cfg.BlacklistPrompts},
		{"rulepacks", cfg.WhitelistRulepacks, cfg.BlacklistRulepacks},
	}
	for _, e := range exclusive {
		if len(e.whitelist) > 0 && len(e.blacklist) > 0 {
			errs = append(errs, rferrors.NewValidationError(p.Path, "ai_tools",
				fmt.Sprintf("whitelist_%s and blacklist_%s are mutually exclusive", e.category, e.category)))
		}
	}

	return errs
}

func (s *Store) validateFeature(f *Feature) []error {
	var errs []error
	if f.Recipe != nil {
		if f.Recipe.ID == "" {
			errs = append(errs, rferrors.NewValidationError(f.Path, "recipe.id", "feature recipe has no id"))
		} else if _, ok := s.Recipes[f.Recipe.ID]; !ok {
			errs = append(errs, rferrors.NewReferenceError("recipe", f.Recipe.ID, fmt.Sprintf("feature %s", f.ID)))
		}
	}
	return errs
}

func (s *Store) sortedProjects() []*Project {
	ids := make([]string, 0, len(s.Projects))
	for id := range s.Projects {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*Project, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.Projects[id])
	}
	return out
}
