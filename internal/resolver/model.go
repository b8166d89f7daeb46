// Package resolver implements override resolution across manifest layers:
// the model priority chain, rulepack inheritance expansion, and
// whitelist/blacklist inclusion filtering.
package resolver

// ModelInputs holds the four optional model sources, one per layer.
type ModelInputs struct {
	Feature string // feature.model
	Project string // project.ai_tools.model
	Agent   string // agent.defaults.model
	Prompt  string // prompt.model
}

// ResolveModel returns the effective model for a unit of work: the first
// defined value in strict descending priority feature > project > agent >
// prompt. An empty result means no model flag should be emitted; it is not
// an error.
func ResolveModel(in ModelInputs) string {
	for _, model := range []string{in.Feature, in.Project, in.Agent, in.Prompt} {
		if model != "" {
			return model
		}
	}
	return ""
}
