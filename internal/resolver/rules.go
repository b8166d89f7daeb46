package resolver

import (
	"recipeforge/internal/logger"
	"recipeforge/internal/manifest"
)

// RulepackSource supplies rulepacks by id. *manifest.Store satisfies it.
type RulepackSource interface {
	Rulepack(id string) (*manifest.Rulepack, bool)
}

// WarnFunc receives recoverable resolution problems.
type WarnFunc func(format string, args ...any)

// ResolveRules flattens a list of rulepack ids into an ordered rule list.
// For each id the extends parents are expanded first, in declaration order,
// then the pack's own rules are appended. Each rulepack contributes at most
// once even when reachable via multiple paths; rule strings themselves are
// not deduplicated, since shared ancestor rules are inherited verbatim.
// Missing ids and extends cycles are warned about and skipped.
func ResolveRules(src RulepackSource, ids []string, warn WarnFunc) []string {
	if warn == nil {
		warn = logger.Warn
	}

	rules := []string{}
	visited := make(map[string]bool) // Rulepacks that already contributed
	inStack := make(map[string]bool) // Current DFS path, for cycle detection

	var expand func(id string)
	expand = func(id string) {
		if inStack[id] {
			warn("rulepack %q is part of an extends cycle, truncating", id)
			return
		}
		if visited[id] {
			return
		}

		pack, ok := src.Rulepack(id)
		if !ok {
			warn("rulepack %q not found, skipping", id)
			return
		}

		visited[id] = true
		inStack[id] = true
		for _, parent := range pack.Extends {
			expand(parent)
		}
		inStack[id] = false

		rules = append(rules, pack.Rules...)
	}

	for _, id := range ids {
		expand(id)
	}

	return rules
}
