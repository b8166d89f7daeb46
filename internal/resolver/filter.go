package resolver

import (
	"strings"

	"recipeforge/internal/logger"
	"recipeforge/internal/manifest"
)

// Category identifies which whitelist/blacklist pair applies.
type Category string

const (
	CategoryAgents    Category = "agents"
	CategoryPrompts   Category = "prompts"
	CategoryRulepacks Category = "rulepacks"
)

// Includes decides whether an id is included under the project's
// configuration for the given category:
//   - a non-empty whitelist includes exactly its members,
//   - otherwise a non-empty blacklist excludes exactly its members,
//   - otherwise everything is included.
//
// Both lists non-empty is a schema violation that validation should have
// caught; if it is seen anyway, it is logged loudly and the whitelist wins
// deterministically. Prompt ids additionally match on the final path
// segment, so "refactor/extract-method" matches a whitelist entry
// "extract-method" and vice versa.
func Includes(cfg *manifest.AIToolsConfig, category Category, id string) bool {
	if cfg == nil {
		return true
	}

	whitelist, blacklist := listsFor(cfg, category)

	if len(whitelist) > 0 && len(blacklist) > 0 {
		logger.Error("data integrity: both whitelist and blacklist configured for %s; preferring whitelist", category)
		blacklist = nil
	}

	match := exactMatch
	if category == CategoryPrompts {
		match = promptMatch
	}

	if len(whitelist) > 0 {
		return matchesAny(whitelist, id, match)
	}
	if len(blacklist) > 0 {
		return !matchesAny(blacklist, id, match)
	}
	return true
}

func listsFor(cfg *manifest.AIToolsConfig, category Category) (whitelist, blacklist []string) {
	switch category {
	case CategoryAgents:
		return cfg.WhitelistAgents, cfg.BlacklistAgents
	case CategoryPrompts:
		return cfg.WhitelistPrompts, cfg.BlacklistPrompts
	case CategoryRulepacks:
		return cfg.WhitelistRulepacks, cfg.BlacklistRulepacks
	default:
		return nil, nil
	}
}

func matchesAny(entries []string, id string, match func(id, entry string) bool) bool {
	for _, entry := range entries {
		if match(id, entry) {
			return true
		}
	}
	return false
}

func exactMatch(id, entry string) bool {
	return id == entry
}

// promptMatch accepts both bare ids and slash-qualified category paths.
// Full path equality is checked first, then final-segment equality in
// either direction.
func promptMatch(id, entry string) bool {
	if id == entry {
		return true
	}
	if finalSegment(id) == entry {
		return true
	}
	return finalSegment(entry) == id
}

func finalSegment(path string) string {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return path[i+1:]
	}
	return path
}
