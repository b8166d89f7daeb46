package compiler

import (
	"recipeforge/internal/manifest"
	"recipeforge/internal/resolver"
)

// partition splits a recipe's steps around its optional loop: everything
// strictly before the first loop step is pre-loop, everything strictly
// after the last is post-loop, and the named steps themselves form the
// body. Without a loop all steps are pre-loop.
type partition struct {
	pre  []manifest.RecipeStep
	body []manifest.RecipeStep
	post []manifest.RecipeStep
}

func partitionSteps(r *manifest.Recipe, warn resolver.WarnFunc) partition {
	if r.Loop == nil || len(r.Loop.Steps) == 0 {
		return partition{pre: r.Steps}
	}

	named := make(map[string]bool, len(r.Loop.Steps))
	for _, id := range r.Loop.Steps {
		if r.Step(id) == nil {
			warn("recipe %q loop references unknown step %q, ignoring", r.ID, id)
			continue
		}
		named[id] = true
	}
	if len(named) == 0 {
		return partition{pre: r.Steps}
	}

	minIdx, maxIdx := -1, -1
	for i := range r.Steps {
		if named[r.Steps[i].ID] {
			if minIdx < 0 {
				minIdx = i
			}
			maxIdx = i
		}
	}

	var p partition
	for i := range r.Steps {
		step := r.Steps[i]
		switch {
		case i < minIdx:
			p.pre = append(p.pre, step)
		case i > maxIdx:
			p.post = append(p.post, step)
		case named[step.ID]:
			p.body = append(p.body, step)
		default:
			// Sits between loop steps but is not named by the loop; there
			// is no well-defined place for it in the emitted script.
			warn("recipe %q step %q lies inside the loop range but is not a loop step, dropping", r.ID, step.ID)
		}
	}
	return p
}
