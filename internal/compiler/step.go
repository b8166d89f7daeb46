package compiler

import (
	"fmt"
	"strings"

	"recipeforge/internal/backend"
	"recipeforge/internal/manifest"
	"recipeforge/internal/resolver"
	"recipeforge/internal/script"
	"recipeforge/internal/template"
)

// sessionVar is the shell variable carrying a conversation id across the
// steps of a continuation chain.
const sessionVar = "SESSION_ID"

// emitStep lowers one recipe step into shell statements. groupIndex is the
// step's position within its partition group (pre-loop, loop body, or
// post-loop), which drives conversation continuation.
func (r *run) emitStep(b *script.Block, step *manifest.RecipeStep, groupIndex int) {
	resolved := r.resolveAgent(step)
	if resolved == nil {
		b.Blank()
		b.Comment("Step %q skipped: agent %q unavailable", step.ID, step.Agent)
		return
	}

	responseVar := "RESPONSE_" + script.VarName(step.ID)
	task := template.Render(step.Task, r.vars)

	b.Blank()
	b.Comment("Step: %s (agent: %s)", step.ID, step.Agent)
	b.Line(`echo "=== Step: %s (agent: %s) ==="`, step.ID, step.Agent)

	// Pull previously written documents into shell variables and reference
	// them from the task text. A missing file degrades to a placeholder.
	if len(step.IncludeDocuments) > 0 {
		var section strings.Builder
		section.WriteString("\n\n## Reference Documents\n")
		for _, doc := range step.IncludeDocuments {
			docVar := "DOC_" + script.VarName(doc)
			b.Line(`%s=$(cat "${DOCS_DIR}/%s" 2>/dev/null || echo "[missing document: %s]")`, docVar, doc, doc)
			section.WriteString(fmt.Sprintf("\n### %s\n${%s}\n", doc, docVar))
		}
		task += section.String()
	}

	if step.OutputDocument != "" {
		task += fmt.Sprintf("\n\nSave your complete response to %s/%s.", DocsDir, step.OutputDocument)
	}

	r.backend.EmitStep(b, backend.StepRequest{
		StepID:       step.ID,
		AgentID:      step.Agent,
		Task:         task,
		SystemPrompt: resolved.systemPrompt,
		Model:        r.effectiveModel(step, resolved),
		Continue:     r.continues(step, groupIndex),
		ChainStart:   r.chainStart(groupIndex),
		ResponseVar:  responseVar,
		SessionVar:   sessionVar,
		Options:      r.req.Recipe.OptionsFor(r.req.Tool),
	})

	// Persist the captured response as the step's output document.
	if step.OutputDocument != "" {
		if dir := parentDir(step.OutputDocument); dir != "" {
			b.Line(`mkdir -p "${DOCS_DIR}/%s"`, dir)
		}
		b.Line(`printf '%%s\n' "${%s}" > "${DOCS_DIR}/%s"`, responseVar, step.OutputDocument)
		b.Line(`echo "Saved document: %s"`, step.OutputDocument)
	}

	if cond := step.Condition; cond != nil && cond.Type == "on-success" && cond.Check != nil && cond.Check.Type == "contains" {
		b.Line(`if [[ "${%s}" != *"%s"* ]]; then`, responseVar, script.Escape(cond.Check.Value))
		guard := b.Nested()
		guard.Line(`echo "Step '%s' failed: response does not contain '%s'"`, step.ID, script.Escape(cond.Check.Value))
		guard.Line("exit 1")
		b.Line("fi")
	}

	if step.WaitForConfirmation {
		b.Line(`read -r -p "Press Enter to continue... "`)
	}
}

// continues decides conversation continuation for a step: the recipe must
// use the continue strategy, the step must not opt out, and the step must
// not open its group. Loop iterations continue within themselves, so the
// same group-relative rule applies inside the loop body.
func (r *run) continues(step *manifest.RecipeStep, groupIndex int) bool {
	return r.req.Recipe.ConversationStrategy == manifest.StrategyContinue &&
		!step.DeclinesContinuation() &&
		groupIndex > 0
}

// chainStart reports whether the step opens a continuation chain, in which
// case the backend captures the conversation id for later steps.
func (r *run) chainStart(groupIndex int) bool {
	return r.req.Recipe.ConversationStrategy == manifest.StrategyContinue && groupIndex == 0
}

// effectiveModel applies the model priority chain for one step. Within the
// recipe layer, a step-level model overrides the recipe-level one; the
// agent's default fills the agent layer only when neither is set.
func (r *run) effectiveModel(step *manifest.RecipeStep, resolved *resolvedAgent) string {
	if r.req.ModelOverride != "" {
		return r.req.ModelOverride
	}

	var featureModel, projectModel string
	if r.req.Feature != nil {
		featureModel = r.req.Feature.Model
	}
	if r.req.Project != nil {
		projectModel = r.req.Project.Model()
	}

	recipeLayer := step.Model
	if recipeLayer == "" {
		recipeLayer = r.req.Recipe.Model
	}
	if recipeLayer == "" {
		recipeLayer = resolved.agent.DefaultModel()
	}

	return resolver.ResolveModel(resolver.ModelInputs{
		Feature: featureModel,
		Project: projectModel,
		Agent:   recipeLayer,
	})
}

// parentDir returns the directory portion of a slash-separated document
// path, or "" when the document sits at the documents root.
func parentDir(doc string) string {
	if i := strings.LastIndex(doc, "/"); i > 0 {
		return doc[:i]
	}
	return ""
}
