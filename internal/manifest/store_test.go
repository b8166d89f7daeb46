package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeManifest writes a YAML manifest under the store root, creating
// parent directories as needed.
func writeManifest(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadMissingRoot(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestLoadAllCategories(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "rulepacks/go-style.yml", `
id: go-style
rules:
  - Use gofmt
  - Return errors, don't panic
`)
	writeManifest(t, root, "agents/bug-fixer.yml", `
id: bug-fixer
purpose: Fix bugs
rulepacks: [go-style]
defaults:
  model: sonnet
`)
	writeManifest(t, root, "prompts/refactor/extract-method.yml", `
id: extract-method
description: Extract a method
content: "Extract {{name}}"
variables:
  - name: name
    required: true
`)
	writeManifest(t, root, "recipes/fix-bugs.yml", `
id: fix-bugs
variables:
  bug: "#42"
steps:
  - id: s1
    agent: bug-fixer
    task: "Fix {{bug}}"
`)
	writeManifest(t, root, "projects/web.yml", `
id: web
ai_tools:
  model: opus
  whitelist_agents: [bug-fixer]
`)
	writeManifest(t, root, "features/login.yml", `
id: login
model: haiku
recipe:
  id: fix-bugs
  context:
    bug: "#7"
`)

	s, err := Load(root)
	require.NoError(t, err)

	assert.Len(t, s.Rulepacks, 1)
	assert.Len(t, s.Agents, 1)
	assert.Len(t, s.Prompts, 1)
	assert.Len(t, s.Recipes, 1)
	assert.Len(t, s.Projects, 1)
	assert.Len(t, s.Features, 1)
	assert.Empty(t, s.Warnings())

	agent, ok := s.Agent("bug-fixer")
	require.True(t, ok)
	assert.Equal(t, "sonnet", agent.DefaultModel())

	recipe, ok := s.Recipe("fix-bugs")
	require.True(t, ok)
	require.Len(t, recipe.Steps, 1)
	assert.Equal(t, "bug-fixer", recipe.Steps[0].Agent)

	project, ok := s.Project("web")
	require.True(t, ok)
	assert.Equal(t, "opus", project.Model())

	assert.True(t, s.HasRecipesDir())
}

func TestPromptQualifiedID(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "prompts/refactor/extract-method.yml", `
id: extract-method
content: Extract it
`)
	writeManifest(t, root, "prompts/top-level.yml", `
id: top-level
content: Top
`)

	s, err := Load(root)
	require.NoError(t, err)

	// Qualified lookup
	p, ok := s.Prompt("refactor/extract-method")
	require.True(t, ok)
	assert.Equal(t, "refactor/extract-method", p.QualifiedID)

	// Bare id lookup matches the final segment
	p, ok = s.Prompt("extract-method")
	require.True(t, ok)
	assert.Equal(t, "extract-method", p.ID)

	// Top-level prompt has an unqualified id
	p, ok = s.Prompt("top-level")
	require.True(t, ok)
	assert.Equal(t, "top-level", p.QualifiedID)

	_, ok = s.Prompt("does-not-exist")
	assert.False(t, ok)
}

func TestLoadSkipsMalformedFile(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "agents/good.yml", `
id: good
purpose: Works
`)
	writeManifest(t, root, "agents/broken.yml", "id: [unclosed\n")

	s, err := Load(root)
	require.NoError(t, err)

	assert.Len(t, s.Agents, 1)
	require.NotEmpty(t, s.Warnings())
	assert.Contains(t, s.Warnings()[0], "broken.yml")
}

func TestLoadDuplicateKeepsFirst(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "agents/a.yml", `
id: dup
purpose: First
`)
	writeManifest(t, root, "agents/b.yml", `
id: dup
purpose: Second
`)

	s, err := Load(root)
	require.NoError(t, err)

	require.Len(t, s.Agents, 1)
	assert.Equal(t, "First", s.Agents["dup"].Purpose)
	assert.NotEmpty(t, s.Warnings())
}

func TestIDFallsBackToFilename(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, "rulepacks/unnamed.yml", `
rules:
  - A rule
`)

	s, err := Load(root)
	require.NoError(t, err)

	_, ok := s.Rulepack("unnamed")
	assert.True(t, ok)
}

func TestLoopIterations(t *testing.T) {
	var l *RecipeLoop
	assert.Equal(t, DefaultMaxIterations, l.Iterations())

	l = &RecipeLoop{MaxIterations: 5}
	assert.Equal(t, 5, l.Iterations())

	l = &RecipeLoop{}
	assert.Equal(t, DefaultMaxIterations, l.Iterations())
}

func TestDeclinesContinuation(t *testing.T) {
	no := false
	yes := true

	assert.False(t, (&RecipeStep{}).DeclinesContinuation())
	assert.False(t, (&RecipeStep{ContinueConversation: &yes}).DeclinesContinuation())
	assert.True(t, (&RecipeStep{ContinueConversation: &no}).DeclinesContinuation())
}
