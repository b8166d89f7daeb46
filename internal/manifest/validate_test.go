package manifest

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rferrors "recipeforge/internal/errors"
)

func loadStore(t *testing.T, files map[string]string) *Store {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		writeManifest(t, root, rel, content)
	}
	s, err := Load(root)
	require.NoError(t, err)
	return s
}

func TestValidateCleanStore(t *testing.T) {
	s := loadStore(t, map[string]string{
		"agents/dev.yml": "id: dev\npurpose: Develop\n",
		"recipes/r.yml":  "id: r\nsteps:\n  - id: s1\n    agent: dev\n    task: Do it\n",
	})

	assert.Empty(t, s.Validate())
}

func TestValidateWhitelistBlacklistExclusive(t *testing.T) {
	s := loadStore(t, map[string]string{
		"projects/web.yml": `
id: web
ai_tools:
  whitelist_agents: [a]
  blacklist_agents: [b]
`,
	})

	errs := s.Validate()
	require.Len(t, errs, 1)
	assert.True(t, errors.Is(errs[0], rferrors.ErrSchemaViolation))
	assert.Contains(t, errs[0].Error(), "mutually exclusive")
}

func TestValidateRecipeProblems(t *testing.T) {
	tests := []struct {
		name     string
		recipe   string
		contains string
	}{
		{
			name:     "no steps",
			recipe:   "id: r\nsteps: []\n",
			contains: "recipe has no steps",
		},
		{
			name: "duplicate step id",
			recipe: `
id: r
steps:
  - id: s1
    agent: dev
    task: One
  - id: s1
    agent: dev
    task: Two
`,
			contains: `duplicate step id "s1"`,
		},
		{
			name: "unknown conversation strategy",
			recipe: `
id: r
conversationStrategy: sometimes
steps:
  - id: s1
    agent: dev
    task: One
`,
			contains: "unknown strategy",
		},
		{
			name: "loop references unknown step",
			recipe: `
id: r
steps:
  - id: s1
    agent: dev
    task: One
loop:
  steps: [missing]
`,
			contains: `loop references unknown step "missing"`,
		},
		{
			name: "bad condition check",
			recipe: `
id: r
steps:
  - id: s1
    agent: dev
    task: One
    condition:
      type: on-success
      check:
        type: regex
        value: x
`,
			contains: "contains",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loadStore(t, map[string]string{
				"agents/dev.yml": "id: dev\npurpose: Develop\n",
				"recipes/r.yml":  tt.recipe,
			})

			errs := s.Validate()
			require.NotEmpty(t, errs)
			found := false
			for _, err := range errs {
				if strings.Contains(err.Error(), tt.contains) {
					found = true
				}
			}
			assert.True(t, found, "expected an error containing %q, got %v", tt.contains, errs)
		})
	}
}

func TestValidateDanglingReferences(t *testing.T) {
	s := loadStore(t, map[string]string{
		"agents/dev.yml": "id: dev\npurpose: Develop\nrulepacks: [missing-pack]\n",
		"recipes/r.yml":  "id: r\nsteps:\n  - id: s1\n    agent: ghost\n    task: Do it\n",
		"features/f.yml": "id: f\nrecipe:\n  id: no-such-recipe\n",
	})

	errs := s.Validate()
	require.Len(t, errs, 3)
	for _, err := range errs {
		assert.True(t, errors.Is(err, rferrors.ErrMissingReference), "expected missing-reference error, got %v", err)
	}
}
