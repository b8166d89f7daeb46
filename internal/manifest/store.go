package manifest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"recipeforge/internal/logger"
)

// Category directory names under the manifest root.
const (
	dirAgents    = "agents"
	dirPrompts   = "prompts"
	dirRulepacks = "rulepacks"
	dirRecipes   = "recipes"
	dirProjects  = "projects"
	dirFeatures  = "features"
)

// Store is one compilation run's snapshot of all manifests. It is loaded
// once, read-only afterwards, and never shared across runs, so repeated runs
// cannot observe stale state.
type Store struct {
	root string

	Rulepacks map[string]*Rulepack
	Agents    map[string]*Agent
	Prompts   map[string]*Prompt // keyed by slash-qualified id
	Projects  map[string]*Project
	Features  map[string]*Feature
	Recipes   map[string]*Recipe

	warnings []string
}

// Load reads every manifest under root into a new Store. Unreadable or
// malformed files are skipped with a warning; only a missing root directory
// is an error.
func Load(root string) (*Store, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("manifest directory %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("manifest path %s is not a directory", root)
	}

	s := &Store{
		root:      root,
		Rulepacks: make(map[string]*Rulepack),
		Agents:    make(map[string]*Agent),
		Prompts:   make(map[string]*Prompt),
		Projects:  make(map[string]*Project),
		Features:  make(map[string]*Feature),
		Recipes:   make(map[string]*Recipe),
	}

	s.loadRulepacks()
	s.loadAgents()
	s.loadPrompts()
	s.loadRecipes()
	s.loadProjects()
	s.loadFeatures()

	return s, nil
}

// Root returns the manifest root directory.
func (s *Store) Root() string {
	return s.root
}

// Warn records and logs a recoverable problem encountered during the run.
func (s *Store) Warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	s.warnings = append(s.warnings, msg)
	logger.Warn("%s", msg)
}

// Warnings returns all warnings recorded so far, in order.
func (s *Store) Warnings() []string {
	return s.warnings
}

// HasRecipesDir reports whether the recipes category directory exists at
// all. Its absence is a fatal configuration problem for generation.
func (s *Store) HasRecipesDir() bool {
	info, err := os.Stat(filepath.Join(s.root, dirRecipes))
	return err == nil && info.IsDir()
}

// Agent looks up an agent by id.
func (s *Store) Agent(id string) (*Agent, bool) {
	a, ok := s.Agents[id]
	return a, ok
}

// Rulepack looks up a rulepack by id.
func (s *Store) Rulepack(id string) (*Rulepack, bool) {
	r, ok := s.Rulepacks[id]
	return r, ok
}

// Recipe looks up a recipe by id.
func (s *Store) Recipe(id string) (*Recipe, bool) {
	r, ok := s.Recipes[id]
	return r, ok
}

// Project looks up a project by id.
func (s *Store) Project(id string) (*Project, bool) {
	p, ok := s.Projects[id]
	return p, ok
}

// Prompt resolves a prompt reference, accepting either the slash-qualified
// path or a bare id. Full path equality wins over final-segment equality.
func (s *Store) Prompt(ref string) (*Prompt, bool) {
	if p, ok := s.Prompts[ref]; ok {
		return p, true
	}
	for _, key := range s.promptKeys() {
		if finalSegment(key) == ref {
			return s.Prompts[key], true
		}
	}
	return nil, false
}

// promptKeys returns the qualified prompt ids in sorted order so lookup by
// bare id is deterministic when two categories share a prompt name.
func (s *Store) promptKeys() []string {
	keys := make([]string, 0, len(s.Prompts))
	for k := range s.Prompts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RecipeIDs returns all recipe ids in sorted order.
func (s *Store) RecipeIDs() []string {
	ids := make([]string, 0, len(s.Recipes))
	for id := range s.Recipes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// AgentIDs returns all agent ids in sorted order.
func (s *Store) AgentIDs() []string {
	ids := make([]string, 0, len(s.Agents))
	for id := range s.Agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// RulepackIDs returns all rulepack ids in sorted order.
func (s *Store) RulepackIDs() []string {
	ids := make([]string, 0, len(s.Rulepacks))
	for id := range s.Rulepacks {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PromptIDs returns all qualified prompt ids in sorted order.
func (s *Store) PromptIDs() []string {
	return s.promptKeys()
}

// FeatureIDs returns all feature ids in sorted order.
func (s *Store) FeatureIDs() []string {
	ids := make([]string, 0, len(s.Features))
	for id := range s.Features {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) loadRulepacks() {
	for _, path := range s.findFiles(dirRulepacks, false) {
		rp, err := loadYaml[Rulepack](path)
		if err != nil {
			s.Warn("skipping rulepack %s: %v", path, err)
			continue
		}
		if rp.ID == "" {
			rp.ID = baseID(path)
		}
		rp.Path = path
		if _, dup := s.Rulepacks[rp.ID]; dup {
			s.Warn("duplicate rulepack id %q in %s, keeping first", rp.ID, path)
			continue
		}
		s.Rulepacks[rp.ID] = rp
	}
}

func (s *Store) loadAgents() {
	for _, path := range s.findFiles(dirAgents, false) {
		a, err := loadYaml[Agent](path)
		if err != nil {
			s.Warn("skipping agent %s: %v", path, err)
			continue
		}
		if a.ID == "" {
			a.ID = baseID(path)
		}
		a.Path = path
		if _, dup := s.Agents[a.ID]; dup {
			s.Warn("duplicate agent id %q in %s, keeping first", a.ID, path)
			continue
		}
		s.Agents[a.ID] = a
	}
}

func (s *Store) loadPrompts() {
	promptRoot := filepath.Join(s.root, dirPrompts)
	for _, path := range s.findFiles(dirPrompts, true) {
		p, err := loadYaml[Prompt](path)
		if err != nil {
			s.Warn("skipping prompt %s: %v", path, err)
			continue
		}
		if p.ID == "" {
			p.ID = baseID(path)
		}
		p.Path = path

		// Derive the qualified id from the location under prompts/:
		// prompts/refactor/extract-method.yml -> refactor/extract-method.
		rel, err := filepath.Rel(promptRoot, path)
		if err != nil {
			rel = filepath.Base(path)
		}
		dir := filepath.ToSlash(filepath.Dir(rel))
		if dir == "." {
			p.QualifiedID = p.ID
		} else {
			p.QualifiedID = dir + "/" + p.ID
		}

		if _, dup := s.Prompts[p.QualifiedID]; dup {
			s.Warn("duplicate prompt %q in %s, keeping first", p.QualifiedID, path)
			continue
		}
		s.Prompts[p.QualifiedID] = p
	}
}

func (s *Store) loadRecipes() {
	for _, path := range s.findFiles(dirRecipes, false) {
		r, err := loadYaml[Recipe](path)
		if err != nil {
			s.Warn("skipping recipe %s: %v", path, err)
			continue
		}
		if r.ID == "" {
			r.ID = baseID(path)
		}
		r.Path = path
		if _, dup := s.Recipes[r.ID]; dup {
			s.Warn("duplicate recipe id %q in %s, keeping first", r.ID, path)
			continue
		}
		s.Recipes[r.ID] = r
	}
}

func (s *Store) loadProjects() {
	for _, path := range s.findFiles(dirProjects, false) {
		p, err := loadYaml[Project](path)
		if err != nil {
			s.Warn("skipping project %s: %v", path, err)
			continue
		}
		if p.ID == "" {
			p.ID = baseID(path)
		}
		p.Path = path
		if _, dup := s.Projects[p.ID]; dup {
			s.Warn("duplicate project id %q in %s, keeping first", p.ID, path)
			continue
		}
		s.Projects[p.ID] = p
	}
}

func (s *Store) loadFeatures() {
	for _, path := range s.findFiles(dirFeatures, false) {
		f, err := loadYaml[Feature](path)
		if err != nil {
			s.Warn("skipping feature %s: %v", path, err)
			continue
		}
		if f.ID == "" {
			f.ID = baseID(path)
		}
		f.Path = path
		if _, dup := s.Features[f.ID]; dup {
			s.Warn("duplicate feature id %q in %s, keeping first", f.ID, path)
			continue
		}
		s.Features[f.ID] = f
	}
}

// findFiles returns the YAML files under the named category directory in
// sorted order. When recursive is true subdirectories are descended into
// (prompts use subdirectories as categories).
func (s *Store) findFiles(category string, recursive bool) []string {
	dir := filepath.Join(s.root, category)
	if _, err := os.Stat(dir); err != nil {
		return nil
	}

	var files []string
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			s.Warn("cannot read %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			if !recursive && path != dir {
				return fs.SkipDir
			}
			return nil
		}
		if isYamlFile(path) {
			files = append(files, path)
		}
		return nil
	})
	if walkErr != nil {
		s.Warn("error walking %s: %v", dir, walkErr)
	}

	sort.Strings(files)
	return files
}

// loadYaml reads and unmarshals a single YAML manifest.
func loadYaml[T any](path string) (*T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var v T
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return &v, nil
}

func isYamlFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yml" || ext == ".yaml"
}

// baseID derives an entity id from its file name.
func baseID(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// finalSegment returns the part of a slash-qualified id after the last "/".
func finalSegment(qualified string) string {
	if i := strings.LastIndex(qualified, "/"); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}
