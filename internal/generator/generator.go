// Package generator drives a full generation run: load the manifest tree,
// compile every recipe and feature for every configured tool, and write
// the resulting scripts to each tool's script directory.
package generator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"recipeforge/internal/backend"
	"recipeforge/internal/compiler"
	rferrors "recipeforge/internal/errors"
	"recipeforge/internal/git"
	"recipeforge/internal/hooks"
	"recipeforge/internal/logger"
	"recipeforge/internal/manifest"
)

// Config holds configuration for a generation run.
type Config struct {
	ManifestDir string   // Root of the manifest tree
	OutputDir   string   // Overrides per-tool script directories when non-empty
	Tools       []string // Backends to generate for
	Model       string   // Forces one model for every step when non-empty
	WorkDir     string   // Working directory for hooks and git inspection
	SkipHooks   bool     // Skip pre/post generation hooks
}

// Result summarizes a generation run.
type Result struct {
	Scripts  []string // Paths of all scripts written
	Warnings []string // Manifest and compilation warnings
}

// Generator ties the manifest store to the compiler and backends.
type Generator struct {
	cfg      Config
	registry *backend.Registry
}

// New creates a generator with the given configuration and the built-in
// backends.
func New(cfg Config) *Generator {
	if cfg.WorkDir == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.WorkDir = wd
		}
	}
	if len(cfg.Tools) == 0 {
		cfg.Tools = []string{"claude"}
	}
	return &Generator{cfg: cfg, registry: backend.DefaultRegistry()}
}

// Run executes a full generation pass. Per-recipe failures are collected
// and reported together; a missing recipes directory aborts the run.
func (g *Generator) Run(ctx context.Context) (*Result, error) {
	hookCfg, err := hooks.LoadConfig(g.cfg.WorkDir)
	if err != nil {
		return nil, err
	}
	vars := hooks.Variables{
		ManifestDir: g.cfg.ManifestDir,
		Tools:       strings.Join(g.cfg.Tools, ","),
	}
	if !g.cfg.SkipHooks {
		if err := hooks.ExecuteAll(ctx, hookCfg.Hooks.PreGenerate, g.cfg.WorkDir, vars); err != nil {
			return nil, fmt.Errorf("pre-generate hook failed: %w", err)
		}
	}

	store, err := manifest.Load(g.cfg.ManifestDir)
	if err != nil {
		return nil, err
	}
	if !store.HasRecipesDir() {
		return nil, fmt.Errorf("%w: no recipes directory under %s", rferrors.ErrFatalConfig, g.cfg.ManifestDir)
	}

	var sourceRef string
	if info, err := git.GetInfo(g.cfg.WorkDir); err == nil && info != nil {
		sourceRef = info.Ref()
	}

	c := compiler.New(store, g.registry)
	result := &Result{}
	errs := &rferrors.MultiError{}

	for _, tool := range g.cfg.Tools {
		if _, err := g.registry.Get(tool); err != nil {
			errs.Append(err)
			continue
		}
		for _, req := range g.requests(store, tool, sourceRef) {
			path, err := g.write(c, req)
			if err != nil {
				logger.Error("failed to generate %s for %s: %v", req.Recipe.ID, tool, err)
				errs.Append(err)
				continue
			}
			logger.Info("wrote %s", path)
			result.Scripts = append(result.Scripts, path)
		}
	}

	result.Warnings = store.Warnings()
	for _, w := range result.Warnings {
		logger.Warn("%s", w)
	}

	if !g.cfg.SkipHooks {
		vars.Scripts = strings.Join(result.Scripts, ",")
		if err := hooks.ExecuteAll(ctx, hookCfg.Hooks.PostGenerate, g.cfg.WorkDir, vars); err != nil {
			errs.Append(fmt.Errorf("post-generate hook failed: %w", err))
		}
	}

	return result, errs.ErrorOrNil()
}

// requests builds the compilation requests for one tool: every standalone
// recipe, then every feature bound to a recipe. A feature restricted to
// other tools is skipped; a feature naming an unknown recipe is a warning.
func (g *Generator) requests(store *manifest.Store, tool, sourceRef string) []compiler.Request {
	project := g.project(store)

	var reqs []compiler.Request
	for _, id := range store.RecipeIDs() {
		recipe, _ := store.Recipe(id)
		reqs = append(reqs, compiler.Request{
			Recipe:        recipe,
			Project:       project,
			Tool:          tool,
			ModelOverride: g.cfg.Model,
			SourceRef:     sourceRef,
		})
	}

	for _, id := range store.FeatureIDs() {
		feature := store.Features[id]
		if feature.Recipe == nil {
			continue
		}
		if !featureTargets(feature, tool) {
			continue
		}
		recipe, ok := store.Recipe(feature.Recipe.ID)
		if !ok {
			store.Warn("feature %q references unknown recipe %q, skipping", feature.ID, feature.Recipe.ID)
			continue
		}
		reqs = append(reqs, compiler.Request{
			Recipe:        recipe,
			Project:       project,
			Feature:       feature,
			Tool:          tool,
			ModelOverride: g.cfg.Model,
			SourceRef:     sourceRef,
		})
	}
	return reqs
}

// featureTargets reports whether the feature generates for the tool. An
// empty tools list means every configured tool.
func featureTargets(f *manifest.Feature, tool string) bool {
	if len(f.Recipe.Tools) == 0 {
		return true
	}
	for _, t := range f.Recipe.Tools {
		if t == tool {
			return true
		}
	}
	return false
}

// project picks the active project manifest. Most trees carry at most one;
// with several, the lexicographically first wins and the rest are flagged.
func (g *Generator) project(store *manifest.Store) *manifest.Project {
	ids := make([]string, 0, len(store.Projects))
	for id := range store.Projects {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil
	}
	sort.Strings(ids)
	if len(ids) > 1 {
		store.Warn("multiple project manifests found, using %q", ids[0])
	}
	return store.Projects[ids[0]]
}

// write compiles one request and writes the script with execute
// permissions.
func (g *Generator) write(c *compiler.Compiler, req compiler.Request) (string, error) {
	s, err := c.Compile(req)
	if err != nil {
		return "", err
	}

	be, err := g.registry.Get(req.Tool)
	if err != nil {
		return "", err
	}
	// A custom output directory gets one subdirectory per tool so the
	// same recipe compiled for two tools never collides.
	dir := be.ScriptDir()
	if g.cfg.OutputDir != "" {
		dir = filepath.Join(g.cfg.OutputDir, req.Tool)
	}
	dir = filepath.Join(g.cfg.WorkDir, dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create script directory: %w", err)
	}

	path := filepath.Join(dir, req.ScriptName())
	if err := os.WriteFile(path, []byte(s.Render()), 0o755); err != nil {
		return "", fmt.Errorf("failed to write script: %w", err)
	}
	return path, nil
}
