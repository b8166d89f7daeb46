package config

import (
	"os"
	"testing"
)

// TestConfigFlow tests the end-to-end flow of setup writing config and the
// generate path reading it back with the right precedence.
func TestConfigFlow(t *testing.T) {
	globalPath := GlobalPath()
	projectPath := ProjectPath()

	// Backup existing configs
	globalBackup := globalPath + ".test-backup"
	projectBackup := projectPath + ".test-backup"
	if _, err := os.Stat(globalPath); err == nil {
		_ = os.Rename(globalPath, globalBackup)
		defer func() { _ = os.Rename(globalBackup, globalPath) }()
	} else {
		defer func() { _ = os.Remove(globalPath) }()
	}
	if _, err := os.Stat(projectPath); err == nil {
		_ = os.Rename(projectPath, projectBackup)
		defer func() { _ = os.Rename(projectBackup, projectPath) }()
	} else {
		defer func() { _ = os.Remove(projectPath) }()
	}

	for _, key := range []string{"RECIPEFORGE_MODEL", "RECIPEFORGE_MANIFEST_DIR", "RECIPEFORGE_LOG_LEVEL"} {
		if orig, ok := os.LookupEnv(key); ok {
			_ = os.Unsetenv(key)
			defer func(k, v string) { _ = os.Setenv(k, v) }(key, orig)
		}
	}

	t.Run("DefaultsWithoutAnyConfig", func(t *testing.T) {
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if cfg.ManifestDir != "ai" {
			t.Errorf("Expected manifest dir %q, got %q", "ai", cfg.ManifestDir)
		}
		if len(cfg.Tools) != 1 || cfg.Tools[0] != "claude" {
			t.Errorf("Expected default tools [claude], got %v", cfg.Tools)
		}
		if cfg.LogLevel != "info" {
			t.Errorf("Expected log level info, got %s", cfg.LogLevel)
		}
	})

	t.Run("SetupCreatesGlobalConfig", func(t *testing.T) {
		cfg := &Config{
			ManifestDir: "manifests",
			Tools:       []string{"claude", "copilot"},
			Model:       "claude-sonnet-4-5",
			LogLevel:    "info",
		}

		if err := WriteGlobal(cfg); err != nil {
			t.Fatalf("WriteGlobal failed: %v", err)
		}
		if !Exists() {
			t.Fatal("Config file should exist after WriteGlobal")
		}

		loaded, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.ManifestDir != cfg.ManifestDir {
			t.Errorf("Expected manifest dir %s, got %s", cfg.ManifestDir, loaded.ManifestDir)
		}
		if loaded.Model != cfg.Model {
			t.Errorf("Expected model %s, got %s", cfg.Model, loaded.Model)
		}
		if len(loaded.Tools) != 2 {
			t.Errorf("Expected 2 tools, got %v", loaded.Tools)
		}
	})

	t.Run("ProjectConfigOverridesGlobal", func(t *testing.T) {
		globalCfg := &Config{
			ManifestDir: "global-manifests",
			Tools:       []string{"claude"},
			Model:       "global-model",
			LogLevel:    "info",
		}
		if err := WriteGlobal(globalCfg); err != nil {
			t.Fatalf("WriteGlobal failed: %v", err)
		}

		projectCfg := &Config{
			ManifestDir: "project-manifests",
			Tools:       []string{"copilot"},
			Model:       "project-model",
			LogLevel:    "debug",
		}
		if err := WriteProject(projectCfg); err != nil {
			t.Fatalf("WriteProject failed: %v", err)
		}

		loaded, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.ManifestDir != "project-manifests" {
			t.Errorf("Expected project manifest dir, got %s", loaded.ManifestDir)
		}
		if loaded.Model != "project-model" {
			t.Errorf("Expected project model, got %s", loaded.Model)
		}
		if loaded.LogLevel != "debug" {
			t.Errorf("Expected debug log level, got %s", loaded.LogLevel)
		}
	})

	t.Run("EnvOverridesFiles", func(t *testing.T) {
		t.Setenv("RECIPEFORGE_MODEL", "env-model")

		loaded, err := Load()
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.Model != "env-model" {
			t.Errorf("Expected env model to win, got %s", loaded.Model)
		}
	})
}
