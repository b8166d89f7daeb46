// Package config handles recipeforge configuration loading with the
// following precedence: environment variables, then project config, then
// global config, then built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all recipeforge settings.
type Config struct {
	// ManifestDir is the root of the manifest tree, relative to the
	// working directory.
	ManifestDir string `yaml:"manifest_dir" mapstructure:"manifest_dir"`

	// OutputDir overrides the per-tool script directory when non-empty.
	OutputDir string `yaml:"output_dir,omitempty" mapstructure:"output_dir"`

	// Tools lists the backends to generate scripts for.
	Tools []string `yaml:"tools" mapstructure:"tools"`

	// Model globally overrides the model for every step when non-empty.
	Model string `yaml:"model,omitempty" mapstructure:"model"`

	LogLevel string `yaml:"log_level" mapstructure:"log_level"`
	LogFile  string `yaml:"log_file,omitempty" mapstructure:"log_file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ManifestDir: "ai",
		Tools:       []string{"claude"},
		LogLevel:    "info",
	}
}

// GlobalPath returns the path to the global config file.
func GlobalPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "recipeforge", "recipeforge.yml")
}

// ProjectPath returns the path to the project-local config file.
func ProjectPath() string {
	return "recipeforge.yml"
}

// Exists reports whether any config file is present.
func Exists() bool {
	if _, err := os.Stat(GlobalPath()); err == nil {
		return true
	}
	if _, err := os.Stat(ProjectPath()); err == nil {
		return true
	}
	return false
}

// Load reads configuration from all sources in precedence order. Missing
// config files are not an error; malformed ones are.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Every key needs a default so env-only overrides reach Unmarshal.
	def := Default()
	v.SetDefault("manifest_dir", def.ManifestDir)
	v.SetDefault("output_dir", "")
	v.SetDefault("tools", def.Tools)
	v.SetDefault("model", "")
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("log_file", "")

	v.SetEnvPrefix("RECIPEFORGE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := mergeFile(v, GlobalPath()); err != nil {
		return nil, fmt.Errorf("failed to read global config: %w", err)
	}
	if err := mergeFile(v, ProjectPath()); err != nil {
		return nil, fmt.Errorf("failed to read project config: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func mergeFile(v *viper.Viper, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer func() { _ = f.Close() }()
	return v.MergeConfig(f)
}

// WriteGlobal writes the config to the global location, creating parent
// directories as needed.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return write(cfg, path)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(cfg, ProjectPath())
}

func write(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
