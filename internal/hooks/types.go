// Package hooks runs user-defined shell commands around script
// generation, configured via .recipeforge.hooks.yml in the working
// directory.
package hooks

// ConfigFile is the well-known name of the hooks configuration file.
const ConfigFile = ".recipeforge.hooks.yml"

// Config is the top-level configuration for hooks.
type Config struct {
	Version int         `yaml:"version"`
	Hooks   HooksConfig `yaml:"hooks"`
}

// HooksConfig contains all hook configurations.
type HooksConfig struct {
	PreGenerate  []*HookConfig `yaml:"pre_generate"`
	PostGenerate []*HookConfig `yaml:"post_generate"`
}

// HookConfig defines a single hook's configuration.
type HookConfig struct {
	Command    string `yaml:"command"`
	Timeout    int    `yaml:"timeout"`     // seconds, default 30
	PipeOutput bool   `yaml:"pipe_output"` // default false
}

// DefaultTimeout is the default timeout for hook execution in seconds.
const DefaultTimeout = 30
