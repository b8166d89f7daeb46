package hooks

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"recipeforge/internal/logger"
)

// Variables are exposed to hook commands as environment variables.
type Variables struct {
	ManifestDir string // RECIPEFORGE_MANIFEST_DIR
	Tools       string // RECIPEFORGE_TOOLS, comma separated
	Scripts     string // RECIPEFORGE_SCRIPTS, comma separated, post-generate only
}

func (v Variables) env() []string {
	return append(os.Environ(),
		"RECIPEFORGE_MANIFEST_DIR="+v.ManifestDir,
		"RECIPEFORGE_TOOLS="+v.Tools,
		"RECIPEFORGE_SCRIPTS="+v.Scripts,
	)
}

// LoadConfig reads the hooks configuration from workDir. A missing file
// yields an empty config, not an error.
func LoadConfig(workDir string) (*Config, error) {
	data, err := os.ReadFile(filepath.Join(workDir, ConfigFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read hooks config: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse hooks config: %w", err)
	}
	return cfg, nil
}

// ExecuteAll runs the given hooks in order. A failing hook aborts the
// sequence and returns its error.
func ExecuteAll(ctx context.Context, hooks []*HookConfig, workDir string, vars Variables) error {
	_, err := ExecuteAllPiped(ctx, hooks, workDir, vars)
	return err
}

// ExecuteAllPiped runs the given hooks in order and returns the combined
// output of every hook that set pipe_output, separated by blank lines.
func ExecuteAllPiped(ctx context.Context, hooks []*HookConfig, workDir string, vars Variables) (string, error) {
	var piped []string
	for _, hook := range hooks {
		out, err := execute(ctx, hook, workDir, vars)
		if err != nil {
			return "", fmt.Errorf("hook %q failed: %w", hook.Command, err)
		}
		if hook.PipeOutput {
			piped = append(piped, out)
		}
	}
	return strings.Join(piped, "\n"), nil
}

func execute(ctx context.Context, hook *HookConfig, workDir string, vars Variables) (string, error) {
	timeout := hook.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
	defer cancel()

	logger.Debug("running hook: %s", hook.Command)

	cmd := exec.CommandContext(ctx, "bash", "-c", hook.Command)
	cmd.Dir = workDir
	cmd.Env = vars.env()

	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("timed out after %ds", timeout)
		}
		return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}
