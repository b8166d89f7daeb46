// Package git inspects the repository the manifests live in, so generated
// scripts can record which revision they were compiled from.
package git

import (
	"fmt"
	"os/exec"
	"strings"
)

// Info describes the state of a git repository.
type Info struct {
	Branch string // Branch name or "HEAD" if detached
	Hash   string // Short commit hash (7 chars)
	Dirty  bool   // Uncommitted changes exist
}

// Ref renders the info as a compact source reference, e.g.
// "main@1a2b3c4" or "main@1a2b3c4 (dirty)".
func (i *Info) Ref() string {
	ref := fmt.Sprintf("%s@%s", i.Branch, i.Hash)
	if i.Dirty {
		ref += " (dirty)"
	}
	return ref
}

// GetInfo retrieves git repository information for the given directory.
// Returns nil, nil if the directory is not a git repository.
func GetInfo(dir string) (*Info, error) {
	if !isGitRepo(dir) {
		return nil, nil
	}

	info := &Info{}

	branch, err := runGit(dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return nil, err
	}
	info.Branch = branch

	hash, err := runGit(dir, "rev-parse", "--short=7", "HEAD")
	if err != nil {
		return nil, err
	}
	info.Hash = hash

	status, err := runGit(dir, "status", "--porcelain")
	if err != nil {
		return nil, err
	}
	info.Dirty = status != ""

	return info, nil
}

// isGitRepo checks if the directory is inside a git repository.
func isGitRepo(dir string) bool {
	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = dir
	return cmd.Run() == nil
}

// runGit executes a git command and returns trimmed stdout.
func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}
