// Copyright 2025 KrakLabs
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <https://www.gnu.org/licenses/>.
//
// For commercial licensing, contact: licensing@kraklabs.com
//
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gitinfo detects the repository and ref a workspace was extracted
// from, for provenance fields on the merged workspace document.
package gitinfo

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// Executor runs git subcommands against a discovered repository root.
type Executor struct {
	repoPath string
}

// NewExecutor discovers the repo root from startPath via "git rev-parse
// --show-toplevel". Returns an error if startPath is not inside a git
// repository, or git is not installed.
func NewExecutor(startPath string) (*Executor, error) {
	if startPath == "" {
		return nil, fmt.Errorf("startPath cannot be empty")
	}

	absPath, err := filepath.Abs(startPath)
	if err != nil {
		return nil, fmt.Errorf("resolve absolute path: %w", err)
	}

	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	cmd.Dir = absPath
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return nil, fmt.Errorf("not a git repository: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("git not found or not installed: %w", err)
	}

	repoPath := strings.TrimSpace(string(output))
	if repoPath == "" {
		return nil, fmt.Errorf("could not determine git repository root")
	}
	return &Executor{repoPath: repoPath}, nil
}

// RepoPath returns the absolute path to the repository root.
func (e *Executor) RepoPath() string {
	return e.repoPath
}

// Run executes a git command in the repository root and returns stdout.
func (e *Executor) Run(ctx context.Context, args ...string) (string, error) {
	if len(args) == 0 {
		return "", fmt.Errorf("no git command specified")
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = e.repoPath

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("git command timed out or canceled: %w", ctx.Err())
		}
		stderrStr := strings.TrimSpace(stderr.String())
		if stderrStr != "" {
			return "", fmt.Errorf("git %s failed: %s", args[0], stderrStr)
		}
		return "", fmt.Errorf("git %s failed: %w", args[0], err)
	}
	return stdout.String(), nil
}

// Detect returns the origin remote URL and the current HEAD commit SHA for
// the repository containing root. Either value may come back empty (no
// "origin" remote, detached worktree with no commits yet) without that
// being an error; only a missing/non-git root is an error.
func Detect(ctx context.Context, root string) (repo, ref string, err error) {
	exec, err := NewExecutor(root)
	if err != nil {
		return "", "", err
	}

	if out, rErr := exec.Run(ctx, "remote", "get-url", "origin"); rErr == nil {
		repo = strings.TrimSpace(out)
	}
	if out, rErr := exec.Run(ctx, "rev-parse", "HEAD"); rErr == nil {
		ref = strings.TrimSpace(out)
	}
	return repo, ref, nil
}
