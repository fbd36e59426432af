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

// Package config holds the extraction engine's ambient configuration:
// workspace discovery, concurrency, and output shaping, loadable from a
// YAML file and overridable by CLI flags.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kraklabs/codegraph/pkg/callgraph"
)

// Config is the top-level configuration for an extraction run.
type Config struct {
	// WorkspaceRoot is the directory under which each package's source
	// tree lives, at <WorkspaceRoot>/<package name>.
	WorkspaceRoot string `yaml:"workspace_root"`
	// DescriptionDir is where per-package API description JSON files are
	// read from; one file per package is how packages are discovered.
	DescriptionDir string `yaml:"description_dir"`
	// CallResolution selects Strict or Ambiguous call-edge resolution.
	CallResolution callgraph.Mode `yaml:"call_resolution"`
	// MaxWorkers caps cross-package extraction concurrency; 0 selects a
	// sensible default (NumCPU, capped).
	MaxWorkers int `yaml:"max_workers"`
	// ExcludePackages lists workspace member names to skip entirely.
	ExcludePackages []string `yaml:"exclude_packages"`
	// OutputPath is where the merged Workspace JSON document is written;
	// "-" or empty means standard output.
	OutputPath string `yaml:"output_path"`
	// Repo and Ref are attached to the merged Workspace document for
	// provenance; both optional.
	Repo string `yaml:"repo"`
	Ref  string `yaml:"ref"`
}

// DefaultConfig returns the engine's out-of-the-box settings.
func DefaultConfig() Config {
	return Config{
		WorkspaceRoot:  ".",
		CallResolution: callgraph.ModeStrict,
		MaxWorkers:     0,
		OutputPath:     "-",
	}
}

// Load reads and merges a YAML config file over DefaultConfig. A missing
// file is not an error; the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports the first configuration inconsistency found, if any.
func (c Config) Validate() error {
	if c.WorkspaceRoot == "" {
		return fmt.Errorf("workspace_root must not be empty")
	}
	switch c.CallResolution {
	case callgraph.ModeStrict, callgraph.ModeAmbiguous, "":
	default:
		return fmt.Errorf("call_resolution must be %q or %q, got %q", callgraph.ModeStrict, callgraph.ModeAmbiguous, c.CallResolution)
	}
	return nil
}
