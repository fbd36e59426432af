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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kraklabs/codegraph/pkg/callgraph"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.WorkspaceRoot != "." {
		t.Errorf("WorkspaceRoot = %q, want %q", cfg.WorkspaceRoot, ".")
	}
	if cfg.CallResolution != callgraph.ModeStrict {
		t.Errorf("CallResolution = %q, want %q", cfg.CallResolution, callgraph.ModeStrict)
	}
	if cfg.OutputPath != "-" {
		t.Errorf("OutputPath = %q, want %q", cfg.OutputPath, "-")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should validate cleanly, got: %v", err)
	}
}

func assertDefaults(t *testing.T, cfg Config) {
	t.Helper()
	want := DefaultConfig()
	if cfg.WorkspaceRoot != want.WorkspaceRoot || cfg.CallResolution != want.CallResolution ||
		cfg.MaxWorkers != want.MaxWorkers || cfg.OutputPath != want.OutputPath ||
		cfg.DescriptionDir != want.DescriptionDir || len(cfg.ExcludePackages) != 0 {
		t.Errorf("cfg = %+v, want the defaults %+v", cfg, want)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load on a missing file should not error, got: %v", err)
	}
	assertDefaults(t, cfg)
}

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") should not error, got: %v", err)
	}
	assertDefaults(t, cfg)
}

func TestLoad_OverridesDefaultsFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "workspace_root: /repo\n" +
		"description_dir: /repo/.codegraph/descriptions\n" +
		"call_resolution: ambiguous\n" +
		"max_workers: 4\n" +
		"exclude_packages: [\"internal_test_helpers\"]\n" +
		"output_path: out.json\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned an error: %v", err)
	}
	if cfg.WorkspaceRoot != "/repo" {
		t.Errorf("WorkspaceRoot = %q, want %q", cfg.WorkspaceRoot, "/repo")
	}
	if cfg.CallResolution != callgraph.ModeAmbiguous {
		t.Errorf("CallResolution = %q, want %q", cfg.CallResolution, callgraph.ModeAmbiguous)
	}
	if cfg.MaxWorkers != 4 {
		t.Errorf("MaxWorkers = %d, want 4", cfg.MaxWorkers)
	}
	if len(cfg.ExcludePackages) != 1 || cfg.ExcludePackages[0] != "internal_test_helpers" {
		t.Errorf("ExcludePackages = %v, want [internal_test_helpers]", cfg.ExcludePackages)
	}
	if cfg.OutputPath != "out.json" {
		t.Errorf("OutputPath = %q, want %q", cfg.OutputPath, "out.json")
	}
}

func TestValidate_RejectsEmptyWorkspaceRoot(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorkspaceRoot = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected Validate to reject an empty WorkspaceRoot")
	}
}

func TestValidate_RejectsUnknownCallResolution(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CallResolution = "whenever-convenient"
	if err := cfg.Validate(); err == nil {
		t.Error("expected Validate to reject an unknown CallResolution")
	}
}

func TestValidate_AcceptsEmptyCallResolution(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CallResolution = ""
	if err := cfg.Validate(); err != nil {
		t.Errorf("an empty CallResolution should validate (falls back elsewhere), got: %v", err)
	}
}
