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

package extract

import (
	"testing"

	"github.com/kraklabs/codegraph/pkg/callgraph"
	"github.com/kraklabs/codegraph/pkg/source"
)

const minimalCrateDescription = `{
	"root": "0",
	"format_version": 30,
	"index": {
		"0": {"id": "0", "crate_id": 0, "name": "my_pkg", "visibility": {"kind": "public"}, "inner": {"kind": "module", "module": {"items": ["1"]}}},
		"1": {"id": "1", "crate_id": 0, "name": "run", "visibility": {"kind": "public"}, "inner": {"kind": "function", "function": {"sig": {}}}}
	},
	"paths": {
		"1": {"crate": 0, "path": ["my_pkg", "run"], "kind": "function"}
	},
	"external_crates": {}
}`

func TestExtractPackage_WalksAndResolvesCalls(t *testing.T) {
	spec := PackageSpec{
		Name:        "my_pkg",
		Version:     "0.1.0",
		Description: []byte(minimalCrateDescription),
		RootFile:    "src/lib.rs",
		Source:      source.NewMemoryProvider(map[string][]byte{"src/lib.rs": []byte("fn run() {}\n")}),
	}

	outcome := ExtractPackage(spec, callgraph.ModeStrict, nil)
	if outcome.Err != nil {
		t.Fatalf("ExtractPackage returned an error: %v", outcome.Err)
	}
	if outcome.Graph == nil {
		t.Fatal("expected a populated graph")
	}
	if _, ok := outcome.Graph.Node("my_pkg::run"); !ok {
		t.Error("expected a node for my_pkg::run")
	}
	if outcome.Index == nil {
		t.Error("expected a populated FunctionIndex")
	}
	if outcome.Stats.CallsFound != 0 {
		t.Errorf("Stats.CallsFound = %d, want 0 (run's body makes no calls)", outcome.Stats.CallsFound)
	}
}

func TestExtractPackage_NoRootFileSkipsCallGraph(t *testing.T) {
	spec := PackageSpec{
		Name:        "my_pkg",
		Version:     "0.1.0",
		Description: []byte(minimalCrateDescription),
	}

	outcome := ExtractPackage(spec, callgraph.ModeStrict, nil)
	if outcome.Err != nil {
		t.Fatalf("ExtractPackage returned an error: %v", outcome.Err)
	}
	if outcome.Graph == nil {
		t.Fatal("expected a populated graph even without a root source file")
	}
	if outcome.Stats != (callgraph.Stats{}) {
		t.Errorf("Stats = %+v, want the zero value when no call-graph pass ran", outcome.Stats)
	}
}

func TestExtractPackage_BadDescriptionIsTaggedParseDescription(t *testing.T) {
	spec := PackageSpec{Name: "my_pkg", Description: []byte("not json")}
	outcome := ExtractPackage(spec, callgraph.ModeStrict, nil)
	if outcome.Err == nil {
		t.Fatal("expected an error for malformed description JSON")
	}
	ee, ok := outcome.Err.(*Error)
	if !ok {
		t.Fatalf("error is %T, want *Error", outcome.Err)
	}
	if ee.Kind != ErrParseDescription {
		t.Errorf("Kind = %q, want %q", ee.Kind, ErrParseDescription)
	}
	if ee.Package != "my_pkg" {
		t.Errorf("Package = %q, want %q", ee.Package, "my_pkg")
	}
	if outcome.Graph != nil {
		t.Error("a failed walk must never return a partial graph")
	}
}

func TestExtractWorkspace_MergesSuccessesAndCollectsFailures(t *testing.T) {
	good := PackageSpec{Name: "my_pkg", Version: "0.1.0", Description: []byte(minimalCrateDescription)}
	bad := PackageSpec{Name: "broken_pkg", Version: "0.2.0", Description: []byte("not json")}

	ws, errs := ExtractWorkspace(WorkspaceSpec{
		Packages: []PackageSpec{good, bad},
		Mode:     callgraph.ModeStrict,
	}, nil)

	if len(errs) != 1 {
		t.Fatalf("errs = %+v, want exactly 1 failure", errs)
	}
	ee, ok := errs[0].(*Error)
	if !ok || ee.Package != "broken_pkg" {
		t.Errorf("errs[0] = %+v, want a tagged Error for broken_pkg", errs[0])
	}

	if len(ws.Crates) != 1 || ws.Crates[0].ID != "my_pkg" {
		t.Fatalf("ws.Crates = %+v, want exactly the surviving my_pkg crate", ws.Crates)
	}
	if ws.Crates[0].Version != "0.1.0" {
		t.Errorf("ws.Crates[0].Version = %q, want %q", ws.Crates[0].Version, "0.1.0")
	}
}
