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

package callgraph

import (
	"testing"

	"github.com/kraklabs/codegraph/pkg/source"
)

func TestDiscoverModules_InlineFileBackedAndPathOverride(t *testing.T) {
	provider := source.NewMemoryProvider(map[string][]byte{
		"src/lib.rs": []byte(
			"mod inline_mod {\n" +
				"    fn inline_fn() {}\n" +
				"}\n" +
				"\n" +
				"mod on_disk;\n" +
				"\n" +
				"#[path = \"renamed.rs\"]\n" +
				"mod weird;\n"),
		"src/on_disk.rs": []byte("fn on_disk_fn() {}\n"),
		"src/renamed.rs": []byte("fn weird_fn() {}\n"),
	})

	pool := newParserPool()
	units, trees, contents, err := discoverModules(provider, "src/lib.rs", pool)
	if err != nil {
		t.Fatalf("discoverModules returned an error: %v", err)
	}

	byPath := make(map[string]moduleUnit)
	for _, u := range units {
		key := ""
		for _, seg := range u.path {
			key += seg + "/"
		}
		byPath[key] = u
	}

	root, ok := byPath[""]
	if !ok || root.file != "src/lib.rs" || root.node != nil {
		t.Errorf("expected the whole-file root unit at src/lib.rs, got %+v (ok=%v)", root, ok)
	}

	inline, ok := byPath["inline_mod/"]
	if !ok || inline.file != "src/lib.rs" || inline.node == nil {
		t.Errorf("expected an inline unit for inline_mod backed by a body node, got %+v (ok=%v)", inline, ok)
	}

	onDisk, ok := byPath["on_disk/"]
	if !ok || onDisk.file != "src/on_disk.rs" {
		t.Errorf("expected on_disk resolved to src/on_disk.rs, got %+v (ok=%v)", onDisk, ok)
	}

	weird, ok := byPath["weird/"]
	if !ok || weird.file != "src/renamed.rs" {
		t.Errorf("expected weird resolved via #[path] to src/renamed.rs, got %+v (ok=%v)", weird, ok)
	}

	if len(trees) != 3 {
		t.Errorf("expected 3 parsed files (lib.rs, on_disk.rs, renamed.rs), got %d", len(trees))
	}
	if _, ok := contents["src/on_disk.rs"]; !ok {
		t.Error("expected src/on_disk.rs contents to be cached")
	}
}

func TestFileModuleDir(t *testing.T) {
	if got := fileModuleDir("src/lib.rs", true); got != "src" {
		t.Errorf("fileModuleDir(crate root) = %q, want %q", got, "src")
	}
	if got := fileModuleDir("src/foo/mod.rs", false); got != "src/foo" {
		t.Errorf("fileModuleDir(mod.rs) = %q, want %q", got, "src/foo")
	}
	if got := fileModuleDir("src/foo.rs", false); got != "src/foo" {
		t.Errorf("fileModuleDir(plain file-backed module) = %q, want %q", got, "src/foo")
	}
}
