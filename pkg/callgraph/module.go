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
	"path"
	"regexp"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/codegraph/pkg/source"
)

// moduleUnit is one reachable module: either a whole file (a file-backed
// module) or a byte range within a parent file (an inline `mod X { ... }`).
type moduleUnit struct {
	path []string // module path segments, not including the crate name
	file string
	node *sitter.Node // declaration_list body when non-nil; nil means "whole file"
}

var pathAttrRE = regexp.MustCompile(`#\s*\[\s*path\s*=\s*"([^"]+)"\s*\]`)

// discoverModules walks the module tree starting at rootFile, following
// `mod X;` (file-backed, via sibling "x.rs"/"x/mod.rs" or a `#[path=...]`
// override) and `mod X { ... }` (inline) declarations. It returns every
// reachable unit plus a cache of parsed file contents and trees.
func discoverModules(provider source.Provider, rootFile string, pool *parserPool) ([]moduleUnit, map[string]*sitter.Tree, map[string][]byte, error) {
	trees := make(map[string]*sitter.Tree)
	contents := make(map[string][]byte)

	var units []moduleUnit
	visited := make(map[string]bool)

	var visitFile func(file string, modPath []string) error
	var visitNode func(n *sitter.Node, file string, modPath []string, dir string) error

	visitFile = func(file string, modPath []string) error {
		if visited[file] {
			return nil
		}
		visited[file] = true
		src, err := provider.ReadFile(file)
		if err != nil {
			return err
		}
		tree, err := pool.parse(src)
		if err != nil {
			return err
		}
		contents[file] = src
		trees[file] = tree
		units = append(units, moduleUnit{path: append([]string(nil), modPath...), file: file})
		return visitNode(tree.RootNode(), file, modPath, fileModuleDir(file, len(modPath) == 0))
	}

	visitNode = func(n *sitter.Node, file string, modPath []string, dir string) error {
		count := int(n.NamedChildCount())
		var pendingAttrOverride string
		for i := 0; i < count; i++ {
			child := n.NamedChild(i)
			switch child.Type() {
			case "attribute_item":
				text := nodeText(contents[file], child)
				if m := pathAttrRE.FindStringSubmatch(text); m != nil {
					pendingAttrOverride = m[1]
				}
				continue
			case "mod_item":
				nameNode := child.ChildByFieldName("name")
				if nameNode == nil {
					pendingAttrOverride = ""
					continue
				}
				segment := nodeText(contents[file], nameNode)
				childPath := append(append([]string(nil), modPath...), segment)
				override := pendingAttrOverride
				pendingAttrOverride = ""

				bodyNode := child.ChildByFieldName("body")
				if bodyNode != nil {
					units = append(units, moduleUnit{path: childPath, file: file, node: bodyNode})
					if err := visitNode(bodyNode, file, childPath, dir); err != nil {
						return err
					}
					continue
				}

				childFile := override
				if childFile == "" {
					candidate1 := path.Join(dir, segment+".rs")
					candidate2 := path.Join(dir, segment, "mod.rs")
					if provider.FileExists(candidate1) {
						childFile = candidate1
					} else if provider.FileExists(candidate2) {
						childFile = candidate2
					}
				} else {
					childFile = path.Join(dir, override)
				}
				if childFile == "" || !provider.FileExists(childFile) {
					continue
				}
				if err := visitFile(childFile, childPath); err != nil {
					return err
				}
			default:
				pendingAttrOverride = ""
			}
		}
		return nil
	}

	if err := visitFile(rootFile, nil); err != nil {
		return nil, nil, nil, err
	}
	return units, trees, contents, nil
}

// fileModuleDir returns the directory new file-backed submodules of file
// are resolved relative to. isCrateRoot marks lib.rs/main.rs, whose
// submodules live alongside it rather than in a same-named subdirectory.
func fileModuleDir(file string, isCrateRoot bool) string {
	dir := path.Dir(file)
	base := path.Base(file)
	if isCrateRoot || base == "mod.rs" {
		return dir
	}
	return path.Join(dir, strings.TrimSuffix(base, ".rs"))
}

func nodeText(src []byte, n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return string(src[n.StartByte():n.EndByte()])
}
