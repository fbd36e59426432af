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

// Package workspace merges the per-package graphs produced by extraction
// into a single Workspace document: nodes and edges deduplicated across
// package boundaries, partitioned back into per-package CrateGraphs plus
// the set of edges that cross a package boundary.
package workspace

import (
	"sort"

	"github.com/kraklabs/codegraph/pkg/graph"
	"github.com/kraklabs/codegraph/pkg/identity"
)

// PackageResult is one extracted package's raw output, before merge.
type PackageResult struct {
	Name    string
	Version string
	Graph   *graph.Graph
}

// Merge unions every package's nodes and edges by identity, resolves
// duplicate nodes via the completeness tie-break, partitions nodes back
// into their owning package, separates intra-package edges from
// cross-package edges, and synthesizes ExternalCrate stubs for any
// package referenced but not present in results.
func Merge(results []PackageResult, repo, ref *string) graph.Workspace {
	nodeByID := make(map[string]graph.Node)
	nodeOrder := make([]string, 0)
	edgeSeen := make(map[edgeKey]graph.Edge)
	edgeOrder := make([]edgeKey, 0)

	memberPackages := make(map[string]bool, len(results))
	for _, r := range results {
		memberPackages[identity.PackageID(r.Name)] = true
	}

	for _, r := range results {
		if r.Graph == nil {
			continue
		}
		for _, n := range r.Graph.Nodes {
			mergeNode(nodeByID, &nodeOrder, n)
		}
		for _, e := range r.Graph.Edges {
			mergeEdge(edgeSeen, &edgeOrder, e)
		}
	}

	sort.Strings(nodeOrder)

	byPackage := make(map[string][]graph.Node)
	for _, id := range nodeOrder {
		n := nodeByID[id]
		pkg := identity.OwningPackage(id)
		byPackage[pkg] = append(byPackage[pkg], n)
	}

	crates := make([]graph.CrateGraph, 0, len(results))
	externalNodes := make(map[string][]graph.Node)

	seenCrate := make(map[string]bool, len(results))
	for _, r := range results {
		pkgID := identity.PackageID(r.Name)
		if seenCrate[pkgID] {
			continue
		}
		seenCrate[pkgID] = true
		crates = append(crates, graph.CrateGraph{
			ID:      pkgID,
			Name:    r.Name,
			Version: r.Version,
			Nodes:   byPackage[pkgID],
		})
	}

	sortedEdgeKeys := make([]edgeKey, len(edgeOrder))
	copy(sortedEdgeKeys, edgeOrder)
	sort.Slice(sortedEdgeKeys, func(i, j int) bool {
		a, b := sortedEdgeKeys[i], sortedEdgeKeys[j]
		if a.from != b.from {
			return a.from < b.from
		}
		if a.to != b.to {
			return a.to < b.to
		}
		return a.kind < b.kind
	})

	crateIndex := make(map[string]int, len(crates))
	for i, c := range crates {
		crateIndex[c.ID] = i
	}

	var crossCrateEdges []graph.Edge
	for _, key := range sortedEdgeKeys {
		e := edgeSeen[key]
		fromPkg := identity.OwningPackage(e.From)
		toPkg := identity.OwningPackage(e.To)
		if fromPkg == toPkg {
			if i, ok := crateIndex[fromPkg]; ok {
				crates[i].Edges = append(crates[i].Edges, e)
			}
			continue
		}
		crossCrateEdges = append(crossCrateEdges, e)
		if !memberPackages[toPkg] {
			if _, ok := nodeByID[e.To]; !ok {
				externalNodes[toPkg] = append(externalNodes[toPkg], graph.Node{
					ID:         e.To,
					Name:       identity.LastSegment(e.To),
					Kind:       graph.KindPackage,
					IsExternal: true,
				})
			}
		}
	}

	externalPkgs := make([]string, 0, len(externalNodes))
	for pkg := range externalNodes {
		externalPkgs = append(externalPkgs, pkg)
	}
	sort.Strings(externalPkgs)

	externals := make([]graph.ExternalCrate, 0, len(externalPkgs))
	for _, pkg := range externalPkgs {
		externals = append(externals, graph.ExternalCrate{ID: pkg, Name: pkg, Nodes: externalNodes[pkg]})
	}

	sort.Slice(crates, func(i, j int) bool { return crates[i].ID < crates[j].ID })

	return graph.Workspace{
		Version:         graph.SchemaVersion,
		Crates:          crates,
		ExternalCrates:  externals,
		CrossCrateEdges: crossCrateEdges,
		Repo:            repo,
		Ref:             ref,
	}
}

func mergeNode(byID map[string]graph.Node, order *[]string, n graph.Node) {
	existing, ok := byID[n.ID]
	if !ok {
		byID[n.ID] = n
		*order = append(*order, n.ID)
		return
	}
	if n.MoreComplete(existing) {
		byID[n.ID] = n
	}
}

type edgeKey struct {
	from string
	to   string
	kind graph.EdgeKind
}

func mergeEdge(seen map[edgeKey]graph.Edge, order *[]edgeKey, e graph.Edge) {
	if e.From == e.To {
		return
	}
	key := edgeKey{e.From, e.To, e.Kind}
	if existing, ok := seen[key]; ok {
		existing.Confidence = graph.MergeConfidence(existing.Confidence, e.Confidence)
		seen[key] = existing
		return
	}
	seen[key] = e
	*order = append(*order, key)
}
