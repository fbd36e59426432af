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

// Package graph defines the in-memory code graph: nodes, edges, and the
// serialized workspace container produced by the extraction engine.
package graph

// SchemaVersion is the current workspace schema version. Consumers must
// reject documents carrying a different version.
const SchemaVersion = 1

// NodeKind identifies the kind of program entity a Node represents.
type NodeKind string

const (
	KindPackage    NodeKind = "Package"
	KindModule     NodeKind = "Module"
	KindStruct     NodeKind = "Struct"
	KindUnion      NodeKind = "Union"
	KindEnum       NodeKind = "Enum"
	KindTrait      NodeKind = "Trait"
	KindTraitAlias NodeKind = "TraitAlias"
	KindImpl       NodeKind = "Impl"
	KindFunction   NodeKind = "Function"
	KindMethod     NodeKind = "Method"
	KindTypeAlias  NodeKind = "TypeAlias"
)

// Visibility is the declared visibility of a node.
type Visibility string

const (
	VisibilityPublic      Visibility = "Public"
	VisibilityPackageLocal Visibility = "PackageLocal"
	VisibilityRestricted  Visibility = "Restricted"
	VisibilityInherited   Visibility = "Inherited"
	VisibilityUnknown     Visibility = "Unknown"
)

// ImplType distinguishes inherent impls from trait impls.
type ImplType string

const (
	ImplTypeTrait    ImplType = "Trait"
	ImplTypeInherent ImplType = "Inherent"
)

// EdgeKind identifies the kind of relationship an Edge represents.
type EdgeKind string

const (
	EdgeContains     EdgeKind = "Contains"
	EdgeDefines      EdgeKind = "Defines"
	EdgeImplements   EdgeKind = "Implements"
	EdgeUsesType     EdgeKind = "UsesType"
	EdgeCallsStatic  EdgeKind = "CallsStatic"
	EdgeCallsRuntime EdgeKind = "CallsRuntime"
	EdgeDerives      EdgeKind = "Derives"
	EdgeReExports    EdgeKind = "ReExports"
)

// Confidence labels how an edge was established.
type Confidence string

const (
	ConfidenceStatic   Confidence = "Static"
	ConfidenceRuntime  Confidence = "Runtime"
	ConfidenceInferred Confidence = "Inferred"
)

// confidenceRank orders confidence for the merge precedence
// Runtime > Static > Inferred (see DESIGN.md for the rationale).
var confidenceRank = map[Confidence]int{
	ConfidenceRuntime:  2,
	ConfidenceStatic:   1,
	ConfidenceInferred: 0,
}

// MergeConfidence returns the higher-precedence of two confidences under
// Runtime > Static > Inferred.
func MergeConfidence(a, b Confidence) Confidence {
	if confidenceRank[a] >= confidenceRank[b] {
		return a
	}
	return b
}

// Span is a 1-indexed source location, optionally covering a range.
type Span struct {
	File      string `json:"file"`
	Line      uint32 `json:"line"`
	Column    uint32 `json:"column"`
	EndLine   *uint32 `json:"end_line,omitempty"`
	EndColumn *uint32 `json:"end_column,omitempty"`
}

// FieldInfo describes a single struct/union/variant field.
type FieldInfo struct {
	Name       string     `json:"name"`
	TypeName   string     `json:"type_name"`
	Visibility Visibility `json:"visibility"`
}

// VariantInfo describes a single enum variant.
type VariantInfo struct {
	Name   string      `json:"name"`
	Fields []FieldInfo `json:"fields"`
}

// ArgumentInfo describes a single function/method parameter.
type ArgumentInfo struct {
	Name     string `json:"name"`
	TypeName string `json:"type_name"`
}

// FunctionSignature describes a callable's inputs, output, and qualifiers.
type FunctionSignature struct {
	Inputs   []ArgumentInfo `json:"inputs"`
	Output   *string        `json:"output,omitempty"`
	IsAsync  bool           `json:"is_async"`
	IsUnsafe bool           `json:"is_unsafe"`
	IsConst  bool           `json:"is_const"`
}

// Node represents one declared program entity.
type Node struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Kind       NodeKind   `json:"kind"`
	Visibility Visibility `json:"visibility"`
	Span       *Span      `json:"span,omitempty"`
	Attrs      []string   `json:"attrs"`
	IsExternal bool       `json:"is_external,omitempty"`

	Fields    []FieldInfo        `json:"fields,omitempty"`
	Variants  []VariantInfo      `json:"variants,omitempty"`
	Signature *FunctionSignature `json:"signature,omitempty"`
	Generics  []string           `json:"generics,omitempty"`
	WhereClause []string         `json:"where_clause,omitempty"`
	Docs      *string            `json:"docs,omitempty"`

	DocLinks   map[string]string `json:"doc_links,omitempty"`
	BoundLinks map[string]string `json:"bound_links,omitempty"`

	ImplType   *ImplType `json:"impl_type,omitempty"`
	ParentImpl *string   `json:"parent_impl,omitempty"`
	ImplTrait  *string   `json:"impl_trait,omitempty"`
}

// completenessScore scores a node for the merge tie-break used when the
// same node is observed more than once across packages.
func (n Node) completenessScore() int {
	score := 0
	if n.Span != nil {
		score++
	}
	if len(n.Fields) > 0 {
		score += 2
	}
	if len(n.Variants) > 0 {
		score += 2
	}
	if n.Signature != nil {
		score += 2
	}
	if len(n.Generics) > 0 {
		score++
	}
	if n.Docs != nil {
		score++
	}
	if len(n.Attrs) > 0 {
		score++
	}
	if n.Visibility != "" && n.Visibility != VisibilityUnknown {
		score++
	}
	return score
}

// MoreComplete reports whether n is preferred over other under the
// completeness tie-break: non-external always wins, otherwise the higher
// completeness score wins.
func (n Node) MoreComplete(other Node) bool {
	if n.IsExternal != other.IsExternal {
		return !n.IsExternal
	}
	return n.completenessScore() >= other.completenessScore()
}

// Edge represents one directed, typed relationship between two nodes.
type Edge struct {
	From       string     `json:"from"`
	To         string     `json:"to"`
	Kind       EdgeKind   `json:"kind"`
	Confidence Confidence `json:"confidence"`
}

// edgeKey is the dedup key (from, to, kind) shared by the walker, call
// extractor, and merge step.
type edgeKey struct {
	from string
	to   string
	kind EdgeKind
}

// Graph is the growable, single-package accumulator of nodes and edges
// used during extraction. It is discarded after the per-package pass
// completes and the result is folded into a Workspace by pkg/workspace.
type Graph struct {
	Nodes []Node
	Edges []Edge

	nodeIndex map[string]int
	edgeSeen  map[edgeKey]int
}

// New returns an empty Graph.
func New() *Graph {
	return &Graph{
		nodeIndex: make(map[string]int),
		edgeSeen:  make(map[edgeKey]int),
	}
}

// HasNode reports whether a node with the given ID has already been added.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodeIndex[id]
	return ok
}

// Node returns the node with the given ID, if present.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.nodeIndex[id]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// AddNode appends a node. Callers are responsible for checking HasNode
// first when the walker intends "materialize once" semantics.
func (g *Graph) AddNode(n Node) {
	g.nodeIndex[n.ID] = len(g.Nodes)
	g.Nodes = append(g.Nodes, n)
}

// AddEdge appends an edge, deduping by (from, to, kind) — an edge
// invariant 2. A duplicate merges its confidence into the existing edge
// using MergeConfidence rather than being dropped or appended again.
// Self-loops (from == to) are silently discarded per invariant 1.
func (g *Graph) AddEdge(e Edge) {
	if e.From == e.To {
		return
	}
	key := edgeKey{e.From, e.To, e.Kind}
	if i, ok := g.edgeSeen[key]; ok {
		g.Edges[i].Confidence = MergeConfidence(g.Edges[i].Confidence, e.Confidence)
		return
	}
	g.edgeSeen[key] = len(g.Edges)
	g.Edges = append(g.Edges, e)
}

// CrateGraph is one workspace-member package's owned nodes and
// intra-package edges.
type CrateGraph struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Version string `json:"version"`
	Nodes   []Node `json:"nodes"`
	Edges   []Edge `json:"edges"`
}

// ExternalCrate is a stub for a package referenced but not analyzed.
type ExternalCrate struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Nodes []Node `json:"nodes"`
}

// Workspace is the canonical serialized output of the engine: per-crate
// graphs, external-crate stubs, and the edges crossing package boundaries.
type Workspace struct {
	Version         int             `json:"version"`
	Crates          []CrateGraph    `json:"crates"`
	ExternalCrates  []ExternalCrate `json:"external_crates"`
	CrossCrateEdges []Edge          `json:"cross_crate_edges"`
	Repo            *string         `json:"repo,omitempty"`
	Ref             *string         `json:"ref,omitempty"`
}
