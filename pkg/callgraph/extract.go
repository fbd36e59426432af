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
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/kraklabs/codegraph/pkg/graph"
	"github.com/kraklabs/codegraph/pkg/source"
	"github.com/kraklabs/codegraph/pkg/walker"
)

// Mode selects how call targets with more than one candidate are
// resolved against the FunctionIndex.
type Mode string

const (
	// ModeStrict keeps only calls that resolve to exactly one candidate;
	// ambiguous or unresolved calls are dropped.
	ModeStrict Mode = "strict"
	// ModeAmbiguous emits one edge per surviving candidate when a call
	// resolves to more than one, instead of dropping it.
	ModeAmbiguous Mode = "ambiguous"
)

// Stats reports how many call sites were found, resolved, and dropped.
type Stats struct {
	CallsFound      int
	CallsResolved   int
	CallsAmbiguous  int
	CallsUnresolved int
}

// Extract parses rootFile and every module it transitively declares,
// collects call sites, and resolves each against idx. callerIndex is
// built from g's already-materialized Function/Method nodes so call
// sites can be attributed to their enclosing callable. Every emitted edge
// is CallsStatic; its Confidence is Static when the call resolves to a
// single candidate and Inferred when ModeAmbiguous keeps more than one.
func Extract(pkg string, provider source.Provider, rootFile string, g *graph.Graph, idx *walker.FunctionIndex, mode Mode) ([]graph.Edge, Stats, error) {
	pool := newParserPool()
	units, trees, contents, err := discoverModules(provider, rootFile, pool)
	if err != nil {
		return nil, Stats{}, err
	}

	callerIdx := buildCallerIndex(g)

	var edges []graph.Edge
	var stats Stats

	for _, unit := range units {
		src := contents[unit.file]
		root := unit.node
		if root == nil {
			root = trees[unit.file].RootNode()
		}
		calls := collectCalls(root, src)
		for _, c := range calls {
			stats.CallsFound++
			line := int(c.node.StartPoint().Row) + 1
			callerID, ok := callerIdx.lookup(unit.file, line)
			if !ok {
				stats.CallsUnresolved++
				continue
			}

			var candidates []string
			if c.isMethod {
				candidates = idx.ResolveMethodByNameAll(c.name)
			} else {
				segments := splitCallPath(src, c.node)
				tail := stripAnchor(segments)
				candidates = idx.ResolveCallableBySuffixAll(tail)
				if len(candidates) == 0 {
					candidates = idx.ResolveCallableByNameAll(tail[len(tail)-1])
				}
			}

			switch len(candidates) {
			case 0:
				stats.CallsUnresolved++
			case 1:
				stats.CallsResolved++
				if candidates[0] != callerID {
					edges = append(edges, graph.Edge{From: callerID, To: candidates[0], Kind: graph.EdgeCallsStatic, Confidence: graph.ConfidenceStatic})
				}
			default:
				stats.CallsAmbiguous++
				if mode == ModeAmbiguous {
					for _, cand := range candidates {
						if cand != callerID {
							edges = append(edges, graph.Edge{From: callerID, To: cand, Kind: graph.EdgeCallsStatic, Confidence: graph.ConfidenceInferred})
						}
					}
				}
			}
		}
	}

	return edges, stats, nil
}

// callSite is one call_expression, classified as a path call or a
// method call.
type callSite struct {
	node     *sitter.Node // the call_expression node
	isMethod bool
	name     string // method name, populated only when isMethod
}

// collectCalls walks every descendant of root looking for call_expression
// nodes. Inline mod_item bodies are not entered: discoverModules returns
// each of them as its own unit, so their calls are collected there.
func collectCalls(root *sitter.Node, src []byte) []callSite {
	var out []callSite
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "mod_item" {
			return
		}
		if n.Type() == "call_expression" {
			fn := n.ChildByFieldName("function")
			if fn != nil && fn.Type() == "field_expression" {
				field := fn.ChildByFieldName("field")
				if field != nil {
					out = append(out, callSite{node: n, isMethod: true, name: nodeText(src, field)})
				}
			} else if fn != nil {
				out = append(out, callSite{node: n, isMethod: false})
			}
		}
		count := int(n.NamedChildCount())
		for i := 0; i < count; i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)
	return out
}

// splitCallPath extracts the "::"-separated segments of a path call's
// callee expression (identifier, scoped_identifier, or generic_function
// wrapping either).
func splitCallPath(src []byte, callNode *sitter.Node) []string {
	fn := callNode.ChildByFieldName("function")
	if fn == nil {
		return nil
	}
	text := string(src[fn.StartByte():fn.EndByte()])
	if i := strings.IndexByte(text, '<'); i >= 0 && strings.HasSuffix(text, ">") {
		text = text[:i]
	}
	return strings.Split(text, "::")
}

// stripAnchor drops a leading crate/self/super/Self anchor keyword from a
// path call's segments, leaving the tail used for suffix/name resolution
// against the FunctionIndex. "super" may repeat; each occurrence is
// dropped the same way, since depth-correct resolution would require
// tracking the caller's module nesting, which this pass does not attempt.
func stripAnchor(segments []string) []string {
	i := 0
	for i < len(segments) {
		switch segments[i] {
		case "crate", "self", "Self", "super":
			i++
		default:
			return segments[i:]
		}
	}
	if len(segments) == 0 {
		return []string{""}
	}
	return segments[len(segments)-1:]
}

// callerIndex maps a (file, line) to the enclosing Function/Method node,
// built from the graph's already-populated spans.
type callerIndex struct {
	byFile map[string][]callerRange
}

type callerRange struct {
	start, end uint32 // inclusive line range; end is maxUint32 when unknown
	id         string
}

func buildCallerIndex(g *graph.Graph) *callerIndex {
	idx := &callerIndex{byFile: make(map[string][]callerRange)}
	for _, n := range g.Nodes {
		if n.Kind != graph.KindFunction && n.Kind != graph.KindMethod {
			continue
		}
		if n.Span == nil {
			continue
		}
		end := ^uint32(0)
		if n.Span.EndLine != nil {
			end = *n.Span.EndLine
		}
		idx.byFile[n.Span.File] = append(idx.byFile[n.Span.File], callerRange{start: n.Span.Line, end: end, id: n.ID})
	}
	for file := range idx.byFile {
		ranges := idx.byFile[file]
		sort.Slice(ranges, func(i, j int) bool { return ranges[i].start < ranges[j].start })
		idx.byFile[file] = ranges
	}
	return idx
}

// lookup returns the innermost function/method whose span contains line
// in file: the range with the greatest start line at or before line whose
// end line is at or after it.
func (c *callerIndex) lookup(file string, line int) (string, bool) {
	ranges := c.byFile[file]
	best := ""
	bestStart := -1
	for _, r := range ranges {
		if int(r.start) <= line && (r.end == ^uint32(0) || int(r.end) >= line) {
			if int(r.start) > bestStart {
				bestStart = int(r.start)
				best = r.id
			}
		}
	}
	return best, best != ""
}
