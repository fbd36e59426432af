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

// Package walker implements the two-pass API-description walker: Pass A
// materializes package/module/item nodes and the Contains forest, Pass B
// adds impl blocks, trait/impl relationships, type-use edges, derives, and
// re-exports. It also builds the FunctionIndex consumed by pkg/callgraph.
package walker

import (
	"sort"
	"strings"

	"github.com/kraklabs/codegraph/pkg/apidesc"
	"github.com/kraklabs/codegraph/pkg/graph"
	"github.com/kraklabs/codegraph/pkg/identity"
)

// Result is the output of walking one package's API description.
type Result struct {
	Graph *graph.Graph
	Index *FunctionIndex
}

// Walk runs Pass A and Pass B over a single package's API description and
// returns its graph plus function index. pkg is the package's own name
// (not necessarily present verbatim in the description).
func Walk(pkg string, crate *apidesc.Crate) (*Result, error) {
	w := &walker{
		pkg:        identity.NormalizePackageName(pkg),
		crate:      crate,
		g:          graph.New(),
		idx:        NewFunctionIndex(),
		moduleOf:   make(map[apidesc.ItemID]string),
		implAssoc:  make(map[apidesc.ItemID]string),
		traitAssoc: make(map[apidesc.ItemID]string),
		createdID:  make(map[apidesc.ItemID]string),
		traitsByName: make(map[string][]string),
	}
	w.g.AddNode(graph.Node{ID: w.pkg, Name: w.pkg, Kind: graph.KindPackage, Visibility: graph.VisibilityPublic})

	w.preScan()
	w.passA()
	w.passB()

	return &Result{Graph: w.g, Index: w.idx}, nil
}

type walker struct {
	pkg   string
	crate *apidesc.Crate
	g     *graph.Graph
	idx   *FunctionIndex

	// moduleOf maps a child item ID to the graph node ID of its
	// immediately-owning module (or the package root).
	moduleOf map[apidesc.ItemID]string

	// implAssoc maps an impl-block child item ID to its owning impl's
	// upstream raw ID string.
	implAssoc map[apidesc.ItemID]string

	// traitAssoc maps a trait-block child item ID to its owning trait's
	// graph node ID.
	traitAssoc map[apidesc.ItemID]string

	// createdID records the graph node ID assigned to every item this
	// walker has created a node for, keyed by upstream item ID.
	createdID map[apidesc.ItemID]string

	// traitsByPath holds every known trait's fully-qualified node ID, for
	// resolving qualified derive names (e.g. "serde::Serialize").
	traitsByPath []string
	traitsByName map[string][]string
}

func (w *walker) crateNameForID(ordinal uint32) string {
	if ordinal == 0 {
		return w.pkg
	}
	if ec, ok := w.crate.ExternalCrates[itoa(ordinal)]; ok {
		return identity.NormalizePackageName(ec.Name)
	}
	return w.pkg
}

func itoa(u uint32) string {
	if u == 0 {
		return "0"
	}
	digits := []byte{}
	for u > 0 {
		digits = append([]byte{byte('0' + u%10)}, digits...)
		u /= 10
	}
	return string(digits)
}

// preScan walks every Module, Trait, and Impl item once to build the
// moduleOf/implAssoc/traitAssoc lookup tables and the trait name index
// used by Derives resolution, before any node is created.
func (w *walker) preScan() {
	for id, item := range w.crate.Index {
		switch item.Inner.Kind {
		case "module":
			if item.Inner.Module == nil {
				continue
			}
			modNodeID := w.moduleGraphID(id)
			for _, child := range item.Inner.Module.Items {
				if _, seen := w.moduleOf[child]; !seen {
					w.moduleOf[child] = modNodeID
				}
			}
		case "impl":
			if item.Inner.Impl == nil {
				continue
			}
			for _, child := range item.Inner.Impl.Items {
				w.implAssoc[child] = string(id)
			}
		case "trait":
			if item.Inner.Trait == nil {
				continue
			}
			traitNodeID := w.flatID(id)
			for _, child := range item.Inner.Trait.Items {
				w.traitAssoc[child] = traitNodeID
			}
		}
	}

	for id, summary := range w.crate.Paths {
		if summary.Kind != "trait" {
			continue
		}
		if identity.HasScaffoldingSegment(summary.Path) {
			continue
		}
		fid := identity.JoinPath(w.crateNameForID(summary.CrateOrdinal), summary.Path)
		w.traitsByPath = append(w.traitsByPath, fid)
		name := identity.LastSegment(fid)
		w.traitsByName[name] = append(w.traitsByName[name], fid)
		_ = id
	}
}

// moduleGraphID resolves the graph node ID that represents module item id,
// which is either the crate root (the package node) or a flat-path node.
func (w *walker) moduleGraphID(id apidesc.ItemID) string {
	if id == w.crate.Root {
		return w.pkg
	}
	if summary, ok := w.crate.Paths[id]; ok {
		return w.flatIDForCrate(w.crateNameForID(summary.CrateOrdinal), summary.Path)
	}
	return w.pkg
}

func (w *walker) flatID(id apidesc.ItemID) string {
	summary, ok := w.crate.Paths[id]
	if !ok {
		return w.pkg
	}
	return w.flatIDForCrate(w.crateNameForID(summary.CrateOrdinal), summary.Path)
}

func (w *walker) flatIDForCrate(crateName string, path []string) string {
	return identity.JoinPath(crateName, path)
}

// mapItemKind maps an upstream kind string to a graph.NodeKind, reporting
// false for anything not representable in the graph (constants, statics,
// use-imports are handled separately or skipped).
func mapItemKind(kind string) (graph.NodeKind, bool) {
	switch kind {
	case "struct":
		return graph.KindStruct, true
	case "union":
		return graph.KindUnion, true
	case "enum":
		return graph.KindEnum, true
	case "trait":
		return graph.KindTrait, true
	case "trait_alias":
		return graph.KindTraitAlias, true
	case "function":
		return graph.KindFunction, true
	case "type_alias", "assoc_type":
		return graph.KindTypeAlias, true
	case "module":
		return graph.KindModule, true
	default:
		return "", false
	}
}

// passA materializes every top-level, path-addressable item: packages,
// modules, structs/unions/enums/traits/trait-aliases/type-aliases, and
// free functions (including trait-declared methods, which remain flat
// path-addressable members of their trait). Impl blocks and their
// associated items are deferred entirely to passB, since they need the
// impl-scoped ID scheme rather than the flat path form.
func (w *walker) passA() {
	ids := make([]apidesc.ItemID, 0, len(w.crate.Paths))
	for id := range w.crate.Paths {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		summary := w.crate.Paths[id]
		if len(summary.Path) == 0 {
			continue
		}
		if identity.HasScaffoldingSegment(summary.Path) {
			continue
		}
		if _, isImplChild := w.implAssoc[id]; isImplChild {
			continue
		}
		kind, ok := mapItemKind(summary.Kind)
		if !ok {
			continue
		}

		crateName := w.crateNameForID(summary.CrateOrdinal)
		if crateName != w.pkg {
			// Cross-package reference encountered via the paths table
			// (e.g. a re-export target). Its node lives in the other
			// package's own graph; skip creating it here.
			continue
		}

		fullID := w.flatIDForCrate(crateName, summary.Path)
		if w.g.HasNode(fullID) {
			continue
		}

		w.ensureModuleChain(crateName, summary.Path)

		item, hasItem := w.crate.Index[id]
		node := graph.Node{
			ID:   fullID,
			Name: identity.LastSegment(fullID),
			Kind: kind,
		}
		if hasItem {
			w.populateNode(&node, item)
		} else {
			node.Visibility = graph.VisibilityUnknown
		}
		w.g.AddNode(node)
		w.createdID[id] = fullID

		if parent, ok := identity.ParentID(fullID); ok {
			w.g.AddEdge(graph.Edge{From: parent, To: fullID, Kind: graph.EdgeContains, Confidence: graph.ConfidenceStatic})
		}

		if kind == graph.KindFunction {
			_, isTraitChild := w.traitAssoc[id]
			w.idx.AddCallable(fullID, node.Name, isTraitChild)
			if isTraitChild {
				traitID := w.traitAssoc[id]
				w.g.AddEdge(graph.Edge{From: traitID, To: fullID, Kind: graph.EdgeDefines, Confidence: graph.ConfidenceStatic})
			}
		}
	}
}

// ensureModuleChain materializes every intermediate module node along
// path, excluding the final segment (the item itself, created by the
// caller), chaining Contains edges from the package root downward.
func (w *walker) ensureModuleChain(crateName string, path []string) {
	rest := path
	if len(rest) > 0 && rest[0] == crateName {
		rest = rest[1:]
	}
	if len(rest) <= 1 {
		return
	}
	parent := crateName
	for i := 0; i < len(rest)-1; i++ {
		modID := crateName + "::" + strings.Join(rest[:i+1], "::")
		if !w.g.HasNode(modID) {
			w.g.AddNode(graph.Node{ID: modID, Name: rest[i], Kind: graph.KindModule, Visibility: graph.VisibilityUnknown})
		}
		if modID != parent {
			w.g.AddEdge(graph.Edge{From: parent, To: modID, Kind: graph.EdgeContains, Confidence: graph.ConfidenceStatic})
		}
		parent = modID
	}
}

// populateNode fills in the details of node from item: span, visibility,
// docs, attrs, doc/bound links, and kind-specific payload (fields,
// variants, signature, generics).
func (w *walker) populateNode(node *graph.Node, item apidesc.Item) {
	if item.Span != nil {
		node.Span = w.convertSpan(item.Span)
	}
	if vis, ok := mapVisibility(item.Visibility); ok {
		node.Visibility = graph.Visibility(vis)
	} else {
		node.Visibility = graph.VisibilityUnknown
	}
	node.Docs = item.Docs
	node.Attrs = append([]string(nil), item.Attrs...)

	if len(item.Links) > 0 {
		node.DocLinks = make(map[string]string, len(item.Links))
		for text, target := range item.Links {
			node.DocLinks[text] = string(target)
		}
	}

	switch {
	case item.Inner.Struct != nil:
		node.Fields = w.resolveFields(item.Inner.Struct.Fields)
		node.Generics = formatGenerics(item.Inner.Struct.Generics)
		node.WhereClause = formatWhereClause(item.Inner.Struct.Generics)
	case item.Inner.Union != nil:
		node.Fields = w.resolveFields(item.Inner.Union.Fields)
		node.Generics = formatGenerics(item.Inner.Union.Generics)
		node.WhereClause = formatWhereClause(item.Inner.Union.Generics)
	case item.Inner.Enum != nil:
		node.Variants = w.resolveVariants(item.Inner.Enum.Variants)
		node.Generics = formatGenerics(item.Inner.Enum.Generics)
		node.WhereClause = formatWhereClause(item.Inner.Enum.Generics)
	case item.Inner.Function != nil:
		node.Signature = w.buildSignature(item.Inner.Function)
		node.Generics = formatGenerics(item.Inner.Function.Generics)
		node.WhereClause = formatWhereClause(item.Inner.Function.Generics)
	case item.Inner.Trait != nil:
		node.Generics = formatGenerics(item.Inner.Trait.Generics)
		node.WhereClause = formatWhereClause(item.Inner.Trait.Generics)
		if node.BoundLinks == nil && len(item.Inner.Trait.Bounds) > 0 {
			node.BoundLinks = boundLinksOf(item.Inner.Trait.Bounds)
		}
	case item.Inner.TraitAlias != nil:
		node.Generics = formatGenerics(item.Inner.TraitAlias.Generics)
		if len(item.Inner.TraitAlias.Bounds) > 0 {
			node.BoundLinks = boundLinksOf(item.Inner.TraitAlias.Bounds)
		}
	case item.Inner.TypeAlias != nil:
		node.Generics = formatGenerics(item.Inner.TypeAlias.Generics)
	}
}

func boundLinksOf(bounds []apidesc.GenericBound) map[string]string {
	out := make(map[string]string)
	for _, b := range bounds {
		if b.TraitPath != nil && b.TraitPath.ID != nil {
			out[b.TraitPath.Name] = string(*b.TraitPath.ID)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func (w *walker) convertSpan(s *apidesc.Span) *graph.Span {
	span := &graph.Span{
		File:   s.Filename,
		Line:   s.BeginLine + 1,
		Column: s.BeginCol + 1,
	}
	if s.HasEnd {
		endLine := s.EndLine + 1
		endCol := s.EndCol + 1
		span.EndLine = &endLine
		span.EndColumn = &endCol
	}
	return span
}

func (w *walker) resolveFields(ids []apidesc.ItemID) []graph.FieldInfo {
	out := make([]graph.FieldInfo, 0, len(ids))
	for _, id := range ids {
		item, ok := w.crate.Index[id]
		if !ok || item.Inner.Kind != "struct_field" {
			continue
		}
		name := ""
		if item.Name != nil {
			name = *item.Name
		}
		typeName := ""
		if item.Inner.Field != nil {
			typeName = formatType(item.Inner.Field.Type)
		}
		vis, _ := mapVisibility(item.Visibility)
		out = append(out, graph.FieldInfo{Name: name, TypeName: typeName, Visibility: graph.Visibility(vis)})
	}
	return out
}

func (w *walker) resolveVariants(ids []apidesc.ItemID) []graph.VariantInfo {
	out := make([]graph.VariantInfo, 0, len(ids))
	for _, id := range ids {
		item, ok := w.crate.Index[id]
		if !ok || item.Inner.Variant == nil {
			continue
		}
		name := ""
		if item.Name != nil {
			name = *item.Name
		}
		out = append(out, graph.VariantInfo{
			Name:   name,
			Fields: w.resolveFields(item.Inner.Variant.Fields),
		})
	}
	return out
}

func (w *walker) buildSignature(fn *apidesc.FunctionInner) *graph.FunctionSignature {
	sig := &graph.FunctionSignature{
		IsAsync:  fn.IsAsync,
		IsUnsafe: fn.IsUnsafe,
		IsConst:  fn.IsConst,
	}
	for _, in := range fn.Sig.Inputs {
		sig.Inputs = append(sig.Inputs, graph.ArgumentInfo{Name: in.Name, TypeName: formatType(in.Type)})
	}
	if fn.Sig.Output != nil {
		out := formatType(*fn.Sig.Output)
		sig.Output = &out
	}
	return sig
}

// passB handles impl blocks and their associated items, UsesType edges,
// Derives edges from derive attributes, and ReExports edges from `pub use`
// items. UsesType edges come from function signatures, type aliases,
// constants, statics, and the fields of structs, unions and enum variants;
// generic parameter bounds, where-clauses and generic defaults are not
// walked for type uses.
func (w *walker) passB() {
	ids := make([]apidesc.ItemID, 0, len(w.crate.Index))
	for id := range w.crate.Index {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		item := w.crate.Index[id]
		switch item.Inner.Kind {
		case "impl":
			w.walkImpl(id, item)
		case "use":
			w.walkUse(id, item)
		}
		if len(item.Attrs) > 0 {
			w.walkDerives(id, item)
		}
	}

	// UsesType edges for already-created struct/enum/function/type-alias
	// nodes: walk the same item set again now that all nodes (including
	// impl-scoped ones) exist, so targets can be resolved.
	for _, id := range ids {
		item := w.crate.Index[id]
		fromID, ok := w.createdID[id]
		if !ok {
			continue
		}
		for _, ref := range w.collectItemTypeRefs(item) {
			if target, ok := w.createdID[ref]; ok && target != fromID {
				w.g.AddEdge(graph.Edge{From: fromID, To: target, Kind: graph.EdgeUsesType, Confidence: graph.ConfidenceStatic})
			}
		}
	}
}

func (w *walker) collectItemTypeRefs(item apidesc.Item) []apidesc.ItemID {
	var refs []apidesc.ItemID
	switch {
	case item.Inner.Function != nil:
		for _, in := range item.Inner.Function.Sig.Inputs {
			refs = append(refs, collectTypeRefs(in.Type)...)
		}
		if item.Inner.Function.Sig.Output != nil {
			refs = append(refs, collectTypeRefs(*item.Inner.Function.Sig.Output)...)
		}
	case item.Inner.TypeAlias != nil:
		refs = append(refs, collectTypeRefs(item.Inner.TypeAlias.Type)...)
	case item.Inner.Constant != nil:
		refs = append(refs, collectTypeRefs(item.Inner.Constant.Type)...)
	case item.Inner.Static != nil:
		refs = append(refs, collectTypeRefs(item.Inner.Static.Type)...)
	case item.Inner.Field != nil:
		refs = append(refs, collectTypeRefs(item.Inner.Field.Type)...)
	case item.Inner.Struct != nil:
		for _, fid := range item.Inner.Struct.Fields {
			if f, ok := w.crate.Index[fid]; ok {
				refs = append(refs, w.collectItemTypeRefs(f)...)
			}
		}
	case item.Inner.Union != nil:
		for _, fid := range item.Inner.Union.Fields {
			if f, ok := w.crate.Index[fid]; ok {
				refs = append(refs, w.collectItemTypeRefs(f)...)
			}
		}
	case item.Inner.Enum != nil:
		for _, vid := range item.Inner.Enum.Variants {
			if v, ok := w.crate.Index[vid]; ok {
				refs = append(refs, w.collectItemTypeRefs(v)...)
			}
		}
	case item.Inner.Variant != nil:
		for _, fid := range item.Inner.Variant.Fields {
			if f, ok := w.crate.Index[fid]; ok {
				refs = append(refs, w.collectItemTypeRefs(f)...)
			}
		}
	}
	return refs
}

// walkImpl creates the impl node (identity.ImplID-scoped) and its
// associated method/type-alias nodes (identity.ImplMethodID-scoped). When
// the for-type's ID resolves, emits Defines from the type node to the
// impl node, and, for a trait impl whose trait also resolves, Implements
// from the type node to the trait node. Emits Contains from the owning
// module to the impl, and both Contains and Defines from the impl to each
// associated item.
func (w *walker) walkImpl(id apidesc.ItemID, item apidesc.Item) {
	if item.Inner.Impl == nil {
		return
	}
	rawID := string(id)
	implID := identity.ImplID(w.pkg, rawID)
	if w.g.HasNode(implID) {
		return
	}

	forTypeName := formatType(item.Inner.Impl.ForType)
	implType := graph.ImplTypeInherent
	var implTraitID *string
	var traitNodeID string
	if item.Inner.Impl.Trait != nil {
		implType = graph.ImplTypeTrait
		if item.Inner.Impl.Trait.ID != nil {
			if tid, ok := w.createdID[*item.Inner.Impl.Trait.ID]; ok {
				traitNodeID = tid
				implTraitID = &tid
			}
		}
	}

	implNode := graph.Node{
		ID:          implID,
		Name:        forTypeName,
		Kind:        graph.KindImpl,
		Visibility:  graph.VisibilityInherited,
		Generics:    formatGenerics(item.Inner.Impl.Generics),
		WhereClause: formatWhereClause(item.Inner.Impl.Generics),
		ImplType:    &implType,
		ImplTrait:   implTraitID,
	}
	if item.Span != nil {
		implNode.Span = w.convertSpan(item.Span)
	}
	w.g.AddNode(implNode)
	w.createdID[id] = implID

	parentModule := w.moduleOf[id]
	if parentModule == "" {
		parentModule = w.pkg
	}
	w.g.AddEdge(graph.Edge{From: parentModule, To: implID, Kind: graph.EdgeContains, Confidence: graph.ConfidenceStatic})

	var typeNodeID string
	if item.Inner.Impl.ForType.ResolvedPath != nil && item.Inner.Impl.ForType.ResolvedPath.ID != nil {
		typeNodeID, _ = w.createdID[*item.Inner.Impl.ForType.ResolvedPath.ID]
	}
	if typeNodeID != "" {
		w.g.AddEdge(graph.Edge{From: typeNodeID, To: implID, Kind: graph.EdgeDefines, Confidence: graph.ConfidenceStatic})
		if traitNodeID != "" {
			w.g.AddEdge(graph.Edge{From: typeNodeID, To: traitNodeID, Kind: graph.EdgeImplements, Confidence: graph.ConfidenceStatic})
		}
	}

	for _, childID := range item.Inner.Impl.Items {
		child, ok := w.crate.Index[childID]
		if !ok {
			continue
		}
		w.walkImplItem(implID, childID, child)
	}
}

// walkImplItem materializes one impl-associated item (method or
// associated type alias) under its impl-scoped ID.
func (w *walker) walkImplItem(implID string, childID apidesc.ItemID, child apidesc.Item) {
	rawID := string(childID)
	memberID := identity.ImplMethodID(implID, rawID)
	if w.g.HasNode(memberID) {
		return
	}

	var node graph.Node
	switch {
	case child.Inner.Function != nil:
		node = graph.Node{
			ID:        memberID,
			Kind:      graph.KindMethod,
			ParentImpl: &implID,
		}
		if child.Name != nil {
			node.Name = *child.Name
		}
		w.populateNode(&node, child)
		node.Signature = w.buildSignature(child.Inner.Function)
		w.idx.AddCallable(memberID, node.Name, true)
	case child.Inner.TypeAlias != nil:
		node = graph.Node{
			ID:        memberID,
			Kind:      graph.KindTypeAlias,
			ParentImpl: &implID,
		}
		if child.Name != nil {
			node.Name = *child.Name
		}
		w.populateNode(&node, child)
	default:
		return
	}

	w.g.AddNode(node)
	w.createdID[childID] = memberID
	w.g.AddEdge(graph.Edge{From: implID, To: memberID, Kind: graph.EdgeContains, Confidence: graph.ConfidenceStatic})
	w.g.AddEdge(graph.Edge{From: implID, To: memberID, Kind: graph.EdgeDefines, Confidence: graph.ConfidenceStatic})
}

// walkUse emits a ReExports edge from the owning module to the
// re-exported item's resolved node, for `pub use` items whose target
// resolves to a known node (single-hop; see DESIGN.md open-question 3).
func (w *walker) walkUse(id apidesc.ItemID, item apidesc.Item) {
	if item.Inner.Use == nil {
		return
	}
	vis, _ := mapVisibility(item.Visibility)
	if vis != "Public" {
		return
	}
	if item.Inner.Use.ID == nil {
		return
	}
	targetID, ok := w.createdID[*item.Inner.Use.ID]
	if !ok {
		return
	}
	fromModule := w.moduleOf[id]
	if fromModule == "" {
		fromModule = w.pkg
	}
	w.g.AddEdge(graph.Edge{From: fromModule, To: targetID, Kind: graph.EdgeReExports, Confidence: graph.ConfidenceStatic})
}

// walkDerives emits a Derives edge, at Inferred confidence, from a
// struct/enum/union node to each trait named in a `#[derive(...)]`
// attribute. A qualified name (containing "::") resolves against
// traitsByPath and emits an edge to every matching target; a bare name
// resolves only when it names a single trait across the whole crate.
func (w *walker) walkDerives(id apidesc.ItemID, item apidesc.Item) {
	fromID, ok := w.createdID[id]
	if !ok {
		return
	}
	for _, attr := range item.Attrs {
		for _, segments := range parseDeriveAttr(attr) {
			if len(segments) > 1 {
				for _, target := range resolveQualifiedTraits(w.traitsByPath, segments) {
					w.g.AddEdge(graph.Edge{From: fromID, To: target, Kind: graph.EdgeDerives, Confidence: graph.ConfidenceInferred})
				}
				continue
			}
			if candidates, ok := w.traitsByName[segments[0]]; ok && len(candidates) == 1 {
				w.g.AddEdge(graph.Edge{From: fromID, To: candidates[0], Kind: graph.EdgeDerives, Confidence: graph.ConfidenceInferred})
			}
		}
	}
}

// resolveQualifiedTraits returns every trait ID in all that either equals
// the "::"-joined segments exactly or has it as a "::"-delimited suffix,
// covering both a fully crate-qualified derive name (matches a root-level
// trait ID exactly) and a path relative to some enclosing module (matches
// as a suffix).
func resolveQualifiedTraits(all []string, segments []string) []string {
	full := strings.Join(segments, "::")
	suffix := "::" + full
	var out []string
	for _, id := range all {
		if id == full || strings.HasSuffix(id, suffix) {
			out = append(out, id)
		}
	}
	return out
}

// parseDeriveAttr splits a raw `derive(A, B::C)` attribute string into its
// comma-separated entries, each as its "::"-separated path segments.
func parseDeriveAttr(attr string) [][]string {
	attr = strings.TrimSpace(attr)
	if !strings.HasPrefix(attr, "derive(") || !strings.HasSuffix(attr, ")") {
		return nil
	}
	inner := attr[len("derive(") : len(attr)-1]
	parts := strings.Split(inner, ",")
	out := make([][]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, strings.Split(p, "::"))
	}
	return out
}
