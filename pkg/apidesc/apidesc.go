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

// Package apidesc defines the Go types for the per-package API description
// consumed by pkg/walker: an upstream-documentation-tool-shaped (rustdoc
// JSON-like) index of every declared item, keyed by opaque string IDs. The
// engine must tolerate schema additions it does not model:
// unknown ItemEnum/Type kinds decode with their Kind string kept and no
// payload set, and are skipped by the walker rather than causing a parse
// failure.
package apidesc

import "encoding/json"

// ItemID is an opaque upstream item identifier. Its string form is also
// used, verbatim, as the "raw numeric id" in impl/method node IDs
// (pkg/identity), matching original_source/codeview-rustdoc's ImplId(id.0).
type ItemID string

// ItemSummary is one entry of the description's paths table: the
// fully-qualified path, declared item kind, and owning-package ordinal for
// every item reachable from any crate (not just the primary one).
type ItemSummary struct {
	CrateOrdinal uint32   `json:"crate"`
	Path         []string `json:"path"`
	Kind         string   `json:"kind"`
}

// Crate is one package's complete API description.
type Crate struct {
	Root           ItemID                   `json:"root"`
	CrateVersion   *string                  `json:"crate_version,omitempty"`
	Index          map[ItemID]Item          `json:"index"`
	Paths          map[ItemID]ItemSummary   `json:"paths"`
	ExternalCrates map[string]ExternalCrate `json:"external_crates"`
	Format         uint32                   `json:"format_version"`
}

// ExternalCrate names a package referenced by, but not analyzed as part
// of, this description.
type ExternalCrate struct {
	Name string `json:"name"`
}

// Span is the upstream tool's source location for an item: 0-indexed
// begin/end points, consistent with how tree-sitter and rustdoc JSON both
// report positions. The walker converts these to 1-indexed graph.Span.
type Span struct {
	Filename   string `json:"filename"`
	BeginLine  uint32 `json:"begin_line"`
	BeginCol   uint32 `json:"begin_col"`
	EndLine    uint32 `json:"end_line"`
	EndCol     uint32 `json:"end_col"`
	HasEnd     bool   `json:"has_end"`
}

// Visibility is the item's declared visibility, as reported upstream.
// Kind is one of "public", "crate", "restricted", "default".
type Visibility struct {
	Kind   string `json:"kind"`
	Parent string `json:"parent,omitempty"` // for "restricted"
	Path   string `json:"path,omitempty"`   // for "restricted"
}

// Item is one declared entity's full record.
type Item struct {
	ID         ItemID            `json:"id"`
	CrateID    uint32            `json:"crate_id"`
	Name       *string           `json:"name,omitempty"`
	Span       *Span             `json:"span,omitempty"`
	Visibility Visibility        `json:"visibility"`
	Docs       *string           `json:"docs,omitempty"`
	Links      map[string]ItemID `json:"links,omitempty"`
	Attrs      []string          `json:"attrs,omitempty"`
	Inner      Inner             `json:"inner"`
}

// Inner is the polymorphic, kind-specific body of an Item. Exactly one of
// the pointer fields is populated, selected by Kind. Unknown kinds decode
// with Kind set to whatever the JSON said and all pointer fields nil; the
// walker treats that as "non-mappable" and skips the item.
type Inner struct {
	Kind string `json:"kind"`

	Struct     *StructInner     `json:"struct,omitempty"`
	Union      *StructInner     `json:"union,omitempty"`
	Enum       *EnumInner       `json:"enum,omitempty"`
	Variant    *VariantInner    `json:"variant,omitempty"`
	Field      *FieldItem       `json:"field,omitempty"`
	Function   *FunctionInner   `json:"function,omitempty"`
	Trait      *TraitInner      `json:"trait,omitempty"`
	TraitAlias *TraitAliasInner `json:"trait_alias,omitempty"`
	Impl       *ImplInner       `json:"impl,omitempty"`
	TypeAlias  *TypeAliasInner  `json:"type_alias,omitempty"`
	Module     *ModuleInner     `json:"module,omitempty"`
	Use        *UseInner        `json:"use,omitempty"`
	Constant   *ConstantInner   `json:"constant,omitempty"`
	Static     *StaticInner     `json:"static,omitempty"`
}

// StructFieldKind is the shape of a struct/union/variant field list: unit,
// tuple or plain. The fields themselves are listed by item ID (each field
// is also indexed as an Item so its name/type/visibility can be looked up
// through the usual Index map) — mirrors the upstream shape where struct
// fields are themselves items.
type StructFieldKind string

const (
	StructFieldsUnit  StructFieldKind = "unit"
	StructFieldsTuple StructFieldKind = "tuple"
	StructFieldsPlain StructFieldKind = "plain"
)

// StructInner describes a struct or union's field list.
type StructInner struct {
	FieldsKind StructFieldKind `json:"fields_kind"`
	Fields     []ItemID         `json:"fields"`
	Generics   Generics         `json:"generics"`
}

// EnumInner describes an enum's variant list.
type EnumInner struct {
	Variants []ItemID `json:"variants"`
	Generics Generics `json:"generics"`
}

// VariantInner describes an enum variant's field list, using
// StructFieldKind for its shape.
type VariantInner struct {
	Kind   StructFieldKind `json:"kind"`
	Fields []ItemID        `json:"fields"`
}

// FieldItem is the Inner payload for a field item (struct/union/variant
// field), carrying its declared type.
type FieldItem struct {
	Type Type `json:"type"`
}

// FunctionInner describes a free function or method's signature.
type FunctionInner struct {
	Sig      FunctionSig `json:"sig"`
	Generics Generics    `json:"generics"`
	IsAsync  bool        `json:"is_async"`
	IsUnsafe bool        `json:"is_unsafe"`
	IsConst  bool        `json:"is_const"`
	HasBody  bool        `json:"has_body"`
}

// FunctionSig is a function's formal parameter and return-type list.
type FunctionSig struct {
	Inputs []Argument `json:"inputs"`
	Output *Type      `json:"output,omitempty"`
}

// Argument is one formal parameter.
type Argument struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
}

// TraitInner describes a trait's member items and supertrait bounds.
type TraitInner struct {
	Items    []ItemID       `json:"items"`
	Bounds   []GenericBound `json:"bounds"`
	Generics Generics       `json:"generics"`
}

// TraitAliasInner describes a `trait Alias = Bound1 + Bound2;` item.
type TraitAliasInner struct {
	Bounds   []GenericBound `json:"bounds"`
	Generics Generics       `json:"generics"`
}

// ImplInner describes an impl block.
type ImplInner struct {
	ForType  Type     `json:"for_type"`
	Trait    *Path    `json:"trait,omitempty"`
	Items    []ItemID `json:"items"`
	Generics Generics `json:"generics"`
	Negative bool     `json:"negative"`
}

// TypeAliasInner describes a `type X = ...;` item.
type TypeAliasInner struct {
	Type     Type     `json:"type"`
	Generics Generics `json:"generics"`
}

// ModuleInner describes a module's member items.
type ModuleInner struct {
	Items []ItemID `json:"items"`
}

// UseInner describes a `use ...;` / `pub use ...;` item.
type UseInner struct {
	Source string  `json:"source"`
	Name   string  `json:"name"`
	ID     *ItemID `json:"id,omitempty"`
	IsGlob bool    `json:"is_glob"`
}

// ConstantInner describes a `const X: T = ...;` item.
type ConstantInner struct {
	Type Type `json:"type"`
}

// StaticInner describes a `static X: T = ...;` item.
type StaticInner struct {
	Type Type `json:"type"`
}

// Generics is a declaration's generic parameter list and where-clause
// predicates.
type Generics struct {
	Params          []GenericParamDef   `json:"params"`
	WherePredicates []WherePredicate    `json:"where_predicates"`
}

// GenericParamDef is one type/lifetime/const generic parameter.
type GenericParamDef struct {
	Name  string         `json:"name"`
	Kind  string         `json:"kind"` // "type", "lifetime", "const"
	Bounds []GenericBound `json:"bounds,omitempty"`
	Default *Type         `json:"default,omitempty"`
	Type    *Type         `json:"type,omitempty"` // for const params
}

// WherePredicate is one `where` clause entry.
type WherePredicate struct {
	Type   Type           `json:"type"`
	Bounds []GenericBound `json:"bounds"`
}

// GenericBound is a single trait bound, e.g. `Clone` or `Iterator<Item=T>`.
type GenericBound struct {
	TraitPath *Path `json:"trait_path,omitempty"`
}

// Path is a resolved-or-unresolved reference to a named item, with
// optional generic arguments.
type Path struct {
	ID   *ItemID      `json:"id,omitempty"`
	Name string       `json:"name"`
	Args *GenericArgs `json:"args,omitempty"`
}

// GenericArgs is the generic argument list attached to a Path.
type GenericArgs struct {
	Types     []Type             `json:"types,omitempty"`
	Bindings  []AssocItemBinding `json:"bindings,omitempty"`
}

// AssocItemBinding is an associated-type binding, e.g. `Item = T` in
// `Iterator<Item = T>`.
type AssocItemBinding struct {
	Name string `json:"name"`
	Type *Type  `json:"type,omitempty"`
}

// Type is the polymorphic description of a type expression. Exactly one
// of the pointer/slice fields is populated, selected by Kind.
type Type struct {
	Kind string `json:"kind"`

	ResolvedPath  *Path          `json:"resolved_path,omitempty"`
	DynTrait      []GenericBound `json:"dyn_trait,omitempty"`
	Generic       string         `json:"generic,omitempty"`
	Primitive     string         `json:"primitive,omitempty"`
	Tuple         []Type         `json:"tuple,omitempty"`
	Slice         *Type          `json:"slice,omitempty"`
	Array         *ArrayType     `json:"array,omitempty"`
	ImplTrait     []GenericBound `json:"impl_trait,omitempty"`
	RawPointer    *PointerType   `json:"raw_pointer,omitempty"`
	BorrowedRef   *PointerType   `json:"borrowed_ref,omitempty"`
	QualifiedPath *QualifiedPath `json:"qualified_path,omitempty"`
}

// ArrayType is a fixed-size array type `[T; N]`.
type ArrayType struct {
	Type Type   `json:"type"`
	Len  string `json:"len"`
}

// PointerType is a raw pointer or borrowed reference `*T` / `&T`.
type PointerType struct {
	Type    Type   `json:"type"`
	Mutable bool   `json:"mutable"`
	Lifetime *string `json:"lifetime,omitempty"`
}

// QualifiedPath is `<Self as Trait>::Name`.
type QualifiedPath struct {
	Name      string `json:"name"`
	SelfType  Type   `json:"self_type"`
	TraitPath *Path  `json:"trait_path,omitempty"`
}

// Parse decodes a Crate from its JSON-encoded API description. Unknown
// top-level fields are ignored by encoding/json; unknown Inner/Type kinds
// decode with their discriminator set and no populated payload, which the
// walker treats as unmappable rather than fatal.
func Parse(data []byte) (*Crate, error) {
	var c Crate
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
