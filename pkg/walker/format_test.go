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

package walker

import (
	"testing"

	"github.com/kraklabs/codegraph/pkg/apidesc"
)

func ptrStr(s string) *string { return &s }

func TestFormatType_Primitive(t *testing.T) {
	got := formatType(apidesc.Type{Kind: "primitive", Primitive: "u32"})
	if got != "u32" {
		t.Errorf("formatType(primitive u32) = %q, want %q", got, "u32")
	}
}

func TestFormatType_ResolvedPathWithGenericArgs(t *testing.T) {
	ty := apidesc.Type{
		Kind: "resolved_path",
		ResolvedPath: &apidesc.Path{
			Name: "Vec",
			Args: &apidesc.GenericArgs{
				Types: []apidesc.Type{{Kind: "primitive", Primitive: "u8"}},
			},
		},
	}
	got := formatType(ty)
	if got != "Vec<u8>" {
		t.Errorf("formatType(Vec<u8>) = %q, want %q", got, "Vec<u8>")
	}
}

func TestFormatType_BorrowedRefWithLifetimeAndMut(t *testing.T) {
	ty := apidesc.Type{
		Kind: "borrowed_ref",
		BorrowedRef: &apidesc.PointerType{
			Type:     apidesc.Type{Kind: "primitive", Primitive: "str"},
			Mutable:  true,
			Lifetime: ptrStr("a"),
		},
	}
	got := formatType(ty)
	if got != "&'a mut str" {
		t.Errorf("formatType(&'a mut str) = %q, want %q", got, "&'a mut str")
	}
}

func TestFormatType_RawPointer(t *testing.T) {
	constPtr := apidesc.Type{Kind: "raw_pointer", RawPointer: &apidesc.PointerType{Type: apidesc.Type{Kind: "primitive", Primitive: "u8"}}}
	if got := formatType(constPtr); got != "*const u8" {
		t.Errorf("formatType(*const u8) = %q", got)
	}

	mutPtr := apidesc.Type{Kind: "raw_pointer", RawPointer: &apidesc.PointerType{Type: apidesc.Type{Kind: "primitive", Primitive: "u8"}, Mutable: true}}
	if got := formatType(mutPtr); got != "*mut u8" {
		t.Errorf("formatType(*mut u8) = %q", got)
	}
}

func TestFormatType_Tuple(t *testing.T) {
	ty := apidesc.Type{
		Kind: "tuple",
		Tuple: []apidesc.Type{
			{Kind: "primitive", Primitive: "u32"},
			{Kind: "primitive", Primitive: "bool"},
		},
	}
	got := formatType(ty)
	if got != "(u32, bool)" {
		t.Errorf("formatType(tuple) = %q, want %q", got, "(u32, bool)")
	}
}

func TestFormatType_DynTrait(t *testing.T) {
	ty := apidesc.Type{
		Kind:     "dyn_trait",
		DynTrait: []apidesc.GenericBound{{TraitPath: &apidesc.Path{Name: "Iterator"}}},
	}
	if got := formatType(ty); got != "dyn Iterator" {
		t.Errorf("formatType(dyn Iterator) = %q, want %q", got, "dyn Iterator")
	}
}

func TestFormatType_QualifiedPath(t *testing.T) {
	ty := apidesc.Type{
		Kind: "qualified_path",
		QualifiedPath: &apidesc.QualifiedPath{
			Name:      "Item",
			SelfType:  apidesc.Type{Kind: "generic", Generic: "Self"},
			TraitPath: &apidesc.Path{Name: "Iterator"},
		},
	}
	got := formatType(ty)
	if got != "<Self as Iterator>::Item" {
		t.Errorf("formatType(qualified path) = %q, want %q", got, "<Self as Iterator>::Item")
	}
}

func TestFormatType_UnknownKindFallsBackToKindString(t *testing.T) {
	got := formatType(apidesc.Type{Kind: "some_future_kind"})
	if got != "some_future_kind" {
		t.Errorf("formatType(unknown) = %q, want the raw kind string", got)
	}
}

func TestCollectTypeRefs_ResolvedPathWithGenericArgsAndBindings(t *testing.T) {
	vecID := apidesc.ItemID("10")
	itemID := apidesc.ItemID("11")
	boundTypeID := apidesc.ItemID("12")

	ty := apidesc.Type{
		Kind: "resolved_path",
		ResolvedPath: &apidesc.Path{
			ID:   &vecID,
			Name: "Vec",
			Args: &apidesc.GenericArgs{
				Types: []apidesc.Type{{
					Kind:         "resolved_path",
					ResolvedPath: &apidesc.Path{ID: &itemID, Name: "Item"},
				}},
				Bindings: []apidesc.AssocItemBinding{{
					Name: "Output",
					Type: &apidesc.Type{Kind: "resolved_path", ResolvedPath: &apidesc.Path{ID: &boundTypeID, Name: "Bound"}},
				}},
			},
		},
	}

	refs := collectTypeRefs(ty)
	want := map[apidesc.ItemID]bool{vecID: true, itemID: true, boundTypeID: true}
	if len(refs) != len(want) {
		t.Fatalf("collectTypeRefs returned %d refs, want %d: %v", len(refs), len(want), refs)
	}
	for _, r := range refs {
		if !want[r] {
			t.Errorf("unexpected ref %q in %v", r, refs)
		}
	}
}

func TestCollectTypeRefs_DynTraitBound(t *testing.T) {
	traitID := apidesc.ItemID("5")
	ty := apidesc.Type{
		Kind:     "dyn_trait",
		DynTrait: []apidesc.GenericBound{{TraitPath: &apidesc.Path{ID: &traitID, Name: "Display"}}},
	}
	refs := collectTypeRefs(ty)
	if len(refs) != 1 || refs[0] != traitID {
		t.Errorf("collectTypeRefs(dyn trait) = %v, want [%q]", refs, traitID)
	}
}

func TestMapVisibility(t *testing.T) {
	cases := []struct {
		kind string
		want string
		ok   bool
	}{
		{"public", "Public", true},
		{"crate", "PackageLocal", true},
		{"restricted", "Restricted", true},
		{"default", "Inherited", true},
		{"something_else", "Unknown", false},
	}
	for _, c := range cases {
		got, ok := mapVisibility(apidesc.Visibility{Kind: c.kind})
		if got != c.want || ok != c.ok {
			t.Errorf("mapVisibility(%q) = (%q, %v), want (%q, %v)", c.kind, got, ok, c.want, c.ok)
		}
	}
}
