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

import "testing"

func TestFunctionIndex_ResolveByName(t *testing.T) {
	fi := NewFunctionIndex()
	fi.AddCallable("my_crate::helpers::format", "format", false)
	fi.AddCallable("my_crate::impl-1::method-2", "greet", true)

	if _, ok := fi.ResolveCallableByNameUnique("format"); !ok {
		t.Error("expected a unique callable named \"format\"")
	}
	if _, ok := fi.ResolveMethodByNameUnique("format"); ok {
		t.Error("\"format\" is not a method, ResolveMethodByNameUnique should not find it")
	}
}

func TestFunctionIndex_AmbiguousNameIsNotUnique(t *testing.T) {
	fi := NewFunctionIndex()
	fi.AddCallable("pkg_a::widget::new", "new", true)
	fi.AddCallable("pkg_b::gadget::new", "new", true)

	if _, ok := fi.ResolveMethodByNameUnique("new"); ok {
		t.Error("two methods named \"new\" should not resolve uniquely")
	}
	all := fi.ResolveMethodByNameAll("new")
	if len(all) != 2 {
		t.Errorf("ResolveMethodByNameAll(\"new\") returned %d entries, want 2", len(all))
	}
}

func TestFunctionIndex_ResolveBySuffix(t *testing.T) {
	fi := NewFunctionIndex()
	fi.AddCallable("my_crate::helpers::format", "format", false)
	fi.AddCallable("my_crate::other::format", "format", false)

	id, ok := fi.ResolveCallableBySuffixUnique([]string{"helpers", "format"})
	if !ok || id != "my_crate::helpers::format" {
		t.Errorf("ResolveCallableBySuffixUnique = (%q, %v), want (%q, true)", id, ok, "my_crate::helpers::format")
	}

	if _, ok := fi.ResolveCallableBySuffixUnique([]string{"format"}); ok {
		t.Error("suffix \"format\" alone should be ambiguous between the two helpers")
	}
}

func TestFunctionIndex_MethodsListExcludesFreeFunctions(t *testing.T) {
	fi := NewFunctionIndex()
	fi.AddCallable("my_crate::free_fn", "free_fn", false)
	fi.AddCallable("my_crate::impl-1::method-2", "new", true)

	if len(fi.Methods) != 1 {
		t.Fatalf("Methods has %d entries, want 1", len(fi.Methods))
	}
	if len(fi.Callables) != 2 {
		t.Fatalf("Callables has %d entries, want 2", len(fi.Callables))
	}
}
