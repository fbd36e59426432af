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
	"strings"

	"github.com/kraklabs/codegraph/pkg/apidesc"
)

// formatType renders a Type expression back into source-like notation for
// display in node field/signature info. It does not attempt to resolve
// generic substitutions; it only produces a readable string.
func formatType(t apidesc.Type) string {
	switch {
	case t.ResolvedPath != nil:
		return formatPath(t.ResolvedPath)
	case t.Primitive != "":
		return t.Primitive
	case t.Generic != "":
		return t.Generic
	case len(t.Tuple) > 0:
		parts := make([]string, len(t.Tuple))
		for i, e := range t.Tuple {
			parts[i] = formatType(e)
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case t.Slice != nil:
		return "[" + formatType(*t.Slice) + "]"
	case t.Array != nil:
		return "[" + formatType(t.Array.Type) + "; " + t.Array.Len + "]"
	case t.RawPointer != nil:
		if t.RawPointer.Mutable {
			return "*mut " + formatType(t.RawPointer.Type)
		}
		return "*const " + formatType(t.RawPointer.Type)
	case t.BorrowedRef != nil:
		prefix := "&"
		if t.BorrowedRef.Lifetime != nil && *t.BorrowedRef.Lifetime != "" {
			prefix += "'" + *t.BorrowedRef.Lifetime + " "
		}
		if t.BorrowedRef.Mutable {
			prefix += "mut "
		}
		return prefix + formatType(t.BorrowedRef.Type)
	case len(t.DynTrait) > 0:
		return "dyn " + formatBounds(t.DynTrait)
	case len(t.ImplTrait) > 0:
		return "impl " + formatBounds(t.ImplTrait)
	case t.QualifiedPath != nil:
		qp := t.QualifiedPath
		base := "<" + formatType(qp.SelfType)
		if qp.TraitPath != nil {
			base += " as " + formatPath(qp.TraitPath)
		}
		return base + ">::" + qp.Name
	default:
		if t.Kind != "" {
			return t.Kind
		}
		return "_"
	}
}

func formatPath(p *apidesc.Path) string {
	if p == nil {
		return ""
	}
	name := p.Name
	if p.Args != nil && len(p.Args.Types) > 0 {
		parts := make([]string, len(p.Args.Types))
		for i, a := range p.Args.Types {
			parts[i] = formatType(a)
		}
		name += "<" + strings.Join(parts, ", ") + ">"
	}
	return name
}

func formatBounds(bounds []apidesc.GenericBound) string {
	parts := make([]string, 0, len(bounds))
	for _, b := range bounds {
		if b.TraitPath != nil {
			parts = append(parts, formatPath(b.TraitPath))
		}
	}
	return strings.Join(parts, " + ")
}

func formatGenerics(g apidesc.Generics) []string {
	out := make([]string, 0, len(g.Params))
	for _, p := range g.Params {
		out = append(out, p.Name)
	}
	return out
}

func formatWhereClause(g apidesc.Generics) []string {
	out := make([]string, 0, len(g.WherePredicates))
	for _, wp := range g.WherePredicates {
		entry := formatType(wp.Type)
		bounds := formatBounds(wp.Bounds)
		if bounds != "" {
			entry += ": " + bounds
		}
		out = append(out, entry)
	}
	return out
}

// collectTypeRefs walks a Type expression and returns the IDs of every
// resolved item it references, for emitting UsesType edges (Pass B).
func collectTypeRefs(t apidesc.Type) []apidesc.ItemID {
	var out []apidesc.ItemID
	var walk func(apidesc.Type)
	walkBounds := func(bounds []apidesc.GenericBound) {
		for _, b := range bounds {
			if b.TraitPath != nil && b.TraitPath.ID != nil {
				out = append(out, *b.TraitPath.ID)
			}
		}
	}
	walk = func(t apidesc.Type) {
		switch {
		case t.ResolvedPath != nil:
			if t.ResolvedPath.ID != nil {
				out = append(out, *t.ResolvedPath.ID)
			}
			if t.ResolvedPath.Args != nil {
				for _, a := range t.ResolvedPath.Args.Types {
					walk(a)
				}
				for _, b := range t.ResolvedPath.Args.Bindings {
					if b.Type != nil {
						walk(*b.Type)
					}
				}
			}
		case len(t.Tuple) > 0:
			for _, e := range t.Tuple {
				walk(e)
			}
		case t.Slice != nil:
			walk(*t.Slice)
		case t.Array != nil:
			walk(t.Array.Type)
		case t.RawPointer != nil:
			walk(t.RawPointer.Type)
		case t.BorrowedRef != nil:
			walk(t.BorrowedRef.Type)
		case len(t.DynTrait) > 0:
			walkBounds(t.DynTrait)
		case len(t.ImplTrait) > 0:
			walkBounds(t.ImplTrait)
		case t.QualifiedPath != nil:
			walk(t.QualifiedPath.SelfType)
			if t.QualifiedPath.TraitPath != nil && t.QualifiedPath.TraitPath.ID != nil {
				out = append(out, *t.QualifiedPath.TraitPath.ID)
			}
		}
	}
	walk(t)
	return out
}

func mapVisibility(v apidesc.Visibility) (string, bool) {
	switch v.Kind {
	case "public":
		return "Public", true
	case "crate":
		return "PackageLocal", true
	case "restricted":
		return "Restricted", true
	case "default":
		return "Inherited", true
	default:
		return "Unknown", false
	}
}
