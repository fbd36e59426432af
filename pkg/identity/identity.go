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

// Package identity implements the deterministic entity ID scheme:
// package-name normalization, path-based node IDs, and the
// per-impl-scoped impl/method ID scheme that disambiguates blanket impls.
package identity

import "strings"

// NormalizePackageName replaces ASCII '-' with '_' at every boundary, since
// source and upstream tool output use both forms interchangeably.
func NormalizePackageName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// IsScaffoldingSegment reports whether a path segment identifies
// upstream-generated internal scaffolding that must be discarded along
// with all its children.
func IsScaffoldingSegment(segment string) bool {
	return segment == "_" || strings.HasPrefix(segment, "__")
}

// HasScaffoldingSegment reports whether any segment of path is scaffolding.
func HasScaffoldingSegment(path []string) bool {
	for _, seg := range path {
		if IsScaffoldingSegment(seg) {
			return true
		}
	}
	return false
}

// PackageID returns the node ID for a package itself.
func PackageID(pkg string) string {
	return NormalizePackageName(pkg)
}

// JoinPath builds the canonical node ID for a module or named item: the
// normalized package name followed by the item's path segments, joined by
// "::". When the upstream path already starts with the package name, that
// leading segment is dropped so the ID is not doubled.
func JoinPath(pkg string, path []string) string {
	pkg = NormalizePackageName(pkg)
	if len(path) == 0 {
		return pkg
	}
	rest := path
	if rest[0] == pkg {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return pkg
	}
	return pkg + "::" + strings.Join(rest, "::")
}

// ImplID builds the node ID for an impl block: "pkg::impl-<raw-id>", where
// rawID is the upstream API description's numeric item ID for the impl,
// stable within a single parse.
func ImplID(pkg string, rawID string) string {
	return NormalizePackageName(pkg) + "::impl-" + rawID
}

// ImplMethodID builds the node ID for an item associated with an impl
// block (a method or an associated type alias), scoped under its owning
// impl's ID rather than the upstream numeric ID alone. This is what
// distinguishes two impl blocks whose associated items happen to share an
// upstream ID (blanket impls) — each occurrence gets its own node.
func ImplMethodID(implID string, rawID string) string {
	return implID + "::method-" + rawID
}

// LastSegment returns the final "::"-separated segment of an ID, for
// display as a node's Name.
func LastSegment(id string) string {
	i := strings.LastIndex(id, "::")
	if i < 0 {
		return id
	}
	return id[i+2:]
}

// ParentID returns the ID of the immediate Contains-parent of a module or
// item ID: the ID with its last segment removed. Returns ("", false) for a
// bare package ID, which has no parent.
func ParentID(id string) (string, bool) {
	i := strings.LastIndex(id, "::")
	if i < 0 {
		return "", false
	}
	return id[:i], true
}

// Segments splits a node ID into its "::"-separated parts.
func Segments(id string) []string {
	return strings.Split(id, "::")
}

// OwningPackage returns the leading segment of a node ID — the package
// that owns it, used by the workspace merge to partition
// nodes and edges.
func OwningPackage(id string) string {
	i := strings.Index(id, "::")
	if i < 0 {
		return id
	}
	return id[:i]
}
