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

import "strings"

// FunctionIndex is the symbol table built while walking the API
// description, queried read-only by pkg/callgraph during call-site
// resolution.
type FunctionIndex struct {
	Callables []string // every known callable's full "::"-joined ID
	Methods   []string // the subset that are methods

	callablesByName map[string][]string
	methodsByName   map[string][]string
}

// NewFunctionIndex returns an empty index.
func NewFunctionIndex() *FunctionIndex {
	return &FunctionIndex{
		callablesByName: make(map[string][]string),
		methodsByName:   make(map[string][]string),
	}
}

// AddCallable registers a free function or method's full ID under name,
// its declared (source-level) name. name is taken as an explicit
// parameter rather than derived from id's last "::" segment, because
// impl-scoped method IDs end in "method-<raw-id>" (see pkg/identity) to
// disambiguate blanket impls, not in the method's actual name. isMethod
// additionally registers it in the method-only list/index.
func (fi *FunctionIndex) AddCallable(id string, name string, isMethod bool) {
	fi.Callables = append(fi.Callables, id)
	fi.callablesByName[name] = append(fi.callablesByName[name], id)
	if isMethod {
		fi.Methods = append(fi.Methods, id)
		fi.methodsByName[name] = append(fi.methodsByName[name], id)
	}
}

func suffixOf(segments []string) string {
	return "::" + strings.Join(segments, "::")
}

func allBySuffix(all []string, segments []string) []string {
	if len(segments) == 0 {
		return nil
	}
	suffix := suffixOf(segments)
	var out []string
	for _, id := range all {
		if strings.HasSuffix(id, suffix) {
			out = append(out, id)
		}
	}
	return out
}

// ResolveCallableBySuffixAll returns every callable ID ending in
// "::"+segments joined by "::".
func (fi *FunctionIndex) ResolveCallableBySuffixAll(segments []string) []string {
	return allBySuffix(fi.Callables, segments)
}

// ResolveCallableBySuffixUnique returns the single callable ID ending in
// the given suffix, or ("", false) if zero or more than one match.
func (fi *FunctionIndex) ResolveCallableBySuffixUnique(segments []string) (string, bool) {
	all := fi.ResolveCallableBySuffixAll(segments)
	if len(all) == 1 {
		return all[0], true
	}
	return "", false
}

// ResolveMethodBySuffixAll is the method-only analog of
// ResolveCallableBySuffixAll.
func (fi *FunctionIndex) ResolveMethodBySuffixAll(segments []string) []string {
	return allBySuffix(fi.Methods, segments)
}

// ResolveMethodBySuffixUnique is the method-only analog of
// ResolveCallableBySuffixUnique.
func (fi *FunctionIndex) ResolveMethodBySuffixUnique(segments []string) (string, bool) {
	all := fi.ResolveMethodBySuffixAll(segments)
	if len(all) == 1 {
		return all[0], true
	}
	return "", false
}

// ResolveCallableByNameAll returns every callable ID that was registered
// with AddCallable under the bare name name.
func (fi *FunctionIndex) ResolveCallableByNameAll(name string) []string {
	return fi.callablesByName[name]
}

// ResolveCallableByNameUnique returns the single callable ID with the
// given bare name, or ("", false) if zero or more than one match.
func (fi *FunctionIndex) ResolveCallableByNameUnique(name string) (string, bool) {
	all := fi.callablesByName[name]
	if len(all) == 1 {
		return all[0], true
	}
	return "", false
}

// ResolveMethodByNameAll is the method-only analog of
// ResolveCallableByNameAll.
func (fi *FunctionIndex) ResolveMethodByNameAll(name string) []string {
	return fi.methodsByName[name]
}

// ResolveMethodByNameUnique is the method-only analog of
// ResolveCallableByNameUnique.
func (fi *FunctionIndex) ResolveMethodByNameUnique(name string) (string, bool) {
	all := fi.methodsByName[name]
	if len(all) == 1 {
		return all[0], true
	}
	return "", false
}
