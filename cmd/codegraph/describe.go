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

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	flag "github.com/spf13/pflag"

	"github.com/kraklabs/codegraph/internal/diagnose"
	"github.com/kraklabs/codegraph/internal/term"
	"github.com/kraklabs/codegraph/pkg/apidesc"
)

// describeSummary is the machine-readable form of `describe --json`.
type describeSummary struct {
	Root        string         `json:"root"`
	FormatVer   uint32         `json:"format_version"`
	ItemsByKind map[string]int `json:"items_by_kind"`
	ExternalRef map[string]int `json:"external_crate_refs"`
	TotalItems  int            `json:"total_items"`
}

func runDescribe(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("describe", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: codegraph describe <description.json>

Description:
  Print a summary of a single package's API description: item counts by
  kind, referenced external packages, and the crate root.
`)
	}
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	rest := fs.Args()
	if len(rest) != 1 {
		fs.Usage()
		os.Exit(2)
	}

	path := rest[0]
	data, err := os.ReadFile(path)
	if err != nil {
		diagnose.FatalError(diagnose.NewUserError(
			"Cannot read API description",
			err.Error(),
			"Check that the path points to a valid description JSON file",
			err,
		), globals.JSON)
	}

	crate, err := apidesc.Parse(data)
	if err != nil {
		diagnose.FatalError(diagnose.NewUserError(
			"Cannot parse API description",
			err.Error(),
			"The file must be the upstream documentation tool's JSON output",
			err,
		), globals.JSON)
	}

	byKind := make(map[string]int)
	for _, item := range crate.Index {
		byKind[item.Inner.Kind]++
	}

	externalRefs := make(map[string]int)
	for _, ext := range crate.ExternalCrates {
		externalRefs[ext.Name] = 0
	}
	for _, p := range crate.Paths {
		ext, ok := crate.ExternalCrates[fmt.Sprint(p.CrateOrdinal)]
		if !ok {
			continue
		}
		externalRefs[ext.Name]++
	}

	summary := describeSummary{
		Root:        string(crate.Root),
		FormatVer:   crate.Format,
		ItemsByKind: byKind,
		ExternalRef: externalRefs,
		TotalItems:  len(crate.Index),
	}

	if globals.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(summary)
		return
	}

	term.Header("API Description Summary")
	fmt.Printf("%s %s\n", term.Label("Root item:"), summary.Root)
	fmt.Printf("%s %d\n", term.Label("Format version:"), summary.FormatVer)
	fmt.Printf("%s %s\n", term.Label("Total items:"), term.CountText(summary.TotalItems))
	fmt.Println()

	term.SubHeader("Items by kind")
	kinds := make([]string, 0, len(byKind))
	for k := range byKind {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		fmt.Printf("  %-16s %s\n", k, term.CountText(byKind[k]))
	}

	if len(externalRefs) > 0 {
		fmt.Println()
		term.SubHeader("External packages")
		names := make([]string, 0, len(externalRefs))
		for n := range externalRefs {
			names = append(names, n)
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Printf("  %s\n", n)
		}
	}
}
