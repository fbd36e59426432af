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

package extract

import (
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/kraklabs/codegraph/pkg/apidesc"
	"github.com/kraklabs/codegraph/pkg/callgraph"
	"github.com/kraklabs/codegraph/pkg/graph"
	"github.com/kraklabs/codegraph/pkg/source"
	"github.com/kraklabs/codegraph/pkg/walker"
	"github.com/kraklabs/codegraph/pkg/workspace"
)

// PackageSpec names one workspace member and everything needed to
// extract it: its API description bytes, the file its module tree roots
// at, and a source.Provider for reading the rest of its files.
type PackageSpec struct {
	Name        string
	Version     string
	Description []byte
	RootFile    string
	Source      source.Provider
}

// PackageOutcome is one package's extraction result: either a populated
// graph or an error tagged with its ErrorKind.
type PackageOutcome struct {
	Name  string
	Graph *graph.Graph
	Index *walker.FunctionIndex
	Stats callgraph.Stats
	Err   error
}

// ExtractPackage runs the two-pass walk over spec's API description and,
// if a root source file is given, resolves call edges into the same
// graph. It never returns a partial Graph alongside a non-nil error: a
// description, walk or source-parse failure is always fatal to the package.
func ExtractPackage(spec PackageSpec, mode callgraph.Mode, logger *slog.Logger) PackageOutcome {
	if logger == nil {
		logger = slog.Default()
	}

	crate, err := apidesc.Parse(spec.Description)
	if err != nil {
		return PackageOutcome{Name: spec.Name, Err: wrap(ErrParseDescription, spec.Name, err)}
	}

	result, err := walker.Walk(spec.Name, crate)
	if err != nil {
		return PackageOutcome{Name: spec.Name, Err: wrap(ErrParseDescription, spec.Name, err)}
	}
	logger.Debug("extract.package.walked", "package", spec.Name, "nodes", len(result.Graph.Nodes), "edges", len(result.Graph.Edges))

	outcome := PackageOutcome{Name: spec.Name, Graph: result.Graph, Index: result.Index}

	if spec.RootFile == "" || spec.Source == nil {
		return outcome
	}

	start := time.Now()
	edges, stats, err := callgraph.Extract(spec.Name, spec.Source, spec.RootFile, result.Graph, result.Index, mode)
	if err != nil {
		return PackageOutcome{Name: spec.Name, Err: wrap(ErrParseSource, spec.Name, err)}
	}
	for _, e := range edges {
		result.Graph.AddEdge(e)
	}
	outcome.Stats = stats
	logger.Debug("extract.package.calls_resolved", "package", spec.Name,
		"found", stats.CallsFound, "resolved", stats.CallsResolved,
		"ambiguous", stats.CallsAmbiguous, "unresolved", stats.CallsUnresolved,
		"duration_ms", time.Since(start).Milliseconds())

	return outcome
}

// WorkspaceSpec is the full set of packages to extract together plus the
// metadata attached to the merged output.
type WorkspaceSpec struct {
	Packages []PackageSpec
	Repo     *string
	Ref      *string
	Mode     callgraph.Mode
	// MaxWorkers caps cross-package concurrency; <= 0 selects
	// runtime.NumCPU(), capped at 8.
	MaxWorkers int
}

// ExtractWorkspace runs ExtractPackage for every member of spec
// concurrently (package extraction itself is single-threaded; only the
// fan-out across packages is parallel) and merges the results. Per-
// package failures are collected and returned alongside the partial
// workspace built from the packages that did succeed.
func ExtractWorkspace(spec WorkspaceSpec, logger *slog.Logger) (graph.Workspace, []error) {
	if logger == nil {
		logger = slog.Default()
	}
	workers := spec.MaxWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > 8 {
		workers = 8
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	outcomes := make([]PackageOutcome, len(spec.Packages))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				outcomes[idx] = ExtractPackage(spec.Packages[idx], spec.Mode, logger)
			}
		}()
	}
	for i := range spec.Packages {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	versionByName := make(map[string]string, len(spec.Packages))
	for _, p := range spec.Packages {
		versionByName[p.Name] = p.Version
	}

	var errs []error
	results := make([]workspace.PackageResult, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Err != nil {
			errs = append(errs, o.Err)
			logger.Error("extract.package.failed", "package", o.Name, "error", o.Err)
			continue
		}
		results = append(results, workspace.PackageResult{Name: o.Name, Version: versionByName[o.Name], Graph: o.Graph})
	}

	return workspace.Merge(results, spec.Repo, spec.Ref), errs
}
