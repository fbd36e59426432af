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
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"github.com/schollz/progressbar/v3"

	"github.com/kraklabs/codegraph/internal/config"
	"github.com/kraklabs/codegraph/internal/diagnose"
	"github.com/kraklabs/codegraph/internal/gitinfo"
	"github.com/kraklabs/codegraph/internal/term"
	"github.com/kraklabs/codegraph/pkg/callgraph"
	"github.com/kraklabs/codegraph/pkg/extract"
	"github.com/kraklabs/codegraph/pkg/source"
)

func runExtract(args []string, globals GlobalFlags) {
	fs := flag.NewFlagSet("extract", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to codegraph.yaml (default: built-in defaults)")
	workspaceRoot := fs.String("workspace", "", "Workspace root directory (overrides config)")
	descriptionDir := fs.String("descriptions", "", "Directory of per-package API description JSON files (overrides config)")
	outputPath := fs.String("output", "", "Output path for the merged workspace document (overrides config; '-' for stdout)")
	ambiguous := fs.Bool("ambiguous", false, "Emit an edge per candidate on ambiguous calls instead of dropping them")
	metricsAddr := fs.String("metrics-addr", "", "HTTP listen address for Prometheus metrics (empty to disable)")
	debug := fs.Bool("debug", false, "Enable debug logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage: codegraph extract [options]

Description:
  Extract every package in the configured workspace into a single
  workspace graph document: declarations, definitions, implementations,
  type uses, derives, re-exports, and call edges.

Options:
`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	logLevel := slog.LevelInfo
	if *debug || globals.Verbose >= 2 {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		diagnose.FatalError(diagnose.NewUserError(
			"Cannot load configuration",
			err.Error(),
			"Check the --config path and the file's YAML syntax",
			err,
		), globals.JSON)
	}
	if *workspaceRoot != "" {
		cfg.WorkspaceRoot = *workspaceRoot
	}
	if *descriptionDir != "" {
		cfg.DescriptionDir = *descriptionDir
	}
	if *outputPath != "" {
		cfg.OutputPath = *outputPath
	}
	if *ambiguous {
		cfg.CallResolution = callgraph.ModeAmbiguous
	}
	if err := cfg.Validate(); err != nil {
		diagnose.FatalError(diagnose.NewUserError("Invalid configuration", err.Error(), "Fix the offending field and retry", err), globals.JSON)
	}

	serveMetrics(*metricsAddr, logger)

	specs, err := discoverPackages(cfg)
	if err != nil {
		diagnose.FatalError(diagnose.NewUserError(
			"Cannot discover workspace packages",
			err.Error(),
			fmt.Sprintf("Check that %s contains one JSON description per package", cfg.DescriptionDir),
			err,
		), globals.JSON)
	}
	if len(specs) == 0 {
		diagnose.FatalError(diagnose.NewUserError(
			"No packages found",
			fmt.Sprintf("%s contains no API description files", cfg.DescriptionDir),
			"Generate a description per package and point --descriptions at the directory",
			nil,
		), globals.JSON)
	}

	var bar *progressbar.ProgressBar
	if !globals.Quiet && !globals.JSON {
		bar = progressbar.Default(int64(len(specs)), "extracting packages")
	}

	if cfg.Repo == "" || cfg.Ref == "" {
		if repo, ref, err := gitinfo.Detect(context.Background(), cfg.WorkspaceRoot); err != nil {
			logger.Debug("skipping git provenance detection", "error", err)
		} else {
			if cfg.Repo == "" {
				cfg.Repo = repo
			}
			if cfg.Ref == "" {
				cfg.Ref = ref
			}
		}
	}

	start := time.Now()
	workspaceSpec := extract.WorkspaceSpec{
		Packages:   specs,
		Mode:       cfg.CallResolution,
		MaxWorkers: cfg.MaxWorkers,
	}
	if cfg.Repo != "" {
		workspaceSpec.Repo = &cfg.Repo
	}
	if cfg.Ref != "" {
		workspaceSpec.Ref = &cfg.Ref
	}

	ws, errs := extract.ExtractWorkspace(workspaceSpec, logger)
	extractDuration.Observe(time.Since(start).Seconds())
	if bar != nil {
		_ = bar.Finish()
	}

	packagesExtracted.Add(float64(len(specs) - len(errs)))
	for _, e := range errs {
		packagesFailedByKind.WithLabelValues(errorKind(e)).Inc()
	}

	if len(errs) > 0 && !globals.Quiet {
		for _, e := range errs {
			_, _ = term.Yellow.Fprintf(os.Stderr, "warning: %v\n", e)
		}
	}

	if err := writeWorkspace(cfg.OutputPath, ws); err != nil {
		diagnose.FatalError(diagnose.NewPermissionError(
			"Cannot write workspace document",
			err.Error(),
			"Check permissions on the output path",
			err,
		), globals.JSON)
	}

	if !globals.JSON && !globals.Quiet {
		term.Header("Extraction Complete")
		fmt.Printf("%s %d\n", term.Label("Packages:"), len(ws.Crates))
		fmt.Printf("%s %d\n", term.Label("External packages:"), len(ws.ExternalCrates))
		fmt.Printf("%s %d\n", term.Label("Cross-package edges:"), len(ws.CrossCrateEdges))
		if len(errs) > 0 {
			_, _ = term.Yellow.Printf("Failed packages: %d\n", len(errs))
		}
		fmt.Printf("%s %s\n", term.Label("Duration:"), term.DimText(time.Since(start).String()))
	}
}

func errorKind(err error) string {
	if ee, ok := err.(*extract.Error); ok {
		return string(ee.Kind)
	}
	return "unknown"
}

// discoverPackages builds one PackageSpec per "<name>.json" file in
// cfg.DescriptionDir, assuming each package's sources live at
// "<workspace_root>/<name>/src/lib.rs" (falling back to "main.rs").
func discoverPackages(cfg config.Config) ([]extract.PackageSpec, error) {
	entries, err := os.ReadDir(cfg.DescriptionDir)
	if err != nil {
		return nil, err
	}
	excluded := make(map[string]bool, len(cfg.ExcludePackages))
	for _, name := range cfg.ExcludePackages {
		excluded[name] = true
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(names)

	specs := make([]extract.PackageSpec, 0, len(names))
	for _, name := range names {
		if excluded[name] {
			continue
		}
		descPath := filepath.Join(cfg.DescriptionDir, name+".json")
		data, err := os.ReadFile(descPath)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", descPath, err)
		}

		pkgDir := filepath.Join(cfg.WorkspaceRoot, name)
		provider := source.NewFilesystemProvider(pkgDir)
		rootFile := ""
		for _, candidate := range []string{"src/lib.rs", "src/main.rs"} {
			if provider.FileExists(candidate) {
				rootFile = candidate
				break
			}
		}

		specs = append(specs, extract.PackageSpec{
			Name:        name,
			Description: data,
			RootFile:    rootFile,
			Source:      provider,
		})
	}
	return specs, nil
}

func writeWorkspace(outputPath string, ws interface{}) error {
	data, err := json.MarshalIndent(ws, "", "  ")
	if err != nil {
		return err
	}
	if outputPath == "" || outputPath == "-" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(outputPath, append(data, '\n'), 0644)
}
