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
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	packagesExtracted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codegraph_packages_extracted_total",
		Help: "Packages successfully extracted.",
	})
	packagesFailedByKind = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "codegraph_packages_failed_by_kind_total",
		Help: "Packages that failed extraction, labeled by error kind.",
	}, []string{"kind"})
	callsResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codegraph_calls_resolved_total",
		Help: "Call sites resolved to exactly one candidate.",
	})
	callsAmbiguous = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codegraph_calls_ambiguous_total",
		Help: "Call sites that resolved to more than one candidate.",
	})
	callsUnresolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "codegraph_calls_unresolved_total",
		Help: "Call sites that resolved to no candidate.",
	})
	extractDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "codegraph_extract_duration_seconds",
		Help:    "Wall-clock time for a full workspace extraction.",
		Buckets: prometheus.DefBuckets,
	})
)

func serveMetrics(addr string, logger *slog.Logger) {
	if addr == "" {
		return
	}
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		logger.Info("metrics.http.start", "addr", addr, "path", "/metrics")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics.http.error", "err", err)
		}
	}()
}
