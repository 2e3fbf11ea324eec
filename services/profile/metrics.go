// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package profile

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recorddrift_runs_total",
		Help: "Total profiling runs by outcome",
	}, []string{"outcome"})

	runDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "recorddrift_run_duration_seconds",
		Help:    "Wall time of a profiling run",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120},
	})

	groupsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recorddrift_identifier_groups_total",
		Help: "Identifier groups processed",
	})

	explosionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recorddrift_explosions_total",
		Help: "Classified explosions by field, fallback insertions included",
	}, []string{"field", "fallback"})

	combinationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "recorddrift_combinations_total",
		Help: "Synthetic combination rows generated",
	})
)
