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
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
)

// maxPipelineWorkers caps the per-group worker pool regardless of CPU
// count. Group work is small and CPU-bound; more workers only add
// scheduling overhead.
const maxPipelineWorkers = 8

var pipelineTracer = otel.Tracer("profile.pipeline")

// Pipeline runs the full profiling flow over a record set.
//
// # Description
//
// Stages, in order: group records by identifier, aggregate value
// frequencies in one global pass, build the metadata report, then
// classify explosions and generate combinations per group on a
// bounded worker pool. Groups are independent units of work: workers
// share only the read-only frequency table and policy, and each
// writes one result slot, merged without contention at the end.
//
// # Thread Safety
//
// A Pipeline is immutable after construction and safe for concurrent
// Run calls.
type Pipeline struct {
	cfg    Config
	policy Policy
	logger *slog.Logger
}

// groupOutput is the write-once result slot for one identifier group.
type groupOutput struct {
	explosions   []Explosion
	combinations []Combination
}

// NewPipeline validates cfg and assembles the comparator policy.
func NewPipeline(cfg Config, logger *slog.Logger) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:    cfg,
		policy: NewPolicy(cfg),
		logger: logger,
	}, nil
}

// Config returns the pipeline's configuration.
func (p *Pipeline) Config() Config { return p.cfg }

// Run profiles the record set and returns the three output artifacts.
//
// # Inputs
//
//   - ctx: cancellation is honored between identifier groups; one
//     group is small, bounded work and always completes.
//   - records: the full normalized record set. Must be non-empty and
//     rectangular over the configured fields.
//
// # Outputs
//
//   - *Result: metadata, explosions-by-identifier and combinations,
//     tagged with a fresh run ID.
//   - error: grouping/schema errors, policy configuration errors, or
//     ctx.Err() on cancellation.
func (p *Pipeline) Run(ctx context.Context, records []Record) (*Result, error) {
	if ctx == nil {
		return nil, ErrInvalidInput
	}

	runID := uuid.NewString()
	start := time.Now()

	ctx, span := pipelineTracer.Start(ctx, "profile.Run")
	defer span.End()
	span.SetAttributes(
		attribute.String("run_id", runID),
		attribute.Int("records", len(records)),
		attribute.Int("fields", len(p.cfg.Fields)),
	)

	log := p.logger.With("run_id", runID)
	log.Info("profiling run started", "records", len(records), "ordering", string(p.cfg.Ordering))

	result, err := p.run(ctx, records)
	if err != nil {
		runsTotal.WithLabelValues("error").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error("profiling run failed", "error", err)
		return nil, err
	}

	result.RunID = runID
	elapsed := time.Since(start)
	runsTotal.WithLabelValues("ok").Inc()
	runDuration.Observe(elapsed.Seconds())
	span.SetAttributes(
		attribute.Int("identifiers", result.Identifiers),
		attribute.Int("combinations", len(result.Combinations)),
	)
	log.Info("profiling run finished",
		"identifiers", result.Identifiers,
		"combinations", len(result.Combinations),
		"elapsed", elapsed,
	)
	return result, nil
}

func (p *Pipeline) run(ctx context.Context, records []Record) (*Result, error) {
	groups, err := GroupRecords(records, p.cfg)
	if err != nil {
		return nil, err
	}

	// Whole-dataset aggregation happens before any parallel work so
	// workers only ever read the table.
	freqs := BuildFrequencies(groups, p.cfg.Fields)

	meta, err := BuildMetadata(groups, freqs, p.policy, p.cfg.Fields)
	if err != nil {
		return nil, err
	}

	outputs := make([]groupOutput, len(groups))

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(p.workers())
	for i := range groups {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			g := &groups[i]
			explosions, err := ClassifyGroup(g, freqs, p.policy, p.cfg)
			if err != nil {
				return fmt.Errorf("classify id %s: %w", g.ID, err)
			}
			outputs[i] = groupOutput{
				explosions:   explosions,
				combinations: CombineGroup(g, explosions, p.cfg.Fields),
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	result := &Result{
		Metadata:    meta,
		Explosions:  make(Explosions, len(groups)),
		Identifiers: len(groups),
		Records:     len(records),
	}
	for i, g := range groups {
		result.Explosions[g.ID] = outputs[i].explosions
		result.Combinations = append(result.Combinations, outputs[i].combinations...)

		groupsProcessed.Inc()
		for _, e := range outputs[i].explosions {
			explosionsTotal.WithLabelValues(e.Field, strconv.FormatBool(e.Fallback)).Inc()
		}
		combinationsTotal.Add(float64(len(outputs[i].combinations)))
	}
	return result, nil
}

// workers resolves the pool size: the configured count, else one per
// CPU capped at maxPipelineWorkers.
func (p *Pipeline) workers() int {
	if p.cfg.Workers > 0 {
		return p.cfg.Workers
	}
	return min(runtime.NumCPU(), maxPipelineWorkers)
}
