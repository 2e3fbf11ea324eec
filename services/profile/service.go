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
	"sync"
	"time"
)

// ServiceConfig configures the profiling HTTP service.
type ServiceConfig struct {
	// Defaults is the pipeline configuration applied when a request
	// carries no overrides.
	Defaults Config

	// MaxRecordsPerRequest rejects oversized submissions.
	// Default: 500000.
	MaxRecordsPerRequest int

	// MaxRunDuration bounds one profiling run. Default: 2m.
	MaxRunDuration time.Duration

	// Logger receives run logs. Default: slog.Default().
	Logger *slog.Logger
}

// DefaultServiceConfig returns production defaults.
func DefaultServiceConfig() ServiceConfig {
	return ServiceConfig{
		Defaults:             DefaultConfig(),
		MaxRecordsPerRequest: 500000,
		MaxRunDuration:       2 * time.Minute,
		Logger:               slog.Default(),
	}
}

// Service wraps the pipeline for the HTTP surface.
//
// # Thread Safety
//
// Safe for concurrent use; per-request pipelines are built on demand
// and the default pipeline is constructed once.
type Service struct {
	cfg ServiceConfig

	mu       sync.Mutex
	pipeline *Pipeline
}

// NewService creates a Service from cfg, filling zero values with
// defaults.
func NewService(cfg ServiceConfig) *Service {
	def := DefaultServiceConfig()
	if cfg.MaxRecordsPerRequest <= 0 {
		cfg.MaxRecordsPerRequest = def.MaxRecordsPerRequest
	}
	if cfg.MaxRunDuration <= 0 {
		cfg.MaxRunDuration = def.MaxRunDuration
	}
	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}
	if cfg.Defaults.IDColumn == "" {
		cfg.Defaults = def.Defaults
	}
	return &Service{cfg: cfg}
}

// Profile runs the pipeline over records with the service defaults,
// optionally overridden per request.
func (s *Service) Profile(ctx context.Context, records []Record, override *Config) (*Result, error) {
	if len(records) == 0 {
		return nil, ErrNoRecords
	}
	if len(records) > s.cfg.MaxRecordsPerRequest {
		return nil, fmt.Errorf("%d records exceed request limit %d: %w",
			len(records), s.cfg.MaxRecordsPerRequest, ErrInvalidInput)
	}

	p, err := s.pipelineFor(override)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.MaxRunDuration)
	defer cancel()
	return p.Run(ctx, records)
}

func (s *Service) pipelineFor(override *Config) (*Pipeline, error) {
	if override != nil {
		return NewPipeline(*override, s.cfg.Logger)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pipeline == nil {
		p, err := NewPipeline(s.cfg.Defaults, s.cfg.Logger)
		if err != nil {
			return nil, err
		}
		s.pipeline = p
	}
	return s.pipeline, nil
}
