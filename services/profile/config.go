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
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// MaxConfigFileSize caps config files at 1MB to prevent memory issues
// from oversized input.
const MaxConfigFileSize = 1024 * 1024

// Ordering selects how records are ordered inside an identifier group
// before reference selection.
type Ordering string

const (
	// OrderingRowOrder keeps arrival/row order (default).
	OrderingRowOrder Ordering = "row_order"

	// OrderingTimestamp sorts by ascending parsed timestamp.
	OrderingTimestamp Ordering = "timestamp_column"
)

// Config is the injectable surface of the profiling pipeline.
//
// The zero value is not usable; start from DefaultConfig and override.
type Config struct {
	// IDColumn is the identifier column name.
	IDColumn string `yaml:"id_column" validate:"required"`

	// TimestampColumn is the optional timestamp column used for
	// reference ordering. Required when Ordering is timestamp_column.
	TimestampColumn string `yaml:"timestamp_column"`

	// Ordering selects row-order or timestamp ordering.
	Ordering Ordering `yaml:"ordering" validate:"oneof=row_order timestamp_column"`

	// Fields is the ordered list of field names to profile.
	Fields []string `yaml:"fields" validate:"required,min=1,dive,required"`

	// SimilarityThreshold is the Jaro-Winkler explosion threshold for
	// name fields.
	SimilarityThreshold float64 `yaml:"similarity_threshold" validate:"gt=0,lte=1"`

	// NameFields are compared with edit distance and Jaro-Winkler.
	NameFields []string `yaml:"name_fields"`

	// DateFields are compared as parsed calendar dates, day-first.
	DateFields []string `yaml:"date_fields"`

	// PostcodeFields explode on any character-level difference.
	PostcodeFields []string `yaml:"postcode_fields"`

	// KeyFields receive the fallback-to-reference guarantee: their
	// post-classification explosion list is never empty.
	KeyFields []string `yaml:"key_fields" validate:"required,min=1"`

	// Workers bounds the per-group worker pool. Zero means one worker
	// per CPU, capped by the pipeline's internal maximum.
	Workers int `yaml:"workers" validate:"gte=0"`
}

// DefaultConfig returns the configuration matching the reference
// deployment: the eight standard identity fields, threshold 0.88, and
// the {first_name, last_name, postcode} key subset.
func DefaultConfig() Config {
	return Config{
		IDColumn:        "id",
		TimestampColumn: "ts",
		Ordering:        OrderingRowOrder,
		Fields: []string{
			"first_name", "last_name", "sex", "dob",
			"address", "postcode", "telephone", "email",
		},
		SimilarityThreshold: 0.88,
		NameFields:          []string{"first_name", "last_name"},
		DateFields:          []string{"dob"},
		PostcodeFields:      []string{"postcode"},
		KeyFields:           []string{"first_name", "last_name", "postcode"},
	}
}

// LoadConfig reads a YAML config file and merges it over defaults.
//
// # Inputs
//
//   - path: YAML file path. Files above MaxConfigFileSize are rejected.
//
// # Outputs
//
//   - Config: merged, validated configuration.
//   - error: non-nil on read, parse or validation failure.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	info, err := os.Stat(path)
	if err != nil {
		return cfg, fmt.Errorf("stat config: %w", err)
	}
	if info.Size() > MaxConfigFileSize {
		return cfg, fmt.Errorf("config file %s exceeds %d bytes: %w",
			path, MaxConfigFileSize, ErrInvalidInput)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks structural constraints and cross-field consistency.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation: %w: %v", ErrInvalidInput, err)
	}

	if c.Ordering == OrderingTimestamp && c.TimestampColumn == "" {
		return fmt.Errorf("timestamp ordering needs timestamp_column: %w", ErrInvalidInput)
	}

	configured := make(map[string]bool, len(c.Fields))
	for _, f := range c.Fields {
		configured[f] = true
	}
	for _, k := range c.KeyFields {
		if !configured[k] {
			return fmt.Errorf("key field %q not in fields list: %w", k, ErrInvalidInput)
		}
	}
	return nil
}
