// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ingest reads tabular record sets for the profiler.
//
// # Description
//
// The ingest layer owns everything the profiling core assumes away:
// reading CSV input, addressing columns by header, lower-casing the
// configured field values, and failing fast when a configured column
// is missing. Values reaching the core are normalized text.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AleutianAI/recorddrift/services/profile"
)

// ErrMissingColumn indicates the input lacks a configured column.
var ErrMissingColumn = errors.New("input missing configured column")

// ReadFile loads a CSV file into records per cfg.
func ReadFile(path string, cfg profile.Config) ([]profile.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	records, err := Read(f, cfg)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

// Read parses header-addressed CSV into normalized records.
//
// # Description
//
// The first row is the header. The identifier column, every
// configured field column, and (when set) the timestamp column must
// be present; a missing column fails immediately with
// ErrMissingColumn. Field values are trimmed and lower-cased here so
// the core never cases anything. Identifier and timestamp values are
// trimmed but kept verbatim.
//
// # Inputs
//
//   - r: CSV input with a header row.
//   - cfg: pipeline configuration naming the columns.
//
// # Outputs
//
//   - []profile.Record: one record per data row, in row order.
//   - error: parse errors or ErrMissingColumn.
func Read(r io.Reader, cfg profile.Config) ([]profile.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	required := append([]string{cfg.IDColumn}, cfg.Fields...)
	if cfg.TimestampColumn != "" {
		required = append(required, cfg.TimestampColumn)
	}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("column %q: %w", name, ErrMissingColumn)
		}
	}

	var records []profile.Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		rec := profile.Record{
			ID:     strings.TrimSpace(row[col[cfg.IDColumn]]),
			Fields: make(map[string]string, len(cfg.Fields)),
		}
		if cfg.TimestampColumn != "" {
			rec.Timestamp = strings.TrimSpace(row[col[cfg.TimestampColumn]])
		}
		for _, f := range cfg.Fields {
			rec.Fields[f] = strings.ToLower(strings.TrimSpace(row[col[f]]))
		}
		records = append(records, rec)
	}

	return records, nil
}
