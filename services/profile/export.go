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
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
)

// WriteMetadataJSON writes the metadata report as indented JSON.
func WriteMetadataJSON(w io.Writer, meta Metadata) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	return nil
}

// WriteExplosionsJSON writes the explosions-by-identifier report as
// indented JSON.
func WriteExplosionsJSON(w io.Writer, explosions Explosions) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(explosions); err != nil {
		return fmt.Errorf("encode explosions: %w", err)
	}
	return nil
}

// CombinationColumns returns the combination table header: the
// identifier column first, then the configured fields in lexical
// order for reproducible output.
func CombinationColumns(cfg Config) []string {
	fields := make([]string, len(cfg.Fields))
	copy(fields, cfg.Fields)
	sort.Strings(fields)
	return append([]string{cfg.IDColumn}, fields...)
}

// WriteCombinationsCSV writes the combination table as CSV, one row
// per synthetic record.
func WriteCombinationsCSV(w io.Writer, combos []Combination, cfg Config) error {
	columns := CombinationColumns(cfg)

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(columns))
	for _, c := range combos {
		row[0] = c.ID
		for i, field := range columns[1:] {
			row[i+1] = c.Values[field]
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush combinations: %w", err)
	}
	return nil
}

// ExportFile writes with fn to a freshly created file at path.
func ExportFile(path string, fn func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}
