// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package store persists the combination table to SQLite.
//
// SQLite keeps the synthetic record table queryable by downstream
// adjudication tooling without a database server. One profiling run
// replaces the table wholesale; runs are not appended.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/AleutianAI/recorddrift/services/profile"
)

// CombinationStore writes combination tables to one SQLite database.
type CombinationStore struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path. Use ":memory:"
// for an ephemeral store.
func Open(path string) (*CombinationStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	return &CombinationStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *CombinationStore) Close() error {
	return s.db.Close()
}

// WriteCombinations replaces the combinations table with the given
// rows. Columns follow profile.CombinationColumns: identifier first,
// then fields in lexical order.
func (s *CombinationStore) WriteCombinations(ctx context.Context, combos []profile.Combination, cfg profile.Config) error {
	columns := profile.CombinationColumns(cfg)

	quoted := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = `"` + strings.ReplaceAll(c, `"`, `""`) + `"`
		marks[i] = "?"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS combinations`); err != nil {
		return fmt.Errorf("drop combinations: %w", err)
	}
	create := fmt.Sprintf(`CREATE TABLE combinations (%s TEXT)`,
		strings.Join(quoted, " TEXT, "))
	if _, err := tx.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("create combinations: %w", err)
	}

	insert := fmt.Sprintf(`INSERT INTO combinations (%s) VALUES (%s)`,
		strings.Join(quoted, ", "), strings.Join(marks, ", "))
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	args := make([]any, len(columns))
	for _, c := range combos {
		args[0] = c.ID
		for i, field := range columns[1:] {
			args[i+1] = c.Values[field]
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("insert combination for id %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// CountCombinations returns the row count of the combinations table.
func (s *CombinationStore) CountCombinations(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM combinations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count combinations: %w", err)
	}
	return n, nil
}
