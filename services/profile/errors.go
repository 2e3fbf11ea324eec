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

import "errors"

// Sentinel errors for the profile package.
var (
	// ErrInvalidInput indicates invalid input parameters.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoRecords indicates an empty record set was submitted.
	ErrNoRecords = errors.New("no records to profile")

	// ErrMissingField indicates a record lacks a configured field.
	// A well-formed rectangular record set cannot trigger this; it is
	// an ingest defect and fails the run immediately.
	ErrMissingField = errors.New("record missing configured field")

	// ErrUnknownField indicates a field name reached the comparator
	// policy without a configured class. This is a configuration
	// error, never retried.
	ErrUnknownField = errors.New("field not covered by comparator policy")

	// ErrBadTimestamp indicates a record timestamp could not be
	// parsed while timestamp ordering was requested.
	ErrBadTimestamp = errors.New("unparsable record timestamp")
)
