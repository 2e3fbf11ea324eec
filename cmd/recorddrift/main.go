// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command recorddrift profiles identifier groups for field drift.
//
// Usage:
//
//	# Batch profile a CSV extract
//	recorddrift profile -i exploded.csv -o metadata.json -e explosions.json \
//	    -c combinations.csv --db combinations.db
//
//	# Choose timestamp ordering for reference selection
//	recorddrift profile -i exploded.csv --order-by timestamp_column --ts-col updated_at
//
//	# Run the HTTP service
//	recorddrift serve --port 8080
//
// Example requests against the service:
//
//	curl http://localhost:8080/v1/profile/health
//	curl -X POST http://localhost:8080/v1/profile/run \
//	  -H "Content-Type: application/json" \
//	  -d '{"records": [{"id": "1", "fields": {"first_name": "john", ...}}]}'
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
