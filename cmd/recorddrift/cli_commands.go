// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/recorddrift/pkg/logging"
	"github.com/AleutianAI/recorddrift/services/profile"
	"github.com/AleutianAI/recorddrift/services/profile/ingest"
	"github.com/AleutianAI/recorddrift/services/profile/store"
)

var (
	rootCmd = &cobra.Command{
		Use:   "recorddrift",
		Short: "Profile identifier groups for field drift",
		Long: `recorddrift profiles groups of records that share an identifier but
disagree on descriptive fields. Per group it selects a reference value
per field, classifies divergent variants as noise or explosions, and
generates every plausible combination of exploded values as synthetic
records for downstream adjudication.`,
	}

	profileCmd = &cobra.Command{
		Use:   "profile",
		Short: "Run a batch profiling pass over a CSV extract",
		RunE:  runProfile,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the profiling HTTP service",
		RunE:  runServe,
	}

	// profile flags
	inputPath      string
	configPath     string
	metadataOut    string
	explosionsOut  string
	combosOut      string
	combosDB       string
	idCol          string
	tsCol          string
	fieldsFlag     []string
	thresholdFlag  float64
	orderBy        string
	workersFlag    int
	logDir         string
	debugLog       bool

	// serve flags
	servePort  int
	serveDebug bool
	serveTrace bool
)

func init() {
	pf := profileCmd.Flags()
	pf.StringVarP(&inputPath, "input", "i", "", "Path to the CSV record extract (required)")
	pf.StringVar(&configPath, "config", "", "Optional YAML pipeline configuration")
	pf.StringVarP(&metadataOut, "output", "o", "metadata.json", "Path for the metadata report")
	pf.StringVarP(&explosionsOut, "explosions-output", "e", "", "Path for the explosions-by-id report (default stdout)")
	pf.StringVarP(&combosOut, "combinations-output", "c", "", "Path for the combination table CSV")
	pf.StringVar(&combosDB, "db", "", "Optional SQLite database for the combination table")
	pf.StringVar(&idCol, "id-col", "", "Identifier column name (overrides config)")
	pf.StringVar(&tsCol, "ts-col", "", "Timestamp column name (overrides config)")
	pf.StringSliceVarP(&fieldsFlag, "fields", "f", nil, "Field names to profile (overrides config)")
	pf.Float64Var(&thresholdFlag, "threshold", 0, "Name-field similarity threshold (overrides config)")
	pf.StringVar(&orderBy, "order-by", "", "Reference ordering: row_order or timestamp_column")
	pf.IntVar(&workersFlag, "workers", 0, "Worker pool size (0 = one per CPU)")
	pf.StringVar(&logDir, "log-dir", "", "Directory for JSON file logs")
	pf.BoolVar(&debugLog, "debug", false, "Enable debug logging")
	_ = profileCmd.MarkFlagRequired("input")

	sf := serveCmd.Flags()
	sf.IntVar(&servePort, "port", 8080, "Port to listen on")
	sf.BoolVar(&serveDebug, "debug", false, "Enable debug mode")
	sf.BoolVar(&serveTrace, "trace", false, "Emit OpenTelemetry spans to stdout")

	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(serveCmd)
}

// buildConfig resolves the pipeline configuration: YAML file when
// given, defaults otherwise, CLI flags override both.
func buildConfig(cmd *cobra.Command) (profile.Config, error) {
	cfg := profile.DefaultConfig()
	if configPath != "" {
		loaded, err := profile.LoadConfig(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if idCol != "" {
		cfg.IDColumn = idCol
	}
	if tsCol != "" {
		cfg.TimestampColumn = tsCol
	}
	if len(fieldsFlag) > 0 {
		cfg.Fields = fieldsFlag
	}
	if cmd.Flags().Changed("threshold") {
		cfg.SimilarityThreshold = thresholdFlag
	}
	if orderBy != "" {
		cfg.Ordering = profile.Ordering(orderBy)
	}
	if workersFlag > 0 {
		cfg.Workers = workersFlag
	}

	// Trim key fields absent from a narrowed field list so ad-hoc
	// profiling of a field subset keeps working.
	var keys []string
	configured := make(map[string]bool, len(cfg.Fields))
	for _, f := range cfg.Fields {
		configured[f] = true
	}
	for _, k := range cfg.KeyFields {
		if configured[k] {
			keys = append(keys, k)
		}
	}
	if len(keys) > 0 {
		cfg.KeyFields = keys
	}

	return cfg, cfg.Validate()
}

func runProfile(cmd *cobra.Command, args []string) error {
	level := logging.LevelInfo
	if debugLog {
		level = logging.LevelDebug
	}
	logger := logging.New(logging.Config{Level: level, LogDir: logDir, Service: "recorddrift"})
	defer logger.Close()

	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	records, err := ingest.ReadFile(inputPath, cfg)
	if err != nil {
		return err
	}

	pipeline, err := profile.NewPipeline(cfg, logger.Slog())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result, err := pipeline.Run(ctx, records)
	if err != nil {
		return err
	}

	if err := profile.ExportFile(metadataOut, func(w io.Writer) error {
		return profile.WriteMetadataJSON(w, result.Metadata)
	}); err != nil {
		return err
	}
	logger.Info("metadata written", "path", metadataOut)

	if explosionsOut != "" {
		if err := profile.ExportFile(explosionsOut, func(w io.Writer) error {
			return profile.WriteExplosionsJSON(w, result.Explosions)
		}); err != nil {
			return err
		}
		logger.Info("explosions written", "path", explosionsOut)
	} else {
		if err := profile.WriteExplosionsJSON(os.Stdout, result.Explosions); err != nil {
			return err
		}
	}

	if combosOut != "" {
		if err := profile.ExportFile(combosOut, func(w io.Writer) error {
			return profile.WriteCombinationsCSV(w, result.Combinations, cfg)
		}); err != nil {
			return err
		}
		logger.Info("combination table written", "path", combosOut, "rows", len(result.Combinations))
	}

	if combosDB != "" {
		st, err := store.Open(combosDB)
		if err != nil {
			return err
		}
		defer st.Close()
		if err := st.WriteCombinations(ctx, result.Combinations, cfg); err != nil {
			return err
		}
		logger.Info("combination table stored", "db", combosDB, "rows", len(result.Combinations))
	}

	fmt.Fprintf(os.Stderr, "profiled %d identifiers from %d records into %d combinations (run %s)\n",
		result.Identifiers, result.Records, len(result.Combinations), result.RunID)
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return serve(ctx, servePort, serveDebug, serveTrace)
}
