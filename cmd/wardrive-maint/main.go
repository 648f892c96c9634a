// wardrive-maint - coverage service maintenance trigger
// Copyright (C) 2026  nexus contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// wardrive-maint asks the coverage service to consolidate old samples and
// then to clean up stale repeaters. It is meant to be run from cron.
//
// Configuration comes from environment variables, with config.json as a
// fallback for the host:
//
//	SERVICE_HOST              base URL of the service (default http://localhost:3000)
//	CONSOLIDATE_MAX_AGE_DAYS  samples older than this are consolidated (default 14)
//	MAINT_CONFIG              config file path (default config.json)
//	MAINT_AUTH_SECRET         if set, requests carry an HS256 bearer token
//	LOG_LEVEL                 debug, info, warn or error (default info)
//
// Both calls are always attempted and the process exits 0 even when they
// fail; failures are only reported.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/jredh-dev/wardrive-maint/config"
	"github.com/jredh-dev/wardrive-maint/internal/logging"
	"github.com/jredh-dev/wardrive-maint/internal/maintenance"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout, os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

// run parses args, resolves configuration and performs both maintenance
// calls. It only returns an error for bad command-line usage.
func run(ctx context.Context, outW io.Writer, args []string) error {
	fs := flag.NewFlagSet("wardrive-maint", flag.ContinueOnError)
	fs.SetOutput(outW)
	showVersion := fs.Bool("version", false, "Show version information")
	configPath := fs.String("config", "", "Config file path (overrides MAINT_CONFIG)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Fprintf(outW, "wardrive-maint %s\n", version)
		fmt.Fprintf(outW, "Commit: %s\n", commit)
		fmt.Fprintf(outW, "Built: %s\n", buildDate)
		return nil
	}

	cfg := config.Load(*configPath)
	logger := logging.New(outW, cfg.LogLevel)

	ev := logger.Debug().
		Str("source", cfg.HostSource).
		Str("config", cfg.ConfigPath).
		Int("max_age_days", cfg.MaxAgeDays)
	if cfg.FileErr != nil {
		ev = ev.AnErr("config_err", cfg.FileErr)
	}
	ev.Msg("configuration resolved")

	var opts []maintenance.Option
	if cfg.AuthSecret != "" {
		opts = append(opts, maintenance.WithTokenSigner(maintenance.NewTokenSigner(cfg.AuthSecret)))
	}
	client := maintenance.NewClient(cfg.ServiceHost, cfg.Timeout, opts...)

	maintenance.Run(ctx, client, cfg.MaxAgeDays, logger)
	return nil
}
