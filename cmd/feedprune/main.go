package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/feedprune/feedprune/internal/audit/common/clock"
	"github.com/feedprune/feedprune/internal/audit/common/log"
	"github.com/feedprune/feedprune/internal/audit/config"
	"github.com/feedprune/feedprune/internal/audit/gateways/fetch"
	"github.com/feedprune/feedprune/internal/audit/repos/apexcache"
	"github.com/feedprune/feedprune/internal/audit/repos/listcache"
	"github.com/feedprune/feedprune/internal/audit/repos/prune"
	"github.com/feedprune/feedprune/internal/audit/repos/report"
	"github.com/feedprune/feedprune/internal/audit/repos/sources"
	"github.com/feedprune/feedprune/internal/audit/services/auditor"
)

const (
	version = "0.1.0-dev"
	appName = "feedprune"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Configure global logging
	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"version":      version,
		"env":          cfg.Env,
		"log_level":    cfg.LogLevel,
		"sources_file": cfg.SourcesFile,
		"report_file":  cfg.ReportFile,
		"workers":      cfg.Workers,
		"cache_path":   cfg.CachePath,
	}, "Starting feedprune audit")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout); err != nil {
		log.Fatal(map[string]any{"error": err}, "Audit failed")
	}
}

// run executes one full audit: load sources, process them, persist the
// JSON snapshot, render the console summary.
func run(ctx context.Context, cfg *config.AppConfig, out io.Writer) error {
	aud, cleanup, err := buildAuditor(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	// A missing or undecodable source list degrades to an empty run
	// rather than failing it.
	srcs, err := sources.Load(cfg.SourcesFile, log.GetLogger())
	if err != nil {
		log.Warn(map[string]any{"path": cfg.SourcesFile, "error": err.Error()},
			"Failed to load source list, auditing nothing")
		srcs = nil
	}
	if len(srcs) == 0 {
		log.Warn(map[string]any{"path": cfg.SourcesFile}, "No sources to audit")
	}

	rep := aud.Run(ctx, srcs)

	if err := report.WriteJSON(rep, cfg.ReportFile); err != nil {
		return fmt.Errorf("failed to persist report: %w", err)
	}
	report.Render(out, rep)

	log.Info(map[string]any{
		"sources": len(srcs),
		"report":  cfg.ReportFile,
	}, "Audit complete")
	return nil
}

// buildAuditor constructs the auditor and all its collaborators. The
// returned cleanup closes the list cache when one is configured.
func buildAuditor(cfg *config.AppConfig) (*auditor.Auditor, func(), error) {
	fetcher := fetch.New(time.Duration(cfg.FetchTimeoutSeconds) * time.Second)

	var cache auditor.ListCache
	cleanup := func() {}
	if cfg.CachePath != "" {
		store, err := listcache.Open(cfg.CachePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open list cache: %w", err)
		}
		cache = store
		cleanup = func() {
			if err := store.Close(); err != nil {
				log.Warn(map[string]any{"error": err.Error()}, "Error closing list cache")
			}
		}
		log.Info(map[string]any{"path": cfg.CachePath, "entries": store.Len()}, "List cache opened")
	}

	apex, err := apexcache.New(cfg.ApexCacheSize)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("failed to create apex cache: %w", err)
	}

	aud := auditor.New(auditor.Options{
		Fetcher: fetcher,
		Cache:   cache,
		Pruner:  prune.New(cfg.BloomFPRate),
		Apex:    apex,
		Clock:   clock.RealClock{},
		Logger:  log.GetLogger(),
		Workers: cfg.Workers,
	})
	return aud, cleanup, nil
}
