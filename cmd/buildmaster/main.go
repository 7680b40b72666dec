// buildmaster resolves the raw identity segments and ownership links into
// the temporal security master: the resolved segment table and the
// entity-to-primary-security table.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"esgmap/internal/config"
	"esgmap/internal/exporter"
	"esgmap/internal/files"
	"esgmap/internal/infrastructure"
	"esgmap/internal/master"
	"esgmap/pkg/contracts"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	segmentsPath := flag.String("segments", "", "raw identity segment CSV (defaults to <raw>/security_segments.csv)")
	linksPath := flag.String("links", "", "raw ownership link CSV (defaults to <raw>/entity_links.csv)")
	flag.Parse()

	if err := run(*configPath, *segmentsPath, *linksPath); err != nil {
		slog.Error("security master build failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(configPath, segmentsPath, linksPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return err
	}

	ctx := infrastructure.WithRunID(context.Background(), infrastructure.NewRunID())

	paths := config.NewPaths(cfg.Paths)
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}

	if segmentsPath == "" {
		segmentsPath = filepath.Join(paths.RawDir, "security_segments.csv")
	}
	if linksPath == "" {
		linksPath = filepath.Join(paths.RawDir, "entity_links.csv")
	}

	manager := files.NewManager(paths.DataDir)
	for _, input := range []string{segmentsPath, linksPath} {
		if err := manager.RequireInput(input); err != nil {
			return err
		}
	}

	farFuture, err := cfg.Resolution.FarFuture()
	if err != nil {
		return err
	}
	earlyPast, err := cfg.Resolution.EarlyPast()
	if err != nil {
		return err
	}
	sentinels := master.Sentinels{FarFuture: farFuture, EarlyPast: earlyPast}

	logger.InfoContext(ctx, "starting security master build",
		slog.String("version", contracts.VersionString()),
		slog.String("segments", segmentsPath),
		slog.String("links", linksPath),
		slog.String("output_dir", paths.MasterDir))

	segments, err := master.LoadSegments(ctx, segmentsPath, sentinels, logger)
	if err != nil {
		return err
	}
	links, _, err := master.LoadLinks(ctx, linksPath, sentinels, logger)
	if err != nil {
		return err
	}

	resolved, stats, err := master.NewResolver(logger).Resolve(ctx, segments, links)
	if err != nil {
		return err
	}

	primaries, err := master.NewPrimarySelector(logger).Select(ctx, resolved)
	if err != nil {
		return err
	}

	// Sanity summary: what a reviewer checks before trusting the output.
	negativeSpans := 0
	linked := 0
	for _, seg := range resolved {
		if seg.ValidTo.Before(seg.ValidFrom) {
			negativeSpans++
		}
		if seg.HasLink() {
			linked++
		}
	}
	logger.InfoContext(ctx, "security master summary",
		slog.Int("segments", len(resolved)),
		slog.Int("linked_segments", linked),
		slog.Int("unlinked_segments", len(resolved)-linked),
		slog.Int("entities_with_primary", len(primaries)),
		slog.Int("duplicate_segments_dropped", stats.DuplicateSegments),
		slog.Int("negative_spans", negativeSpans))

	export := exporter.NewMasterExporter(logger)
	if err := export.WriteSegments(paths.SegmentsFile(), resolved); err != nil {
		return err
	}
	if err := export.WritePrimaries(paths.PrimaryFile(), primaries); err != nil {
		return err
	}

	logger.InfoContext(ctx, "security master build complete",
		slog.String("segments_file", paths.SegmentsFile()),
		slog.String("primary_file", paths.PrimaryFile()))

	return nil
}
