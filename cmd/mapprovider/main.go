// mapprovider matches one external data provider's records (or all of them)
// against the resolved security master and writes the match, crosswalk, and
// unmatched tables.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"esgmap/internal/config"
	"esgmap/internal/exporter"
	"esgmap/internal/infrastructure"
	"esgmap/internal/master"
	"esgmap/internal/match"
	"esgmap/internal/providers"
	"esgmap/pkg/contracts"
	"esgmap/pkg/contracts/domain"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file (optional)")
	providerName := flag.String("provider", "all", "provider to map (refinitiv, msci, fmp, or all)")
	inputPath := flag.String("input", "", "provider input path (single-provider runs only; defaults to the provider's conventional location under <raw>)")
	flag.Parse()

	if err := run(*configPath, *providerName, *inputPath); err != nil {
		slog.Error("provider mapping failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(configPath, providerName, inputPath string) error {
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

	logger.InfoContext(ctx, "starting provider mapping run",
		slog.String("version", contracts.VersionString()),
		slog.String("provider", providerName))

	resolved, err := master.LoadResolvedSegments(ctx, paths.SegmentsFile(), logger)
	if err != nil {
		return err
	}

	registry := providers.NewRegistry(logger)
	engine := match.NewEngine(
		match.NewScoreConfig(cfg.Resolution.PreferredExchanges, cfg.Resolution.OverlapYearCap),
		logger)

	if providerName != "all" {
		provider, err := registry.Get(providerName)
		if err != nil {
			return err
		}
		if inputPath == "" {
			inputPath = defaultInput(paths, providerName)
		}
		return mapProvider(ctx, logger, engine, paths, provider, inputPath, resolved)
	}

	if inputPath != "" {
		return fmt.Errorf("-input applies to single-provider runs; rerun with -provider <name>")
	}

	// Providers share only the immutable master, so they can run together.
	group, groupCtx := errgroup.WithContext(ctx)
	for _, provider := range registry.All() {
		provider := provider
		group.Go(func() error {
			return mapProvider(groupCtx, logger, engine, paths, provider,
				defaultInput(paths, provider.Name()), resolved)
		})
	}
	return group.Wait()
}

// defaultInput returns a provider's conventional input location under the
// raw data directory.
func defaultInput(paths *config.Paths, provider string) string {
	switch provider {
	case "msci":
		// Directory of yearly workbooks.
		return filepath.Join(paths.RawDir, "msci")
	case "fmp":
		return filepath.Join(paths.RawDir, "fmp_esg_scores.json")
	default:
		return filepath.Join(paths.RawDir, provider+"_esg.csv")
	}
}

func mapProvider(ctx context.Context, logger *slog.Logger, engine *match.Engine,
	paths *config.Paths, provider match.Provider, inputPath string,
	resolved []domain.ResolvedSegment) error {

	name := provider.Name()
	logger.InfoContext(ctx, "starting provider mapping",
		slog.String("provider", name),
		slog.String("input", inputPath))

	records, err := provider.Load(ctx, inputPath)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	result, err := engine.Match(ctx, name, records, resolved, provider.Strategies())
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	if result.Coverage.Rate() < 50 {
		logger.WarnContext(ctx, "low match coverage",
			slog.String("provider", name),
			slog.String("match_rate", fmt.Sprintf("%.1f%%", result.Coverage.Rate())))
	}

	crosswalk := match.Aggregate(result.Matches)

	export := exporter.NewMappingExporter(logger)
	if err := export.WriteMatches(paths.MatchFile(name), result.Matches); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := export.WriteCrosswalk(paths.CrosswalkFile(name), crosswalk); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := export.WriteUnmatched(paths.UnmatchedFile(name), result.Unmatched); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	logger.InfoContext(ctx, "provider mapping complete",
		slog.String("provider", name),
		slog.Int("matches", len(result.Matches)),
		slog.Int("crosswalk_entries", len(crosswalk)),
		slog.Int("unmatched", len(result.Unmatched)),
		slog.String("match_file", paths.MatchFile(name)))

	return nil
}
