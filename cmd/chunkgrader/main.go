// Command chunkgrader serves chunks from a document chunking run for
// human review and tracks coverage.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	configfile "github.com/terrafusion/chunkgrader/internal/adapters/driven/config/file"
	"github.com/terrafusion/chunkgrader/internal/adapters/driven/storage/sqlite"
	"github.com/terrafusion/chunkgrader/internal/adapters/driving/cli"
	"github.com/terrafusion/chunkgrader/internal/core/domain"
	"github.com/terrafusion/chunkgrader/internal/core/ports/driven"
	"github.com/terrafusion/chunkgrader/internal/core/services"
	"github.com/terrafusion/chunkgrader/internal/links"
	"github.com/terrafusion/chunkgrader/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// envConfig holds environment overrides. Everything here also has a
// config-file or flag equivalent; the environment wins.
type envConfig struct {
	DataDir   string `env:"CHUNKGRADER_DATA_DIR"`
	ConfigDir string `env:"CHUNKGRADER_CONFIG_DIR"`
	RunID     string `env:"CHUNKGRADER_RUN_ID"`
	DriveMap  string `env:"CHUNKGRADER_DRIVE_MAP"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A .env file is optional; absence is not an error
	_ = godotenv.Load()

	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}

	configStore, err := configfile.NewConfigStore(cfg.ConfigDir)
	if err != nil {
		return fmt.Errorf("opening config: %w", err)
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	// Pick up config edits made while the review session is running
	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	go func() {
		if err := configStore.Watch(watchCtx); err != nil && watchCtx.Err() == nil {
			logger.Warn("config watcher stopped: %v", err)
		}
	}()

	var scope driven.ScopeProvider = configfile.NewScopeProvider(configStore)
	if cfg.RunID != "" {
		runScope := domain.Filters{"chunking_run_id": cfg.RunID}
		scope = driven.ScopeFunc(func() domain.Filters { return runScope })
	}

	var linkMap *links.Map
	mapPath := cfg.DriveMap
	if mapPath == "" {
		mapPath = configStore.GetString("links.drive_map")
	}
	if mapPath != "" {
		linkMap, err = links.LoadMap(mapPath, configStore.GetString("links.prefix"))
		if err != nil {
			// Reviews work without document links
			logger.Warn("drive map unavailable: %v", err)
			linkMap = nil
		}
	}

	chunkStore := store.ChunkStore()
	reviewStore := store.ReviewStore()

	cli.SetVersion(version)
	cli.Initialize(cli.Services{
		Selection: services.NewSelectionService(chunkStore, reviewStore, scope),
		Review:    services.NewReviewService(reviewStore),
		Stats:     services.NewStatsService(chunkStore, reviewStore, scope),
		Import:    services.NewImportService(chunkStore),
		Links:     linkMap,
	})

	return cli.Execute()
}
