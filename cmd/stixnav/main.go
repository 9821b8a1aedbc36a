// Command stixnav searches MITRE ATT&CK STIX bundles from the terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/custodia-labs/stixnav/internal/adapters/driven/config/file"
	"github.com/custodia-labs/stixnav/internal/adapters/driven/cti"
	"github.com/custodia-labs/stixnav/internal/adapters/driven/stix"
	"github.com/custodia-labs/stixnav/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/stixnav/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/stixnav/internal/adapters/driving/cli"
	"github.com/custodia-labs/stixnav/internal/core/services"
	"github.com/custodia-labs/stixnav/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cli.SetVersion(version)
	cli.SetServiceFactory(newServices)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.Execute(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newServices(cfg cli.Config) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(cfg.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("config store: %w", err)
	}

	bundles, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("bundle library: %w", err)
	}
	logger.Debug("bundle library at %s", bundles.Path())

	domains := memory.NewDomainStore()
	decoder := stix.NewDecoder()
	fetcher := cti.NewFetcher(context.Background(), os.Getenv("GITHUB_TOKEN"))

	return &cli.Services{
		Search:    services.NewSearchService(domains),
		Library:   services.NewLibraryService(decoder, bundles, domains).WithFetcher(fetcher),
		Relations: services.NewRelationshipResolver(domains),
		Settings:  services.NewSettingsService(configStore),
		Domains:   domains,
		Decoder:   decoder,
		Close:     bundles.Close,
	}, nil
}
