// Package cli provides the cobra command tree for stixnav.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/stixnav/internal/core/ports/driven"
	"github.com/custodia-labs/stixnav/internal/core/ports/driving"
	"github.com/custodia-labs/stixnav/internal/core/services"
	"github.com/custodia-labs/stixnav/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Persistent flags.
var (
	verbose   bool
	configDir string
	dataDir   string
)

// Services wired by main.
var (
	searchService    driving.SearchService
	libraryService   driving.LibraryService
	relationResolver *services.RelationshipResolver
	settingsService  driving.SettingsService
	domainStore      driven.DomainStore
	bundleDecoder    driven.BundleDecoder
	closeServices    func() error
)

// errNoDomain is returned when no domain version can be resolved.
var errNoDomain = errors.New(
	"no domain version: pass --domain, set one with 'stixnav settings default-domain', or import a bundle",
)

// Config carries the persistent flag values a service factory needs.
type Config struct {
	ConfigDir string
	DataDir   string
	Verbose   bool
}

// Services holds the core services the commands run against.
type Services struct {
	Search    driving.SearchService
	Library   driving.LibraryService
	Relations *services.RelationshipResolver
	Settings  driving.SettingsService
	Domains   driven.DomainStore
	Decoder   driven.BundleDecoder

	// Close releases storage. Optional.
	Close func() error
}

// ServiceFactory builds services once flags are parsed.
type ServiceFactory func(cfg Config) (*Services, error)

var serviceFactory ServiceFactory

var rootCmd = &cobra.Command{
	Use:   "stixnav",
	Short: "Search and select MITRE ATT&CK techniques",
	Long: `stixnav searches STIX 2.1 ATT&CK bundles and propagates selections
from groups, software, mitigations, campaigns and data components onto the
techniques they relate to.

Import a bundle once, then search it from the command line, the interactive
TUI, or an MCP-compatible AI assistant.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.stixnav)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "bundle library directory (default ~/.stixnav/data)")
}

// Execute runs the root command. Cancelling ctx stops long-running commands.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if closeServices != nil {
		if cerr := closeServices(); cerr != nil {
			logger.Warn("closing services: %v", cerr)
		}
		closeServices = nil
	}
	return err
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// SetServices injects services directly, bypassing the factory.
func SetServices(s *Services) {
	if s == nil {
		searchService = nil
		libraryService = nil
		relationResolver = nil
		settingsService = nil
		domainStore = nil
		bundleDecoder = nil
		closeServices = nil
		return
	}
	searchService = s.Search
	libraryService = s.Library
	relationResolver = s.Relations
	settingsService = s.Settings
	domainStore = s.Domains
	bundleDecoder = s.Decoder
	closeServices = s.Close
}

// SetServiceFactory registers the factory run before any command.
func SetServiceFactory(f ServiceFactory) {
	serviceFactory = f
}

func setupServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if serviceFactory == nil {
		return nil
	}

	s, err := serviceFactory(Config{ConfigDir: configDir, DataDir: dataDir, Verbose: verbose})
	if err != nil {
		return fmt.Errorf("initialising services: %w", err)
	}
	SetServices(s)
	return nil
}

// resolveDomain picks the domain version a command targets: the flag, then
// the configured default, then the only bundle in the library. The version
// is loaded from the library when the domain store does not hold it yet.
func resolveDomain(ctx context.Context, versionID string) (string, error) {
	if versionID == "" && settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			versionID = settings.Library.DefaultDomain
		}
	}
	if versionID == "" && libraryService != nil {
		summaries, err := libraryService.List(ctx)
		if err != nil {
			return "", fmt.Errorf("listing domains: %w", err)
		}
		if len(summaries) == 1 {
			versionID = summaries[0].VersionID
		}
	}
	if versionID == "" {
		return "", errNoDomain
	}

	if domainStore != nil {
		if _, err := domainStore.Domain(versionID); err == nil {
			return versionID, nil
		}
	}
	if libraryService != nil {
		if _, err := libraryService.Load(ctx, versionID); err != nil {
			return "", fmt.Errorf("loading domain: %w", err)
		}
	}
	return versionID, nil
}
