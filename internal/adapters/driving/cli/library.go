package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/stixnav/internal/core/domain"
)

var (
	importID     string
	fetchRelease string
	fetchID      string
)

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import a STIX bundle into the library",
	Long: `Decode a STIX 2.1 ATT&CK bundle and store it in the bundle library.

The domain version ID defaults to the file name without its extension,
e.g. enterprise-attack-15.1.json is imported as enterprise-attack-15.1.
Importing an existing version replaces it.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [collection]",
	Short: "Download a published ATT&CK release into the library",
	Long: `Download a collection bundle from the mitre-attack/attack-stix-data
GitHub repository and import it.

Collections: enterprise-attack, mobile-attack, ics-attack.
Set GITHUB_TOKEN to raise the GitHub API rate limit.

Examples:
  stixnav fetch enterprise-attack
  stixnav fetch enterprise-attack --release 15.1`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List imported domain versions",
	Args:  cobra.NoArgs,
	RunE:  runDomains,
}

var removeCmd = &cobra.Command{
	Use:   "remove [version]",
	Short: "Remove a domain version from the library",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func init() {
	importCmd.Flags().StringVar(&importID, "id", "", "domain version ID (default derived from the file name)")
	fetchCmd.Flags().StringVarP(&fetchRelease, "release", "r", "", "release such as 15.1 (default latest)")
	fetchCmd.Flags().StringVar(&fetchID, "id", "", "domain version ID (default <collection>[-<release>])")
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(domainsCmd)
	rootCmd.AddCommand(removeCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	summary, err := libraryService.Import(cmd.Context(), args[0], importID)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	printImported(cmd, summary)
	return nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	cmd.Printf("Fetching %s...\n", args[0])
	summary, err := libraryService.Fetch(cmd.Context(), args[0], fetchRelease, fetchID)
	if err != nil {
		return fmt.Errorf("fetch failed: %w", err)
	}

	printImported(cmd, summary)
	return nil
}

func printImported(cmd *cobra.Command, summary *domain.DomainSummary) {
	cmd.Printf("Imported %s", summary.VersionID)
	if summary.Name != "" {
		cmd.Printf(" (%s", summary.Name)
		if summary.Version != "" {
			cmd.Printf(" v%s", summary.Version)
		}
		cmd.Print(")")
	}
	cmd.Printf(": %d techniques\n", summary.Techniques)
}

func runDomains(cmd *cobra.Command, _ []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	summaries, err := libraryService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list domains: %w", err)
	}
	if len(summaries) == 0 {
		cmd.Println("No domains imported. Use 'stixnav import <bundle.json>' to add one.")
		return nil
	}

	defaultDomain := ""
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil {
			defaultDomain = settings.Library.DefaultDomain
		}
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tNAME\tTECHNIQUES\tIMPORTED")
	for _, s := range summaries {
		id := s.VersionID
		if id == defaultDomain {
			id += " *"
		}
		techniques := "-"
		if s.Techniques > 0 {
			techniques = fmt.Sprintf("%d", s.Techniques)
		}
		imported := "-"
		if !s.ImportedAt.IsZero() {
			imported = s.ImportedAt.Local().Format(time.DateTime)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", id, s.Name, techniques, imported)
	}
	return w.Flush()
}

func runRemove(cmd *cobra.Command, args []string) error {
	if libraryService == nil {
		return errors.New("library service not configured")
	}

	versionID := args[0]
	if err := libraryService.Remove(cmd.Context(), versionID); err != nil {
		return fmt.Errorf("remove failed: %w", err)
	}

	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil && settings.Library.DefaultDomain == versionID {
			if err := settingsService.SetDefaultDomain(""); err != nil {
				return fmt.Errorf("clearing default domain: %w", err)
			}
		}
	}

	cmd.Printf("Removed %s\n", versionID)
	return nil
}
