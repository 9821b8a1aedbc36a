package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/stixnav/internal/adapters/driving/mcp"
	"github.com/custodia-labs/stixnav/internal/core/domain"
)

var (
	searchDomain string
	searchFields []string
	searchJSON   bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search an ATT&CK domain",
	Long: `Searches techniques, threat groups, software, mitigations, campaigns and
data components of a domain version.

Matching is a case-insensitive substring match against the enabled fields:
name, attackID, description and datasources.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchDomain, "domain", "d", "", "domain version ID")
	searchCmd.Flags().StringSliceVarP(&searchFields, "fields", "f", nil,
		"fields to match (name, attackID, description, datasources)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	fields, err := searchFieldList()
	if err != nil {
		return err
	}

	versionID, err := resolveDomain(cmd.Context(), searchDomain)
	if err != nil {
		return err
	}

	results, err := searchService.Search(cmd.Context(), versionID, query, fields)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputJSON(cmd, mcp.NewSearchOutput(versionID, query, results))
	}

	return outputSearchTable(cmd, results)
}

// searchFieldList applies --fields, falling back to the configured fields.
func searchFieldList() ([]domain.SearchField, error) {
	if len(searchFields) > 0 {
		return domain.ParseFields(searchFields)
	}
	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return nil, fmt.Errorf("failed to get settings: %w", err)
		}
		return settings.Search.Fields(), nil
	}
	return domain.DefaultSearchFields(), nil
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := mcp.EncodeJSON(v)
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results *domain.Results) error {
	if results.Empty() {
		cmd.Println("No results found.")
		return nil
	}

	if len(results.Techniques) > 0 {
		cmd.Printf("Techniques (%d)\n", len(results.Techniques))
		for _, t := range results.Techniques {
			cmd.Printf("  %s\n", techniqueLine(t))
		}
		cmd.Println()
	}

	for _, g := range results.Groups {
		if len(g.Objects) == 0 {
			continue
		}
		cmd.Printf("%s (%d)\n", titleCase(g.Label), len(g.Objects))
		for _, o := range g.Objects {
			cmd.Printf("  %-8s %s\n", o.Base().AttackID, o.Base().Name)
		}
		cmd.Println()
	}

	if len(results.DataComponentLabels) > 0 {
		cmd.Printf("Data Components (%d)\n", len(results.DataComponentLabels))
		for _, label := range results.DataComponentLabels {
			n := len(results.DataComponents[label].Techniques)
			cmd.Printf("  %s (%d techniques)\n", label, n)
		}
		cmd.Println()
	}

	return nil
}

// techniqueLine renders "T1566.001 Phishing: Spearphishing Attachment [initial-access]".
func techniqueLine(t *domain.Technique) string {
	name := t.Name
	if t.IsSubtechnique && t.Parent != nil {
		name = t.Parent.Name + ": " + t.Name
	}
	line := fmt.Sprintf("%-10s %s", t.AttackID, name)
	if len(t.Tactics) > 0 {
		line += " [" + strings.Join(t.Tactics, ", ") + "]"
	}
	return line
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
