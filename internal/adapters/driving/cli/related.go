package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/stixnav/internal/adapters/driven/viewmodel"
	"github.com/custodia-labs/stixnav/internal/adapters/driving/mcp"
	"github.com/custodia-labs/stixnav/internal/core/domain"
	"github.com/custodia-labs/stixnav/internal/core/services"
)

var (
	relatedDomain string
	relatedJSON   bool
)

var relatedCmd = &cobra.Command{
	Use:   "related [object]",
	Short: "List the techniques an object relates to",
	Long: `Resolves a threat group, software, mitigation or campaign by STIX ID,
ATT&CK ID or exact name and lists the techniques it relates to.

Examples:
  stixnav related G0007
  stixnav related "Operation Dream Job" --json`,
	Args: cobra.ExactArgs(1),
	RunE: runRelated,
}

func init() {
	relatedCmd.Flags().StringVarP(&relatedDomain, "domain", "d", "", "domain version ID")
	relatedCmd.Flags().BoolVar(&relatedJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(relatedCmd)
}

func runRelated(cmd *cobra.Command, args []string) error {
	if relationResolver == nil {
		return errors.New("relation service not configured")
	}

	versionID, err := resolveDomain(cmd.Context(), relatedDomain)
	if err != nil {
		return err
	}

	obj, techniques, err := relationResolver.RelatedTechniques(cmd.Context(), versionID, args[0])
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}

	if relatedJSON {
		return outputJSON(cmd, mcp.NewRelatedOutput(obj, techniques))
	}

	base := obj.Base()
	if len(techniques) == 0 {
		cmd.Printf("%s (%s) relates to no techniques.\n", base.Name, base.AttackID)
		return nil
	}
	cmd.Printf("%s (%s) relates to %d techniques\n", base.Name, base.AttackID, len(techniques))
	for _, t := range techniques {
		cmd.Printf("  %s\n", techniqueLine(t))
	}

	// Select the object into a scratch view to show its matrix footprint.
	vm := viewmodel.New(versionID)
	services.NewSelectionService(relationResolver, vm, nil).Select(obj)

	tactics := tacticOrder(techniques)
	if len(tactics) == 0 {
		return nil
	}
	cmd.Println()
	cmd.Printf("Selected %d techniques by tactic\n", vm.SelectedCount())
	for _, tactic := range tactics {
		var ids []string
		for _, t := range techniques {
			if vm.IsSelectedIn(t, tactic) {
				ids = append(ids, t.AttackID)
			}
		}
		cmd.Printf("  %-22s %s\n", tactic, strings.Join(ids, ", "))
	}
	return nil
}

// tacticOrder returns the tactics of techniques in first-seen order.
func tacticOrder(techniques []*domain.Technique) []string {
	var order []string
	seen := make(map[string]bool)
	for _, t := range techniques {
		for _, tactic := range t.Tactics {
			if !seen[tactic] {
				seen[tactic] = true
				order = append(order, tactic)
			}
		}
	}
	return order
}
