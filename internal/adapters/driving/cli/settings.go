package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure search settings and the default domain.

Use subcommands to change individual settings.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsDebounceCmd = &cobra.Command{
	Use:   "debounce [delay]",
	Short: "Set the query debounce delay",
	Long: `Set the delay between the last keystroke and query evaluation in the TUI.

The delay is a duration such as 300ms or 1s; a bare number is read as
milliseconds.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsDebounce,
}

var settingsFieldsCmd = &cobra.Command{
	Use:   "fields [field...]",
	Short: "Set the fields enabled at startup",
	Long: `Set the search fields enabled when a search starts.

Available fields:
  name         - Object name
  attackID     - ATT&CK ID such as T1566 or G0007
  description  - Description text
  datasources  - Data sources of techniques`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSettingsFields,
}

var settingsDefaultDomainCmd = &cobra.Command{
	Use:   "default-domain [version]",
	Short: "Set or clear the default domain version",
	Long:  `Set the domain version used when --domain is not given. Run without arguments to clear it.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSettingsDefaultDomain,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsDebounceCmd)
	settingsCmd.AddCommand(settingsFieldsCmd)
	settingsCmd.AddCommand(settingsDefaultDomainCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Search]")
	cmd.Printf("  Debounce: %s\n", settings.Search.Debounce)
	var enabled []string
	for _, f := range settings.Search.Fields() {
		if f.Enabled {
			enabled = append(enabled, f.Field)
		}
	}
	if len(enabled) == 0 {
		cmd.Println("  Fields: (none)")
	} else {
		cmd.Printf("  Fields: %s\n", strings.Join(enabled, ", "))
	}
	cmd.Println()

	cmd.Println("[Library]")
	if settings.Library.DefaultDomain != "" {
		cmd.Printf("  Default domain: %s\n", settings.Library.DefaultDomain)
	} else {
		cmd.Println("  Default domain: (not set)")
	}

	return nil
}

func runSettingsDebounce(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	d, err := parseDelay(args[0])
	if err != nil {
		return err
	}
	if err := settingsService.SetDebounce(d); err != nil {
		return fmt.Errorf("failed to set debounce: %w", err)
	}

	cmd.Printf("Debounce set to %s\n", d)
	return nil
}

func runSettingsFields(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.SetEnabledFields(args); err != nil {
		return fmt.Errorf("failed to set fields: %w", err)
	}

	cmd.Printf("Search fields set to %s\n", strings.Join(args, ", "))
	return nil
}

func runSettingsDefaultDomain(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	versionID := ""
	if len(args) == 1 {
		versionID = args[0]
	}
	if err := settingsService.SetDefaultDomain(versionID); err != nil {
		return fmt.Errorf("failed to set default domain: %w", err)
	}

	if versionID == "" {
		cmd.Println("Default domain cleared")
	} else {
		cmd.Printf("Default domain set to %s\n", versionID)
	}
	return nil
}

// parseDelay reads a duration, or a bare number of milliseconds.
func parseDelay(s string) (time.Duration, error) {
	if ms, err := strconv.Atoi(s); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid delay %q: use a duration like 300ms", s)
	}
	return d, nil
}
