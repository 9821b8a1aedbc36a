package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/stixnav/internal/adapters/driven/events"
	"github.com/custodia-labs/stixnav/internal/adapters/driven/stix"
	"github.com/custodia-labs/stixnav/internal/adapters/driven/viewmodel"
	"github.com/custodia-labs/stixnav/internal/adapters/driving/tui"
	"github.com/custodia-labs/stixnav/internal/adapters/driving/tui/debounce"
	"github.com/custodia-labs/stixnav/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/stixnav/internal/core/domain"
	"github.com/custodia-labs/stixnav/internal/core/services"
	"github.com/custodia-labs/stixnav/internal/logger"
)

var (
	tuiDomain string
	tuiBundle string
	tuiWatch  bool
	tuiLog    string
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive search and multi-select view.

Typing updates six result panels after a short debounce. Selecting a group,
software, mitigation, campaign or data component selects every technique it
relates to; moving the cursor over one highlights them.

Controls:
  /, Esc          - Focus the search input
  Enter, ↓        - Focus the result panels
  ↑/k, ↓/j        - Move within a panel
  Tab, Shift+Tab  - Next / previous expanded panel
  1-6             - Expand or collapse a panel
  F1-F4           - Toggle name, ATT&CK ID, description, data sources
  Space, x        - Select / deselect the current row
  a, A            - Select / deselect every row of the panel
  q, Ctrl+C       - Quit

Use --bundle to open a bundle file without importing it, and --watch to
reload it whenever the file changes.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVarP(&tuiDomain, "domain", "d", "", "domain version ID")
	tuiCmd.Flags().StringVarP(&tuiBundle, "bundle", "b", "", "open a bundle file instead of the library")
	tuiCmd.Flags().BoolVarP(&tuiWatch, "watch", "w", false, "reload --bundle when the file changes")
	tuiCmd.Flags().StringVar(&tuiLog, "log-file", "stixnav-debug.log", "debug log file used with --verbose")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("tui requires an interactive terminal")
	}
	if tuiWatch && tuiBundle == "" {
		return errors.New("--watch requires --bundle")
	}
	if domainStore == nil || relationResolver == nil {
		return errors.New("domain store not configured")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	versionID, err := tuiDomainVersion(ctx)
	if err != nil {
		return err
	}

	// Logging to the terminal would corrupt the alt screen.
	if verbose {
		f, err := tea.LogToFile(tuiLog, "stixnav")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		logger.SetOutput(f)
		defer logger.SetOutput(os.Stderr)
	}

	session, err := newTUISession(versionID)
	if err != nil {
		return err
	}

	app, err := tui.NewApp(session.ports())
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx)

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))

	// Mutations run inside Update, so Send must not block it.
	unsubscribe := session.notifier.Subscribe(func() {
		go p.Send(messages.SelectionChanged{})
	})
	defer unsubscribe()

	if tuiWatch {
		watcher, err := stix.NewWatcher(tuiBundle, versionID, bundleDecoder, domainStore)
		if err != nil {
			return fmt.Errorf("watching bundle: %w", err)
		}
		defer watcher.Close()
		watcher.OnReload(func(_ *domain.Domain, err error) {
			p.Send(messages.DomainReloaded{Err: err})
		})
		go func() {
			if err := watcher.Run(ctx); err != nil {
				logger.Warn("bundle watcher stopped: %v", err)
			}
		}()
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// tuiDomainVersion loads --bundle when given, otherwise resolves a library domain.
func tuiDomainVersion(ctx context.Context) (string, error) {
	if tuiBundle == "" {
		return resolveDomain(ctx, tuiDomain)
	}
	if libraryService == nil {
		return "", errors.New("library service not configured")
	}

	versionID := tuiDomain
	if versionID == "" {
		versionID = services.VersionIDFromPath(tuiBundle)
	}
	if _, err := libraryService.LoadFile(ctx, tuiBundle, versionID); err != nil {
		return "", fmt.Errorf("opening bundle: %w", err)
	}
	return versionID, nil
}

// tuiSession holds the per-view state of one TUI run.
type tuiSession struct {
	viewModel  *viewmodel.ViewModel
	notifier   *events.Broadcaster
	ticker     *debounce.TickScheduler
	controller *services.QueryController
	selection  *services.SelectionService
}

func newTUISession(versionID string) (*tuiSession, error) {
	s := &tuiSession{
		viewModel: viewmodel.New(versionID),
		notifier:  events.NewBroadcaster(),
		ticker:    debounce.NewTickScheduler(),
	}
	s.selection = services.NewSelectionService(relationResolver, s.viewModel, s.notifier)
	s.controller = services.NewQueryController(domainStore, s.viewModel, s.ticker)

	if settingsService != nil {
		settings, err := settingsService.Get()
		if err != nil {
			return nil, fmt.Errorf("failed to get settings: %w", err)
		}
		s.controller.WithDebounce(settings.Search.Debounce).WithFields(settings.Search.Fields())
	}

	if err := s.controller.Reload(); err != nil {
		return nil, fmt.Errorf("loading %s: %w", versionID, err)
	}
	logger.Debug("tui session %s on %s", s.viewModel.ID(), versionID)
	return s, nil
}

func (s *tuiSession) ports() *tui.Ports {
	return &tui.Ports{
		Query:         s.controller,
		Selection:     s.selection,
		Ticker:        s.ticker,
		Marker:        s.viewModel,
		DomainVersion: s.viewModel.DomainVersionID(),
	}
}
