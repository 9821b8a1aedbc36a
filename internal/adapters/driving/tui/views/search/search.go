// Package search provides the search and multi-select view for the TUI.
package search

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/stixnav/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/stixnav/internal/adapters/driving/tui/components/panel"
	"github.com/custodia-labs/stixnav/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/stixnav/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/stixnav/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/stixnav/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/stixnav/internal/core/domain"
	"github.com/custodia-labs/stixnav/internal/core/ports/driving"
)

// Ticker turns a scheduled debounce into a Bubbletea command.
type Ticker interface {
	// Tick returns the command for the pending debounce, or nil.
	Tick() tea.Cmd

	// Fire runs the pending debounce callback.
	Fire() bool
}

// Marker exposes the selection state the view renders.
type Marker interface {
	panel.Marker
	SelectedCount() int
}

// View is the search view: query input, six result panels and a status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	panels    [domain.PanelCount]*panel.Panel
	statusbar *status.Bar

	controller driving.QueryController
	selection  driving.SelectionService
	ticker     Ticker
	marker     Marker

	focus  messages.Focus
	active domain.Panel
	width  int
	height int
	ready  bool
	err    error

	lastErr error
}

// NewView creates a search view over a query controller and a selection service.
// marker may be nil, in which case rows carry no selection marks.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	controller driving.QueryController,
	selection driving.SelectionService,
	ticker Ticker,
	marker Marker,
) (*View, error) {
	if controller == nil {
		return nil, ErrNoQueryController
	}
	if selection == nil {
		return nil, ErrNoSelectionService
	}
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	v := &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQueryInput(s),
		statusbar:  status.NewBar(s, km),
		controller: controller,
		selection:  selection,
		ticker:     ticker,
		marker:     marker,
		focus:      messages.FocusInput,
		width:      80,
		height:     24,
	}
	var pm panel.Marker
	if marker != nil {
		pm = marker
	}
	for i := range v.panels {
		v.panels[i] = panel.New(domain.Panel(i), s, pm)
	}
	controller.OnEvaluated(func(_ domain.SearchPass, err error) {
		v.lastErr = err
	})
	v.refresh()
	return v, nil
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DebounceElapsed:
		if v.ticker != nil {
			v.ticker.Fire()
		}
		v.setError(v.lastErr)
		v.refresh()
		return v, nil

	case messages.SelectionChanged:
		v.refreshSelection()
		return v, nil

	case messages.DomainReloaded:
		if msg.Err != nil {
			v.setError(msg.Err)
			return v, nil
		}
		err := v.controller.Reload()
		v.setError(err)
		v.refresh()
		if err == nil {
			v.statusbar.SetMessage("domain reloaded")
		}
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	keyStr := msg.String()

	if i := keymap.Index(keyStr, v.keymap.Fields); i >= 0 {
		v.toggleField(i)
		return v, nil
	}

	if v.focus == messages.FocusInput {
		return v.handleInputKey(msg)
	}
	return v.handlePanelKey(keyStr)
}

func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if keymap.Matches(msg.String(), v.keymap.Results) {
		v.focusPanels()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)

	query := v.input.Value()
	if query == v.controller.Query() {
		return v, cmd
	}
	if v.controller.SetQuery(query) && v.ticker != nil {
		v.statusbar.SetState(status.StatePending)
		return v, tea.Batch(cmd, v.ticker.Tick())
	}
	return v, cmd
}

func (v *View) handlePanelKey(keyStr string) (*View, tea.Cmd) {
	km := v.keymap
	p := v.panels[v.active]

	if i := keymap.Index(keyStr, km.Panels); i >= 0 {
		v.controller.TogglePanel(domain.Panel(i))
		v.refresh()
		return v, nil
	}

	switch {
	case keymap.Matches(keyStr, km.Quit):
		return v, tea.Quit
	case keymap.Matches(keyStr, km.Input):
		v.focusInput()
	case keymap.Matches(keyStr, km.Up):
		p.MoveUp()
		v.hover()
	case keymap.Matches(keyStr, km.Down):
		p.MoveDown()
		v.hover()
	case keymap.Matches(keyStr, km.NextPanel):
		v.cycle(1)
	case keymap.Matches(keyStr, km.PrevPanel):
		v.cycle(-1)
	case keymap.Matches(keyStr, km.Select):
		if item, ok := p.Current(); ok {
			v.apply(item.Targets, v.selection.Select, v.selection.SelectAll)
		}
	case keymap.Matches(keyStr, km.Deselect):
		if item, ok := p.Current(); ok {
			v.apply(item.Targets, v.selection.Deselect, v.selection.DeselectAll)
		}
	case keymap.Matches(keyStr, km.SelectAll):
		v.selection.SelectAll(p.Targets())
		v.refreshSelection()
	case keymap.Matches(keyStr, km.DeselectAll):
		v.selection.DeselectAll(p.Targets())
		v.refreshSelection()
	}
	return v, nil
}

func (v *View) apply(targets []domain.StixObject, one func(domain.StixObject), many func([]domain.StixObject)) {
	if len(targets) == 1 {
		one(targets[0])
	} else {
		many(targets)
	}
	v.refreshSelection()
}

func (v *View) toggleField(i int) {
	fields := v.controller.Fields()
	if i >= len(fields) {
		return
	}
	v.setError(v.controller.ToggleField(fields[i].Field))
	v.refresh()
}

// hover highlights whatever the row under the cursor stands for.
func (v *View) hover() {
	v.selection.MouseLeave()
	item, ok := v.panels[v.active].Current()
	if !ok {
		return
	}
	if item.Object != nil {
		v.selection.MouseEnter(item.Object)
		return
	}
	techniques := make([]*domain.Technique, 0, len(item.Targets))
	for _, target := range item.Targets {
		if t, ok := target.(*domain.Technique); ok {
			techniques = append(techniques, t)
		}
	}
	v.selection.MouseEnterAll(techniques)
}

func (v *View) focusPanels() {
	first, ok := v.nextExpanded(v.active, 0)
	if !ok {
		v.statusbar.SetMessage("no expanded panels")
		return
	}
	v.focus = messages.FocusPanels
	v.setActive(first)
	v.input.Blur()
	v.statusbar.Update(messages.FocusChanged{Focus: v.focus})
}

func (v *View) focusInput() {
	v.focus = messages.FocusInput
	v.panels[v.active].SetFocused(false)
	v.selection.MouseLeave()
	v.input.Focus()
	v.statusbar.Update(messages.FocusChanged{Focus: v.focus})
}

func (v *View) cycle(step int) {
	if next, ok := v.nextExpanded(v.active, step); ok {
		v.setActive(next)
	}
}

// nextExpanded walks the panels from start by step and returns the first
// expanded one. A zero step checks start first, then walks forward.
func (v *View) nextExpanded(start domain.Panel, step int) (domain.Panel, bool) {
	if step == 0 {
		if v.panels[start].Expanded() {
			return start, true
		}
		step = 1
	}
	p := int(start)
	for range domain.PanelCount {
		p = (p + step + domain.PanelCount) % domain.PanelCount
		if v.panels[p].Expanded() {
			return domain.Panel(p), true
		}
	}
	return start, false
}

func (v *View) setActive(p domain.Panel) {
	v.panels[v.active].SetFocused(false)
	v.active = p
	v.panels[p].SetFocused(true)
	v.hover()
}

// refresh copies the controller's result snapshot into the panels.
func (v *View) refresh() {
	results := v.controller.Results()

	v.panels[domain.PanelTechniques].SetItems(panel.TechniqueItems(results.Techniques))
	for _, g := range results.Groups {
		if g.Panel.IsValid() {
			v.panels[g.Panel].SetItems(panel.GroupItems(g.Objects))
		}
	}
	v.panels[domain.PanelDataComponents].SetItems(
		panel.DataComponentItems(results.DataComponentLabels, results.DataComponents),
	)
	for i, p := range v.panels {
		p.SetExpanded(results.Panels.Expanded(domain.Panel(i)))
	}

	v.input.SetFields(v.controller.Fields())

	total := len(results.Techniques) + len(results.DataComponentLabels)
	for _, g := range results.Groups {
		total += len(g.Objects)
	}
	v.statusbar.SetResultCount(total)
	if v.statusbar.State() == status.StatePending && !v.controller.Pending() {
		v.statusbar.SetState(status.StateReady)
	}

	if v.focus == messages.FocusPanels && !v.panels[v.active].Expanded() {
		if next, ok := v.nextExpanded(v.active, 1); ok {
			v.setActive(next)
		} else {
			v.focusInput()
		}
	}
	v.refreshSelection()
}

func (v *View) refreshSelection() {
	if v.marker != nil {
		v.statusbar.SetSelectedCount(v.marker.SelectedCount())
	}
}

func (v *View) setError(err error) {
	v.err = err
	if err != nil {
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(err.Error())
		return
	}
	if v.statusbar.State() == status.StateError {
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage("")
	}
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, domain.PanelCount+6)
	sections = append(sections, v.styles.Title.Render("stixnav"), "", v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	for _, p := range v.panels {
		sections = append(sections, p.View())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions and shares the remaining height
// between the expanded panels.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)

	// Header, input, field line, status bar and one line per panel header.
	rows := (height - 8 - domain.PanelCount) / 3
	if rows < 2 {
		rows = 2
	}
	for _, p := range v.panels {
		p.SetDimensions(width, rows)
	}
}

// Width returns the current width.
func (v *View) Width() int {
	return v.width
}

// Height returns the current height.
func (v *View) Height() int {
	return v.height
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the query shown in the input.
func (v *View) Query() string {
	return v.input.Value()
}

// Focus returns which part of the view receives keys.
func (v *View) Focus() messages.Focus {
	return v.focus
}

// ActivePanel returns the panel that owns the cursor in results mode.
func (v *View) ActivePanel() domain.Panel {
	return v.active
}

// Panel returns the component rendering a result panel.
func (v *View) Panel(p domain.Panel) *panel.Panel {
	return v.panels[p]
}

// StatusBar returns the status bar component.
func (v *View) StatusBar() *status.Bar {
	return v.statusbar
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}
