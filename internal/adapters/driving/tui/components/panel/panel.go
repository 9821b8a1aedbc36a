// Package panel provides the collapsible result panel component for the TUI.
package panel

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/stixnav/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/stixnav/internal/core/domain"
)

// Marker reports the matrix state of a technique for row decoration.
type Marker interface {
	IsSelected(t *domain.Technique) bool
	IsHighlighted(t *domain.Technique) bool
}

// Item is one row of a panel.
type Item struct {
	// Label is the rendered row text.
	Label string

	// Object is the object the row stands for, nil for a data component label.
	Object domain.StixObject

	// Targets are the objects a select or hover on this row applies to.
	Targets []domain.StixObject
}

// Technique returns the technique behind the row, if it is one.
func (i Item) Technique() (*domain.Technique, bool) {
	t, ok := i.Object.(*domain.Technique)
	return t, ok
}

// TechniqueItems builds rows for technique results.
func TechniqueItems(techniques []*domain.Technique) []Item {
	items := make([]Item, 0, len(techniques))
	for _, t := range techniques {
		items = append(items, Item{
			Label:   TechniqueLabel(t),
			Object:  t,
			Targets: []domain.StixObject{t},
		})
	}
	return items
}

// GroupItems builds rows for a non-technique result group.
func GroupItems(objects []domain.Relatable) []Item {
	items := make([]Item, 0, len(objects))
	for _, o := range objects {
		items = append(items, Item{
			Label:   objectLabel(o.Base()),
			Object:  o,
			Targets: []domain.StixObject{o},
		})
	}
	return items
}

// DataComponentItems builds rows for data component labels. Each row targets
// the techniques the component detects.
func DataComponentItems(labels []string, components map[string]domain.DataComponentResult) []Item {
	items := make([]Item, 0, len(labels))
	for _, label := range labels {
		techniques := components[label].Techniques
		targets := make([]domain.StixObject, 0, len(techniques))
		for _, t := range techniques {
			targets = append(targets, t)
		}
		items = append(items, Item{
			Label:   fmt.Sprintf("%s (%d)", label, len(techniques)),
			Targets: targets,
		})
	}
	return items
}

// TechniqueLabel renders "<ID> <Parent>: <Name>" for sub-techniques and
// "<ID> <Name>" otherwise.
func TechniqueLabel(t *domain.Technique) string {
	name := t.Name
	if t.IsSubtechnique && t.Parent != nil {
		name = t.Parent.Name + ": " + t.Name
	}
	if t.AttackID == "" {
		return name
	}
	return t.AttackID + " " + name
}

func objectLabel(o *domain.Object) string {
	if o.AttackID == "" {
		return o.Name
	}
	return o.AttackID + " " + o.Name
}

// Panel is one collapsible result list with a cursor.
type Panel struct {
	id       domain.Panel
	title    string
	items    []Item
	cursor   int
	expanded bool
	focused  bool
	styles   *styles.Styles
	marker   Marker
	width    int
	height   int
}

// New creates a collapsed, empty panel.
func New(id domain.Panel, s *styles.Styles, marker Marker) *Panel {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Panel{
		id:     id,
		title:  Title(id),
		styles: s,
		marker: marker,
		width:  80,
		height: 8,
	}
}

// Title returns the display title of a result panel.
func Title(id domain.Panel) string {
	switch id {
	case domain.PanelTechniques:
		return "Techniques"
	case domain.PanelGroups:
		return "Threat Groups"
	case domain.PanelSoftware:
		return "Software"
	case domain.PanelCampaigns:
		return "Campaigns"
	case domain.PanelMitigations:
		return "Mitigations"
	case domain.PanelDataComponents:
		return "Data Components"
	default:
		return id.String()
	}
}

// View renders the header and, when expanded, the visible rows.
func (p *Panel) View() string {
	arrow := "▸"
	if p.expanded {
		arrow = "▾"
	}
	header := fmt.Sprintf("%s %d %s (%d)", arrow, int(p.id)+1, p.title, len(p.items))

	if !p.expanded {
		return p.styles.PanelCollapsed.Render(header)
	}

	lines := make([]string, 0, p.height+1)
	lines = append(lines, p.styles.PanelTitle.Render(header))
	if len(p.items) == 0 {
		lines = append(lines, p.styles.Muted.Render("    No results"))
		return strings.Join(lines, "\n")
	}

	start, end := p.window()
	for i := start; i < end; i++ {
		lines = append(lines, p.renderRow(i))
	}
	if end < len(p.items) {
		lines = append(lines, p.styles.Muted.Render(fmt.Sprintf("    ... %d more", len(p.items)-end)))
	}
	return strings.Join(lines, "\n")
}

func (p *Panel) window() (start, end int) {
	visible := p.height
	if visible < 1 {
		visible = 1
	}
	if p.cursor >= visible {
		start = p.cursor - visible + 1
	}
	end = start + visible
	if end > len(p.items) {
		end = len(p.items)
	}
	return start, end
}

func (p *Panel) renderRow(index int) string {
	item := p.items[index]

	indicator := "  "
	if p.focused && index == p.cursor {
		indicator = "> "
	}

	mark := "[ ]"
	highlighted := false
	if t, ok := item.Technique(); ok && p.marker != nil {
		if p.marker.IsSelected(t) {
			mark = p.styles.Selected.Render("[x]")
		}
		highlighted = p.marker.IsHighlighted(t)
	}

	label := item.Label
	maxLen := p.width - 8
	if maxLen < 10 {
		maxLen = 10
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}

	switch {
	case p.focused && index == p.cursor:
		label = p.styles.Cursor.Render(label)
	case highlighted:
		label = p.styles.Highlighted.Render(label)
	default:
		label = p.styles.Normal.Render(label)
	}
	return indicator + mark + " " + label
}

// ID returns the result panel this component renders.
func (p *Panel) ID() domain.Panel {
	return p.id
}

// SetItems replaces the rows, keeping the cursor in range.
func (p *Panel) SetItems(items []Item) {
	p.items = items
	if p.cursor >= len(items) {
		p.cursor = max(len(items)-1, 0)
	}
}

// Items returns the rows.
func (p *Panel) Items() []Item {
	return p.items
}

// Current returns the row under the cursor.
func (p *Panel) Current() (Item, bool) {
	if p.cursor < 0 || p.cursor >= len(p.items) {
		return Item{}, false
	}
	return p.items[p.cursor], true
}

// Targets returns the targets of every row, in row order.
func (p *Panel) Targets() []domain.StixObject {
	var out []domain.StixObject
	for _, item := range p.items {
		out = append(out, item.Targets...)
	}
	return out
}

// Cursor returns the cursor row index.
func (p *Panel) Cursor() int {
	return p.cursor
}

// MoveUp moves the cursor up.
func (p *Panel) MoveUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// MoveDown moves the cursor down.
func (p *Panel) MoveDown() {
	if p.cursor < len(p.items)-1 {
		p.cursor++
	}
}

// SetExpanded sets the expansion flag.
func (p *Panel) SetExpanded(expanded bool) {
	p.expanded = expanded
}

// Expanded reports whether the panel is expanded.
func (p *Panel) Expanded() bool {
	return p.expanded
}

// SetFocused sets whether the panel owns the cursor.
func (p *Panel) SetFocused(focused bool) {
	p.focused = focused
}

// Focused reports whether the panel owns the cursor.
func (p *Panel) Focused() bool {
	return p.focused
}

// SetDimensions sets the row width and the number of visible rows.
func (p *Panel) SetDimensions(width, height int) {
	p.width = width
	p.height = height
}
