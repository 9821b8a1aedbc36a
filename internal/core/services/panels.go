package services

import (
	"github.com/custodia-labs/stixnav/internal/core/domain"
)

// walkPanels are the non-technique panels in heuristic walk order.
var walkPanels = [...]domain.Panel{
	domain.PanelGroups,
	domain.PanelSoftware,
	domain.PanelCampaigns,
	domain.PanelMitigations,
}

// PanelExpander decides which result panels are expanded after each
// evaluation, until the user toggles a panel by hand.
type PanelExpander struct {
	state        domain.PanelState
	userOverrode bool
}

// NewPanelExpander returns an expander with only the techniques panel open.
func NewPanelExpander() *PanelExpander {
	p := &PanelExpander{}
	p.state[domain.PanelTechniques] = true
	return p
}

// Update applies the heuristic for new result counts.
//
// The techniques panel opens when there are technique results. When it stays
// closed, panels 1..4 are walked in order; each opens when the running
// "previous expanded" flag is false and its group has results. The flag
// carried forward is the panel's expansion from before this update, not its
// new value, so a decision lags the walk by one step. The data components
// panel opens when the flag is false and there is at least one label.
//
// While the user override is set nothing is recomputed; the override is
// released once every panel is collapsed.
func (p *PanelExpander) Update(counts domain.PanelCounts) {
	if p.userOverrode {
		if !p.state.AnyExpanded() {
			p.userOverrode = false
		}
		return
	}

	p.state[domain.PanelTechniques] = counts.Techniques > 0
	prevExpanded := p.state[domain.PanelTechniques]
	if !prevExpanded {
		for _, panel := range walkPanels {
			previous := p.state[panel]
			p.state[panel] = !prevExpanded && counts.Groups[panel] > 0
			prevExpanded = previous
		}
	}
	p.state[domain.PanelDataComponents] = !prevExpanded && counts.DataComponentLabels > 0
}

// Toggle flips a panel on behalf of the user and sets the override.
// Invalid panels are ignored.
func (p *PanelExpander) Toggle(panel domain.Panel) {
	if !panel.IsValid() {
		return
	}
	p.state[panel] = !p.state[panel]
	p.userOverrode = true
}

// State returns the expansion flags.
func (p *PanelExpander) State() domain.PanelState {
	return p.state
}

// Expanded reports whether a panel is expanded.
func (p *PanelExpander) Expanded(panel domain.Panel) bool {
	return p.state.Expanded(panel)
}

// UserOverrode reports whether the user has taken manual control.
func (p *PanelExpander) UserOverrode() bool {
	return p.userOverrode
}
