package domain

// Panel identifies one of the six result panels.
type Panel int

// Result panels in display order.
const (
	PanelTechniques Panel = iota
	PanelGroups
	PanelSoftware
	PanelCampaigns
	PanelMitigations
	PanelDataComponents
)

// PanelCount is the number of result panels.
const PanelCount = 6

// String returns the string representation of the panel.
func (p Panel) String() string {
	switch p {
	case PanelTechniques:
		return "techniques"
	case PanelGroups:
		return "groups"
	case PanelSoftware:
		return "software"
	case PanelCampaigns:
		return "campaigns"
	case PanelMitigations:
		return "mitigations"
	case PanelDataComponents:
		return "data components"
	default:
		return "unknown"
	}
}

// IsValid returns true if the panel is one of the six result panels.
func (p Panel) IsValid() bool {
	return p >= PanelTechniques && p <= PanelDataComponents
}

// PanelState is the expansion flag of each result panel, indexed by Panel.
type PanelState [PanelCount]bool

// Expanded reports whether a panel is expanded.
func (s PanelState) Expanded(p Panel) bool {
	if !p.IsValid() {
		return false
	}
	return s[p]
}

// AnyExpanded reports whether at least one panel is expanded.
func (s PanelState) AnyExpanded() bool {
	for _, v := range s {
		if v {
			return true
		}
	}
	return false
}

// PanelCounts carries the result sizes the expansion heuristic reads.
type PanelCounts struct {
	// Techniques is the number of technique results.
	Techniques int

	// Groups maps panels 1..4 to their result group sizes.
	Groups map[Panel]int

	// DataComponentLabels is the number of filtered data component labels.
	DataComponentLabels int
}
