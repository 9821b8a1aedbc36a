package domain

import "fmt"

// SearchField is one attribute the query is matched against.
// The order of a field list defines match-check precedence.
type SearchField struct {
	// Label is the display label.
	Label string

	// Field is the attribute name passed to StixObject.FieldValue.
	Field string

	// Enabled is toggled by the user.
	Enabled bool
}

// DefaultSearchFields returns the standard field list, all enabled.
func DefaultSearchFields() []SearchField {
	return []SearchField{
		{Label: "name", Field: FieldName, Enabled: true},
		{Label: "ATT&CK ID", Field: FieldAttackID, Enabled: true},
		{Label: "description", Field: FieldDescription, Enabled: true},
		{Label: "data sources", Field: FieldDataSources, Enabled: true},
	}
}

// ParseFields returns the default field list with only the named fields
// enabled. An empty list enables every field. Names are attribute names
// such as "attackID"; an unknown name returns ErrUnknownField.
func ParseFields(names []string) ([]SearchField, error) {
	fields := DefaultSearchFields()
	if len(names) == 0 {
		return fields, nil
	}
	for _, name := range names {
		known := false
		for _, f := range fields {
			if f.Field == name {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("field %q: %w", name, ErrUnknownField)
		}
	}
	return SearchSettings{EnabledFields: names}.Fields(), nil
}

// SearchPass identifies how a result evaluation was computed.
type SearchPass int

const (
	// PassFullRescan rebuilt every result set from the domain store.
	PassFullRescan SearchPass = iota
	// PassIncremental narrowed the previous result sets locally.
	PassIncremental
)

// String returns the string representation of the pass.
func (p SearchPass) String() string {
	switch p {
	case PassIncremental:
		return "incremental"
	case PassFullRescan:
		return "full_rescan"
	default:
		return "unknown"
	}
}

// ResultGroup is the filtered result list for one non-technique type.
type ResultGroup struct {
	// Label is the display label (e.g. "threat groups").
	Label string

	// Panel is the result panel this group renders into.
	Panel Panel

	// Objects holds the filtered objects in result order.
	Objects []Relatable
}

// DataComponentResult holds the techniques a data component label maps to.
type DataComponentResult struct {
	// Techniques detected by the component.
	Techniques []*Technique

	// URL of the parent data source.
	URL string
}

// Results is a snapshot of every result set and the panel expansion vector.
type Results struct {
	// Query is the query the results were evaluated against.
	Query string

	// Techniques holds technique and sub-technique results.
	Techniques []*Technique

	// Groups holds the non-technique result groups, in the order
	// threat groups, software, mitigations, campaigns.
	Groups []ResultGroup

	// DataComponentLabels holds the filtered "<source>: <component>" labels.
	DataComponentLabels []string

	// DataComponents maps every label to its techniques and URL.
	DataComponents map[string]DataComponentResult

	// Panels is the expansion state of the six result panels.
	Panels PanelState
}

// Group returns the result group rendered into a panel.
func (r *Results) Group(panel Panel) (ResultGroup, bool) {
	for _, g := range r.Groups {
		if g.Panel == panel {
			return g, true
		}
	}
	return ResultGroup{}, false
}

// DataComponentTechniques concatenates the techniques of the filtered
// data component labels, in label order.
func (r *Results) DataComponentTechniques() []*Technique {
	var out []*Technique
	for _, label := range r.DataComponentLabels {
		out = append(out, r.DataComponents[label].Techniques...)
	}
	return out
}

// Empty reports whether every result set is empty.
func (r *Results) Empty() bool {
	if len(r.Techniques) > 0 || len(r.DataComponentLabels) > 0 {
		return false
	}
	for _, g := range r.Groups {
		if len(g.Objects) > 0 {
			return false
		}
	}
	return true
}
