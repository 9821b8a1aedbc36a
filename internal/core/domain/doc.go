// Package domain defines the core business entities for stixnav.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - StixObject: the capability set every searchable object carries
//   - Technique, Group, Software, Mitigation, Campaign, DataComponent: the variants
//   - Domain: one versioned snapshot of the object graph
//   - SearchField, ResultGroup, Results: search inputs and outputs
//   - Panel, PanelState: the result panel expansion vector
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
