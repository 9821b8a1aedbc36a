// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The search engine lives here: FilterAndSort and friends filter and order
// result sets, PanelExpander decides which result panels open,
// QueryController debounces and evaluates queries, RelationshipResolver
// maps groups, software, mitigations and campaigns to techniques, and
// SelectionService pushes user actions onto a view model.
//
// Services are pure Go with no CGO.
package services
