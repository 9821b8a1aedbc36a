// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the search engine to function:
//
//   - DomainStore: per-domain-version object graph (in-memory)
//   - ViewModel: per-technique selection and highlight state
//   - Scheduler: debounce timer for query evaluation
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - SelectionNotifier: selection-changed signal. Without it, no signal is emitted.
//   - BundleStore: imported bundle library (SQLite). Without it, bundles load from files only.
//   - BundleDecoder: STIX bundle parsing, required only by the library service.
//   - BundleFetcher: ATT&CK bundle download. Without it, bundles are imported from files only.
//   - ConfigStore: application configuration (TOML). Without it, defaults apply.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
