package domain

import "time"

// BundleRecord is an imported STIX bundle kept in the bundle library.
type BundleRecord struct {
	// VersionID is the domain version the bundle is served as.
	VersionID string

	// Name is the domain name declared by the bundle (or the import default).
	Name string

	// Version is the publisher's version label.
	Version string

	// SourcePath is the file the bundle was imported from.
	SourcePath string

	// Data is the raw bundle JSON.
	Data []byte

	// ImportedAt is when the bundle was stored.
	ImportedAt time.Time
}

// Summary returns the record description without its payload.
func (b *BundleRecord) Summary() DomainSummary {
	return DomainSummary{
		VersionID:  b.VersionID,
		Name:       b.Name,
		Version:    b.Version,
		Source:     b.SourcePath,
		ImportedAt: b.ImportedAt,
	}
}
