package domain

import "time"

// Domain is one versioned snapshot of the object graph, e.g. Enterprise ATT&CK v15.
type Domain struct {
	// VersionID identifies the snapshot (e.g. "enterprise-attack-15").
	VersionID string

	// Name is the human-readable domain name.
	Name string

	// Version is the publisher's version label.
	Version string

	// Techniques holds top-level techniques only.
	Techniques []*Technique

	// Subtechniques holds every sub-technique in the domain.
	Subtechniques []*Technique

	Groups         []*Group
	Software       []*Software
	Mitigations    []*Mitigation
	Campaigns      []*Campaign
	DataComponents []*DataComponent

	// LoadedAt is when the snapshot was decoded.
	LoadedAt time.Time
}

// AllTechniques returns top-level techniques followed by sub-techniques.
func (d *Domain) AllTechniques() []*Technique {
	all := make([]*Technique, 0, len(d.Techniques)+len(d.Subtechniques))
	all = append(all, d.Techniques...)
	all = append(all, d.Subtechniques...)
	return all
}

// Relatables returns every object that can relate to techniques,
// in the order groups, software, mitigations, campaigns.
func (d *Domain) Relatables() []Relatable {
	out := make([]Relatable, 0, len(d.Groups)+len(d.Software)+len(d.Mitigations)+len(d.Campaigns))
	for _, g := range d.Groups {
		out = append(out, g)
	}
	for _, s := range d.Software {
		out = append(out, s)
	}
	for _, m := range d.Mitigations {
		out = append(out, m)
	}
	for _, c := range d.Campaigns {
		out = append(out, c)
	}
	return out
}

// FindRelatable looks up a relatable object by STIX ID, ATT&CK ID or
// case-sensitive name, in that order of precedence.
func (d *Domain) FindRelatable(key string) (Relatable, bool) {
	all := d.Relatables()
	for _, r := range all {
		if r.Base().ID == key {
			return r, true
		}
	}
	for _, r := range all {
		if r.Base().AttackID != "" && r.Base().AttackID == key {
			return r, true
		}
	}
	for _, r := range all {
		if r.Base().Name == key {
			return r, true
		}
	}
	return nil, false
}

// FindTechnique looks up a technique or sub-technique by STIX ID or ATT&CK ID.
func (d *Domain) FindTechnique(key string) (*Technique, bool) {
	for _, t := range d.AllTechniques() {
		if t.ID == key || (t.AttackID != "" && t.AttackID == key) {
			return t, true
		}
	}
	return nil, false
}

// DomainSummary describes a loaded or stored domain without its objects.
type DomainSummary struct {
	VersionID  string
	Name       string
	Version    string
	Techniques int
	Source     string
	ImportedAt time.Time
}
