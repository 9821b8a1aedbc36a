package domain

import "strings"

// Searchable attribute names understood by FieldValue.
const (
	FieldName        = "name"
	FieldAttackID    = "attackID"
	FieldDescription = "description"
	FieldDataSources = "datasources"
)

// StixObject is the capability set shared by every object the search engine
// can filter: an identity, a display name and lifecycle flags, plus
// attribute lookup for field matching.
type StixObject interface {
	// Base returns the common object attributes.
	Base() *Object

	// FieldValue returns the value of a searchable attribute.
	// The boolean is false when the object has no such attribute.
	FieldValue(field string) (string, bool)
}

// Object holds the attributes common to all STIX objects.
type Object struct {
	// ID is the STIX identifier (e.g. "attack-pattern--...").
	ID string

	// Name is the human-readable name.
	Name string

	// AttackID is the external ID (e.g. "T1566", "G0007").
	AttackID string

	// Description is the object description text.
	Description string

	// URL points at the object's reference page.
	URL string

	// Deprecated marks objects retired by the publisher.
	Deprecated bool

	// Revoked marks objects superseded by another object.
	Revoked bool
}

// Base implements StixObject.
func (o *Object) Base() *Object {
	return o
}

// FieldValue implements StixObject for the attributes every object carries.
func (o *Object) FieldValue(field string) (string, bool) {
	switch field {
	case FieldName:
		return o.Name, true
	case FieldAttackID:
		return o.AttackID, o.AttackID != ""
	case FieldDescription:
		return o.Description, o.Description != ""
	default:
		return "", false
	}
}

// Active reports whether the object is neither deprecated nor revoked.
func (o *Object) Active() bool {
	return !o.Deprecated && !o.Revoked
}

// Technique is an adversary behaviour, optionally a sub-technique of a parent.
type Technique struct {
	Object

	// DataSources lists the data sources that can detect this technique.
	DataSources []string

	// Tactics lists the tactic shortnames this technique appears under.
	Tactics []string

	// IsSubtechnique is true when the technique has a parent.
	IsSubtechnique bool

	// Parent is the parent technique of a sub-technique, nil otherwise.
	Parent *Technique

	// Subtechniques are the children of a top-level technique.
	Subtechniques []*Technique
}

// FieldValue implements StixObject, adding the data sources attribute.
func (t *Technique) FieldValue(field string) (string, bool) {
	if field == FieldDataSources {
		if len(t.DataSources) == 0 {
			return "", false
		}
		return strings.Join(t.DataSources, ", "), true
	}
	return t.Object.FieldValue(field)
}

// DisplayName is the name a technique sorts under in hierarchy order:
// the parent's name for a sub-technique, its own name otherwise.
func (t *Technique) DisplayName() string {
	if t.IsSubtechnique && t.Parent != nil {
		return t.Parent.Name
	}
	return t.Name
}

// Relatable is the closed set of objects that relate to techniques:
// Group, Software, Mitigation and Campaign.
type Relatable interface {
	StixObject

	// RelatedTechniques returns the IDs of the techniques this object
	// relates to within the given domain version.
	RelatedTechniques(domainVersionID string) []string

	relatable()
}

// Relations records, per domain version, the technique IDs an object relates to.
type Relations struct {
	techniques map[string][]string
}

// RelatedTechniques returns the technique IDs recorded for a domain version.
func (r *Relations) RelatedTechniques(domainVersionID string) []string {
	return r.techniques[domainVersionID]
}

// Relate records technique IDs for a domain version, ignoring duplicates.
func (r *Relations) Relate(domainVersionID string, techniqueIDs ...string) {
	if r.techniques == nil {
		r.techniques = make(map[string][]string)
	}
	existing := r.techniques[domainVersionID]
	for _, id := range techniqueIDs {
		if !containsString(existing, id) {
			existing = append(existing, id)
		}
	}
	r.techniques[domainVersionID] = existing
}

// Group is a threat actor (STIX intrusion-set).
type Group struct {
	Object
	Relations

	// Aliases are alternative names for the group.
	Aliases []string
}

func (*Group) relatable() {}

// Software is a malware or tool.
type Software struct {
	Object
	Relations

	// Type is "malware" or "tool".
	Type string
}

func (*Software) relatable() {}

// Mitigation is a course of action that mitigates techniques.
type Mitigation struct {
	Object
	Relations
}

func (*Mitigation) relatable() {}

// Campaign is a grouping of adversary activity over a period of time.
type Campaign struct {
	Object
	Relations
}

func (*Campaign) relatable() {}

// DataSourceRef names the data source a data component belongs to.
type DataSourceRef struct {
	Name string
	URL  string
}

// DataComponent is a detectable facet of a data source.
type DataComponent struct {
	Object

	sources    map[string]DataSourceRef
	techniques map[string][]*Technique
}

// Source returns the parent data source within a domain version.
func (c *DataComponent) Source(domainVersionID string) DataSourceRef {
	return c.sources[domainVersionID]
}

// SetSource records the parent data source within a domain version.
func (c *DataComponent) SetSource(domainVersionID string, ref DataSourceRef) {
	if c.sources == nil {
		c.sources = make(map[string]DataSourceRef)
	}
	c.sources[domainVersionID] = ref
}

// Techniques returns the techniques this component detects within a domain version.
func (c *DataComponent) Techniques(domainVersionID string) []*Technique {
	return c.techniques[domainVersionID]
}

// AddTechniques records detected techniques within a domain version.
func (c *DataComponent) AddTechniques(domainVersionID string, techniques ...*Technique) {
	if c.techniques == nil {
		c.techniques = make(map[string][]*Technique)
	}
	c.techniques[domainVersionID] = append(c.techniques[domainVersionID], techniques...)
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
