package stix

import "strings"

// STIX object types the decoder understands.
const (
	typeBundle        = "bundle"
	typeAttackPattern = "attack-pattern"
	typeIntrusionSet  = "intrusion-set"
	typeMalware       = "malware"
	typeTool          = "tool"
	typeCourseOfAct   = "course-of-action"
	typeCampaign      = "campaign"
	typeDataSource    = "x-mitre-data-source"
	typeDataComponent = "x-mitre-data-component"
	typeCollection    = "x-mitre-collection"
	typeRelationship  = "relationship"
)

// Relationship types the decoder links.
const (
	relSubtechniqueOf = "subtechnique-of"
	relUses           = "uses"
	relMitigates      = "mitigates"
	relDetects        = "detects"
)

// bundle is the top-level STIX envelope.
type bundle struct {
	Type    string       `json:"type"`
	ID      string       `json:"id"`
	Objects []stixObject `json:"objects"`
}

// stixObject is the union of every field the decoder reads.
type stixObject struct {
	Type        string `json:"type"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Revoked     bool   `json:"revoked"`
	Deprecated  bool   `json:"x_mitre_deprecated"`
	Version     string `json:"x_mitre_version"`

	ExternalReferences []externalReference `json:"external_references"`
	KillChainPhases    []killChainPhase    `json:"kill_chain_phases"`

	// attack-pattern
	DataSources    []string `json:"x_mitre_data_sources"`
	IsSubtechnique bool     `json:"x_mitre_is_subtechnique"`

	// intrusion-set, campaign
	Aliases []string `json:"aliases"`

	// x-mitre-data-component
	DataSourceRef string `json:"x_mitre_data_source_ref"`

	// relationship
	RelationshipType string `json:"relationship_type"`
	SourceRef        string `json:"source_ref"`
	TargetRef        string `json:"target_ref"`
}

type externalReference struct {
	SourceName string `json:"source_name"`
	ExternalID string `json:"external_id"`
	URL        string `json:"url"`
}

type killChainPhase struct {
	KillChainName string `json:"kill_chain_name"`
	PhaseName     string `json:"phase_name"`
}

// attackReference returns the ATT&CK reference (mitre-attack,
// mitre-mobile-attack, mitre-ics-attack) of an object.
func (o *stixObject) attackReference() externalReference {
	for _, ref := range o.ExternalReferences {
		if isAttackSource(ref.SourceName) && ref.ExternalID != "" {
			return ref
		}
	}
	return externalReference{}
}

// tactics returns the ATT&CK kill chain phase names.
func (o *stixObject) tactics() []string {
	var out []string
	for _, phase := range o.KillChainPhases {
		if isAttackSource(phase.KillChainName) {
			out = append(out, phase.PhaseName)
		}
	}
	return out
}

func isAttackSource(name string) bool {
	return name == "mitre-attack" || (strings.HasPrefix(name, "mitre-") && strings.HasSuffix(name, "-attack"))
}
