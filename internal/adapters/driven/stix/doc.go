// Package stix decodes STIX 2.x bundles laid out the way MITRE ATT&CK
// publishes them, and watches bundle files for changes.
//
// Object mapping:
//   - attack-pattern: Technique (sub-techniques linked by subtechnique-of)
//   - intrusion-set: Group
//   - malware, tool: Software
//   - course-of-action: Mitigation
//   - campaign: Campaign
//   - x-mitre-data-component: DataComponent, parented by x-mitre-data-source
//
// Relationships of type uses, mitigates and detects attach techniques to the
// other objects. Unknown object types are skipped.
package stix
