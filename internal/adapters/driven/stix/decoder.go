package stix

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/custodia-labs/stixnav/internal/core/domain"
	"github.com/custodia-labs/stixnav/internal/core/ports/driven"
	"github.com/custodia-labs/stixnav/internal/logger"
)

// Ensure Decoder implements the interface.
var _ driven.BundleDecoder = (*Decoder)(nil)

// Decoder builds domain snapshots from ATT&CK STIX bundles.
type Decoder struct {
	now func() time.Time
}

// NewDecoder creates a bundle decoder.
func NewDecoder() *Decoder {
	return &Decoder{now: time.Now}
}

// graph indexes decoded objects by STIX ID for relationship linking.
type graph struct {
	versionID  string
	techniques map[string]*domain.Technique
	relations  map[string]*domain.Relations
	components map[string]*domain.DataComponent
	sources    map[string]domain.DataSourceRef
	subRefs    map[*domain.DataComponent]string
}

// Decode parses bundle JSON and builds the snapshot for versionID.
func (d *Decoder) Decode(data []byte, versionID string) (*domain.Domain, error) {
	if versionID == "" {
		return nil, fmt.Errorf("decode: missing version id: %w", domain.ErrInvalidInput)
	}

	var b bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidBundle, err)
	}
	if b.Type != typeBundle {
		return nil, fmt.Errorf("%w: type %q, want %q", domain.ErrInvalidBundle, b.Type, typeBundle)
	}

	out := &domain.Domain{
		VersionID: versionID,
		Name:      versionID,
		LoadedAt:  d.now(),
	}
	g := &graph{
		versionID:  versionID,
		techniques: make(map[string]*domain.Technique),
		relations:  make(map[string]*domain.Relations),
		components: make(map[string]*domain.DataComponent),
		sources:    make(map[string]domain.DataSourceRef),
		subRefs:    make(map[*domain.DataComponent]string),
	}

	var relationships []*stixObject
	skipped := 0
	for i := range b.Objects {
		obj := &b.Objects[i]
		switch obj.Type {
		case typeAttackPattern:
			t := &domain.Technique{
				Object:         baseObject(obj),
				DataSources:    obj.DataSources,
				Tactics:        obj.tactics(),
				IsSubtechnique: obj.IsSubtechnique,
			}
			g.techniques[obj.ID] = t
			if t.IsSubtechnique {
				out.Subtechniques = append(out.Subtechniques, t)
			} else {
				out.Techniques = append(out.Techniques, t)
			}
		case typeIntrusionSet:
			grp := &domain.Group{Object: baseObject(obj), Aliases: obj.Aliases}
			g.relations[obj.ID] = &grp.Relations
			out.Groups = append(out.Groups, grp)
		case typeMalware, typeTool:
			sw := &domain.Software{Object: baseObject(obj), Type: obj.Type}
			g.relations[obj.ID] = &sw.Relations
			out.Software = append(out.Software, sw)
		case typeCourseOfAct:
			m := &domain.Mitigation{Object: baseObject(obj)}
			g.relations[obj.ID] = &m.Relations
			out.Mitigations = append(out.Mitigations, m)
		case typeCampaign:
			c := &domain.Campaign{Object: baseObject(obj)}
			g.relations[obj.ID] = &c.Relations
			out.Campaigns = append(out.Campaigns, c)
		case typeDataSource:
			g.sources[obj.ID] = domain.DataSourceRef{Name: obj.Name, URL: obj.attackReference().URL}
		case typeDataComponent:
			dc := &domain.DataComponent{Object: baseObject(obj)}
			g.components[obj.ID] = dc
			g.subRefs[dc] = obj.DataSourceRef
			out.DataComponents = append(out.DataComponents, dc)
		case typeCollection:
			out.Name = obj.Name
			out.Version = obj.Version
		case typeRelationship:
			relationships = append(relationships, obj)
		default:
			skipped++
		}
	}

	for dc, ref := range g.subRefs {
		dc.SetSource(versionID, g.sources[ref])
	}

	linked := 0
	for _, rel := range relationships {
		if rel.Revoked || rel.Deprecated {
			continue
		}
		if g.link(rel) {
			linked++
		}
	}
	promoteSubtechniques(out)

	logger.Debug("Decoded %s: %d techniques, %d sub-techniques, %d relationships linked, %d objects skipped",
		versionID, len(out.Techniques), len(out.Subtechniques), linked, skipped)
	return out, nil
}

// link applies one relationship. Returns false when either end is unknown.
func (g *graph) link(rel *stixObject) bool {
	target, ok := g.techniques[rel.TargetRef]
	if !ok {
		return false
	}

	switch rel.RelationshipType {
	case relSubtechniqueOf:
		sub, ok := g.techniques[rel.SourceRef]
		if !ok {
			return false
		}
		sub.Parent = target
		sub.IsSubtechnique = true
		target.Subtechniques = append(target.Subtechniques, sub)
		return true
	case relUses, relMitigates:
		relations, ok := g.relations[rel.SourceRef]
		if !ok {
			return false
		}
		relations.Relate(g.versionID, target.ID)
		return true
	case relDetects:
		dc, ok := g.components[rel.SourceRef]
		if !ok {
			return false
		}
		dc.AddTechniques(g.versionID, target)
		return true
	default:
		return false
	}
}

// promoteSubtechniques moves techniques that a subtechnique-of relationship
// marked as children from Techniques to Subtechniques, keeping bundle order.
func promoteSubtechniques(d *domain.Domain) {
	top := d.Techniques[:0]
	for _, t := range d.Techniques {
		if t.IsSubtechnique {
			d.Subtechniques = append(d.Subtechniques, t)
			continue
		}
		top = append(top, t)
	}
	d.Techniques = top
}

func baseObject(obj *stixObject) domain.Object {
	ref := obj.attackReference()
	return domain.Object{
		ID:          obj.ID,
		Name:        obj.Name,
		AttackID:    ref.ExternalID,
		Description: obj.Description,
		URL:         ref.URL,
		Deprecated:  obj.Deprecated,
		Revoked:     obj.Revoked,
	}
}
