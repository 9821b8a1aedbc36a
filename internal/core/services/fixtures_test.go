package services

import (
	"sync"
	"time"

	"github.com/custodia-labs/stixnav/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/stixnav/internal/core/domain"
)

const testVersion = "enterprise-attack-test"

// fixture is a small ATT&CK-like domain shared by the service tests.
type fixture struct {
	domain *domain.Domain
	store  *memory.DomainStore

	phishing    *domain.Technique
	spearphish  *domain.Technique
	interpreter *domain.Technique
	deprecated  *domain.Technique
	revoked     *domain.Technique

	apt28    *domain.Group
	lazarus  *domain.Group
	mimikatz *domain.Software
	training *domain.Mitigation
	dreamJob *domain.Campaign

	netContent  *domain.DataComponent
	procCreate  *domain.DataComponent
	deprecatedC *domain.DataComponent
}

func newFixture() *fixture {
	f := &fixture{}

	f.phishing = &domain.Technique{
		Object: domain.Object{
			ID: "attack-pattern--1", Name: "Phishing", AttackID: "T1566",
			Description: "Adversaries may send phishing messages to gain access.",
		},
		DataSources: []string{"Application Log", "Network Traffic"},
		Tactics:     []string{"initial-access"},
	}
	f.spearphish = &domain.Technique{
		Object: domain.Object{
			ID: "attack-pattern--1.1", Name: "Spearphishing Attachment", AttackID: "T1566.001",
			Description: "Adversaries may send emails with a malicious attachment.",
		},
		Tactics:        []string{"initial-access"},
		IsSubtechnique: true,
		Parent:         f.phishing,
	}
	f.phishing.Subtechniques = []*domain.Technique{f.spearphish}
	f.interpreter = &domain.Technique{
		Object: domain.Object{
			ID: "attack-pattern--2", Name: "Command and Scripting Interpreter", AttackID: "T1059",
			Description: "Adversaries may abuse command interpreters.",
		},
		DataSources: []string{"Process"},
		Tactics:     []string{"execution"},
	}
	f.deprecated = &domain.Technique{
		Object: domain.Object{ID: "attack-pattern--3", Name: "Phishing Old", Deprecated: true},
	}
	f.revoked = &domain.Technique{
		Object: domain.Object{ID: "attack-pattern--4", Name: "Phishing Revoked", Revoked: true},
	}

	f.apt28 = &domain.Group{Object: domain.Object{
		ID: "intrusion-set--1", Name: "APT28", AttackID: "G0007",
		Description: "A threat group attributed to a military intelligence unit.",
	}}
	f.apt28.Relate(testVersion, f.phishing.ID, f.spearphish.ID)
	f.lazarus = &domain.Group{Object: domain.Object{
		ID: "intrusion-set--2", Name: "Lazarus Group", AttackID: "G0032",
		Description: "A state-sponsored cyber threat group.",
	}}
	f.lazarus.Relate(testVersion, f.interpreter.ID)

	f.mimikatz = &domain.Software{
		Object: domain.Object{
			ID: "tool--1", Name: "Mimikatz", AttackID: "S0002",
			Description: "A credential dumper.",
		},
		Type: "tool",
	}
	f.mimikatz.Relate(testVersion, f.interpreter.ID)

	f.training = &domain.Mitigation{Object: domain.Object{
		ID: "course-of-action--1", Name: "User Training", AttackID: "M1017",
		Description: "Train users to identify phishing attempts.",
	}}
	f.training.Relate(testVersion, f.spearphish.ID, f.phishing.ID)

	f.dreamJob = &domain.Campaign{Object: domain.Object{
		ID: "campaign--1", Name: "Operation Dream Job", AttackID: "C0022",
		Description: "Lazarus Group targeted job seekers.",
	}}
	f.dreamJob.Relate(testVersion, f.phishing.ID)

	f.netContent = &domain.DataComponent{Object: domain.Object{ID: "x-mitre-data-component--1", Name: "Network Traffic Content"}}
	f.netContent.SetSource(testVersion, domain.DataSourceRef{Name: "Network Traffic", URL: "https://attack.mitre.org/datasources/DS0029"})
	f.netContent.AddTechniques(testVersion, f.phishing)
	f.procCreate = &domain.DataComponent{Object: domain.Object{ID: "x-mitre-data-component--2", Name: "Process Creation"}}
	f.procCreate.SetSource(testVersion, domain.DataSourceRef{Name: "Process", URL: "https://attack.mitre.org/datasources/DS0009"})
	f.procCreate.AddTechniques(testVersion, f.interpreter)
	f.deprecatedC = &domain.DataComponent{Object: domain.Object{ID: "x-mitre-data-component--3", Name: "Old Component", Deprecated: true}}
	f.deprecatedC.SetSource(testVersion, domain.DataSourceRef{Name: "Legacy"})

	f.domain = &domain.Domain{
		VersionID:      testVersion,
		Name:           "Enterprise ATT&CK",
		Version:        "15.1",
		Techniques:     []*domain.Technique{f.phishing, f.interpreter, f.deprecated, f.revoked},
		Subtechniques:  []*domain.Technique{f.spearphish},
		Groups:         []*domain.Group{f.lazarus, f.apt28},
		Software:       []*domain.Software{f.mimikatz},
		Mitigations:    []*domain.Mitigation{f.training},
		Campaigns:      []*domain.Campaign{f.dreamJob},
		DataComponents: []*domain.DataComponent{f.procCreate, f.netContent, f.deprecatedC},
		LoadedAt:       time.Now(),
	}

	f.store = memory.NewDomainStore()
	_ = f.store.Put(f.domain)
	return f
}

// manualScheduler queues callbacks until the test fires them.
type manualScheduler struct {
	mu     sync.Mutex
	delays []time.Duration
	queue  []func()
}

func (s *manualScheduler) Schedule(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays = append(s.delays, d)
	s.queue = append(s.queue, fn)
}

// Fire runs the oldest queued callback. Returns false when none is queued.
func (s *manualScheduler) Fire() bool {
	s.mu.Lock()
	if len(s.queue) == 0 {
		s.mu.Unlock()
		return false
	}
	fn := s.queue[0]
	s.queue = s.queue[1:]
	s.mu.Unlock()
	fn()
	return true
}

func (s *manualScheduler) Scheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.delays)
}

type selectCall struct {
	technique *domain.Technique
	opts      domain.SelectOptions
}

// recordingViewModel records every view model mutation.
type recordingViewModel struct {
	versionID   string
	selected    []selectCall
	unselected  []*domain.Technique
	highlighted []*domain.Technique
	clears      int
}

func (v *recordingViewModel) DomainVersionID() string { return v.versionID }

func (v *recordingViewModel) SelectTechniqueAcrossTactics(t *domain.Technique, opts domain.SelectOptions) {
	v.selected = append(v.selected, selectCall{technique: t, opts: opts})
}

func (v *recordingViewModel) UnselectTechniqueAcrossTactics(t *domain.Technique) {
	v.unselected = append(v.unselected, t)
}

func (v *recordingViewModel) HighlightTechnique(t *domain.Technique) {
	v.highlighted = append(v.highlighted, t)
}

func (v *recordingViewModel) ClearHighlight() { v.clears++ }

type countingNotifier struct{ count int }

func (n *countingNotifier) SelectionChanged() { n.count++ }

func techniqueIDs(techniques []*domain.Technique) []string {
	ids := make([]string, len(techniques))
	for i, t := range techniques {
		ids[i] = t.ID
	}
	return ids
}

func objectNames[T domain.StixObject](items []T) []string {
	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Base().Name
	}
	return names
}
