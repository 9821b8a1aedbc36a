package services

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/stixnav/internal/core/domain"
	"github.com/custodia-labs/stixnav/internal/core/ports/driven"
	"github.com/custodia-labs/stixnav/internal/core/ports/driving"
	"github.com/custodia-labs/stixnav/internal/logger"
)

// Ensure QueryController implements the interface.
var _ driving.QueryController = (*QueryController)(nil)

// Result group labels.
const (
	LabelGroups      = "threat groups"
	LabelSoftware    = "software"
	LabelMitigations = "mitigations"
	LabelCampaigns   = "campaigns"
)

// VersionSource reports the active domain version.
// driven.ViewModel satisfies it.
type VersionSource interface {
	DomainVersionID() string
}

// StaticVersion is a VersionSource fixed to one domain version.
type StaticVersion string

// DomainVersionID implements VersionSource.
func (v StaticVersion) DomainVersionID() string {
	return string(v)
}

// QueryController owns the live query of one view, debounces updates and
// keeps the current result sets.
//
// At most one evaluation is pending at a time: SetQuery arms the scheduler
// only when idle, and the pending evaluation reads the latest query when it
// fires.
type QueryController struct {
	mu        sync.Mutex
	store     driven.DomainStore
	version   VersionSource
	scheduler driven.Scheduler
	debounce  time.Duration
	fields    []domain.SearchField

	query         string
	previousQuery string
	pending       bool

	techniques []*domain.Technique
	groups     []domain.ResultGroup
	components map[string]domain.DataComponentResult
	allLabels  []string
	labels     []string
	panels     *PanelExpander

	onEvaluated func(domain.SearchPass, error)
}

// NewQueryController creates a controller over a domain store.
// A nil scheduler uses a TimerScheduler.
func NewQueryController(store driven.DomainStore, version VersionSource, scheduler driven.Scheduler) *QueryController {
	if scheduler == nil {
		scheduler = NewTimerScheduler()
	}
	return &QueryController{
		store:      store,
		version:    version,
		scheduler:  scheduler,
		debounce:   domain.DefaultDebounce,
		fields:     domain.DefaultSearchFields(),
		components: make(map[string]domain.DataComponentResult),
		panels:     NewPanelExpander(),
	}
}

// WithDebounce sets the debounce delay. Non-positive values keep the default.
func (c *QueryController) WithDebounce(d time.Duration) *QueryController {
	if d > 0 {
		c.debounce = d
	}
	return c
}

// WithFields replaces the search field list.
func (c *QueryController) WithFields(fields []domain.SearchField) *QueryController {
	if fields != nil {
		c.fields = slices.Clone(fields)
	}
	return c
}

// OnEvaluated registers a callback run after each debounced evaluation,
// outside the controller lock.
func (c *QueryController) OnEvaluated(fn func(domain.SearchPass, error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onEvaluated = fn
}

// SetQuery updates the live query immediately and schedules an evaluation
// unless one is already pending. Returns true when it scheduled one.
func (c *QueryController) SetQuery(query string) bool {
	c.mu.Lock()
	c.query = query
	if c.pending {
		c.mu.Unlock()
		return false
	}
	c.pending = true
	debounce := c.debounce
	c.mu.Unlock()

	c.scheduler.Schedule(debounce, c.fire)
	return true
}

// fire evaluates the latest query and returns the controller to idle.
func (c *QueryController) fire() {
	c.mu.Lock()
	pass, err := c.evaluate(c.query, false)
	c.pending = false
	onEvaluated := c.onEvaluated
	c.mu.Unlock()

	if err != nil {
		logger.Warn("query evaluation failed: %v", err)
	}
	if onEvaluated != nil {
		onEvaluated(pass, err)
	}
}

// Query returns the live query text.
func (c *QueryController) Query() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// QueryLength returns the length of the live query.
func (c *QueryController) QueryLength() int {
	return len(c.Query())
}

// PreviousQuery returns the query the current results were evaluated against.
func (c *QueryController) PreviousQuery() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.previousQuery
}

// Pending reports whether a debounced evaluation is in flight.
func (c *QueryController) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// GetResults evaluates query now.
//
// A non-empty query containing the previous query narrows the existing
// result sets locally (incremental pass). Anything else, or fieldToggled,
// rebuilds them from the domain store (full rescan). Data component labels
// are always re-filtered from the full label set and panel expansion is
// always recomputed.
func (c *QueryController) GetResults(query string, fieldToggled bool) (domain.SearchPass, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.evaluate(query, fieldToggled)
}

// ToggleField flips a search field and re-evaluates the live query with a
// full rescan, since the match semantics changed rather than the text.
func (c *QueryController) ToggleField(field string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := slices.IndexFunc(c.fields, func(f domain.SearchField) bool {
		return f.Field == field
	})
	if idx < 0 {
		return fmt.Errorf("toggle %q: %w", field, domain.ErrUnknownField)
	}
	c.fields[idx].Enabled = !c.fields[idx].Enabled
	logger.Debug("Field %s enabled=%t", field, c.fields[idx].Enabled)

	_, err := c.evaluate(c.query, true)
	return err
}

// Fields returns a copy of the search field list.
func (c *QueryController) Fields() []domain.SearchField {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.fields)
}

// TogglePanel flips a result panel on behalf of the user.
func (c *QueryController) TogglePanel(panel domain.Panel) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.panels.Toggle(panel)
}

// Reload discards the previous query and rescans the active domain version
// with the live query. Call it when the domain version or its data changes.
func (c *QueryController) Reload() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.previousQuery = ""
	_, err := c.evaluate(c.query, true)
	return err
}

// Results returns a snapshot of the current result sets.
func (c *QueryController) Results() domain.Results {
	c.mu.Lock()
	defer c.mu.Unlock()

	groups := make([]domain.ResultGroup, len(c.groups))
	copy(groups, c.groups)

	components := make(map[string]domain.DataComponentResult, len(c.components))
	for k, v := range c.components {
		components[k] = v
	}

	return domain.Results{
		Query:               c.previousQuery,
		Techniques:          c.techniques,
		Groups:              groups,
		DataComponentLabels: c.labels,
		DataComponents:      components,
		Panels:              c.panels.State(),
	}
}

// evaluate runs one evaluation. Caller must hold the lock.
func (c *QueryController) evaluate(query string, fieldToggled bool) (domain.SearchPass, error) {
	pass := domain.PassFullRescan
	var err error

	if strings.TrimSpace(query) != "" && strings.Contains(query, c.previousQuery) && !fieldToggled {
		pass = domain.PassIncremental
		c.techniques = FilterAndSortTechniques(c.techniques, query, c.fields)
		for i := range c.groups {
			c.groups[i].Objects = FilterAndSort(c.groups[i].Objects, query, c.fields)
		}
	} else {
		err = c.rescan(query)
	}

	c.labels = FilterAndSortLabels(c.allLabels, query)
	c.panels.Update(c.counts())
	c.previousQuery = query

	logger.Debug("Query %q: %s pass, %d techniques, %d labels", query, pass, len(c.techniques), len(c.labels))
	return pass, err
}

// rescan rebuilds every result set from the store. On failure the result
// sets are cleared. Caller must hold the lock.
func (c *QueryController) rescan(query string) error {
	versionID := c.version.DomainVersionID()
	d, err := c.store.Domain(versionID)
	if err != nil {
		c.techniques = nil
		c.groups = nil
		c.components = make(map[string]domain.DataComponentResult)
		c.allLabels = nil
		return fmt.Errorf("rescan %q: %w: %w", versionID, domain.ErrDomainNotLoaded, err)
	}

	c.techniques = FilterAndSortTechniques(d.AllTechniques(), query, c.fields)
	c.groups = []domain.ResultGroup{
		{Label: LabelGroups, Panel: domain.PanelGroups, Objects: FilterAndSort(relatables(d.Groups), query, c.fields)},
		{Label: LabelSoftware, Panel: domain.PanelSoftware, Objects: FilterAndSort(relatables(d.Software), query, c.fields)},
		{Label: LabelMitigations, Panel: domain.PanelMitigations, Objects: FilterAndSort(relatables(d.Mitigations), query, c.fields)},
		{Label: LabelCampaigns, Panel: domain.PanelCampaigns, Objects: FilterAndSort(relatables(d.Campaigns), query, c.fields)},
	}

	c.components = make(map[string]domain.DataComponentResult, len(d.DataComponents))
	c.allLabels = make([]string, 0, len(d.DataComponents))
	for _, dc := range d.DataComponents {
		if !dc.Active() {
			continue
		}
		source := dc.Source(versionID)
		label := source.Name + ": " + dc.Name
		if _, exists := c.components[label]; !exists {
			c.allLabels = append(c.allLabels, label)
		}
		c.components[label] = domain.DataComponentResult{
			Techniques: dc.Techniques(versionID),
			URL:        source.URL,
		}
	}
	return nil
}

func (c *QueryController) counts() domain.PanelCounts {
	groups := make(map[domain.Panel]int, len(c.groups))
	for _, g := range c.groups {
		groups[g.Panel] = len(g.Objects)
	}
	return domain.PanelCounts{
		Techniques:          len(c.techniques),
		Groups:              groups,
		DataComponentLabels: len(c.labels),
	}
}

func relatables[T domain.Relatable](items []T) []domain.Relatable {
	out := make([]domain.Relatable, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}
