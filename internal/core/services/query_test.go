package services

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/stixnav/internal/core/domain"
)

func newTestController(t *testing.T) (*fixture, *QueryController, *manualScheduler) {
	t.Helper()
	f := newFixture()
	sched := &manualScheduler{}
	c := NewQueryController(f.store, StaticVersion(testVersion), sched)
	require.NoError(t, c.Reload())
	return f, c, sched
}

func groupNames(r domain.Results, panel domain.Panel) []string {
	g, _ := r.Group(panel)
	return objectNames(g.Objects)
}

func TestQueryController_ReloadLoadsEverything(t *testing.T) {
	f, c, _ := newTestController(t)

	r := c.Results()

	assert.Equal(t, []string{f.interpreter.ID, f.phishing.ID, f.spearphish.ID}, techniqueIDs(r.Techniques))
	assert.Equal(t, []string{"APT28", "Lazarus Group"}, groupNames(r, domain.PanelGroups))
	assert.Equal(t, []string{"Mimikatz"}, groupNames(r, domain.PanelSoftware))
	assert.Equal(t, []string{"User Training"}, groupNames(r, domain.PanelMitigations))
	assert.Equal(t, []string{"Operation Dream Job"}, groupNames(r, domain.PanelCampaigns))
	assert.Equal(t, []string{
		"Network Traffic: Network Traffic Content",
		"Process: Process Creation",
	}, r.DataComponentLabels)
	assert.Equal(t, domain.PanelState{true}, r.Panels)
}

func TestQueryController_ResultGroupOrder(t *testing.T) {
	_, c, _ := newTestController(t)

	r := c.Results()

	require.Len(t, r.Groups, 4)
	assert.Equal(t, LabelGroups, r.Groups[0].Label)
	assert.Equal(t, LabelSoftware, r.Groups[1].Label)
	assert.Equal(t, LabelMitigations, r.Groups[2].Label)
	assert.Equal(t, LabelCampaigns, r.Groups[3].Label)
}

func TestQueryController_Passes(t *testing.T) {
	_, c, _ := newTestController(t)

	tests := []struct {
		query        string
		fieldToggled bool
		want         domain.SearchPass
	}{
		{"phi", false, domain.PassIncremental},
		{"phis", false, domain.PassIncremental},
		{"phish", false, domain.PassIncremental},
		{"phi", false, domain.PassFullRescan},
		{"phil", false, domain.PassIncremental},
		{"phil", true, domain.PassFullRescan},
		{"", false, domain.PassFullRescan},
		{"   ", false, domain.PassFullRescan},
	}

	for _, tt := range tests {
		pass, err := c.GetResults(tt.query, tt.fieldToggled)
		require.NoError(t, err)
		assert.Equal(t, tt.want, pass, "query %q toggled=%t", tt.query, tt.fieldToggled)
	}
}

func TestQueryController_RefinementIsSubset(t *testing.T) {
	_, c, _ := newTestController(t)

	_, err := c.GetResults("phish", false)
	require.NoError(t, err)
	broad := techniqueIDs(c.Results().Techniques)

	pass, err := c.GetResults("phishing", false)
	require.NoError(t, err)
	narrow := techniqueIDs(c.Results().Techniques)

	assert.Equal(t, domain.PassIncremental, pass)
	assert.Subset(t, broad, narrow)
}

func TestQueryController_PreviousQueryFollowsIncrementalPass(t *testing.T) {
	f, c, _ := newTestController(t)

	_, err := c.GetResults("a", false)
	require.NoError(t, err)

	pass, err := c.GetResults("ad", false)
	require.NoError(t, err)
	require.Equal(t, domain.PassIncremental, pass)
	assert.NotContains(t, groupNames(c.Results(), domain.PanelGroups), "APT28")

	// "at" extends "a" but not "ad", so it must not narrow the "ad" results.
	pass, err = c.GetResults("at", false)
	require.NoError(t, err)
	assert.Equal(t, domain.PassFullRescan, pass)
	r := c.Results()
	assert.Contains(t, groupNames(r, domain.PanelGroups), "APT28")
	fields := domain.DefaultSearchFields()
	assert.Equal(t, techniqueIDs(FilterAndSortTechniques(f.domain.AllTechniques(), "at", fields)), techniqueIDs(r.Techniques))
}

func TestQueryController_IncrementalDoesNotReadStore(t *testing.T) {
	f, c, _ := newTestController(t)
	_, err := c.GetResults("phish", false)
	require.NoError(t, err)

	require.NoError(t, f.store.Remove(testVersion))

	pass, err := c.GetResults("phishing messages", false)
	require.NoError(t, err)
	assert.Equal(t, domain.PassIncremental, pass)
	assert.Equal(t, []string{f.phishing.ID}, techniqueIDs(c.Results().Techniques))
}

func TestQueryController_FullRescanWithoutDomainClearsResults(t *testing.T) {
	f, c, _ := newTestController(t)
	require.NoError(t, f.store.Remove(testVersion))

	pass, err := c.GetResults("", false)

	assert.Equal(t, domain.PassFullRescan, pass)
	assert.ErrorIs(t, err, domain.ErrDomainNotLoaded)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	r := c.Results()
	assert.True(t, r.Empty())
	assert.False(t, r.Panels.AnyExpanded())
}

func TestQueryController_SearchesEveryCollection(t *testing.T) {
	f, c, _ := newTestController(t)

	_, err := c.GetResults("phish", false)
	require.NoError(t, err)
	r := c.Results()

	assert.Equal(t, []string{f.phishing.ID, f.spearphish.ID}, techniqueIDs(r.Techniques))
	assert.Equal(t, []string{"User Training"}, groupNames(r, domain.PanelMitigations))
	assert.Empty(t, groupNames(r, domain.PanelGroups))
	assert.Empty(t, r.DataComponentLabels)
	assert.Equal(t, domain.PanelState{true}, r.Panels)
	assert.Equal(t, "phish", r.Query)
}

func TestQueryController_NoTechniqueResultsOpensGroupPanels(t *testing.T) {
	_, c, _ := newTestController(t)

	_, err := c.GetResults("lazarus", false)
	require.NoError(t, err)
	r := c.Results()

	assert.Empty(t, r.Techniques)
	assert.Equal(t, []string{"Lazarus Group"}, groupNames(r, domain.PanelGroups))
	assert.Equal(t, []string{"Operation Dream Job"}, groupNames(r, domain.PanelCampaigns))
	assert.Equal(t, domain.PanelState{false, true, false, true, false, false}, r.Panels)
}

func TestQueryController_LabelsRefilteredFromFullSet(t *testing.T) {
	f, c, _ := newTestController(t)

	_, err := c.GetResults("process", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Process: Process Creation"}, c.Results().DataComponentLabels)

	// Labels are re-filtered from the full label set on every pass.
	_, err = c.GetResults("process creation", false)
	require.NoError(t, err)
	r := c.Results()
	assert.Equal(t, []string{"Process: Process Creation"}, r.DataComponentLabels)
	assert.Equal(t, []string{f.interpreter.ID}, techniqueIDs(r.DataComponentTechniques()))
	assert.Equal(t, "https://attack.mitre.org/datasources/DS0009", r.DataComponents["Process: Process Creation"].URL)
}

func TestQueryController_DeprecatedDataComponentsSkipped(t *testing.T) {
	_, c, _ := newTestController(t)

	r := c.Results()

	assert.NotContains(t, r.DataComponentLabels, "Legacy: Old Component")
	assert.NotContains(t, r.DataComponents, "Legacy: Old Component")
}

func TestQueryController_SetQueryDebounces(t *testing.T) {
	f, c, sched := newTestController(t)

	assert.True(t, c.SetQuery("p"))
	assert.False(t, c.SetQuery("ph"))
	assert.False(t, c.SetQuery("lazarus"))

	assert.Equal(t, "lazarus", c.Query())
	assert.Equal(t, 7, c.QueryLength())
	assert.True(t, c.Pending())
	assert.Equal(t, 1, sched.Scheduled())
	assert.Equal(t, domain.DefaultDebounce, sched.delays[0])

	// Results stay stale until the timer fires.
	assert.Len(t, c.Results().Techniques, 3)

	require.True(t, sched.Fire())

	assert.False(t, c.Pending())
	assert.Equal(t, "lazarus", c.PreviousQuery())
	assert.Empty(t, c.Results().Techniques)

	assert.True(t, c.SetQuery("phish"))
	assert.Equal(t, 2, sched.Scheduled())
	require.True(t, sched.Fire())
	assert.Equal(t, []string{f.phishing.ID, f.spearphish.ID}, techniqueIDs(c.Results().Techniques))
}

func TestQueryController_OnEvaluated(t *testing.T) {
	_, c, sched := newTestController(t)
	var passes []domain.SearchPass
	c.OnEvaluated(func(pass domain.SearchPass, err error) {
		assert.NoError(t, err)
		passes = append(passes, pass)
	})

	c.SetQuery("phish")
	sched.Fire()
	c.SetQuery("ph")
	sched.Fire()

	assert.Equal(t, []domain.SearchPass{domain.PassIncremental, domain.PassFullRescan}, passes)
}

func TestQueryController_WithDebounce(t *testing.T) {
	f := newFixture()
	sched := &manualScheduler{}
	c := NewQueryController(f.store, StaticVersion(testVersion), sched).WithDebounce(50 * time.Millisecond)

	c.SetQuery("x")

	assert.Equal(t, 50*time.Millisecond, sched.delays[0])

	c.WithDebounce(0)
	sched.Fire()
	c.SetQuery("y")
	assert.Equal(t, 50*time.Millisecond, sched.delays[1])
}

func TestQueryController_ToggleField(t *testing.T) {
	f, c, sched := newTestController(t)
	c.SetQuery("T1566")
	sched.Fire()
	require.Len(t, c.Results().Techniques, 2)

	require.NoError(t, c.ToggleField(domain.FieldAttackID))

	fields := c.Fields()
	assert.False(t, fields[1].Enabled)
	assert.Empty(t, c.Results().Techniques)

	require.NoError(t, c.ToggleField(domain.FieldAttackID))
	assert.Equal(t, []string{f.phishing.ID, f.spearphish.ID}, techniqueIDs(c.Results().Techniques))
}

func TestQueryController_ToggleFieldUnknown(t *testing.T) {
	_, c, _ := newTestController(t)

	err := c.ToggleField("aliases")

	assert.ErrorIs(t, err, domain.ErrUnknownField)
}

func TestQueryController_FieldToggleForcesRescanOnEmptyQuery(t *testing.T) {
	_, c, _ := newTestController(t)

	pass, err := c.GetResults("", true)

	require.NoError(t, err)
	assert.Equal(t, domain.PassFullRescan, pass)
}

func TestQueryController_FieldsIsCopy(t *testing.T) {
	_, c, _ := newTestController(t)

	fields := c.Fields()
	fields[0].Enabled = false

	assert.True(t, c.Fields()[0].Enabled)
}

func TestQueryController_WithFields(t *testing.T) {
	f := newFixture()
	c := NewQueryController(f.store, StaticVersion(testVersion), &manualScheduler{}).
		WithFields(onlyFields(domain.FieldName))

	_, err := c.GetResults("adversaries", true)

	require.NoError(t, err)
	assert.Empty(t, c.Results().Techniques)
}

func TestQueryController_TogglePanelOverridesHeuristic(t *testing.T) {
	_, c, _ := newTestController(t)

	c.TogglePanel(domain.PanelSoftware)
	_, err := c.GetResults("lazarus", false)
	require.NoError(t, err)

	assert.Equal(t, domain.PanelState{true, false, true, false, false, false}, c.Results().Panels)
}

func TestQueryController_ReloadUsesLiveQuery(t *testing.T) {
	f, c, sched := newTestController(t)
	c.SetQuery("attachment")
	sched.Fire()

	f.spearphish.Name = "Spearphishing Link"
	f.spearphish.Description = "Adversaries may send emails with a malicious link."
	require.NoError(t, c.Reload())

	assert.Empty(t, c.Results().Techniques)
}

func TestQueryController_TimerScheduler(t *testing.T) {
	f := newFixture()
	c := NewQueryController(f.store, StaticVersion(testVersion), nil).WithDebounce(10 * time.Millisecond)
	require.NoError(t, c.Reload())
	var fired atomic.Int32
	c.OnEvaluated(func(domain.SearchPass, error) { fired.Add(1) })

	c.SetQuery("phish")
	c.SetQuery("phishing")

	require.Eventually(t, func() bool { return fired.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{f.phishing.ID, f.spearphish.ID}, techniqueIDs(c.Results().Techniques))
	assert.Equal(t, "phishing", c.PreviousQuery())
	assert.False(t, c.Pending())
}
