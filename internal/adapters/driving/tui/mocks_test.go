package tui

import (
	"github.com/custodia-labs/stixnav/internal/core/domain"
)

// MockQueryController implements driving.QueryController for app tests.
type MockQueryController struct {
	query   string
	results domain.Results
	reloads int
}

func (m *MockQueryController) SetQuery(query string) bool {
	m.query = query
	return false
}

func (m *MockQueryController) Query() string { return m.query }
func (m *MockQueryController) QueryLength() int { return len(m.query) }
func (m *MockQueryController) Pending() bool { return false }
func (m *MockQueryController) ToggleField(string) error { return nil }
func (m *MockQueryController) TogglePanel(domain.Panel) {}
func (m *MockQueryController) Results() domain.Results { return m.results }

func (m *MockQueryController) OnEvaluated(func(domain.SearchPass, error)) {}

func (m *MockQueryController) GetResults(string, bool) (domain.SearchPass, error) {
	return domain.PassFullRescan, nil
}

func (m *MockQueryController) Fields() []domain.SearchField {
	return domain.DefaultSearchFields()
}

func (m *MockQueryController) Reload() error {
	m.reloads++
	return nil
}

// MockSelectionService implements driving.SelectionService for app tests.
type MockSelectionService struct {
	selected int
	leaves   int
}

func (m *MockSelectionService) Select(domain.StixObject) { m.selected++ }
func (m *MockSelectionService) Deselect(domain.StixObject) { m.selected-- }
func (m *MockSelectionService) SelectAll([]domain.StixObject) {}
func (m *MockSelectionService) DeselectAll([]domain.StixObject) {}
func (m *MockSelectionService) MouseEnter(domain.StixObject) {}
func (m *MockSelectionService) MouseEnterAll([]*domain.Technique) {}
func (m *MockSelectionService) MouseLeave() { m.leaves++ }
