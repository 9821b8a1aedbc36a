package services

import (
	"github.com/custodia-labs/stixnav/internal/core/domain"
	"github.com/custodia-labs/stixnav/internal/core/ports/driven"
	"github.com/custodia-labs/stixnav/internal/core/ports/driving"
	"github.com/custodia-labs/stixnav/internal/logger"
)

// Ensure SelectionService implements the interface.
var _ driving.SelectionService = (*SelectionService)(nil)

// hoverOptions highlight a related set, sub-techniques included.
var hoverOptions = domain.SelectOptions{WalkChildren: true, HighlightOnly: true}

// SelectionService propagates selection and hover actions onto a view model.
// Techniques are mutated directly; groups, software, mitigations and
// campaigns are resolved to their related techniques first.
type SelectionService struct {
	resolver  *RelationshipResolver
	viewModel driven.ViewModel
	notifier  driven.SelectionNotifier // optional
}

// NewSelectionService creates a selection service for one view model.
// notifier may be nil, in which case no selection-changed signal is sent.
func NewSelectionService(
	resolver *RelationshipResolver,
	viewModel driven.ViewModel,
	notifier driven.SelectionNotifier,
) *SelectionService {
	return &SelectionService{
		resolver:  resolver,
		viewModel: viewModel,
		notifier:  notifier,
	}
}

// Select selects a technique across tactics, or every technique a relatable
// object relates to. Signals once per call.
func (s *SelectionService) Select(obj domain.StixObject) {
	s.apply(obj, func(t *domain.Technique) {
		s.viewModel.SelectTechniqueAcrossTactics(t, domain.SelectOptions{})
	})
	s.notify()
}

// Deselect reverses Select. Signals once per call.
func (s *SelectionService) Deselect(obj domain.StixObject) {
	s.apply(obj, s.viewModel.UnselectTechniqueAcrossTactics)
	s.notify()
}

// SelectAll applies Select to each item, signalling once per item.
// No further signal follows the batch, so an empty batch signals nothing.
func (s *SelectionService) SelectAll(items []domain.StixObject) {
	for _, item := range items {
		s.Select(item)
	}
}

// DeselectAll applies Deselect to each item, signalling once per item.
// No further signal follows the batch, so an empty batch signals nothing.
func (s *SelectionService) DeselectAll(items []domain.StixObject) {
	for _, item := range items {
		s.Deselect(item)
	}
}

// MouseEnter highlights a technique, or the related set of a relatable
// object together with their sub-techniques. Selection is untouched.
func (s *SelectionService) MouseEnter(obj domain.StixObject) {
	if t, ok := obj.(*domain.Technique); ok {
		s.viewModel.HighlightTechnique(t)
		return
	}
	for _, t := range s.related(obj) {
		s.viewModel.SelectTechniqueAcrossTactics(t, hoverOptions)
	}
}

// MouseEnterAll highlights each technique.
func (s *SelectionService) MouseEnterAll(techniques []*domain.Technique) {
	for _, t := range techniques {
		s.viewModel.HighlightTechnique(t)
	}
}

// MouseLeave clears every highlight.
func (s *SelectionService) MouseLeave() {
	s.viewModel.ClearHighlight()
}

func (s *SelectionService) apply(obj domain.StixObject, fn func(*domain.Technique)) {
	if t, ok := obj.(*domain.Technique); ok {
		fn(t)
		return
	}
	for _, t := range s.related(obj) {
		fn(t)
	}
}

// related resolves obj against the view's domain version. Resolution
// failures are logged and yield no techniques.
func (s *SelectionService) related(obj domain.StixObject) []*domain.Technique {
	techniques, err := s.resolver.Related(obj, s.viewModel.DomainVersionID())
	if err != nil {
		logger.Warn("selection: %v", err)
		return nil
	}
	return techniques
}

func (s *SelectionService) notify() {
	if s.notifier != nil {
		s.notifier.SelectionChanged()
	}
}
