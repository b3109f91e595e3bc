package form

import (
	"sync"

	"github.com/telsim/onboard/model"
)

// ValidationPolicy controls when a form re-validates: on every update (the
// eager wizards) or only when the caller asks at submit time.
type ValidationPolicy string

const (
	ValidateEager    ValidationPolicy = "eager"
	ValidateOnSubmit ValidationPolicy = "on-submit"
)

// ReleaseFunc releases the storage behind a removed document.
type ReleaseFunc func(doc model.Document) error

// Observer is notified after each committed field update.
type Observer func(section, field string, value interface{})

// State is the single source of truth for one wizard's inputs. Updates are
// atomic per section/field pair; the validator only ever reads it.
type State struct {
	mu        sync.RWMutex
	sections  model.Sections
	documents map[string][]model.Document
	ruleset   *Ruleset
	policy    ValidationPolicy
	release   ReleaseFunc
	observers []Observer
	last      ValidationResult
}

// NewState builds a form state pre-seeded with defaults. Every field a rule
// or later step reads must appear in defaults so reads never miss.
func NewState(defaults model.Sections, ruleset *Ruleset, policy ValidationPolicy) *State {
	sections := make(model.Sections, len(defaults))
	for name, fields := range defaults {
		sections[name] = make(map[string]interface{}, len(fields))
		for field, value := range fields {
			sections[name][field] = value
		}
	}
	return &State{
		sections:  sections,
		documents: make(map[string][]model.Document),
		ruleset:   ruleset,
		policy:    policy,
		last:      ValidationResult{IsValid: true, Errors: map[string]string{}},
	}
}

// SetReleaseFunc wires the blob releaser used when documents are removed or
// the whole form is discarded.
func (s *State) SetReleaseFunc(f ReleaseFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.release = f
}

// Subscribe registers an observer called after every committed update.
func (s *State) Subscribe(o Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Update replaces the value at section.field. Under the eager policy the
// whole form is re-validated and the fresh result returned; under on-submit
// the stored result is left untouched and nil is returned.
func (s *State) Update(section, field string, value interface{}) *ValidationResult {
	s.mu.Lock()
	if s.sections[section] == nil {
		s.sections[section] = make(map[string]interface{})
	}
	s.sections[section][field] = value
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)

	var result *ValidationResult
	if s.policy == ValidateEager && s.ruleset != nil {
		r := s.ruleset.Validate(s.sections, s.documents)
		s.last = r
		result = &r
	}
	s.mu.Unlock()

	for _, o := range observers {
		o(section, field, value)
	}
	return result
}

// Get returns the value at section.field, or nil when absent.
func (s *State) Get(section, field string) interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sections.Get(section, field)
}

// String returns the value at section.field as a string, or "" when the
// field is absent or not a string.
func (s *State) String(section, field string) string {
	v, _ := s.Get(section, field).(string)
	return v
}

// AddDocument stages an uploaded document under its field slot.
func (s *State) AddDocument(doc model.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.Field] = append(s.documents[doc.Field], doc)
}

// RemoveDocument drops a staged document and releases its blob.
func (s *State) RemoveDocument(field, documentID string) error {
	s.mu.Lock()
	var removed *model.Document
	docs := s.documents[field]
	for i, d := range docs {
		if d.DocumentID == documentID {
			removed = &d
			s.documents[field] = append(docs[:i], docs[i+1:]...)
			break
		}
	}
	release := s.release
	s.mu.Unlock()

	if removed != nil && release != nil {
		return release(*removed)
	}
	return nil
}

// Documents returns a copy of the staged documents for one field slot.
func (s *State) Documents(field string) []model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Document, len(s.documents[field]))
	copy(out, s.documents[field])
	return out
}

// AllDocuments flattens every staged document across field slots.
func (s *State) AllDocuments() []model.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Document
	for _, docs := range s.documents {
		out = append(out, docs...)
	}
	return out
}

// Validate runs the full ruleset regardless of policy and stores the result.
func (s *State) Validate() ValidationResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ruleset == nil {
		return ValidationResult{IsValid: true, Errors: map[string]string{}}
	}
	s.last = s.ruleset.Validate(s.sections, s.documents)
	return s.last
}

// LastResult returns the most recent validation result.
func (s *State) LastResult() ValidationResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Snapshot deep-copies the section data, e.g. for building a submission.
func (s *State) Snapshot() model.Sections {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(model.Sections, len(s.sections))
	for name, fields := range s.sections {
		out[name] = make(map[string]interface{}, len(fields))
		for field, value := range fields {
			out[name][field] = value
		}
	}
	return out
}

// Discard releases every staged document. Call when the wizard is abandoned;
// the blobs have no other lifecycle.
func (s *State) Discard() error {
	s.mu.Lock()
	docs := s.documents
	s.documents = make(map[string][]model.Document)
	release := s.release
	s.mu.Unlock()

	if release == nil {
		return nil
	}
	var firstErr error
	for _, list := range docs {
		for _, d := range list {
			if err := release(d); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}
