package form

import (
	"fmt"

	"github.com/telsim/onboard/model"
)

// ValidationResult is the outcome of validating a form. Errors are keyed by
// "section.field" (or "documents.<field>" for missing uploads). The result is
// recomputed in full on every call; no rule short-circuits another, so all
// simultaneous violations surface together.
type ValidationResult struct {
	IsValid bool              `json:"is_valid"`
	Errors  map[string]string `json:"errors"`
}

// Rule validates one field of one section. When Required is set an absent or
// blank value fails; Check, when present, runs against the string form of a
// present value. When is an optional applicability predicate, used for rules
// that only bind for a given customer type.
type Rule struct {
	Section  string
	Field    string
	Required bool
	Check    CheckFunc
	When     func(sections model.Sections) bool
}

// DocumentRule requires at least one uploaded document for a field slot.
type DocumentRule struct {
	Field string
	When  func(sections model.Sections) bool
}

// CrossRule validates a relation between fields. It returns the error key and
// message, or "" when the rule passes.
type CrossRule func(sections model.Sections) (key, message string)

// Ruleset is the full validation contract of one wizard.
type Ruleset struct {
	Rules     []Rule
	Documents []DocumentRule
	Cross     []CrossRule
}

// Validate runs every rule against the given sections and document sets.
// It never mutates its inputs.
func (r *Ruleset) Validate(sections model.Sections, documents map[string][]model.Document) ValidationResult {
	errors := make(map[string]string)

	for _, rule := range r.Rules {
		if rule.When != nil && !rule.When(sections) {
			continue
		}
		key := rule.Section + "." + rule.Field
		value := sections.Get(rule.Section, rule.Field)

		if !required(value) {
			if rule.Required {
				errors[key] = fmt.Sprintf("%s is required", rule.Field)
			} else if rule.Check != nil {
				// Optional fields still run their format check on empty
				// strings so checks like CIN can decide for themselves.
				if s, ok := value.(string); ok {
					if msg := rule.Check(s); msg != "" {
						errors[key] = msg
					}
				}
			}
			continue
		}

		if rule.Check != nil {
			if s, ok := value.(string); ok {
				if msg := rule.Check(s); msg != "" {
					errors[key] = msg
				}
			}
		}
	}

	for _, rule := range r.Documents {
		if rule.When != nil && !rule.When(sections) {
			continue
		}
		if len(documents[rule.Field]) == 0 {
			errors["documents."+rule.Field] = fmt.Sprintf("%s document is required", rule.Field)
		}
	}

	for _, cross := range r.Cross {
		if key, msg := cross(sections); msg != "" {
			errors[key] = msg
		}
	}

	return ValidationResult{IsValid: len(errors) == 0, Errors: errors}
}
