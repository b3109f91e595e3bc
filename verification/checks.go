package verification

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/telsim/onboard/config"
	"github.com/telsim/onboard/model"
)

// Classification buckets a check score. The thresholds come from config —
// they are review policy, not invariants.
type Classification string

const (
	ClassAccepted    Classification = "accepted-high-confidence"
	ClassNeedsReview Classification = "needs-review"
	ClassRejected    Classification = "rejected"
)

// SubCheck is one independently drawn boolean probe inside a scored check.
type SubCheck struct {
	Name     string  `json:"name"`
	Weight   int     `json:"weight"`
	PassRate float64 `json:"-"`
	Passed   bool    `json:"passed"`
}

// CheckResult aggregates a check's sub-checks into a 0-100 score and its
// classification.
type CheckResult struct {
	Reference      string         `json:"reference"`
	Checks         []SubCheck     `json:"checks"`
	Score          int            `json:"score"`
	Classification Classification `json:"classification"`
	CheckedAt      time.Time      `json:"checked_at"`
}

// CheckRunner draws sub-check outcomes through the outcome policy and scores
// them. Each run is independent: a retry after a rejection draws fresh
// outcomes and is not guaranteed to converge.
type CheckRunner struct {
	outcomes OutcomePolicy
}

func NewCheckRunner(outcomes OutcomePolicy) *CheckRunner {
	return &CheckRunner{outcomes: outcomes}
}

func (r *CheckRunner) run(reference string, checks []SubCheck) (*CheckResult, error) {
	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	total := 0
	score := 0
	for i := range checks {
		checks[i].Passed = checks[i].PassRate >= 1 || r.outcomes.Draw(checks[i].PassRate)
		total += checks[i].Weight
		if checks[i].Passed {
			score += checks[i].Weight
		}
	}
	if total > 0 {
		score = score * 100 / total
	}

	result := &CheckResult{
		Reference:      reference,
		Checks:         checks,
		Score:          score,
		Classification: classify(score, cnf.Verification),
		CheckedAt:      time.Now(),
	}
	logrus.WithFields(logrus.Fields{
		"reference":      reference,
		"score":          score,
		"classification": result.Classification,
	}).Info("verification check completed")
	return result, nil
}

func classify(score int, cnf config.VerificationConfig) Classification {
	switch {
	case score >= cnf.AcceptThreshold:
		return ClassAccepted
	case score >= cnf.ReviewThreshold:
		return ClassNeedsReview
	default:
		return ClassRejected
	}
}

// DocumentCheck probes an uploaded document for issuer validity, tampering
// and expiry.
func (r *CheckRunner) DocumentCheck(_ context.Context, doc model.Document) (*CheckResult, error) {
	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	return r.run(doc.DocumentID, []SubCheck{
		{Name: "issuer_verified", Weight: 40, PassRate: cnf.Verification.IssuerPassRate},
		{Name: "tampering_absent", Weight: 40, PassRate: cnf.Verification.TamperPassRate},
		{Name: "expiry_valid", Weight: 20, PassRate: cnf.Verification.ExpiryPassRate},
	})
}

// FaceMatchCheck compares a live capture against the registry photo. The
// name-similarity probe is deterministic: it passes when the normalized
// Levenshtein distance between the submitted and registry names stays small.
func (r *CheckRunner) FaceMatchCheck(_ context.Context, reference, submittedName, registryName string) (*CheckResult, error) {
	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	nameRate := 0.0
	if namesMatch(submittedName, registryName) {
		nameRate = 1.0
	}
	return r.run(reference, []SubCheck{
		{Name: "face_match", Weight: 60, PassRate: cnf.Verification.FacePassRate},
		{Name: "liveness", Weight: 20, PassRate: cnf.Verification.FacePassRate},
		{Name: "name_match", Weight: 20, PassRate: nameRate},
	})
}

// TerritoryCheck verifies the service address falls inside a licensed
// service area.
func (r *CheckRunner) TerritoryCheck(_ context.Context, reference string) (*CheckResult, error) {
	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}
	return r.run(reference, []SubCheck{
		{Name: "territory_match", Weight: 70, PassRate: cnf.Verification.TerritoryPassRate},
		{Name: "serviceability", Weight: 30, PassRate: cnf.Verification.TerritoryPassRate},
	})
}

// namesMatch allows for minor spelling drift between registries: at most two
// edits for names longer than five characters, exact match below that.
func namesMatch(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return false
	}
	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
	if len(a) > 5 {
		return distance <= 2
	}
	return distance == 0
}
