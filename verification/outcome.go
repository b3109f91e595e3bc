package verification

import (
	"fmt"
	"math/rand"
	"sync"
)

// OutcomePolicy decides the result of every simulated external draw. The
// demo services draw outcomes randomly; tests inject a seeded or scripted
// policy so runs are reproducible instead of flaky.
type OutcomePolicy interface {
	// Draw returns true with the given probability (0..1).
	Draw(probability float64) bool
	// Digits returns n random decimal digits, e.g. an OTP code.
	Digits(n int) string
	// IntN returns a uniform value in [0, n).
	IntN(n int) int
}

type randomOutcomes struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomOutcomes returns the production policy, seeded from seed. Use a
// fixed seed in tests for deterministic draws.
func NewRandomOutcomes(seed int64) OutcomePolicy {
	return &randomOutcomes{rng: rand.New(rand.NewSource(seed))}
}

func (r *randomOutcomes) Draw(probability float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Float64() < probability
}

func (r *randomOutcomes) Digits(n int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]byte, n)
	for i := range out {
		out[i] = byte('0' + r.rng.Intn(10))
	}
	return string(out)
}

func (r *randomOutcomes) IntN(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(n)
}

// ScriptedOutcomes replays a fixed sequence of draws. Once the script is
// exhausted every further draw passes. Digits cycles through Codes.
type ScriptedOutcomes struct {
	mu    sync.Mutex
	Draws []bool
	Codes []string
	drawn int
	coded int
}

func (s *ScriptedOutcomes) Draw(probability float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drawn >= len(s.Draws) {
		return true
	}
	v := s.Draws[s.drawn]
	s.drawn++
	return v
}

func (s *ScriptedOutcomes) Digits(n int) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Codes) == 0 {
		return fmt.Sprintf("%0*d", n, 0)
	}
	code := s.Codes[s.coded%len(s.Codes)]
	s.coded++
	return code
}

func (s *ScriptedOutcomes) IntN(n int) int {
	return 0
}
