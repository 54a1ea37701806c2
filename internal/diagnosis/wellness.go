package diagnosis

import (
	"math/rand/v2"
	"sync"
)

const undeterminedScore = 65

// Band is a half-open wellness score range [Min, Max).
type Band struct {
	Min int
	Max int
}

// Contains reports whether score lies within the band.
func (b Band) Contains(score int) bool {
	return score >= b.Min && score < b.Max
}

var wellnessBands = map[RiskLevel]Band{
	RiskLow:    {Min: 75, Max: 90},
	RiskMedium: {Min: 50, Max: 70},
	RiskHigh:   {Min: 20, Max: 50},
}

// BandFor returns the score band for a risk level. Undetermined (and any
// unknown level) has no band and scores a constant 65.
func BandFor(r RiskLevel) (Band, bool) {
	b, ok := wellnessBands[r]
	return b, ok
}

// WellnessScorer derives a 0-100 wellness score from a risk level.
//
// The score is a presentation heuristic rather than a clinical measure;
// BandedScorer is the current implementation and can be swapped for a real
// scoring model behind this interface.
type WellnessScorer interface {
	Score(r RiskLevel) int
}

// BandedScorer draws a random score inside the band for each risk level.
type BandedScorer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewBandedScorer creates a scorer. A nil src uses the global generator;
// tests pass a seeded source for reproducible scores.
func NewBandedScorer(src rand.Source) *BandedScorer {
	s := &BandedScorer{}
	if src != nil {
		s.rng = rand.New(src)
	}
	return s
}

// Score implements WellnessScorer.
func (s *BandedScorer) Score(r RiskLevel) int {
	band, ok := BandFor(r)
	if !ok {
		return undeterminedScore
	}
	width := band.Max - band.Min
	if s.rng == nil {
		return band.Min + rand.IntN(width)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return band.Min + s.rng.IntN(width)
}
