package coaching

import "math/rand"

// lowEngagementThreshold is the mean engagement below which a hint fires.
const lowEngagementThreshold = 0.6

// Advisor surfaces one hint from a fixed list when recent engagement is low.
// Coaching is advisory only: callers swallow any upstream read failure and
// treat it as "no hint".
type Advisor struct {
	hints []string
	rng   *rand.Rand
}

// New builds an Advisor. The random source is injected so tests can seed it.
func New(hints []string, rng *rand.Rand) *Advisor {
	return &Advisor{hints: hints, rng: rng}
}

// Hint returns one hint chosen uniformly at random when the mean of the
// recent engagement scores is below the threshold, otherwise the empty
// string. An empty window always yields no hint.
func (a *Advisor) Hint(recentScores []float64) string {
	if len(recentScores) == 0 || len(a.hints) == 0 {
		return ""
	}

	var sum float64
	for _, s := range recentScores {
		sum += s
	}
	mean := sum / float64(len(recentScores))

	if mean >= lowEngagementThreshold {
		return ""
	}
	return a.hints[a.rng.Intn(len(a.hints))]
}
