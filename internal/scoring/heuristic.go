package scoring

import (
	"context"
	"strings"

	"interviewd/internal/models"
)

// HeuristicScorer is the fast, local strategy: no external calls, so it is
// also the degradation target when the language-model collaborator is
// unavailable or too slow. The thresholds below are policy constants, not
// derived values. They must match the historical scoring behavior exactly.
type HeuristicScorer struct {
	weights     Weights
	affirmative []string
	explanatory []string
	hedges      []string
}

// NewHeuristicScorer builds the scorer with the marker lists from the
// interview pack. Empty lists fall back to the stock markers.
func NewHeuristicScorer(weights Weights, affirmative, explanatory, hedges []string) *HeuristicScorer {
	if weights.total() == 0 {
		weights = DefaultWeights()
	}
	if len(affirmative) == 0 {
		affirmative = []string{"correct", "is"}
	}
	if len(explanatory) == 0 {
		explanatory = []string{"because", "for example", "i think"}
	}
	if len(hedges) == 0 {
		hedges = []string{"not sure", "maybe"}
	}
	return &HeuristicScorer{
		weights:     weights,
		affirmative: affirmative,
		explanatory: explanatory,
		hedges:      hedges,
	}
}

// Score implements Scorer. Pure local computation; the grounding context is
// accepted for interface symmetry but unused by this strategy.
func (h *HeuristicScorer) Score(_ context.Context, question, answer, _ string) Result {
	sub := h.subscores(question, answer)
	return Result{
		Subscores:     sub,
		Score:         Reduce(sub, h.weights),
		Hallucination: h.verdict(answer),
	}
}

func (h *HeuristicScorer) subscores(question, answer string) models.Subscores {
	ans := strings.ToLower(answer)
	q := strings.ToLower(question)

	var sub models.Subscores

	// Relevance: 0.6 floor; any question token appearing in the answer
	// raises it to 1.0, never lowers it.
	sub.Relevance = 0.6
	for _, word := range strings.Fields(q) {
		if strings.Contains(ans, word) {
			sub.Relevance = 1.0
			break
		}
	}

	sub.Accuracy = 0.6
	for _, marker := range h.affirmative {
		if strings.Contains(ans, marker) {
			sub.Accuracy = 0.9
			break
		}
	}

	// Completeness: word-count ramp. Five words or fewer is no credit.
	nWords := len(strings.Fields(strings.TrimSpace(answer)))
	if nWords > 5 {
		sub.Completeness = float64(nWords) / 25
		if sub.Completeness > 1.0 {
			sub.Completeness = 1.0
		}
	}

	sub.Clarity = 0.5
	for _, marker := range h.explanatory {
		if strings.Contains(ans, marker) {
			sub.Clarity = 0.8
			break
		}
	}
	if sub.Clarity != 0.8 && strings.ContainsAny(answer, ".!?") {
		sub.Clarity = 0.8
	}

	return sub
}

func (h *HeuristicScorer) verdict(answer string) models.Verdict {
	ans := strings.ToLower(answer)
	for _, hedge := range h.hedges {
		if strings.Contains(ans, hedge) {
			return models.VerdictSpeculative
		}
	}
	if len(strings.TrimSpace(answer)) < 5 {
		return models.VerdictHallucination
	}
	return models.VerdictValid
}
