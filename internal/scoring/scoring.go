package scoring

import (
	"context"
	"math"

	"interviewd/internal/models"
)

// Result is one rubric evaluation: four normalized subscores, their weighted
// reduction, and the hallucination verdict.
type Result struct {
	Subscores     models.Subscores
	Score         float64
	Hallucination models.Verdict
}

// Scorer evaluates a (question, answer, grounding context) triple. A Scorer
// never fails: the model-assisted strategy resolves collaborator failures
// internally by returning a degraded result, and the heuristic strategy is
// pure local computation.
type Scorer interface {
	Score(ctx context.Context, question, answer, groundingContext string) Result
}

// Weights holds the rubric weighting. The defaults are a compatibility
// contract: every historical score was produced with 2/3/2/1.
type Weights struct {
	Relevance    float64
	Accuracy     float64
	Completeness float64
	Clarity      float64
}

// DefaultWeights returns the fixed production weighting.
func DefaultWeights() Weights {
	return Weights{Relevance: 2, Accuracy: 3, Completeness: 2, Clarity: 1}
}

func (w Weights) total() float64 {
	return w.Relevance + w.Accuracy + w.Completeness + w.Clarity
}

// Reduce collapses subscores to one scalar: the weighted mean rounded to
// three decimal places. The rounding is part of the contract, exact-match
// tests depend on it.
func Reduce(sub models.Subscores, w Weights) float64 {
	total := w.total()
	if total == 0 {
		return 0
	}
	weighted := sub.Relevance*w.Relevance +
		sub.Accuracy*w.Accuracy +
		sub.Completeness*w.Completeness +
		sub.Clarity*w.Clarity
	return math.Round(weighted/total*1000) / 1000
}
