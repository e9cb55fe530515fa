package scoring

import (
	"context"
	"errors"
	"testing"

	"interviewd/internal/models"

	"go.uber.org/zap"
)

type stubGenerator struct {
	response string
	err      error
	calls    int
}

func (s *stubGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	s.calls++
	return s.response, s.err
}

func newModelScorer(gen *stubGenerator) *ModelScorer {
	return NewModelScorer(gen, DefaultWeights(), zap.NewNop())
}

func TestModelScorerValidJSON(t *testing.T) {
	gen := &stubGenerator{
		response: `{"relevance": 1.0, "accuracy": 0.9, "completeness": 0.24, "clarity": 0.5, "hallucination": "Valid"}`,
	}
	result := newModelScorer(gen).Score(context.Background(), "q", "a", "resume text")

	if result.Hallucination != models.VerdictValid {
		t.Fatalf("verdict = %s, want Valid", result.Hallucination)
	}
	if result.Subscores.Accuracy != 0.9 {
		t.Fatalf("accuracy = %v, want 0.9", result.Subscores.Accuracy)
	}
	if result.Score != 0.71 {
		t.Fatalf("score = %v, want 0.71", result.Score)
	}
}

func TestModelScorerCodeFencedJSON(t *testing.T) {
	gen := &stubGenerator{
		response: "```json\n{\"relevance\": 0.5, \"accuracy\": 0.5, \"completeness\": 0.5, \"clarity\": 0.5, \"hallucination\": \"Speculative\"}\n```",
	}
	result := newModelScorer(gen).Score(context.Background(), "q", "a", "")

	if result.Hallucination != models.VerdictSpeculative {
		t.Fatalf("verdict = %s, want Speculative", result.Hallucination)
	}
	if result.Score != 0.5 {
		t.Fatalf("score = %v, want 0.5", result.Score)
	}
}

func TestModelScorerDegradedPaths(t *testing.T) {
	cases := []struct {
		name string
		gen  *stubGenerator
	}{
		{"generator error", &stubGenerator{err: errors.New("deadline exceeded")}},
		{"malformed json", &stubGenerator{response: "I'd rate this answer about a 7/10."}},
		{"missing key", &stubGenerator{response: `{"relevance": 1, "accuracy": 1, "clarity": 1, "hallucination": "Valid"}`}},
		{"non-numeric subscore", &stubGenerator{response: `{"relevance": "high", "accuracy": 1, "completeness": 1, "clarity": 1, "hallucination": "Valid"}`}},
		{"out of range", &stubGenerator{response: `{"relevance": 1.5, "accuracy": 1, "completeness": 1, "clarity": 1, "hallucination": "Valid"}`}},
		{"bad verdict", &stubGenerator{response: `{"relevance": 1, "accuracy": 1, "completeness": 1, "clarity": 1, "hallucination": "Probably fine"}`}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := newModelScorer(tc.gen).Score(context.Background(), "q", "a", "")
			if result.Score != 0.5 {
				t.Fatalf("degraded score = %v, want 0.5", result.Score)
			}
			if result.Hallucination != models.VerdictUnknown {
				t.Fatalf("degraded verdict = %s, want Unknown", result.Hallucination)
			}
			if result.Subscores != (models.Subscores{}) {
				t.Fatalf("degraded subscores not empty: %+v", result.Subscores)
			}
		})
	}
}

func TestModelScorerEmptyGroundingPlaceholder(t *testing.T) {
	gen := &stubGenerator{
		response: `{"relevance": 1, "accuracy": 1, "completeness": 1, "clarity": 1, "hallucination": "Valid"}`,
	}
	newModelScorer(gen).Score(context.Background(), "q", "a", "   ")
	if gen.calls != 1 {
		t.Fatalf("expected one judge call, got %d", gen.calls)
	}
}
