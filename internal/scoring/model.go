package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"interviewd/internal/models"
	"interviewd/internal/util"

	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

const judgePrompt = `You are a precise grading AI for technical interviews.

Evaluate the candidate's answer to the interview question below. Use the
resume context, when provided, to judge whether claims are grounded.

--- Interview Question ---
%s

--- Candidate's Answer ---
%s

--- Resume Context (optional) ---
%s

Respond with strict JSON only, no prose and no code fences:
{"relevance": <0..1>, "accuracy": <0..1>, "completeness": <0..1>, "clarity": <0..1>, "hallucination": "Valid"|"Speculative"|"Hallucination"}`

// ModelScorer delegates the rubric judgment to a language-model collaborator.
// The collaborator call is fallible (timeout, malformed JSON, missing keys);
// every failure path collapses to the same degraded-but-valid result so the
// orchestrator never sees a scorer error.
type ModelScorer struct {
	generator contentGenerator
	weights   Weights
	logger    *zap.Logger
}

func NewModelScorer(generator contentGenerator, weights Weights, logger *zap.Logger) *ModelScorer {
	if weights.total() == 0 {
		weights = DefaultWeights()
	}
	return &ModelScorer{generator: generator, weights: weights, logger: logger}
}

// Score implements Scorer.
func (m *ModelScorer) Score(ctx context.Context, question, answer, groundingContext string) Result {
	grounding := groundingContext
	if strings.TrimSpace(grounding) == "" {
		grounding = "[None provided]"
	}

	prompt := fmt.Sprintf(judgePrompt, question, answer, grounding)

	raw, err := m.generator.GenerateContent(ctx, prompt)
	if err != nil {
		m.logger.Warn("judge call failed, returning degraded result", zap.Error(err))
		return degradedResult()
	}

	result, err := m.parse(raw)
	if err != nil {
		m.logger.Warn("judge response rejected, returning degraded result",
			zap.Error(err),
			zap.String("response_preview", util.TruncateForLog(raw, 200)),
		)
		return degradedResult()
	}

	return result
}

func (m *ModelScorer) parse(raw string) (Result, error) {
	cleaned := util.ExtractJSON(raw)

	var payload map[string]any
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return Result{}, fmt.Errorf("parse judge response: %w", err)
	}

	var sub models.Subscores
	fields := []struct {
		key  string
		dest *float64
	}{
		{"relevance", &sub.Relevance},
		{"accuracy", &sub.Accuracy},
		{"completeness", &sub.Completeness},
		{"clarity", &sub.Clarity},
	}
	for _, f := range fields {
		value, ok := payload[f.key]
		if !ok {
			return Result{}, fmt.Errorf("judge response missing key %q", f.key)
		}
		num, ok := value.(float64)
		if !ok {
			return Result{}, fmt.Errorf("judge key %q is not numeric", f.key)
		}
		if num < 0 || num > 1 {
			return Result{}, fmt.Errorf("judge key %q out of range: %v", f.key, num)
		}
		*f.dest = num
	}

	verdict, err := parseVerdict(payload["hallucination"])
	if err != nil {
		return Result{}, err
	}

	return Result{
		Subscores:     sub,
		Score:         Reduce(sub, m.weights),
		Hallucination: verdict,
	}, nil
}

func parseVerdict(v any) (models.Verdict, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("judge verdict is not a string")
	}
	switch models.Verdict(strings.TrimSpace(s)) {
	case models.VerdictValid:
		return models.VerdictValid, nil
	case models.VerdictSpeculative:
		return models.VerdictSpeculative, nil
	case models.VerdictHallucination:
		return models.VerdictHallucination, nil
	}
	return "", fmt.Errorf("unrecognized judge verdict %q", s)
}

func degradedResult() Result {
	return Result{
		Subscores:     models.Subscores{},
		Score:         0.5,
		Hallucination: models.VerdictUnknown,
	}
}
