package intent

import (
	"context"
	"fmt"
	"strings"

	"interviewd/internal/models"
	"interviewd/internal/util"

	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

const classifyPrompt = `You are a strict intent classifier for interview candidates.

Given the interview question and the candidate's response, classify their intent as:

- "clarify" -> asking to rephrase or simplify the question
- "teach" -> asking the AI to explain the answer
- "other" -> normal answer or unrelated

Respond with a single word only: clarify, teach, or other.

Question: %s
User Input: %s`

// Classifier asks a language-model collaborator to classify a candidate
// utterance against the current question. The single-word response contract
// is enforced here: anything the collaborator returns that is not exactly one
// of the three labels is coerced to "other", and so is any collaborator
// failure. Classify therefore never returns an error; proceeding normally is
// the safe default.
type Classifier struct {
	generator contentGenerator
	logger    *zap.Logger
}

func New(generator contentGenerator, logger *zap.Logger) *Classifier {
	return &Classifier{generator: generator, logger: logger}
}

// Classify returns the candidate's intent for this utterance.
func (c *Classifier) Classify(ctx context.Context, question, utterance string) models.Intent {
	prompt := fmt.Sprintf(classifyPrompt, question, utterance)

	raw, err := c.generator.GenerateContent(ctx, prompt)
	if err != nil {
		c.logger.Warn("intent classification failed, defaulting to other", zap.Error(err))
		return models.IntentOther
	}

	switch models.Intent(strings.ToLower(strings.TrimSpace(raw))) {
	case models.IntentClarify:
		return models.IntentClarify
	case models.IntentTeach:
		return models.IntentTeach
	case models.IntentOther:
		return models.IntentOther
	}

	c.logger.Debug("unrecognized intent label coerced to other",
		zap.String("label", util.TruncateForLog(raw, 80)))
	return models.IntentOther
}
