package ai

import (
	"context"
	"fmt"
	"strings"
)

const interviewerSystemPrompt = `You are a professional, supportive AI interview agent conducting a mock job interview.

Ask exactly one question per turn. Balance behavioral and technical questions,
ground technical questions in the candidate's stated experience, and never
repeat a question you already asked. Always keep a warm, professional tone.
Respond with the question text only, no preamble.`

// Interviewer phrases the next interview question. Unlike the advisory
// collaborators, a failure here is fatal to the turn: there is no sensible
// fallback question, so the error propagates to the caller.
type Interviewer struct {
	generator Generator
}

func NewInterviewer(generator Generator) *Interviewer {
	return &Interviewer{generator: generator}
}

// NextQuestion builds the interviewer prompt from the conversation history
// plus per-turn extra instructions (tone directive, resume grounding) and
// returns the generated question.
func (iv *Interviewer) NextQuestion(ctx context.Context, history []Message, extraInstructions string) (string, error) {
	var b strings.Builder
	b.WriteString(interviewerSystemPrompt)

	if extra := strings.TrimSpace(extraInstructions); extra != "" {
		b.WriteString("\n\nAdditional instructions for this turn:\n")
		b.WriteString(extra)
	}

	b.WriteString("\n\nConversation so far:\n")
	for _, msg := range history {
		fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Content)
	}
	b.WriteString("\nNext question:")

	question, err := iv.generator.GenerateContent(ctx, b.String())
	if err != nil {
		return "", fmt.Errorf("generate next question: %w", err)
	}
	return strings.TrimSpace(question), nil
}
