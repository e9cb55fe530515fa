package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// InterviewPack holds the fixed interview copy and marker word lists: the
// opening prompts, the canned responses for special intents, the coaching
// hints, and the lexical markers the heuristic scorer keys on. Everything has
// a compiled-in default so the service runs without a pack file.
type InterviewPack struct {
	RolePrompt     string   `yaml:"role_prompt"`
	IntroPrompt    string   `yaml:"intro_prompt"`
	TeachRefusal   string   `yaml:"teach_refusal"`
	ClarifyPrefix  string   `yaml:"clarify_prefix"`
	MoveOnPrompt   string   `yaml:"move_on_prompt"`
	CoachingHints  []string `yaml:"coaching_hints"`
	Affirmative    []string `yaml:"affirmative_markers"`
	Explanatory    []string `yaml:"explanatory_markers"`
	Hedges         []string `yaml:"hedge_markers"`
	NervousWords   []string `yaml:"nervous_words"`
	ConfidentWords []string `yaml:"confident_words"`
}

// DefaultInterviewPack returns the pack the service ships with. The prompt
// strings are exact-match contracts with the front end; do not reword them
// without bumping the client.
func DefaultInterviewPack() *InterviewPack {
	return &InterviewPack{
		RolePrompt:    "Which role are you applying for?",
		IntroPrompt:   "Please give me a brief introduction of your previous work experience, education, and key skills.",
		TeachRefusal:  "I can't walk you through the answer during the interview, but I encourage you to reason through it out loud.",
		ClarifyPrefix: "Sure, here is a simpler version of the question: ",
		MoveOnPrompt:  "No problem, let's move on to the next question.",
		CoachingHints: []string{
			"Try to give a structured response using the STAR method.",
			"Focus on measurable outcomes when describing your work.",
			"Speak with confidence—even if you're unsure, walk through your thought process.",
			"Highlight teamwork and collaboration if the question allows it.",
			"If unsure, describe how you would approach solving the problem.",
		},
		Affirmative:    []string{"correct", "is"},
		Explanatory:    []string{"because", "for example", "i think"},
		Hedges:         []string{"not sure", "maybe"},
		NervousWords:   []string{"stress", "worried", "difficult", "confused"},
		ConfidentWords: []string{"excited", "confident", "happy", "sure"},
	}
}

// LoadInterviewPack reads the pack file and overlays it on the defaults, so a
// partial file only overrides what it names. A missing file is not an error.
func LoadInterviewPack(path string) (*InterviewPack, error) {
	pack := DefaultInterviewPack()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return pack, nil
		}
		return nil, fmt.Errorf("failed to read interview pack: %w", err)
	}

	if err := yaml.Unmarshal(data, pack); err != nil {
		return nil, fmt.Errorf("failed to unmarshal interview pack YAML: %w", err)
	}

	return pack, nil
}
