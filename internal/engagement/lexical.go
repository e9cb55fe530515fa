package engagement

import (
	"strings"

	"interviewd/internal/models"
)

// ToneFromAnswers is the resume-free fallback: when a session has no
// perception samples at all, infer a coarse tone from the lexical content of
// recent answers. Marker lists come from the interview pack.
func ToneFromAnswers(answers []string, nervousWords, confidentWords []string) models.Tone {
	if len(answers) == 0 {
		return models.ToneNeutral
	}

	text := strings.ToLower(strings.Join(answers, " "))

	for _, word := range nervousWords {
		if strings.Contains(text, word) {
			return models.ToneNervous
		}
	}
	for _, word := range confidentWords {
		if strings.Contains(text, word) {
			return models.ToneConfident
		}
	}
	return models.ToneNeutral
}
