package engagement

import (
	"math"
	"strings"

	"interviewd/internal/models"
)

// Penalty constants for the engagement formula. Additive and clamped, not
// averaged per factor: a missing face plus a negative emotion plus a
// distracted gaze bottoms out at exactly zero.
const (
	noFacePenalty     = 0.5
	negEmotionPenalty = 0.3
	distractedPenalty = 0.2
)

// ToneStrategy selects how a window of samples is summarized into a tone.
type ToneStrategy string

const (
	// StrategyAverage maps the numeric average of engagement scores through
	// fixed thresholds. This is the authoritative default.
	StrategyAverage ToneStrategy = "average"
	// StrategyModal maps the most frequent emotion label in the window
	// through a fixed emotion-to-tone table.
	StrategyModal ToneStrategy = "modal"
)

// emotionTones is the fixed table the modal strategy reads.
var emotionTones = map[string]models.Tone{
	"happy":     models.ToneConfident,
	"fearful":   models.ToneNervous,
	"disgusted": models.ToneDisengaged,
	"surprised": models.ToneCurious,
	"angry":     models.ToneFrustrated,
	"sad":       models.ToneAnxious,
}

// Aggregator derives engagement scores from perception ticks and summarizes
// recent windows into a tone. The negative/distracted label sets are
// configurable; the penalties are policy constants.
type Aggregator struct {
	negativeEmotions map[string]bool
	distractedGazes  map[string]bool
}

// New builds an Aggregator from the configured label sets. Empty slices fall
// back to the default sets.
func New(negativeEmotions, distractedGazes []string) *Aggregator {
	if len(negativeEmotions) == 0 {
		negativeEmotions = []string{"sad", "angry", "disgusted"}
	}
	if len(distractedGazes) == 0 {
		distractedGazes = []string{"down", "away"}
	}
	return &Aggregator{
		negativeEmotions: toSet(negativeEmotions),
		distractedGazes:  toSet(distractedGazes),
	}
}

func toSet(labels []string) map[string]bool {
	set := make(map[string]bool, len(labels))
	for _, l := range labels {
		set[strings.ToLower(strings.TrimSpace(l))] = true
	}
	return set
}

// ScoreSample converts one perception tick into a bounded engagement score.
// Deterministic: the same labels always produce the same score. The applicable
// penalties are summed and subtracted once, and the result is rounded to two
// decimals, so every label combination lands on the exact tenth the formula
// names (sequential subtraction drifts: 1.0-0.3-0.2 is 0.49999999999999994 in
// float64, not 0.5).
func (a *Aggregator) ScoreSample(emotion string, facePresent bool, gaze string) float64 {
	penalty := 0.0
	if !facePresent {
		penalty += noFacePenalty
	}
	if a.negativeEmotions[strings.ToLower(emotion)] {
		penalty += negEmotionPenalty
	}
	if a.distractedGazes[strings.ToLower(gaze)] {
		penalty += distractedPenalty
	}
	return clamp(math.Round((1.0-penalty)*100) / 100)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// SummarizeTone averages the engagement scores of the most recent `limit`
// samples (the slice is expected most-recent-first, as the repository returns
// it) and maps the average through fixed thresholds. No samples means we know
// nothing, which reads as neutral.
func (a *Aggregator) SummarizeTone(samples []models.EngagementSample, limit int) models.Tone {
	if limit <= 0 {
		limit = 3
	}
	if len(samples) > limit {
		samples = samples[:limit]
	}
	if len(samples) == 0 {
		return models.ToneNeutral
	}

	var sum float64
	for _, s := range samples {
		sum += s.EngagementScore
	}
	avg := sum / float64(len(samples))

	switch {
	case avg > 0.85:
		return models.ToneConfident
	case avg > 0.5:
		return models.ToneHesitant
	default:
		return models.ToneNervous
	}
}

// SummarizeToneByEmotion is the alternate strategy: pick the modal emotion in
// the window (ties broken by first-seen order) and look it up in the fixed
// emotion-to-tone table.
func (a *Aggregator) SummarizeToneByEmotion(samples []models.EngagementSample, limit int) models.Tone {
	if limit <= 0 {
		limit = 3
	}
	if len(samples) > limit {
		samples = samples[:limit]
	}
	if len(samples) == 0 {
		return models.ToneNeutral
	}

	counts := make(map[string]int)
	order := make([]string, 0, len(samples))
	for _, s := range samples {
		emotion := strings.ToLower(s.Emotion)
		if counts[emotion] == 0 {
			order = append(order, emotion)
		}
		counts[emotion]++
	}

	modal, best := "", 0
	for _, emotion := range order {
		if counts[emotion] > best {
			modal, best = emotion, counts[emotion]
		}
	}

	if tone, ok := emotionTones[modal]; ok {
		return tone
	}
	return models.ToneNeutral
}

// Summarize dispatches on the configured strategy.
func (a *Aggregator) Summarize(strategy ToneStrategy, samples []models.EngagementSample, limit int) models.Tone {
	if strategy == StrategyModal {
		return a.SummarizeToneByEmotion(samples, limit)
	}
	return a.SummarizeTone(samples, limit)
}
