package engagement

import (
	"testing"

	"interviewd/internal/models"
)

func samplesFromScores(scores []float64) []models.EngagementSample {
	samples := make([]models.EngagementSample, len(scores))
	for i, s := range scores {
		samples[i] = models.EngagementSample{EngagementScore: s}
	}
	return samples
}

func TestScoreSampleBounds(t *testing.T) {
	agg := New(nil, nil)

	emotions := []string{"happy", "neutral", "sad", "angry", "surprised", "disgusted", "fearful"}
	gazes := []string{"center", "left", "right", "up", "down", "away"}

	for _, emotion := range emotions {
		for _, gaze := range gazes {
			for _, face := range []bool{true, false} {
				score := agg.ScoreSample(emotion, face, gaze)
				if score < 0 || score > 1 {
					t.Fatalf("score out of bounds for (%s, %v, %s): %v", emotion, face, gaze, score)
				}
				// Pure function: same inputs, same output.
				if again := agg.ScoreSample(emotion, face, gaze); again != score {
					t.Fatalf("score not deterministic for (%s, %v, %s)", emotion, face, gaze)
				}
			}
		}
	}
}

func TestScoreSampleFullPenalty(t *testing.T) {
	agg := New(nil, nil)
	if got := agg.ScoreSample("angry", false, "away"); got != 0.0 {
		t.Fatalf("expected 0.0, got %v", got)
	}
}

func TestScoreSampleNoPenalty(t *testing.T) {
	agg := New(nil, nil)
	if got := agg.ScoreSample("happy", true, "center"); got != 1.0 {
		t.Fatalf("expected 1.0, got %v", got)
	}
}

func TestScoreSamplePartialPenalties(t *testing.T) {
	agg := New(nil, nil)

	// Exact equality on purpose: penalty combinations must land on the
	// precise tenth the formula names, with no float drift.
	cases := []struct {
		emotion string
		face    bool
		gaze    string
		want    float64
	}{
		{"sad", true, "center", 0.7},
		{"happy", false, "center", 0.5},
		{"happy", true, "down", 0.8},
		{"disgusted", true, "away", 0.5},
		{"angry", false, "center", 0.2},
		{"happy", false, "away", 0.3},
	}
	for _, tc := range cases {
		if got := agg.ScoreSample(tc.emotion, tc.face, tc.gaze); got != tc.want {
			t.Fatalf("ScoreSample(%s, %v, %s) = %v, want %v", tc.emotion, tc.face, tc.gaze, got, tc.want)
		}
	}
}

func TestSummarizeToneEmpty(t *testing.T) {
	agg := New(nil, nil)
	if got := agg.SummarizeTone(nil, 3); got != models.ToneNeutral {
		t.Fatalf("expected neutral for empty window, got %s", got)
	}
}

func TestSummarizeToneThresholds(t *testing.T) {
	agg := New(nil, nil)

	cases := []struct {
		scores []float64
		want   models.Tone
	}{
		{[]float64{0.9, 0.95, 0.88}, models.ToneConfident},
		{[]float64{0.6, 0.55}, models.ToneHesitant},
		{[]float64{0.2, 0.1}, models.ToneNervous},
		{[]float64{0.5}, models.ToneNervous}, // boundary: avg must exceed 0.5
	}
	for _, tc := range cases {
		if got := agg.SummarizeTone(samplesFromScores(tc.scores), 3); got != tc.want {
			t.Fatalf("SummarizeTone(%v) = %s, want %s", tc.scores, got, tc.want)
		}
	}
}

func TestSummarizeToneWindowLimit(t *testing.T) {
	agg := New(nil, nil)

	// Most recent first: only the first three should count.
	scores := []float64{0.9, 0.9, 0.9, 0.1, 0.1, 0.1}
	if got := agg.SummarizeTone(samplesFromScores(scores), 3); got != models.ToneConfident {
		t.Fatalf("expected confident from the three most recent samples, got %s", got)
	}
}

func TestSummarizeToneByEmotion(t *testing.T) {
	agg := New(nil, nil)

	cases := []struct {
		emotions []string
		want     models.Tone
	}{
		{[]string{"happy", "happy", "sad"}, models.ToneConfident},
		{[]string{"fearful", "fearful"}, models.ToneNervous},
		{[]string{"disgusted"}, models.ToneDisengaged},
		{[]string{"surprised", "surprised", "neutral"}, models.ToneCurious},
		{[]string{"neutral"}, models.ToneNeutral},
		// Tie: first-seen emotion wins.
		{[]string{"angry", "happy", "angry", "happy"}, models.ToneFrustrated},
	}
	for _, tc := range cases {
		samples := make([]models.EngagementSample, len(tc.emotions))
		for i, e := range tc.emotions {
			samples[i] = models.EngagementSample{Emotion: e}
		}
		if got := agg.SummarizeToneByEmotion(samples, len(samples)); got != tc.want {
			t.Fatalf("SummarizeToneByEmotion(%v) = %s, want %s", tc.emotions, got, tc.want)
		}
	}
}

func TestSummarizeToneByEmotionEmpty(t *testing.T) {
	agg := New(nil, nil)
	if got := agg.SummarizeToneByEmotion(nil, 3); got != models.ToneNeutral {
		t.Fatalf("expected neutral, got %s", got)
	}
}

func TestToneFromAnswers(t *testing.T) {
	nervous := []string{"stress", "worried", "difficult", "confused"}
	confident := []string{"excited", "confident", "happy", "sure"}

	cases := []struct {
		answers []string
		want    models.Tone
	}{
		{nil, models.ToneNeutral},
		{[]string{"That was a difficult project."}, models.ToneNervous},
		{[]string{"I'm excited about distributed systems."}, models.ToneConfident},
		{[]string{"I worked on payments."}, models.ToneNeutral},
		// Nervous markers take precedence when both appear.
		{[]string{"I was worried but excited."}, models.ToneNervous},
	}
	for _, tc := range cases {
		if got := ToneFromAnswers(tc.answers, nervous, confident); got != tc.want {
			t.Fatalf("ToneFromAnswers(%v) = %s, want %s", tc.answers, got, tc.want)
		}
	}
}
