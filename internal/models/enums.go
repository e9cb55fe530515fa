package models

// Sentinel tokens the voice front end substitutes for missing speech.
// These are part of the wire contract and must not be rephrased.
const (
	SentinelEmpty = "[EMPTY]"
	SentinelSkip  = "[SKIP]"
)

// IsSentinel reports whether an utterance is one of the reserved non-speech tokens.
func IsSentinel(utterance string) bool {
	return utterance == SentinelEmpty || utterance == SentinelSkip
}

// Verdict is the hallucination judgment attached to a scored answer.
type Verdict string

const (
	VerdictValid         Verdict = "Valid"
	VerdictSpeculative   Verdict = "Speculative"
	VerdictHallucination Verdict = "Hallucination"
	VerdictUnknown       Verdict = "Unknown"
)

// Tone is a categorical summary of recent candidate affect, used to steer
// question phrasing.
type Tone string

const (
	ToneConfident  Tone = "confident"
	ToneHesitant   Tone = "hesitant"
	ToneNervous    Tone = "nervous"
	ToneNeutral    Tone = "neutral"
	ToneCurious    Tone = "curious"
	ToneFrustrated Tone = "frustrated"
	ToneAnxious    Tone = "anxious"
	ToneDisengaged Tone = "disengaged"
)

// Intent classifies a candidate utterance against the current question.
type Intent string

const (
	IntentClarify Intent = "clarify"
	IntentTeach   Intent = "teach"
	IntentOther   Intent = "other"
)

// validEmotions and validGazes are the perception collaborator's label sets.
// Samples carrying anything else are rejected at the API boundary.
var validEmotions = map[string]bool{
	"happy":     true,
	"neutral":   true,
	"sad":       true,
	"angry":     true,
	"surprised": true,
	"disgusted": true,
	"fearful":   true,
}

var validGazes = map[string]bool{
	"center": true,
	"left":   true,
	"right":  true,
	"up":     true,
	"down":   true,
	"away":   true,
}

// ValidEmotion reports whether the label is in the fixed emotion enumeration.
func ValidEmotion(label string) bool {
	return validEmotions[label]
}

// ValidGaze reports whether the label is in the fixed gaze enumeration.
func ValidGaze(label string) bool {
	return validGazes[label]
}
