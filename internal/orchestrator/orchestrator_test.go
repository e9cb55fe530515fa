package orchestrator

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"interviewd/internal/ai"
	"interviewd/internal/coaching"
	"interviewd/internal/engagement"
	"interviewd/internal/livestate"
	"interviewd/internal/models"
	"interviewd/internal/scoring"

	"go.uber.org/zap"
)

type fakeTurnLog struct {
	turns      []*models.Turn
	appendErr  error
	samples    []models.EngagementSample
	samplesErr error
}

func (f *fakeTurnLog) AppendTurn(ctx context.Context, turn *models.Turn) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.turns = append(f.turns, turn)
	return nil
}

func (f *fakeTurnLog) RecentSamples(ctx context.Context, sessionID string, limit int) ([]models.EngagementSample, error) {
	return f.samples, f.samplesErr
}

type fakeClassifier struct {
	intent models.Intent
	calls  int
}

func (f *fakeClassifier) Classify(ctx context.Context, question, utterance string) models.Intent {
	f.calls++
	return f.intent
}

type fakeInterviewer struct {
	question    string
	err         error
	calls       int
	lastExtra   string
	lastHistory []ai.Message
}

func (f *fakeInterviewer) NextQuestion(ctx context.Context, history []ai.Message, extraInstructions string) (string, error) {
	f.calls++
	f.lastHistory = history
	f.lastExtra = extraInstructions
	return f.question, f.err
}

type fakeRetriever struct {
	passages []string
	err      error
	calls    int
}

func (f *fakeRetriever) RelevantPassages(ctx context.Context, candidateID, query string, k int) ([]string, error) {
	f.calls++
	return f.passages, f.err
}

type fixedScorer struct {
	result scoring.Result
	calls  int
}

func (f *fixedScorer) Score(ctx context.Context, question, answer, groundingContext string) scoring.Result {
	f.calls++
	return f.result
}

type fixture struct {
	log         *fakeTurnLog
	live        livestate.Store
	scorer      *fixedScorer
	classifier  *fakeClassifier
	interviewer *fakeInterviewer
	retriever   *fakeRetriever
	pack        *models.InterviewPack
	orch        *Orchestrator
}

func newFixture(t *testing.T, hints []string) *fixture {
	t.Helper()

	live, err := livestate.NewStore(livestate.DriverMemory)
	if err != nil {
		t.Fatalf("livestate.NewStore: %v", err)
	}
	t.Cleanup(func() { live.Close() })

	f := &fixture{
		log:  &fakeTurnLog{},
		live: live,
		scorer: &fixedScorer{result: scoring.Result{
			Subscores:     models.Subscores{Relevance: 1, Accuracy: 0.9, Completeness: 0.8, Clarity: 0.7},
			Score:         0.875,
			Hallucination: models.VerdictValid,
		}},
		classifier:  &fakeClassifier{intent: models.IntentOther},
		interviewer: &fakeInterviewer{question: "How would you debug a goroutine leak?"},
		retriever:   &fakeRetriever{},
		pack:        models.DefaultInterviewPack(),
	}
	f.orch = New(
		f.log,
		f.live,
		f.scorer,
		f.classifier,
		f.interviewer,
		f.retriever,
		engagement.New(nil, nil),
		coaching.New(hints, rand.New(rand.NewSource(1))),
		f.pack,
		Options{ToneStrategy: engagement.StrategyAverage, ToneWindow: 3, RetrievalK: 3},
		zap.NewNop(),
	)
	return f
}

// adaptiveHistory is a conversation past both opening prompts, with the
// current question as the final assistant message.
func adaptiveHistory(pack *models.InterviewPack) []ai.Message {
	return []ai.Message{
		{Role: "assistant", Content: pack.RolePrompt},
		{Role: "user", Content: "Backend engineer"},
		{Role: "assistant", Content: pack.IntroPrompt},
		{Role: "user", Content: "I built Go services for five years."},
		{Role: "assistant", Content: "What is a goroutine?"},
	}
}

func TestStateFor(t *testing.T) {
	pack := models.DefaultInterviewPack()

	cases := []struct {
		name    string
		history []ai.Message
		want    State
	}{
		{"empty", nil, StateAwaitingRole},
		{"assistant only", []ai.Message{{Role: "assistant", Content: pack.RolePrompt}}, StateAwaitingRole},
		{"one answer", []ai.Message{{Role: "user", Content: "Backend engineer"}}, StateAwaitingIntro},
		{"two answers", adaptiveHistory(pack), StateAdaptive},
		{"sentinels do not count", []ai.Message{
			{Role: "user", Content: models.SentinelEmpty},
			{Role: "user", Content: models.SentinelSkip},
			{Role: "user", Content: "   "},
		}, StateAwaitingRole},
	}
	for _, tc := range cases {
		if got := StateFor(tc.history); got != tc.want {
			t.Fatalf("%s: StateFor = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestOpeningPrompts(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	out, err := f.orch.HandleUtterance(ctx, Request{SessionID: "s1", Utterance: "hello"})
	if err != nil {
		t.Fatalf("HandleUtterance: %v", err)
	}
	if out.Reply != f.pack.RolePrompt || out.State != StateAwaitingRole {
		t.Fatalf("got (%q, %s), want role prompt", out.Reply, out.State)
	}
	if out.Score != nil || out.TurnPersisted {
		t.Fatal("opening prompts must not score or persist")
	}

	// The asked question lands in live state.
	state, err := f.live.Get(ctx, "s1")
	if err != nil || state == nil || state.LastQuestion != f.pack.RolePrompt {
		t.Fatalf("live state after role prompt = (%v, %v)", state, err)
	}

	history := []ai.Message{
		{Role: "assistant", Content: f.pack.RolePrompt},
		{Role: "user", Content: "Backend engineer"},
	}
	out, err = f.orch.HandleUtterance(ctx, Request{SessionID: "s1", History: history, Utterance: "Backend engineer"})
	if err != nil {
		t.Fatalf("HandleUtterance: %v", err)
	}
	if out.Reply != f.pack.IntroPrompt || out.State != StateAwaitingIntro {
		t.Fatalf("got (%q, %s), want intro prompt", out.Reply, out.State)
	}
	if f.scorer.calls != 0 || f.interviewer.calls != 0 {
		t.Fatal("no collaborators should run during the opening prompts")
	}
}

func TestAdaptiveTurn(t *testing.T) {
	f := newFixture(t, nil)
	f.retriever.passages = []string{"Led the payments migration at Acme.", "Five years of Go."}
	f.log.samples = []models.EngagementSample{
		{EngagementScore: 0.9}, {EngagementScore: 0.95}, {EngagementScore: 0.92},
	}

	answer := "A goroutine is a lightweight thread scheduled by the Go runtime."
	out, err := f.orch.HandleUtterance(context.Background(), Request{
		SessionID:   "s1",
		CandidateID: "cand-1",
		History:     adaptiveHistory(f.pack),
		Utterance:   answer,
	})
	if err != nil {
		t.Fatalf("HandleUtterance: %v", err)
	}

	if out.State != StateAdaptive || !out.TurnPersisted {
		t.Fatalf("state=%s persisted=%v", out.State, out.TurnPersisted)
	}
	if out.Reply != f.interviewer.question {
		t.Fatalf("reply = %q, want next question", out.Reply)
	}
	if out.Score == nil || *out.Score != 0.875 {
		t.Fatalf("score = %v, want 0.875", out.Score)
	}
	if out.Subscores == nil || out.Subscores.Accuracy != 0.9 {
		t.Fatalf("subscores = %+v", out.Subscores)
	}
	if out.Hallucination != models.VerdictValid {
		t.Fatalf("verdict = %s", out.Hallucination)
	}
	if out.Tone != models.ToneConfident {
		t.Fatalf("tone = %s, want confident", out.Tone)
	}

	if len(f.log.turns) != 1 {
		t.Fatalf("persisted %d turns, want 1", len(f.log.turns))
	}
	turn := f.log.turns[0]
	if turn.Answer != answer {
		t.Fatalf("turn answer = %q", turn.Answer)
	}
	if turn.Question == nil || *turn.Question != "What is a goroutine?" {
		t.Fatalf("turn question = %v, want previous question", turn.Question)
	}

	// The tone directive and the grounding passages both reach the
	// question generator.
	if !strings.Contains(f.interviewer.lastExtra, "confident") {
		t.Fatalf("extra instructions missing tone: %q", f.interviewer.lastExtra)
	}
	if !strings.Contains(f.interviewer.lastExtra, "payments migration") {
		t.Fatalf("extra instructions missing grounding: %q", f.interviewer.lastExtra)
	}

	// The new answer is appended to the history the generator sees.
	last := f.interviewer.lastHistory[len(f.interviewer.lastHistory)-1]
	if last.Role != "user" || last.Content != answer {
		t.Fatalf("generator history tail = %+v", last)
	}
}

func TestSentinelsSkipScoring(t *testing.T) {
	for _, sentinel := range []string{models.SentinelEmpty, models.SentinelSkip} {
		f := newFixture(t, nil)
		out, err := f.orch.HandleUtterance(context.Background(), Request{
			SessionID: "s1",
			History:   adaptiveHistory(f.pack),
			Utterance: sentinel,
		})
		if err != nil {
			t.Fatalf("HandleUtterance(%s): %v", sentinel, err)
		}
		if out.Reply != f.pack.MoveOnPrompt {
			t.Fatalf("reply for %s = %q, want move-on prompt", sentinel, out.Reply)
		}
		if out.TurnPersisted || len(f.log.turns) != 0 {
			t.Fatalf("%s must not persist a turn", sentinel)
		}
		if f.scorer.calls != 0 || f.classifier.calls != 0 || f.interviewer.calls != 0 {
			t.Fatalf("%s must not reach any collaborator", sentinel)
		}
	}
}

func TestTeachIntent(t *testing.T) {
	f := newFixture(t, nil)
	f.classifier.intent = models.IntentTeach

	out, err := f.orch.HandleUtterance(context.Background(), Request{
		SessionID: "s1",
		History:   adaptiveHistory(f.pack),
		Utterance: "Can you just tell me the answer?",
	})
	if err != nil {
		t.Fatalf("HandleUtterance: %v", err)
	}
	if out.Reply != f.pack.TeachRefusal {
		t.Fatalf("reply = %q, want teach refusal", out.Reply)
	}
	if out.TurnPersisted || f.scorer.calls != 0 {
		t.Fatal("teach turns are not scored or persisted")
	}
}

func TestClarifyIntent(t *testing.T) {
	f := newFixture(t, nil)
	f.classifier.intent = models.IntentClarify

	out, err := f.orch.HandleUtterance(context.Background(), Request{
		SessionID: "s1",
		History:   adaptiveHistory(f.pack),
		Utterance: "Could you rephrase that?",
	})
	if err != nil {
		t.Fatalf("HandleUtterance: %v", err)
	}
	want := f.pack.ClarifyPrefix + "What is a goroutine?"
	if out.Reply != want {
		t.Fatalf("reply = %q, want %q", out.Reply, want)
	}
	if out.TurnPersisted {
		t.Fatal("clarify turns are not persisted")
	}
}

func TestQuestionGenerationFailureAbortsTurn(t *testing.T) {
	f := newFixture(t, nil)
	f.interviewer.err = errors.New("model unavailable")

	_, err := f.orch.HandleUtterance(context.Background(), Request{
		SessionID: "s1",
		History:   adaptiveHistory(f.pack),
		Utterance: "An honest answer.",
	})
	if err == nil {
		t.Fatal("expected an error when question generation fails")
	}
	if len(f.log.turns) != 0 {
		t.Fatal("no turn may be persisted for an aborted turn")
	}
}

func TestPersistFailureAbortsTurn(t *testing.T) {
	f := newFixture(t, nil)
	f.log.appendErr = errors.New("connection refused")

	_, err := f.orch.HandleUtterance(context.Background(), Request{
		SessionID: "s1",
		History:   adaptiveHistory(f.pack),
		Utterance: "An honest answer.",
	})
	if err == nil {
		t.Fatal("expected an error when persistence fails")
	}
}

func TestRetrievalFailureDegrades(t *testing.T) {
	f := newFixture(t, nil)
	f.retriever.err = errors.New("qdrant unreachable")

	out, err := f.orch.HandleUtterance(context.Background(), Request{
		SessionID: "s1",
		History:   adaptiveHistory(f.pack),
		Utterance: "An honest answer.",
	})
	if err != nil {
		t.Fatalf("retrieval failure must not abort the turn: %v", err)
	}
	if !out.TurnPersisted {
		t.Fatal("turn should complete without grounding")
	}
	if strings.Contains(f.interviewer.lastExtra, "resume context") {
		t.Fatalf("no grounding should reach the generator: %q", f.interviewer.lastExtra)
	}
}

func TestToneReadFailureDegradesToNeutral(t *testing.T) {
	f := newFixture(t, nil)
	f.log.samplesErr = errors.New("timeout")

	out, err := f.orch.HandleUtterance(context.Background(), Request{
		SessionID: "s1",
		History:   adaptiveHistory(f.pack),
		Utterance: "An honest answer.",
	})
	if err != nil {
		t.Fatalf("tone failure must not abort the turn: %v", err)
	}
	if out.Tone != models.ToneNeutral {
		t.Fatalf("tone = %s, want neutral", out.Tone)
	}
}

func TestLexicalToneFallback(t *testing.T) {
	f := newFixture(t, nil)
	// No perception samples at all: tone comes from the answer text.
	history := adaptiveHistory(f.pack)
	history[3].Content = "That project was difficult and I was worried the whole time."

	out, err := f.orch.HandleUtterance(context.Background(), Request{
		SessionID: "s1",
		History:   history,
		Utterance: "An honest answer.",
	})
	if err != nil {
		t.Fatalf("HandleUtterance: %v", err)
	}
	if out.Tone != models.ToneNervous {
		t.Fatalf("tone = %s, want nervous from lexical fallback", out.Tone)
	}
}

func TestHintAppendedOnLowEngagement(t *testing.T) {
	f := newFixture(t, []string{"Take a breath and structure your answer."})
	f.log.samples = []models.EngagementSample{
		{EngagementScore: 0.2}, {EngagementScore: 0.3}, {EngagementScore: 0.1},
	}

	out, err := f.orch.HandleUtterance(context.Background(), Request{
		SessionID: "s1",
		History:   adaptiveHistory(f.pack),
		Utterance: "An honest answer.",
	})
	if err != nil {
		t.Fatalf("HandleUtterance: %v", err)
	}
	if !strings.Contains(out.Reply, "\n\nHint: Take a breath") {
		t.Fatalf("reply missing hint: %q", out.Reply)
	}
	if !strings.HasPrefix(out.Reply, f.interviewer.question) {
		t.Fatalf("hint must follow the question: %q", out.Reply)
	}
}

func TestPreviousQuestionPrefersLiveState(t *testing.T) {
	f := newFixture(t, nil)
	f.classifier.intent = models.IntentClarify
	ctx := context.Background()

	if err := f.live.Create(ctx, &livestate.State{SessionID: "s1", LastQuestion: "Explain channel select."}); err != nil {
		t.Fatalf("live.Create: %v", err)
	}

	out, err := f.orch.HandleUtterance(ctx, Request{
		SessionID: "s1",
		History:   adaptiveHistory(f.pack),
		Utterance: "Could you simplify?",
	})
	if err != nil {
		t.Fatalf("HandleUtterance: %v", err)
	}
	want := f.pack.ClarifyPrefix + "Explain channel select."
	if out.Reply != want {
		t.Fatalf("reply = %q, want %q", out.Reply, want)
	}
}
