package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"interviewd/internal/ai"
	"interviewd/internal/coaching"
	"interviewd/internal/engagement"
	"interviewd/internal/livestate"
	"interviewd/internal/models"
	"interviewd/internal/retrieval"
	"interviewd/internal/scoring"

	"go.uber.org/zap"
)

// State is the interview phase, derived from how many real answers the
// candidate has given so far. Real answers exclude the sentinel tokens.
type State string

const (
	StateAwaitingRole  State = "AWAITING_ROLE"
	StateAwaitingIntro State = "AWAITING_INTRO"
	StateAdaptive      State = "ADAPTIVE"
)

// turnLog is the slice of the repository the orchestrator needs.
type turnLog interface {
	AppendTurn(ctx context.Context, turn *models.Turn) error
	RecentSamples(ctx context.Context, sessionID string, limit int) ([]models.EngagementSample, error)
}

// intentClassifier classifies an utterance against the current question.
type intentClassifier interface {
	Classify(ctx context.Context, question, utterance string) models.Intent
}

// questionGenerator phrases the next interview question.
type questionGenerator interface {
	NextQuestion(ctx context.Context, history []ai.Message, extraInstructions string) (string, error)
}

// Request is one incoming candidate utterance plus the conversation history
// the client maintains. The utterance is the newest input and is not yet part
// of History.
type Request struct {
	SessionID   string
	CandidateID string
	History     []ai.Message
	Utterance   string
}

// Outcome is what one turn produces. Score is nil on the unscored paths
// (opening prompts, special intents, sentinels).
type Outcome struct {
	Reply         string
	State         State
	Score         *float64
	Subscores     *models.Subscores
	Hallucination models.Verdict
	Tone          models.Tone
	TurnPersisted bool
}

// Options bundles the orchestrator's tunables.
type Options struct {
	ToneStrategy engagement.ToneStrategy
	ToneWindow   int
	RetrievalK   int
}

// Orchestrator sequences interview turns: two fixed opening questions, then
// adaptive turns combining intent classification, retrieval grounding, tone,
// rubric scoring, and coaching. All collaborators are injected so tests can
// substitute fakes.
type Orchestrator struct {
	log         turnLog
	live        livestate.Store
	scorer      scoring.Scorer
	classifier  intentClassifier
	interviewer questionGenerator
	retriever   retrieval.Retriever // nil when no vector store is configured
	aggregator  *engagement.Aggregator
	advisor     *coaching.Advisor
	pack        *models.InterviewPack
	opts        Options
	logger      *zap.Logger
}

func New(
	log turnLog,
	live livestate.Store,
	scorer scoring.Scorer,
	classifier intentClassifier,
	interviewer questionGenerator,
	retriever retrieval.Retriever,
	aggregator *engagement.Aggregator,
	advisor *coaching.Advisor,
	pack *models.InterviewPack,
	opts Options,
	logger *zap.Logger,
) *Orchestrator {
	if opts.ToneWindow <= 0 {
		opts.ToneWindow = 3
	}
	if opts.RetrievalK <= 0 {
		opts.RetrievalK = 3
	}
	return &Orchestrator{
		log:         log,
		live:        live,
		scorer:      scorer,
		classifier:  classifier,
		interviewer: interviewer,
		retriever:   retriever,
		aggregator:  aggregator,
		advisor:     advisor,
		pack:        pack,
		opts:        opts,
		logger:      logger,
	}
}

// StateFor derives the interview phase from the conversation history.
func StateFor(history []ai.Message) State {
	switch countRealAnswers(history) {
	case 0:
		return StateAwaitingRole
	case 1:
		return StateAwaitingIntro
	default:
		return StateAdaptive
	}
}

func countRealAnswers(history []ai.Message) int {
	count := 0
	for _, msg := range history {
		if msg.Role != "user" {
			continue
		}
		if models.IsSentinel(strings.TrimSpace(msg.Content)) {
			continue
		}
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}
		count++
	}
	return count
}

// HandleUtterance runs one interview turn. Failures in retrieval, tone,
// intent classification, and coaching degrade to their documented defaults;
// failures in question generation or turn persistence abort the turn.
func (o *Orchestrator) HandleUtterance(ctx context.Context, req Request) (*Outcome, error) {
	state := StateFor(req.History)

	switch state {
	case StateAwaitingRole:
		o.rememberQuestion(ctx, req.SessionID, o.pack.RolePrompt)
		return &Outcome{Reply: o.pack.RolePrompt, State: state}, nil

	case StateAwaitingIntro:
		o.rememberQuestion(ctx, req.SessionID, o.pack.IntroPrompt)
		return &Outcome{Reply: o.pack.IntroPrompt, State: state}, nil
	}

	return o.adaptiveTurn(ctx, req)
}

func (o *Orchestrator) adaptiveTurn(ctx context.Context, req Request) (*Outcome, error) {
	prevQuestion := o.previousQuestion(ctx, req)
	utterance := strings.TrimSpace(req.Utterance)

	// Sentinels never reach the scorer: near-empty text would read as a
	// hallucination verdict, which would pollute the audit log with turns
	// the candidate never actually answered.
	if models.IsSentinel(utterance) {
		return &Outcome{Reply: o.pack.MoveOnPrompt, State: StateAdaptive}, nil
	}

	switch o.classifier.Classify(ctx, prevQuestion, utterance) {
	case models.IntentTeach:
		return &Outcome{Reply: o.pack.TeachRefusal, State: StateAdaptive}, nil
	case models.IntentClarify:
		return &Outcome{Reply: o.pack.ClarifyPrefix + prevQuestion, State: StateAdaptive}, nil
	}

	// Grounding context is best effort: an unreachable vector store must
	// never block the interview.
	grounding := o.groundingContext(ctx, req.CandidateID, prevQuestion, utterance)

	// Tone is likewise an enhancement, not a correctness-critical path.
	tone, windowScores := o.toneAndWindow(ctx, req)

	extra := fmt.Sprintf("The candidate currently sounds %s; adjust your phrasing accordingly.", tone)
	if grounding != "" {
		extra += "\n\nRelevant resume context:\n" + grounding
	}

	history := append(append([]ai.Message{}, req.History...), ai.Message{Role: "user", Content: utterance})

	// Question generation is fatal to the turn: without a next question
	// there is no interview turn to return.
	nextQuestion, err := o.interviewer.NextQuestion(ctx, history, extra)
	if err != nil {
		return nil, fmt.Errorf("question generation failed: %w", err)
	}

	result := o.scorer.Score(ctx, prevQuestion, utterance, grounding)

	turn, err := models.NewScoredTurn(req.SessionID, questionPtr(prevQuestion), utterance, result.Subscores, result.Score, result.Hallucination)
	if err != nil {
		return nil, fmt.Errorf("build turn record: %w", err)
	}

	// The audit trail must not silently lose entries, so a persistence
	// failure aborts the turn before any reply reaches the candidate.
	if err := o.log.AppendTurn(ctx, turn); err != nil {
		return nil, fmt.Errorf("persist turn: %w", err)
	}

	reply := nextQuestion
	if hint := o.advisor.Hint(windowScores); hint != "" {
		reply += "\n\nHint: " + hint
	}

	o.rememberQuestion(ctx, req.SessionID, nextQuestion)

	score := result.Score
	sub := result.Subscores
	return &Outcome{
		Reply:         reply,
		State:         StateAdaptive,
		Score:         &score,
		Subscores:     &sub,
		Hallucination: result.Hallucination,
		Tone:          tone,
		TurnPersisted: true,
	}, nil
}

// previousQuestion prefers the live-state record of what we last asked and
// falls back to the last assistant message in the client-held history.
func (o *Orchestrator) previousQuestion(ctx context.Context, req Request) string {
	if o.live != nil {
		if state, err := o.live.Get(ctx, req.SessionID); err == nil && state != nil && state.LastQuestion != "" {
			return state.LastQuestion
		}
	}
	for i := len(req.History) - 1; i >= 0; i-- {
		if req.History[i].Role == "assistant" {
			return req.History[i].Content
		}
	}
	return ""
}

func (o *Orchestrator) rememberQuestion(ctx context.Context, sessionID, question string) {
	if o.live == nil {
		return
	}
	state, err := o.live.Get(ctx, sessionID)
	if err != nil {
		o.logger.Warn("live state read failed", zap.Error(err), zap.String("session_id", sessionID))
		return
	}
	if state == nil {
		state = &livestate.State{SessionID: sessionID, LastQuestion: question}
		if err := o.live.Create(ctx, state); err != nil {
			o.logger.Warn("live state create failed", zap.Error(err), zap.String("session_id", sessionID))
		}
		return
	}
	state.LastQuestion = question
	if err := o.live.Update(ctx, state); err != nil {
		o.logger.Warn("live state update failed", zap.Error(err), zap.String("session_id", sessionID))
	}
}

func (o *Orchestrator) groundingContext(ctx context.Context, candidateID, question, answer string) string {
	if o.retriever == nil {
		return ""
	}
	query := strings.TrimSpace(question + " " + answer)
	passages, err := o.retriever.RelevantPassages(ctx, candidateID, query, o.opts.RetrievalK)
	if err != nil {
		o.logger.Warn("resume grounding skipped", zap.Error(err), zap.String("candidate_id", candidateID))
		return ""
	}
	return strings.Join(passages, "\n\n")
}

// toneAndWindow computes the tone directive and returns the engagement scores
// of the same window for the coaching advisor. Storage failures collapse to
// neutral and an empty window.
func (o *Orchestrator) toneAndWindow(ctx context.Context, req Request) (models.Tone, []float64) {
	samples, err := o.log.RecentSamples(ctx, req.SessionID, o.opts.ToneWindow)
	if err != nil {
		o.logger.Warn("engagement window read failed", zap.Error(err), zap.String("session_id", req.SessionID))
		return models.ToneNeutral, nil
	}

	if len(samples) == 0 {
		// Resume-free path: fall back to the lexical content of the
		// candidate's recent answers.
		var answers []string
		for _, msg := range req.History {
			if msg.Role == "user" && !models.IsSentinel(msg.Content) {
				answers = append(answers, msg.Content)
			}
		}
		return engagement.ToneFromAnswers(answers, o.pack.NervousWords, o.pack.ConfidentWords), nil
	}

	scores := make([]float64, len(samples))
	for i, s := range samples {
		scores[i] = s.EngagementScore
	}
	return o.aggregator.Summarize(o.opts.ToneStrategy, samples, o.opts.ToneWindow), scores
}

func questionPtr(q string) *string {
	if q == "" {
		return nil
	}
	return &q
}
