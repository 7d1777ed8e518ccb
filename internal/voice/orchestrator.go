package voice

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/tbellan/daisy/internal/brain"
	"github.com/tbellan/daisy/internal/session"
	"github.com/tbellan/daisy/internal/synth"
)

// contextWindowTurns bounds how much history the response generator sees,
// counting the pending user turn.
const contextWindowTurns = 4

const (
	defaultLLMTimeout = 10 * time.Second
	defaultTTSTimeout = 15 * time.Second
	archiveTimeout    = 2 * time.Second
)

// TurnArchiver persists finished turns. Archiving is best effort and never
// blocks or fails a turn.
type TurnArchiver interface {
	SaveTurn(ctx context.Context, sessionID string, role session.Role, text string) error
}

// StageRecorder receives per-stage turn latencies, session lifecycle
// events, and provider failures.
type StageRecorder interface {
	ObserveTurnStage(stage string, durationMS float64)
	RecordSessionEvent(event string)
	SetActiveSessions(n int)
	RecordProviderError(provider, code string)
}

// OrchestratorConfig wires the orchestrator's collaborators. Transcripts
// and Metrics are optional.
type OrchestratorConfig struct {
	Sessions    *session.Manager
	Brain       brain.Adapter
	Synth       synth.Synthesizer
	Transcripts TurnArchiver
	Metrics     StageRecorder
	Profiles    map[string]*Profile
	LLMTimeout  time.Duration
	TTSTimeout  time.Duration
}

// Orchestrator runs the conversational turn pipeline: context assembly,
// response generation, history commit, speech synthesis, archiving.
type Orchestrator struct {
	sessions    *session.Manager
	brain       brain.Adapter
	synth       synth.Synthesizer
	transcripts TurnArchiver
	metrics     StageRecorder
	profiles    map[string]*Profile
	llmTimeout  time.Duration
	ttsTimeout  time.Duration

	turnMu    sync.Mutex
	turnLocks map[string]*sync.Mutex
}

func NewOrchestrator(cfg OrchestratorConfig) *Orchestrator {
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = defaultLLMTimeout
	}
	if cfg.TTSTimeout <= 0 {
		cfg.TTSTimeout = defaultTTSTimeout
	}
	if cfg.Profiles == nil {
		cfg.Profiles = DefaultProfiles("")
	}
	return &Orchestrator{
		sessions:    cfg.Sessions,
		brain:       cfg.Brain,
		synth:       cfg.Synth,
		transcripts: cfg.Transcripts,
		metrics:     cfg.Metrics,
		profiles:    cfg.Profiles,
		llmTimeout:  cfg.LLMTimeout,
		ttsTimeout:  cfg.TTSTimeout,
		turnLocks:   make(map[string]*sync.Mutex),
	}
}

// StartSession registers a session and speaks its profile's fixed welcome
// line. No generation happens, so LLM latency is reported as zero.
func (o *Orchestrator) StartSession(ctx context.Context, sessionID, profileID, voiceID string) (*TurnResult, error) {
	profile := o.profile(profileID)
	if voiceID == "" {
		voiceID = profile.VoiceID
	}

	sess := o.sessions.Create(sessionID, profile.ID, voiceID)
	welcome := profile.WelcomeText

	// The welcome line is canned, not generated, and stays out of history
	// so the first real exchange starts the conversation context.
	audioURL, ttsLatency := o.synthesize(ctx, welcome, voiceID)
	o.archiveTurns(sess.ID, session.Turn{Role: session.RoleAssistant, Text: welcome})

	if o.metrics != nil {
		o.metrics.RecordSessionEvent("started")
		o.metrics.SetActiveSessions(o.sessions.ActiveCount())
	}

	return &TurnResult{
		SessionID:     sess.ID,
		Text:          welcome,
		AudioURL:      audioURL,
		AudioDuration: synth.EstimateDuration(welcome),
		LLMLatencyMS:  0,
		TTSLatencyMS:  ttsLatency,
		Model:         o.brain.Model(),
		Voice:         voiceID,
		Language:      profile.Language,
	}, nil
}

// Respond runs one user turn. On generation failure history is left exactly
// as it was: the user turn and assistant turn commit together or not at
// all. Synthesis failure never fails the turn; the result just carries no
// audio URL.
func (o *Orchestrator) Respond(ctx context.Context, sessionID, text, voiceOverride string) (*TurnResult, error) {
	lock := o.turnLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	sess, err := o.sessions.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status != session.StatusActive {
		return nil, session.ErrEnded
	}

	// Session checks come first so unknown sessions never read as bad input.
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyInput
	}

	profile := o.profile(sess.ProfileID)
	voiceID := voiceOverride
	if voiceID == "" {
		voiceID = sess.VoiceID
	}
	if voiceID == "" {
		voiceID = profile.VoiceID
	}

	turnStart := time.Now()
	userTurn := session.Turn{Role: session.RoleUser, Text: text}
	prompt := buildTurnPrompt(profile, buildContext(sess.History, userTurn), text)

	llmStart := time.Now()
	reply, err := o.generate(ctx, profile, prompt)
	if err != nil {
		return nil, err
	}
	llmLatency := msSince(llmStart)

	assistantTurn := session.Turn{Role: session.RoleAssistant, Text: reply}
	if err := o.sessions.CommitTurns(sessionID, userTurn, assistantTurn); err != nil {
		return nil, err
	}

	audioURL, ttsLatency := o.synthesize(ctx, reply, voiceID)
	o.archiveTurns(sessionID, userTurn, assistantTurn)

	if o.metrics != nil {
		o.metrics.ObserveTurnStage("llm", llmLatency)
		o.metrics.ObserveTurnStage("tts", ttsLatency)
		o.metrics.ObserveTurnStage("turn_total", msSince(turnStart))
	}

	return &TurnResult{
		SessionID:     sessionID,
		Text:          reply,
		AudioURL:      audioURL,
		AudioDuration: synth.EstimateDuration(reply),
		LLMLatencyMS:  llmLatency,
		TTSLatencyMS:  ttsLatency,
		Model:         o.brain.Model(),
		Voice:         voiceID,
		Language:      profile.Language,
	}, nil
}

// StopSession marks the session stopped. It reports whether the session
// existed; stopping an unknown or already-stopped session is not an error.
func (o *Orchestrator) StopSession(ctx context.Context, sessionID string) bool {
	_, err := o.sessions.End(sessionID)
	o.ForgetSession(sessionID)

	if o.metrics != nil {
		o.metrics.RecordSessionEvent("stopped")
		o.metrics.SetActiveSessions(o.sessions.ActiveCount())
	}
	return err == nil
}

// Describe reports the active generator model and synthesizer backend.
func (o *Orchestrator) Describe() (model, ttsProvider string) {
	return o.brain.Model(), o.synth.Name()
}

// ForgetSession drops per-session turn serialization state. Called on stop
// and from the registry's expire hook.
func (o *Orchestrator) ForgetSession(sessionID string) {
	o.turnMu.Lock()
	defer o.turnMu.Unlock()
	delete(o.turnLocks, sessionID)
}

func (o *Orchestrator) generate(ctx context.Context, profile *Profile, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.llmTimeout)
	defer cancel()

	resp, err := o.brain.Complete(ctx, brain.Request{SystemPrompt: profile.SystemPrompt, Prompt: prompt})
	if err == nil {
		return resp.Text, nil
	}

	if profile.OnGenerationFailure == FailureFallbackText && profile.FallbackReply != "" {
		log.Printf("voice: generation failed, using fallback reply: %v", err)
		return profile.FallbackReply, nil
	}
	return "", &GenerationError{Err: err}
}

func (o *Orchestrator) synthesize(ctx context.Context, text, voiceID string) (string, float64) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, o.ttsTimeout)
	defer cancel()

	res, err := o.synth.Synthesize(ctx, text, voiceID)
	if err != nil {
		log.Printf("voice: synthesis failed, returning text-only turn: %v", err)
		if o.metrics != nil {
			provider, code := classifySynthFailure(err, o.synth.Name())
			o.metrics.RecordProviderError(provider, code)
		}
		return "", msSince(start)
	}
	return res.URL, msSince(start)
}

// classifySynthFailure labels a synthesis failure for the provider-error
// counter. HTTP-level failures keep their provider and status; anything
// else is attributed to the synthesizer as a whole.
func classifySynthFailure(err error, fallbackProvider string) (provider, code string) {
	var perr *synth.ProviderError
	if errors.As(err, &perr) {
		code = "transport"
		if perr.Status > 0 {
			code = strconv.Itoa(perr.Status)
		}
		return perr.Provider, code
	}
	return fallbackProvider, "error"
}

func (o *Orchestrator) archiveTurns(sessionID string, turns ...session.Turn) {
	if o.transcripts == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
		defer cancel()
		for _, t := range turns {
			if err := o.transcripts.SaveTurn(ctx, sessionID, t.Role, t.Text); err != nil {
				log.Printf("voice: archive turn for %s: %v", sessionID, err)
				return
			}
		}
	}()
}

func (o *Orchestrator) turnLock(sessionID string) *sync.Mutex {
	o.turnMu.Lock()
	defer o.turnMu.Unlock()
	lock, ok := o.turnLocks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		o.turnLocks[sessionID] = lock
	}
	return lock
}

func (o *Orchestrator) profile(id string) *Profile {
	if p, ok := o.profiles[id]; ok {
		return p
	}
	return o.profiles["daisy"]
}

// buildContext renders the most recent history entries, including the
// pending user turn, oldest first.
func buildContext(history []session.Turn, pending session.Turn) string {
	turns := append(append([]session.Turn(nil), history...), pending)
	if len(turns) > contextWindowTurns {
		turns = turns[len(turns)-contextWindowTurns:]
	}

	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		speaker := "User"
		if t.Role == session.RoleAssistant {
			speaker = "Assistant"
		}
		lines = append(lines, speaker+": "+t.Text)
	}
	return strings.Join(lines, "\n")
}

func buildTurnPrompt(profile *Profile, convo, text string) string {
	if profile.PromptPreamble != "" {
		return fmt.Sprintf("%s\n\nPrevious conversation:\n%s\n\nUser just said: %s\n\nPlease provide a helpful, natural response.",
			profile.PromptPreamble, convo, text)
	}
	return fmt.Sprintf("Previous conversation:\n%s\n\nCandidate just said: %s", convo, text)
}

func msSince(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
