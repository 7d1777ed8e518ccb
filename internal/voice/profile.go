package voice

// GenerationFailurePolicy decides what a failed response generation means
// for the turn.
type GenerationFailurePolicy string

const (
	// FailurePropagate surfaces the generation error and leaves history
	// untouched.
	FailurePropagate GenerationFailurePolicy = "propagate"
	// FailureFallbackText substitutes the profile's canned FallbackReply
	// and lets the turn succeed.
	FailureFallbackText GenerationFailurePolicy = "fallback_text"
)

// Profile bundles the language-specific conversational behavior of an
// assistant persona: welcome line, prompting style, default voice, and how
// generation failures are handled.
type Profile struct {
	ID                  string
	Language            string
	WelcomeText         string
	VoiceID             string
	SystemPrompt        string
	PromptPreamble      string
	FallbackReply       string
	OnGenerationFailure GenerationFailurePolicy
}

const englishSystemPrompt = `You're having a casual, friendly conversation. You're genuinely curious about the other person.

CORE INSTRUCTIONS:
1. Talk naturally - no formal introductions or titles
2. Keep responses SHORT (1-2 sentences maximum)
3. Show genuine interest in what they share
4. Ask follow-up questions that feel organic
5. Be warm, encouraging, and relatable

AVOID:
- Formal interview language
- Robotic responses
- Multiple questions at once
- Any labels or prefixes

Just be yourself and have a genuine conversation.`

const malayalamPreamble = `You are a helpful AI assistant that can communicate in Malayalam.
The user is speaking in Malayalam or English. Please respond appropriately in the same language they use.
If they speak Malayalam, respond in Malayalam. If they speak English, respond in English.`

// DefaultProfiles returns the built-in personas keyed by id. The policy
// argument overrides each profile's generation-failure handling when
// non-empty.
func DefaultProfiles(policy GenerationFailurePolicy) map[string]*Profile {
	profiles := map[string]*Profile{
		"daisy": {
			ID:                  "daisy",
			Language:            "en",
			WelcomeText:         "Hey there! Good to see you. What's on your mind today?",
			VoiceID:             "Ana Florence",
			SystemPrompt:        englishSystemPrompt,
			OnGenerationFailure: FailurePropagate,
		},
		"malayalam": {
			ID:                  "malayalam",
			Language:            "ml-IN",
			WelcomeText:         "ഹായ്! എങ്ങനെയുണ്ട്? ഇന്ന് എന്താണ് പ്ലാൻ?",
			VoiceID:             "Malayalam IndicF5",
			SystemPrompt:        englishSystemPrompt,
			PromptPreamble:      malayalamPreamble,
			FallbackReply:       "ക്ഷമിക്കണം, എനിക്ക് ഇപ്പോൾ പ്രതികരിക്കാൻ കഴിയുന്നില്ല. ദയവായി വീണ്ടും ശ്രമിക്കുക.",
			OnGenerationFailure: FailureFallbackText,
		},
	}
	if policy != "" {
		for _, p := range profiles {
			p.OnGenerationFailure = policy
		}
	}
	return profiles
}
