package voice

// TurnResult is the outcome of one conversational turn: the assistant
// reply, where to fetch its audio, and per-stage latency in milliseconds.
// AudioURL is empty when every synthesis provider failed; the turn still
// succeeds text-only.
type TurnResult struct {
	SessionID     string  `json:"session_id"`
	Text          string  `json:"text"`
	AudioURL      string  `json:"audio_url,omitempty"`
	AudioDuration float64 `json:"audio_duration"`
	LLMLatencyMS  float64 `json:"llm_latency"`
	TTSLatencyMS  float64 `json:"tts_latency"`
	Model         string  `json:"model"`
	Voice         string  `json:"voice"`
	Language      string  `json:"language"`
}
