package synth

import "strings"

const (
	speakingRateWPM  = 150.0
	minClipSeconds   = 3.0
	maxClipSeconds   = 30.0
	secondsPerMinute = 60.0
)

// EstimateDuration guesses how long a clip takes to speak from its word
// count. Clients use it to pace playback when clip metadata is unavailable.
func EstimateDuration(text string) float64 {
	words := len(strings.Fields(text))
	if words == 0 {
		return minClipSeconds
	}
	seconds := float64(words) / speakingRateWPM * secondsPerMinute
	if seconds < minClipSeconds {
		return minClipSeconds
	}
	if seconds > maxClipSeconds {
		return maxClipSeconds
	}
	return seconds
}
