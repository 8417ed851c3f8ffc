package session

import (
	"strings"
	"time"

	"github.com/vhallberg/viska/internal/audio"
)

const (
	minDuration      = 500 * time.Millisecond
	minRMS           = 0.005
	minTranscriptLen = 2
)

// hallucinationPhrases are transcripts speech models emit for silence or
// noise. A transcript equal to or starting with one of these is dropped.
var hallucinationPhrases = []string{
	"tack alla som tittat",
	"thanks for watching",
	"thank you for watching",
	"subscribe",
	"like and subscribe",
	"see you next time",
	"bye bye",
	"goodbye",
	"music",
	"applause",
	"[music]",
	"[applause]",
	"you",
	"...",
	"the end",
	"subtitles by",
	"captions by",
}

// gateCapture decides whether a captured buffer is worth uploading. It
// returns a rejection reason, or "" when the buffer passes.
func gateCapture(m audio.Metrics) string {
	switch {
	case m.Samples == 0:
		return "empty buffer"
	case m.Duration < minDuration:
		return "too short"
	case m.RMS < minRMS:
		return "too quiet"
	}
	return ""
}

// gateTranscript decides whether a transcript should be injected.
func gateTranscript(transcript string) string {
	trimmed := strings.TrimSpace(transcript)
	if len([]rune(trimmed)) < minTranscriptLen {
		return "transcript too short"
	}
	lower := strings.ToLower(trimmed)
	for _, phrase := range hallucinationPhrases {
		if lower == phrase || strings.HasPrefix(lower, phrase) {
			return "hallucinated transcript"
		}
	}
	return ""
}

// formatTranscript prepares an accepted transcript for injection. The
// trailing space lets consecutive dictations join naturally.
func formatTranscript(transcript string) string {
	return strings.TrimSpace(transcript) + " "
}
