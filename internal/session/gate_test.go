package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vhallberg/viska/internal/audio"
)

func TestGateCapture(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		metrics audio.Metrics
		reason  string
	}{
		{"empty", audio.Metrics{}, "empty buffer"},
		{"short", audio.Metrics{Duration: 200 * time.Millisecond, RMS: 0.2, Samples: 3200}, "too short"},
		{"quiet", audio.Metrics{Duration: time.Second, RMS: 0.001, Samples: 16000}, "too quiet"},
		{"accepted", audio.Metrics{Duration: time.Second, RMS: 0.2, Samples: 16000}, ""},
		{"boundary", audio.Metrics{Duration: 500 * time.Millisecond, RMS: 0.005, Samples: 8000}, ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.reason, gateCapture(tt.metrics))
		})
	}
}

func TestGateTranscriptRejectsShortText(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, gateTranscript(""))
	require.NotEmpty(t, gateTranscript("  a  "))
	require.Empty(t, gateTranscript("ok"))
}

func TestGateTranscriptRejectsHallucinations(t *testing.T) {
	t.Parallel()

	rejected := []string{
		"Thanks for watching!",
		"  tack alla som tittat  ",
		"[Music]",
		"Subscribe to my channel",
		"GOODBYE",
	}
	for _, transcript := range rejected {
		require.NotEmpty(t, gateTranscript(transcript), "transcript %q", transcript)
	}

	require.Empty(t, gateTranscript("skicka rapporten innan lunch"))
	require.Empty(t, gateTranscript("Please review the attached notes."))
}

func TestFormatTranscriptAppendsTrailingSpace(t *testing.T) {
	t.Parallel()

	require.Equal(t, "hej världen ", formatTranscript("  hej världen\n"))
}
