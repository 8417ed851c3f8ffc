package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vhallberg/viska/internal/audio"
	"github.com/vhallberg/viska/internal/settings"
)

type fakePipeline struct {
	mu sync.Mutex

	onFrame      audio.FrameFunc
	captureCount int
	stopCount    int

	transcript    string
	transcribeErr error
	transcribed   []string

	corrected   string
	correctErr  error
	corrections []string

	typed []string
	sent  []string
}

func (f *fakePipeline) feed(samples []int16) {
	f.mu.Lock()
	onFrame := f.onFrame
	f.mu.Unlock()
	onFrame(samples)
}

func newTestController(t *testing.T, s settings.Settings, fake *fakePipeline) *Controller {
	t.Helper()

	c := NewController(Config{
		Settings:     s,
		RecordingDir: t.TempDir(),
		SampleRate:   16000,
	})
	c.startCapture = func(ctx context.Context, onFrame audio.FrameFunc) (stopFunc, error) {
		f := fake
		f.mu.Lock()
		f.captureCount++
		f.onFrame = onFrame
		f.mu.Unlock()
		return func() error {
			f.mu.Lock()
			f.stopCount++
			f.mu.Unlock()
			return nil
		}, nil
	}
	c.transcribe = func(ctx context.Context, path, language string) (string, error) {
		fake.mu.Lock()
		fake.transcribed = append(fake.transcribed, language)
		fake.mu.Unlock()
		return fake.transcript, fake.transcribeErr
	}
	c.correct = func(ctx context.Context, transcript, instruction string) (string, error) {
		fake.mu.Lock()
		fake.corrections = append(fake.corrections, instruction)
		fake.mu.Unlock()
		return fake.corrected, fake.correctErr
	}
	c.typeText = func(text string) error {
		fake.typed = append(fake.typed, text)
		return nil
	}
	c.sendKey = func(mode string) error {
		fake.sent = append(fake.sent, mode)
		return nil
	}
	return c
}

// loudSamples returns count samples well above the energy floor.
func loudSamples(count int) []int16 {
	samples := make([]int16, count)
	for i := range samples {
		if i%2 == 0 {
			samples[i] = 8000
		} else {
			samples[i] = -8000
		}
	}
	return samples
}

func TestStopTranscribesAndTypesWithTrailingSpace(t *testing.T) {
	t.Parallel()

	fake := &fakePipeline{transcript: "hej världen"}
	c := newTestController(t, settings.Default(), fake)

	require.NoError(t, c.Start(context.Background(), false))
	fake.feed(loudSamples(16000))
	require.NoError(t, c.Stop(context.Background()))

	require.Equal(t, []string{"sv"}, fake.transcribed)
	require.Equal(t, []string{"hej världen "}, fake.typed)
	require.Empty(t, fake.sent)
	require.Equal(t, 1, fake.stopCount)
	require.False(t, c.Active())
}

func TestShortRecordingIsDiscardedWithoutUpload(t *testing.T) {
	t.Parallel()

	fake := &fakePipeline{transcript: "should never be typed"}
	c := newTestController(t, settings.Default(), fake)

	require.NoError(t, c.Start(context.Background(), false))
	fake.feed(loudSamples(3200)) // 200 ms at 16 kHz
	require.NoError(t, c.Stop(context.Background()))

	require.Empty(t, fake.transcribed)
	require.Empty(t, fake.typed)
}

func TestQuietRecordingIsDiscardedWithoutUpload(t *testing.T) {
	t.Parallel()

	fake := &fakePipeline{transcript: "should never be typed"}
	c := newTestController(t, settings.Default(), fake)

	require.NoError(t, c.Start(context.Background(), false))
	fake.feed(make([]int16, 16000)) // one second of silence
	require.NoError(t, c.Stop(context.Background()))

	require.Empty(t, fake.transcribed)
	require.Empty(t, fake.typed)
}

func TestHallucinatedTranscriptIsNotInjected(t *testing.T) {
	t.Parallel()

	fake := &fakePipeline{transcript: "Thanks for watching!"}
	c := newTestController(t, settings.Default(), fake)

	require.NoError(t, c.Start(context.Background(), false))
	fake.feed(loudSamples(16000))
	require.NoError(t, c.Stop(context.Background()))

	require.Len(t, fake.transcribed, 1)
	require.Empty(t, fake.typed)
}

func TestTranscriptionErrorSurfacesAndNothingIsTyped(t *testing.T) {
	t.Parallel()

	fake := &fakePipeline{transcribeErr: errors.New("503")}
	c := newTestController(t, settings.Default(), fake)

	var notified []string
	c.SetNotifier(func(message string) { notified = append(notified, message) })

	require.NoError(t, c.Start(context.Background(), false))
	fake.feed(loudSamples(16000))
	require.Error(t, c.Stop(context.Background()))

	require.Empty(t, fake.typed)
	require.Len(t, notified, 1)
}

func TestAutoSendAppendsSendKeystroke(t *testing.T) {
	t.Parallel()

	fake := &fakePipeline{transcript: "skicka det här"}
	c := newTestController(t, settings.Default(), fake)

	require.NoError(t, c.Start(context.Background(), true))
	fake.feed(loudSamples(16000))
	require.NoError(t, c.Stop(context.Background()))

	require.Equal(t, []string{"skicka det här "}, fake.typed)
	require.Equal(t, []string{settings.SendModeCmdEnter}, fake.sent)
}

func TestCorrectionAppliedWhenEnabled(t *testing.T) {
	t.Parallel()

	s := settings.Default()
	s.UseLLM = true
	s.Instruction = "translate to english"
	fake := &fakePipeline{transcript: "hej världen", corrected: "hello world"}
	c := newTestController(t, s, fake)

	require.NoError(t, c.Start(context.Background(), false))
	fake.feed(loudSamples(16000))
	require.NoError(t, c.Stop(context.Background()))

	require.Equal(t, []string{"translate to english"}, fake.corrections)
	require.Equal(t, []string{"hello world "}, fake.typed)
}

func TestCorrectionFailureFallsBackToRawTranscript(t *testing.T) {
	t.Parallel()

	s := settings.Default()
	s.UseLLM = true
	s.Instruction = "translate to english"
	fake := &fakePipeline{transcript: "hej världen", correctErr: errors.New("chat unavailable")}
	c := newTestController(t, s, fake)

	require.NoError(t, c.Start(context.Background(), false))
	fake.feed(loudSamples(16000))
	require.NoError(t, c.Stop(context.Background()))

	require.Equal(t, []string{"hej världen "}, fake.typed)
}

func TestCorrectionSkippedWithoutInstruction(t *testing.T) {
	t.Parallel()

	s := settings.Default()
	s.UseLLM = true
	fake := &fakePipeline{transcript: "hej världen"}
	c := newTestController(t, s, fake)

	require.NoError(t, c.Start(context.Background(), false))
	fake.feed(loudSamples(16000))
	require.NoError(t, c.Stop(context.Background()))

	require.Empty(t, fake.corrections)
	require.Equal(t, []string{"hej världen "}, fake.typed)
}

func TestStartWhileActiveIsNoOp(t *testing.T) {
	t.Parallel()

	fake := &fakePipeline{transcript: "hej världen"}
	c := newTestController(t, settings.Default(), fake)

	require.NoError(t, c.Start(context.Background(), false))
	require.True(t, c.Active())
	for i := 0; i < 5; i++ { // key repeat while held
		require.NoError(t, c.Start(context.Background(), false))
	}
	require.Equal(t, 1, fake.captureCount)

	fake.feed(loudSamples(16000))
	require.NoError(t, c.Stop(context.Background()))
	require.Len(t, fake.typed, 1)
}

func TestStopWithoutActiveRecordingIsNoOp(t *testing.T) {
	t.Parallel()

	fake := &fakePipeline{}
	c := newTestController(t, settings.Default(), fake)

	require.NoError(t, c.Stop(context.Background()))
	require.Zero(t, fake.stopCount)
}

func TestAbortDiscardsRecording(t *testing.T) {
	t.Parallel()

	fake := &fakePipeline{transcript: "hej världen"}
	c := newTestController(t, settings.Default(), fake)

	require.NoError(t, c.Start(context.Background(), false))
	fake.feed(loudSamples(16000))
	c.Abort()

	require.Equal(t, 1, fake.stopCount)
	require.Empty(t, fake.transcribed)
	require.Empty(t, fake.typed)
	require.False(t, c.Active())
}
