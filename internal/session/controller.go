// Package session coordinates one push-to-talk cycle: capture samples while
// the hotkey is held, then gate, transcribe, optionally correct, and inject
// the result. At most one recording session is active at any instant.
package session

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/vhallberg/viska/internal/audio"
	"github.com/vhallberg/viska/internal/settings"
	"github.com/vhallberg/viska/internal/speech"
	"github.com/vhallberg/viska/internal/typing"
)

// stopFunc stops a running capture stream.
type stopFunc func() error

// Config wires a Controller to its collaborators.
type Config struct {
	Settings     settings.Settings
	Logger       *zap.Logger
	Capture      *audio.Capture
	Speech       *speech.Client
	Injector     *typing.Injector
	RecordingDir string
	SampleRate   int
}

// Controller owns the single active recording and runs the processing
// pipeline when it ends.
type Controller struct {
	mu     sync.Mutex
	active *recording

	settings     settings.Settings
	log          *zap.Logger
	recordingDir string
	sampleRate   int

	startCapture func(ctx context.Context, onFrame audio.FrameFunc) (stopFunc, error)
	transcribe   func(ctx context.Context, path, language string) (string, error)
	correct      func(ctx context.Context, transcript, instruction string) (string, error)
	typeText     func(text string) error
	sendKey      func(mode string) error
	notify       func(message string)
}

type recording struct {
	mu       sync.Mutex
	samples  []int16
	autoSend bool
	started  time.Time
	stop     stopFunc
}

func (r *recording) append(frame []int16) {
	r.mu.Lock()
	r.samples = append(r.samples, frame...)
	r.mu.Unlock()
}

func (r *recording) buffer() []int16 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.samples
}

// NewController builds a Controller backed by the real capture, speech and
// typing components.
func NewController(cfg Config) *Controller {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 16000
	}

	c := &Controller{
		settings:     cfg.Settings,
		log:          log,
		recordingDir: cfg.RecordingDir,
		sampleRate:   sampleRate,
		typeText:     func(text string) error { return nil },
		sendKey:      func(mode string) error { return nil },
		notify:       func(string) {},
	}
	if cfg.Capture != nil {
		c.startCapture = func(ctx context.Context, onFrame audio.FrameFunc) (stopFunc, error) {
			s, err := cfg.Capture.Start(ctx, onFrame)
			if err != nil {
				return nil, err
			}
			return s.Stop, nil
		}
	}
	if cfg.Speech != nil {
		c.transcribe = cfg.Speech.Transcribe
		c.correct = cfg.Speech.Correct
	}
	if cfg.Injector != nil {
		c.typeText = cfg.Injector.Type
		c.sendKey = cfg.Injector.Send
	}
	return c
}

// SetNotifier routes user-facing failure messages through fn.
func (c *Controller) SetNotifier(fn func(message string)) {
	if fn != nil {
		c.notify = fn
	}
}

// Active reports whether a recording is in progress.
func (c *Controller) Active() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active != nil
}

// Start begins capturing. A Start while a recording is active is a no-op, so
// key repeat while the hotkey is held does not spawn extra sessions.
func (c *Controller) Start(ctx context.Context, autoSend bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.active != nil {
		c.log.Debug("recording already active; ignoring start")
		return nil
	}

	rec := &recording{autoSend: autoSend, started: time.Now()}
	stop, err := c.startCapture(ctx, rec.append)
	if err != nil {
		return fmt.Errorf("starting capture: %w", err)
	}
	rec.stop = stop
	c.active = rec

	c.log.Debug("recording started", zap.Bool("auto_send", autoSend))
	return nil
}

// Stop ends the active recording and runs the captured buffer through the
// pipeline. When no recording is active it is a no-op.
func (c *Controller) Stop(ctx context.Context) error {
	rec := c.take()
	if rec == nil {
		return nil
	}

	if err := rec.stop(); err != nil {
		c.log.Warn("stopping capture", zap.Error(err))
	}

	return c.process(ctx, rec)
}

// Abort discards the active recording without transcribing it.
func (c *Controller) Abort() {
	rec := c.take()
	if rec == nil {
		return
	}
	if err := rec.stop(); err != nil {
		c.log.Warn("stopping capture", zap.Error(err))
	}
	c.log.Debug("recording aborted", zap.Int("samples", len(rec.buffer())))
}

func (c *Controller) take() *recording {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec := c.active
	c.active = nil
	return rec
}

func (c *Controller) process(ctx context.Context, rec *recording) error {
	samples := rec.buffer()
	metrics := audio.Analyze(samples, c.sampleRate)
	c.log.Debug("recording stopped",
		zap.Duration("duration", metrics.Duration),
		zap.Float64("rms", metrics.RMS),
		zap.Int("samples", metrics.Samples))

	if reason := gateCapture(metrics); reason != "" {
		c.log.Debug("recording rejected", zap.String("reason", reason))
		return nil
	}

	wavPath := audio.TempRecordingPath(c.recordingDir, ".wav")
	if err := audio.WriteWAV(wavPath, samples, c.sampleRate); err != nil {
		c.notify("Could not save the recording.")
		return fmt.Errorf("writing recording: %w", err)
	}
	defer os.Remove(wavPath)

	uploadPath := audio.TranscodeM4A(ctx, wavPath)
	if uploadPath != wavPath {
		defer os.Remove(uploadPath)
	}

	transcript, err := c.transcribe(ctx, uploadPath, c.settings.Language)
	if err != nil {
		c.notify("Transcription failed.")
		return fmt.Errorf("transcribing recording: %w", err)
	}

	if reason := gateTranscript(transcript); reason != "" {
		c.log.Debug("transcript rejected",
			zap.String("reason", reason),
			zap.String("transcript", transcript))
		return nil
	}

	if c.settings.UseLLM && c.settings.Instruction != "" {
		corrected, err := c.correct(ctx, transcript, c.settings.Instruction)
		if err != nil {
			c.log.Warn("correction failed; using raw transcript", zap.Error(err))
		} else {
			transcript = corrected
		}
	}

	text := formatTranscript(transcript)
	if err := c.typeText(text); err != nil {
		c.notify("Could not type the transcript.")
		return fmt.Errorf("typing transcript: %w", err)
	}

	if rec.autoSend {
		if err := c.sendKey(c.settings.SendMode); err != nil {
			c.log.Warn("send keystroke failed", zap.Error(err))
		}
	}

	c.log.Info("transcript injected",
		zap.Duration("duration", metrics.Duration),
		zap.Int("chars", len(text)),
		zap.Bool("auto_send", rec.autoSend))
	return nil
}
