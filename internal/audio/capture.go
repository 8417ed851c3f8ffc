// Package audio captures microphone PCM through an ffmpeg subprocess and
// provides buffer analysis and encoding for recorded sessions.
package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"
)

var ErrCaptureUnavailable = errors.New("ffmpeg not found; audio capture unavailable")

// Config describes how the microphone should be captured.
type Config struct {
	Command     string
	SampleRate  int
	Channels    int
	InputFormat string
	InputDevice string
}

func (c Config) withDefaults() Config {
	if c.Command == "" {
		c.Command = "ffmpeg"
	}
	if c.SampleRate <= 0 {
		c.SampleRate = 16000
	}
	if c.Channels <= 0 {
		c.Channels = 1
	}
	if c.InputFormat == "" {
		c.InputFormat = defaultInputFormat(runtime.GOOS)
	}
	if c.InputDevice == "" {
		c.InputDevice = defaultInputDevice(c.InputFormat)
	}
	return c
}

func defaultInputFormat(goos string) string {
	if goos == "darwin" {
		return "avfoundation"
	}
	return "pulse"
}

func defaultInputDevice(format string) string {
	if format == "avfoundation" {
		return ":0"
	}
	return "default"
}

// FrameFunc receives decoded sample frames as they arrive. It runs on the
// capture reader goroutine and must not block.
type FrameFunc func(samples []int16)

// Capture starts microphone capture sessions backed by ffmpeg.
type Capture struct {
	cfg Config
}

func NewCapture(cfg Config) *Capture {
	return &Capture{cfg: cfg.withDefaults()}
}

func (c *Capture) Available() bool {
	_, err := exec.LookPath(c.cfg.Command)
	return err == nil
}

// Start launches ffmpeg emitting raw s16le PCM on stdout and feeds decoded
// frames to onFrame until the session is stopped.
func (c *Capture) Start(ctx context.Context, onFrame FrameFunc) (*Session, error) {
	if !c.Available() {
		return nil, ErrCaptureUnavailable
	}

	cfg := c.cfg
	args := []string{
		"-nostdin", "-hide_banner", "-loglevel", "warning",
		"-f", cfg.InputFormat,
		"-i", cfg.InputDevice,
		"-ac", strconv.Itoa(cfg.Channels),
		"-ar", strconv.Itoa(cfg.SampleRate),
		"-f", "s16le",
		"-",
	}

	cmd := exec.CommandContext(ctx, cfg.Command, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("open capture pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", cfg.Command, err)
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- cmd.Wait()
		close(waitErr)
	}()

	// An immediate exit means the device or format was rejected; surface
	// that instead of a silent empty recording.
	select {
	case err := <-waitErr:
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return nil, fmt.Errorf("capture process exited before start: %w: %s", errOrExited(err), detail)
		}
		return nil, fmt.Errorf("capture process exited before start: %w", errOrExited(err))
	case <-time.After(250 * time.Millisecond):
	}

	s := &Session{
		stdout:   stdout,
		stderr:   &stderr,
		process:  cmd.Process,
		waitErr:  waitErr,
		readDone: make(chan struct{}),
	}
	go s.readLoop(onFrame)
	return s, nil
}

func errOrExited(err error) error {
	if err != nil {
		return err
	}
	return errors.New("process exited")
}

// Session is one live capture.
type Session struct {
	stdout  io.ReadCloser
	stderr  *bytes.Buffer
	process *os.Process
	waitErr <-chan error

	readDone chan struct{}

	stopOnce sync.Once
	stopErr  error
}

func (s *Session) readLoop(onFrame FrameFunc) {
	defer close(s.readDone)

	buf := make([]byte, 4096)
	var carry byte
	var hasCarry bool

	for {
		n, err := s.stdout.Read(buf)
		if n > 0 {
			chunk := buf[:n]
			if hasCarry {
				chunk = append([]byte{carry}, chunk...)
				hasCarry = false
			}
			if len(chunk)%2 != 0 {
				carry = chunk[len(chunk)-1]
				hasCarry = true
				chunk = chunk[:len(chunk)-1]
			}

			samples := make([]int16, len(chunk)/2)
			for i := range samples {
				samples[i] = int16(binary.LittleEndian.Uint16(chunk[2*i:]))
			}
			if len(samples) > 0 {
				onFrame(samples)
			}
		}
		if err != nil {
			return
		}
	}
}

// Stop terminates the capture process and waits for the reader to drain.
func (s *Session) Stop() error {
	s.stopOnce.Do(func() {
		if s.process != nil {
			_ = s.process.Signal(os.Interrupt)
		}

		select {
		case err := <-s.waitErr:
			s.stopErr = normalizeStopErr(err)
		case <-time.After(1200 * time.Millisecond):
			if s.process != nil {
				_ = s.process.Kill()
			}
			s.stopErr = normalizeStopErr(<-s.waitErr)
		}

		if closeErr := s.stdout.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
			if s.stopErr == nil {
				s.stopErr = closeErr
			}
		}
		<-s.readDone

		if s.stopErr != nil && s.stderr.Len() > 0 {
			s.stopErr = fmt.Errorf("%w: %s", s.stopErr, strings.TrimSpace(s.stderr.String()))
		}
	})

	return s.stopErr
}

// Interrupting ffmpeg is the normal stop path; its exit status is not an
// error.
func normalizeStopErr(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return nil
	}
	return err
}

// ListDevices reports capture devices known to the ffmpeg backend.
func (c *Capture) ListDevices(ctx context.Context) (string, error) {
	if !c.Available() {
		return "", ErrCaptureUnavailable
	}

	var args []string
	if c.cfg.InputFormat == "avfoundation" {
		args = []string{"-hide_banner", "-f", "avfoundation", "-list_devices", "true", "-i", ""}
	} else {
		args = []string{"-hide_banner", "-sources", c.cfg.InputFormat}
	}

	cmd := exec.CommandContext(ctx, c.cfg.Command, args...)
	out, _ := cmd.CombinedOutput()
	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" {
		return "", fmt.Errorf("%s returned no device output", c.cfg.Command)
	}
	return trimmed, nil
}
