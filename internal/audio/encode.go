package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/uuid"
)

// WriteWAV encodes 16-bit mono samples into a PCM WAV file at path.
func WriteWAV(path string, samples []int16, sampleRate int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create recording directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create wav file: %w", err)
	}

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	data := make([]int, len(samples))
	for i, s := range samples {
		data[i] = int(s)
	}
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		_ = enc.Close()
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("write wav data: %w", err)
	}
	if err := enc.Close(); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("finalize wav file: %w", err)
	}
	return f.Close()
}

// TempRecordingPath returns a unique path for a short-lived recording file
// inside dir.
func TempRecordingPath(dir, ext string) string {
	return filepath.Join(dir, fmt.Sprintf("viska-%s%s", uuid.NewString(), ext))
}

// TranscodeM4A converts a WAV recording to a small AAC m4a for faster upload.
// It returns the m4a path on success and the original path when ffmpeg is
// missing or fails; transcoding is an optimization, never an error.
func TranscodeM4A(ctx context.Context, wavPath string) string {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return wavPath
	}

	m4aPath := strings.TrimSuffix(wavPath, filepath.Ext(wavPath)) + ".m4a"
	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-nostdin", "-hide_banner", "-loglevel", "error",
		"-i", wavPath,
		"-c:a", "aac", "-b:a", "32k",
		"-y", m4aPath,
	)
	if err := cmd.Run(); err != nil {
		_ = os.Remove(m4aPath)
		return wavPath
	}
	return m4aPath
}
