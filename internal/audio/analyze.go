package audio

import (
	"math"
	"time"
)

// Metrics summarizes a captured sample buffer. RMS and Peak are linear
// amplitudes with samples normalized to [-1, 1].
type Metrics struct {
	Duration time.Duration
	RMS      float64
	Peak     float64
	Samples  int
}

// Analyze computes duration and energy metrics for 16-bit mono samples.
func Analyze(samples []int16, sampleRate int) Metrics {
	if sampleRate <= 0 || len(samples) == 0 {
		return Metrics{}
	}

	var peak float64
	var sumSquares float64
	for _, s := range samples {
		v := float64(s) / 32768.0
		abs := math.Abs(v)
		if abs > peak {
			peak = abs
		}
		sumSquares += v * v
	}

	return Metrics{
		Duration: time.Duration(float64(len(samples)) / float64(sampleRate) * float64(time.Second)),
		RMS:      math.Sqrt(sumSquares / float64(len(samples))),
		Peak:     peak,
		Samples:  len(samples),
	}
}
