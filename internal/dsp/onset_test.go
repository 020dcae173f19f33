// SPDX-License-Identifier: MIT
package dsp

import (
	"math"
	"testing"
)

// burstSpectrogram builds a synthetic spectrogram of numFrames flat frames
// with broadband energy bursts at the given frame indices.
func burstSpectrogram(numFrames, numBins int, burstFrames ...int) [][]float64 {
	frames := make([][]float64, numFrames)
	for i := range frames {
		frames[i] = make([]float64, numBins)
	}
	for _, b := range burstFrames {
		for j := range frames[b] {
			frames[b][j] = 1.0
		}
	}
	return frames
}

func TestSpectralFlux(t *testing.T) {
	frames := burstSpectrogram(5, 8, 2)
	flux := SpectralFlux(frames)

	if flux[0] != 0 {
		t.Errorf("flux[0] = %f, want 0", flux[0])
	}
	if math.Abs(flux[2]-1.0) > 1e-12 {
		t.Errorf("flux at burst = %f, want 1.0", flux[2])
	}
	// The decay after the burst is negative and must be rectified away.
	if flux[3] != 0 {
		t.Errorf("flux after burst = %f, want 0 (half-wave rectified)", flux[3])
	}
}

func TestDetectOnsetsFindsBursts(t *testing.T) {
	frames := burstSpectrogram(16, 8, 3, 9)

	// 50ms at 44100Hz with hop 512 -> round(4.31) = 4 frames minimum gap.
	onsets := DetectOnsets(frames, 0.3, 50, 44100, 512)

	if len(onsets) != 2 || onsets[0] != 3 || onsets[1] != 9 {
		t.Errorf("onsets = %v, want [3 9]", onsets)
	}
}

func TestDetectOnsetsMinimumInterval(t *testing.T) {
	// Bursts at frames 3 and 5 are closer than the 4-frame minimum
	// interval; the greedy scan keeps only the first.
	frames := burstSpectrogram(16, 8, 3, 5)

	onsets := DetectOnsets(frames, 0.3, 50, 44100, 512)
	if len(onsets) != 1 || onsets[0] != 3 {
		t.Errorf("onsets = %v, want [3]", onsets)
	}
}

func TestDetectOnsetsThreshold(t *testing.T) {
	frames := burstSpectrogram(16, 8, 3)
	for j := range frames[3] {
		frames[3][j] = 0.2 // flux of 0.2, below a 0.3 threshold
	}

	if onsets := DetectOnsets(frames, 0.3, 50, 44100, 512); len(onsets) != 0 {
		t.Errorf("onsets = %v, want none below threshold", onsets)
	}
}

func TestDetectOnsetsEdgeFramesExcluded(t *testing.T) {
	// A burst on the final frame has no successor and must not be picked.
	frames := burstSpectrogram(8, 8, 7)
	if onsets := DetectOnsets(frames, 0.1, 50, 44100, 512); len(onsets) != 0 {
		t.Errorf("onsets = %v, want none on edge frames", onsets)
	}
}

func TestDetectOnsetsTooFewFrames(t *testing.T) {
	if onsets := DetectOnsets(burstSpectrogram(1, 8), 0.3, 50, 44100, 512); onsets != nil {
		t.Errorf("single-frame spectrogram: onsets = %v, want nil", onsets)
	}
	if onsets := DetectOnsets(nil, 0.3, 50, 44100, 512); onsets != nil {
		t.Errorf("nil spectrogram: onsets = %v, want nil", onsets)
	}
}
