// SPDX-License-Identifier: MIT
package dsp

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"

	"haptic/pkg/bitint"
)

// spectralWorkspace holds pre-allocated buffers reused across frames so
// that computing a long spectrogram does not allocate per window.
type spectralWorkspace struct {
	input     []float64    // windowed input samples
	fftOutput []complex128 // FFT complex output (fftSize/2 + 1 bins)
	coeffs    []float64    // pre-computed Hamming coefficients
}

// SpectralAnalyzer computes magnitude spectrograms over a fixed FFT size
// and hop. It is deterministic and side-effect-free beyond its own
// workspace buffers; a single analyzer must not be shared by concurrent
// analyses.
type SpectralAnalyzer struct {
	fftSize   int
	hopSize   int
	fft       *fourier.FFT
	workspace spectralWorkspace
}

// NewSpectralAnalyzer validates the window geometry and pre-computes the
// Hamming coefficients and FFT plan. fftSize must be a power of two and
// hopSize in [1, fftSize].
func NewSpectralAnalyzer(fftSize, hopSize int) (*SpectralAnalyzer, error) {
	if !bitint.IsPowerOfTwo(fftSize) {
		return nil, fmt.Errorf("fft size must be a power of 2, got %d", fftSize)
	}
	if hopSize <= 0 || hopSize > fftSize {
		return nil, fmt.Errorf("hop size must be in [1, %d], got %d", fftSize, hopSize)
	}

	// Initialize coefficients to 1.0 so the window function multiplies
	// into identity rather than zeros.
	coeffs := make([]float64, fftSize)
	for i := range coeffs {
		coeffs[i] = 1.0
	}
	window.Hamming(coeffs)

	outputSize := fftSize/2 + 1

	return &SpectralAnalyzer{
		fftSize: fftSize,
		hopSize: hopSize,
		fft:     fourier.NewFFT(fftSize),
		workspace: spectralWorkspace{
			input:     make([]float64, fftSize),
			fftOutput: make([]complex128, outputSize),
			coeffs:    coeffs,
		},
	}, nil
}

// ComputeSpectrogram slides an fftSize window over the samples at hopSize
// steps and returns one magnitude frame per full window. Each frame has
// fftSize/2 + 1 non-negative values; frame i corresponds to sample offset
// i * hopSize. Inputs shorter than one window yield an empty spectrogram.
func (sa *SpectralAnalyzer) ComputeSpectrogram(samples []float64) [][]float64 {
	if len(samples) < sa.fftSize {
		return [][]float64{}
	}

	numFrames := (len(samples)-sa.fftSize)/sa.hopSize + 1
	frames := make([][]float64, numFrames)

	for i := 0; i < numFrames; i++ {
		start := i * sa.hopSize
		for j := 0; j < sa.fftSize; j++ {
			sa.workspace.input[j] = samples[start+j] * sa.workspace.coeffs[j]
		}

		sa.fft.Coefficients(sa.workspace.fftOutput, sa.workspace.input)

		frame := make([]float64, len(sa.workspace.fftOutput))
		for j, c := range sa.workspace.fftOutput {
			frame[j] = cmplx.Abs(c)
		}
		frames[i] = frame
	}

	return frames
}

// FFTSize returns the configured FFT size (number of points).
func (sa *SpectralAnalyzer) FFTSize() int { return sa.fftSize }

// HopSize returns the configured hop between adjacent frames.
func (sa *SpectralAnalyzer) HopSize() int { return sa.hopSize }

// FrequencyForBin returns the center frequency (Hz) of an FFT bin index
// at the given sample rate, or 0 for an out-of-range index.
func (sa *SpectralAnalyzer) FrequencyForBin(binIndex int, sampleRate float64) float64 {
	if binIndex < 0 || binIndex > sa.fftSize/2 {
		return 0
	}
	return float64(binIndex) * sampleRate / float64(sa.fftSize)
}
