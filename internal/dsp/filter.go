// SPDX-License-Identifier: MIT
/*
Package dsp implements the signal-processing stages of the haptic
analysis pipeline:
- Butterworth low-pass biquad for isolating percussive low-frequency energy
- Sliding-window RMS energy analysis
- Windowed FFT spectrogram computation
- Spectral-flux onset detection
- Autocorrelation tempo estimation

Every stage except the biquad is purely functional. The biquad carries
Direct-Form-I history across a single Apply pass and must be Reset before
reuse on an unrelated buffer.
*/
package dsp

import (
	"fmt"
	"math"
)

// butterworthQ is the fixed quality factor of a 2nd-order Butterworth
// section (1/sqrt(2)), giving a maximally flat passband.
const butterworthQ = 0.7071067811865476

// BiquadFilter is a stateful 2nd-order low-pass section computed via the
// bilinear transform. Coefficients are derived once per (cutoff, sampleRate)
// pair by Configure; Apply runs the Direct-Form-I recursion
//
//	y[n] = a0*x[n] + a1*x[n-1] + a2*x[n-2] - b1*y[n-1] - b2*y[n-2]
//
// mutating the input/output history across the call.
//
// The filter is the only cross-call mutable state in the pipeline and is
// not safe for concurrent use. Callers must Reset before analyzing an
// unrelated buffer; a stale history yields incorrect leading-edge
// transients and is not detected internally.
type BiquadFilter struct {
	// Normalized coefficients (divided through by the raw a0 term).
	a0, a1, a2 float64 // feedforward
	b1, b2     float64 // feedback

	// Direct-Form-I history.
	x1, x2 float64
	y1, y2 float64
}

// NewLowPassFilter returns a filter configured for the given cutoff.
func NewLowPassFilter(cutoffHz, sampleRate float64) (*BiquadFilter, error) {
	f := &BiquadFilter{}
	if err := f.Configure(cutoffHz, sampleRate); err != nil {
		return nil, err
	}
	return f, nil
}

// Configure computes the low-pass coefficients for the given cutoff and
// sample rate. History is left untouched so a mid-stream reconfiguration
// stays continuous; use Reset for a fresh analysis.
func (f *BiquadFilter) Configure(cutoffHz, sampleRate float64) error {
	if sampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %f", sampleRate)
	}
	if cutoffHz <= 0 || cutoffHz >= sampleRate/2 {
		return fmt.Errorf("cutoff must be in (0, nyquist), got %f at %f Hz", cutoffHz, sampleRate)
	}

	omega := 2 * math.Pi * cutoffHz / sampleRate
	cosw := math.Cos(omega)
	alpha := math.Sin(omega) / (2 * butterworthQ)

	norm := 1 + alpha
	f.a0 = (1 - cosw) / 2 / norm
	f.a1 = (1 - cosw) / norm
	f.a2 = (1 - cosw) / 2 / norm
	f.b1 = -2 * cosw / norm
	f.b2 = (1 - alpha) / norm

	return nil
}

// Apply filters the samples through the Direct-Form-I recursion,
// returning a new slice and advancing the internal history sample by
// sample. The input is never modified.
func (f *BiquadFilter) Apply(samples []float64) []float64 {
	filtered := make([]float64, len(samples))
	for i, x := range samples {
		y := f.a0*x + f.a1*f.x1 + f.a2*f.x2 - f.b1*f.y1 - f.b2*f.y2

		f.x2 = f.x1
		f.x1 = x
		f.y2 = f.y1
		f.y1 = y

		filtered[i] = y
	}
	return filtered
}

// Reset zeroes the input/output history. Coefficients are kept.
func (f *BiquadFilter) Reset() {
	f.x1, f.x2 = 0, 0
	f.y1, f.y2 = 0, 0
}
