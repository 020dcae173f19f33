// SPDX-License-Identifier: MIT
package dsp

import (
	"math"
	"testing"

	"haptic/pkg/wavegen"
)

func TestLowPassFilterRejectsBadArgs(t *testing.T) {
	tests := []struct {
		desc       string
		cutoff     float64
		sampleRate float64
	}{
		{"zero cutoff", 0, 44100},
		{"negative cutoff", -10, 44100},
		{"cutoff at nyquist", 22050, 44100},
		{"zero sample rate", 200, 0},
		{"negative sample rate", 200, -44100},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			if _, err := NewLowPassFilter(tt.cutoff, tt.sampleRate); err == nil {
				t.Error("expected configuration error")
			}
		})
	}
}

func TestLowPassFilterDCUnityGain(t *testing.T) {
	f, err := NewLowPassFilter(200, 44100)
	if err != nil {
		t.Fatal(err)
	}

	// A constant input must converge to the same constant (DC gain 1).
	input := make([]float64, 8000)
	for i := range input {
		input[i] = 0.5
	}
	out := f.Apply(input)

	if got := out[len(out)-1]; math.Abs(got-0.5) > 1e-3 {
		t.Errorf("DC gain error: settled at %f, want 0.5", got)
	}
}

func TestLowPassFilterAttenuatesHighFrequency(t *testing.T) {
	const sampleRate = 44100.0
	f, err := NewLowPassFilter(200, sampleRate)
	if err != nil {
		t.Fatal(err)
	}

	out := f.Apply(wavegen.Sine(8192, sampleRate, 4000, 1.0))

	// 4kHz is ~4.3 octaves above the cutoff; a 2nd-order Butterworth
	// attenuates ~12dB/octave, so the settled output should be tiny.
	peak := 0.0
	for _, v := range out[1000:] {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak > 0.05 {
		t.Errorf("4kHz tone insufficiently attenuated: residual peak %f", peak)
	}
}

func TestLowPassFilterPassesLowFrequency(t *testing.T) {
	const sampleRate = 44100.0
	f, err := NewLowPassFilter(200, sampleRate)
	if err != nil {
		t.Fatal(err)
	}

	out := f.Apply(wavegen.Sine(8192, sampleRate, 50, 1.0))

	peak := 0.0
	for _, v := range out[1000:] {
		if a := math.Abs(v); a > peak {
			peak = a
		}
	}
	if peak < 0.9 {
		t.Errorf("50Hz tone should pass nearly unattenuated, got peak %f", peak)
	}
}

func TestFilterResetReproducibility(t *testing.T) {
	f, err := NewLowPassFilter(200, 44100)
	if err != nil {
		t.Fatal(err)
	}

	input := wavegen.Harmonics(2048, 44100)
	first := f.Apply(input)

	f.Reset()
	second := f.Apply(input)

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("output diverges at sample %d after Reset: %f vs %f", i, first[i], second[i])
		}
	}
}

func TestFilterStateCarriesWithoutReset(t *testing.T) {
	f, err := NewLowPassFilter(200, 44100)
	if err != nil {
		t.Fatal(err)
	}

	input := wavegen.Sine(1024, 44100, 100, 1.0)
	first := f.Apply(input)

	// Without a Reset the second pass starts from stale history and the
	// leading edge must differ (documented caller hazard).
	second := f.Apply(input)
	if first[0] == second[0] {
		t.Error("expected stale history to alter the leading edge")
	}
}

func BenchmarkFilterApply(b *testing.B) {
	f, _ := NewLowPassFilter(200, 44100)
	input := wavegen.Harmonics(44100, 44100)

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		f.Reset()
		_ = f.Apply(input)
	}
}
