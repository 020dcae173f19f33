// Package wavegen produces deterministic test signals in the normalized
// [-1, 1] float64 range consumed by the analysis pipeline. The generators
// are shared between unit tests and the CLI self-test path so both exercise
// the exact same inputs.
package wavegen

import "math"

// Sine returns a pure sine wave at the given frequency.
func Sine(size int, sampleRate, frequency, amplitude float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = amplitude * math.Sin(2*math.Pi*frequency*t)
	}
	return buffer
}

// Harmonics returns a 440Hz fundamental plus two harmonics, useful for
// spectral tests that need energy in more than one bin.
func Harmonics(size int, sampleRate float64) []float64 {
	buffer := make([]float64, size)
	for i := range buffer {
		t := float64(i) / sampleRate
		buffer[i] = math.Sin(2*math.Pi*440*t)*0.5 +
			math.Sin(2*math.Pi*880*t)*0.3 +
			math.Sin(2*math.Pi*1320*t)*0.2
	}
	return buffer
}

// ClickTrack returns silence punctuated by short low-frequency bursts at a
// fixed interval, emulating a metronome. intervalMs is the spacing between
// click starts, clickMs the burst length. The burst is a decaying 100Hz
// tone so it survives the pipeline's low-pass stage.
func ClickTrack(durationMs, intervalMs, clickMs int, sampleRate float64) []float64 {
	size := int(float64(durationMs) / 1000.0 * sampleRate)
	buffer := make([]float64, size)

	interval := int(float64(intervalMs) / 1000.0 * sampleRate)
	clickLen := int(float64(clickMs) / 1000.0 * sampleRate)
	if interval <= 0 || clickLen <= 0 {
		return buffer
	}

	for start := 0; start < size; start += interval {
		for j := 0; j < clickLen && start+j < size; j++ {
			t := float64(j) / sampleRate
			decay := 1.0 - float64(j)/float64(clickLen)
			buffer[start+j] = 0.9 * decay * math.Sin(2*math.Pi*100*t)
		}
	}
	return buffer
}

// Silence returns an all-zero buffer.
func Silence(size int) []float64 {
	return make([]float64, size)
}
