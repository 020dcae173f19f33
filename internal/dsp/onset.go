// SPDX-License-Identifier: MIT
package dsp

import "math"

// SpectralFlux computes the frame-to-frame positive energy increase of a
// magnitude spectrogram:
//
//	flux[i] = mean_j(max(0, mag[i][j] - mag[i-1][j]))
//
// flux[0] is always 0 (no predecessor frame). The result has one entry
// per spectrogram frame.
func SpectralFlux(spectrogram [][]float64) []float64 {
	flux := make([]float64, len(spectrogram))
	for i := 1; i < len(spectrogram); i++ {
		prev, cur := spectrogram[i-1], spectrogram[i]
		var sum float64
		for j := range cur {
			if d := cur[j] - prev[j]; d > 0 {
				sum += d
			}
		}
		if len(cur) > 0 {
			flux[i] = sum / float64(len(cur))
		}
	}
	return flux
}

// DetectOnsets runs spectral-flux peak-picking over a magnitude
// spectrogram and returns the frame indices of detected transients.
//
// A frame i (excluding the first and last) is an onset when its flux
// exceeds threshold, is a strict local maximum, and lies at least
// minIntervalMs after the previously accepted onset. The scan is greedy
// left to right: once an onset is accepted the minimum-interval window
// counts from that frame.
//
// No onsets are reported for spectrograms with fewer than 2 frames.
func DetectOnsets(spectrogram [][]float64, threshold float64, minIntervalMs, sampleRate, hopSize int) []int {
	if len(spectrogram) < 2 {
		return nil
	}

	flux := SpectralFlux(spectrogram)
	minIntervalFrames := int(math.Round(float64(minIntervalMs) * float64(sampleRate) / (1000 * float64(hopSize))))

	var onsets []int
	lastOnset := -minIntervalFrames
	for i := 1; i < len(flux)-1; i++ {
		if flux[i] <= threshold {
			continue
		}
		if flux[i] <= flux[i-1] || flux[i] <= flux[i+1] {
			continue
		}
		if i-lastOnset < minIntervalFrames {
			continue
		}
		onsets = append(onsets, i)
		lastOnset = i
	}
	return onsets
}
