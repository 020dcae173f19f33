// SPDX-License-Identifier: MIT
package dsp

import "math"

// ComputeRMS computes a sliding-window root-mean-square energy envelope:
// RMS = sqrt(mean(sample^2)) over windowSize samples, advancing by hopSize.
// If normalize is set, every value is divided by the maximum of the
// resulting sequence (a no-op when the maximum is <= 0).
//
// Purely functional; returns an empty slice when the input is shorter
// than one window or the sizes are invalid.
func ComputeRMS(samples []float64, windowSize, hopSize int, normalize bool) []float64 {
	if len(samples) < windowSize || windowSize <= 0 || hopSize <= 0 {
		return []float64{}
	}

	numWindows := (len(samples)-windowSize)/hopSize + 1
	envelope := make([]float64, numWindows)

	for i := 0; i < numWindows; i++ {
		start := i * hopSize
		var sumSquares float64
		for _, s := range samples[start : start+windowSize] {
			sumSquares += s * s
		}
		envelope[i] = math.Sqrt(sumSquares / float64(windowSize))
	}

	if normalize {
		maxVal := 0.0
		for _, v := range envelope {
			if v > maxVal {
				maxVal = v
			}
		}
		if maxVal > 0 {
			for i := range envelope {
				envelope[i] /= maxVal
			}
		}
	}

	return envelope
}
