// SPDX-License-Identifier: MIT
package dsp

import "math"

// EstimateBPM estimates the tempo of an energy envelope by unbiased
// autocorrelation:
//
//	R[lag] = (1/(N-lag)) * sum_{i=0}^{N-lag-1} s[i]*s[i+lag]
//
// signalRate is the rate of the envelope itself (for an RMS series this
// is sampleRate/rmsHopSize). The [minBpm, maxBpm] range is converted to
// a lag window and the lag with the highest correlation wins:
//
//	minLag = round(60/maxBpm * signalRate)
//	maxLag = round(60/minBpm * signalRate)
//
// The correlation magnitude is deliberately not normalized against the
// lag-0 energy; only its relative ordering inside the search window is
// used, which is sufficient within a single signal.
//
// Returns (bpm, true) on success, or (0, false) when the signal has
// fewer than 2 samples, the lag window is empty, or no positive
// correlation exists in range (no reliable periodicity).
func EstimateBPM(signal []float64, signalRate float64, minBpm, maxBpm int) (int, bool) {
	if len(signal) < 2 || signalRate <= 0 || minBpm <= 0 || maxBpm < minBpm {
		return 0, false
	}

	// Normalize by the maximum (no-op for silent signals).
	maxVal := 0.0
	for _, v := range signal {
		if v > maxVal {
			maxVal = v
		}
	}
	normalized := make([]float64, len(signal))
	copy(normalized, signal)
	if maxVal > 0 {
		for i := range normalized {
			normalized[i] /= maxVal
		}
	}

	n := len(normalized)
	minLag := int(math.Round(60.0 / float64(maxBpm) * signalRate))
	maxLag := int(math.Round(60.0 / float64(minBpm) * signalRate))
	if minLag < 1 {
		minLag = 1
	}
	if maxLag > n-1 {
		maxLag = n - 1
	}
	if minLag > maxLag {
		return 0, false
	}

	bestLag := 0
	bestCorr := 0.0
	for lag := minLag; lag <= maxLag; lag++ {
		var sum float64
		for i := 0; i < n-lag; i++ {
			sum += normalized[i] * normalized[i+lag]
		}
		corr := sum / float64(n-lag)
		if corr > bestCorr {
			bestCorr = corr
			bestLag = lag
		}
	}

	if bestLag == 0 {
		return 0, false
	}

	period := float64(bestLag) / signalRate
	return int(math.Round(60.0 / period)), true
}
