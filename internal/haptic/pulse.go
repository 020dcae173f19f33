// SPDX-License-Identifier: MIT

// Package haptic turns raw onset events into a clean vibration pulse
// timeline suitable for driving an LRA actuator.
package haptic

import (
	"math"
	"sort"
)

// Timeline shaping policy. These are perceptual tuning constants, not
// user configuration.
const (
	// minIntervalMs is the minimum gap between accepted onset base
	// times. Anything closer is dropped outright.
	minIntervalMs = 80

	// mergeWindowMs groups onsets into a single averaged pulse. A dense
	// burst of flux peaks reads as one hit, not a stutter.
	mergeWindowMs = 120

	// minIntensity is the amplitude floor below which an onset is
	// considered noise and skipped.
	minIntensity = 0.08

	baseDurationMs = 40
	maxDurationMs  = 100
	minDurationMs  = 20

	// compressionExp flattens the amplitude curve so quiet hits still
	// register on the actuator.
	compressionExp = 0.6

	intensityFloor = 0.15
)

// DefaultDivision is the beat subdivision used for grid snapping when
// the caller does not specify one (quarter of a beat).
const DefaultDivision = 4

// OnsetEvent is a detected transient with its position on the playback
// timeline and a normalized strength in [0,1].
type OnsetEvent struct {
	TimeMs    int64   `json:"time_ms"`
	Amplitude float64 `json:"amplitude"`
}

// VibrationPulse is one scheduled actuation. TimeMs is an offset from
// playback start; Intensity is in [0.15,1.0]; DurationMs is in
// [20,100]. Ownership transfers to the caller, values are never
// mutated after emission.
type VibrationPulse struct {
	TimeMs     int64   `json:"time_ms"`
	Intensity  float64 `json:"intensity"`
	DurationMs int64   `json:"duration_ms"`
}

// PostProcess reduces a time-ordered onset sequence to a pulse
// timeline: it gates onsets that arrive too close together, merges
// bursts inside the merge window into a single averaged pulse, applies
// perceptual amplitude compression, and optionally snaps pulse times
// onto a beat grid.
//
// bpm <= 0 disables grid snapping. division <= 0 falls back to
// DefaultDivision. Onsets must be sorted ascending by TimeMs.
//
// The interval gate compares raw group base times, not merged means,
// so a dense burst cannot drag the gate forward and double-fire.
func PostProcess(onsets []OnsetEvent, bpm, division int) []VibrationPulse {
	if len(onsets) == 0 {
		return []VibrationPulse{}
	}
	if division <= 0 {
		division = DefaultDivision
	}

	var gridMs float64
	if bpm > 0 {
		gridMs = 60000.0 / float64(bpm) / float64(division)
	}

	pulses := make([]VibrationPulse, 0, len(onsets))
	lastAccepted := int64(-minIntervalMs)

	for i := 0; i < len(onsets); {
		base := onsets[i]
		if base.Amplitude < minIntensity || base.TimeMs-lastAccepted < minIntervalMs {
			i++
			continue
		}

		// Absorb the whole burst into one group.
		sumTime := float64(base.TimeMs)
		sumAmp := base.Amplitude
		count := 1
		j := i + 1
		for j < len(onsets) && onsets[j].TimeMs-base.TimeMs < mergeWindowMs {
			sumTime += float64(onsets[j].TimeMs)
			sumAmp += onsets[j].Amplitude
			count++
			j++
		}
		meanTime := sumTime / float64(count)
		meanAmp := sumAmp / float64(count)

		compressed := math.Pow(clamp(meanAmp, 0, 1), compressionExp)
		duration := int64(clamp(
			baseDurationMs+compressed*(maxDurationMs-baseDurationMs),
			minDurationMs, maxDurationMs))

		finalTime := int64(meanTime)
		if gridMs > 0 {
			finalTime = int64(math.Round(meanTime/gridMs) * gridMs)
		}

		pulses = append(pulses, VibrationPulse{
			TimeMs:     finalTime,
			Intensity:  clamp(compressed, intensityFloor, 1.0),
			DurationMs: duration,
		})

		lastAccepted = base.TimeMs
		i = j
	}

	// Grid snapping can reorder neighbors; the contract is a
	// non-decreasing timeline.
	sort.Slice(pulses, func(a, b int) bool { return pulses[a].TimeMs < pulses[b].TimeMs })
	return pulses
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
