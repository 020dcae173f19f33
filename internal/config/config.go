// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"

	"haptic/pkg/bitint"
)

// Analysis defaults. These track common music-analysis settings for
// 44.1kHz material.
const (
	DefaultFFTSize           = 1024  // Spectral frame size (power of two)
	DefaultHopSize           = 512   // Spectral hop (50% overlap)
	DefaultRMSWindowSize     = 512   // Energy envelope window
	DefaultRMSHopSize        = 256   // Energy envelope hop
	DefaultLowPassCutoffHz   = 200.0 // Keep kick/bass band for beat tracking
	DefaultOnsetThreshold    = 0.3   // Spectral flux threshold
	DefaultOnsetMinInterval  = 50    // Minimum onset spacing (ms)
	DefaultMinBPM            = 60    // Tempo search floor
	DefaultMaxBPM            = 180   // Tempo search ceiling
	DefaultBeatGridDivision  = 4     // Quarter-beat quantization grid
	DefaultTransportUDPAddr  = "127.0.0.1:9090"
	DefaultTransportWSPort   = 8080
)

// ErrInvalidConfig is the sentinel wrapped by every analysis
// configuration validation failure.
var ErrInvalidConfig = errors.New("invalid analysis configuration")

// Analysis holds the tunable parameters of one analysis run. It is
// constructed via command line flags and/or a configuration file, and
// validated eagerly before any processing starts.
type Analysis struct {
	// Spectral settings
	FFTSize int `yaml:"fft_size"` // Spectral frame size, must be a power of two
	HopSize int `yaml:"hop_size"` // Frame advance in samples, 1..FFTSize

	// Energy envelope settings
	RMSWindowSize int `yaml:"rms_window_size"` // RMS window in samples
	RMSHopSize    int `yaml:"rms_hop_size"`    // RMS hop in samples

	// Filtering and onset settings
	LowPassCutoffHz    float64 `yaml:"low_pass_cutoff_hz"`    // Pre-analysis low-pass cutoff
	OnsetThreshold     float64 `yaml:"onset_threshold"`       // Spectral flux peak threshold
	OnsetMinIntervalMs int     `yaml:"onset_min_interval_ms"` // Minimum gap between onsets

	// Tempo settings
	MinBPM int `yaml:"min_bpm"` // Lower bound of the tempo search range
	MaxBPM int `yaml:"max_bpm"` // Upper bound of the tempo search range
}

// NewAnalysis returns an Analysis populated with defaults. Callers
// typically layer flag or file values on top before validating.
func NewAnalysis() Analysis {
	return Analysis{
		FFTSize:            DefaultFFTSize,
		HopSize:            DefaultHopSize,
		RMSWindowSize:      DefaultRMSWindowSize,
		RMSHopSize:         DefaultRMSHopSize,
		LowPassCutoffHz:    DefaultLowPassCutoffHz,
		OnsetThreshold:     DefaultOnsetThreshold,
		OnsetMinIntervalMs: DefaultOnsetMinInterval,
		MinBPM:             DefaultMinBPM,
		MaxBPM:             DefaultMaxBPM,
	}
}

// Validate checks every field eagerly so a bad setting fails before a
// run starts, never in the middle of one. All errors wrap
// ErrInvalidConfig.
func (a Analysis) Validate() error {
	if !bitint.IsPowerOfTwo(a.FFTSize) {
		return fmt.Errorf("%w: fft_size %d is not a power of two", ErrInvalidConfig, a.FFTSize)
	}
	if a.HopSize < 1 || a.HopSize > a.FFTSize {
		return fmt.Errorf("%w: hop_size %d must be in 1..fft_size (%d)", ErrInvalidConfig, a.HopSize, a.FFTSize)
	}
	if a.RMSWindowSize < 1 {
		return fmt.Errorf("%w: rms_window_size %d must be positive", ErrInvalidConfig, a.RMSWindowSize)
	}
	if a.RMSHopSize < 1 {
		return fmt.Errorf("%w: rms_hop_size %d must be positive", ErrInvalidConfig, a.RMSHopSize)
	}
	if a.LowPassCutoffHz <= 0 {
		return fmt.Errorf("%w: low_pass_cutoff_hz %f must be positive", ErrInvalidConfig, a.LowPassCutoffHz)
	}
	if a.OnsetThreshold <= 0 {
		return fmt.Errorf("%w: onset_threshold %f must be positive", ErrInvalidConfig, a.OnsetThreshold)
	}
	if a.OnsetMinIntervalMs <= 0 {
		return fmt.Errorf("%w: onset_min_interval_ms %d must be positive", ErrInvalidConfig, a.OnsetMinIntervalMs)
	}
	if a.MinBPM < 1 || a.MaxBPM < a.MinBPM {
		return fmt.Errorf("%w: bpm range [%d, %d] is invalid", ErrInvalidConfig, a.MinBPM, a.MaxBPM)
	}
	return nil
}
