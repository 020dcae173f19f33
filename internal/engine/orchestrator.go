// SPDX-License-Identifier: MIT

// Package engine drives the full analysis pipeline: filter, energy
// envelope, tempo, spectrogram, onsets, and the final pulse timeline.
package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"haptic/internal/config"
	"haptic/internal/dsp"
	"haptic/internal/haptic"
)

// Phase names, in pipeline order. Every run visits all of them.
const (
	PhaseFiltering = "filtering"
	PhaseRMS       = "rms"
	PhaseBPM       = "bpm"
	PhaseFFT       = "fft"
	PhaseOnsets    = "onsets"
	PhaseFinalize  = "finalize"
)

// Run states.
type State int

const (
	StateIdle State = iota
	StateProcessing
	StateCompleted
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateProcessing:
		return "processing"
	case StateCompleted:
		return "completed"
	case StateError:
		return "error"
	}
	return "unknown"
}

// ErrInvalidSampleRate is returned when the decoded buffer reports a
// non-positive sample rate.
var ErrInvalidSampleRate = errors.New("sample rate must be positive")

// ErrBusy is returned by Run and Reset while an analysis is in flight.
var ErrBusy = errors.New("analysis already in progress")

// Options carries per-run parameters that are not part of the static
// analysis configuration.
type Options struct {
	// BPMOverride forces the beat grid instead of the estimated tempo.
	// Zero means use the estimate.
	BPMOverride int

	// Division is the beat subdivision for grid snapping. Zero falls
	// back to haptic.DefaultDivision.
	Division int
}

// Result is the complete output of one analysis run.
type Result struct {
	Pulses      []haptic.VibrationPulse `json:"pulses"`
	Onsets      []haptic.OnsetEvent     `json:"onsets"`
	RMS         []float64               `json:"rms"`
	Spectrogram [][]float64             `json:"-"`
	BPM         int                     `json:"bpm"`
	BPMDetected bool                    `json:"bpm_detected"`
	SampleRate  float64                 `json:"sample_rate"`
	Elapsed     time.Duration           `json:"elapsed_ns"`
}

// ProgressFunc observes phase transitions. progress is in [0,1] and is
// non-decreasing within a run. Called synchronously from the analysis
// goroutine; keep it cheap.
type ProgressFunc func(phase string, progress float64)

// phase progress checkpoints, reported on entry to each phase.
var phaseProgress = map[string]float64{
	PhaseFiltering: 0.05,
	PhaseRMS:       0.25,
	PhaseBPM:       0.40,
	PhaseFFT:       0.70,
	PhaseOnsets:    0.85,
	PhaseFinalize:  0.95,
}

// Analyze runs the whole pipeline as a pure function over one
// immutable sample buffer. It allocates its own filter so concurrent
// calls never share state. notify may be nil.
//
// An empty buffer yields an empty (non-error) result. Cancellation is
// checked at every phase boundary; a cancelled run returns ctx.Err()
// and no partial result.
func Analyze(ctx context.Context, samples []float64, sampleRate float64, cfg config.Analysis, opts Options, notify ProgressFunc) (res *Result, err error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %f", ErrInvalidSampleRate, sampleRate)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	if len(samples) == 0 {
		return &Result{
			Pulses:     []haptic.VibrationPulse{},
			Onsets:     []haptic.OnsetEvent{},
			RMS:        []float64{},
			SampleRate: sampleRate,
			Elapsed:    time.Since(start),
		}, nil
	}

	// A panic in any phase surfaces as an analysis failure instead of
	// tearing down the caller.
	phase := PhaseFiltering
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = fmt.Errorf("analysis failure in phase %s: %v", phase, r)
		}
	}()

	enter := func(name string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		phase = name
		if notify != nil {
			notify(name, phaseProgress[name])
		}
		return nil
	}

	if err := enter(PhaseFiltering); err != nil {
		return nil, err
	}
	filter, err := dsp.NewLowPassFilter(cfg.LowPassCutoffHz, sampleRate)
	if err != nil {
		return nil, fmt.Errorf("phase %s: %w", PhaseFiltering, err)
	}
	filtered := filter.Apply(samples)

	if err := enter(PhaseRMS); err != nil {
		return nil, err
	}
	rms := dsp.ComputeRMS(filtered, cfg.RMSWindowSize, cfg.RMSHopSize, true)

	if err := enter(PhaseBPM); err != nil {
		return nil, err
	}
	envelopeRate := sampleRate / float64(cfg.RMSHopSize)
	bpm, bpmDetected := dsp.EstimateBPM(rms, envelopeRate, cfg.MinBPM, cfg.MaxBPM)

	if err := enter(PhaseFFT); err != nil {
		return nil, err
	}
	analyzer, err := dsp.NewSpectralAnalyzer(cfg.FFTSize, cfg.HopSize)
	if err != nil {
		return nil, fmt.Errorf("phase %s: %w", PhaseFFT, err)
	}
	spectrogram := analyzer.ComputeSpectrogram(filtered)

	if err := enter(PhaseOnsets); err != nil {
		return nil, err
	}
	onsets := onsetEvents(spectrogram, cfg, sampleRate)

	if err := enter(PhaseFinalize); err != nil {
		return nil, err
	}
	gridBPM := opts.BPMOverride
	if gridBPM <= 0 && bpmDetected {
		gridBPM = bpm
	}
	pulses := haptic.PostProcess(onsets, gridBPM, opts.Division)

	if notify != nil {
		notify(PhaseFinalize, 1.0)
	}
	return &Result{
		Pulses:      pulses,
		Onsets:      onsets,
		RMS:         rms,
		Spectrogram: spectrogram,
		BPM:         bpm,
		BPMDetected: bpmDetected,
		SampleRate:  sampleRate,
		Elapsed:     time.Since(start),
	}, nil
}

// onsetEvents converts detected onset frames into timeline events with
// amplitudes normalized against the loudest flux peak.
func onsetEvents(spectrogram [][]float64, cfg config.Analysis, sampleRate float64) []haptic.OnsetEvent {
	frames := dsp.DetectOnsets(spectrogram, cfg.OnsetThreshold, cfg.OnsetMinIntervalMs, int(sampleRate), cfg.HopSize)
	if len(frames) == 0 {
		return []haptic.OnsetEvent{}
	}

	flux := dsp.SpectralFlux(spectrogram)
	maxFlux := 0.0
	for _, v := range flux {
		if v > maxFlux {
			maxFlux = v
		}
	}

	events := make([]haptic.OnsetEvent, 0, len(frames))
	msPerFrame := float64(cfg.HopSize) * 1000.0 / sampleRate
	for _, frame := range frames {
		amp := 0.0
		if maxFlux > 0 {
			amp = flux[frame] / maxFlux
		}
		events = append(events, haptic.OnsetEvent{
			TimeMs:    int64(math.Round(float64(frame) * msPerFrame)),
			Amplitude: amp,
		})
	}
	return events
}

// Status is a snapshot of the orchestrator state machine.
type Status struct {
	State    State
	Phase    string
	Progress float64
	Result   *Result
	Err      error
}

// Orchestrator wraps Analyze in an observable state machine:
// Idle -> Processing(phase, progress) -> Completed | Error. It is safe
// for one writer (Run) and any number of Status readers.
type Orchestrator struct {
	cfg    config.Analysis
	notify ProgressFunc

	mu     sync.Mutex
	status Status
}

// NewOrchestrator returns an idle orchestrator. notify may be nil; it
// receives the same phase callbacks that Status exposes by polling.
func NewOrchestrator(cfg config.Analysis, notify ProgressFunc) *Orchestrator {
	return &Orchestrator{cfg: cfg, notify: notify, status: Status{State: StateIdle}}
}

// Status returns a snapshot of the current run state.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Reset returns the machine to Idle, discarding any previous result or
// error. Permitted only between runs.
func (o *Orchestrator) Reset() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status.State == StateProcessing {
		return ErrBusy
	}
	o.status = Status{State: StateIdle}
	return nil
}

// Run executes one analysis to completion, driving the state machine
// and returning the terminal result. Partial results from a failed or
// cancelled run are discarded.
func (o *Orchestrator) Run(ctx context.Context, samples []float64, sampleRate float64, opts Options) (*Result, error) {
	o.mu.Lock()
	if o.status.State == StateProcessing {
		o.mu.Unlock()
		return nil, ErrBusy
	}
	o.status = Status{State: StateProcessing, Phase: PhaseFiltering}
	o.mu.Unlock()

	progress := func(phase string, p float64) {
		o.mu.Lock()
		o.status.Phase = phase
		o.status.Progress = p
		o.mu.Unlock()
		if o.notify != nil {
			o.notify(phase, p)
		}
	}

	result, err := Analyze(ctx, samples, sampleRate, o.cfg, opts, progress)

	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.status = Status{State: StateError, Err: err}
		return nil, err
	}
	o.status = Status{State: StateCompleted, Progress: 1.0, Result: result}
	return result, nil
}
