// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"haptic/cmd"
	"haptic/internal/config"
	"haptic/internal/decode"
	"haptic/internal/engine"
	applog "haptic/internal/log"
	"haptic/internal/transport"
	"haptic/internal/transport/udp"
	"haptic/pkg/build"
	"haptic/pkg/wavegen"
)

// main is the entry point for the analyzer. The program flow is
// divided into three phases:
//
// 1. Startup Phase:
//   - Initialize build information
//   - Load configuration and parse command line arguments
//   - Decode the input audio (or generate the self-test signal)
//
// 2. Analysis Phase:
//   - Run the pipeline to completion, streaming progress to any
//     configured transports
//
// 3. Output Phase:
//   - Write the pulse timeline as JSON
//   - Publish the timeline over UDP if enabled
//   - Clean up transport resources
func main() {
	if err := run(); err != nil {
		applog.Fatalf("%v", err)
	}
}

func run() error {
	// ==================== STARTUP PHASE ====================

	build.Initialize()

	cfg, err := config.LoadConfig(os.Getenv("HAPTIC_CONFIG"))
	if err != nil {
		return err
	}

	options, err := cmd.ParseArgs(cfg)
	if err != nil {
		return err
	}
	if !options.Run {
		return nil
	}

	if options.Verbose {
		cfg.LogLevel = "debug"
	}
	if level, ok := applog.ParseLevel(cfg.LogLevel); ok {
		applog.SetLevel(level)
	}
	applog.Debugf("%s", build.VersionString())

	// Flags may have altered the analysis settings, so re-validate.
	if err := cfg.Validate(); err != nil {
		return err
	}

	var samples []float64
	var sampleRate float64
	if options.SelfTest {
		applog.Infof("Self-test: analyzing a generated 120 BPM click track")
		sampleRate = 44100
		samples = wavegen.ClickTrack(10000, 500, 30, sampleRate)
	} else {
		pcm, err := decode.ReadFile(options.InputPath)
		if err != nil {
			return err
		}
		applog.Infof("Decoded %s: %d samples at %.0fHz (%s)",
			options.InputPath, len(pcm.Samples), pcm.SampleRate, pcm.Duration)
		samples = pcm.Samples
		sampleRate = pcm.SampleRate
	}

	// ==================== ANALYSIS PHASE ====================

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var progressSink transport.Transport = transport.NewLoggingTransport()
	if cfg.Transport.WSEnabled {
		progressSink = transport.NewWebSocketTransport(fmt.Sprintf(":%d", cfg.Transport.WSPort))
	}
	defer progressSink.Close()

	type progressEvent struct {
		Phase    string  `json:"phase"`
		Progress float64 `json:"progress"`
	}
	orch := engine.NewOrchestrator(cfg.Analysis, func(phase string, progress float64) {
		applog.Debugf("Analysis: phase=%s progress=%.2f", phase, progress)
		_ = progressSink.Send(progressEvent{Phase: phase, Progress: progress})
	})

	result, err := orch.Run(ctx, samples, sampleRate, engine.Options{
		BPMOverride: options.BPMOverride,
		Division:    options.Division,
	})
	if err != nil {
		return err
	}

	if result.BPMDetected {
		applog.Infof("Analysis complete: %d pulses, %d onsets, %d BPM (%s)",
			len(result.Pulses), len(result.Onsets), result.BPM, result.Elapsed)
	} else {
		applog.Infof("Analysis complete: %d pulses, %d onsets, no tempo detected (%s)",
			len(result.Pulses), len(result.Onsets), result.Elapsed)
	}
	_ = progressSink.Send(result)

	// ==================== OUTPUT PHASE ====================

	timeline, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if options.OutputPath != "" {
		if err := os.WriteFile(options.OutputPath, timeline, 0644); err != nil {
			return fmt.Errorf("failed to write timeline: %w", err)
		}
		applog.Infof("Timeline written to %s", options.OutputPath)
	} else {
		fmt.Println(string(timeline))
	}

	if cfg.Transport.UDPEnabled {
		sender, err := udp.NewSender(cfg.Transport.UDPTargetAddress)
		if err != nil {
			return err
		}
		publisher, err := udp.NewPulsePublisher(sender)
		if err != nil {
			sender.Close()
			return err
		}
		defer publisher.Close()

		if err := publisher.PublishTimeline(result.Pulses); err != nil {
			return err
		}
		applog.Infof("Timeline streamed to %s", cfg.Transport.UDPTargetAddress)
	}

	return nil
}
