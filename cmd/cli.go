// SPDX-License-Identifier: MIT
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"haptic/internal/config"
	"haptic/pkg/build"
)

// Options carries everything main needs that is not part of the static
// configuration: the input selection and per-run overrides.
type Options struct {
	InputPath  string // WAV file to analyze
	OutputPath string // JSON timeline destination ("" means stdout)

	BPMOverride int  // Force the beat grid instead of the estimate
	Division    int  // Beat subdivision for grid snapping
	SelfTest    bool // Analyze a generated click track instead of a file
	Verbose     bool // Debug logging

	// Run is false when cobra handled the invocation itself (help,
	// version, completion).
	Run bool
}

// ParseArgs parses the command line on top of the loaded configuration.
// Analysis and transport flags write straight into cfg, with the
// current (file or default) values as flag defaults, so precedence is
// flags > file > built-in defaults.
func ParseArgs(cfg *config.Config) (*Options, error) {
	buildInfo := build.GetBuildFlags()
	options := &Options{Division: config.DefaultBeatGridDivision}

	rootCmd := &cobra.Command{
		Use:           buildInfo.Name + " [flags] <input.wav>",
		Short:         "Analyze music audio into a haptic vibration pulse timeline",
		Version:       buildInfo.Version,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd:   true,
			DisableDescriptions: true,
			DisableNoDescFlag:   true,
			HiddenDefaultCmd:    true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			options.InputPath = args[0]
			options.Run = true
			return nil
		},
	}

	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	// Self-test command: run the pipeline on a synthetic metronome so an
	// install can be verified without any audio files at hand.
	selfTestCmd := &cobra.Command{
		Use:   "selftest",
		Short: "Analyze a generated 120 BPM click track",
		Run: func(cmd *cobra.Command, args []string) {
			options.SelfTest = true
			options.Run = true
		},
	}
	rootCmd.AddCommand(selfTestCmd)

	// Analysis configuration
	rootCmd.PersistentFlags().IntVar(&cfg.Analysis.FFTSize, "fft-size", cfg.Analysis.FFTSize,
		"Spectral frame size in samples (power of two)")
	rootCmd.PersistentFlags().IntVar(&cfg.Analysis.HopSize, "hop-size", cfg.Analysis.HopSize,
		"Spectral frame advance in samples")
	rootCmd.PersistentFlags().IntVar(&cfg.Analysis.RMSWindowSize, "rms-window", cfg.Analysis.RMSWindowSize,
		"Energy envelope window in samples")
	rootCmd.PersistentFlags().IntVar(&cfg.Analysis.RMSHopSize, "rms-hop", cfg.Analysis.RMSHopSize,
		"Energy envelope hop in samples")
	rootCmd.PersistentFlags().Float64Var(&cfg.Analysis.LowPassCutoffHz, "cutoff", cfg.Analysis.LowPassCutoffHz,
		"Low-pass cutoff frequency in Hz")
	rootCmd.PersistentFlags().Float64Var(&cfg.Analysis.OnsetThreshold, "onset-threshold", cfg.Analysis.OnsetThreshold,
		"Spectral flux threshold for onset picking")
	rootCmd.PersistentFlags().IntVar(&cfg.Analysis.OnsetMinIntervalMs, "min-interval", cfg.Analysis.OnsetMinIntervalMs,
		"Minimum spacing between onsets in milliseconds")
	rootCmd.PersistentFlags().IntVar(&cfg.Analysis.MinBPM, "min-bpm", cfg.Analysis.MinBPM,
		"Lower bound of the tempo search range")
	rootCmd.PersistentFlags().IntVar(&cfg.Analysis.MaxBPM, "max-bpm", cfg.Analysis.MaxBPM,
		"Upper bound of the tempo search range")

	// Timeline configuration
	rootCmd.PersistentFlags().IntVar(&options.BPMOverride, "bpm", 0,
		"Force this BPM for beat grid snapping (0 = use estimate)")
	rootCmd.PersistentFlags().IntVar(&options.Division, "division", config.DefaultBeatGridDivision,
		"Beat subdivision for grid snapping")

	// Output and transport configuration
	rootCmd.PersistentFlags().StringVarP(&options.OutputPath, "output", "o", "",
		"Write the pulse timeline as JSON to this file (default stdout)")
	rootCmd.PersistentFlags().BoolVar(&cfg.Transport.UDPEnabled, "udp", cfg.Transport.UDPEnabled,
		"Stream the pulse timeline over UDP")
	rootCmd.PersistentFlags().StringVar(&cfg.Transport.UDPTargetAddress, "udp-target", cfg.Transport.UDPTargetAddress,
		"UDP target address (host:port)")
	rootCmd.PersistentFlags().BoolVar(&cfg.Transport.WSEnabled, "ws", cfg.Transport.WSEnabled,
		"Broadcast progress and results over WebSocket")
	rootCmd.PersistentFlags().IntVar(&cfg.Transport.WSPort, "ws-port", cfg.Transport.WSPort,
		"WebSocket listen port")

	// Debug configuration
	rootCmd.PersistentFlags().BoolVarP(&options.Verbose, "verbose", "v", false,
		"Show verbose output")

	rootCmd.SetArgs(os.Args[1:])
	if err := rootCmd.Execute(); err != nil {
		return nil, err
	}

	return options, nil
}
