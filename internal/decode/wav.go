// SPDX-License-Identifier: MIT

// Package decode turns WAV files into the normalized mono float64
// buffers the analysis pipeline consumes.
package decode

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-audio/wav"
)

// ErrNotWAV is returned for files the RIFF parser rejects.
var ErrNotWAV = errors.New("not a valid wav file")

// PCMBuffer is a decoded, downmixed audio clip. Samples are mono
// float64 in [-1, 1].
type PCMBuffer struct {
	Samples    []float64
	SampleRate float64
	Duration   time.Duration
}

// ReadFile decodes an entire WAV file into memory. Multi-channel
// content is downmixed to mono by averaging; integer PCM is scaled to
// [-1, 1] by the source bit depth.
func ReadFile(path string) (*PCMBuffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	d := wav.NewDecoder(f)
	if !d.IsValidFile() {
		return nil, fmt.Errorf("%w: %s", ErrNotWAV, path)
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: missing format header", ErrNotWAV)
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	bitDepth := buf.SourceBitDepth
	if bitDepth <= 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			sum += float64(buf.Data[i*channels+ch]) / scale
		}
		v := sum / float64(channels)
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		samples[i] = v
	}

	rate := float64(buf.Format.SampleRate)
	return &PCMBuffer{
		Samples:    samples,
		SampleRate: rate,
		Duration:   time.Duration(float64(frames) / rate * float64(time.Second)),
	}, nil
}
