// SPDX-License-Identifier: MIT
package decode

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// writeWAV encodes 16-bit PCM frames into a temp file and returns its path.
func writeWAV(t *testing.T, sampleRate, channels int, frames []float64) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "fixture.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer f.Close()

	data := make([]int, len(frames)*channels)
	for i, v := range frames {
		s := int(v * 32767)
		for ch := 0; ch < channels; ch++ {
			data[i*channels+ch] = s
		}
	}

	e := wav.NewEncoder(f, sampleRate, 16, channels, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: sampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}
	if err := e.Write(buf); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("close fixture: %v", err)
	}
	return path
}

func TestReadFileMono(t *testing.T) {
	frames := make([]float64, 4410)
	for i := range frames {
		frames[i] = 0.5 * math.Sin(2*math.Pi*440*float64(i)/44100)
	}
	path := writeWAV(t, 44100, 1, frames)

	pcm, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if pcm.SampleRate != 44100 {
		t.Errorf("sample rate = %f, want 44100", pcm.SampleRate)
	}
	if len(pcm.Samples) != len(frames) {
		t.Fatalf("decoded %d samples, want %d", len(pcm.Samples), len(frames))
	}
	if got, want := pcm.Duration.Milliseconds(), int64(100); got != want {
		t.Errorf("duration = %dms, want %dms", got, want)
	}
	for i := range frames {
		// 16-bit quantization allows ~1/32767 of error.
		if math.Abs(pcm.Samples[i]-frames[i]) > 1e-4 {
			t.Fatalf("sample %d = %f, want %f", i, pcm.Samples[i], frames[i])
		}
	}
}

func TestReadFileStereoDownmix(t *testing.T) {
	frames := []float64{0.25, -0.25, 0.5, -0.5}
	path := writeWAV(t, 48000, 2, frames)

	pcm, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if len(pcm.Samples) != len(frames) {
		t.Fatalf("decoded %d frames, want %d", len(pcm.Samples), len(frames))
	}
	// Both channels carry the same signal, so the mono average matches it.
	for i := range frames {
		if math.Abs(pcm.Samples[i]-frames[i]) > 1e-4 {
			t.Errorf("frame %d = %f, want %f", i, pcm.Samples[i], frames[i])
		}
	}
}

func TestReadFileRange(t *testing.T) {
	frames := []float64{1.0, -1.0, 0.999, -0.999}
	path := writeWAV(t, 44100, 1, frames)

	pcm, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	for i, v := range pcm.Samples {
		if v > 1 || v < -1 {
			t.Errorf("sample %d = %f outside [-1, 1]", i, v)
		}
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "missing.wav")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestReadFileGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.wav")
	if err := os.WriteFile(path, []byte("this is not riff data"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := ReadFile(path)
	if !errors.Is(err, ErrNotWAV) {
		t.Errorf("error = %v, want ErrNotWAV", err)
	}
}
