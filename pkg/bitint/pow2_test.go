package bitint

import "testing"

func TestNextPowerOfTwo(t *testing.T) {
	tests := []struct {
		input    int
		expected int
	}{
		{-8, 1},   // Negative input
		{0, 1},    // Zero input
		{1, 1},    // Smallest power of 2
		{2, 2},    // Already a power of 2
		{3, 4},    // Between powers
		{4, 4},    // Preserved power of 2
		{5, 8},    // Rounds up
		{511, 512},
		{512, 512},
		{513, 1024},
		{1024, 1024}, // Default FFT size
		{1025, 2048},
	}

	for _, tt := range tests {
		if got := NextPowerOfTwo(tt.input); got != tt.expected {
			t.Errorf("NextPowerOfTwo(%d) = %d, want %d", tt.input, got, tt.expected)
		}
	}
}

func TestIsPowerOfTwo(t *testing.T) {
	tests := []struct {
		input    int
		expected bool
	}{
		{-4, false},
		{0, false},
		{1, true},
		{2, true},
		{3, false},
		{512, true},
		{1024, true},
		{1023, false},
		{1025, false},
	}

	for _, tt := range tests {
		if got := IsPowerOfTwo(tt.input); got != tt.expected {
			t.Errorf("IsPowerOfTwo(%d) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func BenchmarkIsPowerOfTwo(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = IsPowerOfTwo(1024)
	}
}
