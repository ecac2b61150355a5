package core

import (
	"errors"
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		lo       float64
		hi       float64
		expected float64
	}{
		{name: "inside", value: 0.5, lo: 0, hi: 1, expected: 0.5},
		{name: "below", value: -1, lo: 0, hi: 1, expected: 0},
		{name: "above", value: 2, lo: 0, hi: 1, expected: 1},
		{name: "swapped", value: 2, lo: 1, hi: 0, expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.value, tt.lo, tt.hi); got != tt.expected {
				t.Fatalf("Clamp() = %v, want %v", got, tt.expected)
			}

			if got := Clamp32(float32(tt.value), float32(tt.lo), float32(tt.hi)); got != float32(tt.expected) {
				t.Fatalf("Clamp32() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestFlushDenormals(t *testing.T) {
	if got := FlushDenormals(1e-31, 1e-29); got != 0 {
		t.Fatalf("FlushDenormals(1e-31) = %v, want 0", got)
	}

	if got := FlushDenormals(-0.25, 1e-29); got != -0.25 {
		t.Fatalf("FlushDenormals(-0.25) = %v, want -0.25", got)
	}
}

func TestDBConversions(t *testing.T) {
	if got := DBToLinear(-6.0205999); math.Abs(got-0.5) > 1e-6 {
		t.Fatalf("DBToLinear(-6.02) = %v, want 0.5", got)
	}

	if got := LinearToDB(0); !math.IsInf(got, -1) {
		t.Fatalf("LinearToDB(0) = %v, want -Inf", got)
	}

	if got := LinearToDB(-1); !math.IsNaN(got) {
		t.Fatalf("LinearToDB(-1) = %v, want NaN", got)
	}
}

func TestValidateSampleRate(t *testing.T) {
	tests := []struct {
		name    string
		sr      float64
		wantErr bool
	}{
		{"valid 44100", 44100, false},
		{"valid 96000", 96000, false},
		{"zero", 0, true},
		{"negative", -48000, true},
		{"NaN", math.NaN(), true},
		{"+Inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSampleRate("test", tt.sr)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateSampleRate(%v) error = %v, wantErr %v", tt.sr, err, tt.wantErr)
			}

			if tt.wantErr && !errors.Is(err, ErrInvalidSampleRate) {
				t.Fatalf("error %v does not wrap ErrInvalidSampleRate", err)
			}
		})
	}
}

func TestCheckFinite(t *testing.T) {
	if err := CheckFinite("gain", 3); err != nil {
		t.Fatalf("CheckFinite(3) = %v", err)
	}

	err := CheckFinite("gain", math.NaN())
	if !errors.Is(err, ErrNonFinite) {
		t.Fatalf("CheckFinite(NaN) = %v, want ErrNonFinite", err)
	}
}
