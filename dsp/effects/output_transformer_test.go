package effects

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-fx/dsp/core"
)

func TestOutputTransformer(t *testing.T) {
	tests := []struct {
		name  string
		drive float64
		x     float32
	}{
		{"unity small", 1, 0.1},
		{"unity negative", 1, -0.8},
		{"driven", 4, 0.5},
		{"hard", 10, -1},
		{"zero drive", 0, 0.9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewOutputTransformer()
			if err := tr.SetDrive(tt.drive); err != nil {
				t.Fatal(err)
			}

			want := math.Tanh(tt.drive * float64(tt.x))
			if got := tr.ProcessSample(tt.x); math.Abs(float64(got)-want) > 1e-4 {
				t.Errorf("ProcessSample(%v) = %v, want %v", tt.x, got, want)
			}
		})
	}
}

func TestOutputTransformerSymmetricAndBounded(t *testing.T) {
	tr := NewOutputTransformer()
	_ = tr.SetDrive(10)

	src := sineBlock(1000, 3, 480)
	dst := make([]float32, len(src))
	tr.ProcessBlock(dst, src)

	for i := range src {
		if math.Abs(float64(dst[i])) > 1 {
			t.Fatalf("dst[%d] = %v out of [-1, 1]", i, dst[i])
		}

		if neg := tr.ProcessSample(-src[i]); neg != -dst[i] {
			t.Fatalf("not odd at %v: %v vs %v", src[i], neg, dst[i])
		}
	}
}

func TestOutputTransformerDrive(t *testing.T) {
	tr := NewOutputTransformer()

	if tr.Drive() != 1 {
		t.Errorf("default Drive = %f, want 1", tr.Drive())
	}

	_ = tr.SetDrive(50)
	if tr.Drive() != 10 {
		t.Errorf("Drive = %f, want 10", tr.Drive())
	}

	_ = tr.SetDrive(-1)
	if tr.Drive() != 0 {
		t.Errorf("Drive = %f, want 0", tr.Drive())
	}

	if err := tr.SetDrive(math.NaN()); !errors.Is(err, core.ErrNonFinite) {
		t.Errorf("SetDrive(NaN) error = %v", err)
	}
}
