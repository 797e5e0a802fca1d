package spectrum

import (
	"math"
	"math/cmplx"
	"testing"
)

// tone returns n samples of a complex exponential at bin k.
func tone(n, k int) []complex128 {
	out := make([]complex128, n)
	for i := range out {
		out[i] = cmplx.Exp(complex(0, 2*math.Pi*float64(k*i)/float64(n)))
	}
	return out
}

func TestTransformPeakPosition(t *testing.T) {
	n := 64
	spc := Transform(tone(n, 5), 0)
	if len(spc) != n {
		t.Fatalf("Expected %d bins, got %d", n, len(spc))
	}

	est, err := EstimateSNR(spc, 0.25)
	if err != nil {
		t.Fatalf("EstimateSNR failed: %v", err)
	}
	if est.PeakIndex != n/2+5 {
		t.Errorf("Expected peak at %d, got %d", n/2+5, est.PeakIndex)
	}
	if math.Abs(est.PeakMagnitude-float64(n)) > 1e-9 {
		t.Errorf("Expected peak magnitude %d, got %v", n, est.PeakMagnitude)
	}
}

func TestTransformZeroFill(t *testing.T) {
	spc := Transform(tone(16, 0), 64)
	if len(spc) != 64 {
		t.Fatalf("Expected 64 bins, got %d", len(spc))
	}
	mags := Magnitude(spc)
	if math.Abs(mags[32]-16) > 1e-9 {
		t.Errorf("Expected DC bin magnitude 16, got %v", mags[32])
	}
	if Transform(nil, 0) != nil {
		t.Error("Expected nil spectrum for empty input")
	}
}

func TestFFTShift(t *testing.T) {
	got := fftShift([]complex128{0, 1, 2, 3, 4})
	want := []complex128{3, 4, 0, 1, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestAxes(t *testing.T) {
	hz := FrequencyAxis(4, 0.0002)
	want := []float64{-2500, -1250, 0, 1250}
	for i := range want {
		if math.Abs(hz[i]-want[i]) > 1e-9 {
			t.Errorf("Bin %d: expected %v Hz, got %v", i, want[i], hz[i])
		}
	}

	ppm, err := PPMAxis(4, 0.0002, 300, WaterPPM)
	if err != nil {
		t.Fatalf("PPMAxis failed: %v", err)
	}
	if ppm[2] != WaterPPM {
		t.Errorf("Expected centre bin at %v ppm, got %v", WaterPPM, ppm[2])
	}
	if ppm[0] <= ppm[3] {
		t.Errorf("Expected ppm axis to decrease, got %v", ppm)
	}

	if _, err := PPMAxis(4, 0.0002, 0, WaterPPM); err == nil {
		t.Error("Expected error for zero imaging frequency")
	}
}

func TestEstimateSNRInvalid(t *testing.T) {
	if _, err := EstimateSNR(nil, 0.2); err == nil {
		t.Error("Expected error for empty spectrum")
	}
	if _, err := EstimateSNR(make([]complex128, 8), 1.5); err == nil {
		t.Error("Expected error for noise fraction above 1")
	}
}
