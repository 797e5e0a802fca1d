// Package spectrum turns a free induction decay into a frequency domain
// spectrum and estimates simple quality figures from it.
package spectrum

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WaterPPM is the default chemical shift placed at the centre of the
// spectrum.
const WaterPPM = 4.65

// Transform computes the spectrum of a FID using Gonum's complex FFT.
// The FID is zero filled to zeroFill points when zeroFill exceeds its
// length. The output is shifted so that zero frequency sits at index n/2.
//
// Parameters:
//   - fid: Time domain samples of one readout
//   - zeroFill: Total length after zero filling (0 keeps the FID length)
//
// Returns:
//   - The centred spectrum
func Transform(fid []complex128, zeroFill int) []complex128 {
	n := len(fid)
	if zeroFill > n {
		n = zeroFill
	}
	if n == 0 {
		return nil
	}

	input := make([]complex128, n)
	copy(input, fid)

	fft := fourier.NewCmplxFFT(n)
	coeffs := fft.Coefficients(nil, input)

	return fftShift(coeffs)
}

// fftShift rotates the spectrum so that the zero frequency bin is at n/2.
func fftShift(x []complex128) []complex128 {
	n := len(x)
	out := make([]complex128, n)
	half := (n + 1) / 2
	copy(out, x[half:])
	copy(out[n-half:], x[:half])
	return out
}

// FrequencyAxis returns the frequency in Hz of each bin of a centred
// spectrum of n points sampled every dwell seconds.
func FrequencyAxis(n int, dwell float64) []float64 {
	axis := make([]float64, n)
	bandwidth := 1 / dwell
	for i := range axis {
		axis[i] = (float64(i-n/2) / float64(n)) * bandwidth
	}
	return axis
}

// PPMAxis returns the chemical shift of each bin. imagingFrequency is in MHz
// and centre is the shift assigned to zero frequency. The axis decreases
// with increasing frequency, following spectroscopy convention.
func PPMAxis(n int, dwell, imagingFrequency, centre float64) ([]float64, error) {
	if imagingFrequency <= 0 {
		return nil, fmt.Errorf("invalid imaging frequency %g MHz", imagingFrequency)
	}
	hz := FrequencyAxis(n, dwell)
	for i, f := range hz {
		hz[i] = centre - f/imagingFrequency
	}
	return hz, nil
}

// Magnitude returns |x| for each element.
func Magnitude(x []complex128) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[i] = cmplx.Abs(v)
	}
	return out
}

// Estimate holds peak and noise figures of a spectrum.
type Estimate struct {
	PeakIndex     int
	PeakMagnitude float64
	NoiseStdDev   float64
	SNR           float64
}

// EstimateSNR finds the largest magnitude bin and compares it with the
// standard deviation of the real part over the outer noiseFraction of the
// spectrum (split between both edges).
func EstimateSNR(spc []complex128, noiseFraction float64) (Estimate, error) {
	if len(spc) == 0 {
		return Estimate{}, fmt.Errorf("empty spectrum")
	}
	if noiseFraction <= 0 || noiseFraction >= 1 {
		return Estimate{}, fmt.Errorf("noise fraction %g outside (0, 1)", noiseFraction)
	}

	mags := Magnitude(spc)
	var est Estimate
	est.PeakIndex = floats.MaxIdx(mags)
	est.PeakMagnitude = mags[est.PeakIndex]

	edge := int(float64(len(spc)) * noiseFraction / 2)
	if edge < 1 {
		edge = 1
	}
	noise := make([]float64, 0, 2*edge)
	for _, v := range spc[:edge] {
		noise = append(noise, real(v))
	}
	for _, v := range spc[len(spc)-edge:] {
		noise = append(noise, real(v))
	}

	if len(noise) > 1 {
		est.NoiseStdDev = stat.StdDev(noise, nil)
	}
	if est.NoiseStdDev > 0 {
		est.SNR = est.PeakMagnitude / est.NoiseStdDev
	}

	return est, nil
}
