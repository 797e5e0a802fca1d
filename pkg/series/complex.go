package series

import (
	"fmt"
	"math"
)

// ComplexSeries is a (points, channels, acquisitions) array of complex
// samples. Points vary fastest in storage, matching the on-disk order.
type ComplexSeries struct {
	data         []complex128
	points       int
	channels     int
	acquisitions int
}

// NewComplexSeries wraps data laid out with points fastest and acquisitions
// slowest. It returns a *ReshapeError if data is too short.
func NewComplexSeries(data []complex128, points, channels, acquisitions int) (*ComplexSeries, error) {
	want, ok := sampleCount(points, channels, acquisitions)
	if !ok {
		return nil, fmt.Errorf("shape (%d, %d, %d) does not fit in memory: %w", points, channels, acquisitions, ErrReshape)
	}
	if len(data) < want {
		return nil, &ReshapeError{Want: want, Have: len(data)}
	}
	return &ComplexSeries{
		data:         data[:want],
		points:       points,
		channels:     channels,
		acquisitions: acquisitions,
	}, nil
}

// Reshape interprets a flat buffer read as (acquisitions, channels, points)
// as a (points, channels, acquisitions) series and drops the first shift
// points of every readout.
func Reshape(samples []complex128, points, channels, acquisitions, shift int) (*ComplexSeries, error) {
	want, ok := sampleCount(points, channels, acquisitions)
	if !ok {
		return nil, fmt.Errorf("shape (%d, %d, %d) does not fit in memory: %w", points, channels, acquisitions, ErrReshape)
	}
	if shift < 0 || shift > points {
		return nil, fmt.Errorf("shift %d outside [0, %d]: %w", shift, points, ErrReshape)
	}
	if len(samples) < want {
		return nil, &ReshapeError{Want: want, Have: len(samples)}
	}

	kept := points - shift
	data := make([]complex128, 0, kept*channels*acquisitions)
	for readout := 0; readout < channels*acquisitions; readout++ {
		start := readout * points
		data = append(data, samples[start+shift:start+points]...)
	}

	return &ComplexSeries{
		data:         data,
		points:       kept,
		channels:     channels,
		acquisitions: acquisitions,
	}, nil
}

// sampleCount returns points*channels*acquisitions. It reports false when a
// dimension is negative or the product overflows int.
func sampleCount(points, channels, acquisitions int) (int, bool) {
	n := 1
	for _, d := range [3]int{points, channels, acquisitions} {
		if d < 0 || (d > 0 && n > math.MaxInt/d) {
			return 0, false
		}
		n *= d
	}
	return n, true
}

// Shape returns (points, channels, acquisitions).
func (s *ComplexSeries) Shape() [3]int {
	return [3]int{s.points, s.channels, s.acquisitions}
}

// Len returns the total number of samples.
func (s *ComplexSeries) Len() int {
	return len(s.data)
}

// At returns the sample at point p of channel c in acquisition a.
func (s *ComplexSeries) At(p, c, a int) complex128 {
	return s.data[s.offset(c, a)+p]
}

// FID returns a copy of the readout of channel c in acquisition a.
func (s *ComplexSeries) FID(c, a int) []complex128 {
	out := make([]complex128, s.points)
	copy(out, s.data[s.offset(c, a):])
	return out
}

// Data returns the backing samples, points fastest then channels then
// acquisitions.
func (s *ComplexSeries) Data() []complex128 {
	return s.data
}

func (s *ComplexSeries) offset(c, a int) int {
	return (a*s.channels + c) * s.points
}
