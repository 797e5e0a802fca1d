package series

import (
	"fmt"
	"math"

	"brukerfid/pkg/paravision"
)

// Parameter names read from the method file.
const (
	ParamRepetitions = "PVM_NRepetitions"
	ParamAverages    = "PVM_NAverages"
	ParamPoints      = "PVM_DigNp"
	ParamBandwidth   = "PVM_DigSw"
	ParamShift       = "PVM_DigShift"
	ParamChannels    = "PVM_EncNReceivers"
	ParamFrequency   = "PVM_FrqRef"
	ParamEchoTime    = "PVM_EchoTime"
	ParamOrientation = "PVM_VoxArrGradOrient"
	ParamPosition    = "PVM_VoxArrPosition"
	ParamSize        = "PVM_VoxArrSize"
)

// Derived header keys.
const (
	HeaderImagingFrequency = "ImagingFrequency"
	HeaderDwellTime        = "Dwelltime"
	HeaderEchoTime         = "EchoTime"
)

// Acquisition holds the numbers derived from the method parameters that
// size and describe the fid.
type Acquisition struct {
	Repetitions  float64
	Averages     float64
	Acquisitions int

	// Points is the number of complex points per readout before trimming.
	Points int

	// Shift is the number of leading group-delay points to discard.
	Shift int

	Channels int

	// Bandwidth is the digitisation bandwidth in Hz.
	Bandwidth float64

	// DwellTime is 1/Bandwidth in seconds.
	DwellTime float64

	// ImagingFrequency is the first reference frequency in MHz.
	ImagingFrequency float64

	// EchoTime is in seconds.
	EchoTime float64
}

// AcquisitionFromTable reads the acquisition parameters from a parameter
// table. Any missing parameter is reported as a
// *paravision.MissingParameterError.
func AcquisitionFromTable(t paravision.Table) (Acquisition, error) {
	var acq Acquisition
	var err error

	if acq.Repetitions, err = t.Float(ParamRepetitions); err != nil {
		return acq, err
	}
	if acq.Averages, err = t.Float(ParamAverages); err != nil {
		return acq, err
	}
	acq.Acquisitions = int(acq.Repetitions * acq.Averages)

	if acq.Points, err = t.Int(ParamPoints); err != nil {
		return acq, err
	}
	if acq.Bandwidth, err = t.Float(ParamBandwidth); err != nil {
		return acq, err
	}
	if acq.Shift, err = t.Int(ParamShift); err != nil {
		return acq, err
	}
	if acq.Channels, err = t.Int(ParamChannels); err != nil {
		return acq, err
	}
	if acq.ImagingFrequency, err = t.First(ParamFrequency); err != nil {
		return acq, err
	}
	echo, err := t.Float(ParamEchoTime)
	if err != nil {
		return acq, err
	}
	acq.EchoTime = echo * 1e-3

	if err := acq.validate(); err != nil {
		return acq, err
	}
	acq.DwellTime = 1 / acq.Bandwidth

	return acq, nil
}

func (a Acquisition) validate() error {
	switch {
	case a.Acquisitions <= 0:
		return fmt.Errorf("%d acquisitions: %w", a.Acquisitions, ErrInvalidAcquisition)
	case a.Points <= 0:
		return fmt.Errorf("%d points: %w", a.Points, ErrInvalidAcquisition)
	case a.Channels <= 0:
		return fmt.Errorf("%d channels: %w", a.Channels, ErrInvalidAcquisition)
	case a.Bandwidth <= 0:
		return fmt.Errorf("bandwidth %g Hz: %w", a.Bandwidth, ErrInvalidAcquisition)
	case a.Shift < 0 || a.Shift > a.Points:
		return fmt.Errorf("shift %d outside [0, %d]: %w", a.Shift, a.Points, ErrInvalidAcquisition)
	}

	// Two words per complex sample.
	if n, ok := sampleCount(a.Points, a.Channels, a.Acquisitions); !ok || n > math.MaxInt/2 {
		return fmt.Errorf("%d points x %d channels x %d acquisitions is too large: %w",
			a.Points, a.Channels, a.Acquisitions, ErrInvalidAcquisition)
	}
	return nil
}

// WordCount is the number of 32-bit words (real and imaginary) the fid
// should hold.
func (a Acquisition) WordCount() int {
	return a.Acquisitions * a.Points * 2 * a.Channels
}

// headerValues returns the derived entries merged into the header.
func (a Acquisition) headerValues() map[string]paravision.Value {
	return map[string]paravision.Value{
		HeaderImagingFrequency: paravision.Number(a.ImagingFrequency),
		HeaderDwellTime:        paravision.Number(a.DwellTime),
		HeaderEchoTime:         paravision.Number(a.EchoTime),
	}
}
