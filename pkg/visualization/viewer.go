package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"
	"math/cmplx"
	"os"
	"path/filepath"

	"brukerfid/pkg/series"
	"brukerfid/pkg/spectrum"
)

// Domain selects what a plane shows.
type Domain int

const (
	// TimeDomain shows FID magnitudes.
	TimeDomain Domain = iota

	// FrequencyDomain shows spectrum magnitudes.
	FrequencyDomain
)

// Viewer renders magnitude previews of a complex series. Each plane is one
// receive channel with points along x and acquisitions along y.
type Viewer struct {
	// data holds the series being displayed
	data *series.ComplexSeries

	// dimensions of the series
	points       int
	channels     int
	acquisitions int

	// gamma is applied to normalised magnitudes before quantisation
	gamma float64

	// quality is the JPEG quality used when saving
	quality int
}

// NewViewer creates a viewer for data. A gamma of 0 selects 1 and a quality
// of 0 selects 90.
func NewViewer(data *series.ComplexSeries, gamma float64, quality int) *Viewer {
	shape := data.Shape()
	if gamma <= 0 {
		gamma = 1
	}
	if quality <= 0 || quality > 100 {
		quality = 90
	}
	return &Viewer{
		data:         data,
		points:       shape[0],
		channels:     shape[1],
		acquisitions: shape[2],
		gamma:        gamma,
		quality:      quality,
	}
}

// ExtractPlane renders channel c as a 16-bit grayscale image. Magnitudes are
// normalised to the largest value in the plane.
func (v *Viewer) ExtractPlane(channel int, domain Domain) (image.Image, error) {
	if channel < 0 || channel >= v.channels {
		return nil, fmt.Errorf("channel %d outside [0, %d)", channel, v.channels)
	}

	rows := make([][]float64, v.acquisitions)
	peak := 0.0
	for a := 0; a < v.acquisitions; a++ {
		readout := v.data.FID(channel, a)
		if domain == FrequencyDomain {
			readout = spectrum.Transform(readout, 0)
		}
		row := make([]float64, len(readout))
		for p, s := range readout {
			row[p] = cmplx.Abs(s)
			peak = math.Max(peak, row[p])
		}
		rows[a] = row
	}

	img := image.NewGray16(image.Rect(0, 0, v.points, v.acquisitions))
	for y, row := range rows {
		for x, m := range row {
			value := 0.0
			if peak > 0 {
				value = math.Pow(m/peak, 1/v.gamma)
			}
			img.SetGray16(x, y, color.Gray16{Y: uint16(math.Max(0, math.Min(65535, value*65535)))})
		}
	}

	return img, nil
}

// SavePlane saves an extracted plane as a JPEG image
func (v *Viewer) SavePlane(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return jpeg.Encode(file, img, &jpeg.Options{Quality: v.quality})
}

// SavePlaneSequence renders and saves one image per channel
func (v *Viewer) SavePlaneSequence(domain Domain, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, err
	}

	prefix := "fid"
	if domain == FrequencyDomain {
		prefix = "spectrum"
	}

	var written []string
	for c := 0; c < v.channels; c++ {
		img, err := v.ExtractPlane(c, domain)
		if err != nil {
			return written, err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("%s_channel_%02d.jpg", prefix, c))
		if err := v.SavePlane(img, filename); err != nil {
			return written, err
		}
		written = append(written, filename)
	}

	return written, nil
}
