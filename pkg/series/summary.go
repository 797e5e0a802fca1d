package series

import (
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ChannelSummary holds magnitude statistics of one receive channel over all
// points and acquisitions.
type ChannelSummary struct {
	Channel       int
	MeanMagnitude float64
	StdMagnitude  float64
	MaxMagnitude  float64
}

// Summarize computes per-channel magnitude statistics.
func Summarize(s *ComplexSeries) []ChannelSummary {
	points, channels, acquisitions := s.points, s.channels, s.acquisitions
	summaries := make([]ChannelSummary, channels)

	mags := make([]float64, 0, points*acquisitions)
	for c := 0; c < channels; c++ {
		mags = mags[:0]
		for a := 0; a < acquisitions; a++ {
			off := s.offset(c, a)
			for _, v := range s.data[off : off+points] {
				mags = append(mags, cmplx.Abs(v))
			}
		}

		summaries[c].Channel = c
		if len(mags) == 0 {
			continue
		}
		summaries[c].MeanMagnitude, summaries[c].StdMagnitude = stat.MeanStdDev(mags, nil)
		summaries[c].MaxMagnitude = floats.Max(mags)
	}

	return summaries
}
