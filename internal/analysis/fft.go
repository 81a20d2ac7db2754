package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first half of the spectrum of
// data after removing its mean. Bin k corresponds to k/(len(data)·dt) Hz.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}

	spectrum := fft.FFTReal(centred)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency is the frequency in Hz of the strongest non-DC bin of
// data sampled every dt seconds. It returns 0 when there is no signal.
func DominantFrequency(data []float64, dt float64) float64 {
	if !(dt > 0) {
		return 0
	}
	ps := PowerSpectrum(data)
	best, peak := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > peak {
			best, peak = k, ps[k]
		}
	}
	if best == 0 {
		return 0
	}
	return float64(best) / (float64(len(data)) * dt)
}

// DominantPeriod is 1/DominantFrequency, or 0 when there is no signal.
func DominantPeriod(data []float64, dt float64) float64 {
	f := DominantFrequency(data, dt)
	if f == 0 {
		return 0
	}
	return 1 / f
}

// CrossingPeriod measures the period from upward zero crossings of data,
// interpolating each crossing linearly. It needs at least two crossings.
func CrossingPeriod(data []float64, dt float64) (float64, bool) {
	var crossings []float64
	for i := 1; i < len(data); i++ {
		prev, curr := data[i-1], data[i]
		if prev < 0 && curr >= 0 {
			frac := -prev / (curr - prev)
			if math.IsNaN(frac) || math.IsInf(frac, 0) {
				frac = 0.5
			}
			crossings = append(crossings, (float64(i-1)+frac)*dt)
		}
	}
	if len(crossings) < 2 {
		return 0, false
	}
	return (crossings[len(crossings)-1] - crossings[0]) / float64(len(crossings)-1), true
}
