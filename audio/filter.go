package audio

import (
	"fmt"
	"math"
)

// FilterType selects the SVF output tap.
type FilterType int

const (
	LowPass FilterType = iota
	HighPass
	BandPass
)

func (t FilterType) String() string {
	switch t {
	case HighPass:
		return "hp"
	case BandPass:
		return "bp"
	}
	return "lp"
}

func FilterTypeFromName(name string) (FilterType, error) {
	switch name {
	case "lp", "lowpass":
		return LowPass, nil
	case "hp", "highpass":
		return HighPass, nil
	case "bp", "bandpass":
		return BandPass, nil
	}
	return 0, fmt.Errorf("unknown filter type: %s", name)
}

// svfFilter is a 2-pole state-variable filter with trapezoidal integration.
// Coefficients are recomputed on parameter changes, not per sample.
type svfFilter struct {
	sampleRate float64
	filterType FilterType
	cutoff     float64
	resonance  float64

	low, band float64
	g, k      float64
}

func newSvfFilter(sampleRate float64) *svfFilter {
	f := &svfFilter{
		sampleRate: sampleRate,
		cutoff:     2000,
	}
	f.updateCoefficients()
	return f
}

func (f *svfFilter) updateCoefficients() {
	freq := f.cutoff
	if max := f.sampleRate * 0.49; freq > max {
		freq = max
	}
	f.g = math.Tan(math.Pi * freq / f.sampleRate)
	// resonance 0..0.95 maps to damping 2..0.1
	f.k = 2 - 2*f.resonance
}

func (f *svfFilter) setCutoff(hz float64) {
	if hz < 20 {
		hz = 20
	}
	if hz > 20000 {
		hz = 20000
	}
	f.cutoff = hz
	f.updateCoefficients()
}

func (f *svfFilter) setResonance(q float64) {
	if q < 0 {
		q = 0
	}
	if q > 0.95 {
		q = 0.95
	}
	f.resonance = q
	f.updateCoefficients()
}

func (f *svfFilter) setType(t FilterType) { f.filterType = t }

func (f *svfFilter) process(input float64) float64 {
	a1 := 1 / (1 + f.g*(f.g+f.k))
	a2 := f.g * a1
	a3 := f.g * a2

	v3 := input - f.low - f.k*f.band
	v1 := a1*f.band + a2*v3
	v2 := f.low + a2*f.band + a3*v3

	f.band = 2*v1 - f.band
	f.low = 2*v2 - f.low

	switch f.filterType {
	case HighPass:
		return input - f.k*v1 - v2
	case BandPass:
		return v1
	}
	return v2
}
