package forcing

import (
	"fmt"
	"math"
)

// Seasonal oscillates around a mean input with one full cycle per Period
// time units. The amplitude may not exceed the mean, so the rate never
// goes negative.
type Seasonal struct {
	MeanRate  float64
	Amplitude float64
	Period    float64
	Phase     float64
}

func NewSeasonal(mean, amplitude, period, phase float64) (*Seasonal, error) {
	if mean < 0 {
		return nil, fmt.Errorf("forcing: seasonal mean must be nonnegative, got %g", mean)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("forcing: seasonal amplitude must be nonnegative, got %g", amplitude)
	}
	if amplitude > mean {
		return nil, fmt.Errorf("forcing: seasonal amplitude %g exceeds mean %g (rate would go negative)", amplitude, mean)
	}
	if err := validatePositive("seasonal period", period); err != nil {
		return nil, err
	}
	return &Seasonal{MeanRate: mean, Amplitude: amplitude, Period: period, Phase: phase}, nil
}

func (s *Seasonal) Rate(t float64) float64 {
	return s.MeanRate + s.Amplitude*math.Sin(2*math.Pi*(t/s.Period+s.Phase))
}

func (s *Seasonal) Mean() float64 { return s.MeanRate }
func (s *Seasonal) Name() string  { return "seasonal" }
