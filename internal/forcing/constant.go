package forcing

import "fmt"

type Constant struct {
	Value float64
}

func NewConstant(value float64) (*Constant, error) {
	if value < 0 {
		return nil, fmt.Errorf("forcing: constant rate must be nonnegative, got %g", value)
	}
	return &Constant{Value: value}, nil
}

func (c *Constant) Rate(t float64) float64 { return c.Value }
func (c *Constant) Mean() float64          { return c.Value }
func (c *Constant) Name() string           { return "constant" }
