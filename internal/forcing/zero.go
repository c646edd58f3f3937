package forcing

// Zero models an incubation: a soil sample cut off from its carbon source.
type Zero struct{}

func NewZero() *Zero { return &Zero{} }

func (z *Zero) Rate(t float64) float64 { return 0 }
func (z *Zero) Mean() float64          { return 0 }
func (z *Zero) Name() string           { return "zero" }
