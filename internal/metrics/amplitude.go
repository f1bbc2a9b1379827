package metrics

import (
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
)

// Amplitude is the largest |theta| seen during the run.
type Amplitude struct {
	name string
	max  float64
}

func NewAmplitude() *Amplitude {
	return &Amplitude{name: "amplitude"}
}

func (a *Amplitude) Name() string { return a.name }

func (a *Amplitude) Observe(x dynamo.State) {
	a.max = math.Max(a.max, math.Abs(x.Theta))
}

func (a *Amplitude) Value() float64 { return a.max }

func (a *Amplitude) Reset() { a.max = 0 }

