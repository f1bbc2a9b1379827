package sim

import (
	"fmt"
	"math"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/physics"
)

const DefaultStepsPerPeriod = 60000

// Config controls a single run. The zero value is not usable; start from
// DefaultConfig.
type Config struct {
	// StepsPerPeriod sets dt = T0 / StepsPerPeriod.
	StepsPerPeriod int
	// Damping is the linear damping coefficient k, in N*m*s.
	Damping float64
	// Oscillations is the peak count that ends the run.
	Oscillations int
	// MaxTimeFactor bounds the run to MaxTimeFactor * T0 seconds.
	MaxTimeFactor float64
}

func DefaultConfig() Config {
	return Config{
		StepsPerPeriod: DefaultStepsPerPeriod,
		Damping:        0,
		Oscillations:   physics.Oscillations,
		MaxTimeFactor:  physics.MaxTimeFactor,
	}
}

// WithDamping returns a copy of c using damping k.
func (c Config) WithDamping(k float64) Config {
	c.Damping = k
	return c
}

func (c Config) Validate() error {
	if c.StepsPerPeriod <= 0 {
		return fmt.Errorf("steps per period must be positive, got %d: %w", c.StepsPerPeriod, dynamo.ErrParameterBounds)
	}
	if c.Oscillations <= 0 {
		return fmt.Errorf("oscillation target must be positive, got %d: %w", c.Oscillations, dynamo.ErrParameterBounds)
	}
	if !(c.MaxTimeFactor > 0) || math.IsInf(c.MaxTimeFactor, 0) {
		return fmt.Errorf("max time factor must be positive, got %f: %w", c.MaxTimeFactor, dynamo.ErrParameterBounds)
	}
	if !(c.Damping >= 0) || math.IsInf(c.Damping, 0) {
		return fmt.Errorf("damping must be non-negative, got %f: %w", c.Damping, dynamo.ErrParameterBounds)
	}
	return nil
}
