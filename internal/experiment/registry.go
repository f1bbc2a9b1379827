package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/pendsim/internal/dynamo"
	"github.com/san-kum/pendsim/internal/integrators"
	"github.com/san-kum/pendsim/internal/metrics"
	"github.com/san-kum/pendsim/internal/physics"
)

// DefaultIntegrator is the scheme used unless a caller asks otherwise.
const DefaultIntegrator = "symplectic"

type Registry struct {
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.integrators["symplectic"] = func() dynamo.Integrator { return integrators.NewSymplecticEuler() }
	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }
	r.integrators["verlet"] = func() dynamo.Integrator { return integrators.NewVerlet() }

	return r
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, r.ListIntegrators())
	}
	return fn(), nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics is the metric set recorded for every run.
func (r *Registry) DefaultMetrics(p *physics.Pendulum) []dynamo.Metric {
	return []dynamo.Metric{
		metrics.NewEnergy(p),
		metrics.NewEnergyDrift(p),
		metrics.NewEnergyLoss(p),
		metrics.NewAmplitude(),
	}
}
