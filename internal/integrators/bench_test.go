package integrators

import (
	"testing"

	"github.com/san-kum/pendsim/internal/dynamo"
)

func benchmarkIntegrator(b *testing.B, integ dynamo.Integrator) {
	x := dynamo.State{Theta: 1}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = integ.Step(harmonic, x, 0.01)
	}
}

func BenchmarkSymplecticEuler(b *testing.B) { benchmarkIntegrator(b, NewSymplecticEuler()) }
func BenchmarkEuler(b *testing.B)           { benchmarkIntegrator(b, NewEuler()) }
func BenchmarkRK4(b *testing.B)             { benchmarkIntegrator(b, NewRK4()) }
func BenchmarkVerlet(b *testing.B)          { benchmarkIntegrator(b, NewVerlet()) }
