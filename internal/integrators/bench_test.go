package integrators

import "testing"

type pair struct{ a, b float64 }

func (p pair) Add(o pair) pair { return pair{p.a + o.a, p.b + o.b} }
func (p pair) Scale(f float64) pair { return pair{p.a * f, p.b * f} }
func pairOscillator(p pair, t float64) pair { return pair{p.b, -p.a} }

func BenchmarkRK4Slice(b *testing.B) {
	x := slice{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = StepRK4(x, 0, 0.01, oscillator)
	}
}

func BenchmarkRK4Struct(b *testing.B) {
	x := pair{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		x = StepRK4(x, 0, 0.01, pairOscillator)
	}
}
