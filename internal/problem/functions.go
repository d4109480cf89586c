package problem

import "math"

// Sphere is the continuous sum-of-squares minimization problem with the
// global optimum at the origin.
type Sphere struct {
	Dim int
}

func (Sphere) Name() string {
	return "sphere"
}

func (p Sphere) Dimension() int {
	return p.Dim
}

func (p Sphere) Bounds() ([]float64, []float64) {
	return uniformBounds(p.Dim, -5.12, 5.12)
}

func (p Sphere) Fitness(decision []float64) []float64 {
	total := 0.0
	for _, x := range decision {
		total += x * x
	}
	return []float64{total}
}

// Rastrigin is a highly multimodal minimization problem with the global
// optimum at the origin.
type Rastrigin struct {
	Dim int
}

func (Rastrigin) Name() string {
	return "rastrigin"
}

func (p Rastrigin) Dimension() int {
	return p.Dim
}

func (p Rastrigin) Bounds() ([]float64, []float64) {
	return uniformBounds(p.Dim, -5.12, 5.12)
}

func (p Rastrigin) Fitness(decision []float64) []float64 {
	total := 10.0 * float64(len(decision))
	for _, x := range decision {
		total += x*x - 10.0*math.Cos(2.0*math.Pi*x)
	}
	return []float64{total}
}

// Rosenbrock is the classic banana-valley minimization problem with the
// global optimum at (1,...,1).
type Rosenbrock struct {
	Dim int
}

func (Rosenbrock) Name() string {
	return "rosenbrock"
}

func (p Rosenbrock) Dimension() int {
	return p.Dim
}

func (p Rosenbrock) Bounds() ([]float64, []float64) {
	return uniformBounds(p.Dim, -2.048, 2.048)
}

func (p Rosenbrock) Fitness(decision []float64) []float64 {
	total := 0.0
	for i := 0; i+1 < len(decision); i++ {
		a := decision[i+1] - decision[i]*decision[i]
		b := 1.0 - decision[i]
		total += 100.0*a*a + b*b
	}
	return []float64{total}
}

func uniformBounds(dim int, lo, hi float64) ([]float64, []float64) {
	lower := make([]float64, dim)
	upper := make([]float64, dim)
	for i := 0; i < dim; i++ {
		lower[i] = lo
		upper[i] = hi
	}
	return lower, upper
}
