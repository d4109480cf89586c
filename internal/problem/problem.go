package problem

import "fmt"

// Problem is a pure objective: immutable once bound to a population.
// Fitness must not retain or mutate the decision slice.
type Problem interface {
	Name() string
	Dimension() int
	Bounds() (lo, hi []float64)
	Fitness(decision []float64) []float64
}

// ConstrainedProblem optionally reports constraint violations alongside
// fitness. A positive component means the constraint is violated.
type ConstrainedProblem interface {
	Problem
	Constraints(decision []float64) []float64
}

// ByName builds one of the bundled benchmark problems.
func ByName(name string, dimension int) (Problem, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("problem dimension must be > 0, got %d", dimension)
	}
	switch name {
	case "sphere":
		return Sphere{Dim: dimension}, nil
	case "rastrigin":
		return Rastrigin{Dim: dimension}, nil
	case "rosenbrock":
		if dimension < 2 {
			return nil, fmt.Errorf("rosenbrock requires dimension >= 2, got %d", dimension)
		}
		return Rosenbrock{Dim: dimension}, nil
	default:
		return nil, fmt.Errorf("unknown problem: %s", name)
	}
}

// Compatible reports whether two problems describe the same search space.
func Compatible(a, b Problem) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Name() == b.Name() && a.Dimension() == b.Dimension()
}
