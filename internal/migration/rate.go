package migration

import (
	"errors"
	"fmt"
)

// ErrConfiguration marks invalid or inconsistent migration parameters. It
// is detected eagerly, never clamped or corrected.
var ErrConfiguration = errors.New("invalid migration configuration")

// RatePolicy computes how many individuals emigrate from a population each
// round. Exactly one of the absolute or fractional modes is active; a
// negative absolute count selects the fractional mode. Mode invariants are
// checked when the policy is evaluated, not when it is built.
type RatePolicy struct {
	abs  int
	frac float64
}

// AbsoluteRate migrates a fixed number of individuals per round.
func AbsoluteRate(count int) RatePolicy {
	return RatePolicy{abs: count}
}

// FractionalRate migrates floor(rate * population size) individuals per
// round.
func FractionalRate(rate float64) RatePolicy {
	return RatePolicy{abs: -1, frac: rate}
}

// DefaultRate migrates one individual per round.
func DefaultRate() RatePolicy {
	return AbsoluteRate(1)
}

// ParseRate builds a policy from its textual kind.
func ParseRate(kind string, value float64) (RatePolicy, error) {
	switch kind {
	case "", "absolute":
		return AbsoluteRate(int(value)), nil
	case "fractional":
		return FractionalRate(value), nil
	default:
		return RatePolicy{}, fmt.Errorf("%w: unknown rate kind %q", ErrConfiguration, kind)
	}
}

// CountToMigrate returns the emigrant count for a population of the given
// size. It is deterministic given the size.
func (p RatePolicy) CountToMigrate(populationSize int) (int, error) {
	if populationSize < 0 {
		return 0, fmt.Errorf("%w: negative population size %d", ErrConfiguration, populationSize)
	}
	if p.abs < 0 {
		if p.frac < 0 || p.frac > 1.0 {
			return 0, fmt.Errorf("%w: fractional migration rate %v outside [0,1]", ErrConfiguration, p.frac)
		}
		return int(p.frac * float64(populationSize)), nil
	}
	if p.abs > populationSize {
		return 0, fmt.Errorf("%w: absolute migration rate %d exceeds population size %d", ErrConfiguration, p.abs, populationSize)
	}
	return p.abs, nil
}

func (p RatePolicy) String() string {
	if p.abs < 0 {
		return fmt.Sprintf("fractional migration rate: %g", p.frac)
	}
	return fmt.Sprintf("absolute migration rate: %d", p.abs)
}
