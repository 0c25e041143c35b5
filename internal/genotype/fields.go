package genotype

import (
	"fmt"
	"math/rand"

	"golang.org/x/exp/constraints"
)

// FieldSpec is the sampling policy for one gene field family: a Gaussian
// with configured mean and sigma, clipped to [Min, Max].
type FieldSpec struct {
	Mean  float64
	Sigma float64
	Min   float64
	Max   float64
}

// Validate rejects degenerate distributions at configuration time.
func (s FieldSpec) Validate(name string) error {
	if s.Sigma <= 0 {
		return fmt.Errorf("field family %s: sigma must be > 0, got %g", name, s.Sigma)
	}
	if s.Min > s.Max {
		return fmt.Errorf("field family %s: min %g exceeds max %g", name, s.Min, s.Max)
	}
	return nil
}

// Sample draws a fresh value from the family's base distribution.
func (s FieldSpec) Sample(rng *rand.Rand) float64 {
	return clamp(rng.NormFloat64()*s.Sigma+s.Mean, s.Min, s.Max)
}

// Resample draws a value from a Gaussian centered on the current value, not
// the base mean, so mutation stays local and incremental. The family sigma is
// scaled by tighten before the draw.
func (s FieldSpec) Resample(rng *rand.Rand, current, tighten float64) float64 {
	return clamp(rng.NormFloat64()*s.Sigma*tighten+current, s.Min, s.Max)
}

// Families bundles every field family of both gene types together with the
// shared mutation knobs.
type Families struct {
	NodeSize           FieldSpec
	NodeFriction       FieldSpec
	NodeStaticFriction FieldSpec

	MuscleStiffness     FieldSpec
	MuscleContracted    FieldSpec
	MuscleExtended      FieldSpec
	MuscleContractDelay FieldSpec
	MuscleExtendDelay   FieldSpec

	// MutationRate is the per-gene probability that exactly one field is
	// re-sampled during a mutate call.
	MutationRate float64
	// SigmaTighten scales the family sigma for mutation re-sampling; 1 keeps
	// the base spread, values below 1 make mutation more local.
	SigmaTighten float64
}

// DefaultFamilies mirrors the reference creature parameters.
func DefaultFamilies() Families {
	return Families{
		NodeSize:           FieldSpec{Mean: 0.5, Sigma: 0.15, Min: 0.1, Max: 1.5},
		NodeFriction:       FieldSpec{Mean: 0.5, Sigma: 0.2, Min: 0, Max: 1},
		NodeStaticFriction: FieldSpec{Mean: 0.5, Sigma: 0.2, Min: 0, Max: 1},

		MuscleStiffness:     FieldSpec{Mean: 0.5, Sigma: 0.2, Min: 0, Max: 1},
		MuscleContracted:    FieldSpec{Mean: 1.0, Sigma: 0.35, Min: 0.25, Max: 3},
		MuscleExtended:      FieldSpec{Mean: 2.0, Sigma: 0.5, Min: 0.5, Max: 5},
		MuscleContractDelay: FieldSpec{Mean: 0.6, Sigma: 0.25, Min: 0, Max: 2.5},
		MuscleExtendDelay:   FieldSpec{Mean: 0.6, Sigma: 0.25, Min: 0, Max: 2.5},

		MutationRate: 0.05,
		SigmaTighten: 0.5,
	}
}

// Validate checks every family plus the shared mutation knobs.
func (f Families) Validate() error {
	checks := []struct {
		name string
		spec FieldSpec
	}{
		{"node.size", f.NodeSize},
		{"node.friction", f.NodeFriction},
		{"node.static_friction", f.NodeStaticFriction},
		{"muscle.stiffness", f.MuscleStiffness},
		{"muscle.contracted_length", f.MuscleContracted},
		{"muscle.extended_length", f.MuscleExtended},
		{"muscle.contract_delay", f.MuscleContractDelay},
		{"muscle.extend_delay", f.MuscleExtendDelay},
	}
	for _, check := range checks {
		if err := check.spec.Validate(check.name); err != nil {
			return err
		}
	}
	if f.MutationRate < 0 || f.MutationRate > 1 {
		return fmt.Errorf("mutation rate must be in [0,1], got %g", f.MutationRate)
	}
	if f.SigmaTighten <= 0 {
		return fmt.Errorf("sigma tighten must be > 0, got %g", f.SigmaTighten)
	}
	return nil
}

func clamp[T constraints.Ordered](value, lo, hi T) T {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
