// Package arena is the boundary to the phenotype/simulation provider: it
// turns an activated genome into placed bodies and actuators, advances their
// actuation over time and reports the displacement fitness signal back.
package arena

import (
	"fmt"

	"creatura/internal/model"
)

// Handle is an opaque reference to one instantiated phenotype.
type Handle int

// Vec2 is a spawn origin or body position in arena coordinates.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Arena is the external simulation contract. Calls are synchronous and
// non-blocking per step; the evolutionary loop owns the cadence.
type Arena interface {
	// Instantiate places bodies and actuators for the enabled genes of a
	// post-connectivity genome at the given origin. The collision group tag
	// is passed explicitly rather than read from shared process state.
	Instantiate(genome model.Genome, origin Vec2, group int) (Handle, error)
	// Advance updates actuation targets and physical state up to now
	// (seconds since the run epoch).
	Advance(h Handle, now float64) error
	// Displacement reports the maximum x coordinate reached by any enabled
	// node body since spawn.
	Displacement(h Handle) (float64, error)
	// Retire releases every physical resource held for the handle.
	Retire(h Handle) error
}

// NodeSpec is the phenotype descriptor of one enabled node gene.
type NodeSpec struct {
	Index          int     `json:"index"`
	Radius         float64 `json:"radius"`
	Friction       float64 `json:"friction"`
	StaticFriction float64 `json:"static_friction"`
	// LockRotation marks the body as having fixed (infinite) angular inertia.
	LockRotation bool `json:"lock_rotation"`
	Group        int  `json:"group"`
}

// MuscleSpec is the phenotype descriptor of one enabled muscle gene.
type MuscleSpec struct {
	BodyA            int     `json:"body_a"`
	BodyB            int     `json:"body_b"`
	Stiffness        float64 `json:"stiffness"`
	ContractedLength float64 `json:"contracted_length"`
	ExtendedLength   float64 `json:"extended_length"`
	ContractDelay    float64 `json:"contract_delay"`
	ExtendDelay      float64 `json:"extend_delay"`
}

// Descriptor is the full phenotype plan for one genome: enabled genes only.
type Descriptor struct {
	GenomeID string       `json:"genome_id"`
	Nodes    []NodeSpec   `json:"nodes"`
	Muscles  []MuscleSpec `json:"muscles"`
}

// StructuralError reports a muscle referencing a node that is disabled or out
// of range. This is a data-integrity fault of the offending genome, not a
// normal runtime condition; callers treat the individual as non-viable.
type StructuralError struct {
	GenomeID    string
	MuscleIndex int
	Reason      string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("genome %s muscle %d: %s", e.GenomeID, e.MuscleIndex, e.Reason)
}

// Describe maps a genome to its phenotype descriptor. The mapping is pure:
// only enabled genes are expressed, and every enabled muscle must reference
// two distinct enabled in-range nodes.
func Describe(genome model.Genome, group int) (Descriptor, error) {
	d := Descriptor{GenomeID: genome.ID}

	enabled := make([]bool, len(genome.Nodes))
	for i, n := range genome.Nodes {
		enabled[i] = n.Enabled
		if !n.Enabled {
			continue
		}
		d.Nodes = append(d.Nodes, NodeSpec{
			Index:          i,
			Radius:         n.Size,
			Friction:       n.Friction,
			StaticFriction: n.StaticFriction,
			LockRotation:   true,
			Group:          group,
		})
	}

	for j, m := range genome.Muscles {
		if !m.Enabled {
			continue
		}
		if m.BodyA < 0 || m.BodyB >= len(genome.Nodes) {
			return Descriptor{}, &StructuralError{
				GenomeID:    genome.ID,
				MuscleIndex: j,
				Reason:      fmt.Sprintf("endpoint out of range: (%d,%d) with %d nodes", m.BodyA, m.BodyB, len(genome.Nodes)),
			}
		}
		if m.BodyA == m.BodyB {
			return Descriptor{}, &StructuralError{
				GenomeID:    genome.ID,
				MuscleIndex: j,
				Reason:      fmt.Sprintf("self-loop endpoints (%d,%d) cannot be enabled", m.BodyA, m.BodyB),
			}
		}
		if !enabled[m.BodyA] || !enabled[m.BodyB] {
			return Descriptor{}, &StructuralError{
				GenomeID:    genome.ID,
				MuscleIndex: j,
				Reason:      fmt.Sprintf("endpoint (%d,%d) references a disabled node", m.BodyA, m.BodyB),
			}
		}
		d.Muscles = append(d.Muscles, MuscleSpec{
			BodyA:            m.BodyA,
			BodyB:            m.BodyB,
			Stiffness:        m.Stiffness,
			ContractedLength: m.ContractedLength,
			ExtendedLength:   m.ExtendedLength,
			ContractDelay:    m.ContractDelay,
			ExtendDelay:      m.ExtendDelay,
		})
	}

	return d, nil
}
