package arena

import (
	"errors"
	"testing"

	"creatura/internal/model"
	"creatura/internal/topology"
)

func cycleGenome(nodeCount int) model.Genome {
	g := model.Genome{ID: "test", Nodes: make([]model.NodeGene, nodeCount)}
	for i := range g.Nodes {
		g.Nodes[i] = model.NodeGene{Size: 0.5, Friction: 0.5, StaticFriction: 0.5}
	}
	for i := 0; i < nodeCount; i++ {
		m := model.MuscleGene{
			BodyA:            i,
			BodyB:            (i + 1) % nodeCount,
			Stiffness:        0.5,
			ContractedLength: 1,
			ExtendedLength:   2,
			ContractDelay:    0.5,
			ExtendDelay:      0.5,
		}
		m.Canonicalize()
		g.Muscles = append(g.Muscles, m)
	}
	topology.Apply(&g)
	return g
}

func TestDescribeExpressesOnlyEnabledGenes(t *testing.T) {
	g := cycleGenome(4)
	// Disconnect node 3 by rewiring its muscles into the 0-1-2 triangle.
	g.Muscles[2] = model.MuscleGene{BodyA: 0, BodyB: 2, Stiffness: 0.5, ContractedLength: 1, ExtendedLength: 2}
	g.Muscles[3] = model.MuscleGene{BodyA: 3, BodyB: 3}
	topology.Apply(&g)

	d, err := Describe(g, 7)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	if len(d.Nodes) != 3 {
		t.Fatalf("descriptor nodes = %d, want 3", len(d.Nodes))
	}
	for _, n := range d.Nodes {
		if n.Index == 3 {
			t.Fatal("disabled node expressed in descriptor")
		}
		if n.Group != 7 {
			t.Fatalf("group tag = %d, want 7", n.Group)
		}
		if !n.LockRotation {
			t.Fatal("node bodies must have locked rotation")
		}
	}
	if len(d.Muscles) != 3 {
		t.Fatalf("descriptor muscles = %d, want 3", len(d.Muscles))
	}
}

func TestDescribeRejectsMuscleWithDisabledEndpoint(t *testing.T) {
	g := cycleGenome(4)
	topology.Apply(&g)
	// Force an inconsistent state: enabled muscle pointing at a node that is
	// flagged off. Connectivity would never produce this, it is the
	// data-integrity fault the boundary must surface.
	g.Nodes[2].Enabled = false

	_, err := Describe(g, 0)
	var structural *StructuralError
	if !errors.As(err, &structural) {
		t.Fatalf("expected StructuralError, got %v", err)
	}
	if structural.GenomeID != "test" {
		t.Fatalf("fault genome = %q, want %q", structural.GenomeID, "test")
	}
}

func TestDescribeRejectsOutOfRangeEndpoint(t *testing.T) {
	g := cycleGenome(3)
	g.Muscles[0].BodyB = 9
	g.Muscles[0].Enabled = true

	_, err := Describe(g, 0)
	var structural *StructuralError
	if !errors.As(err, &structural) {
		t.Fatalf("expected StructuralError, got %v", err)
	}
	if structural.MuscleIndex != 0 {
		t.Fatalf("fault muscle = %d, want 0", structural.MuscleIndex)
	}
}

func TestMuscleClockAlternatesOnDelays(t *testing.T) {
	spec := MuscleSpec{ContractedLength: 1, ExtendedLength: 2, ContractDelay: 1, ExtendDelay: 0.5}
	clock := newMuscleClock(spec, 0)

	if clock.state != Contracted {
		t.Fatal("muscles start contracted")
	}
	clock.update(0.9)
	if clock.state != Contracted {
		t.Fatal("must hold contracted until the contract delay elapses")
	}
	clock.update(1.0)
	if clock.state != Extended {
		t.Fatal("must extend once the contract delay elapses")
	}
	if clock.targetLength() != 2 {
		t.Fatalf("target length = %g, want 2", clock.targetLength())
	}
	clock.update(1.5)
	if clock.state != Contracted {
		t.Fatal("must contract again after the extend delay")
	}
	// A long gap replays every toggle, not just one. From t=1.5 the cycle is
	// contracted [1.5,2.5), extended [2.5,3), contracted [3,4), extended at 4.
	clock.update(4.0)
	if clock.state != Extended {
		t.Fatalf("state after replay = %s, want extended", clock.state)
	}
}

func TestMuscleClockNegativeDelayPinsState(t *testing.T) {
	spec := MuscleSpec{ContractedLength: 1, ExtendedLength: 2, ContractDelay: -1, ExtendDelay: 0.5}
	clock := newMuscleClock(spec, 0)

	clock.update(1000)
	if clock.state != Contracted {
		t.Fatal("negative contract delay must pin the muscle contracted")
	}
}

func TestSpringArenaLifecycle(t *testing.T) {
	a, err := NewSpringArena(DefaultSpringConfig())
	if err != nil {
		t.Fatalf("new arena: %v", err)
	}
	g := cycleGenome(3)

	h, err := a.Instantiate(g, Vec2{X: 0, Y: 0}, 1)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	if err := a.Advance(h, 2.0); err != nil {
		t.Fatalf("advance: %v", err)
	}
	d1, err := a.Displacement(h)
	if err != nil {
		t.Fatalf("displacement: %v", err)
	}
	if err := a.Advance(h, 4.0); err != nil {
		t.Fatalf("advance: %v", err)
	}
	d2, err := a.Displacement(h)
	if err != nil {
		t.Fatalf("displacement: %v", err)
	}
	if d2 < d1 {
		t.Fatalf("displacement decreased: %g -> %g", d1, d2)
	}

	if err := a.Retire(h); err != nil {
		t.Fatalf("retire: %v", err)
	}
	if err := a.Retire(h); err == nil {
		t.Fatal("double retire must fail")
	}
	if _, err := a.Displacement(h); err == nil {
		t.Fatal("displacement after retire must fail")
	}
}

func TestSpringArenaIsDeterministic(t *testing.T) {
	g := cycleGenome(4)

	run := func() float64 {
		a, err := NewSpringArena(DefaultSpringConfig())
		if err != nil {
			t.Fatalf("new arena: %v", err)
		}
		h, err := a.Instantiate(g, Vec2{}, 0)
		if err != nil {
			t.Fatalf("instantiate: %v", err)
		}
		for step := 1; step <= 100; step++ {
			if err := a.Advance(h, float64(step)*0.05); err != nil {
				t.Fatalf("advance: %v", err)
			}
		}
		d, err := a.Displacement(h)
		if err != nil {
			t.Fatalf("displacement: %v", err)
		}
		return d
	}

	if first, second := run(), run(); first != second {
		t.Fatalf("same genome, same steps, different displacement: %g vs %g", first, second)
	}
}
