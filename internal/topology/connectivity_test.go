package topology

import (
	"testing"

	"creatura/internal/model"
)

func muscle(a, b int) model.MuscleGene {
	m := model.MuscleGene{BodyA: a, BodyB: b}
	m.Canonicalize()
	return m
}

func TestAnalyzeChainLeavesIsolatedNodeDisabled(t *testing.T) {
	muscles := []model.MuscleGene{muscle(0, 1), muscle(1, 2)}
	analysis := Analyze(4, muscles)

	wantEnabled := []bool{true, true, true, false}
	for i, want := range wantEnabled {
		if analysis.NodeEnabled[i] != want {
			t.Errorf("node %d enabled = %t, want %t", i, analysis.NodeEnabled[i], want)
		}
	}
	for j := range muscles {
		if !analysis.MuscleEnabled[j] {
			t.Errorf("muscle %d should be enabled", j)
		}
	}
	if len(analysis.Components) != 2 {
		t.Fatalf("components = %d, want 2", len(analysis.Components))
	}
	if len(analysis.Primary()) != 3 {
		t.Fatalf("primary size = %d, want 3", len(analysis.Primary()))
	}
}

func TestAnalyzeSelfLoopIsNotStructural(t *testing.T) {
	muscles := []model.MuscleGene{muscle(1, 1), muscle(0, 1)}
	analysis := Analyze(3, muscles)

	if analysis.MuscleEnabled[0] {
		t.Error("self-loop muscle must stay disabled")
	}
	if !analysis.MuscleEnabled[1] {
		t.Error("muscle (0,1) should be enabled")
	}
	if !analysis.NodeEnabled[0] || !analysis.NodeEnabled[1] {
		t.Error("nodes 0 and 1 form the primary group")
	}
	if analysis.NodeEnabled[2] {
		t.Error("node 2 is isolated and must be disabled")
	}
}

func TestAnalyzeNoMusclesKeepsLowestSingletonPrimary(t *testing.T) {
	analysis := Analyze(5, nil)

	if len(analysis.Components) != 5 {
		t.Fatalf("components = %d, want 5", len(analysis.Components))
	}
	if !analysis.NodeEnabled[0] {
		t.Error("lowest-index singleton wins the size tie")
	}
	for i := 1; i < 5; i++ {
		if analysis.NodeEnabled[i] {
			t.Errorf("node %d must be disabled", i)
		}
	}
}

func TestAnalyzeTieBreakPrefersFirstDiscoveredComponent(t *testing.T) {
	// Two components of size 2: {0,2} discovered before {1,3}.
	muscles := []model.MuscleGene{muscle(0, 2), muscle(1, 3)}
	analysis := Analyze(4, muscles)

	if !analysis.NodeEnabled[0] || !analysis.NodeEnabled[2] {
		t.Error("first discovered component should be primary")
	}
	if analysis.NodeEnabled[1] || analysis.NodeEnabled[3] {
		t.Error("later equal-size component must be disabled")
	}
	if !analysis.MuscleEnabled[0] || analysis.MuscleEnabled[1] {
		t.Errorf("muscle enablement mismatch: %v", analysis.MuscleEnabled)
	}
}

func TestAnalyzeExactlyOneEnabledComponent(t *testing.T) {
	muscles := []model.MuscleGene{muscle(0, 1), muscle(2, 3), muscle(3, 4), muscle(5, 5)}
	analysis := Analyze(7, muscles)

	enabledComponents := 0
	for _, component := range analysis.Components {
		allEnabled := true
		anyEnabled := false
		for _, idx := range component {
			if analysis.NodeEnabled[idx] {
				anyEnabled = true
			} else {
				allEnabled = false
			}
		}
		if anyEnabled && !allEnabled {
			t.Fatalf("component %v partially enabled", component)
		}
		if allEnabled {
			enabledComponents++
		}
	}
	if enabledComponents != 1 {
		t.Fatalf("enabled components = %d, want exactly 1", enabledComponents)
	}
}

func TestApplyWritesFlagsBack(t *testing.T) {
	g := model.Genome{
		Nodes:   make([]model.NodeGene, 4),
		Muscles: []model.MuscleGene{muscle(0, 1), muscle(1, 2), muscle(3, 3)},
	}
	Apply(&g)

	if !g.Nodes[0].Enabled || !g.Nodes[1].Enabled || !g.Nodes[2].Enabled {
		t.Error("primary group nodes must be enabled")
	}
	if g.Nodes[3].Enabled {
		t.Error("isolated node must be disabled")
	}
	if !g.Muscles[0].Enabled || !g.Muscles[1].Enabled {
		t.Error("primary group muscles must be enabled")
	}
	if g.Muscles[2].Enabled {
		t.Error("self-loop muscle must be disabled")
	}
}

func TestAnalyzeLargeRingStaysIterative(t *testing.T) {
	const n = 5000
	muscles := make([]model.MuscleGene, n)
	for i := 0; i < n; i++ {
		muscles[i] = muscle(i, (i+1)%n)
	}
	analysis := Analyze(n, muscles)
	if len(analysis.Primary()) != n {
		t.Fatalf("primary size = %d, want %d", len(analysis.Primary()), n)
	}
}
