package evo

import (
	"math/rand"
	"testing"
)

func TestTopIndicesOrdersByDescendingFitness(t *testing.T) {
	fitness := []float64{5, 1, 9, 3}

	top := TopIndices(fitness, 1)
	if len(top) != 1 || top[0] != 2 {
		t.Fatalf("top-1 = %v, want [2]", top)
	}

	top = TopIndices(fitness, 3)
	want := []int{2, 0, 3}
	if len(top) != 3 {
		t.Fatalf("top-3 = %v, want %v", top, want)
	}
	for i := range want {
		if top[i] != want[i] {
			t.Fatalf("top-3 = %v, want %v", top, want)
		}
	}
}

func TestTopIndicesTiesKeepEarlierIndexAhead(t *testing.T) {
	fitness := []float64{4, 7, 7, 4}

	top := TopIndices(fitness, 4)
	want := []int{1, 2, 0, 3}
	for i := range want {
		if top[i] != want[i] {
			t.Fatalf("top = %v, want %v", top, want)
		}
	}

	// With room for one, the earlier-seen tied index survives.
	top = TopIndices(fitness, 1)
	if top[0] != 1 {
		t.Fatalf("top-1 = %v, want [1]", top)
	}
}

func TestTopIndicesHandlesShortAndEmptyInput(t *testing.T) {
	if top := TopIndices([]float64{2}, 5); len(top) != 1 || top[0] != 0 {
		t.Fatalf("top = %v, want [0]", top)
	}
	if top := TopIndices(nil, 3); top != nil {
		t.Fatalf("top of empty vector = %v, want nil", top)
	}
	if top := TopIndices([]float64{1, 2}, 0); top != nil {
		t.Fatalf("top-0 = %v, want nil", top)
	}
}

func TestTournamentSelectSizeOneIsUniform(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	fitness := []float64{0, 10, 20, 30}

	counts := make([]int, len(fitness))
	const rounds = 8000
	for i := 0; i < rounds; i++ {
		winner, err := TournamentSelect(rng, fitness, 1)
		if err != nil {
			t.Fatalf("tournament: %v", err)
		}
		counts[winner]++
	}
	for i, c := range counts {
		share := float64(c) / rounds
		if share < 0.2 || share > 0.3 {
			t.Fatalf("index %d share = %.3f, want near 0.25 (size 1 is uniform)", i, share)
		}
	}
}

func TestTournamentSelectLargeSizeFavorsBest(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	fitness := []float64{1, 2, 3, 99}

	bestWins := 0
	const rounds = 500
	for i := 0; i < rounds; i++ {
		winner, err := TournamentSelect(rng, fitness, 16)
		if err != nil {
			t.Fatalf("tournament: %v", err)
		}
		if winner == 3 {
			bestWins++
		}
	}
	if bestWins < rounds*9/10 {
		t.Fatalf("best index won %d/%d tournaments, expected near-deterministic selection", bestWins, rounds)
	}
}

func TestTournamentSelectRejectsBadInput(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, err := TournamentSelect(rng, nil, 2); err == nil {
		t.Fatal("expected error for empty population")
	}
	if _, err := TournamentSelect(rng, []float64{1}, 0); err == nil {
		t.Fatal("expected error for zero tournament size")
	}
}
