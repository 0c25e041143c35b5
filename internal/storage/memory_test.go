package storage

import (
	"context"
	"testing"

	"creatura/internal/model"
)

func testGenome(id string) model.Genome {
	return model.Genome{
		ID: id,
		Nodes: []model.NodeGene{
			{Size: 0.5, Friction: 0.4, StaticFriction: 0.6, Enabled: true},
			{Size: 0.7, Friction: 0.2, StaticFriction: 0.1, Enabled: true},
		},
		Muscles: []model.MuscleGene{
			{BodyA: 0, BodyB: 1, Stiffness: 0.5, ContractedLength: 1, ExtendedLength: 2, ContractDelay: 0.4, ExtendDelay: 0.6, Enabled: true},
		},
	}
}

func TestMemoryStoreGenomeRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	genome := testGenome("g1")
	if err := store.SaveGenome(ctx, genome); err != nil {
		t.Fatalf("save genome: %v", err)
	}
	got, ok, err := store.GetGenome(ctx, "g1")
	if err != nil || !ok {
		t.Fatalf("get genome: ok=%t err=%v", ok, err)
	}
	if len(got.Nodes) != 2 || got.Muscles[0].ExtendedLength != 2 {
		t.Fatalf("round-trip mismatch: %+v", got)
	}

	if _, ok, err := store.GetGenome(ctx, "missing"); err != nil || ok {
		t.Fatalf("missing genome: ok=%t err=%v", ok, err)
	}
}

func TestMemoryStoreRequiresInit(t *testing.T) {
	store := NewMemoryStore()
	if err := store.SaveGenome(context.Background(), testGenome("g1")); err == nil {
		t.Fatal("expected error before init")
	}
}

func TestMemoryStoreRunArtifacts(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	history := []float64{1.5, 2.25, 3.0}
	if err := store.SaveFitnessHistory(ctx, "run-1", history); err != nil {
		t.Fatalf("save history: %v", err)
	}
	history[0] = -1 // stored copy must not alias the caller's slice
	got, ok, err := store.GetFitnessHistory(ctx, "run-1")
	if err != nil || !ok {
		t.Fatalf("get history: ok=%t err=%v", ok, err)
	}
	if got[0] != 1.5 {
		t.Fatalf("stored history aliases caller slice: %v", got)
	}

	diagnostics := []model.GenerationDiagnostics{{Generation: 1, BestFitness: 3}}
	if err := store.SaveGenerationDiagnostics(ctx, "run-1", diagnostics); err != nil {
		t.Fatalf("save diagnostics: %v", err)
	}
	gotDiag, ok, err := store.GetGenerationDiagnostics(ctx, "run-1")
	if err != nil || !ok || len(gotDiag) != 1 || gotDiag[0].BestFitness != 3 {
		t.Fatalf("get diagnostics: %+v ok=%t err=%v", gotDiag, ok, err)
	}

	top := []model.TopGenomeRecord{{RunID: "run-1", Generation: 1, Rank: 0, Fitness: 3, Genome: testGenome("g1")}}
	if err := store.SaveTopGenomes(ctx, "run-1", top); err != nil {
		t.Fatalf("save top: %v", err)
	}
	gotTop, ok, err := store.GetTopGenomes(ctx, "run-1")
	if err != nil || !ok || len(gotTop) != 1 || gotTop[0].Genome.ID != "g1" {
		t.Fatalf("get top: %+v ok=%t err=%v", gotTop, ok, err)
	}

	if _, ok, _ := store.GetFitnessHistory(ctx, "run-2"); ok {
		t.Fatal("unknown run must report not found")
	}
}

func TestMemoryStorePopulationRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	population := model.Population{ID: "p1", GenomeIDs: []string{"g1", "g2"}, Generation: 3}
	if err := store.SavePopulation(ctx, population); err != nil {
		t.Fatalf("save population: %v", err)
	}
	got, ok, err := store.GetPopulation(ctx, "p1")
	if err != nil || !ok || got.Generation != 3 || len(got.GenomeIDs) != 2 {
		t.Fatalf("get population: %+v ok=%t err=%v", got, ok, err)
	}
}

func TestNewStoreFactory(t *testing.T) {
	store, err := NewStore("memory", "")
	if err != nil {
		t.Fatalf("memory store: %v", err)
	}
	if store == nil {
		t.Fatal("nil store")
	}
	if _, err := NewStore("bolt", ""); err == nil {
		t.Fatal("expected error for unsupported backend")
	}
	if err := CloseIfSupported(store); err != nil {
		t.Fatalf("close: %v", err)
	}
}
