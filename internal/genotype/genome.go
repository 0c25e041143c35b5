package genotype

import (
	"fmt"
	"math/rand"

	"creatura/internal/model"
	"creatura/internal/topology"
)

// NewRandomGenome generates nodeCount random node genes plus one muscle per
// node forming the closed cycle i -> (i+1) mod nodeCount as the baseline
// topology. Connectivity is settled before the genome is returned.
func NewRandomGenome(rng *rand.Rand, fam Families, nodeCount int, id string) (model.Genome, error) {
	if nodeCount <= 0 {
		return model.Genome{}, fmt.Errorf("node count must be > 0, got %d", nodeCount)
	}

	g := model.Genome{
		ID:      id,
		Nodes:   make([]model.NodeGene, nodeCount),
		Muscles: make([]model.MuscleGene, nodeCount),
	}
	for i := 0; i < nodeCount; i++ {
		g.Nodes[i] = NewNodeGene(rng, fam)
	}
	for i := 0; i < nodeCount; i++ {
		g.Muscles[i] = NewMuscleGene(rng, fam, i, (i+1)%nodeCount)
	}
	topology.Apply(&g)
	return g, nil
}

// CloneGenome deep-copies both gene sequences so that mutating the clone can
// never reach back into the source. Connectivity is recomputed for
// robustness even though cloning cannot change topology.
func CloneGenome(g model.Genome) model.Genome {
	clone := g
	clone.Nodes = append([]model.NodeGene(nil), g.Nodes...)
	clone.Muscles = append([]model.MuscleGene(nil), g.Muscles...)
	topology.Apply(&clone)
	return clone
}

// CloneGenomeWithID is CloneGenome plus a fresh identity.
func CloneGenomeWithID(g model.Genome, id string) model.Genome {
	clone := CloneGenome(g)
	clone.ID = id
	return clone
}

// Crossover recombines two genomes of identical shape at a single point c
// drawn uniformly in [0, nodeCount): gene position i comes from a when i < c
// and from b otherwise, index-aligned across both gene sequences. Shape
// mismatch is a configuration fault of the caller and is rejected here
// rather than silently producing a malformed child.
func Crossover(rng *rand.Rand, a, b model.Genome, childID string) (model.Genome, error) {
	if err := checkShapes(a, b); err != nil {
		return model.Genome{}, err
	}
	return CrossoverAt(a, b, rng.Intn(len(a.Nodes)), childID)
}

// CrossoverAt recombines at a caller-chosen point. Exposed separately so the
// deterministic gene-inheritance contract can be exercised directly.
func CrossoverAt(a, b model.Genome, c int, childID string) (model.Genome, error) {
	if err := checkShapes(a, b); err != nil {
		return model.Genome{}, err
	}
	if c < 0 || c >= len(a.Nodes) {
		return model.Genome{}, fmt.Errorf("crossover point out of range: %d", c)
	}

	child := model.Genome{
		ID:      childID,
		Nodes:   make([]model.NodeGene, len(a.Nodes)),
		Muscles: make([]model.MuscleGene, len(a.Muscles)),
	}
	for i := range child.Nodes {
		if i < c {
			child.Nodes[i] = a.Nodes[i]
		} else {
			child.Nodes[i] = b.Nodes[i]
		}
	}
	for i := range child.Muscles {
		if i < c {
			child.Muscles[i] = a.Muscles[i]
		} else {
			child.Muscles[i] = b.Muscles[i]
		}
	}
	// Recombination is where disconnections appear or heal.
	topology.Apply(&child)
	return child, nil
}

func checkShapes(a, b model.Genome) error {
	if len(a.Nodes) != len(b.Nodes) || len(a.Muscles) != len(b.Muscles) {
		return fmt.Errorf(
			"crossover shape mismatch: %s has %d/%d genes, %s has %d/%d",
			a.ID, len(a.Nodes), len(a.Muscles), b.ID, len(b.Nodes), len(b.Muscles),
		)
	}
	if len(a.Nodes) == 0 {
		return fmt.Errorf("crossover requires at least one node gene")
	}
	return nil
}

// Mutate produces a new genome value rather than mutating in place, keeping
// elitism-copy ownership trivial. Each gene mutates independently; muscle
// endpoint redraws stay inside the node range; connectivity is recomputed
// afterwards because endpoint changes can move the primary group.
func Mutate(rng *rand.Rand, fam Families, g model.Genome) model.Genome {
	mutated := g
	mutated.Nodes = make([]model.NodeGene, len(g.Nodes))
	mutated.Muscles = make([]model.MuscleGene, len(g.Muscles))
	for i, node := range g.Nodes {
		mutated.Nodes[i] = MutateNodeGene(rng, fam, node)
	}
	for i, m := range g.Muscles {
		mutated.Muscles[i] = MutateMuscleGene(rng, fam, m, len(g.Nodes))
	}
	topology.Apply(&mutated)
	return mutated
}

// Breed is the sole reproduction operator: single-point crossover followed by
// mutation of the child.
func Breed(rng *rand.Rand, fam Families, a, b model.Genome, childID string) (model.Genome, error) {
	child, err := Crossover(rng, a, b, childID)
	if err != nil {
		return model.Genome{}, err
	}
	return Mutate(rng, fam, child), nil
}
