package genotype

import (
	"math/rand"

	"creatura/internal/model"
)

// NewNodeGene samples every node field family from its base distribution.
// Enabled starts true and is settled by the first connectivity pass on the
// owning genome.
func NewNodeGene(rng *rand.Rand, fam Families) model.NodeGene {
	return model.NodeGene{
		Size:           fam.NodeSize.Sample(rng),
		Friction:       fam.NodeFriction.Sample(rng),
		StaticFriction: fam.NodeStaticFriction.Sample(rng),
		Enabled:        true,
	}
}

// NewMuscleGene samples the dynamic muscle parameters and stores the given
// endpoints in canonical order.
func NewMuscleGene(rng *rand.Rand, fam Families, bodyA, bodyB int) model.MuscleGene {
	m := model.MuscleGene{
		BodyA:            bodyA,
		BodyB:            bodyB,
		Stiffness:        fam.MuscleStiffness.Sample(rng),
		ContractedLength: fam.MuscleContracted.Sample(rng),
		ExtendedLength:   fam.MuscleExtended.Sample(rng),
		ContractDelay:    fam.MuscleContractDelay.Sample(rng),
		ExtendDelay:      fam.MuscleExtendDelay.Sample(rng),
	}
	m.Canonicalize()
	m.Enabled = m.BodyA != m.BodyB
	return m
}

// nodeFieldVariant is one mutable field of a node gene, carrying its own
// resample function. Mutation selects uniformly among these, so adding a
// field means adding a variant here.
type nodeFieldVariant struct {
	name     string
	resample func(rng *rand.Rand, fam Families, g *model.NodeGene)
}

var nodeFieldVariants = []nodeFieldVariant{
	{"size", func(rng *rand.Rand, fam Families, g *model.NodeGene) {
		g.Size = fam.NodeSize.Resample(rng, g.Size, fam.SigmaTighten)
	}},
	{"friction", func(rng *rand.Rand, fam Families, g *model.NodeGene) {
		g.Friction = fam.NodeFriction.Resample(rng, g.Friction, fam.SigmaTighten)
	}},
	{"static_friction", func(rng *rand.Rand, fam Families, g *model.NodeGene) {
		g.StaticFriction = fam.NodeStaticFriction.Resample(rng, g.StaticFriction, fam.SigmaTighten)
	}},
}

// MutateNodeGene returns the gene with at most one field re-sampled. One
// uniform draw decides whether anything mutates at all.
func MutateNodeGene(rng *rand.Rand, fam Families, g model.NodeGene) model.NodeGene {
	if rng.Float64() >= fam.MutationRate {
		return g
	}
	variant := nodeFieldVariants[rng.Intn(len(nodeFieldVariants))]
	variant.resample(rng, fam, &g)
	return g
}

// muscleFieldVariant mirrors nodeFieldVariant for muscle genes. Endpoint
// variants are full-range integer redraws rather than local perturbations:
// graph topology change is categorical, not continuous.
type muscleFieldVariant struct {
	name     string
	resample func(rng *rand.Rand, fam Families, g *model.MuscleGene, nodeCount int)
}

var muscleFieldVariants = []muscleFieldVariant{
	{"body_a", func(rng *rand.Rand, _ Families, g *model.MuscleGene, nodeCount int) {
		g.BodyA = rng.Intn(nodeCount)
	}},
	{"body_b", func(rng *rand.Rand, _ Families, g *model.MuscleGene, nodeCount int) {
		g.BodyB = rng.Intn(nodeCount)
	}},
	{"stiffness", func(rng *rand.Rand, fam Families, g *model.MuscleGene, _ int) {
		g.Stiffness = fam.MuscleStiffness.Resample(rng, g.Stiffness, fam.SigmaTighten)
	}},
	{"contracted_length", func(rng *rand.Rand, fam Families, g *model.MuscleGene, _ int) {
		g.ContractedLength = fam.MuscleContracted.Resample(rng, g.ContractedLength, fam.SigmaTighten)
	}},
	{"extended_length", func(rng *rand.Rand, fam Families, g *model.MuscleGene, _ int) {
		g.ExtendedLength = fam.MuscleExtended.Resample(rng, g.ExtendedLength, fam.SigmaTighten)
	}},
	{"contract_delay", func(rng *rand.Rand, fam Families, g *model.MuscleGene, _ int) {
		g.ContractDelay = fam.MuscleContractDelay.Resample(rng, g.ContractDelay, fam.SigmaTighten)
	}},
	{"extend_delay", func(rng *rand.Rand, fam Families, g *model.MuscleGene, _ int) {
		g.ExtendDelay = fam.MuscleExtendDelay.Resample(rng, g.ExtendDelay, fam.SigmaTighten)
	}},
}

// MutateMuscleGene returns the gene with at most one field re-sampled.
// Endpoint redraws stay inside [0, nodeCount); afterwards the gene is
// re-canonicalized and Enabled reflects the self-loop rule. The owning genome
// still has to re-run connectivity to settle the primary-group part of
// Enabled.
func MutateMuscleGene(rng *rand.Rand, fam Families, g model.MuscleGene, nodeCount int) model.MuscleGene {
	if rng.Float64() >= fam.MutationRate {
		return g
	}
	variant := muscleFieldVariants[rng.Intn(len(muscleFieldVariants))]
	variant.resample(rng, fam, &g, nodeCount)
	g.Canonicalize()
	g.Enabled = g.BodyA != g.BodyB
	return g
}
