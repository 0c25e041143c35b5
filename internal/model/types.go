package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// NodeGene describes one articulation point of a creature.
type NodeGene struct {
	Size           float64 `json:"size"`
	Friction       float64 `json:"friction"`
	StaticFriction float64 `json:"static_friction"`
	Enabled        bool    `json:"enabled"`
}

// MuscleGene describes one actuator connecting two nodes. BodyA <= BodyB is
// the canonical endpoint ordering and holds for every stored gene.
type MuscleGene struct {
	BodyA            int     `json:"body_a"`
	BodyB            int     `json:"body_b"`
	Stiffness        float64 `json:"stiffness"`
	ContractedLength float64 `json:"contracted_length"`
	ExtendedLength   float64 `json:"extended_length"`
	ContractDelay    float64 `json:"contract_delay"`
	ExtendDelay      float64 `json:"extend_delay"`
	Enabled          bool    `json:"enabled"`
}

// Canonicalize swaps the endpoints so that BodyA <= BodyB.
func (m *MuscleGene) Canonicalize() {
	if m.BodyA > m.BodyB {
		m.BodyA, m.BodyB = m.BodyB, m.BodyA
	}
}

// Genome is the unit of evolution: an ordered node-gene sequence and an
// ordered muscle-gene sequence. Which genes are physically expressed is
// decided by connectivity analysis, never stored independently of it.
type Genome struct {
	VersionedRecord
	ID      string       `json:"id"`
	Nodes   []NodeGene   `json:"nodes"`
	Muscles []MuscleGene `json:"muscles"`
}

// Population names the genomes alive in one generation.
type Population struct {
	VersionedRecord
	ID         string   `json:"id"`
	GenomeIDs  []string `json:"genome_ids"`
	Generation int      `json:"generation"`
}

// GenerationDiagnostics summarizes one generation's fitness distribution.
type GenerationDiagnostics struct {
	VersionedRecord
	Generation     int     `json:"generation"`
	BestFitness    float64 `json:"best_fitness"`
	WorstFitness   float64 `json:"worst_fitness"`
	MeanFitness    float64 `json:"mean_fitness"`
	MedianFitness  float64 `json:"median_fitness"`
	SumFitness     float64 `json:"sum_fitness"`
	BestIndex      int     `json:"best_index"`
	WorstIndex     int     `json:"worst_index"`
	NonViableCount int     `json:"non_viable_count,omitempty"`
}

// TopGenomeRecord pins one elite genome to the generation and rank at which
// it was observed.
type TopGenomeRecord struct {
	VersionedRecord
	RunID      string  `json:"run_id"`
	Generation int     `json:"generation"`
	Rank       int     `json:"rank"`
	Fitness    float64 `json:"fitness"`
	Genome     Genome  `json:"genome"`
}
