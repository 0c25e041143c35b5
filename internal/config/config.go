// Package config loads evolution run profiles from INI files.
package config

import (
	"fmt"

	"gopkg.in/ini.v1"

	"creatura/internal/evo"
	"creatura/internal/genotype"
)

// Profile is the full configuration of an evolution run.
type Profile struct {
	Run      RunConfig
	Node     NodeConfig
	Muscle   MuscleConfig
	Mutation MutationConfig
	Storage  StorageConfig
}

// RunConfig holds the population and selection parameters.
type RunConfig struct {
	PopulationSize   int     `ini:"population_size"`
	NodeCount        int     `ini:"node_count"`
	Generations      int     `ini:"generations"`
	EvaluationWindow float64 `ini:"evaluation_window"`
	ElitismCount     int     `ini:"elitism_count"`
	ElitismFraction  float64 `ini:"elitism_fraction"`
	TournamentCount  int     `ini:"tournament_count"`
	TopN             int     `ini:"top_n"`
	Seed             int64   `ini:"seed"`
}

// NodeConfig holds the gaussian families for node gene fields.
type NodeConfig struct {
	SizeMean            float64 `ini:"size_mean"`
	SizeStdev           float64 `ini:"size_stdev"`
	SizeMin             float64 `ini:"size_min"`
	SizeMax             float64 `ini:"size_max"`
	FrictionMean        float64 `ini:"friction_mean"`
	FrictionStdev       float64 `ini:"friction_stdev"`
	FrictionMin         float64 `ini:"friction_min"`
	FrictionMax         float64 `ini:"friction_max"`
	StaticFrictionMean  float64 `ini:"static_friction_mean"`
	StaticFrictionStdev float64 `ini:"static_friction_stdev"`
	StaticFrictionMin   float64 `ini:"static_friction_min"`
	StaticFrictionMax   float64 `ini:"static_friction_max"`
}

// MuscleConfig holds the gaussian families for muscle gene fields.
type MuscleConfig struct {
	StiffnessMean      float64 `ini:"stiffness_mean"`
	StiffnessStdev     float64 `ini:"stiffness_stdev"`
	StiffnessMin       float64 `ini:"stiffness_min"`
	StiffnessMax       float64 `ini:"stiffness_max"`
	ContractedMean     float64 `ini:"contracted_mean"`
	ContractedStdev    float64 `ini:"contracted_stdev"`
	ContractedMin      float64 `ini:"contracted_min"`
	ContractedMax      float64 `ini:"contracted_max"`
	ExtendedMean       float64 `ini:"extended_mean"`
	ExtendedStdev      float64 `ini:"extended_stdev"`
	ExtendedMin        float64 `ini:"extended_min"`
	ExtendedMax        float64 `ini:"extended_max"`
	ContractDelayMean  float64 `ini:"contract_delay_mean"`
	ContractDelayStdev float64 `ini:"contract_delay_stdev"`
	ContractDelayMin   float64 `ini:"contract_delay_min"`
	ContractDelayMax   float64 `ini:"contract_delay_max"`
	ExtendDelayMean    float64 `ini:"extend_delay_mean"`
	ExtendDelayStdev   float64 `ini:"extend_delay_stdev"`
	ExtendDelayMin     float64 `ini:"extend_delay_min"`
	ExtendDelayMax     float64 `ini:"extend_delay_max"`
}

// MutationConfig holds the shared mutation knobs.
type MutationConfig struct {
	Rate         float64 `ini:"rate"`
	SigmaTighten float64 `ini:"sigma_tighten"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Backend    string `ini:"backend"`
	SQLitePath string `ini:"sqlite_path"`
}

// Default returns a profile populated from the built-in gene families.
func Default() Profile {
	fam := genotype.DefaultFamilies()
	return Profile{
		Run: RunConfig{
			PopulationSize:   32,
			NodeCount:        5,
			Generations:      20,
			EvaluationWindow: 15,
			ElitismCount:     2,
			TournamentCount:  3,
			TopN:             3,
			Seed:             1,
		},
		Node: NodeConfig{
			SizeMean: fam.NodeSize.Mean, SizeStdev: fam.NodeSize.Sigma,
			SizeMin: fam.NodeSize.Min, SizeMax: fam.NodeSize.Max,
			FrictionMean: fam.NodeFriction.Mean, FrictionStdev: fam.NodeFriction.Sigma,
			FrictionMin: fam.NodeFriction.Min, FrictionMax: fam.NodeFriction.Max,
			StaticFrictionMean: fam.NodeStaticFriction.Mean, StaticFrictionStdev: fam.NodeStaticFriction.Sigma,
			StaticFrictionMin: fam.NodeStaticFriction.Min, StaticFrictionMax: fam.NodeStaticFriction.Max,
		},
		Muscle: MuscleConfig{
			StiffnessMean: fam.MuscleStiffness.Mean, StiffnessStdev: fam.MuscleStiffness.Sigma,
			StiffnessMin: fam.MuscleStiffness.Min, StiffnessMax: fam.MuscleStiffness.Max,
			ContractedMean: fam.MuscleContracted.Mean, ContractedStdev: fam.MuscleContracted.Sigma,
			ContractedMin: fam.MuscleContracted.Min, ContractedMax: fam.MuscleContracted.Max,
			ExtendedMean: fam.MuscleExtended.Mean, ExtendedStdev: fam.MuscleExtended.Sigma,
			ExtendedMin: fam.MuscleExtended.Min, ExtendedMax: fam.MuscleExtended.Max,
			ContractDelayMean: fam.MuscleContractDelay.Mean, ContractDelayStdev: fam.MuscleContractDelay.Sigma,
			ContractDelayMin: fam.MuscleContractDelay.Min, ContractDelayMax: fam.MuscleContractDelay.Max,
			ExtendDelayMean: fam.MuscleExtendDelay.Mean, ExtendDelayStdev: fam.MuscleExtendDelay.Sigma,
			ExtendDelayMin: fam.MuscleExtendDelay.Min, ExtendDelayMax: fam.MuscleExtendDelay.Max,
		},
		Mutation: MutationConfig{Rate: fam.MutationRate, SigmaTighten: fam.SigmaTighten},
		Storage:  StorageConfig{Backend: "memory"},
	}
}

// LoadFile reads a profile from an INI file, layered over the defaults.
func LoadFile(path string) (Profile, error) {
	return load(path)
}

// Parse reads a profile from raw INI bytes, layered over the defaults.
func Parse(data []byte) (Profile, error) {
	return load(data)
}

func load(source any) (Profile, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		IgnoreInlineComment:         true,
		UnescapeValueCommentSymbols: true,
	}, source)
	if err != nil {
		return Profile{}, fmt.Errorf("failed to load profile: %w", err)
	}

	profile := Default()
	sections := []struct {
		name   string
		target any
	}{
		{"run", &profile.Run},
		{"node", &profile.Node},
		{"muscle", &profile.Muscle},
		{"mutation", &profile.Mutation},
		{"storage", &profile.Storage},
	}
	for _, section := range sections {
		if err := cfg.Section(section.name).MapTo(section.target); err != nil {
			return Profile{}, fmt.Errorf("failed to map [%s] section: %w", section.name, err)
		}
	}
	if err := profile.Validate(); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// Families converts the node, muscle, and mutation sections into the
// sampling families used by genome construction.
func (p Profile) Families() genotype.Families {
	return genotype.Families{
		NodeSize:           genotype.FieldSpec{Mean: p.Node.SizeMean, Sigma: p.Node.SizeStdev, Min: p.Node.SizeMin, Max: p.Node.SizeMax},
		NodeFriction:       genotype.FieldSpec{Mean: p.Node.FrictionMean, Sigma: p.Node.FrictionStdev, Min: p.Node.FrictionMin, Max: p.Node.FrictionMax},
		NodeStaticFriction: genotype.FieldSpec{Mean: p.Node.StaticFrictionMean, Sigma: p.Node.StaticFrictionStdev, Min: p.Node.StaticFrictionMin, Max: p.Node.StaticFrictionMax},

		MuscleStiffness:     genotype.FieldSpec{Mean: p.Muscle.StiffnessMean, Sigma: p.Muscle.StiffnessStdev, Min: p.Muscle.StiffnessMin, Max: p.Muscle.StiffnessMax},
		MuscleContracted:    genotype.FieldSpec{Mean: p.Muscle.ContractedMean, Sigma: p.Muscle.ContractedStdev, Min: p.Muscle.ContractedMin, Max: p.Muscle.ContractedMax},
		MuscleExtended:      genotype.FieldSpec{Mean: p.Muscle.ExtendedMean, Sigma: p.Muscle.ExtendedStdev, Min: p.Muscle.ExtendedMin, Max: p.Muscle.ExtendedMax},
		MuscleContractDelay: genotype.FieldSpec{Mean: p.Muscle.ContractDelayMean, Sigma: p.Muscle.ContractDelayStdev, Min: p.Muscle.ContractDelayMin, Max: p.Muscle.ContractDelayMax},
		MuscleExtendDelay:   genotype.FieldSpec{Mean: p.Muscle.ExtendDelayMean, Sigma: p.Muscle.ExtendDelayStdev, Min: p.Muscle.ExtendDelayMin, Max: p.Muscle.ExtendDelayMax},

		MutationRate: p.Mutation.Rate,
		SigmaTighten: p.Mutation.SigmaTighten,
	}
}

// Elitism returns the elitism share, with an absolute count winning over a fraction.
func (p Profile) Elitism() evo.Share {
	if p.Run.ElitismCount > 0 {
		return evo.Share{Count: p.Run.ElitismCount}
	}
	return evo.Share{Fraction: p.Run.ElitismFraction}
}

// Tournament returns the tournament draw share.
func (p Profile) Tournament() evo.Share {
	return evo.Share{Count: p.Run.TournamentCount}
}

// Validate checks the run parameters and the derived gene families.
func (p Profile) Validate() error {
	if p.Run.PopulationSize < 2 {
		return fmt.Errorf("population_size must be >= 2, got %d", p.Run.PopulationSize)
	}
	if p.Run.NodeCount < 1 {
		return fmt.Errorf("node_count must be >= 1, got %d", p.Run.NodeCount)
	}
	if p.Run.Generations < 1 {
		return fmt.Errorf("generations must be >= 1, got %d", p.Run.Generations)
	}
	if p.Run.EvaluationWindow <= 0 {
		return fmt.Errorf("evaluation_window must be > 0, got %g", p.Run.EvaluationWindow)
	}
	if p.Run.TournamentCount < 1 {
		return fmt.Errorf("tournament_count must be >= 1, got %d", p.Run.TournamentCount)
	}
	if p.Run.TopN < 0 {
		return fmt.Errorf("top_n must be >= 0, got %d", p.Run.TopN)
	}
	switch p.Storage.Backend {
	case "", "memory", "sqlite":
	default:
		return fmt.Errorf("unsupported storage backend: %s", p.Storage.Backend)
	}
	return p.Families().Validate()
}
