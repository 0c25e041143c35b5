// Package evo owns the population and drives the generational loop:
// evaluation against the arena, fitness ranking, elitism and tournament
// breeding.
package evo

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"creatura/internal/arena"
	"creatura/internal/genotype"
	"creatura/internal/model"
	"creatura/internal/stats"
)

// State is the monitor's position in the generation lifecycle. There is no
// terminal state; the loop runs until the external driver stops stepping.
type State int

const (
	Initializing State = iota
	Evaluating
	Ranking
	Breeding
)

func (s State) String() string {
	switch s {
	case Initializing:
		return "initializing"
	case Evaluating:
		return "evaluating"
	case Ranking:
		return "ranking"
	case Breeding:
		return "breeding"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Share expresses elitism and tournament sizing either as an absolute count
// or as a fraction of the population, resolved once at construction.
type Share struct {
	Count    int     // absolute count, takes precedence when > 0
	Fraction float64 // in [0,1), used when Count == 0
}

func (s Share) resolve(populationSize int) (int, error) {
	if s.Count > 0 {
		if s.Count > populationSize {
			return populationSize, nil
		}
		return s.Count, nil
	}
	if s.Count < 0 {
		return 0, fmt.Errorf("count must be >= 1, got %d", s.Count)
	}
	if s.Fraction < 0 || s.Fraction >= 1 {
		return 0, fmt.Errorf("fraction must be in [0,1), got %g", s.Fraction)
	}
	return int(math.Floor(float64(populationSize) * s.Fraction)), nil
}

// Fault records one individual whose phenotype could not be built. The
// individual scores zero fitness for the generation instead of aborting it.
type Fault struct {
	GenomeID string `json:"genome_id"`
	Index    int    `json:"index"`
	Message  string `json:"message"`
}

// GenerationResult is the ranking outcome handed to observers and persisted
// per generation.
type GenerationResult struct {
	Generation int           `json:"generation"`
	Fitness    []float64     `json:"fitness"`
	Summary    stats.Summary `json:"summary"`
	TopIndices []int         `json:"top_indices"`
	Faults     []Fault       `json:"faults,omitempty"`
}

// Observer receives lifecycle notifications. Snapshots are deep copies taken
// at handoff; the monitor keeps mutating its own population immediately
// after the call returns.
type Observer interface {
	GenerationStart(generation int, population []model.Genome)
	GenerationEnd(generation int, population []model.Genome, result GenerationResult)
}

// Config assembles a Monitor.
type Config struct {
	Arena    arena.Arena
	Families genotype.Families

	PopulationSize int
	NodeCount      int
	Elitism        Share
	Tournament     Share

	// EvaluationWindow is the simulated-time span of one evaluation phase,
	// in the same units as the now values passed to Step.
	EvaluationWindow float64
	SpawnOrigin      arena.Vec2
	CollisionGroup   int

	Seed      int64
	Observers []Observer
}

// Monitor owns the population array and per-generation statistics
// exclusively; it is driven from a single goroutine via Step.
type Monitor struct {
	cfg            Config
	rng            *rand.Rand
	elitism        int
	tournamentSize int

	state       State
	generation  int
	population  []model.Genome
	handles     []arena.Handle
	viable      []bool
	faults      []Fault
	windowStart float64
	lastResult  GenerationResult
}

// NewMonitor validates the configuration and resolves the elitism and
// tournament shares. Invalid sizing is rejected here, never clamped silently.
func NewMonitor(cfg Config) (*Monitor, error) {
	if cfg.Arena == nil {
		return nil, fmt.Errorf("arena is required")
	}
	if cfg.PopulationSize <= 0 {
		return nil, fmt.Errorf("population size must be > 0, got %d", cfg.PopulationSize)
	}
	if cfg.NodeCount <= 0 {
		return nil, fmt.Errorf("node count must be > 0, got %d", cfg.NodeCount)
	}
	if cfg.EvaluationWindow <= 0 {
		return nil, fmt.Errorf("evaluation window must be > 0, got %g", cfg.EvaluationWindow)
	}
	if err := cfg.Families.Validate(); err != nil {
		return nil, err
	}

	elitism, err := cfg.Elitism.resolve(cfg.PopulationSize)
	if err != nil {
		return nil, fmt.Errorf("elitism: %w", err)
	}
	if elitism >= cfg.PopulationSize {
		return nil, fmt.Errorf("elitism %d leaves no room for offspring in population %d", elitism, cfg.PopulationSize)
	}
	tournamentSize, err := cfg.Tournament.resolve(cfg.PopulationSize)
	if err != nil {
		return nil, fmt.Errorf("tournament: %w", err)
	}
	if tournamentSize < 1 {
		return nil, fmt.Errorf("tournament size resolves to %d, must be >= 1", tournamentSize)
	}

	return &Monitor{
		cfg:            cfg,
		rng:            rand.New(rand.NewSource(cfg.Seed)),
		elitism:        elitism,
		tournamentSize: tournamentSize,
	}, nil
}

func (m *Monitor) State() State        { return m.state }
func (m *Monitor) Generation() int     { return m.generation }
func (m *Monitor) Elitism() int        { return m.elitism }
func (m *Monitor) TournamentSize() int { return m.tournamentSize }

// LastResult returns a copy of the most recent ranking outcome.
func (m *Monitor) LastResult() GenerationResult {
	return cloneResult(m.lastResult)
}

// Population returns a deep copy of the current genomes.
func (m *Monitor) Population() []model.Genome {
	return snapshot(m.population)
}

// Step advances the state machine by one tick. now is monotonic simulated
// time shared with the arena; each call performs the work of the current
// state and transitions at most once.
func (m *Monitor) Step(now float64) error {
	switch m.state {
	case Initializing:
		return m.initialize(now)
	case Evaluating:
		return m.evaluate(now)
	case Ranking:
		return m.rank()
	case Breeding:
		return m.breed(now)
	default:
		return fmt.Errorf("unknown monitor state: %d", m.state)
	}
}

func (m *Monitor) initialize(now float64) error {
	m.population = make([]model.Genome, m.cfg.PopulationSize)
	for i := range m.population {
		g, err := genotype.NewRandomGenome(m.rng, m.cfg.Families, m.cfg.NodeCount, genomeID(0, i))
		if err != nil {
			return err
		}
		m.population[i] = g
	}
	m.generation = 0
	if err := m.spawn(); err != nil {
		return err
	}
	m.notifyStart()
	m.windowStart = now
	m.state = Evaluating
	return nil
}

func (m *Monitor) evaluate(now float64) error {
	for i, h := range m.handles {
		if !m.viable[i] {
			continue
		}
		if err := m.cfg.Arena.Advance(h, now-m.windowStart); err != nil {
			return err
		}
	}
	if now-m.windowStart >= m.cfg.EvaluationWindow {
		m.state = Ranking
	}
	return nil
}

func (m *Monitor) rank() error {
	fitness := make([]float64, len(m.population))
	for i, h := range m.handles {
		if !m.viable[i] {
			continue
		}
		d, err := m.cfg.Arena.Displacement(h)
		if err != nil {
			return err
		}
		fitness[i] = d
	}

	summary, err := stats.Summarize(fitness)
	if err != nil {
		return err
	}
	m.lastResult = GenerationResult{
		Generation: m.generation,
		Fitness:    fitness,
		Summary:    summary,
		TopIndices: TopIndices(fitness, m.elitism),
		Faults:     append([]Fault(nil), m.faults...),
	}
	m.state = Breeding
	return nil
}

func (m *Monitor) breed(now float64) error {
	next := make([]model.Genome, 0, m.cfg.PopulationSize)

	// Elites survive unchanged as deep copies so later mutation of the new
	// generation can never reach back into them.
	for _, idx := range m.lastResult.TopIndices {
		next = append(next, genotype.CloneGenome(m.population[idx]))
	}

	for len(next) < m.cfg.PopulationSize {
		p1, err := TournamentSelect(m.rng, m.lastResult.Fitness, m.tournamentSize)
		if err != nil {
			return err
		}
		p2, err := TournamentSelect(m.rng, m.lastResult.Fitness, m.tournamentSize)
		if err != nil {
			return err
		}
		child, err := genotype.Breed(
			m.rng, m.cfg.Families,
			m.population[p1], m.population[p2],
			genomeID(m.generation+1, len(next)),
		)
		if err != nil {
			return err
		}
		next = append(next, child)
	}

	m.notifyEnd()

	// Old phenotypes are fully retired before the new generation spawns.
	for i, h := range m.handles {
		if !m.viable[i] {
			continue
		}
		if err := m.cfg.Arena.Retire(h); err != nil {
			return err
		}
	}

	m.population = next
	m.generation++
	if err := m.spawn(); err != nil {
		return err
	}
	m.notifyStart()
	m.windowStart = now
	m.state = Evaluating
	return nil
}

// spawn instantiates a phenotype for every genome at the configured origin.
// A structural fault marks the individual non-viable for the generation and
// is reported on the generation result instead of failing the run.
func (m *Monitor) spawn() error {
	m.handles = make([]arena.Handle, len(m.population))
	m.viable = make([]bool, len(m.population))
	m.faults = nil
	for i, g := range m.population {
		h, err := m.cfg.Arena.Instantiate(g, m.cfg.SpawnOrigin, m.cfg.CollisionGroup)
		if err != nil {
			var structural *arena.StructuralError
			if errors.As(err, &structural) {
				m.faults = append(m.faults, Fault{GenomeID: g.ID, Index: i, Message: err.Error()})
				continue
			}
			return err
		}
		m.handles[i] = h
		m.viable[i] = true
	}
	return nil
}

func (m *Monitor) notifyStart() {
	if len(m.cfg.Observers) == 0 {
		return
	}
	snap := snapshot(m.population)
	for _, obs := range m.cfg.Observers {
		obs.GenerationStart(m.generation, snap)
	}
}

func (m *Monitor) notifyEnd() {
	if len(m.cfg.Observers) == 0 {
		return
	}
	snap := snapshot(m.population)
	result := cloneResult(m.lastResult)
	for _, obs := range m.cfg.Observers {
		obs.GenerationEnd(m.generation, snap, result)
	}
}

func snapshot(population []model.Genome) []model.Genome {
	out := make([]model.Genome, len(population))
	for i, g := range population {
		out[i] = genotype.CloneGenome(g)
	}
	return out
}

func cloneResult(r GenerationResult) GenerationResult {
	clone := r
	clone.Fitness = append([]float64(nil), r.Fitness...)
	clone.TopIndices = append([]int(nil), r.TopIndices...)
	clone.Faults = append([]Fault(nil), r.Faults...)
	return clone
}

func genomeID(generation, index int) string {
	return fmt.Sprintf("g%d-i%d", generation, index)
}
