// Package creatura is the embedding API for evolving articulated creatures.
// It wires configuration, the physics arena, the generation monitor, and
// persistence behind a single client.
package creatura

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"creatura/internal/arena"
	"creatura/internal/config"
	"creatura/internal/evo"
	"creatura/internal/model"
	"creatura/internal/stats"
	"creatura/internal/storage"
)

const defaultDBPath = "creatura.db"

type Options struct {
	StoreKind string
	DBPath    string
}

type Client struct {
	store storage.Store
}

// RunRequest configures one evolution run. A zero request runs the default
// profile; ProfilePath layers an INI file over the defaults, and the explicit
// fields below override both.
type RunRequest struct {
	ProfilePath string
	Profile     *config.Profile

	Population  int
	NodeCount   int
	Generations int
	Seed        int64
}

type RunSummary struct {
	RunID                string
	CompletedGenerations int
	BestByGeneration     []float64
	FinalBestFitness     float64
	FaultCount           int
	Elapsed              time.Duration
}

func New(opts Options) (*Client, error) {
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	store, err := storage.NewStore(opts.StoreKind, dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Init(context.Background()); err != nil {
		return nil, err
	}
	return &Client{store: store}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

// Run executes a full evolution run and persists its artifacts: the fitness
// history, per-generation diagnostics, the top genomes of the final
// generation, and the final population. A canceled context stops the run at
// the next generation boundary; the summary reflects the generations that
// completed before the stop.
func (c *Client) Run(ctx context.Context, req RunRequest) (RunSummary, error) {
	profile, err := resolveProfile(req)
	if err != nil {
		return RunSummary{}, err
	}

	springArena, err := arena.NewSpringArena(arena.DefaultSpringConfig())
	if err != nil {
		return RunSummary{}, err
	}
	monitor, err := evo.NewMonitor(evo.Config{
		Arena:            springArena,
		Families:         profile.Families(),
		PopulationSize:   profile.Run.PopulationSize,
		NodeCount:        profile.Run.NodeCount,
		Elitism:          profile.Elitism(),
		Tournament:       profile.Tournament(),
		EvaluationWindow: profile.Run.EvaluationWindow,
		Seed:             profile.Run.Seed,
	})
	if err != nil {
		return RunSummary{}, err
	}

	runID := uuid.NewString()
	started := time.Now()

	now := 0.0
	if err := monitor.Step(now); err != nil {
		return RunSummary{}, err
	}

	// One tick per physics step keeps the monitor's window boundary aligned
	// with arena time.
	tick := arena.DefaultSpringConfig().StepDT

	var (
		bestByGeneration []float64
		diagnostics      []model.GenerationDiagnostics
		topRecords       []model.TopGenomeRecord
		faultCount       int
	)

	for generation := 0; generation < profile.Run.Generations; generation++ {
		if ctx.Err() != nil {
			break
		}
		for monitor.State() == evo.Evaluating {
			now += tick
			if err := monitor.Step(now); err != nil {
				return RunSummary{}, err
			}
		}
		if err := monitor.Step(now); err != nil { // rank
			return RunSummary{}, err
		}

		result := monitor.LastResult()
		population := monitor.Population()
		bestByGeneration = append(bestByGeneration, result.Summary.Max)
		diagnostics = append(diagnostics, diagnosticsFromResult(result))
		faultCount += len(result.Faults)
		topRecords = recordTop(runID, result, population, profile.Run.TopN)

		if err := monitor.Step(now); err != nil { // breed and respawn
			return RunSummary{}, err
		}
	}

	if err := c.persistRun(ctx, runID, monitor, bestByGeneration, diagnostics, topRecords); err != nil {
		return RunSummary{}, err
	}

	summary := RunSummary{
		RunID:                runID,
		CompletedGenerations: len(bestByGeneration),
		BestByGeneration:     bestByGeneration,
		FaultCount:           faultCount,
		Elapsed:              time.Since(started),
	}
	if len(bestByGeneration) > 0 {
		summary.FinalBestFitness = bestByGeneration[len(bestByGeneration)-1]
	}
	return summary, nil
}

// FitnessHistory returns the best fitness per generation of a stored run.
func (c *Client) FitnessHistory(ctx context.Context, runID string) ([]float64, error) {
	history, ok, err := c.store.GetFitnessHistory(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no fitness history for run %s", runID)
	}
	return history, nil
}

// Diagnostics returns the per-generation fitness summaries of a stored run.
func (c *Client) Diagnostics(ctx context.Context, runID string) ([]model.GenerationDiagnostics, error) {
	diagnostics, ok, err := c.store.GetGenerationDiagnostics(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no diagnostics for run %s", runID)
	}
	return diagnostics, nil
}

// TopGenomes returns the elite genomes recorded for a stored run.
func (c *Client) TopGenomes(ctx context.Context, runID string) ([]model.TopGenomeRecord, error) {
	top, ok, err := c.store.GetTopGenomes(ctx, runID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("no top genomes for run %s", runID)
	}
	return top, nil
}

// Population returns the final population record of a stored run.
func (c *Client) Population(ctx context.Context, runID string) (model.Population, error) {
	population, ok, err := c.store.GetPopulation(ctx, runID)
	if err != nil {
		return model.Population{}, err
	}
	if !ok {
		return model.Population{}, fmt.Errorf("no population for run %s", runID)
	}
	return population, nil
}

// Genome returns a single stored genome by ID.
func (c *Client) Genome(ctx context.Context, genomeID string) (model.Genome, error) {
	genome, ok, err := c.store.GetGenome(ctx, genomeID)
	if err != nil {
		return model.Genome{}, err
	}
	if !ok {
		return model.Genome{}, fmt.Errorf("no genome %s", genomeID)
	}
	return genome, nil
}

// ExportGenome writes a stored genome to w as versioned JSON.
func (c *Client) ExportGenome(ctx context.Context, genomeID string, w io.Writer) error {
	genome, err := c.Genome(ctx, genomeID)
	if err != nil {
		return err
	}
	data, err := storage.EncodeGenome(genome)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteReport renders a human-readable run report to w.
func (c *Client) WriteReport(ctx context.Context, runID string, w io.Writer, elapsed time.Duration) error {
	diagnostics, err := c.Diagnostics(ctx, runID)
	if err != nil {
		return err
	}
	return stats.WriteRunReport(w, runID, diagnostics, elapsed)
}

func (c *Client) persistRun(
	ctx context.Context,
	runID string,
	monitor *evo.Monitor,
	bestByGeneration []float64,
	diagnostics []model.GenerationDiagnostics,
	topRecords []model.TopGenomeRecord,
) error {
	// Persistence survives a canceled run context.
	if ctx.Err() != nil {
		ctx = context.WithoutCancel(ctx)
	}

	population := monitor.Population()
	record := model.Population{ID: runID, Generation: monitor.Generation()}
	for _, genome := range population {
		if err := c.store.SaveGenome(ctx, genome); err != nil {
			return err
		}
		record.GenomeIDs = append(record.GenomeIDs, genome.ID)
	}
	if err := c.store.SavePopulation(ctx, record); err != nil {
		return err
	}
	if err := c.store.SaveFitnessHistory(ctx, runID, bestByGeneration); err != nil {
		return err
	}
	if err := c.store.SaveGenerationDiagnostics(ctx, runID, diagnostics); err != nil {
		return err
	}
	return c.store.SaveTopGenomes(ctx, runID, topRecords)
}

func resolveProfile(req RunRequest) (config.Profile, error) {
	var profile config.Profile
	switch {
	case req.Profile != nil:
		profile = *req.Profile
	case req.ProfilePath != "":
		loaded, err := config.LoadFile(req.ProfilePath)
		if err != nil {
			return config.Profile{}, err
		}
		profile = loaded
	default:
		profile = config.Default()
	}

	if req.Population > 0 {
		profile.Run.PopulationSize = req.Population
	}
	if req.NodeCount > 0 {
		profile.Run.NodeCount = req.NodeCount
	}
	if req.Generations > 0 {
		profile.Run.Generations = req.Generations
	}
	if req.Seed != 0 {
		profile.Run.Seed = req.Seed
	}
	if err := profile.Validate(); err != nil {
		return config.Profile{}, err
	}
	return profile, nil
}

func diagnosticsFromResult(result evo.GenerationResult) model.GenerationDiagnostics {
	return model.GenerationDiagnostics{
		Generation:     result.Generation,
		BestFitness:    result.Summary.Max,
		WorstFitness:   result.Summary.Min,
		MeanFitness:    result.Summary.Mean,
		MedianFitness:  result.Summary.Median,
		SumFitness:     result.Summary.Sum,
		BestIndex:      result.Summary.ArgMax,
		WorstIndex:     result.Summary.ArgMin,
		NonViableCount: len(result.Faults),
	}
}

// recordTop snapshots the best genomes of the ranked generation. Only the
// latest generation's records are kept, so the stored set always describes
// the final completed generation.
func recordTop(runID string, result evo.GenerationResult, population []model.Genome, topN int) []model.TopGenomeRecord {
	indices := evo.TopIndices(result.Fitness, topN)
	records := make([]model.TopGenomeRecord, 0, len(indices))
	for rank, idx := range indices {
		records = append(records, model.TopGenomeRecord{
			RunID:      runID,
			Generation: result.Generation,
			Rank:       rank + 1,
			Fitness:    result.Fitness[idx],
			Genome:     population[idx],
		})
	}
	return records
}
