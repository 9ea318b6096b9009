package genetic

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/viant/scalpel/fitness"
	"github.com/viant/scalpel/organ"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidState is returned when the organ universe is empty
var ErrInvalidState = organ.ErrInvalidState

// Evaluator scores one individual writing its candidate under outputDir
type Evaluator interface {
	Score(ctx context.Context, ind *organ.Individual, totalHost, mapped int, outputDir string) (*fitness.Score, error)
}

// Terminator stops the run early when it returns true for an evaluated population
type Terminator func(population *Population, generation int) bool

// Population is one generation of individuals
type Population struct {
	Generation  int
	Individuals []*organ.Individual
	Stats       Stats
}

// Best returns the fittest individual of the population
func (p *Population) Best() *organ.Individual {
	return Fittest(p.Individuals)
}

// Stats summarizes an evaluated generation
type Stats struct {
	Generation int
	Best       float64
	Worst      float64
	Mean       float64
	Compiled   int
	BestSize   int
}

// Result reports a finished run
type Result struct {
	RunID       string
	Best        *organ.Individual // best of the final generation
	BestSoFar   *organ.Individual // best seen in any generation
	Generations int
	History     []Stats
	OutputDir   string
}

// Engine evolves line subsets of one organ
type Engine struct {
	organ      *organ.Organ
	evaluator  Evaluator
	counter    organ.Counter
	config     Config
	rng        *rand.Rand
	terminator Terminator
	logger     *zap.Logger
	nextID     int
}

// Option configures an engine
type Option func(*Engine)

// WithTerminator installs an early convergence criterion
func WithTerminator(terminator Terminator) Option {
	return func(e *Engine) {
		e.terminator = terminator
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// New creates an engine; counter supplies host identifier counts per individual
func New(o *organ.Organ, evaluator Evaluator, counter organ.Counter, config Config, opts ...Option) *Engine {
	config.normalize()
	var rng *rand.Rand
	if config.Seed == 0 {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	} else {
		rng = rand.New(rand.NewPCG(config.Seed, config.Seed))
	}
	if counter == nil {
		counter = organ.StaticCounter{}
	}
	ret := &Engine{
		organ:     o,
		evaluator: evaluator,
		counter:   counter,
		config:    config,
		rng:       rng,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// Run executes generations until MaxGenerations or the terminator fires
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	if err := e.config.Weights.Validate(); err != nil {
		return nil, err
	}
	population, err := e.Init()
	if err != nil {
		return nil, err
	}
	outputDir := e.config.OutputDir
	if outputDir == "" {
		outputDir = filepath.Join(os.TempDir(), "scalpel")
	}
	result := &Result{RunID: uuid.NewString()}
	result.OutputDir = filepath.Join(outputDir, result.RunID)
	e.logger.Info("search started",
		zap.String("run", result.RunID),
		zap.String("organ", e.organ.TypeName),
		zap.Int("universe", e.organ.Size()),
		zap.Int("population", e.config.PopulationSize),
		zap.Int("generations", e.config.MaxGenerations))

	for generation := 0; generation < e.config.MaxGenerations; generation++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := e.Evaluate(ctx, population, filepath.Join(result.OutputDir, fmt.Sprintf("gen-%03d", generation))); err != nil {
			return result, err
		}
		result.History = append(result.History, population.Stats)
		result.Generations = generation + 1
		result.Best = population.Best()
		if result.BestSoFar == nil || result.Best.Fitness > result.BestSoFar.Fitness {
			result.BestSoFar = result.Best.Clone(result.Best.ID)
		}
		e.logger.Info("generation evaluated",
			zap.Int("generation", generation),
			zap.Float64("best", population.Stats.Best),
			zap.Float64("mean", population.Stats.Mean),
			zap.Int("compiled", population.Stats.Compiled),
			zap.Int("bestSize", population.Stats.BestSize))

		if generation == e.config.MaxGenerations-1 {
			break
		}
		if e.terminator != nil && e.terminator(population, generation) {
			e.logger.Info("search converged", zap.Int("generation", generation))
			break
		}
		population = e.Reproduce(population)
	}
	return result, nil
}

// Init builds generation 0 from the seed individual and random individuals
func (e *Engine) Init() (*Population, error) {
	if e.organ == nil || e.organ.Size() == 0 {
		return nil, fmt.Errorf("%w: organ has an empty line universe", ErrInvalidState)
	}
	individuals := make([]*organ.Individual, 0, e.config.PopulationSize)
	individuals = append(individuals, organ.Seed(e.organ))
	e.nextID = 1
	for len(individuals) < e.config.PopulationSize {
		individuals = append(individuals, organ.Random(e.newID(), e.organ, e.rng))
	}
	return &Population{Individuals: individuals}, nil
}

// Evaluate scores every individual with at most Workers concurrent evaluations.
// A failing individual scores zero; only ErrInvalidState and cancellation of ctx abort the generation.
func (e *Engine) Evaluate(ctx context.Context, population *Population, outputDir string) error {
	compiled := make([]bool, len(population.Individuals))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(e.config.Workers)
	for i, ind := range population.Individuals {
		group.Go(func() error {
			total, mapped := e.counter.Count(e.organ, ind)
			dir := filepath.Join(outputDir, fmt.Sprintf("ind-%04d", i))
			score, err := e.evaluator.Score(groupCtx, ind, total, mapped, dir)
			if err != nil {
				if errors.Is(err, ErrInvalidState) || ctx.Err() != nil {
					return fmt.Errorf("failed to evaluate individual %d: %w", ind.ID, err)
				}
				e.logger.Warn("evaluation failed, scoring zero", zap.Int("individual", ind.ID), zap.String("dir", dir), zap.Error(err))
				ind.Fitness = 0
				return nil
			}
			ind.Fitness = score.Total
			compiled[i] = score.Compile > 0
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}
	population.Stats = e.stats(population, compiled)
	return nil
}

// Reproduce selects parents and breeds the next generation
func (e *Engine) Reproduce(population *Population) *Population {
	size := e.config.PopulationSize
	selected := Select(population.Individuals, size, e.config.TournamentSize, e.rng)
	children := make([]*organ.Individual, 0, size)
	if e.config.KeepElite {
		children = append(children, selected[0].Clone(e.newID()))
	}
	for len(children) < size {
		p1 := selected[e.rng.IntN(len(selected))]
		p2 := selected[e.rng.IntN(len(selected))]
		child := Crossover(e.newID(), p1, p2, e.rng)
		Mutate(child, e.organ.Size(), e.config.MutationAddProbability, e.config.MutationRemoveProbability, e.rng)
		children = append(children, child)
	}
	return &Population{Generation: population.Generation + 1, Individuals: children}
}

func (e *Engine) stats(population *Population, compiled []bool) Stats {
	stats := Stats{Generation: population.Generation}
	if len(population.Individuals) == 0 {
		return stats
	}
	best := population.Best()
	stats.Best = best.Fitness
	stats.BestSize = best.Size()
	stats.Worst = best.Fitness
	total := 0.0
	for i, ind := range population.Individuals {
		if ind.Fitness < stats.Worst {
			stats.Worst = ind.Fitness
		}
		total += ind.Fitness
		if compiled[i] {
			stats.Compiled++
		}
	}
	stats.Mean = total / float64(len(population.Individuals))
	return stats
}

func (e *Engine) newID() int {
	id := e.nextID
	e.nextID++
	return id
}
