package genetic

import (
	"runtime"
	"time"

	"github.com/viant/scalpel/fitness"
)

// Config holds the search parameters
type Config struct {
	// PopulationSize is the number of individuals in every generation
	PopulationSize int `yaml:"population_size"`
	// MaxGenerations is the number of generations evaluated before the run terminates
	MaxGenerations int `yaml:"max_generations"`
	// MutationAddProbability is the chance a child gains one line from the universe
	MutationAddProbability float64 `yaml:"mutation_add_probability"`
	// MutationRemoveProbability is the chance a child loses one of its lines
	MutationRemoveProbability float64 `yaml:"mutation_remove_probability"`
	// TournamentSize is the number of individuals sampled per tournament
	TournamentSize int `yaml:"tournament_size"`
	// Weights combine size, mapping and compile scores
	Weights fitness.Weights `yaml:"weights"`
	// Workers bounds concurrent fitness evaluations
	Workers int `yaml:"workers"`
	// Seed for random number generation (0 for random seed)
	Seed uint64 `yaml:"seed"`
	// CompileTimeout bounds each compiler invocation
	CompileTimeout time.Duration `yaml:"compile_timeout"`
	// KeepElite copies the best individual of a generation unchanged into the next one
	KeepElite bool `yaml:"keep_elite"`
	// OutputDir holds per run candidate directories
	OutputDir string `yaml:"output_dir"`
}

// DefaultConfig returns the baseline configuration
func DefaultConfig() Config {
	return Config{
		PopulationSize:            100,
		MaxGenerations:            50,
		MutationAddProbability:    0.2,
		MutationRemoveProbability: 0.2,
		TournamentSize:            3,
		Weights:                   fitness.DefaultWeights(),
		Workers:                   runtime.NumCPU(),
		CompileTimeout:            30 * time.Second,
	}
}

func (c *Config) normalize() {
	defaults := DefaultConfig()
	if c.PopulationSize <= 0 {
		c.PopulationSize = defaults.PopulationSize
	}
	if c.MaxGenerations <= 0 {
		c.MaxGenerations = defaults.MaxGenerations
	}
	if c.TournamentSize <= 0 {
		c.TournamentSize = defaults.TournamentSize
	}
	if c.Workers <= 0 {
		c.Workers = defaults.Workers
	}
}
