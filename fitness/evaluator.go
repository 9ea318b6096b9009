package fitness

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"path/filepath"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/scalpel/organ"
	"go.uber.org/zap"
)

// ErrInvalidState is returned when the organ universe is empty
var ErrInvalidState = organ.ErrInvalidState

// Weights combine the three objectives
type Weights struct {
	Size    float64 `yaml:"size"`
	Mapping float64 `yaml:"mapping"`
	Compile float64 `yaml:"compile"`
}

// DefaultWeights returns 0.4 size, 0.3 mapping, 0.3 compile
func DefaultWeights() Weights {
	return Weights{Size: 0.4, Mapping: 0.3, Compile: 0.3}
}

// Validate checks the weights are non negative and sum to 1, keeping totals within [0,1]
func (w Weights) Validate() error {
	if w.Size < 0 || w.Mapping < 0 || w.Compile < 0 {
		return fmt.Errorf("%w: negative weight in %+v", ErrInvalidState, w)
	}
	if sum := w.Size + w.Mapping + w.Compile; math.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("%w: weights sum to %g, expected 1", ErrInvalidState, sum)
	}
	return nil
}

// Score holds the individual objective scores and their weighted total
type Score struct {
	Size    float64
	Mapping float64
	Compile float64
	Total   float64
}

// Evaluator scores individuals of one organ
type Evaluator struct {
	organ    *organ.Organ
	compiler Compiler
	weights  Weights
	fs       afs.Service
	cache    *Cache
	logger   *zap.Logger

	fingerprint func(*organ.Individual) (uint64, error)
}

// Option configures an evaluator
type Option func(*Evaluator)

// WithWeights overrides the default weights
func WithWeights(weights Weights) Option {
	return func(e *Evaluator) {
		e.weights = weights
	}
}

// WithCache memoizes compile outcomes by line fingerprint.
// A cache hit reuses the earlier outcome and writes no candidate file to the output directory.
func WithCache(cache *Cache) Option {
	return func(e *Evaluator) {
		e.cache = cache
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(e *Evaluator) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithFileService sets the file service used to write candidates
func WithFileService(fs afs.Service) Option {
	return func(e *Evaluator) {
		e.fs = fs
	}
}

// New creates an evaluator for o
func New(o *organ.Organ, compiler Compiler, opts ...Option) *Evaluator {
	ret := &Evaluator{
		organ:    o,
		compiler: compiler,
		weights:  DefaultWeights(),
		logger:   zap.NewNop(),

		fingerprint: (*organ.Individual).Fingerprint,
	}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.fs == nil {
		ret.fs = afs.New()
	}
	return ret
}

// Organ returns the evaluated organ
func (e *Evaluator) Organ() *organ.Organ {
	return e.organ
}

// Evaluate returns the weighted fitness of ind
func (e *Evaluator) Evaluate(ctx context.Context, ind *organ.Individual, totalHost, mapped int, outputDir string) (float64, error) {
	score, err := e.Score(ctx, ind, totalHost, mapped, outputDir)
	if err != nil {
		return 0, err
	}
	return score.Total, nil
}

// Score computes each objective for ind. The candidate source is written to outputDir and retained.
func (e *Evaluator) Score(ctx context.Context, ind *organ.Individual, totalHost, mapped int, outputDir string) (*Score, error) {
	universe := e.organ.Size()
	if universe == 0 {
		return nil, fmt.Errorf("%w: organ %s has an empty line universe", ErrInvalidState, e.organ.TypeName)
	}
	if err := ind.Validate(e.organ); err != nil {
		return nil, err
	}
	score := &Score{
		Size:    1 - float64(ind.Size())/float64(universe),
		Mapping: MappingScore(totalHost, mapped),
		Compile: e.compileScore(ctx, ind, outputDir),
	}
	score.Total = e.weights.Size*score.Size + e.weights.Mapping*score.Mapping + e.weights.Compile*score.Compile
	return score, nil
}

// MappingScore returns mapped/total clamped to [0,1], or 0 when total is not positive
func MappingScore(total, mapped int) float64 {
	if total <= 0 {
		return 0
	}
	ratio := float64(mapped) / float64(total)
	return min(1, max(0, ratio))
}

func (e *Evaluator) compileScore(ctx context.Context, ind *organ.Individual, outputDir string) float64 {
	if e.organ.DeclarationLine == 0 || !ind.Contains(e.organ.DeclarationLine) {
		return 0
	}
	var key uint64
	cacheable := false
	if e.cache != nil {
		var err error
		if key, err = e.fingerprint(ind); err == nil {
			cacheable = true
			if cached, ok := e.cache.Get(key); ok {
				return cached
			}
		} else {
			e.logger.Debug("fingerprint failed, not caching", zap.Int("individual", ind.ID), zap.Error(err))
		}
	}
	candidate := filepath.Join(outputDir, e.organ.FileName())
	source := e.organ.Materialize(ind.Lines)
	if err := e.fs.Upload(ctx, candidate, file.DefaultFileOsMode, bytes.NewReader([]byte(source))); err != nil {
		e.logger.Warn("failed to write candidate", zap.Int("individual", ind.ID), zap.String("path", candidate), zap.Error(err))
		return 0
	}
	result := 0.0
	if err := e.compiler.Compile(ctx, candidate, outputDir); err != nil {
		e.logger.Debug("candidate rejected", zap.Int("individual", ind.ID), zap.Error(err))
	} else {
		result = 1
	}
	if cacheable && ctx.Err() == nil {
		e.cache.Put(key, result)
	}
	return result
}
