package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/scalpel/fitness"
	"github.com/viant/scalpel/genetic"
	"github.com/viant/scalpel/implanter"
	"github.com/viant/scalpel/inspector/java"
	"github.com/viant/scalpel/organ"
	"go.uber.org/zap"
)

func newMinimizeCmd() *cobra.Command {
	var receiver string
	cmd := &cobra.Command{
		Use:   "minimize <icebox-file>",
		Short: "Search for the smallest compiling variant of a staged organ",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			fs := afs.New()
			o, err := organ.Load(ctx, fs, args[0])
			if err != nil {
				return err
			}
			config := searchConfig()
			if err = config.Weights.Validate(); err != nil {
				return err
			}

			compiler := fitness.NewJavac(viper.GetString(javacKey), config.CompileTimeout)
			if compiler.SourcePath, err = filepath.Abs(viper.GetString(iceboxRootKey)); err != nil {
				return err
			}
			compiler.ClassPath = viper.GetString(classPathKey)
			evaluatorOptions := []fitness.Option{fitness.WithWeights(config.Weights), fitness.WithLogger(logger), fitness.WithFileService(fs)}
			var cache *fitness.Cache
			if viper.GetBool(cacheKey) {
				cache = fitness.NewCache()
				evaluatorOptions = append(evaluatorOptions, fitness.WithCache(cache))
			}
			evaluator := fitness.New(o, compiler, evaluatorOptions...)

			engineOptions := []genetic.Option{genetic.WithLogger(logger)}
			var terminators []genetic.Terminator
			if stall := viper.GetInt(stallGenerationsKey); stall > 0 {
				terminators = append(terminators, genetic.Stall(stall))
			}
			if viper.GetBool(stopOnCompileKey) {
				terminators = append(terminators, genetic.Compiles)
			}
			if len(terminators) > 0 {
				engineOptions = append(engineOptions, genetic.WithTerminator(genetic.Any(terminators...)))
			}
			result, runErr := genetic.New(o, evaluator, hostSymbols(viper.GetString(hostRootKey)), config, engineOptions...).Run(ctx)
			if result == nil || result.BestSoFar == nil {
				return runErr
			}
			out := cmd.OutOrStdout()
			writeReport(out, result)
			if cache != nil {
				logger.Info("compile cache", zap.Int("entries", cache.Len()), zap.Int("hits", cache.Hits()))
			}
			text, best, err := saveBest(context.WithoutCancel(ctx), fs, o, result)
			if err != nil {
				return errors.Join(runErr, err)
			}
			fmt.Fprintf(out, "best variant %s (fitness %.4f, %d of %d lines)\n", best, result.BestSoFar.Fitness, result.BestSoFar.Size(), o.Size())
			if runErr != nil {
				logger.Warn("search stopped early", zap.Int("generations", result.Generations), zap.Error(runErr))
				return runErr
			}
			if receiver == "" {
				return nil
			}
			aImplanter := implanter.New(implanter.WithLogger(logger), implanter.WithFileService(fs), implanter.WithTargetPackage(viper.GetString(targetPackageKey)))
			destination, err := aImplanter.ImplantSource(ctx, o.FileName(), []byte(text), receiver)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "implanted %s\n", destination)
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&receiver, "implant", "", "receiver root the best variant is implanted into")
	flags.String("host", viper.GetString(hostRootKey), "host source root providing identifiers for the mapping score")
	bindFlagToConfig(flags.Lookup("host"), hostRootKey)
	flags.Int("population", viper.GetInt(populationSizeKey), "population size")
	bindFlagToConfig(flags.Lookup("population"), populationSizeKey)
	flags.Int("generations", viper.GetInt(maxGenerationsKey), "maximum number of generations")
	bindFlagToConfig(flags.Lookup("generations"), maxGenerationsKey)
	flags.Uint64("seed", viper.GetUint64(seedKey), "random seed, 0 picks one")
	bindFlagToConfig(flags.Lookup("seed"), seedKey)
	flags.Int("workers", viper.GetInt(workersKey), "concurrent fitness evaluations")
	bindFlagToConfig(flags.Lookup("workers"), workersKey)
	flags.Int("stall", viper.GetInt(stallGenerationsKey), "stop after this many generations without improvement, 0 disables")
	bindFlagToConfig(flags.Lookup("stall"), stallGenerationsKey)
	flags.Bool("stop-on-compile", viper.GetBool(stopOnCompileKey), "stop once a generation contains a compiling variant")
	bindFlagToConfig(flags.Lookup("stop-on-compile"), stopOnCompileKey)
	flags.Bool("keep-elite", viper.GetBool(keepEliteKey), "carry the best individual into the next generation")
	bindFlagToConfig(flags.Lookup("keep-elite"), keepEliteKey)
	flags.Bool("cache", viper.GetBool(cacheKey), "reuse compile outcomes of identical line subsets")
	bindFlagToConfig(flags.Lookup("cache"), cacheKey)
	return cmd
}

// saveBest writes the best so far variant under the run directory and returns its text and location
func saveBest(ctx context.Context, fs afs.Service, o *organ.Organ, result *genetic.Result) (string, string, error) {
	text := o.Materialize(result.BestSoFar.Sorted())
	best := filepath.Join(result.OutputDir, "best", o.FileName())
	if err := fs.Upload(ctx, best, file.DefaultFileOsMode, bytes.NewReader([]byte(text))); err != nil {
		return "", "", fmt.Errorf("failed to write best variant %s: %w", best, err)
	}
	return text, best, nil
}

// hostSymbols collects host identifiers; an empty root maps nothing
func hostSymbols(root string) *organ.SymbolTable {
	if root == "" {
		return organ.NewSymbolTable()
	}
	files, err := java.NewInspector(&java.Config{IncludeUnexported: true, SkipTests: true}).InspectTree(root)
	if err != nil {
		logger.Warn("host tree partially parsed", zap.String("root", root), zap.Error(err))
	}
	table := organ.SymbolTableFromFiles(files)
	logger.Info("host symbols", zap.String("root", root), zap.Int("files", len(files)), zap.Int("identifiers", table.Len()))
	return table
}
