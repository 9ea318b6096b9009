package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/viant/scalpel/fitness"
	"github.com/viant/scalpel/genetic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	configBaseName   = "scalpel"
	configFileName   = configBaseName + ".yaml"
	configFolderPath = "."
	envPrefix        = "SCALPEL"

	populationSizeKey    = "ga.population_size"
	maxGenerationsKey    = "ga.max_generations"
	mutationAddKey       = "ga.mutation_add_probability"
	mutationRemoveKey    = "ga.mutation_remove_probability"
	tournamentSizeKey    = "ga.tournament_size"
	workersKey           = "ga.workers"
	seedKey              = "ga.seed"
	keepEliteKey         = "ga.keep_elite"
	stallGenerationsKey  = "ga.stall_generations"
	stopOnCompileKey     = "ga.stop_on_compile"
	sizeWeightKey        = "fitness.weights.size"
	mappingWeightKey     = "fitness.weights.mapping"
	compileWeightKey     = "fitness.weights.compile"
	compileTimeoutKey    = "fitness.compile_timeout"
	javacKey             = "fitness.javac"
	classPathKey         = "fitness.classpath"
	cacheKey             = "fitness.cache"
	iceboxRootKey        = "icebox.root"
	hostRootKey          = "host.root"
	outputDirKey         = "output.dir"
	scopeAwareFieldsKey  = "closure.scope_aware_fields"
	skipTestsKey         = "closure.skip_tests"
	targetPackageKey     = "implant.package"
	logFilenameKey       = "log.filename"
	logLevelKey          = "log.level"
	logMaxSizeKey        = "log.max_size"
	logMaxBackupsKey     = "log.max_backups"
	logMaxAgeKey         = "log.max_age"
	logCompressKey       = "log.compress"
	defaultIceBoxRoot    = "IceBox"
	defaultOutputDir     = ".scalpel"
	defaultLogFilename   = ".scalpel.log"
	defaultLogMaxSize    = 10
	defaultLogMaxBackups = 3
	defaultLogMaxAge     = 28
)

func init() {
	viper.SetConfigName(configBaseName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configFolderPath)
	viper.SetConfigFile(filepath.Join(configFolderPath, configFileName))
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist) {
			return
		}
	}
}

func setDefaults() {
	defaults := genetic.DefaultConfig()
	viper.SetDefault(populationSizeKey, defaults.PopulationSize)
	viper.SetDefault(maxGenerationsKey, defaults.MaxGenerations)
	viper.SetDefault(mutationAddKey, defaults.MutationAddProbability)
	viper.SetDefault(mutationRemoveKey, defaults.MutationRemoveProbability)
	viper.SetDefault(tournamentSizeKey, defaults.TournamentSize)
	viper.SetDefault(workersKey, defaults.Workers)
	viper.SetDefault(seedKey, 0)
	viper.SetDefault(keepEliteKey, defaults.KeepElite)
	viper.SetDefault(stallGenerationsKey, 0)
	viper.SetDefault(stopOnCompileKey, false)
	viper.SetDefault(sizeWeightKey, defaults.Weights.Size)
	viper.SetDefault(mappingWeightKey, defaults.Weights.Mapping)
	viper.SetDefault(compileWeightKey, defaults.Weights.Compile)
	viper.SetDefault(compileTimeoutKey, defaults.CompileTimeout)
	viper.SetDefault(javacKey, "javac")
	viper.SetDefault(classPathKey, "")
	viper.SetDefault(cacheKey, false)
	viper.SetDefault(iceboxRootKey, defaultIceBoxRoot)
	viper.SetDefault(hostRootKey, "")
	viper.SetDefault(outputDirKey, defaultOutputDir)
	viper.SetDefault(scopeAwareFieldsKey, false)
	viper.SetDefault(skipTestsKey, true)
	viper.SetDefault(targetPackageKey, "")

	viper.SetDefault(logFilenameKey, defaultLogFilename)
	viper.SetDefault(logLevelKey, "info")
	viper.SetDefault(logMaxSizeKey, defaultLogMaxSize)
	viper.SetDefault(logMaxBackupsKey, defaultLogMaxBackups)
	viper.SetDefault(logMaxAgeKey, defaultLogMaxAge)
	viper.SetDefault(logCompressKey, true)
}

// searchConfig reads the genetic configuration from viper
func searchConfig() genetic.Config {
	return genetic.Config{
		PopulationSize:            viper.GetInt(populationSizeKey),
		MaxGenerations:            viper.GetInt(maxGenerationsKey),
		MutationAddProbability:    viper.GetFloat64(mutationAddKey),
		MutationRemoveProbability: viper.GetFloat64(mutationRemoveKey),
		TournamentSize:            viper.GetInt(tournamentSizeKey),
		Weights: fitness.Weights{
			Size:    viper.GetFloat64(sizeWeightKey),
			Mapping: viper.GetFloat64(mappingWeightKey),
			Compile: viper.GetFloat64(compileWeightKey),
		},
		Workers:        viper.GetInt(workersKey),
		Seed:           viper.GetUint64(seedKey),
		CompileTimeout: viper.GetDuration(compileTimeoutKey),
		KeepElite:      viper.GetBool(keepEliteKey),
		OutputDir:      viper.GetString(outputDirKey),
	}
}

// newLogger builds a JSON core on a rotated log file tee'd with a console core on stderr
func newLogger(verbose bool) *zap.Logger {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(viper.GetString(logLevelKey))); err != nil {
		level.SetLevel(zapcore.InfoLevel)
	}
	if verbose {
		level.SetLevel(zapcore.DebugLevel)
	}
	filename := strings.TrimSpace(viper.GetString(logFilenameKey))
	if filename == "" {
		filename = defaultLogFilename
	}
	writer := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    viper.GetInt(logMaxSizeKey),
		MaxBackups: viper.GetInt(logMaxBackupsKey),
		MaxAge:     viper.GetInt(logMaxAgeKey),
		Compress:   viper.GetBool(logCompressKey),
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
	consoleConfig := zap.NewDevelopmentEncoderConfig()
	consoleLevel := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= zapcore.WarnLevel || (verbose && level.Enabled(l))
	})
	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(writer), level),
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleConfig), zapcore.Lock(os.Stderr), consoleLevel),
	)
	return zap.New(core)
}
