package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var (
	verbose bool
	logger  = zap.NewNop()
)

const rootLongDescription = `Scalpel transplants a method from a Java donor code base into a host.

It computes the dependency closure of the target method, stages it in an
IceBox, minimizes the staged organ with a genetic search scored by size,
host identifier mapping and compilation, then implants the result.`

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "scalpel",
		Short:         "Automated source code organ transplantation",
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			logger = newLogger(verbose)
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
	flags.String("icebox", viper.GetString(iceboxRootKey), "IceBox staging root")
	bindFlagToConfig(flags.Lookup("icebox"), iceboxRootKey)
	flags.StringP("output", "o", viper.GetString(outputDirKey), "output directory for search runs")
	bindFlagToConfig(flags.Lookup("output"), outputDirKey)
	flags.String("log-file", viper.GetString(logFilenameKey), "rotated log file")
	bindFlagToConfig(flags.Lookup("log-file"), logFilenameKey)

	cmd.AddCommand(newFindCmd(), newExtractCmd(), newMinimizeCmd(), newImplantCmd())
	return cmd
}

// bindFlagToConfig wires a flag to a viper key so config and env values feed the flag
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}
	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
