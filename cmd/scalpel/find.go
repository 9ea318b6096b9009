package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/viant/scalpel/analyzer"
)

func newFindCmd() *cobra.Command {
	var callers bool
	cmd := &cobra.Command{
		Use:   "find <root> <method>",
		Short: "Locate the first declaration of a method under a source root",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			finder := analyzer.NewFinder(analyzerOptions()...)
			match, err := finder.Find(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\t%s#%s\t%s\n", match.Path, match.Type.QualifiedName(), match.Method.Name, match.Method.Signature)
			if !callers {
				return nil
			}
			paths, err := finder.Callers(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			for _, aPath := range paths {
				fmt.Fprintf(out, "caller\t%s\n", aPath)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&callers, "callers", false, "also list files calling the method")
	return cmd
}

func analyzerOptions() []analyzer.Option {
	opts := []analyzer.Option{analyzer.WithLogger(logger)}
	if viper.GetBool(scopeAwareFieldsKey) {
		opts = append(opts, analyzer.WithScopeAwareFields())
	}
	if viper.GetBool(skipTestsKey) {
		opts = append(opts, analyzer.WithSkipTests())
	}
	return opts
}
