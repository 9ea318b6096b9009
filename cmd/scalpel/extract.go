package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/viant/scalpel/analyzer"
	"github.com/viant/scalpel/icebox"
	"github.com/viant/scalpel/inspector/graph"
	"github.com/viant/scalpel/inspector/java"
	"github.com/viant/scalpel/inspector/repository"
	"go.uber.org/zap"
)

func newExtractCmd() *cobra.Command {
	var sourceRoot string
	cmd := &cobra.Command{
		Use:   "extract <file> <method>",
		Short: "Compute the dependency closure of a method and stage it in the IceBox",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			unit, err := java.NewInspector(nil).InspectFile(args[0])
			if err != nil {
				return err
			}
			root := sourceRoot
			if root == "" {
				if root, err = donorRoot(args[0], unit); err != nil {
					return err
				}
			}
			logger.Debug("donor source root", zap.String("root", root))
			opts := analyzerOptions()
			closure, err := analyzer.NewClosure(analyzer.NewResolver(root, opts...), opts...).ComputeFor(ctx, unit, args[1])
			if err != nil {
				return err
			}
			stager := icebox.New(viper.GetString(iceboxRootKey), icebox.WithLogger(logger))
			entry, err := stager.Stage(ctx, closure)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "staged %s\n", entry.Target)
			for _, location := range entry.Files {
				fmt.Fprintf(out, "  file    %s\n", filepath.Join(stager.Root(), location))
			}
			for _, method := range entry.Methods {
				fmt.Fprintf(out, "  method  %s\n", method)
			}
			if len(entry.Fields) > 0 {
				fmt.Fprintf(out, "  fields  %s\n", strings.Join(entry.Fields, ", "))
			}
			if len(entry.RequiredTypes) > 0 {
				fmt.Fprintf(out, "  types   %s\n", strings.Join(entry.RequiredTypes, ", "))
			}
			for _, issue := range entry.Issues {
				fmt.Fprintf(out, "  issue   %s\n", issue)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sourceRoot, "source-root", "", "donor source root (default derived from the package declaration)")
	return cmd
}

// donorRoot strips the package folders from the file location, falling back to the detected project source root
func donorRoot(location string, unit *graph.File) (string, error) {
	abs, err := filepath.Abs(location)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(abs)
	if packagePath := repository.PackagePath(unit.Package); packagePath != "" {
		if strings.HasSuffix(dir, string(filepath.Separator)+packagePath) {
			return strings.TrimSuffix(dir, string(filepath.Separator)+packagePath), nil
		}
	} else {
		return dir, nil
	}
	project, err := repository.New().DetectProject(abs)
	if err != nil {
		return "", err
	}
	return project.SourceRoot, nil
}
