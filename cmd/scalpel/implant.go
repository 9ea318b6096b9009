package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/viant/scalpel/implanter"
)

func newImplantCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "implant <file|dir> <receiver-root>",
		Short: "Copy a staged or minimized organ into a receiver project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			aImplanter := implanter.New(implanter.WithLogger(logger), implanter.WithTargetPackage(viper.GetString(targetPackageKey)))
			info, err := os.Stat(args[0])
			if err != nil {
				return err
			}
			var destinations []string
			if info.IsDir() {
				if destinations, err = aImplanter.ImplantTree(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
			} else {
				destination, err := aImplanter.Implant(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				destinations = append(destinations, destination)
			}
			for _, destination := range destinations {
				fmt.Fprintf(cmd.OutOrStdout(), "implanted %s\n", destination)
			}
			return nil
		},
	}
	cmd.Flags().String("package", viper.GetString(targetPackageKey), "receiver package the organ is nested under")
	bindFlagToConfig(cmd.Flags().Lookup("package"), targetPackageKey)
	return cmd
}
