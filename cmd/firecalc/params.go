package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/spitfire-etl/internal/paramfile"
)

func newParamsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Inspect fire-model parameter files",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "validate FILE...",
		Short: "Check parameter files and report every invalid field",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				if _, err := paramfile.Load(path); err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s\n%v\n", path, err)
					failed++
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok   %s\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d parameter files invalid", failed, len(args))
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "print",
		Short: "Print the merged parameters as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := root.load(cmd)
			if err != nil {
				return err
			}
			return set.Encode(cmd.OutOrStdout())
		},
	})
	return cmd
}
