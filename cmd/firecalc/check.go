package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/spitfire-etl/internal/synthetic"
)

func newCheckCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the model reproduces the reference scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := root.load(cmd)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			var failures []string
			for _, s := range synthetic.ReferenceScenarios() {
				status := "PASS"
				if err := s.Check(set.Params, set.FuelTypes); err != nil {
					status = "FAIL"
					failures = append(failures, fmt.Sprintf("%s: %v", s.Name, err))
				}
				fmt.Fprintf(w, "  %-48s %s\n", s.Name, status)
			}

			if len(failures) > 0 {
				fmt.Fprintln(w)
				for _, f := range failures {
					fmt.Fprintf(w, "  - %s\n", f)
				}
				return fmt.Errorf("%d reference scenarios failed", len(failures))
			}
			return nil
		},
	}
}
