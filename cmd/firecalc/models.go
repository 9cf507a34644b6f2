package main

import (
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/spitfire-etl/internal/synthetic"
)

func newFuelModelsCmd() *cobra.Command {
	var (
		carrier string
		asCSV   bool
	)
	cmd := &cobra.Command{
		Use:   "fuel-models",
		Short: "List the standard surface fuel models",
		Long: `List the Anderson and Scott & Burgan fuel models. Loadings are shown
in kgC/m2 and fuel depth in metres.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var models []synthetic.FuelModel
			for _, m := range synthetic.Models() {
				if carrier == "" || strings.EqualFold(m.Carrier, carrier) {
					models = append(models, m)
				}
			}
			if len(models) == 0 {
				return fmt.Errorf("no fuel models with carrier %q", carrier)
			}

			w := cmd.OutOrStdout()
			if asCSV {
				return gocsv.Marshal(models, w)
			}
			fmt.Fprintf(w, "%-6s %-50s %7s %7s %7s %7s %7s %6s\n",
				"CODE", "NAME", "1H", "10H", "100H", "HERB", "WOODY", "DEPTH")
			for _, m := range models {
				fmt.Fprintf(w, "%-6s %-50s %7.4f %7.4f %7.4f %7.4f %7.4f %6.3f\n",
					m.Code, m.Name, m.OneHour, m.TenHour, m.HundredHour, m.LiveHerb, m.LiveWoody, m.Depth)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&carrier, "carrier", "c", "", "only list one carrier (GR, GS, SH, TU, TL, SB)")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "write CSV instead of a table")
	return cmd
}
