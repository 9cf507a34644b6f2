package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/couchcryptid/spitfire-etl/internal/domain"
	"github.com/couchcryptid/spitfire-etl/internal/synthetic"
)

func newRunCmd(root *rootOptions) *cobra.Command {
	var (
		model     int
		weather   string
		out       string
		ignitions float64
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Step a fuel model through a daily weather file",
		Long: `Run reads daily weather (date,temp_degC,precip,RH,wind), holds the
litter of the chosen fuel model constant, and writes one row of fire
behavior per day as CSV. A summary of the run goes to stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := root.load(cmd)
			if err != nil {
				return err
			}
			m, err := synthetic.Lookup(model)
			if err != nil {
				return err
			}
			days, err := readWeather(weather)
			if err != nil {
				return err
			}

			patch, err := domain.NewPatch(m.Code, set.Params, set.FuelTypes)
			if err != nil {
				return err
			}
			results, err := synthetic.Run(patch, m, set.Params, days, ignitions)
			if err != nil {
				return err
			}
			root.logger(cmd).Debug("run complete", "model", m.Code, "days", len(results))

			if out == "" {
				if err := gocsv.Marshal(results, cmd.OutOrStdout()); err != nil {
					return fmt.Errorf("writing results: %w", err)
				}
			} else {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("creating output: %w", err)
				}
				if err := writeResults(f, results); err != nil {
					return fmt.Errorf("%s: %w", out, err)
				}
			}
			printSummary(cmd.ErrOrStderr(), m, summarize(results))
			return nil
		},
	}
	cmd.Flags().IntVarP(&model, "model", "m", 1, "fuel model index")
	cmd.Flags().StringVarP(&weather, "weather", "w", "", "daily weather CSV (required)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "results CSV (default stdout)")
	cmd.Flags().Float64Var(&ignitions, "ignitions", 1, "ignitions per km2 per day")
	_ = cmd.MarkFlagRequired("weather")
	return cmd
}

func readWeather(path string) ([]synthetic.Day, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening weather file: %w", err)
	}
	defer f.Close()
	return synthetic.ReadWeatherCSV(f)
}

// writeResults writes the results CSV and closes w, reporting a failed close
// since that is where a short file write surfaces.
func writeResults(w io.WriteCloser, results []synthetic.Outcome) error {
	if err := gocsv.Marshal(results, w); err != nil {
		w.Close()
		return fmt.Errorf("writing results: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("closing results: %w", err)
	}
	return nil
}

type summary struct {
	Days           int
	FireDays       int
	MeanFDI        float64
	MeanSpread     float64 // over fire days
	MaxIntensity   float64
	TotalAreaBurnt float64
	PeakIndex      float64
	PeakIndexDate  string
}

func summarize(results []synthetic.Outcome) summary {
	s := summary{Days: len(results)}
	if len(results) == 0 {
		return s
	}
	fdi := make([]float64, len(results))
	area := make([]float64, len(results))
	intensity := make([]float64, len(results))
	index := make([]float64, len(results))
	var spread []float64
	for i, r := range results {
		fdi[i] = r.FireDangerIndex
		area[i] = r.AreaBurnt
		intensity[i] = r.FirelineIntensity
		index[i] = r.NesterovIndex
		if r.RateOfSpread > 0 {
			spread = append(spread, r.RateOfSpread)
		}
	}
	s.FireDays = len(spread)
	s.MeanFDI = stat.Mean(fdi, nil)
	if len(spread) > 0 {
		s.MeanSpread = stat.Mean(spread, nil)
	}
	s.MaxIntensity = floats.Max(intensity)
	s.TotalAreaBurnt = floats.Sum(area)
	peak := floats.MaxIdx(index)
	s.PeakIndex = index[peak]
	s.PeakIndexDate = results[peak].Date
	return s
}

func printSummary(w io.Writer, m synthetic.FuelModel, s summary) {
	fmt.Fprintf(w, "fuel model %s (%s)\n", m.Code, m.Name)
	fmt.Fprintf(w, "  days                 %d\n", s.Days)
	fmt.Fprintf(w, "  days with spread     %d\n", s.FireDays)
	fmt.Fprintf(w, "  mean FDI             %.3f\n", s.MeanFDI)
	fmt.Fprintf(w, "  mean spread (m/min)  %.3f\n", s.MeanSpread)
	fmt.Fprintf(w, "  max intensity (kW/m) %.1f\n", s.MaxIntensity)
	fmt.Fprintf(w, "  area burnt (m2/km2)  %.1f\n", s.TotalAreaBurnt)
	if s.Days > 0 {
		fmt.Fprintf(w, "  peak Nesterov index  %.0f on %s\n", s.PeakIndex, s.PeakIndexDate)
	}
}
