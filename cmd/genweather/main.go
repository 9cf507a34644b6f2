// Command genweather generates reproducible synthetic weather fixtures. It
// writes a daily weather CSV for firecalc and, optionally, the matching
// stream of patch messages for the firewatch source topic.
//
// Usage:
//
//	go run ./cmd/genweather \
//	  -start 2024-03-01 -days 240 -seed 7 \
//	  -csv data/mock/weather.csv \
//	  -messages data/mock/patch_messages.jsonl -patches 5 -model 102
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/couchcryptid/spitfire-etl/internal/domain"
	"github.com/couchcryptid/spitfire-etl/internal/synthetic"
)

type options struct {
	start   time.Time
	days    int
	seed    uint64
	csvOut  string
	msgOut  string
	patches int
	model   int
	climate synthetic.SeasonConfig
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		logger.Error("invalid flags", "error", err)
		os.Exit(2)
	}
	if err := run(opts, logger); err != nil {
		logger.Error("generation failed", "error", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("genweather", flag.ContinueOnError)
	start := fs.String("start", "2024-03-01", "first day (YYYY-MM-DD)")
	days := fs.Int("days", 240, "number of days")
	seed := fs.Uint64("seed", 1, "random seed")
	csvOut := fs.String("csv", "", "output path for the weather CSV")
	msgOut := fs.String("messages", "", "output path for JSON-lines patch messages")
	patches := fs.Int("patches", 1, "number of patches in the message stream")
	model := fs.Int("model", 102, "fuel model supplying litter for messages")
	climate := synthetic.DefaultSeason()
	fs.Float64Var(&climate.MeanTemperature, "mean-temp", climate.MeanTemperature, "annual mean temperature (degC)")
	fs.Float64Var(&climate.RainChance, "rain-chance", climate.RainChance, "daily probability of rain")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	t, err := time.Parse(time.DateOnly, *start)
	if err != nil {
		return options{}, fmt.Errorf("start: %w", err)
	}
	if *days <= 0 || *patches <= 0 {
		return options{}, fmt.Errorf("days and patches must be positive")
	}
	if *csvOut == "" && *msgOut == "" {
		return options{}, fmt.Errorf("at least one of -csv or -messages is required")
	}
	return options{
		start:   t,
		days:    *days,
		seed:    *seed,
		csvOut:  *csvOut,
		msgOut:  *msgOut,
		patches: *patches,
		model:   *model,
		climate: climate,
	}, nil
}

func run(opts options, logger *slog.Logger) error {
	if opts.csvOut != "" {
		days := synthetic.Season(opts.climate, opts.start, opts.days, opts.seed)
		if err := writeFile(opts.csvOut, func(w io.Writer) error { return synthetic.WriteWeatherCSV(w, days) }); err != nil {
			return err
		}
		logger.Info("wrote weather csv", "path", opts.csvOut, "days", len(days))
	}

	if opts.msgOut != "" {
		m, err := synthetic.Lookup(opts.model)
		if err != nil {
			return err
		}
		msgs := patchMessages(opts, m, domain.DefaultFireParameters())
		if err := writeFile(opts.msgOut, func(w io.Writer) error { return writeJSONLines(w, msgs) }); err != nil {
			return err
		}
		logger.Info("wrote patch messages", "path", opts.msgOut, "messages", len(msgs), "model", m.Code)
	}
	return nil
}

// patchMessages interleaves patches day by day, each with its own weather
// seed, the way a host model would publish them.
func patchMessages(opts options, m synthetic.FuelModel, p *domain.FireParameters) []domain.PatchMessage {
	tree, grass, bare := m.Cover()
	litter := m.Litter(p)

	weather := make([][]synthetic.Day, opts.patches)
	for i := range weather {
		weather[i] = synthetic.Season(opts.climate, opts.start, opts.days, opts.seed+uint64(i))
	}

	msgs := make([]domain.PatchMessage, 0, opts.patches*opts.days)
	for d := range opts.days {
		for i := range opts.patches {
			day := weather[i][d]
			rh := day.RelativeHumidity
			msgs = append(msgs, domain.PatchMessage{
				PatchID:       fmt.Sprintf("patch-%03d", i+1),
				Date:          day.Date,
				TempC:         day.Temperature,
				RH:            &rh,
				PrecipMM:      day.Precipitation,
				WindMMin:      day.Wind,
				TreeFraction:  tree,
				GrassFraction: grass,
				BareFraction:  bare,
				Ignitions:     1,
				Litter:        litter,
			})
		}
	}
	return msgs
}

func writeJSONLines(w io.Writer, msgs []domain.PatchMessage) error {
	enc := json.NewEncoder(w)
	for i := range msgs {
		if err := enc.Encode(msgs[i]); err != nil {
			return fmt.Errorf("encoding message %d: %w", i, err)
		}
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
