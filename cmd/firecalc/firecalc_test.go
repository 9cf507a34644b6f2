package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/spitfire-etl/internal/synthetic"
)

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeWeather(t *testing.T, days []synthetic.Day) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "weather.csv")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, synthetic.WriteWeatherCSV(f, days))
	return path
}

func TestRunCommand(t *testing.T) {
	start := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	days := append(synthetic.DrySpell(start, 12, 32, 18, 200), synthetic.RainDay(start.AddDate(0, 0, 12), 30))
	weather := writeWeather(t, days)
	out := filepath.Join(t.TempDir(), "results.csv")

	_, stderr, err := execute(t, "run", "--model", "102", "--weather", weather, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stderr, "fuel model GR102")
	assert.Contains(t, stderr, "days                 13")

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	var results []synthetic.Outcome
	require.NoError(t, gocsv.Unmarshal(f, &results))
	require.Len(t, results, 13)
	assert.Greater(t, results[11].NesterovIndex, results[0].NesterovIndex)
	assert.Greater(t, results[11].RateOfSpread, 0.0)
	assert.Zero(t, results[12].NesterovIndex)
	assert.Equal(t, "none", results[12].Danger)
}

func TestRunCommand_Errors(t *testing.T) {
	_, _, err := execute(t, "run", "--model", "1")
	require.Error(t, err, "weather is required")

	weather := writeWeather(t, synthetic.DrySpell(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), 2, 20, 40, 50))
	_, _, err = execute(t, "run", "--model", "77", "--weather", weather)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "77")
}

func TestSummarize(t *testing.T) {
	s := summarize([]synthetic.Outcome{
		{Date: "2024-07-01", FireDangerIndex: 0.2, NesterovIndex: 500},
		{Date: "2024-07-02", FireDangerIndex: 0.4, NesterovIndex: 1500, RateOfSpread: 2, FirelineIntensity: 300, AreaBurnt: 10},
		{Date: "2024-07-03", FireDangerIndex: 0.6, NesterovIndex: 2500, RateOfSpread: 4, FirelineIntensity: 900, AreaBurnt: 30},
	})
	assert.Equal(t, 3, s.Days)
	assert.Equal(t, 2, s.FireDays)
	assert.InDelta(t, 0.4, s.MeanFDI, 1e-12)
	assert.InDelta(t, 3.0, s.MeanSpread, 1e-12)
	assert.Equal(t, 900.0, s.MaxIntensity)
	assert.Equal(t, 40.0, s.TotalAreaBurnt)
	assert.Equal(t, "2024-07-03", s.PeakIndexDate)

	assert.Equal(t, summary{}, summarize(nil))
}

func TestFuelModelsCommand(t *testing.T) {
	out, _, err := execute(t, "fuel-models", "--carrier", "sb")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 8, "header plus seven slash/blowdown models")
	assert.Contains(t, out, "SB13")
	assert.NotContains(t, out, "GR1 ")

	out, _, err = execute(t, "fuel-models", "--csv")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "index,carrier,code,name"))

	_, _, err = execute(t, "fuel-models", "--carrier", "XX")
	require.Error(t, err)
}

func TestParamsCommands(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.yaml")
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(good, []byte("fire:\n  nesterov:\n    fdi_alpha: 0.0005\n"), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte("fire:\n  moisture_of_extinction:\n    dead: 2\n"), 0o644))

	out, _, err := execute(t, "params", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "ok   "+good)

	out, _, err = execute(t, "params", "validate", good, bad)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL "+bad)
	assert.Contains(t, out, "moisture_of_extinction.dead")

	out, _, err = execute(t, "params", "print", "--params", good)
	require.NoError(t, err)
	assert.Contains(t, out, "fdi_alpha: 0.0005")
	assert.Contains(t, out, "fuel_types:")
}

func TestCheckCommand(t *testing.T) {
	out, _, err := execute(t, "check")
	require.NoError(t, err)
	assert.Equal(t, len(synthetic.ReferenceScenarios()), strings.Count(out, "PASS"))

	// Extinction at zero means nothing can burn.
	params := filepath.Join(t.TempDir(), "wet.yaml")
	require.NoError(t, os.WriteFile(params, []byte("fire:\n  moisture_of_extinction:\n    dead: 0.01\n    live: 0.01\n"), 0o644))
	out, _, err = execute(t, "check", "--params", params)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL")
}

type failingCloser struct {
	bytes.Buffer
	closeErr error
}

func (f *failingCloser) Close() error { return f.closeErr }

func TestWriteResults(t *testing.T) {
	results := []synthetic.Outcome{{Date: "2024-07-01", NesterovIndex: 120}}

	ok := &failingCloser{}
	require.NoError(t, writeResults(ok, results))
	assert.Contains(t, ok.String(), "2024-07-01")

	short := &failingCloser{closeErr: errors.New("no space left on device")}
	err := writeResults(short, results)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closing results")
	assert.Contains(t, err.Error(), "no space left on device")
}
