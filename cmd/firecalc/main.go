// Command firecalc runs the fire model offline: it steps a synthetic fuel
// model through a weather file, lists fuel models, validates parameter files,
// and checks the reference scenarios.
//
// Usage:
//
//	firecalc run --model 101 --weather weather.csv --out results.csv
//	firecalc fuel-models --carrier GR
//	firecalc params validate fire.yaml
//	firecalc check --params fire.yaml
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
