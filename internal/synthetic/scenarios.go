package synthetic

import (
	"errors"
	"fmt"
	"time"

	"github.com/couchcryptid/spitfire-etl/internal/domain"
)

// Scenario is a published behavior the model must reproduce.
type Scenario struct {
	Name  string
	Check func(p *domain.FireParameters, types []domain.FuelType) error
}

// ReferenceScenarios returns the end-to-end checks in a fixed order.
func ReferenceScenarios() []Scenario {
	return []Scenario{
		{Name: "drier dead fuel spreads faster", Check: drierSpreadsFaster},
		{Name: "fuel above extinction does not spread", Check: wetFuelStalls},
		{Name: "dry spell builds nesterov index until rain", Check: drySpellThenRain},
		{Name: "short grass burns after a dry spell", Check: shortGrassBurns},
	}
}

var scenarioStart = time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

func typeFor(types []domain.FuelType, cat domain.FuelCategory) (domain.FuelType, error) {
	for _, ft := range types {
		if ft.Category() == cat {
			return ft, nil
		}
	}
	return domain.FuelType{}, fmt.Errorf("no fuel type for %s", cat)
}

func leafLitter(p *domain.FireParameters, types []domain.FuelType, moisture float64) (domain.Result, error) {
	ft, err := typeFor(types, domain.DeadLeaves)
	if err != nil {
		return domain.Result{}, err
	}
	fc, err := domain.NewFuelClass(ft, 0.5, moisture)
	if err != nil {
		return domain.Result{}, err
	}
	return domain.Evaluate([]*domain.FuelClass{fc}, p, domain.Conditions{})
}

func drierSpreadsFaster(p *domain.FireParameters, types []domain.FuelType) error {
	dry, err := leafLitter(p, types, 0.05)
	if err != nil {
		return err
	}
	damp, err := leafLitter(p, types, 0.20)
	if err != nil {
		return err
	}
	if dry.RateOfSpread <= 0 {
		return fmt.Errorf("rate of spread at 5%% moisture is %g, want > 0", dry.RateOfSpread)
	}
	if dry.RateOfSpread <= damp.RateOfSpread {
		return fmt.Errorf("rate of spread at 5%% (%g) not above 20%% (%g)", dry.RateOfSpread, damp.RateOfSpread)
	}
	return nil
}

func wetFuelStalls(p *domain.FireParameters, types []domain.FuelType) error {
	res, err := leafLitter(p, types, 0.30)
	if err != nil {
		return err
	}
	if res.RateOfSpread != 0 || res.FirelineIntensity != 0 {
		return fmt.Errorf("fuel at 30%% moisture spreads at %g m/min with intensity %g kW/m", res.RateOfSpread, res.FirelineIntensity)
	}
	return nil
}

func drySpellThenRain(p *domain.FireParameters, _ []domain.FuelType) error {
	w, err := domain.NewNesterovFireWeather(p)
	if err != nil {
		return err
	}
	days := append(DrySpell(scenarioStart, 10, 28, 25, 0), RainDay(scenarioStart.AddDate(0, 0, 10), 20))
	prev := -1.0
	for i, d := range days {
		obs, err := d.Observation()
		if err != nil {
			return err
		}
		if err := w.Update(obs); err != nil {
			return fmt.Errorf("day %d: %w", i+1, err)
		}
		if i < 10 {
			if w.Index() <= prev {
				return fmt.Errorf("day %d: index %g did not increase from %g", i+1, w.Index(), prev)
			}
			prev = w.Index()
		}
	}
	if w.Index() != 0 {
		return fmt.Errorf("index after 20 mm of rain is %g, want 0", w.Index())
	}
	return nil
}

func shortGrassBurns(p *domain.FireParameters, types []domain.FuelType) error {
	m, err := Lookup(1)
	if err != nil {
		return err
	}
	patch, err := domain.NewPatch("GR1", p, types)
	if err != nil {
		return err
	}
	out, err := Run(patch, m, p, DrySpell(scenarioStart, 30, 30, 20, 150), 1)
	if err != nil {
		return err
	}
	last := out[len(out)-1]
	if last.RateOfSpread <= 0 || last.AreaBurnt <= 0 {
		return errors.New("no fire after 30 hot dry days in short grass")
	}
	return nil
}
