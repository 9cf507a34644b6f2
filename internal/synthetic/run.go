package synthetic

import (
	"fmt"
	"time"

	"github.com/couchcryptid/spitfire-etl/internal/domain"
)

// Cover returns tree, grass and bare fractions typical of the model's
// fuel carrier.
func (m FuelModel) Cover() (tree, grass, bare float64) {
	switch m.Carrier {
	case "GR", "GS":
		return 0.1, 0.8, 0.1
	case "TU", "TL":
		return 0.6, 0.3, 0.1
	default:
		return 0.3, 0.5, 0.2
	}
}

// Forcing builds one day of patch input from a weather row and fuel model.
func Forcing(d Day, m FuelModel, p *domain.FireParameters, ignitions float64) (domain.DailyInput, error) {
	obs, err := d.Observation()
	if err != nil {
		return domain.DailyInput{}, err
	}
	tree, grass, bare := m.Cover()
	return domain.DailyInput{
		Observation:   obs,
		WindSpeed:     d.Wind,
		TreeFraction:  tree,
		GrassFraction: grass,
		BareFraction:  bare,
		Ignitions:     ignitions,
		Litter:        m.Litter(p),
	}, nil
}

// Outcome is one day of fire behavior in flat form for CSV output.
type Outcome struct {
	Date                 string  `csv:"date"`
	NesterovIndex        float64 `csv:"nesterov_index"`
	Danger               string  `csv:"danger"`
	FireDangerIndex      float64 `csv:"fdi"`
	EffectiveWind        float64 `csv:"effective_wind"`
	RateOfSpread         float64 `csv:"ros_front"`
	BackwardRateOfSpread float64 `csv:"ros_back"`
	ReactionIntensity    float64 `csv:"reaction_intensity"`
	FirelineIntensity    float64 `csv:"fireline_intensity"`
	SurfaceIntensity     float64 `csv:"surface_intensity"`
	FuelConsumed         float64 `csv:"fuel_consumed"`
	AreaBurnt            float64 `csv:"area_burnt"`
}

func newOutcome(r domain.DailyResult) Outcome {
	return Outcome{
		Date:                 r.Date.Format(time.DateOnly),
		NesterovIndex:        r.Weather.Index,
		Danger:               r.Weather.Danger.String(),
		FireDangerIndex:      r.FireDangerIndex,
		EffectiveWind:        r.EffectiveWindSpeed,
		RateOfSpread:         r.Behavior.RateOfSpread,
		BackwardRateOfSpread: r.BackwardRateOfSpread,
		ReactionIntensity:    r.Behavior.ReactionIntensity,
		FirelineIntensity:    r.Behavior.FirelineIntensity,
		SurfaceIntensity:     r.SurfaceIntensity,
		FuelConsumed:         r.Consumption.TotalConsumed,
		AreaBurnt:            r.AreaBurnt,
	}
}

// Run steps patch through days with the litter of fuel model m held
// constant. It stops at the first failing day.
func Run(patch *domain.Patch, m FuelModel, p *domain.FireParameters, days []Day, ignitions float64) ([]Outcome, error) {
	out := make([]Outcome, 0, len(days))
	for i, d := range days {
		in, err := Forcing(d, m, p, ignitions)
		if err != nil {
			return out, fmt.Errorf("day %d: %w", i+1, err)
		}
		res, err := patch.Step(in)
		if err != nil {
			return out, fmt.Errorf("day %d (%s): %w", i+1, d.Date, err)
		}
		out = append(out, newOutcome(res))
	}
	return out, nil
}
