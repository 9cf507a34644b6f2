package domain

import (
	"time"
)

// Litter holds host-model fuel pools for one day in kgC/m2.
type Litter struct {
	Leaves        float64 `json:"leaves" csv:"leaves"`
	Twigs         float64 `json:"twigs" csv:"twigs"`
	SmallBranches float64 `json:"small_branches" csv:"small_branches"`
	LargeBranches float64 `json:"large_branches" csv:"large_branches"`
	Trunks        float64 `json:"trunks" csv:"trunks"`
	LiveGrass     float64 `json:"live_grass" csv:"live_grass"`
}

// ByCategory returns the pools indexed by FuelCategory.
func (l Litter) ByCategory() [NumFuelCategories]float64 {
	var out [NumFuelCategories]float64
	out[Twigs] = l.Twigs
	out[SmallBranches] = l.SmallBranches
	out[LargeBranches] = l.LargeBranches
	out[Trunks] = l.Trunks
	out[DeadLeaves] = l.Leaves
	out[LiveGrass] = l.LiveGrass
	return out
}

// DailyInput is one day of forcing for a Patch.
type DailyInput struct {
	Observation
	WindSpeed     float64 // open wind, m/min
	TreeFraction  float64
	GrassFraction float64
	BareFraction  float64
	Ignitions     float64 // count/km2/day
	Litter        Litter
}

// DailyResult is the fire behavior of a patch on one day.
type DailyResult struct {
	Date                 time.Time       `json:"date"`
	Weather              WeatherSnapshot `json:"weather"`
	FireDangerIndex      float64         `json:"fire_danger_index"`
	EffectiveWindSpeed   float64         `json:"effective_wind_speed"` // m/min
	Behavior             Result          `json:"behavior"`
	BackwardRateOfSpread float64         `json:"backward_rate_of_spread"` // m/min
	Consumption          Consumption     `json:"consumption"`
	SurfaceIntensity     float64         `json:"surface_intensity"` // kW/m
	Duration             float64         `json:"duration"`          // min
	LengthToBreadth      float64         `json:"length_to_breadth"`
	FireSize             float64         `json:"fire_size"`  // m2
	AreaBurnt            float64         `json:"area_burnt"` // m2/km2/day
}

// Patch drives the daily fire model for one simulation unit. A Patch owns
// its fire weather and fuel bed and is not safe for concurrent use.
type Patch struct {
	id      string
	params  *FireParameters
	weather *NesterovFireWeather
	bed     *FuelBed
}

// NewPatch creates a patch with a reset fire-weather index and empty fuel.
func NewPatch(id string, p *FireParameters, types []FuelType) (*Patch, error) {
	if p == nil {
		return nil, ErrNilParameters
	}
	bed, err := NewFuelBed(types)
	if err != nil {
		return nil, err
	}
	weather, err := NewNesterovFireWeather(p)
	if err != nil {
		return nil, err
	}
	return &Patch{id: id, params: p, weather: weather, bed: bed}, nil
}

func (pt *Patch) ID() string { return pt.id }

// Weather returns the current fire-weather state.
func (pt *Patch) Weather() WeatherSnapshot { return pt.weather.Snapshot() }

// Step advances the patch by one day. Either the whole step is applied or,
// on error, the patch is left as it was.
func (pt *Patch) Step(in DailyInput) (DailyResult, error) {
	if err := validateDailyInput(in); err != nil {
		return DailyResult{}, err
	}
	c := pt.params.c

	weather := *pt.weather
	if err := weather.Update(in.Observation); err != nil {
		return DailyResult{}, err
	}

	bed := pt.bed.clone()
	twigSAV := bed.classes[Twigs].ft.SAV()
	pools := in.Litter.ByCategory()
	for i, fc := range bed.classes {
		sav := fc.ft.SAV()
		if fc.ft.Category() == LiveGrass {
			sav = twigSAV
		}
		moisture := weather.FuelMoisture(sav)
		if err := fc.SetState(pools[i]/c.Litter.CarbonFraction, moisture); err != nil {
			return DailyResult{}, err
		}
	}

	index := weather.Index()
	wind := EffectiveWindSpeed(in.WindSpeed, in.TreeFraction, in.GrassFraction, in.BareFraction, c.Wind)
	behavior, err := Evaluate(bed.Classes(), pt.params, Conditions{WindSpeed: wind, FireWeatherIndex: &index})
	if err != nil {
		return DailyResult{}, err
	}

	out := DailyResult{
		Date:               civilDay(in.Date),
		Weather:            weather.Snapshot(),
		FireDangerIndex:    weather.FireDangerIndex(),
		EffectiveWindSpeed: wind,
		Behavior:           behavior,
		Consumption:        bed.Consumption(pt.params),
	}
	out.BackwardRateOfSpread = BackwardRateOfSpread(behavior.RateOfSpread, in.WindSpeed, c.Spread.BackwardDecay)
	out.SurfaceIntensity = SurfaceIntensity(bed.HeatContent(), out.Consumption.TotalConsumed, behavior.RateOfSpread)
	out.Duration = FireDuration(out.FireDangerIndex, c.Spread.MaxDurationMinutes, c.Spread.DurationSlope)
	out.LengthToBreadth = LengthToBreadth(wind, in.TreeFraction, c.Spread.LBTreeThreshold)
	out.FireSize = FireSize(out.LengthToBreadth, behavior.RateOfSpread, out.BackwardRateOfSpread, out.Duration)
	out.AreaBurnt = AreaBurnt(out.FireSize, in.Ignitions, out.FireDangerIndex)

	*pt.weather = weather
	pt.bed = bed
	return out, nil
}

func validateDailyInput(in DailyInput) error {
	const op = "patch step"
	fields := []struct {
		name string
		v    float64
		max  float64
	}{
		{"wind_speed", in.WindSpeed, 1e4},
		{"tree_fraction", in.TreeFraction, 1},
		{"grass_fraction", in.GrassFraction, 1},
		{"bare_fraction", in.BareFraction, 1},
		{"ignitions", in.Ignitions, 1e6},
	}
	for _, f := range fields {
		if !finite(f.v) || f.v < 0 || f.v > f.max {
			return &DomainError{Op: op, Field: f.name, Value: f.v, Reason: "out of physical range"}
		}
	}
	if s := in.TreeFraction + in.GrassFraction + in.BareFraction; s > 1+1e-6 {
		return &DomainError{Op: op, Field: "cover_fractions", Value: s, Reason: "tree, grass and bare fractions must not exceed 1"}
	}
	for i, v := range in.Litter.ByCategory() {
		if !finite(v) || v < 0 {
			return &DomainError{Op: op, Field: "litter." + FuelCategory(i).String(), Value: v, Reason: "must be finite and >= 0"}
		}
	}
	return nil
}
