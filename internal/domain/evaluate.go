package domain

import (
	"errors"

	"gonum.org/v1/gonum/floats"
)

// Conditions are the per-call atmospheric inputs to Evaluate.
type Conditions struct {
	WindSpeed        float64  // effective mid-flame wind, m/min
	FireWeatherIndex *float64 // optional Nesterov index
}

// Result is the output of one fire-behavior evaluation. Rate of spread and
// intensities are zero, not errors, when moisture damping stops combustion.
type Result struct {
	CharacteristicSAV    float64 `json:"characteristic_sav"`     // /cm
	BulkDensity          float64 `json:"bulk_density"`           // kg/m3
	PackingRatio         float64 `json:"packing_ratio"`          // beta
	RelativePackingRatio float64 `json:"relative_packing_ratio"` // beta/beta_op
	DeadMoistureDamping  float64 `json:"dead_moisture_damping"`
	LiveMoistureDamping  float64 `json:"live_moisture_damping"`
	MineralDamping       float64 `json:"mineral_damping"`
	ReactionIntensity    float64 `json:"reaction_intensity"` // kJ/m2/min
	PropagatingFlux      float64 `json:"propagating_flux"`
	WindFactor           float64 `json:"wind_factor"`
	HeatOfPreignition    float64 `json:"heat_of_preignition"` // kJ/kg
	RateOfSpread         float64 `json:"rate_of_spread"`      // m/min
	ResidenceTime        float64 `json:"residence_time"`      // min
	FirelineIntensity    float64 `json:"fireline_intensity"`  // kW/m
	FireDangerIndex      float64 `json:"fire_danger_index,omitempty"`
}

// ErrNilParameters is returned when a model component is built or run
// without parameters.
var ErrNilParameters = errors.New("fire parameters are required")

// Evaluate computes Rothermel surface fire behavior for the supplied fuel
// classes. Trunks are excluded from the spreading bed. Inputs are read,
// never modified.
func Evaluate(classes []*FuelClass, p *FireParameters, cond Conditions) (Result, error) {
	const op = "evaluate"
	if p == nil {
		return Result{}, ErrNilParameters
	}
	if len(classes) == 0 {
		return Result{}, &DomainError{Op: op, Field: "fuel_classes", Value: 0, Reason: "at least one fuel class is required"}
	}
	if !finite(cond.WindSpeed) || cond.WindSpeed < 0 {
		return Result{}, &DomainError{Op: op, Field: "wind_speed", Value: cond.WindSpeed, Reason: "must be finite and >= 0"}
	}
	if cond.FireWeatherIndex != nil && (!finite(*cond.FireWeatherIndex) || *cond.FireWeatherIndex < 0) {
		return Result{}, &DomainError{Op: op, Field: "fire_weather_index", Value: *cond.FireWeatherIndex, Reason: "must be finite and >= 0"}
	}

	bed := make([]*FuelClass, 0, len(classes))
	for _, c := range classes {
		if c == nil {
			return Result{}, &DomainError{Op: op, Field: "fuel_class", Value: 0, Reason: "nil fuel class"}
		}
		name := c.ft.rec.Name
		if sav := c.ft.SAV(); !finite(sav) || sav <= 0 {
			return Result{}, &DomainError{Op: op, Field: name + ".sav", Value: sav, Reason: "must be > 0"}
		}
		if !finite(c.moisture) || c.moisture < 0 {
			return Result{}, &DomainError{Op: op, Field: name + ".moisture", Value: c.moisture, Reason: "must be >= 0"}
		}
		if !finite(c.load) || c.load < 0 {
			return Result{}, &DomainError{Op: op, Field: name + ".load", Value: c.load, Reason: "must be >= 0"}
		}
		if c.ft.Spreading() {
			bed = append(bed, c)
		}
	}

	var res Result
	if cond.FireWeatherIndex != nil {
		res.FireDangerIndex = FireDangerIndex(*cond.FireWeatherIndex, p.c.Nesterov.FDIAlpha)
	}
	res.DeadMoistureDamping, res.LiveMoistureDamping = 1, 1

	n := len(bed)
	loads := make([]float64, n)
	for i, c := range bed {
		loads[i] = c.load
	}
	total := floats.Sum(loads)
	if n == 0 || total <= 0 {
		return res, nil
	}

	attr := func(f func(*FuelClass) float64) []float64 {
		out := make([]float64, n)
		for i, c := range bed {
			out[i] = f(c)
		}
		return out
	}
	weighted := func(f func(*FuelClass) float64) float64 {
		return floats.Dot(loads, attr(f)) / total
	}

	sav := weighted(func(c *FuelClass) float64 { return c.ft.SAV() })
	bulk := weighted(func(c *FuelClass) float64 { return c.ft.BulkDensity() })
	particle := weighted(func(c *FuelClass) float64 { return c.ft.ParticleDensity() })
	heat := weighted(func(c *FuelClass) float64 { return c.ft.LowHeatContent() })
	totalMineral := weighted(func(c *FuelClass) float64 { return c.ft.TotalMineral() })
	effMineral := weighted(func(c *FuelClass) float64 { return c.ft.EffectiveMineral() })
	moisture := weighted(func(c *FuelClass) float64 { return c.moisture })

	beta := bulk / particle
	betaOp := OptimumPackingRatio(sav)
	betaRatio := beta / betaOp
	velocity := OptimumReactionVelocity(MaxReactionVelocity(sav), sav, betaRatio)

	// Rothermel's net loading and damping are summed over dead and live fuel.
	netDamped := 0.0
	for _, cnd := range []Condition{Dead, Live} {
		load, eta, ok, err := conditionDamping(bed, p, cnd)
		if err != nil {
			return Result{}, err
		}
		if !ok {
			continue
		}
		if cnd == Dead {
			res.DeadMoistureDamping = eta
		} else {
			res.LiveMoistureDamping = eta
		}
		netDamped += load * (1 - totalMineral) * eta
	}

	res.CharacteristicSAV = sav
	res.BulkDensity = bulk
	res.PackingRatio = beta
	res.RelativePackingRatio = betaRatio
	res.MineralDamping = MineralDamping(effMineral)
	res.ReactionIntensity = velocity * heat * res.MineralDamping * netDamped
	res.PropagatingFlux = PropagatingFlux(beta, sav)
	res.WindFactor = WindFactor(cond.WindSpeed, sav, betaRatio, p.c.Wind)
	res.HeatOfPreignition = HeatOfPreignition(moisture, p.c.Preignition)
	res.ResidenceTime = p.c.Residence.Coefficient / sav

	if res.ReactionIntensity <= 0 {
		res.ReactionIntensity = 0
		return res, nil
	}
	res.RateOfSpread = ForwardRateOfSpread(res.ReactionIntensity, res.PropagatingFlux, res.WindFactor,
		bulk, EffectiveHeatingNumber(sav), res.HeatOfPreignition)
	res.FirelineIntensity = res.ReactionIntensity * res.RateOfSpread * res.ResidenceTime / 60
	return res, nil
}

// conditionDamping returns the total load and moisture damping of the
// classes of one condition. Moisture and extinction are load-weighted, or
// plain means when the condition carries no load.
func conditionDamping(bed []*FuelClass, p *FireParameters, cnd Condition) (load, eta float64, ok bool, err error) {
	var loads, moist, mef []float64
	for _, c := range bed {
		if c.ft.Condition() != cnd {
			continue
		}
		e := p.MoistureOfExtinction(c.ft)
		if !finite(e) || e <= 0 {
			return 0, 0, false, &DomainError{Op: "evaluate", Field: c.ft.rec.Name + ".moisture_of_extinction", Value: e, Reason: "must be > 0"}
		}
		loads = append(loads, c.load)
		moist = append(moist, c.moisture)
		mef = append(mef, e)
	}
	if len(loads) == 0 {
		return 0, 0, false, nil
	}
	load = floats.Sum(loads)
	var m, e float64
	if load > 0 {
		m = floats.Dot(loads, moist) / load
		e = floats.Dot(loads, mef) / load
	} else {
		m = floats.Sum(moist) / float64(len(moist))
		e = floats.Sum(mef) / float64(len(mef))
	}
	return load, MoistureDamping(m, e), true, nil
}
