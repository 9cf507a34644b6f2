package domain

import (
	"fmt"
	"math"
)

// Coefficients is the plain, unvalidated coefficient table. Field names in
// validation errors follow the YAML paths.
type Coefficients struct {
	MoistureOfExtinction ExtinctionCoefficients  `yaml:"moisture_of_extinction" json:"moisture_of_extinction"`
	Wind                 WindCoefficients        `yaml:"wind" json:"wind"`
	Preignition          PreignitionCoefficients `yaml:"preignition" json:"preignition"`
	Residence            ResidenceCoefficients   `yaml:"residence" json:"residence"`
	Nesterov             NesterovCoefficients    `yaml:"nesterov" json:"nesterov"`
	Combustion           CombustionCoefficients  `yaml:"combustion" json:"combustion"`
	Spread               SpreadCoefficients      `yaml:"spread" json:"spread"`
	Litter               LitterCoefficients      `yaml:"litter" json:"litter"`
}

// ExtinctionCoefficients set the moisture above which fuel cannot burn.
type ExtinctionCoefficients struct {
	Dead          float64 `yaml:"dead" json:"dead"`
	Live          float64 `yaml:"live" json:"live"`
	DeriveFromSAV bool    `yaml:"derive_from_sav" json:"derive_from_sav"`
	SAVIntercept  float64 `yaml:"sav_intercept" json:"sav_intercept"`
	SAVSlope      float64 `yaml:"sav_slope" json:"sav_slope"`
}

// WindCoefficients parameterize Rothermel's wind factor
// phi = C * (3.281 U)^B * (beta/beta_op)^-E, with
// B = b_coef * sav^b_exp, C = c_coef * exp(-c_decay * sav^c_exp),
// E = e_coef * exp(-e_decay * sav).
type WindCoefficients struct {
	BCoefficient      float64 `yaml:"b_coefficient" json:"b_coefficient"`
	BExponent         float64 `yaml:"b_exponent" json:"b_exponent"`
	CCoefficient      float64 `yaml:"c_coefficient" json:"c_coefficient"`
	CDecay            float64 `yaml:"c_decay" json:"c_decay"`
	CExponent         float64 `yaml:"c_exponent" json:"c_exponent"`
	ECoefficient      float64 `yaml:"e_coefficient" json:"e_coefficient"`
	EDecay            float64 `yaml:"e_decay" json:"e_decay"`
	AttenuationTreed  float64 `yaml:"attenuation_treed" json:"attenuation_treed"`
	AttenuationGrassy float64 `yaml:"attenuation_grass" json:"attenuation_grass"`
}

// PreignitionCoefficients give Q_ig = dry_heat + moisture_heat * m (kJ/kg).
type PreignitionCoefficients struct {
	DryHeat      float64 `yaml:"dry_heat" json:"dry_heat"`
	MoistureHeat float64 `yaml:"moisture_heat" json:"moisture_heat"`
}

// ResidenceCoefficients set the flaming residence time t_r = coefficient / sav
// (minutes, Anderson 1969) and the cap on SPITFIRE's fuel-consumption
// residence time.
type ResidenceCoefficients struct {
	Coefficient float64 `yaml:"coefficient" json:"coefficient"`
	MaxMinutes  float64 `yaml:"max_minutes" json:"max_minutes"`
}

// NesterovCoefficients drive the fire-weather accumulator.
type NesterovCoefficients struct {
	PrecipitationThreshold float64    `yaml:"precipitation_threshold_mm" json:"precipitation_threshold_mm"`
	DangerBreakpoints      [4]float64 `yaml:"danger_breakpoints" json:"danger_breakpoints"`
	FDIAlpha               float64    `yaml:"fdi_alpha" json:"fdi_alpha"`
	DryingRatio            float64    `yaml:"drying_ratio" json:"drying_ratio"`
}

// CombustionCoefficients give the fraction of each class burnt as a function
// of moisture relative to its moisture of extinction.
type CombustionCoefficients struct {
	MinMoisture      float64 `yaml:"min_moisture" json:"min_moisture"`
	MidMoisture      float64 `yaml:"mid_moisture" json:"mid_moisture"`
	LowCoefficient   float64 `yaml:"low_coefficient" json:"low_coefficient"`
	LowSlope         float64 `yaml:"low_slope" json:"low_slope"`
	MidCoefficient   float64 `yaml:"mid_coefficient" json:"mid_coefficient"`
	MidSlope         float64 `yaml:"mid_slope" json:"mid_slope"`
	MaxGrassFraction float64 `yaml:"max_grass_fraction" json:"max_grass_fraction"`
}

// SpreadCoefficients shape the elliptical fire and its duration.
type SpreadCoefficients struct {
	BackwardDecay      float64 `yaml:"backward_decay" json:"backward_decay"`
	MaxDurationMinutes float64 `yaml:"max_duration_minutes" json:"max_duration_minutes"`
	DurationSlope      float64 `yaml:"duration_slope" json:"duration_slope"`
	LBTreeThreshold    float64 `yaml:"lb_tree_threshold" json:"lb_tree_threshold"`
}

// LitterCoefficients convert host-model carbon pools into fuel loads.
type LitterCoefficients struct {
	CarbonFraction float64    `yaml:"carbon_fraction" json:"carbon_fraction"`
	CWDFractions   [4]float64 `yaml:"cwd_fractions" json:"cwd_fractions"`
}

// DefaultCoefficients returns the published Rothermel (1972) and SPITFIRE
// (Thonicke et al. 2010) values.
func DefaultCoefficients() Coefficients {
	return Coefficients{
		MoistureOfExtinction: ExtinctionCoefficients{
			Dead:         0.25,
			Live:         0.35,
			SAVIntercept: 0.524,
			SAVSlope:     0.066,
		},
		Wind: WindCoefficients{
			BCoefficient:      0.15988,
			BExponent:         0.54,
			CCoefficient:      7.47,
			CDecay:            0.8711,
			CExponent:         0.55,
			ECoefficient:      0.715,
			EDecay:            0.01094,
			AttenuationTreed:  0.4,
			AttenuationGrassy: 0.6,
		},
		Preignition: PreignitionCoefficients{DryHeat: 581, MoistureHeat: 2594},
		Residence:   ResidenceCoefficients{Coefficient: 12.598, MaxMinutes: 8},
		Nesterov: NesterovCoefficients{
			PrecipitationThreshold: 3.0,
			DangerBreakpoints:      [4]float64{300, 1000, 4000, 10000},
			FDIAlpha:               0.00037,
			DryingRatio:            66000,
		},
		Combustion: CombustionCoefficients{
			MinMoisture:      0.18,
			MidMoisture:      0.73,
			LowCoefficient:   1.12,
			LowSlope:         0.62,
			MidCoefficient:   2.35,
			MidSlope:         2.45,
			MaxGrassFraction: 0.8,
		},
		Spread: SpreadCoefficients{
			BackwardDecay:      0.012,
			MaxDurationMinutes: 240,
			DurationSlope:      -11.06,
			LBTreeThreshold:    0.55,
		},
		Litter: LitterCoefficients{
			CarbonFraction: 0.45,
			CWDFractions:   [4]float64{0.045, 0.075, 0.21, 0.67},
		},
	}
}

// FireParameters is a validated, immutable coefficient set. It is safe to
// share across goroutines.
type FireParameters struct {
	c Coefficients
}

// NewFireParameters checks every coefficient against its documented range and
// reports all failures in a single *ValidationError.
func NewFireParameters(c Coefficients) (*FireParameters, error) {
	v := validator{subject: "fire parameters"}

	mef := c.MoistureOfExtinction
	v.within("moisture_of_extinction.dead", mef.Dead, leftOpen(0, 1))
	v.within("moisture_of_extinction.live", mef.Live, leftOpen(0, 3))
	v.within("moisture_of_extinction.sav_intercept", mef.SAVIntercept, leftOpen(0, 1))
	v.within("moisture_of_extinction.sav_slope", mef.SAVSlope, closed(0, 0.5))
	if mef.DeriveFromSAV {
		// The derived value falls as SAV grows, so the finest fuel a type may
		// declare bounds it from below.
		lowest := MoistureOfExtinctionFromSAV(savRange.hi, mef.SAVIntercept, mef.SAVSlope)
		v.check(lowest > 0, "moisture_of_extinction.sav_slope", mef.SAVSlope,
			fmt.Sprintf("derived moisture of extinction at SAV %g is %.4g, must be > 0", savRange.hi, lowest))
	}

	w := c.Wind
	v.within("wind.b_coefficient", w.BCoefficient, leftOpen(0, 10))
	v.within("wind.b_exponent", w.BExponent, leftOpen(0, 2))
	v.within("wind.c_coefficient", w.CCoefficient, leftOpen(0, 100))
	v.within("wind.c_decay", w.CDecay, leftOpen(0, 10))
	v.within("wind.c_exponent", w.CExponent, leftOpen(0, 2))
	v.within("wind.e_coefficient", w.ECoefficient, leftOpen(0, 10))
	v.within("wind.e_decay", w.EDecay, closed(0, 1))
	v.within("wind.attenuation_treed", w.AttenuationTreed, closed(0, 1))
	v.within("wind.attenuation_grass", w.AttenuationGrassy, closed(0, 1))

	v.within("preignition.dry_heat", c.Preignition.DryHeat, leftOpen(0, 5000))
	v.within("preignition.moisture_heat", c.Preignition.MoistureHeat, closed(0, 10000))

	v.within("residence.coefficient", c.Residence.Coefficient, leftOpen(0, 100))
	v.within("residence.max_minutes", c.Residence.MaxMinutes, leftOpen(0, 60))

	n := c.Nesterov
	v.within("nesterov.precipitation_threshold_mm", n.PrecipitationThreshold, leftOpen(0, 100))
	v.check(increasingPositive(n.DangerBreakpoints[:]), "nesterov.danger_breakpoints", n.DangerBreakpoints, "must be positive and strictly increasing")
	v.within("nesterov.fdi_alpha", n.FDIAlpha, leftOpen(0, 1))
	v.within("nesterov.drying_ratio", n.DryingRatio, leftOpen(0, 1e7))

	cb := c.Combustion
	v.within("combustion.min_moisture", cb.MinMoisture, leftOpen(0, 1))
	v.within("combustion.mid_moisture", cb.MidMoisture, leftOpen(0, 1))
	v.check(cb.MinMoisture < cb.MidMoisture, "combustion.mid_moisture", cb.MidMoisture, "must exceed combustion.min_moisture")
	v.within("combustion.low_coefficient", cb.LowCoefficient, closed(0, 5))
	v.within("combustion.low_slope", cb.LowSlope, closed(0, 5))
	v.within("combustion.mid_coefficient", cb.MidCoefficient, closed(0, 5))
	v.within("combustion.mid_slope", cb.MidSlope, closed(0, 5))
	v.within("combustion.max_grass_fraction", cb.MaxGrassFraction, closed(0, 1))

	s := c.Spread
	v.within("spread.backward_decay", s.BackwardDecay, closed(0, 1))
	v.within("spread.max_duration_minutes", s.MaxDurationMinutes, leftOpen(0, 1440))
	v.within("spread.duration_slope", s.DurationSlope, closed(-100, 0))
	v.within("spread.lb_tree_threshold", s.LBTreeThreshold, closed(0, 1))

	l := c.Litter
	v.within("litter.carbon_fraction", l.CarbonFraction, leftOpen(0, 1))
	sum := 0.0
	for i, f := range l.CWDFractions {
		v.within(fmt.Sprintf("litter.cwd_fractions[%d]", i), f, closed(0, 1))
		sum += f
	}
	v.check(math.Abs(sum-1) <= 1e-6, "litter.cwd_fractions", l.CWDFractions, "must sum to 1")

	if err := v.err(); err != nil {
		return nil, err
	}
	return &FireParameters{c: c}, nil
}

// DefaultFireParameters returns the validated published coefficient set.
func DefaultFireParameters() *FireParameters {
	p, err := NewFireParameters(DefaultCoefficients())
	if err != nil {
		panic(err)
	}
	return p
}

// Coefficients returns a copy of the validated coefficients.
func (p *FireParameters) Coefficients() Coefficients { return p.c }

// MoistureOfExtinction returns the moisture of extinction applied to ft.
func (p *FireParameters) MoistureOfExtinction(ft FuelType) float64 {
	mef := p.c.MoistureOfExtinction
	if mef.DeriveFromSAV {
		return MoistureOfExtinctionFromSAV(ft.SAV(), mef.SAVIntercept, mef.SAVSlope)
	}
	if ft.IsLive() {
		return mef.Live
	}
	return mef.Dead
}

func increasingPositive(xs []float64) bool {
	prev := 0.0
	for _, x := range xs {
		if !finite(x) || x <= prev {
			return false
		}
		prev = x
	}
	return true
}
