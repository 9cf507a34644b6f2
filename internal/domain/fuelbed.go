package domain

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// FuelBed holds one fuel class per category for a single patch.
type FuelBed struct {
	classes [NumFuelCategories]*FuelClass
}

// NewFuelBed builds an empty bed from one fuel type per category. Every
// category must be supplied exactly once.
func NewFuelBed(types []FuelType) (*FuelBed, error) {
	v := validator{subject: "fuel bed"}
	var bed FuelBed
	for _, ft := range types {
		cat := ft.Category()
		if ft.Name() == "" || cat < 0 || int(cat) >= NumFuelCategories {
			v.check(false, "fuel_types", ft.Name(), "fuel type was not constructed")
			continue
		}
		if bed.classes[cat] != nil {
			v.check(false, "fuel_types."+cat.String(), ft.Name(), "duplicate category")
			continue
		}
		bed.classes[cat] = &FuelClass{ft: ft}
	}
	for _, cat := range FuelCategories() {
		v.check(bed.classes[cat] != nil, "fuel_types."+cat.String(), nil, "missing category")
	}
	if err := v.err(); err != nil {
		return nil, err
	}
	return &bed, nil
}

// Class returns the fuel class for cat.
func (b *FuelBed) Class(cat FuelCategory) *FuelClass { return b.classes[cat] }

// Classes returns all classes in category order.
func (b *FuelBed) Classes() []*FuelClass {
	out := make([]*FuelClass, NumFuelCategories)
	copy(out, b.classes[:])
	return out
}

func (b *FuelBed) clone() *FuelBed {
	var out FuelBed
	for i, c := range b.classes {
		cp := *c
		out.classes[i] = &cp
	}
	return &out
}

// Loads returns the current load of every category.
func (b *FuelBed) Loads() []float64 {
	out := make([]float64, NumFuelCategories)
	for i, c := range b.classes {
		out[i] = c.load
	}
	return out
}

// SpreadingLoad is the total load excluding trunks.
func (b *FuelBed) SpreadingLoad() float64 {
	return floats.Sum(b.Loads()) - b.classes[Trunks].load
}

// FractionalLoading is each category's share of the spreading load. Trunks
// always report zero.
func (b *FuelBed) FractionalLoading() []float64 {
	out := b.Loads()
	out[Trunks] = 0
	total := floats.Sum(out)
	if total <= 0 {
		return make([]float64, NumFuelCategories)
	}
	floats.Scale(1/total, out)
	return out
}

// HeatContent is the load-weighted low heat content of the spreading bed.
func (b *FuelBed) HeatContent() float64 {
	frac := b.FractionalLoading()
	heat := make([]float64, NumFuelCategories)
	for i, c := range b.classes {
		heat[i] = c.ft.LowHeatContent()
	}
	return floats.Dot(frac, heat)
}

// FractionBurnt is the share of a class consumed given its moisture relative
// to its moisture of extinction, in four regimes. Live grass is capped and
// mineral content never burns.
func FractionBurnt(relativeMoisture float64, cat FuelCategory, totalMineral float64, c CombustionCoefficients) float64 {
	var f float64
	switch {
	case relativeMoisture <= c.MinMoisture:
		f = 1
	case relativeMoisture <= c.MidMoisture:
		f = clamp01(c.LowCoefficient - c.LowSlope*relativeMoisture)
	case relativeMoisture <= 1:
		f = clamp01(c.MidCoefficient - c.MidSlope*relativeMoisture)
	}
	if cat == LiveGrass {
		f = math.Min(c.MaxGrassFraction, f)
	}
	return f * (1 - totalMineral)
}

// Consumption summarizes fuel consumed by a surface fire.
type Consumption struct {
	FractionBurnt [NumFuelCategories]float64 `json:"fraction_burnt"`
	Consumed      [NumFuelCategories]float64 `json:"consumed"`       // kg/m2
	TotalConsumed float64                    `json:"total_consumed"` // kg/m2, excluding trunks
	ResidenceTime float64                    `json:"residence_time"` // min, SPITFIRE tau_l
}

// Consumption computes fraction burnt, consumed load, and the flaming
// residence time used for cambial damage.
func (b *FuelBed) Consumption(p *FireParameters) Consumption {
	var out Consumption
	frac := b.FractionalLoading()
	spreading := b.SpreadingLoad()
	tau := 0.0
	for i, c := range b.classes {
		mef := p.MoistureOfExtinction(c.ft)
		rel := math.Inf(1)
		if mef > 0 {
			rel = c.moisture / mef
		}
		fb := FractionBurnt(rel, c.ft.Category(), c.ft.TotalMineral(), p.c.Combustion)
		out.FractionBurnt[i] = fb
		out.Consumed[i] = fb * c.load
		if c.ft.Spreading() {
			out.TotalConsumed += out.Consumed[i]
			tau += 39.4 / 10 * frac[i] * spreading * (1 - math.Sqrt(1-fb))
		}
	}
	out.ResidenceTime = math.Min(p.c.Residence.MaxMinutes, tau)
	return out
}
