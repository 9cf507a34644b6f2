package domain

import (
	"fmt"
	"math"
)

// FuelCategory identifies one of the SPITFIRE fuel size classes.
type FuelCategory int

const (
	Twigs FuelCategory = iota
	SmallBranches
	LargeBranches
	Trunks
	DeadLeaves
	LiveGrass
)

// NumFuelCategories is the number of defined fuel categories.
const NumFuelCategories = 6

var categoryNames = [NumFuelCategories]string{
	"twigs", "small_branches", "large_branches", "trunks", "dead_leaves", "live_grass",
}

// FuelCategories returns every category in index order.
func FuelCategories() []FuelCategory {
	return []FuelCategory{Twigs, SmallBranches, LargeBranches, Trunks, DeadLeaves, LiveGrass}
}

func (c FuelCategory) String() string {
	if c < 0 || int(c) >= NumFuelCategories {
		return fmt.Sprintf("FuelCategory(%d)", int(c))
	}
	return categoryNames[c]
}

// ParseFuelCategory maps a snake_case category name to its value.
func ParseFuelCategory(s string) (FuelCategory, error) {
	for i, name := range categoryNames {
		if name == s {
			return FuelCategory(i), nil
		}
	}
	return 0, fmt.Errorf("unknown fuel category %q", s)
}

func (c FuelCategory) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *FuelCategory) UnmarshalText(b []byte) error {
	v, err := ParseFuelCategory(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Condition is the dead/live discriminant shared by every fuel type.
// The zero value defers to the category's natural condition.
type Condition int

const (
	Dead Condition = iota + 1
	Live
)

func (c Condition) String() string {
	switch c {
	case Dead:
		return "dead"
	case Live:
		return "live"
	default:
		return ""
	}
}

func (c Condition) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Condition) UnmarshalText(b []byte) error {
	switch string(b) {
	case "dead":
		*c = Dead
	case "live":
		*c = Live
	case "":
		*c = 0
	default:
		return fmt.Errorf("unknown fuel condition %q", string(b))
	}
	return nil
}

func naturalCondition(c FuelCategory) Condition {
	if c == LiveGrass {
		return Live
	}
	return Dead
}

// FuelTypeRecord is the named parameter record a FuelType is built from.
// Units: SAV in /cm, heat content in kJ/kg, densities in kg/m3, moisture in m3/m3.
type FuelTypeRecord struct {
	Name               string       `yaml:"name" json:"name"`
	Category           FuelCategory `yaml:"category" json:"category"`
	Condition          Condition    `yaml:"condition,omitempty" json:"condition,omitempty"`
	SAV                float64      `yaml:"sav" json:"sav"`
	LowHeatContent     float64      `yaml:"low_heat_content" json:"low_heat_content"`
	HighHeatContent    float64      `yaml:"high_heat_content" json:"high_heat_content"`
	TotalMineral       float64      `yaml:"total_mineral" json:"total_mineral"`
	EffectiveMineral   float64      `yaml:"effective_mineral" json:"effective_mineral"`
	ParticleDensity    float64      `yaml:"particle_density" json:"particle_density"`
	BulkDensity        float64      `yaml:"bulk_density" json:"bulk_density"`
	MoistureSaturation float64      `yaml:"moisture_saturation" json:"moisture_saturation"`
}

// Plausible ranges for fuel properties.
var (
	savRange         = leftOpen(0, 300)
	heatContentRange = leftOpen(0, 30000)
	mineralRange     = leftOpen(0, 0.5)
	densityRange     = leftOpen(0, 2000)
	saturationRange  = leftOpen(0, 3)
)

// FuelType is the immutable description of a fuel class. Build one with
// NewFuelType; the zero value is not usable.
type FuelType struct {
	rec FuelTypeRecord
}

// NewFuelType validates rec and returns the fuel type it describes.
func NewFuelType(rec FuelTypeRecord) (FuelType, error) {
	v := validator{subject: "fuel type " + rec.Name}
	v.check(rec.Name != "", "name", rec.Name, "must not be empty")
	v.check(rec.Category >= 0 && int(rec.Category) < NumFuelCategories, "category", int(rec.Category), "unknown category")
	v.check(rec.Condition == 0 || rec.Condition == Dead || rec.Condition == Live, "condition", int(rec.Condition), "must be dead or live")
	v.within("sav", rec.SAV, savRange)
	v.within("low_heat_content", rec.LowHeatContent, heatContentRange)
	v.within("high_heat_content", rec.HighHeatContent, heatContentRange)
	v.check(!(rec.HighHeatContent < rec.LowHeatContent), "high_heat_content", rec.HighHeatContent, "must not be below low_heat_content")
	v.within("total_mineral", rec.TotalMineral, mineralRange)
	v.within("effective_mineral", rec.EffectiveMineral, mineralRange)
	v.check(!(rec.EffectiveMineral > rec.TotalMineral), "effective_mineral", rec.EffectiveMineral, "must not exceed total_mineral")
	v.within("particle_density", rec.ParticleDensity, densityRange)
	v.within("bulk_density", rec.BulkDensity, densityRange)
	v.within("moisture_saturation", rec.MoistureSaturation, saturationRange)
	if err := v.err(); err != nil {
		return FuelType{}, err
	}

	if rec.Condition == 0 {
		rec.Condition = naturalCondition(rec.Category)
	}
	return FuelType{rec: rec}, nil
}

func (t FuelType) Name() string                { return t.rec.Name }
func (t FuelType) Category() FuelCategory      { return t.rec.Category }
func (t FuelType) Condition() Condition        { return t.rec.Condition }
func (t FuelType) SAV() float64                { return t.rec.SAV }
func (t FuelType) LowHeatContent() float64     { return t.rec.LowHeatContent }
func (t FuelType) HighHeatContent() float64    { return t.rec.HighHeatContent }
func (t FuelType) TotalMineral() float64       { return t.rec.TotalMineral }
func (t FuelType) EffectiveMineral() float64   { return t.rec.EffectiveMineral }
func (t FuelType) ParticleDensity() float64    { return t.rec.ParticleDensity }
func (t FuelType) BulkDensity() float64        { return t.rec.BulkDensity }
func (t FuelType) MoistureSaturation() float64 { return t.rec.MoistureSaturation }

// Record returns a copy of the parameters the type was built from.
func (t FuelType) Record() FuelTypeRecord { return t.rec }

// IsLive reports whether the type is live fuel.
func (t FuelType) IsLive() bool { return t.rec.Condition == Live }

// Spreading reports whether the type takes part in the spreading fuel bed.
// Trunks burn but do not carry the fire front.
func (t FuelType) Spreading() bool { return t.rec.Category != Trunks }

// DefaultFuelTypeRecords returns the SPITFIRE fuel parameters for the six
// categories (Thonicke et al. 2010, FATES parameter file).
func DefaultFuelTypeRecords() []FuelTypeRecord {
	base := FuelTypeRecord{
		LowHeatContent:     18000,
		HighHeatContent:    20000,
		TotalMineral:       0.055,
		EffectiveMineral:   0.01,
		ParticleDensity:    513,
		MoistureSaturation: 1,
	}
	defaults := []struct {
		cat  FuelCategory
		sav  float64
		bulk float64
	}{
		{Twigs, 13, 15.4},
		{SmallBranches, 3.58, 16.8},
		{LargeBranches, 0.98, 19.6},
		{Trunks, 0.2, 999},
		{DeadLeaves, 66, 4},
		{LiveGrass, 66, 4},
	}
	out := make([]FuelTypeRecord, 0, len(defaults))
	for _, s := range defaults {
		r := base
		r.Name = s.cat.String()
		r.Category = s.cat
		r.Condition = naturalCondition(s.cat)
		r.SAV = s.sav
		r.BulkDensity = s.bulk
		if s.cat == LiveGrass {
			r.MoistureSaturation = 2.5
		}
		out = append(out, r)
	}
	return out
}

// FuelClass is the mutable per-patch state of one fuel category: load
// (kg biomass/m2) and moisture fraction. State changes only through SetState.
type FuelClass struct {
	ft       FuelType
	load     float64
	moisture float64
}

// NewFuelClass returns a fuel class of type ft with the given initial state.
func NewFuelClass(ft FuelType, load, moisture float64) (*FuelClass, error) {
	if ft.rec.Name == "" {
		return nil, &ValidationError{
			Subject: "fuel class",
			Fields:  []FieldError{{Field: "fuel_type", Value: "", Reason: "fuel type was not constructed"}},
		}
	}
	c := &FuelClass{ft: ft}
	if err := c.SetState(load, moisture); err != nil {
		return nil, err
	}
	return c, nil
}

// SetState replaces load and moisture together. On error the class is unchanged.
func (c *FuelClass) SetState(load, moisture float64) error {
	v := validator{subject: "fuel class " + c.ft.rec.Name}
	v.check(finite(load) && load >= 0, "load", load, "must be a finite value >= 0")
	v.within("moisture", moisture, closed(0, c.ft.rec.MoistureSaturation))
	if err := v.err(); err != nil {
		return err
	}
	c.load, c.moisture = load, moisture
	return nil
}

func (c *FuelClass) Type() FuelType    { return c.ft }
func (c *FuelClass) Load() float64     { return c.load }
func (c *FuelClass) Moisture() float64 { return c.moisture }

// MoistureOfExtinctionFromSAV returns the moisture of extinction for fuel of
// the given SAV (/cm) following Peterson and Ryan (1986), eq. 27.
func MoistureOfExtinctionFromSAV(sav, intercept, slope float64) float64 {
	if sav <= 0 {
		return 0
	}
	return intercept - slope*math.Log(sav)
}
