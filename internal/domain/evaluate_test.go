package domain

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustType(t *testing.T, cat FuelCategory) FuelType {
	t.Helper()
	ft, err := NewFuelType(DefaultFuelTypeRecords()[cat])
	require.NoError(t, err)
	return ft
}

func mustClass(t *testing.T, cat FuelCategory, load, moisture float64) *FuelClass {
	t.Helper()
	fc, err := NewFuelClass(mustType(t, cat), load, moisture)
	require.NoError(t, err)
	return fc
}

func evaluateAt(t *testing.T, load, moisture, wind float64) Result {
	t.Helper()
	res, err := Evaluate([]*FuelClass{mustClass(t, DeadLeaves, load, moisture)}, DefaultFireParameters(), Conditions{WindSpeed: wind})
	require.NoError(t, err)
	return res
}

func TestEvaluate_DrierFuelSpreadsFaster(t *testing.T) {
	dry := evaluateAt(t, 0.5, 0.05, 0)
	damp := evaluateAt(t, 0.5, 0.20, 0)

	assert.Greater(t, dry.RateOfSpread, 0.0)
	assert.Greater(t, damp.RateOfSpread, 0.0)
	assert.Greater(t, dry.RateOfSpread, damp.RateOfSpread)
	assert.Greater(t, dry.FirelineIntensity, damp.FirelineIntensity)
	assert.Greater(t, dry.DeadMoistureDamping, damp.DeadMoistureDamping)
}

func TestEvaluate_AboveExtinctionDoesNotSpread(t *testing.T) {
	res := evaluateAt(t, 0.5, 0.30, 0)

	assert.Zero(t, res.DeadMoistureDamping)
	assert.Zero(t, res.ReactionIntensity)
	assert.Zero(t, res.RateOfSpread)
	assert.Zero(t, res.FirelineIntensity)
	// geometry is still reported
	assert.Equal(t, 66.0, res.CharacteristicSAV)
}

func TestEvaluate_ReferenceValues(t *testing.T) {
	res := evaluateAt(t, 0.5, 0.05, 0)

	beta := 4.0 / 513
	betaRatio := beta / OptimumPackingRatio(66)
	velocity := OptimumReactionVelocity(MaxReactionVelocity(66), 66, betaRatio)
	eta := MoistureDamping(0.05, 0.25)
	ir := velocity * 18000 * MineralDamping(0.01) * 0.5 * (1 - 0.055) * eta
	ros := ir * PropagatingFlux(beta, 66) / (4 * EffectiveHeatingNumber(66) * (581 + 2594*0.05))

	assert.InDelta(t, beta, res.PackingRatio, 1e-12)
	assert.InDelta(t, betaRatio, res.RelativePackingRatio, 1e-12)
	assert.InDelta(t, ir, res.ReactionIntensity, 1e-6)
	assert.InDelta(t, ros, res.RateOfSpread, 1e-9)
	assert.InDelta(t, 12.598/66, res.ResidenceTime, 1e-12)
	assert.InDelta(t, ir*ros*(12.598/66)/60, res.FirelineIntensity, 1e-6)
	assert.Equal(t, 1.0, res.LiveMoistureDamping)

	// plausibility for a light litter bed in calm air
	assert.InDelta(t, 0.5, res.RateOfSpread, 0.3)
}

func TestEvaluate_WindIncreasesSpread(t *testing.T) {
	calm := evaluateAt(t, 0.5, 0.05, 0)
	breezy := evaluateAt(t, 0.5, 0.05, 60)
	windy := evaluateAt(t, 0.5, 0.05, 300)

	assert.Zero(t, calm.WindFactor)
	assert.Greater(t, breezy.RateOfSpread, calm.RateOfSpread)
	assert.Greater(t, windy.RateOfSpread, breezy.RateOfSpread)
}

func TestEvaluate_DeadAndLive(t *testing.T) {
	classes := []*FuelClass{
		mustClass(t, DeadLeaves, 0.3, 0.08),
		mustClass(t, Twigs, 0.2, 0.1),
		mustClass(t, LiveGrass, 0.4, 0.5),
	}
	res, err := Evaluate(classes, DefaultFireParameters(), Conditions{WindSpeed: 30})
	require.NoError(t, err)

	// live grass is wetter than its extinction threshold
	assert.Zero(t, res.LiveMoistureDamping)
	assert.InDelta(t, MoistureDamping((0.3*0.08+0.2*0.1)/0.5, 0.25), res.DeadMoistureDamping, 1e-12)
	assert.InDelta(t, (0.3*66+0.2*13+0.4*66)/0.9, res.CharacteristicSAV, 1e-9)
	assert.Greater(t, res.RateOfSpread, 0.0)
}

func TestEvaluate_TrunksDoNotSpread(t *testing.T) {
	withTrunks := []*FuelClass{
		mustClass(t, DeadLeaves, 0.5, 0.05),
		mustClass(t, Trunks, 20, 0.05),
	}
	res, err := Evaluate(withTrunks, DefaultFireParameters(), Conditions{})
	require.NoError(t, err)
	assert.Equal(t, evaluateAt(t, 0.5, 0.05, 0), res)

	onlyTrunks := []*FuelClass{mustClass(t, Trunks, 20, 0.05)}
	res, err = Evaluate(onlyTrunks, DefaultFireParameters(), Conditions{})
	require.NoError(t, err)
	assert.Zero(t, res.RateOfSpread)
}

func TestEvaluate_NoLoad(t *testing.T) {
	res := evaluateAt(t, 0, 0.05, 100)
	assert.Zero(t, res.ReactionIntensity)
	assert.Zero(t, res.RateOfSpread)
	assert.Zero(t, res.FirelineIntensity)
}

func TestEvaluate_FireWeatherIndex(t *testing.T) {
	ni := 1000.0
	res, err := Evaluate([]*FuelClass{mustClass(t, DeadLeaves, 0.5, 0.05)}, DefaultFireParameters(),
		Conditions{FireWeatherIndex: &ni})
	require.NoError(t, err)
	assert.InDelta(t, 1-math.Exp(-0.37), res.FireDangerIndex, 1e-12)
}

func TestEvaluate_Errors(t *testing.T) {
	p := DefaultFireParameters()
	good := mustClass(t, DeadLeaves, 0.5, 0.05)
	negative := -1.0

	badMoisture := mustClass(t, DeadLeaves, 0.5, 0.05)
	badMoisture.moisture = -0.01

	badSAV := &FuelClass{ft: FuelType{rec: FuelTypeRecord{Name: "broken", Category: Twigs, Condition: Dead}}, load: 1}

	tests := []struct {
		name    string
		classes []*FuelClass
		cond    Conditions
		field   string
	}{
		{"no classes", nil, Conditions{}, "fuel_classes"},
		{"nil class", []*FuelClass{good, nil}, Conditions{}, "fuel_class"},
		{"negative moisture", []*FuelClass{good, badMoisture}, Conditions{}, "dead_leaves.moisture"},
		{"non-positive sav", []*FuelClass{badSAV}, Conditions{}, "broken.sav"},
		{"negative wind", []*FuelClass{good}, Conditions{WindSpeed: -3}, "wind_speed"},
		{"NaN wind", []*FuelClass{good}, Conditions{WindSpeed: math.NaN()}, "wind_speed"},
		{"negative index", []*FuelClass{good}, Conditions{FireWeatherIndex: &negative}, "fire_weather_index"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.classes, p, tt.cond)
			var de *DomainError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, tt.field, de.Field)
		})
	}

	_, err := Evaluate([]*FuelClass{good}, nil, Conditions{})
	assert.True(t, errors.Is(err, ErrNilParameters))
}

func TestEvaluate_RejectsNonPositiveExtinction(t *testing.T) {
	c := DefaultCoefficients()
	c.MoistureOfExtinction.DeriveFromSAV = true
	c.MoistureOfExtinction.SAVIntercept = 0.1
	c.MoistureOfExtinction.SAVSlope = 0.5
	unchecked := &FireParameters{c: c}

	dry := mustClass(t, DeadLeaves, 0.5, 0)
	res, err := Evaluate([]*FuelClass{dry}, unchecked, Conditions{WindSpeed: 100})
	var de *DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "dead_leaves.moisture_of_extinction", de.Field)
	assert.Less(t, de.Value, 0.0)
	assert.Zero(t, res.RateOfSpread)
}

func TestEvaluate_DoesNotMutateInputs(t *testing.T) {
	fc := mustClass(t, DeadLeaves, 0.5, 0.05)
	_, err := Evaluate([]*FuelClass{fc}, DefaultFireParameters(), Conditions{WindSpeed: 100})
	require.NoError(t, err)
	assert.Equal(t, 0.5, fc.Load())
	assert.Equal(t, 0.05, fc.Moisture())
}
