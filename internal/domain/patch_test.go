package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grasslandDay(n int) DailyInput {
	return DailyInput{
		Observation: Observation{
			Date:             day(n),
			MeanTemperature:  32,
			RelativeHumidity: 20,
		},
		WindSpeed:     200,
		TreeFraction:  0.1,
		GrassFraction: 0.8,
		BareFraction:  0.1,
		Ignitions:     0.5,
		Litter: Litter{
			Leaves:        0.15,
			Twigs:         0.05,
			SmallBranches: 0.02,
			LargeBranches: 0.02,
			Trunks:        0.5,
			LiveGrass:     0.2,
		},
	}
}

func newTestPatch(t *testing.T) *Patch {
	t.Helper()
	pt, err := NewPatch("patch-1", DefaultFireParameters(), defaultTypes(t))
	require.NoError(t, err)
	return pt
}

func TestPatchStep_DrySpellBuildsFire(t *testing.T) {
	pt := newTestPatch(t)
	assert.Equal(t, "patch-1", pt.ID())

	var last DailyResult
	prevIndex := 0.0
	for i := range 20 {
		res, err := pt.Step(grasslandDay(i))
		require.NoError(t, err)
		assert.Greater(t, res.Weather.Index, prevIndex)
		prevIndex = res.Weather.Index
		last = res
	}

	assert.Equal(t, DangerExtreme, last.Weather.Danger)
	assert.Equal(t, 20, last.Weather.DryDays)
	assert.InDelta(t, 1-math.Exp(-0.00037*last.Weather.Index), last.FireDangerIndex, 1e-12)
	assert.InDelta(t, 200*(0.1*0.4+0.9*0.6), last.EffectiveWindSpeed, 1e-9)

	assert.Greater(t, last.Behavior.RateOfSpread, 0.0)
	assert.Greater(t, last.Behavior.FirelineIntensity, 0.0)
	assert.Less(t, last.BackwardRateOfSpread, last.Behavior.RateOfSpread)
	assert.Greater(t, last.Consumption.TotalConsumed, 0.0)
	assert.Greater(t, last.SurfaceIntensity, 0.0)
	assert.Greater(t, last.Duration, 1.0)
	assert.GreaterOrEqual(t, last.LengthToBreadth, 1.0)
	assert.Greater(t, last.FireSize, 0.0)
	assert.InDelta(t, last.FireSize*0.5*last.FireDangerIndex, last.AreaBurnt, 1e-9)

	// loads are converted from carbon to biomass
	assert.InDelta(t, 0.15/0.45, pt.bed.Class(DeadLeaves).Load(), 1e-12)
	assert.InDelta(t, 0.5/0.45, pt.bed.Class(Trunks).Load(), 1e-12)
}

func TestPatchStep_RainStopsFire(t *testing.T) {
	pt := newTestPatch(t)
	for i := range 15 {
		_, err := pt.Step(grasslandDay(i))
		require.NoError(t, err)
	}

	wet := grasslandDay(15)
	wet.Precipitation = 25
	wet.RelativeHumidity = 95
	res, err := pt.Step(wet)
	require.NoError(t, err)

	assert.Zero(t, res.Weather.Index)
	assert.Equal(t, StateReset, res.Weather.State)
	assert.Zero(t, res.Behavior.RateOfSpread)
	assert.Zero(t, res.Behavior.FirelineIntensity)
	assert.Zero(t, res.AreaBurnt)
	assert.Equal(t, 1.0, pt.bed.Class(DeadLeaves).Moisture())
}

func TestPatchStep_IsAtomic(t *testing.T) {
	pt := newTestPatch(t)
	_, err := pt.Step(grasslandDay(0))
	require.NoError(t, err)
	before := pt.Weather()
	loads := pt.bed.Loads()

	t.Run("repeated day", func(t *testing.T) {
		in := grasslandDay(0)
		in.Litter.Leaves = 9
		_, err := pt.Step(in)
		var se *SequenceError
		require.ErrorAs(t, err, &se)
	})

	t.Run("bad cover fractions", func(t *testing.T) {
		in := grasslandDay(1)
		in.TreeFraction = 0.9
		_, err := pt.Step(in)
		var de *DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "cover_fractions", de.Field)
	})

	t.Run("negative litter", func(t *testing.T) {
		in := grasslandDay(1)
		in.Litter.Twigs = -0.1
		_, err := pt.Step(in)
		var de *DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "litter.twigs", de.Field)
	})

	t.Run("NaN wind", func(t *testing.T) {
		in := grasslandDay(1)
		in.WindSpeed = math.NaN()
		_, err := pt.Step(in)
		var de *DomainError
		require.ErrorAs(t, err, &de)
	})

	assert.Equal(t, before, pt.Weather())
	assert.Equal(t, loads, pt.bed.Loads())

	_, err = pt.Step(grasslandDay(1))
	require.NoError(t, err)
}

func TestNewPatch_Errors(t *testing.T) {
	_, err := NewPatch("p", nil, defaultTypes(t))
	assert.ErrorIs(t, err, ErrNilParameters)

	_, err = NewPatch("p", DefaultFireParameters(), defaultTypes(t)[:3])
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
}
