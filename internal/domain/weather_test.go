package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func dew(v float64) *float64 { return &v }

func newWeather(t *testing.T) *NesterovFireWeather {
	t.Helper()
	w, err := NewNesterovFireWeather(DefaultFireParameters())
	require.NoError(t, err)
	return w
}

func TestNewNesterovFireWeather_NilParameters(t *testing.T) {
	w, err := NewNesterovFireWeather(nil)
	assert.Nil(t, w)
	assert.ErrorIs(t, err, ErrNilParameters)
}

func TestDewpoint(t *testing.T) {
	assert.InDelta(t, 9.26, Dewpoint(20, 50), 0.05)
	assert.InDelta(t, 25.0, Dewpoint(25, 100), 1e-9)
	// humidity is clamped into [1, 100]
	assert.Equal(t, Dewpoint(25, 100), Dewpoint(25, 140))
	assert.Equal(t, Dewpoint(25, 1), Dewpoint(25, 0))
}

func TestObservationDewpointTemperature(t *testing.T) {
	obs := Observation{MeanTemperature: 20, RelativeHumidity: 50}
	assert.InDelta(t, 9.26, obs.DewpointTemperature(), 0.05)

	obs.Dewpoint = dew(3)
	assert.Equal(t, 3.0, obs.DewpointTemperature())
}

func TestNesterovUpdate(t *testing.T) {
	t.Run("dry day adds canonical increment", func(t *testing.T) {
		w := newWeather(t)
		require.NoError(t, w.Update(Observation{Date: day(0), MeanTemperature: 30, Dewpoint: dew(10)}))
		assert.Equal(t, 600.0, w.Index())
		assert.Equal(t, StateAccumulating, w.State())
		assert.Equal(t, 1, w.DryDays())

		require.NoError(t, w.Update(Observation{Date: day(1), MeanTemperature: 20, Dewpoint: dew(15)}))
		assert.Equal(t, 700.0, w.Index())
	})

	t.Run("freezing day adds nothing", func(t *testing.T) {
		w := newWeather(t)
		require.NoError(t, w.Update(Observation{Date: day(0), MeanTemperature: -5, Dewpoint: dew(-10)}))
		assert.Zero(t, w.Index())

		require.NoError(t, w.Update(Observation{Date: day(1), MeanTemperature: 10, Dewpoint: dew(12)}))
		assert.Zero(t, w.Index())
	})

	t.Run("rain at threshold resets", func(t *testing.T) {
		w := newWeather(t)
		require.NoError(t, w.Update(Observation{Date: day(0), MeanTemperature: 30, Dewpoint: dew(10)}))
		require.NoError(t, w.Update(Observation{Date: day(1), MeanTemperature: 30, Dewpoint: dew(10), Precipitation: 3.0}))
		assert.Equal(t, 0.0, w.Index())
		assert.Equal(t, StateReset, w.State())
		assert.Zero(t, w.DryDays())
	})

	t.Run("rain below threshold accumulates", func(t *testing.T) {
		w := newWeather(t)
		require.NoError(t, w.Update(Observation{Date: day(0), MeanTemperature: 30, Dewpoint: dew(10), Precipitation: 2.9}))
		assert.Equal(t, 600.0, w.Index())
	})

	t.Run("gaps between days are allowed", func(t *testing.T) {
		w := newWeather(t)
		require.NoError(t, w.Update(Observation{Date: day(0), MeanTemperature: 30, Dewpoint: dew(10)}))
		require.NoError(t, w.Update(Observation{Date: day(5), MeanTemperature: 30, Dewpoint: dew(10)}))
		last, ok := w.LastDate()
		require.True(t, ok)
		assert.Equal(t, day(5), last)
	})
}

func TestNesterovSequence(t *testing.T) {
	w := newWeather(t)
	require.NoError(t, w.Update(Observation{Date: day(3), MeanTemperature: 30, Dewpoint: dew(10)}))

	tests := []struct {
		name string
		date time.Time
	}{
		{"same day", day(3)},
		{"same day later hour", day(3).Add(15 * time.Hour)},
		{"earlier day", day(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := w.Update(Observation{Date: tt.date, MeanTemperature: 35, Dewpoint: dew(5)})
			var se *SequenceError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, day(3), se.Last)
			assert.Contains(t, err.Error(), "2024-07-04")

			assert.Equal(t, 600.0, w.Index())
			last, _ := w.LastDate()
			assert.Equal(t, day(3), last)
		})
	}
}

func TestNesterovRejectsNonFinite(t *testing.T) {
	w := newWeather(t)
	require.NoError(t, w.Update(Observation{Date: day(0), MeanTemperature: 30, Dewpoint: dew(10)}))

	for _, obs := range []Observation{
		{Date: day(1), MeanTemperature: math.NaN(), Dewpoint: dew(10)},
		{Date: day(1), MeanTemperature: 30, Dewpoint: dew(10), Precipitation: -1},
		{Date: day(1), MeanTemperature: 30, RelativeHumidity: math.Inf(1)},
		{Date: day(1), MeanTemperature: 30, Dewpoint: dew(math.NaN())},
	} {
		var de *DomainError
		require.ErrorAs(t, w.Update(obs), &de)
	}

	assert.Equal(t, 600.0, w.Index())
	last, _ := w.LastDate()
	assert.Equal(t, day(0), last)
}

func TestNesterovDrySpellThenRain(t *testing.T) {
	w := newWeather(t)

	prev := w.Index()
	for i := range 10 {
		require.NoError(t, w.Update(Observation{Date: day(i), MeanTemperature: 28, RelativeHumidity: 30}))
		assert.Greater(t, w.Index(), prev, "day %d", i+1)
		prev = w.Index()
	}
	assert.Equal(t, 10, w.DryDays())

	require.NoError(t, w.Update(Observation{Date: day(10), MeanTemperature: 22, RelativeHumidity: 90, Precipitation: 20}))
	assert.Equal(t, 0.0, w.Index())
}

func TestClassifyDanger(t *testing.T) {
	bp := DefaultCoefficients().Nesterov.DangerBreakpoints
	tests := []struct {
		index float64
		want  DangerClass
	}{
		{0, DangerNone},
		{299.9, DangerNone},
		{300, DangerLow},
		{999, DangerLow},
		{1000, DangerModerate},
		{4000, DangerHigh},
		{9999, DangerHigh},
		{10000, DangerExtreme},
		{1e6, DangerExtreme},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyDanger(tt.index, bp), "index %v", tt.index)
	}
}

func TestNesterovDangerAndActive(t *testing.T) {
	w := newWeather(t)
	assert.False(t, w.Active())
	assert.Equal(t, DangerNone, w.Danger())

	require.NoError(t, w.Update(Observation{Date: day(0), MeanTemperature: 30, Dewpoint: dew(10)}))
	assert.True(t, w.Active())
	assert.Equal(t, DangerLow, w.Danger())

	snap := w.Snapshot()
	assert.Equal(t, WeatherSnapshot{
		Index:    600,
		Danger:   DangerLow,
		State:    StateAccumulating,
		DryDays:  1,
		LastDate: "2024-07-01",
	}, snap)
}

func TestFireDangerIndexAndMoisture(t *testing.T) {
	assert.Zero(t, FireDangerIndex(0, 0.00037))
	assert.InDelta(t, 1-math.Exp(-0.37), FireDangerIndex(1000, 0.00037), 1e-12)

	w := newWeather(t)
	assert.Equal(t, 1.0, w.FuelMoisture(66))
	require.NoError(t, w.Update(Observation{Date: day(0), MeanTemperature: 30, Dewpoint: dew(10)}))
	assert.InDelta(t, math.Exp(-66.0/66000*600), w.FuelMoisture(66), 1e-12)
	// fine fuel dries faster than coarse fuel
	assert.Less(t, w.FuelMoisture(66), w.FuelMoisture(3.58))
	assert.InDelta(t, 1-math.Exp(-0.00037*600), w.FireDangerIndex(), 1e-12)
}

func TestEffectiveWindSpeed(t *testing.T) {
	c := DefaultCoefficients().Wind
	assert.InDelta(t, 100*(0.5*0.4+0.5*0.6), EffectiveWindSpeed(100, 0.5, 0.3, 0.2, c), 1e-9)
	assert.InDelta(t, 40.0, EffectiveWindSpeed(100, 1, 0, 0, c), 1e-9)
	assert.Zero(t, EffectiveWindSpeed(0, 0.2, 0.8, 0, c))
}

func TestDangerClassText(t *testing.T) {
	for d := DangerNone; d <= DangerExtreme; d++ {
		b, err := d.MarshalText()
		require.NoError(t, err)
		var back DangerClass
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, d, back)
	}
	var d DangerClass
	assert.Error(t, d.UnmarshalText([]byte("catastrophic")))
}
