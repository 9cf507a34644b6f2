package domain

import (
	"fmt"
	"math"
	"time"
)

// Observation is one day of weather for a patch.
type Observation struct {
	Date             time.Time
	MeanTemperature  float64  // °C
	Dewpoint         *float64 // °C; derived from RelativeHumidity when nil
	RelativeHumidity float64  // %
	Precipitation    float64  // mm/day
}

// DewpointTemperature returns the observed dewpoint, or the one derived from
// relative humidity when none was supplied.
func (o Observation) DewpointTemperature() float64 {
	if o.Dewpoint != nil {
		return *o.Dewpoint
	}
	return Dewpoint(o.MeanTemperature, o.RelativeHumidity)
}

// Magnus coefficients, Lawrence (2005) eq. 8.
const (
	magnusA = 17.62
	magnusB = 243.12
)

// Dewpoint computes the dewpoint (°C) from air temperature (°C) and relative
// humidity (%). Humidity is clamped to [1, 100].
func Dewpoint(tempC, rh float64) float64 {
	rh = math.Min(100, math.Max(1, rh))
	y := math.Log(rh/100) + magnusA*tempC/(magnusB+tempC)
	return magnusB * y / (magnusA - y)
}

// DangerClass is the categorical fire danger derived from the index.
type DangerClass int

const (
	DangerNone DangerClass = iota
	DangerLow
	DangerModerate
	DangerHigh
	DangerExtreme
)

var dangerNames = [...]string{"none", "low", "moderate", "high", "extreme"}

func (d DangerClass) String() string {
	if d < 0 || int(d) >= len(dangerNames) {
		return fmt.Sprintf("DangerClass(%d)", int(d))
	}
	return dangerNames[d]
}

func (d DangerClass) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *DangerClass) UnmarshalText(b []byte) error {
	for i, name := range dangerNames {
		if name == string(b) {
			*d = DangerClass(i)
			return nil
		}
	}
	return fmt.Errorf("unknown danger class %q", string(b))
}

// ClassifyDanger places index against four increasing breakpoints.
func ClassifyDanger(index float64, breakpoints [4]float64) DangerClass {
	class := DangerNone
	for _, b := range breakpoints {
		if index < b {
			break
		}
		class++
	}
	return class
}

// WeatherState is the last transition taken by the accumulator.
type WeatherState int

const (
	StateReset WeatherState = iota
	StateAccumulating
)

func (s WeatherState) String() string {
	if s == StateAccumulating {
		return "accumulating"
	}
	return "reset"
}

func (s WeatherState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *WeatherState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "accumulating":
		*s = StateAccumulating
	case "reset":
		*s = StateReset
	default:
		return fmt.Errorf("unknown weather state %q", string(b))
	}
	return nil
}

// FireWeather accumulates daily observations into a fire-danger index.
type FireWeather interface {
	Update(obs Observation) error
	Index() float64
	Danger() DangerClass
	Active() bool
	LastDate() (time.Time, bool)
}

// WeatherSnapshot is a read-only view of accumulator state.
type WeatherSnapshot struct {
	Index    float64      `json:"index"`
	Danger   DangerClass  `json:"danger"`
	State    WeatherState `json:"state"`
	DryDays  int          `json:"dry_days"`
	LastDate string       `json:"last_date,omitempty"`
}

// NesterovFireWeather is the Nesterov (1949) accumulator. Each instance
// belongs to one simulation unit and must not be shared without locking.
type NesterovFireWeather struct {
	params  *FireParameters
	index   float64
	last    time.Time
	hasLast bool
	dryDays int
	state   WeatherState
}

var _ FireWeather = (*NesterovFireWeather)(nil)

// NewNesterovFireWeather starts an accumulator in the reset state.
func NewNesterovFireWeather(p *FireParameters) (*NesterovFireWeather, error) {
	if p == nil {
		return nil, ErrNilParameters
	}
	return &NesterovFireWeather{params: p}, nil
}

// Update advances the index by one calendar day. A day with precipitation at
// or above the threshold resets the index to zero; otherwise the day adds
// max(0,T) * max(0,T-Td). The observation date must be strictly after the
// previous one. On error the accumulator is unchanged.
func (w *NesterovFireWeather) Update(obs Observation) error {
	day := civilDay(obs.Date)
	if w.hasLast && !day.After(w.last) {
		return &SequenceError{Last: w.last, Got: day}
	}

	const op = "nesterov update"
	if !finite(obs.MeanTemperature) {
		return &DomainError{Op: op, Field: "mean_temperature", Value: obs.MeanTemperature, Reason: "must be finite"}
	}
	if !finite(obs.Precipitation) || obs.Precipitation < 0 {
		return &DomainError{Op: op, Field: "precipitation", Value: obs.Precipitation, Reason: "must be finite and >= 0"}
	}
	if obs.Dewpoint == nil && !finite(obs.RelativeHumidity) {
		return &DomainError{Op: op, Field: "relative_humidity", Value: obs.RelativeHumidity, Reason: "must be finite"}
	}
	td := obs.DewpointTemperature()
	if !finite(td) {
		return &DomainError{Op: op, Field: "dewpoint", Value: td, Reason: "must be finite"}
	}

	if obs.Precipitation >= w.params.c.Nesterov.PrecipitationThreshold {
		w.index = 0
		w.dryDays = 0
		w.state = StateReset
	} else {
		t := obs.MeanTemperature
		w.index += math.Max(0, t) * math.Max(0, t-td)
		w.dryDays++
		w.state = StateAccumulating
	}
	w.last = day
	w.hasLast = true
	return nil
}

func (w *NesterovFireWeather) Index() float64 { return w.index }

func (w *NesterovFireWeather) Danger() DangerClass {
	return ClassifyDanger(w.index, w.params.c.Nesterov.DangerBreakpoints)
}

// Active reports whether the danger class is at least low.
func (w *NesterovFireWeather) Active() bool { return w.Danger() >= DangerLow }

func (w *NesterovFireWeather) LastDate() (time.Time, bool) { return w.last, w.hasLast }

// DryDays is the number of accumulating days since the last reset.
func (w *NesterovFireWeather) DryDays() int { return w.dryDays }

func (w *NesterovFireWeather) State() WeatherState { return w.state }

// FireDangerIndex scales the index onto [0, 1): 1 - exp(-alpha * NI).
func (w *NesterovFireWeather) FireDangerIndex() float64 {
	return FireDangerIndex(w.index, w.params.c.Nesterov.FDIAlpha)
}

// FuelMoisture returns the moisture of fuel with the given SAV after the
// current dry spell: exp(-(sav/drying_ratio) * NI).
func (w *NesterovFireWeather) FuelMoisture(sav float64) float64 {
	alpha := sav / w.params.c.Nesterov.DryingRatio
	return math.Exp(-alpha * w.index)
}

// Snapshot returns the current state for reporting.
func (w *NesterovFireWeather) Snapshot() WeatherSnapshot {
	s := WeatherSnapshot{
		Index:   w.index,
		Danger:  w.Danger(),
		State:   w.state,
		DryDays: w.dryDays,
	}
	if w.hasLast {
		s.LastDate = w.last.Format(time.DateOnly)
	}
	return s
}

// FireDangerIndex maps a Nesterov index onto [0, 1).
func FireDangerIndex(index, alpha float64) float64 {
	return 1 - math.Exp(-alpha*index)
}

// EffectiveWindSpeed attenuates open wind speed (m/min) by vegetation cover.
func EffectiveWindSpeed(wind, treeFraction, grassFraction, bareFraction float64, c WindCoefficients) float64 {
	return wind * (treeFraction*c.AttenuationTreed + (grassFraction+bareFraction)*c.AttenuationGrassy)
}

func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
