package synthetic

import (
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/couchcryptid/spitfire-etl/internal/domain"
)

// Day is one row of a daily weather file.
type Day struct {
	Date             string  `csv:"date"`
	Temperature      float64 `csv:"temp_degC"`
	Precipitation    float64 `csv:"precip"`
	RelativeHumidity float64 `csv:"RH"`
	Wind             float64 `csv:"wind"` // m/min
}

// Observation converts the row to a fire-weather observation.
func (d Day) Observation() (domain.Observation, error) {
	date, err := time.Parse(time.DateOnly, d.Date)
	if err != nil {
		return domain.Observation{}, fmt.Errorf("parse date %q: %w", d.Date, err)
	}
	return domain.Observation{
		Date:             date,
		MeanTemperature:  d.Temperature,
		RelativeHumidity: d.RelativeHumidity,
		Precipitation:    d.Precipitation,
	}, nil
}

// ReadWeatherCSV reads daily weather with the columns
// date,temp_degC,precip,RH,wind. Extra columns are ignored.
func ReadWeatherCSV(r io.Reader) ([]Day, error) {
	var days []Day
	if err := gocsv.Unmarshal(r, &days); err != nil {
		return nil, fmt.Errorf("reading weather csv: %w", err)
	}
	return days, nil
}

// WriteWeatherCSV writes days in the format ReadWeatherCSV accepts.
func WriteWeatherCSV(w io.Writer, days []Day) error {
	if err := gocsv.Marshal(days, w); err != nil {
		return fmt.Errorf("writing weather csv: %w", err)
	}
	return nil
}

// DrySpell returns n consecutive rainless days starting at start.
func DrySpell(start time.Time, n int, temp, rh, wind float64) []Day {
	days := make([]Day, n)
	for i := range days {
		days[i] = Day{
			Date:             start.AddDate(0, 0, i).Format(time.DateOnly),
			Temperature:      temp,
			RelativeHumidity: rh,
			Wind:             wind,
		}
	}
	return days
}

// RainDay returns a cool, humid day with the given precipitation.
func RainDay(date time.Time, precip float64) Day {
	return Day{
		Date:             date.Format(time.DateOnly),
		Temperature:      15,
		Precipitation:    precip,
		RelativeHumidity: 90,
		Wind:             60,
	}
}

// SeasonConfig shapes a generated weather season.
type SeasonConfig struct {
	MeanTemperature float64 // annual mean, degC
	Amplitude       float64 // seasonal swing, degC
	RainChance      float64 // daily probability of a wet day
	MeanRain        float64 // mm on wet days
	MeanWind        float64 // m/min
}

// DefaultSeason is a Mediterranean-like climate with a long dry summer.
func DefaultSeason() SeasonConfig {
	return SeasonConfig{
		MeanTemperature: 16,
		Amplitude:       9,
		RainChance:      0.18,
		MeanRain:        8,
		MeanWind:        150,
	}
}

// Season generates n days of weather starting at start. The same seed
// always yields the same sequence.
func Season(cfg SeasonConfig, start time.Time, n int, seed uint64) []Day {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	noise := distuv.Normal{Mu: 0, Sigma: 2.5, Src: src}
	wet := distuv.Bernoulli{P: cfg.RainChance, Src: src}
	// Gamma with shape 0.8 keeps most wet days light and a few heavy.
	rain := distuv.Gamma{Alpha: 0.8, Beta: 0.8 / cfg.MeanRain, Src: src}
	gust := distuv.Normal{Mu: cfg.MeanWind, Sigma: cfg.MeanWind / 3, Src: src}

	days := make([]Day, n)
	for i := range days {
		date := start.AddDate(0, 0, i)
		phase := 2 * math.Pi * float64(date.YearDay()-105) / 365
		d := Day{
			Date:             date.Format(time.DateOnly),
			Temperature:      round1(cfg.MeanTemperature + cfg.Amplitude*math.Sin(phase) + noise.Rand()),
			RelativeHumidity: round1(clamp(55-2*cfg.Amplitude*math.Sin(phase)+4*noise.Rand(), 5, 100)),
			Wind:             round1(math.Max(0, gust.Rand())),
		}
		if wet.Rand() == 1 {
			d.Precipitation = round1(rain.Rand())
			d.RelativeHumidity = round1(clamp(d.RelativeHumidity+30, 5, 100))
		}
		days[i] = d
	}
	return days
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func clamp(v, lo, hi float64) float64 { return math.Min(hi, math.Max(lo, v)) }
