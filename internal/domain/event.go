package domain

import (
	"context"
	"time"
)

// PatchMessage is the flat JSON a host model publishes for one patch-day.
// Litter pools are in kgC/m2; wind is open wind in m/min. Either RH or
// DewpointC must be present.
type PatchMessage struct {
	PatchID       string   `json:"patch_id"`
	Date          string   `json:"date"` // YYYY-MM-DD
	TempC         float64  `json:"temp_c"`
	RH            *float64 `json:"rh,omitempty"`
	DewpointC     *float64 `json:"dewpoint_c,omitempty"`
	PrecipMM      float64  `json:"precip_mm"`
	WindMMin      float64  `json:"wind_m_min"`
	TreeFraction  float64  `json:"tree_fraction"`
	GrassFraction float64  `json:"grass_fraction"`
	BareFraction  float64  `json:"bare_fraction"`
	Ignitions     float64  `json:"ignitions"`
	Litter        Litter   `json:"litter"`
}

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// BehaviorRecord is the per-patch-day fire behavior published downstream.
type BehaviorRecord struct {
	PatchID              string       `json:"patch_id"`
	Date                 string       `json:"date"`
	NesterovIndex        float64      `json:"nesterov_index"`
	Danger               DangerClass  `json:"danger"`
	WeatherState         WeatherState `json:"weather_state"`
	DryDays              int          `json:"dry_days"`
	FireDangerIndex      float64      `json:"fire_danger_index"`
	EffectiveWindSpeed   float64      `json:"effective_wind_speed"`
	ReactionIntensity    float64      `json:"reaction_intensity"`
	DeadMoistureDamping  float64      `json:"dead_moisture_damping"`
	LiveMoistureDamping  float64      `json:"live_moisture_damping"`
	RateOfSpread         float64      `json:"rate_of_spread"`
	BackwardRateOfSpread float64      `json:"backward_rate_of_spread"`
	FirelineIntensity    float64      `json:"fireline_intensity"`
	SurfaceIntensity     float64      `json:"surface_intensity"`
	FuelConsumed         float64      `json:"fuel_consumed"`
	ResidenceTime        float64      `json:"residence_time"`
	Duration             float64      `json:"duration"`
	FireSize             float64      `json:"fire_size"`
	AreaBurnt            float64      `json:"area_burnt"`
	EvaluatedAt          time.Time    `json:"evaluated_at"`
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}
