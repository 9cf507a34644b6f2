package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMissingHumidity is returned for a message with neither rh nor dewpoint_c.
var ErrMissingHumidity = errors.New("message carries neither rh nor dewpoint_c")

// ParseRawEvent deserializes a RawEvent's value into a PatchMessage. The
// message key is used as the patch ID when the body omits one.
func ParseRawEvent(raw RawEvent) (PatchMessage, error) {
	var msg PatchMessage
	if err := json.Unmarshal(raw.Value, &msg); err != nil {
		return PatchMessage{}, fmt.Errorf("parse raw event: %w", err)
	}
	msg.PatchID = strings.TrimSpace(msg.PatchID)
	if msg.PatchID == "" {
		msg.PatchID = strings.TrimSpace(string(raw.Key))
	}
	if msg.PatchID == "" {
		return PatchMessage{}, errors.New("parse raw event: missing patch_id")
	}
	return msg, nil
}

// DailyInput converts a message into model forcing.
func (m PatchMessage) DailyInput() (DailyInput, error) {
	date, err := time.Parse(time.DateOnly, strings.TrimSpace(m.Date))
	if err != nil {
		return DailyInput{}, fmt.Errorf("parse date %q: %w", m.Date, err)
	}
	if m.RH == nil && m.DewpointC == nil {
		return DailyInput{}, ErrMissingHumidity
	}

	obs := Observation{
		Date:            date,
		MeanTemperature: m.TempC,
		Dewpoint:        m.DewpointC,
		Precipitation:   m.PrecipMM,
	}
	if m.RH != nil {
		obs.RelativeHumidity = *m.RH
	}

	return DailyInput{
		Observation:   obs,
		WindSpeed:     m.WindMMin,
		TreeFraction:  m.TreeFraction,
		GrassFraction: m.GrassFraction,
		BareFraction:  m.BareFraction,
		Ignitions:     m.Ignitions,
		Litter:        m.Litter,
	}, nil
}

// NewBehaviorRecord flattens a daily result for publishing and stamps it
// with the evaluation time.
func NewBehaviorRecord(patchID string, r DailyResult) BehaviorRecord {
	return BehaviorRecord{
		PatchID:              patchID,
		Date:                 r.Date.Format(time.DateOnly),
		NesterovIndex:        r.Weather.Index,
		Danger:               r.Weather.Danger,
		WeatherState:         r.Weather.State,
		DryDays:              r.Weather.DryDays,
		FireDangerIndex:      r.FireDangerIndex,
		EffectiveWindSpeed:   r.EffectiveWindSpeed,
		ReactionIntensity:    r.Behavior.ReactionIntensity,
		DeadMoistureDamping:  r.Behavior.DeadMoistureDamping,
		LiveMoistureDamping:  r.Behavior.LiveMoistureDamping,
		RateOfSpread:         r.Behavior.RateOfSpread,
		BackwardRateOfSpread: r.BackwardRateOfSpread,
		FirelineIntensity:    r.Behavior.FirelineIntensity,
		SurfaceIntensity:     r.SurfaceIntensity,
		FuelConsumed:         r.Consumption.TotalConsumed,
		ResidenceTime:        r.Consumption.ResidenceTime,
		Duration:             r.Duration,
		FireSize:             r.FireSize,
		AreaBurnt:            r.AreaBurnt,
		EvaluatedAt:          clock.Now().UTC(),
	}
}

// SerializeBehaviorRecord marshals a record into an output event keyed by
// patch ID.
func SerializeBehaviorRecord(rec BehaviorRecord) (OutputEvent, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize behavior record: %w", err)
	}
	return OutputEvent{
		Key:   []byte(rec.PatchID),
		Value: data,
		Headers: map[string]string{
			"danger":       rec.Danger.String(),
			"evaluated_at": rec.EvaluatedAt.Format(time.RFC3339),
		},
	}, nil
}

// ErrorKind classifies a processing failure for metrics and logs.
func ErrorKind(err error) string {
	var (
		ve *ValidationError
		de *DomainError
		se *SequenceError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &se):
		return "sequence"
	case errors.As(err, &ve):
		return "validation"
	case errors.As(err, &de):
		return "domain"
	default:
		return "parse"
	}
}
