package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/spitfire-etl/internal/domain"
	"github.com/couchcryptid/spitfire-etl/internal/observability"
)

// PatchStepper advances a patch by one day.
type PatchStepper interface {
	Step(patchID string, in domain.DailyInput) (domain.DailyResult, error)
}

// FireTransformer implements Transformer by stepping the addressed patch
// and serializing its fire behavior.
type FireTransformer struct {
	patches PatchStepper
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a FireTransformer over a patch store.
func NewTransformer(patches PatchStepper, logger *slog.Logger, metrics *observability.Metrics) *FireTransformer {
	return &FireTransformer{
		patches: patches,
		logger:  logger,
		metrics: metrics,
	}
}

func (t *FireTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	msg, err := domain.ParseRawEvent(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}
	in, err := msg.DailyInput()
	if err != nil {
		return domain.OutputEvent{}, fmt.Errorf("patch %s: %w", msg.PatchID, err)
	}

	res, err := t.patches.Step(msg.PatchID, in)
	if err != nil {
		return domain.OutputEvent{}, fmt.Errorf("patch %s: %w", msg.PatchID, err)
	}

	rec := domain.NewBehaviorRecord(msg.PatchID, res)
	t.metrics.DangerClass.WithLabelValues(rec.Danger.String()).Inc()
	t.metrics.RateOfSpread.Observe(rec.RateOfSpread)
	if rec.RateOfSpread > 0 {
		t.logger.Debug("fire spread",
			"patch_id", rec.PatchID,
			"date", rec.Date,
			"danger", rec.Danger.String(),
			"rate_of_spread", rec.RateOfSpread,
			"fireline_intensity", rec.FirelineIntensity,
		)
	}
	return domain.SerializeBehaviorRecord(rec)
}
