package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/spitfire-etl/internal/domain"
	"github.com/couchcryptid/spitfire-etl/internal/observability"
)

// BatchExtractor reads up to batchSize raw events from the source.
type BatchExtractor interface {
	ExtractBatch(ctx context.Context, batchSize int) ([]domain.RawEvent, error)
}

// Transformer converts a raw patch-day message into a fire-behavior event.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawEvent) (domain.OutputEvent, error)
}

// BatchLoader writes multiple output events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.OutputEvent) error
}

// Pipeline moves patch-days from the source to the sink. Messages are
// evaluated one at a time on the Run goroutine, so a patch's days are applied
// in the order they arrive.
//
// Transforming a message advances that patch's fire weather, so a batch that
// fails to load is retried as-is rather than re-extracted: replaying the same
// days would be rejected as out of sequence.
type Pipeline struct {
	extractor   BatchExtractor
	transformer Transformer
	loader      BatchLoader
	logger      *slog.Logger
	metrics     *observability.Metrics
	ready       atomic.Bool
	batchSize   int
}

// New creates a Pipeline with the given stages and observability.
func New(e BatchExtractor, t Transformer, l BatchLoader, logger *slog.Logger, metrics *observability.Metrics, batchSize int) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		logger:      logger,
		metrics:     metrics,
		batchSize:   batchSize,
	}
}

// CheckReadiness reports ready once a fire-behavior record has been published.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no fire-behavior records published yet")
	}
	return nil
}

// Run processes batches until ctx is cancelled. It returns nil on shutdown.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "batch_size", p.batchSize)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	extractRetry := newRetry(200*time.Millisecond, 5*time.Second)
	for ctx.Err() == nil {
		raws, err := p.extractor.ExtractBatch(ctx, p.batchSize)
		if err != nil {
			if ctx.Err() != nil {
				break
			}
			p.logger.Error("extract batch failed", "error", err)
			extractRetry.wait(ctx)
			continue
		}
		extractRetry.reset()
		if len(raws) == 0 {
			continue
		}
		p.handleBatch(ctx, raws)
	}

	p.logger.Info("pipeline stopping", "reason", context.Cause(ctx))
	return nil
}

// handleBatch evaluates, publishes, and commits one batch.
func (p *Pipeline) handleBatch(ctx context.Context, raws []domain.RawEvent) {
	start := time.Now()
	p.metrics.MessagesConsumed.Add(float64(len(raws)))
	p.metrics.BatchSize.Observe(float64(len(raws)))

	out := p.evaluate(ctx, raws)
	if len(out) > 0 && !p.publish(ctx, out) {
		return
	}
	// Committing an offset also commits everything before it on the
	// partition, so nothing is committed until the whole batch is settled.
	for _, raw := range raws {
		p.commit(ctx, raw)
	}
	if len(out) == 0 {
		return
	}

	p.metrics.MessagesProduced.Add(float64(len(out)))
	p.metrics.BatchProcessingDuration.Observe(time.Since(start).Seconds())
	p.ready.Store(true)
}

// evaluate transforms each message. Rejected messages are logged and counted
// by error kind; they are committed with the rest of the batch so they are
// not redelivered.
func (p *Pipeline) evaluate(ctx context.Context, raws []domain.RawEvent) []domain.OutputEvent {
	out := make([]domain.OutputEvent, 0, len(raws))
	for _, raw := range raws {
		ev, err := p.transformer.Transform(ctx, raw)
		if err != nil {
			kind := domain.ErrorKind(err)
			p.logger.Warn("skipping patch message",
				"error", err,
				"kind", kind,
				"key", string(raw.Key),
				"partition", raw.Partition,
				"offset", raw.Offset,
			)
			p.metrics.TransformErrors.WithLabelValues(kind).Inc()
			continue
		}
		out = append(out, ev)
	}
	return out
}

// publish loads the batch, retrying with backoff until it succeeds or ctx is
// cancelled. It reports whether the batch was written.
func (p *Pipeline) publish(ctx context.Context, out []domain.OutputEvent) bool {
	r := newRetry(200*time.Millisecond, 5*time.Second)
	for {
		err := p.loader.LoadBatch(ctx, out)
		if err == nil {
			return true
		}
		p.logger.Error("load batch failed", "error", err, "batch_size", len(out), "attempt", r.attempts+1)
		if !r.wait(ctx) {
			return false
		}
	}
}

func (p *Pipeline) commit(ctx context.Context, raw domain.RawEvent) {
	if raw.Commit == nil {
		return
	}
	if err := raw.Commit(ctx); err != nil {
		p.logger.Warn("commit offset failed", "error", err,
			"partition", raw.Partition, "offset", raw.Offset)
	}
}

// retry is a capped exponential backoff.
type retry struct {
	initial, max, next time.Duration
	attempts           int
}

func newRetry(initial, maxDelay time.Duration) *retry {
	return &retry{initial: initial, max: maxDelay, next: initial}
}

func (r *retry) reset() {
	r.next = r.initial
	r.attempts = 0
}

// wait sleeps for the current delay and doubles it. It returns false if ctx
// ends first.
func (r *retry) wait(ctx context.Context) bool {
	timer := time.NewTimer(r.next)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
	}
	r.attempts++
	r.next = min(r.next*2, r.max)
	return true
}
