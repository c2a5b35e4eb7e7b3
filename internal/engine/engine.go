package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/angeloszaimis/statusprobe/internal/classify"
	"github.com/angeloszaimis/statusprobe/internal/metrics"
	"github.com/angeloszaimis/statusprobe/internal/probe"
	"github.com/angeloszaimis/statusprobe/internal/render"
	"github.com/angeloszaimis/statusprobe/internal/sampler"
	"github.com/angeloszaimis/statusprobe/internal/target"
)

// Engine fans a batch of targets out into independent sampling runs and
// reports each target's status through the render sink.
type Engine struct {
	prober     probe.Prober
	opts       sampler.Options
	classifier *classify.Classifier
	logger     *slog.Logger
	collector  *metrics.Collector
}

// New wires an engine. collector may be nil when no metrics are wanted.
func New(
	prober probe.Prober,
	opts sampler.Options,
	classifier *classify.Classifier,
	logger *slog.Logger,
	collector *metrics.Collector,
) *Engine {
	return &Engine{
		prober:     prober,
		opts:       opts,
		classifier: classifier,
		logger:     logger,
		collector:  collector,
	}
}

// Run probes every target and returns when the slowest one has reported.
// Each handle receives exactly two render events: checking as soon as it is
// registered, then its terminal state. Targets progress independently; a
// failing target never delays another's terminal render. Targets without a
// URL go straight to down and never touch the network.
func (e *Engine) Run(ctx context.Context, targets []target.Target, sink render.Sink) {
	var wg sync.WaitGroup

	for _, t := range targets {
		checking := classify.Status{Level: classify.Checking}
		sink.Render(t.ID, checking, classify.DisplayText(checking))

		if !t.Configured() {
			e.logger.Warn("Target has no URL", slog.String("target", t.ID))
			e.finish(t.ID, classify.Status{Level: classify.Down}, sink)
			continue
		}

		wg.Add(1)
		go func(t target.Target) {
			defer wg.Done()
			e.probeTarget(ctx, t, sink)
		}(t)
	}

	wg.Wait()
}

func (e *Engine) probeTarget(ctx context.Context, t target.Target, sink render.Sink) {
	opts := e.opts
	opts.OnAttempt = func(res probe.Result) {
		e.emit(metrics.Event{
			Type:      metrics.EventAttemptCompleted,
			Timestamp: time.Now(),
			Target:    t.ID,
			OK:        res.OK,
			RTT:       res.RTT,
		})
	}

	agg := sampler.Run(ctx, e.prober, t.URL, opts)

	st := e.classifier.Classify(agg)

	e.logger.Info("Target classified",
		slog.String("target", t.ID),
		slog.String("status", st.Level.String()),
		slog.Int("successes", agg.Successes),
		slog.Int("attempts", agg.Attempts),
		slog.Duration("median_rtt", agg.RTT))

	e.finish(t.ID, st, sink)
}

func (e *Engine) finish(handle string, st classify.Status, sink render.Sink) {
	sink.Render(handle, st, classify.DisplayText(st))

	e.emit(metrics.Event{
		Type:      metrics.EventTargetClassified,
		Timestamp: time.Now(),
		Target:    handle,
		Status:    st.Level.String(),
	})
}

func (e *Engine) emit(event metrics.Event) {
	if e.collector == nil {
		return
	}

	select {
	case e.collector.EventChannel() <- event:
	default:
	}
}
