package worker

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/ligue-leads/internal/analytics"
)

// MetricsSource yields a fresh analytics snapshot.
type MetricsSource interface {
	Execute(ctx context.Context) (*analytics.Metrics, error)
}

// PipelineGaugeWorker periodically exports pipeline analytics as gauges.
type PipelineGaugeWorker struct {
	source       MetricsSource
	record       func(analytics.Metrics)
	tickInterval time.Duration
	log          logrus.FieldLogger
}

func NewPipelineGaugeWorker(source MetricsSource, record func(analytics.Metrics), interval time.Duration, log logrus.FieldLogger) *PipelineGaugeWorker {
	return &PipelineGaugeWorker{
		source:       source,
		record:       record,
		tickInterval: interval,
		log:          log.WithField("component", "pipeline-gauge-worker"),
	}
}

// Start refreshes once immediately and then on every tick until ctx is done.
func (w *PipelineGaugeWorker) Start(ctx context.Context) {
	w.log.WithField("interval", w.tickInterval.String()).Info("pipeline gauge worker started")

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	w.refresh(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("pipeline gauge worker stopped")
			return
		case <-ticker.C:
			w.refresh(ctx)
		}
	}
}

func (w *PipelineGaugeWorker) refresh(ctx context.Context) {
	m, err := w.source.Execute(ctx)
	if err != nil {
		w.log.WithError(err).Warn("pipeline gauges not refreshed")
		return
	}
	w.record(*m)
	w.log.WithFields(logrus.Fields{
		"total_leads": m.TotalLeads,
		"total_value": m.TotalValue,
	}).Debug("pipeline gauges refreshed")
}
