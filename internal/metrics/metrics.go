// Package metrics exposes ledger activity and coverage as Prometheus
// metrics. Counters are fed through the session observer interface; the
// coverage gauges are set from a report summary.
package metrics

import (
	"fmt"

	"github.com/blackwell-systems/shelfcount/internal/report"
	"github.com/blackwell-systems/shelfcount/internal/session"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shelfcount"

// Collector owns a private registry with every shelfcount metric.
type Collector struct {
	registry *prometheus.Registry

	Scans     *prometheus.CounterVec
	Warnings  *prometheus.CounterVec
	Deletions prometheus.Counter
	Clears    prometheus.Counter
	Coverage  *prometheus.GaugeVec
	Rate      prometheus.Gauge
}

// New registers the metrics on a fresh registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Scans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Scan events recorded, by requested tone.",
		}, []string{"tone"}),
		Warnings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "warnings_total",
			Help:      "Warnings attached to recorded scan events, by kind.",
		}, []string{"kind"}),
		Deletions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_deleted_total",
			Help:      "Scan events removed individually or replaced by loan overrides.",
		}),
		Clears: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_cleared_total",
			Help:      "Scan events removed by clearing the session.",
		}),
		Coverage: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "coverage_items",
			Help:      "In-scope catalog items by coverage state.",
		}, []string{"state"}),
		Rate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scans_per_minute",
			Help:      "Scan throughput between the first and last event.",
		}),
	}
	c.registry.MustRegister(c.Scans, c.Warnings, c.Deletions, c.Clears, c.Coverage, c.Rate)
	return c
}

// Registry returns the registry holding the metrics.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

func (c *Collector) Recorded(ev session.Event) {
	c.Scans.WithLabelValues(string(ev.Tone())).Inc()
	for _, w := range ev.Warnings {
		c.Warnings.WithLabelValues(w.Kind.String()).Inc()
	}
}

func (c *Collector) Deleted(session.Event) { c.Deletions.Inc() }

func (c *Collector) Cleared(n int) { c.Clears.Add(float64(n)) }

// Observe sets the coverage gauges from a summary. An infinite rate is
// exported as +Inf.
func (c *Collector) Observe(s report.Summary) {
	c.Coverage.WithLabelValues("valid").Set(float64(s.Coverage.Valid))
	c.Coverage.WithLabelValues("warned").Set(float64(s.Coverage.Warned))
	c.Coverage.WithLabelValues("missing").Set(float64(s.Coverage.Missing))
	c.Coverage.WithLabelValues("total").Set(float64(s.Coverage.Total))
	c.Rate.Set(s.Throughput.PerMinute)
}

// WriteTextfile writes the registry in the text exposition format, for the
// node exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}

var _ session.Observer = (*Collector)(nil)
