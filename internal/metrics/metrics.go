// Package metrics collects prometheus metrics for storage and backup operations.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is what the store and the backup service report to.
type Recorder interface {
	ObserveOperation(op string, err error, d time.Duration)
	RecordBackup(kind string, err error)
}

// Nop discards everything.
type Nop struct{}

func (Nop) ObserveOperation(string, error, time.Duration) {}
func (Nop) RecordBackup(string, error)                     {}

// Collector is the prometheus-backed Recorder.
type Collector struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	backups    *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gophdiary_store_operations_total",
			Help: "Storage operations by name and result.",
		}, []string{"op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gophdiary_store_operation_duration_seconds",
			Help:    "Storage operation latency in seconds.",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		}, []string{"op"}),
		backups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gophdiary_backups_total",
			Help: "Exports and restores by result.",
		}, []string{"kind", "result"}),
	}

	reg.MustRegister(c.operations, c.duration, c.backups)
	return c
}

func (c *Collector) ObserveOperation(op string, err error, d time.Duration) {
	c.operations.WithLabelValues(op, result(err)).Inc()
	c.duration.WithLabelValues(op).Observe(d.Seconds())
}

func (c *Collector) RecordBackup(kind string, err error) {
	c.backups.WithLabelValues(kind, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// WriteSummary prints counters and histogram sample counts from g, one line
// per series, sorted by name.
func WriteSummary(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}

	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			series := mf.GetName()
			if len(labels) > 0 {
				series += "{" + strings.Join(labels, ",") + "}"
			}
			switch {
			case m.GetCounter() != nil:
				lines = append(lines, fmt.Sprintf("%s %g", series, m.GetCounter().GetValue()))
			case m.GetHistogram() != nil:
				h := m.GetHistogram()
				lines = append(lines, fmt.Sprintf("%s count=%d sum=%gs", series, h.GetSampleCount(), h.GetSampleSum()))
			case m.GetGauge() != nil:
				lines = append(lines, fmt.Sprintf("%s %g", series, m.GetGauge().GetValue()))
			}
		}
	}
	sort.Strings(lines)

	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
