// Package metrics implements the Metrics port with Prometheus collectors.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.trai.ch/grocer/internal/core/ports"
	"go.trai.ch/zerr"
)

const namespace = "grocer"

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus records loader activity in a private registry.
type Prometheus struct {
	registry      *prometheus.Registry
	loads         *prometheus.CounterVec
	fetches       *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec
	staleness     *prometheus.CounterVec
}

// New creates a Prometheus recorder with its own registry.
func New() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Loader runs by query name and outcome.",
		}, []string{"query_name", "outcome"}),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetches_total",
			Help:      "Remote query fetches by query name and success.",
		}, []string{"query_name", "success"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Latency of remote query fetches.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"query_name"}),
		staleness: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "staleness_checks_total",
			Help:      "Staleness strategy invocations by verdict.",
		}, []string{"stale"}),
	}

	p.registry.MustRegister(p.loads, p.fetches, p.fetchDuration, p.staleness)

	return p
}

// Registry exposes the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// ObserveLoad records one loader run.
func (p *Prometheus) ObserveLoad(queryName string, outcome ports.LoadOutcome) {
	p.loads.WithLabelValues(queryName, string(outcome)).Inc()
}

// ObserveFetch records one remote fetch.
func (p *Prometheus) ObserveFetch(queryName string, d time.Duration, err error) {
	p.fetches.WithLabelValues(queryName, strconv.FormatBool(err == nil)).Inc()
	p.fetchDuration.WithLabelValues(queryName).Observe(d.Seconds())
}

// ObserveStaleness records one staleness verdict.
func (p *Prometheus) ObserveStaleness(stale bool) {
	p.staleness.WithLabelValues(strconv.FormatBool(stale)).Inc()
}

// WriteTextfile writes the current metrics in the text exposition format to path,
// suitable for the node exporter textfile collector.
func (p *Prometheus) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, p.registry); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write metrics"), "path", path)
	}
	return nil
}
