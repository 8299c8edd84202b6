// Package metrics exposes the engine counters on a private Prometheus registry.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "gogrowth"

// Label values.
const (
	ResultOK     = "ok"
	ResultAbsent = "absent"
	ResultError  = "error"

	SourceMeasurements = "measurements"
	SourcePrediction   = "prediction"
	SourceEntitlement  = "entitlement"
	SourceReference    = "reference"
	SourceDirectory    = "directory"

	OutcomeLoaded     = "loaded"
	OutcomeCached     = "cached"
	OutcomeSuperseded = "superseded"
)

var startedAt = time.Now().UTC()

var (
	once     sync.Once
	registry *prometheus.Registry

	referenceFetches *prometheus.CounterVec
	upstreamFailures *prometheus.CounterVec
	snapshotLoads    *prometheus.CounterVec
	gateDecisions    *prometheus.CounterVec
)

func initRegistry() {
	once.Do(func() {
		registry = prometheus.NewRegistry()
		_ = registry.Register(collectors.NewGoCollector())
		registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Process uptime in seconds.",
		}, func() float64 {
			return time.Since(startedAt).Seconds()
		}))

		referenceFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reference_fetch_total",
			Help:      "Reference curve lookups by result.",
		}, []string{"result"})
		upstreamFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_failures_total",
			Help:      "Failed collaborator calls treated as absent data.",
		}, []string{"source"})
		snapshotLoads = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_loads_total",
			Help:      "Growth snapshot loads by outcome.",
		}, []string{"outcome"})
		gateDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prediction_gate_total",
			Help:      "Prediction gate evaluations.",
		}, []string{"allowed"})

		registry.MustRegister(referenceFetches, upstreamFailures, snapshotLoads, gateDecisions)
	})
}

// Registry returns the process-wide registry.
func Registry() *prometheus.Registry {
	initRegistry()
	return registry
}

// Handler serves the registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry(), promhttp.HandlerOpts{})
}

func ReferenceFetch(result string) {
	initRegistry()
	referenceFetches.WithLabelValues(result).Inc()
}

func UpstreamFailure(source string) {
	initRegistry()
	upstreamFailures.WithLabelValues(source).Inc()
}

func SnapshotLoad(outcome string) {
	initRegistry()
	snapshotLoads.WithLabelValues(outcome).Inc()
}

func GateDecision(allowed bool) {
	initRegistry()
	gateDecisions.WithLabelValues(strconv.FormatBool(allowed)).Inc()
}

// Counter values, used by tests and the status line.

func ReferenceFetchCount(result string) float64 {
	initRegistry()
	return counterValue(referenceFetches.WithLabelValues(result))
}

func UpstreamFailureCount(source string) float64 {
	initRegistry()
	return counterValue(upstreamFailures.WithLabelValues(source))
}

func SnapshotLoadCount(outcome string) float64 {
	initRegistry()
	return counterValue(snapshotLoads.WithLabelValues(outcome))
}

func GateDecisionCount(allowed bool) float64 {
	initRegistry()
	return counterValue(gateDecisions.WithLabelValues(strconv.FormatBool(allowed)))
}
