// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics exposes Prometheus counters for loads, searches and
// result mutations, plus an HTTP middleware for the API.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pdiddy/personas/pkg/types"
)

const namespace = "personas"

// Recorder holds the collectors. A nil *Recorder is valid and records nothing.
type Recorder struct {
	loadFailures *prometheus.CounterVec
	loadedPeople *prometheus.GaugeVec
	searches     prometheus.Counter
	matches      prometheus.Counter
	mutations    *prometheus.CounterVec
	resultsSize  prometheus.Gauge
}

// New creates a Recorder and registers its collectors with reg.
func New(reg prometheus.Registerer) *Recorder {
	r := &Recorder{
		loadFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_load_failures_total",
			Help:      "Source loads that failed, by source and error kind",
		}, []string{"source", "kind"}),
		loadedPeople: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "source_records",
			Help:      "Records held in memory per source after the last load",
		}, []string{"source"}),
		searches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Searches executed",
		}),
		matches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_matches_total",
			Help:      "Matches appended to the accumulated results",
		}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "result_mutations_total",
			Help:      "Accumulated result operations, by op and whether storage changed",
		}, []string{"op", "changed"}),
		resultsSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "accumulated_results",
			Help:      "Entries in the accumulated results",
		}),
	}
	reg.MustRegister(r.loadFailures, r.loadedPeople, r.searches, r.matches, r.mutations, r.resultsSize)
	return r
}

// LoadFailed counts a failed source load.
func (r *Recorder) LoadFailed(source types.SourceName, kind string) {
	if r == nil {
		return
	}
	r.loadFailures.WithLabelValues(string(source), kind).Inc()
}

// Loaded records the size of a source set.
func (r *Recorder) Loaded(source types.SourceName, n int) {
	if r == nil {
		return
	}
	r.loadedPeople.WithLabelValues(string(source)).Set(float64(n))
}

// SearchDone counts a search and its matches.
func (r *Recorder) SearchDone(matches int) {
	if r == nil {
		return
	}
	r.searches.Inc()
	r.matches.Add(float64(matches))
}

// Mutation counts a result store operation.
func (r *Recorder) Mutation(op string, changed bool) {
	if r == nil {
		return
	}
	r.mutations.WithLabelValues(op, strconv.FormatBool(changed)).Inc()
}

// ResultsSize records the number of accumulated entries.
func (r *Recorder) ResultsSize(n int) {
	if r == nil {
		return
	}
	r.resultsSize.Set(float64(n))
}
