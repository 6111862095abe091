// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package metrics exposes Prometheus metrics for modifiable values.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/holomush/modfloat/pkg/modfloat"
)

var (
	// merges counts recomputes per stat.
	merges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modfloat_merges_total",
		Help: "Total number of value recomputes",
	}, []string{"stat"})

	// mergeSteps tracks how many modifications one recompute applied.
	mergeSteps = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "modfloat_merge_steps",
		Help:    "Histogram of modifications applied per recompute",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	})

	// registrations counts accepted registrations by kind and whether they
	// changed the stored modification.
	registrations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modfloat_registrations_total",
		Help: "Total number of accepted modification registrations",
	}, []string{"kind", "changed"})

	// retractions counts removed modifications.
	retractions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "modfloat_retractions_total",
		Help: "Total number of retracted modifications",
	})

	// scriptFailures counts custom transforms that failed and left the value unchanged.
	scriptFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "modfloat_script_failures_total",
		Help: "Total number of failed custom script evaluations",
	}, []string{"reason"})
)

// Observer records container activity for one stat.
type Observer struct {
	stat string
}

var _ modfloat.Observer = (*Observer)(nil)

// NewObserver returns an Observer labelling merges with stat.
func NewObserver(stat string) *Observer {
	return &Observer{stat: stat}
}

// Merged implements modfloat.Observer.
func (o *Observer) Merged(steps int) {
	merges.WithLabelValues(o.stat).Inc()
	mergeSteps.Observe(float64(steps))
}

// Registered implements modfloat.Observer.
func (o *Observer) Registered(kind modfloat.Kind, changed bool) {
	registrations.WithLabelValues(kind.String(), strconv.FormatBool(changed)).Inc()
}

// Retracted implements modfloat.Observer.
func (o *Observer) Retracted(removed int) {
	retractions.Add(float64(removed))
}

// Script failure reasons.
const (
	ReasonError   = "error"
	ReasonTimeout = "timeout"
	ReasonType    = "type"
)

// RecordScriptFailure counts one failed custom script evaluation.
func RecordScriptFailure(reason string) {
	scriptFailures.WithLabelValues(reason).Inc()
}
