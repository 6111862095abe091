// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holomush/modfloat/pkg/modfloat"
)

func TestMetrics_MetricsRegistered(t *testing.T) {
	// Vectors only show up in a gather once they have a child.
	NewObserver("registered").Merged(0)
	NewObserver("registered").Registered(modfloat.KindAdd, true)
	RecordScriptFailure(ReasonError)

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	registered := make(map[string]bool)
	for _, family := range families {
		registered[family.GetName()] = true
	}

	for _, name := range []string{
		"modfloat_merges_total",
		"modfloat_merge_steps",
		"modfloat_registrations_total",
		"modfloat_retractions_total",
		"modfloat_script_failures_total",
	} {
		assert.True(t, registered[name], "metric %q should be registered", name)
	}
}

func TestObserver_CountsContainerActivity(t *testing.T) {
	const stat = "test.observer"
	mergesBefore := testutil.ToFloat64(merges.WithLabelValues(stat))
	changedBefore := testutil.ToFloat64(registrations.WithLabelValues("add", "true"))
	idemBefore := testutil.ToFloat64(registrations.WithLabelValues("add", "false"))
	retractBefore := testutil.ToFloat64(retractions)

	f := modfloat.New[string](10, modfloat.WithObserver[string](NewObserver(stat)))
	require.NoError(t, f.Add("a", "", 1, 0))
	require.NoError(t, f.Add("a", "", 1, 0))
	require.NoError(t, f.Add("b", "", 2, 0))
	assert.InDelta(t, 13, f.Value(), 0)
	assert.InDelta(t, 13, f.Value(), 0)
	require.NoError(t, f.RetractAll("a"))
	require.NoError(t, f.RetractAll("b"))

	assert.InDelta(t, mergesBefore+1, testutil.ToFloat64(merges.WithLabelValues(stat)), 0)
	assert.InDelta(t, changedBefore+2, testutil.ToFloat64(registrations.WithLabelValues("add", "true")), 0)
	assert.InDelta(t, idemBefore+1, testutil.ToFloat64(registrations.WithLabelValues("add", "false")), 0)
	assert.InDelta(t, retractBefore+2, testutil.ToFloat64(retractions), 0)
}

func TestRecordScriptFailure(t *testing.T) {
	for _, reason := range []string{ReasonError, ReasonTimeout, ReasonType} {
		t.Run(reason, func(t *testing.T) {
			before := testutil.ToFloat64(scriptFailures.WithLabelValues(reason))
			RecordScriptFailure(reason)
			assert.InDelta(t, before+1, testutil.ToFloat64(scriptFailures.WithLabelValues(reason)), 0)
		})
	}
}
