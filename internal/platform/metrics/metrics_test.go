// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishjaiswal09/portal-sub005/internal/platform/metrics"
)

func TestMetrics_Counters(t *testing.T) {
	m := metrics.New()

	m.ObserveLogin("success")
	m.ObserveLogin("success")
	m.ObserveGuard("student", "allow")

	count, err := testutil.GatherAndCount(m.Registry(), "portal_login_attempts_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	recorder := httptest.NewRecorder()
	m.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `portal_login_attempts_total{outcome="success"} 2`)
	assert.Contains(t, recorder.Body.String(), `portal_route_guard_decisions_total{namespace="student",outcome="allow"} 1`)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *metrics.Metrics

	assert.NotPanics(t, func() {
		m.ObserveLogin("failure")
		m.ObserveGuard("admin", "allow")
		m.ObserveRestore("miss")
	})
	assert.Nil(t, m.Registry())
}
