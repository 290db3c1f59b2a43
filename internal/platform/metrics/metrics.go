// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics exposes the Prometheus collectors of the portal.
//
// A nil [*Metrics] is valid and records nothing, so tests and tools can skip it.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portal"

// Metrics groups the collectors registered on one registry.
type Metrics struct {
	registry       *prometheus.Registry
	loginAttempts  *prometheus.CounterVec
	guardDecisions *prometheus.CounterVec
	sessionRestore *prometheus.CounterVec
}

// New creates a private registry with process and Go runtime collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login relays by outcome.",
		}, []string{"outcome"}),
		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_guard_decisions_total",
			Help:      "Route guard decisions by requested namespace and outcome.",
		}, []string{"namespace", "outcome"}),
		sessionRestore: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_restores_total",
			Help:      "Session restores from durable storage by result.",
		}, []string{"result"}),
	}

	registry.MustRegister(m.loginAttempts, m.guardDecisions, m.sessionRestore)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// LoginAttempts exposes the login counter, mainly for tests.
func (m *Metrics) LoginAttempts() *prometheus.CounterVec {
	return m.loginAttempts
}

// ObserveLogin counts one login relay.
func (m *Metrics) ObserveLogin(outcome string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(outcome).Inc()
}

// ObserveGuard counts one route guard decision.
func (m *Metrics) ObserveGuard(requestedNamespace, outcome string) {
	if m == nil {
		return
	}
	m.guardDecisions.WithLabelValues(requestedNamespace, outcome).Inc()
}

// ObserveRestore counts one session restore.
func (m *Metrics) ObserveRestore(result string) {
	if m == nil {
		return
	}
	m.sessionRestore.WithLabelValues(result).Inc()
}
