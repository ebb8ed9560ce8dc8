// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package observability provides Prometheus metrics for the registry.
//
// # Description
//
// Mutating endpoints never report failures to the client, so these
// metrics are where rejected adds and unknown IDs become visible:
//   - Store operation counters by operation and outcome
//   - A gauge of the current record count
//   - HTTP request latency by route
//
// # Thread Safety
//
// All metric operations are thread-safe via Prometheus's internal locking.
// A nil *RegistryMetrics is valid and records nothing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace for all metrics
const metricsNamespace = "people_registry"

// Operation labels.
const (
	OpList   = "list"
	OpAdd    = "add"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Outcome labels.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// RegistryMetrics holds the registry's Prometheus collectors.
type RegistryMetrics struct {
	// OperationsTotal counts store operations.
	// Labels: operation (list, add, update, delete),
	// outcome (ok, invalid, not_found, error)
	OperationsTotal *prometheus.CounterVec

	// Records is the number of records after the last observed operation.
	Records prometheus.Gauge

	// RequestDurationSeconds measures HTTP handling time.
	// Labels: route, method
	RequestDurationSeconds *prometheus.HistogramVec
}

// NewRegistryMetrics creates and registers the collectors on reg.
//
// # Inputs
//
//   - reg: Registerer to use. Pass prometheus.DefaultRegisterer in main and
//     a fresh prometheus.NewRegistry() in tests.
//
// # Limitations
//
//   - Panics if called twice with the same registerer (duplicate
//     registration).
func NewRegistryMetrics(reg prometheus.Registerer) *RegistryMetrics {
	factory := promauto.With(reg)
	return &RegistryMetrics{
		OperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Subsystem: "store",
				Name:      "operations_total",
				Help:      "Total record store operations by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		Records: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Subsystem: "store",
				Name:      "records",
				Help:      "Number of records currently in the store",
			},
		),
		RequestDurationSeconds: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request handling time in seconds",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"route", "method"},
		),
	}
}

// RecordOperation counts one store operation.
func (m *RegistryMetrics) RecordOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.OperationsTotal.WithLabelValues(operation, outcome).Inc()
}

// SetRecords updates the record count gauge.
func (m *RegistryMetrics) SetRecords(n int) {
	if m == nil {
		return
	}
	m.Records.Set(float64(n))
}

// ObserveRequest records the duration of one HTTP request.
func (m *RegistryMetrics) ObserveRequest(route, method string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDurationSeconds.WithLabelValues(route, method).Observe(d.Seconds())
}
