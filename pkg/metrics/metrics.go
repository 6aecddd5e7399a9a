// Package metrics holds the Prometheus collectors of the API.
//
// A nil *Metrics is valid and records nothing, so services and tests can run
// without a registry.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cornucopia"

type Metrics struct {
	RelationOps  *prometheus.CounterVec
	CascadeSteps *prometheus.CounterVec
	HTTPRequests *prometheus.CounterVec
	BlobOps      *prometheus.CounterVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RelationOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "relations",
			Name:      "ops_total",
			Help:      "Back-reference link/unlink operations by edge, op and result",
		}, []string{"edge", "op", "result"}),
		CascadeSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cascade",
			Name:      "steps_total",
			Help:      "Account deletion steps by step and result",
		}, []string{"step", "result"}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		BlobOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "blob",
			Name:      "ops_total",
			Help:      "Blob store operations by op and result",
		}, []string{"op", "result"}),
	}
	if reg != nil {
		reg.MustRegister(m.RelationOps, m.CascadeSteps, m.HTTPRequests, m.BlobOps)
	}
	return m
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) ObserveRelation(edge, op string, err error) {
	if m == nil {
		return
	}
	m.RelationOps.WithLabelValues(edge, op, result(err)).Inc()
}

func (m *Metrics) ObserveCascadeStep(step string, err error) {
	if m == nil {
		return
	}
	m.CascadeSteps.WithLabelValues(step, result(err)).Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ObserveBlob(op string, err error) {
	if m == nil {
		return
	}
	m.BlobOps.WithLabelValues(op, result(err)).Inc()
}
