package engagement

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	activeChecks         *prometheus.CounterVec
	admissions           *prometheus.CounterVec
	collaboratorFailures *prometheus.CounterVec
	integrityFaults      prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		activeChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engagement_active_checks_total",
				Help: "Active engagement lookups by the line that answered (none if no line did)",
			},
			[]string{"line"},
		),
		admissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engagement_admissions_total",
				Help: "Admission attempts by line and outcome",
			},
			[]string{"line", "outcome"},
		),
		collaboratorFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "engagement_collaborator_failures_total",
				Help: "Calls to non-authoritative collaborators that failed and were degraded",
			},
			[]string{"collaborator"},
		),
		integrityFaults: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "engagement_integrity_faults_total",
				Help: "Entities found referencing rows that do not exist",
			},
		),
	}
	if reg != nil {
		reg.MustRegister(m.activeChecks, m.admissions, m.collaboratorFailures, m.integrityFaults)
	}
	return m
}
