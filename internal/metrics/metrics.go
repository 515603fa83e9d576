// Package metrics exposes the Prometheus instruments for the intake service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SubmissionsTotal counts booking submission attempts by outcome
	// ("succeeded" or "failed").
	SubmissionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "intake_submissions_total",
		Help: "Booking submission attempts by outcome.",
	}, []string{"outcome"})

	// FormsOpened counts intake form sessions created.
	FormsOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "intake_forms_opened_total",
		Help: "Intake form sessions opened.",
	})
)
