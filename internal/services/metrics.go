package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	resetRequestCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sayabantu",
		Subsystem: "password_reset",
		Name:      "requests_total",
		Help:      "The total number of password reset requests",
	}, []string{"result"})

	resetCompleteCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sayabantu",
		Subsystem: "password_reset",
		Name:      "completions_total",
		Help:      "The total number of password reset attempts",
	}, []string{"result"})

	mailFailureCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sayabantu",
		Subsystem: "mail",
		Name:      "failures_total",
		Help:      "The total number of emails that could not be sent",
	})

	purgedTokenCounter = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "sayabantu",
		Subsystem: "password_reset",
		Name:      "purged_tokens_total",
		Help:      "The total number of expired reset tokens removed",
	})
)
