package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// usersRegistered counts successful user registrations.
	usersRegistered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "users_registered_total",
		Help: "Total number of registered users.",
	})

	// loansCreated counts loan requests accepted in PENDING state.
	loansCreated = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "loan_requests_created_total",
		Help: "Total number of loan requests created.",
	})

	// loanDecisions counts webhook decisions applied, by resulting status.
	loanDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loan_decisions_total",
			Help: "Total number of loan decisions applied via webhook.",
		},
		[]string{"status"},
	)

	// apiLogsRecorded counts audit rows written, by direction.
	apiLogsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_logs_recorded_total",
			Help: "Total number of API audit log records written.",
		},
		[]string{"direction"},
	)
)

func init() {
	prometheus.MustRegister(usersRegistered, loansCreated, loanDecisions, apiLogsRecorded)
}
