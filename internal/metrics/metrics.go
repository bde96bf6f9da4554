package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics: счётчики auth-операций. Регистрируются в переданном registerer.
type Metrics struct {
	Logins        *prometheus.CounterVec
	Refreshes     *prometheus.CounterVec
	Revocations   *prometheus.CounterVec
	CodesIssued   *prometheus.CounterVec
	PasswordReset *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopauth",
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopauth",
			Name:      "refreshes_total",
			Help:      "Access token refreshes by result.",
		}, []string{"result"}),
		Revocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopauth",
			Name:      "revocations_total",
			Help:      "Revoked tokens by token type.",
		}, []string{"type"}),
		CodesIssued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopauth",
			Name:      "verification_codes_issued_total",
			Help:      "Issued password reset codes by delivery plan.",
		}, []string{"plan"}),
		PasswordReset: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "shopauth",
			Name:      "password_resets_total",
			Help:      "Password reset submissions by result.",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.Logins, m.Refreshes, m.Revocations, m.CodesIssued, m.PasswordReset)
	}
	return m
}

func Result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}
