// Package metrics contadores Prometheus de la API. Un *Metrics nil es válido y no registra nada.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resultados usados como etiqueta "result".
const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultConflict = "conflict"
	ResultError    = "error"
)

// Metrics colectores propios sobre un registro dedicado.
type Metrics struct {
	registry      *prometheus.Registry
	ledgerOps     *prometheus.CounterVec
	loginAttempts *prometheus.CounterVec
	httpRequests  *prometheus.CounterVec
}

// New crea el registro con los colectores de proceso y de Go.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		ledgerOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ledger_operations_total",
			Help:      "Operaciones sobre el libro de abonos por tipo y resultado.",
		}, []string{"operation", "result"}),
		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Intentos de login por resultado.",
		}, []string{"result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Peticiones HTTP por método y código.",
		}, []string{"method", "status"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ledgerOps,
		m.loginAttempts,
		m.httpRequests,
	)
	return m
}

// LedgerOp cuenta una operación (apply, revert_index, revert_id, create).
func (m *Metrics) LedgerOp(operation, result string) {
	if m == nil {
		return
	}
	m.ledgerOps.WithLabelValues(operation, result).Inc()
}

// LoginAttempt cuenta un intento de login.
func (m *Metrics) LoginAttempt(result string) {
	if m == nil {
		return
	}
	m.loginAttempts.WithLabelValues(result).Inc()
}

// HTTPRequest cuenta una respuesta HTTP.
func (m *Metrics) HTTPRequest(method, status string) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, status).Inc()
}

// Handler expone el registro en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry registro subyacente (tests).
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// LedgerCounter colector de operaciones del libro (tests).
func (m *Metrics) LedgerCounter() *prometheus.CounterVec {
	return m.ledgerOps
}

// LoginCounter colector de intentos de login (tests).
func (m *Metrics) LoginCounter() *prometheus.CounterVec {
	return m.loginAttempts
}
