package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "prospect_crm"

// Metrics holds the domain counters exported on /metrics. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	companiesCreated  prometheus.Counter
	statusTransitions *prometheus.CounterVec
	campaignEmails    *prometheus.CounterVec
	importRows        *prometheus.CounterVec
}

// New registers the domain counters plus the process and Go runtime
// collectors on a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(registry)
}

// NewWithRegistry registers the domain counters on the supplied registry.
func NewWithRegistry(registry *prometheus.Registry) *Metrics {
	m := &Metrics{
		registry: registry,
		companiesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "companies_created_total",
			Help:      "Number of companies created.",
		}),
		statusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "status_transitions_total",
			Help:      "Number of status assignments by target status.",
		}, []string{"status"}),
		campaignEmails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "campaign_emails_total",
			Help:      "Campaign recipients by delivery result.",
		}, []string{"result"}),
		importRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "CSV import rows by result.",
		}, []string{"result"}),
	}
	registry.MustRegister(m.companiesCreated, m.statusTransitions, m.campaignEmails, m.importRows)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// CompanyCreated counts a newly created company.
func (m *Metrics) CompanyCreated() {
	if m == nil {
		return
	}
	m.companiesCreated.Inc()
}

// StatusTransition counts a status assignment.
func (m *Metrics) StatusTransition(status string) {
	if m == nil {
		return
	}
	m.statusTransitions.WithLabelValues(status).Inc()
}

// CampaignEmail counts one campaign recipient outcome.
func (m *Metrics) CampaignEmail(result string) {
	if m == nil {
		return
	}
	m.campaignEmails.WithLabelValues(result).Inc()
}

// ImportRow counts one processed CSV row.
func (m *Metrics) ImportRow(result string) {
	if m == nil {
		return
	}
	m.importRows.WithLabelValues(result).Inc()
}
