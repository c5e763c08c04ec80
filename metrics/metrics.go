// Package metrics defines the Prometheus collectors for a crawl run and an
// HTTP handler for scraping them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "newsagg"

// Result label values.
const (
	ResultOK      = "ok"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

// Metrics holds the crawl collectors. A nil *Metrics is valid and records
// nothing.
type Metrics struct {
	FeedsTotal      *prometheus.CounterVec
	ArticlesTotal   *prometheus.CounterVec
	TokensIndexed   prometheus.Counter
	TasksInFlight   prometheus.Gauge
	HostInFlight    *prometheus.GaugeVec
	ArticleDuration prometheus.Histogram

	registry *prometheus.Registry
}

// New creates the collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		FeedsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "feeds_total",
				Help:      "Feeds processed by result (ok, failed).",
			},
			[]string{"result"},
		),
		ArticlesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "articles_total",
				Help:      "Articles processed by result (ok, failed, skipped).",
			},
			[]string{"result"},
		),
		TokensIndexed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tokens_indexed_total",
				Help:      "Tokens added to the index.",
			},
		),
		TasksInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "article_tasks_in_flight",
				Help:      "Article fetches currently holding a global task permit.",
			},
		),
		HostInFlight: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "host_requests_in_flight",
				Help:      "Article fetches currently in flight per origin host.",
			},
			[]string{"host"},
		),
		ArticleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "article_fetch_duration_seconds",
				Help:      "Time to fetch and tokenize one article.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
		),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(
		m.FeedsTotal,
		m.ArticlesTotal,
		m.TokensIndexed,
		m.TasksInFlight,
		m.HostInFlight,
		m.ArticleDuration,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) FeedDone(result string) {
	if m == nil {
		return
	}
	m.FeedsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) ArticleDone(result string, tokens int, seconds float64) {
	if m == nil {
		return
	}
	m.ArticlesTotal.WithLabelValues(result).Inc()
	if result == ResultOK {
		m.TokensIndexed.Add(float64(tokens))
	}
	if seconds > 0 {
		m.ArticleDuration.Observe(seconds)
	}
}

func (m *Metrics) TaskStarted(host string) {
	if m == nil {
		return
	}
	m.TasksInFlight.Inc()
	m.HostInFlight.WithLabelValues(host).Inc()
}

func (m *Metrics) TaskFinished(host string) {
	if m == nil {
		return
	}
	m.TasksInFlight.Dec()
	m.HostInFlight.WithLabelValues(host).Dec()
}
