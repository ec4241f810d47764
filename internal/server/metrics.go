package server

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/taxmagick/taxmagick/pkg/observability"
)

// Metrics holds the Prometheus collectors for the server and implements the
// observability hook interfaces, so tree loads, archive cache lookups and
// downloads that happen in the same process are counted too.
type Metrics struct {
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	builds          *prometheus.CounterVec
	buildDuration   prometheus.Histogram
	taxa            prometheus.Gauge
	outputs         *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
	downloads       *prometheus.CounterVec
	downloadSeconds prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taxmagick_http_requests_total",
			Help: "HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taxmagick_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		builds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taxmagick_tree_builds_total",
			Help: "Tree assemblies, by result.",
		}, []string{"result"}),
		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "taxmagick_tree_build_duration_seconds",
			Help:    "Time to read a dump and assemble the tree.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		taxa: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "taxmagick_tree_taxa",
			Help: "Taxa in the most recently built tree.",
		}),
		outputs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taxmagick_outputs_total",
			Help: "Trees and lineage tables written, by format and result.",
		}, []string{"format", "result"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taxmagick_cache_lookups_total",
			Help: "Cache lookups by key type and outcome.",
		}, []string{"type", "outcome"}),
		downloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taxmagick_downloads_total",
			Help: "Archive download responses by host and status code.",
		}, []string{"host", "code"}),
		downloadSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "taxmagick_download_duration_seconds",
			Help:    "Time to first response byte for archive downloads.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.requests, m.requestDuration, m.builds, m.buildDuration, m.taxa,
		m.outputs, m.cacheLookups, m.downloads, m.downloadSeconds)
	return m
}

// Install registers m as the process-wide observability hooks.
func (m *Metrics) Install() {
	observability.SetTreeHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

func (m *Metrics) observeRequest(route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnBuildStart(context.Context, string) {}

func (m *Metrics) OnBuildComplete(_ context.Context, _ string, nodeCount int, d time.Duration, err error) {
	m.builds.WithLabelValues(result(err)).Inc()
	m.buildDuration.Observe(d.Seconds())
	if err == nil {
		m.taxa.Set(float64(nodeCount))
	}
}

func (m *Metrics) OnOutput(_ context.Context, format string, _ int, _ time.Duration, err error) {
	m.outputs.WithLabelValues(format, result(err)).Inc()
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheLookups.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheLookups.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(context.Context, string, int) {}

func (m *Metrics) OnRequest(context.Context, string, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, _, host, _ string, code int, d time.Duration) {
	m.downloads.WithLabelValues(host, strconv.Itoa(code)).Inc()
	m.downloadSeconds.Observe(d.Seconds())
}

func (m *Metrics) OnError(_ context.Context, _, host, _ string, _ error) {
	m.downloads.WithLabelValues(host, "error").Inc()
}

var (
	_ observability.TreeHooks  = (*Metrics)(nil)
	_ observability.CacheHooks = (*Metrics)(nil)
	_ observability.HTTPHooks  = (*Metrics)(nil)
)
