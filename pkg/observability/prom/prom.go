// Package prom implements the observability hooks with Prometheus metrics.
//
//	reg := prometheus.NewRegistry()
//	hooks := prom.New(reg)
//	hooks.Install()
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package prom

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/matzehuels/jengatower/pkg/observability"
)

const namespace = "jengatower"

// Hooks records pipeline, cache and HTTP events as Prometheus metrics.
type Hooks struct {
	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	dependencies  prometheus.Histogram
	lookupFailed  prometheus.Counter
	blocks        prometheus.Histogram

	cacheOps *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpErrors   *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Hooks {
	h := &Hooks{
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of analysis stages.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"stage"}),
		stageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_errors_total",
			Help:      "Analysis stages that ended in an error.",
		}, []string{"stage"}),
		dependencies: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "manifest_dependencies",
			Help:      "Direct dependencies per analyzed manifest.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		lookupFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advisory_lookups_failed_total",
			Help:      "Advisory lookups that degraded to an empty result.",
		}),
		blocks: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tower_blocks",
			Help:      "Blocks per generated tower.",
			Buckets:   prometheus.ExponentialBuckets(6, 2, 10),
		}),
		cacheOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache lookups and writes by key type and result.",
		}, []string{"key_type", "op"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_client_responses_total",
			Help:      "Outgoing HTTP responses by host and status code.",
		}, []string{"host", "code"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_client_duration_seconds",
			Help:      "Outgoing HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"host"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_client_errors_total",
			Help:      "Outgoing HTTP requests that failed before a response.",
		}, []string{"host"}),
	}
	reg.MustRegister(
		h.stageDuration, h.stageErrors, h.dependencies, h.lookupFailed, h.blocks,
		h.cacheOps, h.httpRequests, h.httpDuration, h.httpErrors,
	)
	return h
}

// Install registers h as the global pipeline, cache and HTTP hooks.
func (h *Hooks) Install() {
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

func (h *Hooks) stage(name string, d time.Duration, err error) {
	h.stageDuration.WithLabelValues(name).Observe(d.Seconds())
	if err != nil {
		h.stageErrors.WithLabelValues(name).Inc()
	}
}

func (h *Hooks) OnParseStart(context.Context, string) {}

func (h *Hooks) OnParseComplete(_ context.Context, _ string, depCount int, d time.Duration, err error) {
	h.stage("parse", d, err)
	if err == nil {
		h.dependencies.Observe(float64(depCount))
	}
}

func (h *Hooks) OnResolveStart(context.Context, int) {}

func (h *Hooks) OnResolveComplete(_ context.Context, _ int, failed int, d time.Duration, err error) {
	h.stage("resolve", d, err)
	h.lookupFailed.Add(float64(failed))
}

func (h *Hooks) OnLayoutStart(context.Context, int) {}

func (h *Hooks) OnLayoutComplete(_ context.Context, blockCount int, d time.Duration, err error) {
	h.stage("layout", d, err)
	if err == nil {
		h.blocks.Observe(float64(blockCount))
	}
}

func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	h.cacheOps.WithLabelValues(keyType, "set").Inc()
}

func (h *Hooks) OnRequest(context.Context, string, string, string) {}

func (h *Hooks) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	h.httpRequests.WithLabelValues(host, strconv.Itoa(status)).Inc()
	h.httpDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (h *Hooks) OnError(_ context.Context, _, host, _ string, _ error) {
	h.httpErrors.WithLabelValues(host).Inc()
}

var (
	_ observability.PipelineHooks = (*Hooks)(nil)
	_ observability.CacheHooks    = (*Hooks)(nil)
	_ observability.HTTPHooks     = (*Hooks)(nil)
)
