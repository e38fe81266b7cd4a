package observability

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	nferrors "github.com/matzehuels/nodeforest/pkg/errors"
)

// Prometheus implements every hook interface with Prometheus metrics.
// Each instance owns its registry, so several can coexist in tests.
type Prometheus struct {
	registry *prometheus.Registry

	queryTotal    *prometheus.CounterVec
	queryDuration *prometheus.HistogramVec
	queryNodes    prometheus.Gauge

	moveTotal     *prometheus.CounterVec
	moveDuration  prometheus.Histogram
	moveBatchSize prometheus.Histogram
	movedNodes    prometheus.Counter
	checkTotal    *prometheus.CounterVec

	storageTotal    *prometheus.CounterVec
	storageDuration *prometheus.HistogramVec

	httpTotal    *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// NewPrometheus creates the metric set on a fresh registry that also
// carries the Go runtime and process collectors.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Prometheus{
		registry: reg,

		queryTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nodeforest_queries_total",
			Help: "Node list queries by shape and result",
		}, []string{"shape", "result"}),
		queryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nodeforest_query_duration_seconds",
			Help:    "Query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		}, []string{"shape"}),
		queryNodes: f.NewGauge(prometheus.GaugeOpts{
			Name: "nodeforest_nodes",
			Help: "Number of nodes returned by the latest query",
		}),

		moveTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nodeforest_moves_total",
			Help: "Move requests by result (ok, or the rejection category)",
		}, []string{"result", "code"}),
		moveDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "nodeforest_move_duration_seconds",
			Help:    "Move duration in seconds, read to write",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		moveBatchSize: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "nodeforest_move_batch_size",
			Help:    "Number of node ids per move request",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		}),
		movedNodes: f.NewCounter(prometheus.CounterOpts{
			Name: "nodeforest_moved_nodes_total",
			Help: "Nodes reparented by committed moves",
		}),
		checkTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nodeforest_move_checks_total",
			Help: "Speculative move validations by result",
		}, []string{"result"}),

		storageTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nodeforest_storage_operations_total",
			Help: "Repository operations by backend, operation and result",
		}, []string{"backend", "op", "result"}),
		storageDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nodeforest_storage_duration_seconds",
			Help:    "Repository operation duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		}, []string{"backend", "op"}),

		httpTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "nodeforest_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nodeforest_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry returns the underlying registry.
func (p *Prometheus) Registry() *prometheus.Registry { return p.registry }

// Handler serves the registry in the Prometheus exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

func (p *Prometheus) OnQuery(_ context.Context, flat bool, nodeCount int, duration time.Duration, err error) {
	shape := "tree"
	if flat {
		shape = "flat"
	}
	p.queryTotal.WithLabelValues(shape, result(err)).Inc()
	p.queryDuration.WithLabelValues(shape).Observe(duration.Seconds())
	if err == nil {
		p.queryNodes.Set(float64(nodeCount))
	}
}

func (p *Prometheus) OnMove(_ context.Context, batchSize, moved int, duration time.Duration, err error) {
	p.moveTotal.WithLabelValues(moveResult(err), string(nferrors.GetCode(err))).Inc()
	p.moveBatchSize.Observe(float64(batchSize))
	if err == nil {
		p.moveDuration.Observe(duration.Seconds())
		p.movedNodes.Add(float64(moved))
	}
}

func (p *Prometheus) OnCheck(_ context.Context, _ int, err error) {
	p.checkTotal.WithLabelValues(moveResult(err)).Inc()
}

func (p *Prometheus) OnRead(_ context.Context, backend string, duration time.Duration, err error) {
	p.storageTotal.WithLabelValues(backend, "read", result(err)).Inc()
	p.storageDuration.WithLabelValues(backend, "read").Observe(duration.Seconds())
}

func (p *Prometheus) OnWrite(_ context.Context, backend string, _ int, duration time.Duration, err error) {
	p.storageTotal.WithLabelValues(backend, "write", result(err)).Inc()
	p.storageDuration.WithLabelValues(backend, "write").Observe(duration.Seconds())
}

func (p *Prometheus) OnResponse(_ context.Context, method, route string, statusCode int, duration time.Duration) {
	p.httpTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	p.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// moveResult labels a move outcome with "ok" or the error category.
func moveResult(err error) string {
	if err == nil {
		return "ok"
	}
	return nferrors.CategoryOf(err).String()
}

var _ AllHooks = (*Prometheus)(nil)
