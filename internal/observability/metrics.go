package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds the service's Prometheus metrics on a private registry
type Collector struct {
	reg *prometheus.Registry

	HTTPRequests  *prometheus.CounterVec   // method, route, status
	HTTPDurations *prometheus.HistogramVec // method, route

	Estimates      *prometheus.CounterVec // source: server|calculated|default
	TrailsBuilt    prometheus.Counter
	DensityFrames  prometheus.Counter
	AnalysisTasks  *prometheus.CounterVec // skill, status
	ActiveVessels  prometheus.Gauge
	NATSPublished  prometheus.Counter
	NATSPublishErr prometheus.Counter
	NATSConnected  prometheus.Gauge

	PublishDuration prometheus.Histogram
}

// NewCollector creates and registers all metrics
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scrubber_http_requests_total",
			Help: "Total HTTP requests, labeled by method, route and status code.",
		}, []string{"method", "route", "status"}),
		HTTPDurations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scrubber_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Estimates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scrubber_discharge_estimates_total",
			Help: "Discharge estimates produced, labeled by rate source.",
		}, []string{"source"}),
		TrailsBuilt: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scrubber_discharge_trails_total",
			Help: "Total discharge trails built.",
		}),
		DensityFrames: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scrubber_density_frames_total",
			Help: "Total density frames aggregated.",
		}),
		AnalysisTasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scrubber_analysis_tasks_total",
			Help: "Analysis tasks that reached a final status, labeled by skill and status.",
		}, []string{"skill", "status"}),
		ActiveVessels: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scrubber_active_vessels",
			Help: "Vessels returned by the last active-ships query.",
		}),
		NATSPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scrubber_nats_published_total",
			Help: "Total NATS messages published.",
		}),
		NATSPublishErr: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scrubber_nats_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "scrubber_nats_connected",
			Help: "1 if NATS connection is established, 0 otherwise.",
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scrubber_publish_duration_seconds",
			Help:    "Duration to marshal and publish a NATS message.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
	}

	reg.MustRegister(
		c.HTTPRequests, c.HTTPDurations,
		c.Estimates, c.TrailsBuilt, c.DensityFrames, c.AnalysisTasks, c.ActiveVessels,
		c.NATSPublished, c.NATSPublishErr, c.NATSConnected, c.PublishDuration,
	)

	return c
}

// Registry exposes the underlying registry as a gatherer
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// ObserveHTTP records one handled request
func (c *Collector) ObserveHTTP(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDurations.WithLabelValues(method, route).Observe(d.Seconds())
}

// EstimateInc counts one discharge estimate by its rate source
func (c *Collector) EstimateInc(source string) { c.Estimates.WithLabelValues(source).Inc() }

// TrailInc counts one built trail
func (c *Collector) TrailInc() { c.TrailsBuilt.Inc() }

// FramesAdd counts aggregated density frames
func (c *Collector) FramesAdd(n int) { c.DensityFrames.Add(float64(n)) }

// TaskFinished counts an analysis task reaching status
func (c *Collector) TaskFinished(skill, status string) {
	c.AnalysisTasks.WithLabelValues(skill, status).Inc()
}

// SetActiveVessels records the size of the active fleet
func (c *Collector) SetActiveVessels(n int) { c.ActiveVessels.Set(float64(n)) }

func (c *Collector) NATSPublishedInc()               { c.NATSPublished.Inc() }
func (c *Collector) NATSPublishErrInc()              { c.NATSPublishErr.Inc() }
func (c *Collector) PublishObserve(d time.Duration) { c.PublishDuration.Observe(d.Seconds()) }

func (c *Collector) NATSSetConnected(connected bool) {
	if connected {
		c.NATSConnected.Set(1)
		return
	}
	c.NATSConnected.Set(0)
}
