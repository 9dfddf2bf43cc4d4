package serve

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts the requests of the codec service.
type Metrics struct {
	Connections prometheus.Gauge
	Requests    *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
	Headers     *prometheus.CounterVec
	Frames      *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Connections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "gsml3_serve_connections",
			Help: "Current number of client connections",
		}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gsml3_serve_requests_total",
			Help: "Requests by message type and codec status",
		}, []string{"type", "status"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gsml3_serve_request_duration_seconds",
			Help:    "Time spent in the codec per request",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
		}, []string{"type"}),
		Headers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gsml3_serve_gsmtap_headers_total",
			Help: "Forwarded GSMTAP headers by GSMTAP type",
		}, []string{"type"}),
		Frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "gsml3_serve_frames_total",
			Help: "Forwarded GSMTAP frames by protocol",
		}, []string{"protocol"}),
	}
	reg.MustRegister(m.Connections, m.Requests, m.Duration, m.Headers, m.Frames)
	return m
}
