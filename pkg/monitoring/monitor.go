package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	AssignmentSaves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_assignment_saves_total",
			Help: "Survey assignment saves by evaluation type and result",
		},
		[]string{"evaluation_type", "result"},
	)

	SampledStudents = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "survey_sampled_students",
			Help:    "Number of students selected per survey save",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	ReportsBuilt = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "survey_reports_built_total",
			Help: "Survey reports built by kind and result",
		},
		[]string{"kind", "result"},
	)
)

var registerOnce sync.Once

func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(AssignmentSaves)
		prometheus.MustRegister(SampledStudents)
		prometheus.MustRegister(ReportsBuilt)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
