package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/abhisek/wallstreet101/internal/badges"
)

// metrics holds the server's collectors on a private registry.
type metrics struct {
	registry *prometheus.Registry

	requests       *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	badgesAwarded  *prometheus.CounterVec
	quizAnswers    *prometheus.CounterVec
	activeSessions prometheus.Gauge
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ws101_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ws101_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: []float64{0.005, 0.025, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "endpoint"},
		),
		badgesAwarded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ws101_badges_awarded_total",
				Help: "Badges awarded across all sessions",
			},
			[]string{"badge"},
		),
		quizAnswers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ws101_quiz_answers_total",
				Help: "Quiz answers graded, by result",
			},
			[]string{"result"},
		),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ws101_active_sessions",
			Help: "Sessions currently held in memory",
		}),
	}
	m.registry.MustRegister(
		m.requests, m.duration, m.badgesAwarded, m.quizAnswers, m.activeSessions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *metrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.requests.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}

func (m *metrics) handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

func (m *metrics) observeAward(a badges.Award) {
	m.badgesAwarded.WithLabelValues(string(a.Badge.ID)).Inc()
}

func (m *metrics) observeAnswer(correct bool) {
	result := "incorrect"
	if correct {
		result = "correct"
	}
	m.quizAnswers.WithLabelValues(result).Inc()
}
