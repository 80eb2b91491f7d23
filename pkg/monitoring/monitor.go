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

	// MCQSessionsTotal 按事件统计练习会话（started / ended）
	MCQSessionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcq_sessions_total",
			Help: "MCQ practice sessions by lifecycle event",
		},
		[]string{"event"},
	)

	MCQQuestionsServed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "mcq_questions_served_total",
			Help: "Questions attached to practice sessions",
		},
	)

	// MCQAnswersTotal result: correct / incorrect / skipped
	MCQAnswersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcq_answers_total",
			Help: "Submitted MCQ answers by result",
		},
		[]string{"result"},
	)

	MCQConflicts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcq_conflicts_total",
			Help: "Rejected concurrent or repeated MCQ writes",
		},
		[]string{"operation"},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(MCQSessionsTotal)
		prometheus.MustRegister(MCQQuestionsServed)
		prometheus.MustRegister(MCQAnswersTotal)
		prometheus.MustRegister(MCQConflicts)
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
