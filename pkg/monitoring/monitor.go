package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry 独立于默认 registry，测试里多次构建 router 不会重复注册
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	RequestCounter = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route template and status",
	}, []string{"method", "route", "status"})

	RequestDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route template",
		Buckets: []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "route"})

	CatsWritten = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "kittygram_cats_written_total",
		Help: "Cats created, updated or deleted",
	}, []string{"op"})

	AchievementsResolved = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "kittygram_achievements_resolved_total",
		Help: "Achievements resolved by name, split by whether a new row was created",
	}, []string{"created"})

	ImagesStored = factory.NewCounter(prometheus.CounterOpts{
		Name: "kittygram_images_stored_total",
		Help: "Cat images written to storage",
	})

	CatCacheLookups = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "kittygram_cat_cache_lookups_total",
		Help: "Cat detail cache lookups",
	}, []string{"result"})
)

var runtimeOnce sync.Once

// Init 注册进程与 Go 运行时指标，可重复调用
func Init() {
	runtimeOnce.Do(func() {
		Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
}

// MetricsMiddleware 以路由模板为标签，未匹配的路径合并成一个值
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		RequestCounter.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
	return gin.WrapH(h)
}
