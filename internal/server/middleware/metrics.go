package middleware

import (
	"errors"
	"reflect"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsConfig configures Metrics. Requests are labelled by route template,
// method and status class; unmatched paths share the UnmatchedRoute label.
type MetricsConfig struct {
	Skipper        Skipper
	Namespace      string
	Buckets        []float64
	MetricsPath    string
	UnmatchedRoute string
	Registerer     prometheus.Registerer
	Gatherer       prometheus.Gatherer
}

const requestDurationName = "http_request_duration_seconds"

var DefaultMetricsConfig = MetricsConfig{
	Skipper:        DefaultSkipper,
	Namespace:      "storefront",
	Buckets:        []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	MetricsPath:    "/metrics",
	UnmatchedRoute: "unmatched",
}

func statusClass(status int) string {
	if status < 100 || status > 599 {
		return strconv.Itoa(status)
	}
	return strconv.Itoa(status/100) + "xx"
}

func isNotFoundHandler(handler echo.HandlerFunc) bool {
	return reflect.ValueOf(handler).Pointer() == reflect.ValueOf(echo.NotFoundHandler).Pointer()
}

// Metrics records request durations and serves them on the metrics path.
func Metrics() echo.MiddlewareFunc {
	return MetricsWithConfig(DefaultMetricsConfig)
}

func MetricsWithConfig(config MetricsConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultSkipper
	}
	if config.UnmatchedRoute == "" {
		config.UnmatchedRoute = DefaultMetricsConfig.UnmatchedRoute
	}
	if config.Registerer == nil {
		config.Registerer = prometheus.DefaultRegisterer
	}
	if config.Gatherer == nil {
		config.Gatherer = prometheus.DefaultGatherer
	}

	durations, err := registerRequestDurations(config)
	if err != nil {
		panic(err)
	}

	var serveMetrics echo.HandlerFunc
	if config.MetricsPath != "" {
		serveMetrics = echo.WrapHandler(promhttp.HandlerFor(config.Gatherer, promhttp.HandlerOpts{}))
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if serveMetrics != nil && req.URL.Path == config.MetricsPath {
				return serveMetrics(c)
			}
			if config.Skipper(c) {
				return next(c)
			}

			route := c.Path()
			if route == "" || isNotFoundHandler(c.Handler()) {
				route = config.UnmatchedRoute
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				// the status is only known once the error handler ran
				c.Error(err)
			}
			durations.WithLabelValues(route, req.Method, statusClass(c.Response().Status)).
				Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func registerRequestDurations(config MetricsConfig) (*prometheus.HistogramVec, error) {
	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: config.Namespace,
		Name:      requestDurationName,
		Help:      "Time spent serving a storefront route.",
		Buckets:   config.Buckets,
	}, []string{"route", "method", "status"})

	err := config.Registerer.Register(durations)
	var registered prometheus.AlreadyRegisteredError
	if errors.As(err, &registered) {
		if existing, ok := registered.ExistingCollector.(*prometheus.HistogramVec); ok {
			return existing, nil
		}
	}
	return durations, err
}
