package middleware

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gopkg.in/alexcesaro/statsd.v2"
)

// ProfilerConfig configures Profiler. Timings are sent to the statsd agent at
// Address under "<Service>.response.<method>.<route>.<status>".
type ProfilerConfig struct {
	Log     *zap.SugaredLogger
	Skipper Skipper
	Address string
	Service string
}

var DefaultProfilerConfig = ProfilerConfig{
	Skipper: DefaultSkipper,
	Address: ":8125",
	Service: "storefront",
}

// timingBucket turns a route template into a statsd-safe bucket name.
var timingBucket = strings.NewReplacer("/", "_", ":", "", ".", "_", "*", "any")

func timingName(method, route string, status int) string {
	route = strings.Trim(route, "/")
	if route == "" {
		route = "root"
	}
	return strings.ToLower("response." + method + "." + timingBucket.Replace(route) + "." + strconv.Itoa(status))
}

// Profiler reports every request's duration to statsd. It panics when the
// client cannot be built.
func Profiler(config ProfilerConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultProfilerConfig.Skipper
	}
	if config.Address == "" {
		config.Address = DefaultProfilerConfig.Address
	}
	if config.Service == "" {
		config.Service = DefaultProfilerConfig.Service
	}

	opts := []statsd.Option{statsd.Address(config.Address), statsd.Prefix(config.Service)}
	if config.Log != nil {
		opts = append(opts, statsd.ErrorHandler(func(err error) {
			config.Log.Warnw("statsd write failed", "error", err)
		}))
	}
	client, err := statsd.New(opts...)
	if err != nil {
		panic(err)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			timing := client.NewTiming()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			name := timingName(c.Request().Method, c.Path(), c.Response().Status)
			if config.Log != nil {
				config.Log.Debugw("statsd timing", "metric", name)
			}
			timing.Send(name)
			return err
		}
	}
}
