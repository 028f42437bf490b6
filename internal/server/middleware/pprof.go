package middleware

import (
	"net/http"
	"net/http/pprof"

	"github.com/labstack/echo/v4"
)

const pprofPrefix = "/debug/pprof"

// PprofWrap serves the runtime profiles under /debug/pprof. The index handler
// also serves every named profile (heap, goroutine, allocs...). m guards the
// whole group.
func PprofWrap(e *echo.Echo, m ...echo.MiddlewareFunc) {
	g := e.Group(pprofPrefix, m...)
	g.GET("/cmdline", echo.WrapHandler(http.HandlerFunc(pprof.Cmdline)))
	g.GET("/profile", echo.WrapHandler(http.HandlerFunc(pprof.Profile)))
	g.GET("/symbol", echo.WrapHandler(http.HandlerFunc(pprof.Symbol)))
	g.POST("/symbol", echo.WrapHandler(http.HandlerFunc(pprof.Symbol)))
	g.GET("/trace", echo.WrapHandler(http.HandlerFunc(pprof.Trace)))
	g.GET("/*", echo.WrapHandler(http.HandlerFunc(pprof.Index)))
}
