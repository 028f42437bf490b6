package server

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"

	"github.com/prairiegroup/storefront/internal/config"
	"github.com/prairiegroup/storefront/internal/repo/storefront"
	pkgmdw "github.com/prairiegroup/storefront/internal/server/middleware"
	"github.com/prairiegroup/storefront/internal/session"
	"github.com/prairiegroup/storefront/pkg/logger"
	log "github.com/prairiegroup/storefront/pkg/logger/log"
	"github.com/prairiegroup/storefront/pkg/util"
)

// NewEcho builds the HTTP handler with every middleware and route.
func NewEcho(conf *config.Config, handler Controller, renderer *Renderer, store session.Store) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = pkgmdw.NewValidator()
	e.Renderer = renderer
	e.HTTPErrorHandler = errorHandler(renderer)

	logConfig := pkgmdw.LogRequestConfig{
		Logger: logger.MustNamed("http"),
		Enabled: func(c echo.Context) bool {
			return !util.SliceIncludes(conf.Server.SkipLogURIs, c.Request().URL.Path)
		},
		KeyAndValues: func(c echo.Context) []any {
			args := make([]any, 0, 4)
			if ops := storefront.Operations(c.Request().Context()); len(ops) > 0 {
				args = append(args, "operations", ops)
			}
			if session.FromContext(c).AccessToken() != nil {
				args = append(args, "customer", true)
			}
			return args
		},
	}

	e.Pre(middleware.MethodOverrideWithConfig(middleware.MethodOverrideConfig{
		Getter: middleware.MethodFromForm("_method"),
	}))
	e.Use(pkgmdw.Metrics())
	if conf.Metrics.StatsdAddress != "" {
		e.Use(pkgmdw.Profiler(pkgmdw.ProfilerConfig{
			Log:     logger.MustNamed("statsd"),
			Address: conf.Metrics.StatsdAddress,
			Service: conf.Metrics.Service,
		}))
	}
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.LogRequest(logConfig))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Errorw(c.Request().Context(), "PANIC RECOVER", "error", err, "stack", string(stack))
			return err
		},
	}))
	if conf.Server.CORSPattern != "" {
		e.Use(pkgmdw.CORS(regexp.MustCompile(conf.Server.CORSPattern)))
	}
	if conf.Server.Pprof {
		pkgmdw.PprofWrap(e)
	}

	e.GET("/health", handler.Health)

	pages := e.Group("", session.Middleware(store))
	pages.GET("/", handler.Home)
	pages.GET("/about", handler.About)
	pages.GET("/collections", handler.Collections)
	pages.GET("/collections/", handler.Collection)
	pages.GET("/collections/:handle", handler.Collection)
	pages.GET("/products/:handle", handler.Product)
	pages.GET("/policies", handler.Policies)
	pages.GET("/policies/:handle", handler.Policy)

	pages.GET("/account/login", handler.LoginPage)
	pages.POST("/account/login", handler.Login)
	pages.POST("/account/logout", handler.Logout)
	pages.GET("/account/register", handler.RegisterPage)
	pages.POST("/account/register", handler.Register)
	pages.GET("/account/recover", handler.RecoverPage)
	pages.POST("/account/recover", handler.Recover)
	pages.GET("/account/reset/:id/:resetToken", handler.ResetPage)
	pages.POST("/account/reset/:id/:resetToken", handler.Reset)
	pages.GET("/account/activate/:id/:activationToken", handler.ActivatePage)
	pages.POST("/account/activate/:id/:activationToken", handler.Activate)

	pages.GET("/account", handler.Account, pkgmdw.CustomerAuth(redirectToLogin))
	pages.GET("/account/profile", handler.Profile, pkgmdw.CustomerAuth(redirectToLogin))
	pages.PUT("/account/profile", handler.UpdateProfile, pkgmdw.CustomerAuth(nil))

	api := e.Group("/api/v1")
	api.GET("/collections", pkgmdw.WrapHandler(handler.ListCollections))
	api.GET("/collections/:handle", pkgmdw.WrapHandler(handler.GetCollection))

	return e
}

func StartServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	e *echo.Echo,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				addr := conf.Server.Addr()
				log.Infow(ctx, "starting HTTP server", "addr", addr)
				if err := e.Start(addr); !errors.Is(err, http.ErrServerClosed) {
					log.Errorw(ctx, "HTTP server stopped", "error", err)
					sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}
